package search

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves entity type identifiers to registered prototypes.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Indexable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Indexable)}
}

// Register makes a type resolvable by name. Registering a name twice is an error.
func (r *Registry) Register(name string, prototype Indexable) error {
	if name == "" {
		return fmt.Errorf("search: register entity type: name is empty")
	}
	if prototype == nil {
		return fmt.Errorf("search: register entity type %q: prototype is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return fmt.Errorf("search: entity type %q registered twice", name)
	}
	r.types[name] = prototype
	return nil
}

// RegisterTypes registers each descriptor under its own name.
func (r *Registry) RegisterTypes(types ...EntityType) error {
	for _, t := range types {
		if err := r.Register(t.Name, t); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the prototype registered under name.
func (r *Registry) Resolve(name string) (Indexable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prototype, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableEntityType, name)
	}
	return prototype, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
