package search

import (
	"context"
	"errors"
	"fmt"
)

// IndexOperation is an index lifecycle operation applied by an Administrator.
type IndexOperation interface {
	indexOperation()
	// Target returns the index the operation acts on.
	Target() string
}

// CreateIndex creates an index from a definition.
type CreateIndex struct {
	Definition *IndexDefinition
}

// DeleteIndex drops an index.
type DeleteIndex struct {
	Name string
}

// RebuildIndex drops the index of an entity type and creates it again empty.
type RebuildIndex struct {
	Entity Indexable
}

func (CreateIndex) indexOperation()  {}
func (DeleteIndex) indexOperation()  {}
func (RebuildIndex) indexOperation() {}

func (op CreateIndex) Target() string {
	if op.Definition == nil {
		return ""
	}
	return op.Definition.Name
}

func (op DeleteIndex) Target() string { return op.Name }

func (op RebuildIndex) Target() string {
	if op.Entity == nil {
		return ""
	}
	return op.Entity.SearchableAs()
}

// Administrator manages index lifecycle against a transport.
type Administrator struct {
	transport Transport
}

// NewAdministrator creates an administrator over t.
func NewAdministrator(t Transport) *Administrator {
	return &Administrator{transport: t}
}

// Create creates the index described by def.
func (a *Administrator) Create(ctx context.Context, def *IndexDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: definition is nil", ErrInvalidDefinition)
	}
	if err := def.Validate(); err != nil {
		return err
	}
	return a.transport.CreateIndex(ctx, def)
}

// Delete drops the named index.
func (a *Administrator) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidDefinition)
	}
	return a.transport.DeleteIndex(ctx, name)
}

// Rebuild drops the index of entity, if present, and creates it again with
// the default definition. Documents are not re-indexed.
func (a *Administrator) Rebuild(ctx context.Context, entity Indexable) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrUnresolvableEntityType)
	}
	def := DefinitionFor(entity)
	if err := def.Validate(); err != nil {
		return err
	}
	if err := a.transport.DeleteIndex(ctx, def.Name); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return a.transport.CreateIndex(ctx, def)
}

// Apply runs op.
func (a *Administrator) Apply(ctx context.Context, op IndexOperation) error {
	switch op := op.(type) {
	case CreateIndex:
		return a.Create(ctx, op.Definition)
	case DeleteIndex:
		return a.Delete(ctx, op.Name)
	case RebuildIndex:
		return a.Rebuild(ctx, op.Entity)
	case nil:
		return fmt.Errorf("%w: operation is nil", ErrUnsupported)
	default:
		return fmt.Errorf("%w: index operation %T", ErrUnsupported, op)
	}
}

func operationName(op IndexOperation) string {
	switch op.(type) {
	case CreateIndex:
		return "create"
	case DeleteIndex:
		return "delete"
	case RebuildIndex:
		return "rebuild"
	default:
		return "unknown"
	}
}
