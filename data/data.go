package data

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data/search"
)

// Data holds the connected search engine and the entity types it serves.
type Data struct {
	Engine   *search.Engine
	Registry *search.Registry

	mu        sync.RWMutex
	transport search.Transport
	closer    func() error
	collector Collector
	closed    bool
}

// Collector receives data layer samples. search.Collector plus health checks.
type Collector interface {
	search.Collector
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct {
	search.NoOpCollector
}

func (NoOpCollector) HealthCheck(string, bool) {}

// Option function type for configuring Data
type Option func(*options)

type options struct {
	collector  Collector
	engineOpts []search.Option
	transport  search.Transport
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector Collector) Option {
	return func(o *options) {
		if collector != nil {
			o.collector = collector
		}
	}
}

// WithEngineOptions passes options through to the search engine.
func WithEngineOptions(opts ...search.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithTransport uses t instead of opening the configured driver.
func WithTransport(t search.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// New connects the configured search engine and registers the entity types
// declared in configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Data, func(), error) {
	if cfg == nil || cfg.Search == nil {
		return nil, nil, errors.New("data: search config is nil")
	}

	o := &options{collector: NoOpCollector{}}
	for _, opt := range opts {
		opt(o)
	}

	registry := search.NewRegistry()
	if err := registry.RegisterTypes(cfg.Search.Entities...); err != nil {
		return nil, nil, err
	}

	t, closer := o.transport, func() error { return nil }
	if t == nil {
		var err error
		if t, closer, err = Open(ctx, cfg.Search); err != nil {
			return nil, nil, err
		}
	}

	engine, err := search.NewEngine(t, append([]search.Option{search.WithCollector(o.collector)}, o.engineOpts...)...)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}

	d := &Data{
		Engine:    engine,
		Registry:  registry,
		transport: t,
		closer:    closer,
		collector: o.collector,
	}

	cleanup := func() {
		if errs := d.Close(); len(errs) > 0 {
			fmt.Printf("cleanup errors: %v\n", errs)
		}
	}
	return d, cleanup, nil
}

// Transport returns the connected transport.
func (d *Data) Transport() search.Transport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.transport
}

// Resolve returns the entity type registered under name.
func (d *Data) Resolve(name string) (search.Indexable, error) {
	return d.Registry.Resolve(name)
}

// Close closes the search engine connection
func (d *Data) Close() []error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.closer != nil {
		if err := d.closer(); err != nil {
			errs = append(errs, err)
		}
	}
	d.transport = nil
	return errs
}
