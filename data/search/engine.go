package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ncobase/herosearch/data/search"

// Engine is the search façade used by application code. It translates
// requests, executes them over a Transport and maps the results.
type Engine struct {
	transport Transport
	admin     *Administrator
	collector Collector
	logger    logrus.FieldLogger
	tracer    trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithCollector sets the metrics collector.
func WithCollector(c Collector) Option {
	return func(e *Engine) {
		if c != nil {
			e.collector = c
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewEngine creates an engine over t.
func NewEngine(t Transport, opts ...Option) (*Engine, error) {
	if t == nil {
		return nil, ErrNoTransport
	}
	e := &Engine{
		transport: t,
		admin:     NewAdministrator(t),
		collector: NoOpCollector{},
		logger:    logrus.StandardLogger(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Transport returns the underlying transport.
func (e *Engine) Transport() Transport { return e.transport }

// Admin returns the index administrator.
func (e *Engine) Admin() *Administrator { return e.admin }

func (e *Engine) engine() string { return string(e.transport.Type()) }

func (e *Engine) start(ctx context.Context, op, index string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "search."+op, trace.WithAttributes(
		attribute.String("search.engine", e.engine()),
		attribute.String("search.index", index),
	))
}

// finish ends span and reports err, if any.
func (e *Engine) finish(span trace.Span, op, index string, err error) {
	defer span.End()
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.logger.WithFields(logrus.Fields{
		"engine": e.engine(),
		"op":     op,
		"index":  index,
	}).WithError(err).Error("search operation failed")
}

// Index writes every entity to its index, stopping at the first failure.
func (e *Engine) Index(ctx context.Context, entities ...Indexable) (err error) {
	for _, entity := range entities {
		if err = e.indexOne(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) indexOne(ctx context.Context, entity Indexable) (err error) {
	index := entity.SearchableAs()
	ctx, span := e.start(ctx, OpIndexDocument, index)
	defer func() { e.finish(span, OpIndexDocument, index, err) }()

	span.SetAttributes(attribute.String("search.id", entity.SearchKey()))
	err = e.transport.IndexDocument(ctx, index, entity.SearchKey(), entity.ToSearchableMap())
	e.collector.SearchIndex(e.engine(), "index")
	return err
}

// Remove deletes every entity from its index, stopping at the first failure.
func (e *Engine) Remove(ctx context.Context, entities ...Indexable) error {
	for _, entity := range entities {
		if err := e.removeOne(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) removeOne(ctx context.Context, entity Indexable) (err error) {
	index := entity.SearchableAs()
	ctx, span := e.start(ctx, OpDeleteDocument, index)
	defer func() { e.finish(span, OpDeleteDocument, index, err) }()

	span.SetAttributes(attribute.String("search.id", entity.SearchKey()))
	err = e.transport.DeleteDocument(ctx, index, entity.SearchKey())
	e.collector.SearchIndex(e.engine(), "delete")
	return err
}

// BulkIndex writes entities in one request per index when the transport
// supports batching, and one document at a time otherwise.
func (e *Engine) BulkIndex(ctx context.Context, entities ...Indexable) error {
	bulk, ok := e.transport.(BulkIndexer)
	if !ok {
		return e.Index(ctx, entities...)
	}
	indexes, groups := groupByIndex(entities)
	for _, index := range indexes {
		docs := make([]Document, 0, len(groups[index]))
		for _, entity := range groups[index] {
			docs = append(docs, Document{ID: entity.SearchKey(), Body: entity.ToSearchableMap()})
		}
		if err := e.bulk(ctx, index, "bulk_index", func(ctx context.Context) error {
			return bulk.BulkIndex(ctx, index, docs)
		}); err != nil {
			return err
		}
	}
	return nil
}

// BulkRemove deletes entities in one request per index when the transport
// supports batching, and one document at a time otherwise.
func (e *Engine) BulkRemove(ctx context.Context, entities ...Indexable) error {
	bulk, ok := e.transport.(BulkIndexer)
	if !ok {
		return e.Remove(ctx, entities...)
	}
	indexes, groups := groupByIndex(entities)
	for _, index := range indexes {
		ids := make([]string, 0, len(groups[index]))
		for _, entity := range groups[index] {
			ids = append(ids, entity.SearchKey())
		}
		if err := e.bulk(ctx, index, "bulk_delete", func(ctx context.Context) error {
			return bulk.BulkDelete(ctx, index, ids)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) bulk(ctx context.Context, index, operation string, fn func(context.Context) error) (err error) {
	ctx, span := e.start(ctx, OpBulk, index)
	defer func() { e.finish(span, OpBulk, index, err) }()

	err = fn(ctx)
	e.collector.SearchIndex(e.engine(), operation)
	return err
}

// groupByIndex groups entities by index, keeping first-seen index order.
func groupByIndex(entities []Indexable) ([]string, map[string][]Indexable) {
	var order []string
	groups := make(map[string][]Indexable)
	for _, entity := range entities {
		index := entity.SearchableAs()
		if _, ok := groups[index]; !ok {
			order = append(order, index)
		}
		groups[index] = append(groups[index], entity)
	}
	return order, groups
}

// Search executes req with the default window, or the window req carries.
func (e *Engine) Search(ctx context.Context, req Request) (*ResultSet, error) {
	return e.search(ctx, req, nil)
}

// Paginate executes req for a 1-based page of perPage results.
func (e *Engine) Paginate(ctx context.Context, req Request, perPage, page int) (*ResultSet, error) {
	if perPage < 1 || page < 1 {
		return nil, fmt.Errorf("%w: per page %d, page %d", ErrInvalidPagination, perPage, page)
	}
	p := PageOf(perPage, page)
	return e.search(ctx, req, &p)
}

// Build returns the wire query req translates to.
func (e *Engine) Build(req Request, page *Page) *WireQuery {
	var fields []string
	if req.Entity != nil {
		fields = SearchableFieldsOf(req.Entity)
	}
	return Translate(req, fields, page)
}

func (e *Engine) search(ctx context.Context, req Request, page *Page) (_ *ResultSet, err error) {
	if req.Entity == nil {
		return nil, fmt.Errorf("%w: request has no entity", ErrUnresolvableEntityType)
	}
	q := e.Build(req, page)

	ctx, span := e.start(ctx, OpSearch, q.Index)
	defer func() { e.finish(span, OpSearch, q.Index, err) }()
	span.SetAttributes(
		attribute.Int("search.from", q.From),
		attribute.Int("search.size", q.Size),
		attribute.Bool("search.callback", req.Callback != nil),
	)

	var raw *RawResponse
	if req.Callback != nil {
		raw, err = req.Callback(ctx, e.transport, q)
	} else {
		raw, err = e.transport.Search(ctx, q)
	}
	e.collector.SearchQuery(e.engine(), err)
	if err != nil {
		return nil, err
	}
	return newResultSet(raw), nil
}

// Scroll fetches the next batch of a scroll cursor.
func (e *Engine) Scroll(ctx context.Context, scrollID string) (_ *ResultSet, err error) {
	scroller, ok := e.transport.(Scroller)
	if !ok {
		return nil, fmt.Errorf("%w: %s scroll", ErrUnsupported, e.engine())
	}

	ctx, span := e.start(ctx, OpScroll, "")
	defer func() { e.finish(span, OpScroll, "", err) }()

	raw, err := scroller.Scroll(ctx, scrollID, ScrollKeepAlive)
	e.collector.SearchQuery(e.engine(), err)
	if err != nil {
		return nil, err
	}
	return newResultSet(raw), nil
}

// ClearScroll releases scroll cursors.
func (e *Engine) ClearScroll(ctx context.Context, scrollIDs ...string) (err error) {
	scroller, ok := e.transport.(Scroller)
	if !ok {
		return fmt.Errorf("%w: %s scroll", ErrUnsupported, e.engine())
	}
	if len(scrollIDs) == 0 {
		return nil
	}

	ctx, span := e.start(ctx, OpClearScroll, "")
	defer func() { e.finish(span, OpClearScroll, "", err) }()

	return scroller.ClearScroll(ctx, scrollIDs...)
}

// Flush removes every document of the entity type by rebuilding its index.
func (e *Engine) Flush(ctx context.Context, entity Indexable) error {
	return e.Apply(ctx, RebuildIndex{Entity: entity})
}

// Apply runs an index lifecycle operation.
func (e *Engine) Apply(ctx context.Context, op IndexOperation) (err error) {
	var index string
	if op != nil {
		index = op.Target()
	}
	name := operationName(op)
	ctx, span := e.start(ctx, name, index)
	defer func() { e.finish(span, name, index, err) }()

	err = e.admin.Apply(ctx, op)
	e.collector.SearchIndex(e.engine(), name)
	return err
}

// Health checks the engine.
func (e *Engine) Health(ctx context.Context) error {
	hc, ok := e.transport.(HealthChecker)
	if !ok {
		return fmt.Errorf("%w: %s health", ErrUnsupported, e.engine())
	}
	return hc.Health(ctx)
}

// IndexExists reports whether the index of entity exists.
func (e *Engine) IndexExists(ctx context.Context, entity Indexable) (bool, error) {
	inspector, ok := e.transport.(IndexInspector)
	if !ok {
		return false, fmt.Errorf("%w: %s index inspection", ErrUnsupported, e.engine())
	}
	return inspector.IndexExists(ctx, entity.SearchableAs())
}

// IsNotFound reports whether err means the index or document does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
