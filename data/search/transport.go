package search

import (
	"context"
	"time"
)

// Transport executes wire-level requests against a search engine.
type Transport interface {
	Type() EngineType
	IndexDocument(ctx context.Context, index, id string, body map[string]any) error
	DeleteDocument(ctx context.Context, index, id string) error
	Search(ctx context.Context, q *WireQuery) (*RawResponse, error)
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DeleteIndex(ctx context.Context, index string) error
}

// Scroller is implemented by transports that support scroll cursors.
type Scroller interface {
	Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*RawResponse, error)
	ClearScroll(ctx context.Context, scrollIDs ...string) error
}

// Document is a single entry of a bulk request.
type Document struct {
	ID   string
	Body map[string]any
}

// BulkIndexer is implemented by transports that can batch document writes.
type BulkIndexer interface {
	BulkIndex(ctx context.Context, index string, docs []Document) error
	BulkDelete(ctx context.Context, index string, ids []string) error
}

// IndexInspector is implemented by transports that can tell whether an
// index exists.
type IndexInspector interface {
	IndexExists(ctx context.Context, index string) (bool, error)
}

// HealthChecker is implemented by transports that can check engine health.
type HealthChecker interface {
	Health(ctx context.Context) error
}
