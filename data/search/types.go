package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// EngineType represents search engine type
type EngineType string

const (
	Elasticsearch EngineType = "elasticsearch"
	OpenSearch    EngineType = "opensearch"
	Meilisearch   EngineType = "meilisearch"
)

const (
	// DefaultLimit caps the window of a search that has no explicit page.
	DefaultLimit = 5000

	// ScrollKeepAlive is the cursor keep-alive requested with every search.
	ScrollKeepAlive = 30 * time.Second

	// KeyField is the identifier field used for the default sort.
	KeyField = "id"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders results by a single field.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Page is a pagination window.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageOf returns the window of a 1-based page.
func PageOf(perPage, page int) Page {
	return Page{Offset: (page - 1) * perPage, Limit: perPage}
}

// RawCallback takes over execution of a built query. The returned response is
// mapped the same way an executed query would be.
type RawCallback func(ctx context.Context, t Transport, q *WireQuery) (*RawResponse, error)

// Request represents an engine-agnostic search request.
//
// The helper methods use value receivers and return modified copies, so a
// Request can be shared and extended without affecting other holders.
type Request struct {
	Entity   Indexable
	Query    string
	Filters  map[string]any
	Sorts    []Sort
	Window   *Page
	Callback RawCallback
}

// NewRequest starts a request against the index of entity.
func NewRequest(entity Indexable) Request {
	return Request{Entity: entity}
}

// Search sets the free-text query.
func (r Request) Search(query string) Request {
	r.Query = query
	return r
}

// Where adds a field filter. Filters replace free-text relevance.
func (r Request) Where(field string, value any) Request {
	filters := make(map[string]any, len(r.Filters)+1)
	maps.Copy(filters, r.Filters)
	filters[field] = value
	r.Filters = filters
	return r
}

// OrderBy appends a sort on field.
func (r Request) OrderBy(field string, dir Direction) Request {
	sorts := make([]Sort, 0, len(r.Sorts)+1)
	sorts = append(sorts, r.Sorts...)
	r.Sorts = append(sorts, Sort{Field: field, Direction: dir})
	return r
}

// Take sets the caller window.
func (r Request) Take(offset, limit int) Request {
	r.Window = &Page{Offset: offset, Limit: limit}
	return r
}

// Using installs a raw callback.
func (r Request) Using(cb RawCallback) Request {
	r.Callback = cb
	return r
}

// index returns the index name the request targets.
func (r Request) index() string {
	if r.Entity == nil {
		return ""
	}
	return r.Entity.SearchableAs()
}

// ResultSet represents the translated result of a search
type ResultSet struct {
	IDs      []string     `json:"ids"`
	Total    int64        `json:"total"`
	ScrollID string       `json:"scroll_id,omitempty"`
	Raw      *RawResponse `json:"-"`
}

// RawResponse is the engine response body of a search or scroll request.
type RawResponse struct {
	ScrollID string `json:"_scroll_id,omitempty"`
	Took     int64  `json:"took"`
	TimedOut bool   `json:"timed_out"`
	Hits     Hits   `json:"hits"`
}

// Hits is the hits section of a raw response.
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Hit represents a single matched document
type Hit struct {
	ID     string          `json:"_id"`
	Index  string          `json:"_index,omitempty"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source,omitempty"`
}

// Total is the reported match count. Engines may report a lower bound
// (relation "gte") instead of an exact value.
type Total struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation,omitempty"`
}

// UnmarshalJSON accepts both the object form and the legacy integer form.
func (t *Total) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '{' {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode hits.total: %w", err)
		}
		t.Value, t.Relation = n, "eq"
		return nil
	}
	type plain Total
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode hits.total: %w", err)
	}
	*t = Total(p)
	return nil
}
