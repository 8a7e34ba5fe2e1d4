package search

import (
	"context"
	"sync"
	"time"
)

type post struct {
	ID    string
	Title string
}

func (p post) SearchableAs() string { return "posts" }
func (p post) SearchKey() string    { return p.ID }
func (p post) ToSearchableMap() map[string]any {
	return map[string]any{"id": p.ID, "title": p.Title}
}
func (p post) SearchableFields() []string { return []string{"title", "body"} }

// tag has no searchable fields.
type tag struct{ ID string }

func (t tag) SearchableAs() string            { return "tags" }
func (t tag) SearchKey() string               { return t.ID }
func (t tag) ToSearchableMap() map[string]any { return map[string]any{"id": t.ID} }

type call struct {
	Op    string
	Index string
	ID    string
	Body  map[string]any
}

type fakeTransport struct {
	mu       sync.Mutex
	calls    []call
	queries  []*WireQuery
	response *RawResponse
	errs     map[string]error // keyed by op or op+":"+id
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{errs: map[string]error{}}
}

func (f *fakeTransport) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if err, ok := f.errs[c.Op+":"+c.ID]; ok {
		return err
	}
	return f.errs[c.Op]
}

func (f *fakeTransport) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Op)
	}
	return out
}

func (f *fakeTransport) Type() EngineType { return Elasticsearch }

func (f *fakeTransport) IndexDocument(_ context.Context, index, id string, body map[string]any) error {
	return f.record(call{Op: OpIndexDocument, Index: index, ID: id, Body: body})
}

func (f *fakeTransport) DeleteDocument(_ context.Context, index, id string) error {
	return f.record(call{Op: OpDeleteDocument, Index: index, ID: id})
}

func (f *fakeTransport) Search(_ context.Context, q *WireQuery) (*RawResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if err := f.record(call{Op: OpSearch, Index: q.Index}); err != nil {
		return nil, err
	}
	if f.response == nil {
		return &RawResponse{}, nil
	}
	return f.response, nil
}

func (f *fakeTransport) CreateIndex(_ context.Context, def *IndexDefinition) error {
	return f.record(call{Op: OpCreateIndex, Index: def.Name})
}

func (f *fakeTransport) DeleteIndex(_ context.Context, index string) error {
	return f.record(call{Op: OpDeleteIndex, Index: index})
}

// scrollTransport adds scroll and bulk support.
type scrollTransport struct {
	*fakeTransport
	keepAlive time.Duration
	cleared   []string
}

func (s *scrollTransport) Scroll(_ context.Context, scrollID string, keepAlive time.Duration) (*RawResponse, error) {
	s.keepAlive = keepAlive
	if err := s.record(call{Op: OpScroll, ID: scrollID}); err != nil {
		return nil, err
	}
	return s.response, nil
}

func (s *scrollTransport) ClearScroll(_ context.Context, scrollIDs ...string) error {
	s.cleared = append(s.cleared, scrollIDs...)
	return s.record(call{Op: OpClearScroll})
}

func (s *scrollTransport) BulkIndex(_ context.Context, index string, docs []Document) error {
	body := make(map[string]any, len(docs))
	for _, d := range docs {
		body[d.ID] = d.Body
	}
	return s.record(call{Op: OpBulk, Index: index, Body: body})
}

func (s *scrollTransport) BulkDelete(_ context.Context, index string, ids []string) error {
	body := make(map[string]any, len(ids))
	for _, id := range ids {
		body[id] = nil
	}
	return s.record(call{Op: OpBulk, Index: index, Body: body})
}

func (s *scrollTransport) Health(context.Context) error {
	return s.record(call{Op: OpHealth})
}

func hits(ids ...string) *RawResponse {
	raw := &RawResponse{}
	raw.Hits.Total = Total{Value: int64(len(ids)), Relation: "eq"}
	for _, id := range ids {
		raw.Hits.Hits = append(raw.Hits.Hits, Hit{ID: id})
	}
	return raw
}
