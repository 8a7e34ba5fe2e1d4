package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ncobase/herosearch/data/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeCluster struct {
	mu       sync.Mutex
	requests []request
	handle   func(w http.ResponseWriter, r request)
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if f.handle != nil {
		f.handle(w, req)
		return
	}
	_, _ = io.WriteString(w, `{"acknowledged":true}`)
}

func (f *fakeCluster) last() request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handle func(w http.ResponseWriter, r request)) (*Client, *fakeCluster) {
	t.Helper()
	fc := &fakeCluster{handle: handle}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c, fc
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewClientRequiresAddresses(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
}

func TestCreateIndexSendsAnalysisSettings(t *testing.T) {
	c, fc := newTestClient(t, nil)

	require.NoError(t, c.CreateIndex(context.Background(), search.DefaultDefinition("posts")))

	req := fc.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/posts", req.Path)
	assert.JSONEq(t, `{"settings": {"index": {"analysis": {
		"filter": {"words_splitter": {"catenate_all": true, "type": "word_delimiter", "preserve_original": true}},
		"analyzer": {"default": {"filter": ["lowercase", "words_splitter"], "char_filter": ["html_strip"], "type": "custom", "tokenizer": "standard"}}
	}}}}`, req.Body)
}

func TestCreateIndexAlreadyExists(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r request) {
		writeStatus(w, http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception","reason":"index [posts/abc] already exists"},"status":400}`)
	})

	err := c.CreateIndex(context.Background(), search.DefaultDefinition("posts"))
	assert.ErrorIs(t, err, search.ErrAlreadyExists)

	var se *search.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, search.OpCreateIndex, se.Op)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Contains(t, err.Error(), "index [posts/abc] already exists")
}

func TestDeleteIndexNotFound(t *testing.T) {
	c, fc := newTestClient(t, func(w http.ResponseWriter, r request) {
		writeStatus(w, http.StatusNotFound, `{"error":{"type":"index_not_found_exception","reason":"no such index [posts]"},"status":404}`)
	})

	err := c.DeleteIndex(context.Background(), "posts")
	assert.ErrorIs(t, err, search.ErrNotFound)
	assert.Equal(t, http.MethodDelete, fc.last().Method)
	assert.Equal(t, "/posts", fc.last().Path)
}

func TestServerErrorIsUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r request) {
		writeStatus(w, http.StatusServiceUnavailable, `{"error":{"type":"cluster_block_exception","reason":"blocked"},"status":503}`)
	})

	err := c.IndexDocument(context.Background(), "posts", "1", map[string]any{"id": "1"})
	assert.ErrorIs(t, err, search.ErrEngineUnavailable)
}

func TestUnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(Options{Addresses: []string{addr}})
	require.NoError(t, err)

	err = c.DeleteIndex(context.Background(), "posts")
	assert.ErrorIs(t, err, search.ErrEngineUnavailable)
}

func TestIndexAndDeleteDocument(t *testing.T) {
	c, fc := newTestClient(t, func(w http.ResponseWriter, r request) {
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	require.NoError(t, c.IndexDocument(context.Background(), "posts", "7", map[string]any{"id": "7", "title": "hello"}))
	req := fc.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/posts/_doc/7", req.Path)
	assert.JSONEq(t, `{"id":"7","title":"hello"}`, req.Body)
	assert.Contains(t, req.Query, "refresh=true")

	require.NoError(t, c.DeleteDocument(context.Background(), "posts", "7"))
	assert.Equal(t, http.MethodDelete, fc.last().Method)
	assert.Equal(t, "/posts/_doc/7", fc.last().Path)
}

func TestSearch(t *testing.T) {
	c, fc := newTestClient(t, func(w http.ResponseWriter, r request) {
		_, _ = io.WriteString(w, `{
			"_scroll_id": "cursor-1",
			"took": 3,
			"hits": {
				"total": {"value": 2, "relation": "eq"},
				"hits": [
					{"_index": "posts", "_id": "9", "_score": 1.2, "_source": {"title": "b"}},
					{"_index": "posts", "_id": "4", "_score": 0.7, "_source": {"title": "a"}}
				]
			}
		}`)
	})

	q := search.Translate(search.NewRequest(search.EntityType{Name: "post", Index: "posts"}).Search("go"), []string{"title"}, nil)
	raw, err := c.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"9", "4"}, search.MapIDs(raw))
	assert.EqualValues(t, 2, search.TotalCount(raw))
	assert.Equal(t, "cursor-1", raw.ScrollID)

	req := fc.last()
	assert.Equal(t, "/posts/_search", req.Path)
	assert.Contains(t, req.Query, "scroll=")
	expected, err := q.Body()
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), req.Body)
}

func TestScrollAndClear(t *testing.T) {
	c, fc := newTestClient(t, func(w http.ResponseWriter, r request) {
		if strings.HasPrefix(r.Path, "/_search/scroll") && r.Method != http.MethodDelete {
			_, _ = io.WriteString(w, `{"_scroll_id":"cursor-2","hits":{"total":{"value":3},"hits":[{"_id":"1"}]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"succeeded":true,"num_freed":1}`)
	})

	raw, err := c.Scroll(context.Background(), "cursor-1", search.ScrollKeepAlive)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, search.MapIDs(raw))
	assert.Equal(t, "cursor-2", raw.ScrollID)

	require.NoError(t, c.ClearScroll(context.Background(), "cursor-2"))
	req := fc.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Contains(t, req.Path+req.Query+req.Body, "cursor-2")
}

func TestBulkIndex(t *testing.T) {
	c, fc := newTestClient(t, func(w http.ResponseWriter, r request) {
		_, _ = io.WriteString(w, `{"errors":false,"items":[]}`)
	})

	err := c.BulkIndex(context.Background(), "posts", []search.Document{
		{ID: "1", Body: map[string]any{"id": "1"}},
		{ID: "2", Body: map[string]any{"id": "2"}},
	})
	require.NoError(t, err)

	req := fc.last()
	assert.Equal(t, "/posts/_bulk", req.Path)
	lines := strings.Split(strings.TrimSpace(req.Body), "\n")
	require.Len(t, lines, 4)
	assert.JSONEq(t, `{"index":{"_index":"posts","_id":"1"}}`, lines[0])
	assert.JSONEq(t, `{"id":"1"}`, lines[1])
}

func TestBulkItemFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r request) {
		resp := map[string]any{
			"errors": true,
			"items": []any{
				map[string]any{"delete": map[string]any{"_id": "1", "status": 404}},
				map[string]any{"delete": map[string]any{"_id": "2", "status": 400,
					"error": map[string]any{"type": "illegal_argument_exception", "reason": "bad"}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	err := c.BulkDelete(context.Background(), "posts", []string{"1", "2"})
	assert.ErrorIs(t, err, search.ErrEngineRejected)
	assert.Contains(t, err.Error(), "delete 2: bad")
}

func TestHealth(t *testing.T) {
	c, fc := newTestClient(t, func(w http.ResponseWriter, r request) {
		_, _ = io.WriteString(w, `{"cluster_name":"test","version":{"number":"8.15.0"}}`)
	})

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "/", fc.last().Path)
}

func TestIndexExists(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r request) {
		if r.Path == "/posts" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	ok, err := c.IndexExists(context.Background(), "posts")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IndexExists(context.Background(), "tags")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTracedClientRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	srv := httptest.NewServer(&fakeCluster{})
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{Addresses: []string{srv.URL}, Traced: true})
	require.NoError(t, err)
	require.NoError(t, c.DeleteIndex(context.Background(), "posts"))

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.Equal(t, trace.SpanKindClient, spans[len(spans)-1].SpanKind())
}
