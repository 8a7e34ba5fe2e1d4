package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/herosearch/data/search"
)

// taskInterval is the polling interval used while waiting for tasks.
const taskInterval = 50 * time.Millisecond

// rankingScoreField is the hit attribute carrying the relevance score.
const rankingScoreField = "_rankingScore"

// Client is a Meilisearch search.Transport. Writes are asynchronous on the
// server; every write waits for its task so failures surface to the caller.
type Client struct {
	client meilisearch.ServiceManager
}

// NewMeilisearch creates new Meilisearch client
func NewMeilisearch(host, apiKey string) (*Client, error) {
	if host == "" {
		return nil, errors.New("meilisearch host is empty")
	}
	ms := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &Client{client: ms}, nil
}

// GetClient returns the underlying meilisearch client
func (c *Client) GetClient() meilisearch.ServiceManager {
	return c.client
}

// Type returns the engine type.
func (c *Client) Type() search.EngineType { return search.Meilisearch }

// IndexDocument adds or replaces a document.
func (c *Client) IndexDocument(ctx context.Context, index, id string, body map[string]any) error {
	return c.BulkIndex(ctx, index, []search.Document{{ID: id, Body: body}})
}

// DeleteDocument deletes a single document from Meilisearch
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	task, err := c.client.Index(index).DeleteDocumentWithContext(ctx, id, nil)
	if err != nil {
		return fail(ctx, search.OpDeleteDocument, index, err)
	}
	return c.wait(ctx, search.OpDeleteDocument, index, task)
}

// BulkIndex adds or replaces docs in one task. The key field is always set
// to the document id.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []search.Document) error {
	batch := make([]map[string]any, len(docs))
	for i, d := range docs {
		doc := make(map[string]any, len(d.Body)+1)
		for k, v := range d.Body {
			doc[k] = v
		}
		doc[search.KeyField] = d.ID
		batch[i] = doc
	}

	pk := search.KeyField
	task, err := c.client.Index(index).AddDocumentsWithContext(ctx, batch, &meilisearch.DocumentOptions{PrimaryKey: &pk})
	if err != nil {
		return fail(ctx, search.OpIndexDocument, index, err)
	}
	return c.wait(ctx, search.OpIndexDocument, index, task)
}

// BulkDelete deletes ids in one task.
func (c *Client) BulkDelete(ctx context.Context, index string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	task, err := c.client.Index(index).DeleteDocumentsWithContext(ctx, ids, nil)
	if err != nil {
		return fail(ctx, search.OpBulk, index, err)
	}
	return c.wait(ctx, search.OpBulk, index, task)
}

// Search translates q into a Meilisearch search. Meilisearch has no scroll
// cursors, so the scroll parameter is ignored.
func (c *Client) Search(ctx context.Context, q *search.WireQuery) (*search.RawResponse, error) {
	text, req := Translate(q)

	resp, err := c.client.Index(q.Index).SearchWithContext(ctx, text, req)
	if err != nil {
		return nil, fail(ctx, search.OpSearch, q.Index, err)
	}

	hits, err := convertHits(q.Index, resp.Hits)
	if err != nil {
		return nil, fmt.Errorf("meilisearch parsing error: %w", err)
	}

	return &search.RawResponse{
		Took: resp.ProcessingTimeMs,
		Hits: search.Hits{
			Total: search.Total{Value: resp.EstimatedTotalHits},
			Hits:  hits,
		},
	}, nil
}

// CreateIndex creates an index keyed on the id field. Meilisearch has no
// custom analyzers; only the name of def is used. The key field is made
// sortable so the default ordering works.
func (c *Client) CreateIndex(ctx context.Context, def *search.IndexDefinition) error {
	task, err := c.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        def.Name,
		PrimaryKey: search.KeyField,
	})
	if err != nil {
		return fail(ctx, search.OpCreateIndex, def.Name, err)
	}
	if err := c.wait(ctx, search.OpCreateIndex, def.Name, task); err != nil {
		return err
	}

	sortable := []string{search.KeyField}
	task, err = c.client.Index(def.Name).UpdateSortableAttributesWithContext(ctx, &sortable)
	if err != nil {
		return fail(ctx, search.OpCreateIndex, def.Name, err)
	}
	return c.wait(ctx, search.OpCreateIndex, def.Name, task)
}

// DeleteIndex deletes an index from Meilisearch
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	task, err := c.client.DeleteIndexWithContext(ctx, index)
	if err != nil {
		return fail(ctx, search.OpDeleteIndex, index, err)
	}
	return c.wait(ctx, search.OpDeleteIndex, index, task)
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	_, err := c.client.GetIndexWithContext(ctx, index)
	if err == nil {
		return true, nil
	}
	err = fail(ctx, search.OpIndexExists, index, err)
	if errors.Is(err, search.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Health checks if Meilisearch is healthy
func (c *Client) Health(ctx context.Context) error {
	health, err := c.client.HealthWithContext(ctx)
	if err != nil {
		return fail(ctx, search.OpHealth, "", err)
	}
	if health.Status != "available" {
		return search.Unavailable(search.OpHealth, "", fmt.Errorf("status is %q", health.Status))
	}
	return nil
}

// wait polls task until it finishes or ctx is done, and reports a failed
// task as an error.
func (c *Client) wait(ctx context.Context, op, index string, info *meilisearch.TaskInfo) error {
	task, err := c.client.WaitForTaskWithContext(ctx, info.TaskUID, taskInterval)
	if err != nil {
		return fail(ctx, op, index, err)
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return search.FromResponse(op, index, statusOf(task.Error.Code), errTypeOf(task.Error.Code), task.Error.Message)
	}
	return nil
}

// Translate converts q into a query string and search request. A
// multi_match clause becomes the query text and its fields the searched
// attributes; match clauses become an AND-joined filter expression.
func Translate(q *search.WireQuery) (string, *meilisearch.SearchRequest) {
	req := &meilisearch.SearchRequest{
		Offset:           int64(q.From),
		Limit:            int64(q.Size),
		ShowRankingScore: true,
	}

	var (
		text    string
		filters []string
	)
	for _, clause := range q.Query.Must() {
		switch {
		case clause.MultiMatch != nil:
			text = clause.MultiMatch.Query
			if len(clause.MultiMatch.Fields) > 0 {
				req.AttributesToSearchOn = clause.MultiMatch.Fields
			}
		case clause.Match != nil:
			for field, value := range clause.Match {
				filters = append(filters, field+" = "+filterLiteral(value))
			}
		}
	}
	if len(filters) > 0 {
		req.Filter = strings.Join(filters, " AND ")
	}

	for _, s := range q.Sort {
		req.Sort = append(req.Sort, s.Field+":"+string(s.Order))
	}
	return text, req
}

func filterLiteral(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return fmt.Sprint(x)
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}

// convertHits re-encodes each hit as a document body and lifts the key
// field and ranking score out of it.
func convertHits[H any](index string, in []H) ([]search.Hit, error) {
	hits := make([]search.Hit, 0, len(in))
	for _, h := range in {
		source, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(source, &fields); err != nil {
			return nil, err
		}

		hit := search.Hit{Index: index, ID: rawID(fields[search.KeyField])}
		if score, ok := fields[rankingScoreField]; ok {
			_ = json.Unmarshal(score, &hit.Score)
			delete(fields, rankingScoreField)
			if source, err = json.Marshal(fields); err != nil {
				return nil, err
			}
		}
		hit.Source = source
		hits = append(hits, hit)
	}
	return hits, nil
}

// rawID renders a string or numeric key as text.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

var (
	_ search.Transport      = (*Client)(nil)
	_ search.BulkIndexer    = (*Client)(nil)
	_ search.HealthChecker  = (*Client)(nil)
	_ search.IndexInspector = (*Client)(nil)
)
