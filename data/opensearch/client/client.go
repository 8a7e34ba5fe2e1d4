package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ncobase/herosearch/data/search"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is an OpenSearch search.Transport.
type Client struct {
	client  *opensearchapi.Client
	refresh string
}

// Options configures a Client.
type Options struct {
	Addresses []string
	Username  string
	Password  string
	Insecure  bool
	// Refresh is sent with document writes ("true", "false" or "wait_for").
	Refresh string
	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
	// Traced wraps the HTTP transport so every request opens a client span.
	Traced bool
}

// NewClient creates a new OpenSearch client
func NewClient(opts Options) (*Client, error) {
	if len(opts.Addresses) == 0 {
		return nil, errors.New("opensearch addresses are empty")
	}

	transport := opts.Transport
	if transport == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: opts.Insecure} //nolint:gosec // opt-in for self-signed clusters
		transport = tr
	}
	if opts.Traced {
		transport = otelhttp.NewTransport(transport)
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  opts.Addresses,
				Username:   opts.Username,
				Password:   opts.Password,
				Transport:  transport,
				MaxRetries: 3,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	refresh := opts.Refresh
	if refresh == "" {
		refresh = "true"
	}
	return &Client{client: client, refresh: refresh}, nil
}

// GetClient returns the OpenSearch client
func (c *Client) GetClient() *opensearchapi.Client {
	return c.client
}

// Type returns the engine type.
func (c *Client) Type() search.EngineType { return search.OpenSearch }

// IndexDocument indexes a document in OpenSearch
func (c *Client) IndexDocument(ctx context.Context, index, id string, body map[string]any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	_, err = c.client.Index(ctx, opensearchapi.IndexReq{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(data),
		Params:     opensearchapi.IndexParams{Refresh: c.refresh},
	})
	return classify(search.OpIndexDocument, index, err)
}

// DeleteDocument deletes a document from OpenSearch
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	_, err := c.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      index,
		DocumentID: id,
		Params:     opensearchapi.DocumentDeleteParams{Refresh: c.refresh},
	})
	return classify(search.OpDeleteDocument, index, err)
}

// Search executes q with a scroll cursor.
func (c *Client) Search(ctx context.Context, q *search.WireQuery) (*search.RawResponse, error) {
	body, err := q.Body()
	if err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	res, err := c.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{q.Index},
		Body:    bytes.NewReader(body),
		Params:  opensearchapi.SearchParams{Scroll: q.Scroll},
	})
	if err != nil {
		return nil, classify(search.OpSearch, q.Index, err)
	}

	raw := &search.RawResponse{
		Took:     int64(res.Took),
		TimedOut: res.Timeout,
		ScrollID: deref(res.ScrollID),
		Hits: search.Hits{
			Total: search.Total{Value: int64(res.Hits.Total.Value), Relation: res.Hits.Total.Relation},
			Hits:  convertHits(res.Hits.Hits),
		},
	}
	return raw, nil
}

// Scroll fetches the next batch of a scroll cursor.
func (c *Client) Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*search.RawResponse, error) {
	res, err := c.client.Scroll.Get(ctx, opensearchapi.ScrollGetReq{
		ScrollID: scrollID,
		Params:   opensearchapi.ScrollGetParams{Scroll: keepAlive},
	})
	if err != nil {
		return nil, classify(search.OpScroll, "", err)
	}

	raw := &search.RawResponse{
		Took:     int64(res.Took),
		TimedOut: res.Timeout,
		ScrollID: deref(res.ScrollID),
		Hits: search.Hits{
			Total: search.Total{Value: int64(res.Hits.Total.Value), Relation: res.Hits.Total.Relation},
			Hits:  convertHits(res.Hits.Hits),
		},
	}
	return raw, nil
}

// ClearScroll releases scroll cursors.
func (c *Client) ClearScroll(ctx context.Context, scrollIDs ...string) error {
	_, err := c.client.Scroll.Delete(ctx, opensearchapi.ScrollDeleteReq{ScrollIDs: scrollIDs})
	return classify(search.OpClearScroll, "", err)
}

// CreateIndex creates an index with the analysis settings of def.
func (c *Client) CreateIndex(ctx context.Context, def *search.IndexDefinition) error {
	body, err := def.CreateBody()
	if err != nil {
		return fmt.Errorf("error encoding index settings: %w", err)
	}

	_, err = c.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: def.Name,
		Body:  bytes.NewReader(body),
	})
	return classify(search.OpCreateIndex, def.Name, err)
}

// DeleteIndex deletes an index
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	_, err := c.client.Indices.Delete(ctx, opensearchapi.IndicesDeleteReq{
		Indices: []string{index},
	})
	return classify(search.OpDeleteIndex, index, err)
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{index},
	})
	if res != nil && res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, classify(search.OpIndexExists, index, err)
	}
	return res.StatusCode == http.StatusOK, nil
}

// BulkIndex writes docs in a single bulk request.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []search.Document) error {
	var buf strings.Builder
	for _, d := range docs {
		action, err := json.Marshal(map[string]any{"index": map[string]string{"_index": index, "_id": d.ID}})
		if err != nil {
			return fmt.Errorf("error encoding bulk line: %w", err)
		}
		doc, err := json.Marshal(d.Body)
		if err != nil {
			return fmt.Errorf("error encoding document: %w", err)
		}
		buf.Write(action)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}
	return c.bulk(ctx, index, buf.String())
}

// BulkDelete removes ids in a single bulk request.
func (c *Client) BulkDelete(ctx context.Context, index string, ids []string) error {
	var buf strings.Builder
	for _, id := range ids {
		action, err := json.Marshal(map[string]any{"delete": map[string]string{"_index": index, "_id": id}})
		if err != nil {
			return fmt.Errorf("error encoding bulk line: %w", err)
		}
		buf.Write(action)
		buf.WriteByte('\n')
	}
	return c.bulk(ctx, index, buf.String())
}

func (c *Client) bulk(ctx context.Context, index, body string) error {
	res, err := c.client.Bulk(ctx, opensearchapi.BulkReq{
		Index:  index,
		Body:   strings.NewReader(body),
		Params: opensearchapi.BulkParams{Refresh: c.refresh},
	})
	if err != nil {
		return classify(search.OpBulk, index, err)
	}
	if !res.Errors {
		return nil
	}

	// Deleting a missing document is not a failure.
	for _, item := range res.Items {
		for action, result := range item {
			if result.Status < 300 || (action == "delete" && result.Status == http.StatusNotFound) {
				continue
			}
			var errType, reason string
			if result.Error != nil {
				errType, reason = result.Error.Type, result.Error.Reason
			}
			return search.FromResponse(search.OpBulk, index, result.Status, errType,
				fmt.Sprintf("%s %s: %s", action, result.ID, reason))
		}
	}
	return nil
}

// Health checks cluster health. A red cluster is reported as unavailable.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return classify(search.OpHealth, "", err)
	}
	if res.Status == "red" {
		return search.Unavailable(search.OpHealth, "", errors.New("cluster status is red"))
	}
	return nil
}

func convertHits(in []opensearchapi.SearchHit) []search.Hit {
	hits := make([]search.Hit, len(in))
	for i, h := range in {
		hits[i] = search.Hit{
			ID:     h.ID,
			Index:  h.Index,
			Score:  float64(h.Score),
			Source: h.Source,
		}
	}
	return hits
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ search.Transport      = (*Client)(nil)
	_ search.Scroller       = (*Client)(nil)
	_ search.BulkIndexer    = (*Client)(nil)
	_ search.HealthChecker  = (*Client)(nil)
	_ search.IndexInspector = (*Client)(nil)
)
