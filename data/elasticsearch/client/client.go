package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/herosearch/data/search"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is an Elasticsearch search.Transport.
type Client struct {
	client  *elasticsearch.Client
	refresh string
}

// Options configures a Client.
type Options struct {
	Addresses       []string
	Username        string
	Password        string
	APIKey          string
	InsecureSkipTLS bool
	// Refresh is sent with document writes ("true", "false" or "wait_for").
	Refresh string
	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
	// Traced wraps the HTTP transport so every request opens a client span.
	Traced bool
}

// NewClient new Elasticsearch client
func NewClient(opts Options) (*Client, error) {
	if len(opts.Addresses) == 0 {
		return nil, errors.New("elasticsearch addresses are empty")
	}

	cfg := elasticsearch.Config{
		Addresses: opts.Addresses,
		Username:  opts.Username,
		Password:  opts.Password,
		APIKey:    opts.APIKey,
		Transport: opts.Transport,
	}
	if cfg.Transport == nil && opts.InsecureSkipTLS {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed clusters
		cfg.Transport = tr
	}
	if opts.Traced {
		base := cfg.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		cfg.Transport = otelhttp.NewTransport(base)
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	refresh := opts.Refresh
	if refresh == "" {
		refresh = "true"
	}
	return &Client{client: es, refresh: refresh}, nil
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}

// Type returns the engine type.
func (c *Client) Type() search.EngineType { return search.Elasticsearch }

// IndexDocument index document to Elasticsearch
func (c *Client) IndexDocument(ctx context.Context, index, id string, body map[string]any) error {
	doc, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(doc),
		Refresh:    c.refresh,
	}
	res, err := req.Do(ctx, c.client)
	return check(search.OpIndexDocument, index, res, err)
}

// DeleteDocument delete document from Elasticsearch
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	req := esapi.DeleteRequest{
		Index:      index,
		DocumentID: id,
		Refresh:    c.refresh,
	}
	res, err := req.Do(ctx, c.client)
	return check(search.OpDeleteDocument, index, res, err)
}

// Search executes q with a scroll cursor.
func (c *Client) Search(ctx context.Context, q *search.WireQuery) (*search.RawResponse, error) {
	body, err := q.Body()
	if err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	req := esapi.SearchRequest{
		Index:          []string{q.Index},
		Body:           bytes.NewReader(body),
		Scroll:         q.Scroll,
		TrackTotalHits: true,
	}
	res, err := req.Do(ctx, c.client)
	return decode(search.OpSearch, q.Index, res, err)
}

// Scroll fetches the next batch of a scroll cursor.
func (c *Client) Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*search.RawResponse, error) {
	req := esapi.ScrollRequest{
		ScrollID: scrollID,
		Scroll:   keepAlive,
	}
	res, err := req.Do(ctx, c.client)
	return decode(search.OpScroll, "", res, err)
}

// ClearScroll releases scroll cursors.
func (c *Client) ClearScroll(ctx context.Context, scrollIDs ...string) error {
	req := esapi.ClearScrollRequest{ScrollID: scrollIDs}
	res, err := req.Do(ctx, c.client)
	return check(search.OpClearScroll, "", res, err)
}

// CreateIndex creates an index with the analysis settings of def.
func (c *Client) CreateIndex(ctx context.Context, def *search.IndexDefinition) error {
	body, err := def.CreateBody()
	if err != nil {
		return fmt.Errorf("error encoding index settings: %w", err)
	}

	req := esapi.IndicesCreateRequest{
		Index: def.Name,
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.client)
	return check(search.OpCreateIndex, def.Name, res, err)
}

// DeleteIndex drops an index.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	req := esapi.IndicesDeleteRequest{Index: []string{index}}
	res, err := req.Do(ctx, c.client)
	return check(search.OpDeleteIndex, index, res, err)
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	req := esapi.IndicesExistsRequest{Index: []string{index}}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, search.Unavailable(search.OpIndexExists, index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError(search.OpIndexExists, index, res)
	}
}

// BulkIndex writes docs in a single bulk request.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []search.Document) error {
	var buf bytes.Buffer
	for _, d := range docs {
		if err := writeBulkLine(&buf, map[string]any{"index": map[string]string{"_index": index, "_id": d.ID}}); err != nil {
			return err
		}
		if err := writeBulkLine(&buf, d.Body); err != nil {
			return err
		}
	}
	return c.bulk(ctx, index, &buf)
}

// BulkDelete removes ids in a single bulk request.
func (c *Client) BulkDelete(ctx context.Context, index string, ids []string) error {
	var buf bytes.Buffer
	for _, id := range ids {
		if err := writeBulkLine(&buf, map[string]any{"delete": map[string]string{"_index": index, "_id": id}}); err != nil {
			return err
		}
	}
	return c.bulk(ctx, index, &buf)
}

func writeBulkLine(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding bulk line: %w", err)
	}
	buf.Write(b)
	buf.WriteByte('\n')
	return nil
}

func (c *Client) bulk(ctx context.Context, index string, body io.Reader) error {
	req := esapi.BulkRequest{
		Index:   index,
		Body:    body,
		Refresh: c.refresh,
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return search.Unavailable(search.OpBulk, index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(search.OpBulk, index, res)
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return fmt.Errorf("elasticsearch parsing error: %w", err)
	}
	return br.err(index)
}

// Health checks the cluster.
func (c *Client) Health(ctx context.Context) error {
	req := esapi.InfoRequest{}
	res, err := req.Do(ctx, c.client)
	return check(search.OpHealth, "", res, err)
}

var (
	_ search.Transport      = (*Client)(nil)
	_ search.Scroller       = (*Client)(nil)
	_ search.BulkIndexer    = (*Client)(nil)
	_ search.HealthChecker  = (*Client)(nil)
	_ search.IndexInspector = (*Client)(nil)
)
