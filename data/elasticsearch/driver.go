// Package elasticsearch provides an Elasticsearch driver for herosearch/data.
//
// This driver uses go-elasticsearch/v8 (github.com/elastic/go-elasticsearch/v8) as
// the underlying client. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/herosearch/data/elasticsearch"
//
// Example usage:
//
//	t, closeFn, err := data.Open(ctx, &config.Search{
//	    Engine: "elasticsearch",
//	    Scheme: "http",
//	    Host:   "localhost",
//	    Port:   9200,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer closeFn()
package elasticsearch

import (
	"context"
	"fmt"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data"
	"github.com/ncobase/herosearch/data/elasticsearch/client"
	"github.com/ncobase/herosearch/data/search"
)

// driver implements data.SearchDriver for Elasticsearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return string(search.Elasticsearch)
}

// Connect creates an Elasticsearch transport for cfg. No request is sent
// until the transport is used.
func (d *driver) Connect(_ context.Context, cfg *config.Search) (search.Transport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("elasticsearch: configuration is nil")
	}

	c, err := client.NewClient(client.Options{
		Addresses:       []string{cfg.Address()},
		Username:        cfg.Username,
		Password:        cfg.Password,
		APIKey:          cfg.APIKey,
		InsecureSkipTLS: cfg.InsecureSkipTLS,
		Traced:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}
	return c, nil
}

// Close releases the transport. The underlying HTTP client holds no
// resources beyond idle connections.
func (d *driver) Close(t search.Transport) error {
	c, ok := t.(*client.Client)
	if !ok {
		return fmt.Errorf("elasticsearch: invalid connection type, expected *client.Client")
	}
	if tr, ok := c.GetClient().Transport.(interface{ CloseIdleConnections() }); ok {
		tr.CloseIdleConnections()
	}
	return nil
}

// init registers the Elasticsearch driver with the data package.
func init() {
	data.RegisterSearchDriver(&driver{})
}
