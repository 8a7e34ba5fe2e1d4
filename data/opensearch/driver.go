// Package opensearch provides an OpenSearch driver for herosearch/data.
//
// This driver uses opensearch-go (github.com/opensearch-project/opensearch-go/v4)
// as the underlying client. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/herosearch/data/opensearch"
//
// OpenSearch speaks the Elasticsearch query and index APIs, so the same
// wire queries and index definitions are sent unchanged.
package opensearch

import (
	"context"
	"fmt"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data"
	"github.com/ncobase/herosearch/data/opensearch/client"
	"github.com/ncobase/herosearch/data/search"
)

// driver implements data.SearchDriver for OpenSearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return string(search.OpenSearch)
}

// Connect creates an OpenSearch transport for cfg.
func (d *driver) Connect(_ context.Context, cfg *config.Search) (search.Transport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("opensearch: configuration is nil")
	}

	c, err := client.NewClient(client.Options{
		Addresses: []string{cfg.Address()},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Insecure:  cfg.InsecureSkipTLS,
		Traced:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch: failed to create client: %w", err)
	}
	return c, nil
}

// Close terminates the OpenSearch connection and releases resources.
func (d *driver) Close(t search.Transport) error {
	if _, ok := t.(*client.Client); !ok {
		return fmt.Errorf("opensearch: invalid connection type, expected *client.Client")
	}
	return nil
}

// init registers the OpenSearch driver with the data package.
func init() {
	data.RegisterSearchDriver(&driver{})
}
