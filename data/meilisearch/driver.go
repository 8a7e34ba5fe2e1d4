// Package meilisearch provides a Meilisearch driver for herosearch/data.
//
// This driver uses meilisearch-go (github.com/meilisearch/meilisearch-go) as the underlying client.
// It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/herosearch/data/meilisearch"
//
// Wire queries are translated to Meilisearch search parameters. Meilisearch
// has no scroll cursors and no custom analyzers.
package meilisearch

import (
	"context"
	"fmt"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data"
	"github.com/ncobase/herosearch/data/meilisearch/client"
	"github.com/ncobase/herosearch/data/search"
)

// driver implements data.SearchDriver for Meilisearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return string(search.Meilisearch)
}

// Connect creates a Meilisearch transport. The API key is taken from
// search.api_key.
func (d *driver) Connect(_ context.Context, cfg *config.Search) (search.Transport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("meilisearch: configuration is nil")
	}

	c, err := client.NewMeilisearch(cfg.Address(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("meilisearch: %w", err)
	}
	return c, nil
}

// Close releases the transport. The HTTP client holds no other resources.
func (d *driver) Close(t search.Transport) error {
	if _, ok := t.(*client.Client); !ok {
		return fmt.Errorf("meilisearch: invalid connection type, expected *client.Client")
	}
	return nil
}

// init registers the Meilisearch driver with the data package.
func init() {
	data.RegisterSearchDriver(&driver{})
}
