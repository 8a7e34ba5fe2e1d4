package data

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data/search"
)

// SearchDriver turns search configuration into a connected transport.
// Following the design pattern of database/sql, drivers register themselves
// using init() functions and are looked up at runtime based on configuration.
type SearchDriver interface {
	// Name returns the driver identifier (e.g., "elasticsearch", "meilisearch")
	Name() string

	// Connect establishes a new search engine connection.
	Connect(ctx context.Context, cfg *config.Search) (search.Transport, error)

	// Close terminates the search engine connection.
	Close(t search.Transport) error
}

var (
	searchDrivers   = make(map[string]SearchDriver)
	searchDriversMu sync.RWMutex
)

// RegisterSearchDriver makes a search engine driver available by the provided name.
// It is intended to be called from the init function in driver packages.
//
//	func init() {
//	    data.RegisterSearchDriver(&driver{})
//	}
//
// If RegisterSearchDriver is called twice with the same name or if driver is nil,
// it panics.
func RegisterSearchDriver(driver SearchDriver) {
	searchDriversMu.Lock()
	defer searchDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterSearchDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterSearchDriver driver name is empty")
	}

	if _, exists := searchDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterSearchDriver called twice for driver %s", name))
	}

	searchDrivers[name] = driver
}

// GetSearchDriver retrieves a registered search engine driver by name.
func GetSearchDriver(name string) (SearchDriver, error) {
	searchDriversMu.RLock()
	defer searchDriversMu.RUnlock()

	driver, exists := searchDrivers[name]
	if !exists {
		return nil, fmt.Errorf("data: search driver %q not registered (forgotten import of github.com/ncobase/herosearch/data/%s?); available: %v",
			name, name, listSearchDriversLocked(),
		)
	}
	return driver, nil
}

// ListSearchDrivers returns the names of all registered drivers.
func ListSearchDrivers() []string {
	searchDriversMu.RLock()
	defer searchDriversMu.RUnlock()
	return listSearchDriversLocked()
}

func listSearchDriversLocked() []string {
	names := make([]string, 0, len(searchDrivers))
	for name := range searchDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects the driver named by cfg.Engine. The returned function closes
// the transport.
func Open(ctx context.Context, cfg *config.Search) (search.Transport, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("data: search config is nil")
	}
	driver, err := GetSearchDriver(cfg.Engine)
	if err != nil {
		return nil, nil, err
	}
	t, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("data: connect %s: %w", cfg.Engine, err)
	}
	return t, func() error { return driver.Close(t) }, nil
}
