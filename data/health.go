package data

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/herosearch/data/search"
)

// Health checks the search engine and reports the outcome per service.
func (d *Data) Health(ctx context.Context) map[string]any {
	health := map[string]any{
		"timestamp": time.Now(),
		"services":  make(map[string]any),
	}
	services := health["services"].(map[string]any)

	if d.checkSearchHealth(ctx, services) {
		health["status"] = "healthy"
	} else {
		health["status"] = "degraded"
	}
	return health
}

// checkSearchHealth checks search engine health
func (d *Data) checkSearchHealth(ctx context.Context, services map[string]any) bool {
	t := d.Transport()
	if t == nil {
		services["search"] = map[string]any{"healthy": false, "error": "search connection not available"}
		return false
	}

	start := time.Now()
	err := d.Engine.Health(ctx)
	duration := time.Since(start)

	if errors.Is(err, search.ErrUnsupported) {
		services[string(t.Type())] = map[string]any{
			"healthy": true,
			"checked": false,
		}
		return true
	}

	healthy := err == nil
	report := map[string]any{
		"healthy":     healthy,
		"checked":     true,
		"response_ms": duration.Milliseconds(),
		"error":       getErrorString(err),
	}
	if healthy {
		if indexes := d.checkIndexes(ctx); indexes != nil {
			report["indexes"] = indexes
		}
	}
	services[string(t.Type())] = report
	d.collector.HealthCheck(string(t.Type()), healthy)
	return healthy
}

// checkIndexes reports whether the index of every registered entity type
// exists. It returns nil when the engine cannot tell.
func (d *Data) checkIndexes(ctx context.Context) map[string]any {
	indexes := make(map[string]any)
	for _, name := range d.Registry.Names() {
		entity, err := d.Registry.Resolve(name)
		if err != nil {
			continue
		}
		exists, err := d.Engine.IndexExists(ctx, entity)
		if errors.Is(err, search.ErrUnsupported) {
			return nil
		}
		if err != nil {
			indexes[entity.SearchableAs()] = getErrorString(err)
			continue
		}
		indexes[entity.SearchableAs()] = exists
	}
	return indexes
}

// getErrorString returns error string
func getErrorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
