package search

// Collector interface for metrics
type Collector interface {
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
}

// NoOpCollector implementation
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error)  {}
func (NoOpCollector) SearchIndex(string, string) {}
