package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/herosearch/data/search"
	"github.com/sirupsen/logrus"
)

// shipTimeout bounds a single index request made from a hook.
const shipTimeout = 5 * time.Second

// SearchHook indexes log entries into a search index.
type SearchHook struct {
	transport search.Transport
	index     string
	levels    []logrus.Level
	hostname  string
}

// NewSearchHook creates a hook shipping entries at or above level to index.
func NewSearchHook(t search.Transport, index string, level logrus.Level) *SearchHook {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, l := range logrus.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}
	hostname, _ := os.Hostname()
	return &SearchHook{transport: t, index: index, levels: levels, hostname: hostname}
}

// Levels returns the shipped levels.
func (h *SearchHook) Levels() []logrus.Level {
	return h.levels
}

// Fire sends log entry to the search engine
func (h *SearchHook) Fire(entry *logrus.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shipTimeout)
	defer cancel()

	if err := h.transport.IndexDocument(ctx, h.index, uuid.NewString(), h.prepareLogDocument(entry)); err != nil {
		return fmt.Errorf("ship log entry: %w", err)
	}
	return nil
}

// prepareLogDocument prepares the log document structure
func (h *SearchHook) prepareLogDocument(entry *logrus.Entry) map[string]any {
	doc := make(map[string]any, len(entry.Data)+5)

	for key, value := range entry.Data {
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		doc[key] = value
	}

	doc["@timestamp"] = entry.Time.Format(time.RFC3339Nano)
	doc["timestamp"] = entry.Time.UnixMilli()
	doc["level"] = entry.Level.String()
	doc["message"] = entry.Message
	if h.hostname != "" {
		doc["hostname"] = h.hostname
	}
	return doc
}
