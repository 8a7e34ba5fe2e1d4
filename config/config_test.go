package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ncobase/herosearch/data/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "app_name: demo\n"))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.AppName)
	assert.Equal(t, DefaultEngine, cfg.Search.Engine)
	assert.Equal(t, "http://localhost:9200", cfg.Search.Address())
	assert.Empty(t, cfg.Search.Entities)
	assert.Equal(t, 4, cfg.Logger.Level)
	assert.Equal(t, "demo-log", cfg.Logger.IndexName)
	assert.True(t, cfg.Logger.Desensitization.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Observes.Tracer.Endpoint)
	assert.Empty(t, cfg.Observes.Sentry.DSN)
	assert.Equal(t, 1.0, cfg.Observes.Sentry.SampleRate)
	assert.Equal(t, "release", cfg.Observes.Sentry.Environment)
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
search:
  engine: opensearch
  scheme: https
  host: search.internal
  port: 9201
  username: admin
  password: secret
  insecure_skip_tls: true
  entities:
    - type: post
      index: posts
      searchable_fields: [title, body]
    - type: tag
logger:
  level: 5
  format: json
  output: stdout
metrics:
  enabled: true
  namespace: demo
observes:
  sentry:
    dsn: https://key@sentry.example.com/1
    environment: staging
    sample_rate: 0.5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://search.internal:9201", cfg.Search.Address())
	assert.Equal(t, "admin", cfg.Search.Username)
	assert.True(t, cfg.Search.InsecureSkipTLS)
	assert.Equal(t, []search.EntityType{
		{Name: "post", Index: "posts", Fields: []string{"title", "body"}},
		{Name: "tag"},
	}, cfg.Search.Entities)
	assert.Equal(t, 5, cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "demo", cfg.Metrics.Namespace)
	assert.Equal(t, "https://key@sentry.example.com/1", cfg.Observes.Sentry.DSN)
	assert.Equal(t, "staging", cfg.Observes.Sentry.Environment)
	assert.Equal(t, 0.5, cfg.Observes.Sentry.SampleRate)
}

func TestLoadConfigMeilisearchPort(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "search:\n  engine: meilisearch\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMeilisearchPort, cfg.Search.Port)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("HEROSEARCH_SEARCH_HOST", "env-host")
	t.Setenv("HEROSEARCH_SEARCH_PORT", "9300")

	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "search:\n  host: file-host\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://env-host:9300", cfg.Search.Address())
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "config.yaml", "search:\n  engine: solr\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search config")

	_, err = LoadConfig(writeConfig(t, "config.yaml", "search:\n  entities:\n    - index: posts\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entities[0].type")

	_, err = LoadConfig(writeConfig(t, "config.yaml", "observes:\n  sentry:\n    sample_rate: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid observes config")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{"search": {"host": "json-host", "port": 9999}}`))
	require.NoError(t, err)
	assert.Equal(t, "http://json-host:9999", cfg.Search.Address())
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "config.yaml", "search:\n  host: before\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	reloaded := make(chan *Config, 16)
	cfg.Watch(func(next *Config) {
		select {
		case reloaded <- next:
		default:
		}
	}, nil)

	require.NoError(t, os.WriteFile(path, []byte("search:\n  host: after\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case next := <-reloaded:
			if next.Search.Host != "after" {
				continue
			}
			assert.Equal(t, "http://after:9200", next.Search.Address())
			assert.Equal(t, "http://before:9200", cfg.Search.Address())
			return
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
