package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/ncobase/herosearch/data/search"
	"github.com/spf13/viper"
)

// Default connection settings.
const (
	DefaultEngine          = "elasticsearch"
	DefaultScheme          = "http"
	DefaultHost            = "localhost"
	DefaultPort            = 9200
	DefaultMeilisearchPort = 7700
)

// Search represents search engine configuration
type Search struct {
	Engine          string              `json:"engine" yaml:"engine" mapstructure:"engine" validate:"required,oneof=elasticsearch opensearch meilisearch"`
	Scheme          string              `json:"scheme" yaml:"scheme" mapstructure:"scheme" validate:"required,oneof=http https"`
	Host            string              `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port            int                 `json:"port" yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	Username        string              `json:"username" yaml:"username" mapstructure:"username"`
	Password        string              `json:"password" yaml:"password" mapstructure:"password"`
	APIKey          string              `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	InsecureSkipTLS bool                `json:"insecure_skip_tls" yaml:"insecure_skip_tls" mapstructure:"insecure_skip_tls"`
	Entities        []search.EntityType `json:"entities" yaml:"entities" mapstructure:"entities" validate:"dive"`
}

// Address returns the engine base URL.
func (s *Search) Address() string {
	return s.Scheme + "://" + net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// getSearchConfig reads search configurations
func getSearchConfig(v *viper.Viper) (*Search, error) {
	engine := getStringOrDefault(v, "search.engine", DefaultEngine)

	port := DefaultPort
	if engine == string(search.Meilisearch) {
		port = DefaultMeilisearchPort
	}

	cfg := &Search{
		Engine:          engine,
		Scheme:          getStringOrDefault(v, "search.scheme", DefaultScheme),
		Host:            getStringOrDefault(v, "search.host", DefaultHost),
		Port:            getIntOrDefault(v, "search.port", port),
		Username:        v.GetString("search.username"),
		Password:        v.GetString("search.password"),
		APIKey:          v.GetString("search.api_key"),
		InsecureSkipTLS: getBoolOrDefault(v, "search.insecure_skip_tls", false),
	}

	if v.IsSet("search.entities") {
		if err := v.UnmarshalKey("search.entities", &cfg.Entities); err != nil {
			return nil, fmt.Errorf("failed to read search.entities: %w", err)
		}
	}
	return cfg, nil
}
