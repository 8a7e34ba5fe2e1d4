package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ncobase/herosearch/validator"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. HEROSEARCH_SEARCH_HOST.
const EnvPrefix = "HEROSEARCH"

// Config represents the configuration implementation.
type Config struct {
	AppName  string
	RunMode  string
	Search   *Search
	Logger   *Logger
	Metrics  *Metrics
	Observes *Observes
	Viper    *viper.Viper
}

// LoadConfig loads the configuration from configPath. With an empty path the
// file named config.{yaml,json,toml} is searched for in the standard
// locations; when none exists the defaults and environment apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/herosearch")
		v.AddConfigPath("$HOME/.herosearch")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	search, err := getSearchConfig(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName:  getStringOrDefault(v, "app_name", "herosearch"),
		RunMode:  getStringOrDefault(v, "run_mode", "release"),
		Search:   search,
		Logger:   getLoggerConfig(v),
		Metrics:  getMetricsConfig(v),
		Observes: getObservesConfig(v),
		Viper:    v,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	for name, section := range map[string]any{
		"search":   c.Search,
		"logger":   c.Logger,
		"observes": c.Observes,
	} {
		if err := validator.Validate(section); err != nil {
			return fmt.Errorf("invalid %s config: %w", name, err)
		}
	}
	return nil
}

var watchMu sync.Mutex

// Watch reloads the configuration whenever its file changes and hands the new
// value to callback. Invalid revisions are reported to onError and skipped.
func (c *Config) Watch(callback func(*Config), onError func(error)) {
	c.Viper.OnConfigChange(func(fsnotify.Event) {
		watchMu.Lock()
		defer watchMu.Unlock()

		next, err := fromViper(c.Viper)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("failed to reload config: %w", err))
			}
			return
		}
		callback(next)
	})
	c.Viper.WatchConfig()
}
