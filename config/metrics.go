package config

import "github.com/spf13/viper"

// Metrics config struct
type Metrics struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace"`
	// Textfile is written in the Prometheus text format when the command exits.
	Textfile string `json:"textfile" yaml:"textfile"`
}

func getMetricsConfig(v *viper.Viper) *Metrics {
	return &Metrics{
		Enabled:   getBoolOrDefault(v, "metrics.enabled", false),
		Namespace: getStringOrDefault(v, "metrics.namespace", "herosearch"),
		Textfile:  v.GetString("metrics.textfile"),
	}
}
