package config

import (
	"time"

	"github.com/spf13/viper"
)

// Observes observability config struct
type Observes struct {
	Sentry *Sentry `json:"sentry" yaml:"sentry"`
	Tracer *Tracer `json:"tracer" yaml:"tracer"`
}

// Sentry config struct. Reporting is off while DSN is empty.
type Sentry struct {
	DSN         string  `json:"dsn" yaml:"dsn"`
	Environment string  `json:"environment" yaml:"environment"`
	Release     string  `json:"release" yaml:"release"`
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate" validate:"gte=0,lte=1"`
}

// Tracer config struct for OpenTelemetry
type Tracer struct {
	Endpoint           string        `json:"endpoint" yaml:"endpoint"` // OTLP gRPC endpoint
	Insecure           bool          `json:"insecure" yaml:"insecure"`
	ServiceName        string        `json:"service_name" yaml:"service_name"`
	Environment        string        `json:"environment" yaml:"environment"`
	SamplingRate       float64       `json:"sampling_rate" yaml:"sampling_rate" validate:"gte=0,lte=1"`
	MaxExportBatchSize int           `json:"max_export_batch_size" yaml:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout" yaml:"export_timeout"`
}

// getObservesConfig get observes config
func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Sentry: &Sentry{
			DSN:         v.GetString("observes.sentry.dsn"),
			Environment: getStringOrDefault(v, "observes.sentry.environment", getStringOrDefault(v, "run_mode", "release")),
			Release:     v.GetString("observes.sentry.release"),
			SampleRate:  getFloat64OrDefault(v, "observes.sentry.sample_rate", 1.0),
		},
		Tracer: &Tracer{
			Endpoint:           v.GetString("observes.tracer.endpoint"),
			Insecure:           getBoolOrDefault(v, "observes.tracer.insecure", true),
			ServiceName:        getStringOrDefault(v, "observes.tracer.service_name", getStringOrDefault(v, "app_name", "herosearch")),
			Environment:        getStringOrDefault(v, "observes.tracer.environment", getStringOrDefault(v, "run_mode", "release")),
			SamplingRate:       getFloat64OrDefault(v, "observes.tracer.sampling_rate", 1.0),
			MaxExportBatchSize: getIntOrDefault(v, "observes.tracer.max_export_batch_size", 512),
			BatchTimeout:       getDurationOrDefault(v, "observes.tracer.batch_timeout", 5*time.Second),
			ExportTimeout:      getDurationOrDefault(v, "observes.tracer.export_timeout", 30*time.Second),
		},
	}
}
