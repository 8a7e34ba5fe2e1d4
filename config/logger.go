package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level      int    `json:"level" yaml:"level" validate:"min=0,max=6"`
	Format     string `json:"format" yaml:"format" validate:"omitempty,oneof=json text"`
	Output     string `json:"output" yaml:"output" validate:"omitempty,oneof=stdout stderr file"`
	OutputFile string `json:"output_file" yaml:"output_file"`
	// IndexName is the search index log entries are shipped to when Ship is set.
	IndexName       string           `json:"index_name" yaml:"index_name"`
	Ship            bool             `json:"ship" yaml:"ship"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
}

// Desensitization holds desensitization settings
type Desensitization struct {
	Enabled         bool     `json:"enabled" yaml:"enabled"`
	SensitiveFields []string `json:"sensitive_fields" yaml:"sensitive_fields"`
	MaskChar        string   `json:"mask_char" yaml:"mask_char"`
	FixedMaskLength int      `json:"fixed_mask_length" yaml:"fixed_mask_length"`
}

// Default sensitive field patterns
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "secret", "api_key", "apikey", "authorization",
}

func getLoggerConfig(v *viper.Viper) *Logger {
	indexName := strings.ToLower(getStringOrDefault(v, "app_name", "herosearch") + "-log")

	return &Logger{
		Level:           getIntOrDefault(v, "logger.level", 4),
		Format:          getStringOrDefault(v, "logger.format", "text"),
		Output:          getStringOrDefault(v, "logger.output", "stderr"),
		OutputFile:      v.GetString("logger.output_file"),
		IndexName:       getStringOrDefault(v, "logger.index_name", indexName),
		Ship:            getBoolOrDefault(v, "logger.ship", false),
		Desensitization: getDesensitizationConfig(v),
	}
}

func getDesensitizationConfig(v *viper.Viper) *Desensitization {
	fields := v.GetStringSlice("logger.desensitization.sensitive_fields")
	if len(fields) == 0 {
		fields = defaultSensitiveFields
	}
	return &Desensitization{
		Enabled:         getBoolOrDefault(v, "logger.desensitization.enabled", true),
		SensitiveFields: fields,
		MaskChar:        getStringOrDefault(v, "logger.desensitization.mask_char", "*"),
		FixedMaskLength: getIntOrDefault(v, "logger.desensitization.fixed_mask_length", 6),
	}
}
