package logger

import (
	"strings"

	"github.com/ncobase/herosearch/config"
	"github.com/sirupsen/logrus"
)

// maxDepth bounds recursion into nested values.
const maxDepth = 10

// Desensitizer masks values of sensitive log fields. A field is sensitive
// when its name contains one of the configured names, case-insensitively.
type Desensitizer struct {
	fields []string
	mask   string
}

// NewDesensitizer creates a new desensitizer instance
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	maskChar := cfg.MaskChar
	if maskChar == "" {
		maskChar = "*"
	}
	length := cfg.FixedMaskLength
	if length <= 0 {
		length = 6
	}

	fields := make([]string, 0, len(cfg.SensitiveFields))
	for _, f := range cfg.SensitiveFields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			fields = append(fields, f)
		}
	}
	return &Desensitizer{fields: fields, mask: strings.Repeat(maskChar, length)}
}

// DesensitizeFields returns a copy of fields with sensitive values masked.
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > maxDepth {
		return value
	}
	if d.isSensitiveField(key) {
		return d.mask
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = d.desensitizeValue(k, inner, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, inner := range v {
			if d.isSensitiveField(k) {
				inner = d.mask
			}
			out[k] = inner
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = d.desensitizeValue("", inner, depth+1)
		}
		return out
	default:
		return value
	}
}

// isSensitiveField checks if field name contains sensitive keywords
func (d *Desensitizer) isSensitiveField(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, f := range d.fields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// DesensitizeHook masks entry fields before the entry is written or shipped.
type DesensitizeHook struct {
	d *Desensitizer
}

// NewDesensitizeHook creates a hook applying d to every entry.
func NewDesensitizeHook(d *Desensitizer) *DesensitizeHook {
	return &DesensitizeHook{d: d}
}

func (h *DesensitizeHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *DesensitizeHook) Fire(entry *logrus.Entry) error {
	entry.Data = h.d.DesensitizeFields(entry.Data)
	return nil
}
