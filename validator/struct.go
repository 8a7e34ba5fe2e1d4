package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)
}

// fieldName reports fields by their mapstructure, json or Go name, in that order.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name := strings.Split(f.Tag.Get(tag), ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// errorMessages is a nested map of languages to validation tags to custom error messages.
var errorMessages = map[string]map[string]string{
	"en": {
		"required": "The field '%s' is required.",
		"min":      "The field '%s' must be at least %s.",
		"max":      "The field '%s' must be no greater than %s.",
		"lte":      "The field '%s' must be less than or equal to %s.",
		"gte":      "The field '%s' must be greater than or equal to %s.",
		"oneof":    "The field '%s' must be one of [%s].",
		"hostname": "The field '%s' must be a valid hostname.",
		"url":      "The field '%s' must be a valid URL.",
	},
	"zh": {
		"required": "字段 '%s' 为必填项。",
		"min":      "字段 '%s' 的值不能小于 %s。",
		"max":      "字段 '%s' 的值不能大于 %s。",
		"lte":      "字段 '%s' 的值必须小于或等于 %s。",
		"gte":      "字段 '%s' 的值必须大于或等于 %s。",
		"oneof":    "字段 '%s' 的值必须是 [%s] 之一。",
		"hostname": "字段 '%s' 必须是有效的主机名。",
		"url":      "字段 '%s' 必须是有效的 URL。",
	},
}

// parseMessage constructs a friendly error message based on the validation tag and custom messages.
func parseMessage(field string, e validator.FieldError, lang ...string) string {
	msgLang := "en"
	if len(lang) > 0 {
		msgLang = lang[0]
	}
	if msgs, exists := errorMessages[msgLang]; exists {
		if msg, exists := msgs[e.Tag()]; exists {
			switch strings.Count(msg, "%s") {
			case 1:
				return fmt.Sprintf(msg, field)
			case 2:
				return fmt.Sprintf(msg, field, e.Param())
			}
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
}

// path returns the dotted field path without the root struct name.
func path(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// ValidateStruct validates a struct and returns a map of field paths to friendly error messages.
func ValidateStruct(s any, lang ...string) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				field := path(e)
				validationErrors[field] = parseMessage(field, e, lang...)
			}
		} else {
			validationErrors[""] = err.Error()
		}
	}

	return validationErrors
}

// Validate validates a struct and folds every message into one error.
func Validate(s any) error {
	msgs := ValidateStruct(s)
	if len(msgs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(msgs))
	for f := range msgs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, msgs[f])
	}
	return errors.New(strings.Join(parts, " "))
}
