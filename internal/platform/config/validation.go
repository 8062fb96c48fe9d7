package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key so messages name the setting
// exactly as it is written in YAML.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast - the service should not start with invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors lists every failed field, one per line.
func formatValidationErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(formatFieldPath(fe.Namespace()), fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(key string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return key + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", key, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not repeat a %s", key, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}
}

// formatFieldPath drops the root struct name: "Config.sync.sources[0].base_url"
// becomes "sync.sources[0].base_url".
func formatFieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}
