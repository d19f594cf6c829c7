package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and reports every violation at once
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into one readable error
// wrapping ErrInvalidConfig
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Errorf("%s: field is required", field))
		case "required_if":
			msgs = append(msgs, fmt.Errorf("%s: required when %s", field, param))
		case "gte", "min":
			msgs = append(msgs, fmt.Errorf("%s: must be at least %s", field, param))
		case "lte", "max":
			msgs = append(msgs, fmt.Errorf("%s: must not exceed %s", field, param))
		case "gt":
			msgs = append(msgs, fmt.Errorf("%s: must be greater than %s", field, param))
		case "lt":
			msgs = append(msgs, fmt.Errorf("%s: must be less than %s", field, param))
		case "oneof":
			msgs = append(msgs, fmt.Errorf("%s: must be one of [%s]", field, param))
		case "contains":
			msgs = append(msgs, fmt.Errorf("%s: must contain %s", field, param))
		default:
			msgs = append(msgs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(msgs...))
}
