package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that also knows colon ids and intents
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("colon_id", func(fl validator.FieldLevel) bool {
		_, err := colon.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("intent", func(fl validator.FieldLevel) bool {
		_, err := colon.ParseIntent(fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateUserConfig checks stored classification overrides
func ValidateUserConfig(cfg *UserConfig) error {
	return NewValidator().Validate(cfg)
}
