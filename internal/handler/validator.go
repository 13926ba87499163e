package handler

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// Validator checks request structs against their validate tags. Field names
// in reported errors follow the json tag.
type Validator struct {
	validate *validator.Validate
}

var sharedValidator = sync.OnceValue(newValidator)

// GetValidator returns the process-wide validator
func GetValidator() *Validator {
	return sharedValidator()
}

func newValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("config_section", validateConfigSection); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	}
	return name
}

func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError maps each failing field to a readable message.
// Anything that is not a validation error collapses to a single "error" key.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "config_section":
		return fmt.Sprintf("Must be one of: %s", strings.Join(domain.ConfigSections, ", "))
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "excludesall":
		return "Contains invalid characters"
	}
	return "Invalid value"
}

func validateConfigSection(fl validator.FieldLevel) bool {
	return slices.Contains(domain.ConfigSections, fl.Field().String())
}
