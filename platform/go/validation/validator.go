// Package validation runs struct-tag validation and reports failures keyed by
// the form field names the handlers bind from.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Validator wraps a configured go-playground validator. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that names fields after their `schema` tag, falling
// back to the `json` tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &Validator{validate: v}
}

// Struct validates s and returns field → messages. A nil map means valid.
func (v *Validator) Struct(s any) map[string][]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"": {err.Error()}}
	}

	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], v.message(fe))
	}
	return out
}

// Label turns a field name such as "end_date" into "End Date".
func (v *Validator) Label(field string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}

func (v *Validator) message(fe validator.FieldError) string {
	name := v.Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "max":
		if isNumber(fe.Kind()) {
			return name + " must be at most " + fe.Param()
		}
		return name + " must be at most " + fe.Param() + " characters long"
	case "min":
		return name + " must be at least " + fe.Param() + " characters long"
	case "len":
		return name + " must be exactly " + fe.Param() + " characters long"
	case "alpha":
		return name + " must contain only letters"
	case "gte":
		return name + " must be greater than or equal to " + fe.Param()
	case "lte":
		return name + " must be less than or equal to " + fe.Param()
	default:
		return name + " is invalid"
	}
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"schema", "json"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
