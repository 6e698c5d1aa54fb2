package report

import (
	"errors"
	"reflect"
	"reports-api/schemas"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator reporting json field names and knowing the
// "region" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		return schemas.IsKnownRegion(fl.Field().String())
	})

	return v
}

// ToFieldErrors maps validator.ValidationErrors to readable field errors.
func ToFieldErrors(err error) []schemas.FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []schemas.FieldError{{Field: "_", Message: err.Error()}}
	}

	out := make([]schemas.FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, schemas.FieldError{Field: field, Message: "is required"})
		case "required_with":
			out = append(out, schemas.FieldError{Field: field, Message: "is required when " + e.Param() + " is set"})
		case "region":
			out = append(out, schemas.FieldError{Field: field, Message: "must be a known region"})
		case "oneof":
			out = append(out, schemas.FieldError{Field: field, Message: "must be one of: " + e.Param()})
		case "gte":
			out = append(out, schemas.FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, schemas.FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "url":
			out = append(out, schemas.FieldError{Field: field, Message: "must be a valid URL"})
		default:
			out = append(out, schemas.FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
