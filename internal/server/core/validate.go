package core

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report form field names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return fld.Name
	})
	// Text fields keep their submitted value but must hold more than whitespace
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidationError describes rejected input in user-facing terms
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return e.Details
}

// ParseCount reads a non-negative integer field. Blank input is 0,
// anything else must be a whole number.
func ParseCount(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Details: fmt.Sprintf("%s must be a whole number", field)}
	}
	return n, nil
}

// Validate checks req against its validate tags. Failures come back as a
// single *ValidationError listing every rejected field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var details strings.Builder
	for _, err := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch err.Tag() {
		case "required", "notblank":
			details.WriteString(fmt.Sprintf("%s is required", err.Field()))
		case "datetime":
			details.WriteString(fmt.Sprintf("%s must be a date in YYYY-MM-DD form", err.Field()))
		case "min":
			if err.Type().Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}

	return &ValidationError{Details: details.String()}
}
