package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"semsearch/internal/domain"
)

var errInvalidRequest = errors.New("invalid request")

// requestValidator adapts go-playground/validator to echo.Validator.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	validate := validator.New()

	// Use JSON field names for validation error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{validate: validate}
}

// Validate reports the first failing field as a ValidationError.
func (v *requestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("body", "", fmt.Errorf("%w: %v", errInvalidRequest, err))
	}

	first := verrs[0]
	var msg error
	switch first.Tag() {
	case "required":
		msg = fmt.Errorf("%s is required", first.Field())
	default:
		msg = fmt.Errorf("%s failed %s validation", first.Field(), first.Tag())
	}
	return domain.NewValidationError(first.Field(), fmt.Sprint(first.Value()), msg)
}
