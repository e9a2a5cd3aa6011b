// Package validate checks request DTOs against their `validate` struct tags.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"coursehub/internal/core/domain"
	"coursehub/internal/pkg/password"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// report json field names instead of Go field names
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = val.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return password.ValidatePassword(fl.Field().String())
	})

	return val
}

// Struct validates s and returns a BadRequest error describing the first violation
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.Wrap(domain.ErrInvalidInput, err)
	}
	return domain.NewError(domain.KindBadRequest, describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "password":
		return fmt.Sprintf("%s must be %d-%d characters with an upper-case letter, a lower-case letter and a digit",
			field, password.MinLength, password.MaxLength)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
