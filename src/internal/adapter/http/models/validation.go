package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validationMessages runs the struct tags of v and returns one message per
// failing field.
func validationMessages(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "numeric":
		return field + " must contain only digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "dive", "notblank":
		return field + " contains an empty value"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, "; "))
}

func requirePositive(errs []string, field string, amount decimal.Decimal) []string {
	if amount.LessThanOrEqual(decimal.Zero) {
		return append(errs, field+" must be greater than zero")
	}
	return errs
}

func requireNonNegative(errs []string, field string, amount *decimal.Decimal) []string {
	if amount != nil && amount.IsNegative() {
		return append(errs, field+" cannot be negative")
	}
	return errs
}

// requireCents rejects amounts with more than two decimal places.
func requireCents(errs []string, field string, amount *decimal.Decimal) []string {
	if amount != nil && !amount.Equal(amount.Truncate(2)) {
		return append(errs, field+" must have at most two decimal places")
	}
	return errs
}
