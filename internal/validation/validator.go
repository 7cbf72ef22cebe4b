package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
)

type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator wraps go-playground/validator and turns its field errors into an
// apperr.ValidationError keyed by the json field path.
type Validator struct {
	validator *validator.Validate
}

func NewValidator(rules ...ValidationRule) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	for _, r := range rules {
		r.Rule(v)
	}
	return &Validator{validator: v}
}

// Struct validates s. It returns nil, an *apperr.ValidationError, or the
// underlying error when s is not a struct.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := apperr.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe), message(fe))
	}
	return verr
}

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

// FractionRule registers "fraction": a float in [0, 1).
func FractionRule() ValidationRule {
	return ValidationRule{Rule: registerFn("fraction", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f >= 0 && f < 1
	})}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "fraction":
		return "must be a fraction in [0, 1)"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
