package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/foodgram/backend/internal/models"
)

// Validator wraps go-playground/validator and converts failures to
// ValidationError with per-field messages keyed by json name.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// hexcolor accepts #RGB and rgba forms; tags need exactly #RRGGBB
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return models.IsHexColor(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[fieldPath(e)] = friendlyMessage(e)
	}
	return ValidationError("validation failed", fieldErrors)
}

// fieldPath drops the root struct name: "RecipeDraft.ingredients[0].amount"
// becomes "ingredients[0].amount".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "hexcolor6":
		return "must be a hex color like #1A2B3C"
	default:
		return "is invalid"
	}
}
