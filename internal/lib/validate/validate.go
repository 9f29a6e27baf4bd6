// Package validate переводит ошибки go-playground/validator в models.FieldError.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Validator проверяет структуры по тегам validate.
type Validator struct {
	v *validator.Validate
}

// New создаёт Validator, который называет поля по их json-тегам.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct проверяет s и возвращает первое нарушение как FieldError вида kind.
func (val *Validator) Struct(s any, kind error) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	return &models.FieldError{Kind: kind, Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return "must be at least " + fe.Param()
	case "gt":
		if fe.Param() == "0" {
			return "must be positive"
		}
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email"
	default:
		return "is not valid"
	}
}
