package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobboard-service/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so messages match what the client sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks a request payload and reports failures as a ValidationError.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return apperrors.FromValidation(err)
	}
	return nil
}
