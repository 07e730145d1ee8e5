package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}()

// RegisterValidations installs the custom "digits" and "city" tags on v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return isDigits(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return IsSaudiCity(fl.Field().String())
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BindingMessage turns validator errors from request binding into the messages shown to users.
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "Please fill all required fields."
	case "email":
		return "Please enter a valid email."
	case "digits":
		return "Phone number must be digits only."
	case "city":
		return "Please choose a city from the list."
	case "min":
		if strings.Contains(strings.ToLower(fe.Field()), "password") {
			return "Password must be at least 6 characters."
		}
	case "gte":
		return "Amounts must not be negative."
	}
	return "Invalid value for " + fe.Field() + "."
}
