// internal/validator/validator.go
package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var gmailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@gmail\.com$`)

func init() {
	Validate = validator.New()

	// Gmail-only address check, same pattern the auth service enforces.
	_ = Validate.RegisterValidation("gmail", func(fl validator.FieldLevel) bool {
		return gmailRe.MatchString(fl.Field().String())
	})

	// String is not empty and not only whitespace.
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
