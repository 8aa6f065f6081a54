package middleware

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// usernamePattern matches the platform's username alphabet.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,64}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("roomname", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// ValidateStruct runs validator tags over a bound request payload.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// SanitizeString removes null bytes and control characters (except
// newlines and tabs) and trims whitespace.
func SanitizeString(input string) string {
	input = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`).ReplaceAllString(input, "")
	return strings.TrimSpace(input)
}

// ValidRoomName reports whether a path/query username is safe to forward
// upstream.
func ValidRoomName(username string) bool {
	return usernamePattern.MatchString(username)
}
