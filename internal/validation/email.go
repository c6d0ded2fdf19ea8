package validation

import (
	"net/mail"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a bare address (no display name) with
// a dotted domain.
func ValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return false
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return parsed.Address == email && parsed.Name == ""
}

// EmailRule is an ozzo rule accepting empty values or valid addresses.
// Combine with ozzo.Required to reject blanks.
var EmailRule = ozzo.By(func(value any) error {
	value, isNil := ozzo.Indirect(value)
	if isNil {
		return nil
	}
	email, _ := value.(string)
	if email == "" || ValidEmail(email) {
		return nil
	}
	return ozzo.NewError("validation_is_email", "must be a valid email address")
})
