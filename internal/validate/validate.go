package validate

import (
	"strings"
	"unicode"
)

// Email returns an empty string when email is acceptable, otherwise a
// user-facing message for the email field.
func Email(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !strings.Contains(email, "@") {
		return "Invalid email address"
	}
	return ""
}

// Password enforces the complexity rules: at least 8 characters with an
// uppercase letter, a lowercase letter and a digit.
func Password(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return "Password must contain at least one uppercase letter"
	}
	if !lower {
		return "Password must contain at least one lowercase letter"
	}
	if !digit {
		return "Password must contain at least one number"
	}
	return ""
}

// Registration validates the fields accepted on registration and returns
// a per-field error map, or nil when everything passes.
func Registration(email, password, confirmPassword string) map[string]string {
	errs := map[string]string{}
	if msg := Email(email); msg != "" {
		errs["email"] = msg
	}
	if msg := Password(password); msg != "" {
		errs["password"] = msg
	}
	if password != confirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
