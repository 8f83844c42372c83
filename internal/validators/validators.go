// Package validators contains input format rules that go beyond what gin
// binding tags express.
package validators

import "regexp"

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidUsername accepts 3-30 characters of letters, digits and underscores.
func ValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 30 {
		return false
	}
	return usernamePattern.MatchString(username)
}

// ValidPassword requires at least 8 characters with an upper-case letter, a
// lower-case letter and a digit.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}
