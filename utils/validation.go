package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// ValidateEmail checks basic email shape before any network call.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateHandle enforces the display-handle policy: 3-20 word characters.
func ValidateHandle(handle string) error {
	if !handlePattern.MatchString(handle) {
		return errors.New("handle must be 3-20 letters, digits or underscores")
	}
	return nil
}
