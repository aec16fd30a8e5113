package utils

import (
	"fmt"
	"regexp"
)

// Email regex pattern
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Identifier length cap, matching the gateway's notes field limits
const MaxIdentifierLength = 128

// ValidateEmail checks if email format is valid
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateIdentifier checks a user or course identifier
func ValidateIdentifier(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	if len(value) > MaxIdentifierLength {
		return fmt.Errorf("%s must be less than %d characters", name, MaxIdentifierLength)
	}
	return nil
}
