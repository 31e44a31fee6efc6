// internal/common/validation/validate.go
package validation

import (
	"fmt"
	"regexp"
)

var (
	taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

// ValidateTaskTypeNaming checks a worker task type follows the verb-noun
// kebab-case convention (e.g. schedule-interview).
func ValidateTaskTypeNaming(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type must follow format: verb-noun (e.g., schedule-interview)")
	}
	return nil
}

// ValidateEmail reports whether the address is plausibly deliverable.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone reports whether the number is usable as an SMS destination.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
