package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	validate        = validator.New()
)

// dueDateLayouts are tried in order when parsing a due date.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return invalid("username", "Username must be 3-20 characters, lowercase letters, numbers, or underscores only")
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return invalid("email", "A valid email is required")
	}
	return nil
}

// parseDueDate accepts RFC 3339 timestamps or plain dates and requires a
// moment strictly after now.
func parseDueDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		due, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if !due.After(now) {
			return time.Time{}, invalid("dueDate", "Due date must be in the future")
		}
		return due, nil
	}
	return time.Time{}, invalid("dueDate", fmt.Sprintf("Invalid due date %q", raw))
}

// validateReferences rejects zero ids and returns the de-duplicated list.
func validateReferences(field string, ids []uint64) ([]uint64, error) {
	for _, id := range ids {
		if id == 0 {
			return nil, invalid(field, fmt.Sprintf("Invalid %s list", field))
		}
	}
	return uniqueUint64(ids), nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
