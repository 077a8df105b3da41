package valueobject

import (
	"regexp"
	"strings"

	"github.com/tasklane/tasklane/internal/domain/apperror"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is a normalized (trimmed, lower-cased) email address. Two Emails are
// equal iff their normalized values match.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, apperror.New(apperror.Validation, "email must not be empty")
	}
	if len(normalized) > 320 {
		return Email{}, apperror.New(apperror.Validation, "email must be at most 320 characters")
	}
	if !emailPattern.MatchString(normalized) {
		return Email{}, apperror.New(apperror.Validation, "email format is invalid")
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }

func (e Email) Equals(other Email) bool { return e.value == other.value }
