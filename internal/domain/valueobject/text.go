package valueobject

import (
	"strings"
	"unicode/utf8"

	"github.com/tasklane/tasklane/internal/domain/apperror"
)

// The string value objects below share one shape: trim whitespace, enforce a
// rune-length window, fail with a Validation error naming the rule.

func validateText(label, raw string, min, max int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(trimmed)
	if n < min {
		if min <= 1 {
			return "", apperror.Newf(apperror.Validation, "%s must not be empty", label)
		}
		return "", apperror.Newf(apperror.Validation, "%s must be at least %d characters", label, min)
	}
	if n > max {
		return "", apperror.Newf(apperror.Validation, "%s must be at most %d characters", label, max)
	}
	return trimmed, nil
}

// UserName is a display name between 2 and 100 characters.
type UserName struct {
	value string
}

func NewUserName(raw string) (UserName, error) {
	v, err := validateText("user name", raw, 2, 100)
	if err != nil {
		return UserName{}, err
	}
	return UserName{value: v}, nil
}

func (n UserName) String() string { return n.value }

func (n UserName) Equals(other UserName) bool { return n.value == other.value }

// ListTitle is a todo list title between 1 and 200 characters.
type ListTitle struct {
	value string
}

func NewListTitle(raw string) (ListTitle, error) {
	v, err := validateText("list title", raw, 1, 200)
	if err != nil {
		return ListTitle{}, err
	}
	return ListTitle{value: v}, nil
}

func (t ListTitle) String() string { return t.value }

func (t ListTitle) Equals(other ListTitle) bool { return t.value == other.value }

// ItemTitle is a todo item title between 1 and 300 characters.
type ItemTitle struct {
	value string
}

func NewItemTitle(raw string) (ItemTitle, error) {
	v, err := validateText("item title", raw, 1, 300)
	if err != nil {
		return ItemTitle{}, err
	}
	return ItemTitle{value: v}, nil
}

func (t ItemTitle) String() string { return t.value }

func (t ItemTitle) Equals(other ItemTitle) bool { return t.value == other.value }

// Description is optional free text up to 1000 characters. The zero value is
// a valid empty description.
type Description struct {
	value string
}

func NewDescription(raw string) (Description, error) {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) > 1000 {
		return Description{}, apperror.New(apperror.Validation, "description must be at most 1000 characters")
	}
	return Description{value: trimmed}, nil
}

func (d Description) String() string { return d.value }

func (d Description) IsEmpty() bool { return d.value == "" }

func (d Description) Equals(other Description) bool { return d.value == other.value }
