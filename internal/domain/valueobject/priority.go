package valueobject

import "github.com/tasklane/tasklane/internal/domain/apperror"

// Priority orders todo items by urgency. Stored as its integer value.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority accepts the lower-case name used on the wire.
func ParsePriority(raw string) (Priority, error) {
	switch raw {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return 0, apperror.Newf(apperror.Validation, "priority must be one of low, medium, high; got %q", raw)
	}
}

// PriorityFromInt validates the stored integer representation.
func PriorityFromInt(v int) (Priority, error) {
	p := Priority(v)
	if !p.Valid() {
		return 0, apperror.Newf(apperror.Validation, "priority value %d out of range", v)
	}
	return p, nil
}
