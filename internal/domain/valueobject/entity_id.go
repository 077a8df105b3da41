package valueobject

import (
	"github.com/google/uuid"

	"github.com/tasklane/tasklane/internal/domain/apperror"
)

// EntityID wraps a UUID used as an aggregate or child-entity identifier.
// New ids are UUIDv7 so they sort approximately by creation time, which keeps
// btree index pages warm on append-heavy tables.
type EntityID struct {
	value uuid.UUID
}

// NewEntityID generates a fresh time-ordered id.
func NewEntityID() EntityID {
	v, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4
		// rather than crash id generation.
		v = uuid.New()
	}
	return EntityID{value: v}
}

// ParseEntityID converts a raw string coming from transport or storage.
func ParseEntityID(raw string) (EntityID, error) {
	v, err := uuid.Parse(raw)
	if err != nil {
		return EntityID{}, apperror.Wrap(apperror.Validation, err, "invalid entity id")
	}
	return EntityID{value: v}, nil
}

// EntityIDFromUUID wraps an already-parsed UUID, used when scanning rows.
func EntityIDFromUUID(v uuid.UUID) EntityID { return EntityID{value: v} }

func (id EntityID) UUID() uuid.UUID { return id.value }

func (id EntityID) String() string { return id.value.String() }

func (id EntityID) IsZero() bool { return id.value == uuid.Nil }

func (id EntityID) Equals(other EntityID) bool { return id.value == other.value }

func (id EntityID) MarshalText() ([]byte, error) {
	return []byte(id.value.String()), nil
}

func (id *EntityID) UnmarshalText(b []byte) error {
	v, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	id.value = v
	return nil
}
