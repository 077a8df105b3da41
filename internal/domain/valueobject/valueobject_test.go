package valueobject

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/tasklane/internal/domain/apperror"
)

func TestNewEmailNormalizes(t *testing.T) {
	e, err := NewEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", e.String())

	other, err := NewEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, e.Equals(other))
}

func TestNewEmailRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"no at sign", "alice.example.com"},
		{"no domain", "alice@"},
		{"no tld", "alice@example"},
		{"too long", strings.Repeat("a", 315) + "@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEmail(tc.raw)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestNewUserNameBounds(t *testing.T) {
	_, err := NewUserName("A")
	assert.True(t, apperror.IsValidation(err))

	n, err := NewUserName("  Al  ")
	require.NoError(t, err)
	assert.Equal(t, "Al", n.String())

	n, err = NewUserName(strings.Repeat("x", 100))
	require.NoError(t, err)
	assert.Equal(t, 100, len(n.String()))

	_, err = NewUserName(strings.Repeat("x", 101))
	assert.True(t, apperror.IsValidation(err))
}

func TestNewListTitleBounds(t *testing.T) {
	_, err := NewListTitle("   ")
	assert.True(t, apperror.IsValidation(err))

	title, err := NewListTitle(strings.Repeat("x", 200))
	require.NoError(t, err)
	assert.Equal(t, 200, len(title.String()))

	_, err = NewListTitle(strings.Repeat("x", 201))
	assert.True(t, apperror.IsValidation(err))
}

func TestNewItemTitleBounds(t *testing.T) {
	_, err := NewItemTitle("")
	assert.True(t, apperror.IsValidation(err))

	title, err := NewItemTitle(strings.Repeat("x", 300))
	require.NoError(t, err)
	assert.Equal(t, 300, len(title.String()))

	_, err = NewItemTitle(strings.Repeat("x", 301))
	assert.True(t, apperror.IsValidation(err))
}

func TestDescriptionZeroValueIsValid(t *testing.T) {
	var d Description
	assert.True(t, d.IsEmpty())

	d, err := NewDescription("")
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())

	_, err = NewDescription(strings.Repeat("x", 1001))
	assert.True(t, apperror.IsValidation(err))
}

func TestRuneLengthCountsRunesNotBytes(t *testing.T) {
	// 100 two-byte runes are within the 100-char user name limit.
	n, err := NewUserName(strings.Repeat("é", 100))
	require.NoError(t, err)
	assert.Equal(t, 100, len([]rune(n.String())))
}

func TestNewEntityIDIsUniqueAndNonZero(t *testing.T) {
	a := NewEntityID()
	b := NewEntityID()
	assert.False(t, a.IsZero())
	assert.False(t, a.Equals(b))
}

func TestParseEntityID(t *testing.T) {
	raw := uuid.New().String()
	id, err := ParseEntityID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.String())

	_, err = ParseEntityID("not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestEntityIDTextRoundTrip(t *testing.T) {
	id := NewEntityID()
	b, err := id.MarshalText()
	require.NoError(t, err)

	var parsed EntityID
	require.NoError(t, parsed.UnmarshalText(b))
	assert.True(t, id.Equals(parsed))
}

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"low":    PriorityLow,
		"medium": PriorityMedium,
		"high":   PriorityHigh,
	}
	for raw, want := range cases {
		got, err := ParsePriority(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePriority("urgent")
	assert.True(t, apperror.IsValidation(err))
}

func TestPriorityFromInt(t *testing.T) {
	p, err := PriorityFromInt(2)
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	_, err = PriorityFromInt(0)
	assert.Error(t, err)
	_, err = PriorityFromInt(4)
	assert.Error(t, err)
}
