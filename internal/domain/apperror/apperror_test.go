package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", Validation.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "conflict", Conflict.String())
	assert.Equal(t, "invariant", Invariant.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestNewAndKindOf(t *testing.T) {
	err := New(NotFound, "user missing")
	assert.Equal(t, "user missing", err.Error())
	assert.Equal(t, NotFound, KindOf(err))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestNewf(t *testing.T) {
	err := Newf(Validation, "field %s is bad", "email")
	assert.Equal(t, "field email is bad", err.Error())
	assert.True(t, IsValidation(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(Conflict, cause, "email already registered")

	assert.Equal(t, "email already registered: duplicate key", err.Error())
	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, cause)
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	inner := New(Conflict, "email taken")
	outer := fmt.Errorf("create user: %w", inner)

	assert.Equal(t, Conflict, KindOf(outer))
	assert.True(t, IsConflict(outer))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestErrorsAsExposesKind(t *testing.T) {
	var ae *Error
	require.True(t, errors.As(Wrap(Invariant, nil, "bad state"), &ae))
	assert.Equal(t, Invariant, ae.Kind())
}
