package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsValidationErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(samplePayload{Name: "x", Email: "nope"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be at least 2 characters", details["Name"])
	assert.Equal(t, "must be a valid email", details["Email"])
}

func TestToDetailsRequired(t *testing.T) {
	v := validator.New()
	err := v.Struct(samplePayload{})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["Name"])
	assert.Equal(t, "is required", details["Email"])
}

func TestToDetailsBadJSON(t *testing.T) {
	var dst samplePayload
	err := json.Unmarshal([]byte("{"), &dst)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsFallback(t *testing.T) {
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
