package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Text  string `validate:"required,min=1,max=10"`
	Kind  string `validate:"omitempty,oneof=Personal Work"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(sampleRequest{Email: "a@example.com", Text: "hello"})
	assert.NoError(t, err)
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	err := ValidateStruct(sampleRequest{})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "validation failed", verr.Message)
	assert.Contains(t, verr.Fields["Email"], "required")
	assert.Contains(t, verr.Fields["Text"], "required")
}

func TestValidateStruct_TagMessages(t *testing.T) {
	err := ValidateStruct(sampleRequest{Email: "not-an-email", Text: "way too long text", Kind: "Other"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["Email"], "valid email")
	assert.Contains(t, verr.Fields["Text"], "at most 10")
	assert.Contains(t, verr.Fields["Kind"], "one of")
}

func TestValidationError_FieldDetails(t *testing.T) {
	verr := &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{"Role": "Role is required"},
	}

	details := verr.FieldDetails()
	assert.Equal(t, "Role is required", details["Role"])
}
