package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationFixture struct {
	Name  string `json:"name" binding:"required,max=10"`
	Email string `json:"email" binding:"omitempty,email"`
	Kind  string `json:"kind" binding:"required,oneof=CASH BANK"`
}

func validateFixture(t *testing.T, input validationFixture) error {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v.Struct(input)
}

func TestFormatValidationErrors_FieldDetails(t *testing.T) {
	SetupValidator()

	err := validateFixture(t, validationFixture{Email: "not-an-email", Kind: "WALLET"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 3)

	fields := make(map[string]string, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	// json tag names, not Go field names
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Must be one of: CASH BANK", fields["kind"])
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(errors.New("unexpected EOF"), "req-2")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}
