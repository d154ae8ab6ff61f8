package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load pos")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal_error: failed to load pos: connection refused", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeNotFound, "pos not found"))

	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestFields(t *testing.T) {
	err := NewFields(CodeValidation, "invalid pos", "name", "postalCode")
	assert.Equal(t, []string{"name", "postalCode"}, FieldsOf(err))

	wrapped := Wrap(err, CodeValidation, "invalid update")
	assert.Equal(t, []string{"name", "postalCode"}, FieldsOf(wrapped))
	assert.Nil(t, FieldsOf(errors.New("plain")))
}
