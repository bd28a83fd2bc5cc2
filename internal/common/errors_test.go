package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError("Enter a Project ID")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Enter a Project ID", err.Error())
}

func TestValidationError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("save project: %w", NewValidationError("Passcodes do not match"))
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Passcodes do not match", ve.Reason)
}
