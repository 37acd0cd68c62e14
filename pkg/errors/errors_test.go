package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(fmt.Errorf("relation \"users\" does not exist"))
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "internal server error: relation \"users\" does not exist", appErr.Detail())
}

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Clone(ErrConflict, "email already registered"))
	appErr := FromError(wrapped)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "email already registered", appErr.Detail())
}

func TestIsMatchesByCode(t *testing.T) {
	err := Clone(ErrForbidden, "not the owner")
	assert.True(t, stderrors.Is(err, ErrForbidden))
	assert.False(t, stderrors.Is(err, ErrNotFound))
}

func TestDetailHidesCauseForClientErrors(t *testing.T) {
	err := Validation(fmt.Errorf("Key: 'Email' failed"), "email is required")
	assert.Equal(t, "email is required", err.Detail())
	assert.Contains(t, err.Error(), "Key: 'Email' failed")
}
