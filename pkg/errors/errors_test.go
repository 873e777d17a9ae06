package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsKind(t *testing.T) {
	err := Clone(ErrCapacityExceeded, "event already has 30 registrations")

	assert.Equal(t, "CAPACITY_EXCEEDED", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "event already has 30 registrations", err.Message)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.False(t, errors.Is(err, ErrDuplicateEntry))
}

func TestFromErrorNormalisesPlainErrors(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)

	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "event not found"))
	assert.Equal(t, ErrNotFound.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}

func TestInternalWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Internal(cause, "failed to load event")

	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load event: connection reset", err.Error())
}
