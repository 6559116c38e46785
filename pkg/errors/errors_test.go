package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantType ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypeAuth},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeServerError},
		{http.StatusGatewayTimeout, ErrorTypeServerError},
		{http.StatusTeapot, ErrorTypeUnknown},
		{http.StatusMovedPermanently, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status)
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.wantType, err.Type)
				assert.Equal(t, tt.status, err.Code)
			}
		})
	}

	assert.Nil(t, FromStatus(http.StatusOK))
	assert.Nil(t, FromStatus(http.StatusNoContent))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "not_found error (code 404): resource not found", FromStatus(404).Error())
	assert.Equal(t, "output error: disk full", New(ErrorTypeOutput, 0, "disk full").Error())
}

func TestWrapAndInspect(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("poll 2: %w", Wrap(ErrorTypeNetwork, cause, "GET failed"))

	assert.True(t, IsType(err, ErrorTypeNetwork))
	assert.False(t, IsType(err, ErrorTypeOutput))
	assert.Equal(t, ErrorTypeNetwork, TypeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "GET failed: connection refused")

	assert.Equal(t, ErrorTypeUnknown, TypeOf(cause))
}
