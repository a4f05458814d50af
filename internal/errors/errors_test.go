package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorStatusCode(t *testing.T) {
	err := New("listing failed", WithStatusCode(http.StatusBadGateway))
	assert.Equal(t, http.StatusBadGateway, err.GetStatusCode())
	assert.Equal(t, http.StatusText(http.StatusBadGateway), err.Status)

	auth := NewAuthMissingError("token file is empty")
	assert.Equal(t, "auth.token_missing", auth.GetId())
	assert.Equal(t, http.StatusUnauthorized, auth.GetStatusCode())
}

func TestAppErrorCauseChain(t *testing.T) {
	cause := fmt.Errorf("read JWT_TOKEN: no such file")
	err := New("cannot load token", WithCause(cause))

	assert.Contains(t, err.Error(), "cannot load token")
	assert.Contains(t, err.Error(), cause.Error())

	var appErr *AppError
	require.True(t, As(fmt.Errorf("init: %w", err), &appErr))
	assert.Equal(t, "equipment_exporter.app_error", appErr.GetId())
}

func TestAsApiErrorThroughWrapping(t *testing.T) {
	apiErr := NewApiError(http.StatusTooManyRequests, "")
	assert.Equal(t, "Unknown error", apiErr.Message)

	wrapped := fmt.Errorf("page 3: %w", apiErr)
	got, ok := AsApiError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, got.StatusCode)
}
