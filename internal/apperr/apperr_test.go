package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCode(t *testing.T) {
	err := New(CodeCheckerPingInFlight, "ping already in flight")

	require.Error(t, err)
	assert.Equal(t, CodeCheckerPingInFlight, CodeOf(err))
	assert.Contains(t, err.Error(), "ping already in flight")
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(cause, CodeConfigReadFailure, "read config", Field("path", "/etc/pingcheck.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeConfigReadFailure, CodeOf(err))
	assert.Nil(t, Wrap(nil, CodeConfigReadFailure, "noop"))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", New(CodeCheckerPingInFlight, "busy"), http.StatusConflict},
		{"invalid request", New(CodeServerRequestInvalid, "bad body"), http.StatusBadRequest},
		{"invalid value", Errorf(CodeConfigInvalidValue, "bad %s", "endpoint"), http.StatusBadRequest},
		{"internal", New(CodeServerInternalFailure, "boom"), http.StatusInternalServerError},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
