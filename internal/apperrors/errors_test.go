package apperrors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{InvalidArgument, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{InsufficientFunds, http.StatusUnprocessableEntity},
		{AlreadyExists, http.StatusConflict},
		{Transient, http.StatusServiceUnavailable},
		{InternalError, http.StatusInternalServerError},
		{ErrorCode("unknown"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, New(tc.code, "x").HTTPStatus(), "code %s", tc.code)
	}
}

func TestErrorString(t *testing.T) {
	err := New(NotFound, "account not found")
	assert.Equal(t, "not_found: account not found", err.Error())
}

func TestNewfAndDetails(t *testing.T) {
	err := Newf(InsufficientFunds, "balance is %d", 7).WithDetails("boom")
	assert.Equal(t, "balance is 7", err.Message)
	assert.Equal(t, "boom", err.Details)
}
