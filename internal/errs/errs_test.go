package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Conflict, http.StatusConflict},
		{Authentication, http.StatusUnauthorized},
		{Authorization, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Invariant, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(New(tc.kind, "boom")))
	}
}

func TestStatusUnknownErrorIsServerFault(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("driver: bad connection")))
}

func TestMessageNeverLeaksInternals(t *testing.T) {
	assert.Equal(t, "Internal server error", Message(errors.New("dial tcp 10.0.0.5: timeout")))
	assert.Equal(t, "User not found", Message(New(NotFound, "User not found")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := Wrap(Conflict, "User already exists", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Conflict, KindOf(err))
	assert.Equal(t, "User already exists", err.Error())
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(Invariant, "Cannot remove the last super admin"))
	assert.Equal(t, Invariant, KindOf(err))
}
