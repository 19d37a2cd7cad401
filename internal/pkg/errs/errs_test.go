package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "list bookings")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list bookings: connection refused", err.Error())
}

func TestMark(t *testing.T) {
	marker := New("storage failure")
	err := Mark(errors.New("timeout"), marker)

	assert.ErrorIs(t, err, marker)
	assert.Equal(t, "timeout", err.Error())
	assert.Equal(t, marker, Mark(nil, marker))
}

func TestStackLines(t *testing.T) {
	err := Wrap(errors.New("boom"), "insert booking")

	lines := StackLines(err, 2)
	assert.Len(t, lines, 2)
	assert.Nil(t, StackLines(nil, 5))
}
