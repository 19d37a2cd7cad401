package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errConflict := New(KindConflict, "time slot already booked")

	t.Run("direct", func(t *testing.T) {
		k, ok := KindOf(errConflict)
		assert.True(t, ok)
		assert.Equal(t, KindConflict, k)
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("create booking: %w", errConflict)
		assert.True(t, IsKind(wrapped, KindConflict))
		assert.False(t, IsKind(wrapped, KindValidation))
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := KindOf(fmt.Errorf("connection reset"))
		assert.False(t, ok)
	})
}

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		Kind("unknown"):  http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), "kind %q", kind)
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, KindConflict.Retryable())
	assert.False(t, KindValidation.Retryable())
	assert.False(t, KindNotFound.Retryable())
}
