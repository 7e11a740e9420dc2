package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStock_Message(t *testing.T) {
	err := InsufficientStock("Blue Mug", 2, 3)

	assert.Equal(t, "insufficient stock for Blue Mug: available 2, requested 3", err.Message)
	assert.Equal(t, 2, err.Details["available"])
	assert.Equal(t, 3, err.Details["requested"])
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus())
}

func TestIs_MatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create order: %w", InvalidTransition("pending", "shipped"))

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestFrom_WrapsUnknownAsInternal(t *testing.T) {
	raw := errors.New("connection reset")
	err := From(raw)

	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "operation failed", err.Message)
	assert.ErrorIs(t, err, raw)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Nil(t, From(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("order", 1), http.StatusNotFound},
		{AccessDenied(""), http.StatusForbidden},
		{ProductUnavailable("Mug"), http.StatusUnprocessableEntity},
		{Conflict("dup"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}
