package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.StatusCode(), string(tt.kind))
	}
}

func TestAsKeepsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NotFound("News not found"))

	got := As(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "News not found", got.Message)
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestAsTurnsUnknownErrorsIntoInternal(t *testing.T) {
	cause := errors.New("disk full")

	got := As(cause)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "Internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, As(nil))
}
