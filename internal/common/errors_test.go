package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := NewUserError("Error conectando con el servidor", inner)

	assert.Equal(t, "Error conectando con el servidor: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "Error conectando con el servidor", UserMessage(err))
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("Máximo 4 coches para comparar", nil)
	assert.Equal(t, "Máximo 4 coches para comparar", err.Error())
}

func TestUserMessageFallsBackToErrorText(t *testing.T) {
	err := errors.New("plain error")
	assert.Equal(t, "plain error", UserMessage(err))
}

func TestUserMessageFindsWrappedUserError(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewUserError("Error al cargar coches", errors.New("boom")))
	assert.Equal(t, "Error al cargar coches", UserMessage(err))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "backend unavailable", err: ErrBackendUnavailable, want: true},
		{name: "wrapped backend unavailable", err: fmt.Errorf("%w: 503", ErrBackendUnavailable), want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "not found", err: ErrNotFound, want: false},
		{name: "explicit retryable", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "explicit permanent", err: &RetryableError{Err: errors.New("x"), Retryable: false}, want: false},
		{name: "plain error", err: errors.New("x"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
