package utils

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRetry(t *testing.T) {
	t.Run("éxito tras fallos", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("devuelve el último error", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 2, time.Millisecond, func() error {
			calls++
			return errors.New("still down")
		})
		assert.EqualError(t, err, "still down")
		assert.Equal(t, 2, calls)
	})

	t.Run("contexto cancelado", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Retry(ctx, 5, time.Hour, func() error { return errors.New("x") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUnmarshalAndHandle(t *testing.T) {
	type payload struct {
		Rating int `json:"rating"`
	}

	var got payload
	UnmarshalAndHandle(zap.NewNop(), json.RawMessage(`{"rating":8}`), func(p payload) { got = p })
	assert.Equal(t, 8, got.Rating)

	called := false
	UnmarshalAndHandle(zap.NewNop(), json.RawMessage(`not-json`), func(p payload) { called = true })
	assert.False(t, called)
}
