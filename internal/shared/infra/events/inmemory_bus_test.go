package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/devcamper/internal/shared/domain/events"
)

type recordingHandler struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
}

func (h *recordingHandler) HandleMessage(ctx context.Context, key string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, key)
	h.payloads = append(h.payloads, payload)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payloads)
}

func TestInMemoryEventBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewInMemoryEventBus("bootcamps")
	h1, h2 := &recordingHandler{}, &recordingHandler{}
	bus.Subscribe(ctx, 4, h1, zap.NewNop())
	bus.Subscribe(ctx, 4, h2, zap.NewNop())

	evt := sharedEvents.IntegrationEvent{
		Type:      "course.created",
		Key:       "bootcamp-1",
		Timestamp: time.Now().UTC(),
		Data:      json.RawMessage(`{"tuition":8000}`),
	}
	require.NoError(t, bus.Publish(ctx, evt))

	assert.Eventually(t, func() bool { return h1.count() == 1 && h2.count() == 1 }, time.Second, 5*time.Millisecond)

	h1.mu.Lock()
	defer h1.mu.Unlock()
	assert.Equal(t, "bootcamp-1", h1.keys[0])

	var got sharedEvents.IntegrationEvent
	require.NoError(t, json.Unmarshal(h1.payloads[0], &got))
	assert.Equal(t, "course.created", got.Type)
	assert.JSONEq(t, `{"tuition":8000}`, string(got.Data))
}

func TestInMemoryEventBus_NoSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus("bootcamps")
	assert.NoError(t, bus.Publish(context.Background(), map[string]string{"a": "b"}))
}

func TestInMemoryEventBus_PublishRespectsContext(t *testing.T) {
	bus := NewInMemoryEventBus("bootcamps")

	// suscriptor sin consumidor: el buffer de 1 se llena y Publish debe respetar la cancelación
	subCtx, stop := context.WithCancel(context.Background())
	stop()
	bus.Subscribe(subCtx, 1, &recordingHandler{}, zap.NewNop())
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Publish(ctx, "second"), context.DeadlineExceeded)
}
