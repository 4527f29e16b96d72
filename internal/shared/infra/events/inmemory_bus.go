package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
)

// message es lo que viaja por el bus en memoria: la clave y el evento ya serializado.
type message struct {
	key     string
	payload []byte
}

// InMemoryEventBus es el bus de un único topic usado cuando Kafka no está habilitado.
type InMemoryEventBus struct {
	subscribers []chan message
	mu          sync.RWMutex
	topic       string
}

var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{topic: topic}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

// Publish serializa el evento y lo entrega a cada suscriptor. Bloquea si un
// suscriptor tiene el buffer lleno, hasta que ctx se cancele.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message{payload: data}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.key = keyer.PartitionKey()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registra un handler y lo alimenta desde una goroutine hasta que ctx se cancele.
func (b *InMemoryEventBus) Subscribe(ctx context.Context, bufferSize int, handler sharedBus.MessageHandler, log *zap.Logger) {
	ch := make(chan message, bufferSize)

	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("🛑 Suscriptor en memoria detenido", zap.String("topic", b.topic))
				return
			case msg := <-ch:
				handler.HandleMessage(ctx, msg.key, msg.payload)
			}
		}
	}()
}
