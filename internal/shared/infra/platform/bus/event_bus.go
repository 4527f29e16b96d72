package bus

import "context"

// Keyer lo implementan los eventos que deben ir siempre a la misma partición.
type Keyer interface {
	PartitionKey() string
}

// EventBus publica eventos de integración. El formato del payload lo deciden los adapters.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}

// MessageHandler procesa un mensaje ya serializado, venga de Kafka o del bus en memoria.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}
