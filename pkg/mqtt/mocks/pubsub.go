package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/absmach/quadra/pkg/mqtt"
	"github.com/stretchr/testify/mock"
)

var _ mqtt.PubSub = (*MockPubSub)(nil)

// MockPubSub is a mock implementation of the PubSub interface for testing
type MockPubSub struct {
	mock.Mock
}

func (m *MockPubSub) Publish(ctx context.Context, topic string, msg any) error {
	args := m.Called(ctx, topic, msg)

	return args.Error(0)
}

func (m *MockPubSub) Subscribe(ctx context.Context, topic string, handler mqtt.Handler) error {
	args := m.Called(ctx, topic, handler)

	return args.Error(0)
}

func (m *MockPubSub) Unsubscribe(ctx context.Context, topic string) error {
	args := m.Called(ctx, topic)

	return args.Error(0)
}

func (m *MockPubSub) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

var _ mqtt.PubSub = (*Loopback)(nil)

// Loopback is an in-process broker. Publish encodes the message as JSON and
// hands it synchronously to every handler subscribed to the exact topic.
type Loopback struct {
	mu       sync.RWMutex
	handlers map[string][]mqtt.Handler
}

func NewLoopback() *Loopback {
	return &Loopback{handlers: make(map[string][]mqtt.Handler)}
}

func (l *Loopback) Publish(_ context.Context, topic string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	l.mu.RLock()
	handlers := append([]mqtt.Handler(nil), l.handlers[topic]...)
	l.mu.RUnlock()

	for _, h := range handlers {
		if err := h(topic, decoded); err != nil {
			return err
		}
	}

	return nil
}

func (l *Loopback) Subscribe(_ context.Context, topic string, handler mqtt.Handler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.handlers[topic] = append(l.handlers[topic], handler)

	return nil
}

func (l *Loopback) Unsubscribe(_ context.Context, topic string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.handlers, topic)

	return nil
}

func (l *Loopback) Disconnect(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.handlers = make(map[string][]mqtt.Handler)

	return nil
}
