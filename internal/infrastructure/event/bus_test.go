package event

import (
	"context"
	"errors"
	"testing"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []string
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.received = append(h.received, event.EventType())
	if h.panics {
		panic("handler blew up")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) *shared.BaseDomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_PublishToSubscribedType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler, "sale.completed")

	err := bus.Publish(context.Background(), newTestEvent("sale.completed"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sale.completed"}, handler.received)
}

func TestInMemoryEventBus_NonMatchingTypeNotDelivered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler, "sale.completed")

	err := bus.Publish(context.Background(), newTestEvent("invoice.sent"))
	require.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_WildcardSubscriberReceivesAll(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	// handler declares no event types, so it becomes a wildcard subscriber
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("sale.completed"),
		newTestEvent("invoice.sent"),
		newTestEvent("payment.received"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"sale.completed", "invoice.sent", "payment.received"}, handler.received)
}

func TestInMemoryEventBus_SubscribeFallsBackToHandlerEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"quote.accepted"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("quote.accepted")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("quote.rejected")))
	assert.Equal(t, []string{"quote.accepted"}, handler.received)
}

func TestInMemoryEventBus_FailingHandlerDoesNotFailPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{err: errors.New("write failed")}
	healthy := &recordingHandler{}
	bus.Subscribe(failing, "sale.completed")
	bus.Subscribe(healthy, "sale.completed")

	err := bus.Publish(context.Background(), newTestEvent("sale.completed"))
	require.NoError(t, err)
	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_PanickingHandlerIsRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(panicking, "sale.completed")
	bus.Subscribe(healthy, "sale.completed")

	require.NotPanics(t, func() {
		err := bus.Publish(context.Background(), newTestEvent("sale.completed"))
		assert.NoError(t, err)
	})
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler, "sale.completed")
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.completed")))
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("sale.completed")))
	require.NoError(t, bus.Stop(ctx))
}
