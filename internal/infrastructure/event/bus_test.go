package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), uuid.New())}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	created := &testHandler{eventTypes: []string{"SalesOrderCreated"}}
	all := &testHandler{}
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("SalesOrderCreated"),
		newTestEvent("ProductUpdated"),
	))

	assert.Equal(t, 1, created.count())
	assert.Equal(t, 2, all.count())
	delivered, failed := bus.Stats()
	assert.Equal(t, int64(3), delivered)
	assert.Zero(t, failed)
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &testHandler{err: errors.New("boom")}
	panicking := &testHandler{panicWith: "bad"}
	healthy := &testHandler{}
	bus.Subscribe(failing, "X")
	bus.Subscribe(panicking, "X")
	bus.Subscribe(healthy, "X")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))

	assert.Equal(t, 1, healthy.count())
	_, failed := bus.Stats()
	assert.Equal(t, int64(2), failed)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"X", "Y"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X"), newTestEvent("Y")))
	assert.Zero(t, h.count())
	assert.Empty(t, bus.registry.Handlers("X"))
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.running.Load())
	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.running.Load())
}
