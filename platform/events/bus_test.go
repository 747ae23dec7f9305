package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"smartdivorce_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishSurvivesPanickingHandler(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var delivered atomic.Int32
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		panic("subscriber bug")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})

	deadline := time.Now().Add(2 * time.Second)
	for delivered.Load() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("healthy handler never ran alongside the panicking one")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A second publish still reaches subscribers.
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	deadline = time.Now().Add(2 * time.Second)
	for delivered.Load() != 2 {
		if time.Now().After(deadline) {
			t.Fatal("bus stopped delivering after a handler panic")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishSyncReportsPanicAsError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var delivered atomic.Int32
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		panic("subscriber bug")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected the panic surfaced as an error")
	}
	if delivered.Load() != 1 {
		t.Fatalf("delivered = %d, healthy handler must still run", delivered.Load())
	}
}
