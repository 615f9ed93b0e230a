package observer

import (
	"testing"
	"time"
)

func TestPublishInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	bus.Subscribe(func(Event) { order = append(order, 1) })
	bus.Subscribe(func(Event) { order = append(order, 2) })
	bus.Subscribe(func(Event) { order = append(order, 3) })

	bus.Publish(Event{Kind: Created})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected in-order delivery [1 2 3], got %v", order)
	}
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	bus := NewBus()
	calls := 0
	token := bus.Subscribe(func(Event) { calls++ })
	bus.Unsubscribe(token)
	bus.Publish(Event{Kind: Modified})

	if calls != 0 {
		t.Fatalf("expected 0 calls after unsubscribe, got %d", calls)
	}
}

func TestPanickingHandlerIsRecovered(t *testing.T) {
	bus := NewBus()
	calledAfter := false
	bus.Subscribe(func(Event) { panic("boom") })
	bus.Subscribe(func(Event) { calledAfter = true })

	bus.Publish(Event{Kind: Deleted})

	if !calledAfter {
		t.Fatal("expected handler after the panicking one to still run")
	}
	if len(bus.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(bus.Warnings()))
	}
}

func TestDispatchPublishesCompletion(t *testing.T) {
	bus := NewBus()
	done := make(chan Event, 1)
	bus.Subscribe(func(e Event) {
		if e.Kind == AnalysisComplete {
			done <- e
		}
	})

	bus.Dispatch("cycles", func() any { return 42 })

	select {
	case e := <-done:
		if e.New.(int) != 42 {
			t.Fatalf("expected result 42, got %v", e.New)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for AnalysisComplete")
	}
}
