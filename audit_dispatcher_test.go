package goCDEP

import (
	"context"
	"testing"
	"time"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)
	defer d.Close()

	ctx := context.Background()
	for _, eventType := range []string{EventLogin, EventRefresh, EventLogout} {
		d.Emit(ctx, AuditEvent{EventType: eventType, Timestamp: time.Now()})
	}

	for _, want := range []string{EventLogin, EventRefresh, EventLogout} {
		select {
		case event := <-sink.Events():
			if event.EventType != want {
				t.Fatalf("expected %q, got %q", want, event.EventType)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

// stallSink blocks every delivery until released, simulating a slow consumer.
type stallSink struct {
	release chan struct{}
}

func (s *stallSink) Emit(_ context.Context, _ AuditEvent) {
	<-s.release
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &stallSink{release: make(chan struct{})}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		d.Emit(ctx, AuditEvent{EventType: EventLogin})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected drops under backpressure")
	}

	close(sink.release)
	d.Close()
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}

	// Nil receivers are no-ops so callers never branch on audit being on.
	d.Emit(context.Background(), AuditEvent{EventType: EventLogin})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops from nil dispatcher")
	}
}

func TestDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.Emit(ctx, AuditEvent{EventType: EventRefresh})
	}
	d.Close()

	delivered := 0
	for {
		select {
		case <-sink.Events():
			delivered++
			if delivered == 5 {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 5 drained events, got %d", delivered)
		}
	}
}
