package memorybus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/church-livestream/cls/internal/metrics"
	"github.com/church-livestream/cls/internal/ports"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := New(4)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(ports.TopicStatusResolved, []byte(`{"mode":"live"}`))
	evt := <-ch
	if evt.Topic != ports.TopicStatusResolved || string(evt.Payload) != `{"mode":"live"}` {
		t.Fatalf("event: got %+v", evt)
	}
	if b.Subscribers() != 1 {
		t.Fatalf("Subscribers: want 1, got %d", b.Subscribers())
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel must be closed after cancel")
	}
	if b.Subscribers() != 0 {
		t.Fatalf("Subscribers after cancel: want 0, got %d", b.Subscribers())
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	b := New(1)
	_, cancel := b.Subscribe()
	defer cancel()

	before := testutil.ToFloat64(metrics.EventsDroppedTotal)
	b.Publish("a", nil)
	b.Publish("b", nil)
	if got := testutil.ToFloat64(metrics.EventsDroppedTotal) - before; got != 1 {
		t.Fatalf("dropped: want 1, got %v", got)
	}
}

func TestBus_Close(t *testing.T) {
	b := New(0)
	ch, cancel := b.Subscribe()
	b.Close()
	b.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("channel must be closed after Close")
	}
	cancel()

	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("subscribe after Close must return a closed channel")
	}
	b.Publish(ports.TopicSettingsUpdated, nil)
}
