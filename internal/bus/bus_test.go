package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("users.", 10)
	defer unsub()

	b.Emit(UsersChanged, "import")

	select {
	case evt := <-ch:
		if evt.Kind != UsersChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, UsersChanged)
		}
		if evt.Payload != "import" {
			t.Errorf("payload = %v, want import", evt.Payload)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit left Timestamp zero")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("books.", 10)
	defer unsub()

	b.Emit(UsersChanged, nil)
	b.Emit(BooksChanged, nil)

	select {
	case evt := <-ch:
		if evt.Kind != BooksChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, BooksChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	unsub()
	unsub()

	b.Emit(SessionChanged, nil)

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("import.", 1)
	defer unsub()

	b.Emit(ImportCompleted, 1)
	b.Emit(ImportCompleted, 2)

	evt := <-ch
	if evt.Payload != 1 {
		t.Errorf("got payload %v, want 1", evt.Payload)
	}
}

func TestEmitNilBus(t *testing.T) {
	var b *Bus
	b.Emit(UsersChanged, nil)
}
