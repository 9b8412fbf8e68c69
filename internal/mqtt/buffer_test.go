package mqtt

import (
	"testing"
)

func TestOutboxEmptyDrain(t *testing.T) {
	o := newOutbox(10)
	if got := o.drain(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestOutboxPushAndDrain(t *testing.T) {
	o := newOutbox(10)
	for i := 0; i < 5; i++ {
		o.push(pendingMsg{topic: "t", payload: []byte{byte(i)}})
	}

	got := o.drain()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := 0; i < 5; i++ {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}

	if got2 := o.drain(); got2 != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got2))
	}
}

func TestOutboxOverflowDropsOldest(t *testing.T) {
	size := 5
	o := newOutbox(size)

	// Push size+3 items (0..7); the most recent 5 (3..7) survive.
	for i := 0; i < size+3; i++ {
		o.push(pendingMsg{topic: "t", payload: []byte{byte(i)}})
	}
	if !o.overflow {
		t.Error("overflow should be flagged")
	}

	got := o.drain()
	if len(got) != size {
		t.Fatalf("expected %d items, got %d", size, len(got))
	}
	for i := 0; i < size; i++ {
		want := byte(i + 3)
		if got[i].payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, got[i].payload[0])
		}
	}
	if o.overflow {
		t.Error("drain should clear overflow")
	}
}

func TestOutboxMultipleCycles(t *testing.T) {
	o := newOutbox(5)

	for i := 0; i < 3; i++ {
		o.push(pendingMsg{topic: "t", payload: []byte{byte(i)}})
	}
	if got := o.drain(); len(got) != 3 {
		t.Fatalf("cycle 1: expected 3 items, got %d", len(got))
	}

	for i := 10; i < 14; i++ {
		o.push(pendingMsg{topic: "t", payload: []byte{byte(i)}})
	}
	got := o.drain()
	if len(got) != 4 {
		t.Fatalf("cycle 2: expected 4 items, got %d", len(got))
	}
	for i, msg := range got {
		if want := byte(10 + i); msg.payload[0] != want {
			t.Errorf("cycle 2 item %d: expected %d, got %d", i, want, msg.payload[0])
		}
	}
}

func TestOutboxLenAndFields(t *testing.T) {
	o := newOutbox(0) // clamped to 1
	o.push(pendingMsg{topic: "a"})
	o.push(pendingMsg{
		topic:    "kitchen/test",
		payload:  []byte(`{"test":true}`),
		qos:      1,
		retained: true,
	})
	if o.len() != 1 {
		t.Fatalf("expected len 1, got %d", o.len())
	}

	got := o.drain()
	if got[0].topic != "kitchen/test" || got[0].qos != 1 || !got[0].retained {
		t.Errorf("fields not preserved: %+v", got[0])
	}
	if string(got[0].payload) != `{"test":true}` {
		t.Errorf("payload: got %s", got[0].payload)
	}
	if o.len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", o.len())
	}
}
