package mqtt

import "log"

// pendingMsg is a serialized message held until the broker is reachable.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a fixed-capacity FIFO of messages published while offline.
// When full, the oldest message is dropped.
// Not safe for concurrent use; caller must synchronize.
type outbox struct {
	buf      []pendingMsg
	head     int // next write position
	count    int
	overflow bool // a message was dropped since the last drain
}

func newOutbox(capacity int) *outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &outbox{buf: make([]pendingMsg, capacity)}
}

func (o *outbox) push(msg pendingMsg) {
	o.buf[o.head] = msg
	o.head = (o.head + 1) % len(o.buf)
	if o.count < len(o.buf) {
		o.count++
		return
	}
	if !o.overflow {
		log.Printf("mqtt: outbox full (%d messages), dropping oldest", len(o.buf))
		o.overflow = true
	}
}

// drain returns the held messages oldest first and empties the outbox.
func (o *outbox) drain() []pendingMsg {
	if o.count == 0 {
		return nil
	}

	out := make([]pendingMsg, o.count)
	start := (o.head - o.count + len(o.buf)) % len(o.buf)
	for i := range out {
		out[i] = o.buf[(start+i)%len(o.buf)]
	}

	o.count = 0
	o.head = 0
	o.overflow = false
	return out
}

func (o *outbox) len() int {
	return o.count
}
