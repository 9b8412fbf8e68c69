package mqtt

import (
	"github.com/sweeney/microwave/internal/logic"
)

// Message is one message as the broker would have received it.
type Message struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

// FakePublisher records what would have been sent to the broker, using the
// same topics, QoS and retain flags as RealPublisher.
type FakePublisher struct {
	Events         []logic.Event
	Payloads       [][]byte
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// Messages holds every recorded message in publish order, across topics.
	Messages []Message

	// PublishError and PublishSystemError, if set, fail the matching call
	// before anything is recorded.
	PublishError       error
	PublishSystemError error

	Closed bool

	// Connected is reported by IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records an oven event on Topic.
func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	f.Messages = append(f.Messages, Message{Topic: Topic, Payload: payload})
	return nil
}

// PublishSystem records a lifecycle event on TopicSystem.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	f.Messages = append(f.Messages, Message{Topic: TopicSystem, Payload: payload, QoS: 1, Retained: event.Retained})
	return nil
}

// EventTypes lists the types of the recorded oven events in order.
func (f *FakePublisher) EventTypes() []logic.EventType {
	out := make([]logic.EventType, len(f.Events))
	for i, e := range f.Events {
		out[i] = e.Type
	}
	return out
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset forgets everything recorded and clears the injected errors.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
