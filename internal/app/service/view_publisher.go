package service

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/snapbite/snapbite/internal/app/model"
)

// NATSViewPublisher publishes view analytics events to NATS JetStream.
type NATSViewPublisher struct {
	js nats.JetStreamContext
}

// NewNATSViewPublisher creates a view event publisher.
func NewNATSViewPublisher(js nats.JetStreamContext) *NATSViewPublisher {
	return &NATSViewPublisher{js: js}
}

// Publish emits one view event to the stream.
func (p *NATSViewPublisher) Publish(event model.StoryViewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.ViewStreamSubject, data)
	return err
}
