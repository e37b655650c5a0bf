// Package messaging defines the events published by the whisky service and the publisher abstraction.
package messaging

import (
	"context"
)

const (
	// WhiskyStream is the default JetStream stream name capturing every whisky subject.
	WhiskyStream = "WHISKY"
	// WhiskySubjects matches every subject published by the whisky service.
	WhiskySubjects = "whisky.>"

	WhiskyRegisteredSubject   = "whisky.registered"
	WhiskyStockChangedSubject = "whisky.stock.changed"
	WhiskyDeletedSubject      = "whisky.deleted"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
