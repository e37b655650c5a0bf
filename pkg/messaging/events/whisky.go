// Package events contains the payloads of the whisky events.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/whiskystock/pkg/messaging"
)

type WhiskyRegisteredEvent struct {
	Carrier   map[string]string `json:"carrier,omitempty"`
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Brand     string            `json:"brand"`
	Type      string            `json:"type"`
	Max       int32             `json:"max"`
	Quantity  int32             `json:"quantity"`
	CreatedAt time.Time         `json:"created_at"`
}

func (e WhiskyRegisteredEvent) Subject() string {
	return messaging.WhiskyRegisteredSubject
}

func (e WhiskyRegisteredEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// WhiskyStockChangedEvent is emitted after a successful increment or decrement.
// Delta is positive for increments and negative for decrements.
type WhiskyStockChangedEvent struct {
	Carrier          map[string]string `json:"carrier,omitempty"`
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Delta            int32             `json:"delta"`
	PreviousQuantity int32             `json:"previous_quantity"`
	Quantity         int32             `json:"quantity"`
	Max              int32             `json:"max"`
	ChangedAt        time.Time         `json:"changed_at"`
}

func (e WhiskyStockChangedEvent) Subject() string {
	return messaging.WhiskyStockChangedSubject
}

func (e WhiskyStockChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type WhiskyDeletedEvent struct {
	Carrier   map[string]string `json:"carrier,omitempty"`
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	DeletedAt time.Time         `json:"deleted_at"`
}

func (e WhiskyDeletedEvent) Subject() string {
	return messaging.WhiskyDeletedSubject
}

func (e WhiskyDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
