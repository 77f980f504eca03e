// Package events turns committed store changes into change events and ships
// them to a sink.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"restaurantcore/pkg/domain"
)

// Event is the wire envelope for one committed change.
type Event struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	OccurredAt time.Time         `json:"occurredAt"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       Data              `json:"data"`
}

// Data carries the record before and after the change. Before is empty on
// create and After is empty on delete.
type Data struct {
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
}

// FromChange builds the envelope for a change. The topic is entity.action.
func FromChange(change domain.Change) (Event, error) {
	ev := Event{
		ID:         uuid.NewString(),
		Entity:     string(change.Entity),
		Action:     string(change.Action),
		ResourceID: strconv.Itoa(change.ID),
		Topic:      string(change.Entity) + "." + string(change.Action),
		OccurredAt: change.At.UTC(),
	}
	var err error
	if change.Before != nil {
		if ev.Data.Before, err = json.Marshal(change.Before); err != nil {
			return Event{}, fmt.Errorf("encode before: %w", err)
		}
	}
	if change.After != nil {
		if ev.Data.After, err = json.Marshal(change.After); err != nil {
			return Event{}, fmt.Errorf("encode after: %w", err)
		}
	}
	return ev, nil
}
