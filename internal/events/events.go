package events

import (
	"encoding/json"
	"fmt"
)

// Event types pushed to spectators.
const (
	TypeSnapshot      = "snapshot"
	TypeMatchFinished = "match_finished"
	TypeError         = "error"
)

// Event represents one message sent to spectators.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// MatchFinishedPayload is the payload for the "match_finished" event.
type MatchFinishedPayload struct {
	MatchID string `json:"match_id"`
	Outcome string `json:"outcome"`
	Winner  string `json:"winner,omitempty"`
}

// New marshals payload into an Event of the given type.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// Encode returns the wire form of e.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", e.Type, err)
	}
	return data, nil
}
