package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the events broadcast inside the bettor process.
type EventType string

const (
	// EventUserLogin is fired after every change to the cached user, most often the balance.
	// Wallet displays subscribe to it.
	EventUserLogin     EventType = "userLogin"
	EventSlipChanged   EventType = "slipChanged"
	EventBetsPlaced    EventType = "betsPlaced"
	EventDayRolledOver EventType = "dayRolledOver"
)

// Event is the envelope delivered to hub subscribers.
type Event struct {
	EventID    uuid.UUID       `json:"eventId"`
	Type       EventType       `json:"eventType"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}
