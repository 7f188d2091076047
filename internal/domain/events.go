package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newEvent(t EventType, key string, payload interface{}) Event {
	data, _ := json.Marshal(payload)
	return Event{
		EventID:    uuid.New(),
		Type:       t,
		Key:        key,
		Payload:    data,
		OccurredAt: time.Now(),
	}
}

// NewUserLoginEvent announces the current cached balance for a user.
func NewUserLoginEvent(userID string, balance float64) Event {
	return newEvent(EventUserLogin, userID, map[string]interface{}{
		"userId":  userID,
		"balance": balance,
	})
}

// NewSlipChangedEvent reports the new size of a market slip.
func NewSlipChangedEvent(marketID string, family BetFamily, lines int, totalPoints int64) Event {
	return newEvent(EventSlipChanged, marketID, map[string]interface{}{
		"marketId":    marketID,
		"family":      family,
		"lines":       lines,
		"totalPoints": totalPoints,
	})
}

// NewBetsPlacedEvent records a successful placement.
func NewBetsPlacedEvent(req PlaceBetRequest) Event {
	return newEvent(EventBetsPlaced, req.MarketID, req)
}

// NewDayRolledOverEvent is emitted when the IST calendar day changes.
func NewDayRolledOverEvent(previous, today string) Event {
	return newEvent(EventDayRolledOver, today, map[string]string{
		"previous": previous,
		"today":    today,
	})
}
