package domain

import (
	"fmt"
	"strings"
)

// BetFamily selects which number rules apply to a slip.
type BetFamily string

const (
	FamilyJodi       BetFamily = "jodi"
	FamilySinglePana BetFamily = "single_pana"
	FamilyDoublePana BetFamily = "double_pana"
	FamilyTriplePana BetFamily = "triple_pana"
	FamilyHalfSangam BetFamily = "half_sangam"
)

// Families lists every supported bet family in display order.
var Families = []BetFamily{FamilyJodi, FamilySinglePana, FamilyDoublePana, FamilyTriplePana, FamilyHalfSangam}

// ParseBetFamily accepts the wire name of a family, case-insensitively.
func ParseBetFamily(s string) (BetFamily, error) {
	f := BetFamily(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Families {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown bet family: %q", s)
}

// Label is the human readable name used in notices.
func (f BetFamily) Label() string {
	switch f {
	case FamilyJodi:
		return "Jodi"
	case FamilySinglePana:
		return "Single Pana"
	case FamilyDoublePana:
		return "Double Pana"
	case FamilyTriplePana:
		return "Triple Pana"
	case FamilyHalfSangam:
		return "Half Sangam"
	}
	return string(f)
}

// Session is the market half a line is staked on.
type Session string

const (
	SessionOpen  Session = "OPEN"
	SessionClose Session = "CLOSE"
)

// ParseSession normalizes a session marker. Anything that is not "close" counts as open.
func ParseSession(s string) Session {
	if strings.EqualFold(strings.TrimSpace(s), string(SessionClose)) {
		return SessionClose
	}
	return SessionOpen
}

// Wire is the lowercase form sent to the placement endpoint.
func (s Session) Wire() string { return strings.ToLower(string(s)) }

// BetLine is one pending entry in a slip.
type BetLine struct {
	ID     string  `json:"id"`
	Number string  `json:"number"`
	Points string  `json:"points"`
	Type   Session `json:"type"`
}

// Candidate is raw user input offered to a slip.
type Candidate struct {
	Number string `json:"number"`
	Points string `json:"points"`
	Type   string `json:"type"`
}

// BetEntry is one normalized bet in a placement request.
type BetEntry struct {
	BetType   BetFamily `json:"betType"`
	BetNumber string    `json:"betNumber"`
	Amount    int64     `json:"amount"`
	BetOn     string    `json:"betOn"`
}

// PlaceBetRequest is the body of POST /bets/place.
type PlaceBetRequest struct {
	UserID        string     `json:"userId"`
	MarketID      string     `json:"marketId"`
	Bets          []BetEntry `json:"bets"`
	ScheduledDate string     `json:"scheduledDate,omitempty"`
}

// PlaceBetResult is the outcome of a successful placement.
type PlaceBetResult struct {
	NewBalance *float64 `json:"newBalance,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// TopWinner is one leaderboard row.
type TopWinner struct {
	Username      string  `json:"username"`
	TotalWinnings float64 `json:"totalWinnings"`
	TotalWins     int     `json:"totalWins"`
	WinRate       float64 `json:"winRate"`
}

// TimeRange scopes the winners leaderboard.
type TimeRange string

const (
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// ParseTimeRange defaults to today for empty or unknown input.
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(strings.ToLower(s)) {
	case RangeWeek:
		return RangeWeek
	case RangeMonth:
		return RangeMonth
	}
	return RangeToday
}
