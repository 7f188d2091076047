package domain

import "time"

// Market is a daily numbers market as configured in the catalog.
type Market struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	ClosingTime    string      `json:"closingTime" yaml:"closingTime"`
	BetClosureTime float64     `json:"betClosureTime" yaml:"betClosureTime"` // seconds before close
	Families       []BetFamily `json:"families,omitempty" yaml:"families"`
	// SessionLocked markets only take open-session bets.
	SessionLocked bool `json:"sessionLocked" yaml:"sessionLocked"`
}

// Offers reports whether the market accepts bets of the given family.
// An empty family list means every family is offered.
func (m Market) Offers(f BetFamily) bool {
	if len(m.Families) == 0 {
		return true
	}
	for _, have := range m.Families {
		if have == f {
			return true
		}
	}
	return false
}

// Window is one IST day's betting window for a market.
type Window struct {
	OpensAt      time.Time `json:"opensAt"`
	ClosesAt     time.Time `json:"closesAt"`
	LastAcceptAt time.Time `json:"lastAcceptAt"`
}

// GateReason explains a refused gate decision.
type GateReason string

const (
	GateOpen        GateReason = ""
	GateNotYetOpen  GateReason = "not_open"
	GateClosed      GateReason = "closed"
	GateUnparseable GateReason = "invalid_closing_time"
)

// GateDecision is the result of checking whether a market accepts bets right now.
type GateDecision struct {
	Allowed bool       `json:"allowed"`
	Reason  GateReason `json:"reason,omitempty"`
	Message string     `json:"message,omitempty"`
	Window  *Window    `json:"window,omitempty"`
}
