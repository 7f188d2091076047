// Package market decides when a daily market accepts bets.
//
// All calendar arithmetic happens in IST (UTC+05:30) regardless of the host time zone.
package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matka/platform/internal/domain"
)

// IST is India Standard Time as a fixed offset.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// ClockTime is a time of day.
type ClockTime struct {
	Hour, Minute, Second int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// ParseClosingTime parses "H:M" or "H:M:S". Parts need not be zero padded.
func ParseClosingTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClockTime{}, fmt.Errorf("closing time is empty")
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, fmt.Errorf("invalid closing time %q", s)
	}

	limits := []int{24, 60, 60}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n >= limits[i] {
			return ClockTime{}, fmt.Errorf("invalid closing time %q", s)
		}
		vals[i] = n
	}
	return ClockTime{Hour: vals[0], Minute: vals[1], Second: vals[2]}, nil
}

// Today returns the current IST calendar date as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.In(IST).Format(domain.DateLayout)
}

// StartOfDay returns IST midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(IST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, IST)
}

// ClosureBuffer returns the pre-close cutoff, treating missing, negative or
// non-finite values as no buffer.
func ClosureBuffer(seconds float64) time.Duration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// WindowFor computes the market's betting window for the IST day containing now.
// A close at or before midnight rolls to the next IST day.
func WindowFor(m domain.Market, now time.Time) (domain.Window, error) {
	ct, err := ParseClosingTime(m.ClosingTime)
	if err != nil {
		return domain.Window{}, err
	}

	opensAt := StartOfDay(now)
	closesAt := time.Date(opensAt.Year(), opensAt.Month(), opensAt.Day(), ct.Hour, ct.Minute, ct.Second, 0, IST)
	if !closesAt.After(opensAt) {
		closesAt = closesAt.AddDate(0, 0, 1)
	}

	return domain.Window{
		OpensAt:      opensAt,
		ClosesAt:     closesAt,
		LastAcceptAt: closesAt.Add(-ClosureBuffer(m.BetClosureTime)),
	}, nil
}

// IsBettingAllowed reports whether m accepts bets at now. It fails closed when
// the closing time cannot be parsed.
func IsBettingAllowed(m domain.Market, now time.Time) domain.GateDecision {
	w, err := WindowFor(m, now)
	if err != nil {
		return domain.GateDecision{
			Reason:  domain.GateUnparseable,
			Message: "market timing is unavailable, betting is closed",
		}
	}

	switch {
	case now.Before(w.OpensAt):
		return domain.GateDecision{
			Reason:  domain.GateNotYetOpen,
			Message: "market is not open yet",
			Window:  &w,
		}
	case now.After(w.LastAcceptAt):
		return domain.GateDecision{
			Reason:  domain.GateClosed,
			Message: closedMessage(m, w),
			Window:  &w,
		}
	}
	return domain.GateDecision{Allowed: true, Window: &w}
}

// IsPastClosingTime reports whether the market's closing time itself has passed,
// ignoring any pre-close buffer. Unparseable closing times count as closed.
func IsPastClosingTime(m domain.Market, now time.Time) bool {
	w, err := WindowFor(m, now)
	if err != nil {
		return true
	}
	return now.After(w.ClosesAt)
}

func closedMessage(m domain.Market, w domain.Window) string {
	buffer := ClosureBuffer(m.BetClosureTime)
	closes := w.ClosesAt.Format("15:04")
	if buffer > 0 {
		return fmt.Sprintf("betting closes %s before the %s market close", formatBuffer(buffer), closes)
	}
	return fmt.Sprintf("market closed at %s", closes)
}

func formatBuffer(d time.Duration) string {
	if d%time.Minute == 0 {
		mins := int(d / time.Minute)
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	return d.String()
}
