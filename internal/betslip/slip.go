// Package betslip keeps the pending bet lines of one market before they are placed.
package betslip

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/pana"
)

// Slip is an ordered set of pending lines for one market and bet family.
// Within a slip each (number, session) pair appears at most once.
// A Slip is not safe for concurrent use.
type Slip struct {
	marketID string
	family   domain.BetFamily
	lines    []domain.BetLine
	newID    func() string
}

// New creates an empty slip.
func New(marketID string, family domain.BetFamily) *Slip {
	return &Slip{
		marketID: marketID,
		family:   family,
		newID:    func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// MarketID returns the market the slip belongs to.
func (s *Slip) MarketID() string { return s.marketID }

// Family returns the bet family the slip validates against.
func (s *Slip) Family() domain.BetFamily { return s.family }

// Lines returns a copy of the lines in insertion order.
func (s *Slip) Lines() []domain.BetLine {
	out := make([]domain.BetLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines.
func (s *Slip) Len() int { return len(s.lines) }

// TotalPoints sums the stake of every line.
func (s *Slip) TotalPoints() int64 {
	var total int64
	for _, l := range s.lines {
		total += domain.ParsePoints(l.Points)
	}
	return total
}

// Add validates a candidate and merges it into the slip.
// Invalid input returns a validation *domain.AppError and leaves the slip untouched.
func (s *Slip) Add(c domain.Candidate) (domain.BetLine, error) {
	number, session, points, err := s.check(c)
	if err != nil {
		return domain.BetLine{}, err
	}
	if err := checkCap(s.pointsOf(number, session), points); err != nil {
		return domain.BetLine{}, err
	}
	return s.merge(number, session, points), nil
}

// AddBulk merges a batch of candidates, as produced by grid and keypad entry.
// Candidates without positive points are dropped. If none remain the slip is not
// changed and ErrNoEntries is returned. Any invalid number rejects the whole batch.
// It returns the number of candidates merged.
func (s *Slip) AddBulk(cs []domain.Candidate) (int, error) {
	type accepted struct {
		number  string
		session domain.Session
		points  int64
	}

	type lineKey struct {
		number  string
		session domain.Session
	}

	batch := make([]accepted, 0, len(cs))
	pending := make(map[lineKey]int64)
	for _, c := range cs {
		if domain.ParsePoints(c.Points) <= 0 {
			continue
		}
		number, session, points, err := s.check(c)
		if err != nil {
			return 0, err
		}
		key := lineKey{number, session}
		if err := checkCap(s.pointsOf(number, session)+pending[key], points); err != nil {
			return 0, err
		}
		pending[key] += points
		batch = append(batch, accepted{number, session, points})
	}
	if len(batch) == 0 {
		return 0, domain.ErrNoEntries()
	}

	for _, a := range batch {
		s.merge(a.number, a.session, a.points)
	}
	return len(batch), nil
}

// Remove deletes the line with the given id. Removing an unknown id is a no-op.
func (s *Slip) Remove(id string) bool {
	for i, l := range s.lines {
		if l.ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the slip.
func (s *Slip) Clear() {
	s.lines = nil
}

// SumBySumBucket totals the points staked on each ank bucket, counting only lines
// whose number is in validNumbers. It backs the running totals on the keypad.
func (s *Slip) SumBySumBucket(validNumbers []string) [10]int64 {
	valid := make(map[string]struct{}, len(validNumbers))
	for _, n := range validNumbers {
		valid[n] = struct{}{}
	}

	var buckets [10]int64
	for _, l := range s.lines {
		if _, ok := valid[l.Number]; !ok {
			continue
		}
		ank, ok := pana.DigitSum(l.Number)
		if !ok {
			continue
		}
		buckets[ank] += domain.ParsePoints(l.Points)
	}
	return buckets
}

// Payload converts the slip into placement entries. When lockedSession is set every
// entry is placed on the open session.
func (s *Slip) Payload(lockedSession bool) ([]domain.BetEntry, error) {
	entries := make([]domain.BetEntry, 0, len(s.lines))
	for _, l := range s.lines {
		number := strings.TrimSpace(l.Number)
		amount := domain.ParsePoints(l.Points)
		if number == "" || amount <= 0 {
			continue
		}

		betOn := domain.SessionOpen.Wire()
		if !lockedSession && l.Type == domain.SessionClose {
			betOn = domain.SessionClose.Wire()
		}

		entries = append(entries, domain.BetEntry{
			BetType:   s.family,
			BetNumber: number,
			Amount:    amount,
			BetOn:     betOn,
		})
	}
	if len(entries) == 0 {
		return nil, domain.ErrNothingToSubmit()
	}
	return entries, nil
}

func (s *Slip) check(c domain.Candidate) (string, domain.Session, int64, error) {
	raw := strings.TrimSpace(c.Number)
	if raw == "" {
		return "", "", 0, domain.ErrValidation("please enter a number")
	}
	number, ok := Normalize(s.family, raw)
	if !ok {
		return "", "", 0, domain.ErrValidation(invalidNumberMessage(s.family, raw))
	}
	if err := domain.ValidatePoints(c.Points); err != nil {
		return "", "", 0, domain.ErrValidation("please enter points greater than zero")
	}
	points := domain.ParsePoints(c.Points)
	if points > domain.MaxLinePoints {
		return "", "", 0, capError()
	}
	return number, domain.ParseSession(c.Type), points, nil
}

// pointsOf returns the stake already on the (number, session) line, or 0.
func (s *Slip) pointsOf(number string, session domain.Session) int64 {
	for _, l := range s.lines {
		if l.Number == number && domain.ParseSession(string(l.Type)) == session {
			return domain.ParsePoints(l.Points)
		}
	}
	return 0
}

// checkCap rejects a stake that would take a line past MaxLinePoints. Both
// arguments are already bounded by the cap, so the sum cannot overflow.
func checkCap(existing, points int64) error {
	if existing+points > domain.MaxLinePoints {
		return capError()
	}
	return nil
}

func capError() *domain.AppError {
	return domain.ErrValidation(fmt.Sprintf("points per line cannot exceed %d", domain.MaxLinePoints))
}

func (s *Slip) merge(number string, session domain.Session, points int64) domain.BetLine {
	for i := range s.lines {
		l := &s.lines[i]
		if l.Number == number && domain.ParseSession(string(l.Type)) == session {
			l.Points = strconv.FormatInt(domain.ParsePoints(l.Points)+points, 10)
			return *l
		}
	}

	line := domain.BetLine{
		ID:     s.newID(),
		Number: number,
		Points: strconv.FormatInt(points, 10),
		Type:   session,
	}
	s.lines = append(s.lines, line)
	return line
}

func invalidNumberMessage(f domain.BetFamily, number string) string {
	switch f {
	case domain.FamilyJodi:
		return fmt.Sprintf("%s is not a valid jodi, enter two digits", number)
	case domain.FamilyHalfSangam:
		return fmt.Sprintf("%s is not a valid half sangam, enter a pana", number)
	}
	return fmt.Sprintf("%s is not a valid %s", number, strings.ToLower(f.Label()))
}
