package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/matka/platform/internal/betslip"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/market"
	"github.com/matka/platform/internal/pana"
	"github.com/matka/platform/internal/session"
)

// MatkaAPI is the remote betting API as seen by the service.
type MatkaAPI interface {
	PlaceBet(ctx context.Context, req domain.PlaceBetRequest) (*domain.PlaceBetResult, error)
	GetBalance(ctx context.Context, userID string) (float64, error)
	GetRatesCurrent(ctx context.Context) (json.RawMessage, error)
	TopWinners(ctx context.Context, tr domain.TimeRange) ([]domain.TopWinner, error)
}

// EventPublisher broadcasts bettor events; infra.Hub implements it.
type EventPublisher interface {
	Publish(evt domain.Event)
}

// BettingService owns the pending slips of the bettor and runs the submit flow:
// gate check, payload normalization, remote placement, balance cache update.
type BettingService struct {
	catalog *market.Catalog
	api     MatkaAPI
	store   session.Store
	events  EventPublisher
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	slips    map[slipKey]*betslip.Slip
	inFlight map[slipKey]bool
}

type slipKey struct {
	marketID string
	family   domain.BetFamily
}

// SlipView is a snapshot of one slip.
type SlipView struct {
	MarketID    string           `json:"marketId"`
	Family      domain.BetFamily `json:"family"`
	Lines       []domain.BetLine `json:"lines"`
	Count       int              `json:"count"`
	TotalPoints int64            `json:"totalPoints"`
}

// SubmitResult is returned after a successful placement.
type SubmitResult struct {
	MarketID      string   `json:"marketId"`
	Placed        int      `json:"placed"`
	TotalPoints   int64    `json:"totalPoints"`
	ScheduledDate string   `json:"scheduledDate,omitempty"`
	NewBalance    *float64 `json:"newBalance,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// MarketStatus combines a market with its current gate decision.
type MarketStatus struct {
	domain.Market
	Today       string              `json:"today"`
	Gate        domain.GateDecision `json:"gate"`
	PastClosing bool                `json:"pastClosing"`
}

// Option configures a BettingService.
type Option func(*BettingService)

// WithClock replaces the wall clock used for gate checks and IST dates.
func WithClock(now func() time.Time) Option {
	return func(s *BettingService) { s.now = now }
}

// NewBettingService creates a BettingService.
func NewBettingService(catalog *market.Catalog, api MatkaAPI, store session.Store, events EventPublisher, logger *slog.Logger, opts ...Option) *BettingService {
	s := &BettingService{
		catalog:  catalog,
		api:      api,
		store:    store,
		events:   events,
		logger:   logger,
		now:      time.Now,
		slips:    make(map[slipKey]*betslip.Slip),
		inFlight: make(map[slipKey]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Markets returns every configured market with its gate status.
func (s *BettingService) Markets() []MarketStatus {
	now := s.now()
	markets := s.catalog.List()
	out := make([]MarketStatus, 0, len(markets))
	for _, m := range markets {
		out = append(out, statusOf(m, now))
	}
	return out
}

// MarketStatus returns the gate status of one market.
func (s *BettingService) MarketStatus(marketID string) (*MarketStatus, error) {
	m, ok := s.catalog.Get(marketID)
	if !ok {
		return nil, domain.ErrNotFound("market", marketID)
	}
	st := statusOf(m, s.now())
	return &st, nil
}

func statusOf(m domain.Market, now time.Time) MarketStatus {
	return MarketStatus{
		Market:      m,
		Today:       market.Today(now),
		Gate:        market.IsBettingAllowed(m, now),
		PastClosing: market.IsPastClosingTime(m, now),
	}
}

// Slip returns the current contents of a slip. Unknown slips are empty.
func (s *BettingService) Slip(marketID string, family domain.BetFamily) (*SlipView, error) {
	if _, err := s.lookup(marketID, family); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(marketID, family), nil
}

// AddLine validates one candidate and merges it into the slip.
func (s *BettingService) AddLine(marketID string, family domain.BetFamily, c domain.Candidate) (*domain.BetLine, *SlipView, error) {
	if _, err := s.lookup(marketID, family); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := slipKey{marketID, family}
	if s.inFlight[key] {
		return nil, nil, domain.ErrSubmitInFlight()
	}

	line, err := s.slipLocked(key).Add(c)
	if err != nil {
		return nil, nil, err
	}
	view := s.changedLocked(key)
	return &line, view, nil
}

// AddBulk merges a batch of candidates. Candidates without points are skipped.
func (s *BettingService) AddBulk(marketID string, family domain.BetFamily, cs []domain.Candidate) (int, *SlipView, error) {
	if _, err := s.lookup(marketID, family); err != nil {
		return 0, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := slipKey{marketID, family}
	if s.inFlight[key] {
		return 0, nil, domain.ErrSubmitInFlight()
	}

	n, err := s.slipLocked(key).AddBulk(cs)
	if err != nil {
		return 0, nil, err
	}
	return n, s.changedLocked(key), nil
}

// RemoveLine deletes a line. Removing an unknown line succeeds with removed=false.
func (s *BettingService) RemoveLine(marketID string, family domain.BetFamily, lineID string) (bool, *SlipView, error) {
	if _, err := s.lookup(marketID, family); err != nil {
		return false, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := slipKey{marketID, family}
	if s.inFlight[key] {
		return false, nil, domain.ErrSubmitInFlight()
	}

	slip, ok := s.slips[key]
	if !ok || !slip.Remove(lineID) {
		return false, s.viewLocked(marketID, family), nil
	}
	return true, s.changedLocked(key), nil
}

// ClearSlip empties a slip, the equivalent of cancelling it.
func (s *BettingService) ClearSlip(marketID string, family domain.BetFamily) error {
	if _, err := s.lookup(marketID, family); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := slipKey{marketID, family}
	if s.inFlight[key] {
		return domain.ErrSubmitInFlight()
	}
	if slip, ok := s.slips[key]; ok && slip.Len() > 0 {
		slip.Clear()
		s.changedLocked(key)
	}
	return nil
}

// Buckets returns the points staked on each ank bucket of a pana slip.
func (s *BettingService) Buckets(marketID string, family domain.BetFamily) ([10]int64, error) {
	var buckets [10]int64
	if _, err := s.lookup(marketID, family); err != nil {
		return buckets, err
	}
	switch family {
	case domain.FamilySinglePana, domain.FamilyDoublePana, domain.FamilyTriplePana:
	default:
		return buckets, domain.ErrValidation("sum buckets are only kept for pana slips")
	}
	valid := pana.Collect(betslip.Numbers(family))

	s.mu.Lock()
	defer s.mu.Unlock()
	if slip, ok := s.slips[slipKey{marketID, family}]; ok {
		buckets = slip.SumBySumBucket(valid)
	}
	return buckets, nil
}

// Submit places every line of a slip. The slip is cleared only after the remote
// API accepts the bets; any failure leaves it as it was so the bettor can retry.
func (s *BettingService) Submit(ctx context.Context, marketID string, family domain.BetFamily) (*SubmitResult, error) {
	m, err := s.lookup(marketID, family)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if decision := market.IsBettingAllowed(m, now); !decision.Allowed {
		return nil, domain.ErrMarketClosed(decision.Message)
	}

	key := slipKey{marketID, family}
	s.mu.Lock()
	if s.inFlight[key] {
		s.mu.Unlock()
		return nil, domain.ErrSubmitInFlight()
	}
	slip := s.slipLocked(key)
	bets, err := slip.Payload(m.SessionLocked)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	total := slip.TotalPoints()
	s.inFlight[key] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}()

	user, ok := session.LoadUser(ctx, s.store)
	if !ok || user.ID == "" {
		return nil, domain.ErrValidation("please log in to place bets")
	}

	req := domain.PlaceBetRequest{
		UserID:        user.ID,
		MarketID:      m.ID,
		Bets:          bets,
		ScheduledDate: session.ScheduledDate(ctx, s.store, market.Today(now)),
	}

	res, err := s.api.PlaceBet(ctx, req)
	if err != nil {
		s.logger.Error("bet placement failed",
			"market_id", m.ID,
			"family", family,
			"bets", len(bets),
			"error", err,
		)
		msg := domain.RejectionMessage(err)
		if msg == "" {
			msg = "could not place bets, please try again"
		}
		return nil, domain.ErrPlacement(msg, err)
	}

	s.mu.Lock()
	slip.Clear()
	s.changedLocked(key)
	s.mu.Unlock()

	s.events.Publish(domain.NewBetsPlacedEvent(req))

	newBalance := res.NewBalance
	if newBalance == nil {
		if b, err := s.api.GetBalance(ctx, user.ID); err != nil {
			s.logger.Warn("balance refresh after placement failed", "user_id", user.ID, "error", err)
		} else {
			newBalance = &b
		}
	}
	if newBalance != nil {
		s.storeBalance(ctx, user.ID, *newBalance)
	}

	s.logger.Info("slip submitted",
		"market_id", m.ID,
		"family", family,
		"bets", len(bets),
		"total_points", total,
		"scheduled_date", req.ScheduledDate,
	)

	return &SubmitResult{
		MarketID:      m.ID,
		Placed:        len(bets),
		TotalPoints:   total,
		ScheduledDate: req.ScheduledDate,
		NewBalance:    newBalance,
		Message:       res.Message,
	}, nil
}

// ClearAll empties every slip, including ones with a submission in flight.
func (s *BettingService) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := 0
	for key, slip := range s.slips {
		if slip.Len() == 0 {
			continue
		}
		slip.Clear()
		s.changedLocked(key)
		cleared++
	}
	return cleared
}

func (s *BettingService) lookup(marketID string, family domain.BetFamily) (domain.Market, error) {
	m, ok := s.catalog.Get(marketID)
	if !ok {
		return domain.Market{}, domain.ErrNotFound("market", marketID)
	}
	if !m.Offers(family) {
		return domain.Market{}, domain.ErrValidation(family.Label() + " is not offered on " + m.Name)
	}
	return m, nil
}

func (s *BettingService) slipLocked(key slipKey) *betslip.Slip {
	slip, ok := s.slips[key]
	if !ok {
		slip = betslip.New(key.marketID, key.family)
		s.slips[key] = slip
	}
	return slip
}

func (s *BettingService) viewLocked(marketID string, family domain.BetFamily) *SlipView {
	view := &SlipView{MarketID: marketID, Family: family, Lines: []domain.BetLine{}}
	if slip, ok := s.slips[slipKey{marketID, family}]; ok {
		view.Lines = slip.Lines()
		view.Count = slip.Len()
		view.TotalPoints = slip.TotalPoints()
	}
	return view
}

func (s *BettingService) changedLocked(key slipKey) *SlipView {
	view := s.viewLocked(key.marketID, key.family)
	s.events.Publish(domain.NewSlipChangedEvent(key.marketID, key.family, view.Count, view.TotalPoints))
	return view
}
