package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/market"
	"github.com/matka/platform/internal/session"
)

// Balance holds the cached wallet view.
type Balance struct {
	UserID  string  `json:"userId,omitempty"`
	Balance float64 `json:"balance"`
}

// Balance returns the cached balance. With refresh set it is fetched from the
// remote wallet first and the cache is updated.
func (s *BettingService) Balance(ctx context.Context, refresh bool) (*Balance, error) {
	user, _ := session.LoadUser(ctx, s.store)
	if !refresh {
		return &Balance{UserID: user.ID, Balance: user.Balance}, nil
	}
	if user.ID == "" {
		return nil, domain.ErrValidation("please log in to see your balance")
	}

	balance, err := s.api.GetBalance(ctx, user.ID)
	if err != nil {
		s.logger.Warn("balance fetch failed", "user_id", user.ID, "error", err)
		return nil, domain.ErrUpstream("could not fetch balance", err)
	}
	s.storeBalance(ctx, user.ID, balance)
	return &Balance{UserID: user.ID, Balance: balance}, nil
}

// SetUser caches the user object handed over by the login flow.
func (s *BettingService) SetUser(ctx context.Context, obj map[string]interface{}) (*Balance, error) {
	if err := session.SaveUser(ctx, s.store, obj); err != nil {
		if errors.Is(err, session.ErrMissingUserID) {
			return nil, domain.ErrValidation("user object needs an id")
		}
		return nil, domain.ErrInternal("cache user", err)
	}
	user, ok := session.LoadUser(ctx, s.store)
	if !ok || user.ID == "" {
		return nil, domain.ErrInternal("cache user", errors.New("cached user unreadable after save"))
	}
	s.events.Publish(domain.NewUserLoginEvent(user.ID, user.Balance))
	return &Balance{UserID: user.ID, Balance: user.Balance}, nil
}

// Rates passes the current payout rates through from the remote API.
func (s *BettingService) Rates(ctx context.Context) (json.RawMessage, error) {
	rates, err := s.api.GetRatesCurrent(ctx)
	if err != nil {
		s.logger.Warn("rates fetch failed", "error", err)
		return nil, domain.ErrUpstream("could not fetch rates", err)
	}
	return rates, nil
}

// Leaderboard returns the public top winners.
func (s *BettingService) Leaderboard(ctx context.Context, tr domain.TimeRange) ([]domain.TopWinner, error) {
	winners, err := s.api.TopWinners(ctx, tr)
	if err != nil {
		s.logger.Warn("top winners fetch failed", "time_range", tr, "error", err)
		return nil, domain.ErrUpstream("could not fetch top winners", err)
	}
	return winners, nil
}

// SelectedDate returns the scheduling date in effect, today unless a future date
// was chosen.
func (s *BettingService) SelectedDate(ctx context.Context) (selected, today string) {
	today = market.Today(s.now())
	return session.SelectedDate(ctx, s.store, today), today
}

// SetSelectedDate chooses the date bets are scheduled for.
func (s *BettingService) SetSelectedDate(ctx context.Context, date string) (string, error) {
	today := market.Today(s.now())
	if err := session.SetSelectedDate(ctx, s.store, date, today); err != nil {
		return "", err
	}
	return session.SelectedDate(ctx, s.store, today), nil
}

// OnDayRollover is the DayWatcher refresh. It drops every pending slip and any
// scheduling date that is no longer in the future.
func (s *BettingService) OnDayRollover(ctx context.Context, previous, today string) {
	cleared := s.ClearAll()
	pruned := session.PruneSelectedDate(ctx, s.store, today)
	s.events.Publish(domain.NewDayRolledOverEvent(previous, today))
	s.logger.Info("day rollover handled",
		"previous", previous,
		"today", today,
		"slips_cleared", cleared,
		"selected_date_pruned", pruned,
	)
}

func (s *BettingService) storeBalance(ctx context.Context, userID string, balance float64) {
	if err := session.UpdateBalance(ctx, s.store, balance); err != nil {
		s.logger.Warn("balance cache write failed", "user_id", userID, "error", err)
	}
	s.events.Publish(domain.NewUserLoginEvent(userID, balance))
}
