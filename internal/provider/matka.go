package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/guard"
	"github.com/matka/platform/internal/session"
)

// MatkaClient talks to the remote betting API. It is the only path by which the
// bettor process reaches the wallet and placement services.
type MatkaClient struct {
	baseURL string
	token   string
	logger  *slog.Logger
	client  *http.Client
	breaker *guard.CircuitBreaker
}

// NewMatkaClient creates a client for the API rooted at baseURL (for example
// "https://host/api"). An empty token sends no Authorization header.
func NewMatkaClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *MatkaClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MatkaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
	}
}

// SetBreaker makes the client refuse calls to an endpoint that keeps failing at
// the transport or 5xx level. Business rejections do not count as failures.
func (c *MatkaClient) SetBreaker(cb *guard.CircuitBreaker) {
	c.breaker = cb
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// PlaceBet submits a normalized slip. Non-2xx responses and success:false are
// returned as errors carrying the server message when one is present.
func (c *MatkaClient) PlaceBet(ctx context.Context, req domain.PlaceBetRequest) (*domain.PlaceBetResult, error) {
	if strings.TrimSpace(req.MarketID) == "" {
		return nil, fmt.Errorf("place bet: market id is required")
	}
	if len(req.Bets) == 0 {
		return nil, fmt.Errorf("place bet: no bets")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal bets: %w", err)
	}

	env, err := c.do(ctx, http.MethodPost, "/bets/place", nil, body)
	if err != nil {
		return nil, fmt.Errorf("place bet: %w", err)
	}

	result := &domain.PlaceBetResult{Message: env.Message}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var data struct {
			NewBalance *float64 `json:"newBalance"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			c.logger.Warn("place bet: unreadable data in response", "error", err)
		} else {
			result.NewBalance = data.NewBalance
		}
	}

	c.logger.Info("bets placed",
		"market_id", req.MarketID,
		"bets", len(req.Bets),
		"scheduled_date", req.ScheduledDate,
	)
	return result, nil
}

// GetBalance fetches the wallet balance for a user. The data field may be a bare
// number or an object carrying one of the usual balance keys.
func (c *MatkaClient) GetBalance(ctx context.Context, userID string) (float64, error) {
	q := url.Values{}
	q.Set("userId", userID)

	env, err := c.do(ctx, http.MethodGet, "/wallet/balance", q, nil)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	balance, err := session.BalanceFromJSON(env.Data)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// GetRatesCurrent returns the current payout rates as sent by the server.
func (c *MatkaClient) GetRatesCurrent(ctx context.Context) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodGet, "/rates/current", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get rates: %w", err)
	}
	if len(env.Data) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Data, nil
}

// TopWinners returns the public winners leaderboard for a time range.
func (c *MatkaClient) TopWinners(ctx context.Context, tr domain.TimeRange) ([]domain.TopWinner, error) {
	q := url.Values{}
	q.Set("timeRange", string(tr))

	env, err := c.do(ctx, http.MethodGet, "/bets/public/top-winners", q, nil)
	if err != nil {
		return nil, fmt.Errorf("top winners: %w", err)
	}

	var rows []struct {
		UserID struct {
			Username string `json:"username"`
		} `json:"userId"`
		TotalWinnings float64 `json:"totalWinnings"`
		TotalWins     int     `json:"totalWins"`
		WinRate       float64 `json:"winRate"`
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, fmt.Errorf("decode top winners: %w", err)
		}
	}

	winners := make([]domain.TopWinner, 0, len(rows))
	for _, r := range rows {
		winners = append(winners, domain.TopWinner{
			Username:      r.UserID.Username,
			TotalWinnings: r.TotalWinnings,
			TotalWins:     r.TotalWins,
			WinRate:       r.WinRate,
		})
	}
	return winners, nil
}

func (c *MatkaClient) do(ctx context.Context, method, path string, query url.Values, body []byte) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.breaker.Allow(path); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.recordTransportFailure(ctx, path)
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.recordTransportFailure(ctx, path)
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		c.breaker.RecordFailure(path)
	} else {
		c.breaker.RecordSuccess(path)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rej := &domain.RejectionError{Status: resp.StatusCode}
		if decodeErr == nil {
			rej.Message = strings.TrimSpace(env.Message)
		}
		return nil, rej
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "request was not successful"
		}
		return nil, &domain.RejectionError{Status: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

// recordTransportFailure counts a failed call against path unless the caller
// gave up first, which says nothing about the endpoint.
func (c *MatkaClient) recordTransportFailure(ctx context.Context, path string) {
	if ctx.Err() != nil {
		c.breaker.Release(path)
		return
	}
	c.breaker.RecordFailure(path)
}
