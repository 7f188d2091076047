package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/infra"
	"github.com/matka/platform/internal/market"
	"github.com/matka/platform/internal/service"
	"github.com/matka/platform/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	placed   []domain.PlaceBetRequest
	placeErr error
}

func (s *stubAPI) PlaceBet(_ context.Context, req domain.PlaceBetRequest) (*domain.PlaceBetResult, error) {
	s.placed = append(s.placed, req)
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	nb := 960.0
	return &domain.PlaceBetResult{NewBalance: &nb, Message: "Bets placed"}, nil
}

func (s *stubAPI) GetBalance(context.Context, string) (float64, error) { return 1000, nil }

func (s *stubAPI) GetRatesCurrent(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"jodi":95}`), nil
}

func (s *stubAPI) TopWinners(context.Context, domain.TimeRange) ([]domain.TopWinner, error) {
	return []domain.TopWinner{{Username: "ravi"}}, nil
}

type countingWaker struct{ n int }

func (c *countingWaker) Wake() { c.n++ }

type gateway struct {
	router http.Handler
	api    *stubAPI
	hub    *infra.Hub
	waker  *countingWaker
}

const marketsYAML = `
markets:
  - id: kalyan
    name: Kalyan
    closingTime: "23:00"
    betClosureTime: 300
  - id: milan-day
    name: Milan Day
    closingTime: "15:30:00"
    families: [jodi, single_pana]
`

func newGateway(t *testing.T, now time.Time) *gateway {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog, err := market.ParseCatalog([]byte(marketsYAML))
	require.NoError(t, err)

	g := &gateway{api: &stubAPI{}, hub: infra.NewHub(logger), waker: &countingWaker{}}
	svc := service.NewBettingService(catalog, g.api, session.NewInMemoryStore(), g.hub, logger,
		service.WithClock(func() time.Time { return now }))

	g.router = NewRouter(RouterDeps{
		Betting:     svc,
		Waker:       g.waker,
		Logger:      logger,
		CORSOrigins: "*",
	})
	return g
}

func (g *gateway) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

func noon() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, market.IST) }

func TestRouter_Health(t *testing.T) {
	g := newGateway(t, noon())
	w := g.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Markets(t *testing.T) {
	g := newGateway(t, time.Date(2025, 3, 10, 16, 0, 0, 0, market.IST))

	w := g.do(t, http.MethodGet, "/markets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "milan-day", list[0]["id"])

	w = g.do(t, http.MethodGet, "/markets/milan-day/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st struct {
		Gate        domain.GateDecision `json:"gate"`
		PastClosing bool                `json:"pastClosing"`
	}
	decode(t, w, &st)
	assert.False(t, st.Gate.Allowed)
	assert.Equal(t, domain.GateClosed, st.Gate.Reason)
	assert.True(t, st.PastClosing)

	w = g.do(t, http.MethodGet, "/markets/nowhere/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SlipLifecycle(t *testing.T) {
	g := newGateway(t, noon())
	logins := g.hub.Subscribe(domain.EventUserLogin, 4)

	w := g.do(t, http.MethodPut, "/session/user", `{"_id":"u1","wallet_amount":1000}`)
	require.Equal(t, http.StatusOK, w.Code)
	<-logins.C

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/lines", `{"number":"47","points":10,"type":"open"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var added struct {
		Line domain.BetLine   `json:"line"`
		Slip service.SlipView `json:"slip"`
	}
	decode(t, w, &added)
	assert.Equal(t, "47", added.Line.Number)

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/bulk",
		`{"entries":[{"number":"47","points":"30"},{"number":"12","points":""},{"number":"05","points":"0"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = g.do(t, http.MethodGet, "/markets/kalyan/slips/jodi", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view service.SlipView
	decode(t, w, &view)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "40", view.Lines[0].Points)

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/submit", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res service.SubmitResult
	decode(t, w, &res)
	assert.Equal(t, 1, res.Placed)
	assert.Equal(t, int64(40), res.TotalPoints)

	require.Len(t, g.api.placed, 1)
	assert.Equal(t, "u1", g.api.placed[0].UserID)

	select {
	case evt := <-logins.C:
		assert.Contains(t, string(evt.Payload), `"balance":960`)
	default:
		t.Fatal("expected userLogin after submit")
	}

	w = g.do(t, http.MethodGet, "/wallet/balance", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bal service.Balance
	decode(t, w, &bal)
	assert.Equal(t, 960.0, bal.Balance)

	w = g.do(t, http.MethodGet, "/markets/kalyan/slips/jodi", "")
	decode(t, w, &view)
	assert.Empty(t, view.Lines)
}

func TestRouter_ValidationNotice(t *testing.T) {
	g := newGateway(t, noon())

	w := g.do(t, http.MethodPost, "/markets/kalyan/slips/double_pana/lines", `{"number":"221","points":"10"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, domain.CodeValidation, body["code"])
	assert.Equal(t, float64(2200), body["dismiss_after_ms"])

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/quad/lines", `{"number":"1","points":"10"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = g.do(t, http.MethodPost, "/markets/milan-day/slips/triple_pana/lines", `{"number":"111","points":"10"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/submit", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SubmitAfterCloseIsRefused(t *testing.T) {
	g := newGateway(t, time.Date(2025, 3, 10, 22, 56, 0, 0, market.IST))

	w := g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/lines", `{"number":"47","points":"10"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/submit", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, g.api.placed)
}

func TestRouter_SubmitShowsServerRejection(t *testing.T) {
	g := newGateway(t, noon())
	g.api.placeErr = &domain.RejectionError{Status: http.StatusOK, Message: "Insufficient wallet balance"}

	w := g.do(t, http.MethodPut, "/session/user", `{"id":"u1","balance":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/lines", `{"number":"47","points":"10"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = g.do(t, http.MethodPost, "/markets/kalyan/slips/jodi/submit", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, domain.CodePlacement, body["code"])
	assert.Equal(t, "Insufficient wallet balance", body["message"])

	w = g.do(t, http.MethodGet, "/markets/kalyan/slips/jodi", "")
	var view service.SlipView
	decode(t, w, &view)
	assert.Len(t, view.Lines, 1)
}

func TestRouter_RemoveAndClear(t *testing.T) {
	g := newGateway(t, noon())

	w := g.do(t, http.MethodPost, "/markets/kalyan/slips/single_pana/lines", `{"number":"123","points":"10"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var added struct {
		Line domain.BetLine `json:"line"`
	}
	decode(t, w, &added)

	w = g.do(t, http.MethodGet, "/markets/kalyan/slips/single_pana/buckets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var buckets struct {
		Buckets map[string]int64 `json:"buckets"`
	}
	decode(t, w, &buckets)
	assert.Equal(t, int64(10), buckets.Buckets["6"])

	w = g.do(t, http.MethodDelete, "/markets/kalyan/slips/single_pana/lines/"+added.Line.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = g.do(t, http.MethodDelete, "/markets/kalyan/slips/single_pana/lines/"+added.Line.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var removed struct {
		Removed bool `json:"removed"`
	}
	decode(t, w, &removed)
	assert.False(t, removed.Removed)

	w = g.do(t, http.MethodDelete, "/markets/kalyan/slips/single_pana", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_SessionDateAndWake(t *testing.T) {
	g := newGateway(t, noon())

	w := g.do(t, http.MethodGet, "/session/date", "")
	require.Equal(t, http.StatusOK, w.Code)
	var d map[string]string
	decode(t, w, &d)
	assert.Equal(t, "2025-03-10", d["today"])
	assert.Equal(t, "2025-03-10", d["selectedDate"])

	w = g.do(t, http.MethodPut, "/session/date", `{"date":"2025-03-14"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &d)
	assert.Equal(t, "2025-03-14", d["selectedDate"])

	w = g.do(t, http.MethodPut, "/session/date", `{"date":"2025-03-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = g.do(t, http.MethodPost, "/session/wake", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, g.waker.n)
}

func TestRouter_RemoteLookups(t *testing.T) {
	g := newGateway(t, noon())

	w := g.do(t, http.MethodGet, "/rates", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jodi":95}`, w.Body.String())

	w = g.do(t, http.MethodGet, "/leaderboard?timeRange=month", "")
	require.Equal(t, http.StatusOK, w.Code)
	var lb struct {
		TimeRange string             `json:"timeRange"`
		Winners   []domain.TopWinner `json:"winners"`
	}
	decode(t, w, &lb)
	assert.Equal(t, "month", lb.TimeRange)
	require.Len(t, lb.Winners, 1)

	w = g.do(t, http.MethodGet, "/panas/double", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = g.do(t, http.MethodOptions, "/markets", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
