package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Betting     *service.BettingService
	Waker       handler.Waker
	Ping        handler.PingFunc
	Logger      *slog.Logger
	CORSOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	svc := deps.Betting

	// Handlers
	marketHandler := handler.NewMarketHandler(svc)
	slipHandler := handler.NewSlipHandler(svc)
	walletHandler := handler.NewWalletHandler(svc)
	sessionHandler := handler.NewSessionHandler(svc, deps.Waker)
	panaHandler := handler.NewPanaHandler()

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(deps.CORSOrigins))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(deps.Ping))

	r.Route("/markets", func(r chi.Router) {
		r.Get("/", marketHandler.List)
		r.Get("/{marketID}/status", marketHandler.Status)

		r.Route("/{marketID}/slips/{family}", func(r chi.Router) {
			r.Get("/", slipHandler.Get)
			r.Delete("/", slipHandler.Clear)
			r.Post("/lines", slipHandler.AddLine)
			r.Delete("/lines/{lineID}", slipHandler.RemoveLine)
			r.Post("/bulk", slipHandler.AddBulk)
			r.Get("/buckets", slipHandler.Buckets)
			r.Post("/submit", slipHandler.Submit)
		})
	})

	r.Route("/panas", func(r chi.Router) {
		r.Get("/classify/{number}", panaHandler.Classify)
		r.Get("/{kind}", panaHandler.List)
	})

	r.Get("/wallet/balance", walletHandler.GetBalance)
	r.Get("/rates", walletHandler.GetRates)
	r.Get("/leaderboard", walletHandler.GetLeaderboard)

	r.Route("/session", func(r chi.Router) {
		r.Get("/date", sessionHandler.GetDate)
		r.Put("/date", sessionHandler.PutDate)
		r.Put("/user", sessionHandler.PutUser)
		r.Post("/wake", sessionHandler.Wake)
	})

	return r
}
