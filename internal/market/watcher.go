package market

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RefreshFunc is called when the IST calendar day changes. It must be safe to
// call more than once for the same day.
type RefreshFunc func(ctx context.Context, previous, today string)

// DayWatcher detects IST day rollover. It checks on a fixed interval and whenever
// Wake is called, for example when the bettor returns to the page; both paths go
// through the same check.
type DayWatcher struct {
	interval time.Duration
	refresh  RefreshFunc
	logger   *slog.Logger
	now      func() time.Time
	wake     chan struct{}

	mu      sync.Mutex
	lastDay string
}

// NewDayWatcher creates a watcher that considers the current IST day already observed.
func NewDayWatcher(interval time.Duration, refresh RefreshFunc, logger *slog.Logger) *DayWatcher {
	return newDayWatcher(interval, refresh, logger, time.Now)
}

func newDayWatcher(interval time.Duration, refresh RefreshFunc, logger *slog.Logger, now func() time.Time) *DayWatcher {
	return &DayWatcher{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
		now:      now,
		wake:     make(chan struct{}, 1),
		lastDay:  Today(now()),
	}
}

// LastDay returns the most recently observed IST date.
func (w *DayWatcher) LastDay() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastDay
}

// Wake asks the watcher to check immediately. It never blocks; wakes that arrive
// while one is pending are coalesced.
func (w *DayWatcher) Wake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run checks on every tick and wake until ctx is cancelled.
func (w *DayWatcher) Run(ctx context.Context) {
	w.logger.Info("day watcher started", "interval", w.interval, "day", w.LastDay())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("day watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		case <-w.wake:
			w.Check(ctx)
		}
	}
}

// Check compares the current IST day with the last observed one and calls the
// refresh function when it changed. It reports whether a rollover happened.
func (w *DayWatcher) Check(ctx context.Context) bool {
	today := Today(w.now())

	w.mu.Lock()
	previous := w.lastDay
	if today == previous {
		w.mu.Unlock()
		return false
	}
	w.lastDay = today
	w.mu.Unlock()

	w.logger.Info("ist day rolled over", "previous", previous, "today", today)
	w.refresh(ctx, previous, today)
	return true
}
