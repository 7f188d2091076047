package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/matka/platform/internal/domain"
)

// SelectedDate returns the stored scheduling date if it is strictly after today,
// otherwise today. A stale or malformed entry is ignored.
func SelectedDate(ctx context.Context, store Store, today string) string {
	data, err := store.Get(ctx, KeySelectedDate)
	if err != nil {
		return today
	}
	d := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if domain.ValidateDate(d) != nil || d <= today {
		return today
	}
	return d
}

// ScheduledDate returns the selected date only when it lies in the future, for use
// as the optional scheduledDate of a placement.
func ScheduledDate(ctx context.Context, store Store, today string) string {
	if d := SelectedDate(ctx, store, today); d != today {
		return d
	}
	return ""
}

// SetSelectedDate stores a scheduling date. Today clears the selection; past dates
// are rejected.
func SetSelectedDate(ctx context.Context, store Store, date, today string) error {
	if err := domain.ValidateDate(date); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if date < today {
		return domain.ErrValidation(fmt.Sprintf("cannot schedule bets for a past date (%s)", date))
	}
	if date == today {
		return store.Delete(ctx, KeySelectedDate)
	}
	return store.Set(ctx, KeySelectedDate, []byte(date), 0)
}

// PruneSelectedDate removes a stored date that is no longer in the future.
// It reports whether anything was removed.
func PruneSelectedDate(ctx context.Context, store Store, today string) bool {
	if _, err := store.Get(ctx, KeySelectedDate); err != nil {
		return false
	}
	if SelectedDate(ctx, store, today) != today {
		return false
	}
	return store.Delete(ctx, KeySelectedDate) == nil
}
