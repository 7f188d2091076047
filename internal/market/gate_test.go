package market

import (
	"math"
	"testing"
	"time"

	"github.com/matka/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ist(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, IST)
}

func TestParseClosingTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"23:00", ClockTime{23, 0, 0}, false},
		{"9:5", ClockTime{9, 5, 0}, false},
		{"09:05:07", ClockTime{9, 5, 7}, false},
		{" 0:30 ", ClockTime{0, 30, 0}, false},
		{"", ClockTime{}, true},
		{"23", ClockTime{}, true},
		{"24:00", ClockTime{}, true},
		{"12:60", ClockTime{}, true},
		{"12:00:60", ClockTime{}, true},
		{"ab:cd", ClockTime{}, true},
		{"1:2:3:4", ClockTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClosingTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsBettingAllowed_ClosureBuffer(t *testing.T) {
	m := domain.Market{ID: "kalyan", ClosingTime: "23:00", BetClosureTime: 300}

	d := IsBettingAllowed(m, ist(2026, 10, 18, 22, 54, 0))
	assert.True(t, d.Allowed)
	require.NotNil(t, d.Window)
	assert.Equal(t, ist(2026, 10, 18, 22, 55, 0), d.Window.LastAcceptAt)

	assert.True(t, IsBettingAllowed(m, ist(2026, 10, 18, 22, 55, 0)).Allowed)

	d = IsBettingAllowed(m, ist(2026, 10, 18, 22, 56, 0))
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.GateClosed, d.Reason)
	assert.Contains(t, d.Message, "5 minutes before")

	// the market itself has not closed yet
	assert.False(t, IsPastClosingTime(m, ist(2026, 10, 18, 22, 56, 0)))
	assert.True(t, IsPastClosingTime(m, ist(2026, 10, 18, 23, 0, 1)))
}

func TestIsBettingAllowed_NoBufferMessage(t *testing.T) {
	m := domain.Market{ID: "kalyan", ClosingTime: "23:00"}

	d := IsBettingAllowed(m, ist(2026, 10, 18, 23, 0, 1))
	assert.False(t, d.Allowed)
	assert.Equal(t, "market closed at 23:00", d.Message)
}

func TestWindowFor_Rollover(t *testing.T) {
	now := ist(2026, 10, 18, 0, 10, 0)

	w, err := WindowFor(domain.Market{ClosingTime: "00:30"}, now)
	require.NoError(t, err)
	assert.Equal(t, ist(2026, 10, 18, 0, 0, 0), w.OpensAt)
	assert.Equal(t, ist(2026, 10, 18, 0, 30, 0), w.ClosesAt, "00:30 stays on the same day")

	w, err = WindowFor(domain.Market{ClosingTime: "00:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, ist(2026, 10, 19, 0, 0, 0), w.ClosesAt, "midnight rolls to the next day")
	assert.True(t, IsBettingAllowed(domain.Market{ClosingTime: "0:0"}, ist(2026, 10, 18, 23, 59, 0)).Allowed)
}

func TestIsBettingAllowed_IgnoresCallerZone(t *testing.T) {
	m := domain.Market{ID: "kalyan", ClosingTime: "23:00"}

	// 17:20 UTC is 22:50 IST, still open
	utc := time.Date(2026, 10, 18, 17, 20, 0, 0, time.UTC)
	assert.True(t, IsBettingAllowed(m, utc).Allowed)

	// 17:31 UTC is 23:01 IST
	ny, err := time.LoadLocation("America/New_York")
	if err == nil {
		assert.False(t, IsBettingAllowed(m, time.Date(2026, 10, 18, 17, 31, 0, 0, time.UTC).In(ny)).Allowed)
	}

	// 19:00 UTC is already 00:30 the next IST day, a fresh window
	d := IsBettingAllowed(m, time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC))
	assert.True(t, d.Allowed)
	assert.Equal(t, ist(2026, 10, 19, 0, 0, 0), d.Window.OpensAt)
}

func TestIsBettingAllowed_FailsClosed(t *testing.T) {
	for _, ct := range []string{"", "late", "25:00"} {
		m := domain.Market{ID: "kalyan", ClosingTime: ct}
		d := IsBettingAllowed(m, ist(2026, 10, 18, 10, 0, 0))
		assert.False(t, d.Allowed, ct)
		assert.Equal(t, domain.GateUnparseable, d.Reason)
		assert.True(t, IsPastClosingTime(m, ist(2026, 10, 18, 10, 0, 0)))
	}
}

func TestClosureBuffer(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ClosureBuffer(300))
	assert.Equal(t, time.Duration(0), ClosureBuffer(-10))
	assert.Equal(t, time.Duration(0), ClosureBuffer(math.NaN()))
	assert.Equal(t, time.Duration(0), ClosureBuffer(math.Inf(1)))
	assert.Equal(t, 1500*time.Millisecond, ClosureBuffer(1.5))
}

func TestToday(t *testing.T) {
	assert.Equal(t, "2026-10-19", Today(time.Date(2026, 10, 18, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2026-10-18", Today(time.Date(2026, 10, 18, 18, 29, 59, 0, time.UTC)))
}
