package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instant builds a time in the given zone. Dates are chosen so the weekday
// is known: 2024-06-03 is a Monday.
func instant(t *testing.T, tz string, y int, mo time.Month, d, h, mi int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return time.Date(y, mo, d, h, mi, 0, 0, loc)
}

func TestEvaluateRegularWindow(t *testing.T) {
	week := Week{Closed, "09:00-17:00", Closed, Closed, Closed, Closed, Closed}
	tz := "Europe/Riga"

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"one minute before opening", instant(t, tz, 2024, time.June, 3, 8, 59), false},
		{"exactly at opening", instant(t, tz, 2024, time.June, 3, 9, 0), true},
		{"midday", instant(t, tz, 2024, time.June, 3, 12, 30), true},
		{"exactly at closing", instant(t, tz, 2024, time.June, 3, 17, 0), true},
		{"one minute after closing", instant(t, tz, 2024, time.June, 3, 17, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Evaluate(week, tz, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.open, st.Open)
		})
	}
}

func TestEvaluateOvernightCarriesIntoNextDay(t *testing.T) {
	// Friday 22:00-02:00; 2024-06-08 is a Saturday.
	week := Week{Closed, Closed, Closed, Closed, Closed, "22:00-02:00", Closed}
	tz := "Europe/Riga"

	st, err := Evaluate(week, tz, instant(t, tz, 2024, time.June, 8, 1, 0))
	require.NoError(t, err)
	assert.True(t, st.Open, "Saturday 01:00 falls under Friday's overnight window")
	assert.Equal(t, "22:00-02:00", st.Window)

	st, err = Evaluate(week, tz, instant(t, tz, 2024, time.June, 8, 2, 0))
	require.NoError(t, err)
	assert.False(t, st.Open, "close time itself is past the overnight carry-over")

	// Friday night itself, after opening.
	st, err = Evaluate(week, tz, instant(t, tz, 2024, time.June, 7, 23, 30))
	require.NoError(t, err)
	assert.True(t, st.Open)
}

func TestEvaluateMidnightCloseDoesNotCarryOver(t *testing.T) {
	// Friday 18:00-00:00: closes at midnight sharp, Saturday stays closed.
	week := Week{Closed, Closed, Closed, Closed, Closed, "18:00-00:00", Closed}
	tz := "Europe/Riga"

	st, err := Evaluate(week, tz, instant(t, tz, 2024, time.June, 8, 0, 30))
	require.NoError(t, err)
	assert.False(t, st.Open)
}

func TestEvaluateAllClosed(t *testing.T) {
	week := Week{Closed, Closed, Closed, Closed, Closed, Closed, Closed}
	st, err := Evaluate(week, "Europe/Riga", instant(t, "Europe/Riga", 2024, time.June, 3, 12, 0))
	require.NoError(t, err)
	assert.False(t, st.Open)
	assert.Equal(t, Closed, st.Window)
}

func TestEvaluateTimezoneMatters(t *testing.T) {
	// Monday 09:00-17:00 in Riga. 06:30 UTC is 09:30 in Riga (EEST).
	week := Week{Closed, "09:00-17:00", Closed, Closed, Closed, Closed, Closed}
	at := time.Date(2024, time.June, 3, 6, 30, 0, 0, time.UTC)

	st, err := Evaluate(week, "Europe/Riga", at)
	require.NoError(t, err)
	assert.True(t, st.Open)

	st, err = Evaluate(week, "UTC", at)
	require.NoError(t, err)
	assert.False(t, st.Open)
}

func TestEvaluateUnknownTimezone(t *testing.T) {
	week := Week{Closed, Closed, Closed, Closed, Closed, Closed, Closed}
	_, err := Evaluate(week, "Mars/Olympus", time.Now())
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Closed))
	assert.True(t, Valid("09:00-17:00"))
	assert.True(t, Valid("22:00-02:00"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("9:00-17:00"))
	assert.False(t, Valid("09:00"))
	assert.False(t, Valid("25:00-26:00"))
	assert.False(t, Valid("09:60-17:00"))
}
