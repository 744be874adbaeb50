package location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dely-backend/pkg/logger"
	"dely-backend/pkg/schedule"
)

type fakeStore struct {
	locations []Location
}

func (f *fakeStore) Get(context.Context, int64) (Location, error) {
	return f.locations[0], nil
}

func (f *fakeStore) ListByShop(context.Context, int64) ([]Location, error) {
	return f.locations, nil
}

func weekWith(day int, window string) schedule.Week {
	var week schedule.Week
	for i := range week {
		week[i] = schedule.Closed
	}
	week[day] = window
	return week
}

func TestListWithOpenState(t *testing.T) {
	// Monday noon UTC.
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{locations: []Location{
		{ID: 1, TimeZone: "UTC", Hours: weekWith(1, "09:00-18:00")},
		{ID: 2, TimeZone: "UTC", Hours: weekWith(2, "09:00-18:00")},
	}}
	svc := NewService(store, logger.New("test"))
	svc.now = func() time.Time { return now }

	listed, err := svc.ListWithOpenState(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	assert.True(t, listed[0].Opened)
	assert.Equal(t, "09:00-18:00", listed[0].TodayWorkingTimes)
	assert.False(t, listed[1].Opened)
	assert.Equal(t, schedule.Closed, listed[1].TodayWorkingTimes)
}

func TestListWithOpenStateBadTimezone(t *testing.T) {
	store := &fakeStore{locations: []Location{
		{ID: 1, TimeZone: "Mars/Olympus", Hours: weekWith(1, "09:00-18:00")},
	}}
	svc := NewService(store, logger.New("test"))

	listed, err := svc.ListWithOpenState(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].Opened)
	assert.Equal(t, schedule.Closed, listed[0].TodayWorkingTimes)
}
