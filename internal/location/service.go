package location

import (
	"context"
	"time"

	"dely-backend/pkg/logger"
	"dely-backend/pkg/schedule"
)

// Store is the read access the service needs; *Repo satisfies it.
type Store interface {
	Get(ctx context.Context, id int64) (Location, error)
	ListByShop(ctx context.Context, shopID int64) ([]Location, error)
}

type Service struct {
	store Store
	log   logger.Logger
	now   func() time.Time
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// ListWithOpenState returns a shop's locations with each one's governing
// window and open flag resolved for the current instant.
func (s *Service) ListWithOpenState(ctx context.Context, shopID int64) ([]ListedLocation, error) {
	locations, err := s.store.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	listed := make([]ListedLocation, 0, len(locations))
	for _, loc := range locations {
		st, err := schedule.Evaluate(loc.Hours, loc.TimeZone, s.now())
		if err != nil {
			// A bad timezone or window on one location must not break the
			// whole listing; report it closed and log.
			s.log.Action("schedule_evaluation_failed").With("location_id", loc.ID).Error("Failed to evaluate schedule", err)
			st = schedule.Status{Open: false, Window: schedule.Closed}
		}
		listed = append(listed, ListedLocation{
			Location:          loc,
			TodayWorkingTimes: st.Window,
			Opened:            st.Open,
		})
	}
	return listed, nil
}
