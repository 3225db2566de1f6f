package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"horarios/internal/repository"
)

// JobService hosts the cron-driven maintenance work.
type JobService struct {
	Repo     *repository.TimetableRepository
	Holidays *HolidayService

	logger  *zap.Logger
	timeout time.Duration
}

func NewJobService(repo *repository.TimetableRepository, holidaySvc *HolidayService, timeout time.Duration, logger *zap.Logger) *JobService {
	return &JobService{Repo: repo, Holidays: holidaySvc, logger: logger, timeout: timeout}
}

// RefreshHolidayCalendars re-runs holiday generation for every timetable so
// the next calendar year appears without anyone touching the timetable. The
// whole pass is idempotent; one failing country does not stop the rest.
func (s *JobService) RefreshHolidayCalendars() {
	s.logger.Info("Cron Job: Refreshing holiday calendars")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	timetables, err := s.Repo.ListTimeTables(ctx)
	if err != nil {
		s.logger.Error("Cron Job: Failed to list timetables", zap.Error(err))
		return
	}

	refreshed, failed := 0, 0
	for _, tt := range timetables {
		if err := s.Holidays.GenerateForTimetable(ctx, tt.ID, tt.Country); err != nil {
			failed++
			s.logger.Error("Cron Job: Holiday refresh failed",
				zap.Int64("timetable_id", tt.ID),
				zap.String("country", tt.Country),
				zap.Error(err))
			continue
		}
		refreshed++
	}

	s.logger.Info("Cron Job: Holiday calendar refresh done",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed))
}
