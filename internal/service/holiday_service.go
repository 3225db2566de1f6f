package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"horarios/internal/holidays"
)

// HolidayStore is what holiday generation needs from persistence. Both
// methods are upserts by natural key, which is what makes generation
// idempotent and safe to run concurrently.
type HolidayStore interface {
	UpsertHoliday(ctx context.Context, country string, year int, date time.Time, locale, name string) error
	EnsureOverrides(ctx context.Context, timetableID int64, country string, year int) error
}

// HolidayService synthesizes the public-holiday calendar per country/year
// and links timetables to it.
type HolidayService struct {
	provider holidays.Provider
	store    HolidayStore
	locales  []string
	logger   *zap.Logger
	now      func() time.Time
}

func NewHolidayService(provider holidays.Provider, store HolidayStore, locales []string, logger *zap.Logger) *HolidayService {
	return &HolidayService{
		provider: provider,
		store:    store,
		locales:  locales,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateForTimetable makes sure the holiday calendar exists for the
// timetable's country over the current and next year, then backfills the
// default (closed) overrides. Safe to call repeatedly.
func (s *HolidayService) GenerateForTimetable(ctx context.Context, timetableID int64, country string) error {
	year := s.now().Year()
	for _, y := range []int{year, year + 1} {
		if err := s.GenerateForCountryYear(ctx, country, y); err != nil {
			return err
		}
		if err := s.store.EnsureOverrides(ctx, timetableID, country, y); err != nil {
			return err
		}
	}
	return nil
}

// GenerateForCountryYear fetches the holiday set per configured locale and
// upserts it. One probe decides whether bank/public category filtering is
// available for the country; unsupported locales are skipped, anything else
// aborts the run.
func (s *HolidayService) GenerateForCountryYear(ctx context.Context, country string, year int) error {
	categories := []holidays.Category{holidays.CategoryBank, holidays.CategoryPublic}

	_, err := s.provider.Holidays(ctx, country, year, s.locales[0], categories)
	switch {
	case errors.Is(err, holidays.ErrCategoriesUnsupported):
		s.logger.Warn("Provider does not support category filtering, using unfiltered holidays",
			zap.String("country", country),
			zap.Int("year", year))
		categories = nil
	case errors.Is(err, holidays.ErrLocaleUnsupported):
		// The per-locale loop below deals with this one.
	case err != nil:
		s.logger.Warn("Holiday generation aborted",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(err))
		return fmt.Errorf("holiday generation aborted for %s %d: %w", country, year, err)
	}

	for _, locale := range s.locales {
		set, err := s.provider.Holidays(ctx, country, year, locale, categories)
		if errors.Is(err, holidays.ErrLocaleUnsupported) {
			s.logger.Warn("Locale not supported by holiday provider, skipping",
				zap.String("country", country),
				zap.Int("year", year),
				zap.String("locale", locale))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch holidays for %s %d (%s): %w", country, year, locale, err)
		}

		for _, h := range set {
			if err := s.store.UpsertHoliday(ctx, country, year, h.Date, locale, h.Name); err != nil {
				return err
			}
		}

		s.logger.Info("Stored holiday set",
			zap.String("country", country),
			zap.Int("year", year),
			zap.String("locale", locale),
			zap.Int("count", len(set)))
	}
	return nil
}
