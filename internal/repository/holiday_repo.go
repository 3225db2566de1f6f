package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type HolidayRepository struct {
	DB *sql.DB
}

func NewHolidayRepository(database *sql.DB) *HolidayRepository {
	return &HolidayRepository{DB: database}
}

// UpsertHoliday inserts the holiday keyed by (country, year, happening_on)
// or merges the localized name for one locale into an existing row. Safe to
// call concurrently and repeatedly.
func (r *HolidayRepository) UpsertHoliday(ctx context.Context, country string, year int, date time.Time, locale, name string) error {
	query := `
		INSERT INTO public_holidays (country, year, happening_on, names)
		VALUES ($1, $2, $3, jsonb_build_object($4::text, $5::text))
		ON CONFLICT (country, year, happening_on)
		DO UPDATE SET names = public_holidays.names || jsonb_build_object($4::text, $5::text)`
	if _, err := r.DB.ExecContext(ctx, query, country, year, date, locale, name); err != nil {
		return fmt.Errorf("error upserting holiday %s %d %s: %w",
			country, year, date.Format("2006-01-02"), err)
	}
	return nil
}

// EnsureOverrides creates the default (closed) override linking the
// timetable to every known holiday of its country/year. Existing overrides
// are left untouched.
func (r *HolidayRepository) EnsureOverrides(ctx context.Context, timetableID int64, country string, year int) error {
	query := `
		INSERT INTO timetable_public_holidays (timetable_id, public_holiday_id, holiday_status)
		SELECT $1, id, 'closed' FROM public_holidays
		WHERE country = $2 AND year = $3
		ON CONFLICT (timetable_id, public_holiday_id) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, timetableID, country, year); err != nil {
		return fmt.Errorf("error ensuring overrides for timetable %d: %w", timetableID, err)
	}
	return nil
}
