package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"horarios/internal/db"
	"horarios/internal/schedule"
)

// ErrNotFound is returned when a timetable, block or override does not exist.
var ErrNotFound = errors.New("not found")

type TimetableRepository struct {
	DB *sql.DB
}

func NewTimetableRepository(database *sql.DB) *TimetableRepository {
	return &TimetableRepository{DB: database}
}

func (r *TimetableRepository) CreateTimeTable(ctx context.Context, tt *db.TimeTable) error {
	query := `
		INSERT INTO timetables (public_id, organization_id, attached_kind, attached_id, country, current_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		tt.PublicID, tt.OrganizationID, tt.AttachedKind, tt.AttachedID, tt.Country, tt.CurrentStatus).
		Scan(&tt.ID, &tt.CreatedAt, &tt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating timetable: %w", err)
	}
	return nil
}

func (r *TimetableRepository) GetTimeTableByKey(ctx context.Context, publicID string) (*db.TimeTable, error) {
	query := `
		SELECT id, public_id, organization_id, attached_kind, attached_id, country, current_status, created_at, updated_at
		FROM timetables WHERE public_id = $1`
	var tt db.TimeTable
	err := r.DB.QueryRowContext(ctx, query, publicID).Scan(
		&tt.ID, &tt.PublicID, &tt.OrganizationID, &tt.AttachedKind, &tt.AttachedID,
		&tt.Country, &tt.CurrentStatus, &tt.CreatedAt, &tt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading timetable %s: %w", publicID, err)
	}
	return &tt, nil
}

func (r *TimetableRepository) UpdateTimeTable(ctx context.Context, tt *db.TimeTable) error {
	query := `
		UPDATE timetables
		SET country = $1, current_status = $2, attached_kind = $3, attached_id = $4, updated_at = NOW()
		WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query,
		tt.Country, tt.CurrentStatus, tt.AttachedKind, tt.AttachedID, tt.ID)
	if err != nil {
		return fmt.Errorf("error updating timetable %d: %w", tt.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TimetableRepository) ListTimeTables(ctx context.Context) ([]db.TimeTable, error) {
	query := `
		SELECT id, public_id, organization_id, attached_kind, attached_id, country, current_status, created_at, updated_at
		FROM timetables ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing timetables: %w", err)
	}
	defer rows.Close()

	var out []db.TimeTable
	for rows.Next() {
		var tt db.TimeTable
		if err := rows.Scan(&tt.ID, &tt.PublicID, &tt.OrganizationID, &tt.AttachedKind, &tt.AttachedID,
			&tt.Country, &tt.CurrentStatus, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning timetable: %w", err)
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

func (r *TimetableRepository) CreateTimeBlock(ctx context.Context, b *db.TimeBlock) error {
	query := `
		INSERT INTO time_blocks (timetable_id, day, from_time, to_time)
		VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.DB.QueryRowContext(ctx, query, b.TimeTableID, b.Day, b.FromTime, b.ToTime).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("error creating time block: %w", err)
	}
	return nil
}

func (r *TimetableRepository) DeleteTimeBlock(ctx context.Context, timetableID, blockID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM time_blocks WHERE id = $1 AND timetable_id = $2`, blockID, timetableID)
	if err != nil {
		return fmt.Errorf("error deleting time block %d: %w", blockID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadAggregate loads a timetable with everything the decision API needs:
// weekly blocks, the known holidays for its country, and this timetable's
// overrides with their special blocks.
func (r *TimetableRepository) LoadAggregate(ctx context.Context, publicID string) (*schedule.TimeTable, error) {
	row, err := r.GetTimeTableByKey(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return r.loadAggregateRow(ctx, row)
}

func (r *TimetableRepository) loadAggregateRow(ctx context.Context, row *db.TimeTable) (*schedule.TimeTable, error) {
	publicID, err := uuid.Parse(row.PublicID)
	if err != nil {
		return nil, fmt.Errorf("timetable %d has invalid public id: %w", row.ID, err)
	}
	status, err := schedule.ParseStatus(row.CurrentStatus)
	if err != nil {
		return nil, fmt.Errorf("timetable %d: %w", row.ID, err)
	}

	agg := &schedule.TimeTable{
		ID:             row.ID,
		PublicID:       publicID,
		OrganizationID: row.OrganizationID,
		Country:        row.Country,
		Status:         status,
	}
	if row.AttachedKind.Valid {
		agg.Attachment = schedule.Attachment{Kind: row.AttachedKind.String, ID: row.AttachedID.Int64}
	}

	if agg.Blocks, err = r.loadBlocks(ctx, row.ID); err != nil {
		return nil, err
	}
	if agg.Holidays, err = r.loadHolidays(ctx, row.Country); err != nil {
		return nil, err
	}
	if agg.Overrides, err = r.loadOverrides(ctx, row.ID); err != nil {
		return nil, err
	}
	return agg, nil
}

func (r *TimetableRepository) loadBlocks(ctx context.Context, timetableID int64) ([]schedule.TimeBlock, error) {
	query := `
		SELECT id, day, from_time, to_time
		FROM time_blocks WHERE timetable_id = $1
		ORDER BY day, from_time`
	rows, err := r.DB.QueryContext(ctx, query, timetableID)
	if err != nil {
		return nil, fmt.Errorf("error loading time blocks: %w", err)
	}
	defer rows.Close()

	var out []schedule.TimeBlock
	for rows.Next() {
		var b db.TimeBlock
		if err := rows.Scan(&b.ID, &b.Day, &b.FromTime, &b.ToTime); err != nil {
			return nil, fmt.Errorf("error scanning time block: %w", err)
		}
		block, err := blockFromRow(b.ID, b.Day, b.FromTime, b.ToTime)
		if err != nil {
			return nil, err
		}
		out = append(out, block)
	}
	return out, rows.Err()
}

func (r *TimetableRepository) loadHolidays(ctx context.Context, country string) ([]schedule.PublicHoliday, error) {
	query := `
		SELECT id, country, year, happening_on, names
		FROM public_holidays WHERE country = $1
		ORDER BY happening_on`
	rows, err := r.DB.QueryContext(ctx, query, country)
	if err != nil {
		return nil, fmt.Errorf("error loading public holidays: %w", err)
	}
	defer rows.Close()

	var out []schedule.PublicHoliday
	for rows.Next() {
		var h db.PublicHoliday
		if err := rows.Scan(&h.ID, &h.Country, &h.Year, &h.HappeningOn, &h.Names); err != nil {
			return nil, fmt.Errorf("error scanning public holiday: %w", err)
		}
		holiday, err := holidayFromRow(h)
		if err != nil {
			return nil, err
		}
		out = append(out, holiday)
	}
	return out, rows.Err()
}

func (r *TimetableRepository) loadOverrides(ctx context.Context, timetableID int64) ([]schedule.HolidayOverride, error) {
	query := `
		SELECT tph.id, tph.holiday_status, ph.id, ph.country, ph.year, ph.happening_on, ph.names
		FROM timetable_public_holidays tph
		JOIN public_holidays ph ON ph.id = tph.public_holiday_id
		WHERE tph.timetable_id = $1
		ORDER BY ph.happening_on`
	rows, err := r.DB.QueryContext(ctx, query, timetableID)
	if err != nil {
		return nil, fmt.Errorf("error loading holiday overrides: %w", err)
	}
	defer rows.Close()

	var out []schedule.HolidayOverride
	var ids []int64
	byID := map[int64]int{}
	for rows.Next() {
		var o schedule.HolidayOverride
		var h db.PublicHoliday
		var statusStr string
		if err := rows.Scan(&o.ID, &statusStr, &h.ID, &h.Country, &h.Year, &h.HappeningOn, &h.Names); err != nil {
			return nil, fmt.Errorf("error scanning holiday override: %w", err)
		}
		if o.Status, err = schedule.ParseHolidayStatus(statusStr); err != nil {
			return nil, fmt.Errorf("override %d: %w", o.ID, err)
		}
		if o.Holiday, err = holidayFromRow(h); err != nil {
			return nil, err
		}
		byID[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	// Special blocks for all overrides in one round trip.
	sbQuery := `
		SELECT id, override_id, from_time, to_time
		FROM timetable_public_holiday_time_blocks
		WHERE override_id = ANY($1)
		ORDER BY from_time`
	sbRows, err := r.DB.QueryContext(ctx, sbQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error loading special blocks: %w", err)
	}
	defer sbRows.Close()

	for sbRows.Next() {
		var sb db.TimetablePublicHolidayTimeBlock
		if err := sbRows.Scan(&sb.ID, &sb.OverrideID, &sb.FromTime, &sb.ToTime); err != nil {
			return nil, fmt.Errorf("error scanning special block: %w", err)
		}
		block, err := blockFromRow(sb.ID, string(schedule.EveryPublicHoliday), sb.FromTime, sb.ToTime)
		if err != nil {
			return nil, err
		}
		if idx, ok := byID[sb.OverrideID]; ok {
			out[idx].SpecialBlocks = append(out[idx].SpecialBlocks, block)
		}
	}
	return out, sbRows.Err()
}

// GetOverrideForTimetable resolves one override row, scoped to a timetable.
func (r *TimetableRepository) GetOverrideForTimetable(ctx context.Context, timetableID, overrideID int64) (*db.TimetablePublicHoliday, error) {
	query := `
		SELECT id, timetable_id, public_holiday_id, holiday_status
		FROM timetable_public_holidays WHERE id = $1 AND timetable_id = $2`
	var o db.TimetablePublicHoliday
	err := r.DB.QueryRowContext(ctx, query, overrideID, timetableID).
		Scan(&o.ID, &o.TimeTableID, &o.PublicHolidayID, &o.HolidayStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading override %d: %w", overrideID, err)
	}
	return &o, nil
}

// UpdateOverride sets the holiday status and replaces the special blocks in
// one transaction.
func (r *TimetableRepository) UpdateOverride(ctx context.Context, overrideID int64, status string, blocks []db.TimetablePublicHolidayTimeBlock) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting override update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE timetable_public_holidays SET holiday_status = $1 WHERE id = $2`,
		status, overrideID); err != nil {
		return fmt.Errorf("error updating override %d: %w", overrideID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM timetable_public_holiday_time_blocks WHERE override_id = $1`,
		overrideID); err != nil {
		return fmt.Errorf("error clearing special blocks: %w", err)
	}
	for _, b := range blocks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timetable_public_holiday_time_blocks (override_id, from_time, to_time) VALUES ($1, $2, $3)`,
			overrideID, b.FromTime, b.ToTime); err != nil {
			return fmt.Errorf("error inserting special block: %w", err)
		}
	}
	return tx.Commit()
}

func blockFromRow(id int64, day, from, to string) (schedule.TimeBlock, error) {
	d, err := schedule.ParseDay(day)
	if err != nil {
		return schedule.TimeBlock{}, fmt.Errorf("block %d: %w", id, err)
	}
	f, err := schedule.ParseMinuteOfDay(from)
	if err != nil {
		return schedule.TimeBlock{}, fmt.Errorf("block %d: %w", id, err)
	}
	t, err := schedule.ParseMinuteOfDay(to)
	if err != nil {
		return schedule.TimeBlock{}, fmt.Errorf("block %d: %w", id, err)
	}
	return schedule.TimeBlock{ID: id, Day: d, From: f, To: t}, nil
}

func holidayFromRow(h db.PublicHoliday) (schedule.PublicHoliday, error) {
	names := map[string]string{}
	if len(h.Names) > 0 {
		if err := json.Unmarshal(h.Names, &names); err != nil {
			return schedule.PublicHoliday{}, fmt.Errorf("holiday %d has invalid names: %w", h.ID, err)
		}
	}
	return schedule.PublicHoliday{
		ID:          h.ID,
		Country:     h.Country,
		Year:        h.Year,
		HappeningOn: h.HappeningOn,
		Names:       names,
	}, nil
}
