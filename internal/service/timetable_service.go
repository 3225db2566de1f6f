package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"horarios/internal/db"
	"horarios/internal/entities"
	"horarios/internal/repository"
	"horarios/internal/schedule"
	"horarios/internal/timezone"
)

// TimetableParams carries the writable timetable fields.
type TimetableParams struct {
	OrganizationID int64
	Country        string
	CurrentStatus  string
	AttachedKind   string
	AttachedID     int64
}

type TimetableService struct {
	Repo     *repository.TimetableRepository
	Holidays *HolidayService
	Resolver *timezone.Resolver

	logger          *zap.Logger
	locales         []string
	defaultCountry  string
	generateTimeout time.Duration
}

func NewTimetableService(repo *repository.TimetableRepository, holidaySvc *HolidayService, resolver *timezone.Resolver,
	locales []string, defaultCountry string, generateTimeout time.Duration, logger *zap.Logger) *TimetableService {
	return &TimetableService{
		Repo:            repo,
		Holidays:        holidaySvc,
		Resolver:        resolver,
		logger:          logger,
		locales:         locales,
		defaultCountry:  defaultCountry,
		generateTimeout: generateTimeout,
	}
}

// CreateTimeTable persists a new timetable and dispatches holiday generation
// off the request path.
func (s *TimetableService) CreateTimeTable(ctx context.Context, params TimetableParams) (*db.TimeTable, error) {
	if params.CurrentStatus == "" {
		params.CurrentStatus = string(schedule.StatusTimetableBased)
	}
	if _, err := schedule.ParseStatus(params.CurrentStatus); err != nil {
		return nil, err
	}
	if params.Country == "" {
		params.Country = s.defaultCountry
	}

	row := &db.TimeTable{
		PublicID:       uuid.NewString(),
		OrganizationID: params.OrganizationID,
		Country:        params.Country,
		CurrentStatus:  params.CurrentStatus,
	}
	if params.AttachedKind != "" {
		row.AttachedKind = sql.NullString{String: params.AttachedKind, Valid: true}
		row.AttachedID = sql.NullInt64{Int64: params.AttachedID, Valid: true}
	}

	if err := s.Repo.CreateTimeTable(ctx, row); err != nil {
		return nil, err
	}

	s.dispatchGeneration(row.ID, row.Country)
	return row, nil
}

// UpdateTimeTable applies the params; a country change re-dispatches holiday
// generation for the new country.
func (s *TimetableService) UpdateTimeTable(ctx context.Context, key string, params TimetableParams) (*db.TimeTable, error) {
	row, err := s.Repo.GetTimeTableByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	countryChanged := false
	if params.Country != "" && params.Country != row.Country {
		row.Country = params.Country
		countryChanged = true
	}
	if params.CurrentStatus != "" {
		if _, err := schedule.ParseStatus(params.CurrentStatus); err != nil {
			return nil, err
		}
		row.CurrentStatus = params.CurrentStatus
	}
	if params.OrganizationID != 0 {
		row.OrganizationID = params.OrganizationID
	}
	if params.AttachedKind != "" {
		row.AttachedKind = sql.NullString{String: params.AttachedKind, Valid: true}
		row.AttachedID = sql.NullInt64{Int64: params.AttachedID, Valid: true}
	}

	if err := s.Repo.UpdateTimeTable(ctx, row); err != nil {
		return nil, err
	}

	if countryChanged {
		s.dispatchGeneration(row.ID, row.Country)
	}
	return row, nil
}

// AddTimeBlock validates and persists one weekly block.
func (s *TimetableService) AddTimeBlock(ctx context.Context, key, dayStr, fromStr, toStr string) (*db.TimeBlock, error) {
	row, err := s.Repo.GetTimeTableByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	day, err := schedule.ParseDay(dayStr)
	if err != nil {
		return nil, err
	}
	from, err := schedule.ParseMinuteOfDay(fromStr)
	if err != nil {
		return nil, err
	}
	to, err := schedule.ParseMinuteOfDay(toStr)
	if err != nil {
		return nil, err
	}
	if err := schedule.ValidateBlockTimes(from, to); err != nil {
		return nil, err
	}

	block := &db.TimeBlock{
		TimeTableID: row.ID,
		Day:         string(day),
		FromTime:    from.String(),
		ToTime:      to.String(),
	}
	if err := s.Repo.CreateTimeBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// ListTimeTables returns every timetable row.
func (s *TimetableService) ListTimeTables(ctx context.Context) ([]db.TimeTable, error) {
	return s.Repo.ListTimeTables(ctx)
}

func (s *TimetableService) DeleteTimeBlock(ctx context.Context, key string, blockID int64) error {
	row, err := s.Repo.GetTimeTableByKey(ctx, key)
	if err != nil {
		return err
	}
	return s.Repo.DeleteTimeBlock(ctx, row.ID, blockID)
}

// SpecialBlockParams is one special-hours interval on an override.
type SpecialBlockParams struct {
	From string
	To   string
}

// SetHolidayOverride updates one override's policy, enforcing the
// special-hours and like-every-holiday invariants before anything is
// written.
func (s *TimetableService) SetHolidayOverride(ctx context.Context, key string, overrideID int64, statusStr string, specials []SpecialBlockParams) error {
	agg, err := s.Repo.LoadAggregate(ctx, key)
	if err != nil {
		return err
	}
	if _, err := s.Repo.GetOverrideForTimetable(ctx, agg.ID, overrideID); err != nil {
		return err
	}

	status, err := schedule.ParseHolidayStatus(statusStr)
	if err != nil {
		return err
	}

	var blocks []schedule.TimeBlock
	var rows []db.TimetablePublicHolidayTimeBlock
	for _, sb := range specials {
		from, err := schedule.ParseMinuteOfDay(sb.From)
		if err != nil {
			return err
		}
		to, err := schedule.ParseMinuteOfDay(sb.To)
		if err != nil {
			return err
		}
		if err := schedule.ValidateBlockTimes(from, to); err != nil {
			return err
		}
		blocks = append(blocks, schedule.TimeBlock{Day: schedule.EveryPublicHoliday, From: from, To: to})
		rows = append(rows, db.TimetablePublicHolidayTimeBlock{FromTime: from.String(), ToTime: to.String()})
	}

	if err := agg.ValidateOverride(status, blocks); err != nil {
		return err
	}

	return s.Repo.UpdateOverride(ctx, overrideID, string(status), rows)
}

// IsOpenOnDate evaluates the date-level verdict.
func (s *TimetableService) IsOpenOnDate(ctx context.Context, key string, date time.Time) (entities.Verdict, error) {
	agg, err := s.Repo.LoadAggregate(ctx, key)
	if err != nil {
		return entities.Verdict{}, err
	}
	return entities.NewVerdict(agg.IsOpenOnDate(date)), nil
}

// IsOpenAt evaluates a moment in the timetable's resolved timezone.
func (s *TimetableService) IsOpenAt(ctx context.Context, key string, moment time.Time) (entities.Verdict, error) {
	agg, err := s.Repo.LoadAggregate(ctx, key)
	if err != nil {
		return entities.Verdict{}, err
	}
	loc := s.Resolver.Resolve(ctx, agg.Country)
	return entities.NewVerdict(agg.IsOpenAt(moment, loc)), nil
}

// IsOpenNow evaluates the current moment.
func (s *TimetableService) IsOpenNow(ctx context.Context, key string) (entities.Verdict, error) {
	return s.IsOpenAt(ctx, key, time.Now())
}

// NextOpenBlock scans forward from today in the timetable's timezone.
func (s *TimetableService) NextOpenBlock(ctx context.Context, key string) (*entities.TimeBlockInfo, error) {
	agg, err := s.Repo.LoadAggregate(ctx, key)
	if err != nil {
		return nil, err
	}
	loc := s.Resolver.Resolve(ctx, agg.Country)
	block := agg.NextOpenBlock(time.Now().In(loc).Weekday())
	if block == nil {
		return nil, nil
	}
	info := entities.NewTimeBlockInfo(*block)
	return &info, nil
}

// DayPlanning bundles the blocks, holiday override and verdict for a date.
func (s *TimetableService) DayPlanning(ctx context.Context, key string, date time.Time) (entities.DayPlanning, error) {
	agg, err := s.Repo.LoadAggregate(ctx, key)
	if err != nil {
		return entities.DayPlanning{}, err
	}
	return entities.NewDayPlanning(agg.PlanDay(date), s.locales), nil
}

// Regenerate synchronously rebuilds the holiday calendar and overrides for
// one timetable (admin action).
func (s *TimetableService) Regenerate(ctx context.Context, key string) error {
	row, err := s.Repo.GetTimeTableByKey(ctx, key)
	if err != nil {
		return err
	}
	return s.Holidays.GenerateForTimetable(ctx, row.ID, row.Country)
}

// dispatchGeneration runs holiday generation in the background with its own
// timeout so the save path never waits on external providers.
func (s *TimetableService) dispatchGeneration(timetableID int64, country string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.generateTimeout)
		defer cancel()

		if err := s.Holidays.GenerateForTimetable(ctx, timetableID, country); err != nil {
			s.logger.Error("Background holiday generation failed",
				zap.Int64("timetable_id", timetableID),
				zap.String("country", country),
				zap.Error(err))
			return
		}
		s.logger.Info("Background holiday generation finished",
			zap.Int64("timetable_id", timetableID),
			zap.String("country", country))
	}()
}
