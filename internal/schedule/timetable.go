package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the manual override on a whole timetable. Anything other than
// StatusTimetableBased makes the weekly blocks and holiday overrides
// irrelevant.
type Status string

const (
	StatusAlwaysOpen          Status = "always_open"
	StatusAlwaysClosed        Status = "always_closed"
	StatusExceptionallyClosed Status = "exceptionally_closed"
	StatusTimetableBased      Status = "timetable_based"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAlwaysOpen, StatusAlwaysClosed, StatusExceptionallyClosed, StatusTimetableBased:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid timetable status %q", s))
	}
	return st, nil
}

// Attachment is an opaque reference to whatever the timetable governs (a
// venue, a service, a store). The engine stores it and never follows it.
type Attachment struct {
	Kind string
	ID   int64
}

// Verdict is the open/closed answer plus the reason behind it. "we do not
// know" is a valid terminal answer: Open stays false so gating callers treat
// it as closed, and the reason lets presentation show it differently.
type Verdict struct {
	Open   bool
	Reason string
}

const (
	ReasonAlwaysOpen          = "always open"
	ReasonAlwaysClosed        = "always closed"
	ReasonExceptionallyClosed = "exceptionally closed"
	ReasonOpenToday           = "today we're open"
	ReasonUnknown             = "we do not know"
	ReasonHolidayNoRule       = "nothing special mentioned on this holiday"
	ReasonHolidayOpenAsUsual  = "open as usual on this holiday"
	ReasonHolidayClosed       = "closed on this holiday"
	ReasonHolidaySpecial      = "special opening hours on this holiday"
	ReasonHolidayLikeEvery    = "open like on every public holiday"
	ReasonClosedNow           = "closed"
)

// TimeTable is the aggregate root the decision API runs on. All fields are
// already loaded; the methods do no I/O and are safe for concurrent readers.
type TimeTable struct {
	ID             int64
	PublicID       uuid.UUID
	OrganizationID int64
	Attachment     Attachment
	Country        string
	Status         Status
	Blocks         []TimeBlock
	Holidays       []PublicHoliday
	Overrides      []HolidayOverride
}

// HolidayOn returns the known public holiday falling on the given date, if
// any.
func (t *TimeTable) HolidayOn(date time.Time) *PublicHoliday {
	for i := range t.Holidays {
		if t.Holidays[i].On(date) {
			return &t.Holidays[i]
		}
	}
	return nil
}

// OverrideFor returns this timetable's override for the given holiday, if
// one exists.
func (t *TimeTable) OverrideFor(h *PublicHoliday) *HolidayOverride {
	for i := range t.Overrides {
		if t.Overrides[i].Holiday.ID == h.ID && h.ID != 0 {
			return &t.Overrides[i]
		}
		if t.Overrides[i].Holiday.On(h.HappeningOn) {
			return &t.Overrides[i]
		}
	}
	return nil
}

// statusVerdict resolves the manual status. The second return is false when
// the timetable is timetable_based and the weekly rules have to decide.
func (t *TimeTable) statusVerdict() (Verdict, bool) {
	switch t.Status {
	case StatusAlwaysOpen:
		return Verdict{Open: true, Reason: ReasonAlwaysOpen}, true
	case StatusAlwaysClosed:
		return Verdict{Open: false, Reason: ReasonAlwaysClosed}, true
	case StatusExceptionallyClosed:
		return Verdict{Open: false, Reason: ReasonExceptionallyClosed}, true
	}
	return Verdict{}, false
}

// IsOpenOnDate answers whether the timetable is open at some point on the
// given calendar date.
func (t *TimeTable) IsOpenOnDate(date time.Time) Verdict {
	if v, done := t.statusVerdict(); done {
		return v
	}

	if h := t.HolidayOn(date); h != nil {
		return t.holidayVerdict(h)
	}

	if len(t.OpenBlocksOnWeekday(date.Weekday())) > 0 {
		return Verdict{Open: true, Reason: ReasonOpenToday}
	}
	return Verdict{Open: false, Reason: ReasonUnknown}
}

// holidayVerdict applies the holiday policy. A holiday without an explicit
// override defaults to open.
func (t *TimeTable) holidayVerdict(h *PublicHoliday) Verdict {
	o := t.OverrideFor(h)
	if o == nil {
		return Verdict{Open: true, Reason: ReasonHolidayNoRule}
	}
	switch o.Status {
	case HolidayOpenAsUsual:
		return Verdict{Open: true, Reason: ReasonHolidayOpenAsUsual}
	case HolidayClosed:
		return Verdict{Open: false, Reason: ReasonHolidayClosed}
	case HolidaySpecialHours:
		return Verdict{Open: true, Reason: ReasonHolidaySpecial}
	case HolidayLikeEveryHoliday:
		return Verdict{Open: true, Reason: ReasonHolidayLikeEvery}
	}
	return Verdict{Open: true, Reason: ReasonHolidayNoRule}
}

// OpenBlocksOnWeekday unions the weekly blocks applying on the given
// weekday: the concrete day plus matching wildcards. Holiday-tagged blocks
// are never part of this union.
func (t *TimeTable) OpenBlocksOnWeekday(w time.Weekday) []TimeBlock {
	var out []TimeBlock
	for _, b := range t.Blocks {
		if b.Day.MatchesWeekday(w) {
			out = append(out, b)
		}
	}
	return out
}

// HolidayBlocks returns the weekly blocks tagged every_public_holiday.
func (t *TimeTable) HolidayBlocks() []TimeBlock {
	var out []TimeBlock
	for _, b := range t.Blocks {
		if b.Day == EveryPublicHoliday {
			out = append(out, b)
		}
	}
	return out
}

// OpenBlocksOnDate returns the blocks governing the given date. With
// considerHolidays the holiday policy decides which set applies: special
// blocks, the every_public_holiday blocks, none when closed, or the plain
// weekday union when the day is open as usual.
func (t *TimeTable) OpenBlocksOnDate(date time.Time, considerHolidays bool) []TimeBlock {
	if considerHolidays {
		if h := t.HolidayOn(date); h != nil {
			if o := t.OverrideFor(h); o != nil {
				switch o.Status {
				case HolidaySpecialHours:
					return o.SpecialBlocks
				case HolidayLikeEveryHoliday:
					return t.HolidayBlocks()
				case HolidayClosed:
					return nil
				case HolidayOpenAsUsual:
					return t.OpenBlocksOnDate(date, false)
				}
			}
		}
	}
	return t.OpenBlocksOnWeekday(date.Weekday())
}

// IsOpenAt answers whether the timetable is open at the given moment,
// interpreted in loc (the timetable's resolved timezone). The date has to
// report open and the local time has to fall strictly inside one of the
// day's blocks.
func (t *TimeTable) IsOpenAt(moment time.Time, loc *time.Location) Verdict {
	if v, done := t.statusVerdict(); done {
		return v
	}

	local := moment.In(loc)
	v := t.IsOpenOnDate(local)
	if !v.Open {
		return v
	}

	m := MinuteOf(local)
	for _, b := range t.OpenBlocksOnDate(local, true) {
		if b.Contains(m) {
			return v
		}
	}
	return Verdict{Open: false, Reason: ReasonClosedNow}
}

// NextOpenBlock scans forward from the given weekday, wrapping around the
// week, and returns the earliest block of the first day with any open
// blocks. Nil when the whole week is empty.
func (t *TimeTable) NextOpenBlock(from time.Weekday) *TimeBlock {
	for offset := 0; offset < 7; offset++ {
		w := time.Weekday((int(from) + offset) % 7)
		blocks := t.OpenBlocksOnWeekday(w)
		if len(blocks) == 0 {
			continue
		}
		best := blocks[0]
		for _, b := range blocks[1:] {
			if b.From < best.From {
				best = b
			}
		}
		return &best
	}
	return nil
}

// ValidateOverride enforces the save-time rules for a holiday override:
// special hours need at least one special block, and like_every_holiday only
// makes sense when the timetable has every_public_holiday blocks to fall
// back on.
func (t *TimeTable) ValidateOverride(status HolidayStatus, specialBlocks []TimeBlock) error {
	if !status.Valid() {
		return NewValidationError(fmt.Sprintf("invalid holiday status %q", string(status)))
	}
	if status == HolidaySpecialHours && len(specialBlocks) == 0 {
		return NewValidationError("special_hours requires at least one special time block")
	}
	if status == HolidayLikeEveryHoliday && len(t.HolidayBlocks()) == 0 {
		return NewValidationError("like_every_holiday requires a weekly block with day every_public_holiday")
	}
	return nil
}
