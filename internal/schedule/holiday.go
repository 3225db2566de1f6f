package schedule

import (
	"fmt"
	"time"
)

// PublicHoliday is a shared calendar fact: one dated holiday for a country
// and year, with a name per supported locale. It is not owned by any single
// timetable.
type PublicHoliday struct {
	ID          int64
	Country     string
	Year        int
	HappeningOn time.Time
	Names       map[string]string
}

// On reports whether the holiday falls on the given calendar date.
func (h PublicHoliday) On(date time.Time) bool {
	hy, hm, hd := h.HappeningOn.Date()
	dy, dm, dd := date.Date()
	return hy == dy && hm == dm && hd == dd
}

// Name returns the first available localized name following the configured
// locale order, or any name at all as a last resort.
func (h PublicHoliday) Name(locales []string) string {
	for _, l := range locales {
		if n, ok := h.Names[l]; ok && n != "" {
			return n
		}
	}
	for _, n := range h.Names {
		if n != "" {
			return n
		}
	}
	return ""
}

// HolidayStatus is the per-timetable policy for one public holiday.
type HolidayStatus string

const (
	HolidayOpenAsUsual      HolidayStatus = "open_as_usual"
	HolidayClosed           HolidayStatus = "closed"
	HolidayLikeEveryHoliday HolidayStatus = "like_every_holiday"
	HolidaySpecialHours     HolidayStatus = "special_hours"
)

func (s HolidayStatus) Valid() bool {
	switch s {
	case HolidayOpenAsUsual, HolidayClosed, HolidayLikeEveryHoliday, HolidaySpecialHours:
		return true
	}
	return false
}

func ParseHolidayStatus(s string) (HolidayStatus, error) {
	hs := HolidayStatus(s)
	if !hs.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid holiday status %q", s))
	}
	return hs, nil
}

// HolidayOverride links a timetable to one public holiday it is aware of.
// Generation auto-creates these with status closed; administrators adjust
// them afterwards.
type HolidayOverride struct {
	ID            int64
	Holiday       PublicHoliday
	Status        HolidayStatus
	SpecialBlocks []TimeBlock
}
