package schedule

import (
	"fmt"
	"time"
)

// Day is either a concrete weekday or one of the wildcard day groups a
// TimeBlock can be tagged with.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"

	EveryDay           Day = "every_day"
	EveryWeekday       Day = "every_weekday"
	EveryWeekend       Day = "every_weekend"
	EveryPublicHoliday Day = "every_public_holiday"
)

// dayOrder is the display order for blocks: Monday-first week, wildcards after.
var dayOrder = map[Day]int{
	Monday:             0,
	Tuesday:            1,
	Wednesday:          2,
	Thursday:           3,
	Friday:             4,
	Saturday:           5,
	Sunday:             6,
	EveryDay:           7,
	EveryWeekday:       8,
	EveryWeekend:       9,
	EveryPublicHoliday: 10,
}

var weekdayToDay = map[time.Weekday]Day{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func (d Day) Valid() bool {
	_, ok := dayOrder[d]
	return ok
}

func (d Day) Order() int {
	return dayOrder[d]
}

func (d Day) IsWildcard() bool {
	switch d {
	case EveryDay, EveryWeekday, EveryWeekend, EveryPublicHoliday:
		return true
	}
	return false
}

// ParseDay validates a day name coming from the outside (API, DB rows).
func ParseDay(s string) (Day, error) {
	d := Day(s)
	if !d.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid day %q", s))
	}
	return d, nil
}

// DayOf returns the concrete Day for a time.Weekday.
func DayOf(w time.Weekday) Day {
	return weekdayToDay[w]
}

// MatchesWeekday reports whether a block tagged with this day applies on the
// given weekday. EveryPublicHoliday never matches here: holiday blocks are
// only reachable through the holiday policy.
func (d Day) MatchesWeekday(w time.Weekday) bool {
	switch d {
	case EveryDay:
		return true
	case EveryWeekday:
		return w != time.Saturday && w != time.Sunday
	case EveryWeekend:
		return w == time.Saturday || w == time.Sunday
	case EveryPublicHoliday:
		return false
	}
	return d == weekdayToDay[w]
}
