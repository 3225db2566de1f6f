package schedule

import "time"

// DayPlanning bundles everything presentation needs to render one calendar
// date: the governing blocks, the holiday and override if any, and the
// open/closed verdict.
type DayPlanning struct {
	Date     time.Time
	Weekday  string
	Blocks   []TimeBlock
	Holiday  *PublicHoliday
	Override *HolidayOverride
	Verdict  Verdict
}

// PlanDay computes the day planning for one date. Blocks come back in
// display order.
func (t *TimeTable) PlanDay(date time.Time) DayPlanning {
	p := DayPlanning{
		Date:    date,
		Weekday: date.Weekday().String(),
		Verdict: t.IsOpenOnDate(date),
	}

	blocks := t.OpenBlocksOnDate(date, true)
	SortBlocks(blocks)
	p.Blocks = blocks

	if h := t.HolidayOn(date); h != nil {
		p.Holiday = h
		p.Override = t.OverrideFor(h)
	}
	return p
}
