package entities

import (
	"horarios/internal/schedule"
)

type TimeBlockInfo struct {
	ID   int64  `json:"id,omitempty"`
	Day  string `json:"day,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
}

type HolidayInfo struct {
	Date  string            `json:"date"`
	Name  string            `json:"name"`
	Names map[string]string `json:"names"`
}

type OverrideInfo struct {
	ID            int64           `json:"id"`
	HolidayStatus string          `json:"holiday_status"`
	SpecialBlocks []TimeBlockInfo `json:"special_blocks,omitempty"`
}

type Verdict struct {
	Open   bool   `json:"open"`
	Reason string `json:"reason"`
}

// DayPlanning is the presentation bundle for one calendar date.
type DayPlanning struct {
	Date     string          `json:"date"`
	Weekday  string          `json:"weekday"`
	Verdict  Verdict         `json:"verdict"`
	Blocks   []TimeBlockInfo `json:"blocks"`
	Holiday  *HolidayInfo    `json:"holiday,omitempty"`
	Override *OverrideInfo   `json:"override,omitempty"`
}

func NewTimeBlockInfo(b schedule.TimeBlock) TimeBlockInfo {
	return TimeBlockInfo{
		ID:   b.ID,
		Day:  string(b.Day),
		From: b.From.String(),
		To:   b.To.String(),
	}
}

func NewVerdict(v schedule.Verdict) Verdict {
	return Verdict{Open: v.Open, Reason: v.Reason}
}

func NewHolidayInfo(h *schedule.PublicHoliday, locales []string) *HolidayInfo {
	if h == nil {
		return nil
	}
	return &HolidayInfo{
		Date:  h.HappeningOn.Format("2006-01-02"),
		Name:  h.Name(locales),
		Names: h.Names,
	}
}

func NewOverrideInfo(o *schedule.HolidayOverride) *OverrideInfo {
	if o == nil {
		return nil
	}
	info := &OverrideInfo{ID: o.ID, HolidayStatus: string(o.Status)}
	for _, b := range o.SpecialBlocks {
		info.SpecialBlocks = append(info.SpecialBlocks, TimeBlockInfo{
			ID:   b.ID,
			From: b.From.String(),
			To:   b.To.String(),
		})
	}
	return info
}

// NewDayPlanning converts the engine's planning into the wire shape.
func NewDayPlanning(p schedule.DayPlanning, locales []string) DayPlanning {
	out := DayPlanning{
		Date:     p.Date.Format("2006-01-02"),
		Weekday:  p.Weekday,
		Verdict:  NewVerdict(p.Verdict),
		Blocks:   []TimeBlockInfo{},
		Holiday:  NewHolidayInfo(p.Holiday, locales),
		Override: NewOverrideInfo(p.Override),
	}
	for _, b := range p.Blocks {
		out.Blocks = append(out.Blocks, NewTimeBlockInfo(b))
	}
	return out
}
