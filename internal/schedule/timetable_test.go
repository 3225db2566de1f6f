package schedule

import (
	"testing"
	"time"
)

// 2026-03-15 is a Sunday, 2026-03-16 a Monday.
var (
	testSunday = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	testMonday = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
)

func mustParse(t *testing.T, s string) MinuteOfDay {
	t.Helper()
	m, err := ParseMinuteOfDay(s)
	if err != nil {
		t.Fatalf("ParseMinuteOfDay(%q): %v", s, err)
	}
	return m
}

func TestIsOpenOnDate_ManualStatus(t *testing.T) {
	dates := []time.Time{
		testSunday,
		testMonday,
		time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		status     Status
		wantOpen   bool
		wantReason string
	}{
		{StatusAlwaysOpen, true, ReasonAlwaysOpen},
		{StatusAlwaysClosed, false, ReasonAlwaysClosed},
		{StatusExceptionallyClosed, false, ReasonExceptionallyClosed},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			tb := &TimeTable{Status: tt.status}
			for _, d := range dates {
				v := tb.IsOpenOnDate(d)
				if v.Open != tt.wantOpen || v.Reason != tt.wantReason {
					t.Errorf("IsOpenOnDate(%s) = %+v, want open=%v reason=%q",
						d.Format("2006-01-02"), v, tt.wantOpen, tt.wantReason)
				}
			}
		})
	}
}

func TestIsOpenOnDate_WeeklyBlocks(t *testing.T) {
	tb := &TimeTable{
		Status: StatusTimetableBased,
		Blocks: []TimeBlock{
			{Day: Monday, From: 540, To: 1020},
		},
	}

	if v := tb.IsOpenOnDate(testMonday); !v.Open || v.Reason != ReasonOpenToday {
		t.Errorf("monday verdict = %+v", v)
	}
	if v := tb.IsOpenOnDate(testSunday); v.Open || v.Reason != ReasonUnknown {
		t.Errorf("sunday verdict = %+v", v)
	}
}

func TestIsOpenOnDate_NoBlocksNoHoliday_Unknown(t *testing.T) {
	tb := &TimeTable{Status: StatusTimetableBased}
	v := tb.IsOpenOnDate(testMonday)
	if v.Open {
		t.Error("empty timetable should not report open")
	}
	if v.Reason != ReasonUnknown {
		t.Errorf("reason = %q, want %q", v.Reason, ReasonUnknown)
	}
}

func TestIsOpenOnDate_HolidayPolicy(t *testing.T) {
	holiday := PublicHoliday{ID: 1, Country: "BE", Year: 2026, HappeningOn: testMonday}

	tests := []struct {
		name       string
		override   *HolidayOverride
		extraBlock *TimeBlock
		wantOpen   bool
		wantReason string
	}{
		{
			name:       "no override defaults to open",
			wantOpen:   true,
			wantReason: ReasonHolidayNoRule,
		},
		{
			name:       "open as usual",
			override:   &HolidayOverride{Holiday: holiday, Status: HolidayOpenAsUsual},
			wantOpen:   true,
			wantReason: ReasonHolidayOpenAsUsual,
		},
		{
			name:       "closed wins over weekly blocks",
			override:   &HolidayOverride{Holiday: holiday, Status: HolidayClosed},
			wantOpen:   false,
			wantReason: ReasonHolidayClosed,
		},
		{
			name: "special hours",
			override: &HolidayOverride{
				Holiday:       holiday,
				Status:        HolidaySpecialHours,
				SpecialBlocks: []TimeBlock{{Day: EveryPublicHoliday, From: 540, To: 720}},
			},
			wantOpen:   true,
			wantReason: ReasonHolidaySpecial,
		},
		{
			name:       "like every holiday",
			override:   &HolidayOverride{Holiday: holiday, Status: HolidayLikeEveryHoliday},
			extraBlock: &TimeBlock{Day: EveryPublicHoliday, From: 600, To: 840},
			wantOpen:   true,
			wantReason: ReasonHolidayLikeEvery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := &TimeTable{
				Status:   StatusTimetableBased,
				Country:  "BE",
				Blocks:   []TimeBlock{{Day: Monday, From: 540, To: 1020}},
				Holidays: []PublicHoliday{holiday},
			}
			if tt.extraBlock != nil {
				tb.Blocks = append(tb.Blocks, *tt.extraBlock)
			}
			if tt.override != nil {
				tb.Overrides = []HolidayOverride{*tt.override}
			}

			v := tb.IsOpenOnDate(testMonday)
			if v.Open != tt.wantOpen || v.Reason != tt.wantReason {
				t.Errorf("verdict = %+v, want open=%v reason=%q", v, tt.wantOpen, tt.wantReason)
			}
		})
	}
}

func TestOpenBlocksOnWeekday_Wildcards(t *testing.T) {
	everyDay := TimeBlock{ID: 1, Day: EveryDay, From: 480, To: 600}
	weekend := TimeBlock{ID: 2, Day: EveryWeekend, From: 600, To: 720}
	weekday := TimeBlock{ID: 3, Day: EveryWeekday, From: 540, To: 1020}
	holiday := TimeBlock{ID: 4, Day: EveryPublicHoliday, From: 600, To: 840}

	tb := &TimeTable{
		Status: StatusTimetableBased,
		Blocks: []TimeBlock{everyDay, weekend, weekday, holiday},
	}

	for w := time.Sunday; w <= time.Saturday; w++ {
		blocks := tb.OpenBlocksOnWeekday(w)
		ids := map[int64]bool{}
		for _, b := range blocks {
			ids[b.ID] = true
		}

		if !ids[everyDay.ID] {
			t.Errorf("%s: every_day block missing", w)
		}
		isWeekend := w == time.Saturday || w == time.Sunday
		if ids[weekend.ID] != isWeekend {
			t.Errorf("%s: every_weekend presence = %v, want %v", w, ids[weekend.ID], isWeekend)
		}
		if ids[weekday.ID] == isWeekend {
			t.Errorf("%s: every_weekday presence = %v, want %v", w, ids[weekday.ID], !isWeekend)
		}
		if ids[holiday.ID] {
			t.Errorf("%s: every_public_holiday block must never match a weekday", w)
		}
	}
}

func TestOpenBlocksOnDate_HolidayDispatch(t *testing.T) {
	holiday := PublicHoliday{ID: 7, Country: "BE", Year: 2026, HappeningOn: testMonday}
	weekly := TimeBlock{ID: 1, Day: Monday, From: 540, To: 1020}
	holidayBlock := TimeBlock{ID: 2, Day: EveryPublicHoliday, From: 600, To: 840}
	special := TimeBlock{ID: 3, Day: EveryPublicHoliday, From: 540, To: 720}

	base := func(status HolidayStatus, specials []TimeBlock) *TimeTable {
		return &TimeTable{
			Status:   StatusTimetableBased,
			Country:  "BE",
			Blocks:   []TimeBlock{weekly, holidayBlock},
			Holidays: []PublicHoliday{holiday},
			Overrides: []HolidayOverride{
				{Holiday: holiday, Status: status, SpecialBlocks: specials},
			},
		}
	}

	t.Run("special hours uses special blocks only", func(t *testing.T) {
		blocks := base(HolidaySpecialHours, []TimeBlock{special}).OpenBlocksOnDate(testMonday, true)
		if len(blocks) != 1 || blocks[0].ID != special.ID {
			t.Errorf("blocks = %+v, want only the special block", blocks)
		}
	})

	t.Run("like every holiday uses holiday-tagged blocks", func(t *testing.T) {
		blocks := base(HolidayLikeEveryHoliday, nil).OpenBlocksOnDate(testMonday, true)
		if len(blocks) != 1 || blocks[0].ID != holidayBlock.ID {
			t.Errorf("blocks = %+v, want only the every_public_holiday block", blocks)
		}
	})

	t.Run("closed yields no blocks", func(t *testing.T) {
		if blocks := base(HolidayClosed, nil).OpenBlocksOnDate(testMonday, true); len(blocks) != 0 {
			t.Errorf("blocks = %+v, want none", blocks)
		}
	})

	t.Run("open as usual falls back to the weekday union", func(t *testing.T) {
		blocks := base(HolidayOpenAsUsual, nil).OpenBlocksOnDate(testMonday, true)
		if len(blocks) != 1 || blocks[0].ID != weekly.ID {
			t.Errorf("blocks = %+v, want only the weekly monday block", blocks)
		}
	})

	t.Run("considerHolidays false ignores the override", func(t *testing.T) {
		blocks := base(HolidayClosed, nil).OpenBlocksOnDate(testMonday, false)
		if len(blocks) != 1 || blocks[0].ID != weekly.ID {
			t.Errorf("blocks = %+v, want the weekly monday block", blocks)
		}
	})
}

func TestIsOpenAt_SpecialHoursSunday(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	holiday := PublicHoliday{ID: 9, Country: "BE", Year: 2026, HappeningOn: testSunday}
	tb := &TimeTable{
		Status:   StatusTimetableBased,
		Country:  "BE",
		Blocks:   []TimeBlock{{Day: Sunday, From: mustParse(t, "10:00"), To: mustParse(t, "15:00")}},
		Holidays: []PublicHoliday{holiday},
		Overrides: []HolidayOverride{
			{
				Holiday: holiday,
				Status:  HolidaySpecialHours,
				SpecialBlocks: []TimeBlock{
					{Day: EveryPublicHoliday, From: mustParse(t, "09:00"), To: mustParse(t, "12:00")},
				},
			},
		},
	}

	at0930 := time.Date(2026, 3, 15, 9, 30, 0, 0, loc)
	if v := tb.IsOpenAt(at0930, loc); !v.Open {
		t.Errorf("09:30 on special-hours sunday should be open, got %+v", v)
	}

	// 13:00 sits inside the weekly sunday block, but the special block
	// governs the holiday.
	at1300 := time.Date(2026, 3, 15, 13, 0, 0, 0, loc)
	if v := tb.IsOpenAt(at1300, loc); v.Open {
		t.Errorf("13:00 on special-hours sunday should be closed, got %+v", v)
	} else if v.Reason != ReasonClosedNow {
		t.Errorf("reason = %q, want %q", v.Reason, ReasonClosedNow)
	}
}

func TestIsOpenAt_ManualStatusIgnoresBlocks(t *testing.T) {
	tb := &TimeTable{Status: StatusAlwaysOpen}
	moment := time.Date(2026, 3, 16, 3, 0, 0, 0, time.UTC)
	if v := tb.IsOpenAt(moment, time.UTC); !v.Open || v.Reason != ReasonAlwaysOpen {
		t.Errorf("always_open at 03:00 = %+v", v)
	}

	tb.Status = StatusAlwaysClosed
	if v := tb.IsOpenAt(moment, time.UTC); v.Open || v.Reason != ReasonAlwaysClosed {
		t.Errorf("always_closed = %+v", v)
	}
}

func TestIsOpenAt_TimezoneConversion(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	tb := &TimeTable{
		Status: StatusTimetableBased,
		Blocks: []TimeBlock{{Day: Monday, From: mustParse(t, "09:00"), To: mustParse(t, "17:00")}},
	}

	// 08:30 UTC on 2026-03-16 is 09:30 in Brussels (CET, UTC+1).
	moment := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	if v := tb.IsOpenAt(moment, loc); !v.Open {
		t.Errorf("09:30 local monday should be open, got %+v", v)
	}
	if v := tb.IsOpenAt(moment, time.UTC); v.Open {
		t.Errorf("08:30 UTC should be outside the block, got %+v", v)
	}
}

func TestNextOpenBlock(t *testing.T) {
	friday := TimeBlock{ID: 1, Day: Friday, From: 540, To: 1020}
	fridayEarly := TimeBlock{ID: 2, Day: Friday, From: 480, To: 520}

	t.Run("scans forward with wrap-around", func(t *testing.T) {
		tb := &TimeTable{Status: StatusTimetableBased, Blocks: []TimeBlock{friday, fridayEarly}}
		got := tb.NextOpenBlock(time.Sunday)
		if got == nil {
			t.Fatal("expected a block")
		}
		if got.ID != fridayEarly.ID {
			t.Errorf("got block %d, want earliest friday block %d", got.ID, fridayEarly.ID)
		}
	})

	t.Run("today counts first", func(t *testing.T) {
		tb := &TimeTable{Status: StatusTimetableBased, Blocks: []TimeBlock{friday}}
		got := tb.NextOpenBlock(time.Friday)
		if got == nil || got.ID != friday.ID {
			t.Fatalf("got %+v, want friday block", got)
		}
	})

	t.Run("wraps past saturday to monday", func(t *testing.T) {
		monday := TimeBlock{ID: 3, Day: Monday, From: 540, To: 720}
		tb := &TimeTable{Status: StatusTimetableBased, Blocks: []TimeBlock{monday}}
		got := tb.NextOpenBlock(time.Saturday)
		if got == nil || got.ID != monday.ID {
			t.Fatalf("got %+v, want monday block", got)
		}
	})

	t.Run("empty week yields nil", func(t *testing.T) {
		tb := &TimeTable{Status: StatusTimetableBased}
		if got := tb.NextOpenBlock(time.Wednesday); got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})
}

func TestValidateOverride(t *testing.T) {
	withHolidayBlock := &TimeTable{
		Blocks: []TimeBlock{{Day: EveryPublicHoliday, From: 600, To: 840}},
	}
	without := &TimeTable{
		Blocks: []TimeBlock{{Day: Monday, From: 540, To: 1020}},
	}
	special := []TimeBlock{{Day: EveryPublicHoliday, From: 540, To: 720}}

	tests := []struct {
		name    string
		tt      *TimeTable
		status  HolidayStatus
		blocks  []TimeBlock
		wantErr bool
	}{
		{"closed needs nothing", without, HolidayClosed, nil, false},
		{"open as usual needs nothing", without, HolidayOpenAsUsual, nil, false},
		{"special hours with blocks", without, HolidaySpecialHours, special, false},
		{"special hours without blocks", without, HolidaySpecialHours, nil, true},
		{"like every holiday with holiday block", withHolidayBlock, HolidayLikeEveryHoliday, nil, false},
		{"like every holiday without holiday block", without, HolidayLikeEveryHoliday, nil, true},
		{"unknown status", without, HolidayStatus("sometimes"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tt.ValidateOverride(tt.status, tt.blocks)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOverride() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestPlanDay(t *testing.T) {
	holiday := PublicHoliday{
		ID: 4, Country: "BE", Year: 2026, HappeningOn: testMonday,
		Names: map[string]string{"nl": "Feestdag", "fr": "Jour férié"},
	}
	tb := &TimeTable{
		Status:   StatusTimetableBased,
		Country:  "BE",
		Blocks:   []TimeBlock{{Day: Monday, From: 540, To: 1020}},
		Holidays: []PublicHoliday{holiday},
		Overrides: []HolidayOverride{
			{Holiday: holiday, Status: HolidayClosed},
		},
	}

	p := tb.PlanDay(testMonday)
	if p.Weekday != "Monday" {
		t.Errorf("weekday = %q", p.Weekday)
	}
	if p.Holiday == nil || p.Holiday.ID != holiday.ID {
		t.Error("holiday missing from planning")
	}
	if p.Override == nil || p.Override.Status != HolidayClosed {
		t.Error("override missing from planning")
	}
	if p.Verdict.Open {
		t.Errorf("verdict = %+v, want closed", p.Verdict)
	}
	if len(p.Blocks) != 0 {
		t.Errorf("blocks = %+v, want none on a closed holiday", p.Blocks)
	}

	plain := tb.PlanDay(testSunday)
	if plain.Holiday != nil || plain.Override != nil {
		t.Error("plain day should carry no holiday")
	}
	if plain.Verdict.Open || plain.Verdict.Reason != ReasonUnknown {
		t.Errorf("plain sunday verdict = %+v", plain.Verdict)
	}
}

func TestPublicHolidayName(t *testing.T) {
	h := PublicHoliday{Names: map[string]string{"fr": "Noël", "nl": "Kerstmis"}}
	if got := h.Name([]string{"nl", "fr"}); got != "Kerstmis" {
		t.Errorf("Name = %q, want %q", got, "Kerstmis")
	}
	if got := h.Name([]string{"de"}); got == "" {
		t.Error("Name should fall back to any available locale")
	}
}
