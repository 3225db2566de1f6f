package schedule

import (
	"testing"
	"time"
)

func TestParseMinuteOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    MinuteOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMinuteOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMinuteOfDay(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMinuteOfDay(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMinuteOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMinuteOfDayString(t *testing.T) {
	if got := MinuteOfDay(570).String(); got != "09:30" {
		t.Errorf("String() = %q, want %q", got, "09:30")
	}
	if got := MinuteOfDay(0).String(); got != "00:00" {
		t.Errorf("String() = %q, want %q", got, "00:00")
	}
}

func TestTimeBlockContains_ExclusiveBounds(t *testing.T) {
	b := TimeBlock{Day: Monday, From: 600, To: 900} // 10:00-15:00

	tests := []struct {
		name   string
		minute MinuteOfDay
		want   bool
	}{
		{"before", 599, false},
		{"exactly from", 600, false},
		{"just inside", 601, true},
		{"middle", 750, true},
		{"exactly to", 900, false},
		{"after", 901, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.minute); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.minute, got, tt.want)
			}
		})
	}
}

func TestValidateBlockTimes(t *testing.T) {
	if err := ValidateBlockTimes(540, 1020); err != nil {
		t.Errorf("valid block rejected: %v", err)
	}
	if err := ValidateBlockTimes(600, 600); err == nil {
		t.Error("empty block accepted")
	}
	// Midnight-spanning blocks are rejected rather than interpreted.
	if err := ValidateBlockTimes(1320, 120); err == nil {
		t.Error("midnight-spanning block accepted")
	} else if !IsValidationError(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestMinuteOf(t *testing.T) {
	moment := time.Date(2026, 3, 14, 9, 30, 45, 0, time.UTC)
	if got := MinuteOf(moment); got != 570 {
		t.Errorf("MinuteOf = %d, want 570", got)
	}
}

func TestSortBlocks(t *testing.T) {
	blocks := []TimeBlock{
		{Day: EveryDay, From: 60},
		{Day: Monday, From: 900},
		{Day: Monday, From: 540},
		{Day: Sunday, From: 600},
	}
	SortBlocks(blocks)

	want := []TimeBlock{
		{Day: Monday, From: 540},
		{Day: Monday, From: 900},
		{Day: Sunday, From: 600},
		{Day: EveryDay, From: 60},
	}
	for i := range want {
		if blocks[i].Day != want[i].Day || blocks[i].From != want[i].From {
			t.Fatalf("position %d: got %s %s, want %s %s",
				i, blocks[i].Day, blocks[i].From, want[i].Day, want[i].From)
		}
	}
}
