package schedule

import (
	"fmt"
	"sort"
	"time"
)

// MinuteOfDay is a naive wall-clock time as minutes since midnight, always
// interpreted in the timetable's resolved timezone.
type MinuteOfDay int

// ParseMinuteOfDay parses "HH:MM".
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", s))
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", s))
	}
	return MinuteOfDay(h*60 + m), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MinuteOf extracts the wall-clock minute of day from a moment. The caller is
// responsible for converting the moment into the right location first.
func MinuteOf(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

// TimeBlock is a recurring weekly opening interval. Special-hours blocks on a
// holiday override use the same shape, tagged EveryPublicHoliday.
type TimeBlock struct {
	ID   int64
	Day  Day
	From MinuteOfDay
	To   MinuteOfDay
}

// Contains checks strict containment: both bounds are exclusive.
func (b TimeBlock) Contains(m MinuteOfDay) bool {
	return b.From < m && m < b.To
}

// ValidateBlockTimes rejects empty and midnight-spanning intervals at the
// write path. Rows that predate this check are evaluated literally by
// Contains and simply never match.
func ValidateBlockTimes(from, to MinuteOfDay) error {
	if from >= to {
		return NewValidationError(fmt.Sprintf(
			"block must start before it ends, got %s-%s", from, to))
	}
	return nil
}

// SortBlocks orders blocks for display: (day order, from time).
func SortBlocks(blocks []TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Day.Order() != blocks[j].Day.Order() {
			return blocks[i].Day.Order() < blocks[j].Day.Order()
		}
		return blocks[i].From < blocks[j].From
	})
}
