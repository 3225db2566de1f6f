package db

import (
	"database/sql"
	"time"
)

type TimeTable struct {
	ID             int64
	PublicID       string
	OrganizationID int64
	AttachedKind   sql.NullString
	AttachedID     sql.NullInt64
	Country        string
	CurrentStatus  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type TimeBlock struct {
	ID          int64
	TimeTableID int64
	Day         string
	FromTime    string
	ToTime      string
}

type PublicHoliday struct {
	ID          int64
	Country     string
	Year        int
	HappeningOn time.Time
	Names       []byte // jsonb: locale -> localized name
}

type TimetablePublicHoliday struct {
	ID              int64
	TimeTableID     int64
	PublicHolidayID int64
	HolidayStatus   string
}

type TimetablePublicHolidayTimeBlock struct {
	ID         int64
	OverrideID int64
	FromTime   string
	ToTime     string
}
