package api

type CreateTimeTableRequest struct {
	OrganizationID int64  `json:"organization_id"`
	Country        string `json:"country"`
	CurrentStatus  string `json:"current_status"`
	AttachedKind   string `json:"attached_kind"`
	AttachedID     int64  `json:"attached_id"`
}

type UpdateTimeTableRequest struct {
	OrganizationID int64  `json:"organization_id"`
	Country        string `json:"country"`
	CurrentStatus  string `json:"current_status"`
	AttachedKind   string `json:"attached_kind"`
	AttachedID     int64  `json:"attached_id"`
}

type TimeBlockRequest struct {
	Day  string `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
}

type SpecialBlockRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type OverrideRequest struct {
	HolidayStatus string                `json:"holiday_status"`
	SpecialBlocks []SpecialBlockRequest `json:"special_blocks"`
}

type OpenAtRequest struct {
	Moment string `json:"moment"` // RFC 3339
}
