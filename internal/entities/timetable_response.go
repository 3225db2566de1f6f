package entities

import (
	"horarios/internal/db"
)

type TimetableResponse struct {
	Key            string `json:"key"`
	OrganizationID int64  `json:"organization_id"`
	Country        string `json:"country"`
	CurrentStatus  string `json:"current_status"`
	AttachedKind   string `json:"attached_kind,omitempty"`
	AttachedID     int64  `json:"attached_id,omitempty"`
}

func NewTimetableResponse(tt *db.TimeTable) TimetableResponse {
	resp := TimetableResponse{
		Key:            tt.PublicID,
		OrganizationID: tt.OrganizationID,
		Country:        tt.Country,
		CurrentStatus:  tt.CurrentStatus,
	}
	if tt.AttachedKind.Valid {
		resp.AttachedKind = tt.AttachedKind.String
		resp.AttachedID = tt.AttachedID.Int64
	}
	return resp
}
