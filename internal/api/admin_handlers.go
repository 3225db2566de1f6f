package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"horarios/internal/entities"
	"horarios/internal/service"
)

// AdminHandler serves the protected write side: timetable CRUD, blocks and
// holiday overrides.
type AdminHandler struct {
	service *service.TimetableService
}

func NewAdminHandler(svc *service.TimetableService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// GET /admin/timetables
func (h *AdminHandler) ListTimeTables(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListTimeTables(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]entities.TimetableResponse, 0, len(rows))
	for i := range rows {
		out = append(out, entities.NewTimetableResponse(&rows[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// POST /admin/timetables
func (h *AdminHandler) CreateTimeTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	row, err := h.service.CreateTimeTable(r.Context(), service.TimetableParams{
		OrganizationID: req.OrganizationID,
		Country:        req.Country,
		CurrentStatus:  req.CurrentStatus,
		AttachedKind:   req.AttachedKind,
		AttachedID:     req.AttachedID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entities.NewTimetableResponse(row))
}

// PUT /admin/timetables/{key}
func (h *AdminHandler) UpdateTimeTable(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req UpdateTimeTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	row, err := h.service.UpdateTimeTable(r.Context(), key, service.TimetableParams{
		OrganizationID: req.OrganizationID,
		Country:        req.Country,
		CurrentStatus:  req.CurrentStatus,
		AttachedKind:   req.AttachedKind,
		AttachedID:     req.AttachedID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entities.NewTimetableResponse(row))
}

// POST /admin/timetables/{key}/blocks
func (h *AdminHandler) AddTimeBlock(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req TimeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	block, err := h.service.AddTimeBlock(r.Context(), key, req.Day, req.From, req.To)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entities.TimeBlockInfo{
		ID:   block.ID,
		Day:  block.Day,
		From: block.FromTime,
		To:   block.ToTime,
	})
}

// DELETE /admin/timetables/{key}/blocks/{id}
func (h *AdminHandler) DeleteTimeBlock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]

	blockID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid block id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTimeBlock(r.Context(), key, blockID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /admin/timetables/{key}/holidays/{id}
func (h *AdminHandler) SetHolidayOverride(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]

	overrideID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid override id", http.StatusBadRequest)
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	specials := make([]service.SpecialBlockParams, 0, len(req.SpecialBlocks))
	for _, sb := range req.SpecialBlocks {
		specials = append(specials, service.SpecialBlockParams{From: sb.From, To: sb.To})
	}

	if err := h.service.SetHolidayOverride(r.Context(), key, overrideID, req.HolidayStatus, specials); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /admin/timetables/{key}/holidays/regenerate
func (h *AdminHandler) RegenerateHolidays(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if err := h.service.Regenerate(r.Context(), key); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
