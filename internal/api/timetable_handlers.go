package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	apperrors "horarios/internal/errors"
	"horarios/internal/repository"
	"horarios/internal/schedule"
	"horarios/internal/service"
)

// TimetableHandler serves the public read side: open/closed verdicts and
// day planning.
type TimetableHandler struct {
	service *service.TimetableService
}

func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpErr = apperrors.ErrNotFound("Timetable not found")
	case schedule.IsValidationError(err):
		httpErr = apperrors.ErrUnprocessable(err.Error())
	default:
		httpErr = apperrors.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	http.Error(w, httpErr.Message, httpErr.Code)
}

// GET /api/timetables/{key}/open-now
func (h *TimetableHandler) OpenNow(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	verdict, err := h.service.IsOpenNow(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

// POST /api/timetables/{key}/open-at
func (h *TimetableHandler) OpenAt(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req OpenAtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	moment, err := time.Parse(time.RFC3339, req.Moment)
	if err != nil {
		http.Error(w, "moment must be RFC 3339", http.StatusBadRequest)
		return
	}

	verdict, err := h.service.IsOpenAt(r.Context(), key, moment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

// GET /api/timetables/{key}/open-on?date=YYYY-MM-DD
func (h *TimetableHandler) OpenOn(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	verdict, err := h.service.IsOpenOnDate(r.Context(), key, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

// GET /api/timetables/{key}/next-open-block
func (h *TimetableHandler) NextOpenBlock(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	block, err := h.service.NextOpenBlock(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	if block == nil {
		http.Error(w, "No open blocks", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, block)
}

// GET /api/timetables/{key}/day-planning?date=YYYY-MM-DD
func (h *TimetableHandler) DayPlanning(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	dateStr := r.URL.Query().Get("date")
	date := time.Now()
	if dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	planning, err := h.service.DayPlanning(r.Context(), key, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, planning)
}
