package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"metromaps/internal/service"
)

const (
	defaultEditsLimit = 50
	maxImportBytes    = 16 << 20
)

// MapHandler handles map API requests
type MapHandler struct {
	svc      *service.MapService
	validate *validator.Validate
}

// NewMapHandler creates a new map handler
func NewMapHandler(svc *service.MapService) *MapHandler {
	return &MapHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type closeRequest struct {
	Station string   `json:"station" validate:"required"`
	Lines   []string `json:"lines" validate:"required,min=1,dive,required"`
}

type replacementRequest struct {
	Stations []string `json:"stations" validate:"required,min=2,dive,required"`
	Lines    []string `json:"lines" validate:"required,min=1,dive,required"`
}

type alternativeRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// GetMap returns the map document
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Snapshot(), http.StatusOK)
}

// ListLines returns all lines
func (h *MapHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Lines(), http.StatusOK)
}

// ListStations returns all stations
func (h *MapHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Stations(), http.StatusOK)
}

// CloseStation closes a station on one or more lines
func (h *MapHandler) CloseStation(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.CloseStation(r.Context(), req.Station, req.Lines)
	if err != nil {
		h.writeServiceError(w, "Failed to close station", err)
		return
	}

	h.writeJSON(w, result, http.StatusCreated)
}

// CreateReplacement replaces lines along a run of stations
func (h *MapHandler) CreateReplacement(w http.ResponseWriter, r *http.Request) {
	var req replacementRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.CreateReplacementService(r.Context(), req.Stations, req.Lines)
	if err != nil {
		h.writeServiceError(w, "Failed to create replacement service", err)
		return
	}

	h.writeJSON(w, result, http.StatusCreated)
}

// CreateAlternative adds a two-stop line between two stations
func (h *MapHandler) CreateAlternative(w http.ResponseWriter, r *http.Request) {
	var req alternativeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.CreateAlternativeService(r.Context(), req.From, req.To)
	if err != nil {
		h.writeServiceError(w, "Failed to create alternative service", err)
		return
	}

	h.writeJSON(w, result, http.StatusCreated)
}

// ListEdits returns the edit journal
func (h *MapHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	limit := defaultEditsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, "Invalid limit", fmt.Sprintf("limit must be a non-negative integer, got %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	edits, err := h.svc.Edits(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to list edits: %v", err)
		h.writeError(w, "Failed to list edits", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, edits, http.StatusOK)
}

// GetAlerts returns the alert feed as GTFS-RT JSON
func (h *MapHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Alerts().MarshalJSON()
	if err != nil {
		log.Printf("Failed to encode alerts: %v", err)
		h.writeError(w, "Failed to encode alerts", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetAlertsProto returns the alert feed as a GTFS-RT protobuf message
func (h *MapHandler) GetAlertsProto(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Alerts().MarshalProto()
	if err != nil {
		log.Printf("Failed to encode alerts: %v", err)
		h.writeError(w, "Failed to encode alerts", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportMap replaces the map with the request body
func (h *MapHandler) ImportMap(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	result, err := h.svc.Import(r.Context(), format, http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.writeServiceError(w, "Failed to import map", err)
		return
	}

	h.writeJSON(w, result, http.StatusOK)
}

// ExportMap downloads the map
func (h *MapHandler) ExportMap(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	contentType, ok := exportContentTypes[format]
	if !ok {
		h.writeError(w, "Unsupported format", fmt.Sprintf("cannot export %q", format), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=map."+format)

	if err := h.svc.Export(format, w); err != nil {
		log.Printf("Failed to export %s: %v", format, err)
		// Can't write error response as we already set headers
		return
	}
}

var exportContentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/x-yaml",
	"yml":  "application/x-yaml",
}

// Health reports liveness, checking the database by reading the last save time
func (h *MapHandler) Health(w http.ResponseWriter, r *http.Request) {
	savedAt, err := h.svc.SavedAt(r.Context())
	if err != nil {
		h.writeJSON(w, map[string]interface{}{
			"status":   "error",
			"database": "disconnected",
			"error":    err.Error(),
		}, http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"status":   "ok",
		"database": "connected",
		"saved_at": savedAt,
	}, http.StatusOK)
}

// Helper methods

// decode reads and validates a JSON body, writing a 400 on failure
func (h *MapHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *MapHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrStationNotFound), errors.Is(err, service.ErrLineNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNotApplied):
		h.writeError(w, msg, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrInvalidInput):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s: %v", msg, err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *MapHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *MapHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
