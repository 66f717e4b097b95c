package doctors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitalpoint/kiosk/pkg/logging"
)

// Handler provides HTTP endpoints for the doctor directory.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a doctor directory HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Routes returns the patient-facing directory routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListActive)
	r.Get("/{doctorID}", h.GetByID)
	return r
}

// AdminRoutes returns the directory-management routes. The caller mounts
// these behind admin auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{doctorID}", h.Update)
	r.Patch("/{doctorID}/status", h.SetStatus)
	return r
}

// ListActive returns the doctors a patient may book.
// GET /doctors
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Doctor{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetByID returns one doctor record.
// GET /doctors/{doctorID}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")
	doctor, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get doctor", "doctor_id", id, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

// ListAll returns every doctor including inactive ones.
// GET /admin/doctors
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Doctor{}
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateDoctorRequest is the admin payload for a new doctor.
type CreateDoctorRequest struct {
	Name            string   `json:"name"`
	Specialty       string   `json:"specialty"`
	AvailableDays   []string `json:"available_days"`
	DayStart        string   `json:"day_start"`
	DayEnd          string   `json:"day_end"`
	MeetingPlatform string   `json:"meeting_platform"`
	MeetingRoom     string   `json:"meeting_room"`
}

// Create adds a doctor to the directory in active status.
// POST /admin/doctors
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	doctor := &Doctor{
		ID:              "DR" + strings.ToUpper(uuid.NewString()[:8]),
		Name:            req.Name,
		Specialty:       req.Specialty,
		AvailableDays:   req.AvailableDays,
		DayStart:        req.DayStart,
		DayEnd:          req.DayEnd,
		MeetingPlatform: req.MeetingPlatform,
		MeetingRoom:     req.MeetingRoom,
		Status:          StatusActive,
	}
	if err := doctor.Validate(); err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := h.store.Create(r.Context(), doctor); err != nil {
		h.logger.Error("failed to create doctor", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("doctor created", "doctor_id", doctor.ID, "name", doctor.Name)
	writeJSON(w, http.StatusCreated, doctor)
}

// Update rewrites a doctor's mutable fields.
// PUT /admin/doctors/{doctorID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")

	existing, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load doctor", "doctor_id", id, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	existing.Name = req.Name
	existing.Specialty = req.Specialty
	existing.AvailableDays = req.AvailableDays
	existing.DayStart = req.DayStart
	existing.DayEnd = req.DayEnd
	existing.MeetingPlatform = req.MeetingPlatform
	existing.MeetingRoom = req.MeetingRoom

	if err := existing.Validate(); err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := h.store.Update(r.Context(), existing); err != nil {
		h.logger.Error("failed to update doctor", "doctor_id", id, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, existing)
}

// SetStatusRequest toggles a doctor's status.
type SetStatusRequest struct {
	Status Status `json:"status"`
}

// SetStatus activates or deactivates a doctor.
// PATCH /admin/doctors/{doctorID}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Status != StatusActive && req.Status != StatusInactive {
		http.Error(w, `{"error": "status must be active or inactive"}`, http.StatusBadRequest)
		return
	}

	err := h.store.SetStatus(r.Context(), id, req.Status)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to set doctor status", "doctor_id", id, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("doctor status changed", "doctor_id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
