package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitalpoint/kiosk/pkg/logging"
)

// Handler provides the scheduling HTTP endpoints.
type Handler struct {
	ledger *Ledger
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a scheduling HTTP handler.
func NewHandler(ledger *Ledger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{ledger: ledger, logger: logger, now: time.Now}
}

// Routes returns a chi router with the scheduling endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/doctors/{doctorID}/slots", h.GetAvailableSlots)
	r.Post("/appointments", h.Book)
	r.Delete("/appointments/{appointmentID}", h.Cancel)
	r.Get("/patients/{patientID}/appointments", h.ListByPatient)
	return r
}

// SlotsResponse lists the bookable times for a doctor/date pair.
type SlotsResponse struct {
	DoctorID string   `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}

// GetAvailableSlots returns the bookable times. An empty list is a normal
// outcome (inactive doctor, off day, or fully booked), not an error.
// GET /doctors/{doctorID}/slots?date=2026-03-04
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, `{"error": "date query parameter required"}`, http.StatusBadRequest)
		return
	}

	slots, err := h.ledger.AvailableSlots(r.Context(), doctorID, date)
	switch {
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrPastDate), errors.Is(err, ErrBeyondHorizon):
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrDoctorNotFound):
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to compute slots", "doctor_id", doctorID, "date", date, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, SlotsResponse{DoctorID: doctorID, Date: date, Slots: slots})
}

// BookingRequest is the booking payload.
type BookingRequest struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	DoctorID    string `json:"doctor_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}

// BookingResponse reports the booking outcome.
type BookingResponse struct {
	Success       bool   `json:"success"`
	AppointmentID string `json:"appointment_id,omitempty"`
	MeetingLink   string `json:"meeting_link,omitempty"`
	DoctorName    string `json:"doctor_name,omitempty"`
	Message       string `json:"message"`
}

// Book creates a confirmed appointment.
// POST /appointments
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.PatientID == "" || req.DoctorID == "" || req.Date == "" || req.Time == "" {
		http.Error(w, `{"error": "patient_id, doctor_id, date and time are required"}`, http.StatusBadRequest)
		return
	}

	appt, err := h.ledger.Book(r.Context(), BookRequest{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		writeJSON(w, http.StatusConflict, BookingResponse{
			Success: false,
			Message: "Selected slot is no longer available. Please choose another time.",
		})
		return
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrPastDate), errors.Is(err, ErrBeyondHorizon):
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrDoctorNotFound):
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to book appointment", "doctor_id", req.DoctorID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, BookingResponse{
		Success:       true,
		AppointmentID: appt.ID,
		MeetingLink:   appt.MeetingLink,
		DoctorName:    appt.DoctorName,
		Message:       "Appointment booked successfully!",
	})
}

// Cancel cancels a patient's appointment.
// DELETE /appointments/{appointmentID}?patient_id=P1
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		http.Error(w, `{"error": "patient_id query parameter required"}`, http.StatusBadRequest)
		return
	}

	err := h.ledger.Cancel(r.Context(), appointmentID, patientID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to cancel appointment", "appointment_id", appointmentID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppointmentView decorates an appointment with its derived join state.
type AppointmentView struct {
	Appointment
	Joinable bool `json:"joinable"`
}

// ListByPatient returns a patient's appointments, newest booking first by
// default; ?sort=schedule orders by appointment date/time.
// GET /patients/{patientID}/appointments
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	order := SortByCreated
	if r.URL.Query().Get("sort") == "schedule" {
		order = SortBySchedule
	}

	list, err := h.ledger.ListByPatient(r.Context(), patientID, order)
	if err != nil {
		h.logger.Error("failed to list appointments", "patient_id", patientID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	now := h.now()
	views := make([]AppointmentView, 0, len(list))
	for _, a := range list {
		views = append(views, AppointmentView{Appointment: a, Joinable: a.Joinable(now)})
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
