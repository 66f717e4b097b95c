package vitals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitalpoint/kiosk/pkg/logging"
)

// Handler provides HTTP endpoints for vital collection and scoring.
type Handler struct {
	evaluator *Evaluator
	store     *SessionStore
	logger    *logging.Logger
}

// NewHandler creates a vitals HTTP handler.
func NewHandler(evaluator *Evaluator, store *SessionStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		evaluator: evaluator,
		store:     store,
		logger:    logger,
	}
}

// Routes returns a chi router with the vitals endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/definitions", h.ListDefinitions)
	r.Route("/patients/{patientID}/vitals", func(r chi.Router) {
		r.Post("/", h.Collect)
		r.Get("/", h.CurrentValues)
		r.Delete("/", h.ClearSession)
		r.Get("/summary", h.GetSummary)
		r.Get("/score", h.GetScore)
		r.Get("/export", h.Export)
	})
	return r
}

// ListDefinitions returns the vital catalog.
// GET /definitions
func (h *Handler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.evaluator.Registry().All())
}

// CollectRequest is the batch collection payload: vital id → measured value.
type CollectRequest struct {
	Values map[string]float64 `json:"values"`
}

// CollectResponse reports what landed and what was rejected.
type CollectResponse struct {
	Collected map[string]Measurement `json:"collected"`
	Derived   map[string]Measurement `json:"derived"`
	Rejected  map[string]string      `json:"rejected,omitempty"`
}

// Collect ingests a batch of measurements, computes derived vitals, and
// persists the session.
// POST /patients/{patientID}/vitals
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, `{"error": "patient_id required"}`, http.StatusBadRequest)
		return
	}

	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if len(req.Values) == 0 {
		http.Error(w, `{"error": "at least one vital value required"}`, http.StatusBadRequest)
		return
	}

	session, err := h.store.Get(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to load session", "patient_id", patientID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	collected, failed := h.evaluator.CollectBatch(session, req.Values)
	derived, err := h.evaluator.DeriveVitals(session)
	if err != nil {
		h.logger.Error("failed to derive vitals", "patient_id", patientID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.store.Save(r.Context(), session); err != nil {
		h.logger.Error("failed to save session", "patient_id", patientID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	resp := CollectResponse{Collected: collected, Derived: derived}
	if len(failed) > 0 {
		resp.Rejected = make(map[string]string, len(failed))
		for id, ferr := range failed {
			resp.Rejected[id] = ferr.Error()
		}
	}

	h.logger.Info("vitals collected",
		"patient_id", patientID,
		"collected", len(collected),
		"derived", len(derived),
		"rejected", len(failed),
	)
	writeJSON(w, http.StatusOK, resp)
}

// CurrentValues returns the session as a plain id→value map. This is the
// contract exposed to the AI-assistant collaborator.
// GET /patients/{patientID}/vitals
func (h *Handler) CurrentValues(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Values())
}

// GetSummary returns the per-category, per-status breakdown.
// GET /patients/{patientID}/vitals/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.evaluator.Summarize(session))
}

// GetScore returns the aggregate health score for the session.
// GET /patients/{patientID}/vitals/score
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	score, err := h.evaluator.Score(session)
	if errors.Is(err, ErrNoVitals) {
		http.Error(w, `{"error": "no vitals collected"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// Export renders the session as JSON or CSV.
// GET /patients/{patientID}/vitals/export?format=csv
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		data, err := ExportCSV(session)
		if err != nil {
			http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case "", "json":
		data, err := ExportJSON(session)
		if err != nil {
			http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		http.Error(w, `{"error": "unsupported export format"}`, http.StatusBadRequest)
	}
}

// ClearSession discards the patient's current session.
// DELETE /patients/{patientID}/vitals
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, `{"error": "patient_id required"}`, http.StatusBadRequest)
		return
	}
	if err := h.store.Clear(r.Context(), patientID); err != nil {
		h.logger.Error("failed to clear session", "patient_id", patientID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	h.logger.Info("session cleared", "patient_id", patientID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, `{"error": "patient_id required"}`, http.StatusBadRequest)
		return nil, false
	}
	session, err := h.store.Get(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to load session", "patient_id", patientID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
