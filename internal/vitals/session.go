package vitals

import (
	"fmt"
	"sort"
	"time"
)

// Session holds the measurements collected during one patient interaction.
// Re-collecting a vital overwrites the prior value. A session is owned by
// exactly one kiosk interaction and is cleared explicitly.
type Session struct {
	PatientID    string                 `json:"patient_id"`
	Measurements map[string]Measurement `json:"measurements"`
	StartedAt    time.Time              `json:"started_at"`
}

// NewSession creates an empty session for a patient.
func NewSession(patientID string) *Session {
	return &Session{
		PatientID:    patientID,
		Measurements: make(map[string]Measurement),
		StartedAt:    time.Now().UTC(),
	}
}

// Len returns the number of collected measurements.
func (s *Session) Len() int {
	return len(s.Measurements)
}

// Clear drops all collected measurements.
func (s *Session) Clear() {
	s.Measurements = make(map[string]Measurement)
}

// Values returns the session as a plain id→value map. This is the contract
// consumed by the AI-assistant collaborator.
func (s *Session) Values() map[string]float64 {
	out := make(map[string]float64, len(s.Measurements))
	for id, m := range s.Measurements {
		out[id] = m.Value
	}
	return out
}

// Evaluator classifies measurements against the registry and maintains
// session state. The zero value is unusable; construct with NewEvaluator.
type Evaluator struct {
	registry *Registry
	now      func() time.Time
}

// NewEvaluator creates an evaluator over the given registry.
func NewEvaluator(registry *Registry) *Evaluator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Evaluator{registry: registry, now: time.Now}
}

// WithClock overrides the evaluator's clock. Intended for tests.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Registry exposes the catalog the evaluator classifies against.
func (e *Evaluator) Registry() *Registry {
	return e.registry
}

// Collect validates the vital id, classifies the reading, and inserts it
// into the session, overwriting any prior measurement of the same vital.
// Plausibility checking is a separate concern (Validate): derived values
// such as an unusually wide pulse pressure must still land in the session.
func (e *Evaluator) Collect(session *Session, definitionID string, value float64) (Measurement, error) {
	def, err := e.registry.Get(definitionID)
	if err != nil {
		return Measurement{}, err
	}

	m := Measurement{
		DefinitionID: def.ID,
		Name:         def.Name,
		Value:        value,
		Unit:         def.Unit,
		Category:     def.Category,
		Status:       Classify(def, value),
		CapturedAt:   e.now().UTC(),
	}
	session.Measurements[def.ID] = m
	return m, nil
}

// Validate checks a raw input value against the vital's plausibility band
// before it is collected.
func (e *Evaluator) Validate(definitionID string, value float64) error {
	def, err := e.registry.Get(definitionID)
	if err != nil {
		return err
	}
	return ValidateRange(def, value)
}

// CollectBatch collects a map of vital id→value. Unknown ids and
// implausible values are skipped and reported; the rest of the batch still
// lands. Returns the successfully collected measurements keyed by id.
func (e *Evaluator) CollectBatch(session *Session, values map[string]float64) (map[string]Measurement, map[string]error) {
	collected := make(map[string]Measurement, len(values))
	failed := make(map[string]error)
	for id, value := range values {
		if err := e.Validate(id, value); err != nil {
			failed[id] = err
			continue
		}
		m, err := e.Collect(session, id, value)
		if err != nil {
			failed[id] = err
			continue
		}
		collected[id] = m
	}
	return collected, failed
}

// DeriveVitals synthesizes BMI, mean arterial pressure, and pulse pressure
// from primitives already in the session. Each derived value goes back
// through Collect so it gets its own classification and becomes a
// first-class session entry. Only the newly derived measurements are
// returned. Deriving twice from the same inputs yields identical results.
func (e *Evaluator) DeriveVitals(session *Session) (map[string]Measurement, error) {
	derived := make(map[string]Measurement)

	if height, ok := session.Measurements[VitalHeight]; ok {
		if weight, ok := session.Measurements[VitalWeight]; ok {
			heightM := height.Value / 100
			bmi := weight.Value / (heightM * heightM)
			m, err := e.Collect(session, VitalBMI, bmi)
			if err != nil {
				return derived, fmt.Errorf("vitals: derive bmi: %w", err)
			}
			derived[VitalBMI] = m
		}
	}

	systolic, hasSys := session.Measurements[VitalSystolic]
	diastolic, hasDia := session.Measurements[VitalDiastolic]
	if hasSys && hasDia {
		mapValue := diastolic.Value + (systolic.Value-diastolic.Value)/3
		m, err := e.Collect(session, VitalMAP, mapValue)
		if err != nil {
			return derived, fmt.Errorf("vitals: derive mean arterial pressure: %w", err)
		}
		derived[VitalMAP] = m

		pp, err := e.Collect(session, VitalPulsePressure, systolic.Value-diastolic.Value)
		if err != nil {
			return derived, fmt.Errorf("vitals: derive pulse pressure: %w", err)
		}
		derived[VitalPulsePressure] = pp
	}

	return derived, nil
}

// HealthScore is the aggregate result over a session.
type HealthScore struct {
	Score          float64 `json:"score"`
	Grade          string  `json:"grade"`
	NormalVitals   int     `json:"normal_vitals"`
	AbnormalVitals int     `json:"abnormal_vitals"`
	CriticalVitals int     `json:"critical_vitals"`
	TotalVitals    int     `json:"total_vitals"`
}

// Score aggregates session statuses into a 0-100 score and letter grade.
// Abnormal counts low and high together. Returns ErrNoVitals on an empty
// session.
func (e *Evaluator) Score(session *Session) (HealthScore, error) {
	n := session.Len()
	if n == 0 {
		return HealthScore{}, ErrNoVitals
	}

	var normal, abnormal, critical int
	for _, m := range session.Measurements {
		switch m.Status {
		case StatusNormal:
			normal++
		case StatusLow, StatusHigh:
			abnormal++
		case StatusCritical:
			critical++
		}
	}

	total := float64(n)
	score := float64(normal)/total*100 -
		float64(abnormal)/total*20 -
		float64(critical)/total*50
	if score < 0 {
		score = 0
	}

	var grade string
	switch {
	case score >= 90:
		grade = "Excellent"
	case score >= 80:
		grade = "Good"
	case score >= 70:
		grade = "Fair"
	case score >= 60:
		grade = "Poor"
	default:
		grade = "Critical"
	}

	return HealthScore{
		Score:          score,
		Grade:          grade,
		NormalVitals:   normal,
		AbnormalVitals: abnormal,
		CriticalVitals: critical,
		TotalVitals:    n,
	}, nil
}

// Summary is a breakdown of the session by category and status.
type Summary struct {
	TotalVitals    int              `json:"total_vitals"`
	Categories     map[Category]int `json:"categories"`
	StatusCounts   map[Status]int   `json:"status_counts"`
	CriticalVitals []Measurement    `json:"critical_vitals"`
	AbnormalVitals []Measurement    `json:"abnormal_vitals"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// Summarize builds a per-category, per-status breakdown of the session.
// Critical and abnormal listings are ordered by vital id for stable output.
func (e *Evaluator) Summarize(session *Session) Summary {
	summary := Summary{
		TotalVitals: session.Len(),
		Categories:  make(map[Category]int),
		StatusCounts: map[Status]int{
			StatusNormal:   0,
			StatusLow:      0,
			StatusHigh:     0,
			StatusCritical: 0,
		},
		GeneratedAt: e.now().UTC(),
	}

	ids := make([]string, 0, session.Len())
	for id := range session.Measurements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m := session.Measurements[id]
		summary.Categories[m.Category]++
		summary.StatusCounts[m.Status]++
		switch m.Status {
		case StatusCritical:
			summary.CriticalVitals = append(summary.CriticalVitals, m)
		case StatusLow, StatusHigh:
			summary.AbnormalVitals = append(summary.AbnormalVitals, m)
		}
	}

	return summary
}
