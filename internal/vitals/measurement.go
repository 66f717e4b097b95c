package vitals

import (
	"errors"
	"fmt"
	"time"
)

// Status classifies a measurement relative to its normal range.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusLow      Status = "low"
	StatusHigh     Status = "high"
	StatusCritical Status = "critical"
)

// Multipliers on the normal-range bounds.
const (
	criticalLowFactor  = 0.7
	criticalHighFactor = 1.3
	plausibilityFactor = 2.0
)

var (
	// ErrUnknownVital means the definition id is not in the registry.
	ErrUnknownVital = errors.New("vitals: unknown vital sign")
	// ErrImplausibleValue means the value is outside the entry-error band.
	ErrImplausibleValue = errors.New("vitals: implausible value")
	// ErrNoVitals means a score was requested on an empty session.
	ErrNoVitals = errors.New("vitals: no vitals collected")
)

// Measurement is one collected value, classified at collection time.
type Measurement struct {
	DefinitionID string    `json:"definition_id"`
	Name         string    `json:"name"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit"`
	Category     Category  `json:"category"`
	Status       Status    `json:"status"`
	CapturedAt   time.Time `json:"captured_at"`
}

// Classify applies the normal-range rule: below min is low, above max is
// high, and a reading past 0.7×min or 1.3×max is critical regardless.
func Classify(def Definition, value float64) Status {
	status := StatusNormal
	if value < def.Min {
		status = StatusLow
	} else if value > def.Max {
		status = StatusHigh
	}
	if value < def.Min*criticalLowFactor || value > def.Max*criticalHighFactor {
		status = StatusCritical
	}
	return status
}

// ValidateRange checks a value against the plausibility band
// [min/2, max×2]. This is deliberately looser than status classification:
// it exists to reject obvious entry errors (a heart rate of 1000), not to
// flag clinical abnormality.
func ValidateRange(def Definition, value float64) error {
	minValid := def.Min / plausibilityFactor
	maxValid := def.Max * plausibilityFactor
	if value < minValid || value > maxValid {
		return fmt.Errorf("%w: %s value %g outside acceptable range (%.1f - %.1f)",
			ErrImplausibleValue, def.ID, value, minValid, maxValid)
	}
	return nil
}
