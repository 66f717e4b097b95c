// Package vitals implements the kiosk's vital-sign catalog, per-session
// measurement collection, derived readings, and health scoring.
package vitals

import "fmt"

// Category groups related vital signs for display and summary breakdowns.
type Category string

const (
	CategoryCardiovascular  Category = "cardiovascular"
	CategoryRespiratory     Category = "respiratory"
	CategoryMetabolic       Category = "metabolic"
	CategoryLipidProfile    Category = "lipid_profile"
	CategoryHematology      Category = "hematology"
	CategoryAnthropometric  Category = "anthropometric"
	CategoryBodyComposition Category = "body_composition"
	CategorySensory         Category = "sensory"
)

// Definition describes one vital sign. Min/Max are the inclusive bounds of
// the normal range.
type Definition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Unit        string   `json:"unit"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// Derived vital ids synthesized from primitive measurements.
const (
	VitalHeight        = "height"
	VitalWeight        = "weight"
	VitalBMI           = "bmi"
	VitalSystolic      = "blood_pressure_systolic"
	VitalDiastolic     = "blood_pressure_diastolic"
	VitalMAP           = "mean_arterial_pressure"
	VitalPulsePressure = "blood_pressure_pulse_pressure"
)

// Registry is the static catalog of vital definitions. Loaded once at
// process start, read-only afterwards.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry returns the built-in 28-vital catalog.
func NewRegistry() *Registry {
	defs := []Definition{
		{ID: "heart_rate", Name: "Heart Rate", Unit: "bpm", Min: 60, Max: 100, Category: CategoryCardiovascular, Description: "Number of heartbeats per minute"},
		{ID: VitalSystolic, Name: "Systolic Blood Pressure", Unit: "mmHg", Min: 90, Max: 120, Category: CategoryCardiovascular, Description: "Pressure when heart contracts"},
		{ID: VitalDiastolic, Name: "Diastolic Blood Pressure", Unit: "mmHg", Min: 60, Max: 80, Category: CategoryCardiovascular, Description: "Pressure when heart relaxes"},
		{ID: "pulse_rate", Name: "Pulse Rate", Unit: "bpm", Min: 60, Max: 100, Category: CategoryCardiovascular, Description: "Arterial pulse rate"},
		{ID: VitalMAP, Name: "Mean Arterial Pressure", Unit: "mmHg", Min: 70, Max: 100, Category: CategoryCardiovascular, Description: "Average arterial pressure"},
		{ID: VitalPulsePressure, Name: "Pulse Pressure", Unit: "mmHg", Min: 30, Max: 40, Category: CategoryCardiovascular, Description: "Difference between systolic and diastolic"},
		{ID: "respiratory_rate", Name: "Respiratory Rate", Unit: "breaths/min", Min: 12, Max: 20, Category: CategoryRespiratory, Description: "Number of breaths per minute"},
		{ID: "oxygen_saturation", Name: "Oxygen Saturation", Unit: "%", Min: 95, Max: 100, Category: CategoryRespiratory, Description: "Oxygen saturation in blood"},
		{ID: "body_temperature", Name: "Body Temperature", Unit: "°C", Min: 36.1, Max: 37.2, Category: CategoryMetabolic, Description: "Core body temperature"},
		{ID: "blood_glucose", Name: "Blood Glucose", Unit: "mg/dL", Min: 70, Max: 140, Category: CategoryMetabolic, Description: "Blood sugar level"},
		{ID: "cholesterol_total", Name: "Total Cholesterol", Unit: "mg/dL", Min: 0, Max: 200, Category: CategoryLipidProfile, Description: "Total cholesterol level"},
		{ID: "cholesterol_ldl", Name: "LDL Cholesterol", Unit: "mg/dL", Min: 0, Max: 100, Category: CategoryLipidProfile, Description: "Low-density lipoprotein cholesterol"},
		{ID: "cholesterol_hdl", Name: "HDL Cholesterol", Unit: "mg/dL", Min: 40, Max: 100, Category: CategoryLipidProfile, Description: "High-density lipoprotein cholesterol"},
		{ID: "triglycerides", Name: "Triglycerides", Unit: "mg/dL", Min: 0, Max: 150, Category: CategoryLipidProfile, Description: "Blood triglyceride level"},
		{ID: "hemoglobin", Name: "Hemoglobin", Unit: "g/dL", Min: 12.0, Max: 16.0, Category: CategoryHematology, Description: "Hemoglobin level in blood"},
		{ID: "white_blood_cells", Name: "White Blood Cells", Unit: "cells/μL", Min: 4000, Max: 11000, Category: CategoryHematology, Description: "White blood cell count"},
		{ID: "red_blood_cells", Name: "Red Blood Cells", Unit: "cells/μL", Min: 4200000, Max: 5400000, Category: CategoryHematology, Description: "Red blood cell count"},
		{ID: "platelets", Name: "Platelets", Unit: "cells/μL", Min: 150000, Max: 450000, Category: CategoryHematology, Description: "Platelet count"},
		{ID: VitalHeight, Name: "Height", Unit: "cm", Min: 140, Max: 220, Category: CategoryAnthropometric, Description: "Body height"},
		{ID: VitalWeight, Name: "Weight", Unit: "kg", Min: 30, Max: 200, Category: CategoryAnthropometric, Description: "Body weight"},
		{ID: VitalBMI, Name: "Body Mass Index", Unit: "kg/m²", Min: 18.5, Max: 24.9, Category: CategoryAnthropometric, Description: "Body mass index"},
		{ID: "waist_circumference", Name: "Waist Circumference", Unit: "cm", Min: 70, Max: 102, Category: CategoryAnthropometric, Description: "Waist measurement"},
		{ID: "hip_circumference", Name: "Hip Circumference", Unit: "cm", Min: 85, Max: 120, Category: CategoryAnthropometric, Description: "Hip measurement"},
		{ID: "body_fat_percentage", Name: "Body Fat Percentage", Unit: "%", Min: 10, Max: 25, Category: CategoryBodyComposition, Description: "Percentage of body fat"},
		{ID: "muscle_mass", Name: "Muscle Mass", Unit: "kg", Min: 25, Max: 50, Category: CategoryBodyComposition, Description: "Total muscle mass"},
		{ID: "bone_density", Name: "Bone Density", Unit: "g/cm²", Min: 0.8, Max: 1.2, Category: CategoryBodyComposition, Description: "Bone mineral density"},
		{ID: "vision_acuity", Name: "Vision Acuity", Unit: "ratio", Min: 0.8, Max: 1.0, Category: CategorySensory, Description: "Visual acuity measurement"},
		{ID: "hearing_threshold", Name: "Hearing Threshold", Unit: "dB", Min: 0, Max: 25, Category: CategorySensory, Description: "Hearing threshold level"},
	}

	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r
}

// Get returns the definition for id, or ErrUnknownVital.
func (r *Registry) Get(id string) (Definition, error) {
	def, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownVital, id)
	}
	return def, nil
}

// Has reports whether id is a known vital.
func (r *Registry) Has(id string) bool {
	_, ok := r.defs[id]
	return ok
}

// All returns every definition in catalog order.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// ByCategory groups definitions by category, preserving catalog order
// within each group.
func (r *Registry) ByCategory() map[Category][]Definition {
	out := make(map[Category][]Definition)
	for _, id := range r.order {
		d := r.defs[id]
		out[d.Category] = append(out[d.Category], d)
	}
	return out
}
