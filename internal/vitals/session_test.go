package vitals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvaluator() *Evaluator {
	fixed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	return NewEvaluator(NewRegistry()).WithClock(func() time.Time { return fixed })
}

func TestClassify(t *testing.T) {
	reg := NewRegistry()
	hr, err := reg.Get("heart_rate") // normal 60-100
	require.NoError(t, err)

	tests := []struct {
		name  string
		value float64
		want  Status
	}{
		{"normal mid", 75, StatusNormal},
		{"normal at min", 60, StatusNormal},
		{"normal at max", 100, StatusNormal},
		{"low", 50, StatusLow},
		{"low just above critical", 43, StatusLow},
		{"critical low", 41, StatusCritical}, // below 0.7*60=42
		{"high", 110, StatusHigh},
		{"high just below critical", 129, StatusHigh},
		{"critical high", 131, StatusCritical}, // above 1.3*100=130
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(hr, tt.value))
		})
	}
}

func TestClassifyLowCriticalBoundarySweep(t *testing.T) {
	reg := NewRegistry()
	hr, err := reg.Get("heart_rate")
	require.NoError(t, err)

	// Everything below min is low unless it crosses the critical floor.
	for value := 0.0; value < hr.Min; value += 0.5 {
		status := Classify(hr, value)
		if value < hr.Min*0.7 {
			assert.Equal(t, StatusCritical, status, "value %g", value)
		} else {
			assert.Equal(t, StatusLow, status, "value %g", value)
		}
	}
	// Symmetric above max.
	for value := hr.Max + 0.5; value < hr.Max*2; value += 0.5 {
		status := Classify(hr, value)
		if value > hr.Max*1.3 {
			assert.Equal(t, StatusCritical, status, "value %g", value)
		} else {
			assert.Equal(t, StatusHigh, status, "value %g", value)
		}
	}
}

func TestValidateRange(t *testing.T) {
	reg := NewRegistry()
	hr, err := reg.Get("heart_rate")
	require.NoError(t, err)

	assert.NoError(t, ValidateRange(hr, 75))
	assert.NoError(t, ValidateRange(hr, 30))  // plausibility floor 60/2
	assert.NoError(t, ValidateRange(hr, 200)) // plausibility ceiling 100*2
	assert.ErrorIs(t, ValidateRange(hr, 29), ErrImplausibleValue)
	assert.ErrorIs(t, ValidateRange(hr, 1000), ErrImplausibleValue)
}

func TestCollectUnknownVital(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, "midichlorian_count", 9000)
	assert.ErrorIs(t, err, ErrUnknownVital)
	assert.Equal(t, 0, session.Len())
}

func TestCollectOverwritesPriorValue(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, "heart_rate", 72)
	require.NoError(t, err)
	m, err := e.Collect(session, "heart_rate", 88)
	require.NoError(t, err)

	assert.Equal(t, 1, session.Len())
	assert.Equal(t, 88.0, session.Measurements["heart_rate"].Value)
	assert.Equal(t, StatusNormal, m.Status)
}

func TestCollectBatchSkipsBadEntries(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	collected, failed := e.CollectBatch(session, map[string]float64{
		"heart_rate":    72,
		"bogus_vital":   1,
		"oxygen_sat":    98, // wrong id, catalog uses oxygen_saturation
		"blood_glucose": 110,
	})

	assert.Len(t, collected, 2)
	assert.Len(t, failed, 2)
	assert.Contains(t, collected, "heart_rate")
	assert.Contains(t, collected, "blood_glucose")
	assert.ErrorIs(t, failed["bogus_vital"], ErrUnknownVital)
}

func TestCollectBatchRejectsImplausibleValues(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	collected, failed := e.CollectBatch(session, map[string]float64{
		"heart_rate": 1000,
	})

	assert.Empty(t, collected)
	assert.ErrorIs(t, failed["heart_rate"], ErrImplausibleValue)
	assert.Equal(t, 0, session.Len())
}

func TestDeriveVitals(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, VitalHeight, 175)
	require.NoError(t, err)
	_, err = e.Collect(session, VitalWeight, 70)
	require.NoError(t, err)
	_, err = e.Collect(session, VitalSystolic, 120)
	require.NoError(t, err)
	_, err = e.Collect(session, VitalDiastolic, 80)
	require.NoError(t, err)

	derived, err := e.DeriveVitals(session)
	require.NoError(t, err)
	require.Len(t, derived, 3)

	bmi := derived[VitalBMI]
	assert.InDelta(t, 22.86, bmi.Value, 0.01)
	assert.Equal(t, StatusNormal, bmi.Status)

	mapReading := derived[VitalMAP]
	assert.InDelta(t, 93.33, mapReading.Value, 0.01)
	assert.Equal(t, StatusNormal, mapReading.Status)

	pp := derived[VitalPulsePressure]
	assert.Equal(t, 40.0, pp.Value)
	assert.Equal(t, StatusNormal, pp.Status)

	// Derived entries are first-class session members.
	assert.Equal(t, 7, session.Len())
}

func TestDeriveVitalsIdempotent(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, VitalHeight, 160)
	require.NoError(t, err)
	_, err = e.Collect(session, VitalWeight, 90)
	require.NoError(t, err)

	first, err := e.DeriveVitals(session)
	require.NoError(t, err)
	second, err := e.DeriveVitals(session)
	require.NoError(t, err)

	assert.Equal(t, first[VitalBMI].Value, second[VitalBMI].Value)
	assert.Equal(t, first[VitalBMI].Status, second[VitalBMI].Status)
	assert.Equal(t, 3, session.Len())
}

func TestDeriveVitalsMissingInputs(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, VitalHeight, 175)
	require.NoError(t, err)
	_, err = e.Collect(session, VitalSystolic, 120)
	require.NoError(t, err)

	derived, err := e.DeriveVitals(session)
	require.NoError(t, err)
	assert.Empty(t, derived)
}

func TestScoreEmptySession(t *testing.T) {
	e := testEvaluator()
	_, err := e.Score(NewSession("P1"))
	assert.ErrorIs(t, err, ErrNoVitals)
}

func TestScoreAllNormal(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, "heart_rate", 72)
	require.NoError(t, err)
	_, err = e.Collect(session, "blood_glucose", 100)
	require.NoError(t, err)

	score, err := e.Score(session)
	require.NoError(t, err)
	assert.Equal(t, 100.0, score.Score)
	assert.Equal(t, "Excellent", score.Grade)
	assert.Equal(t, 2, score.NormalVitals)
}

func TestScoreMixedStatuses(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, "heart_rate", 72) // normal
	require.NoError(t, err)
	_, err = e.Collect(session, "blood_glucose", 150) // high
	require.NoError(t, err)
	_, err = e.Collect(session, "oxygen_saturation", 60) // critical (< 0.7*95)
	require.NoError(t, err)
	_, err = e.Collect(session, "respiratory_rate", 16) // normal
	require.NoError(t, err)

	score, err := e.Score(session)
	require.NoError(t, err)
	// 100*2/4 - 20*1/4 - 50*1/4 = 50 - 5 - 12.5 = 32.5
	assert.InDelta(t, 32.5, score.Score, 0.001)
	assert.Equal(t, "Critical", score.Grade)
	assert.Equal(t, 1, score.AbnormalVitals)
	assert.Equal(t, 1, score.CriticalVitals)
}

func TestScoreFloorsAtZero(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	// All critical: 0 - 0 - 50 = -50 → floored to 0.
	_, err := e.Collect(session, "oxygen_saturation", 50)
	require.NoError(t, err)
	_, err = e.Collect(session, "heart_rate", 30)
	require.NoError(t, err)

	score, err := e.Score(session)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.Score)
	assert.Equal(t, "Critical", score.Grade)
}

func TestScoreMonotonicInCriticalCount(t *testing.T) {
	e := testEvaluator()

	// Build sessions with a fixed number of normals and an increasing
	// count of criticals; the score must never increase.
	criticalIDs := []string{"oxygen_saturation", "heart_rate", "blood_glucose", "respiratory_rate"}
	criticalValues := map[string]float64{
		"oxygen_saturation": 50,
		"heart_rate":        30,
		"blood_glucose":     20,
		"respiratory_rate":  5,
	}
	normalIDs := []string{"hemoglobin", "platelets", "body_temperature"}
	normalValues := map[string]float64{
		"hemoglobin":       14,
		"platelets":        300000,
		"body_temperature": 36.8,
	}

	prev := 101.0
	for crit := 0; crit <= len(criticalIDs); crit++ {
		session := NewSession("P1")
		for _, id := range normalIDs {
			_, err := e.Collect(session, id, normalValues[id])
			require.NoError(t, err)
		}
		for _, id := range criticalIDs[:crit] {
			_, err := e.Collect(session, id, criticalValues[id])
			require.NoError(t, err)
		}
		score, err := e.Score(session)
		require.NoError(t, err)
		assert.LessOrEqual(t, score.Score, prev, "criticals=%d", crit)
		prev = score.Score
	}
}

func TestScoreGradeThresholds(t *testing.T) {
	e := testEvaluator()

	// 10 vitals, all normal → 100, Excellent.
	session := NewSession("P1")
	ids := []string{"heart_rate", "pulse_rate", "blood_glucose", "hemoglobin", "platelets",
		"body_temperature", "respiratory_rate", "oxygen_saturation", "muscle_mass", "bone_density"}
	values := map[string]float64{
		"heart_rate": 72, "pulse_rate": 72, "blood_glucose": 100, "hemoglobin": 14,
		"platelets": 300000, "body_temperature": 36.8, "respiratory_rate": 16,
		"oxygen_saturation": 98, "muscle_mass": 35, "bone_density": 1.0,
	}
	for _, id := range ids {
		_, err := e.Collect(session, id, values[id])
		require.NoError(t, err)
	}
	score, err := e.Score(session)
	require.NoError(t, err)
	assert.Equal(t, "Excellent", score.Grade)

	// Swap one normal for a high reading: 9/10 normal, 1 abnormal →
	// 90 - 2 = 88 → Good.
	_, err = e.Collect(session, "blood_glucose", 150)
	require.NoError(t, err)
	score, err = e.Score(session)
	require.NoError(t, err)
	assert.InDelta(t, 88.0, score.Score, 0.001)
	assert.Equal(t, "Good", score.Grade)
}

func TestSummarize(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, "heart_rate", 72) // cardiovascular normal
	require.NoError(t, err)
	_, err = e.Collect(session, "blood_glucose", 150) // metabolic high
	require.NoError(t, err)
	_, err = e.Collect(session, "oxygen_saturation", 50) // respiratory critical
	require.NoError(t, err)

	summary := e.Summarize(session)

	assert.Equal(t, 3, summary.TotalVitals)
	assert.Equal(t, 1, summary.Categories[CategoryCardiovascular])
	assert.Equal(t, 1, summary.Categories[CategoryMetabolic])
	assert.Equal(t, 1, summary.Categories[CategoryRespiratory])
	assert.Equal(t, 1, summary.StatusCounts[StatusNormal])
	assert.Equal(t, 1, summary.StatusCounts[StatusHigh])
	assert.Equal(t, 1, summary.StatusCounts[StatusCritical])
	require.Len(t, summary.CriticalVitals, 1)
	assert.Equal(t, "oxygen_saturation", summary.CriticalVitals[0].DefinitionID)
	require.Len(t, summary.AbnormalVitals, 1)
	assert.Equal(t, "blood_glucose", summary.AbnormalVitals[0].DefinitionID)
}

func TestSessionClearAndValues(t *testing.T) {
	e := testEvaluator()
	session := NewSession("P1")

	_, err := e.Collect(session, "heart_rate", 72)
	require.NoError(t, err)

	values := session.Values()
	assert.Equal(t, map[string]float64{"heart_rate": 72}, values)

	session.Clear()
	assert.Equal(t, 0, session.Len())
	assert.Empty(t, session.Values())
}

func TestRegistryCatalog(t *testing.T) {
	reg := NewRegistry()

	all := reg.All()
	assert.Len(t, all, 28)
	assert.True(t, reg.Has("heart_rate"))
	assert.False(t, reg.Has("unknown"))

	byCat := reg.ByCategory()
	assert.Len(t, byCat[CategoryCardiovascular], 6)
	assert.Len(t, byCat[CategoryHematology], 4)

	for _, def := range all {
		assert.Less(t, def.Min, def.Max, "definition %s", def.ID)
		assert.NotEmpty(t, def.Unit, "definition %s", def.ID)
	}
}
