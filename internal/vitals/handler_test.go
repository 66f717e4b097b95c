package vitals

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*Handler, func()) {
	client, cleanup := setupTestRedis(t)
	store := NewSessionStore(client, time.Hour)
	h := NewHandler(testEvaluator(), store, nil)
	return h, cleanup
}

func TestHandlerListDefinitions(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/definitions", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var defs []Definition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defs))
	assert.Len(t, defs, 28)
}

func TestHandlerCollectAndScore(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()
	router := h.Routes()

	body, _ := json.Marshal(CollectRequest{Values: map[string]float64{
		"heart_rate":               72,
		"height":                   175,
		"weight":                   70,
		"blood_pressure_systolic":  120,
		"blood_pressure_diastolic": 80,
	}})
	req := httptest.NewRequest(http.MethodPost, "/patients/P1/vitals", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CollectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Collected, 5)
	assert.Len(t, resp.Derived, 3)
	assert.Empty(t, resp.Rejected)

	req = httptest.NewRequest(http.MethodGet, "/patients/P1/vitals/score", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var score HealthScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 8, score.TotalVitals)
	assert.Equal(t, "Excellent", score.Grade)
}

func TestHandlerCollectRejectsBadValues(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()

	body, _ := json.Marshal(CollectRequest{Values: map[string]float64{
		"heart_rate":  1000,
		"bogus_vital": 5,
	}})
	req := httptest.NewRequest(http.MethodPost, "/patients/P1/vitals", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CollectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Collected)
	assert.Len(t, resp.Rejected, 2)
}

func TestHandlerCollectEmptyBody(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/patients/P1/vitals", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerScoreWithoutVitals(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/patients/P1/vitals/score", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerCurrentValues(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()
	router := h.Routes()

	body, _ := json.Marshal(CollectRequest{Values: map[string]float64{"heart_rate": 72}})
	req := httptest.NewRequest(http.MethodPost, "/patients/P1/vitals", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/patients/P1/vitals", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var values map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &values))
	assert.Equal(t, map[string]float64{"heart_rate": 72}, values)
}

func TestHandlerExportCSV(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()
	router := h.Routes()

	body, _ := json.Marshal(CollectRequest{Values: map[string]float64{"heart_rate": 72}})
	req := httptest.NewRequest(http.MethodPost, "/patients/P1/vitals", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/patients/P1/vitals/export?format=csv", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "heart_rate")
}

func TestHandlerExportUnsupportedFormat(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/patients/P1/vitals/export?format=xml", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerClearSession(t *testing.T) {
	h, cleanup := setupHandler(t)
	defer cleanup()
	router := h.Routes()

	body, _ := json.Marshal(CollectRequest{Values: map[string]float64{"heart_rate": 72}})
	req := httptest.NewRequest(http.MethodPost, "/patients/P1/vitals", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/patients/P1/vitals", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/patients/P1/vitals", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}\n", rec.Body.String())
}
