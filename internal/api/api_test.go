package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/lotpilot/internal/logger/loggertest"
	"github.com/ajharbinger/lotpilot/internal/repository"
	"github.com/ajharbinger/lotpilot/internal/services"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := services.NewServices(repository.NewMemoryRepositories(), loggertest.New(t), services.Options{
		ReanalysisWorkers: 2,
	})
	router := gin.New()
	SetupRoutes(router, svc, nil)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func camryBody() map[string]interface{} {
	return map[string]interface{}{
		"year":              2022,
		"make":              "Toyota",
		"model":             "Camry",
		"trim":              "SE",
		"mileage":           31000,
		"ext_color":         "Silver",
		"int_color":         "Black",
		"acquisition_cost":  18000,
		"recon_cost":        800,
		"list_price":        22500,
		"comp_low":          21000,
		"comp_high":         24000,
		"competing_units":   14,
		"days_in_inventory": 50,
		"views_30":          300,
		"views_7":           60,
		"leads_30":          10,
		"leads_7":           2,
		"test_drives_30":    2,
	}
}

func createVehicle(t *testing.T, router *gin.Engine, body map[string]interface{}) string {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/vehicles", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vehicle := decode(t, w)["vehicle"].(map[string]interface{})
	return vehicle["id"].(string)
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, Version, resp["version"])
	assert.Len(t, resp["features"], 3)
	assert.Contains(t, resp, "timestamp")
}

func TestHealthStorageCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(func() error { return assert.AnError }, nil).GetHealth)

	w := doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	assert.Equal(t, "unavailable", resp["storage"])

	router = gin.New()
	router.GET("/health", NewHealthHandler(func() error { return nil }, nil).GetHealth)
	w = doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["storage"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVehicleLifecycle(t *testing.T) {
	router := setupRouter(t)

	id := createVehicle(t, router, camryBody())

	w := doRequest(t, router, http.MethodGet, "/api/v1/vehicles/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	vehicle := decode(t, w)["vehicle"].(map[string]interface{})
	assert.Equal(t, 7.25, vehicle["floorplan_rate"])
	assert.Equal(t, 2000.0, vehicle["min_gross"])
	assert.Equal(t, "moderate", vehicle["demand_signal"])
	assert.Equal(t, "active", vehicle["status"])

	update := camryBody()
	update["list_price"] = 21900
	update["status"] = "sold"
	w = doRequest(t, router, http.MethodPut, "/api/v1/vehicles/"+id, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Vehicle updated", resp["message"])
	assert.Equal(t, 21900.0, resp["vehicle"].(map[string]interface{})["list_price"])

	createVehicle(t, router, camryBody())

	w = doRequest(t, router, http.MethodGet, "/api/v1/vehicles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decode(t, w)["count"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/vehicles?status=sold", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = doRequest(t, router, http.MethodDelete, "/api/v1/vehicles/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Vehicle deleted", decode(t, w)["message"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/vehicles/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}

func TestVehicleErrors(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing make", http.MethodPost, "/api/v1/vehicles", map[string]interface{}{"year": 2020, "model": "X", "acquisition_cost": 1, "list_price": 2}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero list price", http.MethodPost, "/api/v1/vehicles", map[string]interface{}{"year": 2020, "make": "Kia", "model": "Soul", "acquisition_cost": 1, "list_price": 0}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"inverted comps", http.MethodPost, "/api/v1/vehicles", map[string]interface{}{"year": 2020, "make": "Kia", "model": "Soul", "acquisition_cost": 1, "list_price": 2, "comp_low": 5, "comp_high": 4}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad demand", http.MethodPost, "/api/v1/vehicles", map[string]interface{}{"year": 2020, "make": "Kia", "model": "Soul", "acquisition_cost": 1, "list_price": 2, "demand_signal": "hot"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid id", http.MethodGet, "/api/v1/vehicles/abc", nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown id", http.MethodGet, "/api/v1/vehicles/" + uuid.NewString(), nil, http.StatusNotFound, "NOT_FOUND"},
		{"update unknown", http.MethodPut, "/api/v1/vehicles/" + uuid.NewString(), camryBody(), http.StatusNotFound, "NOT_FOUND"},
		{"delete unknown", http.MethodDelete, "/api/v1/vehicles/" + uuid.NewString(), nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad status filter", http.MethodGet, "/api/v1/vehicles?status=pending", nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad limit", http.MethodGet, "/api/v1/vehicles?limit=-1", nil, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode(t, w)["code"])
		})
	}
}

func TestAnalyzeAndReports(t *testing.T) {
	router := setupRouter(t)
	id := createVehicle(t, router, camryBody())

	w := doRequest(t, router, http.MethodPost, "/api/v1/vehicles/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Analysis complete", resp["message"])
	report := resp["report"].(map[string]interface{})
	assert.Equal(t, id, report["vehicle_id"])
	assert.Equal(t, "2022 Toyota Camry SE", report["vehicle_title"])
	analysis := report["analysis"].(map[string]interface{})
	assert.Equal(t, "HOLD", analysis["pricing"].(map[string]interface{})["action"])
	reportID := report["id"].(string)

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/"+reportID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reportID, decode(t, w)["report"].(map[string]interface{})["id"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports?price_action=hold&vehicle_id="+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports?exit_path=wholesale", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["count"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports?vehicle_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/vehicles/"+uuid.NewString()+"/analyze", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "vehicle not found", decode(t, w)["error"])
}

func TestAnalyzeDirectDoesNotStore(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/analyze", camryBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)["report"].(map[string]interface{})
	assert.Equal(t, "2022 Toyota Camry SE", report["vehicle_title"])
	assert.Contains(t, report, "id")
	summary := report["analysis"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, "RETAIL", summary["optimal_exit"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["count"])

	w = doRequest(t, router, http.MethodPost, "/api/v1/analyze", map[string]interface{}{"year": 2020})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportReports(t *testing.T) {
	router := setupRouter(t)
	id := createVehicle(t, router, camryBody())
	w := doRequest(t, router, http.MethodPost, "/api/v1/vehicles/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "report_id,vehicle_id,vehicle"))

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/export?aging_zone=at-risk&include_analysis=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 1.0, resp["count"])
	assert.Contains(t, resp, "metadata")
	row := resp["reports"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, row, "analysis")

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	router := setupRouter(t)
	createVehicle(t, router, camryBody())

	w := doRequest(t, router, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode(t, w)["summary"].(map[string]interface{})
	assert.Equal(t, 1.0, summary["total_vehicles"])
	assert.Equal(t, 18800.0, summary["total_invested"])
	assert.Equal(t, 3700.0, summary["total_potential_gross"])
	assert.Equal(t, map[string]interface{}{"healthy": 0.0, "at_risk": 1.0, "danger": 0.0}, summary["aging_breakdown"])
}

func TestReanalysisEndpoints(t *testing.T) {
	router := setupRouter(t)
	createVehicle(t, router, camryBody())
	createVehicle(t, router, camryBody())

	w := doRequest(t, router, http.MethodPost, "/api/v1/inventory/reanalyze", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode(t, w)["stats"].(map[string]interface{})
	assert.Equal(t, 2.0, stats["vehicles_analyzed"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/inventory/reanalyze/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode(t, w)["pipeline_status"].(map[string]interface{})
	assert.Equal(t, false, status["is_running"])
	assert.NotNil(t, status["last_run"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports", nil)
	assert.Equal(t, 2.0, decode(t, w)["count"])
}
