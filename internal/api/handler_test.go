package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energia_assistant/internal/collector"
	"energia_assistant/internal/domain"
	"energia_assistant/internal/repository"
	"energia_assistant/internal/service"
	"energia_assistant/internal/telemetry"
)

const payload = `{
	"plant_id": "PLANT-001",
	"inverter_sn": "SN1",
	"date": "2025-10-01",
	"data": [
		{"time": "2025-10-01T08:00:00-03:00", "Pac": 0.85, "Eday": 0.85, "Cbattery1": 64},
		{"time": "2025-10-01T16:00:00-03:00", "Pac": 2.22, "Eday": 3.89, "Cbattery1": 68}
	]
}`

func newTestService(t *testing.T, body string, collectorURL string) *service.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mock_today.json")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return service.NewService(telemetry.NewFileSource(path), collector.NewClient(collectorURL, 0))
}

func serve(r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetToday(t *testing.T) {
	r := NewRouter()
	SetupRoutes(r, newTestService(t, payload, "http://127.0.0.1:1"))

	w := serve(r, http.MethodGet, "/api/today", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Resumo map[string]interface{} `json:"resumo"`
		KPIs   []domain.KPI           `json:"kpis"`
		Series struct {
			Rows []map[string]interface{} `json:"rows"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3.89, body.Resumo["energia_dia"])
	assert.Equal(t, "SN1", body.Resumo["equipamento"])
	assert.Len(t, body.Series.Rows, 2)
	assert.Equal(t, "2025-10-01T11:00:00Z", body.Series.Rows[0]["time"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestGetTodayMissingSource(t *testing.T) {
	r := NewRouter()
	SetupRoutes(r, newTestService(t, "", "http://127.0.0.1:1"))

	w := serve(r, http.MethodGet, "/api/today", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{}, body["resumo"])
	assert.NotEmpty(t, body["warning"])
}

func TestAnalyze(t *testing.T) {
	r := NewRouter()
	SetupRoutes(r, newTestService(t, "", "http://127.0.0.1:1"))

	w := serve(r, http.MethodPost, "/api/analyze", `{"data": [{"Pac": 0.85}, {"Pac": 1.5}, {"Pac": 2.22}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pico_potencia":2.22`)

	w = serve(r, http.MethodPost, "/api/analyze", `{"data": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEndToEnd(t *testing.T) {
	store := repository.NewMemoryStore(10)
	collectorRouter := NewRouter()
	SetupCollectorRoutes(collectorRouter, store)
	collectorSrv := httptest.NewServer(collectorRouter)
	defer collectorSrv.Close()

	r := NewRouter()
	SetupRoutes(r, newTestService(t, payload, collectorSrv.URL))

	w := serve(r, http.MethodPost, "/api/send", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Dados recebidos com sucesso")

	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SN1", records[0].InverterSN)
	assert.Equal(t, 3.89, records[0].EnergiaTotal)
	assert.NotEmpty(t, records[0].ID)
}

func TestSendCollectorDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	r := NewRouter()
	SetupRoutes(r, newTestService(t, payload, down.URL))

	w := serve(r, http.MethodPost, "/api/send", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"status_code":500`)
}

func TestSendNoData(t *testing.T) {
	r := NewRouter()
	SetupRoutes(r, newTestService(t, "", "http://127.0.0.1:1"))

	w := serve(r, http.MethodPost, "/api/send", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}
