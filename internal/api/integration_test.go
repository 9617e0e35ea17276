package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api"
	"github.com/MertalpTasdelen/yeninesilevim/internal/api/dto"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

// These tests run the full stack against a real SQLite database:
// HTTP request → router → handlers → storage. The report service is nil,
// so the report routes are absent; the report pipeline has its own tests
// against a fake finance client.

func createTestServer(t *testing.T) (*httptest.Server, *storage.Storage) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api_integration.db")
	store, err := storage.NewStorage(dbPath)
	require.NoError(t, err)

	server := api.NewServer(api.DefaultConfig(), store, nil, nil)
	ts := httptest.NewServer(server.Router())

	t.Cleanup(func() {
		ts.Close()
		_ = store.Close()
	})

	return ts, store
}

func TestAPI_Integration_HealthCheck(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

func TestAPI_Integration_ProductRoundTrip(t *testing.T) {
	ts, _ := createTestServer(t)

	// Upsert through the API
	body := []byte(`{"barcode":"B1","name":"Çaydanlık","purchase_price":"40.00","sale_price":"99.90","stock":5}`)
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/products", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Read it back
	resp, err = http.Get(ts.URL + "/api/products/B1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product dto.ProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	assert.Equal(t, "Çaydanlık", product.Name)
	assert.True(t, decimal.RequireFromString("40.00").Equal(product.PurchasePrice))
	assert.Equal(t, 5, product.Stock)

	// And in the list
	resp, err = http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	var list dto.ProductListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 1, list.TotalCount)
}

func TestAPI_Integration_ProductNotFound(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, err := http.Get(ts.URL + "/api/products/missing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var apiErr dto.APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Equal(t, dto.ErrCodeNotFound, apiErr.Code)
}

func TestAPI_Integration_RunHistory(t *testing.T) {
	ts, store := createTestServer(t)

	// Seed a run directly through storage; the report routes are off.
	start := mustDate(t, "2024-01-01")
	runID, err := store.StartReportRun(start, mustDate(t, "2024-02-14"), false)
	require.NoError(t, err)
	require.NoError(t, store.CompleteReportRun(runID, storage.RunSummary{
		SaleCount:      3,
		OrderCount:     2,
		TotalNetProfit: decimal.RequireFromString("150.00"),
	}))

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.ReportRunListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "2024-01-01", list.Runs[0].StartDate)

	resp, err = http.Get(ts.URL + "/api/runs/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run dto.ReportRunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, 3, run.SaleCount)
	assert.True(t, decimal.RequireFromString("150.00").Equal(run.TotalNetProfit))
	assert.NotNil(t, run.CompletedAt)
}

func TestAPI_Integration_ReportRoutesDisabled(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, err := http.Get(ts.URL + "/api/reports")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}
