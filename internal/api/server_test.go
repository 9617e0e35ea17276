package api_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api"
	"github.com/MertalpTasdelen/yeninesilevim/internal/application/report"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/config"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

func testDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServerWithReports(t *testing.T) *httptest.Server {
	t.Helper()

	repo := storage.NewMockRepository()
	cfg := &config.Config{}
	service := report.NewService(cfg, repo, testDiscardLogger())

	server := api.NewServer(api.DefaultConfig(), repo, service, nil)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return ts
}

// TestServer_ReportRoutes tests that the report routes are registered
// when a report service is provided. Request validation runs before any
// partner API call, so these never leave the process.
func TestServer_ReportRoutes(t *testing.T) {
	ts := newServerWithReports(t)

	t.Run("start job rejects malformed body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/reports", "application/json", strings.NewReader("{nope"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("start job rejects bad dates", func(t *testing.T) {
		body := `{"start":"01.01.2024","end":"2024-02-14"}`
		resp, err := http.Post(ts.URL+"/api/reports", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("sync report requires date range", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/reports/profit")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown job returns 404", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/reports/no-such-job")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("cancel of unknown job conflicts", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/reports/no-such-job", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("job list is empty", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/reports")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
