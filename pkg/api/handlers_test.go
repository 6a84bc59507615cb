package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ssargent/cartsave/pkg/archive"
	"github.com/ssargent/cartsave/pkg/save"
	"github.com/ssargent/cartsave/pkg/sector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

func blankImage() []byte {
	return sector.Format(sector.Gen3Layout(), true)
}

func corruptImage() []byte {
	l := sector.Gen3Layout()
	image := blankImage()
	image[5*l.SectorSize+3] = 0x99
	return image
}

func setupTestServer(t *testing.T, config ServerConfig, withArchive bool) (*Server, http.Handler) {
	t.Helper()
	if config.APIKey == "" {
		config.APIKey = testKey
	}

	var a IArchive
	if withArchive {
		opened, err := archive.Open(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { opened.Close() })
		a = opened
	}

	server := NewServer(a, config, NewMetrics())
	return server, NewRouter(server)
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("X-API-Key", testKey)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	resp := APIResponse{Data: data}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestServer_Health(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{}, false)

	w := do(t, h, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]interface{}
	resp := decode(t, w, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, false, data["archive"])
}

func TestServer_RequiresAPIKey(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{}, false)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_Inspect(t *testing.T) {
	server, h := setupTestServer(t, ServerConfig{}, false)

	w := do(t, h, "POST", "/api/v1/images/inspect", blankImage())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report save.Report
	resp := decode(t, w, &report)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, report.Generation)
	assert.True(t, strings.HasPrefix(report.Format, "gen3-"))
	assert.True(t, report.Valid)
	assert.Empty(t, report.Failures)
	assert.Len(t, report.Slots, 2)
	assert.Len(t, report.BoxNames, save.BoxCount)

	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.imagesProcessedTotal.WithLabelValues(report.Format, statusValid)))
}

func TestServer_InspectCorrupt(t *testing.T) {
	server, h := setupTestServer(t, ServerConfig{}, false)

	w := do(t, h, "POST", "/api/v1/images/inspect", corruptImage())
	require.Equal(t, http.StatusOK, w.Code)

	var report save.Report
	decode(t, w, &report)
	assert.False(t, report.Valid)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 5, report.Failures[0].Sector)

	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.checksumFailuresTotal.WithLabelValues(report.Format)))
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.imagesProcessedTotal.WithLabelValues(report.Format, statusCorrupt)))
}

func TestServer_InspectRefuseCorrupt(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{Save: save.Options{RefuseCorrupt: true}}, false)

	w := do(t, h, "POST", "/api/v1/images/inspect", corruptImage())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_InspectErrors(t *testing.T) {
	testCases := []struct {
		name   string
		config ServerConfig
		path   string
		body   []byte
		status int
	}{
		{name: "unrecognized size", path: "/api/v1/images/inspect", body: make([]byte, 100), status: http.StatusUnprocessableEntity},
		{name: "empty body", path: "/api/v1/images/inspect", body: nil, status: http.StatusBadRequest},
		{name: "too large", config: ServerConfig{MaxImageSize: 16}, path: "/api/v1/images/inspect", body: make([]byte, 100), status: http.StatusRequestEntityTooLarge},
		{name: "bad region", path: "/api/v1/images/inspect?region=europe", body: blankImage(), status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, h := setupTestServer(t, tc.config, false)
			w := do(t, h, "POST", tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)

			resp := decode(t, w, nil)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_RepairWithBackup(t *testing.T) {
	server, h := setupTestServer(t, ServerConfig{BackupOnWrite: true}, true)
	original := corruptImage()

	w := do(t, h, "POST", "/api/v1/images/repair?name=emerald.sav", original)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get("X-Cartsave-Repaired"))
	backupID := w.Header().Get("X-Cartsave-Backup-ID")
	require.NotEmpty(t, backupID)

	repaired, err := save.Open(w.Body.Bytes(), save.Options{RefuseCorrupt: true})
	require.NoError(t, err)
	assert.Empty(t, repaired.Validate())

	// The archived copy is the untouched original.
	w = do(t, h, "GET", "/api/v1/backups/"+backupID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, original, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "emerald.sav")

	w = do(t, h, "GET", "/api/v1/backups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []archive.Meta
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, backupID, list[0].ID)
	assert.Equal(t, 1, list[0].Failures)
	assert.Equal(t, "api", list[0].Source)
	assert.Equal(t, len(original), list[0].Size)

	w = do(t, h, "DELETE", "/api/v1/backups/"+backupID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/api/v1/backups/"+backupID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, "DELETE", "/api/v1/backups/"+backupID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.backupsTotal.WithLabelValues("put", "success")))
}

func TestServer_RepairJSON(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{Save: save.Options{RefuseCorrupt: true}}, false)

	w := do(t, h, "POST", "/api/v1/images/repair?format=json", corruptImage())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result RepairResult
	resp := decode(t, w, &result)
	assert.True(t, resp.Success)
	require.Len(t, result.Repaired, 1)
	assert.Equal(t, sector.RegionStorage, result.Repaired[0].Name)
	assert.Empty(t, result.BackupID)
}

func TestServer_BackupsWithoutArchive(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{}, false)

	for _, req := range []struct{ method, path string }{
		{"GET", "/api/v1/backups"},
		{"GET", "/api/v1/backups/abc"},
		{"DELETE", "/api/v1/backups/abc"},
	} {
		w := do(t, h, req.method, req.path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, req.path)
	}
}

func TestServer_BackupBadID(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{}, true)

	w := do(t, h, "GET", "/api/v1/backups/not-a-ksuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "GET", "/api/v1/backups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []archive.Meta
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{}, false)
	do(t, h, "POST", "/api/v1/images/inspect", blankImage())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "cartsave_http_requests_total")
	assert.Contains(t, body, "cartsave_images_processed_total")
	assert.Contains(t, body, `endpoint="/api/v1/images/inspect"`)
}

func TestServer_Swagger(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{}, false)

	req := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/images/inspect")
	assert.Contains(t, paths, "/backups/{id}")

	req = httptest.NewRequest("GET", "/swagger/index.html", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	req = httptest.NewRequest("GET", "/swagger/missing", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewServer_DefaultMetrics(t *testing.T) {
	server := NewServer(nil, ServerConfig{Port: 8080}, nil)
	require.NotNil(t, server.metrics)
	assert.Equal(t, 8080, server.config.Port)
	assert.Nil(t, server.archive)
}
