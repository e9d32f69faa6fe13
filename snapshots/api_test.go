package snapshots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/catalogsnap/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Test helper: create a test router over a fresh store
func setupTestRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	store := createTestStore(t)
	return NewAPIServer(store).SetupRouter(), store
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHandleListSnapshots verifies the list body
func TestHandleListSnapshots(t *testing.T) {
	router, store := setupTestRouter(t)
	_, err := store.Save("https://example.com", testRecords())
	require.NoError(t, err)

	w := doGet(router, "/api/v1/snapshots")

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListSnapshotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Snapshots, 1)
	assert.Equal(t, 2, resp.Snapshots[0].RecordCount)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// TestHandleListSnapshots_Empty verifies an empty archive
func TestHandleListSnapshots_Empty(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doGet(router, "/api/v1/snapshots")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"snapshots": [], "total": 0}`, w.Body.String())
}

// TestHandleGetSnapshot verifies the snapshot with its records
func TestHandleGetSnapshot(t *testing.T) {
	router, store := setupTestRouter(t)
	saved, err := store.Save("https://example.com", testRecords())
	require.NoError(t, err)

	w := doGet(router, "/api/v1/snapshots/"+saved.SnapshotID.String())

	require.Equal(t, http.StatusOK, w.Code)
	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, saved.SnapshotID, snapshot.SnapshotID)
	assert.Equal(t, testRecords(), snapshot.Records)
}

// TestHandleGetSnapshot_Errors verifies 400 and 404 responses
func TestHandleGetSnapshot_Errors(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "invalid id", path: "/api/v1/snapshots/not-a-uuid", status: http.StatusBadRequest, code: "invalid_id"},
		{name: "unknown id", path: "/api/v1/snapshots/" + uuid.New().String(), status: http.StatusNotFound, code: "not_found"},
		{name: "unknown id csv", path: "/api/v1/snapshots/" + uuid.New().String() + "/records.csv", status: http.StatusNotFound, code: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, tt.path)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"]["code"])
		})
	}
}

// TestHandleExportSnapshot verifies the CSV export matches the table format
func TestHandleExportSnapshot(t *testing.T) {
	router, store := setupTestRouter(t)
	saved, err := store.Save("https://example.com", testRecords())
	require.NoError(t, err)

	w := doGet(router, "/api/v1/snapshots/"+saved.SnapshotID.String()+"/records.csv")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), saved.SnapshotID.String()+".csv")

	records, err := export.ReadTable(w.Body)
	require.NoError(t, err)
	assert.Equal(t, testRecords(), records)
}

// TestOptionsPreflight verifies CORS preflight short-circuits
func TestOptionsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/snapshots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
