package snapshots

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/catalogsnap/export"
)

// APIServer exposes archived snapshots over HTTP, read-only.
type APIServer struct {
	store *Store
}

// NewAPIServer creates a new API server backed by store.
func NewAPIServer(store *Store) *APIServer {
	return &APIServer{store: store}
}

// SetupRouter configures the Gin router with the snapshot routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1/snapshots")
	api.GET("", s.HandleListSnapshots)
	api.GET("/:id", s.HandleGetSnapshot)
	api.GET("/:id/records.csv", s.HandleExportSnapshot)

	return router
}

// ListSnapshotsResponse is the body of GET /api/v1/snapshots.
type ListSnapshotsResponse struct {
	Snapshots []Snapshot `json:"snapshots"`
	Total     int        `json:"total"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// HandleListSnapshots handles GET /api/v1/snapshots.
func (s *APIServer) HandleListSnapshots(c *gin.Context) {
	snapshots, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to list snapshots: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, ListSnapshotsResponse{
		Snapshots: snapshots,
		Total:     len(snapshots),
	})
}

// HandleGetSnapshot handles GET /api/v1/snapshots/:id.
func (s *APIServer) HandleGetSnapshot(c *gin.Context) {
	snapshot, ok := s.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// HandleExportSnapshot handles GET /api/v1/snapshots/:id/records.csv.
func (s *APIServer) HandleExportSnapshot(c *gin.Context) {
	snapshot, ok := s.lookup(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTable(&buf, snapshot.Records); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to render table: "+err.Error()))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+snapshot.SnapshotID.String()+".csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// lookup resolves the :id parameter, writing the error response itself when
// the snapshot cannot be returned.
func (s *APIServer) lookup(c *gin.Context) (*Snapshot, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_id", "Invalid snapshot ID format"))
		return nil, false
	}

	snapshot, err := s.store.Get(id)
	if errors.Is(err, ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("not_found", "Snapshot not found"))
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to get snapshot: "+err.Error()))
		return nil, false
	}

	return snapshot, true
}
