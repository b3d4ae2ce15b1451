package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alcyxob/coach-dashboard/internal/service"
	"alcyxob/coach-dashboard/internal/snapshot"
)

const contentTypeBSON = "application/bson"

// SnapshotHandler exports and restores the registry contents.
type SnapshotHandler struct {
	registry service.Registry
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(registry service.Registry) *SnapshotHandler {
	return &SnapshotHandler{registry: registry}
}

// Export writes the registry as JSON, or BSON when the client accepts application/bson.
func (h *SnapshotHandler) Export(c *gin.Context) {
	snap, err := h.registry.Snapshot(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to export snapshot.")
		return
	}

	if strings.Contains(c.GetHeader("Accept"), contentTypeBSON) {
		data, err := snapshot.EncodeBSON(snap)
		if err != nil {
			abortWithServiceError(c, err, "Failed to encode snapshot.")
			return
		}
		c.Data(http.StatusOK, contentTypeBSON, data)
		return
	}

	var buf bytes.Buffer
	if err := snapshot.EncodeJSON(&buf, snap); err != nil {
		abortWithServiceError(c, err, "Failed to encode snapshot.")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// Restore replaces the registry contents with the uploaded snapshot.
func (h *SnapshotHandler) Restore(c *gin.Context) {
	var (
		snap snapshot.Snapshot
		err  error
	)
	if c.ContentType() == contentTypeBSON {
		var data []byte
		data, err = io.ReadAll(c.Request.Body)
		if err == nil {
			snap, err = snapshot.DecodeBSON(data)
		}
	} else {
		snap, err = snapshot.DecodeJSON(c.Request.Body)
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid snapshot: "+err.Error())
		return
	}

	if err := h.registry.Restore(c.Request.Context(), snap); err != nil {
		abortWithServiceError(c, err, "Failed to restore snapshot.")
		return
	}
	c.Status(http.StatusNoContent)
}
