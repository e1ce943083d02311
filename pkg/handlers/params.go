package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// ParseWorkspaceID extracts and validates the workspace ID from the request
// path. Returns the parsed UUID and true on success, or uuid.Nil and false
// on error (after writing an error response).
// Expects path parameter: wid
func ParseWorkspaceID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "wid", "invalid_workspace_id", "Invalid workspace ID format", logger)
}

// ParseDatasetID extracts and validates the dataset ID from the request path.
// Expects path parameter: did
func ParseDatasetID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "did", "invalid_dataset_id", "Invalid dataset ID format", logger)
}

// ParseViewID extracts and validates the view ID from the request path.
// Expects path parameter: vid
func ParseViewID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "vid", "invalid_view_id", "Invalid view ID format", logger)
}

// ParseSourceRef extracts the source type and source ID from the request
// path. Expects path parameters: stype, sid
func ParseSourceRef(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (models.SourceType, uuid.UUID, bool) {
	sourceType := models.SourceType(r.PathValue("stype"))
	if !models.IsValidSourceType(sourceType) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_source_type", "Source type must be dataset or view"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", uuid.Nil, false
	}
	sourceID, ok := parseUUID(w, r, "sid", "invalid_source_id", "Invalid source ID format", logger)
	if !ok {
		return "", uuid.Nil, false
	}
	return sourceType, sourceID, true
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue(pathParam)
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
