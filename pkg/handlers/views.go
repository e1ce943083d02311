package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/services"
)

// CreateViewRequest for POST /api/workspaces/{wid}/views
type CreateViewRequest struct {
	Name        string              `json:"name"`
	CombineMode models.CombineMode  `json:"combine_mode"`
	Columns     []models.ViewColumn `json:"columns"`
	JoinConfig  *models.JoinConfig  `json:"join_config,omitempty"`
}

// ViewHandler handles view CRUD HTTP requests.
type ViewHandler struct {
	workspaces services.WorkspaceService
	logger     *zap.Logger
}

// NewViewHandler creates a new view handler.
func NewViewHandler(workspaces services.WorkspaceService, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{workspaces: workspaces, logger: logger}
}

// RegisterRoutes registers the view handler's routes on the given mux.
func (h *ViewHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/workspaces/{wid}/views", h.Create)
	mux.HandleFunc("DELETE /api/workspaces/{wid}/views/{vid}", h.Delete)
}

// Create handles POST /api/workspaces/{wid}/views
func (h *ViewHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	view := &models.View{
		Name:        req.Name,
		CombineMode: req.CombineMode,
		Columns:     req.Columns,
		JoinConfig:  req.JoinConfig,
	}

	created, err := h.workspaces.CreateView(workspaceID, view)
	if err != nil {
		h.logger.Error("Failed to create view",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("name", req.Name),
			zap.Error(err))
		writeServiceError(w, err, "create_view_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: created}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/workspaces/{wid}/views/{vid}
func (h *ViewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	viewID, ok := ParseViewID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.workspaces.DeleteView(workspaceID, viewID); err != nil {
		writeServiceError(w, err, "delete_view_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
