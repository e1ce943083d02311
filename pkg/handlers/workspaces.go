package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/services"
)

// CreateWorkspaceRequest for POST /api/workspaces
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// WorkspaceSummary is the list/detail representation of a workspace. It
// carries counts instead of full records so listings stay small.
type WorkspaceSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DatasetCount int    `json:"dataset_count"`
	ViewCount    int    `json:"view_count"`
	TotalRows    int    `json:"total_rows"`
}

// WorkspaceListResponse for GET /api/workspaces
type WorkspaceListResponse struct {
	Workspaces []WorkspaceSummary `json:"workspaces"`
	Total      int                `json:"total"`
}

// WorkspaceHandler handles workspace lifecycle HTTP requests.
type WorkspaceHandler struct {
	workspaces services.WorkspaceService
	logger     *zap.Logger
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(workspaces services.WorkspaceService, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, logger: logger}
}

// RegisterRoutes registers the workspace handler's routes on the given mux.
func (h *WorkspaceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/workspaces", h.Create)
	mux.HandleFunc("GET /api/workspaces", h.List)
	mux.HandleFunc("GET /api/workspaces/{wid}", h.Get)
	mux.HandleFunc("DELETE /api/workspaces/{wid}", h.Delete)
}

// Create handles POST /api/workspaces
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Workspace name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	ws := h.workspaces.Create(strings.TrimSpace(req.Name))

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: summarize(ws)}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.workspaces.List()
	summaries := make([]WorkspaceSummary, len(all))
	for i, ws := range all {
		summaries[i] = summarize(ws)
	}

	response := WorkspaceListResponse{Workspaces: summaries, Total: len(summaries)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/workspaces/{wid}
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(workspaceID)
	if err != nil {
		writeServiceError(w, err, "get_workspace_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: ws}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/workspaces/{wid}
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.workspaces.Delete(workspaceID); err != nil {
		writeServiceError(w, err, "delete_workspace_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func summarize(ws *models.Workspace) WorkspaceSummary {
	total := 0
	for _, ds := range ws.Datasets {
		total += ds.RowCount
	}
	return WorkspaceSummary{
		ID:           ws.ID.String(),
		Name:         ws.Name,
		DatasetCount: len(ws.Datasets),
		ViewCount:    len(ws.Views),
		TotalRows:    total,
	}
}
