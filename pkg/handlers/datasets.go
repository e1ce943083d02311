package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/adapters/datasource"
	"github.com/dqanalyst/dq-engine/pkg/config"
	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/services"
)

// ImportDatasetRequest for POST /api/workspaces/{wid}/datasets
type ImportDatasetRequest struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Records []models.Record `json:"records"`
}

// ImportFromDatasourceRequest for POST /api/workspaces/{wid}/datasets/import.
// Credentials come from the request body, never from config files.
type ImportFromDatasourceRequest struct {
	Driver   string `json:"driver"`
	Path     string `json:"path,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty"`
	Table    string `json:"table"`
	MaxRows  int    `json:"max_rows,omitempty"`
}

// UpdateRowRequest for PUT /api/workspaces/{wid}/datasets/{did}/rows/{index}
type UpdateRowRequest struct {
	Record models.Record `json:"record"`
}

// DatasetHandler handles dataset import and row-edit HTTP requests.
type DatasetHandler struct {
	workspaces services.WorkspaceService
	cfg        *config.Config
	logger     *zap.Logger
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(workspaces services.WorkspaceService, cfg *config.Config, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{workspaces: workspaces, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the dataset handler's routes on the given mux.
func (h *DatasetHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/workspaces/{wid}/datasets"

	mux.HandleFunc("POST "+base, h.Import)
	mux.HandleFunc("POST "+base+"/import", h.ImportFromDatasource)
	mux.HandleFunc("DELETE "+base+"/{did}", h.Delete)
	mux.HandleFunc("PUT "+base+"/{did}/rows/{index}", h.UpdateRow)
	mux.HandleFunc("DELETE "+base+"/{did}/rows/{index}", h.DeleteRow)
}

// Import handles POST /api/workspaces/{wid}/datasets
func (h *DatasetHandler) Import(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	var req ImportDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	ds, err := h.workspaces.ImportDataset(workspaceID, req.Name, req.Columns, req.Records)
	if err != nil {
		h.logger.Error("Failed to import dataset",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("name", req.Name),
			zap.Error(err))
		writeServiceError(w, err, "import_dataset_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: ds}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ImportFromDatasource handles POST /api/workspaces/{wid}/datasets/import
func (h *DatasetHandler) ImportFromDatasource(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	var req ImportFromDatasourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Table == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Table name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	dsCfg := &datasource.Config{
		Driver:   datasource.Driver(req.Driver),
		Path:     req.Path,
		Host:     req.Host,
		Port:     req.Port,
		User:     req.User,
		Password: req.Password,
		Database: req.Database,
		SSLMode:  req.SSLMode,
	}
	if err := dsCfg.Validate(); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_datasource", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	maxRows := req.MaxRows
	if maxRows <= 0 || maxRows > h.cfg.Ingest.MaxRows {
		maxRows = h.cfg.Ingest.MaxRows
	}

	ds, err := h.workspaces.ImportFromDatasource(r.Context(), workspaceID, dsCfg, req.Table, maxRows)
	if err != nil {
		h.logger.Error("Failed to import from datasource",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("driver", req.Driver),
			zap.String("table", req.Table),
			zap.Error(err))
		writeServiceError(w, err, "datasource_import_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: ds}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/workspaces/{wid}/datasets/{did}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	datasetID, ok := ParseDatasetID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.workspaces.DeleteDataset(workspaceID, datasetID); err != nil {
		writeServiceError(w, err, "delete_dataset_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateRow handles PUT /api/workspaces/{wid}/datasets/{did}/rows/{index}
func (h *DatasetHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	datasetID, ok := ParseDatasetID(w, r, h.logger)
	if !ok {
		return
	}
	rowIndex, ok := parseRowIndex(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.workspaces.UpdateRow(workspaceID, datasetID, rowIndex, req.Record); err != nil {
		writeServiceError(w, err, "update_row_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "updated"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteRow handles DELETE /api/workspaces/{wid}/datasets/{did}/rows/{index}
func (h *DatasetHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	datasetID, ok := ParseDatasetID(w, r, h.logger)
	if !ok {
		return
	}
	rowIndex, ok := parseRowIndex(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.workspaces.DeleteRow(workspaceID, datasetID, rowIndex); err != nil {
		writeServiceError(w, err, "delete_row_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func parseRowIndex(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || idx < 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_row_index", "Row index must be a non-negative integer"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return idx, true
}
