package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/services"
)

// AnalysisHandler exposes the read-only analysis pipeline: materialization,
// profiling, workspace KPIs, relationship discovery, the knowledge graph,
// and hierarchy grouping.
type AnalysisHandler struct {
	analysis services.AnalysisService
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analysis services.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, logger: logger}
}

// RegisterRoutes registers the analysis handler's routes on the given mux.
func (h *AnalysisHandler) RegisterRoutes(mux *http.ServeMux) {
	ws := "/api/workspaces/{wid}"
	src := ws + "/sources/{stype}/{sid}"

	mux.HandleFunc("GET "+src+"/materialize", h.Materialize)
	mux.HandleFunc("GET "+src+"/profile", h.Profile)
	mux.HandleFunc("GET "+src+"/checks", h.CrossFieldChecks)
	mux.HandleFunc("GET "+src+"/hierarchy", h.Hierarchy)
	mux.HandleFunc("GET "+ws+"/kpis", h.Kpis)
	mux.HandleFunc("GET "+ws+"/candidate-keys", h.CandidateKeys)
	mux.HandleFunc("GET "+ws+"/foreign-keys", h.ForeignKeys)
	mux.HandleFunc("GET "+ws+"/graph", h.Graph)
}

// Materialize handles GET /api/workspaces/{wid}/sources/{stype}/{sid}/materialize
func (h *AnalysisHandler) Materialize(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	sourceType, sourceID, ok := ParseSourceRef(w, r, h.logger)
	if !ok {
		return
	}

	src, err := h.analysis.Materialize(workspaceID, sourceType, sourceID)
	if err != nil {
		writeServiceError(w, err, "materialize_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: src}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Profile handles GET /api/workspaces/{wid}/sources/{stype}/{sid}/profile
func (h *AnalysisHandler) Profile(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	sourceType, sourceID, ok := ParseSourceRef(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.analysis.Profile(workspaceID, sourceType, sourceID)
	if err != nil {
		h.logger.Error("Failed to profile source",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("source_id", sourceID.String()),
			zap.Error(err))
		writeServiceError(w, err, "profile_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: profile}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CrossFieldChecks handles GET /api/workspaces/{wid}/sources/{stype}/{sid}/checks
func (h *AnalysisHandler) CrossFieldChecks(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	sourceType, sourceID, ok := ParseSourceRef(w, r, h.logger)
	if !ok {
		return
	}

	results, err := h.analysis.CrossFieldChecks(workspaceID, sourceType, sourceID)
	if err != nil {
		writeServiceError(w, err, "crossfield_checks_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: results}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Hierarchy handles GET /api/workspaces/{wid}/sources/{stype}/{sid}/hierarchy?columns=a,b
func (h *AnalysisHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}
	sourceType, sourceID, ok := ParseSourceRef(w, r, h.logger)
	if !ok {
		return
	}

	var columns []string
	if raw := r.URL.Query().Get("columns"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				columns = append(columns, trimmed)
			}
		}
	}

	tree, err := h.analysis.Hierarchy(workspaceID, sourceType, sourceID, columns)
	if err != nil {
		writeServiceError(w, err, "hierarchy_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: tree}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Kpis handles GET /api/workspaces/{wid}/kpis
func (h *AnalysisHandler) Kpis(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	kpis, err := h.analysis.Kpis(workspaceID)
	if err != nil {
		h.logger.Error("Failed to aggregate KPIs",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		writeServiceError(w, err, "kpis_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: kpis}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CandidateKeys handles GET /api/workspaces/{wid}/candidate-keys
func (h *AnalysisHandler) CandidateKeys(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	keys, err := h.analysis.CandidateKeys(workspaceID)
	if err != nil {
		writeServiceError(w, err, "candidate_keys_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: keys}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ForeignKeys handles GET /api/workspaces/{wid}/foreign-keys
func (h *AnalysisHandler) ForeignKeys(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	fks, err := h.analysis.ForeignKeys(workspaceID)
	if err != nil {
		writeServiceError(w, err, "foreign_keys_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: fks}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Graph handles GET /api/workspaces/{wid}/graph
func (h *AnalysisHandler) Graph(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	g, err := h.analysis.Graph(workspaceID)
	if err != nil {
		writeServiceError(w, err, "graph_failed", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: g}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
