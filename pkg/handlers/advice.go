package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/advice"
	"github.com/dqanalyst/dq-engine/pkg/services"
)

// AdviceResponse carries LLM-generated quality recommendations.
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// AdviceHandler exposes the optional LLM advice collaborator. When no
// provider is configured the endpoints answer 503 rather than failing the
// rest of the API.
type AdviceHandler struct {
	analysis services.AnalysisService
	advisor  *advice.Service
	logger   *zap.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(analysis services.AnalysisService, advisor *advice.Service, logger *zap.Logger) *AdviceHandler {
	return &AdviceHandler{analysis: analysis, advisor: advisor, logger: logger}
}

// RegisterRoutes registers the advice handler's routes on the given mux.
func (h *AdviceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/workspaces/{wid}/advice", h.ForWorkspace)
	mux.HandleFunc("POST /api/workspaces/{wid}/sources/{stype}/{sid}/advice", h.ForSource)
}

// ForWorkspace handles POST /api/workspaces/{wid}/advice
func (h *AdviceHandler) ForWorkspace(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	workspaceID, ok := ParseWorkspaceID(w, r, h.logger)
	if !ok {
		return
	}

	kpis, err := h.analysis.Kpis(workspaceID)
	if err != nil {
		writeServiceError(w, err, "kpis_failed", h.logger)
		return
	}

	text, err := h.advisor.ForWorkspace(r.Context(), kpis)
	if err != nil {
		h.logger.Error("Failed to generate workspace advice",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "advice_failed", "Advice provider request failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: AdviceResponse{Advice: text}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ForSource handles POST /api/workspaces/{wid}/sources/{stype}/{sid}/advice
func (h *AdviceHandler) ForSource(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
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
		writeServiceError(w, err, "profile_failed", h.logger)
		return
	}

	text, err := h.advisor.ForDataset(r.Context(), profile)
	if err != nil {
		h.logger.Error("Failed to generate source advice",
			zap.String("source_id", sourceID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "advice_failed", "Advice provider request failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: AdviceResponse{Advice: text}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AdviceHandler) available(w http.ResponseWriter) bool {
	if h.advisor != nil && h.advisor.Available() {
		return true
	}
	if err := ErrorResponse(w, http.StatusServiceUnavailable, "advice_unavailable", "No advice provider configured"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
	return false
}
