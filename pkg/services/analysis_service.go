package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/apperrors"
	"github.com/dqanalyst/dq-engine/pkg/compose"
	"github.com/dqanalyst/dq-engine/pkg/config"
	"github.com/dqanalyst/dq-engine/pkg/discovery"
	"github.com/dqanalyst/dq-engine/pkg/graph"
	"github.com/dqanalyst/dq-engine/pkg/hierarchy"
	"github.com/dqanalyst/dq-engine/pkg/kpi"
	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/profiling"
	"github.com/dqanalyst/dq-engine/pkg/rules"
)

// AnalysisService runs the read-only analysis pipeline over workspace
// snapshots: materialization, profiling, KPI aggregation, relationship
// discovery, graph assembly, and hierarchy grouping.
type AnalysisService interface {
	Materialize(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID) (*models.MaterializedSource, error)
	Profile(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID) (*models.DatasetProfile, error)
	Kpis(workspaceID uuid.UUID) (*models.WorkspaceKpis, error)
	CandidateKeys(workspaceID uuid.UUID) ([]models.CandidateKey, error)
	ForeignKeys(workspaceID uuid.UUID) ([]models.InferredForeignKey, error)
	CrossFieldChecks(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID) ([]models.CrossFieldResult, error)
	Graph(workspaceID uuid.UUID) (*models.WorkspaceGraph, error)
	Hierarchy(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID, groupColumns []string) ([]*models.HierarchyNode, error)
}

type analysisService struct {
	workspaces WorkspaceService
	rules      []rules.Rule
	profiling  profiling.Options
	discovery  discovery.Options
	logger     *zap.Logger
}

// NewAnalysisService builds the analysis facade. Thresholds come from
// configuration; the cross-field rule set is loaded once at startup.
func NewAnalysisService(workspaces WorkspaceService, cfg *config.Config, ruleSet []rules.Rule, logger *zap.Logger) AnalysisService {
	return &analysisService{
		workspaces: workspaces,
		rules:      ruleSet,
		profiling: profiling.Options{
			SampleCap:     cfg.Sampling.Cap,
			SampleScale:   cfg.Sampling.Scale,
			ReferenceTime: time.Now().UTC(),
		},
		discovery: discovery.Options{
			SampleCap:                 cfg.Sampling.Cap,
			SampleScale:               cfg.Sampling.Scale,
			CandidateKeyUniquenessPct: cfg.Discovery.CandidateKeyUniquenessPct,
			FKOverlapPct:              cfg.Discovery.FKOverlapPct,
			FKNameHintOverlapPct:      cfg.Discovery.FKNameHintOverlapPct,
			MinDistinctForFK:          cfg.Discovery.MinDistinctForFK,
		},
		logger: logger.Named("analysis"),
	}
}

func (s *analysisService) Materialize(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID) (*models.MaterializedSource, error) {
	ws, err := s.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidSourceType(sourceType) {
		return nil, fmt.Errorf("unknown source type %q: %w", sourceType, apperrors.ErrInvalidInput)
	}
	src, ok := compose.Materialize(ws, sourceType, sourceID)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", sourceType, sourceID, apperrors.ErrNotFound)
	}
	return src, nil
}

func (s *analysisService) Profile(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID) (*models.DatasetProfile, error) {
	src, err := s.Materialize(workspaceID, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	profile := profiling.ProfileSource(src, s.profiling)

	s.logger.Debug("Profiled source",
		zap.String("source_id", sourceID.String()),
		zap.String("source_type", string(sourceType)),
		zap.Int("sampled_rows", profile.Sampling.SampledRows),
		zap.Float64("quality_score", profile.QualityScore))
	return profile, nil
}

// Kpis profiles every dataset and view in the workspace and rolls the
// results up into workspace-level indicators.
func (s *analysisService) Kpis(workspaceID uuid.UUID) (*models.WorkspaceKpis, error) {
	ws, err := s.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.DatasetProfile, 0, len(ws.Datasets)+len(ws.Views))
	for _, ds := range ws.Datasets {
		if src, ok := compose.Materialize(ws, models.SourceTypeDataset, ds.ID); ok {
			profiles = append(profiles, profiling.ProfileSource(src, s.profiling))
		}
	}
	for _, v := range ws.Views {
		if src, ok := compose.Materialize(ws, models.SourceTypeView, v.ID); ok {
			profiles = append(profiles, profiling.ProfileSource(src, s.profiling))
		}
	}
	return kpi.Aggregate(ws, profiles), nil
}

func (s *analysisService) CandidateKeys(workspaceID uuid.UUID) ([]models.CandidateKey, error) {
	ws, err := s.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}
	return discovery.CandidateKeys(ws, s.discovery), nil
}

func (s *analysisService) ForeignKeys(workspaceID uuid.UUID) ([]models.InferredForeignKey, error) {
	ws, err := s.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}
	return discovery.InferForeignKeys(ws, s.discovery), nil
}

func (s *analysisService) CrossFieldChecks(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID) ([]models.CrossFieldResult, error) {
	src, err := s.Materialize(workspaceID, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	return discovery.RunCrossFieldChecks(src, s.rules, s.discovery), nil
}

func (s *analysisService) Graph(workspaceID uuid.UUID) (*models.WorkspaceGraph, error) {
	ws, err := s.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}
	return graph.Build(ws, s.discovery), nil
}

// Hierarchy materializes the source and groups its rows along the given
// column path. Columns absent from the source are rejected up front.
func (s *analysisService) Hierarchy(workspaceID uuid.UUID, sourceType models.SourceType, sourceID uuid.UUID, groupColumns []string) ([]*models.HierarchyNode, error) {
	src, err := s.Materialize(workspaceID, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	known := map[string]bool{}
	for _, c := range src.Columns {
		known[c] = true
	}
	for _, c := range groupColumns {
		if !known[c] {
			return nil, fmt.Errorf("source has no column %q: %w", c, apperrors.ErrInvalidInput)
		}
	}
	return hierarchy.Build(src.Records, groupColumns), nil
}
