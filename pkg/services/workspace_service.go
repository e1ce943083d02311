// Package services holds the stateful orchestration layer: the in-memory
// workspace registry and the analysis facade over the pure engine packages.
package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/adapters/datasource"
	"github.com/dqanalyst/dq-engine/pkg/apperrors"
	"github.com/dqanalyst/dq-engine/pkg/models"
)

// WorkspaceService manages workspaces and their datasets/views. All state
// lives here, guarded by a lock; the engine packages stay pure and receive
// workspace snapshots.
type WorkspaceService interface {
	Create(name string) *models.Workspace
	Get(id uuid.UUID) (*models.Workspace, error)
	List() []*models.Workspace
	Delete(id uuid.UUID) error

	ImportDataset(workspaceID uuid.UUID, name string, columns []string, records []models.Record) (*models.Dataset, error)
	ImportFromDatasource(ctx context.Context, workspaceID uuid.UUID, cfg *datasource.Config, table string, maxRows int) (*models.Dataset, error)
	DeleteDataset(workspaceID, datasetID uuid.UUID) error
	UpdateRow(workspaceID, datasetID uuid.UUID, rowIndex int, rec models.Record) error
	DeleteRow(workspaceID, datasetID uuid.UUID, rowIndex int) error

	CreateView(workspaceID uuid.UUID, view *models.View) (*models.View, error)
	DeleteView(workspaceID, viewID uuid.UUID) error
}

type workspaceService struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*models.Workspace
	logger     *zap.Logger
}

// NewWorkspaceService creates an empty in-memory workspace registry.
func NewWorkspaceService(logger *zap.Logger) WorkspaceService {
	return &workspaceService{
		workspaces: make(map[uuid.UUID]*models.Workspace),
		logger:     logger.Named("workspaces"),
	}
}

func (s *workspaceService) Create(name string) *models.Workspace {
	ws := &models.Workspace{
		ID:       uuid.New(),
		Name:     name,
		Datasets: []*models.Dataset{},
		Views:    []*models.View{},
	}
	s.mu.Lock()
	s.workspaces[ws.ID] = ws
	s.mu.Unlock()

	s.logger.Info("Created workspace",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("name", name))
	return ws
}

func (s *workspaceService) Get(id uuid.UUID) (*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, apperrors.ErrNotFound)
	}
	return ws, nil
}

func (s *workspaceService) List() []*models.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *workspaceService) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, apperrors.ErrNotFound)
	}
	delete(s.workspaces, id)
	return nil
}

func (s *workspaceService) ImportDataset(workspaceID uuid.UUID, name string, columns []string, records []models.Record) (*models.Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("dataset name required: %w", apperrors.ErrInvalidInput)
	}
	seen := map[string]bool{}
	for _, col := range columns {
		if col == "" || seen[col] {
			return nil, fmt.Errorf("dataset columns must be unique and non-empty: %w", apperrors.ErrInvalidInput)
		}
		seen[col] = true
	}

	normalized := make([]models.Record, len(records))
	for i, rec := range records {
		out := make(models.Record, len(columns))
		for _, col := range columns {
			out[col] = models.NormalizeValue(rec[col])
		}
		normalized[i] = out
	}

	ds := &models.Dataset{
		ID:       uuid.New(),
		Name:     name,
		Columns:  append([]string(nil), columns...),
		Records:  normalized,
		RowCount: len(normalized),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, apperrors.ErrNotFound)
	}
	s.workspaces[workspaceID] = withDataset(ws, ds)

	s.logger.Info("Imported dataset",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("dataset_id", ds.ID.String()),
		zap.String("name", name),
		zap.Int("rows", ds.RowCount),
		zap.Int("columns", len(columns)))
	return ds, nil
}

func (s *workspaceService) ImportFromDatasource(ctx context.Context, workspaceID uuid.UUID, cfg *datasource.Config, table string, maxRows int) (*models.Dataset, error) {
	conn, err := datasource.New(ctx, cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("open datasource: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			s.logger.Warn("Failed to close datasource", zap.Error(cerr))
		}
	}()

	ds, err := conn.ReadDataset(ctx, table, maxRows)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return s.ImportDataset(workspaceID, ds.Name, ds.Columns, ds.Records)
}

// DeleteDataset removes a dataset. Views referencing it are left in place;
// materialization degrades them to empty results.
func (s *workspaceService) DeleteDataset(workspaceID, datasetID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("workspace %s: %w", workspaceID, apperrors.ErrNotFound)
	}
	if ws.DatasetByID(datasetID) == nil {
		return fmt.Errorf("dataset %s: %w", datasetID, apperrors.ErrNotFound)
	}

	next := *ws
	next.Datasets = make([]*models.Dataset, 0, len(ws.Datasets)-1)
	for _, d := range ws.Datasets {
		if d.ID != datasetID {
			next.Datasets = append(next.Datasets, d)
		}
	}
	s.workspaces[workspaceID] = &next
	return nil
}

// UpdateRow replaces one row, producing a new Dataset value so snapshots
// taken before the edit stay valid.
func (s *workspaceService) UpdateRow(workspaceID, datasetID uuid.UUID, rowIndex int, rec models.Record) error {
	return s.mutateDataset(workspaceID, datasetID, func(ds *models.Dataset) (*models.Dataset, error) {
		if rowIndex < 0 || rowIndex >= len(ds.Records) {
			return nil, fmt.Errorf("row %d out of range: %w", rowIndex, apperrors.ErrInvalidInput)
		}
		out := make(models.Record, len(ds.Columns))
		for _, col := range ds.Columns {
			out[col] = models.NormalizeValue(rec[col])
		}
		return ds.WithUpdatedRow(rowIndex, out), nil
	})
}

// DeleteRow removes one row, producing a new Dataset value.
func (s *workspaceService) DeleteRow(workspaceID, datasetID uuid.UUID, rowIndex int) error {
	return s.mutateDataset(workspaceID, datasetID, func(ds *models.Dataset) (*models.Dataset, error) {
		if rowIndex < 0 || rowIndex >= len(ds.Records) {
			return nil, fmt.Errorf("row %d out of range: %w", rowIndex, apperrors.ErrInvalidInput)
		}
		return ds.WithDeletedRow(rowIndex), nil
	})
}

func (s *workspaceService) mutateDataset(workspaceID, datasetID uuid.UUID, mutate func(*models.Dataset) (*models.Dataset, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("workspace %s: %w", workspaceID, apperrors.ErrNotFound)
	}
	ds := ws.DatasetByID(datasetID)
	if ds == nil {
		return fmt.Errorf("dataset %s: %w", datasetID, apperrors.ErrNotFound)
	}

	mutated, err := mutate(ds)
	if err != nil {
		return err
	}

	next := *ws
	next.Datasets = make([]*models.Dataset, len(ws.Datasets))
	for i, d := range ws.Datasets {
		if d.ID == datasetID {
			next.Datasets[i] = mutated
		} else {
			next.Datasets[i] = d
		}
	}
	s.workspaces[workspaceID] = &next
	return nil
}

// CreateView validates the declared view against the current workspace and
// registers it. Validation is a configuration-time concern: materialization
// later tolerates references going stale.
func (s *workspaceService) CreateView(workspaceID uuid.UUID, view *models.View) (*models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, apperrors.ErrNotFound)
	}
	if err := ValidateView(ws, view); err != nil {
		return nil, err
	}

	created := *view
	created.ID = uuid.New()

	next := *ws
	next.Views = append(append([]*models.View(nil), ws.Views...), &created)
	s.workspaces[workspaceID] = &next

	s.logger.Info("Created view",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("view_id", created.ID.String()),
		zap.String("combine_mode", string(created.CombineMode)))
	return &created, nil
}

func (s *workspaceService) DeleteView(workspaceID, viewID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("workspace %s: %w", workspaceID, apperrors.ErrNotFound)
	}
	if ws.ViewByID(viewID) == nil {
		return fmt.Errorf("view %s: %w", viewID, apperrors.ErrNotFound)
	}

	next := *ws
	next.Views = make([]*models.View, 0, len(ws.Views)-1)
	for _, v := range ws.Views {
		if v.ID != viewID {
			next.Views = append(next.Views, v)
		}
	}
	s.workspaces[workspaceID] = &next
	return nil
}

func withDataset(ws *models.Workspace, ds *models.Dataset) *models.Workspace {
	next := *ws
	next.Datasets = append(append([]*models.Dataset(nil), ws.Datasets...), ds)
	return &next
}

// ValidateView rejects structurally invalid view declarations before they
// are saved: unknown modes, duplicate aliases, references to datasets or
// columns that do not exist, a join_by_key view without join config, or
// view columns outside the join's base/targets.
func ValidateView(ws *models.Workspace, view *models.View) error {
	if !models.IsValidCombineMode(view.CombineMode) {
		return fmt.Errorf("unknown combine mode %q: %w", view.CombineMode, apperrors.ErrInvalidView)
	}
	if len(view.Columns) == 0 {
		return fmt.Errorf("view declares no columns: %w", apperrors.ErrInvalidView)
	}

	aliases := map[string]bool{}
	for _, c := range view.Columns {
		if c.Alias == "" {
			return fmt.Errorf("view column alias required: %w", apperrors.ErrInvalidView)
		}
		if aliases[c.Alias] {
			return fmt.Errorf("duplicate view alias %q: %w", c.Alias, apperrors.ErrInvalidView)
		}
		aliases[c.Alias] = true

		ds := ws.DatasetByID(c.DatasetID)
		if ds == nil {
			return fmt.Errorf("view references unknown dataset %s: %w", c.DatasetID, apperrors.ErrInvalidView)
		}
		if !ds.HasColumn(c.SourceColumn) {
			return fmt.Errorf("dataset %q has no column %q: %w", ds.Name, c.SourceColumn, apperrors.ErrInvalidView)
		}
	}

	if view.CombineMode != models.CombineJoinByKey {
		return nil
	}

	jc := view.JoinConfig
	if jc == nil {
		return fmt.Errorf("join_by_key view requires join config: %w", apperrors.ErrInvalidView)
	}
	if !models.IsValidJoinType(jc.JoinType) {
		return fmt.Errorf("unknown join type %q: %w", jc.JoinType, apperrors.ErrInvalidView)
	}
	if !models.IsValidOneToManyMode(jc.OneToManyMode) {
		return fmt.Errorf("unknown one-to-many mode %q: %w", jc.OneToManyMode, apperrors.ErrInvalidView)
	}

	base := ws.DatasetByID(jc.BaseDatasetID)
	if base == nil || !base.HasColumn(jc.BaseKeyColumn) {
		return fmt.Errorf("join base dataset/key missing: %w", apperrors.ErrInvalidView)
	}
	member := map[uuid.UUID]bool{jc.BaseDatasetID: true}
	for _, t := range jc.Joins {
		target := ws.DatasetByID(t.DatasetID)
		if target == nil || !target.HasColumn(t.KeyColumn) {
			return fmt.Errorf("join target dataset/key missing: %w", apperrors.ErrInvalidView)
		}
		member[t.DatasetID] = true
	}
	for _, c := range view.Columns {
		if !member[c.DatasetID] {
			return fmt.Errorf("view column %q references dataset outside the join: %w", c.Alias, apperrors.ErrInvalidView)
		}
	}
	return nil
}
