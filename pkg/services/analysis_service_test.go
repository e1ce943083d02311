package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/apperrors"
	"github.com/dqanalyst/dq-engine/pkg/config"
	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/rules"
)

func testConfig() *config.Config {
	return &config.Config{
		Sampling: config.SamplingConfig{Cap: 1000, Scale: 10},
		Discovery: config.DiscoveryConfig{
			CandidateKeyUniquenessPct: 98,
			FKOverlapPct:              80,
			FKNameHintOverlapPct:      50,
			MinDistinctForFK:          3,
		},
	}
}

func analysisFixture(t *testing.T) (WorkspaceService, AnalysisService, *models.Workspace, *models.Dataset) {
	t.Helper()
	workspaces := NewWorkspaceService(zap.NewNop())
	analysis := NewAnalysisService(workspaces, testConfig(), rules.Defaults(), zap.NewNop())

	ws := workspaces.Create("analytics")
	ds, err := workspaces.ImportDataset(ws.ID, "orders", []string{"id", "region"}, []models.Record{
		{"id": "o1", "region": "east"},
		{"id": "o2", "region": "east"},
		{"id": "o3", "region": "west"},
	})
	require.NoError(t, err)
	return workspaces, analysis, ws, ds
}

func TestAnalysisService_MaterializeAndProfile(t *testing.T) {
	_, analysis, ws, ds := analysisFixture(t)

	src, err := analysis.Materialize(ws.ID, models.SourceTypeDataset, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, src.RowCount)

	profile, err := analysis.Profile(ws.ID, models.SourceTypeDataset, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.ID, profile.SourceID)
	assert.Equal(t, 2, profile.ColumnCount)

	_, err = analysis.Materialize(ws.ID, models.SourceTypeDataset, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = analysis.Materialize(ws.ID, models.SourceType("bogus"), ds.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = analysis.Materialize(uuid.New(), models.SourceTypeDataset, ds.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAnalysisService_Kpis(t *testing.T) {
	workspaces, analysis, ws, ds := analysisFixture(t)

	_, err := workspaces.CreateView(ws.ID, &models.View{
		Name:        "regions",
		CombineMode: models.CombineRowIndex,
		Columns:     []models.ViewColumn{{DatasetID: ds.ID, SourceColumn: "region", Alias: "region"}},
	})
	require.NoError(t, err)

	kpis, err := analysis.Kpis(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, kpis.DatasetCount)
	assert.Equal(t, 1, kpis.ViewCount)
	// Dataset rows plus the view's materialized rows.
	assert.Equal(t, 6, kpis.TotalRows)
	assert.Greater(t, kpis.AvgQualityScore, 0.0)
}

func TestAnalysisService_Discovery(t *testing.T) {
	_, analysis, ws, ds := analysisFixture(t)

	keys, err := analysis.CandidateKeys(ws.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, []string{"id"}, keys[0].Columns)

	fks, err := analysis.ForeignKeys(ws.ID)
	require.NoError(t, err)
	assert.Empty(t, fks) // single dataset: nothing to relate

	graph, err := analysis.Graph(ws.ID)
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 3) // dataset + 2 columns

	checks, err := analysis.CrossFieldChecks(ws.ID, models.SourceTypeDataset, ds.ID)
	require.NoError(t, err)
	assert.Empty(t, checks) // no rule columns present
}

func TestAnalysisService_Hierarchy(t *testing.T) {
	_, analysis, ws, ds := analysisFixture(t)

	tree, err := analysis.Hierarchy(ws.ID, models.SourceTypeDataset, ds.ID, []string{"region"})
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "east", tree[0].Label)
	assert.Equal(t, 2, tree[0].Count)

	_, err = analysis.Hierarchy(ws.ID, models.SourceTypeDataset, ds.ID, []string{"nope"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
