package kpi

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

func TestAggregate_EmptyWorkspace(t *testing.T) {
	ws := &models.Workspace{ID: uuid.New(), Name: "empty"}
	kpis := Aggregate(ws, nil)
	require.NotNil(t, kpis)

	assert.Equal(t, 0, kpis.DatasetCount)
	assert.Equal(t, 0, kpis.TotalRows)
	assert.Equal(t, 0.0, kpis.AvgQualityScore)
	// Zero errors still yields a sane ratio via the denominator floor of 1.
	assert.Equal(t, 0.0, kpis.DataToErrorsRatio)
	assert.Equal(t, 0.0, kpis.CostOfQualityUSD)
	assert.Equal(t, 0.0, kpis.TimeToValueHours)
}

func TestAggregate_RowWeightedAverages(t *testing.T) {
	ws := &models.Workspace{
		ID:       uuid.New(),
		Datasets: []*models.Dataset{{ID: uuid.New()}, {ID: uuid.New()}},
		Views:    []*models.View{{ID: uuid.New()}},
	}
	profiles := []*models.DatasetProfile{
		{
			RowCount: 90, ColumnCount: 2, QualityScore: 100,
			CompletenessPct: 100,
			Sampling:        models.SamplingInfo{SampledRows: 90, SamplingRatioPct: 100},
			Issues:          []models.Issue{},
		},
		{
			RowCount: 10, ColumnCount: 2, QualityScore: 50,
			CompletenessPct: 50,
			Sampling:        models.SamplingInfo{SampledRows: 10, SamplingRatioPct: 100},
			Issues:          []models.Issue{{Severity: models.SeverityHigh, Title: "x"}},
		},
	}

	kpis := Aggregate(ws, profiles)
	assert.Equal(t, 2, kpis.DatasetCount)
	assert.Equal(t, 1, kpis.ViewCount)
	assert.Equal(t, 100, kpis.TotalRows)
	assert.Equal(t, 200, kpis.TotalCells)
	// 90 rows at 100 plus 10 rows at 50: weighted average 95, not 75.
	assert.InDelta(t, 95.0, kpis.AvgQualityScore, 1e-9)
	assert.InDelta(t, 95.0, kpis.AvgCompletenessPct, 1e-9)
	assert.Equal(t, 1, kpis.HighSeverityIssues)
	assert.Equal(t, 1, kpis.DatasetsWithIssues)
	assert.Equal(t, 1, kpis.DatasetsFullyHealthy)
	// 2 datasets x 2h + 1 view x 0.5h.
	assert.InDelta(t, 4.5, kpis.TimeToValueHours, 1e-9)
}

func TestAggregate_ErrorScaling(t *testing.T) {
	ws := &models.Workspace{ID: uuid.New(), Datasets: []*models.Dataset{{ID: uuid.New()}}}
	profiles := []*models.DatasetProfile{
		{
			RowCount:       1000,
			ColumnCount:    1,
			ErrorCellCount: 5,
			Sampling:       models.SamplingInfo{SampledRows: 100, SamplingRatioPct: 10},
		},
	}

	kpis := Aggregate(ws, profiles)
	// 5 errors over a 10% sample extrapolate to 50 across the source.
	assert.Equal(t, 50, kpis.KnownErrorCount)
	assert.InDelta(t, 5.0, kpis.CostOfQualityUSD, 1e-9)
	assert.InDelta(t, float64(1000)/50, kpis.DataToErrorsRatio, 1e-9)
	assert.Greater(t, kpis.EstStorageCostUSD, 0.0)
}

func TestAggregate_EmptyDatasetStillWeighs(t *testing.T) {
	ws := &models.Workspace{ID: uuid.New(), Datasets: []*models.Dataset{{ID: uuid.New()}, {ID: uuid.New()}}}
	profiles := []*models.DatasetProfile{
		{RowCount: 0, QualityScore: 0},
		{RowCount: 1, QualityScore: 100},
	}

	kpis := Aggregate(ws, profiles)
	// The empty dataset carries weight 1 instead of vanishing.
	assert.InDelta(t, 50.0, kpis.AvgQualityScore, 1e-9)
}
