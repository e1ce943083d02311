// Package kpi rolls dataset profiles up into workspace-wide key performance
// indicators: counts, weighted averages, error ratios, and derived business
// metrics. Aggregation is zero-dataset safe and never divides by zero.
package kpi

import (
	"github.com/dqanalyst/dq-engine/pkg/models"
)

// Fixed constants behind the derived business metrics. Chosen once and kept
// stable so KPI trends stay comparable across runs; see DESIGN.md.
const (
	// costPerErrorUSD prices one known-bad cell (industry rule-of-thumb
	// remediation cost, deliberately conservative).
	costPerErrorUSD = 0.10
	// bytesPerCell estimates average serialized cell size for storage cost.
	bytesPerCell = 24.0
	// storageUSDPerGiBMonth follows commodity object-storage pricing.
	storageUSDPerGiBMonth = 0.023
	// Time-to-value: fixed onboarding effort per dataset and per view.
	hoursPerDataset = 2.0
	hoursPerView    = 0.5
)

// Aggregate combines the profiles of all datasets in a workspace into
// workspace KPIs. profiles must be the per-dataset profiles of ws.Datasets
// (any order); missing or extra entries simply shift the averages.
func Aggregate(ws *models.Workspace, profiles []*models.DatasetProfile) *models.WorkspaceKpis {
	kpis := &models.WorkspaceKpis{
		DatasetCount: len(ws.Datasets),
		ViewCount:    len(ws.Views),
	}

	var weightedQuality, weightedHealth, weightedCompleteness float64
	var weightedConsistency, weightedValidity, weightedDuplication float64
	var sumSamplingRatio float64
	totalWeight := 0.0

	for _, p := range profiles {
		kpis.TotalRows += p.RowCount
		kpis.TotalColumns += p.ColumnCount
		kpis.TotalCells += p.RowCount * p.ColumnCount
		kpis.TotalDuplicateRows += p.DuplicateRows
		kpis.HighSeverityIssues += p.IssueCount(models.SeverityHigh)
		kpis.MedSeverityIssues += p.IssueCount(models.SeverityMedium)
		kpis.KnownErrorCount += scaleToSource(p)

		if len(p.Issues) > 0 {
			kpis.DatasetsWithIssues++
		} else {
			kpis.DatasetsFullyHealthy++
		}

		// Row-weighted averages; empty datasets carry weight 1 so they still
		// pull the average instead of vanishing.
		w := float64(p.RowCount)
		if w == 0 {
			w = 1
		}
		totalWeight += w
		weightedQuality += w * p.QualityScore
		weightedHealth += w * p.TableHealthScore
		weightedCompleteness += w * p.CompletenessPct
		weightedConsistency += w * p.ConsistencyPct
		weightedValidity += w * p.ValidityPct
		weightedDuplication += w * p.DuplicationPct
		sumSamplingRatio += p.Sampling.SamplingRatioPct
	}

	if totalWeight > 0 {
		kpis.AvgQualityScore = weightedQuality / totalWeight
		kpis.AvgTableHealth = weightedHealth / totalWeight
		kpis.AvgCompletenessPct = weightedCompleteness / totalWeight
		kpis.AvgConsistencyPct = weightedConsistency / totalWeight
		kpis.AvgValidityPct = weightedValidity / totalWeight
		kpis.AvgDuplicationPct = weightedDuplication / totalWeight
	}
	if n := len(profiles); n > 0 {
		kpis.AvgSamplingRatioPct = sumSamplingRatio / float64(n)
	}

	denom := kpis.KnownErrorCount
	if denom < 1 {
		denom = 1
	}
	kpis.DataToErrorsRatio = float64(kpis.TotalCells) / float64(denom)

	kpis.CostOfQualityUSD = float64(kpis.KnownErrorCount) * costPerErrorUSD
	kpis.EstStorageCostUSD = float64(kpis.TotalCells) * bytesPerCell / (1 << 30) * storageUSDPerGiBMonth
	kpis.TimeToValueHours = float64(kpis.DatasetCount)*hoursPerDataset + float64(kpis.ViewCount)*hoursPerView
	return kpis
}

// scaleToSource extrapolates a profile's sampled error-cell count back to the
// full source size using the reported sampling ratio.
func scaleToSource(p *models.DatasetProfile) int {
	if p.Sampling.SampledRows == 0 || p.Sampling.SamplingRatioPct <= 0 {
		return p.ErrorCellCount
	}
	return int(float64(p.ErrorCellCount) * 100 / p.Sampling.SamplingRatioPct)
}
