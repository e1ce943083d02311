package advice

import (
	"fmt"
	"strings"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// BuildDatasetContext renders a dataset profile into the plain textual
// metric context handed to the model. Only primitive metric values cross
// this boundary; no raw records are included.
func BuildDatasetContext(p *models.DatasetProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset: %s\n", p.SourceName)
	fmt.Fprintf(&sb, "Rows: %d, Columns: %d (sampled %d rows, %.1f%%)\n",
		p.RowCount, p.ColumnCount, p.Sampling.SampledRows, p.Sampling.SamplingRatioPct)
	fmt.Fprintf(&sb, "Quality score: %.1f, Table health: %.1f\n", p.QualityScore, p.TableHealthScore)
	fmt.Fprintf(&sb, "Completeness: %.1f%%, Consistency: %.1f%%, Validity: %.1f%%, Duplication: %.1f%%\n",
		p.CompletenessPct, p.ConsistencyPct, p.ValidityPct, p.DuplicationPct)

	for _, c := range p.Columns {
		fmt.Fprintf(&sb, "- column %q (%s): completeness %.1f%%, uniqueness %.1f%%, validity %.1f%%\n",
			c.Column, c.InferredType, c.CompletenessPct, c.UniquenessPct, c.ValidityPct)
	}
	if len(p.Issues) > 0 {
		sb.WriteString("Issues:\n")
		for _, is := range p.Issues {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", is.Severity, is.Title, is.Detail)
		}
	}
	return sb.String()
}

// BuildWorkspaceContext renders workspace KPIs into textual metric context.
func BuildWorkspaceContext(k *models.WorkspaceKpis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Workspace: %d datasets, %d views, %d total rows, %d cells\n",
		k.DatasetCount, k.ViewCount, k.TotalRows, k.TotalCells)
	fmt.Fprintf(&sb, "Average quality score: %.1f, average table health: %.1f\n",
		k.AvgQualityScore, k.AvgTableHealth)
	fmt.Fprintf(&sb, "Known error cells: %d (data-to-errors ratio %.1f)\n",
		k.KnownErrorCount, k.DataToErrorsRatio)
	fmt.Fprintf(&sb, "Issues: %d high severity, %d medium severity\n",
		k.HighSeverityIssues, k.MedSeverityIssues)
	fmt.Fprintf(&sb, "Cost of quality: $%.2f, estimated storage: $%.4f/month\n",
		k.CostOfQualityUSD, k.EstStorageCostUSD)
	return sb.String()
}
