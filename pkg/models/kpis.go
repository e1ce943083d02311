package models

// WorkspaceKpis aggregates dataset profiles across a workspace. It is a
// derived value: recompute it whenever its inputs change. With zero datasets
// every field is zero and DataToErrorsRatio uses a denominator of 1.
type WorkspaceKpis struct {
	DatasetCount int `json:"dataset_count"`
	ViewCount    int `json:"view_count"`
	TotalRows    int `json:"total_rows"`
	TotalColumns int `json:"total_columns"`
	TotalCells   int `json:"total_cells"`

	// Row-weighted averages across dataset profiles, [0,100].
	AvgQualityScore    float64 `json:"avg_quality_score"`
	AvgTableHealth     float64 `json:"avg_table_health"`
	AvgCompletenessPct float64 `json:"avg_completeness_pct"`
	AvgConsistencyPct  float64 `json:"avg_consistency_pct"`
	AvgValidityPct     float64 `json:"avg_validity_pct"`
	AvgDuplicationPct  float64 `json:"avg_duplication_pct"`

	// Error accounting. KnownErrorCount is the number of sampled cells that
	// failed at least one check (blank, type-inconsistent, or invalid),
	// scaled back to full-source row counts by the sampling ratio.
	KnownErrorCount    int     `json:"known_error_count"`
	HighSeverityIssues int     `json:"high_severity_issues"`
	MedSeverityIssues  int     `json:"med_severity_issues"`
	DataToErrorsRatio  float64 `json:"data_to_errors_ratio"`

	// Derived business metrics; see DESIGN.md for the fixed constants.
	CostOfQualityUSD     float64 `json:"cost_of_quality_usd"`
	EstStorageCostUSD    float64 `json:"est_storage_cost_usd"`
	TimeToValueHours     float64 `json:"time_to_value_hours"`
	AvgSamplingRatioPct  float64 `json:"avg_sampling_ratio_pct"`
	TotalDuplicateRows   int     `json:"total_duplicate_rows"`
	DatasetsWithIssues   int     `json:"datasets_with_issues"`
	DatasetsFullyHealthy int     `json:"datasets_fully_healthy"`
}
