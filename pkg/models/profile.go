package models

import (
	"slices"

	"github.com/google/uuid"
)

// InferredType classifies a column's sampled values.
type InferredType string

const (
	TypeNumeric InferredType = "numeric"
	TypeDate    InferredType = "date"
	TypeBoolean InferredType = "boolean"
	TypeText    InferredType = "text"
	TypeMixed   InferredType = "mixed"
)

// ValidInferredTypes contains all valid inferred type values.
var ValidInferredTypes = []InferredType{
	TypeNumeric, TypeDate, TypeBoolean, TypeText, TypeMixed,
}

// IsValidInferredType checks if the given type is valid.
func IsValidInferredType(t InferredType) bool {
	return slices.Contains(ValidInferredTypes, t)
}

// Pattern tags a column with a detected semantic format.
type Pattern string

const (
	PatternGeneral    Pattern = "general"
	PatternEmail      Pattern = "email"
	PatternPhone      Pattern = "phone"
	PatternPostal     Pattern = "postal"
	PatternDate       Pattern = "date"
	PatternIdentifier Pattern = "identifier"
	PatternURL        Pattern = "url"
)

// NumericStats holds descriptive statistics over the parsed numeric values
// of a column. Present only when the column's inferred type is numeric.
type NumericStats struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Mode         float64 `json:"mode"`
	StdDev       float64 `json:"std_dev"`
	OutlierCount int     `json:"outlier_count"`
	OutlierPct   float64 `json:"outlier_pct"`
}

// ColumnProfile holds per-column quality statistics. All percentage fields
// are bounded to [0,100]; ratios over an empty denominator default to 0.
type ColumnProfile struct {
	Column          string        `json:"column"`
	InferredType    InferredType  `json:"inferred_type"`
	Pattern         Pattern       `json:"pattern"`
	CompletenessPct float64       `json:"completeness_pct"`
	UniquenessPct   float64       `json:"uniqueness_pct"`
	ConsistencyPct  float64       `json:"consistency_pct"`
	ValidityPct     float64       `json:"validity_pct"`
	NullCount       int           `json:"null_count"`
	UniqueCount     int           `json:"unique_count"`
	Stats           *NumericStats `json:"stats,omitempty"`
}

// IssueSeverity grades a detected data-quality issue.
type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "low"
	SeverityMedium IssueSeverity = "medium"
	SeverityHigh   IssueSeverity = "high"
)

// Issue is a single data-quality finding for a dataset or one of its columns.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Title    string        `json:"title"`
	Detail   string        `json:"detail"`
	Column   string        `json:"column,omitempty"`
}

// SamplingInfo describes which slice of the source a pass actually examined,
// so downstream KPI displays are self-describing.
type SamplingInfo struct {
	SampledRows      int     `json:"sampled_rows"`
	SamplingRatioPct float64 `json:"sampling_ratio_pct"`
}

// DatasetProfile aggregates all column profiles of one materialized source
// plus dataset-level composite scores. It is recomputed on demand and never
// cached across structural changes to the source.
type DatasetProfile struct {
	SourceID         uuid.UUID        `json:"source_id"`
	SourceName       string           `json:"source_name"`
	RowCount         int              `json:"row_count"`
	ColumnCount      int              `json:"column_count"`
	Columns          []*ColumnProfile `json:"columns"`
	QualityScore     float64          `json:"quality_score"`
	TableHealthScore float64          `json:"table_health_score"`
	CompletenessPct  float64          `json:"completeness_pct"`
	ConsistencyPct   float64          `json:"consistency_pct"`
	ValidityPct      float64          `json:"validity_pct"`
	UniquenessPct    float64          `json:"uniqueness_pct"`
	TimelinessPct    float64          `json:"timeliness_pct"`
	DuplicationPct   float64          `json:"duplication_pct"`
	DuplicateRows    int              `json:"duplicate_rows"`
	LineagePct       float64          `json:"lineage_pct"`
	// ErrorCellCount is the number of sampled cells failing at least one
	// check (blank, type-inconsistent, or pattern-invalid).
	ErrorCellCount int          `json:"error_cell_count"`
	Issues         []Issue      `json:"issues"`
	Sampling       SamplingInfo `json:"sampling"`
}

// ColumnByName returns the profile for the named column, or nil.
func (p *DatasetProfile) ColumnByName(name string) *ColumnProfile {
	for _, c := range p.Columns {
		if c.Column == name {
			return c
		}
	}
	return nil
}

// IssueCount returns the number of issues at the given severity.
func (p *DatasetProfile) IssueCount(sev IssueSeverity) int {
	n := 0
	for _, is := range p.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}
