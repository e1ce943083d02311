package models

import (
	"slices"

	"github.com/google/uuid"
)

// DetectionMethod records how a foreign-key relationship was inferred.
type DetectionMethod string

const (
	DetectionValueMatch    DetectionMethod = "value_match"
	DetectionNameInference DetectionMethod = "name_inference"
	DetectionHybrid        DetectionMethod = "hybrid"
)

// ValidDetectionMethods contains all valid detection method values.
var ValidDetectionMethods = []DetectionMethod{
	DetectionValueMatch, DetectionNameInference, DetectionHybrid,
}

// IsValidDetectionMethod checks if the given method is valid.
func IsValidDetectionMethod(m DetectionMethod) bool {
	return slices.Contains(ValidDetectionMethods, m)
}

// CandidateKey names the smallest column set whose sampled values are unique
// enough to identify rows of a dataset. Columns is empty when none qualifies.
type CandidateKey struct {
	DatasetID uuid.UUID `json:"dataset_id"`
	Columns   []string  `json:"columns"`
}

// InferredForeignKey is a detected value-overlap relationship between a
// column in one dataset and a column in another.
type InferredForeignKey struct {
	SourceDatasetID uuid.UUID       `json:"source_dataset_id"`
	SourceColumn    string          `json:"source_column"`
	TargetDatasetID uuid.UUID       `json:"target_dataset_id"`
	TargetColumn    string          `json:"target_column"`
	OverlapPct      float64         `json:"overlap_pct"`
	OrphanCount     int             `json:"orphan_count"`
	Method          DetectionMethod `json:"method"`
}

// CheckStatus is the outcome of one cross-field consistency check.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// CrossFieldResult reports one multi-column rule evaluated over a sample.
// Offending rows are not enumerated here; drill-down re-derives them from
// the raw dataset on demand.
type CrossFieldResult struct {
	RuleID      string      `json:"rule_id"`
	Title       string      `json:"title"`
	Columns     []string    `json:"columns"`
	CheckedRows int         `json:"checked_rows"`
	IssueCount  int         `json:"issue_count"`
	Status      CheckStatus `json:"status"`
}
