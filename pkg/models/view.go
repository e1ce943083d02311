package models

import (
	"slices"

	"github.com/google/uuid"
)

// CombineMode selects how a view combines its source datasets.
type CombineMode string

const (
	CombineRowIndex  CombineMode = "row_index"
	CombineJoinByKey CombineMode = "join_by_key"
)

// ValidCombineModes contains all valid combine mode values.
var ValidCombineModes = []CombineMode{CombineRowIndex, CombineJoinByKey}

// IsValidCombineMode checks if the given mode is valid.
func IsValidCombineMode(m CombineMode) bool {
	return slices.Contains(ValidCombineModes, m)
}

// JoinType selects which rows survive a key-based join.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
	JoinFull  JoinType = "full"
)

// ValidJoinTypes contains all valid join type values.
var ValidJoinTypes = []JoinType{JoinInner, JoinLeft, JoinFull}

// IsValidJoinType checks if the given join type is valid.
func IsValidJoinType(t JoinType) bool {
	return slices.Contains(ValidJoinTypes, t)
}

// OneToManyMode controls row multiplication when a base key matches several
// target rows.
type OneToManyMode string

const (
	OneToManyExpand     OneToManyMode = "expand"
	OneToManyFirstMatch OneToManyMode = "first_match"
)

// ValidOneToManyModes contains all valid one-to-many mode values.
var ValidOneToManyModes = []OneToManyMode{OneToManyExpand, OneToManyFirstMatch}

// IsValidOneToManyMode checks if the given mode is valid.
func IsValidOneToManyMode(m OneToManyMode) bool {
	return slices.Contains(ValidOneToManyModes, m)
}

// ViewColumn projects one source column into the view under an alias.
// Aliases are unique within a view.
type ViewColumn struct {
	DatasetID    uuid.UUID `json:"dataset_id"`
	SourceColumn string    `json:"source_column"`
	Alias        string    `json:"alias"`
}

// JoinTarget is one dataset joined against the base by a key column.
// Targets are processed independently against the base (star join), never
// chained against prior join results.
type JoinTarget struct {
	DatasetID uuid.UUID `json:"dataset_id"`
	KeyColumn string    `json:"key_column"`
}

// JoinConfig configures a join_by_key view. Required iff the view's combine
// mode is join_by_key.
type JoinConfig struct {
	BaseDatasetID uuid.UUID     `json:"base_dataset_id"`
	BaseKeyColumn string        `json:"base_key_column"`
	JoinType      JoinType      `json:"join_type"`
	OneToManyMode OneToManyMode `json:"one_to_many_mode"`
	Joins         []JoinTarget  `json:"joins"`
}

// View is a saved specification describing how to combine datasets into a
// virtual table. It holds no data; materialization resolves it on demand.
type View struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	CombineMode CombineMode  `json:"combine_mode"`
	Columns     []ViewColumn `json:"columns"`
	JoinConfig  *JoinConfig  `json:"join_config,omitempty"`
}
