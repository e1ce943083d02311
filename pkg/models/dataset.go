package models

import (
	"slices"

	"github.com/google/uuid"
)

// Dataset is an imported, named table with a fixed ordered column list.
// Records are never mutated in place: row edits and deletes produce a new
// Dataset value so profiling snapshots taken earlier stay valid.
type Dataset struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Columns  []string  `json:"columns"`
	Records  []Record  `json:"records"`
	RowCount int       `json:"row_count"`
}

// WithUpdatedRow returns a copy of the dataset with row idx replaced.
// Returns the receiver unchanged if idx is out of range.
func (d *Dataset) WithUpdatedRow(idx int, rec Record) *Dataset {
	if idx < 0 || idx >= len(d.Records) {
		return d
	}
	next := *d
	next.Records = make([]Record, len(d.Records))
	copy(next.Records, d.Records)
	next.Records[idx] = rec
	return &next
}

// WithDeletedRow returns a copy of the dataset with row idx removed.
// Returns the receiver unchanged if idx is out of range.
func (d *Dataset) WithDeletedRow(idx int) *Dataset {
	if idx < 0 || idx >= len(d.Records) {
		return d
	}
	next := *d
	next.Records = make([]Record, 0, len(d.Records)-1)
	next.Records = append(next.Records, d.Records[:idx]...)
	next.Records = append(next.Records, d.Records[idx+1:]...)
	next.RowCount = len(next.Records)
	return &next
}

// HasColumn reports whether the dataset declares the given column.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// MaterializedSource is the transient, flat result of resolving a Dataset or
// View. It is recomputed on every access and never persisted. Every record
// carries exactly the declared columns; missing source values are nil.
type MaterializedSource struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Columns  []string  `json:"columns"`
	Records  []Record  `json:"records"`
	RowCount int       `json:"row_count"`
}

// SourceType selects whether an identifier names a dataset or a view.
type SourceType string

const (
	SourceTypeDataset SourceType = "dataset"
	SourceTypeView    SourceType = "view"
)

// ValidSourceTypes contains all valid source type values.
var ValidSourceTypes = []SourceType{SourceTypeDataset, SourceTypeView}

// IsValidSourceType checks if the given source type is valid.
func IsValidSourceType(t SourceType) bool {
	return slices.Contains(ValidSourceTypes, t)
}

// Workspace is the explicit root value passed into every engine function.
// Selection and persistence of "the active workspace" belong to callers.
type Workspace struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Datasets []*Dataset `json:"datasets"`
	Views    []*View    `json:"views"`
}

// DatasetByID returns the dataset with the given id, or nil.
func (w *Workspace) DatasetByID(id uuid.UUID) *Dataset {
	for _, d := range w.Datasets {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// ViewByID returns the view with the given id, or nil.
func (w *Workspace) ViewByID(id uuid.UUID) *View {
	for _, v := range w.Views {
		if v.ID == id {
			return v
		}
	}
	return nil
}
