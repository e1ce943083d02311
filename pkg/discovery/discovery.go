// Package discovery infers structure across a workspace's datasets:
// candidate keys per dataset, foreign-key-like relationships between
// datasets (value-set overlap blended with naming hints), and cross-field
// consistency checks. Given the same sample, results are stable and
// order-independent.
package discovery

import (
	"github.com/dqanalyst/dq-engine/pkg/profiling"
)

// Options bounds a discovery pass. Zero values fall back to the defaults.
type Options struct {
	SampleCap   int
	SampleScale int

	// CandidateKeyUniquenessPct is the minimum sampled uniqueness for a
	// column (set) to qualify as a candidate key.
	CandidateKeyUniquenessPct float64
	// FKOverlapPct is the minimum source-side value overlap to declare an
	// inferred foreign key from value matching alone.
	FKOverlapPct float64
	// FKNameHintOverlapPct is the relaxed floor applied when the source
	// column's name points at the target (e.g. user_id -> users.id).
	FKNameHintOverlapPct float64
	// MinDistinctForFK excludes low-cardinality sources (flags, enums);
	// columns with fewer distinct values are not FK material.
	MinDistinctForFK int
}

// DefaultOptions returns the documented default thresholds.
func DefaultOptions() Options {
	return Options{
		SampleCap:                 profiling.DefaultSampleCap,
		SampleScale:               profiling.DefaultSampleScale,
		CandidateKeyUniquenessPct: 98,
		FKOverlapPct:              80,
		FKNameHintOverlapPct:      50,
		MinDistinctForFK:          3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SampleCap <= 0 {
		o.SampleCap = d.SampleCap
	}
	if o.SampleScale <= 0 {
		o.SampleScale = d.SampleScale
	}
	if o.CandidateKeyUniquenessPct <= 0 {
		o.CandidateKeyUniquenessPct = d.CandidateKeyUniquenessPct
	}
	if o.FKOverlapPct <= 0 {
		o.FKOverlapPct = d.FKOverlapPct
	}
	if o.FKNameHintOverlapPct <= 0 {
		o.FKNameHintOverlapPct = d.FKNameHintOverlapPct
	}
	if o.MinDistinctForFK <= 0 {
		o.MinDistinctForFK = d.MinDistinctForFK
	}
	return o
}
