package profiling

import (
	"math"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// Default sampling bounds. The effective sample size is
// min(rowCount, max(cap, ceil(sqrt(rowCount))*scale)), so small datasets are
// profiled in full and large ones stay roughly sub-linear.
const (
	DefaultSampleCap   = 1000
	DefaultSampleScale = 10
)

// SampleSize returns how many rows a pass should examine for a source with
// rowCount rows under the given bounds. Non-positive bounds fall back to the
// defaults.
func SampleSize(rowCount, cap, scale int) int {
	if cap <= 0 {
		cap = DefaultSampleCap
	}
	if scale <= 0 {
		scale = DefaultSampleScale
	}
	if rowCount <= cap {
		return rowCount
	}
	n := int(math.Ceil(math.Sqrt(float64(rowCount)))) * scale
	if n < cap {
		n = cap
	}
	if n > rowCount {
		n = rowCount
	}
	return n
}

// Sample returns the examined slice of records plus its self-describing
// sampling info. Sampling takes the first n rows (record order is insertion
// order), so repeated passes over unchanged input examine identical rows.
func Sample(records []models.Record, cap, scale int) ([]models.Record, models.SamplingInfo) {
	n := SampleSize(len(records), cap, scale)
	info := models.SamplingInfo{SampledRows: n}
	if len(records) > 0 {
		info.SamplingRatioPct = float64(n) / float64(len(records)) * 100
	}
	return records[:n], info
}
