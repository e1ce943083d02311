package profiling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

func TestSampleSize(t *testing.T) {
	tests := []struct {
		rows, cap, scale, want int
	}{
		{0, 1000, 10, 0},
		{500, 1000, 10, 500},     // under the cap: full scan
		{1000, 1000, 10, 1000},   // exactly the cap
		{10000, 1000, 10, 1000},  // sqrt(10000)*10 = 1000
		{40000, 1000, 10, 2000},  // sqrt(40000)*10 = 2000
		{1000000, 1000, 10, 10000},
		{1001, 1000, 10, 1000},   // just over the cap: sqrt bound below cap
		{5000, 0, 0, 1000},       // non-positive bounds fall back to defaults
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.rows, tt.cap, tt.scale), func(t *testing.T) {
			assert.Equal(t, tt.want, SampleSize(tt.rows, tt.cap, tt.scale))
		})
	}
}

func TestSample(t *testing.T) {
	records := make([]models.Record, 20)
	for i := range records {
		records[i] = models.Record{"i": float64(i)}
	}

	sample, info := Sample(records, 10, 1)
	assert.Len(t, sample, 10)
	assert.Equal(t, 10, info.SampledRows)
	assert.InDelta(t, 50.0, info.SamplingRatioPct, 1e-9)
	// First-N sampling: deterministic prefix.
	assert.Equal(t, float64(0), sample[0]["i"])
	assert.Equal(t, float64(9), sample[9]["i"])

	sample, info = Sample(nil, 10, 1)
	assert.Empty(t, sample)
	assert.Equal(t, 0, info.SampledRows)
	assert.Equal(t, 0.0, info.SamplingRatioPct)
}
