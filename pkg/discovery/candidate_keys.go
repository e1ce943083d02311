package discovery

import (
	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/profiling"
)

// CandidateKeys returns, per dataset, the smallest column set whose sampled
// values are unique enough to identify rows. Single columns are preferred
// over pairs; a dataset with no qualifying set gets an empty Columns slice.
func CandidateKeys(ws *models.Workspace, opts Options) []models.CandidateKey {
	opts = opts.withDefaults()
	keys := make([]models.CandidateKey, 0, len(ws.Datasets))
	for _, ds := range ws.Datasets {
		keys = append(keys, models.CandidateKey{
			DatasetID: ds.ID,
			Columns:   candidateKeyColumns(ds, opts),
		})
	}
	return keys
}

func candidateKeyColumns(ds *models.Dataset, opts Options) []string {
	sample, _ := profiling.Sample(ds.Records, opts.SampleCap, opts.SampleScale)
	if len(sample) == 0 {
		return []string{}
	}

	// Single columns first: pick the most unique qualifying column,
	// declaration order breaking ties.
	best := ""
	bestUniqueness := 0.0
	for _, col := range ds.Columns {
		u, ok := columnUniqueness(sample, []string{col}, opts)
		if ok && u > bestUniqueness {
			best, bestUniqueness = col, u
		}
	}
	if best != "" {
		return []string{best}
	}

	// No single column qualifies; try pairs in declaration order and return
	// the first qualifying combination.
	for i := 0; i < len(ds.Columns); i++ {
		for j := i + 1; j < len(ds.Columns); j++ {
			pair := []string{ds.Columns[i], ds.Columns[j]}
			if _, ok := columnUniqueness(sample, pair, opts); ok {
				return pair
			}
		}
	}
	return []string{}
}

// columnUniqueness measures the distinct ratio of the (possibly compound)
// key over rows where the key is not entirely blank. A key qualifies when
// uniqueness meets the threshold and it is not degenerate: not all-null and
// not constant.
func columnUniqueness(sample []models.Record, cols []string, opts Options) (float64, bool) {
	nonBlank := 0
	distinct := map[string]struct{}{}
	for _, rec := range sample {
		allBlank := true
		key := ""
		for _, col := range cols {
			v := rec[col]
			if !models.IsBlank(v) {
				allBlank = false
			}
			key += models.ValueKey(v) + "\x1f"
		}
		if allBlank {
			continue
		}
		nonBlank++
		distinct[key] = struct{}{}
	}
	if nonBlank == 0 {
		return 0, false
	}
	if len(distinct) == 1 && nonBlank > 1 {
		return 0, false // constant column
	}
	u := float64(len(distinct)) / float64(nonBlank) * 100
	return u, u >= opts.CandidateKeyUniquenessPct
}
