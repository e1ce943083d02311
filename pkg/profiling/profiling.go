// Package profiling computes per-column and per-dataset quality statistics
// over a materialized source: completeness, uniqueness, consistency,
// validity, descriptive stats, outliers, duplication, and composite scores.
// Profiling is a pure function of its input snapshot.
package profiling

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dqanalyst/dq-engine/pkg/inference"
	"github.com/dqanalyst/dq-engine/pkg/models"
)

// Composite score weights. Both composites are monotonically non-decreasing
// in every improving sub-metric (duplication enters as 100-duplication) and
// are clamped to [0,100].
const (
	qualityWeightCompleteness  = 0.30
	qualityWeightConsistency   = 0.25
	qualityWeightValidity      = 0.25
	qualityWeightUniqueness    = 0.10
	qualityWeightDeduplication = 0.10

	healthWeightCompleteness  = 0.35
	healthWeightConsistency   = 0.20
	healthWeightValidity      = 0.20
	healthWeightDeduplication = 0.15
	healthWeightTimeliness    = 0.10
)

// Outlier rule: a numeric value is an outlier when it lies more than
// 1.5 interquartile ranges from the median; when the IQR collapses to zero,
// fall back to |value-mean| > 3 standard deviations.
const (
	outlierIQRFactor   = 1.5
	outlierZFallback   = 3.0
	timelinessWindow   = 365 * 24 * time.Hour
	defaultNeutralPct  = 100.0
)

// Issue thresholds.
const (
	completenessMediumBelow = 95.0
	completenessHighBelow   = 80.0
	validityHighBelow       = 80.0
	consistencyMediumBelow  = 90.0
	duplicationMediumAbove  = 5.0
	duplicationHighAbove    = 20.0
)

// Options bounds a profiling pass.
type Options struct {
	SampleCap   int
	SampleScale int
	// ReferenceTime anchors the timeliness metric. Zero disables it: the
	// timeliness sub-metric then reports its neutral 100 so results stay
	// reproducible without a clock.
	ReferenceTime time.Time
}

// DefaultOptions returns the default sampling bounds with timeliness disabled.
func DefaultOptions() Options {
	return Options{SampleCap: DefaultSampleCap, SampleScale: DefaultSampleScale}
}

// ProfileSource computes the full DatasetProfile for one materialized source.
func ProfileSource(src *models.MaterializedSource, opts Options) *models.DatasetProfile {
	sample, info := Sample(src.Records, opts.SampleCap, opts.SampleScale)

	profile := &models.DatasetProfile{
		SourceID:    src.ID,
		SourceName:  src.Name,
		RowCount:    src.RowCount,
		ColumnCount: len(src.Columns),
		Columns:     make([]*models.ColumnProfile, 0, len(src.Columns)),
		Issues:      []models.Issue{},
		Sampling:    info,
	}

	identifierColumns := 0
	dateValues, freshValues := 0, 0
	var sumCompleteness, sumUniqueness, sumConsistency, sumValidity float64

	for _, col := range src.Columns {
		cp, colErrors, colDates, colFresh := profileColumn(col, sample, opts.ReferenceTime)
		profile.Columns = append(profile.Columns, cp)
		profile.ErrorCellCount += colErrors
		dateValues += colDates
		freshValues += colFresh
		if cp.Pattern == models.PatternIdentifier {
			identifierColumns++
		}
		sumCompleteness += cp.CompletenessPct
		sumUniqueness += cp.UniquenessPct
		sumConsistency += cp.ConsistencyPct
		sumValidity += cp.ValidityPct
		profile.Issues = append(profile.Issues, columnIssues(cp)...)
	}

	if n := float64(len(src.Columns)); n > 0 {
		profile.CompletenessPct = sumCompleteness / n
		profile.UniquenessPct = sumUniqueness / n
		profile.ConsistencyPct = sumConsistency / n
		profile.ValidityPct = sumValidity / n
		profile.LineagePct = float64(identifierColumns) / n * 100
	}

	profile.DuplicateRows, profile.DuplicationPct = duplication(sample)
	profile.TimelinessPct = timeliness(opts.ReferenceTime, dateValues, freshValues)

	profile.QualityScore = clampPct(
		qualityWeightCompleteness*profile.CompletenessPct +
			qualityWeightConsistency*profile.ConsistencyPct +
			qualityWeightValidity*profile.ValidityPct +
			qualityWeightUniqueness*profile.UniquenessPct +
			qualityWeightDeduplication*(100-profile.DuplicationPct))
	profile.TableHealthScore = clampPct(
		healthWeightCompleteness*profile.CompletenessPct +
			healthWeightConsistency*profile.ConsistencyPct +
			healthWeightValidity*profile.ValidityPct +
			healthWeightDeduplication*(100-profile.DuplicationPct) +
			healthWeightTimeliness*profile.TimelinessPct)

	profile.Issues = append(profile.Issues, datasetIssues(profile)...)
	return profile
}

// profileColumn computes one column's statistics over the sample. It also
// returns the column's failing-cell count and its date/fresh value counts
// for the dataset-level timeliness metric.
func profileColumn(col string, sample []models.Record, ref time.Time) (*models.ColumnProfile, int, int, int) {
	values := make([]models.Value, len(sample))
	for i, rec := range sample {
		values[i] = rec[col]
	}

	cp := &models.ColumnProfile{
		Column:       col,
		InferredType: inference.InferType(values),
		Pattern:      inference.DetectPattern(col),
	}

	nonBlank := 0
	distinct := map[string]struct{}{}
	consistent, valid := 0, 0
	dateValues, freshValues := 0, 0
	errorCells := 0
	var numbers []float64

	for _, v := range values {
		if models.IsBlank(v) {
			cp.NullCount++
			errorCells++
			continue
		}
		nonBlank++
		distinct[models.ValueKey(v)] = struct{}{}

		failed := false
		if inference.MatchesType(v, cp.InferredType) {
			consistent++
		} else {
			failed = true
		}
		if inference.Validate(cp.Pattern, v) {
			valid++
		} else {
			failed = true
		}
		if failed {
			errorCells++
		}

		if cp.InferredType == models.TypeNumeric {
			if f, ok := models.AsNumber(v); ok {
				numbers = append(numbers, f)
			}
		}
		if t, ok := models.AsTime(v); ok {
			dateValues++
			if !ref.IsZero() && ref.Sub(t) <= timelinessWindow {
				freshValues++
			}
		}
	}

	cp.UniqueCount = len(distinct)
	if len(values) > 0 {
		cp.CompletenessPct = float64(nonBlank) / float64(len(values)) * 100
	}
	if nonBlank > 0 {
		cp.UniquenessPct = float64(len(distinct)) / float64(nonBlank) * 100
		cp.ConsistencyPct = float64(consistent) / float64(nonBlank) * 100
		cp.ValidityPct = float64(valid) / float64(nonBlank) * 100
	}

	if cp.InferredType == models.TypeNumeric && len(numbers) > 0 {
		cp.Stats = numericStats(numbers)
	}
	return cp, errorCells, dateValues, freshValues
}

// numericStats computes descriptive statistics and the outlier count over
// parsed numeric values.
func numericStats(numbers []float64) *models.NumericStats {
	sorted := append([]float64(nil), numbers...)
	sort.Float64s(sorted)

	n := len(sorted)
	stats := &models.NumericStats{Min: sorted[0], Max: sorted[n-1]}

	var sum float64
	for _, f := range sorted {
		sum += f
	}
	stats.Mean = sum / float64(n)
	stats.Median = percentile(sorted, 0.5)

	var variance float64
	for _, f := range sorted {
		variance += (f - stats.Mean) * (f - stats.Mean)
	}
	stats.StdDev = math.Sqrt(variance / float64(n))
	stats.Mode = mode(sorted)

	iqr := percentile(sorted, 0.75) - percentile(sorted, 0.25)
	for _, f := range sorted {
		if isOutlier(f, stats.Median, stats.Mean, stats.StdDev, iqr) {
			stats.OutlierCount++
		}
	}
	stats.OutlierPct = float64(stats.OutlierCount) / float64(n) * 100
	return stats
}

func isOutlier(v, median, mean, stdDev, iqr float64) bool {
	if iqr > 0 {
		return math.Abs(v-median) > outlierIQRFactor*iqr
	}
	if stdDev > 0 {
		return math.Abs(v-mean) > outlierZFallback*stdDev
	}
	return false
}

// percentile interpolates linearly on a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// mode returns the most frequent value; ties break toward the smaller value
// (the slice is sorted) so the result is deterministic.
func mode(sorted []float64) float64 {
	best, bestCount := sorted[0], 0
	cur, curCount := sorted[0], 0
	for _, f := range sorted {
		if f == cur {
			curCount++
		} else {
			cur, curCount = f, 1
		}
		if curCount > bestCount {
			best, bestCount = cur, curCount
		}
	}
	return best
}

// duplication flags rows whose canonical serialization (keys sorted) equals
// an earlier row's. The flagged count is always
// rowCount - distinctCanonicalSerializations, and every flagged row has at
// least one sibling with an identical serialization. The interactive
// duplicate view applies the same rule, so the two always agree.
func duplication(sample []models.Record) (int, float64) {
	if len(sample) == 0 {
		return 0, 0
	}
	counts := make(map[string]int, len(sample))
	for _, rec := range sample {
		counts[models.CanonicalRow(rec)]++
	}
	dupes := len(sample) - len(counts)
	return dupes, float64(dupes) / float64(len(sample)) * 100
}

// timeliness is the share of sampled date values within the freshness window
// of the reference time. Neutral 100 when timeliness is disabled or the
// sample holds no date values.
func timeliness(ref time.Time, dateValues, freshValues int) float64 {
	if ref.IsZero() || dateValues == 0 {
		return defaultNeutralPct
	}
	return float64(freshValues) / float64(dateValues) * 100
}

func columnIssues(cp *models.ColumnProfile) []models.Issue {
	var issues []models.Issue
	switch {
	case cp.CompletenessPct < completenessHighBelow:
		issues = append(issues, models.Issue{
			Severity: models.SeverityHigh,
			Title:    "Severe missing data",
			Detail:   fmt.Sprintf("column %q is only %.1f%% complete", cp.Column, cp.CompletenessPct),
			Column:   cp.Column,
		})
	case cp.CompletenessPct < completenessMediumBelow:
		issues = append(issues, models.Issue{
			Severity: models.SeverityMedium,
			Title:    "Missing data",
			Detail:   fmt.Sprintf("column %q is %.1f%% complete", cp.Column, cp.CompletenessPct),
			Column:   cp.Column,
		})
	}
	if cp.ValidityPct < validityHighBelow {
		issues = append(issues, models.Issue{
			Severity: models.SeverityHigh,
			Title:    "Invalid values",
			Detail:   fmt.Sprintf("only %.1f%% of column %q passes its %s validator", cp.ValidityPct, cp.Column, cp.Pattern),
			Column:   cp.Column,
		})
	}
	if cp.ConsistencyPct < consistencyMediumBelow {
		issues = append(issues, models.Issue{
			Severity: models.SeverityMedium,
			Title:    "Inconsistent types",
			Detail:   fmt.Sprintf("%.1f%% of column %q matches its inferred %s type", cp.ConsistencyPct, cp.Column, cp.InferredType),
			Column:   cp.Column,
		})
	}
	if cp.Stats != nil && cp.Stats.OutlierCount > 0 {
		issues = append(issues, models.Issue{
			Severity: models.SeverityLow,
			Title:    "Outliers detected",
			Detail:   fmt.Sprintf("column %q has %d outlier value(s)", cp.Column, cp.Stats.OutlierCount),
			Column:   cp.Column,
		})
	}
	return issues
}

func datasetIssues(p *models.DatasetProfile) []models.Issue {
	var issues []models.Issue
	switch {
	case p.DuplicationPct > duplicationHighAbove:
		issues = append(issues, models.Issue{
			Severity: models.SeverityHigh,
			Title:    "Heavy row duplication",
			Detail:   fmt.Sprintf("%.1f%% of sampled rows are duplicates", p.DuplicationPct),
		})
	case p.DuplicationPct > duplicationMediumAbove:
		issues = append(issues, models.Issue{
			Severity: models.SeverityMedium,
			Title:    "Row duplication",
			Detail:   fmt.Sprintf("%.1f%% of sampled rows are duplicates", p.DuplicationPct),
		})
	}
	return issues
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
