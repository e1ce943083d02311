package discovery

import (
	"slices"

	"github.com/dqanalyst/dq-engine/pkg/models"
	"github.com/dqanalyst/dq-engine/pkg/profiling"
	"github.com/dqanalyst/dq-engine/pkg/rules"
)

// warnIssueRatio is the failing-row share below which a rule reports warn
// instead of fail.
const warnIssueRatio = 0.05

// RunCrossFieldChecks evaluates the given multi-column rules over a sample of
// the source. A rule only applies when the source declares all its columns.
// Failing rows are counted, not enumerated; drill-down re-derives them from
// the raw dataset on demand.
func RunCrossFieldChecks(src *models.MaterializedSource, ruleSet []rules.Rule, opts Options) []models.CrossFieldResult {
	opts = opts.withDefaults()
	sample, _ := profiling.Sample(src.Records, opts.SampleCap, opts.SampleScale)

	var results []models.CrossFieldResult
	for _, rule := range ruleSet {
		if !appliesTo(src, rule) {
			continue
		}
		issues := 0
		for _, rec := range sample {
			if !rowPasses(rec, rule) {
				issues++
			}
		}
		results = append(results, models.CrossFieldResult{
			RuleID:      rule.ID,
			Title:       rule.Title,
			Columns:     rule.Columns,
			CheckedRows: len(sample),
			IssueCount:  issues,
			Status:      status(issues, len(sample)),
		})
	}
	return results
}

func appliesTo(src *models.MaterializedSource, rule rules.Rule) bool {
	for _, col := range rule.Columns {
		if !slices.Contains(src.Columns, col) {
			return false
		}
	}
	return true
}

func rowPasses(rec models.Record, rule rules.Rule) bool {
	switch rule.Kind {
	case rules.KindRequiredTogether:
		any, all := false, true
		for _, col := range rule.Columns {
			if models.IsBlank(rec[col]) {
				all = false
			} else {
				any = true
			}
		}
		return !any || all
	case rules.KindDateOrder:
		// Enforced only where every listed column parses as a date.
		prevSet := false
		var prev int64
		for _, col := range rule.Columns {
			t, ok := models.AsTime(rec[col])
			if !ok {
				return true
			}
			if prevSet && t.UnixNano() < prev {
				return false
			}
			prev, prevSet = t.UnixNano(), true
		}
		return true
	case rules.KindNumericRange:
		f, ok := models.AsNumber(rec[rule.Columns[0]])
		if !ok {
			return true // blank or non-numeric cells are completeness issues, not range issues
		}
		if rule.Min != nil && f < *rule.Min {
			return false
		}
		if rule.Max != nil && f > *rule.Max {
			return false
		}
		return true
	default:
		return true
	}
}

func status(issues, checked int) models.CheckStatus {
	if issues == 0 {
		return models.CheckPass
	}
	if checked > 0 && float64(issues)/float64(checked) <= warnIssueRatio {
		return models.CheckWarn
	}
	return models.CheckFail
}
