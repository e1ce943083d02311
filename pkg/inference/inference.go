// Package inference classifies column values into semantic types and detects
// common column patterns (email, phone, postal, date, identifier). Every
// other profiling and discovery component builds on it.
package inference

import (
	"github.com/dqanalyst/dq-engine/pkg/models"
)

// InferType classifies a sample of column values. All non-blank values must
// agree on a type for it to win; incompatible mixes yield mixed. An empty
// (all-blank) sample yields text.
//
// Precedence when a value satisfies several coercions (e.g. "1" is numeric
// and boolean-like): boolean only wins when every value is boolean-like AND
// at most two distinct values occur; numeric beats date for bare numbers.
func InferType(values []models.Value) models.InferredType {
	nonBlank := make([]models.Value, 0, len(values))
	for _, v := range values {
		if !models.IsBlank(v) {
			nonBlank = append(nonBlank, v)
		}
	}
	if len(nonBlank) == 0 {
		return models.TypeText
	}

	allNumeric, allDate, allBool, allText := true, true, true, true
	distinct := map[string]struct{}{}
	for _, v := range nonBlank {
		if _, ok := models.AsNumber(v); !ok {
			allNumeric = false
		}
		if _, ok := models.AsTime(v); !ok {
			allDate = false
		}
		if _, ok := models.AsBool(v); !ok {
			allBool = false
		}
		if _, isStr := v.(string); !isStr {
			allText = false
		}
		distinct[models.ValueKey(v)] = struct{}{}
	}

	switch {
	case allBool && len(distinct) <= 2:
		return models.TypeBoolean
	case allNumeric:
		return models.TypeNumeric
	case allDate:
		return models.TypeDate
	case allText:
		return models.TypeText
	default:
		// Values that are neither uniformly coercible nor uniformly strings:
		// a mix of incompatible dynamic types.
		return models.TypeMixed
	}
}

// MatchesType reports whether a single non-blank value is consistent with
// the column's inferred type. Used for the consistency metric.
func MatchesType(v models.Value, t models.InferredType) bool {
	switch t {
	case models.TypeNumeric:
		_, ok := models.AsNumber(v)
		return ok
	case models.TypeDate:
		_, ok := models.AsTime(v)
		return ok
	case models.TypeBoolean:
		_, ok := models.AsBool(v)
		return ok
	case models.TypeText:
		_, ok := v.(string)
		return ok
	default:
		// mixed accepts anything
		return true
	}
}
