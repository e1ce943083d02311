// Package models defines the domain types shared by the dq-engine core:
// workspaces, datasets, views, materialized sources, profiles, KPIs, the
// knowledge graph, and the hierarchy tree.
package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Value is a single table cell. It is a closed variant: the engine only ever
// stores nil, float64, string, bool, or time.Time in a Value. Ingestion
// adapters and JSON decoding normalize everything else (int64, []byte,
// json.Number, ...) through NormalizeValue before a record enters a Dataset.
type Value = any

// Record is one table row. Insertion order of records in a Dataset is row order.
type Record = map[string]Value

// NormalizeValue coerces an arbitrary scanned/decoded value into the closed
// Value variant. Unknown types fall back to their string rendering so
// profiling stays exhaustive.
func NormalizeValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		return x
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// IsBlank reports whether a cell counts as missing: nil or an
// empty/whitespace-only string.
func IsBlank(v Value) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// dateLayouts are the calendar formats accepted when coercing strings to dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	time.RFC1123,
}

// AsNumber coerces a value to float64. Strings are parsed; booleans and
// dates do not coerce.
func AsNumber(v Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsTime coerces a value to a calendar date/time. Strings are tried against
// the accepted layouts. Bare numbers are not treated as dates.
func AsTime(v Value) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// booleanTokens are the string forms accepted as boolean-like values.
// Mirrors the token sets accepted during column scanning: 0/1, true/false,
// yes/no, y/n, t/f (case-insensitive).
var booleanTokens = map[string]bool{
	"0": false, "1": true,
	"true": true, "false": false,
	"yes": true, "no": false,
	"y": true, "n": false,
	"t": true, "f": false,
}

// AsBool coerces a value to a boolean using the boolean-like token set.
func AsBool(v Value) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, ok := booleanTokens[strings.ToLower(strings.TrimSpace(x))]
		return b, ok
	case float64:
		if x == 0 {
			return false, true
		}
		if x == 1 {
			return true, true
		}
		return false, false
	default:
		return false, false
	}
}

// ValueKey renders a value as a canonical comparison key. Equal cells always
// produce equal keys regardless of how they were ingested, so distinct
// counting, join indexing, and overlap measurement all agree.
func ValueKey(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case string:
		return strings.TrimSpace(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// CanonicalRow serializes a full record with keys in sorted order. Two rows
// are duplicates exactly when their canonical serializations are equal; the
// interactive duplicate view and DatasetProfile.DuplicationPct both use this.
func CanonicalRow(rec Record) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\x1f')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(ValueKey(rec[k]))
	}
	return sb.String()
}
