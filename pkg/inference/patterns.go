package inference

import (
	"regexp"
	"strings"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// valuePatterns are matched against column DATA to confirm a name-detected
// pattern during validity scoring.
var valuePatterns = map[models.Pattern]*regexp.Regexp{
	models.PatternEmail:  regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),
	models.PatternPhone:  regexp.MustCompile(`^\+?[0-9][0-9 ().\-]{5,19}$`),
	models.PatternPostal: regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{2,9}$`),
	models.PatternURL:    regexp.MustCompile(`^https?://`),
}

// uuidPattern recognizes canonical UUID strings for identifier validation.
var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// nameHints map column-name fragments to patterns, checked in order so the
// more specific hint wins (e.g. "email" before "mail").
var nameHints = []struct {
	fragment string
	pattern  models.Pattern
}{
	{"email", models.PatternEmail},
	{"e_mail", models.PatternEmail},
	{"phone", models.PatternPhone},
	{"mobile", models.PatternPhone},
	{"fax", models.PatternPhone},
	{"postal", models.PatternPostal},
	{"zip", models.PatternPostal},
	{"url", models.PatternURL},
	{"website", models.PatternURL},
	{"date", models.PatternDate},
	{"time", models.PatternDate},
	{"_at", models.PatternDate},
	{"uuid", models.PatternIdentifier},
	{"guid", models.PatternIdentifier},
	{"_id", models.PatternIdentifier},
	{"id", models.PatternIdentifier},
	{"key", models.PatternIdentifier},
	{"code", models.PatternIdentifier},
}

// DetectPattern tags a column by its name. Detection is name-driven; the
// validators below confirm against values. Columns with no hint are general.
func DetectPattern(columnName string) models.Pattern {
	name := strings.ToLower(strings.TrimSpace(columnName))
	for _, h := range nameHints {
		if h.fragment == "id" || h.fragment == "key" || h.fragment == "code" {
			// Short generic fragments only match as exact name or suffix to
			// avoid tagging e.g. "rapid" or "decoder".
			if name == h.fragment || strings.HasSuffix(name, "_"+h.fragment) {
				return h.pattern
			}
			continue
		}
		if strings.Contains(name, h.fragment) {
			return h.pattern
		}
	}
	return models.PatternGeneral
}

// Validate reports whether a non-blank value passes the pattern-specific
// validator. Patterns without a value rule (general) accept everything, so
// validity defaults to 100% when no rule applies.
func Validate(p models.Pattern, v models.Value) bool {
	switch p {
	case models.PatternDate:
		_, ok := models.AsTime(v)
		return ok
	case models.PatternIdentifier:
		// Identifiers are valid when non-blank and single-token: either a
		// UUID, a number, or a string without embedded whitespace.
		if _, ok := models.AsNumber(v); ok {
			return true
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		s = strings.TrimSpace(s)
		return uuidPattern.MatchString(s) || !strings.ContainsAny(s, " \t")
	case models.PatternEmail, models.PatternPhone, models.PatternPostal, models.PatternURL:
		s, ok := v.(string)
		if !ok {
			return false
		}
		return valuePatterns[p].MatchString(strings.TrimSpace(s))
	default:
		return true
	}
}
