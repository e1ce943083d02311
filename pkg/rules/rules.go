// Package rules defines and loads cross-field consistency rule assets.
// Rules are declared in YAML (with a built-in default set compiled in) and
// evaluated by the discovery package against sampled records.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind selects the evaluation semantics of a rule.
type Kind string

const (
	// KindRequiredTogether: when any listed column is non-blank in a row,
	// every listed column must be non-blank.
	KindRequiredTogether Kind = "required_together"
	// KindDateOrder: the listed date columns must be non-decreasing left to
	// right wherever all of them are non-blank.
	KindDateOrder Kind = "date_order"
	// KindNumericRange: the listed numeric column must fall inside [Min,Max].
	KindNumericRange Kind = "numeric_range"
)

// Rule is one declared cross-field (or single-field range) check. A rule
// applies to a source only when the source declares all listed columns.
type Rule struct {
	ID      string   `yaml:"rule_id"`
	Title   string   `yaml:"title"`
	Kind    Kind     `yaml:"kind"`
	Columns []string `yaml:"columns"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
}

// Validate checks structural soundness of a rule definition.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule missing rule_id")
	}
	switch r.Kind {
	case KindRequiredTogether, KindDateOrder:
		if len(r.Columns) < 2 {
			return fmt.Errorf("rule %s: kind %s needs at least two columns", r.ID, r.Kind)
		}
	case KindNumericRange:
		if len(r.Columns) != 1 {
			return fmt.Errorf("rule %s: kind %s needs exactly one column", r.ID, r.Kind)
		}
		if r.Min == nil && r.Max == nil {
			return fmt.Errorf("rule %s: kind %s needs min and/or max", r.ID, r.Kind)
		}
	default:
		return fmt.Errorf("rule %s: unknown kind %q", r.ID, r.Kind)
	}
	return nil
}

// Defaults are the built-in rules applied when no rule asset file is
// configured. They only fire on sources that declare the named columns.
func Defaults() []Rule {
	return []Rule{
		{
			ID:      "temporal-order-created-updated",
			Title:   "created_at must not be after updated_at",
			Kind:    KindDateOrder,
			Columns: []string{"created_at", "updated_at"},
		},
		{
			ID:      "temporal-order-start-end",
			Title:   "start_date must not be after end_date",
			Kind:    KindDateOrder,
			Columns: []string{"start_date", "end_date"},
		},
		{
			ID:      "address-pair",
			Title:   "city and postal_code must be filled together",
			Kind:    KindRequiredTogether,
			Columns: []string{"city", "postal_code"},
		},
	}
}

// Load reads rule definitions from a YAML file. An empty path returns the
// built-in defaults; a configured file replaces them entirely.
func Load(path string) ([]Rule, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var loaded []Rule
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	for i := range loaded {
		if err := loaded[i].Validate(); err != nil {
			return nil, fmt.Errorf("rules file %s: %w", path, err)
		}
	}
	return loaded, nil
}
