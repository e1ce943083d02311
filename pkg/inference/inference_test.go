package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

func vals(vs ...models.Value) []models.Value { return vs }

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []models.Value
		want   models.InferredType
	}{
		{"numeric floats", vals(float64(1), float64(2.5)), models.TypeNumeric},
		{"numeric strings", vals("1", "2", "3"), models.TypeNumeric},
		{"dates", vals("2024-01-01", "2024-02-01"), models.TypeDate},
		{"booleans", vals("yes", "no", "yes"), models.TypeBoolean},
		{"text", vals("alpha", "beta"), models.TypeText},
		{"mixed dynamic types", vals(float64(1), "alpha", true), models.TypeMixed},
		{"all blank defaults to text", vals(nil, "", "  "), models.TypeText},
		{"blanks ignored", vals(nil, "5", ""), models.TypeNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(tt.values))
		})
	}
}

func TestInferType_BooleanNeedsTwoDistinct(t *testing.T) {
	// 0/1 values with more than two distinct members cannot occur, but a
	// 0/1-only column is boolean, not numeric.
	assert.Equal(t, models.TypeBoolean, InferType(vals("0", "1", "0")))

	// Numbers beyond the 0/1 pair stay numeric even though "1" is a
	// boolean-like token.
	assert.Equal(t, models.TypeNumeric, InferType(vals("0", "1", "2")))
}

func TestMatchesType(t *testing.T) {
	assert.True(t, MatchesType("42", models.TypeNumeric))
	assert.False(t, MatchesType("x", models.TypeNumeric))
	assert.True(t, MatchesType("2024-01-01", models.TypeDate))
	assert.True(t, MatchesType("no", models.TypeBoolean))
	assert.True(t, MatchesType("anything", models.TypeText))
	assert.False(t, MatchesType(float64(1), models.TypeText))
	assert.True(t, MatchesType(float64(1), models.TypeMixed))
}

func TestDetectPattern(t *testing.T) {
	tests := []struct {
		column string
		want   models.Pattern
	}{
		{"email", models.PatternEmail},
		{"contact_email", models.PatternEmail},
		{"phone_number", models.PatternPhone},
		{"zip", models.PatternPostal},
		{"postal_code", models.PatternPostal},
		{"homepage_url", models.PatternURL},
		{"created_at", models.PatternDate},
		{"birth_date", models.PatternDate},
		{"id", models.PatternIdentifier},
		{"user_id", models.PatternIdentifier},
		{"order_key", models.PatternIdentifier},
		{"amount", models.PatternGeneral},
		// Short generic fragments must not match mid-word.
		{"rapid", models.PatternGeneral},
		{"decoder", models.PatternGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPattern(tt.column))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(models.PatternEmail, "a@b.com"))
	assert.False(t, Validate(models.PatternEmail, "not-an-email"))

	assert.True(t, Validate(models.PatternPhone, "+1 (555) 123-4567"))
	assert.False(t, Validate(models.PatternPhone, "call me"))

	assert.True(t, Validate(models.PatternURL, "https://example.com/x"))
	assert.False(t, Validate(models.PatternURL, "example.com"))

	assert.True(t, Validate(models.PatternDate, "2024-03-04"))
	assert.False(t, Validate(models.PatternDate, "soon"))

	assert.True(t, Validate(models.PatternIdentifier, "550e8400-e29b-41d4-a716-446655440000"))
	assert.True(t, Validate(models.PatternIdentifier, "ORD-1234"))
	assert.True(t, Validate(models.PatternIdentifier, float64(42)))
	assert.False(t, Validate(models.PatternIdentifier, "two words"))

	// Columns without a value rule accept everything.
	assert.True(t, Validate(models.PatternGeneral, "anything at all"))
}
