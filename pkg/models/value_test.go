package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue(t *testing.T) {
	assert.Nil(t, NormalizeValue(nil))
	assert.Equal(t, float64(42), NormalizeValue(int64(42)))
	assert.Equal(t, float64(7), NormalizeValue(7))
	assert.Equal(t, "bytes", NormalizeValue([]byte("bytes")))
	assert.Equal(t, true, NormalizeValue(true))
	assert.Equal(t, "hello", NormalizeValue("hello"))

	// NaN and infinities are unusable in comparisons; they normalize to nil.
	assert.Nil(t, NormalizeValue(math.NaN()))
	assert.Nil(t, NormalizeValue(math.Inf(1)))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.False(t, IsBlank("x"))
	assert.False(t, IsBlank(float64(0)))
	assert.False(t, IsBlank(false))
}

func TestAsNumber(t *testing.T) {
	f, ok := AsNumber(float64(3.5))
	require.True(t, ok)
	assert.Equal(t, 3.5, f)

	f, ok = AsNumber(" 12 ")
	require.True(t, ok)
	assert.Equal(t, float64(12), f)

	_, ok = AsNumber("twelve")
	assert.False(t, ok)

	// Booleans and dates never coerce to numbers.
	_, ok = AsNumber(true)
	assert.False(t, ok)
	_, ok = AsNumber(time.Now())
	assert.False(t, ok)
}

func TestAsTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	got, ok := AsTime(now)
	require.True(t, ok)
	assert.Equal(t, now, got)

	got, ok = AsTime("2024-05-01")
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())

	_, ok = AsTime("2024-05-01T10:00:00Z")
	assert.True(t, ok)
	_, ok = AsTime("01/02/2006")
	assert.True(t, ok)

	// Bare numbers are not dates.
	_, ok = AsTime(float64(20240501))
	assert.False(t, ok)
	_, ok = AsTime("not a date")
	assert.False(t, ok)
}

func TestAsBool(t *testing.T) {
	cases := map[string]bool{
		"true": true, "FALSE": false, "yes": true, "No": false,
		"y": true, "n": false, "T": true, "f": false, "1": true, "0": false,
	}
	for in, want := range cases {
		got, ok := AsBool(in)
		require.True(t, ok, "token %q", in)
		assert.Equal(t, want, got, "token %q", in)
	}

	got, ok := AsBool(float64(1))
	require.True(t, ok)
	assert.True(t, got)

	_, ok = AsBool(float64(2))
	assert.False(t, ok)
	_, ok = AsBool("maybe")
	assert.False(t, ok)
}

func TestValueKey_EqualCellsAgree(t *testing.T) {
	// The same logical value ingested different ways must produce one key.
	assert.Equal(t, ValueKey(float64(5)), ValueKey(NormalizeValue(int64(5))))
	assert.Equal(t, ValueKey("x"), ValueKey("  x  "))
	assert.Equal(t, "", ValueKey(nil))

	utc := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("plus2", 2*3600))
	assert.Equal(t, ValueKey(utc), ValueKey(offset))
}

func TestCanonicalRow(t *testing.T) {
	a := Record{"b": float64(1), "a": "x"}
	b := Record{"a": "x", "b": float64(1)}
	assert.Equal(t, CanonicalRow(a), CanonicalRow(b))

	c := Record{"a": "x", "b": float64(2)}
	assert.NotEqual(t, CanonicalRow(a), CanonicalRow(c))
}

func TestDataset_WithUpdatedRow_CopyOnWrite(t *testing.T) {
	ds := &Dataset{
		Columns:  []string{"a"},
		Records:  []Record{{"a": "old"}, {"a": "keep"}},
		RowCount: 2,
	}

	next := ds.WithUpdatedRow(0, Record{"a": "new"})
	require.NotSame(t, ds, next)
	assert.Equal(t, "old", ds.Records[0]["a"])
	assert.Equal(t, "new", next.Records[0]["a"])

	// Out-of-range edits are ignored.
	assert.Same(t, ds, ds.WithUpdatedRow(5, Record{"a": "x"}))
}

func TestDataset_WithDeletedRow(t *testing.T) {
	ds := &Dataset{
		Columns:  []string{"a"},
		Records:  []Record{{"a": "first"}, {"a": "second"}},
		RowCount: 2,
	}

	next := ds.WithDeletedRow(0)
	assert.Equal(t, 2, ds.RowCount)
	assert.Equal(t, 1, next.RowCount)
	assert.Equal(t, "second", next.Records[0]["a"])
}
