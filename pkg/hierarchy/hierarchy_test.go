package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

func records() []models.Record {
	return []models.Record{
		{"region": "east", "city": "Boston"},
		{"region": "east", "city": "Boston"},
		{"region": "east", "city": "Albany"},
		{"region": "west", "city": "Denver"},
		{"region": nil, "city": "Nowhere"},
	}
}

func TestBuild_GroupsAndCounts(t *testing.T) {
	tree := Build(records(), []string{"region", "city"})
	require.Len(t, tree, 3)

	// Groups appear in first-seen record order.
	assert.Equal(t, "east", tree[0].Label)
	assert.Equal(t, "west", tree[1].Label)
	assert.Equal(t, models.BlankGroupLabel, tree[2].Label)

	assert.Equal(t, 3, tree[0].Count)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Boston", tree[0].Children[0].Label)
	assert.Equal(t, 2, tree[0].Children[0].Count)
	assert.Equal(t, "Albany", tree[0].Children[1].Label)
}

func TestBuild_CountConservation(t *testing.T) {
	recs := records()
	tree := Build(recs, []string{"region", "city"})

	// Counts at each level sum to the parent's count.
	total := 0
	for _, n := range tree {
		total += n.Count
		childSum := 0
		for _, c := range n.Children {
			childSum += c.Count
		}
		assert.Equal(t, n.Count, childSum, "node %s", n.ID)
	}
	assert.Equal(t, len(recs), total)
}

func TestBuild_PathIDs(t *testing.T) {
	tree := Build(records(), []string{"region", "city"})
	assert.Equal(t, "/east", tree[0].ID)
	assert.Equal(t, "/east/Boston", tree[0].Children[0].ID)
	assert.Equal(t, "/"+models.BlankGroupLabel, tree[2].ID)
}

func TestBuild_LeafLevelHasNoChildren(t *testing.T) {
	tree := Build(records(), []string{"region"})
	require.Len(t, tree, 3)
	for _, n := range tree {
		assert.Empty(t, n.Children)
	}
}

func TestBuild_EmptyInputs(t *testing.T) {
	assert.Empty(t, Build(records(), nil))
	assert.Empty(t, Build(nil, []string{"region"}))
}
