package treepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWalkPreorder(t *testing.T) {
	ids := []int64{
		mustEncode(t, Path{2}),
		mustEncode(t, Path{1, 2}),
		mustEncode(t, Path{1}),
		mustEncode(t, Path{1, 1}),
	}
	root, err := Build(ids)
	require.NoError(t, err)

	var visited []int64
	root.Walk(func(n *Node) {
		visited = append(visited, n.ID)
	})
	assert.Equal(t, []int64{
		mustEncode(t, Path{1}),
		mustEncode(t, Path{1, 1}),
		mustEncode(t, Path{1, 2}),
		mustEncode(t, Path{2}),
	}, visited)
}

func TestConsecutiveAlreadyCanonical(t *testing.T) {
	ids := []int64{
		mustEncode(t, Path{1}),
		mustEncode(t, Path{1, 1}),
		mustEncode(t, Path{2}),
	}
	mapping, err := Consecutive(ids)
	require.NoError(t, err)
	for _, id := range ids {
		assert.Equal(t, id, mapping[id], "canonical ids must map to themselves")
	}
}

func TestConsecutiveClosesGaps(t *testing.T) {
	// Sibling lists 2,5 at top level and 3,7 under the first: canonical
	// form is 1,2 and 1.1,1.2.
	ids := []int64{
		mustEncode(t, Path{2}),
		mustEncode(t, Path{5}),
		mustEncode(t, Path{2, 3}),
		mustEncode(t, Path{2, 7}),
	}
	mapping, err := Consecutive(ids)
	require.NoError(t, err)

	assert.Equal(t, mustEncode(t, Path{1}), mapping[mustEncode(t, Path{2})])
	assert.Equal(t, mustEncode(t, Path{2}), mapping[mustEncode(t, Path{5})])
	assert.Equal(t, mustEncode(t, Path{1, 1}), mapping[mustEncode(t, Path{2, 3})])
	assert.Equal(t, mustEncode(t, Path{1, 2}), mapping[mustEncode(t, Path{2, 7})])
}

func TestConsecutivePromotesOrphans(t *testing.T) {
	// 3.1 and 3.2 exist but 3 itself does not: the children are spliced
	// into the top-level sibling list after 1.
	ids := []int64{
		mustEncode(t, Path{1}),
		mustEncode(t, Path{3, 1}),
		mustEncode(t, Path{3, 2}),
	}
	mapping, err := Consecutive(ids)
	require.NoError(t, err)

	assert.Equal(t, mustEncode(t, Path{1}), mapping[mustEncode(t, Path{1})])
	assert.Equal(t, mustEncode(t, Path{2}), mapping[mustEncode(t, Path{3, 1})])
	assert.Equal(t, mustEncode(t, Path{3}), mapping[mustEncode(t, Path{3, 2})])
}

func TestConsecutiveKeepsDescendantsAttached(t *testing.T) {
	ids := []int64{
		mustEncode(t, Path{4}),
		mustEncode(t, Path{4, 2}),
		mustEncode(t, Path{4, 2, 9}),
	}
	mapping, err := Consecutive(ids)
	require.NoError(t, err)

	assert.Equal(t, mustEncode(t, Path{1}), mapping[mustEncode(t, Path{4})])
	assert.Equal(t, mustEncode(t, Path{1, 1}), mapping[mustEncode(t, Path{4, 2})])
	assert.Equal(t, mustEncode(t, Path{1, 1, 1}), mapping[mustEncode(t, Path{4, 2, 9})])
}

func TestConsecutiveFlat(t *testing.T) {
	mapping := ConsecutiveFlat([]int64{10, 2, 7})
	assert.Equal(t, map[int64]int64{2: 1, 7: 2, 10: 3}, mapping)

	assert.Empty(t, ConsecutiveFlat(nil))
}
