package treepath

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	paths := []Path{
		{1},
		{255},
		{2, 1},
		{2, 1, 3},
		{1, 1, 1, 1},
		{255, 255, 255, 255},
	}
	for _, p := range paths {
		id, err := Encode(p)
		require.NoError(t, err, "encode %v", p)
		back, err := Decode(id)
		require.NoError(t, err, "decode %v", p)
		assert.Equal(t, p, back)
	}
}

func TestEncodeRejectsBadPaths(t *testing.T) {
	_, err := Encode(Path{})
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Encode(Path{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrDepth)

	_, err = Encode(Path{0})
	assert.ErrorIs(t, err, ErrIndexRange)

	_, err = Encode(Path{256})
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := Decode(0)
	assert.ErrorIs(t, err, ErrMalformedID)

	_, err = Decode(-5)
	assert.ErrorIs(t, err, ErrMalformedID)

	_, err = Decode(1 << 32)
	assert.ErrorIs(t, err, ErrMalformedID)

	// A gap in the byte levels cannot come from Encode. This is
	// path 1.0.3 with a hole in the middle.
	bad := int64(1)<<24 | int64(3)<<8
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestNumericOrderIsPreorder(t *testing.T) {
	// Pre-order traversal of:
	//   1
	//   1.1
	//   1.2
	//   1.2.1
	//   2
	//   2.1
	preorder := []Path{
		{1},
		{1, 1},
		{1, 2},
		{1, 2, 1},
		{2},
		{2, 1},
	}
	ids := make([]int64, len(preorder))
	for i, p := range preorder {
		id, err := Encode(p)
		require.NoError(t, err)
		ids[i] = id
	}
	assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }),
		"encoded ids must sort in pre-order: %v", ids)
}

func TestParent(t *testing.T) {
	id := mustEncode(t, Path{2, 1, 3})
	parent, ok := Parent(id)
	require.True(t, ok)
	assert.Equal(t, mustEncode(t, Path{2, 1}), parent)

	_, ok = Parent(mustEncode(t, Path{2}))
	assert.False(t, ok)
}

func TestIsDescendant(t *testing.T) {
	a := mustEncode(t, Path{2, 1, 3})
	b := mustEncode(t, Path{2, 1})
	c := mustEncode(t, Path{2})
	d := mustEncode(t, Path{3})

	assert.True(t, IsDescendant(a, b))
	assert.True(t, IsDescendant(a, c))
	assert.True(t, IsDescendant(b, c))
	assert.False(t, IsDescendant(b, a), "ancestor is not a descendant")
	assert.False(t, IsDescendant(c, c), "a node is not its own descendant")
	assert.False(t, IsDescendant(a, d))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 1, Depth(mustEncode(t, Path{7})))
	assert.Equal(t, 3, Depth(mustEncode(t, Path{1, 2, 3})))
	assert.Equal(t, 0, Depth(0))
}

func TestStringParse(t *testing.T) {
	p := Path{2, 1, 3}
	assert.Equal(t, "2.1.3", p.String())

	back, err := Parse("2.1.3")
	require.NoError(t, err)
	assert.Equal(t, p, back)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Parse("1.2.3.4.5")
	assert.ErrorIs(t, err, ErrDepth)

	_, err = Parse("0")
	assert.ErrorIs(t, err, ErrIndexRange)

	_, err = Parse("a.b")
	assert.Error(t, err)
}

func mustEncode(t *testing.T, p Path) int64 {
	t.Helper()
	id, err := Encode(p)
	require.NoError(t, err)
	return id
}
