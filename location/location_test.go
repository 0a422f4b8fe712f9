package location_test

import (
	"testing"

	"github.com/crystalshelf/cif/location"
	"github.com/stretchr/testify/require"
)

func TestSpanMerge(t *testing.T) {
	a := location.New("f", 1, 1, 1, 5)
	b := location.New("f", 2, 1, 2, 3)
	merged := location.Merge(a, b)
	require.Equal(t, location.Position{Line: 1, Column: 1}, merged.Start)
	require.Equal(t, location.Position{Line: 2, Column: 3}, merged.End)
}

func TestSpanMergeZero(t *testing.T) {
	a := location.Span{}
	b := location.New("f", 1, 1, 1, 2)
	require.Equal(t, b, location.Merge(a, b))
	require.Equal(t, b, location.Merge(b, a))
}

func TestSpanMergePanicsOnSourceMismatch(t *testing.T) {
	a := location.New("f1", 1, 1, 1, 2)
	b := location.New("f2", 1, 1, 1, 2)
	require.Panics(t, func() { location.Merge(a, b) })
}

func TestCompareOrdersByStartThenEnd(t *testing.T) {
	a := location.New("f", 1, 1, 1, 2)
	b := location.New("f", 1, 5, 1, 6)
	require.Negative(t, location.Compare(a, b))
	require.Positive(t, location.Compare(b, a))
	require.Zero(t, location.Compare(a, a))
}

func TestPositionBefore(t *testing.T) {
	require.True(t, (location.Position{Line: 1, Column: 5}).Before(location.Position{Line: 2, Column: 1}))
	require.False(t, (location.Position{Line: 2, Column: 1}).Before(location.Position{Line: 1, Column: 5}))
}

func TestSpanStringAndIsZero(t *testing.T) {
	var z location.Span
	require.True(t, z.IsZero())
	require.Equal(t, "<no location>", z.String())

	s := location.Point("f.cif", 3, 4)
	require.False(t, s.IsZero())
	require.Equal(t, "f.cif:3:4-3:4", s.String())
}
