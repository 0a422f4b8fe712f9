package ordered_test

import (
	"testing"

	"github.com/crystalshelf/cif/internal/ordered"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := ordered.New[int](0)
	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("c", 3)

	require.Equal(t, []string{"b", "a", "c"}, m.Keys())
	require.Equal(t, 3, m.Len())
}

func TestMapOverwriteKeepsPosition(t *testing.T) {
	m := ordered.New[int](0)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 99)

	require.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 99, v)
}

func TestMapCloneIsIndependent(t *testing.T) {
	m := ordered.New[int](0)
	m.Set("a", 1)

	clone := m.Clone()
	clone.Set("b", 2)

	require.Equal(t, 1, m.Len())
	require.Equal(t, 2, clone.Len())
	require.False(t, m.Has("b"))
}

func TestMapGetMissingKey(t *testing.T) {
	m := ordered.New[string](0)
	_, ok := m.Get("missing")
	require.False(t, ok)
}
