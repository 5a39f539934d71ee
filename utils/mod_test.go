package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	t.Run("finding the first match", func(t *testing.T) {
		require.Equal(t, 1, FindIndex([]string{"a", "b", "b"}, "b"))
	})

	t.Run("missing item", func(t *testing.T) {
		require.Equal(t, -1, FindIndex([]int{1, 2}, 3))
		require.Equal(t, -1, FindIndex([]int(nil), 3))
	})

	t.Run("interface values", func(t *testing.T) {
		type take struct{ pile, count int }
		items := []any{"x", 2, take{1, 2}}
		require.Equal(t, 2, FindIndex(items, any(take{1, 2})))
		require.Equal(t, -1, FindIndex(items, any(take{2, 1})))
	})
}
