package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDeterminism(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestIntInclusiveBounds(t *testing.T) {
	s := NewSource(7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := s.Int(2, 5)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 4, "all values in [2,5] should appear")
}

func TestIntDegenerateRange(t *testing.T) {
	s := NewSource(1)
	assert.Equal(t, 3, s.Int(3, 3))
	assert.Equal(t, 3, s.Int(3, 1))
}

func TestChanceExtremes(t *testing.T) {
	s := NewSource(1)
	assert.False(t, s.Chance(0))
	assert.True(t, s.Chance(1))
}

func TestFloatRange(t *testing.T) {
	s := NewSource(3)
	for i := 0; i < 1000; i++ {
		v := s.FloatRange(0.5, 1.5)
		require.GreaterOrEqual(t, v, 0.5)
		require.Less(t, v, 1.5)
	}
	assert.Equal(t, 2.0, s.FloatRange(2.0, 1.0))
}

func TestChoiceAndSample(t *testing.T) {
	s := NewSource(11)
	items := []string{"a", "b", "c", "d"}

	assert.Contains(t, items, Choice(s, items))
	assert.Equal(t, "", Choice(s, []string{}))

	picked := Sample(s, items, 2)
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0], picked[1])

	all := Sample(s, items, 10)
	assert.Len(t, all, 4)
	assert.Nil(t, Sample(s, items, 0))
	assert.Equal(t, []string{"a", "b", "c", "d"}, items, "input must not be reordered")
}

func TestWeightedIndex(t *testing.T) {
	s := NewSource(5)
	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		counts[s.WeightedIndex([]float64{1, 0, 9})]++
	}
	assert.Zero(t, counts[1], "zero-weight index must never be picked")
	assert.Greater(t, counts[2], counts[0])

	assert.Equal(t, 0, s.WeightedIndex([]float64{0, 0}))
	assert.Equal(t, 0, s.WeightedIndex(nil))
}

func TestSeedZeroPicksOne(t *testing.T) {
	s := NewSource(0)
	assert.NotZero(t, s.Seed())
}
