package spatial_test

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/spatial"
)

func grid() []spatial.Item[string] {
	return []spatial.Item[string]{
		{Point: []float64{0, 0}, Value: "origin"},
		{Point: []float64{10, 0}, Value: "east"},
		{Point: []float64{0, 10}, Value: "north"},
		{Point: []float64{10, 10}, Value: "northeast"},
		{Point: []float64{5, 5}, Value: "center"},
	}
}

func TestKDTree_Nearest(t *testing.T) {
	tree, err := spatial.NewKDTree(grid())
	require.NoError(t, err)
	assert.Equal(t, 5, tree.Len())

	n, ok := tree.Nearest([]float64{9, 1})
	require.True(t, ok)
	assert.Equal(t, "east", n.Value)
	assert.InDelta(t, 2.0, n.Distance, 1e-12)

	n, ok = tree.Nearest([]float64{4, 6})
	require.True(t, ok)
	assert.Equal(t, "center", n.Value)
}

func TestKDTree_NearestK(t *testing.T) {
	tree, err := spatial.NewKDTree(grid())
	require.NoError(t, err)

	got := tree.NearestK([]float64{1, 1}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "origin", got[0].Value)
	assert.Equal(t, "center", got[1].Value)
	assert.LessOrEqual(t, got[1].Distance, got[2].Distance)

	assert.Len(t, tree.NearestK([]float64{1, 1}, 50), 5)
	assert.Empty(t, tree.NearestK([]float64{1, 1, 1}, 1), "dimension mismatch yields nothing")
}

func TestKDTree_Within(t *testing.T) {
	tree, err := spatial.NewKDTree(grid())
	require.NoError(t, err)

	// Squared radius 50 covers the center (distance^2 = 50) and the origin.
	got := tree.Within([]float64{0, 0}, 50)
	require.Len(t, got, 2)
	assert.Equal(t, "origin", got[0].Value)
	assert.Equal(t, "center", got[1].Value)
}

func TestKDTree_CustomDistance(t *testing.T) {
	manhattan := func(a, b []float64) float64 {
		var sum float64
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	}
	tree, err := spatial.NewKDTree(grid(), spatial.WithDistance(manhattan))
	require.NoError(t, err)

	n, ok := tree.Nearest([]float64{9, 2})
	require.True(t, ok)
	assert.Equal(t, "east", n.Value)
	assert.InDelta(t, 3.0, n.Distance, 1e-12)
}

func TestKDTree_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	items := make([]spatial.Item[int], 200)
	for i := range items {
		items[i] = spatial.Item[int]{Point: []float64{r.Float64() * 100, r.Float64() * 100, r.Float64() * 100}, Value: i}
	}
	tree, err := spatial.NewKDTree(items)
	require.NoError(t, err)

	for range 25 {
		q := []float64{r.Float64() * 100, r.Float64() * 100, r.Float64() * 100}
		want := make([]float64, len(items))
		for i, it := range items {
			want[i] = spatial.SquaredEuclidean(q, it.Point)
		}
		sort.Float64s(want)

		got := tree.NearestK(q, 4)
		require.Len(t, got, 4)
		for i := range got {
			assert.InDelta(t, want[i], got[i].Distance, 1e-9)
		}
	}
}

func TestKDTree_Empty(t *testing.T) {
	tree, err := spatial.NewKDTree[string](nil)
	require.NoError(t, err)
	_, ok := tree.Nearest([]float64{0, 0})
	assert.False(t, ok)
}

func TestKDTree_DimensionMismatch(t *testing.T) {
	_, err := spatial.NewKDTree([]spatial.Item[int]{
		{Point: []float64{0, 0}},
		{Point: []float64{0, 0, 0}},
	})
	assert.ErrorContains(t, err, "dimension mismatch")
}
