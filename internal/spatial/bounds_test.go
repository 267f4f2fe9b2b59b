package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/spatial"
)

func segments() []spatial.Bounded[string] {
	return []spatial.Bounded[string]{
		{Box: spatial.BoxOf([]float64{0, 0}, []float64{10, 0}), Value: "bottom"},
		{Box: spatial.BoxOf([]float64{10, 0}, []float64{10, 10}), Value: "right"},
		{Box: spatial.BoxOf([]float64{10, 10}, []float64{0, 10}), Value: "top"},
		{Box: spatial.BoxOf([]float64{0, 10}, []float64{0, 0}), Value: "left"},
	}
}

func values(in []spatial.Bounded[string]) []string {
	out := make([]string, len(in))
	for i, b := range in {
		out[i] = b.Value
	}
	return out
}

func TestBoxOf(t *testing.T) {
	b := spatial.BoxOf([]float64{3, -1}, []float64{1, 4}, []float64{2, 2})
	assert.Equal(t, []float64{1, -1}, b.Min)
	assert.Equal(t, []float64{3, 4}, b.Max)

	e := b.Expand(1)
	assert.Equal(t, []float64{0, -2}, e.Min)
	assert.Equal(t, []float64{4, 5}, e.Max)
	assert.Equal(t, []float64{1, -1}, b.Min, "Expand must not alias")
}

func TestBoundsIndex_Intersecting(t *testing.T) {
	idx, err := spatial.NewBoundsIndex(segments())
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	got := idx.Intersecting(spatial.BoxOf([]float64{9, 4}, []float64{11, 6}))
	assert.Equal(t, []string{"right"}, values(got))

	got = idx.Intersecting(spatial.BoxOf([]float64{-1, -1}, []float64{1, 1}))
	assert.ElementsMatch(t, []string{"bottom", "left"}, values(got))

	assert.Empty(t, idx.Intersecting(spatial.BoxOf([]float64{4, 4}, []float64{6, 6})))
}

func TestBoundsIndex_NearestK(t *testing.T) {
	idx, err := spatial.NewBoundsIndex(segments())
	require.NoError(t, err)

	got := idx.NearestK([]float64{5, 9}, 1)
	assert.Equal(t, []string{"top"}, values(got))

	assert.Len(t, idx.NearestK([]float64{5, 5}, 10), 4)
}

func TestBoundsIndex_Empty(t *testing.T) {
	idx, err := spatial.NewBoundsIndex[string](nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.NearestK([]float64{0, 0}, 1))
	assert.Empty(t, idx.Intersecting(spatial.BoxOf([]float64{0, 0})))
}
