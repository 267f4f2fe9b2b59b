package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/spatial"
)

// twoRooms is a 2x1 grid of unit squares sharing the edge b-e:
//
//	a - b - c
//	|   |   |
//	d - e - f
func twoRooms() spatial.Adjacency {
	arcs := map[string][]spatial.Arc{}
	link := func(from, to string) {
		via := from + to
		arcs[from] = append(arcs[from], spatial.Arc{To: to, Via: via, Weight: 1})
		arcs[to] = append(arcs[to], spatial.Arc{To: from, Via: via, Weight: 1})
	}
	link("a", "b")
	link("b", "c")
	link("a", "d")
	link("b", "e")
	link("c", "f")
	link("d", "e")
	link("e", "f")
	return func(n string) []spatial.Arc { return arcs[n] }
}

func TestShortestLoop(t *testing.T) {
	loop, err := spatial.ShortestLoop(twoRooms(), "a", "b", "ab", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "e", "d"}, loop.Nodes)
	assert.Equal(t, []string{"ab", "be", "de", "ad"}, loop.Arcs)
	assert.InDelta(t, 4.0, loop.Length, 0)
}

func TestShortestLoop_NoLoop(t *testing.T) {
	adj := func(n string) []spatial.Arc {
		switch n {
		case "a":
			return []spatial.Arc{{To: "b", Via: "ab", Weight: 1}}
		case "b":
			return []spatial.Arc{{To: "a", Via: "ab", Weight: 1}}
		}
		return nil
	}

	_, err := spatial.ShortestLoop(adj, "a", "b", "ab", 1)
	assert.ErrorContains(t, err, "no loop found")
}
