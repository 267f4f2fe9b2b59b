package spatial

import (
	"slices"

	"go.trai.ch/zerr"
)

// Arc is a weighted, labeled connection between two nodes of an undirected graph.
type Arc struct {
	To     string
	Via    string
	Weight float64
}

// Adjacency returns the arcs leaving node.
type Adjacency func(node string) []Arc

// Loop is a closed walk through the graph.
type Loop struct {
	// Nodes lists the nodes in walk order, starting at the source of the requested arc.
	Nodes []string
	// Arcs lists the arc labels; Arcs[i] joins Nodes[i] to the next node, wrapping around.
	Arcs   []string
	Length float64
}

// ShortestLoop returns the minimal loop that contains the arc via from a to b. It searches
// for the shortest path from b back to a that does not use via itself.
func ShortestLoop(adj Adjacency, a, b, via string, weight float64) (Loop, error) {
	dist := map[string]float64{b: 0}
	prev := make(map[string]Arc)
	prevNode := make(map[string]string)
	done := make(map[string]bool)

	q := NewPriorityQueue[string]()
	q.Add(b, 0)
	for q.Size() > 0 {
		n, err := q.RemoveMin()
		if err != nil {
			return Loop{}, err
		}
		done[n] = true
		if n == a {
			break
		}
		for _, arc := range adj(n) {
			if arc.Via == via || done[arc.To] {
				continue
			}
			d := dist[n] + arc.Weight
			cur, seen := dist[arc.To]
			switch {
			case !seen:
				q.Add(arc.To, d)
			case d < cur:
				if err := q.Decrease(arc.To, d); err != nil {
					return Loop{}, err
				}
			default:
				continue
			}
			dist[arc.To] = d
			prev[arc.To] = arc
			prevNode[arc.To] = n
		}
	}

	if !done[a] {
		err := zerr.With(ErrNoLoop, "from", a)
		return Loop{}, zerr.With(err, "to", b)
	}

	loop := Loop{Nodes: []string{a}, Arcs: []string{via}, Length: dist[a] + weight}
	if a == b {
		return loop, nil
	}

	var path, arcs []string
	for n := a; n != b; n = prevNode[n] {
		path = append(path, n)
		arcs = append(arcs, prev[n].Via)
	}
	slices.Reverse(path)
	slices.Reverse(arcs)
	loop.Nodes = append(loop.Nodes, b)
	loop.Nodes = append(loop.Nodes, path[:len(path)-1]...)
	loop.Arcs = append(loop.Arcs, arcs...)
	return loop, nil
}
