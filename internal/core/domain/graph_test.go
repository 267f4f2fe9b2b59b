package domain_test

import (
	"errors"
	"slices"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/zerr"
)

// mapGraph is a DependencyGraph over string nodes. deps[n] lists the nodes n depends on.
type mapGraph struct {
	nodes []string
	deps  map[string][]string
}

func (g mapGraph) Sinks() []string {
	var sinks []string
	for _, n := range g.nodes {
		dependedOn := false
		for _, m := range g.nodes {
			if slices.Contains(g.deps[m], n) {
				dependedOn = true
				break
			}
		}
		if !dependedOn {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

func (g mapGraph) Predecessors(n string) ([]string, error) {
	if !slices.Contains(g.nodes, n) {
		return nil, zerr.With(domain.ErrMissingDependency, "node", n)
	}
	return g.deps[n], nil
}

func (g mapGraph) NodeCount() int { return len(g.nodes) }

func assertOrdered(t *testing.T, order []string, deps map[string][]string) {
	t.Helper()
	for node, ds := range deps {
		for _, d := range ds {
			assert.Less(t, slices.Index(order, d), slices.Index(order, node), "%s must precede %s", d, node)
		}
	}
}

func TestTopologicalSort_PartialOrder(t *testing.T) {
	g := mapGraph{
		nodes: []string{"A", "B", "C", "D"},
		deps: map[string][]string{
			"B": {"A"},
			"C": {"B"},
			"D": {"A"},
		},
	}

	order, err := domain.TopologicalSort[string](g)
	require.NoError(t, err)
	assert.Len(t, order, g.NodeCount())
	assert.ElementsMatch(t, g.nodes, order)
	assertOrdered(t, order, g.deps)

	again, err := domain.TopologicalSort[string](g)
	require.NoError(t, err)
	assert.Equal(t, order, again, "traversal must be reproducible")
}

func TestTopologicalSort_Diamond(t *testing.T) {
	g := mapGraph{
		nodes: []string{"root", "left", "right", "join", "lonely"},
		deps: map[string][]string{
			"left":  {"root"},
			"right": {"root"},
			"join":  {"left", "right"},
		},
	}

	order, err := domain.TopologicalSort[string](g)
	require.NoError(t, err)
	assert.Len(t, order, 5)
	assertOrdered(t, order, g.deps)
}

func TestTopologicalSort_Cycle(t *testing.T) {
	g := mapGraph{
		nodes: []string{"A", "B", "C", "D"},
		deps: map[string][]string{
			"A": {"C"},
			"B": {"A"},
			"C": {"B"},
			"D": {"A"},
		},
	}

	_, err := domain.TopologicalSort[string](g)
	require.Error(t, err)

	var cycle *domain.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.True(t, errors.Is(err, domain.ErrCycleDetected))
	require.NotEmpty(t, cycle.Path)
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
	assert.Contains(t, cycle.Metadata()["cycle"], "->")

	ok, err := domain.IsAcyclic[string](g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTopologicalSort_IsolatedCycle(t *testing.T) {
	// X and Y depend on each other and nothing depends on them from outside, so no sink
	// reaches them.
	g := mapGraph{
		nodes: []string{"A", "X", "Y"},
		deps: map[string][]string{
			"X": {"Y"},
			"Y": {"X"},
		},
	}

	_, err := domain.TopologicalSort[string](g)
	var cycle *domain.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Empty(t, cycle.Path)
	assert.ErrorContains(t, err, "unreachable from any sink")

	ok, err := domain.IsAcyclic[string](g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAcyclic_PropagatesOtherErrors(t *testing.T) {
	g := mapGraph{
		nodes: []string{"A"},
		deps:  map[string][]string{"A": {"ghost"}},
	}

	ok, err := domain.IsAcyclic[string](g)
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing dependency")

	var cycle *domain.CycleError
	assert.False(t, errors.As(err, &cycle))
}

func TestIsAcyclic_Empty(t *testing.T) {
	ok, err := domain.IsAcyclic[string](mapGraph{})
	require.NoError(t, err)
	assert.True(t, ok)
}

// writesTargets treats every target vertex of an association as written, and edge
// targets as writing both endpoints.
type writesTargets struct{}

func (writesTargets) Known(kind domain.AssociationKind) bool {
	return kind == domain.KindPointOnPoint || kind == domain.KindEdgeOnLine
}

func (writesTargets) Writes(doc *domain.Document, a *domain.Association) []string {
	var out []string
	for _, t := range a.Targets {
		if e, ok := doc.Edge(t); ok {
			out = append(out, e.From, e.To)
			continue
		}
		out = append(out, t)
	}
	return out
}

func vertexID(name string) domain.Identity { return domain.NewOwnerIdentity(name, "vertex") }
func edgeID(name string) domain.Identity   { return domain.NewOwnerIdentity(name, "edge") }

// square builds a document with four vertices a..d and edges ab, bc, cd, da.
func square(t *testing.T) (*domain.Document, map[string]string) {
	t.Helper()
	doc := domain.NewDocument()
	keys := make(map[string]string)
	for i, name := range []string{"a", "b", "c", "d"} {
		v, err := doc.AddVertex(vertexID(name), v3.Vec{X: float64(i)})
		require.NoError(t, err)
		keys[name] = v.Key()
	}
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}} {
		e, err := doc.AddEdge(edgeID(pair[0]+pair[1]), keys[pair[0]], keys[pair[1]], false, false)
		require.NoError(t, err)
		keys[pair[0]+pair[1]] = e.Key()
	}
	return doc, keys
}

func TestAssociationGraph_EdgesDependOnEndpoints(t *testing.T) {
	doc, k := square(t)
	g := domain.NewAssociationGraph(doc, writesTargets{})

	assert.Equal(t, 8, g.NodeCount())
	preds, err := g.Predecessors(k["ab"])
	require.NoError(t, err)
	assert.Equal(t, []string{k["a"], k["b"]}, preds)

	sinks := g.Sinks()
	assert.ElementsMatch(t, []string{k["ab"], k["bc"], k["cd"], k["da"]}, sinks)

	order, err := domain.TopologicalSort[string](g)
	require.NoError(t, err)
	assertOrdered(t, order, g.Dependencies())
}

func TestAssociationGraph_AssociationCycle(t *testing.T) {
	doc, k := square(t)
	require.NoError(t, doc.AddAssociation(domain.NewAssociation(domain.KindPointOnPoint, k["a"], k["b"])))
	require.NoError(t, doc.AddAssociation(domain.NewAssociation(domain.KindPointOnPoint, k["b"], k["a"])))

	ok, err := domain.IsAcyclic[string](domain.NewAssociationGraph(doc, writesTargets{}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssociationGraph_Restrict(t *testing.T) {
	doc, k := square(t)
	a := domain.NewAssociation(domain.KindPointOnPoint, k["a"], k["c"])
	require.NoError(t, doc.AddAssociation(a))

	g := domain.NewAssociationGraph(doc, writesTargets{})
	assert.Equal(t, []*domain.Association{a}, g.Writers(k["c"]))

	sub := g.Restrict(k["a"])
	assert.True(t, sub.Contains(k["a"]))
	assert.True(t, sub.Contains(k["c"]))
	assert.True(t, sub.Contains(k["ab"]))
	assert.True(t, sub.Contains(k["bc"]))
	assert.True(t, sub.Contains(k["cd"]))
	assert.True(t, sub.Contains(k["da"]))
	assert.False(t, sub.Contains(k["b"]))
	assert.False(t, sub.Contains(k["d"]))

	// b is outside the subgraph, so ab only waits on a.
	preds, err := sub.Predecessors(k["ab"])
	require.NoError(t, err)
	assert.Equal(t, []string{k["a"]}, preds)

	order, err := domain.TopologicalSort[string](sub)
	require.NoError(t, err)
	assert.Len(t, order, sub.NodeCount())
	assert.Less(t, slices.Index(order, k["a"]), slices.Index(order, k["c"]))

	_, err = sub.Predecessors(k["b"])
	assert.ErrorContains(t, err, "missing dependency")
}

func TestAssociationGraph_SkipsInvalidAssociations(t *testing.T) {
	doc, k := square(t)
	require.NoError(t, doc.AddAssociation(domain.NewAssociation(domain.KindPointOnPoint, k["a"], "ghost")))
	require.NoError(t, doc.AddAssociation(domain.NewAssociation(domain.KindPointOnLine, k["a"], k["b"])))

	g := domain.NewAssociationGraph(doc, writesTargets{})
	assert.Empty(t, g.Writers(k["b"]))
	preds, err := g.Predecessors(k["b"])
	require.NoError(t, err)
	assert.Empty(t, preds)
}
