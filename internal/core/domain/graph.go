// Package domain contains the core domain model of the parametric kernel: identities,
// entities, associations and the dependency graph they form.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// DependencyGraph is the contract a host structure satisfies to be scheduled.
type DependencyGraph[N comparable] interface {
	// Sinks returns the nodes nothing else depends on, the starting points of the sort.
	Sinks() []N
	// Predecessors returns the nodes that must be evaluated before node.
	Predecessors(node N) ([]N, error)
	// NodeCount returns the number of nodes in the graph.
	NodeCount() int
}

// CycleError reports that a graph has no valid evaluation order.
type CycleError struct {
	// Path lists the nodes of the detected cycle, first node repeated at the end.
	// It is empty when the cycle is not reachable from any sink.
	Path []string
}

// Error implements error.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycleDetected.Error() + ": cycle unreachable from any sink"
	}
	return ErrCycleDetected.Error() + ": " + strings.Join(e.Path, " -> ")
}

// Unwrap returns ErrCycleDetected.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// Metadata exposes the cycle path the way zerr errors expose theirs.
func (e *CycleError) Metadata() map[string]any {
	return map[string]any{"cycle": strings.Join(e.Path, " -> ")}
}

// TopologicalSort returns the nodes of g so that every node comes after all of its
// predecessors. Traversal follows the slice order of Sinks and Predecessors, so the
// result is reproducible for a given graph.
//
// It returns a *CycleError when g is not acyclic.
func TopologicalSort[N comparable](g DependencyGraph[N]) ([]N, error) {
	order := make([]N, 0, g.NodeCount())
	visiting := make(map[N]bool)
	visited := make(map[N]bool)
	var path []N

	var visit func(n N) error
	visit = func(n N) error {
		if visiting[n] {
			return buildCycleError(path, n)
		}
		if visited[n] {
			return nil
		}
		visiting[n] = true
		path = append(path, n)

		preds, err := g.Predecessors(n)
		if err != nil {
			return err
		}
		for _, p := range preds {
			if err := visit(p); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		delete(visiting, n)
		visited[n] = true
		order = append(order, n)
		return nil
	}

	for _, sink := range g.Sinks() {
		if err := visit(sink); err != nil {
			return nil, err
		}
	}

	if len(visited) != g.NodeCount() {
		return nil, &CycleError{}
	}
	return order, nil
}

// IsAcyclic reports whether g has a valid evaluation order. Failures other than a cycle
// are returned unchanged.
func IsAcyclic[N comparable](g DependencyGraph[N]) (bool, error) {
	_, err := TopologicalSort(g)
	if err == nil {
		return true, nil
	}
	var cycle *CycleError
	if errors.As(err, &cycle) {
		return false, nil
	}
	return false, err
}

// buildCycleError constructs the cycle path from the DFS stack.
func buildCycleError[N comparable](path []N, dep N) *CycleError {
	start := slices.Index(path, dep)
	if start < 0 {
		start = 0
	}
	names := make([]string, 0, len(path)-start+1)
	for _, n := range path[start:] {
		names = append(names, fmt.Sprint(n))
	}
	names = append(names, fmt.Sprint(dep))
	return &CycleError{Path: names}
}

// AssociationGraph adapts a Document to DependencyGraph. Nodes are the vertices and
// edges of the document. An edge depends on its endpoints, and every vertex written by
// an association depends on the association's source.
type AssociationGraph struct {
	doc        *Document
	nodes      []string
	members    map[string]bool
	deps       map[string][]string
	dependents map[string][]string
	writers    map[string][]*Association
}

// NewAssociationGraph builds the dependency graph of doc. Associations with invalid
// references contribute no edges.
func NewAssociationGraph(doc *Document, kinds AssociationKinds) *AssociationGraph {
	g := &AssociationGraph{
		doc:        doc,
		members:    make(map[string]bool),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
		writers:    make(map[string][]*Association),
	}

	for _, e := range doc.Entities() {
		if e.Kind == EntityFace {
			continue
		}
		g.nodes = append(g.nodes, e.Key())
		g.members[e.Key()] = true
		if e.Kind == EntityEdge {
			g.link(e.Key(), e.From)
			g.link(e.Key(), e.To)
		}
	}

	for _, a := range doc.Associations() {
		if !a.IsValid(doc) || !kinds.Known(a.Kind) || !g.members[a.Entity] {
			continue
		}
		for _, w := range kinds.Writes(doc, a) {
			if !g.members[w] {
				continue
			}
			g.link(w, a.Entity)
			g.writers[w] = append(g.writers[w], a)
		}
	}
	return g
}

func (g *AssociationGraph) link(node, dep string) {
	if !slices.Contains(g.deps[node], dep) {
		g.deps[node] = append(g.deps[node], dep)
		g.dependents[dep] = append(g.dependents[dep], node)
	}
}

// Restrict returns the subgraph of nodes reachable from changed through dependents,
// changed nodes included. Dependencies outside the subgraph are treated as fixed inputs.
func (g *AssociationGraph) Restrict(changed ...string) *AssociationGraph {
	reach := make(map[string]bool)
	queue := make([]string, 0, len(changed))
	for _, key := range changed {
		if g.members[key] && !reach[key] {
			reach[key] = true
			queue = append(queue, key)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, dep := range g.dependents[n] {
			if !reach[dep] {
				reach[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	sub := *g
	sub.members = reach
	sub.nodes = slices.DeleteFunc(slices.Clone(g.nodes), func(k string) bool { return !reach[k] })
	return &sub
}

// Sinks returns the nodes no other member depends on, in document order.
func (g *AssociationGraph) Sinks() []string {
	var sinks []string
	for _, n := range g.nodes {
		if !slices.ContainsFunc(g.dependents[n], func(d string) bool { return g.members[d] }) {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Predecessors returns the members node depends on.
func (g *AssociationGraph) Predecessors(node string) ([]string, error) {
	if !g.members[node] {
		return nil, zerr.With(ErrMissingDependency, "node", node)
	}
	var preds []string
	for _, dep := range g.deps[node] {
		if g.members[dep] {
			preds = append(preds, dep)
		}
	}
	return preds, nil
}

// NodeCount returns the number of members.
func (g *AssociationGraph) NodeCount() int {
	return len(g.nodes)
}

// Nodes returns the members in document order.
func (g *AssociationGraph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Contains reports whether key is a member.
func (g *AssociationGraph) Contains(key string) bool {
	return g.members[key]
}

// Writers returns the associations that write node, in association order.
func (g *AssociationGraph) Writers(node string) []*Association {
	return g.writers[node]
}

// Dependencies returns the member dependency lists keyed by node, for reporting.
func (g *AssociationGraph) Dependencies() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		preds, _ := g.Predecessors(n)
		out[n] = preds
	}
	return out
}
