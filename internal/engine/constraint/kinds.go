package constraint

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/kern/internal/core/domain"
)

// degenerate is the squared length below which a source edge defines no line and a
// displacement counts as no move.
const degenerate = 1e-18

type builtin struct {
	tag  domain.AssociationKind
	kind Kind
}

func builtins() []builtin {
	return []builtin{
		{domain.KindPointOnPoint, Kind{Compute: pointOnPoint, Writes: vertexTargetWrites}},
		{domain.KindPointOnLine, Kind{Compute: pointOnLine, Writes: vertexTargetWrites}},
		{domain.KindEdgeOnLine, Kind{Compute: edgeOnLine, Writes: edgeTargetWrites}},
	}
}

// pointOnPoint forces every target vertex onto the source vertex.
func pointOnPoint(doc *domain.Document, a *domain.Association, fireEvents bool) bool {
	src, ok := doc.Vertex(a.Entity)
	if !ok {
		return false
	}
	moved := false
	for _, key := range a.Targets {
		target, ok := doc.Vertex(key)
		if !ok || target == src {
			continue
		}
		if moveCarryingSplits(doc, target, src.Position, fireEvents) {
			moved = true
		}
	}
	return moved
}

// pointOnLine projects every target vertex onto the infinite line through the source edge.
func pointOnLine(doc *domain.Document, a *domain.Association, fireEvents bool) bool {
	origin, dir, ok := line(doc, a.Entity)
	if !ok {
		return false
	}
	moved := false
	for _, key := range a.Targets {
		target, ok := doc.Vertex(key)
		if !ok {
			continue
		}
		if moveCarryingSplits(doc, target, project(target.Position, origin, dir), fireEvents) {
			moved = true
		}
	}
	return moved
}

// edgeOnLine projects both endpoints of every target edge onto the line through the source
// edge.
func edgeOnLine(doc *domain.Document, a *domain.Association, fireEvents bool) bool {
	origin, dir, ok := line(doc, a.Entity)
	if !ok {
		return false
	}
	moved := false
	for _, key := range a.Targets {
		edge, ok := doc.Edge(key)
		if !ok || key == a.Entity {
			continue
		}
		for _, vk := range []string{edge.From, edge.To} {
			v, ok := doc.Vertex(vk)
			if !ok {
				continue
			}
			if moveTo(doc, v, project(v.Position, origin, dir), fireEvents) {
				moved = true
			}
		}
	}
	return moved
}

// moveCarryingSplits moves v to pos and translates the far endpoint of every inner split
// edge at v by the same displacement.
func moveCarryingSplits(doc *domain.Document, v *domain.Entity, pos v3.Vec, fireEvents bool) bool {
	delta := pos.Sub(v.Position)
	if delta.Dot(delta) < degenerate {
		return false
	}
	_ = doc.SetPosition(v.Key(), pos, fireEvents)
	for _, e := range doc.IncidentEdges(v.Key()) {
		if !e.IsInnerSplit() {
			continue
		}
		other, ok := doc.Vertex(e.Other(v.Key()))
		if !ok || other == v {
			continue
		}
		_ = doc.SetPosition(other.Key(), other.Position.Add(delta), fireEvents)
	}
	return true
}

func moveTo(doc *domain.Document, v *domain.Entity, pos v3.Vec, fireEvents bool) bool {
	if d := pos.Sub(v.Position); d.Dot(d) < degenerate {
		return false
	}
	_ = doc.SetPosition(v.Key(), pos, fireEvents)
	return true
}

// line returns a point on the source edge and its direction, or false if the key is not an
// edge with two distinct endpoints.
func line(doc *domain.Document, edgeKey string) (origin, dir v3.Vec, ok bool) {
	edge, ok := doc.Edge(edgeKey)
	if !ok {
		return v3.Vec{}, v3.Vec{}, false
	}
	from, okFrom := doc.Vertex(edge.From)
	to, okTo := doc.Vertex(edge.To)
	if !okFrom || !okTo {
		return v3.Vec{}, v3.Vec{}, false
	}
	dir = to.Position.Sub(from.Position)
	if dir.Dot(dir) < degenerate {
		return v3.Vec{}, v3.Vec{}, false
	}
	return from.Position, dir, true
}

func project(p, origin, dir v3.Vec) v3.Vec {
	t := p.Sub(origin).Dot(dir) / dir.Dot(dir)
	return origin.Add(dir.MulScalar(t))
}

// vertexTargetWrites reports the vertex targets and the far endpoints of their inner split
// edges. When an inner split edge joins a target to the association's own source, the
// source is reported too: computing would drag the source after the target, so the graph
// gets a self-dependency and the association is rejected as a cycle.
func vertexTargetWrites(doc *domain.Document, a *domain.Association) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	for _, key := range a.Targets {
		if _, ok := doc.Vertex(key); !ok {
			continue
		}
		add(key)
		for _, e := range doc.IncidentEdges(key) {
			if e.IsInnerSplit() && e.Other(key) != key {
				add(e.Other(key))
			}
		}
	}
	return out
}

// edgeTargetWrites reports the endpoints of the edge targets.
func edgeTargetWrites(doc *domain.Document, a *domain.Association) []string {
	var out []string
	seen := make(map[string]bool)
	for _, key := range a.Targets {
		e, ok := doc.Edge(key)
		if !ok {
			continue
		}
		for _, vk := range []string{e.From, e.To} {
			if !seen[vk] {
				seen[vk] = true
				out = append(out, vk)
			}
		}
	}
	return out
}
