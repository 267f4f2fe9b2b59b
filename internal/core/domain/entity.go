package domain

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// EntityKind enumerates the topological entity types of the model.
type EntityKind string

const (
	// EntityVertex is a point in space.
	EntityVertex EntityKind = "vertex"
	// EntityEdge is a straight segment between two vertices.
	EntityEdge EntityKind = "edge"
	// EntityFace is a region bounded by a loop of edges.
	EntityFace EntityKind = "face"
)

// Valid reports whether k is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case EntityVertex, EntityEdge, EntityFace:
		return true
	default:
		return false
	}
}

// Entity is a geometric node of the document. References to other entities are keys
// into the owning Document; they never own the referenced entity.
type Entity struct {
	Identity Identity
	Kind     EntityKind

	// Position is set for vertices.
	Position v3.Vec

	// From and To are the endpoint vertex keys of an edge.
	From string
	To   string
	// Split marks an edge produced by subdividing another edge.
	Split bool
	// Inner marks an edge lying inside a region rather than on its boundary.
	Inner bool

	// Edges is the boundary loop of a face, in order.
	Edges []string

	// Revision is bumped every time the entity's geometry changes.
	Revision uint64
}

// Key returns the document key of the entity.
func (e *Entity) Key() string {
	return e.Identity.ID()
}

// Other returns the endpoint of an edge opposite to vertexKey, or "" if vertexKey is not
// an endpoint.
func (e *Entity) Other(vertexKey string) string {
	switch vertexKey {
	case e.From:
		return e.To
	case e.To:
		return e.From
	default:
		return ""
	}
}

// IsInnerSplit reports whether the entity is an edge flagged both split and inner.
func (e *Entity) IsInnerSplit() bool {
	return e.Kind == EntityEdge && e.Split && e.Inner
}

// Change describes a geometric change to an entity, delivered to document observers.
type Change struct {
	Key      string
	Before   v3.Vec
	After    v3.Vec
	Revision uint64
}
