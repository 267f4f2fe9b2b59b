package domain

import (
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/zerr"
)

// Observer receives geometric changes fired by the document.
type Observer func(Change)

// Document is the arena that owns every entity and association of a model.
// Entities refer to each other by key, so removing an entity only has to update the
// document's indexes.
//
// Document is not safe for concurrent use; all mutation goes through a single pass
// at a time.
type Document struct {
	entities map[string]*Entity
	order    []string
	incident map[string][]string

	associations map[string]*Association
	assocOrder   []string

	observers map[int]Observer
	nextObs   int
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{
		entities:     make(map[string]*Entity),
		incident:     make(map[string][]string),
		associations: make(map[string]*Association),
		observers:    make(map[int]Observer),
	}
}

// AddVertex adds a vertex at pos.
func (d *Document) AddVertex(id Identity, pos v3.Vec) (*Entity, error) {
	e := &Entity{Identity: id.Clone(), Kind: EntityVertex, Position: pos}
	if err := d.insert(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddEdge adds an edge between two existing vertices.
func (d *Document) AddEdge(id Identity, from, to string, split, inner bool) (*Entity, error) {
	for _, key := range []string{from, to} {
		if _, err := d.mustKind(key, EntityVertex); err != nil {
			return nil, zerr.With(err, "edge", id.ID())
		}
	}
	e := &Entity{Identity: id.Clone(), Kind: EntityEdge, From: from, To: to, Split: split, Inner: inner}
	if err := d.insert(e); err != nil {
		return nil, err
	}
	d.incident[from] = append(d.incident[from], e.Key())
	if to != from {
		d.incident[to] = append(d.incident[to], e.Key())
	}
	return e, nil
}

// AddFace adds a face bounded by the given edges.
func (d *Document) AddFace(id Identity, edges []string) (*Entity, error) {
	for _, key := range edges {
		if _, err := d.mustKind(key, EntityEdge); err != nil {
			return nil, zerr.With(err, "face", id.ID())
		}
	}
	e := &Entity{Identity: id.Clone(), Kind: EntityFace, Edges: slices.Clone(edges)}
	if err := d.insert(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (d *Document) insert(e *Entity) error {
	key := e.Key()
	if _, exists := d.entities[key]; exists {
		return zerr.With(ErrEntityExists, "key", key)
	}
	d.entities[key] = e
	d.order = append(d.order, key)
	return nil
}

func (d *Document) mustKind(key string, kind EntityKind) (*Entity, error) {
	e, ok := d.entities[key]
	if !ok {
		return nil, zerr.With(ErrEntityNotFound, "key", key)
	}
	if e.Kind != kind {
		err := zerr.With(ErrInvalidEntityKind, "key", key)
		return nil, zerr.With(err, "expected", string(kind))
	}
	return e, nil
}

// Entity returns the entity stored under key.
func (d *Document) Entity(key string) (*Entity, bool) {
	e, ok := d.entities[key]
	return e, ok
}

// Vertex returns the vertex stored under key, or false if key is missing or not a vertex.
func (d *Document) Vertex(key string) (*Entity, bool) {
	e, ok := d.entities[key]
	if !ok || e.Kind != EntityVertex {
		return nil, false
	}
	return e, true
}

// Edge returns the edge stored under key, or false if key is missing or not an edge.
func (d *Document) Edge(key string) (*Entity, bool) {
	e, ok := d.entities[key]
	if !ok || e.Kind != EntityEdge {
		return nil, false
	}
	return e, true
}

// Len returns the number of entities.
func (d *Document) Len() int {
	return len(d.order)
}

// Entities returns all entities in insertion order.
func (d *Document) Entities() []*Entity {
	out := make([]*Entity, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.entities[key])
	}
	return out
}

// Vertices returns all vertices in insertion order.
func (d *Document) Vertices() []*Entity { return d.ofKind(EntityVertex) }

// Edges returns all edges in insertion order.
func (d *Document) Edges() []*Entity { return d.ofKind(EntityEdge) }

// Faces returns all faces in insertion order.
func (d *Document) Faces() []*Entity { return d.ofKind(EntityFace) }

func (d *Document) ofKind(kind EntityKind) []*Entity {
	var out []*Entity
	for _, key := range d.order {
		if e := d.entities[key]; e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// IncidentEdges returns the edges that have vertexKey as an endpoint, in insertion order.
func (d *Document) IncidentEdges(vertexKey string) []*Entity {
	keys := d.incident[vertexKey]
	out := make([]*Entity, 0, len(keys))
	for _, key := range keys {
		if e, ok := d.entities[key]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Remove deletes the entity stored under key together with every entity and association
// that refers to it. It returns the keys of all removed entities.
func (d *Document) Remove(key string) ([]string, error) {
	e, ok := d.entities[key]
	if !ok {
		return nil, zerr.With(ErrEntityNotFound, "key", key)
	}

	var removed []string
	switch e.Kind {
	case EntityVertex:
		for _, edge := range d.IncidentEdges(key) {
			sub, _ := d.Remove(edge.Key())
			removed = append(removed, sub...)
		}
		delete(d.incident, key)
	case EntityEdge:
		for _, face := range d.Faces() {
			if slices.Contains(face.Edges, key) {
				sub, _ := d.Remove(face.Key())
				removed = append(removed, sub...)
			}
		}
		d.incident[e.From] = slices.DeleteFunc(d.incident[e.From], func(k string) bool { return k == key })
		d.incident[e.To] = slices.DeleteFunc(d.incident[e.To], func(k string) bool { return k == key })
	}

	for _, id := range slices.Clone(d.assocOrder) {
		if d.associations[id].Touches(key) {
			d.dropAssociation(id)
		}
	}

	delete(d.entities, key)
	d.order = slices.DeleteFunc(d.order, func(k string) bool { return k == key })
	return append(removed, key), nil
}

// SetPosition moves a vertex. Observers are notified only when fireEvents is true.
func (d *Document) SetPosition(key string, pos v3.Vec, fireEvents bool) error {
	e, err := d.mustKind(key, EntityVertex)
	if err != nil {
		return err
	}
	before := e.Position
	e.Position = pos
	e.Revision++
	if fireEvents {
		d.notify(Change{Key: key, Before: before, After: pos, Revision: e.Revision})
	}
	return nil
}

// Subscribe registers an observer and returns a function that unregisters it.
func (d *Document) Subscribe(fn Observer) func() {
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() { delete(d.observers, id) }
}

func (d *Document) notify(c Change) {
	ids := make([]int, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		d.observers[id](c)
	}
}

// AddAssociation adds a to the association set.
func (d *Document) AddAssociation(a *Association) error {
	if _, exists := d.associations[a.ID]; exists {
		return zerr.With(ErrAssociationExists, "association", a.ID)
	}
	d.associations[a.ID] = a
	d.assocOrder = append(d.assocOrder, a.ID)
	return nil
}

// RemoveAssociation removes the association with the given id.
func (d *Document) RemoveAssociation(id string) (*Association, error) {
	a, ok := d.associations[id]
	if !ok {
		return nil, zerr.With(ErrAssociationNotFound, "association", id)
	}
	d.dropAssociation(id)
	return a, nil
}

func (d *Document) dropAssociation(id string) {
	delete(d.associations, id)
	d.assocOrder = slices.DeleteFunc(d.assocOrder, func(k string) bool { return k == id })
}

// Association returns the association with the given id.
func (d *Document) Association(id string) (*Association, bool) {
	a, ok := d.associations[id]
	return a, ok
}

// Associations returns all associations in insertion order.
func (d *Document) Associations() []*Association {
	out := make([]*Association, 0, len(d.assocOrder))
	for _, id := range d.assocOrder {
		out = append(out, d.associations[id])
	}
	return out
}

// AssociationsFrom returns the associations whose source is key, in insertion order.
func (d *Document) AssociationsFrom(key string) []*Association {
	var out []*Association
	for _, id := range d.assocOrder {
		if a := d.associations[id]; a.Entity == key {
			out = append(out, a)
		}
	}
	return out
}

// AssociationsSnapshot returns a deep copy of the association set, for transactions to
// restore later.
func (d *Document) AssociationsSnapshot() []*Association {
	out := make([]*Association, 0, len(d.assocOrder))
	for _, id := range d.assocOrder {
		out = append(out, d.associations[id].Clone())
	}
	return out
}

// RestoreAssociations replaces the association set with set.
func (d *Document) RestoreAssociations(set []*Association) {
	d.associations = make(map[string]*Association, len(set))
	d.assocOrder = d.assocOrder[:0]
	for _, a := range set {
		c := a.Clone()
		d.associations[c.ID] = c
		d.assocOrder = append(d.assocOrder, c.ID)
	}
}

// Positions returns the position of every vertex keyed by vertex key.
func (d *Document) Positions() map[string]v3.Vec {
	out := make(map[string]v3.Vec)
	for _, v := range d.Vertices() {
		out[v.Key()] = v.Position
	}
	return out
}
