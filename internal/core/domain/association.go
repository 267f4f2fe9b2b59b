package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// AssociationKind is the stable tag of a constraint kind. Tags are persisted, so the set
// is closed and renaming one is a format change.
type AssociationKind string

const (
	// KindPointOnPoint forces a target vertex onto a source vertex.
	KindPointOnPoint AssociationKind = "PointOnPoint"
	// KindPointOnLine keeps a target vertex on the line through a source edge.
	KindPointOnLine AssociationKind = "PointOnLine"
	// KindEdgeOnLine keeps both endpoints of a target edge on the line through a source edge.
	KindEdgeOnLine AssociationKind = "EdgeOnLine"
)

// AssociationKinds is the table of registered association kinds the document needs in
// order to load and schedule associations.
type AssociationKinds interface {
	// Known reports whether kind has a registered implementation.
	Known(kind AssociationKind) bool
	// Writes returns the vertex keys the association moves when computed.
	Writes(doc *Document, a *Association) []string
}

// Association is a directed constraint from a source entity to one or more targets.
// When computed it propagates geometry from the source to the targets.
type Association struct {
	ID      string
	Kind    AssociationKind
	Entity  string
	Targets []string
}

// AssociationRecord is the serialized form of an Association.
type AssociationRecord struct {
	ID      string   `json:"id" yaml:"id"`
	Type    string   `json:"type" yaml:"type"`
	Entity  string   `json:"entity" yaml:"entity"`
	Targets []string `json:"targets" yaml:"targets"`
}

// NewAssociation creates an association with a deterministic id derived from its kind
// and endpoints.
func NewAssociation(kind AssociationKind, source string, targets ...string) *Association {
	return &Association{
		ID:      AssociationID(kind, source, targets),
		Kind:    kind,
		Entity:  source,
		Targets: slices.Clone(targets),
	}
}

// AssociationID derives the id used when an association is declared without one.
func AssociationID(kind AssociationKind, source string, targets []string) string {
	return string(kind) + ":" + source + "->" + strings.Join(targets, ",")
}

// Touches reports whether key is the source or one of the targets.
func (a *Association) Touches(key string) bool {
	return a.Entity == key || slices.Contains(a.Targets, key)
}

// IsValid reports whether the source and every target still exist in doc.
func (a *Association) IsValid(doc *Document) bool {
	if a.Entity == "" || len(a.Targets) == 0 {
		return false
	}
	if _, ok := doc.Entity(a.Entity); !ok {
		return false
	}
	for _, t := range a.Targets {
		if _, ok := doc.Entity(t); !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (a *Association) Clone() *Association {
	c := *a
	c.Targets = slices.Clone(a.Targets)
	return &c
}

// Dump serializes the association.
func (a *Association) Dump() AssociationRecord {
	return AssociationRecord{
		ID:      a.ID,
		Type:    string(a.Kind),
		Entity:  a.Entity,
		Targets: slices.Clone(a.Targets),
	}
}

// LoadAssociation reconstructs an association from its record. The tag must be known to
// kinds.
func LoadAssociation(rec AssociationRecord, kinds AssociationKinds) (*Association, error) {
	kind := AssociationKind(rec.Type)
	if !kinds.Known(kind) {
		return nil, zerr.With(ErrUnknownAssociationKind, "type", rec.Type)
	}
	a := NewAssociation(kind, rec.Entity, rec.Targets...)
	if rec.ID != "" {
		a.ID = rec.ID
	}
	return a, nil
}
