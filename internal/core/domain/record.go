package domain

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/zerr"
)

// DocumentRecord is the serialized form of a Document: identity records, geometry and
// association records. Entities reference each other by identity id.
type DocumentRecord struct {
	Version int `json:"version"`
	// Source is the digest of the configuration the document was loaded from. Zero when
	// unknown.
	Source       uint64              `json:"source,omitempty"`
	Entities     []EntityRecord      `json:"entities"`
	Associations []AssociationRecord `json:"associations,omitempty"`
}

// EntityRecord is the serialized form of an Entity.
type EntityRecord struct {
	Identity IdentityRecord `json:"identity"`
	Kind     EntityKind     `json:"kind"`
	Position *[3]float64    `json:"position,omitempty"`
	From     string         `json:"from,omitempty"`
	To       string         `json:"to,omitempty"`
	Split    bool           `json:"split,omitzero"`
	Inner    bool           `json:"inner,omitzero"`
	Edges    []string       `json:"edges,omitempty"`
}

// DocumentRecordVersion is the current DocumentRecord format version.
const DocumentRecordVersion = 1

// Dump serializes the document. Entities are written in insertion order, which already
// places vertices before the edges and faces that reference them.
func (d *Document) Dump() DocumentRecord {
	rec := DocumentRecord{Version: DocumentRecordVersion}
	for _, e := range d.Entities() {
		er := EntityRecord{
			Identity: e.Identity.Dump(),
			Kind:     e.Kind,
			From:     e.From,
			To:       e.To,
			Split:    e.Split,
			Inner:    e.Inner,
			Edges:    e.Edges,
		}
		if e.Kind == EntityVertex {
			er.Position = &[3]float64{e.Position.X, e.Position.Y, e.Position.Z}
		}
		rec.Entities = append(rec.Entities, er)
	}
	for _, a := range d.Associations() {
		rec.Associations = append(rec.Associations, a.Dump())
	}
	return rec
}

// LoadDocument reconstructs a document from its record.
func LoadDocument(rec DocumentRecord, kinds AssociationKinds) (*Document, error) {
	d := NewDocument()
	for _, er := range rec.Entities {
		id, err := LoadIdentity(er.Identity)
		if err != nil {
			return nil, err
		}
		switch er.Kind {
		case EntityVertex:
			var pos v3.Vec
			if er.Position != nil {
				pos = v3.Vec{X: er.Position[0], Y: er.Position[1], Z: er.Position[2]}
			}
			_, err = d.AddVertex(id, pos)
		case EntityEdge:
			_, err = d.AddEdge(id, er.From, er.To, er.Split, er.Inner)
		case EntityFace:
			_, err = d.AddFace(id, er.Edges)
		default:
			err = zerr.With(ErrInvalidEntityKind, "kind", string(er.Kind))
		}
		if err != nil {
			return nil, err
		}
	}
	for _, ar := range rec.Associations {
		a, err := LoadAssociation(ar, kinds)
		if err != nil {
			return nil, err
		}
		if err := d.AddAssociation(a); err != nil {
			return nil, err
		}
	}
	return d, nil
}
