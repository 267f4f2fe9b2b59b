package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// NoSourceIndex is the source index reported by identities that were not derived from a
// sub-element of their owner.
const NoSourceIndex = -1

// Identity is the stable name of a topological entity. It survives model regeneration
// because it is derived from the owner's stable id and the entity's position within the
// owner, never from in-memory object identity.
//
// Identity is a value type: two identities with equal fields have the same ID and refer
// to the same logical entity.
//
// The zero Identity is not a usable name. It reports a SourceIndex of 0 rather than
// NoSourceIndex, which is what IsZero relies on, so build identities with NewIdentity,
// NewOwnerIdentity or LoadIdentity.
type Identity struct {
	sourceID      InternedString
	kind          InternedString
	index         int
	sourceIndex   int
	sameDirection *bool
}

// IdentityRecord is the compact serialized form of an Identity.
type IdentityRecord struct {
	SID string `json:"sId" yaml:"sId"`
	T   string `json:"t" yaml:"t"`
	I   int    `json:"i" yaml:"i"`
	SI  *int   `json:"sI,omitempty" yaml:"sI,omitempty"`
	SD  *bool  `json:"sD,omitempty" yaml:"sD,omitempty"`
}

// NewIdentity creates an Identity. sameDirection may be nil when the entity carries no
// orientation.
func NewIdentity(sourceID, kind string, index, sourceIndex int, sameDirection *bool) Identity {
	return Identity{
		sourceID:      NewInternedString(sourceID),
		kind:          NewInternedString(kind),
		index:         index,
		sourceIndex:   sourceIndex,
		sameDirection: cloneBool(sameDirection),
	}
}

// NewOwnerIdentity creates an identity for a top-level entity with no source index and no
// orientation.
func NewOwnerIdentity(sourceID, kind string) Identity {
	return NewIdentity(sourceID, kind, 0, NoSourceIndex, nil)
}

// SourceID returns the stable id of the owning entity.
func (i Identity) SourceID() string { return i.sourceID.String() }

// Kind returns the topology kind tag. It is empty when unset.
func (i Identity) Kind() string { return i.kind.String() }

// Index returns the position of the entity within its owner.
func (i Identity) Index() int { return i.index }

// SourceIndex returns the index of the source sub-element, or NoSourceIndex.
func (i Identity) SourceIndex() int { return i.sourceIndex }

// SameDirection returns the orientation flag and whether it is present.
func (i Identity) SameDirection() (value, ok bool) {
	if i.sameDirection == nil {
		return false, false
	}
	return *i.sameDirection, true
}

// ID returns the derived key used for equality and hashing.
func (i Identity) ID() string {
	var b strings.Builder
	b.WriteString(i.SourceID())
	b.WriteByte('_')
	b.WriteString(i.Kind())
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(i.index))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(i.sourceIndex))
	if i.sameDirection != nil {
		b.WriteByte('_')
		b.WriteString(strconv.FormatBool(*i.sameDirection))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (i Identity) String() string { return i.ID() }

// Equal reports whether both identities name the same logical entity.
func (i Identity) Equal(other Identity) bool {
	return i.ID() == other.ID()
}

// IsZero reports whether the identity is the zero value.
func (i Identity) IsZero() bool {
	return i.SourceID() == "" && i.Kind() == "" && i.index == 0 && i.sourceIndex == 0 && i.sameDirection == nil
}

// Clone returns a copy that shares no memory with the receiver.
func (i Identity) Clone() Identity {
	c := i
	c.sameDirection = cloneBool(i.sameDirection)
	return c
}

// WithIndex returns a copy renumbered to index. Renumbering passes are the only place an
// identity changes after creation.
func (i Identity) WithIndex(index int) Identity {
	c := i.Clone()
	c.index = index
	return c
}

// Dump serializes the identity to its compact record.
func (i Identity) Dump() IdentityRecord {
	si := i.sourceIndex
	return IdentityRecord{
		SID: i.SourceID(),
		T:   i.Kind(),
		I:   i.index,
		SI:  &si,
		SD:  cloneBool(i.sameDirection),
	}
}

// LoadIdentity reconstructs an identity from its record. An absent source index loads as
// NoSourceIndex.
func LoadIdentity(rec IdentityRecord) (Identity, error) {
	if rec.SID == "" {
		return Identity{}, zerr.With(ErrInvalidIdentityRecord, "reason", "empty source id")
	}
	sourceIndex := NoSourceIndex
	if rec.SI != nil {
		sourceIndex = *rec.SI
	}
	return NewIdentity(rec.SID, rec.T, rec.I, sourceIndex, rec.SD), nil
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
