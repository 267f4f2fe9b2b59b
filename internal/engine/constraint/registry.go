// Package constraint holds the closed set of association kinds and the table that
// dispatches to their compute functions.
package constraint

import (
	"slices"

	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/zerr"
)

// ErrKindRegistered is returned when registering a tag twice.
var ErrKindRegistered = zerr.New("association kind already registered")

// ComputeFunc propagates geometry from an association's source to its targets. It reports
// whether any vertex moved. Invalid references make it a no-op.
type ComputeFunc func(doc *domain.Document, a *domain.Association, fireEvents bool) bool

// WritesFunc returns the vertex keys an association moves when computed.
type WritesFunc func(doc *domain.Document, a *domain.Association) []string

// Kind is the behavior registered for one association tag.
type Kind struct {
	Compute ComputeFunc
	Writes  WritesFunc
}

// Registry maps association tags to their behavior. It is filled at startup and read
// afterwards.
type Registry struct {
	kinds map[domain.AssociationKind]Kind
	order []domain.AssociationKind
}

var _ domain.AssociationKinds = (*Registry)(nil)

// NewRegistry returns a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[domain.AssociationKind]Kind)}
	for _, b := range builtins() {
		// Built-in tags are distinct, so registration cannot fail.
		_ = r.Register(b.tag, b.kind)
	}
	return r
}

// Register adds a kind under tag.
func (r *Registry) Register(tag domain.AssociationKind, kind Kind) error {
	if _, exists := r.kinds[tag]; exists {
		return zerr.With(ErrKindRegistered, "type", string(tag))
	}
	r.kinds[tag] = kind
	r.order = append(r.order, tag)
	return nil
}

// Lookup returns the kind registered under tag.
func (r *Registry) Lookup(tag domain.AssociationKind) (Kind, bool) {
	k, ok := r.kinds[tag]
	return k, ok
}

// Kinds returns the registered tags in registration order.
func (r *Registry) Kinds() []domain.AssociationKind {
	return slices.Clone(r.order)
}

// Known implements domain.AssociationKinds.
func (r *Registry) Known(tag domain.AssociationKind) bool {
	_, ok := r.kinds[tag]
	return ok
}

// Writes implements domain.AssociationKinds.
func (r *Registry) Writes(doc *domain.Document, a *domain.Association) []string {
	k, ok := r.kinds[a.Kind]
	if !ok || k.Writes == nil {
		return nil
	}
	return k.Writes(doc, a)
}

// Compute runs the compute function registered for a's tag.
func (r *Registry) Compute(doc *domain.Document, a *domain.Association, fireEvents bool) (bool, error) {
	k, ok := r.kinds[a.Kind]
	if !ok {
		return false, zerr.With(domain.ErrUnknownAssociationKind, "type", string(a.Kind))
	}
	return k.Compute(doc, a, fireEvents), nil
}
