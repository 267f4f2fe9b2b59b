package app

import (
	"context"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Transaction is the hook set a command exposes to the undo history. OnCommit applies the
// command for the first time; OnUndo and OnRedo move the model between the states recorded
// around the commit.
type Transaction interface {
	OnCommit(ctx context.Context) error
	OnUndo(ctx context.Context) error
	OnRedo(ctx context.Context) error
}

// MoveVertexTx moves a vertex and propagates the move through its dependents.
type MoveVertexTx struct {
	s      *Session
	Vertex string
	To     v3.Vec

	// Pass is the recomputation pass run by the commit.
	Pass *scheduler.Pass

	before map[string]v3.Vec
	after  map[string]v3.Vec
}

// MoveVertex creates a transaction moving the vertex key to pos.
func (s *Session) MoveVertex(key string, pos v3.Vec) *MoveVertexTx {
	return &MoveVertexTx{s: s, Vertex: key, To: pos}
}

// OnCommit checks that the vertex's dependents can be ordered, then moves it and runs a
// pass. Nothing is mutated when the dependents form a cycle.
func (tx *MoveVertexTx) OnCommit(ctx context.Context) error {
	doc := tx.s.Document()
	if _, ok := doc.Vertex(tx.Vertex); !ok {
		return zerr.With(domain.ErrEntityNotFound, "vertex", tx.Vertex)
	}
	if err := tx.s.Scheduler().Check(ctx, tx.Vertex); err != nil {
		return zerr.Wrap(err, "move rejected")
	}

	tx.before = doc.Positions()
	if err := doc.SetPosition(tx.Vertex, tx.To, true); err != nil {
		return err
	}
	pass, err := tx.s.Scheduler().Recompute(ctx, tx.Vertex)
	if err != nil {
		tx.s.restorePositions(tx.before)
		return zerr.Wrap(err, "move rejected")
	}
	tx.Pass = pass
	tx.after = doc.Positions()
	return nil
}

// OnUndo restores the positions recorded before the commit.
func (tx *MoveVertexTx) OnUndo(_ context.Context) error {
	tx.s.restorePositions(tx.before)
	return nil
}

// OnRedo restores the positions recorded after the commit.
func (tx *MoveVertexTx) OnRedo(_ context.Context) error {
	tx.s.restorePositions(tx.after)
	return nil
}

// associationTx is the shared state of the association commands: the association set and
// positions on either side of the commit.
type associationTx struct {
	s *Session

	setBefore []*domain.Association
	setAfter  []*domain.Association
	posBefore map[string]v3.Vec
	posAfter  map[string]v3.Vec
}

func (tx *associationTx) record(before bool) {
	doc := tx.s.Document()
	if before {
		tx.setBefore = doc.AssociationsSnapshot()
		tx.posBefore = doc.Positions()
		return
	}
	tx.setAfter = doc.AssociationsSnapshot()
	tx.posAfter = doc.Positions()
}

func (tx *associationTx) rollback() {
	tx.s.Document().RestoreAssociations(tx.setBefore)
	tx.s.restorePositions(tx.posBefore)
}

// OnUndo restores the association set and positions recorded before the commit.
func (tx *associationTx) OnUndo(_ context.Context) error {
	tx.rollback()
	return nil
}

// OnRedo restores the association set and positions recorded after the commit.
func (tx *associationTx) OnRedo(_ context.Context) error {
	tx.s.Document().RestoreAssociations(tx.setAfter)
	tx.s.restorePositions(tx.posAfter)
	return nil
}

// AddAssociationTx adds an association and computes it.
type AddAssociationTx struct {
	associationTx
	Association *domain.Association
	Pass        *scheduler.Pass
}

// AddAssociation creates a transaction adding a.
func (s *Session) AddAssociation(a *domain.Association) *AddAssociationTx {
	return &AddAssociationTx{associationTx: associationTx{s: s}, Association: a}
}

// OnCommit adds the association and runs a pass from its source. An association that
// closes a cycle is rejected and the previous set restored.
func (tx *AddAssociationTx) OnCommit(ctx context.Context) error {
	doc := tx.s.Document()
	tx.record(true)
	if err := doc.AddAssociation(tx.Association); err != nil {
		return err
	}
	if err := tx.s.Scheduler().Check(ctx, tx.Association.Entity); err != nil {
		tx.rollback()
		return zerr.With(zerr.Wrap(err, "association rejected"), "association", tx.Association.ID)
	}
	pass, err := tx.s.Scheduler().Recompute(ctx, tx.Association.Entity)
	if err != nil {
		tx.rollback()
		return zerr.With(zerr.Wrap(err, "association rejected"), "association", tx.Association.ID)
	}
	tx.Pass = pass
	tx.record(false)
	return nil
}

// RemoveAssociationTx removes an association. Geometry is left where the association put it.
type RemoveAssociationTx struct {
	associationTx
	ID string
}

// RemoveAssociation creates a transaction removing the association with the given id.
func (s *Session) RemoveAssociation(id string) *RemoveAssociationTx {
	return &RemoveAssociationTx{associationTx: associationTx{s: s}, ID: id}
}

// OnCommit removes the association.
func (tx *RemoveAssociationTx) OnCommit(_ context.Context) error {
	tx.record(true)
	if _, err := tx.s.Document().RemoveAssociation(tx.ID); err != nil {
		return err
	}
	tx.record(false)
	return nil
}
