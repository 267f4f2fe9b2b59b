package app

import (
	"context"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/kern/internal/adapters/cache" //nolint:depguard // Wired in app layer
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/kern/internal/engine/scheduler"
	"go.trai.ch/kern/internal/spatial"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Session is an open workspace: its document, the engine recomputing it and the undo
// history of the commands applied to it.
type Session struct {
	ws     *domain.Workspace
	engine *scheduler.Engine
	logger ports.Logger

	undo []Transaction
	redo []Transaction
}

// NewSession opens ws with an engine built by factory.
func NewSession(ws *domain.Workspace, factory *scheduler.Factory, logger ports.Logger) *Session {
	return &Session{
		ws:     ws,
		engine: factory.New(ws.Document, ws.Settings),
		logger: logger,
	}
}

// Workspace returns the open workspace.
func (s *Session) Workspace() *domain.Workspace { return s.ws }

// Document returns the document of the open workspace.
func (s *Session) Document() *domain.Document { return s.ws.Document }

// Scheduler returns the session's scheduler.
func (s *Session) Scheduler() *scheduler.Scheduler { return s.engine.Scheduler }

// Cache returns the session's computation cache.
func (s *Session) Cache() *cache.Cache { return s.engine.Cache }

// Run calls fn while the cache sweep runs in the background. The sweep stops when fn
// returns.
func (s *Session) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	sweepCtx, stop := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(sweepCtx)

	g.Go(func() error {
		return s.engine.Cache.Run(gctx)
	})

	g.Go(func() error {
		defer stop()
		return fn(gctx)
	})

	return g.Wait()
}

// Apply commits tx and records it in the history. A failed commit leaves the history
// unchanged.
func (s *Session) Apply(ctx context.Context, tx Transaction) error {
	if err := tx.OnCommit(ctx); err != nil {
		return err
	}
	s.undo = append(s.undo, tx)
	s.redo = s.redo[:0]
	return nil
}

// Undo reverts the most recent transaction.
func (s *Session) Undo(ctx context.Context) error {
	if len(s.undo) == 0 {
		return domain.ErrNothingToUndo
	}
	tx := s.undo[len(s.undo)-1]
	if err := tx.OnUndo(ctx); err != nil {
		return err
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, tx)
	return nil
}

// Redo reapplies the most recently undone transaction.
func (s *Session) Redo(ctx context.Context) error {
	if len(s.redo) == 0 {
		return domain.ErrNothingToRedo
	}
	tx := s.redo[len(s.redo)-1]
	if err := tx.OnRedo(ctx); err != nil {
		return err
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, tx)
	return nil
}

// CanUndo reports whether there is a transaction to undo.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether there is a transaction to redo.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Snap attaches vertexKey to the nearest other vertex within tolerance with a PointOnPoint
// association. A negative tolerance selects the workspace's snap tolerance.
func (s *Session) Snap(ctx context.Context, vertexKey string, tolerance float64) (*AddAssociationTx, error) {
	doc := s.Document()
	v, ok := doc.Vertex(vertexKey)
	if !ok {
		return nil, zerr.With(domain.ErrEntityNotFound, "vertex", vertexKey)
	}
	if tolerance < 0 {
		tolerance = s.ws.Settings.SnapTolerance
	}

	items := make([]spatial.Item[string], 0, len(doc.Vertices()))
	for _, other := range doc.Vertices() {
		if other.Key() != vertexKey {
			items = append(items, spatial.Item[string]{Point: point(other.Position), Value: other.Key()})
		}
	}
	tree, err := spatial.NewKDTree(items)
	if err != nil {
		return nil, err
	}

	hits := tree.Within(point(v.Position), tolerance*tolerance)
	if len(hits) == 0 {
		err := zerr.With(domain.ErrNoSnapCandidate, "vertex", vertexKey)
		return nil, zerr.With(err, "tolerance", tolerance)
	}

	source := hits[0].Value
	tx := s.AddAssociation(domain.NewAssociation(domain.KindPointOnPoint, source, vertexKey))
	if err := s.Apply(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("snapped %s to vertex %s", vertexKey, source))
	return tx, nil
}

// SnapToEdge attaches vertexKey to the nearest edge within tolerance with a PointOnLine
// association. Edges incident to the vertex are not candidates. A negative tolerance
// selects the workspace's snap tolerance.
func (s *Session) SnapToEdge(ctx context.Context, vertexKey string, tolerance float64) (*AddAssociationTx, error) {
	doc := s.Document()
	v, ok := doc.Vertex(vertexKey)
	if !ok {
		return nil, zerr.With(domain.ErrEntityNotFound, "vertex", vertexKey)
	}
	if tolerance < 0 {
		tolerance = s.ws.Settings.SnapTolerance
	}

	var items []spatial.Bounded[*domain.Entity]
	for _, e := range doc.Edges() {
		if e.From == vertexKey || e.To == vertexKey {
			continue
		}
		from, okFrom := doc.Vertex(e.From)
		to, okTo := doc.Vertex(e.To)
		if !okFrom || !okTo {
			continue
		}
		box := spatial.BoxOf(point(from.Position), point(to.Position)).Expand(tolerance)
		items = append(items, spatial.Bounded[*domain.Entity]{Box: box, Value: e})
	}
	index, err := spatial.NewBoundsIndex(items)
	if err != nil {
		return nil, err
	}

	var (
		best     *domain.Entity
		bestDist = math.Inf(1)
	)
	for _, hit := range index.Intersecting(spatial.BoxOf(point(v.Position))) {
		from, _ := doc.Vertex(hit.Value.From)
		to, _ := doc.Vertex(hit.Value.To)
		d := segmentDistance(v.Position, from.Position, to.Position)
		if d <= tolerance && d < bestDist {
			best, bestDist = hit.Value, d
		}
	}
	if best == nil {
		err := zerr.With(domain.ErrNoSnapCandidate, "vertex", vertexKey)
		return nil, zerr.With(err, "tolerance", tolerance)
	}

	tx := s.AddAssociation(domain.NewAssociation(domain.KindPointOnLine, best.Key(), vertexKey))
	if err := s.Apply(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("snapped %s to edge %s", vertexKey, best.Key()))
	return tx, nil
}

// RemoveEntity removes an entity with everything that refers to it and drops their
// cached data. Removal is not recorded in the history.
func (s *Session) RemoveEntity(key string) ([]string, error) {
	removed, err := s.Document().Remove(key)
	if err != nil {
		return nil, err
	}
	s.Scheduler().Forget(removed...)
	return removed, nil
}

// FindLoop returns the shortest closed loop of edges through edgeKey.
func (s *Session) FindLoop(edgeKey string) (spatial.Loop, error) {
	return s.Scheduler().FindLoop(edgeKey)
}

func (s *Session) restorePositions(positions map[string]v3.Vec) {
	doc := s.Document()
	for key, pos := range positions {
		v, ok := doc.Vertex(key)
		if !ok || v.Position == pos {
			continue
		}
		_ = doc.SetPosition(key, pos, false)
	}
}

func point(p v3.Vec) []float64 {
	return []float64{p.X, p.Y, p.Z}
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b v3.Vec) float64 {
	d := b.Sub(a)
	t := 0.0
	if l := d.Dot(d); l > 0 {
		t = min(max(p.Sub(a).Dot(d)/l, 0), 1)
	}
	r := p.Sub(a.Add(d.MulScalar(t)))
	return math.Sqrt(r.Dot(r))
}
