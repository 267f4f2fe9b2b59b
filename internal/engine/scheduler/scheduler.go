// Package scheduler runs recomputation passes over the association dependency graph.
package scheduler

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/kern/internal/engine/constraint"
	"go.trai.ch/kern/internal/spatial"
	"go.trai.ch/zerr"
)

// Pass reports what one recomputation pass did.
type Pass struct {
	// Changed lists the keys the pass was started from.
	Changed []string
	// Order is the evaluation order of the affected subgraph.
	Order []string
	// Computed lists the ids of the associations that ran, in run order.
	Computed []string
	// Skipped lists the ids of affected associations whose references are invalid.
	Skipped []string
	// Faces lists the faces whose outline was refreshed.
	Faces []string
	// Status records what the pass did with each node of Order.
	Status   map[string]domain.NodeStatus
	Duration time.Duration
}

// Scheduler owns the single entry point through which the model is recomputed. Passes
// are serialized: each pass completes before the next begins.
type Scheduler struct {
	doc      *domain.Document
	registry *constraint.Registry
	cache    ports.ComputationCache
	tracer   ports.Tracer

	clock      clockwork.Clock
	lock       sync.Locker
	fireEvents bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the clock used to time passes.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithPassLock sets the lock held for the duration of every pass. Sharing it with the
// cache sweep keeps the two from overlapping.
func WithPassLock(lock sync.Locker) Option {
	return func(s *Scheduler) {
		s.lock = lock
	}
}

// WithSilentCompute suppresses document change notifications during passes.
func WithSilentCompute() Option {
	return func(s *Scheduler) {
		s.fireEvents = false
	}
}

// NewScheduler creates a Scheduler over doc.
func NewScheduler(
	doc *domain.Document,
	registry *constraint.Registry,
	cache ports.ComputationCache,
	tracer ports.Tracer,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		doc:        doc,
		registry:   registry,
		cache:      cache,
		tracer:     tracer,
		clock:      clockwork.NewRealClock(),
		lock:       &sync.Mutex{},
		fireEvents: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Graph returns the dependency graph of the current document.
func (s *Scheduler) Graph() *domain.AssociationGraph {
	return domain.NewAssociationGraph(s.doc, s.registry)
}

// Check reports a *CycleError if the subgraph reachable from changed has no evaluation
// order. With no keys the whole graph is checked.
func (s *Scheduler) Check(_ context.Context, changed ...string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := domain.TopologicalSort[string](s.affected(changed))
	return err
}

// Order returns the evaluation order of the whole graph.
func (s *Scheduler) Order(_ context.Context) ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return domain.TopologicalSort[string](s.Graph())
}

// RecomputeAll runs a pass over the whole graph.
func (s *Scheduler) RecomputeAll(ctx context.Context) (*Pass, error) {
	return s.Recompute(ctx, s.Graph().Nodes()...)
}

// Recompute runs a pass over the subgraph reachable from the changed keys. The subgraph is
// checked for cycles before anything is mutated; a cyclic subgraph is rejected whole. The
// context is consulted only before mutation starts.
func (s *Scheduler) Recompute(ctx context.Context, changed ...string) (*Pass, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ctx, span := s.tracer.Start(ctx, "kern.recompute", ports.WithAttribute("changed", len(changed)))
	defer span.End()

	start := s.clock.Now()
	pass := &Pass{Changed: slices.Clone(changed), Status: make(map[string]domain.NodeStatus)}

	graph := s.affected(changed)
	order, err := domain.TopologicalSort[string](graph)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.Wrap(err, "recompute aborted")
	}
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, zerr.Wrap(err, "recompute cancelled")
	}

	pass.Order = order
	s.tracer.EmitPlan(ctx, order)

	affected := make(map[string]bool, len(order))
	for _, n := range order {
		affected[n] = true
		pass.Status[n] = domain.NodeStatusPending
	}

	ran := make(map[string]bool)
	for _, node := range order {
		if !pass.Status[node].IsTerminal() {
			pass.Status[node] = domain.NodeStatusUnchanged
		}
		for _, a := range graph.Writers(node) {
			if ran[a.ID] || !affected[a.Entity] {
				continue
			}
			ran[a.ID] = true
			moved, err := s.registry.Compute(s.doc, a, s.fireEvents)
			if err != nil {
				pass.skip(a, affected)
				continue
			}
			pass.Computed = append(pass.Computed, a.ID)
			if !moved {
				continue
			}
			for _, w := range s.registry.Writes(s.doc, a) {
				if affected[w] {
					pass.Status[w] = domain.NodeStatusComputed
				}
			}
		}
	}

	for _, a := range s.doc.Associations() {
		if affected[a.Entity] && !a.IsValid(s.doc) {
			pass.skip(a, affected)
		}
	}

	pass.Faces = s.refreshFaces(affected)
	pass.Duration = s.clock.Since(start)

	span.SetAttribute("nodes", len(order))
	span.SetAttribute("computed", len(pass.Computed))
	return pass, nil
}

// skip records a as skipped and marks its affected targets skipped unless another
// association already wrote them.
func (p *Pass) skip(a *domain.Association, affected map[string]bool) {
	p.Skipped = append(p.Skipped, a.ID)
	for _, t := range a.Targets {
		if affected[t] && p.Status[t] != domain.NodeStatusComputed {
			p.Status[t] = domain.NodeStatusSkipped
		}
	}
}

func (s *Scheduler) affected(changed []string) *domain.AssociationGraph {
	g := s.Graph()
	if len(changed) == 0 {
		return g
	}
	return g.Restrict(changed...)
}

// refreshFaces recomputes the outline of every face bounded by an affected node. Faces that
// no longer form a loop are left out.
func (s *Scheduler) refreshFaces(affected map[string]bool) []string {
	var refreshed []string
	for _, face := range s.doc.Faces() {
		if !s.touches(face, affected) {
			continue
		}
		if _, err := s.outline(face); err == nil {
			refreshed = append(refreshed, face.Key())
		}
	}
	return refreshed
}

func (s *Scheduler) touches(face *domain.Entity, affected map[string]bool) bool {
	for _, key := range face.Edges {
		if affected[key] {
			return true
		}
		if e, ok := s.doc.Edge(key); ok && (affected[e.From] || affected[e.To]) {
			return true
		}
	}
	return false
}

// Outline returns the outline of a face, served from the cache while it is fresh.
func (s *Scheduler) Outline(faceKey string) (*domain.FaceOutline, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	face, ok := s.doc.Entity(faceKey)
	if !ok || face.Kind != domain.EntityFace {
		return nil, zerr.With(domain.ErrEntityNotFound, "face", faceKey)
	}
	return s.outline(face)
}

func (s *Scheduler) outline(face *domain.Entity) (*domain.FaceOutline, error) {
	owner := newFaceOwner(s.doc, face)
	if len(face.Edges) > 0 {
		if cached, ok := s.cache.Get(owner, face.Edges[0]); ok {
			if out, ok := cached.(*domain.FaceOutline); ok {
				return out, nil
			}
		}
	}

	out, err := domain.TraceOutline(s.doc, face.Key())
	if err != nil {
		s.cache.Remove(owner.OwnerKey())
		return nil, err
	}
	for _, edge := range face.Edges {
		s.cache.Set(owner, out, edge)
	}
	return out, nil
}

// Forget drops cached data owned by key, for entities that were removed.
func (s *Scheduler) Forget(keys ...string) {
	for _, key := range keys {
		s.cache.Remove(key)
	}
}

// FindLoop returns the shortest closed loop of edges through edgeKey.
func (s *Scheduler) FindLoop(edgeKey string) (spatial.Loop, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	edge, ok := s.doc.Edge(edgeKey)
	if !ok {
		return spatial.Loop{}, zerr.With(domain.ErrEntityNotFound, "edge", edgeKey)
	}
	return spatial.ShortestLoop(s.adjacency, edge.From, edge.To, edge.Key(), s.length(edge))
}

func (s *Scheduler) adjacency(vertexKey string) []spatial.Arc {
	edges := s.doc.IncidentEdges(vertexKey)
	arcs := make([]spatial.Arc, 0, len(edges))
	for _, e := range edges {
		arcs = append(arcs, spatial.Arc{To: e.Other(vertexKey), Via: e.Key(), Weight: s.length(e)})
	}
	return arcs
}

func (s *Scheduler) length(e *domain.Entity) float64 {
	from, okFrom := s.doc.Vertex(e.From)
	to, okTo := s.doc.Vertex(e.To)
	if !okFrom || !okTo {
		return math.Inf(1)
	}
	d := to.Position.Sub(from.Position)
	return math.Sqrt(d.Dot(d))
}
