package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/adapters/cache"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/kern/internal/core/ports/mocks"
	"go.trai.ch/kern/internal/engine/constraint"
	"go.trai.ch/kern/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	t     *testing.T
	doc   *domain.Document
	clock clockwork.FakeClock
	cache *cache.Cache
	sched *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()

	clock := clockwork.NewFakeClock()
	doc := domain.NewDocument()
	c := cache.New(cache.WithClock(clock))
	return &fixture{
		t:     t,
		doc:   doc,
		clock: clock,
		cache: c,
		sched: scheduler.NewScheduler(doc, constraint.NewRegistry(), c, tracer, scheduler.WithClock(clock)),
	}
}

func (f *fixture) vertex(name string, x, y float64) string {
	f.t.Helper()
	v, err := f.doc.AddVertex(domain.NewOwnerIdentity(name, "vertex"), v3.Vec{X: x, Y: y})
	require.NoError(f.t, err)
	return v.Key()
}

func (f *fixture) edge(name, from, to string) string {
	f.t.Helper()
	e, err := f.doc.AddEdge(domain.NewOwnerIdentity(name, "edge"), from, to, false, false)
	require.NoError(f.t, err)
	return e.Key()
}

func (f *fixture) associate(kind domain.AssociationKind, source string, targets ...string) string {
	f.t.Helper()
	a := domain.NewAssociation(kind, source, targets...)
	require.NoError(f.t, f.doc.AddAssociation(a))
	return a.ID
}

func (f *fixture) pos(key string) v3.Vec {
	f.t.Helper()
	v, ok := f.doc.Vertex(key)
	require.True(f.t, ok)
	return v.Position
}

func (f *fixture) move(key string, x, y float64) {
	f.t.Helper()
	require.NoError(f.t, f.doc.SetPosition(key, v3.Vec{X: x, Y: y}, false))
}

// square builds a unit square face a-b-c-d and returns the vertex, edge and face keys.
func (f *fixture) square() (vertices, edges []string, face string) {
	f.t.Helper()
	a := f.vertex("a", 0, 0)
	b := f.vertex("b", 1, 0)
	c := f.vertex("c", 1, 1)
	d := f.vertex("d", 0, 1)
	edges = []string{f.edge("ab", a, b), f.edge("bc", b, c), f.edge("cd", c, d), f.edge("da", d, a)}
	fe, err := f.doc.AddFace(domain.NewOwnerIdentity("square", "face"), edges)
	require.NoError(f.t, err)
	return []string{a, b, c, d}, edges, fe.Key()
}

func TestRecompute_PropagatesAlongChain(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	v3k := f.vertex("v3", 7, 7)
	first := f.associate(domain.KindPointOnPoint, v1, v2)
	second := f.associate(domain.KindPointOnPoint, v2, v3k)

	f.move(v1, 2, 4)
	pass, err := f.sched.Recompute(context.Background(), v1)
	require.NoError(t, err)

	assert.Equal(t, []string{v1, v2, v3k}, pass.Order)
	assert.Equal(t, []string{first, second}, pass.Computed)
	assert.Empty(t, pass.Skipped)
	assert.Equal(t, v3.Vec{X: 2, Y: 4}, f.pos(v2))
	assert.Equal(t, v3.Vec{X: 2, Y: 4}, f.pos(v3k))

	assert.Equal(t, domain.NodeStatusUnchanged, pass.Status[v1])
	assert.Equal(t, domain.NodeStatusComputed, pass.Status[v2])
	assert.Equal(t, domain.NodeStatusComputed, pass.Status[v3k])
}

func TestRecompute_RestrictsToAffectedSubgraph(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	other := f.vertex("other", 9, 9)
	unrelated := f.vertex("unrelated", 5, 5)
	f.associate(domain.KindPointOnPoint, v1, v2)
	f.associate(domain.KindPointOnPoint, other, unrelated)

	f.move(v1, 1, 1)
	pass, err := f.sched.Recompute(context.Background(), v1)
	require.NoError(t, err)

	assert.Equal(t, []string{v1, v2}, pass.Order)
	assert.NotContains(t, pass.Order, unrelated)
	assert.Equal(t, v3.Vec{X: 5, Y: 5}, f.pos(unrelated))
}

func TestRecompute_DependencyComesBeforeDependents(t *testing.T) {
	f := newFixture(t)
	a := f.vertex("a", 0, 0)
	b := f.vertex("b", 1, 0)
	ab := f.edge("ab", a, b)
	target := f.vertex("target", 5, 5)
	f.associate(domain.KindPointOnLine, ab, target)

	f.move(a, 0, 2)
	f.move(b, 10, 2)
	pass, err := f.sched.Recompute(context.Background(), a, b)
	require.NoError(t, err)

	idx := func(key string) int {
		for i, n := range pass.Order {
			if n == key {
				return i
			}
		}
		t.Fatalf("%s not in order", key)
		return -1
	}
	assert.Less(t, idx(a), idx(ab))
	assert.Less(t, idx(b), idx(ab))
	assert.Less(t, idx(ab), idx(target))
	assert.InDelta(t, 2.0, f.pos(target).Y, 1e-9)
	assert.InDelta(t, 5.0, f.pos(target).X, 1e-9)
}

func TestRecompute_RejectsCycleBeforeMutation(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	tail := f.vertex("tail", 8, 8)
	f.associate(domain.KindPointOnPoint, v1, v2)
	f.associate(domain.KindPointOnPoint, v2, v1)
	f.associate(domain.KindPointOnPoint, v1, tail)

	pass, err := f.sched.Recompute(context.Background(), v1)
	require.Error(t, err)
	assert.Nil(t, pass)
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	var cycle *domain.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Contains(t, cycle.Path, v1)
	assert.Contains(t, cycle.Path, v2)
	assert.Equal(t, v3.Vec{X: 8, Y: 8}, f.pos(tail))

	assert.Equal(t, v3.Vec{X: 0, Y: 0}, f.pos(v1))
	assert.Equal(t, v3.Vec{X: 3, Y: 3}, f.pos(v2))

	require.Error(t, f.sched.Check(context.Background()))
}

func TestRecompute_SplitEdgeBackToSourceIsCycle(t *testing.T) {
	f := newFixture(t)
	src := f.vertex("src", 0, 0)
	target := f.vertex("target", 1, 1)
	_, err := f.doc.AddEdge(domain.NewOwnerIdentity("split", "edge"), src, target, true, true)
	require.NoError(t, err)
	f.associate(domain.KindPointOnPoint, src, target)

	err = f.sched.Check(context.Background())
	var cycle *domain.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{src, src}, cycle.Path)

	_, err = f.sched.Recompute(context.Background(), src)
	require.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Equal(t, v3.Vec{X: 1, Y: 1}, f.pos(target))
}

func TestRecompute_CancelledContext(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	f.associate(domain.KindPointOnPoint, v1, v2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.sched.Recompute(ctx, v1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, v3.Vec{X: 3, Y: 3}, f.pos(v2))
}

func TestRecompute_ReportsInvalidAssociations(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	gone := f.associate(domain.KindPointOnPoint, v1, "missing")

	pass, err := f.sched.Recompute(context.Background(), v1)
	require.NoError(t, err)
	assert.Equal(t, []string{gone}, pass.Skipped)
	assert.Empty(t, pass.Computed)
}

func TestRecompute_MarksTargetsOfInvalidAssociationsSkipped(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	v3k := f.vertex("v3", 7, 7)
	broken := f.associate(domain.KindPointOnPoint, v1, v2, v3k, "missing")
	valid := f.associate(domain.KindPointOnPoint, v1, v3k)

	f.move(v1, 1, 1)
	pass, err := f.sched.Recompute(context.Background(), v1, v2)
	require.NoError(t, err)

	assert.Equal(t, []string{broken}, pass.Skipped)
	assert.Equal(t, []string{valid}, pass.Computed)
	assert.Equal(t, domain.NodeStatusUnchanged, pass.Status[v1])
	assert.Equal(t, domain.NodeStatusSkipped, pass.Status[v2])
	assert.Equal(t, domain.NodeStatusComputed, pass.Status[v3k])
	assert.Equal(t, v3.Vec{X: 3, Y: 3}, f.pos(v2))
	assert.Equal(t, v3.Vec{X: 1, Y: 1}, f.pos(v3k))
	for _, status := range pass.Status {
		assert.True(t, status.IsTerminal())
	}
}

func TestRecomputeAll(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	f.associate(domain.KindPointOnPoint, v1, v2)

	pass, err := f.sched.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, pass.Order, 2)
	assert.Equal(t, v3.Vec{}, f.pos(v2))
}

func TestOrder(t *testing.T) {
	f := newFixture(t)
	v1 := f.vertex("v1", 0, 0)
	v2 := f.vertex("v2", 3, 3)
	f.associate(domain.KindPointOnPoint, v2, v1)

	order, err := f.sched.Order(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{v2, v1}, order)
}

func TestOutline_ServedFromCacheWhileFresh(t *testing.T) {
	f := newFixture(t)
	vertices, _, face := f.square()

	first, err := f.sched.Outline(face)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, first.Perimeter, 1e-9)

	second, err := f.sched.Outline(face)
	require.NoError(t, err)
	assert.Same(t, first, second)

	f.clock.Advance(domain.DefaultCacheFreshness)
	third, err := f.sched.Outline(face)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	f.move(vertices[2], 2, 2)
	moved, err := f.sched.Outline(face)
	require.NoError(t, err)
	assert.NotSame(t, third, moved)
	assert.Contains(t, moved.Points, v3.Vec{X: 2, Y: 2})
}

func TestOutline_UnknownFace(t *testing.T) {
	f := newFixture(t)
	v := f.vertex("v", 0, 0)

	_, err := f.sched.Outline(v)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEntityNotFound.Error())
}

func TestOutline_UsesCacheOwnerContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	doc := domain.NewDocument()
	a, _ := doc.AddVertex(domain.NewOwnerIdentity("a", "vertex"), v3.Vec{})
	b, _ := doc.AddVertex(domain.NewOwnerIdentity("b", "vertex"), v3.Vec{X: 1})
	c, _ := doc.AddVertex(domain.NewOwnerIdentity("c", "vertex"), v3.Vec{Y: 1})
	ab, _ := doc.AddEdge(domain.NewOwnerIdentity("ab", "edge"), a.Key(), b.Key(), false, false)
	bc, _ := doc.AddEdge(domain.NewOwnerIdentity("bc", "edge"), b.Key(), c.Key(), false, false)
	ca, _ := doc.AddEdge(domain.NewOwnerIdentity("ca", "edge"), c.Key(), a.Key(), false, false)
	face, err := doc.AddFace(domain.NewOwnerIdentity("tri", "face"), []string{ab.Key(), bc.Key(), ca.Key()})
	require.NoError(t, err)

	computations := mocks.NewMockComputationCache(ctrl)
	computations.EXPECT().Get(gomock.Any(), ab.Key()).Return(nil, false)
	computations.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(owner ports.CacheOwner, _ any, _ string) {
			assert.Equal(t, face.Key(), owner.OwnerKey())
			assert.Equal(t, ab.Key()+";"+bc.Key()+";"+ca.Key(), owner.SubIdentities())
		}).Times(3)

	tracer := mocks.NewMockTracer(ctrl)
	s := scheduler.NewScheduler(doc, constraint.NewRegistry(), computations, tracer)

	out, err := s.Outline(face.Key())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.Area, 1e-9)
}

func TestRecompute_RefreshesTouchedFaces(t *testing.T) {
	f := newFixture(t)
	vertices, _, face := f.square()
	anchor := f.vertex("anchor", 3, 3)
	f.associate(domain.KindPointOnPoint, anchor, vertices[2])

	pass, err := f.sched.Recompute(context.Background(), anchor)
	require.NoError(t, err)
	assert.Equal(t, []string{face}, pass.Faces)

	out, err := f.sched.Outline(face)
	require.NoError(t, err)
	assert.Contains(t, out.Points, v3.Vec{X: 3, Y: 3})
}

func TestFindLoop(t *testing.T) {
	f := newFixture(t)
	vertices, edges, _ := f.square()

	loop, err := f.sched.FindLoop(edges[0])
	require.NoError(t, err)
	assert.Equal(t, vertices, loop.Nodes)
	assert.Equal(t, edges, loop.Arcs)
	assert.InDelta(t, 4.0, loop.Length, 1e-9)
}

func TestFindLoop_OpenChain(t *testing.T) {
	f := newFixture(t)
	a := f.vertex("a", 0, 0)
	b := f.vertex("b", 1, 0)
	ab := f.edge("ab", a, b)

	_, err := f.sched.FindLoop(ab)
	require.Error(t, err)
}

func TestFactory_SharesSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClock()
	factory := scheduler.NewFactory(constraint.NewRegistry(), mocks.NewMockTracer(ctrl), clock)

	settings := domain.DefaultSettings()
	settings.CacheFreshness = time.Second
	eng := factory.New(domain.NewDocument(), settings)
	require.NotNil(t, eng.Scheduler)
	require.NotNil(t, eng.Cache)
	assert.Equal(t, 0, eng.Cache.Len())
}
