package scheduler

import (
	"context"
	"sync"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/kern/internal/adapters/cache"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kern/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/kern/internal/engine/constraint"
)

// NodeID is the unique identifier for the scheduler factory Graft node.
const NodeID graft.ID = "engine.scheduler"

// Engine is a scheduler bound to a document together with the cache it feeds.
type Engine struct {
	Scheduler *Scheduler
	Cache     *cache.Cache
}

// Factory builds an Engine for a loaded workspace.
type Factory struct {
	registry *constraint.Registry
	tracer   ports.Tracer
	clock    clockwork.Clock
}

// NewFactory creates a Factory.
func NewFactory(registry *constraint.Registry, tracer ports.Tracer, clock clockwork.Clock) *Factory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Factory{registry: registry, tracer: tracer, clock: clock}
}

// Registry returns the constraint registry engines are built with.
func (f *Factory) Registry() *constraint.Registry {
	return f.registry
}

// New builds an Engine for doc. The cache sweep and the scheduler share one pass lock.
func (f *Factory) New(doc *domain.Document, settings domain.Settings) *Engine {
	var lock sync.Mutex
	c := cache.New(
		cache.WithClock(f.clock),
		cache.WithFreshness(settings.CacheFreshness),
		cache.WithSweepInterval(settings.SweepInterval),
		cache.WithSweepGuard(&lock),
	)
	return &Engine{
		Scheduler: NewScheduler(doc, f.registry, c, f.tracer, WithClock(f.clock), WithPassLock(&lock)),
		Cache:     c,
	}
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			constraint.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			registry, err := graft.Dep[*constraint.Registry](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(registry, tracer, clockwork.NewRealClock()), nil
		},
	})
}
