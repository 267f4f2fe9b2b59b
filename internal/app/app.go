// Package app implements the application layer for kern.
package app

import (
	"context"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/kern/internal/engine/scheduler"
	"go.trai.ch/kern/internal/spatial"
	"go.trai.ch/zerr"
)

// configurable is implemented by loggers that take their settings from the workspace.
type configurable interface {
	Configure(settings domain.Settings)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	store        ports.DocumentStore
	factory      *scheduler.Factory
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	store ports.DocumentStore,
	factory *scheduler.Factory,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		store:        store,
		factory:      factory,
		logger:       log,
	}
}

// Open loads the workspace found at or above cwd. A stored snapshot replaces the
// document declared in kern.yaml unless kern.yaml changed since it was saved.
func (a *App) Open(cwd string) (*Session, error) {
	ws, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if c, ok := a.logger.(configurable); ok {
		c.Configure(ws.Settings)
	}

	rec, err := a.store.Get(ws.Root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load snapshot")
	}
	if rec != nil && rec.Source != 0 && rec.Source != ws.Digest {
		a.logger.Warn(domain.KernFileName + " changed since the last snapshot, snapshot ignored")
		rec = nil
	}
	if rec != nil {
		doc, err := domain.LoadDocument(*rec, a.factory.Registry())
		if err != nil {
			return nil, zerr.Wrap(err, "failed to restore snapshot")
		}
		ws.Document = doc
	}

	return NewSession(ws, a.factory, a.logger), nil
}

// Save stores a snapshot of the session's document.
func (a *App) Save(s *Session) error {
	rec := s.Document().Dump()
	rec.Source = s.Workspace().Digest
	if err := a.store.Put(s.Workspace().Root, rec); err != nil {
		return zerr.Wrap(err, "failed to save snapshot")
	}
	a.logger.Info("saved snapshot of " + s.Workspace().Root)
	return nil
}

// Options are the flags shared by the mutating commands.
type Options struct {
	// Save stores a snapshot after a successful command.
	Save bool
}

func (a *App) withSession(ctx context.Context, cwd string, save bool, fn func(context.Context, *Session) error) error {
	s, err := a.Open(cwd)
	if err != nil {
		return err
	}
	if err := s.Run(ctx, func(ctx context.Context) error { return fn(ctx, s) }); err != nil {
		return err
	}
	if save {
		return a.Save(s)
	}
	return nil
}

// CheckReport describes the dependency graph of a workspace.
type CheckReport struct {
	Nodes        int
	Associations int
	Order        []string
	// Invalid lists associations whose references no longer resolve.
	Invalid []string
}

// Check verifies that the workspace's dependency graph can be ordered.
func (a *App) Check(ctx context.Context, cwd string) (*CheckReport, error) {
	var report *CheckReport
	err := a.withSession(ctx, cwd, false, func(ctx context.Context, s *Session) error {
		order, err := s.Scheduler().Order(ctx)
		if err != nil {
			return err
		}
		report = &CheckReport{
			Nodes:        len(order),
			Associations: len(s.Document().Associations()),
			Order:        order,
		}
		for _, as := range s.Document().Associations() {
			if !as.IsValid(s.Document()) {
				report.Invalid = append(report.Invalid, as.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Recompute runs a pass over the whole workspace.
func (a *App) Recompute(ctx context.Context, cwd string, opts Options) (*scheduler.Pass, error) {
	var pass *scheduler.Pass
	err := a.withSession(ctx, cwd, opts.Save, func(ctx context.Context, s *Session) error {
		var err error
		pass, err = s.Scheduler().RecomputeAll(ctx)
		return err
	})
	return pass, err
}

// Move moves a vertex, given by short id or key, and propagates the move.
func (a *App) Move(ctx context.Context, cwd, vertex string, to v3.Vec, opts Options) (*scheduler.Pass, error) {
	var pass *scheduler.Pass
	err := a.withSession(ctx, cwd, opts.Save, func(ctx context.Context, s *Session) error {
		tx := s.MoveVertex(s.Workspace().Resolve(vertex), to)
		if err := s.Apply(ctx, tx); err != nil {
			return err
		}
		pass = tx.Pass
		a.logger.Info(fmt.Sprintf("moved %s, %d associations computed", vertex, len(pass.Computed)))
		return nil
	})
	return pass, err
}

// SnapOptions configure Snap.
type SnapOptions struct {
	Options
	// ToEdge snaps onto the nearest edge instead of the nearest vertex.
	ToEdge bool
	// Tolerance overrides the workspace's snap tolerance when non-negative.
	Tolerance float64
}

// Snap attaches a vertex to its nearest neighbour and returns the created association.
func (a *App) Snap(ctx context.Context, cwd, vertex string, opts SnapOptions) (*domain.Association, error) {
	var created *domain.Association
	err := a.withSession(ctx, cwd, opts.Save, func(ctx context.Context, s *Session) error {
		key := s.Workspace().Resolve(vertex)
		var (
			tx  *AddAssociationTx
			err error
		)
		if opts.ToEdge {
			tx, err = s.SnapToEdge(ctx, key, opts.Tolerance)
		} else {
			tx, err = s.Snap(ctx, key, opts.Tolerance)
		}
		if err != nil {
			return err
		}
		created = tx.Association
		return nil
	})
	return created, err
}

// Remove deletes an entity, given by short id or key, and returns the keys of every
// entity removed with it.
func (a *App) Remove(ctx context.Context, cwd, entity string, opts Options) ([]string, error) {
	var removed []string
	err := a.withSession(ctx, cwd, opts.Save, func(_ context.Context, s *Session) error {
		var err error
		removed, err = s.RemoveEntity(s.Workspace().Resolve(entity))
		return err
	})
	return removed, err
}

// Loop returns the shortest closed loop through an edge given by short id or key.
func (a *App) Loop(ctx context.Context, cwd, edge string) (spatial.Loop, error) {
	var loop spatial.Loop
	err := a.withSession(ctx, cwd, false, func(_ context.Context, s *Session) error {
		var err error
		loop, err = s.FindLoop(s.Workspace().Resolve(edge))
		return err
	})
	return loop, err
}

// Outline returns the outline of a face given by short id or key.
func (a *App) Outline(ctx context.Context, cwd, face string) (*domain.FaceOutline, error) {
	var out *domain.FaceOutline
	err := a.withSession(ctx, cwd, false, func(_ context.Context, s *Session) error {
		var err error
		out, err = s.Scheduler().Outline(s.Workspace().Resolve(face))
		return err
	})
	return out, err
}
