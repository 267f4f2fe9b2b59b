package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kern/internal/adapters/logger"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/kern/internal/engine/constraint"
)

// NodeID is the unique identifier for the configuration loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, constraint.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[*constraint.Registry](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, registry), nil
		},
	})
}
