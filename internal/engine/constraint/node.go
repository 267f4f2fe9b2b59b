package constraint

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the constraint registry Graft node.
const NodeID graft.ID = "engine.constraint_registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (*Registry, error) {
			return NewRegistry(), nil
		},
	})
}
