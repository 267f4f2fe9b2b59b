package ports

import "go.trai.ch/kern/internal/core/domain"

// DocumentStore defines the interface for persisting document snapshots.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DocumentStore interface {
	// Get retrieves the snapshot stored for the workspace at root.
	// Returns nil, nil if not found.
	Get(root string) (*domain.DocumentRecord, error)

	// Put stores the snapshot for the workspace at root.
	Put(root string, rec domain.DocumentRecord) error
}
