package ports

import "go.trai.ch/kern/internal/core/domain"

// ConfigLoader defines the interface for loading a model configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration found at or above cwd and returns the workspace it describes.
	Load(cwd string) (*domain.Workspace, error)

	// DiscoverRoot walks up from cwd to find the directory containing kern.yaml.
	DiscoverRoot(cwd string) (string, error)
}
