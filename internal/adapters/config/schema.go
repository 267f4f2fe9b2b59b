package config

import "time"

// Kernfile represents the structure of the kern.yaml configuration file.
type Kernfile struct {
	Version string   `yaml:"version"`
	Cache   CacheDTO `yaml:"cache"`
	Snap    SnapDTO  `yaml:"snap"`
	Log     LogDTO   `yaml:"log"`
	Model   ModelDTO `yaml:"model"`
}

// CacheDTO holds the computation cache policy.
type CacheDTO struct {
	Freshness     *time.Duration `yaml:"freshness"`
	SweepInterval *time.Duration `yaml:"sweepInterval"`
}

// SnapDTO holds the snapping policy.
type SnapDTO struct {
	Tolerance *float64 `yaml:"tolerance"`
}

// LogDTO holds the logger settings.
type LogDTO struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// ModelDTO declares the entities and associations of the model. Entries refer to each
// other by their short ids.
type ModelDTO struct {
	Vertices     []VertexDTO      `yaml:"vertices"`
	Edges        []EdgeDTO        `yaml:"edges"`
	Faces        []FaceDTO        `yaml:"faces"`
	Associations []AssociationDTO `yaml:"associations"`
}

// VertexDTO represents a vertex definition.
type VertexDTO struct {
	ID string    `yaml:"id"`
	At []float64 `yaml:"at"`
}

// EdgeDTO represents an edge definition.
type EdgeDTO struct {
	ID    string `yaml:"id"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Split bool   `yaml:"split"`
	Inner bool   `yaml:"inner"`
}

// FaceDTO represents a face definition.
type FaceDTO struct {
	ID    string   `yaml:"id"`
	Edges []string `yaml:"edges"`
}

// AssociationDTO represents an association definition.
type AssociationDTO struct {
	ID      string   `yaml:"id"`
	Type    string   `yaml:"type"`
	Entity  string   `yaml:"entity"`
	Targets []string `yaml:"targets"`
}
