package domain

import "time"

// Default values for Settings.
const (
	DefaultCacheFreshness = 5 * time.Second
	DefaultSweepInterval  = 5 * time.Minute
	DefaultSnapTolerance  = 0.01
)

// Settings holds the tunable policy of a session.
type Settings struct {
	// CacheFreshness is the maximum age at which a computation cache entry is served.
	CacheFreshness time.Duration
	// SweepInterval is the period of the background cache sweep.
	SweepInterval time.Duration
	// SnapTolerance is the maximum distance at which snap commands attach a vertex.
	SnapTolerance float64
	// LogJSON switches the logger to JSON output.
	LogJSON bool
	// LogLevel is the minimum level the logger emits.
	LogLevel LogLevel
}

// DefaultSettings returns the settings used when the configuration leaves them unset.
func DefaultSettings() Settings {
	return Settings{
		CacheFreshness: DefaultCacheFreshness,
		SweepInterval:  DefaultSweepInterval,
		SnapTolerance:  DefaultSnapTolerance,
		LogLevel:       LogLevelInfo,
	}
}

// Workspace is a loaded model: its document, its settings and the directory it lives in.
type Workspace struct {
	Root     string
	Settings Settings
	Document *Document
	// Aliases maps the short ids used in the configuration to document keys.
	Aliases map[string]string
	// Digest is the XXHash of the configuration file the workspace was loaded from.
	Digest uint64
}

// Resolve maps a short id or a document key to a document key.
func (w *Workspace) Resolve(ref string) string {
	if key, ok := w.Aliases[ref]; ok {
		return key
	}
	return ref
}
