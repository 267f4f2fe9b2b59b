package domain

import "path/filepath"

const (
	// KernDirName is the name of the internal workspace directory.
	KernDirName = ".kern"

	// KernFileName is the name of the model configuration file.
	KernFileName = "kern.yaml"

	// StateFileName is the name of the document snapshot file.
	StateFileName = "state.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStatePath returns the path of the document snapshot relative to a workspace root.
// It joins .kern and state.json.
func DefaultStatePath() string {
	return filepath.Join(KernDirName, StateFileName)
}
