package domain

import "go.trai.ch/zerr"

var (
	// ErrCycleDetected is returned when a cycle is detected in the association dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrMissingDependency is returned when a graph adapter references a node that doesn't exist.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrEntityExists is returned when attempting to add an entity whose identity is already in the document.
	ErrEntityExists = zerr.New("entity already exists")

	// ErrEntityNotFound is returned when a requested entity is not in the document.
	ErrEntityNotFound = zerr.New("entity not found")

	// ErrInvalidEntityKind is returned when an entity reference resolves to the wrong kind of entity.
	ErrInvalidEntityKind = zerr.New("invalid entity kind")

	// ErrAssociationExists is returned when attempting to add an association with an id that already exists.
	ErrAssociationExists = zerr.New("association already exists")

	// ErrAssociationNotFound is returned when a requested association is not in the document.
	ErrAssociationNotFound = zerr.New("association not found")

	// ErrUnknownAssociationKind is returned when an association tag has no registered kind.
	ErrUnknownAssociationKind = zerr.New("unknown association kind")

	// ErrOpenLoop is returned when a face's edges do not form a closed loop.
	ErrOpenLoop = zerr.New("face boundary is not a closed loop")

	// ErrInvalidIdentityRecord is returned when a serialized identity record cannot be loaded.
	ErrInvalidIdentityRecord = zerr.New("invalid identity record")

	// ErrConfigNotFound is returned when no kern.yaml is found at or above the working directory.
	ErrConfigNotFound = zerr.New("could not find kern.yaml")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the configuration file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedVersion is returned when the configuration declares a version this build does not read.
	ErrUnsupportedVersion = zerr.New("unsupported config version")

	// ErrDuplicateID is returned when two model entries in the configuration share an id.
	ErrDuplicateID = zerr.New("duplicate id")

	// ErrMissingID is returned when a model entry in the configuration has no id.
	ErrMissingID = zerr.New("missing id")

	// ErrUnknownReference is returned when the configuration refers to an id it does not declare.
	ErrUnknownReference = zerr.New("unknown reference")

	// ErrInvalidSetting is returned when a configuration setting is out of range.
	ErrInvalidSetting = zerr.New("invalid setting")

	// ErrSnapshotReadFailed is returned when a stored document snapshot cannot be read.
	ErrSnapshotReadFailed = zerr.New("failed to read document snapshot")

	// ErrSnapshotWriteFailed is returned when a document snapshot cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write document snapshot")

	// ErrNothingToUndo is returned when undo is requested with an empty history.
	ErrNothingToUndo = zerr.New("nothing to undo")

	// ErrNothingToRedo is returned when redo is requested with nothing undone.
	ErrNothingToRedo = zerr.New("nothing to redo")

	// ErrNoSnapCandidate is returned when no entity lies within the snap tolerance.
	ErrNoSnapCandidate = zerr.New("no snap candidate within tolerance")
)
