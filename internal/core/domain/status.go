package domain

import "strings"

// NodeStatus represents what a recompute pass did with a node of the dependency graph.
type NodeStatus string

const (
	// NodeStatusPending indicates the node is waiting for its predecessors.
	NodeStatusPending NodeStatus = "pending"
	// NodeStatusComputed indicates at least one association wrote the node.
	NodeStatusComputed NodeStatus = "computed"
	// NodeStatusUnchanged indicates the node was visited but nothing wrote it.
	NodeStatusUnchanged NodeStatus = "unchanged"
	// NodeStatusSkipped indicates the node is a target of an association the pass could
	// not compute, because its references are invalid or the computation failed.
	NodeStatusSkipped NodeStatus = "skipped"
)

// IsTerminal reports whether the pass is done with the node.
func (s NodeStatus) IsTerminal() bool {
	switch s {
	case NodeStatusComputed, NodeStatusUnchanged, NodeStatusSkipped:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// ParseLogLevel converts a level name to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
