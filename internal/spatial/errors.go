// Package spatial provides the read-mostly search structures used for proximity and loop
// queries over the model: a keyed priority queue, a k-d tree, a bounding-volume index and
// a shortest-loop search.
package spatial

import "go.trai.ch/zerr"

var (
	// ErrQueueUnderflow is returned when reading from an empty priority queue.
	ErrQueueUnderflow = zerr.New("queue underflow")

	// ErrKeyNotFound is returned when a priority queue operation names an absent key.
	ErrKeyNotFound = zerr.New("key not found")

	// ErrPriorityNotDecreased is returned when Decrease is given a priority that is not lower
	// than the current one.
	ErrPriorityNotDecreased = zerr.New("priority not decreased")

	// ErrNoLoop is returned when no closed loop passes through the requested edge.
	ErrNoLoop = zerr.New("no loop found")

	// ErrDimensionMismatch is returned when points of different dimensions are mixed.
	ErrDimensionMismatch = zerr.New("dimension mismatch")
)
