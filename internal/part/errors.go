package part

import "errors"

// Sentinel errors identifying the programming-error class of failure
// described in §7 of the tracker spec: a misuse of the acquisition API by
// the macro layer, never a condition a well-behaved caller can trigger.
var (
	// ErrKindMismatch is raised when a name already denotes a tracker of a
	// different kind under the same parent (a section acquired where a
	// generator of that name exists, or vice versa).
	ErrKindMismatch = errors.New("part: existing child has a different kind")

	// ErrInvalidTransition is raised when Close is called on a tracker
	// whose run state is not one Close knows how to settle.
	ErrInvalidTransition = errors.New("part: unexpected run state in Close")
)
