// Package signal implements a push-based, typed reactive dataflow core:
// Nodes connected by Inputs, observed through Outputs, bound and rebound
// via Junctions, and snapshotted with Captures.
package signal

import "errors"

// SendErrorReason classifies why Node.Send rejected a value synchronously,
// before it ever entered the stream.
type SendErrorReason int

const (
	// ReasonInactive means the target node has not yet activated (no
	// Output has subscribed, directly or transitively).
	ReasonInactive SendErrorReason = iota
	// ReasonDisconnected means the Input's activation token no longer
	// matches the target node's current generation (it was rebound or
	// reset after the Input was minted).
	ReasonDisconnected
	// ReasonDuplicate means a single-subscriber node already has a
	// successor and cannot accept a second one without first disconnecting.
	ReasonDuplicate
	// ReasonLoop means binding would create a cycle in the graph.
	ReasonLoop
)

func (r SendErrorReason) String() string {
	switch r {
	case ReasonInactive:
		return "inactive"
	case ReasonDisconnected:
		return "disconnected"
	case ReasonDuplicate:
		return "duplicate"
	case ReasonLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// SendError is returned synchronously by Send/Bind when a value or
// connection is rejected before entering the graph.
type SendError struct {
	Reason SendErrorReason
	// Cause optionally carries additional context (e.g. an error raised
	// while probing the predecessor chain for a loop).
	Cause error
}

// Error implements error.
func (e *SendError) Error() string {
	if e.Cause != nil {
		return "signal: " + e.Reason.String() + ": " + e.Cause.Error()
	}
	return "signal: " + e.Reason.String()
}

// Unwrap exposes Cause for errors.Is/errors.As chains.
func (e *SendError) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, ErrInactive) and friends to match regardless of
// Cause.
func (e *SendError) Is(target error) bool {
	other, ok := target.(*SendError)
	if !ok {
		return false
	}
	return other.Reason == e.Reason
}

var (
	// ErrInactive is a sentinel matched via errors.Is against a
	// *SendError with ReasonInactive.
	ErrInactive = &SendError{Reason: ReasonInactive}
	// ErrDisconnected is a sentinel matched via errors.Is against a
	// *SendError with ReasonDisconnected.
	ErrDisconnected = &SendError{Reason: ReasonDisconnected}
	// ErrDuplicate is a sentinel matched via errors.Is against a
	// *SendError with ReasonDuplicate.
	ErrDuplicate = &SendError{Reason: ReasonDuplicate}
	// ErrLoop is a sentinel matched via errors.Is against a *SendError
	// with ReasonLoop.
	ErrLoop = &SendError{Reason: ReasonLoop}
)

// newSendError builds a *SendError for reason, optionally wrapping cause.
func newSendError(reason SendErrorReason, cause error) *SendError {
	return &SendError{Reason: reason, Cause: cause}
}

// WrapError attaches a message to cause while preserving the errors.Is
// chain, mirroring the teacher pack's convention for cause-chained errors.
func WrapError(message string, cause error) error {
	if cause == nil {
		return errors.New(message)
	}
	return &wrappedError{msg: message, cause: cause}
}

type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string { return e.msg + ": " + e.cause.Error() }
func (e *wrappedError) Unwrap() error { return e.cause }
