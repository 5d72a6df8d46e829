package signal

import "fmt"

// EndKind classifies how a stream terminated.
type EndKind int

const (
	// Complete indicates the stream ran out of values normally.
	Complete EndKind = iota
	// Cancelled indicates the stream was torn down by its consumer, not
	// its producer.
	Cancelled
	// Other wraps a producer-supplied error.
	Other
)

func (k EndKind) String() string {
	switch k {
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("EndKind(%d)", int(k))
	}
}

// End represents the terminal event of a stream: either a normal
// completion, a consumer-driven cancellation, or a wrapped error.
//
// End implements error so it can travel through errors.Is/errors.As chains
// alongside the errors it wraps.
type End struct {
	kind EndKind
	err  error
}

// EndComplete is the sentinel normal-termination End.
func EndComplete() End { return End{kind: Complete} }

// EndCancelled is the sentinel consumer-driven termination End.
func EndCancelled() End { return End{kind: Cancelled} }

// EndOther wraps err as a terminal failure. Passing a nil err still
// produces an Other-kind End (callers that want Complete should call
// EndComplete instead).
func EndOther(err error) End { return End{kind: Other, err: err} }

// Kind reports which of Complete, Cancelled or Other this End represents.
func (e End) Kind() EndKind { return e.kind }

// Err returns the wrapped error for an Other end, or nil otherwise.
func (e End) Err() error { return e.err }

// Error implements error.
func (e End) Error() string {
	switch e.kind {
	case Complete:
		return "signal: complete"
	case Cancelled:
		return "signal: cancelled"
	default:
		if e.err != nil {
			return "signal: " + e.err.Error()
		}
		return "signal: other"
	}
}

// Unwrap exposes the wrapped error for errors.Is/errors.As, for Other ends.
func (e End) Unwrap() error { return e.err }

// Is reports whether target is an End of the same Kind, ignoring the
// wrapped error for Other. Use errors.As to recover the wrapped error.
func (e End) Is(target error) bool {
	other, ok := target.(End)
	if !ok {
		return false
	}
	return other.kind == e.kind
}

// Result is the payload carried through a stream: either a value or a
// terminal End. A Result never carries both.
type Result[T any] struct {
	value   T
	end     End
	isValue bool
}

// Value constructs a Result carrying v.
func Value[T any](v T) Result[T] {
	return Result[T]{value: v, isValue: true}
}

// Failure constructs a Result carrying a terminal End.
func Failure[T any](end End) Result[T] {
	return Result[T]{end: end}
}

// IsValue reports whether this Result carries a value rather than an End.
func (r Result[T]) IsValue() bool { return r.isValue }

// Get returns the carried value and true, or the zero value and false if
// this Result is a terminal End.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.isValue
}

// End returns the carried End and true, or a zero End and false if this
// Result carries a value.
func (r Result[T]) End() (End, bool) {
	if r.isValue {
		return End{}, false
	}
	return r.end, true
}

// MapResult converts a Result[S] to a Result[T] via f, leaving a terminal
// End untouched.
func MapResult[S, T any](r Result[S], f func(S) T) Result[T] {
	if v, ok := r.Get(); ok {
		return Value(f(v))
	}
	end, _ := r.End()
	return Failure[T](end)
}
