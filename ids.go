package signal

import "github.com/google/uuid"

// newID mints a diagnostic identity for a Node or Output. It is never used
// for routing; it appears in logging fields and metrics labels, and the one
// equality check on it is Junction's self-bind test (wouldLoop).
func newID() uuid.UUID {
	return uuid.New()
}
