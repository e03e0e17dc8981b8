package clock

import "time"

// Clock provides time to the application. Services take it as an interface
// so tests can substitute a controllable implementation.
type Clock interface {
	Now() time.Time
}
