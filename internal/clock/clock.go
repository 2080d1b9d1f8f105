package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock is the single source of "now" for services, so one operation can
// stamp every row it writes with the same instant.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

// Now is truncated to microseconds, the resolution of Postgres timestamps,
// so values returned to callers match what a later read sees.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func New() Clock {
	return SystemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(New),
)
