// Package timezone keeps every timestamp the service writes in the configured
// APP_TIMEZONE (an IANA name such as "Asia/Jakarta"). The location is resolved on
// first use and falls back to UTC when unset or unknown.
package timezone

import (
	"sync"
	"sync/atomic"
	"time"

	"lodging/config"

	"github.com/rs/zerolog/log"
)

var (
	override atomic.Pointer[time.Location]
	resolved = sync.OnceValue(func() *time.Location { return Load(config.Get().App.Timezone) })
)

// Load resolves name, falling back to UTC.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("no timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")

		return time.UTC
	}

	return loc
}

// SetLocation replaces the configured location. Passing nil restores it.
func SetLocation(loc *time.Location) {
	override.Store(loc)
}

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	if loc := override.Load(); loc != nil {
		return loc
	}

	return resolved()
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as a wall clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
