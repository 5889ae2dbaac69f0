package lending

import (
	"time"
)

// ToTimestamp normalizes a time for persistence: UTC with microsecond
// precision, matching what Postgres "timestamp with time zone" round-trips.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
