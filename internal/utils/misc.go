package utils

import "time"

func Ptr[T any](v T) *T {
	return &v
}

// DBNow returns the current UTC time truncated to the microsecond precision
// Postgres stores, so values survive a round trip unchanged.
func DBNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
