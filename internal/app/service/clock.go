package service

import "time"

// Clock abstracts the wall clock so expiry can be simulated in tests.
type Clock func() time.Time

// SystemClock reads the real wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
