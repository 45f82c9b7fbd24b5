package time

import (
	"time"
)

// AddMinutes returns the current UTC time shifted forward by the given number
// of minutes. Token expiries are always computed in UTC.
func AddMinutes(minute uint) time.Time {
	return time.Now().UTC().Add(time.Minute * time.Duration(minute))
}
