package common

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// CheckClockOffset asks `server` for the offset of the local clock. The
// timestamps of transactions and blocks come from the local clock, so an
// offset over `tolerance` is an error.
func CheckClockOffset(server string, tolerance time.Duration) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}

	offset := resp.ClockOffset
	if offset > tolerance || -offset > tolerance {
		return offset, fmt.Errorf("local clock is off by %v from %s; tolerance is %v", offset, server, tolerance)
	}

	return offset, nil
}
