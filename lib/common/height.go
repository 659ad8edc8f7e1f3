package common

import (
	"strconv"

	"boscoin.io/governance/lib/errors"
)

// Height is the logical time of the ledger, the block height an operation
// is applied at. It only moves forward.
type Height uint64

func (h Height) Add(d Height) (Height, error) {
	n := h + d
	if n < h {
		return 0, errors.Overflow
	}

	return n, nil
}

func (h Height) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
