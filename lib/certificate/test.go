package certificate

import (
	"boscoin.io/governance/lib/common"
)

// MakeTestHash makes a distinct hash from a short label without running the
// slow object hasher.
func MakeTestHash(label string) common.Hash {
	return common.BytesToHash([]byte(label))
}
