package transaction

import (
	"math/rand"

	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/operation"
)

// MakeSignedTransaction signs `op` by `kp` with a random nonce.
func MakeSignedTransaction(kp *keypair.Full, networkID []byte, op operation.Operation) Transaction {
	tx := NewTransaction(kp.Address(), rand.Uint64(), op)
	tx.Sign(kp, networkID)

	return tx
}
