package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/vote"
)

func TestPool(t *testing.T) {
	config := common.NewTestConfig()
	kp := keypair.Random()

	pool := NewPool(2)

	tx0 := MakeSignedTransaction(kp, config.NetworkID, operation.MakeTestCastBallot(1, vote.Aye))
	tx1 := MakeSignedTransaction(kp, config.NetworkID, operation.MakeTestCastBallot(1, vote.Nay))
	tx2 := MakeSignedTransaction(kp, config.NetworkID, operation.MakeTestCastBallot(2, vote.Aye))

	require.NoError(t, pool.Add(tx0))
	require.True(t, errors.Is(pool.Add(tx0), errors.TransactionAlreadyExists))
	require.NoError(t, pool.Add(tx1))
	require.Equal(t, errors.TransactionPoolFull, pool.Add(tx2))
	require.Equal(t, 2, pool.Len())

	found, ok := pool.Get(tx1.GetHash())
	require.True(t, ok)
	require.Equal(t, tx1.GetHash(), found.GetHash())

	available := pool.AvailableTransactions(10)
	require.Len(t, available, 2)
	require.Equal(t, tx0.GetHash(), available[0].GetHash())
	require.Equal(t, tx1.GetHash(), available[1].GetHash())
	require.Len(t, pool.AvailableTransactions(1), 1)
	require.Nil(t, pool.AvailableTransactions(0))

	pool.Remove(tx0.GetHash(), "unknown")
	require.False(t, pool.Has(tx0.GetHash()))
	require.Equal(t, 1, pool.Len())

	require.NoError(t, pool.Add(tx2))
	available = pool.AvailableTransactions(10)
	require.Equal(t, tx1.GetHash(), available[0].GetHash())
	require.Equal(t, tx2.GetHash(), available[1].GetHash())
}
