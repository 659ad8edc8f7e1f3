package runner

import (
	"testing"
	"time"

	"github.com/GianlucaGuarini/go-observable"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/transaction"
	"boscoin.io/governance/lib/vote"
)

func prepareNodeRunner(t *testing.T, accounts ...GenesisAccount) *NodeRunner {
	st := storage.NewTestMemoryLevelDBBackend()

	_, err := InitGenesis(st, &Genesis{Accounts: accounts})
	require.NoError(t, err)

	nr, err := NewNodeRunner(st, common.NewTestConfig())
	require.NoError(t, err)
	nr.SetObserver(observable.New())

	return nr
}

func TestNewNodeRunnerWithoutGenesis(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	_, err := NewNodeRunner(st, common.NewTestConfig())
	require.True(t, errors.Is(err, errors.BlockNotFound))
}

func TestProduceBlock(t *testing.T) {
	nr := prepareNodeRunner(t)
	defer nr.Storage().Close()

	networkID := nr.Config().NetworkID
	creator := keypair.Random()
	voter := keypair.Random()

	create := transaction.MakeSignedTransaction(creator, networkID, operation.MakeTestCreateVote(vote.Plain, 2))
	require.NoError(t, nr.TransactionPool().Add(create))

	b, err := nr.ProduceBlock()
	require.NoError(t, err)
	require.Equal(t, uint64(2), b.Height)
	require.Equal(t, []string{create.GetHash()}, b.Transactions)
	require.Equal(t, 0, nr.TransactionPool().Len())

	receipt, err := block.GetReceipt(nr.Storage(), create.GetHash())
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())
	require.Equal(t, "1", string(receipt.Result))

	v, err := vote.GetVote(nr.Storage(), 1)
	require.NoError(t, err)
	require.Equal(t, common.Height(2), v.CreatedAt)
	require.Equal(t, common.Height(4), v.EndsAt)

	// the creator can not vote on its own vote; the receipt keeps the error
	selfVote := transaction.MakeSignedTransaction(creator, networkID, operation.MakeTestCastBallot(1, vote.Aye))
	ballot := transaction.MakeSignedTransaction(voter, networkID, operation.MakeTestCastBallot(1, vote.Aye))
	require.NoError(t, nr.TransactionPool().Add(selfVote))
	require.NoError(t, nr.TransactionPool().Add(ballot))

	b, err = nr.ProduceBlock()
	require.NoError(t, err)
	require.Equal(t, uint64(3), b.Height)
	require.Equal(t, uint64(3), b.TotalTxs)

	receipt, err = block.GetReceipt(nr.Storage(), selfVote.GetHash())
	require.NoError(t, err)
	require.False(t, receipt.Succeeded())
	require.True(t, errors.Is(receipt.Error, errors.SelfVote))

	receipt, err = block.GetReceipt(nr.Storage(), ballot.GetHash())
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())
	require.Equal(t, uint64(1), receipt.Index)

	// empty block moves the clock past the deadline
	b, err = nr.ProduceBlock()
	require.NoError(t, err)
	require.Equal(t, 0, len(b.Transactions))

	conclude := transaction.MakeSignedTransaction(voter, networkID, operation.MustNewOperation(operation.NewConcludeVote(1)))
	require.NoError(t, nr.TransactionPool().Add(conclude))
	_, err = nr.ProduceBlock()
	require.NoError(t, err)

	result, err := vote.GetTallyResult(nr.Storage(), 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Aye)
	require.Equal(t, common.Height(5), result.ConcludedAt)
}

func TestProduceBlockSkipsAppliedTransaction(t *testing.T) {
	nr := prepareNodeRunner(t)
	defer nr.Storage().Close()

	tx := transaction.MakeSignedTransaction(keypair.Random(), nr.Config().NetworkID, operation.MakeTestCreateVote(vote.Plain, 2))
	require.NoError(t, nr.TransactionPool().Add(tx))
	_, err := nr.ProduceBlock()
	require.NoError(t, err)

	// resubmitted before the api saw the receipt
	require.NoError(t, nr.TransactionPool().Add(tx))
	b, err := nr.ProduceBlock()
	require.NoError(t, err)
	require.Equal(t, 0, len(b.Transactions))
	require.Equal(t, 0, nr.TransactionPool().Len())

	count, err := vote.GetVoteCount(nr.Storage())
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestNodeRunnerStartStop(t *testing.T) {
	nr := prepareNodeRunner(t)
	defer nr.Storage().Close()
	nr.config.BlockTime = 10 * time.Millisecond

	done := make(chan error)
	go func() {
		done <- nr.Start()
	}()

	deadline := time.Now().Add(time.Second)
	for {
		latest, err := block.GetLatestBlock(nr.Storage())
		require.NoError(t, err)
		if latest.Height > 2 {
			break
		}
		require.True(t, time.Now().Before(deadline), "no block was produced")
		time.Sleep(10 * time.Millisecond)
	}

	nr.Stop()
	nr.Stop()
	require.NoError(t, <-done)
}
