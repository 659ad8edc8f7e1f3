package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GianlucaGuarini/go-observable"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/node/runner"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/transaction"
	"boscoin.io/governance/lib/vote"
)

func prepareClient(t *testing.T, accounts ...runner.GenesisAccount) (*Client, *runner.NodeRunner, func()) {
	st := storage.NewTestMemoryLevelDBBackend()

	_, err := runner.InitGenesis(st, &runner.Genesis{Accounts: accounts})
	require.NoError(t, err)

	nr, err := runner.NewNodeRunner(st, common.NewTestConfig())
	require.NoError(t, err)
	nr.SetObserver(observable.New())

	ts := httptest.NewServer(runner.NewRouter(nr, runner.RouterConfig{}))
	c := NewClient(ts.URL)

	return c, nr, func() {
		c.Close()
		ts.Close()
		st.Close()
	}
}

func TestClientVoteLifecycle(t *testing.T) {
	creator := keypair.Random()
	voter := keypair.Random()

	c, nr, closeFunc := prepareClient(t, runner.GenesisAccount{Address: voter.Address(), Balance: common.Amount(1000)})
	defer closeFunc()

	networkID := nr.Config().NetworkID

	info, err := c.LoadNodeInfo()
	require.NoError(t, err)
	require.Equal(t, string(networkID), info.NetworkID)
	require.Equal(t, uint64(1), info.BlockHeight)

	create := transaction.MakeSignedTransaction(creator, networkID, operation.MakeTestCreateVote(vote.LockWeighted, 2))
	post, err := c.SubmitTransaction(create)
	require.NoError(t, err)
	require.Equal(t, create.GetHash(), post.Hash)
	require.Equal(t, "submitted", post.Status)

	_, err = nr.ProduceBlock()
	require.NoError(t, err)

	tx, err := c.LoadTransaction(create.GetHash())
	require.NoError(t, err)
	require.Equal(t, "applied", tx.Status)
	require.Equal(t, "1", string(tx.Result))

	lock := transaction.MakeSignedTransaction(voter, networkID, operation.MustNewOperation(
		operation.NewCastLockVote(1, vote.Aye, common.Amount(300), 10),
	))
	_, err = c.SubmitTransaction(lock)
	require.NoError(t, err)
	_, err = nr.ProduceBlock()
	require.NoError(t, err)

	v, err := c.LoadVote(1)
	require.NoError(t, err)
	require.Equal(t, "lock", v.Type)
	require.Equal(t, uint64(1), v.Ayes)
	require.Equal(t, "/api/v1/votes/1/locks{?cursor,limit,reverse}", v.Links.Locks.Href)

	locks, err := c.LoadLockDeposits(1)
	require.NoError(t, err)
	require.Equal(t, 1, len(locks.Embedded.Records))
	require.Equal(t, "300", locks.Embedded.Records[0].Deposit)

	account, err := c.LoadAccount(voter.Address())
	require.NoError(t, err)
	require.Equal(t, "1000", account.Balance)
	require.Equal(t, "700", account.FreeBalance)

	_, err = c.LoadVoteResult(1)
	require.Error(t, err)
	require.Equal(t, errors.VoteNotConcluded.Code, err.(Error).Problem.Code)

	votes, err := c.LoadVotes(Q{Key: QueryLimit, Value: "10"})
	require.NoError(t, err)
	require.Equal(t, 1, len(votes.Embedded.Records))

	b, err := c.LoadBlock("3")
	require.NoError(t, err)
	require.Equal(t, []string{lock.GetHash()}, b.Transactions)
}

func TestClientErrors(t *testing.T) {
	c, nr, closeFunc := prepareClient(t)
	defer closeFunc()

	_, err := c.LoadVote(9)
	require.Error(t, err)
	problem := err.(Error).Problem
	require.Equal(t, http.StatusNotFound, problem.Status)
	require.Equal(t, errors.NotFound.Code, problem.Code)
	require.Len(t, err.(Error).RequestID, 36)

	bad := transaction.NewTransaction(keypair.Random().Address(), 1, operation.MakeTestCastBallot(1, vote.Aye))
	bad.Sign(keypair.Random(), nr.Config().NetworkID)
	_, err = c.SubmitTransaction(bad)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, err.(Error).Problem.Status)
}

func TestClientStreamEvents(t *testing.T) {
	c, nr, closeFunc := prepareClient(t)
	defer closeFunc()

	creator := keypair.Random()

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan Event)
	done := make(chan error)
	go func() {
		done <- c.StreamEvents(ctx, func(e Event) {
			received <- e
		}, Q{Key: QueryType, Value: "created"})
	}()

	// the stream subscribes before answering; retry until it listens
	deadline := time.After(2 * time.Second)
	var e Event
loop:
	for {
		_, err := nr.Engine().CreateVote(creator.Address(), vote.Plain, 10, nil, nil)
		require.NoError(t, err)

		select {
		case e = <-received:
			break loop
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("no event was received")
		}
	}

	require.Equal(t, "created", e.Type)
	require.Equal(t, creator.Address(), e.Account)

	cancel()
	go func() {
		for range received {
		}
	}()
	require.NoError(t, <-done)
}
