package governance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/common/observer"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/vote"
)

func dumpStorage(t *testing.T, st *storage.LevelDBBackend) map[string]string {
	dump := map[string]string{}
	err := st.Walk("", nil, func(k, v []byte) (bool, error) {
		dump[string(k)] = string(v)
		return true, nil
	})
	require.NoError(t, err)

	return dump
}

func collectEvents(e *Engine) *[]observer.Event {
	var events []observer.Event
	e.observer.On(observer.EventTypes, func(args ...interface{}) {
		if ev, ok := observer.EventFromArgs(args...); ok {
			events = append(events, ev)
		}
	})

	return &events
}

func TestEngineCertificateScenario(t *testing.T) {
	e, _ := NewTestEngine()
	defer e.Storage().Close()
	events := collectEvents(e)

	account1 := keypair.Random().Address()
	account2 := keypair.Random().Address()
	h1 := certificate.MakeTestHash("H1")

	index, err := e.RegisterCA(account1, h1, []byte("ca"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), index)

	_, err = e.RegisterCA(account2, h1, nil)
	require.True(t, errors.Is(err, errors.AlreadyExists))

	require.NoError(t, e.RegisterAccount(account1, h1, certificate.MakeTestHash("C1"), []byte("S1")))

	err = e.RegisterAccount(account2, h1, certificate.MakeTestHash("C1"), []byte("S2"))
	require.True(t, errors.Is(err, errors.CertificateReused))

	eligible, err := e.IsEligible(account1, h1)
	require.NoError(t, err)
	require.True(t, eligible)

	eligible, err = e.IsEligible(account2, h1)
	require.NoError(t, err)
	require.False(t, eligible)

	require.Equal(t, 2, len(*events))
	require.Equal(t, observer.EventCARegistered, (*events)[0].Type)
	require.Equal(t, observer.Event{Type: observer.EventRegistered, Account: account1, CAIndex: 1, Height: 1}, (*events)[1])
}

func TestEnginePlainVoteScenario(t *testing.T) {
	e, clock := NewTestEngine()
	defer e.Storage().Close()
	events := collectEvents(e)

	creator := keypair.Random().Address()
	voter := keypair.Random().Address()

	id, err := e.CreateVote(creator, vote.Plain, 10, []byte("showme"), nil)
	require.NoError(t, err)

	clock.Set(5)
	require.NoError(t, e.CastBallot(voter, id, vote.Aye))

	_, err = e.ConcludeVote(voter, id)
	require.True(t, errors.Is(err, errors.NotYetExpired))

	clock.Set(12)
	result, err := e.ConcludeVote(keypair.Random().Address(), id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Aye)
	require.Equal(t, uint64(0), result.Nay)

	_, err = e.ConcludeVote(creator, id)
	require.True(t, errors.Is(err, errors.AlreadyConcluded))

	require.Equal(t, []observer.Event{
		{Type: observer.EventCreated, Account: creator, VoteID: id, Height: 1},
		{Type: observer.EventVoted, Account: voter, VoteID: id, Choice: "aye", Height: 5},
		{Type: observer.EventConcluded, VoteID: id, Height: 12},
	}, *events)
}

func TestEngineLockVoteScenario(t *testing.T) {
	e, clock := NewTestEngine()
	defer e.Storage().Close()
	events := collectEvents(e)

	creator := keypair.Random().Address()
	voter := keypair.Random().Address()
	require.NoError(t, ledger.NewAccount(voter, 100).Save(e.Storage()))

	id, err := e.CreateVote(creator, vote.LockWeighted, 5, nil, nil)
	require.NoError(t, err)

	err = e.CastLockVote(voter, id, vote.Aye, 1, 4)
	require.True(t, errors.Is(err, errors.LockTooShort))
	err = e.CastLockVote(voter, id, vote.Aye, 101, 10)
	require.True(t, errors.Is(err, errors.InsufficientFunds))
	err = e.CastLockVote(voter, id, vote.Aye, common.MaximumBalance+1, 10)
	require.True(t, errors.Is(err, errors.InsufficientFunds))
	require.NotPanics(t, func() { _ = err.Error() })
	require.NoError(t, e.CastLockVote(voter, id, vote.Aye, 1, 10))

	lock, err := vote.GetLockDeposit(e.Storage(), id, voter)
	require.NoError(t, err)
	require.Equal(t, common.Height(11), lock.UnlockAt)

	clock.Set(7)
	result, err := e.ConcludeVote(creator, id)
	require.NoError(t, err)
	require.Equal(t, uint64(10), result.Aye)

	err = e.Withdraw(voter, id)
	require.True(t, errors.Is(err, errors.LockPeriodActive))

	clock.Set(11)
	require.NoError(t, e.Withdraw(voter, id))
	require.True(t, errors.Is(e.Withdraw(voter, id), errors.NoLock))

	free, err := ledger.FreeBalance(e.Storage(), voter)
	require.NoError(t, err)
	require.Equal(t, common.Amount(100), free)

	var types []observer.EventType
	for _, ev := range *events {
		types = append(types, ev.Type)
	}
	require.Equal(t, []observer.EventType{
		observer.EventCreated,
		observer.EventVoted,
		observer.EventConcluded,
		observer.EventWithdrew,
	}, types)
}

// A failed operation leaves the storage as it was and triggers nothing.
func TestEngineFailedOperationsWriteNothing(t *testing.T) {
	e, clock := NewTestEngine()
	defer e.Storage().Close()

	creator := keypair.Random().Address()
	voter := keypair.Random().Address()
	require.NoError(t, ledger.NewAccount(voter, 100).Save(e.Storage()))

	plain, err := e.CreateVote(creator, vote.Plain, 5, nil, nil)
	require.NoError(t, err)
	lock, err := e.CreateVote(creator, vote.LockWeighted, 5, nil, nil)
	require.NoError(t, err)
	require.NoError(t, e.CastBallot(voter, plain, vote.Aye))
	require.NoError(t, e.CastLockVote(voter, lock, vote.Nay, 50, 10))

	events := collectEvents(e)
	before := dumpStorage(t, e.Storage())

	failures := []func() error{
		func() error { return e.CastBallot(voter, plain, vote.Aye) },
		func() error { return e.CastBallot(creator, plain, vote.Nay) },
		func() error { return e.CastLockVote(voter, lock, vote.Nay, 10, 10) },
		func() error { return e.CastLockVote(keypair.Random().Address(), lock, vote.Aye, 1, 10) },
		func() error { _, err := e.ConcludeVote(voter, plain); return err },
		func() error { return e.Withdraw(voter, lock) },
		func() error { _, err := e.CreateVote(creator, vote.Plain, 5, make([]byte, 300), nil); return err },
		func() error { return e.RegisterAccount(voter, certificate.MakeTestHash("H1"), certificate.MakeTestHash("C1"), nil) },
	}
	for _, f := range failures {
		require.Error(t, f())
	}

	clock.Set(100)
	_, err = e.CreateVote(creator, vote.Plain, common.Height(^uint64(0)), nil, nil)
	require.True(t, errors.Is(err, errors.Overflow))

	require.Equal(t, before, dumpStorage(t, e.Storage()))
	require.Equal(t, 0, len(*events))
}

func TestEngineApply(t *testing.T) {
	e, clock := NewTestEngine()
	defer e.Storage().Close()

	creator := keypair.Random().Address()
	voter := keypair.Random().Address()

	result, err := e.Apply(creator, operation.MustNewOperation(operation.NewRegisterCA(certificate.MakeTestHash("H1"), nil)))
	require.NoError(t, err)
	require.Equal(t, uint64(1), result)

	_, err = e.Apply(voter, operation.MustNewOperation(operation.NewRegisterAccount(certificate.MakeTestHash("H1"), certificate.MakeTestHash("C1"), nil)))
	require.NoError(t, err)

	index := uint64(1)
	result, err = e.Apply(creator, operation.MustNewOperation(operation.NewCreateVote(vote.Plain, 3, nil, &index)))
	require.NoError(t, err)
	require.Equal(t, uint64(1), result)

	_, err = e.Apply(voter, operation.MakeTestCastBallot(1, vote.Nay))
	require.NoError(t, err)

	_, err = e.Apply(keypair.Random().Address(), operation.MakeTestCastBallot(1, vote.Nay))
	require.True(t, errors.Is(err, errors.NotEligible))

	_, err = e.Apply(voter, operation.MakeTestCastBallot(0, vote.Nay))
	require.True(t, errors.Is(err, errors.NotFound))
	_, err = e.Apply(voter, operation.MustNewOperation(operation.NewCastLockVote(0, vote.Nay, 1, 10)))
	require.True(t, errors.Is(err, errors.NotFound))
	_, err = e.Apply(voter, operation.MustNewOperation(operation.NewConcludeVote(0)))
	require.True(t, errors.Is(err, errors.NotFound))
	_, err = e.Apply(voter, operation.MustNewOperation(operation.NewWithdraw(0)))
	require.True(t, errors.Is(err, errors.NotFound))

	clock.Set(5)
	result, err = e.Apply(voter, operation.MustNewOperation(operation.NewConcludeVote(1)))
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.(*vote.TallyResult).Nay)

	_, err = e.Apply(voter, operation.MustNewOperation(operation.NewWithdraw(1)))
	require.True(t, errors.Is(err, errors.WrongVoteKind))
}

func TestHeightClock(t *testing.T) {
	clock := NewHeightClock(3)
	clock.Set(2)
	require.Equal(t, common.Height(3), clock.Now())
	clock.Set(4)
	require.Equal(t, common.Height(4), clock.Now())
}
