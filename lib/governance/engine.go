package governance

import (
	"sync"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/observer"
	"boscoin.io/governance/lib/metrics"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/vote"
)

// Engine applies the governance operations one at a time. Every operation
// runs in its own storage transaction: it is committed only when all of its
// checks and writes succeed, otherwise nothing is written. Events are
// triggered after the commit.
type Engine struct {
	sync.Mutex

	st       *storage.LevelDBBackend
	config   common.Config
	clock    Clock
	locker   vote.Locker
	observer *observable.Observable
}

func NewEngine(st *storage.LevelDBBackend, config common.Config, clock Clock, locker vote.Locker) *Engine {
	return &Engine{
		st:       st,
		config:   config,
		clock:    clock,
		locker:   locker,
		observer: observer.GovernanceObserver,
	}
}

// SetObserver replaces the bus events are triggered on.
func (e *Engine) SetObserver(o *observable.Observable) {
	e.observer = o
}

func (e *Engine) Config() common.Config {
	return e.config
}

func (e *Engine) Storage() *storage.LevelDBBackend {
	return e.st
}

func (e *Engine) Now() common.Height {
	return e.clock.Now()
}

func (e *Engine) env() vote.Env {
	return vote.Env{
		Config: e.config,
		Now:    e.clock.Now(),
		Locker: e.locker,
	}
}

// transact runs `f` in a new storage transaction and triggers `events` once
// it is committed. `f` returns the events to trigger.
func (e *Engine) transact(name string, f func(*storage.LevelDBBackend, vote.Env) ([]observer.Event, error)) (err error) {
	e.Lock()
	defer e.Unlock()

	defer func() {
		metrics.Governance.AddOperation(name, err)
	}()

	env := e.env()

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	var events []observer.Event
	if events, err = f(ts, env); err != nil {
		ts.Discard()
		log.Debug("operation failed", "operation", name, "error", err)
		return
	}

	if err = ts.Commit(); err != nil {
		log.Error("failed to commit", "operation", name, "error", err)
		return
	}

	for _, ev := range events {
		observer.Trigger(e.observer, ev)
		metrics.Governance.AddEvent(string(ev.Type))
	}

	return
}

func (e *Engine) RegisterCA(caller string, caHash common.Hash, data []byte) (index uint64, err error) {
	err = e.transact(string(operation.TypeRegisterCA), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		a, err := certificate.RegisterCA(ts, caller, caHash, data)
		if err != nil {
			return nil, err
		}
		index = a.Index

		return []observer.Event{
			{Type: observer.EventCARegistered, Account: caller, CAIndex: a.Index, Height: uint64(env.Now)},
		}, nil
	})

	return
}

func (e *Engine) RegisterAccount(caller string, caHash, cert common.Hash, signature []byte) error {
	return e.transact(string(operation.TypeRegisterAccount), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		a, err := certificate.RegisterAccount(ts, caller, caHash, cert, signature)
		if err != nil {
			return nil, err
		}

		return []observer.Event{
			{Type: observer.EventRegistered, Account: caller, CAIndex: a.Index, Height: uint64(env.Now)},
		}, nil
	})
}

// IsEligible is read only; it does not take the engine lock.
func (e *Engine) IsEligible(account string, caHash common.Hash) (bool, error) {
	return certificate.IsEligible(e.st, account, caHash)
}

func (e *Engine) CreateVote(caller string, t vote.Type, duration common.Height, payload []byte, requiredCA *uint64) (id uint64, err error) {
	err = e.transact(string(operation.TypeCreateVote), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		v, err := vote.CreateVote(ts, env, caller, t, duration, payload, requiredCA)
		if err != nil {
			return nil, err
		}
		id = v.ID

		return []observer.Event{
			{Type: observer.EventCreated, Account: caller, VoteID: v.ID, Height: uint64(env.Now)},
		}, nil
	})

	return
}

func (e *Engine) CastBallot(caller string, id uint64, choice vote.Choice) error {
	return e.transact(string(operation.TypeCastBallot), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		if _, err := vote.CastBallot(ts, env, caller, id, choice); err != nil {
			return nil, err
		}

		return []observer.Event{
			{Type: observer.EventVoted, Account: caller, VoteID: id, Choice: choice.String(), Height: uint64(env.Now)},
		}, nil
	})
}

func (e *Engine) CastLockVote(caller string, id uint64, choice vote.Choice, deposit common.Amount, duration common.Height) error {
	err := e.transact(string(operation.TypeCastLockVote), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		if _, err := vote.CastLockVote(ts, env, caller, id, choice, deposit, duration); err != nil {
			return nil, err
		}

		return []observer.Event{
			{Type: observer.EventVoted, Account: caller, VoteID: id, Choice: choice.String(), Height: uint64(env.Now)},
		}, nil
	})
	if err == nil {
		metrics.Governance.AddLockedDeposit(float64(deposit))
	}

	return err
}

// ConcludeVote can be called by anyone; `caller` does not change the
// outcome.
func (e *Engine) ConcludeVote(caller string, id uint64) (result *vote.TallyResult, err error) {
	var voteType vote.Type
	err = e.transact(string(operation.TypeConcludeVote), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		r, err := vote.ConcludeVote(ts, env, caller, id)
		if err != nil {
			return nil, err
		}
		result = r

		v, err := vote.GetVote(ts, id)
		if err != nil {
			return nil, err
		}
		voteType = v.Type

		return []observer.Event{
			{Type: observer.EventConcluded, VoteID: id, Height: uint64(env.Now)},
		}, nil
	})
	if err == nil {
		metrics.Governance.AddConcluded(voteType.String())
	}

	return
}

func (e *Engine) Withdraw(caller string, id uint64) error {
	var lock *vote.LockDeposit
	err := e.transact(string(operation.TypeWithdraw), func(ts *storage.LevelDBBackend, env vote.Env) ([]observer.Event, error) {
		var err error
		if lock, err = vote.Withdraw(ts, env, caller, id); err != nil {
			return nil, err
		}

		return []observer.Event{
			{Type: observer.EventWithdrew, Account: caller, VoteID: id, Height: uint64(env.Now)},
		}, nil
	})
	if err == nil {
		metrics.Governance.AddLockedDeposit(-float64(lock.Deposit))
	}

	return err
}
