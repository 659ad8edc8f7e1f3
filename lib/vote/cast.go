package vote

import (
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/storage"
)

// CastBallot puts `caller` on the `choice` side of a plain vote. A voter on
// the other side is moved.
func CastBallot(st *storage.LevelDBBackend, env Env, caller string, id uint64, choice Choice) (*Ballot, error) {
	checker := &Checker{
		DefaultChecker: common.NewDefaultChecker(
			CheckVoteExists,
			CheckNotSelfVote,
			CheckNotExpired,
			CheckVoteKind,
			CheckEligible,
			CheckNotVotedThisWay,
		),
		Storage: st,
		Env:     env,
		Caller:  caller,
		VoteID:  id,
		Kind:    Plain,
		Choice:  choice,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	b := Ballot{VoteID: id, Account: caller, Choice: choice, CastAt: env.Now}
	switched, err := choose(st, b)
	if err != nil {
		return nil, err
	}

	log.Debug("ballot cast", "vote", id, "account", caller, "choice", choice, "switched", switched)

	return &b, nil
}

// CastLockVote locks `deposit` of the caller's free balance for `duration`
// and puts the caller on the `choice` side of a lock-weighted vote.
func CastLockVote(st *storage.LevelDBBackend, env Env, caller string, id uint64, choice Choice, deposit common.Amount, duration common.Height) (*LockDeposit, error) {
	checker := &Checker{
		DefaultChecker: common.NewDefaultChecker(
			CheckVoteExists,
			CheckVoteKind,
			CheckNotSelfVote,
			CheckNotExpired,
			CheckLockDuration,
			CheckNotLocked,
			CheckFreeBalance,
			CheckEligible,
			CheckNotVotedThisWay,
		),
		Storage:  st,
		Env:      env,
		Caller:   caller,
		VoteID:   id,
		Kind:     LockWeighted,
		Choice:   choice,
		Deposit:  deposit,
		Duration: duration,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	lock := &LockDeposit{
		VoteID:   id,
		Account:  caller,
		Deposit:  deposit,
		Duration: duration,
		UnlockAt: checker.UnlockAt,
	}
	if err := st.New(GetLockKey(id, caller), lock); err != nil {
		return nil, err
	}
	if err := env.Locker.Hold(st, LockID(id), caller, deposit); err != nil {
		return nil, err
	}

	b := Ballot{VoteID: id, Account: caller, Choice: choice, CastAt: env.Now}
	if _, err := choose(st, b); err != nil {
		return nil, err
	}

	log.Debug("lock vote cast", "lock", lock, "choice", choice)

	return lock, nil
}
