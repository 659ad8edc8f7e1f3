package vote

import (
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/storage"
)

// ConcludeVote closes the vote after its deadline and stores the tally.
// Anyone can conclude; the caller is only logged.
func ConcludeVote(st *storage.LevelDBBackend, env Env, caller string, id uint64) (*TallyResult, error) {
	checker := &Checker{
		DefaultChecker: common.NewDefaultChecker(
			CheckVoteExists,
			CheckNotConcluded,
			CheckDeadlinePassed,
		),
		Storage: st,
		Env:     env,
		Caller:  caller,
		VoteID:  id,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	result, err := Tally(st, env.Config, checker.Vote)
	if err != nil {
		return nil, err
	}
	result.ConcludedAt = env.Now

	if err = st.New(GetTallyResultKey(id), result); err != nil {
		return nil, err
	}

	checker.Vote.Concluded = true
	if err = st.Set(GetVoteKey(id), checker.Vote); err != nil {
		return nil, err
	}

	log.Debug("vote concluded", "vote", id, "by", caller, "result", &result)

	return &result, nil
}

// Withdraw releases the caller's lock deposit of a concluded vote once the
// lock period is over.
func Withdraw(st *storage.LevelDBBackend, env Env, caller string, id uint64) (*LockDeposit, error) {
	checker := &Checker{
		DefaultChecker: common.NewDefaultChecker(
			CheckVoteExists,
			CheckVoteKind,
			CheckConcluded,
			CheckLockExists,
			CheckUnlocked,
		),
		Storage: st,
		Env:     env,
		Caller:  caller,
		VoteID:  id,
		Kind:    LockWeighted,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	if err := env.Locker.Release(st, LockID(id), caller); err != nil {
		return nil, err
	}
	if err := st.Remove(GetLockKey(id, caller)); err != nil {
		return nil, err
	}

	log.Debug("lock withdrawn", "lock", checker.Lock)

	return checker.Lock, nil
}
