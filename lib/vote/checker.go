package vote

import (
	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Env is what a vote operation sees besides the storage: the engine
// parameters, the height it is applied at and the value locking primitive.
type Env struct {
	Config common.Config
	Now    common.Height
	Locker Locker
}

// Checker carries the input and the loaded state of one operation on an
// existing vote.
type Checker struct {
	common.DefaultChecker

	Storage  *storage.LevelDBBackend
	Env      Env
	Caller   string
	VoteID   uint64
	Kind     Type
	Choice   Choice
	Deposit  common.Amount
	Duration common.Height

	Vote     *Vote
	Lock     *LockDeposit
	UnlockAt common.Height
}

func CheckVoteExists(c common.Checker) (err error) {
	checker := c.(*Checker)

	checker.Vote, err = GetVote(checker.Storage, checker.VoteID)

	return
}

func CheckVoteKind(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Vote.Type != checker.Kind {
		return errors.WrongVoteKind.Clone().
			SetData("vote", checker.VoteID).
			SetData("type", checker.Vote.Type.String())
	}

	return
}

func CheckNotSelfVote(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Vote.Creator == checker.Caller {
		return errors.SelfVote.Clone().SetData("vote", checker.VoteID)
	}

	return
}

func CheckNotExpired(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Vote.IsExpired(checker.Env.Now) {
		return errors.Expired.Clone().
			SetData("vote", checker.VoteID).
			SetData("ends_at", checker.Vote.EndsAt)
	}

	return
}

// CheckLockDuration checks the lock outlives the vote.
func CheckLockDuration(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.UnlockAt, err = checker.Env.Now.Add(checker.Duration); err != nil {
		return errors.Overflow.Clone().SetData("duration", checker.Duration)
	}

	if checker.UnlockAt < checker.Vote.EndsAt {
		return errors.LockTooShort.Clone().
			SetData("unlock_at", checker.UnlockAt).
			SetData("ends_at", checker.Vote.EndsAt)
	}

	return
}

func CheckNotLocked(c common.Checker) (err error) {
	checker := c.(*Checker)

	var exists bool
	if exists, err = ExistsLockDeposit(checker.Storage, checker.VoteID, checker.Caller); err != nil {
		return
	} else if exists {
		return errors.AlreadyLocked.Clone().SetData("vote", checker.VoteID)
	}

	return
}

func CheckFreeBalance(c common.Checker) (err error) {
	checker := c.(*Checker)

	var free common.Amount
	if free, err = checker.Env.Locker.FreeBalance(checker.Storage, checker.Caller); err != nil {
		return
	}

	if checker.Deposit > free {
		return errors.InsufficientFunds.Clone().
			SetData("free", uint64(free)).
			SetData("deposit", uint64(checker.Deposit))
	}

	return
}

func CheckEligible(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Vote.RequiredCA == nil {
		return
	}

	var eligible bool
	if eligible, err = certificate.IsEligible(checker.Storage, checker.Caller, checker.Vote.RequiredCA.Hash); err != nil {
		return
	} else if !eligible {
		return errors.NotEligible.Clone().
			SetData("vote", checker.VoteID).
			SetData("ca", checker.Vote.RequiredCA.Index)
	}

	return
}

func CheckNotVotedThisWay(c common.Checker) (err error) {
	checker := c.(*Checker)

	var voted bool
	if voted, err = HasVoted(checker.Storage, checker.VoteID, checker.Choice, checker.Caller); err != nil {
		return
	} else if voted {
		return errors.AlreadyVotedThisWay.Clone().
			SetData("vote", checker.VoteID).
			SetData("choice", checker.Choice.String())
	}

	return
}

func CheckNotConcluded(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Vote.Concluded {
		return errors.AlreadyConcluded.Clone().SetData("vote", checker.VoteID)
	}

	return
}

func CheckDeadlinePassed(c common.Checker) (err error) {
	checker := c.(*Checker)

	if !checker.Vote.CanConclude(checker.Env.Now) {
		return errors.NotYetExpired.Clone().
			SetData("vote", checker.VoteID).
			SetData("ends_at", checker.Vote.EndsAt)
	}

	return
}

func CheckConcluded(c common.Checker) (err error) {
	checker := c.(*Checker)

	if !checker.Vote.Concluded {
		return errors.VoteNotConcluded.Clone().SetData("vote", checker.VoteID)
	}

	return
}

func CheckLockExists(c common.Checker) (err error) {
	checker := c.(*Checker)

	checker.Lock, err = GetLockDeposit(checker.Storage, checker.VoteID, checker.Caller)

	return
}

func CheckUnlocked(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Env.Now < checker.Lock.UnlockAt {
		return errors.LockPeriodActive.Clone().
			SetData("vote", checker.VoteID).
			SetData("unlock_at", checker.Lock.UnlockAt)
	}

	return
}
