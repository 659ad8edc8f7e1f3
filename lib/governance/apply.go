package governance

import (
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/operation"
)

// Apply runs `op` on behalf of `caller`, the authenticated source of the
// transaction. The returned value is what the operation produced: the
// authority index, the vote id or the tally result; nil otherwise.
func (e *Engine) Apply(caller string, op operation.Operation) (interface{}, error) {
	if err := op.IsWellFormed(e.config); err != nil {
		return nil, err
	}

	switch body := op.B.(type) {
	case operation.RegisterCA:
		return e.RegisterCA(caller, body.CAHash, body.Data)
	case operation.RegisterAccount:
		return nil, e.RegisterAccount(caller, body.CAHash, body.Cert, body.Signature)
	case operation.CreateVote:
		return e.CreateVote(caller, body.Type, body.Duration, body.Payload, body.RequiredCA)
	case operation.CastBallot:
		return nil, e.CastBallot(caller, body.VoteID, body.Choice)
	case operation.CastLockVote:
		return nil, e.CastLockVote(caller, body.VoteID, body.Choice, body.Deposit, body.Duration)
	case operation.ConcludeVote:
		return e.ConcludeVote(caller, body.VoteID)
	case operation.Withdraw:
		return nil, e.Withdraw(caller, body.VoteID)
	default:
		return nil, errors.UnknownOperationType
	}
}
