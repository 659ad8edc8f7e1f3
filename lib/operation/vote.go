package operation

import (
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/vote"
)

type CreateVote struct {
	Type     vote.Type     `json:"vote_type"`
	Duration common.Height `json:"duration"`
	Payload  []byte        `json:"payload"`
	// nil when every account may vote
	RequiredCA *uint64 `json:"required_ca,omitempty"`
}

func NewCreateVote(t vote.Type, duration common.Height, payload []byte, requiredCA *uint64) CreateVote {
	return CreateVote{
		Type:       t,
		Duration:   duration,
		Payload:    payload,
		RequiredCA: requiredCA,
	}
}

// IsWellFormed also bounds the payload, so oversized votes never reach the
// pool.
func (o CreateVote) IsWellFormed(config common.Config) (err error) {
	if !o.Type.IsValid() {
		return errors.InvalidVoteType.Clone().SetData("type", uint8(o.Type))
	}
	if len(o.Payload) > config.MaxPayloadSize {
		return errors.PayloadTooLarge.Clone().
			SetData("size", len(o.Payload)).
			SetData("limit", config.MaxPayloadSize)
	}

	return
}

type CastBallot struct {
	VoteID uint64      `json:"vote_id"`
	Choice vote.Choice `json:"choice"`
}

func NewCastBallot(id uint64, choice vote.Choice) CastBallot {
	return CastBallot{VoteID: id, Choice: choice}
}

func (o CastBallot) IsWellFormed(common.Config) error {
	return nil
}

func (o CastBallot) TargetVote() uint64 {
	return o.VoteID
}

type CastLockVote struct {
	VoteID   uint64        `json:"vote_id"`
	Choice   vote.Choice   `json:"choice"`
	Deposit  common.Amount `json:"deposit"`
	Duration common.Height `json:"duration"`
}

func NewCastLockVote(id uint64, choice vote.Choice, deposit common.Amount, duration common.Height) CastLockVote {
	return CastLockVote{
		VoteID:   id,
		Choice:   choice,
		Deposit:  deposit,
		Duration: duration,
	}
}

func (o CastLockVote) IsWellFormed(common.Config) error {
	if o.Deposit > common.MaximumBalance {
		return errors.InvalidOperation.Clone().SetData("deposit", uint64(o.Deposit))
	}

	return nil
}

func (o CastLockVote) TargetVote() uint64 {
	return o.VoteID
}

type ConcludeVote struct {
	VoteID uint64 `json:"vote_id"`
}

func NewConcludeVote(id uint64) ConcludeVote {
	return ConcludeVote{VoteID: id}
}

// IsWellFormed accepts any vote id; an unknown one, 0 included, fails
// `NotFound` when applied.
func (o ConcludeVote) IsWellFormed(common.Config) error {
	return nil
}

func (o ConcludeVote) TargetVote() uint64 {
	return o.VoteID
}

type Withdraw struct {
	VoteID uint64 `json:"vote_id"`
}

func NewWithdraw(id uint64) Withdraw {
	return Withdraw{VoteID: id}
}

func (o Withdraw) IsWellFormed(common.Config) error {
	return nil
}

func (o Withdraw) TargetVote() uint64 {
	return o.VoteID
}
