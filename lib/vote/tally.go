package vote

import (
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// TallyResult is written once, when the vote is concluded.
//
// models
//   - 'vt-result-<ID>': `TallyResult`
const VotePrefixResult string = "vt-result-"

type TallyResult struct {
	VoteID      uint64        `json:"vote_id"`
	Aye         uint64        `json:"aye"`
	Nay         uint64        `json:"nay"`
	ConcludedAt common.Height `json:"concluded_at"`
}

func (r *TallyResult) String() string {
	return string(common.MustMarshalJSON(r))
}

func GetTallyResultKey(id uint64) string {
	return fmt.Sprintf("%s%s", VotePrefixResult, common.EncodeUint64Key(id))
}

func GetTallyResult(st *storage.LevelDBBackend, id uint64) (r *TallyResult, err error) {
	if err = st.Get(GetTallyResultKey(id), &r); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NotFound.Clone().SetData("result", id)
		}
		return
	}

	return
}

// Tally counts the ballots of `v`. Plain votes weigh every voter 1. Lock
// votes weigh a voter `deposit * duration` of its lock.
//
// For lock votes the nay weight is the sum over the aye voters as well,
// unless `Config.LockTallyUsesNaySet` is set. Concluded results on the
// ledger were computed that way and must stay reproducible.
func Tally(st *storage.LevelDBBackend, config common.Config, v *Vote) (r TallyResult, err error) {
	r.VoteID = v.ID

	switch v.Type {
	case Plain:
		if r.Aye, err = CountBallots(st, v.ID, Aye); err != nil {
			return
		}
		if r.Nay, err = CountBallots(st, v.ID, Nay); err != nil {
			return
		}
	case LockWeighted:
		if r.Aye, err = lockWeight(st, v.ID, Aye); err != nil {
			return
		}
		naySide := Aye
		if config.LockTallyUsesNaySet {
			naySide = Nay
		}
		if r.Nay, err = lockWeight(st, v.ID, naySide); err != nil {
			return
		}
	default:
		err = errors.InvalidVoteType.Clone().SetData("type", uint8(v.Type))
	}

	return
}

func lockWeight(st *storage.LevelDBBackend, id uint64, choice Choice) (weight uint64, err error) {
	err = WalkBallots(st, id, choice, "", 0, func(b Ballot) (bool, error) {
		lock, err := GetLockDeposit(st, id, b.Account)
		if err != nil {
			return false, err
		}

		w, err := lock.Weight()
		if err != nil {
			return false, err
		}

		if weight+w < weight {
			return false, errors.Overflow.Clone().SetData("vote", id)
		}
		weight += w

		return true, nil
	})

	return
}
