package vote

import (
	"encoding/json"
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Ballot membership is one key per voter and side; an account is on at
// most one side of a vote.
//
// models
//   - 'vt-ballot-<ID>-<aye|nay>-<Account>': `Ballot`
const VotePrefixBallot string = "vt-ballot-"

type Choice bool

const (
	Aye Choice = true
	Nay Choice = false
)

func (c Choice) String() string {
	if c == Aye {
		return "aye"
	}
	return "nay"
}

func (c Choice) Opposite() Choice {
	return !c
}

func ParseChoice(s string) (Choice, error) {
	switch s {
	case "aye":
		return Aye, nil
	case "nay":
		return Nay, nil
	default:
		return Nay, errors.InvalidChoice.Clone().SetData("choice", s)
	}
}

func (c Choice) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Choice) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}

	*c, err = ParseChoice(s)
	return
}

type Ballot struct {
	VoteID  uint64        `json:"vote_id"`
	Account string        `json:"account"`
	Choice  Choice        `json:"choice"`
	CastAt  common.Height `json:"cast_at"`
}

func GetBallotKeyPrefix(id uint64, choice Choice) string {
	return fmt.Sprintf("%s%s-%s-", VotePrefixBallot, common.EncodeUint64Key(id), choice)
}

func GetBallotKey(id uint64, choice Choice, account string) string {
	return fmt.Sprintf("%s%s", GetBallotKeyPrefix(id, choice), account)
}

func HasVoted(st *storage.LevelDBBackend, id uint64, choice Choice, account string) (bool, error) {
	return st.Has(GetBallotKey(id, choice, account))
}

// GetBallot returns the current ballot of `account`, on either side.
func GetBallot(st *storage.LevelDBBackend, id uint64, account string) (*Ballot, error) {
	for _, choice := range []Choice{Aye, Nay} {
		var b Ballot
		if err := st.Get(GetBallotKey(id, choice, account), &b); err == nil {
			return &b, nil
		} else if !errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, err
		}
	}

	return nil, errors.NotFound.Clone().SetData("vote", id).SetData("account", account)
}

// WalkBallots visits the ballots of one side in account order, starting
// after the account `cursor`.
func WalkBallots(st *storage.LevelDBBackend, id uint64, choice Choice, cursor string, limit uint64, f func(Ballot) (bool, error)) error {
	option := storage.NewWalkOption("", limit, false)
	if len(cursor) > 0 {
		option.Cursor = GetBallotKey(id, choice, cursor)
	}

	return st.Walk(GetBallotKeyPrefix(id, choice), option, func(k, v []byte) (bool, error) {
		var b Ballot
		if err := common.DecodeJSONValue(v, &b); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		return f(b)
	})
}

func GetBallots(st *storage.LevelDBBackend, id uint64, choice Choice, cursor string, limit uint64) (ballots []Ballot, err error) {
	err = WalkBallots(st, id, choice, cursor, limit, func(b Ballot) (bool, error) {
		ballots = append(ballots, b)
		return true, nil
	})

	return
}

// CountBallots is the headcount of one side.
func CountBallots(st *storage.LevelDBBackend, id uint64, choice Choice) (n uint64, err error) {
	err = st.Walk(GetBallotKeyPrefix(id, choice), nil, func(k, v []byte) (bool, error) {
		n++
		return true, nil
	})

	return
}

// choose moves `account` to the `choice` side. The caller has already
// checked that the account is not on that side.
func choose(st *storage.LevelDBBackend, b Ballot) (switched bool, err error) {
	opposite := GetBallotKey(b.VoteID, b.Choice.Opposite(), b.Account)

	if switched, err = st.Has(opposite); err != nil {
		return
	} else if switched {
		if err = st.Remove(opposite); err != nil {
			return
		}
	}

	err = st.New(GetBallotKey(b.VoteID, b.Choice, b.Account), b)

	return
}
