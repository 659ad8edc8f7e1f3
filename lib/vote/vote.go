package vote

import (
	"encoding/json"
	"fmt"
	"math"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Vote is the canonical vote record; everything else under 'vt-' is
// derived from it.
//
// models
//   - 'vt-count': number of created votes; the last `Vote.ID`
//   - 'vt-id-<ID>': `Vote`
//   - 'vt-count-creator-<Creator>': number of votes created by `Creator`
//   - 'vt-creator-<Creator>-<ID>': `ID`
//   - 'vt-payload-<ID>': hash of the payload
const (
	VoteCountKey           string = "vt-count"
	VotePrefixID           string = "vt-id-"
	VotePrefixCreatorCount string = "vt-count-creator-"
	VotePrefixCreator      string = "vt-creator-"
	VotePrefixPayload      string = "vt-payload-"
	MaxVoteCount           uint64 = math.MaxUint64
)

type Type uint8

const (
	Plain Type = iota
	LockWeighted
)

var typeNames = map[Type]string{
	Plain:        "plain",
	LockWeighted: "lock",
}

func (t Type) IsValid() bool {
	_, found := typeNames[t]
	return found
}

func (t Type) String() string {
	if name, found := typeNames[t]; found {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}

	return Plain, errors.InvalidVoteType.Clone().SetData("type", s)
}

func (t Type) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return nil, errors.InvalidVoteType.Clone().SetData("type", uint8(t))
	}
	return json.Marshal(t.String())
}

func (t *Type) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}

	*t, err = ParseType(s)
	return
}

// CARequirement names the authority a voter must be bound to.
type CARequirement struct {
	Index uint64      `json:"index"`
	Hash  common.Hash `json:"hash"`
}

type Vote struct {
	ID         uint64         `json:"id"`
	Type       Type           `json:"type"`
	RequiredCA *CARequirement `json:"required_ca,omitempty"`
	Creator    string         `json:"creator"`
	CreatedAt  common.Height  `json:"created_at"`
	EndsAt     common.Height  `json:"ends_at"`
	Concluded  bool           `json:"concluded"`
}

func (v *Vote) String() string {
	return string(common.MustMarshalJSON(v))
}

func (v *Vote) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(v)
}

// IsExpired reports whether ballots are closed at `now`.
func (v *Vote) IsExpired(now common.Height) bool {
	return now >= v.EndsAt
}

// CanConclude reports whether the deadline has passed at `now`.
func (v *Vote) CanConclude(now common.Height) bool {
	return now > v.EndsAt
}

func GetVoteKey(id uint64) string {
	return fmt.Sprintf("%s%s", VotePrefixID, common.EncodeUint64Key(id))
}

func GetVoteCreatorCountKey(creator string) string {
	return fmt.Sprintf("%s%s", VotePrefixCreatorCount, creator)
}

func GetVoteCreatorKeyPrefix(creator string) string {
	return fmt.Sprintf("%s%s-", VotePrefixCreator, creator)
}

func GetVoteCreatorKey(creator string, id uint64) string {
	return fmt.Sprintf("%s%s", GetVoteCreatorKeyPrefix(creator), common.EncodeUint64Key(id))
}

func GetVotePayloadKey(id uint64) string {
	return fmt.Sprintf("%s%s", VotePrefixPayload, common.EncodeUint64Key(id))
}

func getCounter(st *storage.LevelDBBackend, key string) (n uint64, err error) {
	if err = st.Get(key, &n); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return 0, nil
		}
		return
	}

	return
}

func GetVoteCount(st *storage.LevelDBBackend) (uint64, error) {
	return getCounter(st, VoteCountKey)
}

func GetVoteCountByCreator(st *storage.LevelDBBackend, creator string) (uint64, error) {
	return getCounter(st, GetVoteCreatorCountKey(creator))
}

func GetVote(st *storage.LevelDBBackend, id uint64) (v *Vote, err error) {
	if err = st.Get(GetVoteKey(id), &v); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NotFound.Clone().SetData("vote", id)
		}
		return
	}

	return
}

func GetVotePayloadHash(st *storage.LevelDBBackend, id uint64) (h common.Hash, err error) {
	if err = st.Get(GetVotePayloadKey(id), &h); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NotFound.Clone().SetData("vote", id)
		}
		return
	}

	return
}

// GetVotes lists votes in id order, starting after the vote `cursor`.
func GetVotes(st *storage.LevelDBBackend, cursor, limit uint64, reverse bool) (votes []Vote, err error) {
	option := storage.NewWalkOption("", limit, reverse)
	if cursor > 0 {
		option.Cursor = GetVoteKey(cursor)
	}

	err = st.Walk(VotePrefixID, option, func(k, b []byte) (bool, error) {
		var v Vote
		if err := common.DecodeJSONValue(b, &v); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		votes = append(votes, v)
		return true, nil
	})

	return
}

// GetVotesByCreator lists the votes of `creator` in id order through the
// creator index.
func GetVotesByCreator(st *storage.LevelDBBackend, creator string, cursor, limit uint64) (votes []Vote, err error) {
	option := storage.NewWalkOption("", limit, false)
	if cursor > 0 {
		option.Cursor = GetVoteCreatorKey(creator, cursor)
	}

	var ids []uint64
	err = st.Walk(GetVoteCreatorKeyPrefix(creator), option, func(k, b []byte) (bool, error) {
		var id uint64
		if err := common.DecodeJSONValue(b, &id); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		ids = append(ids, id)
		return true, nil
	})
	if err != nil {
		return
	}

	for _, id := range ids {
		var v *Vote
		if v, err = GetVote(st, id); err != nil {
			return
		}
		votes = append(votes, *v)
	}

	return
}
