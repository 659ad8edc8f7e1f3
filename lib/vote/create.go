package vote

import (
	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

type CreateChecker struct {
	common.DefaultChecker

	Storage    *storage.LevelDBBackend
	Env        Env
	Caller     string
	Type       Type
	Duration   common.Height
	Payload    []byte
	RequiredCA *uint64

	count        uint64
	creatorCount uint64
	requirement  *CARequirement
	endsAt       common.Height
}

func CheckCreateType(c common.Checker) (err error) {
	checker := c.(*CreateChecker)

	if !checker.Type.IsValid() {
		return errors.InvalidVoteType.Clone().SetData("type", uint8(checker.Type))
	}

	return
}

func CheckPayloadSize(c common.Checker) (err error) {
	checker := c.(*CreateChecker)

	if len(checker.Payload) > checker.Env.Config.MaxPayloadSize {
		return errors.PayloadTooLarge.Clone().
			SetData("size", len(checker.Payload)).
			SetData("limit", checker.Env.Config.MaxPayloadSize)
	}

	return
}

func CheckVoteCounters(c common.Checker) (err error) {
	checker := c.(*CreateChecker)

	if checker.count, err = GetVoteCount(checker.Storage); err != nil {
		return
	}
	if checker.count >= MaxVoteCount {
		return errors.Overflow.Clone().SetData("counter", VoteCountKey)
	}

	if checker.creatorCount, err = GetVoteCountByCreator(checker.Storage, checker.Caller); err != nil {
		return
	}
	if checker.creatorCount >= MaxVoteCount {
		return errors.Overflow.Clone().SetData("counter", GetVoteCreatorCountKey(checker.Caller))
	}

	return
}

// CheckRequiredCA resolves the required authority index to its hash.
func CheckRequiredCA(c common.Checker) (err error) {
	checker := c.(*CreateChecker)

	if checker.RequiredCA == nil {
		return
	}

	var a *certificate.Authority
	if a, err = certificate.GetAuthorityByIndex(checker.Storage, *checker.RequiredCA); err != nil {
		if errors.Is(err, errors.NotFound) {
			err = errors.UnknownCA.Clone().SetData("ca", *checker.RequiredCA)
		}
		return
	}

	checker.requirement = &CARequirement{Index: a.Index, Hash: a.Hash}

	return
}

func CheckEndsAt(c common.Checker) (err error) {
	checker := c.(*CreateChecker)

	if checker.endsAt, err = checker.Env.Now.Add(checker.Duration); err != nil {
		return errors.Overflow.Clone().SetData("duration", checker.Duration)
	}

	return
}

// CreateVote stores a new vote created by `caller` at `env.Now`; a nil
// `requiredCA` opens the vote to every account.
func CreateVote(st *storage.LevelDBBackend, env Env, caller string, t Type, duration common.Height, payload []byte, requiredCA *uint64) (*Vote, error) {
	checker := &CreateChecker{
		DefaultChecker: common.NewDefaultChecker(
			CheckCreateType,
			CheckPayloadSize,
			CheckVoteCounters,
			CheckRequiredCA,
			CheckEndsAt,
		),
		Storage:    st,
		Env:        env,
		Caller:     caller,
		Type:       t,
		Duration:   duration,
		Payload:    payload,
		RequiredCA: requiredCA,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	v := &Vote{
		ID:         checker.count + 1,
		Type:       t,
		RequiredCA: checker.requirement,
		Creator:    caller,
		CreatedAt:  env.Now,
		EndsAt:     checker.endsAt,
	}

	err := st.News(
		storage.Item{Key: GetVoteKey(v.ID), Value: v},
		storage.Item{Key: GetVoteCreatorKey(caller, v.ID), Value: v.ID},
		storage.Item{Key: GetVotePayloadKey(v.ID), Value: common.MakeHash(payload)},
	)
	if err != nil {
		return nil, err
	}
	if err = st.Put(VoteCountKey, v.ID); err != nil {
		return nil, err
	}
	if err = st.Put(GetVoteCreatorCountKey(caller), checker.creatorCount+1); err != nil {
		return nil, err
	}

	log.Debug("vote created", "vote", v)

	return v, nil
}
