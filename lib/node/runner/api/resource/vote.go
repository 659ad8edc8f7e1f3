package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/vote"
)

type Vote struct {
	v           *vote.Vote
	payloadHash common.Hash
	aye         uint64
	nay         uint64
}

// NewVote takes the ballot counts of both sides; for a lock vote they are
// the number of locking accounts, not the weight.
func NewVote(v *vote.Vote, payloadHash common.Hash, aye, nay uint64) *Vote {
	return &Vote{
		v:           v,
		payloadHash: payloadHash,
		aye:         aye,
		nay:         nay,
	}
}

func (r Vote) GetMap() hal.Entry {
	e := hal.Entry{
		"id":           r.v.ID,
		"type":         r.v.Type,
		"creator":      r.v.Creator,
		"created_at":   r.v.CreatedAt,
		"ends_at":      r.v.EndsAt,
		"concluded":    r.v.Concluded,
		"payload_hash": r.payloadHash,
		"ayes":         r.aye,
		"nays":         r.nay,
	}
	if r.v.RequiredCA != nil {
		e["required_ca"] = r.v.RequiredCA
	}
	return e
}

func (r Vote) Resource() *hal.Resource {
	id := strconv.FormatUint(r.v.ID, 10)

	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("ballots", templated(replaceID(URLVoteBallots, id)))
	res.AddLink("creator", hal.NewLink(replaceID(URLAccounts, r.v.Creator)))
	if r.v.Type == vote.LockWeighted {
		res.AddLink("locks", templated(replaceID(URLVoteLocks, id)))
	}
	if r.v.Concluded {
		res.AddLink("result", hal.NewLink(replaceID(URLVoteResult, id)))
	}
	return res
}

func (r Vote) LinkSelf() string {
	return replaceID(URLVote, strconv.FormatUint(r.v.ID, 10))
}

type Ballot struct {
	b vote.Ballot
}

func NewBallot(b vote.Ballot) *Ballot {
	return &Ballot{b: b}
}

func (r Ballot) GetMap() hal.Entry {
	return hal.Entry{
		"vote_id": r.b.VoteID,
		"account": r.b.Account,
		"choice":  r.b.Choice,
		"cast_at": r.b.CastAt,
	}
}

func (r Ballot) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("vote", hal.NewLink(replaceID(URLVote, strconv.FormatUint(r.b.VoteID, 10))))
	return res
}

func (r Ballot) LinkSelf() string {
	return replaceID(URLVoteBallots, strconv.FormatUint(r.b.VoteID, 10)) + "?cursor=" + r.b.Account
}

type LockDeposit struct {
	l vote.LockDeposit
}

func NewLockDeposit(l vote.LockDeposit) *LockDeposit {
	return &LockDeposit{l: l}
}

func (r LockDeposit) GetMap() hal.Entry {
	return hal.Entry{
		"vote_id":   r.l.VoteID,
		"account":   r.l.Account,
		"deposit":   r.l.Deposit,
		"duration":  r.l.Duration,
		"unlock_at": r.l.UnlockAt,
	}
}

func (r LockDeposit) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("vote", hal.NewLink(replaceID(URLVote, strconv.FormatUint(r.l.VoteID, 10))))
	res.AddLink("account", hal.NewLink(replaceID(URLAccounts, r.l.Account)))
	return res
}

func (r LockDeposit) LinkSelf() string {
	return replaceID(URLVoteLocks, strconv.FormatUint(r.l.VoteID, 10)) + "?cursor=" + r.l.Account
}

type TallyResult struct {
	r *vote.TallyResult
}

func NewTallyResult(r *vote.TallyResult) *TallyResult {
	return &TallyResult{r: r}
}

func (r TallyResult) GetMap() hal.Entry {
	return hal.Entry{
		"vote_id":      r.r.VoteID,
		"aye":          r.r.Aye,
		"nay":          r.r.Nay,
		"concluded_at": r.r.ConcludedAt,
	}
}

func (r TallyResult) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("vote", hal.NewLink(replaceID(URLVote, strconv.FormatUint(r.r.VoteID, 10))))
	return res
}

func (r TallyResult) LinkSelf() string {
	return replaceID(URLVoteResult, strconv.FormatUint(r.r.VoteID, 10))
}
