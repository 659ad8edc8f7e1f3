package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/node/runner/api/resource"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/vote"
)

func (api NetworkHandlerAPI) voteResource(st *storage.LevelDBBackend, v *vote.Vote) (*resource.Vote, error) {
	payloadHash, err := vote.GetVotePayloadHash(st, v.ID)
	if err != nil {
		return nil, err
	}
	aye, err := vote.CountBallots(st, v.ID, vote.Aye)
	if err != nil {
		return nil, err
	}
	nay, err := vote.CountBallots(st, v.ID, vote.Nay)
	if err != nil {
		return nil, err
	}

	return resource.NewVote(v, payloadHash, aye, nay), nil
}

func (api NetworkHandlerAPI) votesResourceList(st *storage.LevelDBBackend, p *httputils.PageQuery, votes []vote.Vote) (*resource.ResourceList, error) {
	var rs []resource.Resource
	var cursor string
	for i := range votes {
		r, err := api.voteResource(st, &votes[i])
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
		cursor = strconv.FormatUint(votes[i].ID, 10)
	}

	var next string
	if uint64(len(votes)) == p.Limit() {
		next = p.NextLink(cursor)
	}

	return resource.NewResourceList(rs, p.SelfLink(), next, ""), nil
}

func (api NetworkHandlerAPI) GetVotesHandler(w http.ResponseWriter, r *http.Request) {
	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	cursor, err := p.CursorUint64()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		votes, err := vote.GetVotes(st, cursor, p.Limit(), p.Reverse())
		if err != nil {
			return nil, err
		}
		return api.votesResourceList(st, p, votes)
	}

	api.writeFromSnapshot(w, readFunc)
}

func (api NetworkHandlerAPI) GetVotesByAccountHandler(w http.ResponseWriter, r *http.Request) {
	creator := mux.Vars(r)["id"]

	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	cursor, err := p.CursorUint64()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		votes, err := vote.GetVotesByCreator(st, creator, cursor, p.Limit())
		if err != nil {
			return nil, err
		}
		return api.votesResourceList(st, p, votes)
	}

	api.writeFromSnapshot(w, readFunc)
}

func (api NetworkHandlerAPI) GetVoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uint64Var(r, "id")
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		v, err := vote.GetVote(st, id)
		if err != nil {
			return nil, err
		}
		return api.voteResource(st, v)
	}

	api.writeFromSnapshot(w, readFunc)
}

// GetVoteResultHandler returns the tally of a concluded vote. The result
// never changes once written and is kept by the http cache; errors are
// not.
func (api NetworkHandlerAPI) GetVoteResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uint64Var(r, "id")
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	v, err := vote.GetVote(api.storage, id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if !v.Concluded {
		httputils.WriteJSONError(w, errors.VoteNotConcluded.Clone().SetData("vote", id))
		return
	}

	result, err := vote.GetTallyResult(api.storage, id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewTallyResult(result))
}

// GetVoteBallotsHandler lists one side of a vote, `choice=aye` by default.
func (api NetworkHandlerAPI) GetVoteBallotsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uint64Var(r, "id")
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	choice := vote.Aye
	if s := r.URL.Query().Get("choice"); s != "" {
		if choice, err = vote.ParseChoice(s); err != nil {
			httputils.WriteJSONError(w, err)
			return
		}
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		if _, err := vote.GetVote(st, id); err != nil {
			return nil, err
		}

		ballots, err := vote.GetBallots(st, id, choice, p.Cursor(), p.Limit())
		if err != nil {
			return nil, err
		}

		var rs []resource.Resource
		var next string
		for _, b := range ballots {
			rs = append(rs, resource.NewBallot(b))
		}
		if len(ballots) > 0 && uint64(len(ballots)) == p.Limit() {
			next = p.NextLink(ballots[len(ballots)-1].Account) + "&choice=" + choice.String()
		}

		return resource.NewResourceList(rs, p.SelfLink(), next, ""), nil
	}

	api.writeFromSnapshot(w, readFunc)
}

func (api NetworkHandlerAPI) GetVoteLocksHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uint64Var(r, "id")
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		v, err := vote.GetVote(st, id)
		if err != nil {
			return nil, err
		}
		if v.Type != vote.LockWeighted {
			return nil, errors.WrongVoteKind.Clone().SetData("vote", id)
		}

		locks, err := vote.GetLockDeposits(st, id, p.Cursor(), p.Limit())
		if err != nil {
			return nil, err
		}

		var rs []resource.Resource
		var next string
		for _, l := range locks {
			rs = append(rs, resource.NewLockDeposit(l))
		}
		if len(locks) > 0 && uint64(len(locks)) == p.Limit() {
			next = p.NextLink(locks[len(locks)-1].Account)
		}

		return resource.NewResourceList(rs, p.SelfLink(), next, ""), nil
	}

	api.writeFromSnapshot(w, readFunc)
}

// writeFromSnapshot runs `readFunc` over a storage snapshot so the records
// of one response belong to the same block.
func (api NetworkHandlerAPI) writeFromSnapshot(w http.ResponseWriter, readFunc func(*storage.LevelDBBackend) (interface{}, error)) {
	snapshot, err := api.storage.OpenSnapshot()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	defer snapshot.Release()

	payload, err := readFunc(snapshot)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, payload)
}
