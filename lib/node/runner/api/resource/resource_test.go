package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/vote"
)

func toMap(t *testing.T, r Resource) map[string]interface{} {
	b, err := json.Marshal(r.Resource())
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func links(m map[string]interface{}) map[string]interface{} {
	return m["_links"].(map[string]interface{})
}

func href(m map[string]interface{}, rel string) string {
	return links(m)[rel].(map[string]interface{})["href"].(string)
}

func TestResourceVote(t *testing.T) {
	v := &vote.Vote{ID: 3, Type: vote.LockWeighted, Creator: "GA", CreatedAt: 1, EndsAt: 5}

	m := toMap(t, NewVote(v, certificate.MakeTestHash("payload"), 2, 1))
	require.Equal(t, float64(3), m["id"])
	require.Equal(t, "lock", m["type"])
	require.Equal(t, float64(2), m["ayes"])
	require.Equal(t, float64(1), m["nays"])
	require.Equal(t, certificate.MakeTestHash("payload").String(), m["payload_hash"])
	require.Nil(t, m["required_ca"])

	require.Equal(t, "/api/v1/votes/3", href(m, "self"))
	require.Equal(t, "/api/v1/accounts/GA", href(m, "creator"))
	require.Contains(t, links(m), "locks")
	require.NotContains(t, links(m), "result")

	v.Type = vote.Plain
	v.Concluded = true
	v.RequiredCA = &vote.CARequirement{Index: 1, Hash: certificate.MakeTestHash("ca")}
	m = toMap(t, NewVote(v, common.Hash{}, 0, 0))
	require.NotContains(t, links(m), "locks")
	require.Equal(t, "/api/v1/votes/3/result", href(m, "result"))
	require.Equal(t, float64(1), m["required_ca"].(map[string]interface{})["index"])
}

func TestResourceAccount(t *testing.T) {
	a := ledger.NewAccount("GA", common.Amount(100))

	m := toMap(t, NewAccount(a, common.Amount(60)))
	require.Equal(t, "GA", m["address"])
	require.Equal(t, "100", m["balance"])
	require.Equal(t, "60", m["free_balance"])
	require.Equal(t, "/api/v1/accounts/GA", href(m, "self"))
	require.Equal(t, "/api/v1/accounts/GA/votes{?cursor,limit,reverse}", href(m, "votes"))
	require.Equal(t, true, links(m)["votes"].(map[string]interface{})["templated"])
}

func TestResourceList(t *testing.T) {
	rs := []Resource{
		NewBallot(vote.Ballot{VoteID: 1, Account: "GA", Choice: vote.Aye, CastAt: 2}),
		NewBallot(vote.Ballot{VoteID: 1, Account: "GB", Choice: vote.Nay, CastAt: 3}),
	}

	l := NewResourceList(rs, "/api/v1/votes/1/ballots", "/next", "")
	b, err := json.Marshal(l.Resource())
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))

	records := m["_embedded"].(map[string]interface{})["records"].([]interface{})
	require.Len(t, records, 2)
	require.Equal(t, "aye", records[0].(map[string]interface{})["choice"])
	require.Equal(t, "GB", records[1].(map[string]interface{})["account"])
	require.Equal(t, "/next", href(m, "next"))
	require.NotContains(t, links(m), "prev")
}
