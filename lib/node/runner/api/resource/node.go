package resource

import (
	"github.com/nvellon/hal"
)

type NodeInfo struct {
	NetworkID   string `json:"network_id"`
	Version     string `json:"version"`
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
	TotalTxs    uint64 `json:"total_txs"`
	PoolSize    int    `json:"pool_size"`
	Votes       uint64 `json:"votes"`
	Authorities uint64 `json:"authorities"`
}

func (n NodeInfo) GetMap() hal.Entry {
	return hal.Entry{
		"network_id":   n.NetworkID,
		"version":      n.Version,
		"block_height": n.BlockHeight,
		"block_hash":   n.BlockHash,
		"total_txs":    n.TotalTxs,
		"pool_size":    n.PoolSize,
		"votes":        n.Votes,
		"authorities":  n.Authorities,
	}
}

func (n NodeInfo) Resource() *hal.Resource {
	r := hal.NewResource(n, n.LinkSelf())
	r.AddLink("votes", templated(URLVotes))
	r.AddLink("cas", templated(URLAuthorities))
	r.AddLink("transactions", hal.NewLink(URLTransactions))
	r.AddLink("events", hal.NewLink(URLEvents))
	return r
}

func (n NodeInfo) LinkSelf() string {
	return URLNode
}
