package client

import (
	"encoding/json"
	"fmt"
)

type Problem struct {
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Status   int             `json:"status"`
	Detail   string          `json:"detail,omitempty"`
	Instance string          `json:"instance,omitempty"`
	Code     uint            `json:"code,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Error is a problem answered by the node.
type Error struct {
	Problem   Problem
	RequestID string
}

func (e Error) Error() string {
	return fmt.Sprintf(
		"%d %s: code=%d data=%s request-id=%s",
		e.Problem.Status, e.Problem.Title, e.Problem.Code, string(e.Problem.Data), e.RequestID,
	)
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type PageLinks struct {
	Self Link `json:"self"`
	Next Link `json:"next"`
	Prev Link `json:"prev"`
}

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

type CARequirement struct {
	Index uint64 `json:"index"`
	Hash  string `json:"hash"`
}

type Vote struct {
	Links struct {
		Self    Link `json:"self"`
		Ballots Link `json:"ballots"`
		Creator Link `json:"creator"`
		Locks   Link `json:"locks"`
		Result  Link `json:"result"`
	} `json:"_links"`

	ID          uint64         `json:"id"`
	Type        string         `json:"type"`
	Creator     string         `json:"creator"`
	CreatedAt   uint64         `json:"created_at"`
	EndsAt      uint64         `json:"ends_at"`
	Concluded   bool           `json:"concluded"`
	PayloadHash string         `json:"payload_hash"`
	Ayes        uint64         `json:"ayes"`
	Nays        uint64         `json:"nays"`
	RequiredCA  *CARequirement `json:"required_ca,omitempty"`
}

type VotesPage struct {
	Links    PageLinks `json:"_links"`
	Embedded struct {
		Records []Vote `json:"records"`
	} `json:"_embedded"`
}

type TallyResult struct {
	VoteID      uint64 `json:"vote_id"`
	Aye         uint64 `json:"aye"`
	Nay         uint64 `json:"nay"`
	ConcludedAt uint64 `json:"concluded_at"`
}

type Ballot struct {
	VoteID  uint64 `json:"vote_id"`
	Account string `json:"account"`
	Choice  string `json:"choice"`
	CastAt  uint64 `json:"cast_at"`
}

type BallotsPage struct {
	Links    PageLinks `json:"_links"`
	Embedded struct {
		Records []Ballot `json:"records"`
	} `json:"_embedded"`
}

type LockDeposit struct {
	VoteID   uint64 `json:"vote_id"`
	Account  string `json:"account"`
	Deposit  string `json:"deposit"`
	Duration uint64 `json:"duration"`
	UnlockAt uint64 `json:"unlock_at"`
}

type LockDepositsPage struct {
	Links    PageLinks `json:"_links"`
	Embedded struct {
		Records []LockDeposit `json:"records"`
	} `json:"_embedded"`
}

type Account struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`

	Address     string `json:"address"`
	Balance     string `json:"balance"`
	FreeBalance string `json:"free_balance"`
}

type Authority struct {
	Index     uint64 `json:"index"`
	Hash      string `json:"hash"`
	Data      []byte `json:"data"`
	Registrar string `json:"registrar"`
}

type AuthoritiesPage struct {
	Links    PageLinks `json:"_links"`
	Embedded struct {
		Records []Authority `json:"records"`
	} `json:"_embedded"`
}

type Transaction struct {
	Links struct {
		Self   Link `json:"self"`
		Source Link `json:"source"`
	} `json:"_links"`

	Hash          string          `json:"hash"`
	Status        string          `json:"status"`
	Source        string          `json:"source"`
	Block         uint64          `json:"block"`
	Index         uint64          `json:"index"`
	OperationType string          `json:"operation_type"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         *OperationError `json:"error,omitempty"`
}

// OperationError is why an applied transaction failed.
type OperationError struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

type TransactionPost struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`

	Hash   string `json:"hash"`
	Status string `json:"status"`
}

type Block struct {
	Hash         string   `json:"hash"`
	Height       uint64   `json:"height"`
	PrevHash     string   `json:"prev_hash"`
	Confirmed    string   `json:"confirmed"`
	TotalTxs     uint64   `json:"total_txs"`
	Transactions []string `json:"transactions"`
}

type Event struct {
	Type    string `json:"type"`
	Account string `json:"account,omitempty"`
	VoteID  uint64 `json:"vote_id,omitempty"`
	CAIndex uint64 `json:"ca_index,omitempty"`
	Choice  string `json:"choice,omitempty"`
	Height  uint64 `json:"height"`
}
