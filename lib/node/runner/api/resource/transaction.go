package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/transaction"
)

const (
	TransactionStatusSubmitted = "submitted"
	TransactionStatusApplied   = "applied"
	TransactionStatusFailed    = "failed"
)

// Transaction is an applied transaction with its receipt.
type Transaction struct {
	r block.Receipt
}

func NewTransaction(r block.Receipt) *Transaction {
	return &Transaction{r: r}
}

func (t Transaction) GetMap() hal.Entry {
	e := hal.Entry{
		"hash":           t.r.TxHash,
		"source":         t.r.Source,
		"block":          t.r.Height,
		"index":          t.r.Index,
		"operation_type": t.r.OperationType,
		"operation":      t.r.Transaction.B.Operation,
		"created":        t.r.Transaction.H.Created,
	}

	if t.r.Succeeded() {
		e["status"] = TransactionStatusApplied
		if len(t.r.Result) > 0 {
			e["result"] = t.r.Result
		}
	} else {
		e["status"] = TransactionStatusFailed
		e["error"] = t.r.Error
	}

	return e
}

func (t Transaction) Resource() *hal.Resource {
	res := hal.NewResource(t, t.LinkSelf())
	res.AddLink("source", hal.NewLink(replaceID(URLAccounts, t.r.Source)))
	return res
}

func (t Transaction) LinkSelf() string {
	return replaceID(URLTransactionByHash, t.r.TxHash)
}

// TransactionPost is the answer to a submitted transaction; it is applied
// by one of the next blocks.
type TransactionPost struct {
	tx transaction.Transaction
}

func NewTransactionPost(tx transaction.Transaction) *TransactionPost {
	return &TransactionPost{tx: tx}
}

func (t TransactionPost) GetMap() hal.Entry {
	return hal.Entry{
		"hash":   t.tx.H.Hash,
		"status": TransactionStatusSubmitted,
	}
}

func (t TransactionPost) Resource() *hal.Resource {
	return hal.NewResource(t, t.LinkSelf())
}

func (t TransactionPost) LinkSelf() string {
	return replaceID(URLTransactionByHash, t.tx.H.Hash)
}
