package transaction

import (
	"container/list"
	"sync"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/metrics"
)

// Pool keeps the submitted transactions in arrival order until a block
// takes them.
type Pool struct {
	sync.RWMutex

	Pool map[ /* Transaction.GetHash() */ string]Transaction

	hashList *list.List // Transaction.GetHash()
	hashMap  map[ /* Transaction.GetHash() */ string]*list.Element

	limit int
}

func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = common.DefaultTxPoolLimit
	}
	return &Pool{
		Pool:     map[string]Transaction{},
		hashList: list.New(),
		hashMap:  make(map[string]*list.Element),
		limit:    limit,
	}
}

func (tp *Pool) Len() int {
	tp.RLock()
	defer tp.RUnlock()

	return len(tp.Pool)
}

func (tp *Pool) Has(hash string) bool {
	tp.RLock()
	defer tp.RUnlock()

	_, found := tp.Pool[hash]
	return found
}

func (tp *Pool) Get(hash string) (Transaction, bool) {
	tp.RLock()
	defer tp.RUnlock()

	tx, found := tp.Pool[hash]
	return tx, found
}

func (tp *Pool) Add(tx Transaction) error {
	txHash := tx.GetHash()

	tp.Lock()
	defer tp.Unlock()

	if _, found := tp.Pool[txHash]; found {
		metrics.TxPool.AddRejected(metrics.RejectedDuplicated)
		return errors.TransactionAlreadyExists.Clone().SetData("hash", txHash)
	}
	if len(tp.Pool) >= tp.limit {
		metrics.TxPool.AddRejected(metrics.RejectedPoolFull)
		return errors.TransactionPoolFull
	}

	tp.Pool[txHash] = tx
	tp.hashMap[txHash] = tp.hashList.PushBack(txHash)

	metrics.TxPool.AddSize(1)

	return nil
}

func (tp *Pool) Remove(hashes ...string) {
	if len(hashes) < 1 {
		return
	}

	tp.Lock()
	defer tp.Unlock()

	var num int
	for _, hash := range hashes {
		if _, found := tp.Pool[hash]; !found {
			continue
		}
		delete(tp.Pool, hash)
		if e, ok := tp.hashMap[hash]; ok {
			tp.hashList.Remove(e)
			delete(tp.hashMap, hash)
		}
		num++
	}

	metrics.TxPool.AddSize(-num)
}

// AvailableTransactions returns at most `transactionLimit` transactions,
// oldest first.
func (tp *Pool) AvailableTransactions(transactionLimit int) []Transaction {
	if transactionLimit < 1 {
		return nil
	}

	tp.RLock()
	defer tp.RUnlock()

	var ret []Transaction
	for e := tp.hashList.Front(); e != nil && len(ret) < transactionLimit; e = e.Next() {
		if hash, ok := e.Value.(string); ok {
			ret = append(ret, tp.Pool[hash])
		}
	}

	return ret
}
