package block

import (
	"encoding/json"
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/transaction"
)

// Receipt is the outcome of an applied transaction. A failed operation
// still gets a receipt carrying its error, so the transaction is not
// applied twice.
//
// models
//  * 'bk-receipt-<TxHash>': `Receipt`
//  * 'bk-receipt-source-<Source>-<Height>-<Index>': `TxHash`
const (
	ReceiptPrefix       string = "bk-receipt-"
	ReceiptPrefixSource string = "bk-receipt-source-"
)

type Receipt struct {
	TxHash        string                  `json:"tx_hash"`
	Source        string                  `json:"source"`
	Height        uint64                  `json:"height"`
	Index         uint64                  `json:"index"`
	OperationType string                  `json:"operation_type"`
	Result        json.RawMessage         `json:"result,omitempty"`
	Error         *errors.Error           `json:"error,omitempty"`
	Transaction   transaction.Transaction `json:"transaction"`
}

func NewReceipt(tx transaction.Transaction, height, index uint64, result interface{}, err error) Receipt {
	r := Receipt{
		TxHash:        tx.GetHash(),
		Source:        tx.Source(),
		Height:        height,
		Index:         index,
		OperationType: string(tx.B.Operation.H.Type),
		Transaction:   tx,
	}

	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			r.Error = e
		} else {
			r.Error = errors.StorageCoreError.Wrap(err)
		}
	} else if result != nil {
		r.Result = common.MustMarshalJSON(result)
	}

	return r
}

func (r Receipt) Succeeded() bool {
	return r.Error == nil
}

func (r Receipt) String() string {
	encoded, _ := json.MarshalIndent(r, "", "  ")
	return string(encoded)
}

func GetReceiptKey(txHash string) string {
	return fmt.Sprintf("%s%s", ReceiptPrefix, txHash)
}

func GetReceiptSourceKeyPrefix(source string) string {
	return fmt.Sprintf("%s%s-", ReceiptPrefixSource, source)
}

func GetReceiptSourceKey(source string, height, index uint64) string {
	return fmt.Sprintf(
		"%s%s-%s",
		GetReceiptSourceKeyPrefix(source),
		common.EncodeUint64Key(height),
		common.EncodeUint64Key(index),
	)
}

func (r Receipt) Save(st *storage.LevelDBBackend) error {
	return st.News(
		storage.Item{Key: GetReceiptKey(r.TxHash), Value: r},
		storage.Item{Key: GetReceiptSourceKey(r.Source, r.Height, r.Index), Value: r.TxHash},
	)
}

func ExistsReceipt(st *storage.LevelDBBackend, txHash string) (bool, error) {
	return st.Has(GetReceiptKey(txHash))
}

func GetReceipt(st *storage.LevelDBBackend, txHash string) (r Receipt, err error) {
	if err = st.Get(GetReceiptKey(txHash), &r); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.TransactionNotFound.Clone().SetData("hash", txHash)
		}
		return
	}

	return
}

// GetReceiptsBySource lists the receipts of `source`, newest first when
// `reverse`.
func GetReceiptsBySource(st *storage.LevelDBBackend, source string, limit uint64, reverse bool) (receipts []Receipt, err error) {
	var hashes []string
	err = st.Walk(GetReceiptSourceKeyPrefix(source), storage.NewWalkOption("", limit, reverse), func(k, v []byte) (bool, error) {
		var hash string
		if err := common.DecodeJSONValue(v, &hash); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		hashes = append(hashes, hash)
		return true, nil
	})
	if err != nil {
		return
	}

	for _, hash := range hashes {
		var r Receipt
		if r, err = GetReceipt(st, hash); err != nil {
			return
		}
		receipts = append(receipts, r)
	}

	return
}
