package transaction

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/operation"
)

const TransactionVersionV1 = "1"

// Transaction is one operation signed by its source; the source is the
// caller of the operation.
type Transaction struct {
	T string
	H Header
	B Body
}

type Header struct {
	Version   string `json:"version"`
	Created   string `json:"created"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

type Body struct {
	Source string `json:"source"`
	// Nonce makes repeated operations of the same source distinct.
	Nonce     uint64              `json:"nonce"`
	Operation operation.Operation `json:"operation"`
}

func (tb Body) MakeHash() common.Hash {
	return common.MustMakeObjectHash(tb)
}

func (tb Body) MakeHashString() string {
	return tb.MakeHash().String()
}

func NewTransaction(source string, nonce uint64, op operation.Operation) Transaction {
	txBody := Body{
		Source:    source,
		Nonce:     nonce,
		Operation: op,
	}

	return Transaction{
		T: "transaction",
		H: Header{
			Version: TransactionVersionV1,
			Created: common.NowISO8601(),
			Hash:    txBody.MakeHashString(),
		},
		B: txBody,
	}
}

var WellFormedCheckerFuncs = []common.CheckerFunc{
	CheckSource,
	CheckOperation,
	CheckHash,
	CheckVerifySignature,
}

func (tx Transaction) IsWellFormed(config common.Config) (err error) {
	checker := &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: WellFormedCheckerFuncs},
		Config:         config,
		Transaction:    tx,
	}

	return common.RunChecker(checker, common.DefaultDeferFunc)
}

func (tx Transaction) GetHash() string {
	return tx.H.Hash
}

func (tx Transaction) Source() string {
	return tx.B.Source
}

func (tx Transaction) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(tx)
	return
}

func (tx Transaction) String() string {
	encoded, _ := json.MarshalIndent(tx, "", "  ")
	return string(encoded)
}

func (tx *Transaction) Sign(kp keypair.KP, networkID []byte) {
	tx.H.Hash = tx.B.MakeHashString()
	signature, _ := keypair.MakeSignature(kp, networkID, tx.H.Hash)

	tx.H.Signature = base58.Encode(signature)
}
