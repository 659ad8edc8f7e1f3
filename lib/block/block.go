package block

import (
	"encoding/json"
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/observer"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Block is the set of transactions applied at one height. The storage
// supports,
//  * find by `Height`:
// 	- 'bk-height-<Height>': `Block`
//  * find by `Hash`:
// 	- 'bk-hash-<Hash>': `Height`
const (
	BlockPrefixHeight string = "bk-height-"
	BlockPrefixHash   string = "bk-hash-"
	EventBlockSaved   string = "bk-saved"
	GenesisHeight     uint64 = 1
)

type Block struct {
	Height       uint64   `json:"height"`
	PrevHash     string   `json:"prev_hash"`
	Hash         string   `json:"hash"`
	Transactions []string `json:"transactions"` /* []Transaction.GetHash() */
	TotalTxs     uint64   `json:"total_txs"`
	Confirmed    string   `json:"confirmed"`
}

// blockHashBody is what the block hash is made from.
type blockHashBody struct {
	Height       uint64
	PrevHash     string
	Transactions []string
	TotalTxs     uint64
	Confirmed    string
}

func NewBlock(prev Block, transactions []string, confirmed string) Block {
	if transactions == nil {
		transactions = []string{}
	}

	b := Block{
		Height:       prev.Height + 1,
		PrevHash:     prev.Hash,
		Transactions: transactions,
		TotalTxs:     prev.TotalTxs + uint64(len(transactions)),
		Confirmed:    confirmed,
	}
	b.Hash = b.makeHash()

	log.Debug("NewBlock created", "height", b.Height, "txs", len(transactions), "TotalTxs", b.TotalTxs)

	return b
}

// MakeGenesisBlock stores the first block; it has no transactions.
func MakeGenesisBlock(st *storage.LevelDBBackend, confirmed string) (Block, error) {
	b := Block{
		Height:       GenesisHeight,
		Transactions: []string{},
		Confirmed:    confirmed,
	}
	b.Hash = b.makeHash()

	return b, b.Save(st)
}

func (b Block) makeHash() string {
	return common.MustMakeObjectHash(blockHashBody{
		Height:       b.Height,
		PrevHash:     b.PrevHash,
		Transactions: b.Transactions,
		TotalTxs:     b.TotalTxs,
		Confirmed:    b.Confirmed,
	}).String()
}

func (b Block) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(b)
	return
}

func (b Block) String() string {
	encoded, _ := json.MarshalIndent(b, "", "  ")
	return string(encoded)
}

func GetBlockKeyPrefixHeight(height uint64) string {
	return fmt.Sprintf("%s%s", BlockPrefixHeight, common.EncodeUint64Key(height))
}

func GetBlockKeyHash(hash string) string {
	return fmt.Sprintf("%s%s", BlockPrefixHash, hash)
}

func (b Block) Save(st *storage.LevelDBBackend) (err error) {
	key := GetBlockKeyPrefixHeight(b.Height)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	} else if exists {
		return errors.StorageRecordAlreadyExists.Clone().SetData("height", b.Height)
	}

	if err = st.New(key, b); err != nil {
		return
	}
	if err = st.New(GetBlockKeyHash(b.Hash), b.Height); err != nil {
		return
	}

	observer.BlockObserver.Trigger(EventBlockSaved, b)

	return
}

func GetBlockByHeight(st *storage.LevelDBBackend, height uint64) (b Block, err error) {
	if err = st.Get(GetBlockKeyPrefixHeight(height), &b); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.BlockNotFound.Clone().SetData("height", height)
		}
		return
	}

	return
}

func GetBlock(st *storage.LevelDBBackend, hash string) (b Block, err error) {
	var height uint64
	if err = st.Get(GetBlockKeyHash(hash), &height); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.BlockNotFound.Clone().SetData("hash", hash)
		}
		return
	}

	return GetBlockByHeight(st, height)
}

// GetLatestBlock returns the highest block; `BlockNotFound` before genesis.
func GetLatestBlock(st *storage.LevelDBBackend) (b Block, err error) {
	var found bool
	err = st.Walk(BlockPrefixHeight, storage.NewWalkOption("", 1, true), func(k, v []byte) (bool, error) {
		found = true
		if err := common.DecodeJSONValue(v, &b); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		return false, nil
	})
	if err == nil && !found {
		err = errors.BlockNotFound
	}

	return
}
