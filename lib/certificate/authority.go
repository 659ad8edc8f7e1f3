package certificate

import (
	"fmt"
	"math"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Authority is a registered certificate authority. Indices are dense and
// start from 1; the hash and the index map to each other one to one.
//
// models
//   - 'ca-count': number of registered authorities
//   - 'ca-index-<Index>': `Authority`
//   - 'ca-hash-<Hash>': `Index`
const (
	AuthorityCountKey    string = "ca-count"
	AuthorityPrefixIndex string = "ca-index-"
	AuthorityPrefixHash  string = "ca-hash-"
	MaxAuthorityCount    uint64 = math.MaxUint64
)

type Authority struct {
	Index     uint64      `json:"index"`
	Hash      common.Hash `json:"hash"`
	Data      []byte      `json:"data"`
	Registrar string      `json:"registrar"`
}

func (a *Authority) String() string {
	return string(common.MustMarshalJSON(a))
}

func GetAuthorityIndexKey(index uint64) string {
	return fmt.Sprintf("%s%s", AuthorityPrefixIndex, common.EncodeUint64Key(index))
}

func GetAuthorityHashKey(hash common.Hash) string {
	return fmt.Sprintf("%s%s", AuthorityPrefixHash, hash)
}

func GetAuthorityCount(st *storage.LevelDBBackend) (count uint64, err error) {
	if err = st.Get(AuthorityCountKey, &count); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return 0, nil
		}
		return
	}

	return
}

func GetAuthorityByIndex(st *storage.LevelDBBackend, index uint64) (a *Authority, err error) {
	if err = st.Get(GetAuthorityIndexKey(index), &a); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NotFound.Clone().SetData("index", index)
		}
		return
	}

	return
}

func GetAuthorityByHash(st *storage.LevelDBBackend, hash common.Hash) (*Authority, error) {
	var index uint64
	if err := st.Get(GetAuthorityHashKey(hash), &index); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, errors.NotFound.Clone().SetData("hash", hash)
		}
		return nil, err
	}

	return GetAuthorityByIndex(st, index)
}

func ExistsAuthority(st *storage.LevelDBBackend, hash common.Hash) (bool, error) {
	return st.Has(GetAuthorityHashKey(hash))
}

// GetAuthorities returns the authorities in index order, starting after
// `cursor`.
func GetAuthorities(st *storage.LevelDBBackend, cursor, limit uint64) (authorities []Authority, err error) {
	var option *storage.WalkOption
	if cursor > 0 {
		option = storage.NewWalkOption(GetAuthorityIndexKey(cursor), limit, false)
	} else {
		option = storage.NewWalkOption("", limit, false)
	}

	err = st.Walk(AuthorityPrefixIndex, option, func(k, v []byte) (bool, error) {
		var a Authority
		if err := common.DecodeJSONValue(v, &a); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		authorities = append(authorities, a)
		return true, nil
	})

	return
}
