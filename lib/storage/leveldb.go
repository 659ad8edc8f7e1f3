package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
)

type LevelDBCore interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

type Item struct {
	Key   string
	Value interface{}
}

type LevelDBBackend struct {
	DB *leveldb.DB

	Core LevelDBCore
}

func setLevelDBCoreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.StorageCoreError.Wrap(err)
}

func (st *LevelDBBackend) Init(config *Config) (err error) {
	var db *leveldb.DB

	switch config.Scheme {
	case "file":
		db, err = leveldb.OpenFile(config.Path, nil)
	case "memory":
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	default:
		err = errors.StorageCoreError.Clone().SetData("error", "unknown scheme: "+config.Scheme)
		return
	}
	if err != nil {
		err = setLevelDBCoreError(err)
		return
	}

	st.DB = db
	st.Core = db

	return
}

func (st *LevelDBBackend) Close() error {
	return st.DB.Close()
}

func (st *LevelDBBackend) IsTransaction() bool {
	_, ok := st.Core.(*leveldb.Transaction)
	return ok
}

// OpenTransaction returns a backend whose writes are invisible until
// `Commit`. Reads through it see its own pending writes.
func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if st.IsTransaction() {
		return nil, errors.StorageTransactionFailed.Clone().SetData("error", "already in transaction")
	}

	transaction, err := st.DB.OpenTransaction()
	if err != nil {
		return nil, errors.StorageTransactionFailed.Wrap(err)
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: transaction,
	}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return errors.StorageTransactionFailed.Clone().SetData("error", "not in transaction")
	}

	ts.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return errors.StorageTransactionFailed.Clone().SetData("error", "not in transaction")
	}

	if err := ts.Commit(); err != nil {
		return errors.StorageTransactionFailed.Wrap(err)
	}

	return nil
}

func (st *LevelDBBackend) makeKey(key string) []byte {
	return []byte(key)
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.Core.Has(st.makeKey(k), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, setLevelDBCoreError(err)
	}

	return ok, nil
}

func (st *LevelDBBackend) GetRaw(k string) (b []byte, err error) {
	b, err = st.Core.Get(st.makeKey(k), nil)
	if err == leveldb.ErrNotFound {
		err = errors.StorageRecordDoesNotExist
		return
	}
	err = setLevelDBCoreError(err)

	return
}

func (st *LevelDBBackend) Get(k string, i interface{}) (err error) {
	var b []byte
	if b, err = st.GetRaw(k); err != nil {
		return
	}

	if err = common.DecodeJSONValue(b, i); err != nil {
		err = errors.EncodingFailed.Wrap(err)
		return
	}

	return
}

func encodeValue(v interface{}) (encoded []byte, err error) {
	if serializable, ok := v.(common.Serializable); ok {
		encoded, err = serializable.Serialize()
	} else {
		encoded, err = common.EncodeJSONValue(v)
	}
	if err != nil {
		err = errors.EncodingFailed.Wrap(err)
	}

	return
}

// New stores a new record; it fails when `k` already exists.
func (st *LevelDBBackend) New(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = encodeValue(v); err != nil {
		return
	}

	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if exists {
		err = errors.StorageRecordAlreadyExists.Clone().SetData("key", k)
		return
	}

	err = setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))

	return
}

// Set overwrites an existing record; it fails when `k` does not exist.
func (st *LevelDBBackend) Set(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = encodeValue(v); err != nil {
		return
	}

	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		err = errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
		return
	}

	err = setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))

	return
}

// Put stores `v` regardless of whether `k` exists.
func (st *LevelDBBackend) Put(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = encodeValue(v); err != nil {
		return
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

func (st *LevelDBBackend) News(vs ...Item) (err error) {
	if len(vs) < 1 {
		return
	}

	var exists bool
	for _, v := range vs {
		if exists, err = st.Has(v.Key); err != nil {
			return
		} else if exists {
			err = errors.StorageRecordAlreadyExists.Clone().SetData("key", v.Key)
			return
		}
	}

	batch := new(leveldb.Batch)
	for _, v := range vs {
		var encoded []byte
		if encoded, err = encodeValue(v.Value); err != nil {
			return
		}

		batch.Put(st.makeKey(v.Key), encoded)
	}

	err = setLevelDBCoreError(st.Core.Write(batch, nil))

	return
}

func (st *LevelDBBackend) Remove(k string) (err error) {
	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		err = errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
		return
	}

	err = setLevelDBCoreError(st.Core.Delete(st.makeKey(k), nil))

	return
}

type (
	// WalkFunc returns false to stop walking.
	WalkFunc   func(key, value []byte) (bool, error)
	WalkOption struct {
		Cursor  string
		Limit   uint64
		Reverse bool
	}
)

func NewWalkOption(cursor string, limit uint64, reverse bool) *WalkOption {
	o := &WalkOption{
		Cursor:  cursor,
		Limit:   limit,
		Reverse: reverse,
	}
	return o
}

// Walk visits the records under `prefix` in key order. The record at
// `Cursor` itself is skipped, so the last key of a page is the cursor of
// the next one. A zero `Limit` walks everything.
func (st *LevelDBBackend) Walk(prefix string, option *WalkOption, walkFunc WalkFunc) error {
	if option == nil {
		option = &WalkOption{}
	}

	iter := st.Core.NewIterator(leveldbUtil.BytesPrefix(st.makeKey(prefix)), nil)
	defer iter.Release()

	var ok bool
	var next func() bool
	if option.Reverse {
		next = iter.Prev
		if len(option.Cursor) > 0 {
			iter.Seek(st.makeKey(option.Cursor))
			ok = iter.Prev()
		} else {
			ok = iter.Last()
		}
	} else {
		next = iter.Next
		if len(option.Cursor) > 0 {
			ok = iter.Seek(st.makeKey(option.Cursor))
			if ok && string(iter.Key()) == option.Cursor {
				ok = iter.Next()
			}
		} else {
			ok = iter.First()
		}
	}

	var cnt uint64
	for ; ok; ok = next() {
		if option.Limit > 0 && cnt >= option.Limit {
			break
		}

		if goOn, err := walkFunc(iter.Key(), iter.Value()); err != nil {
			return err
		} else if !goOn {
			break
		}
		cnt++
	}

	return setLevelDBCoreError(iter.Error())
}
