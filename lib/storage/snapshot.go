package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"

	"boscoin.io/governance/lib/errors"
)

// Snapshot is a read-only `LevelDBCore`; readers use it to see several
// records of the same state while blocks keep being written.
type Snapshot struct {
	*leveldb.Snapshot
}

func (s *Snapshot) Put([]byte, []byte, *leveldbOpt.WriteOptions) error {
	return errors.NotImplemented
}

func (s *Snapshot) Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error {
	return errors.NotImplemented
}

func (s *Snapshot) Delete([]byte, *leveldbOpt.WriteOptions) error {
	return errors.NotImplemented
}

// OpenSnapshot returns a read-only backend; call `Release` when done.
func (st *LevelDBBackend) OpenSnapshot() (*LevelDBBackend, error) {
	snapshot, err := st.DB.GetSnapshot()
	if err != nil {
		return nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: &Snapshot{Snapshot: snapshot},
	}, nil
}

func (st *LevelDBBackend) Release() {
	if s, ok := st.Core.(*Snapshot); ok {
		s.Release()
	}
}
