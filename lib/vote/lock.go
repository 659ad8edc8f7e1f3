package vote

import (
	"encoding/binary"
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// LockDeposit is the stake an account locked on a lock-weighted vote. The
// deposit is held in the ledger under `LockID(VoteID)` until withdrawn.
//
// models
//   - 'vt-lock-<ID>-<Account>': `LockDeposit`
const VotePrefixLock string = "vt-lock-"

type LockDeposit struct {
	VoteID   uint64        `json:"vote_id"`
	Account  string        `json:"account"`
	Deposit  common.Amount `json:"deposit"`
	Duration common.Height `json:"duration"`
	UnlockAt common.Height `json:"unlock_at"`
}

func (l *LockDeposit) String() string {
	return string(common.MustMarshalJSON(l))
}

// Weight is `Deposit * Duration`.
func (l LockDeposit) Weight() (uint64, error) {
	return l.Deposit.MultUint64(uint64(l.Duration))
}

// LockID is the hold identifier of a vote, the 8 bytes big-endian id.
func LockID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func GetLockKeyPrefix(id uint64) string {
	return fmt.Sprintf("%s%s-", VotePrefixLock, common.EncodeUint64Key(id))
}

func GetLockKey(id uint64, account string) string {
	return fmt.Sprintf("%s%s", GetLockKeyPrefix(id), account)
}

func ExistsLockDeposit(st *storage.LevelDBBackend, id uint64, account string) (bool, error) {
	return st.Has(GetLockKey(id, account))
}

func GetLockDeposit(st *storage.LevelDBBackend, id uint64, account string) (l *LockDeposit, err error) {
	if err = st.Get(GetLockKey(id, account), &l); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NoLock.Clone().SetData("vote", id).SetData("account", account)
		}
		return
	}

	return
}

func GetLockDeposits(st *storage.LevelDBBackend, id uint64, cursor string, limit uint64) (locks []LockDeposit, err error) {
	option := storage.NewWalkOption("", limit, false)
	if len(cursor) > 0 {
		option.Cursor = GetLockKey(id, cursor)
	}

	err = st.Walk(GetLockKeyPrefix(id), option, func(k, v []byte) (bool, error) {
		var l LockDeposit
		if err := common.DecodeJSONValue(v, &l); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		locks = append(locks, l)
		return true, nil
	})

	return
}

// Locker is the value locking primitive the lock deposits are held with.
type Locker interface {
	FreeBalance(st *storage.LevelDBBackend, account string) (common.Amount, error)
	Hold(st *storage.LevelDBBackend, lockID []byte, account string, amount common.Amount) error
	Release(st *storage.LevelDBBackend, lockID []byte, account string) error
}
