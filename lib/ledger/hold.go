package ledger

import (
	"encoding/hex"
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Hold reserves `Amount` of an account's balance under an identifier until
// it is released. A held amount stays in `Account.Balance` but can not be
// held again.
//
// models
//  * 'ac-hold-<Address>-<hex ID>': `Hold`
const HoldPrefix string = "ac-hold-"

type Hold struct {
	ID      []byte        `json:"id"`
	Address string        `json:"address"`
	Amount  common.Amount `json:"amount"`
}

func GetHoldKeyPrefix(address string) string {
	return fmt.Sprintf("%s%s-", HoldPrefix, address)
}

func GetHoldKey(address string, id []byte) string {
	return fmt.Sprintf("%s%s", GetHoldKeyPrefix(address), hex.EncodeToString(id))
}

func GetHold(st *storage.LevelDBBackend, address string, id []byte) (h *Hold, err error) {
	if err = st.Get(GetHoldKey(address, id), &h); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.HoldDoesNotExist
		}
		return
	}

	return
}

func GetHolds(st *storage.LevelDBBackend, address string) (holds []Hold, err error) {
	err = st.Walk(GetHoldKeyPrefix(address), nil, func(k, v []byte) (bool, error) {
		var h Hold
		if err := common.DecodeJSONValue(v, &h); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		holds = append(holds, h)
		return true, nil
	})

	return
}

// HeldBalance is the sum of all holds of `address`.
func HeldBalance(st *storage.LevelDBBackend, address string) (held common.Amount, err error) {
	var holds []Hold
	if holds, err = GetHolds(st, address); err != nil {
		return
	}

	for _, h := range holds {
		if held, err = held.Add(h.Amount); err != nil {
			return
		}
	}

	return
}

// FreeBalance is the balance which is not held. An unknown address has
// nothing.
func FreeBalance(st *storage.LevelDBBackend, address string) (common.Amount, error) {
	account, err := GetAccount(st, address)
	if err != nil {
		if errors.Is(err, errors.AccountDoesNotExist) {
			return 0, nil
		}
		return 0, err
	}

	held, err := HeldBalance(st, address)
	if err != nil {
		return 0, err
	}

	// holds never exceed the balance; `Hold` checks it
	free, err := account.Balance.Sub(held)
	if err != nil {
		return 0, err
	}

	return free, nil
}

// PlaceHold reserves `amount` under `id`; the free balance must cover it.
func PlaceHold(st *storage.LevelDBBackend, address string, id []byte, amount common.Amount) error {
	free, err := FreeBalance(st, address)
	if err != nil {
		return err
	}
	if amount > free {
		return errors.InsufficientFunds.Clone().
			SetData("free", uint64(free)).
			SetData("amount", uint64(amount))
	}

	h := Hold{ID: id, Address: address, Amount: amount}
	if err := st.New(GetHoldKey(address, id), h); err != nil {
		return err
	}

	log.Debug("hold placed", "address", address, "id", hex.EncodeToString(id), "amount", amount)

	return nil
}

// ReleaseHold removes the hold `id`, the held amount becomes free again.
func ReleaseHold(st *storage.LevelDBBackend, address string, id []byte) error {
	if err := st.Remove(GetHoldKey(address, id)); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return errors.HoldDoesNotExist
		}
		return err
	}

	log.Debug("hold released", "address", address, "id", hex.EncodeToString(id))

	return nil
}

// Locker holds lock deposits in the ledger; holds do not expire and are
// only removed by `Release`.
type Locker struct{}

func (Locker) FreeBalance(st *storage.LevelDBBackend, address string) (common.Amount, error) {
	return FreeBalance(st, address)
}

func (Locker) Hold(st *storage.LevelDBBackend, id []byte, address string, amount common.Amount) error {
	return PlaceHold(st, address, id, amount)
}

func (Locker) Release(st *storage.LevelDBBackend, id []byte, address string) error {
	return ReleaseHold(st, address, id)
}
