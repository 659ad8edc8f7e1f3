package ledger

import (
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// Account is the balance of an address. The storage supports,
//  * find by `Address`:
// 	- 'ac-<Account.Address>': `Account`
//
// Holds reserve a part of the balance; see `Hold`.
const AccountPrefixAddress string = "ac-"

type Account struct {
	Address string        `json:"address"`
	Balance common.Amount `json:"balance"`
}

func NewAccount(address string, balance common.Amount) *Account {
	return &Account{
		Address: address,
		Balance: balance,
	}
}

func (b *Account) String() string {
	return string(common.MustMarshalJSON(b))
}

func (b *Account) Save(st *storage.LevelDBBackend) (err error) {
	key := GetAccountKey(b.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, b)
	} else {
		err = st.New(key, b)
	}

	return
}

func (b *Account) Serialize() (encoded []byte, err error) {
	encoded, err = common.EncodeJSONValue(b)
	return
}

func GetAccountKey(address string) string {
	return fmt.Sprintf("%s%s", AccountPrefixAddress, address)
}

func ExistsAccount(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetAccountKey(address))
}

func GetAccount(st *storage.LevelDBBackend, address string) (b *Account, err error) {
	if err = st.Get(GetAccountKey(address), &b); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.AccountDoesNotExist.Clone().SetData("address", address)
		}
		return
	}

	return
}

// Deposit adds fund to an account.
//
// If the amount would make the account overflow over the full supply of coin,
// an `error` is returned.
func (b *Account) Deposit(fund common.Amount) error {
	if val, err := b.Balance.Add(fund); err != nil {
		return err
	} else {
		b.Balance = val
	}
	return nil
}

// Withdraw removes fund from an account.
//
// If the amount would make the account go negative, an `error` is returned.
func (b *Account) Withdraw(fund common.Amount) error {
	if val, err := b.Balance.Sub(fund); err != nil {
		return err
	} else {
		b.Balance = val
	}
	return nil
}
