package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/ledger"
)

type Account struct {
	a    *ledger.Account
	free common.Amount
}

func NewAccount(a *ledger.Account, free common.Amount) *Account {
	return &Account{a: a, free: free}
}

func (r Account) GetMap() hal.Entry {
	return hal.Entry{
		"address":      r.a.Address,
		"balance":      r.a.Balance,
		"free_balance": r.free,
	}
}

func (r Account) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("votes", templated(replaceID(URLAccountVotes, r.a.Address)))
	res.AddLink("transactions", templated(replaceID(URLAccountTransactions, r.a.Address)))
	res.AddLink("cas", hal.NewLink(replaceID(URLAccountAuthorities, r.a.Address)))
	return res
}

func (r Account) LinkSelf() string {
	return replaceID(URLAccounts, r.a.Address)
}
