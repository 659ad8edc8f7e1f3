package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"boscoin.io/governance/lib/certificate"
)

type Authority struct {
	a *certificate.Authority
}

func NewAuthority(a *certificate.Authority) *Authority {
	return &Authority{a: a}
}

func (r Authority) GetMap() hal.Entry {
	return hal.Entry{
		"index":     r.a.Index,
		"hash":      r.a.Hash,
		"data":      r.a.Data,
		"registrar": r.a.Registrar,
	}
}

func (r Authority) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("accounts", templated(replaceID(URLAuthorityAccounts, strconv.FormatUint(r.a.Index, 10))))
	return res
}

func (r Authority) LinkSelf() string {
	return replaceID(URLAuthority, strconv.FormatUint(r.a.Index, 10))
}

type AccountCertificate struct {
	c *certificate.AccountCertificate
}

func NewAccountCertificate(c *certificate.AccountCertificate) *AccountCertificate {
	return &AccountCertificate{c: c}
}

func (r AccountCertificate) GetMap() hal.Entry {
	return hal.Entry{
		"account":  r.c.Account,
		"ca_hash":  r.c.CAHash,
		"ca_index": r.c.CAIndex,
		"cert":     r.c.Cert,
	}
}

func (r AccountCertificate) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("account", hal.NewLink(replaceID(URLAccounts, r.c.Account)))
	return res
}

func (r AccountCertificate) LinkSelf() string {
	return replaceID(URLAuthority, strconv.FormatUint(r.c.CAIndex, 10))
}
