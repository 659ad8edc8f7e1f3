package operation

import (
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
)

type RegisterCA struct {
	CAHash common.Hash `json:"ca_hash"`
	Data   []byte      `json:"data"`
}

func NewRegisterCA(caHash common.Hash, data []byte) RegisterCA {
	return RegisterCA{CAHash: caHash, Data: data}
}

func (o RegisterCA) IsWellFormed(common.Config) (err error) {
	if o.CAHash.IsZero() {
		return errors.OperationBodyInsufficient.Clone().SetData("field", "ca_hash")
	}

	return
}

type RegisterAccount struct {
	CAHash    common.Hash `json:"ca_hash"`
	Cert      common.Hash `json:"cert"`
	Signature []byte      `json:"signature"`
}

func NewRegisterAccount(caHash, cert common.Hash, signature []byte) RegisterAccount {
	return RegisterAccount{CAHash: caHash, Cert: cert, Signature: signature}
}

func (o RegisterAccount) IsWellFormed(common.Config) (err error) {
	if o.CAHash.IsZero() {
		return errors.OperationBodyInsufficient.Clone().SetData("field", "ca_hash")
	}
	if o.Cert.IsZero() {
		return errors.OperationBodyInsufficient.Clone().SetData("field", "cert")
	}

	return
}
