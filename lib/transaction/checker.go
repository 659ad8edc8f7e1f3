package transaction

import (
	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
)

type Checker struct {
	common.DefaultChecker

	Config      common.Config
	Transaction Transaction
}

func CheckSource(c common.Checker) (err error) {
	checker := c.(*Checker)
	if !keypair.IsAddress(checker.Transaction.B.Source) {
		return errors.BadPublicAddress.Clone().SetData("source", checker.Transaction.B.Source)
	}

	return
}

func CheckOperation(c common.Checker) (err error) {
	checker := c.(*Checker)

	return checker.Transaction.B.Operation.IsWellFormed(checker.Config)
}

func CheckHash(c common.Checker) (err error) {
	checker := c.(*Checker)

	if checker.Transaction.B.MakeHashString() != checker.Transaction.H.Hash {
		return errors.InvalidHash.Clone().SetData("hash", checker.Transaction.H.Hash)
	}

	return
}

// CheckVerifySignature authenticates the source as the caller.
func CheckVerifySignature(c common.Checker) (err error) {
	checker := c.(*Checker)

	if len(checker.Transaction.H.Signature) < 1 {
		return errors.Unsigned
	}

	err = keypair.VerifySignature(
		checker.Transaction.B.Source,
		checker.Config.NetworkID,
		checker.Transaction.H.Hash,
		base58.Decode(checker.Transaction.H.Signature),
	)
	if err != nil {
		return errors.SignatureVerificationFailed.Wrap(err)
	}

	return
}
