package certificate

import (
	"fmt"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

// AccountCertificate binds an account to an authority. There is at most
// one per `(Account, CAHash)`, and a certificate hash is bound once in the
// whole registry.
//
// models
//   - 'ca-cert-<Account>-<CAHash>': `AccountCertificate`
//   - 'ca-accounts-<CAHash>-<Account>': `Account`; accounts of an authority
//   - 'ca-byaccount-<Account>-<CAHash>': `CAHash`; authorities of an account
//   - 'ca-usedcert-<Cert>': `Account`
const (
	AccountCertificatePrefix string = "ca-cert-"
	AccountsByCAPrefix       string = "ca-accounts-"
	CAsByAccountPrefix       string = "ca-byaccount-"
	UsedCertificatePrefix    string = "ca-usedcert-"
)

type AccountCertificate struct {
	Account   string      `json:"account"`
	CAHash    common.Hash `json:"ca_hash"`
	CAIndex   uint64      `json:"ca_index"`
	Cert      common.Hash `json:"cert"`
	Signature []byte      `json:"signature"`
}

func GetAccountCertificateKey(account string, caHash common.Hash) string {
	return fmt.Sprintf("%s%s-%s", AccountCertificatePrefix, account, caHash)
}

func GetAccountsByCAKeyPrefix(caHash common.Hash) string {
	return fmt.Sprintf("%s%s-", AccountsByCAPrefix, caHash)
}

func GetAccountsByCAKey(caHash common.Hash, account string) string {
	return fmt.Sprintf("%s%s", GetAccountsByCAKeyPrefix(caHash), account)
}

func GetCAsByAccountKeyPrefix(account string) string {
	return fmt.Sprintf("%s%s-", CAsByAccountPrefix, account)
}

func GetCAsByAccountKey(account string, caHash common.Hash) string {
	return fmt.Sprintf("%s%s", GetCAsByAccountKeyPrefix(account), caHash)
}

func GetUsedCertificateKey(cert common.Hash) string {
	return fmt.Sprintf("%s%s", UsedCertificatePrefix, cert)
}

func GetAccountCertificate(st *storage.LevelDBBackend, account string, caHash common.Hash) (c *AccountCertificate, err error) {
	if err = st.Get(GetAccountCertificateKey(account, caHash), &c); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NotFound.Clone().SetData("account", account).SetData("ca_hash", caHash)
		}
		return
	}

	return
}

// IsEligible reports whether `account` is bound to the authority `caHash`.
// It is a storage membership test; the certificate itself is not
// validated.
func IsEligible(st *storage.LevelDBBackend, account string, caHash common.Hash) (bool, error) {
	return st.Has(GetAccountsByCAKey(caHash, account))
}

// GetAccountsByAuthority lists the bound accounts in address order,
// starting after the account `cursor`.
func GetAccountsByAuthority(st *storage.LevelDBBackend, caHash common.Hash, cursor string, limit uint64) (accounts []string, err error) {
	option := storage.NewWalkOption("", limit, false)
	if len(cursor) > 0 {
		option.Cursor = GetAccountsByCAKey(caHash, cursor)
	}

	err = st.Walk(GetAccountsByCAKeyPrefix(caHash), option, func(k, v []byte) (bool, error) {
		var account string
		if err := common.DecodeJSONValue(v, &account); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		accounts = append(accounts, account)
		return true, nil
	})

	return
}

func GetAuthoritiesByAccount(st *storage.LevelDBBackend, account string) (hashes []common.Hash, err error) {
	err = st.Walk(GetCAsByAccountKeyPrefix(account), nil, func(k, v []byte) (bool, error) {
		var h common.Hash
		if err := common.DecodeJSONValue(v, &h); err != nil {
			return false, errors.EncodingFailed.Wrap(err)
		}
		hashes = append(hashes, h)
		return true, nil
	})

	return
}
