package certificate

import (
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

type RegisterCAChecker struct {
	common.DefaultChecker

	Storage *storage.LevelDBBackend
	Caller  string
	CAHash  common.Hash
	Data    []byte

	count uint64
}

func CheckCAHashNotRegistered(c common.Checker) (err error) {
	checker := c.(*RegisterCAChecker)

	var exists bool
	if exists, err = ExistsAuthority(checker.Storage, checker.CAHash); err != nil {
		return
	} else if exists {
		return errors.AlreadyExists.Clone().SetData("ca_hash", checker.CAHash)
	}

	return
}

func CheckCACount(c common.Checker) (err error) {
	checker := c.(*RegisterCAChecker)

	if checker.count, err = GetAuthorityCount(checker.Storage); err != nil {
		return
	}
	if checker.count >= MaxAuthorityCount {
		return errors.Overflow.Clone().SetData("counter", AuthorityCountKey)
	}

	return
}

// RegisterCA registers a new authority under the next index. `st` is
// expected to be a transaction; nothing is written when a check fails.
func RegisterCA(st *storage.LevelDBBackend, caller string, caHash common.Hash, data []byte) (*Authority, error) {
	checker := &RegisterCAChecker{
		DefaultChecker: common.NewDefaultChecker(
			CheckCAHashNotRegistered,
			CheckCACount,
		),
		Storage: st,
		Caller:  caller,
		CAHash:  caHash,
		Data:    data,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	a := &Authority{
		Index:     checker.count + 1,
		Hash:      caHash,
		Data:      data,
		Registrar: caller,
	}

	if err := st.New(GetAuthorityIndexKey(a.Index), a); err != nil {
		return nil, err
	}
	if err := st.New(GetAuthorityHashKey(a.Hash), a.Index); err != nil {
		return nil, err
	}
	if err := st.Put(AuthorityCountKey, a.Index); err != nil {
		return nil, err
	}

	log.Debug("authority registered", "index", a.Index, "hash", a.Hash, "registrar", caller)

	return a, nil
}

type RegisterAccountChecker struct {
	common.DefaultChecker

	Storage   *storage.LevelDBBackend
	Caller    string
	CAHash    common.Hash
	Cert      common.Hash
	Signature []byte

	authority *Authority
}

func CheckAuthorityExists(c common.Checker) (err error) {
	checker := c.(*RegisterAccountChecker)

	checker.authority, err = GetAuthorityByHash(checker.Storage, checker.CAHash)

	return
}

// CheckNotBound checks the forward binding, the account's authority index
// and the certificate store independently; any of them means the account
// was already bound to the authority.
func CheckNotBound(c common.Checker) (err error) {
	checker := c.(*RegisterAccountChecker)

	keys := []string{
		GetAccountsByCAKey(checker.CAHash, checker.Caller),
		GetCAsByAccountKey(checker.Caller, checker.CAHash),
		GetAccountCertificateKey(checker.Caller, checker.CAHash),
	}

	var exists bool
	for _, key := range keys {
		if exists, err = checker.Storage.Has(key); err != nil {
			return
		} else if exists {
			return errors.AlreadyBound.Clone().
				SetData("account", checker.Caller).
				SetData("ca_hash", checker.CAHash)
		}
	}

	return
}

func CheckCertificateNotUsed(c common.Checker) (err error) {
	checker := c.(*RegisterAccountChecker)

	var exists bool
	if exists, err = checker.Storage.Has(GetUsedCertificateKey(checker.Cert)); err != nil {
		return
	} else if exists {
		return errors.CertificateReused.Clone().SetData("cert", checker.Cert)
	}

	return
}

// RegisterAccount binds `caller` to the authority `caHash` with the
// certificate `cert`. It returns the authority bound to.
func RegisterAccount(st *storage.LevelDBBackend, caller string, caHash, cert common.Hash, signature []byte) (*Authority, error) {
	checker := &RegisterAccountChecker{
		DefaultChecker: common.NewDefaultChecker(
			CheckAuthorityExists,
			CheckNotBound,
			CheckCertificateNotUsed,
		),
		Storage:   st,
		Caller:    caller,
		CAHash:    caHash,
		Cert:      cert,
		Signature: signature,
	}
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	ac := AccountCertificate{
		Account:   caller,
		CAHash:    caHash,
		CAIndex:   checker.authority.Index,
		Cert:      cert,
		Signature: signature,
	}

	err := st.News(
		storage.Item{Key: GetAccountsByCAKey(caHash, caller), Value: caller},
		storage.Item{Key: GetCAsByAccountKey(caller, caHash), Value: caHash},
		storage.Item{Key: GetAccountCertificateKey(caller, caHash), Value: ac},
		storage.Item{Key: GetUsedCertificateKey(cert), Value: caller},
	)
	if err != nil {
		return nil, err
	}

	log.Debug("account registered", "account", caller, "ca", checker.authority.Index, "cert", cert)

	return checker.authority, nil
}
