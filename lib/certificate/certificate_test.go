package certificate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/storage"
)

func TestRegisterCA(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	caller := keypair.Random().Address()

	a, err := RegisterCA(st, caller, MakeTestHash("H1"), []byte("first"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), a.Index)

	b, err := RegisterCA(st, caller, MakeTestHash("H2"), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(2), b.Index)

	_, err = RegisterCA(st, keypair.Random().Address(), MakeTestHash("H1"), nil)
	require.True(t, errors.Is(err, errors.AlreadyExists))

	count, err := GetAuthorityCount(st)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	fetched, err := GetAuthorityByHash(st, MakeTestHash("H1"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), fetched.Index)
	require.Equal(t, []byte("first"), fetched.Data)
	require.Equal(t, caller, fetched.Registrar)

	fetched, err = GetAuthorityByIndex(st, 2)
	require.NoError(t, err)
	require.Equal(t, MakeTestHash("H2"), fetched.Hash)

	_, err = GetAuthorityByIndex(st, 3)
	require.True(t, errors.Is(err, errors.NotFound))
	_, err = GetAuthorityByHash(st, MakeTestHash("H3"))
	require.True(t, errors.Is(err, errors.NotFound))

	authorities, err := GetAuthorities(st, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2, len(authorities))

	authorities, err = GetAuthorities(st, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 1, len(authorities))
	require.Equal(t, uint64(2), authorities[0].Index)
}

func TestRegisterCAOverflow(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	require.NoError(t, st.Put(AuthorityCountKey, MaxAuthorityCount))

	_, err := RegisterCA(st, keypair.Random().Address(), MakeTestHash("H1"), nil)
	require.True(t, errors.Is(err, errors.Overflow))

	exists, _ := ExistsAuthority(st, MakeTestHash("H1"))
	require.False(t, exists)
}

func TestRegisterAccount(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	account1 := keypair.Random().Address()
	account2 := keypair.Random().Address()

	_, err := RegisterAccount(st, account1, MakeTestHash("H1"), MakeTestHash("C1"), []byte("S1"))
	require.True(t, errors.Is(err, errors.NotFound))

	_, err = RegisterCA(st, account1, MakeTestHash("H1"), nil)
	require.NoError(t, err)

	a, err := RegisterAccount(st, account1, MakeTestHash("H1"), MakeTestHash("C1"), []byte("S1"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), a.Index)

	// same pair again
	_, err = RegisterAccount(st, account1, MakeTestHash("H1"), MakeTestHash("C9"), []byte("S1"))
	require.True(t, errors.Is(err, errors.AlreadyBound))

	// certificate is bound once system-wide
	_, err = RegisterAccount(st, account2, MakeTestHash("H1"), MakeTestHash("C1"), []byte("S2"))
	require.True(t, errors.Is(err, errors.CertificateReused))

	eligible, err := IsEligible(st, account1, MakeTestHash("H1"))
	require.NoError(t, err)
	require.True(t, eligible)

	eligible, err = IsEligible(st, account2, MakeTestHash("H1"))
	require.NoError(t, err)
	require.False(t, eligible)

	ac, err := GetAccountCertificate(st, account1, MakeTestHash("H1"))
	require.NoError(t, err)
	require.Equal(t, MakeTestHash("C1"), ac.Cert)
	require.Equal(t, uint64(1), ac.CAIndex)
	require.Equal(t, []byte("S1"), ac.Signature)

	_, err = GetAccountCertificate(st, account2, MakeTestHash("H1"))
	require.True(t, errors.Is(err, errors.NotFound))

	hashes, err := GetAuthoritiesByAccount(st, account1)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{MakeTestHash("H1")}, hashes)

	accounts, err := GetAccountsByAuthority(st, MakeTestHash("H1"), "", 0)
	require.NoError(t, err)
	require.Equal(t, []string{account1}, accounts)
}

func TestRegisterAccountEachIndexBlocks(t *testing.T) {
	cases := []func(account string) string{
		func(account string) string { return GetAccountsByCAKey(MakeTestHash("H1"), account) },
		func(account string) string { return GetCAsByAccountKey(account, MakeTestHash("H1")) },
		func(account string) string { return GetAccountCertificateKey(account, MakeTestHash("H1")) },
	}

	for _, key := range cases {
		st := storage.NewTestMemoryLevelDBBackend()

		account := keypair.Random().Address()
		_, err := RegisterCA(st, account, MakeTestHash("H1"), nil)
		require.NoError(t, err)

		require.NoError(t, st.New(key(account), account))

		_, err = RegisterAccount(st, account, MakeTestHash("H1"), MakeTestHash("C1"), nil)
		require.True(t, errors.Is(err, errors.AlreadyBound))

		exists, _ := st.Has(GetUsedCertificateKey(MakeTestHash("C1")))
		require.False(t, exists)

		st.Close()
	}
}
