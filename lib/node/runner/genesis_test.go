package runner

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/storage"
)

func TestParseGenesis(t *testing.T) {
	address := keypair.Random().Address()

	g, err := ParseGenesis([]byte(`
network_id: governance-unittest
accounts:
  - address: ` + address + `
    balance: "1000"
`))
	require.NoError(t, err)
	require.Equal(t, 1, len(g.Accounts))
	require.Equal(t, common.Amount(1000), g.Accounts[0].Balance)
	require.NoError(t, g.Check([]byte("governance-unittest")))
	require.True(t, errors.Is(g.Check([]byte("another")), errors.InvalidGenesis))

	{ // unknown field
		_, err := ParseGenesis([]byte("unknown: 1\n"))
		require.True(t, errors.Is(err, errors.InvalidGenesis))
	}

	{ // not an address
		_, err := ParseGenesis([]byte("accounts:\n  - address: showme\n    balance: \"1\"\n"))
		require.True(t, errors.Is(err, errors.InvalidGenesis))
	}

	{ // duplicated
		b := []byte(`
accounts:
  - address: ` + address + `
    balance: "1"
  - address: ` + address + `
    balance: "2"
`)
		_, err := ParseGenesis(b)
		require.True(t, errors.Is(err, errors.InvalidGenesis))
	}
}

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "governance-genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte("accounts: []\n"), 0644))

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	require.Equal(t, 0, len(g.Accounts))

	_, err = LoadGenesis(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
}

func TestInitGenesis(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	address := keypair.Random().Address()
	g := &Genesis{Accounts: []GenesisAccount{{Address: address, Balance: common.Amount(500)}}}

	b, err := InitGenesis(st, g)
	require.NoError(t, err)
	require.Equal(t, block.GenesisHeight, b.Height)

	account, err := ledger.GetAccount(st, address)
	require.NoError(t, err)
	require.Equal(t, common.Amount(500), account.Balance)

	_, err = InitGenesis(st, g)
	require.True(t, errors.Is(err, errors.InvalidGenesis))
}
