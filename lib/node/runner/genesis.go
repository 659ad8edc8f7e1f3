package runner

import (
	"io/ioutil"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/storage"
)

// Genesis is the initial ledger of a new network, like,
//
//  network_id: governance-main
//  accounts:
//    - address: GDTEPFWEITKFHSUO44NQABY2MHRBBH2XK4E7KTNFB6QT6KBDNT6EQT7N
//      balance: "1000000"
type Genesis struct {
	NetworkID string           `yaml:"network_id"`
	Accounts  []GenesisAccount `yaml:"accounts"`
}

type GenesisAccount struct {
	Address string        `yaml:"address"`
	Balance common.Amount `yaml:"balance"`
}

func LoadGenesis(path string) (*Genesis, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read genesis file, %q", path)
	}

	g, err := ParseGenesis(b)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse genesis file, %q", path)
	}

	return g, nil
}

func ParseGenesis(b []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.UnmarshalStrict(b, &g); err != nil {
		return nil, errors.InvalidGenesis.Wrap(err)
	}

	seen := map[string]bool{}
	for _, a := range g.Accounts {
		if !keypair.IsAddress(a.Address) {
			return nil, errors.InvalidGenesis.Clone().SetData("address", a.Address)
		}
		if seen[a.Address] {
			return nil, errors.InvalidGenesis.Clone().SetData("duplicated", a.Address)
		}
		seen[a.Address] = true
	}

	return &g, nil
}

// Check fails when the genesis was made for another network. A genesis
// without `network_id` fits any network.
func (g *Genesis) Check(networkID []byte) error {
	if len(g.NetworkID) > 0 && g.NetworkID != string(networkID) {
		return errors.InvalidGenesis.Clone().
			SetData("network_id", g.NetworkID).
			SetData("expected", string(networkID))
	}

	return nil
}

// InitGenesis stores the genesis accounts and the genesis block at once.
// Storage which already has a genesis block is left untouched and
// `InvalidGenesis` is returned.
func InitGenesis(st *storage.LevelDBBackend, g *Genesis) (b block.Block, err error) {
	if _, err = block.GetBlockByHeight(st, block.GenesisHeight); err == nil {
		err = errors.InvalidGenesis.Clone().SetData("error", "storage is already initialized")
		return
	} else if !errors.Is(err, errors.BlockNotFound) {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = st.OpenTransaction(); err != nil {
		return
	}

	for _, a := range g.Accounts {
		if err = ledger.NewAccount(a.Address, a.Balance).Save(ts); err != nil {
			ts.Discard()
			return
		}
	}

	if b, err = block.MakeGenesisBlock(ts, common.NowISO8601()); err != nil {
		ts.Discard()
		return
	}

	if err = ts.Commit(); err != nil {
		return
	}

	log.Info("genesis block created", "hash", b.Hash, "accounts", len(g.Accounts))

	return
}
