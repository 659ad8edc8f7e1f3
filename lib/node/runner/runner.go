//
// NodeRunner bridges together the storage, the transaction pool and the
// governance engine. Every `BlockTime` it applies the pooled transactions
// in a new block; the block height is the logical clock of the engine.
//
package runner

import (
	"sync"
	"time"

	"github.com/GianlucaGuarini/go-observable"
	logging "github.com/inconshreveable/log15"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/observer"
	"boscoin.io/governance/lib/governance"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/metrics"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/transaction"
)

type NodeRunner struct {
	sync.Mutex

	storage  *storage.LevelDBBackend
	config   common.Config
	clock    *governance.HeightClock
	engine   *governance.Engine
	pool     *transaction.Pool
	observer *observable.Observable

	stop     chan struct{}
	stopOnce sync.Once

	log logging.Logger
}

// NewNodeRunner needs the genesis block in `st`; see `InitGenesis`.
func NewNodeRunner(st *storage.LevelDBBackend, config common.Config) (*NodeRunner, error) {
	latest, err := block.GetLatestBlock(st)
	if err != nil {
		return nil, err
	}

	clock := governance.NewHeightClock(common.Height(latest.Height))

	nr := &NodeRunner{
		storage:  st,
		config:   config,
		clock:    clock,
		engine:   governance.NewEngine(st, config, clock, ledger.Locker{}),
		pool:     transaction.NewPool(config.TxPoolLimit),
		observer: observer.GovernanceObserver,
		stop:     make(chan struct{}),
		log:      log.New(logging.Ctx{"network_id": string(config.NetworkID)}),
	}

	metrics.Block.SetHeight(latest.Height)
	metrics.Block.SetTotalTxs(latest.TotalTxs)

	return nr, nil
}

// SetObserver replaces the bus the engine triggers events on and the
// event stream listens to.
func (nr *NodeRunner) SetObserver(o *observable.Observable) {
	nr.observer = o
	nr.engine.SetObserver(o)
}

func (nr *NodeRunner) Storage() *storage.LevelDBBackend {
	return nr.storage
}

func (nr *NodeRunner) Config() common.Config {
	return nr.config
}

func (nr *NodeRunner) Engine() *governance.Engine {
	return nr.engine
}

func (nr *NodeRunner) TransactionPool() *transaction.Pool {
	return nr.pool
}

func (nr *NodeRunner) Log() logging.Logger {
	return nr.log
}

// Start produces a block every `BlockTime` until `Stop` is called.
func (nr *NodeRunner) Start() error {
	nr.log.Debug("NodeRunner started", "block-time", nr.config.BlockTime)

	blockTime := nr.config.BlockTime
	if blockTime <= 0 {
		blockTime = common.DefaultBlockTime
	}

	ticker := time.NewTicker(blockTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := nr.ProduceBlock(); err != nil {
				nr.log.Error("failed to produce block", "error", err)
			}
		case <-nr.stop:
			nr.log.Debug("NodeRunner stopped")
			return nil
		}
	}
}

func (nr *NodeRunner) Stop() {
	nr.stopOnce.Do(func() {
		close(nr.stop)
	})
}

// ProduceBlock applies the oldest pooled transactions at the next height
// and stores the block. Every applied transaction gets a receipt, a failed
// one too; transactions which already have a receipt are dropped from the
// pool without being applied again.
func (nr *NodeRunner) ProduceBlock() (b block.Block, err error) {
	nr.Lock()
	defer nr.Unlock()

	var latest block.Block
	if latest, err = block.GetLatestBlock(nr.storage); err != nil {
		return
	}

	height := latest.Height + 1
	nr.clock.Set(common.Height(height))

	txs := nr.pool.AvailableTransactions(nr.config.TxsInBlock)

	var hashes, done []string
	for _, tx := range txs {
		done = append(done, tx.GetHash())

		var found bool
		if found, err = block.ExistsReceipt(nr.storage, tx.GetHash()); err != nil {
			return
		} else if found {
			nr.log.Debug("transaction already applied", "hash", tx.GetHash())
			continue
		}

		result, applyErr := nr.engine.Apply(tx.Source(), tx.B.Operation)
		if applyErr != nil {
			nr.log.Debug("transaction failed", "hash", tx.GetHash(), "error", applyErr)
		}

		receipt := block.NewReceipt(tx, height, uint64(len(hashes)), result, applyErr)
		if err = receipt.Save(nr.storage); err != nil {
			return
		}
		hashes = append(hashes, tx.GetHash())
	}

	b = block.NewBlock(latest, hashes, common.NowISO8601())
	if err = b.Save(nr.storage); err != nil {
		return
	}

	nr.pool.Remove(done...)

	metrics.Block.SetHeight(b.Height)
	metrics.Block.SetTotalTxs(b.TotalTxs)

	nr.log.Debug("block produced", "height", b.Height, "hash", b.Hash, "txs", len(hashes))

	return
}
