package governance

import (
	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/storage"
)

// NewTestEngine returns an engine over a memory storage with its own event
// bus; move the clock to change the height operations run at.
func NewTestEngine() (*Engine, *HeightClock) {
	st := storage.NewTestMemoryLevelDBBackend()
	clock := NewHeightClock(1)

	e := NewEngine(st, common.NewTestConfig(), clock, ledger.Locker{})
	e.SetObserver(observable.New())

	return e, clock
}
