package governance

import (
	"sync"

	"boscoin.io/governance/lib/common"
)

// Clock gives the logical time operations are applied at. It must never go
// backwards.
type Clock interface {
	Now() common.Height
}

// HeightClock is a `Clock` moved forward by the block producer.
type HeightClock struct {
	sync.RWMutex
	height common.Height
}

func NewHeightClock(height common.Height) *HeightClock {
	return &HeightClock{height: height}
}

func (c *HeightClock) Now() common.Height {
	c.RLock()
	defer c.RUnlock()

	return c.height
}

// Set moves the clock to `height`; a lower height is ignored.
func (c *HeightClock) Set(height common.Height) {
	c.Lock()
	defer c.Unlock()

	if height > c.height {
		c.height = height
	}
}
