package common

import (
	"time"
)

const (
	// DefaultMaxPayloadSize is the largest vote payload accepted, in bytes.
	DefaultMaxPayloadSize int = 256

	DefaultBlockTime   time.Duration = 5 * time.Second
	DefaultTxPoolLimit int           = 1000
	DefaultTxsInBlock  int           = 1000

	HTTPCacheMemoryAdapterName = "memory"
	HTTPCacheRedisAdapterName  = "redis"
	DefaultHTTPCachePoolSize   = 1024
)

//
// Config carries the consensus relevant parameters of the governance
// engine and the node settings around it.
//
type Config struct {
	NetworkID []byte

	MaxPayloadSize int

	// LockTallyUsesNaySet makes the lock-weighted tally sum the nay voters'
	// deposits for the nay weight. It is off by default: the deployed
	// behaviour sums the aye voters' deposits a second time, and results
	// must stay reproducible.
	LockTallyUsesNaySet bool

	// Those fields are not consensus-related
	BlockTime   time.Duration
	TxPoolLimit int
	TxsInBlock  int

	// HTTPCacheAdapter keeps the immutable api answers, concluded results
	// and blocks; `HTTPCacheRedisAddrs` are used by the redis adapter.
	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs []string
}

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.NetworkID = networkID
	p.MaxPayloadSize = DefaultMaxPayloadSize

	p.BlockTime = DefaultBlockTime
	p.TxPoolLimit = DefaultTxPoolLimit
	p.TxsInBlock = DefaultTxsInBlock

	p.HTTPCacheAdapter = HTTPCacheMemoryAdapterName
	p.HTTPCachePoolSize = DefaultHTTPCachePoolSize

	return p
}
