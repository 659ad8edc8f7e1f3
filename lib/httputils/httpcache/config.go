package httpcache

import (
	"fmt"
	"strings"

	"boscoin.io/governance/lib/common"
)

// NewAdapter makes the adapter named by `config.HTTPCacheAdapter`. The
// redis adapter needs `HTTPCacheRedisAddrs`, like `shard1=:6379`.
func NewAdapter(config common.Config) (Adapter, error) {
	switch config.HTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName:
		return NewMemCacheAdapter(config.HTTPCachePoolSize)
	case common.HTTPCacheRedisAdapterName:
		addrs, err := ParseRedisAddrs(config.HTTPCacheRedisAddrs)
		if err != nil {
			return nil, err
		}
		return NewRedisCacheAdapter(&RedisRingOptions{Addrs: addrs}), nil
	default:
		return nil, fmt.Errorf("http cache adapter, %q not found", config.HTTPCacheAdapter)
	}
}

// ParseRedisAddrs reads `<name>=<address>` pairs; an address without a
// name is named by its position.
func ParseRedisAddrs(s []string) (map[string]string, error) {
	if len(s) < 1 {
		return nil, fmt.Errorf("redis address is missing")
	}

	addrs := map[string]string{}
	for i, a := range s {
		name := fmt.Sprintf("shard%d", i)
		addr := a
		if n := strings.Index(a, "="); n >= 0 {
			name, addr = a[:n], a[n+1:]
		}
		if len(name) < 1 || len(addr) < 1 {
			return nil, fmt.Errorf("invalid redis address, %q", a)
		}
		if _, found := addrs[name]; found {
			return nil, fmt.Errorf("duplicated redis shard name, %q", name)
		}
		addrs[name] = addr
	}

	return addrs, nil
}
