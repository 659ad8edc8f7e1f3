package httpcache

import (
	"time"

	redisCache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

type RedisCacheAdapter struct {
	store *redisCache.Codec
}

type RedisRingOptions redis.RingOptions

func NewRedisCacheAdapter(opt *RedisRingOptions) *RedisCacheAdapter {
	ropt := redis.RingOptions(*opt)
	return &RedisCacheAdapter{
		store: &redisCache.Codec{
			Redis: redis.NewRing(&ropt),
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
	}
}

func (a *RedisCacheAdapter) Get(key string) (*Response, bool) {
	var resp Response
	if err := a.store.Get(key, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set fails silently; a response missing in redis is made again.
func (a *RedisCacheAdapter) Set(key string, resp *Response, expiration time.Time) {
	var e time.Duration
	if !expiration.IsZero() {
		if e = time.Until(expiration); e <= 0 {
			return
		}
	}

	if err := a.store.Set(&redisCache.Item{
		Key:        key,
		Object:     resp,
		Expiration: e,
	}); err != nil {
		log.Debug("failed to set cache", "key", key, "error", err)
	}
}

func (a *RedisCacheAdapter) Remove(key string) {
	a.store.Delete(key)
}
