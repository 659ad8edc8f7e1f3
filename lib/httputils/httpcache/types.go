// Package httpcache keeps the answers of immutable endpoints, in memory or
// in redis.
package httpcache

import (
	"net/http"
	"time"
)

type Adapter interface {
	Get(key string) (*Response, bool)
	Set(key string, response *Response, expiration time.Time)
	Remove(key string)
}

type Response struct {
	Value      []byte
	StatusCode int
	Header     http.Header
	// zero never expires
	Expiration time.Time
}

func (r *Response) IsExpired(now time.Time) bool {
	return !r.Expiration.IsZero() && !r.Expiration.After(now)
}
