package httpcache

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"time"

	logging "github.com/inconshreveable/log15"
	"golang.org/x/sync/singleflight"
)

// Client answers GET requests from the adapter and stores the fresh
// answers. Only the status codes below 400, and the ones given by
// `WithStatusCode`, are stored. Concurrent misses of the same key run the
// handler once.
type Client struct {
	group singleflight.Group


	adapter     Adapter
	ttl         time.Duration
	methods     map[string]bool
	statusCodes map[int]time.Duration
	logger      logging.Logger
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		methods:     map[string]bool{"GET": true},
		statusCodes: map[int]time.Duration{},
		logger:      log,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.adapter == nil {
		return nil, errors.New("cache client adapter is nil")
	}

	return c, nil
}

func WithAdapter(a Adapter) ClientOption {
	return func(c *Client) error {
		c.adapter = a
		return nil
	}
}

func WithExpire(ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.ttl = ttl
		return nil
	}
}

func WithStatusCode(code int, ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.statusCodes[code] = ttl
		return nil
	}
}

func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok := c.handleCache(next, w, r); !ok {
			next.ServeHTTP(w, r)
		}
	})
}

func (c *Client) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	next := http.HandlerFunc(handlerFunc)
	return func(w http.ResponseWriter, r *http.Request) {
		if ok := c.handleCache(next, w, r); !ok {
			next.ServeHTTP(w, r)
		}
	}
}

func (c *Client) handleCache(next http.Handler, w http.ResponseWriter, r *http.Request) bool {
	if ok := c.methods[r.Method]; !ok {
		return false
	}

	key := cacheKey(r.URL)
	if resp, ok := c.adapter.Get(key); ok {
		if !resp.IsExpired(time.Now()) {
			writeResponse(w, resp)
			c.logger.Debug("return cache", "url", key)
			return true
		}
		c.adapter.Remove(key)
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		rec := httptest.NewRecorder()
		next.ServeHTTP(rec, r)

		result := rec.Result()
		resp := &Response{
			Value:      rec.Body.Bytes(),
			StatusCode: result.StatusCode,
			Header:     result.Header,
		}

		if expiration, caching := c.cachingExpiration(resp.StatusCode); caching {
			resp.Expiration = expiration
			c.adapter.Set(key, resp, expiration)
			c.logger.Debug("page cached", "url", key, "code", resp.StatusCode, "expiration", expiration)
		}

		return resp, nil
	})

	writeResponse(w, v.(*Response))

	return true
}

func (c *Client) cachingExpiration(code int) (time.Time, bool) {
	if ttl, ok := c.statusCodes[code]; ok {
		return expiration(ttl), true
	} else if code < 400 {
		return expiration(c.ttl), true
	}
	return time.Time{}, false
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Value)
}

func expiration(ttl time.Duration) time.Time {
	if ttl == 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// cacheKey sorts the query values, so the same query in another order hits
// the same entry.
func cacheKey(u *url.URL) string {
	params := u.Query()
	for _, p := range params {
		sort.Strings(p)
	}

	k := *u
	k.RawQuery = params.Encode()

	return k.String()
}
