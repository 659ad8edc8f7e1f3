package httpcache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	a, err := NewMemCacheAdapter(10)
	require.NoError(t, err)
	a.Set("http://foo?bar=1", &Response{
		Value:      []byte("value 1"),
		StatusCode: http.StatusOK,
	}, time.Time{})

	c, err := NewClient(WithAdapter(a))
	require.NoError(t, err)

	cnt := 0
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("missing") != "" {
			w.WriteHeader(http.StatusNotFound)
		}
		w.Write([]byte(fmt.Sprintf("new value:%v", cnt)))
	}))

	tests := []struct {
		name   string
		url    string
		method string
		body   string
		code   int
	}{
		{"return cached resp", "http://foo?bar=1", "GET", "value 1", 200},
		{"return nocached resp", "http://foo?bar=2", "GET", "new value:2", 200},
		{"return cached new resp", "http://foo?bar=2", "GET", "new value:2", 200},
		{"error is not cached", "http://foo?missing=1", "GET", "new value:4", 404},
		{"error is made again", "http://foo?missing=1", "GET", "new value:5", 404},
		{"post is not cached", "http://foo?bar=1", "POST", "new value:6", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cnt++

			r, err := http.NewRequest(tt.method, tt.url, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			require.Equal(t, tt.code, w.Code)
			require.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestMiddlewareExpiration(t *testing.T) {
	a, err := NewMemCacheAdapter(10)
	require.NoError(t, err)
	a.Set("http://foo", &Response{
		Value:      []byte("expired"),
		StatusCode: http.StatusOK,
		Expiration: time.Now().Add(-time.Second),
	}, time.Time{})

	c, err := NewClient(WithAdapter(a), WithExpire(time.Minute))
	require.NoError(t, err)

	handler := c.WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("fresh"))
	})

	r, err := http.NewRequest("GET", "http://foo", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, "fresh", w.Body.String())
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp, found := a.Get("http://foo")
	require.True(t, found)
	require.False(t, resp.IsExpired(time.Now()))
	require.True(t, resp.IsExpired(time.Now().Add(2*time.Minute)))
}

func TestCacheKeySortsQuery(t *testing.T) {
	r1, _ := http.NewRequest("GET", "http://foo?type=b&type=a&vote=1", nil)
	r2, _ := http.NewRequest("GET", "http://foo?vote=1&type=a&type=b", nil)

	require.Equal(t, cacheKey(r1.URL), cacheKey(r2.URL))
	require.Equal(t, "http://foo?type=a&type=b&vote=1", cacheKey(r1.URL))
	require.Equal(t, "http://foo?type=b&type=a&vote=1", r1.URL.String())
}

func TestNewClientWithoutAdapter(t *testing.T) {
	_, err := NewClient()
	require.Error(t, err)
}

func TestMiddlewareConcurrentMisses(t *testing.T) {
	a, err := NewMemCacheAdapter(10)
	require.NoError(t, err)

	c, err := NewClient(WithAdapter(a))
	require.NoError(t, err)

	var called int32
	release := make(chan struct{})
	handler := c.WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
		<-release
		w.Write([]byte("slow"))
	})

	var wg sync.WaitGroup
	bodies := make([]string, 5)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _ := http.NewRequest("GET", "http://foo/slow", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			bodies[i] = w.Body.String()
		}(i)
	}

	// let the requests reach the handler before releasing it
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, b := range bodies {
		require.Equal(t, "slow", b)
	}
	require.True(t, atomic.LoadInt32(&called) < int32(len(bodies)))
}
