package common

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func flakyServer(failures int32) (*httptest.Server, *int32) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	return ts, &calls
}

func TestHTTP2ClientRetry(t *testing.T) {
	ts, calls := flakyServer(2)
	defer ts.Close()

	config := DefaultHTTP2ClientConfig
	config.Retry = &RetrySetting{
		MaxRetries:  3,
		Concurrency: 1,
		Backoff:     func(int) time.Duration { return 0 },
	}
	c, err := NewHTTP2Client(config)
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Get(ts.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestHTTP2ClientDoOnce(t *testing.T) {
	ts, calls := flakyServer(1)
	defer ts.Close()

	c, err := NewHTTP2Client(DefaultHTTP2ClientConfig)
	require.NoError(t, err)
	defer c.Close()

	req, err := http.NewRequest("GET", ts.URL, nil)
	require.NoError(t, err)
	resp, err := c.DoOnce(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(calls))
}
