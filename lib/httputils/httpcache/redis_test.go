package httpcache

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRedisAdapter needs a redis server at `GOV_TEST_REDIS`, like `:6379`.
func TestRedisAdapter(t *testing.T) {
	addr := os.Getenv("GOV_TEST_REDIS")
	if len(addr) < 1 {
		t.Skip("GOV_TEST_REDIS is not set")
	}

	a := NewRedisCacheAdapter(&RedisRingOptions{
		Addrs: map[string]string{"server": addr},
	})

	resp := &Response{
		Value:      []byte("value 1"),
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
	a.Set("governance-test1", resp, time.Now().Add(time.Minute))

	cached, ok := a.Get("governance-test1")
	require.True(t, ok)
	require.Equal(t, resp.Value, cached.Value)
	require.Equal(t, resp.StatusCode, cached.StatusCode)
	require.Equal(t, resp.Header, cached.Header)

	a.Remove("governance-test1")
	_, ok = a.Get("governance-test1")
	require.False(t, ok)
}
