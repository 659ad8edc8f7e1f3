package runner

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	rpcjson "github.com/gorilla/rpc/json"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/transaction"
	"boscoin.io/governance/lib/vote"
)

func TestNewServerConfigFromEndpoint(t *testing.T) {
	parse := func(s string) (ServerConfig, error) {
		u, err := url.Parse(s)
		require.NoError(t, err)
		return NewServerConfigFromEndpoint(u)
	}

	config, err := parse("http://localhost:12345?WriteTimeout=3s")
	require.NoError(t, err)
	require.Equal(t, "localhost:12345", config.Addr)
	require.Equal(t, 3*time.Second, config.WriteTimeout)
	require.Equal(t, DefaultIdleTimeout, config.IdleTimeout)
	require.Equal(t, "", config.TLSCertFile)

	config, err = parse("https://localhost:12345?TLSCertFile=a.crt&TLSKeyFile=a.key")
	require.NoError(t, err)
	require.Equal(t, "a.crt", config.TLSCertFile)
	require.Equal(t, "a.key", config.TLSKeyFile)

	_, err = parse("https://localhost:12345")
	require.Error(t, err)

	_, err = parse("http://localhost:12345?ReadTimeout=soon")
	require.Error(t, err)

	_, err = parse("http://localhost:12345?ReadTimeout=-1s")
	require.Error(t, err)

	_, err = parse("ftp://localhost:12345")
	require.Error(t, err)
}

func TestRouter(t *testing.T) {
	nr := prepareNodeRunner(t, GenesisAccount{Address: keypair.Random().Address(), Balance: common.Amount(100)})
	defer nr.Storage().Close()

	ts := httptest.NewServer(NewServer(ServerConfig{}, NewRouter(nr, RouterConfig{Debug: true})).server.Handler)
	defer ts.Close()

	getJSON := func(path string) (int, map[string]interface{}) {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()

		var m map[string]interface{}
		b, _ := ioutil.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(b, &m), string(b))
		return resp.StatusCode, m
	}

	tx := transaction.MakeSignedTransaction(keypair.Random(), nr.Config().NetworkID, operation.MakeTestCreateVote(vote.Plain, 5))
	body, err := json.Marshal(tx)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/v1/transactions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	_, m := getJSON("/api/v1/transactions/" + tx.GetHash())
	require.Equal(t, "submitted", m["status"])

	_, err = nr.ProduceBlock()
	require.NoError(t, err)

	_, m = getJSON("/api/v1/transactions/" + tx.GetHash())
	require.Equal(t, "applied", m["status"])
	require.Equal(t, float64(2), m["block"])

	status, m := getJSON("/api/v1/votes/1")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(7), m["ends_at"])

	_, m = getJSON("/api/v1/")
	require.Equal(t, float64(2), m["block_height"])

	resp, err = http.Get(ts.URL + UrlPathMetrics)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	{ // the debug storage service is routed
		args := EchoArgs("showme")
		message, err := rpcjson.EncodeClientRequest("DB.Echo", &args)
		require.NoError(t, err)

		resp, err := http.Post(ts.URL+UrlPathDebugDBRPC, "application/json", bytes.NewReader(message))
		require.NoError(t, err)
		defer resp.Body.Close()

		var result EchoResult
		require.NoError(t, rpcjson.DecodeClientResponse(resp.Body, &result))
		require.Equal(t, "showme", string(result))
	}
}

func TestRouterRateLimit(t *testing.T) {
	nr := prepareNodeRunner(t)
	defer nr.Storage().Close()

	rate, err := httputils.ParseRateLimit("2-H")
	require.NoError(t, err)

	ts := httptest.NewServer(NewRouter(nr, RouterConfig{RateLimit: &rate}))
	defer ts.Close()

	for _, expected := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		resp, err := http.Get(ts.URL + "/api/v1/")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, expected, resp.StatusCode)
	}
}
