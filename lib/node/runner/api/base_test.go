package api

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GianlucaGuarini/go-observable"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/governance"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/transaction"
)

type testAPI struct {
	ts       *httptest.Server
	engine   *governance.Engine
	clock    *governance.HeightClock
	pool     *transaction.Pool
	observer *observable.Observable
}

func prepareAPIServer(poolLimit int) *testAPI {
	engine, clock := governance.NewTestEngine()

	o := observable.New()
	engine.SetObserver(o)

	pool := transaction.NewPool(poolLimit)
	apiHandler := NewNetworkHandlerAPI(engine.Storage(), engine.Config(), pool, "/api")
	apiHandler.SetObserver(o)

	router := mux.NewRouter()
	apiHandler.Register(router)

	return &testAPI{
		ts:       httptest.NewServer(router),
		engine:   engine,
		clock:    clock,
		pool:     pool,
		observer: o,
	}
}

func (p *testAPI) Close() {
	p.ts.Close()
	p.engine.Storage().Close()
}

func (p *testAPI) fund(t *testing.T, address string, balance common.Amount) {
	require.NoError(t, ledger.NewAccount(address, balance).Save(p.engine.Storage()))
}

func (p *testAPI) get(t *testing.T, path string) (int, map[string]interface{}) {
	resp, err := http.Get(p.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	return readBody(t, resp)
}

func (p *testAPI) post(t *testing.T, path string, body []byte) (int, map[string]interface{}) {
	resp, err := http.Post(p.ts.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, map[string]interface{}) {
	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m), string(b))

	return resp.StatusCode, m
}

func records(m map[string]interface{}) []map[string]interface{} {
	var rs []map[string]interface{}
	for _, r := range m["_embedded"].(map[string]interface{})["records"].([]interface{}) {
		rs = append(rs, r.(map[string]interface{}))
	}
	return rs
}

func link(m map[string]interface{}, rel string) string {
	l, found := m["_links"].(map[string]interface{})[rel]
	if !found {
		return ""
	}
	return l.(map[string]interface{})["href"].(string)
}
