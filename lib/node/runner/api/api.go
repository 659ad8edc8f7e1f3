package api

import (
	"fmt"
	"net/http"

	"github.com/GianlucaGuarini/go-observable"
	"github.com/gorilla/mux"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/observer"
	"boscoin.io/governance/lib/httputils/httpcache"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/transaction"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetNodeInfoPattern                 = "/"
	PostTransactionPattern             = "/transactions"
	GetTransactionByHashHandlerPattern = "/transactions/{id}"
	GetVotesHandlerPattern             = "/votes"
	GetVoteHandlerPattern              = "/votes/{id}"
	GetVoteResultHandlerPattern        = "/votes/{id}/result"
	GetVoteBallotsHandlerPattern       = "/votes/{id}/ballots"
	GetVoteLocksHandlerPattern         = "/votes/{id}/locks"
	GetAccountHandlerPattern           = "/accounts/{id}"
	GetAccountVotesHandlerPattern      = "/accounts/{id}/votes"
	GetAccountTransactionsPattern      = "/accounts/{id}/transactions"
	GetAccountAuthoritiesPattern       = "/accounts/{id}/cas"
	GetAuthoritiesHandlerPattern       = "/cas"
	GetAuthorityHandlerPattern         = "/cas/{id}"
	GetAuthorityAccountsPattern        = "/cas/{id}/accounts"
	GetBlockHandlerPattern             = "/blocks/{id}"
	GetEventsPattern                   = "/events"
)

type NetworkHandlerAPI struct {
	storage   *storage.LevelDBBackend
	config    common.Config
	pool      *transaction.Pool
	observer  *observable.Observable
	cache     *httpcache.Client
	urlPrefix string
	version   string
}

// NewNetworkHandlerAPI panics when the http cache of `config` can not be
// made; check it with `httpcache.NewAdapter` first.
func NewNetworkHandlerAPI(st *storage.LevelDBBackend, config common.Config, pool *transaction.Pool, urlPrefix string) *NetworkHandlerAPI {
	adapter, err := httpcache.NewAdapter(config)
	if err != nil {
		panic(err)
	}
	cache, err := httpcache.NewClient(httpcache.WithAdapter(adapter), httpcache.WithLogger(log))
	if err != nil {
		panic(err)
	}

	return &NetworkHandlerAPI{
		storage:   st,
		config:    config,
		pool:      pool,
		observer:  observer.GovernanceObserver,
		cache:     cache,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
	}
}

// SetObserver replaces the bus the event stream listens to.
func (api *NetworkHandlerAPI) SetObserver(o *observable.Observable) {
	api.observer = o
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}

// Register adds every endpoint to `router`.
func (api *NetworkHandlerAPI) Register(router *mux.Router) {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
		method  string
	}{
		{GetNodeInfoPattern, api.GetNodeInfoHandler, "GET"},
		{PostTransactionPattern, api.PostTransactionsHandler, "POST"},
		{GetTransactionByHashHandlerPattern, api.GetTransactionByHashHandler, "GET"},
		{GetVotesHandlerPattern, api.GetVotesHandler, "GET"},
		{GetVoteHandlerPattern, api.GetVoteHandler, "GET"},
		{GetVoteResultHandlerPattern, api.cache.WrapHandlerFunc(api.GetVoteResultHandler), "GET"},
		{GetVoteBallotsHandlerPattern, api.GetVoteBallotsHandler, "GET"},
		{GetVoteLocksHandlerPattern, api.GetVoteLocksHandler, "GET"},
		{GetAccountHandlerPattern, api.GetAccountHandler, "GET"},
		{GetAccountVotesHandlerPattern, api.GetVotesByAccountHandler, "GET"},
		{GetAccountTransactionsPattern, api.GetTransactionsByAccountHandler, "GET"},
		{GetAccountAuthoritiesPattern, api.GetAuthoritiesByAccountHandler, "GET"},
		{GetAuthoritiesHandlerPattern, api.GetAuthoritiesHandler, "GET"},
		{GetAuthorityHandlerPattern, api.GetAuthorityHandler, "GET"},
		{GetAuthorityAccountsPattern, api.GetAuthorityAccountsHandler, "GET"},
		{GetBlockHandlerPattern, api.cache.WrapHandlerFunc(api.GetBlockHandler), "GET"},
		{GetEventsPattern, api.GetEventsHandler, "GET"},
	}

	for _, r := range routes {
		router.HandleFunc(api.HandlerURLPattern(r.pattern), r.handler).Methods(r.method, "OPTIONS")
	}
}
