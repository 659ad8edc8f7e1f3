package runner

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter"
	"golang.org/x/net/http2"

	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/node/runner/api"
)

const (
	UrlPathPrefixAPI   = "/api"
	UrlPathMetrics     = "/metrics"
	UrlPathDebugDBRPC  = "/debug/jsonrpc"
	DefaultIdleTimeout = 5 * time.Second
)

type RouterConfig struct {
	// Debug adds the json-rpc storage service under `UrlPathDebugDBRPC`.
	Debug bool

	// PrintStack logs the stack of a recovered panic.
	PrintStack bool

	// RateLimit limits the requests of each client address; nil is
	// unlimited.
	RateLimit *limiter.Rate
}

// NewRouter routes the public api, the metrics and, in debug mode, the
// storage service of `nr`.
func NewRouter(nr *NodeRunner, config RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		httputils.RecoverMiddleware(nr.log, config.PrintStack),
		httputils.RequestIDMiddleware,
		httputils.MetricsMiddleware,
	)
	if config.RateLimit != nil {
		router.Use(httputils.RateLimitMiddleware(*config.RateLimit))
	}

	apiHandler := api.NewNetworkHandlerAPI(nr.storage, nr.config, nr.pool, UrlPathPrefixAPI)
	apiHandler.SetObserver(nr.observer)
	apiHandler.Register(router)

	router.Handle(UrlPathMetrics, promhttp.Handler()).Methods("GET")

	if config.Debug {
		router.Handle(UrlPathDebugDBRPC, NewJSONRPCServer(nr.storage, nr.engine)).Methods("POST", "OPTIONS")
	}

	return router
}

type ServerConfig struct {
	Addr string

	ReadTimeout,
	ReadHeaderTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	TLSCertFile,
	TLSKeyFile string

	LogOutput io.Writer
}

// NewServerConfigFromEndpoint reads the server settings from the query of
// the bind endpoint, like
// `https://0.0.0.0:12345?TLSCertFile=a.crt&TLSKeyFile=a.key&WriteTimeout=0s`.
// Without `TLSCertFile` an `https` endpoint is an error; `http` serves
// plain text.
func NewServerConfigFromEndpoint(endpoint *url.URL) (config ServerConfig, err error) {
	query := endpoint.Query()

	durations := []struct {
		name  string
		value *time.Duration
		dflt  string
	}{
		{"ReadTimeout", &config.ReadTimeout, "0s"},
		{"ReadHeaderTimeout", &config.ReadHeaderTimeout, "0s"},
		{"WriteTimeout", &config.WriteTimeout, "0s"},
		{"IdleTimeout", &config.IdleTimeout, DefaultIdleTimeout.String()},
	}
	for _, d := range durations {
		s := query.Get(d.name)
		if len(s) < 1 {
			s = d.dflt
		}
		if *d.value, err = time.ParseDuration(s); err != nil {
			err = pkgerrors.Wrapf(err, "invalid '%s'", d.name)
			return
		}
		if *d.value < 0 {
			err = pkgerrors.Errorf("invalid '%s'; negative duration", d.name)
			return
		}
	}

	switch strings.ToLower(endpoint.Scheme) {
	case "http":
	case "https":
		config.TLSCertFile = query.Get("TLSCertFile")
		config.TLSKeyFile = query.Get("TLSKeyFile")
		if len(config.TLSCertFile) < 1 || len(config.TLSKeyFile) < 1 {
			err = pkgerrors.New("'TLSCertFile' and 'TLSKeyFile' must be given")
			return
		}
	default:
		err = pkgerrors.Errorf("unsupported scheme, %q", endpoint.Scheme)
		return
	}

	config.LogOutput = os.Stdout
	if v := query.Get("HTTPLogOutput"); len(v) > 0 {
		if config.LogOutput, err = os.OpenFile(v, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
			return
		}
	}

	config.Addr = endpoint.Host

	return
}

// Server serves the node over HTTP/2, or plain HTTP/1.1 when no TLS
// certificate is set.
type Server struct {
	server *http.Server
	config ServerConfig
}

func NewServer(config ServerConfig, handler http.Handler) *Server {
	allowedOrigins := ghandlers.AllowedOrigins([]string{"*"})
	allowedMethods := ghandlers.AllowedMethods([]string{"GET", "POST"})
	allowedHeaders := ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"})
	handler = ghandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders)(handler)

	if config.LogOutput != nil {
		handler = ghandlers.CombinedLoggingHandler(config.LogOutput, handler)
	}

	server := &http.Server{
		Addr:              config.Addr,
		Handler:           handler,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
	}
	server.SetKeepAlivesEnabled(true)

	if len(config.TLSCertFile) > 0 {
		http2.ConfigureServer(server, &http2.Server{IdleTimeout: config.IdleTimeout})
	}

	return &Server{server: server, config: config}
}

func (s *Server) Endpoint() string {
	scheme := "http"
	if len(s.config.TLSCertFile) > 0 {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, s.config.Addr)
}

// Start blocks until the server is stopped; stopping is not an error.
func (s *Server) Start() (err error) {
	log.Info("server started", "endpoint", s.Endpoint())

	if len(s.config.TLSCertFile) > 0 {
		err = s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		err = s.server.ListenAndServe()
	}

	if err == http.ErrServerClosed {
		return nil
	}

	return err
}

func (s *Server) Stop() {
	s.server.Close()
}
