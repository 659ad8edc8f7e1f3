package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"

	cmdcommon "boscoin.io/governance/cmd/govnode/common"
	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/governance"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/httputils/httpcache"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/metrics"
	"boscoin.io/governance/lib/node/runner"
	"boscoin.io/governance/lib/node/runner/api"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/vote"
)

const (
	defaultNetwork  string      = "http"
	defaultPort     int         = 12345
	defaultHost     string      = "0.0.0.0"
	defaultLogLevel logging.Lvl = logging.LvlInfo
)

var (
	flagNetworkID      string = common.GetENVValue("GOV_NETWORK_ID", "")
	flagLogLevel       string = common.GetENVValue("GOV_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = common.GetENVValue("GOV_LOG_OUTPUT", "")
	flagEndpointString string = common.GetENVValue(
		"GOV_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string = common.GetENVValue("GOV_STORAGE", "")
	flagTLSCertFile         string = common.GetENVValue("GOV_TLS_CERT", "")
	flagTLSKeyFile          string = common.GetENVValue("GOV_TLS_KEY", "")
	flagGenesis             string = common.GetENVValue("GOV_GENESIS", "")
	flagBlockTime           string = common.GetENVValue("GOV_BLOCK_TIME", common.DefaultBlockTime.String())
	flagTxPoolLimit         int    = common.DefaultTxPoolLimit
	flagMaxPayloadSize      int    = common.DefaultMaxPayloadSize
	flagLockTallyNaySet     bool   = common.GetENVValue("GOV_LOCK_TALLY_NAY_SET", "0") == "1"
	flagDebug               bool   = common.GetENVValue("GOV_DEBUG", "0") == "1"
	flagHTTPCacheAdapter    string = common.GetENVValue("GOV_HTTP_CACHE_ADAPTER", common.HTTPCacheMemoryAdapterName)
	flagHTTPCachePoolSize   int    = common.DefaultHTTPCachePoolSize
	flagHTTPCacheRedisAddrs []string
	flagRateLimit           string = common.GetENVValue("GOV_RATE_LIMIT", "")
	flagNTPServer           string = common.GetENVValue("GOV_NTP_SERVER", "")
	flagNTPTolerance        string = common.GetENVValue("GOV_NTP_TOLERANCE", "1s")
)

var (
	nodeCmd *cobra.Command

	nodeEndpoint  *url.URL
	storageConfig *storage.Config
	genesis       *runner.Genesis
	config        common.Config
	rateLimit     *limiter.Rate
	logLevel      logging.Lvl
	logHandler    logging.Handler
	log           logging.Logger = logging.New("module", "main")
)

func init() {
	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run governance node",
		Run: func(c *cobra.Command, args []string) {
			parseFlagsNode()

			if err := runNode(); err != nil {
				log.Crit("node stopped with error", "error", err)
				os.Exit(1)
			}
		},
	}

	currentDirectory, err := os.Getwd()
	if err != nil {
		currentDirectory = "."
	}
	if len(flagStorageConfigString) < 1 {
		flagStorageConfigString = fmt.Sprintf("file://%s/db", currentDirectory)
	}

	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri, {file:///<path>, memory://}")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file for https endpoint")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file for https endpoint")
	nodeCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "genesis yaml file; used when the storage is empty")
	nodeCmd.Flags().StringVar(&flagBlockTime, "block-time", flagBlockTime, "interval between blocks")
	nodeCmd.Flags().IntVar(&flagTxPoolLimit, "tx-pool-limit", flagTxPoolLimit, "maximum number of pooled transactions")
	nodeCmd.Flags().IntVar(&flagMaxPayloadSize, "max-payload-size", flagMaxPayloadSize, "maximum vote payload size in bytes")
	nodeCmd.Flags().BoolVar(&flagLockTallyNaySet, "lock-tally-nay-set", flagLockTallyNaySet, "sum the nay deposits for the nay weight of lock votes")
	nodeCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter, {memory, redis}")
	nodeCmd.Flags().IntVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "number of answers kept by the memory http cache")
	nodeCmd.Flags().StringSliceVar(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", nil, "redis addresses of the redis http cache, like 'shard1=:6379'")
	nodeCmd.Flags().StringVar(&flagRateLimit, "rate-limit", flagRateLimit, "requests allowed to each client, like '100-S' or '5000-H'; unlimited when empty")
	nodeCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server to check the local clock against at start; skipped when empty")
	nodeCmd.Flags().StringVar(&flagNTPTolerance, "ntp-tolerance", flagNTPTolerance, "allowed offset of the local clock")
	nodeCmd.Flags().BoolVar(&flagDebug, "debug", flagDebug, "serve the debug json-rpc and print stacks of panics")

	nodeCmd.MarkFlagRequired("network-id")

	rootCmd.AddCommand(nodeCmd)
}

// parseEndpoint puts the tls files into the query of `s`, where
// `runner.NewServerConfigFromEndpoint` reads them.
func parseEndpoint(s, certFile, keyFile string) (*url.URL, error) {
	endpoint, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if len(endpoint.Host) < 1 {
		return nil, fmt.Errorf("host is missing in %q", s)
	}

	query := endpoint.Query()
	if len(certFile) > 0 {
		query.Set("TLSCertFile", certFile)
	}
	if len(keyFile) > 0 {
		query.Set("TLSKeyFile", keyFile)
	}
	endpoint.RawQuery = query.Encode()

	return endpoint, nil
}

func parseFlagsNode() {
	var err error

	if len(flagNetworkID) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--network-id", fmt.Errorf("--network-id must be given"))
	}

	if nodeEndpoint, err = parseEndpoint(flagEndpointString, flagTLSCertFile, flagTLSKeyFile); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--endpoint", err)
	}
	if _, err = runner.NewServerConfigFromEndpoint(nodeEndpoint); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--endpoint", err)
	}

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}

	config = common.NewConfig([]byte(flagNetworkID))
	if config.BlockTime, err = time.ParseDuration(flagBlockTime); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--block-time", err)
	} else if config.BlockTime <= 0 {
		cmdcommon.PrintFlagsError(nodeCmd, "--block-time", fmt.Errorf("must be positive"))
	}
	if flagTxPoolLimit < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--tx-pool-limit", fmt.Errorf("must be positive"))
	}
	config.TxPoolLimit = flagTxPoolLimit
	config.MaxPayloadSize = flagMaxPayloadSize
	config.LockTallyUsesNaySet = flagLockTallyNaySet

	config.HTTPCacheAdapter = flagHTTPCacheAdapter
	config.HTTPCachePoolSize = flagHTTPCachePoolSize
	config.HTTPCacheRedisAddrs = flagHTTPCacheRedisAddrs
	if _, err = httpcache.NewAdapter(config); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-adapter", err)
	}

	if len(flagGenesis) > 0 {
		if genesis, err = runner.LoadGenesis(flagGenesis); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--genesis", err)
		}
		if err = genesis.Check(config.NetworkID); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--genesis", err)
		}
	}

	if len(flagRateLimit) > 0 {
		rate, err := httputils.ParseRateLimit(flagRateLimit)
		if err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--rate-limit", err)
		}
		rateLimit = &rate
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-level", err)
	}

	if len(flagLogOutput) > 0 {
		if err = os.MkdirAll(filepath.Dir(flagLogOutput), 0755); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--log-output", err)
		}
	}
	if logHandler, err = common.NewLogHandler(flagLogOutput); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-output", err)
	}
	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	}

	setLogging(logLevel, logHandler)

	if len(flagNTPServer) > 0 {
		tolerance, err := time.ParseDuration(flagNTPTolerance)
		if err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--ntp-tolerance", err)
		}
		offset, err := cmdcommon.CheckClockOffset(flagNTPServer, tolerance)
		if err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--ntp-server", err)
		}
		log.Debug("local clock checked", "server", flagNTPServer, "offset", offset)
	}

	log.Info("Starting governance node")

	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tendpoint", nodeEndpoint.String())
	parsedFlags = append(parsedFlags, "\n\tstorage", storageConfig.String())
	parsedFlags = append(parsedFlags, "\n\tgenesis", flagGenesis)
	parsedFlags = append(parsedFlags, "\n\tblock-time", config.BlockTime)
	parsedFlags = append(parsedFlags, "\n\ttx-pool-limit", config.TxPoolLimit)
	parsedFlags = append(parsedFlags, "\n\tmax-payload-size", config.MaxPayloadSize)
	parsedFlags = append(parsedFlags, "\n\tlock-tally-nay-set", config.LockTallyUsesNaySet)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-adapter", config.HTTPCacheAdapter)
	parsedFlags = append(parsedFlags, "\n\trate-limit", flagRateLimit)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\tdebug", flagDebug)

	log.Debug("parsed flags:", parsedFlags...)
}

func setLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))

	common.SetLogging(level, handler)
	certificate.SetLogging(level, handler)
	vote.SetLogging(level, handler)
	ledger.SetLogging(level, handler)
	block.SetLogging(level, handler)
	governance.SetLogging(level, handler)
	runner.SetLogging(level, handler)
	api.SetLogging(level, handler)
	httpcache.SetLogging(level, handler)
}

// prepareStorage initializes an empty storage with the genesis; a storage
// holding blocks is used as it is.
func prepareStorage(st *storage.LevelDBBackend, g *runner.Genesis) error {
	latest, err := block.GetLatestBlock(st)
	if err == nil {
		if g != nil {
			log.Debug("storage has blocks; genesis is ignored", "latest", latest.Height)
		}
		return nil
	} else if !errors.Is(err, errors.BlockNotFound) {
		return err
	}

	if g == nil {
		return errors.BlockNotFound.Clone().SetData("error", "empty storage needs --genesis")
	}

	b, err := runner.InitGenesis(st, g)
	if err != nil {
		return err
	}
	log.Info("genesis block created", "hash", b.Hash, "accounts", len(g.Accounts))

	return nil
}

func runNode() error {
	st := &storage.LevelDBBackend{}
	if err := st.Init(storageConfig); err != nil {
		return err
	}
	defer st.Close()

	if err := prepareStorage(st, genesis); err != nil {
		return err
	}

	metrics.InitPrometheusMetrics()

	nr, err := runner.NewNodeRunner(st, config)
	if err != nil {
		return err
	}

	serverConfig, err := runner.NewServerConfigFromEndpoint(nodeEndpoint)
	if err != nil {
		return err
	}
	if closer, ok := serverConfig.LogOutput.(io.Closer); ok && serverConfig.LogOutput != os.Stdout {
		defer closer.Close()
	}

	router := runner.NewRouter(nr, runner.RouterConfig{
		Debug:      flagDebug,
		PrintStack: flagDebug,
		RateLimit:  rateLimit,
	})
	server := runner.NewServer(serverConfig, router)

	var g run.Group
	{
		g.Add(func() error {
			return nr.Start()
		}, func(error) {
			nr.Stop()
		})
	}
	{
		g.Add(func() error {
			return server.Start()
		}, func(error) {
			server.Stop()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		log.Info("node stopped", "reason", err)
	}

	return nil
}
