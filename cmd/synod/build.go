package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"synod"
	"synod/internal/logging"
	"synod/pkg/adapters/heuristic"
	"synod/pkg/adapters/memory"
	"synod/pkg/adapters/redis"
	"synod/pkg/config"
	"synod/pkg/observability"
	"synod/pkg/persistence/middleware"
	"synod/pkg/ports"
)

// buildLogger constructs the CLI logger from the persistent flags.
func buildLogger(cmd *cobra.Command) *slog.Logger {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	format, _ := cmd.Flags().GetString("log-format")
	return logging.New(logging.FromVerbosity(verbosity), logging.Format(format))
}

// loadConfig reads the configuration file named by --config. A missing
// file is only an error when the flag was set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("config file %q: %w", path, err)
		}
	}
	return config.Load(path)
}

func buildCache(cfg config.Config) (ports.ReportCache, error) {
	var cache ports.ReportCache
	if cfg.Cache.Backend == "redis" {
		opts := []redis.Option{redis.WithTTL(cfg.Cache.Redis.TTL.Std())}
		if cfg.Cache.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Cache.Redis.Prefix))
		}
		cache = redis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, opts...)
	} else {
		cache = memory.New()
	}

	var mws []middleware.Middleware
	if len(cfg.Cache.RedactPatterns) > 0 {
		mws = append(mws, middleware.NewRedactionMiddleware(cfg.Cache.RedactPatterns))
	}
	key, err := cfg.Cache.DecodeEncryptionKey()
	if err != nil {
		return nil, err
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Chain(cache, mws...), nil
}

// buildPipeline wires the configured pipeline with the offline adapters
// and, when registerer is non-nil, Prometheus metrics hooks.
func buildPipeline(cfg config.Config, logger *slog.Logger, registerer prometheus.Registerer) (*synod.Pipeline, error) {
	traderParams, err := cfg.DecodeTraderParams()
	if err != nil {
		return nil, err
	}
	oracleParams, err := cfg.DecodeOracleParams()
	if err != nil {
		return nil, err
	}

	hooks := observability.LoggingHooks(logger)
	if registerer != nil {
		hooks = hooks.Merge(observability.NewMetrics(registerer).Hooks())
	}

	cache, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}

	return synod.New(
		heuristic.NewAnalyzer(),
		heuristic.NewTrader(heuristic.WithConfidence(traderParams.BaseConfidence, traderParams.RevisedConfidence)),
		heuristic.NewOracle(heuristic.WithConfidenceCeiling(oracleParams.ConfidenceCeiling)),
		synod.WithLogger(logger),
		synod.WithLifecycleHooks(hooks),
		synod.WithMaxAttempts(cfg.Pipeline.MaxAttempts),
		synod.WithStageTimeout(cfg.Pipeline.StageTimeout.Std()),
		synod.WithDebateRounds(cfg.Pipeline.DebateRounds),
		synod.WithReportCache(cache),
	)
}
