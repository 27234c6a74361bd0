package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CatalogStore/internal/catalog"
	"CatalogStore/internal/config"
	"CatalogStore/internal/storage"
	"CatalogStore/pkg/kit"
)

func newServeCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(*cfgPath)
		},
	}
}

func newSelfTestCommand(cfgPath *string) *cobra.Command {
	var (
		file   string
		memory bool
	)

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Exercise add, get, update and delete against a store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSelfTest(cmd, *cfgPath, file, memory)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "backing file to exercise (default store.path)")
	cmd.Flags().BoolVar(&memory, "memory", false, "run against an in-memory store")
	return cmd
}

func runServe(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Debug("configuration loaded", zap.Stringer("config", cfg))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := catalog.Open(storage.NewJSONFile(cfg.Store.Path), catalog.Options{
		Log:     log.Named("store"),
		Metrics: catalog.NewMetrics(reg),
		Strict:  cfg.Store.Strict,
	})
	if err != nil {
		return err
	}

	var limiter *kit.IPRateLimiter
	if cfg.RateLimit.Requests > 0 {
		limiter = kit.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		RateLimiter:    limiter,
	})

	if err := kit.RunHTTPServer(kit.ServerConfig{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.Server.ReadHeader,
		ShutdownTimeout:   cfg.Server.Shutdown,
	}, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}

func runSelfTest(cmd *cobra.Command, cfgPath, file string, memory bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var backend catalog.Backend = catalog.NewMemBackend()
	if !memory {
		if file == "" {
			file = cfg.Store.Path
		}
		backend = storage.NewJSONFile(file)
	}

	store, err := catalog.Open(backend, catalog.Options{
		Log:    log.Named("store"),
		Strict: true,
	})
	if err != nil {
		return err
	}

	if err := catalog.SelfTest(cmd.Context(), store, log.Named("selftest")); err != nil {
		return fmt.Errorf("selftest: %w", err)
	}
	log.Info("selftest passed")
	return nil
}
