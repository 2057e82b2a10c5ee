package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/bundlerec/appconfig"
	"github.com/rushteam/bundlerec/config"
	_ "github.com/rushteam/bundlerec/config/builders"
	"github.com/rushteam/bundlerec/logging"
	"github.com/rushteam/bundlerec/registry"
	"github.com/rushteam/bundlerec/service"
	"github.com/rushteam/bundlerec/store"
)

var (
	cfgFile      string
	envFile      string
	registryPath string
)

var rootCmd = &cobra.Command{
	Use:           "bundlerec",
	Short:         "Hotel service-bundle ranking and upsale recommendations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading BUNDLEREC_* variables")
	rootCmd.PersistentFlags().StringVarP(&registryPath, "registry", "r", "", "registry file, overrides registry.path")
}

// app 是各子命令共享的运行时依赖。
type app struct {
	cfg     *appconfig.Config
	logger  zerolog.Logger
	metrics *prometheus.Registry
	rec     *service.Recommender
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close")
		}
	}
}

func loadConfig() (*appconfig.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if registryPath != "" {
		if err := os.Setenv(appconfig.EnvPrefix+"REGISTRY__PATH", registryPath); err != nil {
			return nil, err
		}
	}
	return appconfig.Load(cfgFile)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.New(cfg.Log.Level, cfg.Log.Pretty),
		metrics: prometheus.NewRegistry(),
	}
	a.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.logger.Info().Int("entries", reg.Len()).Int("hotels", len(reg.Hotels())).Msg("registry loaded")

	opts := []service.Option{
		service.WithLogger(a.logger),
		service.WithMetrics(service.NewMetrics(a.metrics)),
	}
	if cfg.Pipeline.Path != "" {
		p, err := config.LoadPipeline(cfg.Pipeline.Path)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load pipeline %s: %w", cfg.Pipeline.Path, err)
		}
		a.logger.Info().Str("path", cfg.Pipeline.Path).Int("nodes", len(p.Nodes)).Msg("post pipeline loaded")
		opts = append(opts, service.WithPostPipeline(p))
	}
	a.rec = service.NewRecommender(reg, opts...)
	return a, nil
}

func (a *app) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	if !a.cfg.FromRedis() {
		reg, err := registry.LoadFile(a.cfg.Registry.Path)
		if err != nil {
			return nil, fmt.Errorf("load registry %s: %w", a.cfg.Registry.Path, err)
		}
		return reg, nil
	}

	src, err := a.storeSource(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry from redis %s: %w", a.cfg.Registry.Redis.Addr, err)
	}
	return reg, nil
}

func (a *app) storeSource(ctx context.Context) (*registry.StoreSource, error) {
	st, err := store.NewRedisStore(ctx, a.cfg.Registry.Redis.Addr, a.cfg.Registry.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.Close)
	return &registry.StoreSource{
		Store:   st,
		Key:     a.cfg.Registry.StoreKey,
		BaseDir: a.cfg.Registry.BaseDir,
	}, nil
}
