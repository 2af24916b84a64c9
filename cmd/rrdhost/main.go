// Command rrdhost publishes host metrics (CPU, memory, load, uptime, network)
// into a snapshot file at a fixed interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/archive"
	"github.com/arloliu/rrdplugin/internal/config"
	"github.com/arloliu/rrdplugin/internal/hostsource"
	"github.com/arloliu/rrdplugin/internal/logging"
	"github.com/arloliu/rrdplugin/plugin"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "rrdhost.yaml", "Path to configuration file")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("rrdhost %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting rrdhost",
		zap.String("version", version),
		zap.String("plugin", cfg.Plugin.Name),
		zap.String("path", cfg.Plugin.Path))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("rrdhost stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("rrdhost stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	opts := []plugin.Option{plugin.WithLogger(logger)}

	if cfg.Archive.Enabled {
		arch, err := archive.NewDirArchiver(cfg.Archive.Dir,
			archive.WithCompression(cfg.Compression()),
			archive.WithKeep(cfg.Archive.Keep),
			archive.WithLogger(logger))
		if err != nil {
			return err
		}
		opts = append(opts, plugin.WithArchiver(arch))
		logger.Info("Archiving snapshots",
			zap.String("dir", arch.Dir()),
			zap.Stringer("compression", cfg.Compression()))
	}

	p, err := plugin.Open(cfg.Plugin.Name, cfg.Domain(), cfg.Plugin.Path, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	for _, src := range hostsource.Sources(cfg.Host, logger) {
		if err := p.Register(src); err != nil {
			return err
		}
	}

	return publishLoop(ctx, p, cfg.Publish.Interval.Duration, logger)
}

// publishLoop publishes once immediately, then on every tick until ctx is done.
// Cancellation is checked between cycles only.
func publishLoop(ctx context.Context, p *plugin.Plugin, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Publishing",
		zap.Int("sources", p.Len()),
		zap.Duration("interval", interval))

	for {
		if err := p.Publish(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			stats := p.Stats()
			logger.Info("Shutting down",
				zap.Int64("publishes", stats.Publishes),
				zap.Int("snapshot_size", stats.BufferSize))

			return nil
		case <-ticker.C:
		}
	}
}
