package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/archive"
	"github.com/arloliu/rrdplugin/internal/config"
	"github.com/arloliu/rrdplugin/snapshot"
)

func TestRun_PublishesUntilCancelled(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Plugin.Path = filepath.Join(dir, "host.rrd")
	cfg.Publish.Interval = config.Duration{Duration: 10 * time.Millisecond}
	cfg.Archive.Enabled = true
	cfg.Archive.Dir = filepath.Join(dir, "archive")
	cfg.Archive.Compression = "s2"
	cfg.Archive.Keep = 2
	cfg.Host = config.HostConfig{Memory: true, Uptime: true}
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, run(ctx, cfg, zap.NewNop()))

	snap, err := snapshot.ReadFile(cfg.Plugin.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"memory_total_kib", "memory_free_kib", "uptime"}, snap.Metadata.Names())

	entries, err := archive.List(cfg.Archive.Dir, cfg.Plugin.Name)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.LessOrEqual(t, len(entries), 2)
}
