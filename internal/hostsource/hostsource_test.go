package hostsource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/internal/config"
)

func TestProbe_LastValueOnError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	readings := []struct {
		v   datasource.Value
		err error
	}{
		{datasource.Int64(7), nil},
		{datasource.Value{}, errors.New("sensor unavailable")},
		{datasource.Int64(9), nil},
	}
	i := 0
	probe := NewProbe("test", format.KindInt64, func(ctx context.Context) (datasource.Value, error) {
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline)

		r := readings[i]
		i++

		return r.v, r.err
	}, zap.New(core))

	assert.Equal(t, int64(7), probe.Sample().AsInt64())
	assert.Equal(t, int64(7), probe.Sample().AsInt64())
	assert.Equal(t, int64(9), probe.Sample().AsInt64())
	assert.Equal(t, 1, logs.FilterMessage("Metric read failed, reporting last value").Len())
}

func TestProbe_InitialValueMatchesKind(t *testing.T) {
	probe := NewProbe("f", format.KindFloat64, func(context.Context) (datasource.Value, error) {
		return datasource.Value{}, errors.New("boom")
	}, nil)

	v := probe.Sample()
	assert.Equal(t, format.KindFloat64, v.Kind())
	assert.Zero(t, v.AsFloat64())
}

func TestSources(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		sources := Sources(config.HostConfig{CPU: true, Memory: true, Load: true, Uptime: true, Network: true}, nil)

		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = s.Name
		}
		assert.Equal(t, []string{
			"cpu_avg", "memory_total_kib", "memory_free_kib", "loadavg", "uptime", "net_rx_bytes", "net_tx_bytes",
		}, names)

		assert.Equal(t, format.ScaleDerive, sources[5].Scale)
		assert.Equal(t, "1.0", sources[0].Max)
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, Sources(config.HostConfig{}, zap.NewNop()))
	})
}

func TestSources_Sample(t *testing.T) {
	sources := Sources(config.HostConfig{Memory: true}, nil)
	require.Len(t, sources, 2)

	total := sources[0].Sample()
	assert.Equal(t, format.KindInt64, total.Kind())
	assert.GreaterOrEqual(t, total.AsInt64(), int64(0))
}
