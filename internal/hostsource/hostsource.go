// Package hostsource provides data sources reading host metrics through gopsutil.
package hostsource

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/internal/config"
)

// DefaultTimeout bounds a single metric read.
const DefaultTimeout = 2 * time.Second

// ReadFunc reads the current value of a metric.
type ReadFunc func(ctx context.Context) (datasource.Value, error)

// Probe is a Sampler over a ReadFunc. A failed read is logged and the last good
// value is reported again.
type Probe struct {
	name    string
	read    ReadFunc
	last    datasource.Value
	timeout time.Duration
	logger  *zap.Logger
}

var _ datasource.Sampler = (*Probe)(nil)

// NewProbe creates a probe named name.
func NewProbe(name string, kind format.ValueKind, read ReadFunc, logger *zap.Logger) *Probe {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Probe{
		name:    name,
		read:    read,
		last:    datasource.FromBits(kind, 0),
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Sample implements datasource.Sampler.
func (p *Probe) Sample() datasource.Value {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	v, err := p.read(ctx)
	if err != nil {
		p.logger.Warn("Metric read failed, reporting last value",
			zap.String("source", p.name),
			zap.Error(err))

		return p.last
	}
	p.last = v

	return v
}

// Sources returns the host data sources enabled in cfg, in a fixed order.
func Sources(cfg config.HostConfig, logger *zap.Logger) []*datasource.Source {
	var sources []*datasource.Source

	add := func(src *datasource.Source) {
		sources = append(sources, src)
	}

	if cfg.CPU {
		src := datasource.New("cpu_avg", "Average physical CPU load", "(fraction)", format.KindFloat64,
			NewProbe("cpu_avg", format.KindFloat64, readCPU, logger))
		src.Min, src.Max = "0.0", "1.0"
		src.Default = true
		add(src)
	}

	if cfg.Memory {
		add(datasource.New("memory_total_kib", "Total amount of memory", "KiB", format.KindInt64,
			NewProbe("memory_total_kib", format.KindInt64, readMemTotal, logger)))

		free := datasource.New("memory_free_kib", "Available memory", "KiB", format.KindInt64,
			NewProbe("memory_free_kib", format.KindInt64, readMemFree, logger))
		free.Default = true
		add(free)
	}

	if cfg.Load {
		src := datasource.New("loadavg", "Domain0 load average", "", format.KindFloat64,
			NewProbe("loadavg", format.KindFloat64, readLoad, logger))
		src.Min = "0.0"
		src.Default = true
		add(src)
	}

	if cfg.Uptime {
		src := datasource.New("uptime", "Time since boot", "s", format.KindFloat64,
			NewProbe("uptime", format.KindFloat64, readUptime, logger))
		src.Min = "0.0"
		add(src)
	}

	if cfg.Network {
		rx := datasource.New("net_rx_bytes", "Bytes received on all interfaces", "B/s", format.KindInt64,
			NewProbe("net_rx_bytes", format.KindInt64, readNetRx, logger))
		rx.Scale = format.ScaleDerive
		rx.Min = "0.0"
		add(rx)

		tx := datasource.New("net_tx_bytes", "Bytes sent on all interfaces", "B/s", format.KindInt64,
			NewProbe("net_tx_bytes", format.KindInt64, readNetTx, logger))
		tx.Scale = format.ScaleDerive
		tx.Min = "0.0"
		add(tx)
	}

	return sources
}

func readCPU(ctx context.Context) (datasource.Value, error) {
	percent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return datasource.Value{}, err
	}
	if len(percent) == 0 {
		return datasource.Float64(0), nil
	}

	return datasource.Float64(percent[0] / 100), nil
}

func readMemTotal(ctx context.Context) (datasource.Value, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return datasource.Value{}, err
	}

	return datasource.Int64(int64(v.Total / 1024)), nil //nolint:gosec // KiB fits in int64
}

func readMemFree(ctx context.Context) (datasource.Value, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return datasource.Value{}, err
	}

	return datasource.Int64(int64(v.Available / 1024)), nil //nolint:gosec // KiB fits in int64
}

func readLoad(ctx context.Context) (datasource.Value, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return datasource.Value{}, err
	}

	return datasource.Float64(avg.Load1), nil
}

func readUptime(ctx context.Context) (datasource.Value, error) {
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return datasource.Value{}, err
	}

	return datasource.Float64(float64(uptime)), nil
}

func readNetCounters(ctx context.Context) (net.IOCountersStat, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil || len(counters) == 0 {
		return net.IOCountersStat{}, err
	}

	return counters[0], nil
}

func readNetRx(ctx context.Context) (datasource.Value, error) {
	c, err := readNetCounters(ctx)
	if err != nil {
		return datasource.Value{}, err
	}

	return datasource.Int64(int64(c.BytesRecv)), nil //nolint:gosec // counter wraps like the kernel's
}

func readNetTx(ctx context.Context) (datasource.Value, error) {
	c, err := readNetCounters(ctx)
	if err != nil {
		return datasource.Value{}, err
	}

	return datasource.Int64(int64(c.BytesSent)), nil //nolint:gosec // counter wraps like the kernel's
}
