// Package rrdplugin publishes metric data sources into a self-describing binary
// snapshot file that a polling daemon re-reads periodically.
//
// A plugin owns up to plugin.MaxSources data sources. Every publish samples each
// source and rewrites the file from offset zero with a fixed header, the raw
// value bits and a JSON metadata block describing the sources. Two CRC32
// checksums let the reader detect a snapshot torn by a concurrent rewrite.
//
// # Core Features
//
//   - Fixed big-endian wire layout with explicit offsets
//   - Lazy rebuild: metadata and buffer are re-encoded only after the set of
//     sources changes
//   - Int64 and float64 sources with gauge, absolute and derive scales
//   - Optional compressed archive of every published snapshot (Zstd, S2, LZ4)
//   - Decoder and checksum verifier for the reader side
//
// # Basic Usage
//
//	p, err := rrdplugin.Open("xcp-rrdd-example", "/dev/shm/metrics/example")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	var served atomic.Int64
//	src := rrdplugin.NewSource("requests", "Requests served", "count", format.KindInt64,
//	    func() datasource.Value { return datasource.Int64(served.Load()) })
//	if err := p.Register(src); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := p.Publish(); err != nil {
//	    log.Fatal(err)
//	}
//
// Reading a snapshot back:
//
//	snap, err := rrdplugin.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	samples, _ := snap.Samples()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the plugin, datasource
// and snapshot packages. For archive or logger configuration use the plugin package
// directly.
package rrdplugin

import (
	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/plugin"
	"github.com/arloliu/rrdplugin/snapshot"
)

// Open creates a local-domain plugin writing to path.
//
// Parameters:
//   - name: plugin name
//   - path: snapshot file path; the file is created or truncated
//   - opts: plugin options such as plugin.WithLogger or plugin.WithArchiver
//
// Returns:
//   - *plugin.Plugin: the plugin, with no sources registered
//   - error: errs.ErrInvalidArgument or errs.ErrFile
func Open(name, path string, opts ...plugin.Option) (*plugin.Plugin, error) {
	return plugin.Open(name, format.DomainLocal, path, opts...)
}

// OpenInterDomain creates a plugin whose sources may report for several entities.
func OpenInterDomain(name, path string, opts ...plugin.Option) (*plugin.Plugin, error) {
	return plugin.Open(name, format.DomainInterDomain, path, opts...)
}

// NewSource creates a host-owned gauge source sampled by calling sample.
//
// Example:
//
//	src := rrdplugin.NewSource("temperature", "Board temperature", "C", format.KindFloat64,
//	    func() datasource.Value { return datasource.Float64(readSensor()) })
func NewSource(name, description, units string, kind format.ValueKind, sample func() datasource.Value) *datasource.Source {
	var sampler datasource.Sampler
	if sample != nil {
		sampler = datasource.SamplerFunc(sample)
	}

	return datasource.New(name, description, units, kind, sampler)
}

// Decode parses a snapshot and verifies both of its checksums.
func Decode(data []byte) (*snapshot.Snapshot, error) {
	return snapshot.Parse(data)
}
