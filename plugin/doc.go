// Package plugin implements the reporter side of the DATASOURCES snapshot protocol.
//
// A Plugin owns a fixed table of data sources and one snapshot file. Each Publish
// samples every registered source and rewrites the whole file from offset zero:
//
//	offset 0   : magic              11 bytes "DATASOURCES"
//	offset 11  : value checksum     u32, CRC32 of timestamp and values
//	offset 15  : metadata checksum  u32, CRC32 of the metadata block
//	offset 19  : source count       u32
//	offset 23  : timestamp          float64 bits of fractional Unix seconds
//	offset 31  : values             count x u64 raw bits
//	           : metadata length    u32
//	           : metadata           pretty-printed JSON
//
// All integers are big-endian.
//
// # Lifecycle
//
// Register and Unregister drop the cached metadata and buffer. The next Publish
// rebuilds them from the current registry; later publishes only refresh the
// timestamp, the values and the value checksum. The file size therefore changes
// only when the set of sources changes.
//
// # Usage
//
//	p, err := plugin.Open("xcp-rrdd-example", format.DomainLocal, "/dev/shm/metrics/example")
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	src := datasource.New("requests", "Requests served", "count", format.KindInt64,
//	    datasource.SamplerFunc(func() datasource.Value { return datasource.Int64(served.Load()) }))
//	if err := p.Register(src); err != nil {
//	    return err
//	}
//
//	for range ticker.C {
//	    if err := p.Publish(); err != nil {
//	        return err
//	    }
//	}
//
// # Thread Safety
//
// A Plugin is NOT safe for concurrent use. One goroutine must drive Register,
// Unregister and Publish; readers of the file use the checksums to detect torn
// writes.
package plugin
