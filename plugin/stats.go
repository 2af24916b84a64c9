package plugin

import "time"

// Stats holds publish counters of a plugin.
type Stats struct {
	Publishes   int64
	Rebuilds    int64
	LastPublish time.Time
	// BufferSize is the size of the last written snapshot.
	BufferSize int
	// LayoutID is the xxHash64 of the metadata block of the current layout.
	LayoutID uint64
}

// Stats returns a copy of the plugin counters.
func (p *Plugin) Stats() Stats {
	return p.stats
}
