// Package datasource defines the data source record registered with a plugin and
// the sampling capability that produces its values.
//
// A Source is owned by the caller. Plugins keep a pointer to it and read its
// fields when rendering metadata, so a Source must not be modified while it is
// registered.
package datasource

import "github.com/arloliu/rrdplugin/format"

// Default bounds used when Min or Max is left empty.
const (
	DefaultMin = "-inf"
	DefaultMax = "inf"
)

// Source describes one named metric.
type Source struct {
	// Name identifies the source within a plugin. Names must be unique per plugin;
	// this is not checked.
	Name        string
	Description string
	Owner       format.Owner
	// OwnerUUID is the UUID of the owning VM or SR. It is ignored for host sources.
	OwnerUUID string
	Units     string
	Kind      format.ValueKind
	Scale     format.Scale
	// Min and Max are copied verbatim into the metadata so that values such as
	// "-inf" or "0.1" keep their exact text.
	Min     string
	Max     string
	Default bool
	Sampler Sampler
}

// New returns a host-owned gauge source with default bounds.
func New(name, description, units string, kind format.ValueKind, sampler Sampler) *Source {
	return &Source{
		Name:        name,
		Description: description,
		Owner:       format.OwnerHost,
		Units:       units,
		Kind:        kind,
		Scale:       format.ScaleGauge,
		Min:         DefaultMin,
		Max:         DefaultMax,
		Sampler:     sampler,
	}
}

// OwnerLabel renders the owner field of the metadata: "host", "vm <uuid>",
// "sr <uuid>", or the bare owner name when no UUID is set.
func (s *Source) OwnerLabel() string {
	if s.Owner == format.OwnerHost || s.OwnerUUID == "" {
		return s.Owner.String()
	}

	return s.Owner.String() + " " + s.OwnerUUID
}

// MinLabel returns Min, or DefaultMin when empty.
func (s *Source) MinLabel() string {
	if s.Min == "" {
		return DefaultMin
	}

	return s.Min
}

// MaxLabel returns Max, or DefaultMax when empty.
func (s *Source) MaxLabel() string {
	if s.Max == "" {
		return DefaultMax
	}

	return s.Max
}

// Sample reads the current value. A source without a sampler reports zero of its kind.
func (s *Source) Sample() Value {
	if s.Sampler == nil {
		if s.Kind == format.KindFloat64 {
			return Float64(0)
		}

		return Int64(0)
	}

	return s.Sampler.Sample()
}
