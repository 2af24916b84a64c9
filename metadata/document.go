package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/errs"
)

// Size limit constants.
const (
	BaseBytes      = 1024     // allowance for the document envelope
	BytesPerSource = 4 * 1024 // allowance per registered source
	indent         = "    "
	rootKey        = "datasources"
)

// MaxBytes returns the largest accepted rendered size for n sources.
func MaxBytes(n int) int {
	return BaseBytes + n*BytesPerSource
}

// Descriptor holds the metadata of one data source. Field order is the key order
// of the rendered JSON object.
type Descriptor struct {
	Description string `json:"description"`
	Owner       string `json:"owner"`
	ValueType   string `json:"value_type"`
	Type        string `json:"type"`
	Default     bool   `json:"default"`
	Units       string `json:"units"`
	Min         string `json:"min"`
	Max         string `json:"max"`
}

// Entry is a named descriptor.
type Entry struct {
	Name       string
	Descriptor Descriptor
}

// Document is an ordered list of data source descriptors.
type Document struct {
	Entries  []Entry
	rendered []byte
}

// DescriptorFor returns the descriptor of src.
func DescriptorFor(src *datasource.Source) Descriptor {
	return Descriptor{
		Description: src.Description,
		Owner:       src.OwnerLabel(),
		ValueType:   src.Kind.String(),
		Type:        src.Scale.String(),
		Default:     src.Default,
		Units:       src.Units,
		Min:         src.MinLabel(),
		Max:         src.MaxLabel(),
	}
}

// Build creates a document from sources in the given order, skipping nil entries.
//
// Parameters:
//   - sources: slot table or source list; nil entries are empty slots
//
// Returns:
//   - *Document: the document, not yet rendered
func Build(sources []*datasource.Source) *Document {
	doc := &Document{Entries: make([]Entry, 0, len(sources))}
	for _, src := range sources {
		if src == nil {
			continue
		}
		doc.Entries = append(doc.Entries, Entry{Name: src.Name, Descriptor: DescriptorFor(src)})
	}

	return doc
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.Entries)
}

// Render serializes the document into its indented form. The result is cached;
// callers must not modify the returned slice.
func (d *Document) Render() ([]byte, error) {
	if d.rendered != nil {
		return d.rendered, nil
	}

	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(compact) * 2)
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}
	d.rendered = out.Bytes()

	return d.rendered, nil
}

// Size returns the byte length of the rendered document.
func (d *Document) Size() (int, error) {
	b, err := d.Render()
	if err != nil {
		return 0, err
	}

	return len(b), nil
}

// CheckSize renders the document and verifies it fits within MaxBytes(d.Len()).
func (d *Document) CheckSize() (int, error) {
	size, err := d.Size()
	if err != nil {
		return 0, err
	}

	if limit := MaxBytes(d.Len()); size > limit {
		return size, fmt.Errorf("%w: %d bytes for %d sources, limit %d",
			errs.ErrMetadataTooLarge, size, d.Len(), limit)
	}

	return size, nil
}

// MarshalJSON encodes the document compactly, preserving entry order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + rootKey + `":{`)
	for i, e := range d.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Descriptor)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`}}`)

	return buf.Bytes(), nil
}

// Lookup returns the descriptor of the named entry.
func (d *Document) Lookup(name string) (Descriptor, bool) {
	for _, e := range d.Entries {
		if e.Name == name {
			return e.Descriptor, true
		}
	}

	return Descriptor{}, false
}

// Names returns the entry names in order.
func (d *Document) Names() []string {
	names := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		names[i] = e.Name
	}

	return names
}
