package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/arloliu/rrdplugin/errs"
)

// Parse decodes a rendered document, keeping the order of its entries.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	doc := &Document{}
	for dec.More() {
		key, err := nextKey(dec)
		if err != nil {
			return nil, err
		}

		if key != rootKey {
			// unknown top-level members are skipped
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
			}

			continue
		}

		if err := parseSources(dec, doc); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return doc, nil
}

func parseSources(dec *json.Decoder, doc *Document) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	for dec.More() {
		name, err := nextKey(dec)
		if err != nil {
			return err
		}

		var d Descriptor
		if err := dec.Decode(&d); err != nil {
			return fmt.Errorf("%w: source %q: %w", errs.ErrInvalidMetadata, name, err)
		}
		doc.Entries = append(doc.Entries, Entry{Name: name, Descriptor: d})
	}

	return expectDelim(dec, '}')
}

func nextKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}

	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", errs.ErrInvalidMetadata, tok)
	}

	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}

	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", errs.ErrInvalidMetadata, want, tok)
	}

	return nil
}
