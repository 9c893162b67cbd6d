package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// extractorOrder walks raw strict-JSON bytes token by token to recover the
// declaration order of the top-level "extractors" object's keys. Go's
// encoding/json decodes objects into maps, which randomizes iteration
// order, so this is the only way to honor spec.md §8 invariant 2 ("facts
// include ontology extractors in ontology order") for a file-loaded
// ontology. Only exact, already-strict JSON is walked this way; documents
// that needed json-repair or hjson leniency fall back to a sorted key
// order in Parse, with a logged warning.
func extractorOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("ontology: order walk: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("ontology: order walk: expected object key, got %v", tok)
		}
		if key == "extractors" {
			return readObjectKeys(dec)
		}
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("ontology: order walk: %w", err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("ontology: order walk: expected %q, got %v", want, tok)
	}
	return nil
}

// readObjectKeys assumes the decoder is positioned just before the value
// of the current key, reads the opening '{' and returns every key at that
// object's top level, in order, after consuming the whole object.
func readObjectKeys(dec *json.Decoder) ([]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("ontology: order walk: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("ontology: order walk: expected extractor key, got %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("ontology: order walk: %w", err)
	}
	return keys, nil
}

// skipValue consumes exactly one JSON value (scalar, object, or array)
// from the decoder, wherever it is currently positioned.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("ontology: order walk: %w", err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return nil // scalar already consumed
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("ontology: order walk: %w", err)
		}
		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		_ = d
	}
	return nil
}
