package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"docvet/internal/domain"
)

// Parse decodes raw in the declared format into a Document. Decode failures are
// returned as *domain.SyntaxError; Parse never panics on malformed input.
func Parse(id string, raw []byte, format domain.Format) (doc *domain.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &domain.SyntaxError{Format: format, Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	var value any
	switch format {
	case domain.FormatJSON:
		value, err = decodeJSON(raw)
	case domain.FormatYAML:
		value, err = decodeYAML(raw)
	default:
		return nil, fmt.Errorf("%q: %w", format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, &domain.SyntaxError{Format: format, Err: err}
	}

	return &domain.Document{
		ID:     id,
		Format: format,
		Raw:    raw,
		Size:   len(raw),
		Value:  value,
	}, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of JSON input")
		}
		return nil, err
	}
	// Trailing content after the first value is a syntax error, as JSON.parse treats it.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("unexpected content after top-level value")
		}
		return nil, err
	}
	return v, nil
}

// decodeYAML returns the first document of the stream. Later documents are
// decoded only to surface their syntax errors.
func decodeYAML(raw []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	var first *yaml.Node
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = &node
		}
	}
	if first == nil || len(first.Content) == 0 {
		return nil, nil
	}
	var v any
	if err := first.Content[0].Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

// normalize converts YAML-decoded values into JSON-like values: map keys become
// strings and integers become float64, matching what the JSON decoder yields.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
