// Package localizer rewrites an API specification so its servers point at a
// local mock server.
package localizer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"docvet/internal/domain"
)

// ErrNotMapping is returned when the document root is not a YAML mapping.
var ErrNotMapping = errors.New("specification root is not a mapping")

// Localize rewrites in to out with the top-level servers replaced by a single
// entry for url. Other keys keep their order; servers is appended when absent.
func Localize(fs afero.Fs, in, out, url string) error {
	raw, err := afero.ReadFile(fs, in)
	if err != nil {
		if exists, _ := afero.Exists(fs, in); !exists {
			return fmt.Errorf("%s: %w", in, domain.ErrNotFound)
		}
		return fmt.Errorf("%s: %w: %v", in, domain.ErrReadFailed, err)
	}

	data, err := Rewrite(raw, url)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	if err := fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(fs, out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// Rewrite returns raw with its servers replaced.
func Rewrite(raw []byte, url string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &domain.SyntaxError{Format: domain.FormatYAML, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	root := doc.Content[0]

	servers := serversNode(url)
	replaced := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "servers" {
			root.Content[i+1] = servers
			replaced = true
			break
		}
	}
	if !replaced {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "servers"},
			servers,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encoding specification: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding specification: %w", err)
	}
	return buf.Bytes(), nil
}

func serversNode(url string) *yaml.Node {
	return &yaml.Node{
		Kind: yaml.SequenceNode,
		Tag:  "!!seq",
		Content: []*yaml.Node{
			{
				Kind: yaml.MappingNode,
				Tag:  "!!map",
				Content: []*yaml.Node{
					{Kind: yaml.ScalarNode, Tag: "!!str", Value: "url"},
					{Kind: yaml.ScalarNode, Tag: "!!str", Value: url},
				},
			},
		},
	}
}
