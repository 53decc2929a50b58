// Package custom loads extra document kinds and their rules from a TOML file.
//
//	[[kind]]
//	name   = "plugin"
//	label  = "plugin manifest"
//	format = "json"
//	path   = "plugins/servicenow-plugin.json"
//
//	  [[kind.rule]]
//	  name    = "Has schema_version"
//	  field   = "schema_version"
//	  message = "Should declare schema_version"
package custom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"docvet/internal/domain"
	"docvet/internal/validator"
)

type file struct {
	Kinds []kindDef `toml:"kind"`
}

type kindDef struct {
	Name   string    `toml:"name"`
	Label  string    `toml:"label"`
	Format string    `toml:"format"`
	Path   string    `toml:"path"`
	Dir    string    `toml:"dir"`
	Ext    string    `toml:"ext"`
	Rules  []ruleDef `toml:"rule"`
}

type ruleDef struct {
	Name     string   `toml:"name"`
	Message  string   `toml:"message"`
	Contains []string `toml:"contains"`
	Field    string   `toml:"field"`
	Equals   *string  `toml:"equals"`
}

// Parse decodes a rules file into registrable kinds.
func Parse(data []byte) ([]*validator.Kind, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding rules file: %w", err)
	}

	kinds := make([]*validator.Kind, 0, len(f.Kinds))
	for i := range f.Kinds {
		k, err := buildKind(&f.Kinds[i])
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func buildKind(def *kindDef) (*validator.Kind, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("kind without name: %w", domain.ErrInvalidRule)
	}
	format, err := domain.ParseFormat(def.Format)
	if err != nil {
		return nil, fmt.Errorf("kind %q format %q: %w", def.Name, def.Format, err)
	}
	if def.Path == "" && def.Dir == "" {
		return nil, fmt.Errorf("kind %q: %w: path or dir is required", def.Name, domain.ErrInvalidRule)
	}

	rules := make([]validator.Rule, 0, len(def.Rules))
	for j := range def.Rules {
		rd := &def.Rules[j]
		check, err := buildCheck(rd)
		if err != nil {
			return nil, fmt.Errorf("kind %q rule %q: %w", def.Name, rd.Name, err)
		}
		rules = append(rules, validator.Rule{Name: rd.Name, Check: check, Message: rd.Message})
	}
	rs, err := validator.NewRuleSet(def.Name, rules)
	if err != nil {
		return nil, err
	}

	label := def.Label
	if label == "" {
		label = def.Name + " document"
	}
	ext := def.Ext
	if ext == "" {
		ext = "." + string(format)
	}
	return &validator.Kind{
		Name:   def.Name,
		Label:  label,
		Format: format,
		Rules:  rs,
		Path:   def.Path,
		Dir:    def.Dir,
		Ext:    ext,
	}, nil
}

func buildCheck(rd *ruleDef) (validator.CheckFunc, error) {
	if len(rd.Contains) == 0 && rd.Field == "" {
		return nil, fmt.Errorf("%w: one of contains or field is required", domain.ErrInvalidRule)
	}
	if rd.Equals != nil && rd.Field == "" {
		return nil, fmt.Errorf("%w: equals needs field", domain.ErrInvalidRule)
	}

	tokens := rd.Contains
	field := rd.Field
	equals := rd.Equals
	return func(d *domain.Document) (bool, error) {
		text := d.Text()
		for _, t := range tokens {
			if !strings.Contains(text, t) {
				return false, nil
			}
		}
		if field == "" {
			return true, nil
		}
		v, ok := Lookup(d.Value, field)
		if !ok {
			return false, nil
		}
		if equals != nil {
			return scalarString(v) == *equals, nil
		}
		return nonEmpty(v), nil
	}, nil
}

// Lookup resolves a dotted path ("info.title", "servers.0.url") in a JSON-like tree.
func Lookup(v any, path string) (any, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func nonEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
