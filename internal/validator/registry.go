package validator

import (
	"fmt"

	"docvet/internal/domain"
)

// Kind binds a document kind to its declared format, rule set, and the default
// place its documents are discovered.
type Kind struct {
	Name  string
	Label string
	// Format is the declared encoding every document of this kind is parsed with.
	Format domain.Format
	Rules  *RuleSet
	// TextRules marks rule sets that read only the raw text. A document of such
	// a kind that fails to parse is still checked by every rule.
	TextRules bool
	// Path is a single document location; Dir and Ext describe a listing instead.
	Path string
	Dir  string
	Ext  string
}

// Registry maps kind names to Kinds, preserving registration order.
type Registry struct {
	kinds map[string]*Kind
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds a kind. Kinds without rules and duplicate names are rejected.
func (r *Registry) Register(k *Kind) error {
	if k.Rules == nil || k.Rules.Len() == 0 {
		return fmt.Errorf("kind %q: %w", k.Name, domain.ErrEmptyRuleSet)
	}
	if _, ok := r.kinds[k.Name]; ok {
		return fmt.Errorf("kind %q: %w", k.Name, domain.ErrDuplicateKind)
	}
	r.kinds[k.Name] = k
	r.order = append(r.order, k.Name)
	return nil
}

// Get returns the kind registered under name.
func (r *Registry) Get(name string) (*Kind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownKind)
	}
	return k, nil
}

// All returns every registered kind in registration order.
func (r *Registry) All() []*Kind {
	out := make([]*Kind, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.kinds[name])
	}
	return out
}
