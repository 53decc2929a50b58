// Package kinds assembles the registry of document kinds docvet knows about:
// the built-in card and openapi kinds plus any declared in a rules file.
package kinds

import (
	"fmt"

	"docvet/internal/config"
	"docvet/internal/domain"
	"docvet/internal/source"
	"docvet/internal/validator"
	"docvet/internal/validator/card"
	"docvet/internal/validator/custom"
	"docvet/internal/validator/openapi"
)

// Builtin returns the built-in kinds located according to paths.
func Builtin(paths config.PathsConfig) []*validator.Kind {
	return []*validator.Kind{
		{
			Name:   card.Kind,
			Label:  "Adaptive Card template",
			Format: domain.FormatJSON,
			Rules:  card.RuleSet(),
			Dir:    paths.CardsDir,
			Ext:    paths.CardsExt,
		},
		{
			Name:      openapi.Kind,
			Label:     "OpenAPI specification",
			Format:    domain.FormatYAML,
			Rules:     openapi.RuleSet(),
			TextRules: true,
			Path:      paths.OpenAPIFile,
		},
	}
}

// Load builds the registry. When cfg.Rules.File is set, the kinds it declares
// are registered after the built-in ones; a missing or invalid file is an error.
func Load(cfg *config.Config, src source.DocumentSource) (*validator.Registry, error) {
	reg := validator.NewRegistry()
	for _, k := range Builtin(cfg.Paths) {
		if err := reg.Register(k); err != nil {
			return nil, err
		}
	}
	if cfg.Rules.File == "" {
		return reg, nil
	}

	data, err := src.Read(cfg.Rules.File)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	extra, err := custom.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Rules.File, err)
	}
	for _, k := range extra {
		if err := reg.Register(k); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Rules.File, err)
		}
	}
	return reg, nil
}
