package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"docvet/internal/domain"
	"docvet/internal/logger"
	"docvet/internal/report"
	"docvet/internal/service"
	"docvet/internal/validator"
	"docvet/internal/validator/card"
	"docvet/internal/validator/openapi"
	"docvet/internal/watcher"
)

// kindAll validates every registered kind.
const kindAll = "all"

// kindAliases maps command-line names to registry names.
var kindAliases = map[string]string{
	"cards": card.Kind,
}

// fullValidators names the external tool that does a complete check of a kind.
var fullValidators = map[string]func(t service.Target) string{
	card.Kind:    func(service.Target) string { return "https://adaptivecards.io/designer/" },
	openapi.Kind: func(t service.Target) string { return "npx @redocly/cli lint " + t.Path },
}

type validateOptions struct {
	path        string
	dir         string
	format      string
	concurrency int
	watch       bool
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	o := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [cards|openapi|all|<kind>]",
		Short: "Validate documents against their kind's rules",
		Long: `Validates Adaptive Card templates, the OpenAPI specification, or any
kind declared in the rules file. Without an argument every kind is validated.

Exit status is 0 when every document is valid, 1 when any document has issues
or nothing was found, and 2 on usage or configuration errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := kindAll
			if len(args) == 1 {
				name = args[0]
			}
			return o.run(cmd, root, name)
		},
	}

	cmd.Flags().StringVar(&o.path, "path", "", "validate a single document at this path")
	cmd.Flags().StringVar(&o.dir, "dir", "", "validate every document in this directory")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "report format: text, json or csv")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "j", 0, "documents validated in parallel")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "re-run validation when documents change")
	return cmd
}

func (o *validateOptions) run(cmd *cobra.Command, root *rootOptions, name string) error {
	cfg := root.cfg
	if o.concurrency > 0 {
		cfg.Validate.Concurrency = o.concurrency
	}
	format := cfg.Validate.Format
	if o.format != "" {
		format = o.format
	}
	formatter, err := report.New(format)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	targets, err := o.targets(a.registry, name)
	if err != nil {
		return err
	}
	if text, ok := formatter.(*report.Text); ok {
		text.Footer = footer(targets)
	}

	v := &validation{
		svc:       a.svc,
		registry:  a.registry,
		targets:   targets,
		formatter: formatter,
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !o.watch {
		return v.run(ctx)
	}

	log := logger.For(logger.ComponentCLI)
	if err := v.run(ctx); err != nil {
		log.Debugw("initial validation failed", "error", err)
	}
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		paths = append(paths, t.Where())
	}
	fmt.Fprintf(v.errOut, "👀 Watching %s for changes (Ctrl+C to stop)\n", strings.Join(paths, ", "))
	return watcher.New(paths, cfg.Validate.Debounce).Run(ctx, func(ctx context.Context) {
		if err := v.run(ctx); err != nil {
			log.Debugw("validation failed", "error", err)
		}
	})
}

// targets resolves the kind argument and path overrides.
func (o *validateOptions) targets(reg *validator.Registry, name string) ([]service.Target, error) {
	if name == kindAll {
		if o.path != "" || o.dir != "" {
			return nil, errors.New("--path and --dir apply to a single kind, not all")
		}
		kinds := reg.All()
		targets := make([]service.Target, 0, len(kinds))
		for _, k := range kinds {
			targets = append(targets, service.TargetFor(k))
		}
		return targets, nil
	}

	if alias, ok := kindAliases[name]; ok {
		name = alias
	}
	k, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	t := service.TargetFor(k)
	switch {
	case o.path != "" && o.dir != "":
		return nil, errors.New("--path and --dir are mutually exclusive")
	case o.path != "":
		t.Path, t.Dir = o.path, ""
	case o.dir != "":
		t.Path, t.Dir = "", o.dir
	}
	return []service.Target{t}, nil
}

// footer points at the full validators of the validated kinds.
func footer(targets []service.Target) string {
	var tools []string
	for _, t := range targets {
		if fn, ok := fullValidators[t.Kind]; ok {
			tools = append(tools, "   "+fn(t))
		}
	}
	if len(tools) == 0 {
		return ""
	}
	return "📝 Note: This is a basic validation. For full validation, use:\n" + strings.Join(tools, "\n")
}

// validation is one configured validate invocation, re-runnable in watch mode.
type validation struct {
	svc       service.ValidationService
	registry  *validator.Registry
	targets   []service.Target
	formatter report.Formatter
	out       io.Writer
	errOut    io.Writer
}

func (v *validation) run(ctx context.Context) error {
	run, err := v.svc.Run(ctx, v.targets)
	switch {
	case errors.Is(err, domain.ErrNoDocumentsFound):
		label, where := v.describe()
		var empty *domain.NoDocumentsError
		if errors.As(err, &empty) {
			label, where = v.label(empty.Kind), empty.Dir
		}
		_ = report.RenderNoDocuments(v.errOut, label, where)
		return silentFail()
	case errors.Is(err, domain.ErrNotFound):
		if len(v.targets) == 1 {
			label, where := v.describe()
			fmt.Fprintf(v.errOut, "❌ %s directory not found: %s\n", label, where)
		} else {
			fmt.Fprintf(v.errOut, "❌ %v\n", err)
		}
		return silentFail()
	case err != nil:
		return fail(err)
	}

	if err := v.formatter.Format(v.out, run); err != nil {
		return fail(fmt.Errorf("writing report: %w", err))
	}
	if code := report.ExitCode(run.Verdict()); code != report.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

// describe names what was looked for and where, for messages about the
// whole target set.
func (v *validation) describe() (label, where string) {
	if len(v.targets) == 1 {
		t := v.targets[0]
		return v.label(t.Kind), t.Where()
	}
	places := make([]string, 0, len(v.targets))
	for _, t := range v.targets {
		places = append(places, t.Where())
	}
	return "document", strings.Join(places, ", ")
}

func (v *validation) label(kind string) string {
	if k, err := v.registry.Get(kind); err == nil {
		return k.Label
	}
	return kind
}
