// Package cli implements the docvet command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"docvet/internal/config"
	"docvet/internal/logger"
	"docvet/internal/report"
)

// version is set at build time via -ldflags.
var version = "dev"

// appFs is the filesystem every command reads documents from and writes
// artifacts to.
var appFs afero.Fs = afero.NewOsFs()

// exitError carries a specific process exit status out of a command. A nil
// err means the command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// fail reports err with exit status 1.
func fail(err error) error {
	return &exitError{code: report.ExitFail, err: err}
}

// silentFail exits with status 1 without printing anything further.
func silentFail() error {
	return &exitError{code: report.ExitFail}
}

type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

// load reads configuration and initialises logging. Flags win over the file.
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	logger.Initialize(cfg.Log)
	o.cfg = cfg
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docvet",
		Short: "Validate and package Teams agent documents",
		Long: `docvet checks Adaptive Card templates, the ServiceNow OpenAPI
specification, and any document kinds declared in a rules file, then
packages the agent for upload to the Teams admin center.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, toml or json)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: console or json")

	cmd.AddCommand(
		newValidateCmd(opts),
		newPackageCmd(opts),
		newLocalizeCmd(opts),
		newSeedCmd(opts),
		newServeCmd(opts),
		newRunsCmd(opts),
		newRulesCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// exitCode maps the error returned by a command to the process exit status.
// Errors without an explicit status are usage or configuration errors.
func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return report.ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			cmd.PrintErrln("Error:", ee.err)
		}
		return ee.code
	}
	cmd.PrintErrln("Error:", err)
	return report.ExitUsage
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	cmd := newRootCmd()
	return exitCode(cmd, cmd.Execute())
}
