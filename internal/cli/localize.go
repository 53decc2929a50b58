package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docvet/internal/localizer"
)

type localizeOptions struct {
	in  string
	out string
}

func newLocalizeCmd(root *rootOptions) *cobra.Command {
	o := &localizeOptions{}

	cmd := &cobra.Command{
		Use:   "localize",
		Short: "Point an OpenAPI spec at a local mock server",
		Long: `Rewrites the top-level servers of an OpenAPI document to a single
http://HOST:PORT entry (localize.host and localize.port, or API_HOST and
API_PORT) and writes the result to a separate file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg.Localize
			if o.in != "" {
				cfg.In = o.in
			}
			if o.out != "" {
				cfg.Out = o.out
			}
			url := cfg.URL()
			if err := localizer.Localize(appFs, cfg.In, cfg.Out, url); err != nil {
				return fail(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s with servers[0].url=%s\n", cfg.Out, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.in, "in", "", "source specification (default localize.in)")
	cmd.Flags().StringVar(&o.out, "out", "", "output path (default localize.out)")
	return cmd
}
