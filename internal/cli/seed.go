package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docvet/internal/seeder"
)

type seedOptions struct {
	dataDir string
	outDir  string
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	o := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate example API responses from CSV and XLSX fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg.Seed
			if o.dataDir != "" {
				cfg.DataDir = o.dataDir
			}
			if o.outDir != "" {
				cfg.OutDir = o.outDir
			}

			res, err := seeder.New(appFs, cfg.DataDir, cfg.OutDir).Run()
			if err != nil {
				return fail(err)
			}
			out := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintf(out, "No fixtures to seed (%s). Skipping seed.\n", res.Reason)
				return nil
			}
			for _, path := range res.Written {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.dataDir, "data", "", "fixture directory (default seed.data_dir)")
	cmd.Flags().StringVar(&o.outDir, "out", "", "output directory (default seed.out_dir)")
	return cmd
}
