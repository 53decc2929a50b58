package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docvet/internal/source"
	"docvet/internal/validator"
	"docvet/internal/validator/kinds"
)

func newRulesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [kind]",
		Short: "List document kinds and their rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := kinds.Load(root.cfg, source.New(appFs))
			if err != nil {
				return err
			}

			list := registry.All()
			if len(args) == 1 {
				name := args[0]
				if alias, ok := kindAliases[name]; ok {
					name = alias
				}
				k, err := registry.Get(name)
				if err != nil {
					return err
				}
				list = []*validator.Kind{k}
			}

			out := cmd.OutOrStdout()
			for i, k := range list {
				if i > 0 {
					fmt.Fprintln(out)
				}
				where := k.Path
				if where == "" {
					where = fmt.Sprintf("%s/*%s", k.Dir, k.Ext)
				}
				fmt.Fprintf(out, "%s (%s, %s) %s\n", k.Name, k.Label, k.Format, where)
				for _, r := range k.Rules.Rules() {
					fmt.Fprintf(out, "  - %s: %s\n", r.Name, r.Message)
				}
			}
			return nil
		},
	}
}
