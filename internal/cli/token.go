package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docvet/internal/service"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the HTTP API",
		Long: `Signs an HS256 token for an API client with auth.jwt_secret. The
subject names the client, e.g. the CI pipeline that posts documents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issued, err := service.NewAuthService(root.cfg.Auth).IssueToken(args[0], ttl)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, issued.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "Token for %s expires %s\n", issued.Subject, issued.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.token_ttl)")
	return cmd
}
