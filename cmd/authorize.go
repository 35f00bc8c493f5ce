package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authorize",
		Short: "Run the OAuth authorization flow and cache the token",
		Long: `Open the Google consent page, wait for the redirect on a local port and store
the resulting token. Use this to switch accounts or after revoking access.

Only the OAuth client settings are required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			creds, err := a.credentials(cmd)
			if err != nil {
				return err
			}

			token, err := creds.Authorize(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Authorized. Token stored in %s", a.tokens.Path())
			if !token.Expiry.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), " (expires %s)", token.Expiry.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
