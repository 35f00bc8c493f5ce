package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/config"
	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/sheets"
)

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Check that the spreadsheet has the sheets the scripts use",
		Long: `List the sheets of the configured spreadsheet and compare them with the sheets
the synced scripts expect. Missing sheets are reported, they do not make the
command fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if a.cfg.SpreadsheetID == "" {
				return fmt.Errorf("%w: %s not set, check the .env file", config.ErrMissingConfig, config.EnvSpreadsheetID)
			}

			creds, err := a.credentials(cmd, google.SheetsScopes...)
			if err != nil {
				return err
			}

			client, err := sheets.NewClientWithProvider(ctx, creds)
			if err != nil {
				return err
			}
			client.SetMetrics(a.metrics)

			info, err := client.Spreadsheet(ctx, a.cfg.SpreadsheetID)
			if errors.Is(err, sheets.ErrAccessDenied) {
				return fmt.Errorf("%w; make sure the authorized account can open the spreadsheet", err)
			}
			if err != nil {
				return err
			}

			printSheetsReport(cmd.OutOrStdout(), info, sheets.Compare(info, sheets.ExpectedSheets))
			return nil
		},
	}

	cmd.Flags().String(flagSpreadsheetID, "", "Spreadsheet ID (env GOOGLE_SPREADSHEET_ID)")
	return cmd
}

func printSheetsReport(w io.Writer, info *sheets.SpreadsheetInfo, r *sheets.Report) {
	fmt.Fprintf(w, "Spreadsheet: %s\n", info.Title)
	fmt.Fprintf(w, "Sheets:      %d\n\n", len(info.Sheets))
	for i, sh := range info.Sheets {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, sh.Title)
	}

	fmt.Fprintln(w, "\nExpected sheets:")
	for _, name := range r.Found {
		fmt.Fprintf(w, "  ok       %s\n", name)
	}
	for _, name := range r.Missing {
		fmt.Fprintf(w, "  missing  %s\n", name)
	}

	if r.Complete() {
		fmt.Fprintln(w, "\nAll expected sheets exist.")
	} else {
		fmt.Fprintf(w, "\n%d of %d expected sheets are missing.\n", len(r.Missing), len(r.Found)+len(r.Missing))
		fmt.Fprintln(w, "Run the setup function from the spreadsheet's Apps Script menu to create them.")
	}

	if len(r.Extra) > 0 {
		fmt.Fprintf(w, "\nAdditional sheets (%d):\n", len(r.Extra))
		for _, name := range r.Extra {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	fmt.Fprintf(w, "\nSpreadsheet: %s\n", info.EditURL())
}
