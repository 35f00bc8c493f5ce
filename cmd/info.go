package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/drive"
	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/logging"
	"github.com/teemow/scriptsync/internal/script"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show project metadata and the Drive file it is bound to",
		Long: `Print the Apps Script project's title and timestamps and whether it is bound to
a Google Drive file such as a spreadsheet. For bound projects the parent file is
looked up in Drive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			client, creds, err := a.scriptClient(cmd, google.InfoScopes...)
			if err != nil {
				return err
			}

			project, err := client.Project(ctx)
			if err != nil {
				return err
			}

			var parent *drive.FileInfo
			if project.Bound() {
				parent, err = lookupParent(cmd, a, creds, project.ParentID)
				if err != nil {
					a.logger.Warn("failed to look up parent file", logging.Err(err), "parent_id", project.ParentID)
				}
			}

			printProjectInfo(cmd.OutOrStdout(), project, parent, a.cfg.ProjectURL())
			return nil
		},
	}
}

func lookupParent(cmd *cobra.Command, a *app, creds google.TokenProvider, id string) (*drive.FileInfo, error) {
	client, err := drive.NewClientWithProvider(cmd.Context(), creds)
	if err != nil {
		return nil, err
	}
	client.SetMetrics(a.metrics)
	return client.GetFile(cmd.Context(), id)
}

func printProjectInfo(w io.Writer, p *script.ProjectInfo, parent *drive.FileInfo, projectURL string) {
	fmt.Fprintf(w, "Title:   %s\n", orDefault(p.Title, "(untitled)"))
	fmt.Fprintf(w, "Created: %s\n", formatTime(p.CreateTime))
	fmt.Fprintf(w, "Updated: %s\n", formatTime(p.UpdateTime))

	if !p.Bound() {
		fmt.Fprintln(w, "\nStandalone project, not bound to a spreadsheet.")
		fmt.Fprintln(w, "Open the spreadsheet, choose Extensions > Apps Script and sync into that project instead.")
		fmt.Fprintf(w, "\nProject: %s\n", projectURL)
		return
	}

	fmt.Fprintf(w, "\nBound to Drive file %s\n", p.ParentID)
	if parent != nil {
		fmt.Fprintf(w, "  Name: %s\n", parent.Name)
		fmt.Fprintf(w, "  Type: %s\n", parent.MimeType)
		switch {
		case parent.IsFolder():
			fmt.Fprintln(w, "  The parent is a folder, not a spreadsheet.")
		case !parent.IsSpreadsheet():
			fmt.Fprintln(w, "  The parent file is not a spreadsheet.")
		}
	}

	fmt.Fprintf(w, "\nProject: %s\n", projectURL)
	link := "https://drive.google.com/file/d/" + p.ParentID + "/view"
	switch {
	case parent == nil:
	case parent.WebViewLink != "":
		link = parent.WebViewLink
	case parent.IsFolder():
		link = "https://drive.google.com/drive/folders/" + p.ParentID
	}
	fmt.Fprintf(w, "File:    %s\n", link)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "(unknown)"
	}
	return t.Local().Format(time.DateTime)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
