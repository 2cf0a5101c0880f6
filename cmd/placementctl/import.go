package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/placementpanel/internal/application"
)

// errImportFailed is returned when at least one file could not be imported.
var errImportFailed = errors.New("one or more files failed to import")

func newImportCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import spreadsheets (.xlsx, .xls, .csv) and optionally save them",
		Long: `Import reads every file independently and reports per-file results.
Rows from files that import cleanly are kept even when others fail.
Without --save nothing is written to the store.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Unreadable paths are reported like any other failed file.
			var unreadable []application.FileReport
			files := make([]application.UploadFile, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					unreadable = append(unreadable, application.FileReport{Name: filepath.Base(path), Err: err})
					continue
				}
				defer f.Close()
				files = append(files, application.UploadFile{Name: filepath.Base(path), Body: f})
			}

			ws := application.NewWorkingSet()
			report := a.records.ImportFiles(cmd.Context(), ws, files)
			report.Files = append(report.Files, unreadable...)

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSHEETS\tROWS\tRESULT")
			for _, fr := range report.Files {
				result := "ok"
				if fr.Failed() {
					result = fr.Err.Error()
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", fr.Name, fr.Sheets, fr.Rows, result)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "imported %d rows from %d files\n", report.Imported, len(report.Files)-len(report.Failures()))

			if save && report.Imported > 0 {
				res, err := a.records.Save(cmd.Context(), ws)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "saved: %d inserted, %d updated\n", res.Inserted, res.Updated)
			}

			if len(report.Failures()) > 0 {
				return errImportFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write imported rows to the store")
	return cmd
}
