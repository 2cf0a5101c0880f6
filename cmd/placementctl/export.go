package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		multi bool
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every stored record to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.stores.Visits.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load records: %w", err)
			}

			if out == "" {
				out = a.records.ExportFileName()
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			if err := a.records.ExportRecords(f, records, multi); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(a.out, "exported %d records to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&multi, "multi", false, "add one sheet per visit category")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default Visit_Records_<date>.xlsx)")
	return cmd
}
