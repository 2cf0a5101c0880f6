// Command placementctl runs bulk record operations against the configured
// visit store without starting the web server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/spreadsheet"
	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/stores"
	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// execute runs one command line. The stores opened by the root command are
// closed here because cobra skips post-run hooks when a command fails.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{in: in, out: out, errOut: errOut}
	defer func() {
		if err := a.close(); err != nil && a.logger != nil {
			a.logger.Error("error closing database", "error", err)
		}
	}()

	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// app holds what every subcommand needs once the root command has opened
// the stores.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	dbPath string

	logger   *slog.Logger
	stores   *stores.Stores
	records  *application.RecordService
	overview *application.OverviewService
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "placementctl",
		Short:         "Bulk import, export and maintenance for placement visit records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.open()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides PLACEMENTPANEL_DB_PATH)")

	root.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newPurgeCmd(a),
		newStatsCmd(a),
	)
	return root
}

// open loads configuration and wires the services. Logs go to stderr so
// command output stays clean on stdout.
func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}

	a.logger = config.NewLogger(a.errOut, cfg)

	st, err := stores.Open(cfg, a.logger)
	if err != nil {
		return err
	}
	a.stores = st

	sheets := spreadsheet.New()
	a.records = application.NewRecordService(st.Visits, sheets, sheets, a.logger)
	a.overview = application.NewOverviewService(st.Visits)
	return nil
}

func (a *app) close() error {
	if a.stores == nil {
		return nil
	}
	err := a.stores.Close()
	a.stores = nil
	return err
}
