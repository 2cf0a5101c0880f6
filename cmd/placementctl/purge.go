package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/placementpanel/internal/application"
)

func newPurgeCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored visit record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			confirmer := promptConfirmer(a.in, a.out)
			if yes {
				confirmer = application.Confirmed
			}

			n, err := a.records.DeleteAll(cmd.Context(), nil, confirmer)
			if errors.Is(err, application.ErrNotConfirmed) {
				fmt.Fprintln(a.out, "aborted, nothing deleted")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "deleted %d records\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptConfirmer asks on out and reads a y/N answer from in. Anything but
// "y" or "yes" declines, including end of input.
func promptConfirmer(in io.Reader, out io.Writer) application.Confirmer {
	reader := bufio.NewReader(in)
	return application.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%s [y/N]: ", prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
