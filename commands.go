package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bizloader/internal/app"
	"bizloader/internal/service"
	"bizloader/internal/storage"
)

var (
	runsLimit   int
	runsRejects string
)

// loadCmd is the full pipeline: backfill, validate, map, insert.
var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Backfill identifiers, validate rows and insert them as one batch",
	Long: `Runs the full pipeline:
  1. Identifier backfill: rows without a clerkUserID get a placeholder-<uuid>
     value, written back to the input file.
  2. Each row is checked for required fields and mapped to a business record.
     Failing rows are reported and skipped.
  3. All valid records are inserted into the sink in a single batch.

Example:
  MONGO_URI=mongodb://localhost:27017 bizloader load businesses.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.InputPath = args[0]
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Load(ctx)
			printSummary(cmd, res)
			return err
		})
	},
}

// checkCmd validates without writing the file or the sink.
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Report which rows would be loaded, without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.InputPath = args[0]
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Check(ctx)
			printSummary(cmd, res)
			return err
		})
	},
}

// backfillCmd only assigns missing identifiers.
var backfillCmd = &cobra.Command{
	Use:   "backfill [file]",
	Short: "Assign placeholder identifiers to rows that have none",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.InputPath = args[0]
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.Backfill(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d identifier(s) in %s\n", n, cfg.InputPath)
			return nil
		})
	},
}

// runsCmd shows the run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent load runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if runsRejects != "" {
				rejects, err := a.Rejects(runsRejects)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "ROW\tBUSINESS\tREASON")
				for _, r := range rejects {
					fmt.Fprintf(w, "%d\t%s\t%s\n", r.RowIndex, r.BusinessName, r.Reason)
				}
				return nil
			}

			runs, err := a.Runs(runsLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tREAD\tWRITTEN\tSKIPPED\tFILE")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Status,
					r.RowsRead, r.RowsWritten, r.RowsSkipped, r.InputPath)
			}
			return nil
		})
	},
}

func printSummary(cmd *cobra.Command, res *service.LoadResult) {
	if res == nil || res.Result == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done: %d read, %d accepted, %d skipped, %d written",
		res.RowsRead, res.RowsAccepted, len(res.Skipped), res.RowsWritten)
	if res.Backfilled > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", %d identifier(s) generated", res.Backfilled)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}

func storageDefaultPath() string { return storage.DefaultPath() }
