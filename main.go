package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bizloader/internal/app"
	"bizloader/internal/config"
)

var (
	cfg    = config.Default()
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bizloader",
	Short: "Batch-load business records from a CSV file into the document store",
	Long: `bizloader reads a tabular file of business records, assigns missing
identifiers, checks required fields and inserts every valid record into the
sink in one batch. Rows with missing or invalid fields are reported and skipped.

The sink connection string is read from $MONGO_URI (or .env.local).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if cfg.Verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&cfg.RunsDB, "runs-db", defaultRunsDB(), "run history database (empty disables it)")
	pf.StringSliceVar(&cfg.EnvFiles, "env-file", nil, "dotenv files to read (default .env.local)")

	for _, c := range []*cobra.Command{loadCmd, checkCmd, backfillCmd} {
		f := c.Flags()
		f.StringVar(&cfg.SourceType, "source", "", "source type: csv_file | json_file (default: by extension)")
		f.StringVar(&cfg.Delimiter, "delimiter", "", "CSV delimiter (default: comma, tab for .tsv)")
		f.StringVar(&cfg.IDColumn, "id-column", cfg.IDColumn, "identifier column to backfill")
		f.StringArrayVar(&cfg.Renames, "rename", nil, "column alias old=new (repeatable)")
	}

	lf := loadCmd.Flags()
	lf.BoolVar(&cfg.SkipBackfill, "skip-backfill", false, "do not write generated identifiers back to the file")
	lf.StringVar(&cfg.Database, "database", cfg.Database, "target database")
	lf.StringVar(&cfg.Collection, "collection", cfg.Collection, "target collection (table for SQL sinks)")
	lf.StringVar(&cfg.URIKey, "uri-env", cfg.URIKey, "environment variable holding the connection string")

	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to show")
	runsCmd.Flags().StringVar(&runsRejects, "rejects", "", "show skipped rows of the given run id")

	rootCmd.AddCommand(loadCmd, checkCmd, backfillCmd, runsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp runs fn against a started App and always shuts it down.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a := app.New(cfg, logger, cmd.OutOrStdout())
	if err := a.Startup(ctx); err != nil {
		return err
	}
	defer a.Shutdown(ctx)
	return fn(ctx, a)
}

func defaultRunsDB() string {
	if v := os.Getenv("BIZLOADER_RUNS_DB"); v != "" {
		return v
	}
	return storageDefaultPath()
}
