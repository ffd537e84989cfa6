package main

import (
	"context"
	"fmt"
	"os"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal"
	"csvexplorer/internal/charts"
	"csvexplorer/internal/cleaning"
	ingest "csvexplorer/internal/dataset"
	"csvexplorer/internal/profiling"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "csvexplorer-cli",
		Short:         "Inspect CSV files from the terminal with the same analysis the web explorer uses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")

	logger := func() *internal.Logger {
		return internal.NewLogger(internal.ParseLogLevel(logLevel), os.Stderr)
	}

	rootCmd.AddCommand(
		newSummaryCmd(logger),
		newMissingCmd(logger),
		newChartCmd(logger),
	)
	return rootCmd
}

func loadDataset(ctx context.Context, logger *internal.Logger, path string) (*dataset.Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := ingest.DefaultIngestConfig()
	// Local files get more room than browser uploads.
	cfg.MaxFileSize = 1 << 30
	return ingest.NewProcessor(cfg, logger).LoadFile(ctx, path)
}

func newSummaryCmd(logger func() *internal.Logger) *cobra.Command {
	var previewRows int

	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Print shape, column types, descriptive statistics and categorical frequencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), logger(), args[0])
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), profiling.Build(ds, previewRows))
			return nil
		},
	}

	cmd.Flags().IntVar(&previewRows, "preview", profiling.DefaultPreviewRows, "Number of preview rows")
	return cmd
}

func newMissingCmd(logger func() *internal.Logger) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "missing FILE",
		Short: "Print missing value counts and, with --rows, the first incomplete rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), logger(), args[0])
			if err != nil {
				return err
			}
			renderCleaning(cmd.OutOrStdout(), cleaning.Inspect(ds, rows > 0, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Also list up to N rows holding missing values")
	return cmd
}

func newChartCmd(logger func() *internal.Logger) *cobra.Command {
	var kind, x, y, group, out string

	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Render a chart to a PNG file",
		Long: `Render one of the explorer's charts to a PNG file.

Example: csvexplorer-cli chart orders.csv --kind box --y order_total --group region --out box.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := charts.ParseKind(kind)
			if !ok {
				return fmt.Errorf("unknown chart kind %q (want one of %v)", kind, charts.Kinds)
			}
			ds, err := loadDataset(cmd.Context(), logger(), args[0])
			if err != nil {
				return err
			}

			result, err := charts.Draw(ds, charts.Request{Kind: k, X: x, Y: y, Group: group})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, warning := range result.Plan.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warning)
			}
			if result.Chart == nil {
				if result.Plan.Notice != "" {
					return fmt.Errorf("%s", result.Plan.Notice)
				}
				return fmt.Errorf("no chart drawn: choose the columns with --x, --y or --group")
			}

			if err := os.WriteFile(out, result.Chart.PNG, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(w, "%s written to %s (%d bytes)\n", result.Chart.Title, out, len(result.Chart.PNG))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(charts.KindBar), "Chart kind: bar, histogram, pie, scatter or box")
	cmd.Flags().StringVar(&x, "x", "", "X column (defaults to the first eligible column)")
	cmd.Flags().StringVar(&y, "y", "", "Y column for scatter and box plots")
	cmd.Flags().StringVar(&group, "group", "", "Grouping column for box plots ("+charts.NoGrouping+" disables grouping)")
	cmd.Flags().StringVar(&out, "out", "chart.png", "Output PNG path")
	return cmd
}
