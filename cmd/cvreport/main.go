package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cvdiag/adapters/excel"
	"cvdiag/domain/dataset"
	"cvdiag/domain/diagnostics"
	"cvdiag/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cvreport",
		Short: "Cross-validation diagnostics for regression models",
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	var key string
	var perFold bool
	var metricNames []string
	var outPath string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Compute regression metrics from a prediction dump",
		Long: `Compute regression metrics from a cross-validation prediction dump.

The file (.csv or .xlsx) needs fold, observed and predicted columns;
standard_deviation, labcode and feature columns are picked up when present.

Example: cvreport report predictions.csv --key yield --per-fold --out report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := excel.NewDataReader(args[0]).ReadCollection(key)
			if err != nil {
				return err
			}

			metrics, err := parseMetrics(metricNames)
			if err != nil {
				return err
			}

			frame, err := collection.GetMetrics(metrics, !perFold)
			if err != nil {
				return err
			}

			fmt.Printf("key: %s, folds: %d, loo: %v\n\n", collection.Key(), collection.Len(), collection.IsLOO())
			printFrame(frame, !perFold || collection.IsLOO())

			if outPath != "" {
				report, err := excel.NewReport(collection, metrics, !perFold)
				if err != nil {
					return err
				}
				if err := report.WriteXLSX(outPath); err != nil {
					return err
				}
				fmt.Printf("\nreport written to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "y", "Key of the validated output variable")
	cmd.Flags().BoolVar(&perFold, "per-fold", false, "Compute metrics per fold instead of pooling all folds")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "Metrics to compute (default: all)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the report to an .xlsx file")
	return cmd
}

func newDemoCmd() *cobra.Command {
	config := testkit.DefaultCrossValConfig()

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a synthetic run and print its metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := testkit.NewCrossValGenerator(config).GenerateCollection()
			if err != nil {
				return err
			}

			combined, err := collection.GetMetrics(nil, true)
			if err != nil {
				return err
			}
			fmt.Printf("synthetic run: %d folds x %d samples, noise %.2f, seed %d\n\ncombined:\n",
				config.Folds, config.SamplesPerFold, config.NoiseScale, config.Seed)
			printFrame(combined, true)

			perFold, err := collection.GetMetrics(nil, false)
			if err != nil {
				return err
			}
			fmt.Println("\nper fold:")
			printFrame(perFold, collection.IsLOO())
			return nil
		},
	}

	cmd.Flags().IntVar(&config.Folds, "folds", config.Folds, "Number of folds")
	cmd.Flags().IntVar(&config.SamplesPerFold, "samples", config.SamplesPerFold, "Samples per fold")
	cmd.Flags().Float64Var(&config.NoiseScale, "noise", config.NoiseScale, "Prediction noise scale")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed")
	return cmd
}

func parseMetrics(names []string) ([]diagnostics.Metric, error) {
	if len(names) == 0 {
		return nil, nil
	}
	metrics := make([]diagnostics.Metric, len(names))
	for i, name := range names {
		metric, err := diagnostics.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		metrics[i] = metric
	}
	return metrics, nil
}

func printFrame(frame *dataset.Frame, combined bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "fold")
	for _, name := range frame.ColumnNames() {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)

	for i := 0; i < frame.RowCount(); i++ {
		label := fmt.Sprintf("%d", i+1)
		if combined {
			label = "all"
		}
		fmt.Fprint(w, label)
		for _, value := range frame.Row(i) {
			fmt.Fprintf(w, "\t%.6f", value)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
