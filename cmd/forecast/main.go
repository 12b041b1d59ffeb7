package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"oda-forecast/internal/model"
	"oda-forecast/internal/pipeline"
	"oda-forecast/pkg/utils"
)

var (
	csvPath    string
	evalWindow int
	orderStr   string
	horizon    int
	outDir     string
	timeout    string
	workers    int
)

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Aggregate ODA funding data into subregions and forecast future flows",
	Long: "Reads an ODA funding CSV (World Bank wide format or a generic long table), " +
		"aggregates countries into Sub-Saharan-Africa subregions, fits ARIMA and Holt " +
		"models per subregion, and writes forecasts plus accuracy metrics.",
	RunE: runForecast,
}

func init() {
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "path or URL of the input CSV (required)")
	rootCmd.Flags().IntVar(&evalWindow, "eval-window", 5, "held-out periods used to score each model")
	rootCmd.Flags().StringVar(&orderStr, "order", "1,1,1", "ARIMA order as p,d,q")
	rootCmd.Flags().IntVar(&horizon, "horizon", 2030, "final year of the forward forecast")
	rootCmd.Flags().StringVar(&outDir, "out", "", "output directory for CSV/JSON exports (omit to skip export)")
	rootCmd.Flags().StringVar(&timeout, "timeout", "5m", "overall job timeout")
	rootCmd.Flags().IntVar(&workers, "workers", 2, "concurrent subregion forecasts")
	rootCmd.MarkFlagRequired("csv")
}

func runForecast(cmd *cobra.Command, args []string) error {
	p, d, q, err := utils.ParseOrder(orderStr)
	if err != nil {
		return err
	}

	spec := model.ForecastJobSpec{
		Source:         model.Source{Type: "csv", URL: csvPath},
		EvalWindow:     evalWindow,
		Order:          model.ArimaOrder{P: p, D: d, Q: q},
		HorizonEndYear: horizon,
		Concurrency: model.ConcurrencyConfig{
			Workers:    model.Workers{Forecast: workers},
			JobTimeout: timeout,
		},
	}
	if outDir != "" {
		spec.Export = &model.Export{Dir: outDir, Format: "csv"}
	}
	spec.ApplyDefaults()

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(timeout))
	defer cancel()

	wide, results, err := pipeline.BuildAll(ctx, spec)
	if err != nil {
		return err
	}

	printSummary(wide, results)

	if spec.Export != nil {
		exportResults := pipeline.ExportForecasts(ctx, "cli", spec, wide, results)
		for _, res := range exportResults {
			if !res.Success {
				return fmt.Errorf("export failed for %s: %s", res.Path, res.Error)
			}
		}
	}

	return nil
}

func printSummary(wide *model.WideTable, results map[string]*model.ForecastResult) {
	fmt.Println("\n📊 Model accuracy (held-out window):")
	for _, subregion := range wide.Columns {
		res, ok := results[subregion]
		if !ok {
			continue
		}
		fmt.Printf("  %s (eval window %d):\n", subregion, res.EvalWindow)
		for _, run := range res.Runs {
			if run.Failed || math.IsNaN(float64(run.RMSE)) {
				fmt.Printf("    %-6s failed: %s\n", run.Model, run.FailureReason)
				continue
			}
			fmt.Printf("    %-6s MAE=%.2f RMSE=%.2f\n", run.Model, float64(run.MAE), float64(run.RMSE))
		}
		if best, ok := pipeline.BestModel(res); ok {
			fmt.Printf("    best: %s\n", best)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
