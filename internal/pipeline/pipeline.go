package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"oda-forecast/internal/model"
	"oda-forecast/internal/store"
	"oda-forecast/pkg/utils"
)

// BuildAll runs the full in-memory pipeline: load, aggregate, and fit
// every subregion concurrently. It is pure with respect to external
// state; persistence and export belong to Run and other callers.
//
// Only input that matches no recognized CSV shape is fatal. Model
// failures stay local to their (subregion, model) pair and surface as
// warnings on the affected result.
func BuildAll(ctx context.Context, spec model.ForecastJobSpec) (*model.WideTable, map[string]*model.ForecastResult, error) {
	spec.ApplyDefaults()

	records, err := LoadCSV(spec.Source.URL)
	if err != nil {
		return nil, nil, err
	}

	wide := Aggregate(records, spec.Subregions)
	fmt.Printf("📊 Aggregation: %d subregions over %d years\n", len(wide.Columns), len(wide.Years))

	results := make(map[string]*model.ForecastResult, len(wide.Columns))
	var mu sync.Mutex
	var wg sync.WaitGroup

	numWorkers := spec.Concurrency.Workers.Forecast
	if numWorkers <= 0 {
		numWorkers = 2 // default
	}

	jobs := make(chan string)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for subregion := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result := fitSubregion(subregion, wide.Column(subregion), spec)
				mu.Lock()
				results[subregion] = result
				mu.Unlock()
			}
		}()
	}

	for _, subregion := range wide.Columns {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, nil, ctx.Err()
		case jobs <- subregion:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fmt.Printf("✅ Forecast: %d subregions modeled\n", len(results))
	return wide, results, nil
}

// fitSubregion wraps the per-subregion engine with a panic guard so one
// pathological series cannot take down the worker pool.
func fitSubregion(subregion string, series model.Series, spec model.ForecastJobSpec) (result *model.ForecastResult) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("❌ Forecast: panic while modeling %s: %v\n", subregion, r)
			result = &model.ForecastResult{
				Subregion: subregion,
				Warnings:  []string{fmt.Sprintf("modeling panicked: %v", r)},
			}
		}
	}()
	return FitAndForecast(subregion, series, spec.EvalWindow, spec.Order, spec.HorizonEndYear)
}

// ------------------- Pipeline Runner -------------------

// Run executes a forecast job end to end on behalf of the API: builds
// the forecasts, persists results and the aggregated series, and runs
// the export stage. Job status transitions are written to the store as
// each stage starts.
func Run(ctx context.Context, jobID string, spec model.ForecastJobSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting forecast job: %s\n", jobID)

	store.UpdateJobStatus(jobID, "running")

	defer func() {
		if err != nil {
			store.UpdateJobStatus(jobID, "failed")
			store.SaveJobError(jobID, err)
		}
	}()

	spec.ApplyDefaults()

	timeout := utils.ParseDuration(spec.Concurrency.JobTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store.UpdateJobStatus(jobID, "forecasting")
	wide, results, err := BuildAll(ctx, spec)
	if err != nil {
		return fmt.Errorf("forecast stage failed: %w", err)
	}

	store.UpdateJobStatus(jobID, "saving")
	if err := store.SaveWideSeries(jobID, wide); err != nil {
		return fmt.Errorf("failed to save aggregated series: %w", err)
	}
	subregions := make([]string, 0, len(results))
	for subregion := range results {
		subregions = append(subregions, subregion)
	}
	sort.Strings(subregions)
	for _, subregion := range subregions {
		result := results[subregion]
		if err := store.SaveForecastResult(jobID, subregion, result); err != nil {
			return fmt.Errorf("failed to save result for %s: %w", subregion, err)
		}
		for _, warn := range result.Warnings {
			store.SaveJobError(jobID, fmt.Errorf("%s", warn))
		}
	}

	store.UpdateJobStatus(jobID, "exporting")
	exportResults := ExportForecasts(ctx, jobID, spec, wide, results)
	for _, result := range exportResults {
		if result.Success {
			fmt.Printf("✅ Export: %d rows written to %s (%s)\n",
				result.RowCount, result.Path, result.Type)
		} else {
			fmt.Printf("❌ Export failed for %s: %s\n", result.Path, result.Error)
		}
	}

	duration := time.Since(start)
	fmt.Printf("🏁 Forecast job completed: %s in %v\n", jobID, duration)

	store.UpdateJobStatus(jobID, "completed")
	return nil
}
