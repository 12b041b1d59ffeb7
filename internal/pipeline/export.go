package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"oda-forecast/internal/model"
	"oda-forecast/pkg/utils"
)

// ExportResult represents the result of one export operation
type ExportResult struct {
	Type       string    `json:"type"` // "forecast_csv", "combined_csv", "series_csv", "summary_json"
	Path       string    `json:"path"`
	RowCount   int       `json:"row_count"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
}

// ExportForecasts writes the job's outputs to disk: one forecast CSV per
// subregion, a combined forecast CSV, the aggregated wide series, and a
// metrics summary JSON. With no export configuration the stage is a
// no-op.
func ExportForecasts(ctx context.Context, jobID string, spec model.ForecastJobSpec, wide *model.WideTable, results map[string]*model.ForecastResult) []ExportResult {
	if spec.Export == nil || spec.Export.Dir == "" {
		fmt.Printf("💾 Export: no export configured, %d results kept in memory\n", len(results))
		return nil
	}

	om := utils.NewOutputManager(spec.Export.Dir)
	var out []ExportResult

	for _, subregion := range wide.Columns {
		select {
		case <-ctx.Done():
			return out
		default:
		}
		result, ok := results[subregion]
		if !ok {
			continue
		}
		fileName := fmt.Sprintf("forecast_%s.csv", utils.SanitizeFileName(subregion))
		out = append(out, writeCSVFile(om, jobID, fileName, "forecast_csv", result.FlattenForecast()))
	}

	out = append(out, writeCSVFile(om, jobID, "forecast_combined.csv", "combined_csv", combinedRows(wide, results)))
	out = append(out, writeCSVFile(om, jobID, "oda_subregions.csv", "series_csv", wideRows(wide)))
	out = append(out, writeSummaryJSON(om, jobID, spec, wide, results))

	fmt.Printf("💾 Export Summary: %d files written for job %s\n", len(out), jobID)
	return out
}

// combinedRows renders every subregion's forward forecast in one table:
// Subregion, Year, then one <MODEL>_ODA column per run. The header comes
// from the first result so the columns always match the runs.
func combinedRows(wide *model.WideTable, results map[string]*model.ForecastResult) [][]string {
	var rows [][]string
	for _, subregion := range wide.Columns {
		result, ok := results[subregion]
		if !ok {
			continue
		}
		flat := result.FlattenForecast()
		if rows == nil {
			rows = [][]string{append([]string{"Subregion"}, flat[0]...)}
		}
		for _, row := range flat[1:] {
			rows = append(rows, append([]string{subregion}, row...))
		}
	}
	if rows == nil {
		rows = [][]string{{"Subregion", "Year"}}
	}
	return rows
}

// wideRows renders the aggregated series: Year plus one column per
// subregion.
func wideRows(wide *model.WideTable) [][]string {
	header := append([]string{"Year"}, wide.Columns...)
	rows := [][]string{header}
	for i, year := range wide.Years {
		row := []string{strconv.Itoa(year)}
		for _, col := range wide.Columns {
			row = append(row, strconv.FormatFloat(wide.Data[col][i], 'f', -1, 64))
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSVFile(om *utils.OutputManager, jobID, fileName, exportType string, rows [][]string) ExportResult {
	result := ExportResult{Type: exportType, ExportedAt: time.Now()}

	path, err := om.GetOutputFilePath(jobID, fileName)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Path = path

	file, err := os.Create(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create file: %v", err)
		return result
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			result.Error = fmt.Sprintf("failed to write row: %v", err)
			return result
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		result.Error = err.Error()
		return result
	}

	result.RowCount = len(rows) - 1 // exclude header
	result.Success = true
	return result
}

// summaryEntry is one subregion's scorecard in the summary JSON.
type summaryEntry struct {
	Subregion  string                  `json:"subregion"`
	EvalWindow int                     `json:"eval_window"`
	LastYear   int                     `json:"last_year"`
	Metrics    map[string]metricsEntry `json:"metrics"`
	Warnings   []string                `json:"warnings,omitempty"`
}

type metricsEntry struct {
	MAE    model.Metric `json:"mae"`
	RMSE   model.Metric `json:"rmse"`
	Failed bool         `json:"failed"`
}

func writeSummaryJSON(om *utils.OutputManager, jobID string, spec model.ForecastJobSpec, wide *model.WideTable, results map[string]*model.ForecastResult) ExportResult {
	result := ExportResult{Type: "summary_json", ExportedAt: time.Now()}

	path, err := om.GetOutputFilePath(jobID, "summary.json")
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Path = path

	entries := make([]summaryEntry, 0, len(wide.Columns))
	for _, subregion := range wide.Columns {
		res, ok := results[subregion]
		if !ok {
			continue
		}
		entry := summaryEntry{
			Subregion:  subregion,
			EvalWindow: res.EvalWindow,
			Metrics:    make(map[string]metricsEntry, len(res.Runs)),
			Warnings:   res.Warnings,
		}
		if res.Eval.Len() > 0 {
			entry.LastYear = res.Eval.LastYear()
		}
		for _, run := range res.Runs {
			entry.Metrics[run.Model] = metricsEntry{MAE: run.MAE, RMSE: run.RMSE, Failed: run.Failed}
		}
		entries = append(entries, entry)
	}

	summary := map[string]interface{}{
		"export_info": map[string]interface{}{
			"job_id":           jobID,
			"exported_at":      time.Now().UTC(),
			"subregion_count":  len(entries),
			"horizon_end_year": spec.HorizonEndYear,
			"order":            spec.Order,
		},
		"subregions": entries,
	}

	file, err := os.Create(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create file: %v", err)
		return result
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		result.Error = fmt.Sprintf("failed to encode JSON: %v", err)
		return result
	}

	result.RowCount = len(entries)
	result.Success = true
	return result
}

// BestModel returns the name of the run with the lowest RMSE, preferring
// earlier runs on ties. Failed runs and NaN scores never win.
func BestModel(res *model.ForecastResult) (string, bool) {
	best := ""
	bestRMSE := math.Inf(1)
	for _, run := range res.Runs {
		rmse := float64(run.RMSE)
		if run.Failed || math.IsNaN(rmse) {
			continue
		}
		if rmse < bestRMSE {
			bestRMSE = rmse
			best = run.Model
		}
	}
	return best, best != ""
}
