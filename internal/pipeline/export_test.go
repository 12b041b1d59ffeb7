package pipeline

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oda-forecast/internal/forecast"
	"oda-forecast/internal/model"
)

func exportFixture(t *testing.T) (model.ForecastJobSpec, *model.WideTable, map[string]*model.ForecastResult) {
	t.Helper()
	path := writeTempCSV(t, longCSV)
	spec := buildSpec(path)
	spec.Export = &model.Export{Dir: t.TempDir(), Format: "csv"}

	wide, results, err := BuildAll(context.Background(), spec)
	require.NoError(t, err)
	return spec, wide, results
}

func TestExportForecasts(t *testing.T) {
	spec, wide, results := exportFixture(t)

	exportResults := ExportForecasts(context.Background(), "job-1", spec, wide, results)
	require.NotEmpty(t, exportResults)
	for _, res := range exportResults {
		assert.True(t, res.Success, "%s: %s", res.Path, res.Error)
	}

	jobDir := filepath.Join(spec.Export.Dir, "job-1")
	for _, name := range []string{
		"forecast_east_africa.csv",
		"forecast_west_africa.csv",
		"forecast_combined.csv",
		"oda_subregions.csv",
		"summary.json",
	} {
		_, err := os.Stat(filepath.Join(jobDir, name))
		assert.NoError(t, err, name)
	}
}

func TestExportForecastsCombinedCSV(t *testing.T) {
	spec, wide, results := exportFixture(t)

	ExportForecasts(context.Background(), "job-2", spec, wide, results)

	file, err := os.Open(filepath.Join(spec.Export.Dir, "job-2", "forecast_combined.csv"))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Subregion", "Year", "ARIMA_ODA", "HOLT_ODA"}, rows[0])
	// 2 subregions x 3 forward years plus the header
	assert.Len(t, rows, 7)
}

func TestCombinedRowsHeaderFollowsRuns(t *testing.T) {
	wide := &model.WideTable{Columns: []string{"East Africa"}}
	results := map[string]*model.ForecastResult{
		"East Africa": {
			Subregion: "East Africa",
			Runs: []model.ModelRun{
				{Model: forecast.ModelARIMA, Forecast: model.FloatSeq{100}},
				{Model: forecast.ModelHolt, Forecast: model.FloatSeq{110}},
				{Model: "SES", Forecast: model.FloatSeq{105}},
			},
			ForecastYears: []int{2020},
		},
	}

	rows := combinedRows(wide, results)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Subregion", "Year", "ARIMA_ODA", "HOLT_ODA", "SES_ODA"}, rows[0])
	assert.Equal(t, []string{"East Africa", "2020", "100", "110", "105"}, rows[1])

	t.Run("no results still yields a header", func(t *testing.T) {
		rows := combinedRows(&model.WideTable{Columns: []string{"X"}}, nil)
		assert.Equal(t, [][]string{{"Subregion", "Year"}}, rows)
	})
}

func TestExportForecastsNoConfig(t *testing.T) {
	path := writeTempCSV(t, longCSV)
	spec := buildSpec(path)

	wide, results, err := BuildAll(context.Background(), spec)
	require.NoError(t, err)

	assert.Nil(t, ExportForecasts(context.Background(), "job-3", spec, wide, results))
}

func TestBestModel(t *testing.T) {
	res := &model.ForecastResult{
		Runs: []model.ModelRun{
			{Model: forecast.ModelARIMA, RMSE: model.Metric(12.5)},
			{Model: forecast.ModelHolt, RMSE: model.Metric(8.2)},
		},
	}
	best, ok := BestModel(res)
	require.True(t, ok)
	assert.Equal(t, forecast.ModelHolt, best)

	t.Run("failed runs never win", func(t *testing.T) {
		res.Runs[1].Failed = true
		best, ok := BestModel(res)
		require.True(t, ok)
		assert.Equal(t, forecast.ModelARIMA, best)
	})

	t.Run("all NaN yields no winner", func(t *testing.T) {
		bad := &model.ForecastResult{
			Runs: []model.ModelRun{
				{Model: forecast.ModelARIMA, RMSE: model.Metric(math.NaN())},
			},
		}
		_, ok := BestModel(bad)
		assert.False(t, ok)
	})
}
