package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oda-forecast/internal/forecast"
	"oda-forecast/internal/model"
)

func defaultOrder() model.ArimaOrder {
	return model.ArimaOrder{P: 1, D: 1, Q: 1}
}

func TestFitAndForecastSplit(t *testing.T) {
	series := model.Series{
		Years:  []int{2010, 2011, 2012, 2013, 2014, 2015, 2016, 2017, 2018, 2019},
		Values: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	}

	res := FitAndForecast("East Africa", series, 3, defaultOrder(), 2025)

	assert.Equal(t, 3, res.EvalWindow)
	assert.Equal(t, 7, res.Train.Len())
	assert.Equal(t, 3, res.Eval.Len())
	assert.Equal(t, series.Len(), res.Train.Len()+res.Eval.Len())
	assert.Equal(t, []int{2017, 2018, 2019}, res.Eval.Years)
}

func TestFitAndForecastShrinksEvalWindow(t *testing.T) {
	series := model.Series{
		Years:  []int{2017, 2018, 2019},
		Values: []float64{100, 110, 120},
	}

	res := FitAndForecast("East Africa", series, 5, defaultOrder(), 2022)

	// 3 observations cannot give up 5; the window shrinks to 1.
	assert.Equal(t, 1, res.EvalWindow)
	assert.Equal(t, 2, res.Train.Len())
	assert.Equal(t, 1, res.Eval.Len())
}

func TestFitAndForecastForwardYears(t *testing.T) {
	series := model.Series{
		Years:  []int{2014, 2015, 2016, 2017, 2018, 2019},
		Values: []float64{10, 20, 30, 40, 50, 60},
	}

	t.Run("contiguous through horizon", func(t *testing.T) {
		res := FitAndForecast("X", series, 2, defaultOrder(), 2023)
		assert.Equal(t, []int{2020, 2021, 2022, 2023}, res.ForecastYears)
	})

	t.Run("horizon at last year yields no forward years", func(t *testing.T) {
		res := FitAndForecast("X", series, 2, defaultOrder(), 2019)
		assert.Empty(t, res.ForecastYears)
		for _, run := range res.Runs {
			assert.Empty(t, run.Forecast)
		}
	})

	t.Run("horizon before last year yields no forward years", func(t *testing.T) {
		res := FitAndForecast("X", series, 2, defaultOrder(), 2000)
		assert.Empty(t, res.ForecastYears)
	})
}

func TestFitAndForecastEmptySeries(t *testing.T) {
	// A declared subregion can end up with no observations at all, e.g.
	// when every cell in the source was missing. No forward years may be
	// fabricated from the zero last-year.
	res := FitAndForecast("West Africa", model.Series{}, 5, defaultOrder(), 2030)

	assert.Equal(t, "West Africa", res.Subregion)
	assert.Empty(t, res.ForecastYears)
	assert.Empty(t, res.Runs)
	assert.Zero(t, res.Train.Len())
	assert.Zero(t, res.Eval.Len())
	assert.NotEmpty(t, res.Warnings)
}

func TestFitAndForecastUnsortedInput(t *testing.T) {
	series := model.Series{
		Years:  []int{2019, 2017, 2018, 2016, 2015},
		Values: []float64{50, 30, 40, 20, 10},
	}

	res := FitAndForecast("X", series, 2, defaultOrder(), 2021)

	assert.Equal(t, []int{2015, 2016, 2017}, res.Train.Years)
	assert.Equal(t, []int{2018, 2019}, res.Eval.Years)
	assert.Equal(t, []int{2020, 2021}, res.ForecastYears)
}

func TestFitAndForecastModelOrder(t *testing.T) {
	series := model.Series{
		Years:  []int{2015, 2016, 2017, 2018, 2019},
		Values: []float64{10, 20, 30, 40, 50},
	}

	res := FitAndForecast("X", series, 1, defaultOrder(), 2021)

	require.Len(t, res.Runs, 2)
	assert.Equal(t, forecast.ModelARIMA, res.Runs[0].Model)
	assert.Equal(t, forecast.ModelHolt, res.Runs[1].Model)
}

func TestFitAndForecastTwoPointSeries(t *testing.T) {
	// Aggregated from Kenya 2018:100 + Uganda 2018:50 and Kenya 2019:180.
	series := model.Series{
		Years:  []int{2018, 2019},
		Values: []float64{150, 180},
	}

	res := FitAndForecast("East Africa", series, 5, defaultOrder(), 2020)

	assert.Equal(t, 1, res.EvalWindow)
	assert.Equal(t, []int{2018}, res.Train.Years)
	assert.Equal(t, []int{2019}, res.Eval.Years)
	assert.Equal(t, []int{2020}, res.ForecastYears)

	arima, ok := res.Run(forecast.ModelARIMA)
	require.True(t, ok)
	assert.True(t, arima.Failed)
	require.Len(t, arima.Forecast, 1)
	assert.True(t, math.IsNaN(arima.Forecast[0]))
	assert.True(t, math.IsNaN(float64(arima.MAE)))
	assert.True(t, math.IsNaN(float64(arima.RMSE)))

	// Holt cannot fit the single-point training series, but the full
	// two-point series still yields a forward forecast.
	holt, ok := res.Run(forecast.ModelHolt)
	require.True(t, ok)
	require.Len(t, holt.EvalPredictions, 1)
	assert.True(t, math.IsNaN(holt.EvalPredictions[0]))
	require.Len(t, holt.Forecast, 1)
	assert.InDelta(t, 210, holt.Forecast[0], 1e-6)

	assert.NotEmpty(t, res.Warnings)
}

func TestFitAndForecastMetricsNonNegative(t *testing.T) {
	series := model.Series{
		Years:  []int{2010, 2011, 2012, 2013, 2014, 2015, 2016, 2017, 2018, 2019},
		Values: []float64{55, 48, 62, 70, 66, 74, 81, 77, 90, 95},
	}

	res := FitAndForecast("X", series, 3, defaultOrder(), 2025)

	for _, run := range res.Runs {
		if run.Failed {
			continue
		}
		assert.GreaterOrEqual(t, float64(run.MAE), 0.0, run.Model)
		assert.GreaterOrEqual(t, float64(run.RMSE), 0.0, run.Model)
		assert.Len(t, run.EvalPredictions, res.Eval.Len(), run.Model)
		assert.Len(t, run.Forecast, len(res.ForecastYears), run.Model)
	}
}
