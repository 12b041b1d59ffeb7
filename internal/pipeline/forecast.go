package pipeline

import (
	"fmt"

	"oda-forecast/internal/forecast"
	"oda-forecast/internal/model"
)

// FitAndForecast fits every forecasting model for one subregion's series:
// once on the training partition to score the evaluation window, then on
// the full series to project through horizonEndYear. One model's failure
// never blocks the other's results; its outputs become NaN and the
// failure is recorded as a warning on the result.
func FitAndForecast(subregion string, series model.Series, evalWindow int, order model.ArimaOrder, horizonEndYear int) *model.ForecastResult {
	s := series.SortByYear()
	n := s.Len()

	if n == 0 {
		warn := fmt.Sprintf("%s: no observations to model", subregion)
		fmt.Printf("⚠️ Forecast: %s\n", warn)
		return &model.ForecastResult{
			Subregion: subregion,
			Warnings:  []string{warn},
		}
	}

	// Keep both partitions non-degenerate on short series. The shrink is
	// silent; the effective window is recorded on the result.
	if n < evalWindow+3 {
		shrunk := n / 3
		if shrunk > evalWindow {
			shrunk = evalWindow
		}
		if shrunk < 1 {
			shrunk = 1
		}
		evalWindow = shrunk
	}

	train, eval := s.Split(n - evalWindow)

	lastYear := s.LastYear()
	horizonSteps := horizonEndYear - lastYear
	if horizonSteps < 0 {
		horizonSteps = 0
	}
	forecastYears := make([]int, horizonSteps)
	for i := range forecastYears {
		forecastYears[i] = lastYear + 1 + i
	}

	result := &model.ForecastResult{
		Subregion:     subregion,
		EvalWindow:    evalWindow,
		Train:         train,
		Eval:          eval,
		ForecastYears: forecastYears,
	}

	models := []forecast.Model{
		forecast.NewARIMA(order.P, order.D, order.Q),
		forecast.NewHolt(),
	}

	for _, m := range models {
		run := model.ModelRun{Model: m.Name()}

		evalPred, err := fitPredict(m, train.Values, eval.Len())
		if err != nil {
			run.Failed = true
			run.FailureReason = err.Error()
			evalPred = forecast.NaNs(eval.Len())
			warn := fmt.Sprintf("%s: %s evaluation fit failed: %v", subregion, m.Name(), err)
			result.Warnings = append(result.Warnings, warn)
			fmt.Printf("⚠️ Forecast: %s\n", warn)
		}
		run.EvalPredictions = evalPred
		run.MAE = model.Metric(forecast.MAE(eval.Values, evalPred))
		run.RMSE = model.Metric(forecast.RMSE(eval.Values, evalPred))

		fc, err := fitPredict(m, s.Values, horizonSteps)
		if err != nil {
			run.Failed = true
			if run.FailureReason == "" {
				run.FailureReason = err.Error()
			}
			fc = forecast.NaNs(horizonSteps)
			warn := fmt.Sprintf("%s: %s full-series fit failed: %v", subregion, m.Name(), err)
			result.Warnings = append(result.Warnings, warn)
			fmt.Printf("⚠️ Forecast: %s\n", warn)
		}
		run.Forecast = fc

		result.Runs = append(result.Runs, run)
	}

	return result
}

// fitPredict runs one fit/forecast cycle. A zero-step horizon yields an
// empty prediction without touching the model's forecaster.
func fitPredict(m forecast.Model, values []float64, steps int) ([]float64, error) {
	fitted, err := m.Fit(values)
	if err != nil {
		return nil, err
	}
	if steps == 0 {
		return []float64{}, nil
	}
	return fitted.Forecast(steps)
}
