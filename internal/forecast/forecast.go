// Package forecast implements the interchangeable forecasting strategies
// used by the pipeline: an ARIMA model and Holt linear-trend exponential
// smoothing. Strategies operate on plain value slices on an implicit
// evenly spaced (annual) cadence; callers keep the year index.
package forecast

import "math"

// Model is a forecasting strategy. Fit trains it on a value series and
// returns an immutable fitted state.
type Model interface {
	Name() string
	Fit(values []float64) (Fitted, error)
}

// Fitted produces forecasts from a trained model.
type Fitted interface {
	// Forecast returns predictions for the given number of steps ahead.
	Forecast(steps int) ([]float64, error)
}

// NaNs returns a slice of n NaN values, the stand-in output for a model
// that failed to fit or forecast.
func NaNs(n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// MAE computes mean absolute error between actual and predicted values.
// NaN predictions propagate into the result; mismatched or empty inputs
// yield NaN rather than an error.
func MAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// RMSE computes root mean squared error between actual and predicted
// values, with the same NaN behavior as MAE.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
