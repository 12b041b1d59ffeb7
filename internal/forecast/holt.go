package forecast

import (
	"errors"
	"math"
)

// ModelHolt is the name of the linear-trend exponential smoothing model.
const ModelHolt = "HOLT"

// Holt is Holt's linear-trend exponential smoothing: additive trend, no
// seasonal component. Smoothing parameters are estimated from the data by
// minimizing one-step-ahead squared error over a grid.
type Holt struct{}

// NewHolt creates a Holt linear-trend model.
func NewHolt() *Holt {
	return &Holt{}
}

// Name returns the model name.
func (m *Holt) Name() string { return ModelHolt }

// Fit estimates level, trend, and the smoothing parameters. At least two
// observations are required to initialize the trend.
func (m *Holt) Fit(values []float64) (Fitted, error) {
	if len(values) < 2 {
		return nil, errors.New("holt: need at least 2 observations to estimate a trend")
	}

	bestAlpha, bestBeta := 0.5, 0.1
	bestSSE := math.Inf(1)
	for alpha := 0.05; alpha < 1.0; alpha += 0.05 {
		for beta := 0.05; beta < 1.0; beta += 0.05 {
			sse := holtSSE(values, alpha, beta)
			if sse < bestSSE {
				bestSSE = sse
				bestAlpha, bestBeta = alpha, beta
			}
		}
	}

	level, trend := holtSmooth(values, bestAlpha, bestBeta)
	if math.IsNaN(level) || math.IsNaN(trend) {
		return nil, errors.New("holt: smoothing diverged")
	}

	return &fittedHolt{level: level, trend: trend, alpha: bestAlpha, beta: bestBeta}, nil
}

type fittedHolt struct {
	level float64
	trend float64
	alpha float64
	beta  float64
}

// Forecast extrapolates the linear trend: level + h*trend for each step h.
func (f *fittedHolt) Forecast(steps int) ([]float64, error) {
	if steps < 1 {
		return nil, errors.New("holt: steps must be at least 1")
	}
	out := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		out[h-1] = f.level + float64(h)*f.trend
	}
	return out, nil
}

// holtSSE returns the one-step-ahead sum of squared errors for the given
// smoothing parameters.
func holtSSE(values []float64, alpha, beta float64) float64 {
	level := values[0]
	trend := values[1] - values[0]
	sse := 0.0
	for t := 1; t < len(values); t++ {
		pred := level + trend
		err := values[t] - pred
		sse += err * err
		prevLevel := level
		level = alpha*values[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return sse
}

// holtSmooth runs the smoothing recursions and returns the final level
// and trend state.
func holtSmooth(values []float64, alpha, beta float64) (float64, float64) {
	level := values[0]
	trend := values[1] - values[0]
	for t := 1; t < len(values); t++ {
		prevLevel := level
		level = alpha*values[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return level, trend
}
