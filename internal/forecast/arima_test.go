package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestARIMAFitTooShort(t *testing.T) {
	m := NewARIMA(1, 1, 1)

	// (1,1,1) needs 4 observations: one lost to differencing, then
	// max(p,q)+2 on the differenced series.
	for _, values := range [][]float64{nil, {100}, {100, 110}, {100, 110, 120}} {
		_, err := m.Fit(values)
		assert.Error(t, err, "len %d should not fit", len(values))
	}

	_, err := m.Fit([]float64{100, 110, 120, 130})
	assert.NoError(t, err)
}

func TestARIMAFitRejectsNegativeOrder(t *testing.T) {
	_, err := NewARIMA(-1, 0, 0).Fit([]float64{1, 2, 3, 4, 5})
	assert.Error(t, err)
}

func TestARIMAForecastConstantSeries(t *testing.T) {
	values := []float64{500, 500, 500, 500, 500, 500}

	fitted, err := NewARIMA(1, 1, 1).Fit(values)
	require.NoError(t, err)

	fc, err := fitted.Forecast(3)
	require.NoError(t, err)
	for _, v := range fc {
		assert.InDelta(t, 500, v, 1e-6)
	}
}

func TestARIMAForecastLinearTrend(t *testing.T) {
	// After first differencing a linear series is constant, so the model
	// must continue the line.
	values := []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}

	fitted, err := NewARIMA(1, 1, 1).Fit(values)
	require.NoError(t, err)

	fc, err := fitted.Forecast(3)
	require.NoError(t, err)
	assert.InDelta(t, 22, fc[0], 1e-6)
	assert.InDelta(t, 24, fc[1], 1e-6)
	assert.InDelta(t, 26, fc[2], 1e-6)
}

func TestARIMAForecastDoubleDifferencedLinearTrend(t *testing.T) {
	// Second differencing leaves a linear series at zero; both integration
	// passes must anchor on their own series' last value, so the forecast
	// continues the line rather than overshooting it.
	values := []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}

	fitted, err := NewARIMA(0, 2, 0).Fit(values)
	require.NoError(t, err)

	fc, err := fitted.Forecast(3)
	require.NoError(t, err)
	assert.InDelta(t, 22, fc[0], 1e-6)
	assert.InDelta(t, 24, fc[1], 1e-6)
	assert.InDelta(t, 26, fc[2], 1e-6)
}

func TestARIMAForecastDoubleDifferencedQuadraticTrend(t *testing.T) {
	// t^2 has constant second differences, so (0,2,0) must continue the
	// parabola exactly.
	values := []float64{1, 4, 9, 16, 25, 36, 49, 64, 81, 100}

	fitted, err := NewARIMA(0, 2, 0).Fit(values)
	require.NoError(t, err)

	fc, err := fitted.Forecast(3)
	require.NoError(t, err)
	assert.InDelta(t, 121, fc[0], 1e-6)
	assert.InDelta(t, 144, fc[1], 1e-6)
	assert.InDelta(t, 169, fc[2], 1e-6)
}

func TestARIMAForecastSteps(t *testing.T) {
	fitted, err := NewARIMA(1, 1, 1).Fit([]float64{10, 12, 11, 14, 13, 16})
	require.NoError(t, err)

	_, err = fitted.Forecast(0)
	assert.Error(t, err)

	fc, err := fitted.Forecast(5)
	require.NoError(t, err)
	assert.Len(t, fc, 5)
}

func TestARIMADifferencingExhausted(t *testing.T) {
	_, err := NewARIMA(0, 3, 0).Fit([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestARIMAName(t *testing.T) {
	assert.Equal(t, ModelARIMA, NewARIMA(1, 1, 1).Name())
}
