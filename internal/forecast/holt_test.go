package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoltFit(t *testing.T) {
	t.Run("requires two observations", func(t *testing.T) {
		_, err := NewHolt().Fit([]float64{100})
		assert.Error(t, err)

		_, err = NewHolt().Fit(nil)
		assert.Error(t, err)
	})

	t.Run("two observations fit", func(t *testing.T) {
		fitted, err := NewHolt().Fit([]float64{150, 180})
		require.NoError(t, err)

		fc, err := fitted.Forecast(1)
		require.NoError(t, err)
		// level 180, trend 30
		assert.InDelta(t, 210, fc[0], 1e-6)
	})
}

func TestHoltForecastLinearTrend(t *testing.T) {
	// A perfectly linear series has zero one-step error for any smoothing
	// parameters, so the forecast must continue the line exactly.
	values := []float64{10, 20, 30, 40, 50, 60}

	fitted, err := NewHolt().Fit(values)
	require.NoError(t, err)

	fc, err := fitted.Forecast(3)
	require.NoError(t, err)
	require.Len(t, fc, 3)
	assert.InDelta(t, 70, fc[0], 1e-6)
	assert.InDelta(t, 80, fc[1], 1e-6)
	assert.InDelta(t, 90, fc[2], 1e-6)
}

func TestHoltForecastSteps(t *testing.T) {
	fitted, err := NewHolt().Fit([]float64{5, 7, 9})
	require.NoError(t, err)

	_, err = fitted.Forecast(0)
	assert.Error(t, err)

	fc, err := fitted.Forecast(4)
	require.NoError(t, err)
	assert.Len(t, fc, 4)
}

func TestHoltName(t *testing.T) {
	assert.Equal(t, ModelHolt, NewHolt().Name())
}
