package forecast

import (
	"errors"
	"fmt"
	"math"
)

// ModelARIMA is the name of the autoregressive-integrated model.
const ModelARIMA = "ARIMA"

// ARIMA is an autoregressive integrated moving average model of order
// (p, d, q), estimated by conditional sum of squares.
type ARIMA struct {
	P int
	D int
	Q int
}

// NewARIMA creates an ARIMA model with the given order.
func NewARIMA(p, d, q int) *ARIMA {
	return &ARIMA{P: p, D: d, Q: q}
}

// Name returns the model name.
func (m *ARIMA) Name() string { return ModelARIMA }

// Fit estimates the model on values. It fails on series too short to
// support the requested order; the caller treats that as a recoverable
// per-model failure.
func (m *ARIMA) Fit(values []float64) (Fitted, error) {
	if m.P < 0 || m.D < 0 || m.Q < 0 {
		return nil, errors.New("arima: order terms must be non-negative")
	}

	// Difference d times, keeping the last value of each intermediate
	// series; integration anchors on them in reverse order.
	diff := append([]float64(nil), values...)
	lasts := make([]float64, 0, m.D)
	for i := 0; i < m.D; i++ {
		if len(diff) < 2 {
			return nil, errors.New("arima: differencing exhausted the series")
		}
		lasts = append(lasts, diff[len(diff)-1])
		next := make([]float64, len(diff)-1)
		for j := 1; j < len(diff); j++ {
			next[j-1] = diff[j] - diff[j-1]
		}
		diff = next
	}

	lag := m.P
	if m.Q > lag {
		lag = m.Q
	}
	if len(diff) < lag+2 {
		return nil, fmt.Errorf("arima: need at least %d observations for order (%d,%d,%d), got %d",
			m.D+lag+2, m.P, m.D, m.Q, len(values))
	}

	f := &fittedARIMA{
		p:     m.P,
		d:     m.D,
		q:     m.Q,
		lasts: lasts,
		diff:  diff,
		ar:    make([]float64, m.P),
		ma:    make([]float64, m.Q),
	}

	if m.P > 0 {
		if phi := yuleWalker(acf(diff, m.P), m.P); phi != nil {
			copy(f.ar, phi)
		}
	}
	for i := range f.ma {
		f.ma[i] = 0.1
	}

	f.optimize()
	return f, nil
}

type fittedARIMA struct {
	p, d, q   int
	lasts     []float64 // last value of each intermediate differenced series
	diff      []float64
	ar        []float64
	ma        []float64
	intercept float64
	residuals []float64
}

// optimize refines AR/MA coefficients by gradient descent on the
// conditional sum of squares of the differenced series.
func (f *fittedARIMA) optimize() {
	y := f.diff
	n := len(y)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	f.intercept = mean / float64(n)

	start := f.p
	if f.q > start {
		start = f.q
	}

	const (
		maxIter      = 100
		tolerance    = 1e-6
		learningRate = 0.01
	)

	residuals := make([]float64, n)
	prevSSE := math.Inf(1)

	for iter := 0; iter < maxIter; iter++ {
		sse := f.fillResiduals(y, residuals, start)

		arGrad := make([]float64, f.p)
		maGrad := make([]float64, f.q)
		for t := start; t < n; t++ {
			for i := 0; i < f.p; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - f.intercept)
			}
			for i := 0; i < f.q; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		for i := 0; i < f.p; i++ {
			f.ar[i] -= learningRate * arGrad[i] / float64(n)
			f.ar[i] = clamp(f.ar[i], -0.99, 0.99) // stationarity bound
		}
		for i := 0; i < f.q; i++ {
			f.ma[i] -= learningRate * maGrad[i] / float64(n)
			f.ma[i] = clamp(f.ma[i], -0.99, 0.99) // invertibility bound
		}

		if math.Abs(prevSSE-sse) < tolerance {
			break
		}
		prevSSE = sse
	}

	f.residuals = make([]float64, n)
	f.fillResiduals(y, f.residuals, start)
}

// fillResiduals computes one-step residuals under the current
// coefficients and returns the conditional sum of squares.
func (f *fittedARIMA) fillResiduals(y, residuals []float64, start int) float64 {
	for t := 0; t < start; t++ {
		residuals[t] = y[t] - f.intercept
	}
	sse := 0.0
	for t := start; t < len(y); t++ {
		pred := f.intercept
		for i := 0; i < f.p; i++ {
			pred += f.ar[i] * (y[t-i-1] - f.intercept)
		}
		for i := 0; i < f.q; i++ {
			pred += f.ma[i] * residuals[t-i-1]
		}
		residuals[t] = y[t] - pred
		sse += residuals[t] * residuals[t]
	}
	return sse
}

// Forecast predicts steps values ahead on the original scale.
func (f *fittedARIMA) Forecast(steps int) ([]float64, error) {
	if steps < 1 {
		return nil, errors.New("arima: steps must be at least 1")
	}

	y := f.diff
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extRes := make([]float64, n+steps)
	copy(extRes, f.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := f.intercept
		for i := 0; i < f.p && t-i-1 >= 0; i++ {
			pred += f.ar[i] * (extY[t-i-1] - f.intercept)
		}
		// future residuals have expectation zero
		for i := 0; i < f.q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += f.ma[i] * extRes[t-i-1]
		}
		extY[t] = pred
		extRes[t] = 0
	}

	forecasts := append([]float64(nil), extY[n:]...)

	// Undo differencing to return to the original scale. Each pass
	// anchors on the last value of the next-lower-order series.
	for i := len(f.lasts) - 1; i >= 0; i-- {
		last := f.lasts[i]
		for j := range forecasts {
			if j == 0 {
				forecasts[j] += last
			} else {
				forecasts[j] += forecasts[j-1]
			}
		}
	}
	return forecasts, nil
}

// acf computes the autocorrelation function up to maxLag, including lag 0.
func acf(values []float64, maxLag int) []float64 {
	n := len(values)
	out := make([]float64, maxLag+1)
	if n == 0 {
		return out
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return out
	}

	out[0] = 1
	for lag := 1; lag <= maxLag && lag < n; lag++ {
		cov := 0.0
		for t := lag; t < n; t++ {
			cov += (values[t] - mean) * (values[t-lag] - mean)
		}
		out[lag] = cov / variance
	}
	return out
}

// yuleWalker solves the Yule-Walker equations for AR coefficients via
// Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}
	return phi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
