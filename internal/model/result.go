package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FloatSeq is a float slice whose JSON form maps NaN to null, so results
// carrying failed-model placeholders survive marshalling.
type FloatSeq []float64

// MarshalJSON writes NaN elements as null.
func (f FloatSeq) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads null elements back as NaN.
func (f *FloatSeq) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FloatSeq, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *p
		}
	}
	*f = out
	return nil
}

// Metric is a single accuracy figure; NaN marshals to null.
type Metric float64

// MarshalJSON writes NaN as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	v := float64(m)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON reads null back as NaN.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Metric(v)
	return nil
}

// ModelRun holds one forecasting model's output for one subregion. A
// failed fit leaves EvalPredictions/Forecast full of NaN with Failed set;
// callers must handle both branches.
type ModelRun struct {
	Model           string   `json:"model"`
	EvalPredictions FloatSeq `json:"eval_predictions"`
	MAE             Metric   `json:"mae"`
	RMSE            Metric   `json:"rmse"`
	Forecast        FloatSeq `json:"forecast"`
	Failed          bool     `json:"failed"`
	FailureReason   string   `json:"failure_reason,omitempty"`
}

// ForecastResult is the full modeling output for one subregion. It is
// created once per pipeline run and never mutated afterwards.
type ForecastResult struct {
	Subregion     string     `json:"subregion"`
	EvalWindow    int        `json:"eval_window"` // effective window actually used
	Train         Series     `json:"train"`
	Eval          Series     `json:"eval"`
	Runs          []ModelRun `json:"runs"` // fixed order: ARIMA then Holt
	ForecastYears []int      `json:"forecast_years"`
	Warnings      []string   `json:"warnings,omitempty"`
}

// Run returns the named model's run, if present.
func (r *ForecastResult) Run(name string) (ModelRun, bool) {
	for _, run := range r.Runs {
		if run.Model == name {
			return run, true
		}
	}
	return ModelRun{}, false
}

// FlattenForecast renders the forward forecast as CSV rows: a header of
// Year plus one <MODEL>_ODA column per run, then one row per future year.
// NaN cells render empty.
func (r *ForecastResult) FlattenForecast() [][]string {
	header := []string{"Year"}
	for _, run := range r.Runs {
		header = append(header, fmt.Sprintf("%s_ODA", run.Model))
	}
	rows := [][]string{header}
	for i, year := range r.ForecastYears {
		row := []string{strconv.Itoa(year)}
		for _, run := range r.Runs {
			if i < len(run.Forecast) && !math.IsNaN(run.Forecast[i]) {
				row = append(row, strconv.FormatFloat(run.Forecast[i], 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}
