package model

import "sort"

// Series is a year-indexed numeric series. Years and Values are parallel
// slices; a Series produced by the aggregator is sorted ascending by year
// and is not mutated afterwards.
type Series struct {
	Years  []int     `json:"years"`
	Values []float64 `json:"values"`
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Years)
}

// LastYear returns the final (largest) year, or 0 for an empty series.
func (s Series) LastYear() int {
	if len(s.Years) == 0 {
		return 0
	}
	return s.Years[len(s.Years)-1]
}

// SortByYear returns a copy of the series sorted ascending by year.
func (s Series) SortByYear() Series {
	idx := make([]int, len(s.Years))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Years[idx[a]] < s.Years[idx[b]]
	})

	out := Series{
		Years:  make([]int, len(s.Years)),
		Values: make([]float64, len(s.Values)),
	}
	for i, j := range idx {
		out.Years[i] = s.Years[j]
		out.Values[i] = s.Values[j]
	}
	return out
}

// Split partitions the series at position n: the first n observations and
// the remainder. Both halves are copies.
func (s Series) Split(n int) (Series, Series) {
	if n < 0 {
		n = 0
	}
	if n > len(s.Years) {
		n = len(s.Years)
	}
	head := Series{
		Years:  append([]int(nil), s.Years[:n]...),
		Values: append([]float64(nil), s.Values[:n]...),
	}
	tail := Series{
		Years:  append([]int(nil), s.Years[n:]...),
		Values: append([]float64(nil), s.Values[n:]...),
	}
	return head, tail
}

// WideTable is the aggregated view: one row per year, one column per
// declared subregion, cells holding summed values with zero fill.
type WideTable struct {
	Years   []int                `json:"years"`
	Columns []string             `json:"columns"`
	Data    map[string][]float64 `json:"data"`
}

// Column extracts one subregion's series from the table.
func (t *WideTable) Column(name string) Series {
	values, ok := t.Data[name]
	if !ok {
		return Series{}
	}
	return Series{
		Years:  append([]int(nil), t.Years...),
		Values: append([]float64(nil), values...),
	}
}

// Total sums every cell in the table.
func (t *WideTable) Total() float64 {
	sum := 0.0
	for _, values := range t.Data {
		for _, v := range values {
			sum += v
		}
	}
	return sum
}
