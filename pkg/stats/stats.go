package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series collects raw readings of one quantity. It reports on them but never
// alters them.
type Series struct {
	Name   string
	Unit   string
	values []float64
}

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
	// Trend is the least squares slope per sample.
	Trend float64
}

func NewSeries(name, unit string) *Series {
	return &Series{Name: name, Unit: unit}
}

func (s *Series) Add(value float64) {
	s.values = append(s.values, value)
}

func (s *Series) Len() int {
	return len(s.values)
}

func (s *Series) Summary() Summary {
	n := len(s.values)
	if n == 0 {
		return Summary{}
	}
	sorted := make([]float64, n)
	copy(sorted, s.values)
	sort.Float64s(sorted)

	sum := Summary{
		N:      n,
		Mean:   stat.Mean(s.values, nil),
		Min:    floats.Min(s.values),
		Max:    floats.Max(s.values),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if n < 2 {
		return sum
	}
	sum.StdDev = stat.StdDev(s.values, nil)

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	_, sum.Trend = stat.LinearRegression(x, s.values, nil, false)
	return sum
}

func (s *Series) String() string {
	m := s.Summary()
	return fmt.Sprintf("%s: n=%d mean=%.3f%s sd=%.3f min=%.3f max=%.3f median=%.3f trend=%+.4f/sample",
		s.Name, m.N, m.Mean, s.Unit, m.StdDev, m.Min, m.Max, m.Median, m.Trend)
}
