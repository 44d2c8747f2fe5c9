package salary

import (
	"fmt"
	"math"
	"sort"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

type point struct {
	percentile float64
	wage       float64
}

// curve lists the known (percentile, wage) points of figures in order.
func curve(w occupation.WageFigures) ([]point, error) {
	all := []point{{10, w.P10}, {25, w.P25}, {50, w.P50}, {75, w.P75}, {90, w.P90}}
	if w.P50 == 0 && w.Median > 0 {
		all[2].wage = w.Median
	}

	points := make([]point, 0, len(all))
	for _, p := range all {
		if p.wage > 0 {
			points = append(points, p)
		}
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%d wage points known: %w", len(points), ErrInsufficientWageData)
	}
	return points, nil
}

// PercentileOf places wage on the percentile curve of w by linear
// interpolation. Results are clamped to the known part of [10, 90].
func PercentileOf(wage float64, w occupation.WageFigures) (float64, error) {
	if wage < 0 || math.IsNaN(wage) {
		return 0, fmt.Errorf("wage %v: %w", wage, ErrInvalidInput)
	}
	points, err := curve(w)
	if err != nil {
		return 0, err
	}

	first, last := points[0], points[len(points)-1]
	if wage <= first.wage {
		return first.percentile, nil
	}
	if wage >= last.wage {
		return last.percentile, nil
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if wage > hi.wage {
			continue
		}
		if hi.wage == lo.wage {
			return lo.percentile, nil
		}
		return lo.percentile + (wage-lo.wage)/(hi.wage-lo.wage)*(hi.percentile-lo.percentile), nil
	}
	return last.percentile, nil
}

// WageAt returns the wage at percentile p of w, the inverse of PercentileOf.
func WageAt(p float64, w occupation.WageFigures) (float64, error) {
	if math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %v: %w", p, ErrInvalidInput)
	}
	points, err := curve(w)
	if err != nil {
		return 0, err
	}

	first, last := points[0], points[len(points)-1]
	if p <= first.percentile {
		return first.wage, nil
	}
	if p >= last.percentile {
		return last.wage, nil
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if p > hi.percentile {
			continue
		}
		return lo.wage + (p-lo.percentile)/(hi.percentile-lo.percentile)*(hi.wage-lo.wage), nil
	}
	return last.wage, nil
}

// Percentiles summarizes raw salary samples. Non-positive samples are ignored.
func Percentiles(samples []float64) (occupation.WageFigures, error) {
	sorted := make([]float64, 0, len(samples))
	var sum float64
	for _, s := range samples {
		if s > 0 && !math.IsInf(s, 0) {
			sorted = append(sorted, s)
			sum += s
		}
	}
	if len(sorted) == 0 {
		return occupation.WageFigures{}, fmt.Errorf("no salary samples: %w", ErrInsufficientWageData)
	}
	sort.Float64s(sorted)

	at := func(p float64) float64 {
		rank := p / 100 * float64(len(sorted)-1)
		lo := int(math.Floor(rank))
		hi := int(math.Ceil(rank))
		return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
	}

	median := at(50)
	return occupation.WageFigures{
		P10:    at(10),
		P25:    at(25),
		P50:    median,
		P75:    at(75),
		P90:    at(90),
		Mean:   sum / float64(len(sorted)),
		Median: median,
	}, nil
}
