// Package smooth fits a natural cubic spline through dated values and
// resamples it into an evenly spaced series for charting.
package smooth

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"github.com/theirongolddev/cashburn/internal/model"
)

const (
	// MinPoints is the fewest distinct timestamps a cubic fit accepts.
	MinPoints = 4
	// DefaultPoints is the resample density used for trendlines.
	DefaultPoints = 500
)

// ErrInsufficientPoints is returned by Fit when fewer than MinPoints
// distinct timestamps are available.
var ErrInsufficientPoints = errors.New("insufficient data for smoothing")

// Curve is a fitted spline over a time axis measured in Unix seconds.
type Curve struct {
	spline   interp.NaturalCubic
	min, max float64
	raw      []model.Point
}

// Fit fits a natural cubic spline through points. Points may arrive in any
// order; values sharing a timestamp are averaged.
func Fit(points []model.Point) (*Curve, error) {
	xs, ys := axis(points)
	if len(xs) < MinPoints {
		return nil, fmt.Errorf("%w: %d distinct dates, need %d", ErrInsufficientPoints, len(xs), MinPoints)
	}

	c := &Curve{
		min: xs[0],
		max: xs[len(xs)-1],
		raw: slices.Clone(points),
	}
	if err := c.spline.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting spline: %w", err)
	}
	return c, nil
}

// Span returns the first and last dates covered by the curve.
func (c *Curve) Span() (time.Time, time.Time) {
	return toTime(c.min), toTime(c.max)
}

// At evaluates the curve at d.
func (c *Curve) At(d time.Time) float64 {
	return c.spline.Predict(toSeconds(d))
}

// Resample evaluates the curve at n evenly spaced dates spanning the input
// range inclusive of both ends. n below 2 is raised to 2.
func (c *Curve) Resample(n int) *Series {
	n = max(n, 2)
	grid := make([]float64, n)
	floats.Span(grid, c.min, c.max)
	grid[0], grid[n-1] = c.min, c.max

	return &Series{
		Raw:   c.raw,
		grid:  grid,
		curve: c,
	}
}

// Series is a resampled curve plus the points it was fit to.
type Series struct {
	Raw []model.Point

	grid  []float64
	curve *Curve
}

// Len is the number of resampled points.
func (s *Series) Len() int { return len(s.grid) }

// Points yields the resampled curve lazily; the spline is evaluated as the
// sequence is consumed.
func (s *Series) Points() iter.Seq[model.Point] {
	return func(yield func(model.Point) bool) {
		for _, x := range s.grid {
			if !yield(model.Point{Date: toTime(x), Value: s.curve.spline.Predict(x)}) {
				return
			}
		}
	}
}

// Collect materialises the resampled curve.
func (s *Series) Collect() []model.Point {
	return slices.Collect(s.Points())
}

// Smooth fits points and resamples the curve to n points.
func Smooth(points []model.Point, n int) (*Series, error) {
	c, err := Fit(points)
	if err != nil {
		return nil, err
	}
	return c.Resample(n), nil
}

// axis orders points by time, drops non-finite values and collapses
// duplicate timestamps to their mean.
func axis(points []model.Point) (xs, ys []float64) {
	sorted := make([]model.Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var group []float64
	flush := func() {
		if len(group) > 0 {
			ys = append(ys, stat.Mean(group, nil))
			group = group[:0]
		}
	}
	for i, p := range sorted {
		x := toSeconds(p.Date)
		if i == 0 || x != xs[len(xs)-1] {
			flush()
			xs = append(xs, x)
		}
		group = append(group, p.Value)
	}
	flush()
	return xs, ys
}

func toSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func toTime(x float64) time.Time {
	sec, frac := math.Modf(x)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
