package series

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kthyng/tabs/pkg/timegrid"
)

// Mode selects how samples are combined when the sampling rate changes.
type Mode int

const (
	// Instant resamples to the instantaneous value at each grid point,
	// linearly interpolating between bracketing samples. Only valid when
	// upsampling or converting at an equal rate.
	Instant Mode = iota
	// Mean averages the samples falling in each output interval. Only valid
	// when downsampling.
	Mean
)

// Label selects where a downsampled interval's output timestamp is placed.
type Label int

const (
	LabelLeft Label = iota
	LabelMidpoint
)

// Directive describes a frequency conversion: the target period, the anchor
// offset past each period boundary the grid is built from, the aggregation
// mode, and where interval labels go.
type Directive struct {
	Freq  time.Duration
	Base  time.Duration
	Mode  Mode
	Label Label
}

var (
	// ErrDownsampleInstant reports an instant-mode directive applied in the
	// downsampling direction. Reducing the sample count requires averaging.
	ErrDownsampleInstant = errors.New("downsampling requires mean mode, not instant")

	// ErrUpsampleMean reports a mean-mode directive applied in the upsampling
	// direction. Adding samples requires interpolation, not averaging.
	ErrUpsampleMean = errors.New("upsampling requires instant mode, not mean")

	// ErrEmptyDataset reports a resample of a dataset with no rows.
	ErrEmptyDataset = errors.New("cannot resample an empty dataset")
)

// maxGapIntervals limits interpolation across holes in the source data. A
// grid point whose bracketing known samples lie further apart than this many
// native intervals stays NaN.
const maxGapIntervals = 10

// DefaultDirective is the conversion applied to a multi-instrument read when
// the caller does not pick one: half-hour means anchored at minute 0. It
// reconciles instruments natively sampled at different rates.
func DefaultDirective() Directive {
	return Directive{Freq: 30 * time.Minute, Mode: Mean, Label: LabelLeft}
}

// Validate checks the directive in isolation. Consistency of the mode with
// the resampling direction depends on the dataset and is checked in Resample.
func (d Directive) Validate() error {
	if d.Freq <= 0 {
		return fmt.Errorf("resample frequency must be positive, got %s", d.Freq)
	}
	if d.Base < 0 || d.Base >= d.Freq {
		return fmt.Errorf("resample base %s must be in [0, %s)", d.Base, d.Freq)
	}
	if d.Mode != Instant && d.Mode != Mean {
		return fmt.Errorf("unknown resample mode %d", d.Mode)
	}
	if d.Label != LabelLeft && d.Label != LabelMidpoint {
		return fmt.Errorf("unknown resample label %d", d.Label)
	}
	return nil
}

// ParseDirective reads a directive from "freq,base,mode[,label]", for
// example "30m,0,mean,midpoint" or "15m,5m,instant". Freq and base are Go
// durations, mode is "instant" or "mean", label is "left" (default) or
// "midpoint".
func ParseDirective(s string) (Directive, error) {
	var d Directive
	parts := strings.Split(s, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return d, fmt.Errorf("directive %q: want freq,base,mode[,label]", s)
	}
	freq, err := time.ParseDuration(strings.TrimSpace(parts[0]))
	if err != nil {
		return d, fmt.Errorf("directive frequency: %w", err)
	}
	base, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil {
		return d, fmt.Errorf("directive base: %w", err)
	}
	d.Freq, d.Base = freq, base
	switch mode := strings.TrimSpace(parts[2]); mode {
	case "instant":
		d.Mode = Instant
	case "mean":
		d.Mode = Mean
	default:
		return d, fmt.Errorf("directive mode %q: want instant or mean", mode)
	}
	if len(parts) == 4 {
		switch label := strings.TrimSpace(parts[3]); label {
		case "left":
			d.Label = LabelLeft
		case "midpoint":
			d.Label = LabelMidpoint
		default:
			return d, fmt.Errorf("directive label %q: want left or midpoint", label)
		}
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// Resample converts the dataset to the directive's frequency. The direction
// is found by comparing the target period with the dataset's native
// interval: a target shorter than the native interval upsamples by linear
// interpolation, a longer one downsamples by averaging, and an equal rate
// accepts either mode. A directive whose mode contradicts the detected
// direction is rejected before any aggregation.
func (ds *Dataset) Resample(d Directive) (*Dataset, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if ds.Len() == 1 {
		// No native interval to compare against; leave the single sample be.
		return ds, nil
	}
	native := ds.Interval()
	switch {
	case d.Freq > native:
		if d.Mode != Mean {
			return nil, ErrDownsampleInstant
		}
		return ds.downsample(d), nil
	case d.Freq < native:
		if d.Mode != Instant {
			return nil, ErrUpsampleMean
		}
		return ds.upsample(d), nil
	default:
		// Equal rate is consistent with either mode.
		if d.Mode == Mean {
			return ds.downsample(d), nil
		}
		return ds.upsample(d), nil
	}
}

// downsample averages samples into intervals of d.Freq. Intervals are closed
// on the left; the final interval also takes a sample landing exactly on its
// right edge so the end of the data range is never orphaned into an interval
// of its own. An interval with no samples yields NaN.
func (ds *Dataset) downsample(d Directive) *Dataset {
	first := ds.index[0]
	last := ds.index[len(ds.index)-1]
	start := timegrid.Floor(first, d.Freq, d.Base)
	n := int((last.Sub(start) + d.Freq - 1) / d.Freq)
	if n < 1 {
		n = 1
	}

	out := &Dataset{
		index: make([]time.Time, n),
		data:  make(map[string][]float64, len(ds.cols)),
		loc:   ds.loc,
	}
	for i := range out.index {
		left := start.Add(time.Duration(i) * d.Freq)
		if d.Label == LabelMidpoint {
			out.index[i] = timegrid.Midpoint(left, d.Freq)
		} else {
			out.index[i] = left
		}
	}

	for _, name := range ds.cols {
		src := ds.data[name]
		sums := make([]float64, n)
		counts := make([]int, n)
		for i, t := range ds.index {
			v := src[i]
			if math.IsNaN(v) {
				continue
			}
			k := int(t.Sub(start) / d.Freq)
			if k == n {
				k-- // sample exactly on the final right edge
			}
			sums[k] += v
			counts[k]++
		}
		vals := make([]float64, n)
		for i := range vals {
			if counts[i] == 0 {
				vals[i] = math.NaN()
			} else {
				vals[i] = sums[i] / float64(counts[i])
			}
		}
		out.cols = append(out.cols, name)
		out.data[name] = vals
	}
	return out
}

// upsample evaluates each column at the grid points implied by the
// directive, interpolating linearly in time between bracketing known
// samples. A grid point coinciding with a source sample takes that value
// exactly. Points outside the data range, or over gaps wider than
// maxGapIntervals native intervals, stay NaN.
func (ds *Dataset) upsample(d Directive) *Dataset {
	first := ds.index[0]
	last := ds.index[len(ds.index)-1]
	var grid []time.Time
	for t := timegrid.Ceil(first, d.Freq, d.Base); !t.After(last); t = t.Add(d.Freq) {
		grid = append(grid, t)
	}

	maxGap := time.Duration(maxGapIntervals) * ds.Interval()
	out := &Dataset{
		index: grid,
		cols:  ds.cols,
		data:  make(map[string][]float64, len(ds.cols)),
		loc:   ds.loc,
	}
	for _, name := range ds.cols {
		src := ds.data[name]
		vals := make([]float64, len(grid))
		for i, t := range grid {
			vals[i] = ds.interpAt(src, t, maxGap)
		}
		out.data[name] = vals
	}
	return out
}

// interpAt evaluates one column at instant t, skipping NaN source samples to
// find the nearest known neighbors on each side.
func (ds *Dataset) interpAt(src []float64, t time.Time, maxGap time.Duration) float64 {
	n := len(ds.index)
	i := sort.Search(n, func(k int) bool { return !ds.index[k].Before(t) })
	if i < n && ds.index[i].Equal(t) && !math.IsNaN(src[i]) {
		return src[i]
	}

	lo := i - 1
	for lo >= 0 && math.IsNaN(src[lo]) {
		lo--
	}
	hi := i
	if hi < n && ds.index[hi].Equal(t) {
		hi++ // the coincident sample is NaN, look past it
	}
	for hi < n && math.IsNaN(src[hi]) {
		hi++
	}
	if lo < 0 || hi >= n {
		return math.NaN()
	}

	t0, t1 := ds.index[lo], ds.index[hi]
	if t1.Sub(t0) > maxGap {
		return math.NaN()
	}
	frac := float64(t.Sub(t0)) / float64(t1.Sub(t0))
	return src[lo] + (src[hi]-src[lo])*frac
}
