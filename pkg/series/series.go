// Package series implements the tabular time series type shared by every
// data provider: an ordered, timezone-aware time index with named float
// columns, outer joins over the union of indices, slicing, selection, and
// frequency conversion. A NaN cell marks a missing observation; missing data
// is never written as zero and never dropped.
package series

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Dataset is a time-indexed table of named float columns. The index is
// strictly increasing. Datasets are constructed fresh per read and are not
// mutated after construction, apart from AddColumn during assembly.
type Dataset struct {
	index []time.Time
	cols  []string
	data  map[string][]float64
	loc   *time.Location
}

// New creates a dataset with no columns over the given index. The index must
// be strictly increasing.
func New(index []time.Time) (*Dataset, error) {
	for i := 1; i < len(index); i++ {
		if !index[i-1].Before(index[i]) {
			return nil, fmt.Errorf("index not strictly increasing at %d: %s >= %s",
				i-1, index[i-1], index[i])
		}
	}
	loc := time.UTC
	if len(index) > 0 {
		loc = index[0].Location()
	}
	return &Dataset{
		index: index,
		data:  make(map[string][]float64),
		loc:   loc,
	}, nil
}

// Empty returns a dataset with no rows and no columns. It is the "no
// observations" value returned by fetchers when a station has nothing in the
// requested range.
func Empty() *Dataset {
	return &Dataset{
		data: make(map[string][]float64),
		loc:  time.UTC,
	}
}

// AddColumn appends a named column. The values must cover the whole index.
func (ds *Dataset) AddColumn(name string, vals []float64) error {
	if len(vals) != len(ds.index) {
		return fmt.Errorf("column %q has %d values for %d index entries",
			name, len(vals), len(ds.index))
	}
	if _, ok := ds.data[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	ds.cols = append(ds.cols, name)
	ds.data[name] = vals
	return nil
}

// Len returns the number of rows.
func (ds *Dataset) Len() int {
	return len(ds.index)
}

// IsEmpty reports whether the dataset has no rows.
func (ds *Dataset) IsEmpty() bool {
	return len(ds.index) == 0
}

// Index returns the time index.
func (ds *Dataset) Index() []time.Time {
	return ds.index
}

// Columns returns the column names in order.
func (ds *Dataset) Columns() []string {
	return ds.cols
}

// Column returns the values of a named column.
func (ds *Dataset) Column(name string) ([]float64, bool) {
	vals, ok := ds.data[name]
	return vals, ok
}

// Interval returns the native sampling interval, taken from the first two
// index entries, or zero when there are fewer than two rows.
func (ds *Dataset) Interval() time.Duration {
	if len(ds.index) < 2 {
		return 0
	}
	return ds.index[1].Sub(ds.index[0])
}

// Location returns the display zone of the time index.
func (ds *Dataset) Location() *time.Location {
	return ds.loc
}

// ConvertZone returns a view of the dataset whose index is labeled and
// formatted in loc. The underlying instants do not change.
func (ds *Dataset) ConvertZone(loc *time.Location) *Dataset {
	out := *ds
	out.loc = loc
	return &out
}

// Slice returns the rows with from <= t <= to. Both bounds are inclusive,
// matching a label-based row range.
func (ds *Dataset) Slice(from, to time.Time) *Dataset {
	lo := sort.Search(len(ds.index), func(i int) bool { return !ds.index[i].Before(from) })
	hi := sort.Search(len(ds.index), func(i int) bool { return ds.index[i].After(to) })
	out := &Dataset{
		index: ds.index[lo:hi],
		cols:  ds.cols,
		data:  make(map[string][]float64, len(ds.cols)),
		loc:   ds.loc,
	}
	for _, name := range ds.cols {
		out.data[name] = ds.data[name][lo:hi]
	}
	return out
}

// Select returns a dataset restricted to the named columns, in the given
// order.
func (ds *Dataset) Select(names ...string) (*Dataset, error) {
	out := &Dataset{
		index: ds.index,
		data:  make(map[string][]float64, len(names)),
		loc:   ds.loc,
	}
	for _, name := range names {
		vals, ok := ds.data[name]
		if !ok {
			return nil, fmt.Errorf("no column %q", name)
		}
		out.cols = append(out.cols, name)
		out.data[name] = vals
	}
	return out, nil
}

// Join outer-joins datasets on their time indices. The result's index is the
// union of all input indices and its columns are the concatenation of all
// input columns, so the row count equals the number of distinct timestamps
// and the column count is the sum of the inputs'. Cells with no source
// observation are NaN. Column names collide only if two inputs share one,
// which is an error.
func Join(datasets ...*Dataset) (*Dataset, error) {
	seen := make(map[int64]bool)
	var union []time.Time
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		for _, t := range ds.index {
			if k := t.UnixNano(); !seen[k] {
				seen[k] = true
				union = append(union, t)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Before(union[j]) })

	out, err := New(union)
	if err != nil {
		return nil, err
	}
	pos := make(map[int64]int, len(union))
	for i, t := range union {
		pos[t.UnixNano()] = i
	}
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		for _, name := range ds.cols {
			src := ds.data[name]
			vals := make([]float64, len(union))
			for i := range vals {
				vals[i] = math.NaN()
			}
			for i, t := range ds.index {
				vals[pos[t.UnixNano()]] = src[i]
			}
			if err := out.AddColumn(name, vals); err != nil {
				return nil, err
			}
		}
	}
	for _, ds := range datasets {
		if ds != nil {
			out.loc = ds.loc
			break
		}
	}
	return out, nil
}
