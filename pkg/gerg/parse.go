package gerg

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kthyng/tabs/pkg/series"
)

// naSentinel marks missing observations in tabsquery output.
const naSentinel = -999

var stampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTable reads a tab-delimited tabsquery table into a dataset. The first
// column is the timestamp, interpreted as UTC. When station is non-empty,
// column names are prefixed "<station>: " so joins across stations cannot
// collide.
func ParseTable(r io.Reader, station string) (*series.Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return series.Empty(), nil
	}
	header := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("malformed table header %q", sc.Text())
	}
	names := make([]string, len(header)-1)
	for i, h := range header[1:] {
		h = strings.TrimSpace(h)
		if station != "" {
			h = station + ": " + h
		}
		names[i] = h
	}

	var index []time.Time
	cols := make([][]float64, len(names))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		stamp, err := parseStamp(fields[0])
		if err != nil {
			return nil, err
		}
		index = append(index, stamp)
		for i := range names {
			v := math.NaN()
			if i+1 < len(fields) {
				v = parseValue(fields[i+1])
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	ds, err := series.New(index)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		if err := ds.AddColumn(name, cols[i]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func parseStamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v == naSentinel {
		return math.NaN()
	}
	return v
}
