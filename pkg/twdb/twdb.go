// Package twdb reads coastal water-quality time series from the Texas Water
// Development Board API at waterdatafortexas.org. Each variable is a
// separate CSV endpoint; a station's available variables are fetched
// independently and joined. Timestamps are served in UTC.
package twdb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kthyng/tabs/pkg/series"
)

var baseURL = "https://waterdatafortexas.org/coastal/api/stations/"

const dateFormat = "2006-01-02"

// parameters maps the API's variable paths to the display names their
// columns get.
var parameters = []struct {
	path string
	name string
}{
	{"seawater_salinity", "Salinity"},
	{"water_depth_nonvented", "Depth [m]"},
	{"water_temperature", "WaterT [deg C]"},
	{"water_dissolved_oxygen_concentration", "Dissolved oxygen concentration [mgl]"},
	{"water_dissolved_oxygen_percent_saturation", "Dissolved oxygen saturation concentration [%]"},
	{"water_ph", "pH level"},
	{"water_turbidity", "Turbidity [ntu]"},
}

// Query addresses one TWDB station. A zero Start requests all available
// data. Binning picks the server-side granularity: mon, day, hour (the
// default), or min.
type Query struct {
	Station string
	Start   time.Time
	End     time.Time
	Binning string
}

func (q *Query) binning() string {
	if q.Binning == "" {
		return "hour"
	}
	return q.Binning
}

func (q *Query) parameterURL(path string) string {
	vals := make(url.Values)
	vals.Add("output_format", "csv")
	vals.Add("binning", q.binning())
	if !q.Start.IsZero() {
		vals.Add("start_date", q.Start.Format(dateFormat))
		vals.Add("end_date", q.End.Format(dateFormat))
	}
	return baseURL + q.Station + "/data/" + path + "?" + vals.Encode()
}

// Fetch reads every water-quality variable the station serves for the query
// window and joins them into one dataset. Variables the station does not
// measure are skipped; a station with none yields an empty dataset.
func Fetch(ctx context.Context, client *http.Client, q Query) (*series.Dataset, error) {
	var parts []*series.Dataset
	for _, p := range parameters {
		ds, err := fetchParameter(ctx, client, q.parameterURL(p.path), q.Station+": "+p.name)
		if err != nil {
			continue // not every station measures every variable
		}
		if !ds.IsEmpty() {
			parts = append(parts, ds)
		}
	}
	if len(parts) == 0 {
		return series.Empty(), nil
	}
	return series.Join(parts...)
}

func fetchParameter(ctx context.Context, client *http.Client, addr, column string) (*series.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twdb returned %s", resp.Status)
	}
	return ParseCSV(resp.Body, column)
}

var stampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseCSV reads one TWDB variable series: comment lines start with '#', the
// first data row is the header, and each remaining row is a timestamp and a
// value. The single column is named after the given column label.
func ParseCSV(r io.Reader, column string) (*series.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	var index []time.Time
	var vals []float64
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false // header row
			continue
		}
		if len(rec) < 2 {
			continue
		}
		stamp, err := parseStamp(rec[0])
		if err != nil {
			return nil, err
		}
		index = append(index, stamp)
		vals = append(vals, parseValue(rec[1]))
	}

	ds, err := series.New(index)
	if err != nil {
		return nil, err
	}
	if err := ds.AddColumn(column, vals); err != nil {
		return nil, err
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
	if err != nil {
		return math.NaN()
	}
	return v
}
