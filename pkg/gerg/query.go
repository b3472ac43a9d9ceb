package gerg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kthyng/tabs/pkg/series"
)

var (
	queryURL = "http://pong.tamu.edu/tabswebsite/subpages/tabsquery.php"
	dailyURL = "http://pong.tamu.edu/tabswebsite/daily/"
)

const dateFormat = "2006-01-02"

// buoyTables are the instrument tables a TABS buoy may carry. Not every buoy
// has every table.
var buoyTables = []string{"met", "salt", "ven", "wave"}

// Query addresses one station and time window on the tabsquery service.
type Query struct {
	Station string
	Start   time.Time
	End     time.Time
	// Model requests model output for the station instead of observations.
	Model bool
	// Datum picks the reference level for tidal height columns. Empty keeps
	// the server default of MSL.
	Datum string
}

func (q *Query) datepicker() string {
	return q.Start.Format(dateFormat) + " - " + q.End.Format(dateFormat)
}

func (q *Query) tableURL(table string) string {
	vals := make(url.Values)
	vals.Add("Buoyname", q.Station)
	vals.Add("table", table)
	vals.Add("Datatype", "download")
	vals.Add("units", "M")
	vals.Add("tz", "UTC")
	vals.Add("model", "False")
	vals.Add("datepicker", q.datepicker())
	return queryURL + "?" + vals.Encode()
}

func (q *Query) stationURL() string {
	vals := make(url.Values)
	vals.Add("Buoyname", q.Station)
	vals.Add("Datatype", "download")
	vals.Add("units", "M")
	vals.Add("tz", "UTC")
	if q.Model {
		vals.Add("modelonly", "True")
		vals.Add("model", "True")
	} else {
		vals.Add("modelonly", "False")
		vals.Add("model", "False")
	}
	if q.Datum != "" {
		vals.Add("datum", q.Datum)
	}
	vals.Add("datepicker", q.datepicker())
	return queryURL + "?" + vals.Encode()
}

// FetchBuoy reads every instrument table a TABS buoy serves for the query
// window and joins them into one dataset. Tables the buoy does not carry are
// skipped. A buoy with no tables at all yields an empty dataset, not an
// error.
func FetchBuoy(ctx context.Context, client *http.Client, q Query) (*series.Dataset, error) {
	var parts []*series.Dataset
	for _, table := range buoyTables {
		ds, err := fetch(ctx, client, q.tableURL(table), q.Station)
		if err != nil {
			continue // not every buoy has every dataset
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

// FetchStation reads a non-TABS station (PORTS and friends), or model output
// when the query asks for it, through a single tabsquery request.
func FetchStation(ctx context.Context, client *http.Client, q Query) (*series.Dataset, error) {
	return fetch(ctx, client, q.stationURL(), q.Station)
}

// FetchProfile reads the full ADCP profile for a station whose id carries
// the _full suffix. The daily endpoint serves all available data; callers
// slice to a window afterwards. Profile columns keep their native names.
func FetchProfile(ctx context.Context, client *http.Client, station string) (*series.Dataset, error) {
	return fetch(ctx, client, dailyURL+station+"_all", "")
}

func fetch(ctx context.Context, client *http.Client, addr, station string) (*series.Dataset, error) {
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
		return nil, fmt.Errorf("tabsquery returned %s", resp.Status)
	}
	return ParseTable(resp.Body, station)
}
