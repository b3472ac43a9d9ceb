package gerg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testQuery() Query {
	return Query{
		Station: "B",
		Start:   time.Date(2017, time.August, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2017, time.August, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestTableURL(t *testing.T) {
	q := testQuery()
	want := "http://pong.tamu.edu/tabswebsite/subpages/tabsquery.php?" +
		"Buoyname=B&Datatype=download&datepicker=2017-08-01+-+2017-08-10&" +
		"model=False&table=met&tz=UTC&units=M"
	got := q.tableURL("met")
	if got != want {
		t.Errorf("got  %q", got)
		t.Errorf("want %q", want)
	}
}

func TestStationURL(t *testing.T) {
	q := testQuery()
	q.Station = "g06010"
	q.Model = true
	q.Datum = "MLLW"
	want := "http://pong.tamu.edu/tabswebsite/subpages/tabsquery.php?" +
		"Buoyname=g06010&Datatype=download&datepicker=2017-08-01+-+2017-08-10&" +
		"datum=MLLW&model=True&modelonly=True&tz=UTC&units=M"
	got := q.stationURL()
	if got != want {
		t.Errorf("got  %q", got)
		t.Errorf("want %q", want)
	}
}

func TestFetchBuoy(t *testing.T) {
	met := "Date\tAirT [deg C]\n" +
		"2017-08-01 00:00\t28.1\n" +
		"2017-08-01 00:30\t28.3\n"
	salt := "Date\tSalinity\n" +
		"2017-08-01 00:00\t32.5\n" +
		"2017-08-01 00:30\t32.6\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("table") {
		case "met":
			w.Write([]byte(met))
		case "salt":
			w.Write([]byte(salt))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	saved := queryURL
	queryURL = srv.URL
	defer func() { queryURL = saved }()

	ds, err := FetchBuoy(context.Background(), srv.Client(), testQuery())
	if err != nil {
		t.Fatalf("FetchBuoy: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("rows = %d, want 2", ds.Len())
	}
	wantCols := []string{"B: AirT [deg C]", "B: Salinity"}
	gotCols := ds.Columns()
	if len(gotCols) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", gotCols, wantCols)
	}
	for i := range wantCols {
		if gotCols[i] != wantCols[i] {
			t.Errorf("column %d = %q, want %q", i, gotCols[i], wantCols[i])
		}
	}
}

func TestFetchBuoyNothingServed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	saved := queryURL
	queryURL = srv.URL
	defer func() { queryURL = saved }()

	ds, err := FetchBuoy(context.Background(), srv.Client(), testQuery())
	if err != nil {
		t.Fatalf("FetchBuoy: %v", err)
	}
	if !ds.IsEmpty() {
		t.Errorf("expected an empty dataset, got %d rows", ds.Len())
	}
}
