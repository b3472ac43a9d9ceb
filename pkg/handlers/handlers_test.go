package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/kthyng/tabs/pkg/daylight"
	"github.com/kthyng/tabs/pkg/stations"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRouter() *mux.Router {
	r := mux.NewRouter()
	Register(r, testLogger(), time.Minute)
	return r
}

// fakeTransport answers provider requests without a network.
type fakeTransport func(*http.Request) (*http.Response, error)

func (f fakeTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestHandleStation(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stations/B", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var st stations.Station
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if st.ID != "B" || st.Kind != stations.KindTABS {
		t.Errorf("got station %+v", st)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stations/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown station status = %d, want 404", w.Code)
	}
}

func TestHandleSun(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/stations/B/sun?start=2021-04-03T00:00:00Z&days=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var events []daylight.Event
	if err := json.NewDecoder(w.Body).Decode(&events); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(events) != 4 {
		t.Errorf("got %d events over two days, want 4", len(events))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/stations/B/sun?days=zero", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad days status = %d, want 400", w.Code)
	}
}

func TestHandleReadBadRequest(t *testing.T) {
	r := testRouter()

	// Missing time window for a buoy never reaches the network.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/read?stations=B", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/read?stations=B&resample=bogus", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad directive status = %d, want 400", w.Code)
	}
}

func TestHandleRead(t *testing.T) {
	body := "Date\tAirT [deg C]\n" +
		"2017-08-01 00:00\t1\n" +
		"2017-08-01 00:30\t2\n" +
		"2017-08-01 01:00\t3\n"
	var requests int
	client := &http.Client{Transport: fakeTransport(func(r *http.Request) (*http.Response, error) {
		requests++
		if r.URL.Query().Get("table") == "met" {
			return respond(http.StatusOK, body), nil
		}
		return respond(http.StatusNotFound, ""), nil
	})}
	s := newServer(client, testLogger(), time.Minute)
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/read", s.handleRead)

	const target = "/api/v1/read?stations=B&start=2017-8-1&end=2017-8-10"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	got := w.Body.String()
	if !strings.Contains(got, "B: AirT [deg C]") {
		t.Errorf("body missing column header:\n%s", got)
	}
	fetched := requests

	// Same query again comes from cache.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("cached status = %d", w.Code)
	}
	if w.Body.String() != got {
		t.Error("cached body differs from first response")
	}
	if requests != fetched {
		t.Errorf("cache hit still made %d upstream requests", requests-fetched)
	}
}

func TestHandleReadNoData(t *testing.T) {
	client := &http.Client{Transport: fakeTransport(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusNotFound, ""), nil
	})}
	s := newServer(client, testLogger(), time.Minute)
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/read", s.handleRead)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/read?stations=B&start=2017-8-1&end=2017-8-10", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRequestFromQuery(t *testing.T) {
	q := make(map[string][]string)
	for k, v := range map[string]string{
		"stations": "B,8770475",
		"start":    "2017-8-1",
		"end":      "2017-8-10",
		"tz":       "US/Central",
		"model":    "true",
		"resample": "30m,0,mean",
	} {
		q[k] = []string{v}
	}
	req, err := requestFromQuery(q)
	if err != nil {
		t.Fatalf("requestFromQuery: %v", err)
	}
	if len(req.Stations) != 2 || req.Stations[1] != "8770475" {
		t.Errorf("stations = %v", req.Stations)
	}
	if !req.Model {
		t.Error("model flag not set")
	}
	if req.Resample == nil || req.Resample.Freq != 30*time.Minute {
		t.Errorf("resample = %+v", req.Resample)
	}

	if _, err := requestFromQuery(map[string][]string{"model": {"maybe"}}); err == nil {
		t.Error("bad model flag accepted")
	}
}
