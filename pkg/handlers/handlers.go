// Package handlers wires the read API onto an HTTP router: combined
// time-series reads as CSV, station metadata as JSON, and sun events per
// station.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/kthyng/tabs"
	"github.com/kthyng/tabs/pkg/cache"
	"github.com/kthyng/tabs/pkg/daylight"
	"github.com/kthyng/tabs/pkg/metrics"
	"github.com/kthyng/tabs/pkg/series"
	"github.com/kthyng/tabs/pkg/usgs"
)

const fetchTimeout = 60 * time.Second

type server struct {
	client *http.Client
	cache  *cache.Timed
	log    *slog.Logger
}

// Register mounts the API on the router. Successful read responses are
// cached for ttl keyed by the canonical query.
func Register(r *mux.Router, log *slog.Logger, ttl time.Duration) {
	s := newServer(&http.Client{Timeout: fetchTimeout}, log, ttl)
	r.HandleFunc("/api/v1/read", s.handleRead).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/stations/{id}", s.handleStation).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/stations/{id}/sun", s.handleSun).Methods(http.MethodGet)
}

func newServer(client *http.Client, log *slog.Logger, ttl time.Duration) *server {
	return &server{
		client: client,
		cache:  cache.NewTimed(ttl),
		log:    log,
	}
}

func (s *server) handleRead(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		metrics.CountRead("bad_request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := r.URL.Query().Encode()
	if body, ok := s.cache.Get(key); ok {
		metrics.CountRead("cached")
		w.Header().Set("Content-Type", "text/csv")
		w.Write(body)
		return
	}

	ds, err := tabs.ReadWith(r.Context(), s.client, req)
	switch {
	case errors.Is(err, tabs.ErrBadRequest):
		metrics.CountRead("bad_request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case tabs.IsNoData(err):
		metrics.CountRead("no_data")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		metrics.CountRead("error")
		s.log.Error("read failed", "stations", req.Stations, "err", err)
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf); err != nil {
		metrics.CountRead("error")
		s.log.Error("encoding csv", "err", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	s.cache.Set(key, buf.Bytes())
	metrics.CountRead("ok")

	s.log.Info("read", "stations", req.Stations, "rows", ds.Len(), "cols", len(ds.Columns()))
	w.Header().Set("Content-Type", "text/csv")
	w.Write(buf.Bytes())
}

func (s *server) handleStation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st, err := tabs.Metadata(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (s *server) handleSun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st, err := tabs.Metadata(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	start := time.Now()
	if v := r.FormValue("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, fmt.Sprintf("bad start %q: %v", v, err), http.StatusBadRequest)
			return
		}
		start = parsed
	}
	days := 1
	if v := r.FormValue("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, fmt.Sprintf("bad days %q", v), http.StatusBadRequest)
			return
		}
		days = parsed
	}

	events := daylight.ForStation(st, start, time.Duration(days)*24*time.Hour)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// requestFromQuery maps URL parameters onto a ReadRequest. Full validation
// happens inside Read; this only rejects what cannot be represented.
func requestFromQuery(q url.Values) (tabs.ReadRequest, error) {
	req := tabs.ReadRequest{
		Start:    q.Get("start"),
		End:      q.Get("end"),
		TZ:       q.Get("tz"),
		Datum:    q.Get("datum"),
		Freq:     usgs.Frequency(q.Get("freq")),
		Variable: usgs.Variable(q.Get("var")),
		Binning:  q.Get("binning"),
	}
	if v := q.Get("stations"); v != "" {
		req.Stations = strings.Split(v, ",")
	}
	if v := q.Get("model"); v != "" {
		model, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("bad model flag %q: %w", v, err)
		}
		req.Model = model
	}
	if v := q.Get("resample"); v != "" {
		d, err := series.ParseDirective(v)
		if err != nil {
			return req, err
		}
		req.Resample = &d
	}
	return req, nil
}
