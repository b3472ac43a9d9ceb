package tabs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kthyng/tabs/pkg/gerg"
	"github.com/kthyng/tabs/pkg/series"
	"github.com/kthyng/tabs/pkg/stations"
	"github.com/kthyng/tabs/pkg/twdb"
	"github.com/kthyng/tabs/pkg/usgs"
)

const fullSuffix = "_full"

// Read fetches and combines observations for the requested stations. Each
// station is fetched from its own provider; one station failing does not
// abort the others. If every station comes back empty the result is a
// *NoDataError carrying the per-station diagnostics.
func Read(ctx context.Context, req ReadRequest) (*series.Dataset, error) {
	return ReadWith(ctx, http.DefaultClient, req)
}

// ReadWith is Read with a caller-supplied HTTP client.
func ReadWith(ctx context.Context, client *http.Client, req ReadRequest) (*series.Dataset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end, err := req.window()
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if req.TZ != "" {
		loc, err = time.LoadLocation(req.TZ)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrBadRequest, req.TZ)
		}
	}

	directive := req.Resample
	var parts []*series.Dataset
	var diags []string
	for _, id := range req.Stations {
		ds, err := fetchStation(ctx, client, id, start, end, req)
		if errors.Is(err, ErrBadRequest) {
			return nil, err
		}
		if err != nil {
			diags = append(diags, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if ds.IsEmpty() {
			diags = append(diags, fmt.Sprintf("%s: no observations in range", id))
			continue
		}
		parts = append(parts, ds)

		// TABS wave tables sample slower than the rest of the buoy, which
		// riddles the joined dataset with regular gaps; buoy reads therefore
		// default to half-hour means.
		if directive == nil && !req.Model && stations.Classify(id) == stations.KindTABS {
			d := series.DefaultDirective()
			directive = &d
		}
	}
	if len(parts) == 0 {
		return nil, &NoDataError{Stations: req.Stations, Diagnostic: diagnostic(diags)}
	}

	ds, err := series.Join(parts...)
	if err != nil {
		return nil, err
	}
	ds = ds.ConvertZone(loc)

	if directive != nil {
		ds, err = ds.Resample(*directive)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	}
	return ds, nil
}

// Metadata returns the static attributes for a known station.
func Metadata(id string) (stations.Station, error) {
	st, ok := stations.Lookup(id)
	if !ok {
		return stations.Station{}, fmt.Errorf("no metadata for station %q", id)
	}
	return st, nil
}

func fetchStation(ctx context.Context, client *http.Client, id string, start, end time.Time, req ReadRequest) (*series.Dataset, error) {
	if strings.HasSuffix(id, fullSuffix) {
		ds, err := gerg.FetchProfile(ctx, client, id)
		if err != nil {
			return nil, err
		}
		if !start.IsZero() {
			ds = ds.Slice(start, end)
		}
		return ds, nil
	}

	if req.Model {
		if err := requireWindow(id, start); err != nil {
			return nil, err
		}
		return gerg.FetchStation(ctx, client, gerg.Query{
			Station: id, Start: start, End: end, Model: true, Datum: req.Datum,
		})
	}

	switch stations.Classify(id) {
	case stations.KindTABS:
		if err := requireWindow(id, start); err != nil {
			return nil, err
		}
		return gerg.FetchBuoy(ctx, client, gerg.Query{Station: id, Start: start, End: end})

	case stations.KindUSGS:
		if err := requireWindow(id, start); err != nil {
			return nil, err
		}
		return usgs.Fetch(ctx, client, usgs.Query{
			Sites: []string{id}, Start: start, End: end,
			Freq: req.Freq, Var: req.Variable,
		})

	case stations.KindTWDB:
		return twdb.Fetch(ctx, client, twdb.Query{
			Station: id, Start: start, End: end, Binning: req.Binning,
		})

	default:
		if err := requireWindow(id, start); err != nil {
			return nil, err
		}
		return gerg.FetchStation(ctx, client, gerg.Query{
			Station: id, Start: start, End: end, Datum: req.Datum,
		})
	}
}

func requireWindow(id string, start time.Time) error {
	if start.IsZero() {
		return fmt.Errorf("%w: start and end times are required for station %q", ErrBadRequest, id)
	}
	return nil
}

func diagnostic(diags []string) string {
	if len(diags) == 0 {
		return "no observations in range"
	}
	return strings.Join(diags, "; ")
}
