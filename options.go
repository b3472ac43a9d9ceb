package tabs

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kthyng/tabs/pkg/series"
	"github.com/kthyng/tabs/pkg/usgs"
)

// ReadRequest describes one read of observational or model data. Station ids
// pick the provider (see stations.Classify); options that do not apply to
// the addressed provider are ignored. The request is validated at the
// boundary so provider code never sees a malformed option.
type ReadRequest struct {
	// Stations to read, combined into one dataset by outer join.
	Stations []string `validate:"required,min=1,dive,required"`

	// Start and End bound the read, as calendar timestamps with optional
	// time-of-day ("2017-8-1", "2017-08-01 12:30"). Optional for TWDB
	// stations and full ADCP profiles, required elsewhere.
	Start string
	End   string

	// TZ names a display timezone for the output index; the underlying
	// instants do not change. Default UTC.
	TZ string `validate:"omitempty,timezone"`

	// Datum picks the tidal height reference level where one applies.
	Datum string `validate:"omitempty,oneof=MSL MHHW MHW MLW MLLW MTL"`

	// Model requests model output for the stations instead of observations.
	Model bool

	// Freq and Variable apply to USGS gauges.
	Freq     usgs.Frequency `validate:"omitempty,oneof=iv dv"`
	Variable usgs.Variable  `validate:"omitempty,oneof=flow height storage"`

	// Binning applies to TWDB stations.
	Binning string `validate:"omitempty,oneof=mon day hour min"`

	// Resample converts the combined dataset to a target frequency. Nil
	// keeps native sampling, except for TABS buoy reads which default to
	// half-hour means.
	Resample *series.Directive
}

var validate = validator.New()

// Validate checks the request. Failures are usage errors wrapping
// ErrBadRequest, distinct from the no-data condition.
func (r *ReadRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if r.Resample != nil {
		if err := r.Resample.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	return nil
}

var stampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:04",
	"2006-1-2",
	time.RFC3339,
}

func parseStamp(s string) (time.Time, error) {
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not a calendar date with optional time of day", s)
}

// window parses the request's time bounds. Both empty yields zero times,
// which only TWDB and full-profile reads accept.
func (r *ReadRequest) window() (start, end time.Time, err error) {
	if r.Start == "" && r.End == "" {
		return
	}
	if r.Start == "" || r.End == "" {
		err = fmt.Errorf("%w: start and end must be given together", ErrBadRequest)
		return
	}
	if start, err = parseStamp(r.Start); err != nil {
		err = fmt.Errorf("%w: %v", ErrBadRequest, err)
		return
	}
	if end, err = parseStamp(r.End); err != nil {
		err = fmt.Errorf("%w: %v", ErrBadRequest, err)
		return
	}
	if end.Before(start) {
		err = fmt.Errorf("%w: end %s before start %s", ErrBadRequest, r.End, r.Start)
	}
	return
}
