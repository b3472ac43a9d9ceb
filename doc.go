// Package tabs reads observational and model time series for coastal and
// inland Texas stations: TABS buoy telemetry from GERG, water quality from
// TWDB, stream gauge data from USGS NWIS, and PORTS current stations and
// model output from the tabsquery service. The shape of a station id picks
// the provider, so callers do not need to know what kind of station they
// have.
//
// A read returns one combined tabular time series: the outer join of every
// variable each station serves, on the union of their time indices, with NaN
// marking missing observations. Multi-instrument TABS reads default to
// half-hour mean resampling so instruments at different native rates share a
// grid.
//
//	ds, err := tabs.Read(ctx, tabs.ReadRequest{
//		Stations: []string{"B"},
//		Start:    "2017-8-1",
//		End:      "2017-8-10",
//	})
//
// A request that matches no upstream data returns a *NoDataError carrying a
// diagnostic; malformed requests and resample directives fail with
// ErrBadRequest instead.
package tabs
