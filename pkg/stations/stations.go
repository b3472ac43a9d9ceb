// Package stations classifies station identifiers by their providing
// service and carries static metadata for known stations.
package stations

import (
	"fmt"
)

// Kind names the service that serves a station's data.
type Kind string

const (
	// KindTABS is a GERG TABS buoy, addressed by a single letter.
	KindTABS Kind = "tabs"
	// KindUSGS is a USGS stream gauge, addressed by an eight-digit site code.
	KindUSGS Kind = "usgs"
	// KindTWDB is a TWDB coastal station, addressed by a four-letter code.
	KindTWDB Kind = "twdb"
	// KindPORTS covers everything else served by the tabsquery endpoint,
	// including PORTS current stations and model output.
	KindPORTS Kind = "ports"
)

// Station is the static metadata record for one station.
type Station struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Kind Kind    `json:"kind"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (s Station) String() string {
	return fmt.Sprintf("%s (%s) %s at %.4f, %.4f", s.ID, s.Kind, s.Name, s.Lat, s.Lon)
}

// Classify infers the providing service from the shape of a station id:
// single-letter ids are TABS buoys, eight-digit ids are USGS gauges,
// four-letter ids (and DOLLAR) are TWDB stations, and anything else falls
// through to the PORTS/tabsquery endpoint.
func Classify(id string) Kind {
	switch {
	case len(id) == 1:
		return KindTABS
	case len(id) == 8 && isDigits(id):
		return KindUSGS
	case len(id) == 4 || id == "DOLLAR":
		return KindTWDB
	default:
		return KindPORTS
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Lookup returns the metadata for a known station id.
func Lookup(id string) (Station, bool) {
	st, ok := catalog[id]
	return st, ok
}

// All returns every station in the catalog. The order is unspecified.
func All() []Station {
	out := make([]Station, 0, len(catalog))
	for _, st := range catalog {
		out = append(out, st)
	}
	return out
}

// catalog holds the stations this library knows coordinates for. USGS gauges
// are not listed; their metadata lives with NWIS and their ids are open-ended.
var catalog = map[string]Station{
	// TABS buoys.
	"B": {ID: "B", Name: "TABS Buoy B", Kind: KindTABS, Lat: 28.9823, Lon: -94.8990},
	"D": {ID: "D", Name: "TABS Buoy D", Kind: KindTABS, Lat: 27.9396, Lon: -96.8430},
	"F": {ID: "F", Name: "TABS Buoy F", Kind: KindTABS, Lat: 28.8425, Lon: -94.2416},
	"J": {ID: "J", Name: "TABS Buoy J", Kind: KindTABS, Lat: 26.1914, Lon: -97.0507},
	"K": {ID: "K", Name: "TABS Buoy K", Kind: KindTABS, Lat: 26.2170, Lon: -96.4998},
	"N": {ID: "N", Name: "TABS Buoy N", Kind: KindTABS, Lat: 27.8903, Lon: -94.0370},
	"R": {ID: "R", Name: "TABS Buoy R", Kind: KindTABS, Lat: 29.6350, Lon: -93.6417},
	"V": {ID: "V", Name: "TABS Buoy V", Kind: KindTABS, Lat: 27.8966, Lon: -93.5973},
	"W": {ID: "W", Name: "TABS Buoy W", Kind: KindTABS, Lat: 28.3503, Lon: -96.0056},
	"X": {ID: "X", Name: "TABS Buoy X", Kind: KindTABS, Lat: 27.0674, Lon: -96.3392},

	// TWDB coastal stations.
	"BOLI":   {ID: "BOLI", Name: "Bolivar Roads", Kind: KindTWDB, Lat: 29.3640, Lon: -94.7810},
	"EAST":   {ID: "EAST", Name: "East Bay", Kind: KindTWDB, Lat: 29.4740, Lon: -94.6519},
	"MIDG":   {ID: "MIDG", Name: "Mid Galveston Bay", Kind: KindTWDB, Lat: 29.5086, Lon: -94.8822},
	"TRIN":   {ID: "TRIN", Name: "Trinity Bay", Kind: KindTWDB, Lat: 29.7081, Lon: -94.7422},
	"FISH":   {ID: "FISH", Name: "Fisher's Reef", Kind: KindTWDB, Lat: 29.6367, Lon: -94.8460},
	"SANT":   {ID: "SANT", Name: "San Antonio Bay", Kind: KindTWDB, Lat: 28.3092, Lon: -96.7669},
	"DOLLAR": {ID: "DOLLAR", Name: "Dollar Point", Kind: KindTWDB, Lat: 29.4653, Lon: -94.9170},

	// PORTS current stations.
	"g06010": {ID: "g06010", Name: "Galveston Bay Entrance Channel", Kind: KindPORTS, Lat: 29.3425, Lon: -94.7410},
	"cc0101": {ID: "cc0101", Name: "Corpus Christi Ship Channel", Kind: KindPORTS, Lat: 27.8179, Lon: -97.0486},
	"sb0101": {ID: "sb0101", Name: "Sabine Pass", Kind: KindPORTS, Lat: 29.7100, Lon: -93.8700},
}
