// Package daylight computes sunrise and sunset events at a station's
// coordinates over a time window, a convenience for planning instrument
// service trips and for reading daytime-only variables.
package daylight

import (
	"fmt"
	"math"
	"time"

	"github.com/keep94/sunrise"

	"github.com/kthyng/tabs/pkg/stations"
	"github.com/kthyng/tabs/pkg/timegrid"
)

// Event is a single sunrise or sunset.
type Event struct {
	Time time.Time `json:"time"`
	Rise bool      `json:"rise"`
}

func (e Event) String() string {
	kind := "sunset"
	if e.Rise {
		kind = "sunrise"
	}
	return fmt.Sprintf("%s %s", e.Time.Format(time.RFC822), kind)
}

// Events is an ordered series of sun events.
type Events []Event

// ForStation returns the ordered sun events at the station from start
// through the given duration. The first event is always a sunrise.
func ForStation(st stations.Station, start time.Time, duration time.Duration) Events {
	var s sunrise.Sunrise
	s.Around(st.Lat, st.Lon, start)

	// The sunrise package is loose about which day it lands on; walk forward
	// until the first sunrise shares start's calendar day.
	for !timegrid.SameDay(start, s.Sunrise()) {
		s.AddDays(1)
	}

	numDays := int(math.Ceil(duration.Hours() / 24))
	events := make(Events, 0, numDays*2)
	for i := 0; i < numDays; i++ {
		events = append(events,
			Event{Time: s.Sunrise(), Rise: true},
			Event{Time: s.Sunset(), Rise: false})
		s.AddDays(1)
	}
	return events
}
