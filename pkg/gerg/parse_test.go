package gerg

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestParseTable(t *testing.T) {
	input := "Date\tAirT [deg C]\tRelH [%]\n" +
		"2017-08-01 00:00\t28.1\t-999\n" +
		"2017-08-01 00:30\t28.3\t75.2\n"

	ds, err := ParseTable(strings.NewReader(input), "B")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}

	want := time.Date(2017, time.August, 1, 0, 0, 0, 0, time.UTC)
	if !ds.Index()[0].Equal(want) {
		t.Errorf("first stamp = %s, want %s", ds.Index()[0], want)
	}

	airt, ok := ds.Column("B: AirT [deg C]")
	if !ok {
		t.Fatalf("missing station-prefixed column; have %v", ds.Columns())
	}
	if airt[0] != 28.1 || airt[1] != 28.3 {
		t.Errorf("AirT = %v", airt)
	}

	relh, _ := ds.Column("B: RelH [%]")
	if !math.IsNaN(relh[0]) {
		t.Errorf("sentinel -999 parsed to %v, want NaN", relh[0])
	}
	if relh[1] != 75.2 {
		t.Errorf("RelH[1] = %v, want 75.2", relh[1])
	}
}

func TestParseTableNoPrefix(t *testing.T) {
	input := "Date\tEast [cm/s]\n2017-08-01\t12.5\n"
	ds, err := ParseTable(strings.NewReader(input), "")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if got := ds.Columns()[0]; got != "East [cm/s]" {
		t.Errorf("column = %q, want unprefixed name", got)
	}
}

func TestParseTableEmptyBody(t *testing.T) {
	ds, err := ParseTable(strings.NewReader(""), "B")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if !ds.IsEmpty() {
		t.Errorf("expected an empty dataset")
	}
}

func TestParseTableBadStamp(t *testing.T) {
	input := "Date\tAirT [deg C]\nnot-a-date\t28.1\n"
	if _, err := ParseTable(strings.NewReader(input), "B"); err == nil {
		t.Error("expected an error for a malformed timestamp")
	}
}
