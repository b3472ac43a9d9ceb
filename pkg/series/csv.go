package series

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

const stampFormat = "2006-01-02 15:04:05"

// IndexName labels the time index with its display zone, for example
// "Dates [UTC]" or "Dates [US/Central]".
func (ds *Dataset) IndexName() string {
	return "Dates [" + ds.loc.String() + "]"
}

// WriteCSV writes the dataset as delimited text. The first column is the
// time index formatted in the display zone; missing cells are left empty.
func (ds *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(ds.cols)+1)
	header = append(header, ds.IndexName())
	header = append(header, ds.cols...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(ds.cols)+1)
	for i, t := range ds.index {
		row[0] = t.In(ds.loc).Format(stampFormat)
		for j, name := range ds.cols {
			v := ds.data[name][i]
			if math.IsNaN(v) {
				row[j+1] = ""
			} else {
				row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
