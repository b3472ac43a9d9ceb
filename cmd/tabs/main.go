// Command tabs reads station time series to CSV from the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kthyng/tabs"
	"github.com/kthyng/tabs/pkg/daylight"
	"github.com/kthyng/tabs/pkg/series"
	"github.com/kthyng/tabs/pkg/usgs"
)

var rootCmd = &cobra.Command{
	Use:           "tabs",
	Short:         "Read Texas coastal observation time series",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var readFlags struct {
	start    string
	end      string
	tz       string
	datum    string
	model    bool
	freq     string
	variable string
	binning  string
	resample string
	output   string
}

var readCmd = &cobra.Command{
	Use:   "read <station> [station...]",
	Short: "Fetch and combine observations, written as CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := tabs.ReadRequest{
			Stations: args,
			Start:    readFlags.start,
			End:      readFlags.end,
			TZ:       readFlags.tz,
			Datum:    readFlags.datum,
			Model:    readFlags.model,
			Freq:     usgs.Frequency(readFlags.freq),
			Variable: usgs.Variable(readFlags.variable),
			Binning:  readFlags.binning,
		}
		if readFlags.resample != "" {
			d, err := series.ParseDirective(readFlags.resample)
			if err != nil {
				return err
			}
			req.Resample = &d
		}

		ds, err := tabs.Read(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := os.Stdout
		if readFlags.output != "" {
			f, err := os.Create(readFlags.output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return ds.WriteCSV(out)
	},
}

var stationsCmd = &cobra.Command{
	Use:   "stations <id>",
	Short: "Print metadata for a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := tabs.Metadata(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

var sunDays int

var sunCmd = &cobra.Command{
	Use:   "sun <id>",
	Short: "Print sunrise and sunset times at a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := tabs.Metadata(args[0])
		if err != nil {
			return err
		}
		events := daylight.ForStation(st, time.Now(), time.Duration(sunDays)*24*time.Hour)
		for _, e := range events {
			fmt.Println(e)
		}
		return nil
	},
}

func init() {
	readCmd.Flags().StringVar(&readFlags.start, "start", "", "start of the time range, e.g. 2017-8-1")
	readCmd.Flags().StringVar(&readFlags.end, "end", "", "end of the time range")
	readCmd.Flags().StringVar(&readFlags.tz, "tz", "", "display timezone, e.g. US/Central (default UTC)")
	readCmd.Flags().StringVar(&readFlags.datum, "datum", "", "tidal datum: MSL, MHHW, MHW, MLW, MLLW, or MTL")
	readCmd.Flags().BoolVar(&readFlags.model, "model", false, "read model output instead of observations")
	readCmd.Flags().StringVar(&readFlags.freq, "freq", "", "USGS service: iv (instantaneous) or dv (daily)")
	readCmd.Flags().StringVar(&readFlags.variable, "var", "", "USGS variable: flow, height, or storage")
	readCmd.Flags().StringVar(&readFlags.binning, "binning", "", "TWDB binning: mon, day, hour, or min")
	readCmd.Flags().StringVar(&readFlags.resample, "resample", "", `resample directive "freq,base,mode[,label]", e.g. "30m,0,mean,midpoint"`)
	readCmd.Flags().StringVarP(&readFlags.output, "output", "o", "", "write CSV to a file instead of stdout")

	sunCmd.Flags().IntVar(&sunDays, "days", 1, "number of days of sun events")

	rootCmd.AddCommand(readCmd, stationsCmd, sunCmd)
}

func main() {
	godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
