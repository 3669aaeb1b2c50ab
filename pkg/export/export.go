package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/kilianp07/legassign/core/model"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// csvRow is the on-disk layout of an assignment row.
type csvRow struct {
	ScenarioID         string `csv:"ScenarioID"`
	AircraftID         string `csv:"AircraftID"`
	FlightLegSeqNumber string `csv:"FlightLegSeqNumber"`
	DepAirport         string `csv:"DepAirport"`
	DepTime            string `csv:"DepTime"`
}

// Options tunes the writers.
type Options struct {
	// TimeLayout formats DepTime in CSV output; RFC3339 when empty.
	TimeLayout string `json:"time_layout"`
}

// WriteJSON writes the plan to w in JSON format.
func WriteJSON(w io.Writer, plan model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes the assignment rows to w in CSV format with a header line.
// A plan without rows yields the header only.
func WriteCSV(w io.Writer, rows []model.AssignmentRow, opts Options) error {
	layout := opts.TimeLayout
	if layout == "" {
		layout = time.RFC3339
	}
	out := make([]csvRow, len(rows))
	for i, r := range rows {
		out[i] = csvRow{
			ScenarioID:         r.ScenarioID,
			AircraftID:         r.AircraftID,
			FlightLegSeqNumber: r.FlightLegSeqNumber,
			DepAirport:         r.DepAirport,
			DepTime:            r.DepTime.Format(layout),
		}
	}
	return gocsv.MarshalCSV(out, gocsv.NewSafeCSVWriter(csv.NewWriter(w)))
}

// Write encodes plan to w in the given format.
func Write(w io.Writer, format string, plan model.Plan, opts Options) error {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return WriteCSV(w, plan.Rows, opts)
	case FormatJSON:
		return WriteJSON(w, plan)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// FormatFromPath guesses the format from the file extension, defaulting to CSV.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// WriteFile writes plan to path, creating parent directories.
func WriteFile(path, format string, plan model.Plan, opts Options) (err error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, format, plan, opts)
}
