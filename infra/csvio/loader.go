package csvio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding"

	"github.com/kilianp07/legassign/core/assign"
	"github.com/kilianp07/legassign/core/model"
	"github.com/kilianp07/legassign/infra/logger"
)

// Required column names of the typed tables.
const (
	ColAircraftID = "AircraftID"
	ColDemandID   = "DemandID"
	ColDepAirport = "DepAirport"
	ColDepTime    = "ScheduledDepDatetime"
	ColArrTime    = "ScheduledArrDatetime"
)

type aircraftRecord struct {
	AircraftID string `csv:"AircraftID"`
	Tail       string `csv:"TailNumber"`
	Type       string `csv:"AircraftType"`
}

type demandRecord struct {
	DemandID   string `csv:"DemandID"`
	DepAirport string `csv:"DepAirport"`
	ArrAirport string `csv:"ArrAirport"`
	DepTime    string `csv:"ScheduledDepDatetime"`
	ArrTime    string `csv:"ScheduledArrDatetime"`
}

// Loader reads the planner input tables.
type Loader struct {
	cfg Config
	dec *encoding.Decoder
	loc *time.Location
	log logger.Logger
}

// NewLoader validates cfg and returns a Loader. A nil logger disables logging.
func NewLoader(cfg Config, log logger.Logger) (*Loader, error) {
	cfg.SetDefaults()
	dec, err := decoderFor(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("load location: %w", err)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Loader{cfg: cfg, dec: dec, loc: loc, log: log}, nil
}

// Load reads the four configured tables. Airports and distance/time paths
// are optional and yield empty tables when unset.
func (l *Loader) Load() (model.Dataset, error) {
	var ds model.Dataset
	var err error
	if ds.Aircraft, err = withFile(l.cfg.Aircraft, l.Aircraft); err != nil {
		return model.Dataset{}, err
	}
	if ds.Demands, err = withFile(l.cfg.Demands, l.Demands); err != nil {
		return model.Dataset{}, err
	}
	if l.cfg.Airports != "" {
		if ds.Airports, err = withFile(l.cfg.Airports, l.Table); err != nil {
			return model.Dataset{}, err
		}
	}
	if l.cfg.DistanceTime != "" {
		if ds.DistanceTime, err = withFile(l.cfg.DistanceTime, l.Table); err != nil {
			return model.Dataset{}, err
		}
	}
	l.log.Infow("dataset loaded", map[string]any{
		"aircraft":      len(ds.Aircraft),
		"demands":       len(ds.Demands),
		"airports":      ds.Airports.Len(),
		"distance_time": ds.DistanceTime.Len(),
	})
	return ds, nil
}

func withFile[T any](path string, read func(io.Reader, string) (T, error)) (T, error) {
	var zero T
	if path == "" {
		return zero, &assign.ParseError{File: "<unset>", Err: errors.New("no path configured")}
	}
	f, err := os.Open(path)
	if err != nil {
		return zero, &assign.ParseError{File: path, Err: err}
	}
	defer func() { _ = f.Close() }()
	return read(f, path)
}

// Aircraft parses an aircraft table. Identifiers must be non-empty and unique.
func (l *Loader) Aircraft(r io.Reader, name string) ([]model.Aircraft, error) {
	raw, err := l.readRecords(name, r)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(name, raw.records[0], ColAircraftID); err != nil {
		return nil, err
	}
	var rows []aircraftRecord
	if err := gocsv.UnmarshalCSV(&recordReader{records: raw.records}, &rows); err != nil {
		return nil, &assign.ParseError{File: name, Err: err}
	}
	out := make([]model.Aircraft, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, rec := range rows {
		line := raw.line(i)
		id := strings.TrimSpace(rec.AircraftID)
		if id == "" {
			return nil, &assign.ParseError{File: name, Row: line, Column: ColAircraftID, Err: errors.New("empty value")}
		}
		if first, ok := seen[id]; ok {
			return nil, &assign.ParseError{File: name, Row: line, Column: ColAircraftID,
				Err: fmt.Errorf("%w %q (first seen on line %d)", assign.ErrDuplicateID, id, first)}
		}
		seen[id] = line
		out = append(out, model.Aircraft{
			ID:   id,
			Tail: strings.TrimSpace(rec.Tail),
			Type: strings.TrimSpace(rec.Type),
		})
	}
	return out, nil
}

// Demands parses a demand table, normalizing both schedule datetimes.
// Identifiers must be non-empty and unique; row order is preserved.
func (l *Loader) Demands(r io.Reader, name string) ([]model.Demand, error) {
	raw, err := l.readRecords(name, r)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(name, raw.records[0], ColDemandID, ColDepAirport, ColDepTime, ColArrTime); err != nil {
		return nil, err
	}
	var rows []demandRecord
	if err := gocsv.UnmarshalCSV(&recordReader{records: raw.records}, &rows); err != nil {
		return nil, &assign.ParseError{File: name, Err: err}
	}
	out := make([]model.Demand, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, rec := range rows {
		line := raw.line(i)
		id := strings.TrimSpace(rec.DemandID)
		if id == "" {
			return nil, &assign.ParseError{File: name, Row: line, Column: ColDemandID, Err: errors.New("empty value")}
		}
		if first, ok := seen[id]; ok {
			return nil, &assign.ParseError{File: name, Row: line, Column: ColDemandID,
				Err: fmt.Errorf("%w %q (first seen on line %d)", assign.ErrDuplicateID, id, first)}
		}
		seen[id] = line
		dep, err := ParseTime(rec.DepTime, l.loc, l.cfg.TimeLayouts)
		if err != nil {
			return nil, &assign.ParseError{File: name, Row: line, Column: ColDepTime, Err: err}
		}
		arr, err := ParseTime(rec.ArrTime, l.loc, l.cfg.TimeLayouts)
		if err != nil {
			return nil, &assign.ParseError{File: name, Row: line, Column: ColArrTime, Err: err}
		}
		out = append(out, model.Demand{
			ID:         id,
			DepAirport: strings.TrimSpace(rec.DepAirport),
			ArrAirport: strings.TrimSpace(rec.ArrAirport),
			Departure:  dep,
			Arrival:    arr,
		})
	}
	return out, nil
}

// Table parses an untyped table keyed by its header.
func (l *Loader) Table(r io.Reader, name string) (model.Table, error) {
	raw, err := l.readRecords(name, r)
	if err != nil {
		return model.Table{}, err
	}
	header := raw.records[0]
	t := model.Table{Columns: header, Rows: make([]map[string]string, 0, len(raw.records)-1)}
	for _, rec := range raw.records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(rec[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
