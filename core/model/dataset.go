package model

// Table is an untyped tabular input. Rows are keyed by column name and kept
// in file order.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Dataset is the immutable result of loading the planner inputs. Airports and
// DistanceTime are loaded for completeness but no constraint consumes them.
type Dataset struct {
	Aircraft     []Aircraft
	Demands      []Demand
	Airports     Table
	DistanceTime Table
}

// AircraftIDs returns aircraft identifiers in input order.
func (d Dataset) AircraftIDs() []string {
	ids := make([]string, len(d.Aircraft))
	for i, a := range d.Aircraft {
		ids[i] = a.ID
	}
	return ids
}

// DemandIDs returns leg identifiers in input order.
func (d Dataset) DemandIDs() []string {
	ids := make([]string, len(d.Demands))
	for i, dm := range d.Demands {
		ids[i] = dm.ID
	}
	return ids
}

// Clone returns a copy whose slices can be modified without affecting d.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Aircraft:     append([]Aircraft(nil), d.Aircraft...),
		Demands:      append([]Demand(nil), d.Demands...),
		Airports:     cloneTable(d.Airports),
		DistanceTime: cloneTable(d.DistanceTime),
	}
	return out
}

func cloneTable(t Table) Table {
	cp := Table{Columns: append([]string(nil), t.Columns...)}
	if t.Rows != nil {
		cp.Rows = make([]map[string]string, len(t.Rows))
		for i, r := range t.Rows {
			row := make(map[string]string, len(r))
			for k, v := range r {
				row[k] = v
			}
			cp.Rows[i] = row
		}
	}
	return cp
}
