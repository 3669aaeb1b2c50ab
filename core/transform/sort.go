package transform

import (
	"sort"

	"github.com/kilianp07/legassign/core/model"
)

// SortDepartureType is the registry name of SortDeparture.
const SortDepartureType = "sort_departure"

// SortDeparture orders demands by scheduled departure, keeping input order
// between equal departures. It changes the output row order and is only run
// when configured.
type SortDeparture struct{}

func (SortDeparture) Name() string { return SortDepartureType }

func (SortDeparture) Apply(ds model.Dataset) (model.Dataset, error) {
	out := ds.Clone()
	sort.SliceStable(out.Demands, func(i, j int) bool {
		return out.Demands[i].Departure.Before(out.Demands[j].Departure)
	})
	return out, nil
}
