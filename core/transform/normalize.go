package transform

import (
	"fmt"
	"strings"

	"github.com/kilianp07/legassign/core/assign"
	"github.com/kilianp07/legassign/core/model"
)

// NormalizeCodesType is the registry name of NormalizeCodes.
const NormalizeCodesType = "normalize_codes"

// NormalizeCodesConfig selects what NormalizeCodes rewrites.
type NormalizeCodesConfig struct {
	// IDs also upper-cases demand and aircraft identifiers.
	IDs bool `json:"ids"`
}

// NormalizeCodes trims identifiers and upper-cases airport codes.
type NormalizeCodes struct {
	cfg NormalizeCodesConfig
}

// NewNormalizeCodes returns the stage configured by cfg.
func NewNormalizeCodes(cfg NormalizeCodesConfig) NormalizeCodes {
	return NormalizeCodes{cfg: cfg}
}

func (NormalizeCodes) Name() string { return NormalizeCodesType }

// Apply rewrites codes on a copy of ds. Identifiers that collide after
// normalization are reported as duplicates.
func (n NormalizeCodes) Apply(ds model.Dataset) (model.Dataset, error) {
	out := ds.Clone()
	for i := range out.Demands {
		d := &out.Demands[i]
		d.ID = n.id(d.ID)
		d.DepAirport = code(d.DepAirport)
		d.ArrAirport = code(d.ArrAirport)
	}
	for i := range out.Aircraft {
		out.Aircraft[i].ID = n.id(out.Aircraft[i].ID)
	}
	if err := unique("demand", out.DemandIDs()); err != nil {
		return model.Dataset{}, err
	}
	if err := unique("aircraft", out.AircraftIDs()); err != nil {
		return model.Dataset{}, err
	}
	return out, nil
}

func (n NormalizeCodes) id(s string) string {
	s = strings.TrimSpace(s)
	if n.cfg.IDs {
		s = strings.ToUpper(s)
	}
	return s
}

func code(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func unique(kind string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%s %q: %w", kind, id, assign.ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}
	return nil
}
