package pipeline

import "github.com/tuuthfairy/connwatch/internal/model"

// LocationIndex maps a location id to its practice group metadata.
type LocationIndex map[string]model.LocationGroup

// BuildLocationIndex builds the enrichment index from the reference dataset.
// Duplicate location ids are last-write-wins: a later record overwrites an
// earlier one.
func BuildLocationIndex(records []model.LocationGroup) LocationIndex {
	idx := make(LocationIndex, len(records))
	for _, rec := range records {
		if rec.LocationID == "" {
			continue
		}
		idx[rec.LocationID] = rec
	}
	return idx
}

// Lookup returns the group metadata for a location id.
func (idx LocationIndex) Lookup(locationID string) (model.LocationGroup, bool) {
	g, ok := idx[locationID]
	return g, ok
}
