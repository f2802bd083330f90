package pipeline

import (
	"strings"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// locationPrefix is the dashboard's internal prefix on location ids.
const locationPrefix = "airpay_"

// defaultLocation is the dashboard's placeholder entry for a connection with
// no explicit locations.
const defaultLocation = "default"

// CleanLocationField splits a comma-separated location cell into location
// ids. A lone "default" entry survives as-is; among other entries it is
// dropped. The "airpay_" prefix is stripped. A blank field yields nil.
func CleanLocationField(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	entries := strings.Split(field, ",")
	for i := range entries {
		entries[i] = strings.TrimSpace(entries[i])
	}

	if len(entries) == 1 && strings.EqualFold(entries[0], defaultLocation) {
		return []string{defaultLocation}
	}

	cleaned := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case strings.EqualFold(entry, defaultLocation):
			// Dropped when it has siblings.
		case strings.HasPrefix(entry, locationPrefix):
			cleaned = append(cleaned, entry[len(locationPrefix):])
		case entry != "":
			cleaned = append(cleaned, entry)
		}
	}

	return cleaned
}

// Normalize expands one connection into one unit per location id, in the
// field's original order. A connection without locations yields a single
// unit with an empty location id, so the miss stays observable through the
// enrich stage before the policy filter drops it.
func Normalize(conn model.Connection) []model.LocationUnit {
	unit := model.LocationUnit{
		Key:         conn.Key(),
		Name:        conn.Name,
		Domain:      conn.Domain,
		Username:    conn.Username,
		Status:      conn.Status,
		LastUpdated: conn.LastUpdated,
	}

	ids := CleanLocationField(conn.Locations)
	if len(ids) == 0 {
		return []model.LocationUnit{unit}
	}

	units := make([]model.LocationUnit, 0, len(ids))
	for _, id := range ids {
		u := unit
		u.LocationID = id
		units = append(units, u)
	}
	return units
}

// Enrich joins units against the location index. A miss fills the configured
// unknown label and leaves GroupKnown false; misses never drop units here.
// Returns the enriched units and the miss count.
func Enrich(units []model.LocationUnit, idx LocationIndex, unknownLabel string) ([]model.LocationUnit, int) {
	enriched := make([]model.LocationUnit, 0, len(units))
	misses := 0
	for _, u := range units {
		if g, ok := idx.Lookup(u.LocationID); ok {
			u.GroupID = g.GroupID
			u.GroupName = g.GroupName
			u.GroupKnown = true
		} else {
			u.GroupID = unknownLabel
			u.GroupName = unknownLabel
			misses++
		}
		enriched = append(enriched, u)
	}
	return enriched, misses
}
