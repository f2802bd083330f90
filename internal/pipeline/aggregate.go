package pipeline

import "github.com/tuuthfairy/connwatch/internal/model"

// Aggregate merges units by connection key into one row per connection.
// Location and group ids are deduplicated preserving first-seen order; the
// first-seen unit supplies the carried-through fields, which all units under
// a key share by construction. Rows come out in first-seen key order.
func Aggregate(units []model.LocationUnit) []model.AggregatedConnection {
	type accumulator struct {
		row       model.AggregatedConnection
		seenLoc   map[string]struct{}
		seenGroup map[string]struct{}
	}

	byKey := make(map[string]*accumulator)
	order := make([]string, 0)

	for _, u := range units {
		acc, ok := byKey[u.Key]
		if !ok {
			acc = &accumulator{
				row: model.AggregatedConnection{
					Name:        u.Name,
					Domain:      u.Domain,
					Username:    u.Username,
					Status:      u.Status,
					LastUpdated: u.LastUpdated,
				},
				seenLoc:   make(map[string]struct{}),
				seenGroup: make(map[string]struct{}),
			}
			byKey[u.Key] = acc
			order = append(order, u.Key)
		}

		if u.LocationID != "" {
			if _, dup := acc.seenLoc[u.LocationID]; !dup {
				acc.seenLoc[u.LocationID] = struct{}{}
				acc.row.LocationIDs = append(acc.row.LocationIDs, u.LocationID)
			}
		}
		if u.GroupID != "" {
			if _, dup := acc.seenGroup[u.GroupID]; !dup {
				acc.seenGroup[u.GroupID] = struct{}{}
				acc.row.GroupIDs = append(acc.row.GroupIDs, u.GroupID)
				acc.row.GroupNames = append(acc.row.GroupNames, u.GroupName)
			}
		}
	}

	rows := make([]model.AggregatedConnection, 0, len(order))
	for _, key := range order {
		rows = append(rows, byKey[key].row)
	}
	return rows
}
