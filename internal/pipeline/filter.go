package pipeline

import (
	"strings"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// FilterStatus keeps rows whose status equals the target. Matching is exact
// and case-sensitive unless fold is set. Surviving rows keep their order.
func FilterStatus(rows []model.Connection, target string, fold bool) []model.Connection {
	kept := make([]model.Connection, 0, len(rows))
	for _, row := range rows {
		if row.Status == target || (fold && strings.EqualFold(row.Status, target)) {
			kept = append(kept, row)
		}
	}
	return kept
}

// ExcludeDomains drops rows whose domain contains any excluded substring.
func ExcludeDomains(rows []model.Connection, excluded []string) []model.Connection {
	kept := make([]model.Connection, 0, len(rows))
	for _, row := range rows {
		if !domainExcluded(row.Domain, excluded) {
			kept = append(kept, row)
		}
	}
	return kept
}

func domainExcluded(domain string, excluded []string) bool {
	for _, sub := range excluded {
		if sub != "" && strings.Contains(domain, sub) {
			return true
		}
	}
	return false
}

// FilterPolicy keeps units whose practice group is marked to run. Units with
// an unresolved group are always dropped here: policy cannot be evaluated
// for an unknown group.
func FilterPolicy(units []model.LocationUnit, run RunSet) []model.LocationUnit {
	kept := make([]model.LocationUnit, 0, len(units))
	for _, u := range units {
		if !u.GroupKnown {
			continue
		}
		if run.Contains(u.GroupName) {
			kept = append(kept, u)
		}
	}
	return kept
}
