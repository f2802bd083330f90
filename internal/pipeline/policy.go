package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/tuuthfairy/connwatch/pkg/sheets"
)

// runMarker is the policy tab value that opts a practice group in.
const runMarker = "run"

// RunSet holds the practice groups marked to run, keyed by normalized group
// name. Groups absent from the set are excluded; inclusion is explicit.
type RunSet map[string]struct{}

// normalizeGroup trims and lowercases a group name so policy and reference
// spellings match.
func normalizeGroup(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildRunSet builds the run policy from tab rows. The first row is the
// header. Column 0 is the run marker, column 1 the group name; rows missing
// either are ignored. The marker is matched case-insensitively.
func BuildRunSet(rows [][]string) RunSet {
	set := make(RunSet)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		marker := strings.TrimSpace(row[0])
		group := normalizeGroup(row[1])
		if group == "" || !strings.EqualFold(marker, runMarker) {
			continue
		}
		set[group] = struct{}{}
	}
	return set
}

// Contains reports whether the group is marked to run.
func (s RunSet) Contains(groupName string) bool {
	_, ok := s[normalizeGroup(groupName)]
	return ok
}

// SheetPolicy loads the run policy from a spreadsheet tab.
type SheetPolicy struct {
	Client        sheets.Client
	SpreadsheetID string
	Tab           string
}

// RunPolicy reads the policy tab's first two columns.
func (p SheetPolicy) RunPolicy(ctx context.Context) ([][]string, error) {
	rows, err := p.Client.Values(ctx, p.SpreadsheetID, p.Tab+"!A:B")
	if err != nil {
		return nil, eris.Wrapf(err, "policy: read tab %q", p.Tab)
	}
	return rows, nil
}
