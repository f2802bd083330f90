package dispatch

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/tuuthfairy/connwatch/pkg/sheets"
)

// SheetSink overwrites one spreadsheet tab with the run's output.
type SheetSink struct {
	Client        sheets.Client
	SpreadsheetID string
	Tab           string
}

// Replace clears the tab and writes header plus rows from A1. The clear runs
// even when rows is empty so stale output never survives a run.
func (s SheetSink) Replace(ctx context.Context, header []string, rows [][]string) error {
	if err := s.Client.Clear(ctx, s.SpreadsheetID, s.Tab); err != nil {
		return eris.Wrapf(err, "sheet: clear tab %q", s.Tab)
	}

	values := make([][]string, 0, len(rows)+1)
	values = append(values, header)
	values = append(values, rows...)

	if err := s.Client.Update(ctx, s.SpreadsheetID, s.Tab+"!A1", values); err != nil {
		return eris.Wrapf(err, "sheet: update tab %q", s.Tab)
	}
	return nil
}
