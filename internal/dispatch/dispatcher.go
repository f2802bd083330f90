// Package dispatch renders the final row set and hands it to the output
// sinks.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// listSeparator joins merged id columns into one cell.
const listSeparator = ", "

// Overwriter replaces a sink's entire contents with the given rows.
type Overwriter interface {
	Replace(ctx context.Context, header []string, rows [][]string) error
}

// Appender adds one record per row to a durable log, tagged with the run
// timestamp.
type Appender interface {
	Append(ctx context.Context, header []string, rows [][]string, at time.Time) error
}

// Header returns the fixed output column order.
func Header() []string {
	return []string{
		"Name",
		"Domain",
		"Status",
		"LocationIds",
		"PracticeGroupIds",
		"PracticeGroupNames",
		"Username",
		"LastUpdated",
	}
}

// Render flattens aggregated rows into the fixed column order, unchanged
// otherwise. Merged id lists become comma-joined cells.
func Render(rows []model.AggregatedConnection) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Name,
			row.Domain,
			row.Status,
			strings.Join(row.LocationIDs, listSeparator),
			strings.Join(row.GroupIDs, listSeparator),
			strings.Join(row.GroupNames, listSeparator),
			row.Username,
			row.LastUpdated,
		})
	}
	return out
}

// Dispatcher delivers rendered rows to the overwrite and append sinks.
type Dispatcher struct {
	sheet   Overwriter
	history Appender
}

// New creates a Dispatcher over the two sinks.
func New(sheet Overwriter, history Appender) *Dispatcher {
	return &Dispatcher{sheet: sheet, history: history}
}

// Dispatch renders the rows once and attempts both sinks. A failure in one
// sink never blocks the other; failures are reported together. Both sinks
// are attempted even for an empty row set, so the overwrite sink still
// clears prior output.
func (d *Dispatcher) Dispatch(ctx context.Context, rows []model.AggregatedConnection, at time.Time) error {
	header := Header()
	rendered := Render(rows)

	var errs []error
	if err := d.sheet.Replace(ctx, header, rendered); err != nil {
		zap.L().Error("dispatch: overwrite sink failed", zap.Error(err))
		errs = append(errs, eris.Wrap(err, "dispatch: overwrite sink"))
	}
	if err := d.history.Append(ctx, header, rendered, at); err != nil {
		zap.L().Error("dispatch: history sink failed", zap.Error(err))
		errs = append(errs, eris.Wrap(err, "dispatch: history sink"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	zap.L().Info("dispatch: delivered", zap.Int("rows", len(rendered)))
	return nil
}
