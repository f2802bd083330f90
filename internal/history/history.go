// Package history appends run output to a local append-only CSV log.
package history

import (
	"context"
	"encoding/csv"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// timestampColumn is appended to every history record.
const timestampColumn = "FetchedAt"

// timeLayout matches the format the log has always used.
const timeLayout = "2006-01-02 15:04:05"

// CSVLog is an append-only history sink backed by a CSV file. Existing
// records are never rewritten; each run adds exactly one record per row.
type CSVLog struct {
	Path string
}

// Append writes the rows to the log tagged with the run timestamp. On first
// use the file is created and the header written; afterwards only data rows
// are added. An empty row set still ensures the file and header exist.
func (l CSVLog) Append(ctx context.Context, header []string, rows [][]string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "history: context done")
	}

	_, statErr := os.Stat(l.Path)
	isNew := os.IsNotExist(statErr)
	if statErr != nil && !isNew {
		return eris.Wrapf(statErr, "history: stat %s", l.Path)
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "history: open %s", l.Path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(append(append([]string{}, header...), timestampColumn)); err != nil {
			return eris.Wrap(err, "history: write header")
		}
	}

	stamp := at.Format(timeLayout)
	for _, row := range rows {
		if err := w.Write(append(append([]string{}, row...), stamp)); err != nil {
			return eris.Wrap(err, "history: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "history: flush")
	}

	zap.L().Info("history: appended", zap.Int("rows", len(rows)), zap.String("path", l.Path))
	return nil
}
