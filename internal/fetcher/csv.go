package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is one CSV row keyed by column name.
type Record map[string]string

// Records parses CSV with a header row into name-keyed records. Field values
// are trimmed. Rows shorter than the header keep only the columns they have;
// extra trailing fields are dropped.
func Records(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		rec := make(Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			rec[name] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}

	return records, nil
}
