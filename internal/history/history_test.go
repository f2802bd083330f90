package history

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{"Name", "Domain", "Status"}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	at := time.Date(2026, 8, 27, 6, 30, 0, 0, time.UTC)

	log := CSVLog{Path: path}
	err := log.Append(context.Background(), testHeader, [][]string{
		{"ClinicA", "x.com", "auth_failed"},
	}, at)
	require.NoError(t, err)

	records := readAll(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Name", "Domain", "Status", "FetchedAt"}, records[0])
	assert.Equal(t, []string{"ClinicA", "x.com", "auth_failed", "2026-08-27 06:30:00"}, records[1])
}

func TestAppendNeverRewritesExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	log := CSVLog{Path: path}

	first := time.Date(2026, 8, 26, 6, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(context.Background(), testHeader, [][]string{
		{"ClinicA", "x.com", "auth_failed"},
	}, first))
	require.NoError(t, log.Append(context.Background(), testHeader, [][]string{
		{"ClinicB", "y.com", "auth_failed"},
	}, second))

	records := readAll(t, path)
	require.Len(t, records, 3)
	// Header written once; each run adds exactly one record per row.
	assert.Equal(t, "ClinicA", records[1][0])
	assert.Equal(t, "2026-08-26 06:00:00", records[1][3])
	assert.Equal(t, "ClinicB", records[2][0])
	assert.Equal(t, "2026-08-27 06:00:00", records[2][3])
}

func TestAppendEmptyRunStillCreatesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	log := CSVLog{Path: path}

	require.NoError(t, log.Append(context.Background(), testHeader, nil, time.Now()))

	records := readAll(t, path)
	require.Len(t, records, 1)
}

func TestAppendSharesOneTimestampPerRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	at := time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC)

	log := CSVLog{Path: path}
	require.NoError(t, log.Append(context.Background(), testHeader, [][]string{
		{"a", "x.com", "auth_failed"},
		{"b", "y.com", "auth_failed"},
	}, at))

	records := readAll(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, records[1][3], records[2][3])
}
