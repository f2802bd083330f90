package dispatch

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheets struct {
	cleared   string
	updated   string
	values    [][]string
	clearErr  error
	updateErr error
}

func (f *fakeSheets) Values(context.Context, string, string) ([][]string, error) {
	return nil, nil
}

func (f *fakeSheets) Clear(_ context.Context, _, rng string) error {
	f.cleared = rng
	return f.clearErr
}

func (f *fakeSheets) Update(_ context.Context, _, rng string, values [][]string) error {
	f.updated = rng
	f.values = values
	return f.updateErr
}

func TestSheetSinkReplace(t *testing.T) {
	client := &fakeSheets{}
	sink := SheetSink{Client: client, SpreadsheetID: "sheet-id", Tab: "auth_failed"}

	err := sink.Replace(context.Background(), []string{"Name"}, [][]string{{"ClinicA"}})
	require.NoError(t, err)

	assert.Equal(t, "auth_failed", client.cleared)
	assert.Equal(t, "auth_failed!A1", client.updated)
	require.Len(t, client.values, 2)
	assert.Equal(t, []string{"Name"}, client.values[0])
	assert.Equal(t, []string{"ClinicA"}, client.values[1])
}

func TestSheetSinkReplaceEmptyStillClears(t *testing.T) {
	client := &fakeSheets{}
	sink := SheetSink{Client: client, SpreadsheetID: "sheet-id", Tab: "auth_failed"}

	err := sink.Replace(context.Background(), []string{"Name"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "auth_failed", client.cleared)
	// Header row only.
	require.Len(t, client.values, 1)
}

func TestSheetSinkClearFailureStopsUpdate(t *testing.T) {
	client := &fakeSheets{clearErr: eris.New("denied")}
	sink := SheetSink{Client: client, SpreadsheetID: "sheet-id", Tab: "auth_failed"}

	err := sink.Replace(context.Background(), []string{"Name"}, nil)
	require.Error(t, err)
	assert.Empty(t, client.updated)
}
