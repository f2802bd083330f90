// Package fetcher downloads and parses tabular reference data over HTTP.
package fetcher

import (
	"context"
	"io"
	"net/http"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Get fetches the URL with the given extra headers and returns the
	// response body. The caller must close it.
	Get(ctx context.Context, url string, header http.Header) (io.ReadCloser, error)
}
