// Package sheets is a minimal Google Sheets values API client.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Client performs Google Sheets values operations.
type Client interface {
	// Values reads a range and returns its rows.
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
	// Clear removes all values from a range.
	Clear(ctx context.Context, spreadsheetID, rng string) error
	// Update overwrites a range with the given rows.
	Update(ctx context.Context, spreadsheetID, rng string, values [][]string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client. Pass the client built
// from the service-account JWT config so requests carry OAuth credentials.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Sheets values API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// valueRange mirrors the API's ValueRange body. Cell values come back as
// strings for formatted reads, which is all this client does.
type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values,omitempty"`
}

func (c *httpClient) valuesURL(spreadsheetID, rng, suffix string) string {
	return fmt.Sprintf("%s/spreadsheets/%s/values/%s%s",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(rng), suffix)
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sheets: status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *httpClient) Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.valuesURL(spreadsheetID, readRange, ""), nil)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: create request")
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, eris.Wrap(err, "sheets: decode response")
	}
	return vr.Values, nil
}

func (c *httpClient) Clear(ctx context.Context, spreadsheetID, rng string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.valuesURL(spreadsheetID, rng, ":clear"), bytes.NewReader([]byte("{}")))
	if err != nil {
		return eris.Wrap(err, "sheets: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

func (c *httpClient) Update(ctx context.Context, spreadsheetID, rng string, values [][]string) error {
	payload, err := json.Marshal(valueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         values,
	})
	if err != nil {
		return eris.Wrap(err, "sheets: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.valuesURL(spreadsheetID, rng, "?valueInputOption=RAW"), bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "sheets: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}
