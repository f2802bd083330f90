package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// connectionsPath is the dashboard page holding the paginated table.
const connectionsPath = "/connection"

// table cell order on the connections page.
const (
	cellName = iota
	cellDomain
	cellUsername
	cellStatus
	cellLocations
	cellLastUpdated
	cellCount
)

// NextPage fetches the next table page, logging in first if needed. The
// second return value is false once the last page has been consumed.
func (c *Client) NextPage(ctx context.Context) ([]model.Connection, bool, error) {
	if c.done {
		return nil, false, nil
	}
	if !c.loggedIn {
		if err := c.Login(ctx); err != nil {
			return nil, false, err
		}
	}

	pageURL := c.nextURL
	if pageURL == "" {
		pageURL = c.baseURL.ResolveReference(&url.URL{Path: connectionsPath}).String()
	}

	doc, landed, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, false, err
	}

	rows := parseConnectionRows(doc)
	zap.L().Debug("scrape: page parsed",
		zap.String("url", pageURL),
		zap.Int("rows", len(rows)),
	)

	next := nextPageURL(doc, landed)
	if next == "" {
		c.done = true
		return rows, false, nil
	}
	c.nextURL = next
	return rows, true, nil
}

// parseConnectionRows extracts raw rows from the connections table. Rows
// with fewer cells than the table defines are ignored; real malformation
// handling happens in the pipeline.
func parseConnectionRows(doc *goquery.Document) []model.Connection {
	var rows []model.Connection
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < cellCount {
			return
		}
		text := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}
		rows = append(rows, model.Connection{
			Name:        text(cellName),
			Domain:      text(cellDomain),
			Username:    text(cellUsername),
			Status:      text(cellStatus),
			Locations:   text(cellLocations),
			LastUpdated: text(cellLastUpdated),
		})
	})
	return rows
}

// nextPageURL finds the pagination "Next" link and resolves it against the
// current page. Empty when the last page is showing.
func nextPageURL(doc *goquery.Document, page *url.URL) string {
	var next string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(strings.TrimSpace(a.Text()), "Next") {
			return true
		}
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return true
		}
		resolved, err := page.Parse(href)
		if err != nil {
			return true
		}
		next = resolved.String()
		return false
	})
	return next
}
