package scrape

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// loginPath starts the Auth0 redirect dance.
const loginPath = "/auth/login"

// Client is an authenticated dashboard session. The cookie jar carries the
// session across the Auth0 redirect chain and table pagination.
type Client struct {
	http     *http.Client
	baseURL  *url.URL
	email    string
	password string
	loggedIn bool
	nextURL  string
	done     bool
}

// NewClient creates a dashboard client for the given base URL and
// credentials.
func NewClient(baseURL, email, password string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: parse base url %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create cookie jar")
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		baseURL:  base,
		email:    email,
		password: password,
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, eris.Wrap(err, "scrape: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "scrape: get %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, nil, eris.Errorf("scrape: get %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, eris.Wrap(err, "scrape: parse html")
	}
	return doc, resp.Request.URL, nil
}

// Login walks the Auth0 login flow: load the login page, submit the
// credential form, and follow the redirects back to the dashboard. A session
// that is already authenticated skips the form.
func (c *Client) Login(ctx context.Context) error {
	doc, landed, err := c.get(ctx, c.baseURL.ResolveReference(&url.URL{Path: loginPath}).String())
	if err != nil {
		return err
	}

	form := doc.Find("form").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("input#username").Length() > 0
	}).First()

	if form.Length() == 0 {
		// No credential form: either already logged in or an unexpected page.
		if landed.Host == c.baseURL.Host {
			zap.L().Info("scrape: session already authenticated")
			c.loggedIn = true
			return nil
		}
		return eris.Errorf("scrape: no login form found at %s", landed)
	}

	values := url.Values{}
	form.Find("input").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		values.Set(name, s.AttrOr("value", ""))
	})
	values.Set("username", c.email)
	values.Set("password", c.password)

	action := form.AttrOr("action", "")
	actionURL, err := landed.Parse(action)
	if err != nil {
		return eris.Wrapf(err, "scrape: resolve form action %q", action)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, actionURL.String(), strings.NewReader(values.Encode()))
	if err != nil {
		return eris.Wrap(err, "scrape: create login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "scrape: submit login form")
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return eris.Errorf("scrape: login failed: status %d", resp.StatusCode)
	}
	if resp.Request.URL.Host != c.baseURL.Host {
		return eris.Errorf("scrape: login did not return to dashboard, ended at %s", resp.Request.URL)
	}

	zap.L().Info("scrape: logged in", zap.String("host", c.baseURL.Host))
	c.loggedIn = true
	return nil
}
