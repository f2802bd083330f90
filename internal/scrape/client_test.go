package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><body>
<form method="post" action="/usernamepassword/login">
  <input type="hidden" name="state" value="abc123">
  <input id="username" name="username" type="text">
  <input id="password" name="password" type="password">
  <button type="submit">Log In</button>
</form>
</body></html>`

func tableRow(name, domain, username, status, locations, updated string) string {
	return fmt.Sprintf(
		"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
		name, domain, username, status, locations, updated,
	)
}

// newDashboard serves a login form and a two-page connections table.
func newDashboard(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	logins := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPage)
	})
	mux.HandleFunc("/usernamepassword/login", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "ops@tuuthfairy.com", r.PostFormValue("username"))
		assert.Equal(t, "hunter2", r.PostFormValue("password"))
		assert.Equal(t, "abc123", r.PostFormValue("state"))
		logins++
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok", Path: "/"})
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>dashboard</body></html>")
	})
	mux.HandleFunc("/connection", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Query().Get("page") {
		case "", "1":
			fmt.Fprint(w, "<html><body><table><tbody>"+
				tableRow("ClinicA", "x.com", "a@x.com", "auth_failed", "airpay_1, airpay_2", "2026-08-01")+
				tableRow("ClinicB", "y.com", "b@y.com", "ok", "default", "2026-08-02")+
				"</tbody></table>"+
				`<a href="/connection?page=2">Next</a>`+
				"</body></html>")
		case "2":
			fmt.Fprint(w, "<html><body><table><tbody>"+
				tableRow("ClinicC", "z.com", "c@z.com", "auth_failed", "airpay_3", "2026-08-03")+
				"</tbody></table></body></html>")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	return httptest.NewServer(mux), &logins
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, "ops@tuuthfairy.com", "hunter2", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestLoginSubmitsCredentialForm(t *testing.T) {
	srv, logins := newDashboard(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, 1, *logins)
}

func TestLoginAlreadyAuthenticated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		// Session is still valid: the dashboard serves straight content.
		fmt.Fprint(w, "<html><body>dashboard home</body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Login(context.Background()))
}

func TestNextPageWalksAllPages(t *testing.T) {
	srv, logins := newDashboard(t)
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	page1, more, err := c.NextPage(context.Background())
	require.NoError(t, err)
	assert.True(t, more)
	require.Len(t, page1, 2)

	// Login happened lazily on the first page.
	assert.Equal(t, 1, *logins)

	assert.Equal(t, "ClinicA", page1[0].Name)
	assert.Equal(t, "x.com", page1[0].Domain)
	assert.Equal(t, "a@x.com", page1[0].Username)
	assert.Equal(t, "auth_failed", page1[0].Status)
	assert.Equal(t, "airpay_1, airpay_2", page1[0].Locations)
	assert.Equal(t, "2026-08-01", page1[0].LastUpdated)

	page2, more, err := c.NextPage(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, page2, 1)
	assert.Equal(t, "ClinicC", page2[0].Name)

	// Exhausted source stays exhausted.
	page3, more, err := c.NextPage(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	assert.Empty(t, page3)
}

func TestNextPageIgnoresShortRows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>home</body></html>")
	})
	mux.HandleFunc("/connection", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><table><tbody>"+
			"<tr><td>only</td><td>two</td></tr>"+
			tableRow("ClinicA", "x.com", "a@x.com", "auth_failed", "airpay_1", "2026-08-01")+
			"</tbody></table></body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	rows, more, err := c.NextPage(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, rows, 1)
	assert.Equal(t, "ClinicA", rows[0].Name)
}
