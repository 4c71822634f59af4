package web

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jac259/CompilerDesign/pkg/store"
	"github.com/jac259/CompilerDesign/pkg/types"
)

func setupTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	s := store.New()
	h := New(s, types.Hex)
	app := fiber.New()
	h.Register(app)
	return app, s
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header.Get("Location")
}

func TestSessionListEmpty(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui")
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, html)
	}
	if !strings.Contains(html, "Sessions") {
		t.Error("expected Sessions heading in response")
	}
	if !strings.Contains(html, "exprc") {
		t.Error("expected exprc brand in response")
	}
	if !strings.Contains(html, "No sessions yet") {
		t.Error("expected empty state message")
	}
}

func TestSessionListWithData(t *testing.T) {
	app, s := setupTestApp(t)

	e, err := s.CreateNamedSession("calc", types.Decimal)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	e.Session.Execute("var int x = 4")
	s.CreateSession(types.Binary)

	code, html := get(t, app, "/ui")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(html, `href="/ui/sessions/calc"`) {
		t.Error("expected link to calc session")
	}
	if !strings.Contains(html, "2 session(s), 1 line(s) executed") {
		t.Errorf("expected summary line, got:\n%s", html)
	}
	if !strings.Contains(html, "<td>binary</td>") {
		t.Error("expected binary radix in listing")
	}
}

func TestCreateSessionRedirects(t *testing.T) {
	app, s := setupTestApp(t)

	code, _, loc := postForm(t, app, "/ui/sessions", url.Values{"radix": {"b"}})
	if code != fiber.StatusSeeOther {
		t.Fatalf("expected 303, got %d", code)
	}
	if !strings.HasPrefix(loc, "/ui/sessions/session-") {
		t.Fatalf("unexpected redirect %q", loc)
	}

	e, err := s.GetSession(strings.TrimPrefix(loc, "/ui/sessions/"))
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if e.Session.Radix() != types.Binary {
		t.Errorf("radix = %v, want binary", e.Session.Radix())
	}
}

func TestCreateSessionDefaultRadix(t *testing.T) {
	app, s := setupTestApp(t)

	_, _, loc := postForm(t, app, "/ui/sessions", url.Values{"radix": {"octal"}})
	e, err := s.GetSession(strings.TrimPrefix(loc, "/ui/sessions/"))
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if e.Session.Radix() != types.Hex {
		t.Errorf("radix = %v, want handler default hex", e.Session.Radix())
	}
}

func TestSessionDetail(t *testing.T) {
	app, s := setupTestApp(t)

	e, _ := s.CreateNamedSession("detail", types.Hex)
	e.Session.Execute("var int n = 26")

	code, html := get(t, app, "/ui/sessions/detail")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, want := range []string{"detail", "<td>n</td>", "<td>int</td>", "0x1a"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in response", want)
		}
	}
}

func TestExecuteLinesForm(t *testing.T) {
	app, s := setupTestApp(t)
	s.CreateNamedSession("run", types.Decimal)

	code, html, _ := postForm(t, app, "/ui/sessions/run", url.Values{
		"source": {"var int x = 6 * 7\nx / 0\nx"},
	})
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, html)
	}
	if !strings.Contains(html, "3 line(s)") {
		t.Error("expected result count")
	}
	if !strings.Contains(html, "1 failed") {
		t.Error("expected failure count")
	}
	if !strings.Contains(html, "ZeroDivisionError: division by zero") {
		t.Error("expected error kind and message")
	}
	if !strings.Contains(html, "<code>42</code>") {
		t.Error("expected result 42")
	}
}

func TestSessionNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui/sessions/missing")
	if code != 404 {
		t.Fatalf("expected 404, got %d", code)
	}
	if !strings.Contains(html, "Session &#39;missing&#39; not found") {
		t.Errorf("expected not found message, got:\n%s", html)
	}

	code, _, _ = postForm(t, app, "/ui/sessions/missing", url.Values{"source": {"1"}})
	if code != 404 {
		t.Errorf("expected 404 on POST, got %d", code)
	}
}

func TestRootRedirect(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Errorf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/ui" {
		t.Errorf("expected redirect to /ui, got %q", loc)
	}
}

func TestTimeAgo(t *testing.T) {
	if got := timeAgo(time.Time{}); got != "-" {
		t.Errorf("timeAgo(zero) = %q", got)
	}
	if got := timeAgo(time.Now().Add(-2 * time.Hour)); got != "2 hours ago" {
		t.Errorf("timeAgo(-2h) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
}
