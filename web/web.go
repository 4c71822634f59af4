// Package web provides the embedded web UI for exprc sessions.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jac259/CompilerDesign/pkg/api"
	"github.com/jac259/CompilerDesign/pkg/runtime"
	"github.com/jac259/CompilerDesign/pkg/store"
	"github.com/jac259/CompilerDesign/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the web UI pages.
type Handler struct {
	store   *store.Store
	radix   types.Radix
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	NavActive string
	Data      interface{}
}

// New creates a new web UI handler. Sessions created from the UI use radix
// unless the form names another.
func New(s *store.Store, radix types.Radix) *Handler {
	return &Handler{
		store: s,
		radix: radix,
		funcMap: template.FuncMap{
			"timeAgo":    timeAgo,
			"formatTime": formatTime,
			"truncate":   truncate,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, navActive string, data interface{}) error {
	// Each page is parsed with the layout on its own so define blocks do not
	// collide across pages.
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pd := pageData{
		NavActive: navActive,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.sessionList)
	app.Post("/ui/sessions", h.createSession)
	app.Get("/ui/sessions/:session", h.sessionDetail)
	app.Post("/ui/sessions/:session", h.executeLines)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type sessionListContent struct {
	Sessions   []*sessionView
	TotalLines int
}

type sessionView struct {
	ID         string
	Radix      string
	LineCount  int
	Variables  int
	CreateTime time.Time
	UpdateTime time.Time
}

type sessionDetailContent struct {
	Session   *sessionView
	Variables []runtime.Variable
	Results   []runtime.Report
	Failed    int
	Source    string
}

type notFoundContent struct {
	Message string
}

// --- Page Handlers ---

func (h *Handler) sessionList(c *fiber.Ctx) error {
	entries := h.store.ListSessions()

	views := make([]*sessionView, 0, len(entries))
	total := 0
	for _, e := range entries {
		v := newSessionView(e)
		total += v.LineCount
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].UpdateTime.After(views[j].UpdateTime)
	})

	return h.render(c, "session_list.html", "sessions", sessionListContent{
		Sessions:   views,
		TotalLines: total,
	})
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	e := h.store.CreateSession(h.formRadix(c.FormValue("radix")))
	return c.Redirect("/ui/sessions/"+e.ID(), fiber.StatusSeeOther)
}

func (h *Handler) sessionDetail(c *fiber.Ctx) error {
	e, ok := h.lookup(c)
	if !ok {
		return h.notFound(c)
	}
	return h.render(c, "session_detail.html", "sessions", sessionDetailContent{
		Session:   newSessionView(e),
		Variables: e.Session.Variables(),
	})
}

func (h *Handler) executeLines(c *fiber.Ctx) error {
	e, ok := h.lookup(c)
	if !ok {
		return h.notFound(c)
	}

	source := c.FormValue("source")
	if len(source) > api.MaxSourceBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).
			SendString(fmt.Sprintf("source exceeds maximum size of %d bytes", api.MaxSourceBytes))
	}

	lines := e.Session.ExecuteSource(source)
	results := make([]runtime.Report, len(lines))
	failed := 0
	for i, l := range lines {
		results[i] = l.Report()
		if l.Failed() {
			failed++
		}
	}

	return h.render(c, "session_detail.html", "sessions", sessionDetailContent{
		Session:   newSessionView(e),
		Variables: e.Session.Variables(),
		Results:   results,
		Failed:    failed,
		Source:    source,
	})
}

func (h *Handler) lookup(c *fiber.Ctx) (*store.Entry, bool) {
	e, err := h.store.GetSession(c.Params("session"))
	return e, err == nil
}

func (h *Handler) notFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return h.render(c, "not_found.html", "", notFoundContent{
		Message: fmt.Sprintf("Session '%s' not found", c.Params("session")),
	})
}

func (h *Handler) formRadix(s string) types.Radix {
	if r, err := types.ParseRadix(s); err == nil {
		return r
	}
	return h.radix
}

func newSessionView(e *store.Entry) *sessionView {
	return &sessionView{
		ID:         e.ID(),
		Radix:      e.Session.Radix().Name(),
		LineCount:  e.Session.LineCount(),
		Variables:  e.Session.VariableCount(),
		CreateTime: e.Session.CreateTime(),
		UpdateTime: e.Session.UpdateTime(),
	}
}

// --- Template Helpers ---

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
