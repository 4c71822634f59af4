// Package api implements the REST API for expression sessions. Each session
// keeps its own symbol table; lines posted to a session run in order.
package api

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jac259/CompilerDesign/pkg/runtime"
	"github.com/jac259/CompilerDesign/pkg/store"
	"github.com/jac259/CompilerDesign/pkg/types"
)

// MaxSourceBytes is the largest source body accepted by a single request.
const MaxSourceBytes = 64 * 1024

// SourceExt is the file extension LoadDir picks up.
const SourceExt = ".expr"

var validSessionID = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidSessionID reports whether id may name a session.
func ValidSessionID(id string) bool {
	return len(id) <= 128 && validSessionID.MatchString(id)
}

// Server is the API server for expression sessions.
type Server struct {
	app   *fiber.App
	store *store.Store
	radix types.Radix // for sessions created without an explicit radix
}

// New creates a new API server. Sessions created without a radix use
// defaultRadix.
func New(s *store.Store, defaultRadix types.Radix) *Server {
	srv := &Server{
		store: s,
		radix: defaultRadix,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             2 * MaxSourceBytes,
	})

	app.Post("/v1/sessions", srv.createSession)
	app.Get("/v1/sessions", srv.listSessions)
	app.Get("/v1/sessions/:session", srv.getSession)
	app.Delete("/v1/sessions/:session", srv.deleteSession)
	app.Post("/v1/sessions/:session/lines", srv.executeLines)
	app.Get("/v1/sessions/:session/variables", srv.listVariables)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// --- Session Handlers ---

type createSessionRequest struct {
	Radix string `json:"radix"`
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return errorResponse(c, 400, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}

	radix := s.radix
	if req.Radix != "" {
		r, err := types.ParseRadix(req.Radix)
		if err != nil {
			return errorResponse(c, 400, "INVALID_ARGUMENT", err.Error())
		}
		radix = r
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return c.Status(200).JSON(sessionToJSON(s.store.CreateSession(radix)))
	}
	if !ValidSessionID(sessionID) {
		return errorResponse(c, 400, "INVALID_ARGUMENT", fmt.Sprintf("invalid session ID %q", sessionID))
	}

	e, err := s.store.CreateNamedSession(sessionID, radix)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return errorResponse(c, 409, "ALREADY_EXISTS", err.Error())
		}
		return errorResponse(c, 500, "INTERNAL", err.Error())
	}
	return c.Status(200).JSON(sessionToJSON(e))
}

func (s *Server) getSession(c *fiber.Ctx) error {
	e, err := s.store.GetSession(c.Params("session"))
	if err != nil {
		return errorResponse(c, 404, "NOT_FOUND", err.Error())
	}
	return c.JSON(sessionToJSON(e))
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions := s.store.ListSessions()

	items := make([]fiber.Map, len(sessions))
	for i, e := range sessions {
		items[i] = sessionToJSON(e)
	}

	return c.JSON(fiber.Map{
		"sessions": items,
	})
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if err := s.store.DeleteSession(c.Params("session")); err != nil {
		return errorResponse(c, 404, "NOT_FOUND", err.Error())
	}
	return c.JSON(fiber.Map{})
}

// --- Line Handlers ---

type executeLinesRequest struct {
	Source string `json:"source"`
}

func (s *Server) executeLines(c *fiber.Ctx) error {
	e, err := s.store.GetSession(c.Params("session"))
	if err != nil {
		return errorResponse(c, 404, "NOT_FOUND", err.Error())
	}

	var req executeLinesRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, 400, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}
	if len(req.Source) > MaxSourceBytes {
		return errorResponse(c, 400, "INVALID_ARGUMENT",
			fmt.Sprintf("source exceeds maximum size of %d bytes", MaxSourceBytes))
	}

	lines := e.Session.ExecuteSource(req.Source)
	results := make([]runtime.Report, len(lines))
	for i, l := range lines {
		results[i] = l.Report()
	}

	return c.JSON(fiber.Map{
		"results": results,
	})
}

func (s *Server) listVariables(c *fiber.Ctx) error {
	e, err := s.store.GetSession(c.Params("session"))
	if err != nil {
		return errorResponse(c, 404, "NOT_FOUND", err.Error())
	}
	return c.JSON(fiber.Map{
		"variables": e.Session.Variables(),
	})
}

// --- Directory Loading ---

// LoadDir creates one session per .expr file in dir and runs the file in it.
// The file name (sans extension) becomes the session ID.
func (s *Server) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading sessions directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != SourceExt {
			continue
		}

		base := strings.TrimSuffix(name, SourceExt)
		sessionID := strings.ToLower(base)

		if sessionID != base {
			log.Printf("Warning: lowercased session ID %q (from file %q)", sessionID, name)
		}

		if !ValidSessionID(sessionID) {
			log.Printf("Warning: skipping file %q: invalid session ID %q", name, sessionID)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("Warning: could not read %q: %v", name, err)
			continue
		}

		e, err := s.store.CreateNamedSession(sessionID, s.radix)
		if err != nil {
			log.Printf("Warning: could not create session for %q: %v", name, err)
			continue
		}

		failed := 0
		for _, l := range e.Session.ExecuteSource(string(data)) {
			if l.Failed() {
				failed++
			}
		}
		loaded++
		log.Printf("Loaded session %q from %s (%d failing line(s))", sessionID, name, failed)
	}

	log.Printf("Loaded %d session(s) from %s", loaded, dir)
	return nil
}

// --- Helpers ---

func errorResponse(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func sessionToJSON(e *store.Entry) fiber.Map {
	return fiber.Map{
		"name":       e.Name,
		"radix":      e.Session.Radix().String(),
		"createTime": e.Session.CreateTime().Format(time.RFC3339),
		"updateTime": e.Session.UpdateTime().Format(time.RFC3339),
		"lineCount":  e.Session.LineCount(),
	}
}
