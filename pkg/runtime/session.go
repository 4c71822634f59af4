// Package runtime executes source lines against a session: one symbol table
// and one output radix shared by every line the session sees.
package runtime

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jac259/CompilerDesign/pkg/expr"
	"github.com/jac259/CompilerDesign/pkg/types"
)

// MaxLinesPerSession is the statement limit of sessions held by a server.
const MaxLinesPerSession = 100_000

// CommentPrefix starts a comment that runs to the end of the line.
const CommentPrefix = "#"

// Line is the outcome of executing one source line.
type Line struct {
	// Input is the line with its comment and surrounding space removed.
	Input string
	// Statement is the canonical printed form; empty when the line failed.
	Statement string
	Value     types.Value
	Err       error
	Radix     types.Radix
}

// Failed reports whether the line produced an error.
func (l *Line) Failed() bool {
	return l.Err != nil
}

// Result returns the formatted value, or "" for a failed line.
func (l *Line) Result() string {
	if l.Err != nil {
		return ""
	}
	return l.Value.Format(l.Radix)
}

// String renders the line as two lines of output:
//
//	Input: <canonical statement>
//	Result: <value>
//
// or, when the line failed, the raw input followed by "Error: <Tag>: <msg>".
func (l *Line) String() string {
	if l.Err != nil {
		return "Input: " + l.Input + "\nError: " + l.Err.Error()
	}
	return "Input: " + l.Statement + "\nResult: " + l.Result()
}

// Report is the serializable form of a Line.
type Report struct {
	Input     string       `json:"input"`
	Statement string       `json:"statement,omitempty"`
	Result    string       `json:"result,omitempty"`
	Error     *ErrorReport `json:"error,omitempty"`
}

// ErrorReport describes a failed line.
type ErrorReport struct {
	Kind    string   `json:"kind,omitempty"`
	Message string   `json:"message"`
	Tags    []string `json:"tags"`
}

// Report converts the line to its serializable form.
func (l *Line) Report() Report {
	if l.Err == nil {
		return Report{Input: l.Input, Statement: l.Statement, Result: l.Result()}
	}

	er := &ErrorReport{Message: l.Err.Error(), Tags: []string{}}
	var e *types.Error
	if errors.As(l.Err, &e) {
		er.Kind = e.Kind()
		er.Message = e.Message
		er.Tags = e.Tags
	}
	return Report{Input: l.Input, Error: er}
}

// Variable describes one declared variable.
type Variable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Initializer string `json:"initializer"`
	Value       string `json:"value"`
}

// Session holds the state shared by consecutive lines. Lines on one session
// execute strictly in order; a Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	ctx        *expr.Context
	lineCount  int
	maxLines   int // 0 means unlimited
	createTime time.Time
	updateTime time.Time
}

// NewSession creates a session with an empty symbol table and no statement
// limit.
func NewSession(radix types.Radix) *Session {
	return NewLimitedSession(radix, 0)
}

// NewLimitedSession creates a session that fails every statement after the
// first maxLines with a ResourceLimitError. A maxLines of 0 disables the limit.
func NewLimitedSession(radix types.Radix, maxLines int) *Session {
	now := time.Now()
	return &Session{
		ctx:        expr.NewContext(radix),
		maxLines:   maxLines,
		createTime: now,
		updateTime: now,
	}
}

// LineLimit returns the statement limit, 0 when unlimited.
func (s *Session) LineLimit() int {
	return s.maxLines
}

// VariableCount returns the number of declared variables.
func (s *Session) VariableCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Symbols.Len()
}

// Radix returns the session's output radix.
func (s *Session) Radix() types.Radix {
	return s.ctx.Radix
}

// LineCount returns the number of statements executed so far, including
// failed ones.
func (s *Session) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineCount
}

// CreateTime returns when the session was created.
func (s *Session) CreateTime() time.Time {
	return s.createTime
}

// UpdateTime returns when the session last executed a statement.
func (s *Session) UpdateTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateTime
}

// StripComment removes a trailing comment and surrounding whitespace.
func StripComment(line string) string {
	if i := strings.Index(line, CommentPrefix); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Execute runs one source line. It returns false when the line is empty or
// only a comment, in which case nothing is executed.
func (s *Session) Execute(line string) (*Line, bool) {
	input := StripComment(line)
	if input == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lineCount++
	s.updateTime = time.Now()

	result := &Line{Input: input, Radix: s.ctx.Radix}
	if s.maxLines > 0 && s.lineCount > s.maxLines {
		result.Err = types.NewResourceLimitError(
			fmt.Sprintf("session exceeded maximum of %d statements", s.maxLines))
		return result, true
	}

	stmt, err := expr.ParseStatement(input, s.ctx)
	if err != nil {
		result.Err = err
		return result, true
	}

	var value types.Value
	switch st := stmt.(type) {
	case *expr.ExprStmt:
		value, err = expr.Evaluate(st.Expr)
	case *expr.DeclStmt:
		value, err = expr.Evaluate(st.Decl.Value)
	}
	if err != nil {
		result.Err = err
		return result, true
	}

	result.Statement = expr.PrintStmt(stmt)
	result.Value = value
	return result, true
}

// ExecuteSource runs every line of src in order. Empty and comment-only
// lines produce no result.
func (s *Session) ExecuteSource(src string) []*Line {
	var lines []*Line
	for _, raw := range strings.Split(src, "\n") {
		if l, ok := s.Execute(raw); ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// Variables lists the declared variables sorted by name.
func (s *Session) Variables() []Variable {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.ctx.Symbols.Names()
	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		d, _ := s.ctx.Symbols.Find(name)
		v, err := expr.Evaluate(d.Value)
		value := v.Format(s.ctx.Radix)
		if err != nil {
			value = err.Error()
		}
		vars = append(vars, Variable{
			Name:        d.Name,
			Type:        d.Type.String(),
			Initializer: expr.Print(d.Init),
			Value:       value,
		})
	}
	return vars
}
