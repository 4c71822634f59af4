package runtime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jac259/CompilerDesign/pkg/expr"
)

// VarsCommand lists the session's variables instead of executing a statement.
const VarsCommand = ":vars"

// Options controls how Run writes its output.
type Options struct {
	// Color highlights result and error labels.
	Color bool
	// Tokens prints the token stream of each line before its result.
	Tokens bool
}

// Summary counts the lines Run executed.
type Summary struct {
	Lines  int
	Failed int
}

// printer writes line results, optionally coloured.
type printer struct {
	w      io.Writer
	label  *color.Color
	result *color.Color
	err    *color.Color
}

func newPrinter(w io.Writer, enabled bool) *printer {
	p := &printer{
		w:      w,
		label:  color.New(color.Bold),
		result: color.New(color.FgGreen),
		err:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.label, p.result, p.err} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) line(l *Line) error {
	if l.Failed() {
		_, err := fmt.Fprintf(p.w, "%s %s\n%s %s\n\n",
			p.label.Sprint("Input:"), l.Input, p.err.Sprint("Error:"), l.Err.Error())
		return err
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n%s %s\n\n",
		p.label.Sprint("Input:"), l.Statement, p.label.Sprint("Result:"), p.result.Sprint(l.Result()))
	return err
}

func (p *printer) tokens(s *Session, input string) error {
	toks, err := expr.NewLexer(input).Tokenize()
	if err != nil {
		// The lexical error is reported with the line's result.
		return nil
	}
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		parts = append(parts, tok.Format(s.Radix()))
	}
	_, err = fmt.Fprintf(p.w, "%s %s\n", p.label.Sprint("Tokens:"), strings.Join(parts, " "))
	return err
}

func (p *printer) variables(s *Session) error {
	vars := s.Variables()
	if len(vars) == 0 {
		_, err := fmt.Fprintln(p.w, "(no variables)")
		return err
	}
	for _, v := range vars {
		if _, err := fmt.Fprintf(p.w, "var %s %s = %s  # %s\n", v.Type, v.Name, v.Initializer, v.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.w)
	return err
}

// Run reads lines from r and executes them on s, writing each result to w.
// A failing line is reported and does not stop the run. Run returns when r
// is exhausted, when ctx is cancelled, or when writing fails.
func Run(ctx context.Context, r io.Reader, w io.Writer, s *Session, opts Options) (Summary, error) {
	var sum Summary
	p := newPrinter(w, opts.Color)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		raw := scanner.Text()
		if StripComment(raw) == VarsCommand {
			if err := p.variables(s); err != nil {
				return sum, err
			}
			continue
		}

		if opts.Tokens {
			if input := StripComment(raw); input != "" {
				if err := p.tokens(s, input); err != nil {
					return sum, err
				}
			}
		}

		l, ok := s.Execute(raw)
		if !ok {
			continue
		}
		sum.Lines++
		if l.Failed() {
			sum.Failed++
		}
		if err := p.line(l); err != nil {
			return sum, err
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("reading input: %w", err)
	}
	return sum, nil
}
