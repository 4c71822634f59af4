package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jac259/CompilerDesign/pkg/runtime"
	"github.com/jac259/CompilerDesign/pkg/types"
)

// StepResult pairs a step with the line it produced.
type StepResult struct {
	Step *Step
	Line *runtime.Line
	// Mismatch is set when the line did not meet the step's expectation.
	Mismatch error
}

// Report is the outcome of running a script.
type Report struct {
	Name     string
	Results  []StepResult
	Failures int
}

// OK reports whether every step met its expectation.
func (r *Report) OK() bool {
	return r.Failures == 0
}

// String summarizes the report, listing each mismatch.
func (r *Report) String() string {
	var sb strings.Builder
	for _, res := range r.Results {
		if res.Mismatch != nil {
			fmt.Fprintf(&sb, "line %d: %s: %v\n", res.Step.Line, res.Step.Input, res.Mismatch)
		}
	}
	fmt.Fprintf(&sb, "%d/%d steps passed", len(r.Results)-r.Failures, len(r.Results))
	return sb.String()
}

// Run executes the script's steps in one fresh session.
func Run(s *Script) *Report {
	session := runtime.NewSession(s.Radix)
	report := &Report{Name: s.Name}

	for _, step := range s.Steps {
		line, ok := session.Execute(step.Input)
		res := StepResult{Step: step, Line: line}
		if !ok {
			res.Mismatch = errors.New("statement is empty")
		} else {
			res.Mismatch = check(step, line)
		}
		if res.Mismatch != nil {
			report.Failures++
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func check(step *Step, line *runtime.Line) error {
	if step.Error != "" {
		if !line.Failed() {
			return fmt.Errorf("expected %s, got result %s", step.Error, line.Result())
		}
		var e *types.Error
		if !errors.As(line.Err, &e) || !e.HasTag(step.Error) {
			return fmt.Errorf("expected %s, got %v", step.Error, line.Err)
		}
		return nil
	}

	if line.Failed() {
		return fmt.Errorf("unexpected error: %v", line.Err)
	}
	if step.Expect != "" && line.Result() != step.Expect {
		return fmt.Errorf("expected %s, got %s", step.Expect, line.Result())
	}
	return nil
}
