// Package script reads YAML test scripts: a radix and a list of statements,
// each optionally paired with the result or error it must produce.
package script

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// MaxSourceSize is the maximum script size in bytes (128 KB).
const MaxSourceSize = 128 * 1024

// MaxSteps is the maximum number of steps in one script.
const MaxSteps = 10_000

// Script is a parsed script.
type Script struct {
	Name  string
	Radix types.Radix
	Steps []*Step
}

// Step is one statement and its expectation. At most one of Expect and
// Error is set; a step with neither only has to succeed.
type Step struct {
	Input  string
	Expect string
	Error  string // error tag the statement must fail with
	Line   int    // line in the YAML source
}

// ParseError represents an error encountered during script parsing.
type ParseError struct {
	Message  string
	Location string // e.g., "step 3 (line 7)"
}

func (e *ParseError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

var knownTags = map[string]bool{
	types.TagLexicalError:       true,
	types.TagSyntaxError:        true,
	types.TagTypeError:          true,
	types.TagDeclarationError:   true,
	types.TagOverflowError:      true,
	types.TagZeroDivisionError:  true,
	types.TagArithmeticError:    true,
	types.TagResourceLimitError: true,
}

// Parse parses a YAML script.
func Parse(source []byte) (*Script, error) {
	if len(source) > MaxSourceSize {
		return nil, &ParseError{Message: fmt.Sprintf("script size %d exceeds maximum %d bytes", len(source), MaxSourceSize)}
	}

	var raw yaml.Node
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	// The root node is a document node containing the actual content
	if raw.Kind != yaml.DocumentNode || len(raw.Content) == 0 {
		return nil, &ParseError{Message: "empty script"}
	}

	rootNode := raw.Content[0]
	if rootNode.Kind != yaml.MappingNode {
		return nil, &ParseError{Message: "script must be a mapping"}
	}

	s := &Script{Radix: types.Decimal}
	haveSteps := false

	for i := 0; i+1 < len(rootNode.Content); i += 2 {
		key := rootNode.Content[i].Value
		val := rootNode.Content[i+1]

		switch key {
		case "name":
			s.Name = val.Value
		case "radix":
			r, err := types.ParseRadix(val.Value)
			if err != nil {
				return nil, &ParseError{Message: err.Error(), Location: fmt.Sprintf("line %d", val.Line)}
			}
			s.Radix = r
		case "steps":
			steps, err := parseSteps(val)
			if err != nil {
				return nil, err
			}
			s.Steps = steps
			haveSteps = true
		default:
			return nil, &ParseError{
				Message:  fmt.Sprintf("unknown key '%s'", key),
				Location: fmt.Sprintf("line %d", rootNode.Content[i].Line),
			}
		}
	}

	if !haveSteps {
		return nil, &ParseError{Message: "script has no steps"}
	}
	return s, nil
}

func parseSteps(node *yaml.Node) ([]*Step, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &ParseError{
			Message:  "steps must be a sequence",
			Location: fmt.Sprintf("line %d", node.Line),
		}
	}
	if len(node.Content) > MaxSteps {
		return nil, &ParseError{Message: fmt.Sprintf("script has %d steps, maximum is %d", len(node.Content), MaxSteps)}
	}

	steps := make([]*Step, 0, len(node.Content))
	for i, item := range node.Content {
		step, err := parseStep(item, fmt.Sprintf("step %d (line %d)", i+1, item.Line))
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseStep parses either a bare statement or an input/expect/error mapping.
func parseStep(node *yaml.Node, loc string) (*Step, error) {
	step := &Step{Line: node.Line}

	switch node.Kind {
	case yaml.ScalarNode:
		step.Input = node.Value

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val := node.Content[i+1]

			if val.Kind != yaml.ScalarNode {
				return nil, &ParseError{Message: fmt.Sprintf("'%s' must be a scalar", key), Location: loc}
			}

			switch key {
			case "input":
				step.Input = val.Value
			case "expect":
				step.Expect = val.Value
			case "error":
				if !knownTags[val.Value] {
					return nil, &ParseError{Message: fmt.Sprintf("unknown error tag '%s'", val.Value), Location: loc}
				}
				step.Error = val.Value
			default:
				msg := fmt.Sprintf("unknown key '%s'", key)
				if strings.ContainsAny(key, "?=") {
					msg += " (quote statements that contain ': ')"
				}
				return nil, &ParseError{Message: msg, Location: loc}
			}
		}

	default:
		return nil, &ParseError{Message: "step must be a statement or a mapping", Location: loc}
	}

	if strings.TrimSpace(step.Input) == "" {
		return nil, &ParseError{Message: "step has no input", Location: loc}
	}
	if step.Expect != "" && step.Error != "" {
		return nil, &ParseError{Message: "step cannot have both 'expect' and 'error'", Location: loc}
	}
	return step, nil
}
