package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunStdin(t *testing.T) {
	out, err := execute(t, "var int x = 26\nx + 1\n", "-x")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "Input: var int x = 26\nResult: 0x1a\n\nInput: x + 1\nResult: 0x1b\n\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunFilesShareSession(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.expr")
	b := filepath.Join(dir, "b.expr")
	os.WriteFile(a, []byte("var int n = 5\n"), 0o644)
	os.WriteFile(b, []byte("n * n\n"), 0o644)

	out, err := execute(t, "", "--radix", "b", a, b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Input: n * n\nResult: 0b11001") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunTokens(t *testing.T) {
	out, err := execute(t, "1 + 2\n", "--tokens")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "Tokens: INT: 1 PLUS INT: 2 EOF\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunInvalidRadix(t *testing.T) {
	if _, err := execute(t, "", "--radix", "octal"); err == nil {
		t.Error("expected error for invalid radix")
	}
	if _, err := execute(t, "", "-x", "-b"); err == nil {
		t.Error("expected error for conflicting radix flags")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	pass := filepath.Join(dir, "pass.yaml")
	fail := filepath.Join(dir, "fail.yaml")
	os.WriteFile(pass, []byte("steps:\n  - input: 2 * 21\n    expect: 42\n"), 0o644)
	os.WriteFile(fail, []byte("steps:\n  - input: 1\n    expect: 2\n"), 0o644)

	out, err := execute(t, "", "check", pass)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok\t"+pass) {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, "", "check", pass, fail)
	if err == nil || err.Error() != "1 of 2 script(s) failed" {
		t.Fatalf("expected failure, got %v", err)
	}
	if !strings.Contains(out, "FAIL\t"+fail) || !strings.Contains(out, "expected 2, got 1") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckExamples(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("..", "..", "examples", "scripts", "*.yaml"))
	if err != nil || len(scripts) == 0 {
		t.Fatalf("no example scripts found: %v", err)
	}

	out, err := execute(t, "", append([]string{"check"}, scripts...)...)
	if err != nil {
		t.Fatalf("example scripts failed: %v\n%s", err, out)
	}
}

func TestRunExampleSession(t *testing.T) {
	out, err := execute(t, "", filepath.Join("..", "..", "examples", "sessions", "limits.expr"))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := strings.Count(out, "Error: OverflowError"); got != 2 {
		t.Errorf("expected 2 overflow errors, got %d:\n%s", got, out)
	}
}

func TestHexShorthandHelp(t *testing.T) {
	out, err := execute(t, "", "--help")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "-x, --hex") || !strings.Contains(out, "-h is help") {
		t.Errorf("unexpected help output:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "exprc version dev") {
		t.Errorf("unexpected version output %q", out)
	}
}
