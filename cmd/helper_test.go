package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gitexel/ach-file/date"
	"github.com/google/subcommands"
)

const fixture = "../testdata/ppd.ach"

// captureStdout redirects the command output for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var b bytes.Buffer
	old := stdout
	stdout = &b
	t.Cleanup(func() { stdout = old })
	return &b
}

// fixClock sets the clock used for automatic dates to the fixture creation time.
func fixClock(t *testing.T) {
	t.Helper()
	old := clock
	clock = date.Fixed(time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC))
	t.Cleanup(func() { clock = old })
}

// run parses args with the command flags and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("parsing flags %v: %v", args, err)
	}
	return c.Execute(context.Background(), f)
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(b)
}

// writeTemp creates a file with content in a temporary directory.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return p
}
