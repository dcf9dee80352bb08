// Package cmd implements the CLI application to build and inspect ACH files.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	ach "github.com/gitexel/ach-file"
	"github.com/gitexel/ach-file/date"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var schemaFile = flag.String("schema-file", os.Getenv("ACH_SCHEMA_FILE"), "YAML file of field type overrides applied to the standard schema")
var verbose = flag.Bool("v", os.Getenv("ACH_VERBOSE") != "", "Log debug messages")

// stdout receives the command results. Diagnostics go to the logger.
var stdout io.Writer = os.Stdout

// clock resolves the automatic dates of built files.
var clock date.Clock = date.System

// newLogger returns the stderr logger of the application.
func newLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "achtool"})
	if *verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// options returns the library options selected by the global flags.
func options(logger *log.Logger) ([]ach.Option, error) {
	opts := []ach.Option{ach.WithLogger(logger), ach.WithClock(clock)}
	if *schemaFile == "" {
		return opts, nil
	}
	f, err := os.Open(*schemaFile)
	if err != nil {
		return nil, fmt.Errorf("opening schema file: %w", err)
	}
	defer f.Close()
	s, err := ach.LoadOverrides(f, ach.StandardSchema())
	if err != nil {
		return nil, fmt.Errorf("schema file %q: %w", *schemaFile, err)
	}
	logger.Debug("schema overrides loaded", "file", *schemaFile)
	return append(opts, ach.WithSchema(s)), nil
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// writeOutput writes data to the named file, or stdout for "" and "-".
func writeOutput(name string, data []byte) error {
	if name == "" || name == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(name, data, 0644)
}

// parseFile reads and parses an ACH file, or its JSON form when the name ends with .json.
func parseFile(name string, logger *log.Logger) (*ach.Contents, error) {
	opts, err := options(logger)
	if err != nil {
		return nil, err
	}
	data, err := readInput(name)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return ach.DecodeJSON(data, opts...)
	}
	return ach.Parse(string(data), opts...)
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
