package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"
	"github.com/google/subcommands"
)

type queryCmd struct {
	raw bool
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "extracts fields from an ACH file with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `achtool query [-raw] <expression> [<file>]

  Evaluates a JSONPath expression against the structured form of the file
  (see 'achtool parse') and prints each match on its own line.
  Field values are trimmed unless -raw is given.

Usage Examples:
# Lists the amount of every entry.
$ achtool query '$.batches[*].transactions[*].entry.amount' payroll.ach

# Prints the company name of the first batch.
$ achtool query '$.batches[0].batch_header.company_name' payroll.ach
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Keep the padding of field values.")
}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Error: query takes an expression and at most one file")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	logger := newLogger()
	contents, err := parseFile(f.Arg(1), logger)
	if err != nil {
		logger.Error("parsing failed", "err", err)
		return subcommands.ExitFailure
	}

	jval, err := jsonpath.Get(path, contents.RenderJSONDict())
	if err != nil {
		logger.Error("evaluating expression", "path", path, "err", err)
		return subcommands.ExitFailure
	}
	// wildcards return a list of matches, plain paths a single value.
	matches, ok := jval.([]any)
	if !ok {
		matches = []any{jval}
	}
	for _, m := range matches {
		if s, ok := m.(string); ok {
			if !c.raw {
				s = strings.TrimSpace(s)
			}
			fmt.Fprintln(stdout, s)
			continue
		}
		b, err := json.Marshal(m)
		if err != nil {
			logger.Error("encoding match", "err", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(stdout, string(b))
	}
	return subcommands.ExitSuccess
}
