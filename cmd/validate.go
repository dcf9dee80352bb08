package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "checks the structure and control totals of ACH files" }
func (*validateCmd) Usage() string {
	return `achtool validate <file>...

  Parses each file and recomputes its batch and file control records.
  Exits with a failure status when a file is malformed or a stated control
  value differs from the computed one.
`
}

func (*validateCmd) SetFlags(f *flag.FlagSet) {}

func (*validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: validate needs at least one file")
		return subcommands.ExitUsageError
	}
	logger := newLogger()
	status := subcommands.ExitSuccess
	for _, name := range f.Args() {
		contents, err := parseFile(name, logger)
		if err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", name, err)
			status = subcommands.ExitFailure
			continue
		}
		if mismatches := contents.Mismatches(); len(mismatches) > 0 {
			for _, m := range mismatches {
				fmt.Fprintf(stdout, "%s: %v\n", name, m)
			}
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(stdout, "%s: ok, %d batches, %d entries, debit %v, credit %v\n",
			name, len(contents.Batches), contents.EntryCount(), contents.TotalDebit(), contents.TotalCredit())
	}
	return status
}
