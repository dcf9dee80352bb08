package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	ach "github.com/gitexel/ach-file"
	"github.com/goccy/go-json"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

// buildSpec is the document read by 'achtool build'.
type buildSpec struct {
	FileHeader map[string]any `json:"file_header" yaml:"file_header"`
	Batches    []batchSpec    `json:"batches" yaml:"batches"`
}

type batchSpec struct {
	Header  map[string]any   `json:"header" yaml:"header"`
	Entries []map[string]any `json:"entries" yaml:"entries"`
}

type buildCmd struct {
	outputFile  string
	entriesFile string
	batch       int
	keepGoing   bool
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "builds an ACH file from a JSON or YAML specification" }
func (*buildCmd) Usage() string {
	return `achtool build [-o <output>] [-entries <sheet>] [-batch <index>] [-k] <spec>

  Builds an ACH file from a specification listing the file header values and
  the batches, each with its header values and entries. Control records, batch
  numbers and trace sequence numbers are computed.
  The specification is YAML when its extension is .yaml or .yml, JSON otherwise.

  -entries adds the rows of a CSV or XLSX sheet to a batch. The first row names
  the entry fields; an 'addenda' column adds one addenda with that payment
  related information. Amounts with a decimal point are dollars, otherwise cents.

Usage Examples:
$ achtool build -o payroll.ach payroll.yaml
$ achtool build -entries employees.xlsx -batch 0 -k payroll.yaml

Specification example:
  file_header:
    destination_routing: "021000021"
    origin_id: "011000015"
    destination_name: JPMORGAN CHASE
    origin_name: ACME CORP
  batches:
    - header:
        company_name: ACME CORP
        company_identification: "1234567890"
        company_entry_description: PAYROLL
      entries:
        - transaction_code: 22
          rdfi_routing: "091000019"
          rdfi_account_number: "123456789"
          amount: 150000
          individual_name: ALICE SMITH
          addendas:
            - payment_related_information: JULY
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Output file. Defaults to stdout.")
	f.StringVar(&c.entriesFile, "entries", "", "CSV or XLSX sheet of additional entries.")
	f.IntVar(&c.batch, "batch", -1, "Index (0-based) of the batch receiving the sheet entries. Negative means the last batch.")
	f.BoolVar(&c.keepGoing, "k", false, "Skip invalid entries instead of failing the build.")
}

func (c *buildCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: build takes exactly one specification file")
		return subcommands.ExitUsageError
	}
	logger := newLogger()
	spec, err := decodeBuildSpec(f.Arg(0))
	if err != nil {
		logger.Error("reading specification", "file", f.Arg(0), "err", err)
		return subcommands.ExitFailure
	}
	opts, err := options(logger)
	if err != nil {
		logger.Error("loading schema", "err", err)
		return subcommands.ExitFailure
	}

	b, err := ach.NewBuilder(spec.FileHeader, opts...)
	if err != nil {
		logger.Error("invalid file header", "err", err)
		return subcommands.ExitFailure
	}
	for i, batch := range spec.Batches {
		if err := b.AddBatch(batch.Header); err != nil {
			logger.Error("invalid batch header", "batch", i, "err", err)
			return subcommands.ExitFailure
		}
		entries := make([]ach.Values, len(batch.Entries))
		for j, e := range batch.Entries {
			entries[j] = e
		}
		if err := c.add(b, logger, entries, ach.InBatch(i)); err != nil {
			logger.Error("invalid entries", "batch", i, "err", err)
			return subcommands.ExitFailure
		}
	}

	if c.entriesFile != "" {
		data, err := readInput(c.entriesFile)
		if err != nil {
			logger.Error("reading entries", "err", err)
			return subcommands.ExitFailure
		}
		entries, err := decodeEntries(data)
		if err != nil {
			logger.Error("decoding entries", "file", c.entriesFile, "err", err)
			return subcommands.ExitFailure
		}
		var opts []ach.AddOption
		if c.batch >= 0 {
			opts = append(opts, ach.InBatch(c.batch))
		}
		if err := c.add(b, logger, entries, opts...); err != nil {
			logger.Error("invalid entries", "file", c.entriesFile, "err", err)
			return subcommands.ExitFailure
		}
	}

	text, err := b.Render()
	if err != nil {
		logger.Error("rendering file", "err", err)
		return subcommands.ExitFailure
	}
	if err := writeOutput(c.outputFile, []byte(text)); err != nil {
		logger.Error("writing output", "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// add appends entries, collecting and reporting the rejected ones with -k.
func (c *buildCmd) add(b *ach.Builder, logger *log.Logger, entries []ach.Values, opts ...ach.AddOption) error {
	for _, e := range entries {
		if err := normalizeEntry(e); err != nil {
			return err
		}
	}
	if !c.keepGoing {
		_, err := b.AddEntriesAndAddendas(entries, opts...)
		return err
	}
	failures, err := b.AddEntriesAndAddendas(entries, append(opts, ach.CollectFailures())...)
	for _, f := range failures {
		logger.Warn("entry skipped", "name", f.Entry["individual_name"], "err", f.Err)
	}
	return err
}

func decodeBuildSpec(name string) (*buildSpec, error) {
	data, err := readInput(name)
	if err != nil {
		return nil, err
	}
	var spec buildSpec
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &spec)
	default:
		err = json.Unmarshal(data, &spec)
	}
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
