package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	ach "github.com/gitexel/ach-file"
	"github.com/gitexel/ach-file/renderer"
	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// describeCmd holds the flags for the 'describe' subcommand.
type describeCmd struct {
	html  bool
	table bool
}

func (*describeCmd) Name() string     { return "describe" }
func (*describeCmd) Synopsis() string { return "display a summary of an ACH file" }
func (*describeCmd) Usage() string {
	return `achtool describe [-html | -table] [<file>]

  Displays the file header, the totals of each batch and its entries.
  Control mismatches are listed at the end.
  -html prints the summary as an HTML fragment, -table prints a plain
  listing of the entries.
`
}

func (c *describeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.html, "html", false, "Print the summary as HTML.")
	f.BoolVar(&c.table, "table", false, "Print the entries as a plain table.")
}

func (c *describeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.html && c.table {
		fmt.Fprintln(os.Stderr, "Error: -html and -table are exclusive")
		return subcommands.ExitUsageError
	}
	logger := newLogger()
	contents, err := parseFile(f.Arg(0), logger)
	if err != nil {
		logger.Error("parsing failed", "err", err)
		return subcommands.ExitFailure
	}

	switch {
	case c.table:
		writeEntryTable(stdout, contents)
	case c.html:
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		var b bytes.Buffer
		if err := md.Convert([]byte(renderer.RenderFile(renderer.NewFile(contents))), &b); err != nil {
			logger.Error("rendering HTML", "err", err)
			return subcommands.ExitFailure
		}
		stdout.Write(b.Bytes())
	default:
		printMarkdown(renderer.RenderFile(renderer.NewFile(contents)))
	}
	return subcommands.ExitSuccess
}

// writeEntryTable lists every entry of c, one row per entry.
func writeEntryTable(w io.Writer, c *ach.Contents) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Batch", "Trace", "Code", "Routing", "Amount", "Addendas"})
	table.SetAutoFormatHeaders(false)
	for _, b := range c.Batches {
		batch := strconv.Itoa(b.Header.BatchNumber())
		for _, tx := range b.Transactions {
			table.Append([]string{
				batch,
				tx.Entry.TraceNumber(),
				tx.Entry.TransactionCode().String(),
				tx.Entry.Field("rdfi_routing"),
				tx.Entry.Amount().String(),
				strconv.Itoa(len(tx.Addendas)),
			})
		}
	}
	table.SetFooter([]string{"", "", "", "Total", c.TotalDebit().String() + " / " + c.TotalCredit().String(), ""})
	table.Render()
}
