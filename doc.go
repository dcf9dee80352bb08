// Package ach reads and writes NACHA ACH files: fixed-width text files of
// 94 character records exchanged with banks to move money between accounts.
//
// The core functionalities include:
//   - Field types: validation and fixed-width formatting of numeric,
//     alphanumeric, routing number, account number, date, time and code
//     fields.
//   - Record schema: the ordered field table of each of the six record kinds,
//     held by an immutable Schema that can be customized per Builder or
//     Parser.
//   - Builder: assembles a file from a file header, batches and entries with
//     their addendas, computing trace numbers, entry hashes, counts, totals
//     and control records.
//   - Parser: reads file text back into the same Contents model, checking the
//     structure and reporting control totals that disagree with the records.
//   - Structured form: a JSON view of a file, every leaf being the formatted
//     field text, that round trips to the same file.
//
// This package serves as the foundational logic for the `achtool`
// command-line tool.
package ach
