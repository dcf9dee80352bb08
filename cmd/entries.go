package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	ach "github.com/gitexel/ach-file"
	"github.com/xuri/excelize/v2"
)

// addendaColumn holds the payment related information of a single addenda.
const addendaColumn = "addenda"

// decodeEntries reads entry specifications from a CSV or XLSX sheet. The first
// row names the entry fields, empty cells leave the field to its default.
func decodeEntries(data []byte) ([]ach.Values, error) {
	var rows [][]string
	var err error
	if isSpreadsheet(data) {
		rows, err = spreadsheetRows(data)
	} else {
		rows, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("entries sheet has no header row")
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	var entries []ach.Values
	for _, row := range rows[1:] {
		entry := ach.Values{}
		for i, value := range row {
			value = strings.TrimSpace(value)
			if i >= len(header) || header[i] == "" || value == "" {
				continue
			}
			entry[header[i]] = value
		}
		if len(entry) == 0 {
			continue
		}
		if info, ok := entry[addendaColumn]; ok {
			delete(entry, addendaColumn)
			entry["addendas"] = []ach.Values{{"payment_related_information": info}}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// normalizeEntry converts dollar amounts ("12.50") into cents.
func normalizeEntry(entry ach.Values) error {
	s, ok := entry["amount"].(string)
	if !ok || !strings.Contains(s, ".") {
		return nil
	}
	a, err := ach.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	entry["amount"] = a
	return nil
}

func spreadsheetRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in spreadsheet")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}
	return rows, nil
}

// isSpreadsheet checks the ZIP magic bytes of an xlsx file.
func isSpreadsheet(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte("PK\x03\x04"))
}
