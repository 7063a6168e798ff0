// =============================================================================
// NAI File Parser - Transaction Detail Code Table
// =============================================================================
//
// This module loads the transaction detail code table that enriches 16
// records with their debit/credit side and descriptive text. The table can
// come from an XLSX workbook (the form banks distribute it in) or from
// inline entries in the configuration document.
//
// Expected workbook columns, matched by header name on the first row:
//   transaction_code, dr_cr, transaction_description, statement_particulars
//
// Lookups for unknown codes return empty strings; the pipeline records the
// transaction unenriched rather than failing.
//
// =============================================================================

package codetable

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/nai-file-parser/internal/config"
)

// Entry is one transaction detail code definition.
type Entry struct {
	Code                 string
	DrCr                 string
	Description          string
	StatementParticulars string
}

// Table maps transaction detail codes to their definitions. It implements
// the lookup interface the assembler consumes.
type Table struct {
	entries map[string]Entry
}

// Load builds the table from the configured source. An empty configuration
// yields an empty table: every lookup misses and transactions stay
// unenriched.
func Load(cfg config.CodeTableConfig) (*Table, error) {
	if cfg.Path != "" {
		return loadWorkbook(cfg.Path, cfg.Sheet)
	}

	t := &Table{entries: make(map[string]Entry, len(cfg.Inline))}
	for _, e := range cfg.Inline {
		t.add(Entry{
			Code:                 e.Code,
			DrCr:                 e.DrCr,
			Description:          e.Description,
			StatementParticulars: e.StatementParticulars,
		})
	}
	return t, nil
}

// loadWorkbook reads the code table from an XLSX worksheet. The first row is
// the header row; columns are located by name so column order in the
// workbook does not matter.
func loadWorkbook(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open code table workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("code table sheet %q is empty", sheet)
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}

	required := []string{"transaction_code", "dr_cr"}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("code table sheet %q is missing column %q", sheet, name)
		}
	}

	t := &Table{entries: make(map[string]Entry, len(rows)-1)}
	for _, row := range rows[1:] {
		code := cell(row, columns, "transaction_code")
		if code == "" {
			continue
		}
		t.add(Entry{
			Code:                 code,
			DrCr:                 strings.ToUpper(cell(row, columns, "dr_cr")),
			Description:          cell(row, columns, "transaction_description"),
			StatementParticulars: cell(row, columns, "statement_particulars"),
		})
	}
	return t, nil
}

func cell(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *Table) add(e Entry) {
	t.entries[e.Code] = e
}

// Len returns the number of codes in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// DrCr returns "DR" or "CR" for a known code, "" otherwise.
func (t *Table) DrCr(code string) string {
	return t.entries[code].DrCr
}

// Description returns the transaction description for a known code.
func (t *Table) Description(code string) string {
	return t.entries[code].Description
}

// StatementParticulars returns the statement particulars for a known code.
func (t *Table) StatementParticulars(code string) string {
	return t.entries[code].StatementParticulars
}
