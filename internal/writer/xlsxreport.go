// =============================================================================
// NAI File Parser - Checks Workbook
// =============================================================================

package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/nai-file-parser/internal/tabular"
)

// WriteChecksWorkbook writes the aggregated check results of a batch run to
// an XLSX workbook with a single "checks" sheet. The header row is frozen
// and bold so the sheet is usable as a reconciliation report as-is.
func WriteChecksWorkbook(path string, table tabular.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "checks"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name checks sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCol, _ := excelize.ColumnNumberToName(len(table.Columns))
		_ = f.SetCellStyle(sheet, "A1", endCol+"1", style)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save checks workbook: %w", err)
	}
	return nil
}
