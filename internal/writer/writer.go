// =============================================================================
// NAI File Parser - Output Writer
// =============================================================================
//
// This module persists materialized outputs to the output folder. Naming is
// <input-base>__<output-name> with an extension per output kind:
//
//   text   -> .txt
//   json   -> .json
//   table  -> .csv
//
// The checks table is additionally collected across the batch into a single
// XLSX workbook, written once at the end of the run.
//
// =============================================================================

package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/nai-file-parser/internal/pipeline"
)

// Writer persists outputs under one output directory.
type Writer struct {
	dir string
}

// New creates a Writer rooted at the output directory.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteOutputs persists each output for one input file and returns the
// written paths.
func (w *Writer) WriteOutputs(inputFileName string, outputs []pipeline.Output) ([]string, error) {
	base := strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName))

	var written []string
	for _, out := range outputs {
		path := filepath.Join(w.dir, base+"__"+out.Name+extension(out.Kind))

		var err error
		switch out.Kind {
		case pipeline.KindText:
			err = os.WriteFile(path, []byte(out.Text), 0644)
		case pipeline.KindJSON:
			err = os.WriteFile(path, out.JSON, 0644)
		case pipeline.KindTable:
			err = writeCSV(path, out.Table.Columns, out.Table.Rows)
		default:
			err = fmt.Errorf("unknown output kind %d", out.Kind)
		}
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func extension(kind pipeline.OutputKind) string {
	switch kind {
	case pipeline.KindJSON:
		return ".json"
	case pipeline.KindTable:
		return ".csv"
	default:
		return ".txt"
	}
}

// writeCSV writes a header row followed by the data rows.
func writeCSV(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
