package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/nai-file-parser/internal/pipeline"
	"github.com/ginjaninja78/nai-file-parser/internal/tabular"
)

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)

	outputs := []pipeline.Output{
		{Name: "raw_content", Kind: pipeline.KindText, Text: "01,BANK\n99,0"},
		{Name: "nai_dict", Kind: pipeline.KindJSON, JSON: []byte(`{"groups":[]}`)},
		{Name: "df_accounts", Kind: pipeline.KindTable, Table: tabular.Table{
			Name:    "df_accounts",
			Columns: []string{"group_id", "commercial_account_number"},
			Rows:    [][]string{{"g1", "111111"}, {"g1", "222222"}},
		}},
	}

	written, err := w.WriteOutputs("sample.nai", outputs)
	if err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("wrote %d files, want 3", len(written))
	}

	wantPaths := []string{
		filepath.Join(dir, "sample__raw_content.txt"),
		filepath.Join(dir, "sample__nai_dict.json"),
		filepath.Join(dir, "sample__df_accounts.csv"),
	}
	for i, want := range wantPaths {
		if written[i] != want {
			t.Errorf("written[%d] = %s, want %s", i, written[i], want)
		}
	}

	data, err := os.ReadFile(wantPaths[0])
	if err != nil || string(data) != "01,BANK\n99,0" {
		t.Errorf("raw content round trip failed: %q, %v", data, err)
	}

	f, err := os.Open(wantPaths[2])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("CSV has %d rows, want header plus 2", len(rows))
	}
	if rows[0][0] != "group_id" || rows[2][1] != "222222" {
		t.Errorf("CSV content = %v", rows)
	}
}

func TestWriteChecksWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.xlsx")

	table := tabular.Table{
		Name:    "checks",
		Columns: []string{"File Name", "Check Name", "Status"},
		Rows: [][]string{
			{"a.nai", "CHECK 14: closing_balance", "FAIL"},
			{"b.nai", "CHECK 01: file_control_total_a", "PASS"},
		},
	}
	if err := WriteChecksWorkbook(path, table); err != nil {
		t.Fatalf("WriteChecksWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("checks")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("workbook has %d rows, want 3", len(rows))
	}
	if rows[0][0] != "File Name" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "FAIL" || rows[2][2] != "PASS" {
		t.Errorf("status cells = %v, %v", rows[1], rows[2])
	}
}
