package nai

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/nai-file-parser/internal/config"
)

func testSettings() config.NAISettings {
	return config.NAISettings{
		Delimiter:        ",",
		ContinuationCode: "88",
		StripSuffixes:    []string{"/"},
	}
}

func TestNormalizeMergesContinuations(t *testing.T) {
	raw := strings.Join([]string{
		"01,BANK,CUST,250101,0930,1/",
		"16,175,50000,0,REF1,Payment for /",
		"88,invoice 123/",
		"88,and more/",
		"99,0,1,4,0/",
	}, "\n")

	result := Normalize(raw, testSettings())

	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}

	tx := result.Records[1]
	if tx.Type != RecordTransactionDetail {
		t.Fatalf("record 1 type = %s", tx.Type)
	}
	if got := tx.Narrative(4); got != "Payment for invoice 123and more" {
		t.Errorf("merged narrative = %q", got)
	}
	if tx.StartLine != 2 || tx.EndLine != 4 {
		t.Errorf("line range = %d-%d, want 2-4", tx.StartLine, tx.EndLine)
	}
}

func TestNormalizeMergeIsSplitInvariant(t *testing.T) {
	// The same narrative split across different numbers of physical lines
	// must merge to the same logical record.
	oneLine := "16,175,50000,0,REF1,Payment for invoice 123/"
	twoLines := "16,175,50000,0,REF1,Payment for /\n88,invoice 123/"

	a := Normalize(oneLine, testSettings())
	b := Normalize(twoLines, testSettings())

	if len(a.Records) != 1 || len(b.Records) != 1 {
		t.Fatalf("record counts = %d, %d, want 1, 1", len(a.Records), len(b.Records))
	}
	if got, want := b.Records[0].Narrative(4), a.Records[0].Narrative(4); got != want {
		t.Errorf("split merge narrative = %q, single line = %q", got, want)
	}
}

func TestNormalizeCleansLines(t *testing.T) {
	raw := "  01,BANK,CUST,250101,0930,1/  \n\n16,175,50000,0,REF1,O’Brien/\n"

	result := Normalize(raw, testSettings())

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if got := result.CleanedLines[0]; got != "01,BANK,CUST,250101,0930,1" {
		t.Errorf("cleaned line = %q", got)
	}
	if got := result.Records[1].Narrative(4); got != "O'Brien" {
		t.Errorf("apostrophe normalization: narrative = %q", got)
	}
}

func TestNormalizeOrphanContinuation(t *testing.T) {
	result := Normalize("88,dangling text/", testSettings())

	if len(result.Records) != 0 {
		t.Fatalf("orphan continuation produced records: %v", result.Records)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}
	if result.Warnings[0].Line != 1 {
		t.Errorf("warning line = %d, want 1", result.Warnings[0].Line)
	}
}
