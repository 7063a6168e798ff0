package nai

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// stubCodes is a minimal code lookup for assembler tests.
type stubCodes map[string]string

func (s stubCodes) DrCr(code string) string                 { return s[code] }
func (s stubCodes) Description(code string) string          { return "desc " + code }
func (s stubCodes) StatementParticulars(code string) string { return "" }

func assemble(t *testing.T, raw string) (*AssembleResult, error) {
	t.Helper()
	normalized := Normalize(raw, testSettings())
	return Assemble(normalized.Records, AssembleOptions{
		RunID: "test",
		Codes: stubCodes{"175": "CR", "475": "DR"},
	})
}

func mustAssemble(t *testing.T, raw string) *AssembleResult {
	t.Helper()
	result, err := assemble(t, raw)
	if err != nil {
		t.Fatalf("unexpected assembly error: %v", err)
	}
	return result
}

const wellFormedFile = `01,BANK,CUST,250101,0930,1/
02,CUST,BANK,1,250101,0930/
03,111111,AUD,010,100000,015,130000/
16,175,50000,0,REF1,Payment for /
88,invoice 123/
16,475,20000,0,REF2,Vendor payment/
49,150000,150000/
98,150000,1,150000/
99,150000,1,8,150000/`

func TestAssembleWellFormed(t *testing.T) {
	result := mustAssemble(t, wellFormedFile)

	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if result.RecordsConsumed != 8 {
		t.Errorf("records consumed = %d, want 8", result.RecordsConsumed)
	}

	file := result.File
	if file.FileMetadataID != "20250101_0930_1_test" {
		t.Errorf("file metadata id = %q", file.FileMetadataID)
	}
	if file.SenderID != "BANK" || file.ReceiverID != "CUST" {
		t.Errorf("sender/receiver = %s/%s", file.SenderID, file.ReceiverID)
	}
	if file.Trailer == nil || file.Trailer.NumberOfRecords != 8 {
		t.Fatalf("file trailer = %+v", file.Trailer)
	}

	if len(file.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(file.Groups))
	}
	group := file.Groups[0]
	if group.GroupID != "CUST_BANK_1_20250101_0930" {
		t.Errorf("group id = %q", group.GroupID)
	}
	if group.AsOfDate != "20250101" {
		t.Errorf("as of date = %q", group.AsOfDate)
	}

	if len(group.Accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(group.Accounts))
	}
	account := group.Accounts[0]
	if account.CommercialAccountNumber != "111111" || account.CurrencyCode != "AUD" {
		t.Errorf("account = %s/%s", account.CommercialAccountNumber, account.CurrencyCode)
	}
	if got := account.OpeningBalance(); !got.Valid || !got.Decimal.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("opening balance = %+v", got)
	}
	if got := account.ClosingBalance(); !got.Valid || !got.Decimal.Equal(decimal.RequireFromString("1300.00")) {
		t.Errorf("closing balance = %+v", got)
	}

	if len(account.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(account.Transactions))
	}
	credit := account.Transactions[0]
	if credit.Text != "Payment for invoice 123" {
		t.Errorf("narrative = %q", credit.Text)
	}
	if credit.DrCr != "CR" || credit.Description != "desc 175" {
		t.Errorf("enrichment = %s/%s", credit.DrCr, credit.Description)
	}
	if !credit.SignedAmount().Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("credit signed amount = %s", credit.SignedAmount())
	}
	debit := account.Transactions[1]
	if !debit.SignedAmount().Equal(decimal.RequireFromString("-200.00")) {
		t.Errorf("debit signed amount = %s", debit.SignedAmount())
	}
}

func TestAssembleMissingFileHeaderIsFatal(t *testing.T) {
	_, err := assemble(t, "02,CUST,BANK,1,250101,0930/")
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
	if structural.State != "AwaitFileHeader" {
		t.Errorf("state = %q", structural.State)
	}
}

func TestAssembleRecordAfterFileTrailerIsFatal(t *testing.T) {
	raw := wellFormedFile + "\n16,175,100,0,REF,late/"
	_, err := assemble(t, raw)
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
	if structural.State != "Closed" {
		t.Errorf("state = %q", structural.State)
	}
}

func TestAssembleSecondFileHeaderIsFatal(t *testing.T) {
	raw := "01,BANK,CUST,250101,0930,1/\n01,BANK,CUST,250101,0930,2/"
	if _, err := assemble(t, raw); err == nil {
		t.Fatal("expected error for second file header")
	}
}

func TestAssembleImplicitAccountClose(t *testing.T) {
	raw := strings.Join([]string{
		"01,BANK,CUST,250101,0930,1/",
		"02,CUST,BANK,1,250101,0930/",
		"03,111111,AUD,010,100000/",
		"03,222222,AUD,010,50000/",
		"49,50000,50000/",
		"98,50000,2,50000/",
		"99,50000,1,7,50000/",
	}, "\n")

	result := mustAssemble(t, raw)

	accounts := result.File.Groups[0].Accounts
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	if accounts[0].Trailer != nil {
		t.Error("implicitly closed account should have no trailer")
	}
	if accounts[1].Trailer == nil {
		t.Error("second account should keep its trailer")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got warnings %v, want exactly one implicit close warning", result.Warnings)
	}
}

func TestAssembleUnrecognizedRecordsAreSkipped(t *testing.T) {
	raw := strings.Join([]string{
		"77,noise,before/",
		"01,BANK,CUST,250101,0930,1/",
		"02,CUST,BANK,1,250101,0930/",
		"42,noise,inside/",
		"98,0,0,0/",
		"99,0,1,6,0/",
	}, "\n")

	result := mustAssemble(t, raw)

	if len(result.File.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(result.File.Groups))
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("got warnings %v, want 2 skip warnings", result.Warnings)
	}
	// Unrecognized records still count toward records consumed.
	if result.RecordsConsumed != 6 {
		t.Errorf("records consumed = %d, want 6", result.RecordsConsumed)
	}
}

func TestAssembleOddSummaryPairs(t *testing.T) {
	raw := strings.Join([]string{
		"01,BANK,CUST,250101,0930,1/",
		"02,CUST,BANK,1,250101,0930/",
		"03,111111,AUD,010,100000,015/",
		"49,100000,100000/",
		"98,100000,1,100000/",
		"99,100000,1,6,100000/",
	}, "\n")

	result := mustAssemble(t, raw)

	account := result.File.Groups[0].Accounts[0]
	if got := account.ClosingBalance(); !got.Valid || !got.Decimal.IsZero() {
		t.Errorf("padded closing balance = %+v, want 0.00", got)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got warnings %v, want one padding warning", result.Warnings)
	}
}

func TestAssembleTransactionOutsideAccount(t *testing.T) {
	raw := strings.Join([]string{
		"01,BANK,CUST,250101,0930,1/",
		"16,175,100,0,REF,stray/",
		"99,0,0,3,0/",
	}, "\n")

	result := mustAssemble(t, raw)

	if len(result.File.Groups) != 0 {
		t.Fatalf("stray transaction created groups: %+v", result.File.Groups)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got warnings %v, want one skip warning", result.Warnings)
	}
}
