package checks

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/nai-file-parser/internal/nai"
)

func amountOf(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

// testFile builds a single-group, single-account hierarchy with consistent
// control totals. Tests mutate it to provoke specific failures.
func testFile() *nai.FileMetadata {
	account := &nai.Account{
		FileMetadataID:          "f1",
		GroupID:                 "g1",
		CommercialAccountNumber: "111111",
		CurrencyCode:            "AUD",
		Summary: map[string]decimal.NullDecimal{
			nai.SummaryOpeningBalance: amountOf("1000.00"),
			nai.SummaryClosingBalance: amountOf("1300.00"),
			nai.SummaryTotalCredits:   amountOf("500.00"),
			nai.SummaryCreditCount:    amountOf("0.01"),
			nai.SummaryTotalDebits:    amountOf("200.00"),
			nai.SummaryDebitCount:     amountOf("0.01"),
		},
		Transactions: []*nai.Transaction{
			{TransactionCode: "175", Amount: amountOf("500.00"), DrCr: "CR"},
			{TransactionCode: "475", Amount: amountOf("200.00"), DrCr: "DR"},
		},
	}
	// Carried total: summary 3000.02 plus transactions 700.00.
	account.Trailer = &nai.AccountTrailer{
		ControlTotalA: amountOf("3700.02"),
		ControlTotalB: amountOf("3700.02"),
	}

	group := &nai.Group{
		GroupID:        "g1",
		FileMetadataID: "f1",
		AsOfDate:       "20250101",
		Accounts:       []*nai.Account{account},
		Trailer: &nai.GroupTrailer{
			ControlTotalA:    amountOf("3700.02"),
			NumberOfAccounts: 1,
			ControlTotalB:    amountOf("3700.02"),
		},
	}

	return &nai.FileMetadata{
		FileMetadataID: "f1",
		CreationDate:   "20250101",
		Groups:         []*nai.Group{group},
		Trailer: &nai.FileTrailer{
			ControlTotalA:   amountOf("3700.02"),
			NumberOfGroups:  1,
			NumberOfRecords: 8,
			ControlTotalB:   amountOf("3700.02"),
		},
	}
}

func failuresByName(results []CheckResult) map[string][]CheckResult {
	byName := make(map[string][]CheckResult)
	for _, r := range Failures(results) {
		byName[r.CheckName] = append(byName[r.CheckName], r)
	}
	return byName
}

func TestRunAllPass(t *testing.T) {
	results := Run("test.nai", testFile(), Options{RecordsConsumed: 8})

	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, failures: %+v", failed)
	}
	if len(results) == 0 {
		t.Fatal("no checks ran")
	}
}

func TestClosingBalanceMismatch(t *testing.T) {
	file := testFile()
	account := file.Groups[0].Accounts[0]
	// Declared closing off by one cent; carried totals adjusted so only the
	// closing balance check fails.
	account.Summary[nai.SummaryClosingBalance] = amountOf("1300.01")
	account.Trailer.ControlTotalA = amountOf("3700.03")
	account.Trailer.ControlTotalB = amountOf("3700.03")
	file.Groups[0].Trailer.ControlTotalA = amountOf("3700.03")
	file.Groups[0].Trailer.ControlTotalB = amountOf("3700.03")
	file.Trailer.ControlTotalA = amountOf("3700.03")
	file.Trailer.ControlTotalB = amountOf("3700.03")

	results := Run("test.nai", file, Options{RecordsConsumed: 8})

	failed := Failures(results)
	if len(failed) != 1 {
		t.Fatalf("expected exactly one failure, got %+v", failed)
	}
	f := failed[0]
	if f.CheckName != CheckClosingBalance {
		t.Errorf("failing check = %q, want %q", f.CheckName, CheckClosingBalance)
	}
	if f.AccountName != "111111" {
		t.Errorf("failure scoped to %q, want account 111111", f.AccountName)
	}
	if f.ControlValue != "1300.01" || f.CalculatedValue != "1300.00" {
		t.Errorf("declared/computed = %s/%s", f.ControlValue, f.CalculatedValue)
	}
	if f.Difference != "-0.01" {
		t.Errorf("difference = %s", f.Difference)
	}
}

func TestExcludedCreditCodes(t *testing.T) {
	file := testFile()
	account := file.Groups[0].Accounts[0]
	// A 910 carried-forward record must not count toward total credits but
	// still moves the closing position and the carried totals.
	account.Transactions = append(account.Transactions, &nai.Transaction{
		TransactionCode: "910", Amount: amountOf("50.00"), DrCr: "CR",
	})
	account.Summary[nai.SummaryClosingBalance] = amountOf("1350.00")
	account.Summary[nai.SummaryCreditCount] = amountOf("0.02")
	account.Trailer.ControlTotalA = amountOf("3800.03")
	account.Trailer.ControlTotalB = amountOf("3800.03")
	file.Groups[0].Trailer.ControlTotalA = amountOf("3800.03")
	file.Groups[0].Trailer.ControlTotalB = amountOf("3800.03")
	file.Trailer.ControlTotalA = amountOf("3800.03")
	file.Trailer.ControlTotalB = amountOf("3800.03")

	results := Run("test.nai", file, Options{RecordsConsumed: 8})

	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, failures: %+v", failed)
	}
}

func TestGroupAndFileControlMismatch(t *testing.T) {
	file := testFile()
	file.Groups[0].Trailer.ControlTotalA = amountOf("9999.99")
	file.Trailer.NumberOfGroups = 2

	results := Run("test.nai", file, Options{RecordsConsumed: 8})
	byName := failuresByName(results)

	// Group A total mismatch also breaks the file A reconciliation that
	// sums the declared group totals.
	if len(byName[CheckGroupControlTotalA]) != 1 {
		t.Errorf("group control A failures = %+v", byName[CheckGroupControlTotalA])
	}
	if len(byName[CheckFileControlTotalA]) != 1 {
		t.Errorf("file control A failures = %+v", byName[CheckFileControlTotalA])
	}
	if len(byName[CheckNumberOfGroups]) != 1 {
		t.Errorf("group count failures = %+v", byName[CheckNumberOfGroups])
	}
}

func TestSanityChecks(t *testing.T) {
	file := testFile()
	account := file.Groups[0].Accounts[0]
	account.CurrencyCode = "XXX"
	file.CreationDate = "2501"

	results := Run("test.nai", file, Options{RecordsConsumed: 8})
	byName := failuresByName(results)

	if len(byName[CheckCurrencyCode]) != 1 {
		t.Errorf("currency failures = %+v", byName[CheckCurrencyCode])
	}
	if len(byName[CheckDateFormat]) != 1 {
		t.Errorf("date failures = %+v", byName[CheckDateFormat])
	}

	// Overriding the currency set makes XXX acceptable.
	file.CreationDate = "20250101"
	results = Run("test.nai", file, Options{RecordsConsumed: 8, CurrencyCodes: []string{"XXX"}})
	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("expected pass with overridden currency set, failures: %+v", failed)
	}
}

func TestRecordCountMismatch(t *testing.T) {
	results := Run("test.nai", testFile(), Options{RecordsConsumed: 9})
	byName := failuresByName(results)

	if len(byName[CheckNumberOfRecords]) != 1 {
		t.Fatalf("record count failures = %+v", byName[CheckNumberOfRecords])
	}
	if got := byName[CheckNumberOfRecords][0].Difference; got != "1" {
		t.Errorf("difference = %s, want 1", got)
	}
}

func TestUnparseableAmountCheck(t *testing.T) {
	file := testFile()
	account := file.Groups[0].Accounts[0]
	account.Transactions = append(account.Transactions, &nai.Transaction{
		TransactionCode: "175", RawAmount: "12AB", DrCr: "CR",
	})

	results := Run("test.nai", file, Options{RecordsConsumed: 8})
	byName := failuresByName(results)

	if len(byName[CheckTransactionAmount]) != 1 {
		t.Errorf("amount sanity failures = %+v", byName[CheckTransactionAmount])
	}
}
