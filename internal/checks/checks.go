// =============================================================================
// NAI File Parser - Validation Checks
// =============================================================================
//
// This module runs the consistency check battery over one assembled file
// hierarchy. Every check compares a declared control value against a value
// computed from the hierarchy's children and yields one CheckResult. Checks
// are independent and never short-circuit: a failing check does not stop the
// remaining checks, the point of this layer is the complete discrepancy list.
//
// Check failures are data findings. They are reported, written to the checks
// output, and never affect process exit status.
//
// =============================================================================

package checks

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/nai-file-parser/internal/nai"
)

// =============================================================================
// CHECK NAMES
// =============================================================================

// Check names as they appear in the checks output. The numbering is stable
// so downstream reports can reference checks by name.
const (
	CheckFileControlTotalA = "CHECK 01: file_control_total_a"
	CheckNumberOfGroups    = "CHECK 02: number_of_groups"
	CheckNumberOfRecords   = "CHECK 03: number_of_records"
	CheckFileControlTotalB = "CHECK 04: file_control_total_b"

	CheckGroupControlTotalA = "CHECK 05: group_control_total_a"
	CheckGroupControlTotalB = "CHECK 06: group_control_total_b"

	CheckTotalCredits      = "CHECK 07: total credits"
	CheckCreditCount       = "CHECK 08: Count of credit transactions"
	CheckTotalDebits       = "CHECK 09: total debits"
	CheckDebitCount        = "CHECK 10: Count of debit transactions"
	CheckAccountControlA   = "CHECK 11: account_control_total_a"
	CheckAccountControlB   = "CHECK 12: account_control_total_b"
	CheckNumberOfAccounts  = "CHECK 13: number_of_accounts"
	CheckClosingBalance    = "CHECK 14: closing_balance"
	CheckCurrencyCode      = "CHECK 15: currency_code"
	CheckTransactionAmount = "CHECK 16: transaction_amounts"
	CheckDateFormat        = "CHECK 17: date_format"
)

// Transaction codes excluded from the credit total reconciliation. These are
// carried-forward balance records, not movements.
var excludedCreditCodes = map[string]bool{
	"910": true,
	"915": true,
}

// DefaultCurrencyCodes is the recognized currency set used by the currency
// sanity check when the configuration does not override it.
var DefaultCurrencyCodes = []string{
	"AUD", "NZD", "USD", "EUR", "GBP", "JPY", "SGD", "HKD", "CAD", "CHF",
}

// =============================================================================
// RESULT TYPE
// =============================================================================

// CheckResult is the outcome of one check at one scope. Group and account
// names are "NA" for scopes above them.
type CheckResult struct {
	FileName        string
	GroupName       string
	AccountName     string
	CheckName       string
	ControlValue    string
	CalculatedValue string
	Difference      string
	Passed          bool
}

// Status renders the pass flag the way the checks output records it.
func (r CheckResult) Status() string {
	if r.Passed {
		return "PASS"
	}
	return "FAIL"
}

// =============================================================================
// RUNNER
// =============================================================================

// Options configures one check run.
type Options struct {
	// RecordsConsumed is the logical record count the assembler consumed,
	// compared against the declared number_of_records control.
	RecordsConsumed int

	// CurrencyCodes overrides the recognized currency set. Empty means
	// DefaultCurrencyCodes.
	CurrencyCodes []string
}

// Run executes the full check battery over one assembled file and returns
// every result, passing and failing alike.
func Run(fileName string, file *nai.FileMetadata, opts Options) []CheckResult {
	r := &runner{
		fileName:   fileName,
		currencies: currencySet(opts.CurrencyCodes),
	}

	r.fileChecks(file, opts.RecordsConsumed)
	for _, group := range file.Groups {
		r.groupChecks(group)
		for _, account := range group.Accounts {
			r.accountChecks(group, account)
		}
	}
	return r.results
}

// Failures filters a result list down to the failing checks.
func Failures(results []CheckResult) []CheckResult {
	var failed []CheckResult
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

type runner struct {
	fileName   string
	currencies map[string]bool
	results    []CheckResult
}

// =============================================================================
// FILE-LEVEL CHECKS
// =============================================================================

func (r *runner) fileChecks(file *nai.FileMetadata, recordsConsumed int) {
	var (
		sumA decimal.Decimal
		sumB decimal.Decimal
	)
	for _, group := range file.Groups {
		if group.Trailer != nil {
			sumA = sumA.Add(nullOrZero(group.Trailer.ControlTotalA))
			sumB = sumB.Add(nullOrZero(group.Trailer.ControlTotalB))
		}
	}

	trailer := file.Trailer
	r.amount("NA", "NA", CheckFileControlTotalA, trailerAmountA(trailer), sumA)
	r.count("NA", "NA", CheckNumberOfGroups, trailerGroupCount(trailer), len(file.Groups))
	r.count("NA", "NA", CheckNumberOfRecords, trailerRecordCount(trailer), recordsConsumed)
	r.amount("NA", "NA", CheckFileControlTotalB, trailerAmountB(trailer), sumB)

	r.date("NA", "NA", file.CreationDate)
}

func trailerAmountA(t *nai.FileTrailer) decimal.NullDecimal {
	if t == nil {
		return decimal.NullDecimal{}
	}
	return t.ControlTotalA
}

func trailerAmountB(t *nai.FileTrailer) decimal.NullDecimal {
	if t == nil {
		return decimal.NullDecimal{}
	}
	return t.ControlTotalB
}

func trailerGroupCount(t *nai.FileTrailer) int {
	if t == nil {
		return 0
	}
	return t.NumberOfGroups
}

func trailerRecordCount(t *nai.FileTrailer) int {
	if t == nil {
		return 0
	}
	return t.NumberOfRecords
}

// =============================================================================
// GROUP-LEVEL CHECKS
// =============================================================================

func (r *runner) groupChecks(group *nai.Group) {
	var (
		sumA decimal.Decimal
		sumB decimal.Decimal
	)
	for _, account := range group.Accounts {
		if account.Trailer != nil {
			sumA = sumA.Add(nullOrZero(account.Trailer.ControlTotalA))
			sumB = sumB.Add(nullOrZero(account.Trailer.ControlTotalB))
		}
	}

	var (
		declaredA     decimal.NullDecimal
		declaredB     decimal.NullDecimal
		declaredCount int
	)
	if group.Trailer != nil {
		declaredA = group.Trailer.ControlTotalA
		declaredB = group.Trailer.ControlTotalB
		declaredCount = group.Trailer.NumberOfAccounts
	}

	r.amount(group.GroupID, "NA", CheckGroupControlTotalA, declaredA, sumA)
	r.amount(group.GroupID, "NA", CheckGroupControlTotalB, declaredB, sumB)
	r.count(group.GroupID, "NA", CheckNumberOfAccounts, declaredCount, len(group.Accounts))

	r.date(group.GroupID, "NA", group.AsOfDate)
}

// =============================================================================
// ACCOUNT-LEVEL CHECKS
// =============================================================================

func (r *runner) accountChecks(group *nai.Group, account *nai.Account) {
	var (
		totalCredits decimal.Decimal
		totalDebits  decimal.Decimal
		creditCount  int
		debitCount   int
		signedSum    decimal.Decimal
		badAmounts   int
	)

	for _, tx := range account.Transactions {
		if !tx.Amount.Valid {
			badAmounts++
			continue
		}
		signedSum = signedSum.Add(tx.SignedAmount())
		switch tx.DrCr {
		case "CR":
			creditCount++
			if !excludedCreditCodes[tx.TransactionCode] {
				totalCredits = totalCredits.Add(tx.Amount.Decimal)
			}
		case "DR":
			debitCount++
			totalDebits = totalDebits.Add(tx.Amount.Decimal)
		}
	}

	gid := group.GroupID
	acct := account.CommercialAccountNumber

	// Summary reconciliations only run when the 03 record declared the
	// corresponding code; an undeclared total is not a discrepancy.
	if account.SummaryAmount(nai.SummaryTotalCredits).Valid {
		r.amount(gid, acct, CheckTotalCredits, account.SummaryAmount(nai.SummaryTotalCredits), totalCredits)
	}
	if account.SummaryAmount(nai.SummaryCreditCount).Valid {
		r.count(gid, acct, CheckCreditCount, summaryCount(account, nai.SummaryCreditCount), creditCount)
	}
	if account.SummaryAmount(nai.SummaryTotalDebits).Valid {
		r.amount(gid, acct, CheckTotalDebits, account.SummaryAmount(nai.SummaryTotalDebits), totalDebits)
	}
	if account.SummaryAmount(nai.SummaryDebitCount).Valid {
		r.count(gid, acct, CheckDebitCount, summaryCount(account, nai.SummaryDebitCount), debitCount)
	}

	// The account trailer control totals reconcile against everything the
	// account carried: summary amounts plus transaction amounts.
	carried := accountCarriedTotal(account)
	var (
		declaredA decimal.NullDecimal
		declaredB decimal.NullDecimal
	)
	if account.Trailer != nil {
		declaredA = account.Trailer.ControlTotalA
		declaredB = account.Trailer.ControlTotalB
	}
	r.amount(gid, acct, CheckAccountControlA, declaredA, carried)
	r.amount(gid, acct, CheckAccountControlB, declaredB, carried)

	// Closing position: opening balance plus signed movements against the
	// declared closing balance, when one was declared.
	if account.ClosingBalance().Valid {
		computedClosing := nullOrZero(account.OpeningBalance()).Add(signedSum)
		r.amount(gid, acct, CheckClosingBalance, account.ClosingBalance(), computedClosing)
	}

	r.results = append(r.results, CheckResult{
		FileName:        r.fileName,
		GroupName:       gid,
		AccountName:     acct,
		CheckName:       CheckCurrencyCode,
		ControlValue:    "recognized currency",
		CalculatedValue: account.CurrencyCode,
		Passed:          r.currencies[account.CurrencyCode],
	})

	r.results = append(r.results, CheckResult{
		FileName:        r.fileName,
		GroupName:       gid,
		AccountName:     acct,
		CheckName:       CheckTransactionAmount,
		ControlValue:    "0",
		CalculatedValue: fmt.Sprintf("%d", badAmounts),
		Difference:      fmt.Sprintf("%d", badAmounts),
		Passed:          badAmounts == 0,
	})
}

// accountCarriedTotal sums every amount the account's identifier and detail
// records carried, the quantity the trailer control totals declare.
func accountCarriedTotal(account *nai.Account) decimal.Decimal {
	var total decimal.Decimal
	for _, amount := range account.Summary {
		total = total.Add(nullOrZero(amount))
	}
	for _, tx := range account.Transactions {
		total = total.Add(nullOrZero(tx.Amount))
	}
	return total
}

func summaryCount(account *nai.Account, code string) int {
	amount := account.SummaryAmount(code)
	if !amount.Valid {
		return 0
	}
	// Counts ride in amount position with the same implied two decimals.
	return int(amount.Decimal.Shift(2).IntPart())
}

// =============================================================================
// RESULT HELPERS
// =============================================================================

// amount records an amount reconciliation. A missing declared value counts
// as zero, matching the reconciliation convention for absent trailers.
func (r *runner) amount(groupName, accountName, checkName string, declared decimal.NullDecimal, calculated decimal.Decimal) {
	control := nullOrZero(declared)
	diff := calculated.Sub(control)

	controlText := ""
	if declared.Valid {
		controlText = declared.Decimal.StringFixed(2)
	}

	r.results = append(r.results, CheckResult{
		FileName:        r.fileName,
		GroupName:       groupName,
		AccountName:     accountName,
		CheckName:       checkName,
		ControlValue:    controlText,
		CalculatedValue: calculated.StringFixed(2),
		Difference:      diff.StringFixed(2),
		Passed:          diff.IsZero(),
	})
}

func (r *runner) count(groupName, accountName, checkName string, declared, calculated int) {
	r.results = append(r.results, CheckResult{
		FileName:        r.fileName,
		GroupName:       groupName,
		AccountName:     accountName,
		CheckName:       checkName,
		ControlValue:    fmt.Sprintf("%d", declared),
		CalculatedValue: fmt.Sprintf("%d", calculated),
		Difference:      fmt.Sprintf("%d", calculated-declared),
		Passed:          declared == calculated,
	})
}

// date verifies a reformatted date field parses as YYYYMMDD. Dates that
// failed to reformat during assembly keep their raw value and fail here.
func (r *runner) date(groupName, accountName, value string) {
	_, err := time.Parse("20060102", value)
	r.results = append(r.results, CheckResult{
		FileName:        r.fileName,
		GroupName:       groupName,
		AccountName:     accountName,
		CheckName:       CheckDateFormat,
		ControlValue:    "YYYYMMDD",
		CalculatedValue: value,
		Passed:          err == nil,
	})
}

func nullOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func currencySet(codes []string) map[string]bool {
	if len(codes) == 0 {
		codes = DefaultCurrencyCodes
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
