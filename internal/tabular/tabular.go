// =============================================================================
// NAI File Parser - Tabular Projections
// =============================================================================
//
// The structuring layer flattens an assembled hierarchy into independent
// tabular projections. Flattening is pure: it reads the hierarchy and the
// check results and produces new rows, it never mutates its inputs. Every
// row carries the parent key columns (file_metadata_id, group_id,
// commercial_account_number) needed to reconstruct the hierarchy by joins.
//
// Projections:
//   df_file_metadata           one row per file
//   df_groups                  one row per group
//   df_accounts                one row per account
//   df_transactions            one row per transaction
//   df_accounts_structured     accounts denormalized with file and group
//                              control totals, fixed column order
//   df_transactions_structured transactions with the narrative decomposed
//                              into configured fixed-width sub-fields
//   checks                     one row per executed check
//
// =============================================================================

package tabular

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/nai-file-parser/internal/checks"
	"github.com/ginjaninja78/nai-file-parser/internal/config"
	"github.com/ginjaninja78/nai-file-parser/internal/nai"
)

// Table is one tabular projection: an ordered column list and string rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// =============================================================================
// FLAT PROJECTIONS
// =============================================================================

// FileMetadata projects the file-level row.
func FileMetadata(file *nai.FileMetadata) Table {
	t := Table{
		Name: "df_file_metadata",
		Columns: []string{
			"file_metadata_id", "sender_identification", "receiver_identification",
			"creation_date", "creation_time", "sequence_number",
			"file_control_total_a", "number_of_groups", "number_of_records",
			"file_control_total_b",
		},
	}

	var controlA, controlB, groupCount, recordCount string
	if file.Trailer != nil {
		controlA = amount(file.Trailer.ControlTotalA)
		controlB = amount(file.Trailer.ControlTotalB)
		groupCount = strconv.Itoa(file.Trailer.NumberOfGroups)
		recordCount = strconv.Itoa(file.Trailer.NumberOfRecords)
	}

	t.Rows = append(t.Rows, []string{
		file.FileMetadataID, file.SenderID, file.ReceiverID,
		file.CreationDate, file.CreationTime, file.SequenceNumber,
		controlA, groupCount, recordCount, controlB,
	})
	return t
}

// Groups projects one row per group.
func Groups(file *nai.FileMetadata) Table {
	t := Table{
		Name: "df_groups",
		Columns: []string{
			"file_metadata_id", "group_id", "ultimate_receiver_id",
			"originator_id", "group_status", "as_of_date", "as_of_time",
			"group_control_total_a", "group_control_total_b",
		},
	}

	for _, g := range file.Groups {
		var controlA, controlB string
		if g.Trailer != nil {
			controlA = amount(g.Trailer.ControlTotalA)
			controlB = amount(g.Trailer.ControlTotalB)
		}
		t.Rows = append(t.Rows, []string{
			g.FileMetadataID, g.GroupID, g.UltimateReceiverID,
			g.OriginatorID, g.GroupStatus, g.AsOfDate, g.AsOfTime,
			controlA, controlB,
		})
	}
	return t
}

// Accounts projects one row per account.
func Accounts(file *nai.FileMetadata) Table {
	t := Table{
		Name:    "df_accounts",
		Columns: accountColumns,
	}
	for _, g := range file.Groups {
		for _, a := range g.Accounts {
			t.Rows = append(t.Rows, accountRow(a))
		}
	}
	return t
}

var accountColumns = []string{
	"file_metadata_id", "group_id", "commercial_account_number",
	"currency_code", "closing_balance", "total_credits",
	"number_of_credit_transactions", "total_debits",
	"number_of_debit_transactions", "account_control_total_a",
	"account_control_total_b",
}

func accountRow(a *nai.Account) []string {
	var controlA, controlB string
	if a.Trailer != nil {
		controlA = amount(a.Trailer.ControlTotalA)
		controlB = amount(a.Trailer.ControlTotalB)
	}
	return []string{
		a.FileMetadataID, a.GroupID, a.CommercialAccountNumber,
		a.CurrencyCode,
		amount(a.ClosingBalance()),
		amount(a.SummaryAmount(nai.SummaryTotalCredits)),
		amount(a.SummaryAmount(nai.SummaryCreditCount)),
		amount(a.SummaryAmount(nai.SummaryTotalDebits)),
		amount(a.SummaryAmount(nai.SummaryDebitCount)),
		controlA, controlB,
	}
}

// Transactions projects one row per transaction.
func Transactions(file *nai.FileMetadata) Table {
	t := Table{
		Name:    "df_transactions",
		Columns: transactionColumns,
	}
	for _, g := range file.Groups {
		for _, a := range g.Accounts {
			for _, tx := range a.Transactions {
				t.Rows = append(t.Rows, transactionRow(tx))
			}
		}
	}
	return t
}

var transactionColumns = []string{
	"file_metadata_id", "group_id", "commercial_account_number",
	"transaction_code", "amount", "funds_type", "reference_number",
	"text", "dr_cr", "transaction_description", "statement_particulars",
}

func transactionRow(tx *nai.Transaction) []string {
	return []string{
		tx.FileMetadataID, tx.GroupID, tx.CommercialAccountNumber,
		tx.TransactionCode, amount(tx.Amount), tx.FundsType,
		tx.ReferenceNumber, tx.Text, tx.DrCr, tx.Description,
		tx.StatementParticulars,
	}
}

// =============================================================================
// STRUCTURED PROJECTIONS
// =============================================================================

// AccountsStructured denormalizes account rows with the file and group
// control totals in a fixed column order, ready for warehouse loading.
func AccountsStructured(file *nai.FileMetadata) Table {
	t := Table{
		Name: "df_accounts_structured",
		Columns: []string{
			"file_metadata_id",
			"file_control_total_a", "number_of_groups", "number_of_records",
			"file_control_total_b",
			"group_id", "group_control_total_a", "group_control_total_b",
			"commercial_account_number", "currency_code", "closing_balance",
			"total_credits", "number_of_credit_transactions",
			"total_debits", "number_of_debit_transactions",
			"account_control_total_a", "account_control_total_b",
		},
	}

	var fileControlA, fileControlB, groupCount, recordCount string
	if file.Trailer != nil {
		fileControlA = amount(file.Trailer.ControlTotalA)
		fileControlB = amount(file.Trailer.ControlTotalB)
		groupCount = strconv.Itoa(file.Trailer.NumberOfGroups)
		recordCount = strconv.Itoa(file.Trailer.NumberOfRecords)
	}

	for _, g := range file.Groups {
		var groupControlA, groupControlB string
		if g.Trailer != nil {
			groupControlA = amount(g.Trailer.ControlTotalA)
			groupControlB = amount(g.Trailer.ControlTotalB)
		}
		for _, a := range g.Accounts {
			var acctControlA, acctControlB string
			if a.Trailer != nil {
				acctControlA = amount(a.Trailer.ControlTotalA)
				acctControlB = amount(a.Trailer.ControlTotalB)
			}
			t.Rows = append(t.Rows, []string{
				file.FileMetadataID,
				fileControlA, groupCount, recordCount, fileControlB,
				g.GroupID, groupControlA, groupControlB,
				a.CommercialAccountNumber, a.CurrencyCode,
				amount(a.ClosingBalance()),
				amount(a.SummaryAmount(nai.SummaryTotalCredits)),
				amount(a.SummaryAmount(nai.SummaryCreditCount)),
				amount(a.SummaryAmount(nai.SummaryTotalDebits)),
				amount(a.SummaryAmount(nai.SummaryDebitCount)),
				acctControlA, acctControlB,
			})
		}
	}
	return t
}

// TransactionsStructured extends transaction rows with the narrative text
// decomposed into the configured fixed-width sub-fields. Segments are
// consumed left to right; a zero width takes the rest of the text. With no
// layout configured the projection equals df_transactions.
func TransactionsStructured(file *nai.FileMetadata, layout []config.NarrativeField) Table {
	columns := append([]string(nil), transactionColumns...)
	for _, f := range layout {
		columns = append(columns, f.Name)
	}

	t := Table{Name: "df_transactions_structured", Columns: columns}
	for _, g := range file.Groups {
		for _, a := range g.Accounts {
			for _, tx := range a.Transactions {
				row := transactionRow(tx)
				row = append(row, SplitNarrative(tx.Text, layout)...)
				t.Rows = append(t.Rows, row)
			}
		}
	}
	return t
}

// SplitNarrative decomposes narrative text into the configured fixed-width
// segments. Short text yields empty trailing segments; surplus text goes to
// the first zero-width segment, or is dropped when none is configured.
func SplitNarrative(text string, layout []config.NarrativeField) []string {
	segments := make([]string, len(layout))
	rest := []rune(text)
	for i, f := range layout {
		if f.Width == 0 {
			segments[i] = string(rest)
			rest = nil
			continue
		}
		n := f.Width
		if n > len(rest) {
			n = len(rest)
		}
		segments[i] = string(rest[:n])
		rest = rest[n:]
	}
	return segments
}

// =============================================================================
// CHECKS PROJECTION
// =============================================================================

// Checks projects check results into the checks output table.
func Checks(results []checks.CheckResult) Table {
	t := Table{
		Name: "checks",
		Columns: []string{
			"File Name", "Group Name", "Account Name", "Check Name",
			"Control Value", "Calculated Value", "Difference", "Status",
		},
	}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{
			r.FileName, r.GroupName, r.AccountName, r.CheckName,
			r.ControlValue, r.CalculatedValue, r.Difference, r.Status(),
		})
	}
	return t
}

// amount renders a nullable amount with two decimal places, empty when the
// value was never present.
func amount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
