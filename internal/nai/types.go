// =============================================================================
// NAI File Parser - Hierarchy Types
// =============================================================================
//
// The assembled hierarchy is a strict tree:
//
//   FileMetadata
//   └── Group (ordered)
//       └── Account (ordered)
//           └── Transaction (ordered)
//
// Children never hold back-references; parent identifiers are copied onto
// each node so the tabular projections can carry join keys. Declared control
// totals from trailer records are recorded as nested Trailer values - nil
// means the trailer was never seen - and are only compared against computed
// aggregates by the checks package, never enforced during assembly.
//
// =============================================================================

package nai

import "github.com/shopspring/decimal"

// =============================================================================
// FILE LEVEL
// =============================================================================

// FileMetadata is the top-level record of one NAI file.
type FileMetadata struct {
	FileMetadataID string `json:"file_metadata_id"`

	SenderID       string `json:"sender_identification"`
	ReceiverID     string `json:"receiver_identification"`
	CreationDate   string `json:"creation_date"` // YYYYMMDD, reformatted from the file's YYMMDD
	CreationTime   string `json:"creation_time"` // HHMM as transmitted
	SequenceNumber string `json:"sequence_number"`

	Trailer *FileTrailer `json:"file_trailer"`

	Groups []*Group `json:"groups"`
}

// FileTrailer carries the declared file-level control totals (99 record).
type FileTrailer struct {
	ControlTotalA   decimal.NullDecimal `json:"file_control_total_a"`
	NumberOfGroups  int                 `json:"number_of_groups"`
	NumberOfRecords int                 `json:"number_of_records"`
	ControlTotalB   decimal.NullDecimal `json:"file_control_total_b"`
}

// =============================================================================
// GROUP LEVEL
// =============================================================================

// Group is a named batch of accounts within a file (02 record).
type Group struct {
	GroupID        string `json:"group_id"`
	FileMetadataID string `json:"file_metadata_id"`

	UltimateReceiverID string `json:"ultimate_receiver_id"`
	OriginatorID       string `json:"originator_id"`
	GroupStatus        string `json:"group_status"`
	AsOfDate           string `json:"as_of_date"` // YYYYMMDD
	AsOfTime           string `json:"as_of_time"`

	Trailer *GroupTrailer `json:"group_trailer"`

	Accounts []*Account `json:"accounts"`
}

// GroupTrailer carries the declared group-level control totals (98 record).
type GroupTrailer struct {
	ControlTotalA    decimal.NullDecimal `json:"group_control_total_a"`
	NumberOfAccounts int                 `json:"number_of_accounts"`
	ControlTotalB    decimal.NullDecimal `json:"group_control_total_b"`
}

// =============================================================================
// ACCOUNT LEVEL
// =============================================================================

// Summary codes carried on the 03 account identifier record as
// code/amount pairs.
const (
	SummaryOpeningBalance       = "010"
	SummaryClosingBalance       = "015"
	SummaryTotalCredits         = "100"
	SummaryCreditCount          = "102"
	SummaryTotalDebits          = "400"
	SummaryDebitCount           = "402"
	SummaryAccruedCreditInt     = "500"
	SummaryAccruedDebitInt      = "501"
	SummaryAccountLimit         = "502"
	SummaryAvailableLimit       = "503"
	SummaryDebitInterestRate    = "965"
	SummaryCreditInterestRate   = "966"
	SummaryStateGovernmentDuty  = "967"
	SummaryGovernmentCreditTax  = "968"
	SummaryGovernmentDebitTax   = "969"
)

// Account is a single commercial account within a group (03 record).
type Account struct {
	FileMetadataID string `json:"file_metadata_id"`
	GroupID        string `json:"group_id"`

	CommercialAccountNumber string `json:"commercial_account_number"`
	CurrencyCode            string `json:"currency_code"`

	// Summary maps 03-record summary codes to their amounts. Codes the
	// dialect does not define are kept verbatim so nothing is lost.
	Summary map[string]decimal.NullDecimal `json:"summary"`

	Trailer *AccountTrailer `json:"account_trailer"`

	Transactions []*Transaction `json:"transactions"`
}

// AccountTrailer carries the declared account control totals (49 record).
type AccountTrailer struct {
	ControlTotalA decimal.NullDecimal `json:"account_control_total_a"`
	ControlTotalB decimal.NullDecimal `json:"account_control_total_b"`
}

// SummaryAmount returns the amount recorded for a summary code, or an
// invalid NullDecimal when the 03 record did not carry that code.
func (a *Account) SummaryAmount(code string) decimal.NullDecimal {
	if a.Summary == nil {
		return decimal.NullDecimal{}
	}
	return a.Summary[code]
}

// OpeningBalance returns the declared opening balance (code 010).
func (a *Account) OpeningBalance() decimal.NullDecimal {
	return a.SummaryAmount(SummaryOpeningBalance)
}

// ClosingBalance returns the declared closing balance (code 015).
func (a *Account) ClosingBalance() decimal.NullDecimal {
	return a.SummaryAmount(SummaryClosingBalance)
}

// =============================================================================
// TRANSACTION LEVEL
// =============================================================================

// Transaction is a single transaction detail record (16 record). The
// narrative Text is fully merged across continuation lines by the time the
// transaction exists.
type Transaction struct {
	FileMetadataID          string `json:"file_metadata_id"`
	GroupID                 string `json:"group_id"`
	CommercialAccountNumber string `json:"commercial_account_number"`

	TransactionCode string              `json:"transaction_code"`
	Amount          decimal.NullDecimal `json:"amount"`
	RawAmount       string              `json:"-"` // kept for the amount-parse sanity check
	FundsType       string              `json:"funds_type"`
	ReferenceNumber string              `json:"reference_number"`
	Text            string              `json:"text"`

	// Enrichment from the transaction detail code table.
	DrCr                 string `json:"dr_cr"` // "DR" or "CR"
	Description          string `json:"transaction_description"`
	StatementParticulars string `json:"statement_particulars"`

	SourceLine int `json:"-"`
}

// SignedAmount applies the dr/cr side to the transaction amount: debits are
// negative, credits positive. Transactions with an unparseable amount or an
// unknown side contribute zero.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if !t.Amount.Valid {
		return decimal.Zero
	}
	if t.DrCr == "DR" {
		return t.Amount.Decimal.Neg()
	}
	return t.Amount.Decimal
}

// =============================================================================
// CODE TABLE LOOKUP
// =============================================================================

// CodeLookup resolves transaction detail codes to their dr/cr side and
// descriptive text. The codetable package provides the concrete
// implementation; the assembler only needs this narrow view.
type CodeLookup interface {
	DrCr(code string) string
	Description(code string) string
	StatementParticulars(code string) string
}
