// =============================================================================
// NAI File Parser - Hierarchical Assembler
// =============================================================================
//
// The assembler consumes the ordered LogicalRecord sequence produced by the
// normalizer and builds exactly one FileMetadata tree. It is a state machine
// over record types:
//
//   AwaitFileHeader --01--> InFile --02--> InGroup --03--> InAccount
//   InAccount --49--> InGroup --98--> InFile --99--> Closed
//
// Fatal conditions (StructuralError, aborts this file only):
//   - the sequence does not open with a file header
//   - any record after the file trailer closed the file
//   - a second file header inside an open file
//
// Recoverable conditions (Warning, processing continues):
//   - a header arriving while the corresponding child is still open is an
//     implicit close-then-open
//   - unrecognized record types are skipped
//   - short records and unparseable fields are reported per record
//
// Declared trailer control totals are recorded on the tree for the checks
// package; assembly itself never compares them.
//
// =============================================================================

package nai

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATES
// =============================================================================

type assembleState int

const (
	awaitFileHeader assembleState = iota
	inFile
	inGroup
	inAccount
	closed
)

func (s assembleState) String() string {
	switch s {
	case awaitFileHeader:
		return "AwaitFileHeader"
	case inFile:
		return "InFile"
	case inGroup:
		return "InGroup"
	case inAccount:
		return "InAccount"
	case closed:
		return "Closed"
	}
	return "Unknown"
}

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// AssembleOptions configures one assembly pass.
type AssembleOptions struct {
	// RunID distinguishes processing runs inside FileMetadataID.
	// Defaults to the processing timestamp when empty.
	RunID string

	// Codes enriches transactions with dr/cr side and descriptions.
	// Optional; transactions stay unenriched without it.
	Codes CodeLookup
}

// AssembleResult is the outcome of assembling one file.
type AssembleResult struct {
	File            *FileMetadata
	Warnings        []Warning
	RecordsConsumed int
}

// =============================================================================
// ASSEMBLER
// =============================================================================

type assembler struct {
	opts  AssembleOptions
	state assembleState

	file    *FileMetadata
	group   *Group
	account *Account

	warnings []Warning
}

// Assemble builds the FileMetadata tree from a classified record sequence.
// It returns a StructuralError when no valid tree can be built; all other
// anomalies are reported as warnings on the result.
func Assemble(records []LogicalRecord, opts AssembleOptions) (*AssembleResult, error) {
	if opts.RunID == "" {
		opts.RunID = time.Now().Format("20060102-150405")
	}

	a := &assembler{opts: opts, state: awaitFileHeader}

	for _, rec := range records {
		if err := a.consume(rec); err != nil {
			return nil, err
		}
	}

	// Trailing open scopes: the file simply ended early. Recorded as
	// warnings so a truncated file still yields its parsed prefix.
	if a.state == inAccount || a.state == inGroup || a.state == inFile {
		a.warn(0, "", fmt.Sprintf("input ended in state %s without closing trailers", a.state))
	}

	if a.file == nil {
		return nil, &StructuralError{State: a.state.String(), Message: "input contains no file header record"}
	}

	return &AssembleResult{
		File:            a.file,
		Warnings:        a.warnings,
		RecordsConsumed: len(records),
	}, nil
}

// consume advances the state machine by one record.
func (a *assembler) consume(rec LogicalRecord) error {
	// Unrecognized records never cause a structural error on their own,
	// regardless of state. They are skipped with a warning.
	if rec.Type == RecordUnrecognized {
		a.warn(rec.StartLine, rec.Code, "unrecognized record type; record skipped")
		return nil
	}

	if a.state == closed {
		return &StructuralError{
			Line: rec.StartLine, Record: rec.Type, State: a.state.String(),
			Message: "record after file trailer",
		}
	}

	switch rec.Type {
	case RecordFileHeader:
		return a.onFileHeader(rec)
	case RecordGroupHeader:
		return a.onGroupHeader(rec)
	case RecordAccountIdentifier:
		return a.onAccountIdentifier(rec)
	case RecordTransactionDetail:
		a.onTransactionDetail(rec)
		return nil
	case RecordAccountTrailer:
		a.onAccountTrailer(rec)
		return nil
	case RecordGroupTrailer:
		a.onGroupTrailer(rec)
		return nil
	case RecordFileTrailer:
		return a.onFileTrailer(rec)
	}
	return nil
}

// =============================================================================
// HEADER HANDLERS
// =============================================================================

func (a *assembler) onFileHeader(rec LogicalRecord) error {
	if a.state != awaitFileHeader {
		return &StructuralError{
			Line: rec.StartLine, Record: rec.Type, State: a.state.String(),
			Message: "second file header inside an open file",
		}
	}

	a.requireFields(rec, 5)

	creationDate := a.reformatDate(rec, fieldAt(rec.Fields, 2))
	creationTime := fieldAt(rec.Fields, 3)
	sequence := fieldAt(rec.Fields, 4)

	a.file = &FileMetadata{
		FileMetadataID: creationDate + "_" + creationTime + "_" + sequence + "_" + a.opts.RunID,
		SenderID:       fieldAt(rec.Fields, 0),
		ReceiverID:     fieldAt(rec.Fields, 1),
		CreationDate:   creationDate,
		CreationTime:   creationTime,
		SequenceNumber: sequence,
	}
	a.state = inFile
	return nil
}

func (a *assembler) onGroupHeader(rec LogicalRecord) error {
	switch a.state {
	case awaitFileHeader:
		return &StructuralError{
			Line: rec.StartLine, Record: rec.Type, State: a.state.String(),
			Message: "group header before file header",
		}
	case inAccount:
		a.warn(rec.StartLine, string(rec.Type), "group header while account still open; implicit close")
		a.closeAccount()
		fallthrough
	case inGroup:
		if a.group != nil && a.group.Trailer == nil {
			a.warn(rec.StartLine, string(rec.Type), "group header while group still open; implicit close")
		}
		a.closeGroup()
	}

	a.requireFields(rec, 5)

	asOfDate := a.reformatDate(rec, fieldAt(rec.Fields, 3))
	group := &Group{
		FileMetadataID:     a.file.FileMetadataID,
		UltimateReceiverID: fieldAt(rec.Fields, 0),
		OriginatorID:       fieldAt(rec.Fields, 1),
		GroupStatus:        fieldAt(rec.Fields, 2),
		AsOfDate:           asOfDate,
		AsOfTime:           fieldAt(rec.Fields, 4),
	}
	group.GroupID = group.UltimateReceiverID + "_" + group.OriginatorID + "_" +
		group.GroupStatus + "_" + asOfDate + "_" + group.AsOfTime

	a.file.Groups = append(a.file.Groups, group)
	a.group = group
	a.state = inGroup
	return nil
}

func (a *assembler) onAccountIdentifier(rec LogicalRecord) error {
	switch a.state {
	case awaitFileHeader:
		return &StructuralError{
			Line: rec.StartLine, Record: rec.Type, State: a.state.String(),
			Message: "account identifier before file header",
		}
	case inFile:
		a.warn(rec.StartLine, string(rec.Type), "account identifier outside a group; record skipped")
		return nil
	case inAccount:
		a.warn(rec.StartLine, string(rec.Type), "account identifier while account still open; implicit close")
		a.closeAccount()
	}

	a.requireFields(rec, 2)

	account := &Account{
		FileMetadataID:          a.file.FileMetadataID,
		GroupID:                 a.group.GroupID,
		CommercialAccountNumber: fieldAt(rec.Fields, 0),
		CurrencyCode:            fieldAt(rec.Fields, 1),
		Summary:                 a.parseSummaryPairs(rec),
	}

	a.group.Accounts = append(a.group.Accounts, account)
	a.account = account
	a.state = inAccount
	return nil
}

// parseSummaryPairs decodes the code/amount pairs after the account number
// and currency code on an 03 record.
func (a *assembler) parseSummaryPairs(rec LogicalRecord) map[string]decimal.NullDecimal {
	pairs := rec.Fields[min(2, len(rec.Fields)):]

	if len(pairs)%2 != 0 {
		a.warn(rec.StartLine, string(rec.Type), "uneven summary code/amount pairs; padding with zero amount")
		pairs = append(pairs, "000")
	}

	summary := make(map[string]decimal.NullDecimal, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		code := pairs[i]
		amount, err := ParseImpliedDecimal(pairs[i+1])
		if err != nil {
			a.warn(rec.StartLine, string(rec.Type), fmt.Sprintf("summary code %s: %v", code, err))
		}
		summary[code] = amount
	}
	return summary
}

// =============================================================================
// DETAIL AND TRAILER HANDLERS
// =============================================================================

func (a *assembler) onTransactionDetail(rec LogicalRecord) {
	if a.state != inAccount {
		a.warn(rec.StartLine, string(rec.Type), "transaction detail outside an account; record skipped")
		return
	}

	a.requireFields(rec, 3)

	rawAmount := fieldAt(rec.Fields, 1)
	amount, err := ParseImpliedDecimal(rawAmount)
	if err != nil {
		a.warn(rec.StartLine, string(rec.Type), fmt.Sprintf("transaction amount: %v", err))
	}

	tx := &Transaction{
		FileMetadataID:          a.file.FileMetadataID,
		GroupID:                 a.group.GroupID,
		CommercialAccountNumber: a.account.CommercialAccountNumber,
		TransactionCode:         fieldAt(rec.Fields, 0),
		Amount:                  amount,
		RawAmount:               rawAmount,
		FundsType:               fieldAt(rec.Fields, 2),
		ReferenceNumber:         fieldAt(rec.Fields, 3),
		Text:                    rec.Narrative(4),
		SourceLine:              rec.StartLine,
	}

	if a.opts.Codes != nil {
		tx.DrCr = a.opts.Codes.DrCr(tx.TransactionCode)
		tx.Description = a.opts.Codes.Description(tx.TransactionCode)
		tx.StatementParticulars = a.opts.Codes.StatementParticulars(tx.TransactionCode)
	}

	a.account.Transactions = append(a.account.Transactions, tx)
}

func (a *assembler) onAccountTrailer(rec LogicalRecord) {
	if a.state != inAccount {
		a.warn(rec.StartLine, string(rec.Type), "account trailer without open account; record skipped")
		return
	}

	a.requireFields(rec, 2)

	a.account.Trailer = &AccountTrailer{
		ControlTotalA: a.parseAmountField(rec, 0, "account control total A"),
		ControlTotalB: a.parseAmountField(rec, 1, "account control total B"),
	}
	a.closeAccount()
}

func (a *assembler) onGroupTrailer(rec LogicalRecord) {
	if a.state == inAccount {
		a.warn(rec.StartLine, string(rec.Type), "group trailer while account still open; implicit close")
		a.closeAccount()
	}
	if a.state != inGroup {
		a.warn(rec.StartLine, string(rec.Type), "group trailer without open group; record skipped")
		return
	}

	a.requireFields(rec, 3)

	a.group.Trailer = &GroupTrailer{
		ControlTotalA:    a.parseAmountField(rec, 0, "group control total A"),
		NumberOfAccounts: a.parseCountField(rec, 1, "number of accounts"),
		ControlTotalB:    a.parseAmountField(rec, 2, "group control total B"),
	}
	a.closeGroup()
}

func (a *assembler) onFileTrailer(rec LogicalRecord) error {
	switch a.state {
	case awaitFileHeader:
		return &StructuralError{
			Line: rec.StartLine, Record: rec.Type, State: a.state.String(),
			Message: "file trailer before file header",
		}
	case inAccount:
		a.warn(rec.StartLine, string(rec.Type), "file trailer while account still open; implicit close")
		a.closeAccount()
		fallthrough
	case inGroup:
		a.warn(rec.StartLine, string(rec.Type), "file trailer while group still open; implicit close")
		a.closeGroup()
	}

	a.requireFields(rec, 4)

	a.file.Trailer = &FileTrailer{
		ControlTotalA:   a.parseAmountField(rec, 0, "file control total A"),
		NumberOfGroups:  a.parseCountField(rec, 1, "number of groups"),
		NumberOfRecords: a.parseCountField(rec, 2, "number of records"),
		ControlTotalB:   a.parseAmountField(rec, 3, "file control total B"),
	}
	a.state = closed
	return nil
}

// =============================================================================
// SCOPE MANAGEMENT AND FIELD HELPERS
// =============================================================================

func (a *assembler) closeAccount() {
	a.account = nil
	a.state = inGroup
}

func (a *assembler) closeGroup() {
	a.group = nil
	a.state = inFile
}

func (a *assembler) warn(line int, code, message string) {
	a.warnings = append(a.warnings, Warning{Line: line, Code: code, Message: message})
}

// requireFields reports a warning when a record carries fewer fields than
// its type expects. Missing trailing fields read as empty; the record is
// still processed.
func (a *assembler) requireFields(rec LogicalRecord, want int) {
	if len(rec.Fields) < want {
		a.warn(rec.StartLine, string(rec.Type),
			fmt.Sprintf("record has %d fields, expected at least %d", len(rec.Fields), want))
	}
}

func (a *assembler) parseAmountField(rec LogicalRecord, i int, what string) decimal.NullDecimal {
	amount, err := ParseImpliedDecimal(fieldAt(rec.Fields, i))
	if err != nil {
		a.warn(rec.StartLine, string(rec.Type), fmt.Sprintf("%s: %v", what, err))
	}
	return amount
}

func (a *assembler) parseCountField(rec LogicalRecord, i int, what string) int {
	n, err := ParseCount(fieldAt(rec.Fields, i))
	if err != nil {
		a.warn(rec.StartLine, string(rec.Type), fmt.Sprintf("%s: %v", what, err))
		return 0
	}
	return n
}

// reformatDate converts a YYMMDD field to YYYYMMDD. The raw value is kept
// when it does not parse, so the date sanity check can report it.
func (a *assembler) reformatDate(rec LogicalRecord, raw string) string {
	t, err := time.Parse("060102", raw)
	if err != nil {
		a.warn(rec.StartLine, string(rec.Type), fmt.Sprintf("date %q does not parse as YYMMDD", raw))
		return raw
	}
	return t.Format("20060102")
}
