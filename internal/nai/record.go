// =============================================================================
// NAI File Parser - Record Model and Classifier
// =============================================================================
//
// This file defines the low-level record model for NAI files and the record
// classifier. An NAI file is a sequence of comma-delimited physical lines,
// each identified by a leading two-digit record type code:
//
//   01 - File Header          02 - Group Header
//   03 - Account Identifier   16 - Transaction Detail
//   49 - Account Trailer      88 - Continuation
//   98 - Group Trailer        99 - File Trailer
//
// Physical lines are merged into LogicalRecords by the normalizer (88 lines
// continue the preceding record); the classifier maps the leading code to a
// RecordType and splits the remainder into raw fields.
//
// =============================================================================

package nai

import "strings"

// =============================================================================
// RECORD TYPES
// =============================================================================

// RecordType identifies the kind of an NAI record by its leading code.
type RecordType string

const (
	RecordFileHeader        RecordType = "01"
	RecordGroupHeader       RecordType = "02"
	RecordAccountIdentifier RecordType = "03"
	RecordTransactionDetail RecordType = "16"
	RecordAccountTrailer    RecordType = "49"
	RecordContinuation      RecordType = "88"
	RecordGroupTrailer      RecordType = "98"
	RecordFileTrailer       RecordType = "99"

	// RecordUnrecognized tags lines whose leading code is not one of the
	// known NAI codes. They are carried through so the assembler can skip
	// them with a warning instead of failing the file.
	RecordUnrecognized RecordType = "??"
)

// knownTypes is the set of codes the classifier recognizes. The continuation
// code is deliberately absent: 88 lines never survive normalization as
// records of their own.
var knownTypes = map[string]RecordType{
	"01": RecordFileHeader,
	"02": RecordGroupHeader,
	"03": RecordAccountIdentifier,
	"16": RecordTransactionDetail,
	"49": RecordAccountTrailer,
	"98": RecordGroupTrailer,
	"99": RecordFileTrailer,
}

// =============================================================================
// RAW AND LOGICAL RECORDS
// =============================================================================

// RawLine is a single physical line as read from the input file.
// Line numbers are 1-indexed and retained for diagnostics.
type RawLine struct {
	Number int
	Text   string
}

// LogicalRecord is one or more physical lines merged into a single NAI
// record. Fields holds the raw field strings after the record type code.
// StartLine/EndLine give the physical line range the record was built from.
type LogicalRecord struct {
	Type      RecordType
	Code      string // the literal leading code, kept for unrecognized records
	Fields    []string
	StartLine int
	EndLine   int
}

// Narrative joins the trailing free-text fields of a transaction detail
// record starting at the given field index. The NAI format does not escape
// commas inside narrative text; it simply keeps emitting fields, so the
// narrative is the concatenation of everything after the fixed columns.
func (r LogicalRecord) Narrative(from int) string {
	if from >= len(r.Fields) {
		return ""
	}
	return strings.Join(r.Fields[from:], "")
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify maps a normalized line to its record type and raw fields.
//
// The leading token (up to the first delimiter) is the record type code.
// Unknown codes yield RecordUnrecognized rather than an error; downstream
// assembly treats those records as skippable-with-warning.
func Classify(line string, delimiter rune) (RecordType, string, []string) {
	fields := SplitFields(line, delimiter)
	if len(fields) == 0 {
		return RecordUnrecognized, "", nil
	}

	code := fields[0]
	typ, ok := knownTypes[code]
	if !ok {
		return RecordUnrecognized, code, fields[1:]
	}
	return typ, code, fields[1:]
}

// SplitFields splits a record line on the delimiter, honoring double-quoted
// segments: a delimiter inside quotes does not split, and the surrounding
// quotes are removed from the field value. A doubled quote inside a quoted
// segment is an escaped literal quote.
//
// Trailing delimiter omission is tolerated by construction - splitting simply
// yields however many fields the line carries, and the assembler treats a
// missing last field as empty.
func SplitFields(line string, delimiter rune) []string {
	if line == "" {
		return nil
	}

	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '"':
			if quoted && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			quoted = !quoted

		case r == delimiter && !quoted:
			fields = append(fields, current.String())
			current.Reset()

		default:
			current.WriteRune(r)
		}
	}

	fields = append(fields, current.String())
	return fields
}

// fieldAt returns the field at index i, or empty when the record is short.
// NAI emitters routinely omit trailing empty fields.
func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
