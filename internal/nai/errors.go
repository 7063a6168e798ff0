// =============================================================================
// NAI File Parser - Error and Warning Types
// =============================================================================

package nai

import "fmt"

// StructuralError is a fatal per-file assembly error: the record sequence is
// malformed in a way the assembler cannot recover from (no file header, or
// records after the file trailer). It aborts processing of the affected file
// only; batch processing continues with the next file.
type StructuralError struct {
	Line    int
	Record  RecordType
	State   string
	Message string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("structural error at line %d (record %s, state %s): %s",
			e.Line, e.Record, e.State, e.Message)
	}
	return fmt.Sprintf("structural error: %s", e.Message)
}

// Warning is a recoverable anomaly found while normalizing or assembling a
// file: implicit close/reopen, unrecognized record codes, short records,
// unparseable fields. Warnings are recorded alongside the output and never
// abort processing.
type Warning struct {
	Line    int
	Code    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d [%s]: %s", w.Line, w.Code, w.Message)
}
