// =============================================================================
// NAI File Parser - Line Normalizer
// =============================================================================
//
// This module turns the raw text of an NAI file into an ordered sequence of
// LogicalRecords:
//   1. Strip surrounding whitespace and configured trailing terminators
//      (the "/" record terminator some banks emit) from each physical line.
//   2. Normalize curly apostrophes to straight quotes.
//   3. Merge continuation lines ("88,...") into the preceding logical record,
//      preserving field boundaries.
//   4. Classify each logical record and split it into raw fields.
//
// Blank lines are skipped. A continuation line with no preceding record is
// surfaced as a parse warning and dropped - it is never silently absorbed
// into a neighboring record. Output order is the physical line order and
// every record keeps its source line range for diagnostics.
//
// =============================================================================

package nai

import (
	"strings"

	"github.com/ginjaninja78/nai-file-parser/internal/config"
)

// NormalizedFile is the result of normalizing one input file.
type NormalizedFile struct {
	// RawContent is the input text exactly as read.
	RawContent string

	// CleanedLines are the merged logical lines after stripping, in
	// physical order. Useful as the cleaned_content output and for
	// record-count control checks.
	CleanedLines []string

	// Records are the classified logical records, one per cleaned line.
	Records []LogicalRecord

	// Warnings collects recoverable anomalies found during normalization.
	Warnings []Warning
}

// Normalize cleans the raw text of an NAI file and merges continuation lines
// into logical records.
func Normalize(rawText string, settings config.NAISettings) *NormalizedFile {
	result := &NormalizedFile{RawContent: rawText}

	continuationPrefix := settings.ContinuationCode + settings.Delimiter
	delimiter := settings.DelimiterRune()

	// pending is the logical line currently being accumulated, together
	// with the physical line range it spans.
	var (
		pending      string
		pendingStart int
		pendingEnd   int
	)

	flush := func() {
		if pending == "" {
			return
		}
		typ, code, fields := Classify(pending, delimiter)
		result.CleanedLines = append(result.CleanedLines, pending)
		result.Records = append(result.Records, LogicalRecord{
			Type:      typ,
			Code:      code,
			Fields:    fields,
			StartLine: pendingStart,
			EndLine:   pendingEnd,
		})
		pending = ""
	}

	lines := strings.Split(rawText, "\n")
	for i, raw := range lines {
		lineNumber := i + 1

		line := cleanLine(raw, settings)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, continuationPrefix) {
			if pending == "" {
				result.Warnings = append(result.Warnings, Warning{
					Line:    lineNumber,
					Code:    settings.ContinuationCode,
					Message: "continuation line with no preceding record",
				})
				continue
			}
			// Append the continuation's fields to the pending record,
			// keeping the delimiter as the field boundary.
			pending += settings.Delimiter + line[len(continuationPrefix):]
			pendingEnd = lineNumber
			continue
		}

		flush()
		pending = line
		pendingStart = lineNumber
		pendingEnd = lineNumber
	}
	flush()

	return result
}

// cleanLine strips whitespace, normalizes curly apostrophes and removes the
// configured trailing terminators from a physical line.
func cleanLine(raw string, settings config.NAISettings) string {
	line := strings.TrimSpace(raw)
	line = strings.ReplaceAll(line, "’", "'")

	for _, suffix := range settings.StripSuffixes {
		line = strings.TrimSuffix(line, suffix)
	}
	return line
}
