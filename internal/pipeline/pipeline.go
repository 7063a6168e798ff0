// =============================================================================
// NAI File Parser - Processing Pipeline
// =============================================================================
//
// One Processor serves a whole batch run. Per file the pipeline is:
//
//   read -> normalize -> assemble -> enrich -> validate
//
// Each stage's diagnostics are collected onto the file's Result; nothing in
// the pipeline panics or aborts the batch. A fatal StructuralError marks the
// Result failed and skips validation for that file only.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/nai-file-parser/internal/checks"
	"github.com/ginjaninja78/nai-file-parser/internal/config"
	"github.com/ginjaninja78/nai-file-parser/internal/nai"
)

// Processor runs the per-file pipeline. Safe for concurrent use: all state
// is set at construction and only read afterwards.
type Processor struct {
	cfg   *config.Config
	codes nai.CodeLookup
	log   zerolog.Logger
	runID string
}

// New builds a Processor for one batch run. The run id distinguishes this
// run's file metadata ids from earlier runs over the same files.
func New(cfg *config.Config, codes nai.CodeLookup, log zerolog.Logger) *Processor {
	return &Processor{
		cfg:   cfg,
		codes: codes,
		log:   log,
		runID: uuid.NewString()[:8],
	}
}

// RunID returns the batch run identifier.
func (p *Processor) RunID() string {
	return p.runID
}

// Result is everything one input file produced.
type Result struct {
	FileName string

	// Normalized holds the raw text, cleaned lines and parse warnings.
	// Always present, even when assembly failed.
	Normalized *nai.NormalizedFile

	// File is the assembled hierarchy; nil when assembly failed.
	File            *nai.FileMetadata
	RecordsConsumed int

	// Warnings aggregates normalizer and assembler warnings.
	Warnings []nai.Warning

	// Checks holds every executed check result, passing and failing.
	Checks []checks.CheckResult

	// StructuralErr is the fatal assembly error, nil on success.
	StructuralErr error
}

// Failed reports whether the file hit a fatal structural error.
func (r *Result) Failed() bool {
	return r.StructuralErr != nil
}

// FailedChecks counts the validation failures for the summary line.
func (r *Result) FailedChecks() int {
	return len(checks.Failures(r.Checks))
}

// ProcessFile reads one input file and runs the pipeline over it. Read
// errors are reported like structural failures: the batch continues and the
// file counts as failed.
func (p *Processor) ProcessFile(path string) *Result {
	fileName := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		p.log.Error().Err(err).Str("file", fileName).Msg("failed to read input file")
		return &Result{
			FileName:      fileName,
			StructuralErr: fmt.Errorf("failed to read %s: %w", fileName, err),
		}
	}

	return p.ProcessText(fileName, string(data))
}

// ProcessText runs the pipeline over raw file content.
func (p *Processor) ProcessText(fileName, rawText string) *Result {
	result := &Result{FileName: fileName}

	result.Normalized = nai.Normalize(rawText, p.cfg.NAI)
	result.Warnings = append(result.Warnings, result.Normalized.Warnings...)

	p.log.Debug().
		Str("file", fileName).
		Int("records", len(result.Normalized.Records)).
		Msg("normalized input")

	assembled, err := nai.Assemble(result.Normalized.Records, nai.AssembleOptions{
		RunID: p.runID,
		Codes: p.codes,
	})
	if err != nil {
		p.log.Error().Err(err).Str("file", fileName).Msg("assembly failed")
		result.StructuralErr = err
		return result
	}

	result.File = assembled.File
	result.RecordsConsumed = assembled.RecordsConsumed
	result.Warnings = append(result.Warnings, assembled.Warnings...)

	for _, w := range result.Warnings {
		p.log.Warn().Str("file", fileName).Msg(w.String())
	}

	result.Checks = checks.Run(fileName, assembled.File, checks.Options{
		RecordsConsumed: assembled.RecordsConsumed,
		CurrencyCodes:   p.cfg.CurrencyCodes,
	})

	p.log.Info().
		Str("file", fileName).
		Int("groups", len(assembled.File.Groups)).
		Int("warnings", len(result.Warnings)).
		Int("failed_checks", result.FailedChecks()).
		Msg("file processed")

	return result
}
