// =============================================================================
// NAI File Parser - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command for parsing NAI
// files. It orchestrates the whole batch:
//
//   1. Load configuration and the transaction detail code table
//   2. Discover NAI files in the input directory (or take --file)
//   3. For each file (concurrently, bounded by max_concurrency):
//      a. Normalize and merge continuation lines
//      b. Assemble the record hierarchy
//      c. Run the validation check battery
//   4. Write the selected outputs per file
//   5. Aggregate all check results into the checks workbook
//   6. Archive processed inputs and write the summary report
//
// Exit status is non-zero when any file hit a fatal structural error.
// Validation check failures are data findings and never affect exit status.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/nai-file-parser/internal/codetable"
	"github.com/ginjaninja78/nai-file-parser/internal/config"
	"github.com/ginjaninja78/nai-file-parser/internal/logger"
	"github.com/ginjaninja78/nai-file-parser/internal/pipeline"
	"github.com/ginjaninja78/nai-file-parser/internal/tabular"
	"github.com/ginjaninja78/nai-file-parser/internal/writer"
	"github.com/ginjaninja78/nai-file-parser/pkg/utils"
)

// dryRun parses and validates without writing outputs or archiving.
var dryRun bool

// singleFile restricts processing to the file given with --file.
var singleFile bool

// filePath is the file processed with --single.
var filePath string

// outputsFlag selects the named outputs, comma-separated.
var outputsFlag string

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Parse NAI files and write the selected outputs",
	Long: `The process command scans the input directory for NAI files, parses each
one into its record hierarchy, reconciles the declared control totals and
writes the selected outputs.

Files are processed concurrently and independently: a structural error in
one file never affects the others.

On successful processing:
  - The selected outputs are written to the output directory
  - Check results are aggregated into a checks workbook
  - The original file is moved to the input archive

On structural failure:
  - The file stays in the input directory for inspection
  - Processing continues for other files
  - The process exits non-zero once all files were attempted`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and validate without writing outputs or archiving",
	)

	processCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Process only a single file (use with --file)",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process (used with --single)",
	)

	processCmd.Flags().StringVar(
		&outputsFlag,
		"outputs",
		"",
		fmt.Sprintf("Comma-separated output names (default from configuration). Valid: %s",
			strings.Join(pipeline.OutputNames(), ", ")),
	)
}

// fileOutcome pairs a pipeline result with its processing time.
type fileOutcome struct {
	result  *pipeline.Result
	path    string
	elapsed time.Duration
}

// runProcess orchestrates one batch run.
func runProcess() error {
	startTime := time.Now()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel)

	outputNames, err := selectOutputs(cfg)
	if err != nil {
		return err
	}

	codes, err := codetable.Load(cfg.CodeTable)
	if err != nil {
		return fmt.Errorf("failed to load transaction detail codes: %w", err)
	}
	log.Info().Int("codes", codes.Len()).Msg("loaded transaction detail code table")

	fm := utils.NewFileManager(
		cfg.InputFolderPath, cfg.OutputFolderPath, cfg.InputArchivePath,
		cfg.ArchiveOnSuccess && !dryRun,
	)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	inputFiles, err := collectInputFiles(fm, cfg)
	if err != nil {
		return err
	}
	if len(inputFiles) == 0 {
		log.Info().Str("dir", cfg.InputFolderPath).Msg("no input files found")
		return nil
	}
	log.Info().Int("files", len(inputFiles)).Msg("discovered input files")

	proc := pipeline.New(cfg, codes, log)

	// Process files concurrently, bounded by max_concurrency. Results are
	// collected over a buffered channel and written out sequentially.
	var wg sync.WaitGroup
	results := make(chan fileOutcome, len(inputFiles))
	semaphore := make(chan struct{}, cfg.MaxConcurrency)

	for _, path := range inputFiles {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			result := proc.ProcessFile(path)
			results <- fileOutcome{result: result, path: path, elapsed: time.Since(fileStart)}
		}(path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := writer.New(cfg.OutputFolderPath)
	summary := utils.ProcessingSummary{
		RunID:      proc.RunID(),
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}
	allChecks := tabular.Table{Name: "checks"}

	for outcome := range results {
		result := outcome.result

		if result.Failed() {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.FileName,
				ErrorMessage: result.StructuralErr.Error(),
			})
			continue
		}

		info := utils.ProcessedFileInfo{
			InputFile:    result.FileName,
			Groups:       len(result.File.Groups),
			Warnings:     len(result.Warnings),
			FailedChecks: result.FailedChecks(),
			ProcessTime:  outcome.elapsed,
		}
		for _, g := range result.File.Groups {
			info.Accounts += len(g.Accounts)
			for _, a := range g.Accounts {
				info.Transactions += len(a.Transactions)
			}
		}

		if !dryRun {
			outputs, err := proc.BuildOutputs(result, outputNames)
			if err != nil {
				return err
			}
			if _, err := out.WriteOutputs(result.FileName, outputs); err != nil {
				return err
			}

			archivePath, err := fm.ArchiveInputFile(outcome.path)
			if err != nil {
				log.Error().Err(err).Str("file", result.FileName).Msg("failed to archive input")
			} else if archivePath != outcome.path {
				info.ArchivePath = archivePath
			}
		}

		checksTable := tabular.Checks(result.Checks)
		allChecks.Columns = checksTable.Columns
		allChecks.Rows = append(allChecks.Rows, checksTable.Rows...)

		summary.SuccessfulFiles++
		summary.TotalGroups += info.Groups
		summary.TotalAccounts += info.Accounts
		summary.TotalTransactions += info.Transactions
		summary.TotalWarnings += info.Warnings
		summary.FailedChecks += info.FailedChecks
		summary.ProcessedFiles = append(summary.ProcessedFiles, info)
	}

	summary.EndTime = time.Now()

	if !dryRun {
		if wantsChecks(outputNames) && len(allChecks.Rows) > 0 {
			workbookPath := filepath.Join(cfg.OutputFolderPath,
				fmt.Sprintf("checks_%s.xlsx", proc.RunID()))
			if err := writer.WriteChecksWorkbook(workbookPath, allChecks); err != nil {
				return err
			}
			log.Info().Str("path", workbookPath).Msg("wrote checks workbook")
		}

		summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputFolderPath)
		if err != nil {
			return err
		}
		log.Info().Str("path", summaryPath).Msg("wrote processing summary")
	}

	log.Info().
		Int("total", summary.TotalFiles).
		Int("successful", summary.SuccessfulFiles).
		Int("failed", summary.FailedFiles).
		Int("failed_checks", summary.FailedChecks).
		Dur("elapsed", time.Since(startTime)).
		Msg("processing complete")

	// Structural failures make the run fail; check failures do not.
	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d files failed assembly", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// selectOutputs resolves the output set from the --outputs flag or the
// configuration default and validates the names up front.
func selectOutputs(cfg *config.Config) ([]string, error) {
	names := cfg.Outputs
	if outputsFlag != "" {
		names = nil
		for _, name := range strings.Split(outputsFlag, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	if err := pipeline.ValidateOutputNames(names); err != nil {
		return nil, err
	}
	return names, nil
}

// collectInputFiles returns the batch's input paths, honoring --single.
func collectInputFiles(fm *utils.FileManager, cfg *config.Config) ([]string, error) {
	if singleFile {
		if filePath == "" {
			return nil, fmt.Errorf("--single requires --file")
		}
		if !utils.FileExists(filePath) {
			return nil, fmt.Errorf("input file not found: %s", filePath)
		}
		return []string{filePath}, nil
	}
	return fm.DiscoverInputFiles(cfg.FileExtension)
}

// wantsChecks reports whether the checks output was selected.
func wantsChecks(names []string) bool {
	for _, name := range names {
		if name == "checks" {
			return true
		}
	}
	return false
}
