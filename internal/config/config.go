// =============================================================================
// NAI File Parser - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. A single
// YAML document supplies everything the pipeline needs:
//   - Folder paths (input, output, input archive)
//   - NAI format settings (delimiter, continuation code, stripped characters)
//   - The transaction detail code table location (XLSX) or inline entries
//   - The narrative sub-field layout for the structured transactions output
//   - The default set of named outputs to materialize
//
// All configuration is loaded once at startup and passed explicitly into each
// component's entry point; there is no ambient configuration object.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the application configuration loaded from config.yaml.
type Config struct {
	// InputFolderPath is the directory scanned for NAI files.
	InputFolderPath string `yaml:"input_folder_path"`

	// OutputFolderPath is the directory where selected outputs are written.
	OutputFolderPath string `yaml:"output_folder_path"`

	// InputArchivePath is where successfully processed inputs are moved.
	InputArchivePath string `yaml:"input_archive_path"`

	// FileExtension filters input files. Default: ".nai"
	FileExtension string `yaml:"file_extension"`

	// Encoding is the declared character encoding of input files.
	// Only "UTF-8" is supported; the value is recorded for diagnostics.
	Encoding string `yaml:"encoding"`

	// Outputs is the default set of named outputs materialized when the
	// --outputs flag is not given. Valid names:
	//   raw_content, cleaned_content, nai_dict,
	//   df_file_metadata, df_groups, df_accounts, df_transactions,
	//   df_accounts_structured, df_transactions_structured, checks
	Outputs []string `yaml:"outputs"`

	// MaxConcurrency bounds how many files are processed in parallel.
	// 1 means strictly sequential. Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ArchiveOnSuccess moves inputs to the archive after processing.
	// Failed files always stay in place. Default: true
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// NAI holds the record format settings.
	NAI NAISettings `yaml:"nai"`

	// CodeTable locates the transaction detail code table.
	CodeTable CodeTableConfig `yaml:"transaction_detail_codes"`

	// NarrativeLayout decomposes transaction narrative text into named
	// sub-fields for the df_transactions_structured output. Segments are
	// consumed left to right; a zero width means "the rest of the text".
	NarrativeLayout []NarrativeField `yaml:"narrative_layout"`

	// CurrencyCodes overrides the recognized currency code set used by the
	// currency sanity check. Empty means the built-in default set.
	CurrencyCodes []string `yaml:"currency_codes"`
}

// NAISettings contains the line-format conventions of the NAI dialect.
type NAISettings struct {
	// Delimiter separates fields within a record. Default: ","
	Delimiter string `yaml:"delimiter"`

	// ContinuationCode is the record code that continues the preceding
	// logical record. Default: "88"
	ContinuationCode string `yaml:"continuation_code"`

	// StripSuffixes are terminator characters removed from the end of each
	// physical line before classification. Default: ["/"]
	StripSuffixes []string `yaml:"strip_suffixes"`
}

// DelimiterRune returns the configured delimiter as a rune.
func (s NAISettings) DelimiterRune() rune {
	for _, r := range s.Delimiter {
		return r
	}
	return ','
}

// CodeTableConfig locates the transaction detail code table. When Path is
// set the table is read from an XLSX workbook; otherwise Inline entries are
// used directly.
type CodeTableConfig struct {
	// Path to an XLSX workbook with columns:
	//   transaction_code, dr_cr, transaction_description, statement_particulars
	Path string `yaml:"path"`

	// Sheet is the worksheet name. Default: first sheet.
	Sheet string `yaml:"sheet"`

	// Inline defines the table directly in the configuration document.
	Inline []CodeEntry `yaml:"inline"`
}

// CodeEntry is a single transaction detail code definition.
type CodeEntry struct {
	Code                 string `yaml:"code"`
	DrCr                 string `yaml:"dr_cr"`
	Description          string `yaml:"transaction_description"`
	StatementParticulars string `yaml:"statement_particulars"`
}

// NarrativeField names one fixed-width segment of the transaction narrative.
type NarrativeField struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultOutputs is the output set materialized when neither the
// configuration nor the --outputs flag selects one.
var DefaultOutputs = []string{
	"df_file_metadata",
	"df_groups",
	"df_accounts",
	"df_transactions",
	"checks",
}

// Load reads and validates the configuration from a YAML file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputFolderPath == "" {
		cfg.InputFolderPath = "./input"
	}
	if cfg.OutputFolderPath == "" {
		cfg.OutputFolderPath = "./output"
	}
	if cfg.InputArchivePath == "" {
		cfg.InputArchivePath = "./input_archive"
	}
	if cfg.FileExtension == "" {
		cfg.FileExtension = ".nai"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "UTF-8"
	}
	if len(cfg.Outputs) == 0 {
		cfg.Outputs = append([]string(nil), DefaultOutputs...)
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.NAI.Delimiter == "" {
		cfg.NAI.Delimiter = ","
	}
	if cfg.NAI.ContinuationCode == "" {
		cfg.NAI.ContinuationCode = "88"
	}
	if cfg.NAI.StripSuffixes == nil {
		cfg.NAI.StripSuffixes = []string{"/"}
	}
}

// validate checks the configuration for consistency and creates the working
// directories if they do not exist yet.
func validate(cfg *Config) error {
	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}
	if len(cfg.NAI.Delimiter) != 1 {
		return fmt.Errorf("nai delimiter must be a single character, got %q", cfg.NAI.Delimiter)
	}

	for _, f := range cfg.NarrativeLayout {
		if f.Name == "" {
			return fmt.Errorf("narrative_layout entries need a name")
		}
		if f.Width < 0 {
			return fmt.Errorf("narrative_layout field %q has negative width", f.Name)
		}
	}

	dirs := []string{cfg.InputFolderPath, cfg.OutputFolderPath, cfg.InputArchivePath}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
