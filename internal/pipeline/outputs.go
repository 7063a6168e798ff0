// =============================================================================
// NAI File Parser - Named Outputs
// =============================================================================
//
// Each file's result can materialize up to ten named outputs, selected on
// the command line or in configuration. Dispatch runs through a name to
// builder map so adding an output is one entry plus one function.
//
// =============================================================================

package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/nai-file-parser/internal/tabular"
)

// OutputKind tells the writer how to serialize an output.
type OutputKind int

const (
	// KindText serializes verbatim to a .txt file.
	KindText OutputKind = iota
	// KindJSON serializes to a .json file.
	KindJSON
	// KindTable serializes to a .csv file; the checks table additionally
	// lands in the run's checks workbook.
	KindTable
)

// Output is one materialized named output for one file.
type Output struct {
	Name  string
	Kind  OutputKind
	Text  string
	JSON  []byte
	Table tabular.Table
}

type outputBuilder func(*Processor, *Result) (Output, error)

// builders maps output names to their builders. Hierarchy-dependent
// builders require a successful assembly.
var builders = map[string]outputBuilder{
	"raw_content":     buildRawContent,
	"cleaned_content": buildCleanedContent,
	"nai_dict":        buildNAIDict,
	"df_file_metadata": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.FileMetadata(r.File)
	}),
	"df_groups": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.Groups(r.File)
	}),
	"df_accounts": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.Accounts(r.File)
	}),
	"df_transactions": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.Transactions(r.File)
	}),
	"df_accounts_structured": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.AccountsStructured(r.File)
	}),
	"df_transactions_structured": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.TransactionsStructured(r.File, p.cfg.NarrativeLayout)
	}),
	"checks": tableBuilder(func(p *Processor, r *Result) tabular.Table {
		return tabular.Checks(r.Checks)
	}),
}

// OutputNames lists every valid output name, sorted.
func OutputNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateOutputNames rejects unknown output names before processing starts.
func ValidateOutputNames(names []string) error {
	for _, name := range names {
		if _, ok := builders[name]; !ok {
			return fmt.Errorf("unknown output %q, valid outputs: %s",
				name, strings.Join(OutputNames(), ", "))
		}
	}
	return nil
}

// BuildOutputs materializes the selected outputs for one result. For a file
// that failed assembly only the content outputs are available; selecting a
// hierarchy output for it is an error.
func (p *Processor) BuildOutputs(result *Result, names []string) ([]Output, error) {
	outputs := make([]Output, 0, len(names))
	for _, name := range names {
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown output %q", name)
		}
		out, err := build(p, result)
		if err != nil {
			return nil, fmt.Errorf("output %s for %s: %w", name, result.FileName, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// =============================================================================
// BUILDERS
// =============================================================================

func buildRawContent(_ *Processor, r *Result) (Output, error) {
	if r.Normalized == nil {
		return Output{}, fmt.Errorf("file was never read")
	}
	return Output{Name: "raw_content", Kind: KindText, Text: r.Normalized.RawContent}, nil
}

func buildCleanedContent(_ *Processor, r *Result) (Output, error) {
	if r.Normalized == nil {
		return Output{}, fmt.Errorf("file was never read")
	}
	return Output{
		Name: "cleaned_content",
		Kind: KindText,
		Text: strings.Join(r.Normalized.CleanedLines, "\n"),
	}, nil
}

func buildNAIDict(_ *Processor, r *Result) (Output, error) {
	if r.File == nil {
		return Output{}, fmt.Errorf("no hierarchy: assembly failed")
	}
	data, err := json.MarshalIndent(r.File, "", "  ")
	if err != nil {
		return Output{}, fmt.Errorf("failed to serialize hierarchy: %w", err)
	}
	return Output{Name: "nai_dict", Kind: KindJSON, JSON: data}, nil
}

// tableBuilder wraps a projection into a builder that guards against a
// failed assembly.
func tableBuilder(project func(*Processor, *Result) tabular.Table) outputBuilder {
	return func(p *Processor, r *Result) (Output, error) {
		if r.File == nil {
			return Output{}, fmt.Errorf("no hierarchy: assembly failed")
		}
		table := project(p, r)
		return Output{Name: table.Name, Kind: KindTable, Table: table}, nil
	}
}
