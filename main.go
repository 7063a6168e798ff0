// =============================================================================
// NAI File Parser - Main Entry Point
// =============================================================================
//
// This is the main entry point for the NAI File Parser CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   naiparse process        - Parse all NAI files in the input directory
//   naiparse version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/nai-file-parser/cmd"
)

func main() {
	cmd.Execute()
}
