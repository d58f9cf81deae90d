// =============================================================================
// TXT to XLSX Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   converter               - Run every configured job
//   converter process       - Run every job, or those named with --job
//   converter validate      - Check configuration and source directories
//   converter version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (parsing, sanitizing, writing, config)
//   - pkg/utils/     : File selection and summary reports
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/cmd"
)

func main() {
	cmd.Execute()
}
