// =============================================================================
// TXT to XLSX Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command for
// converting the newest text export of each job into a workbook.
//
// COMMAND USAGE:
//   converter process [flags]
//
// FLAGS:
//   --job      : Run only the named job (repeatable, case-insensitive)
//   --dry-run  : Select and parse without writing output files
//   --file     : Process this file instead of the newest one (needs one --job)
//
// PROCESSING PIPELINE:
//   1. Load configuration (built-in jobs if config.yaml is absent)
//   2. For each job, in order:
//      a. Select the newest .txt file in the source directory
//      b. Parse it (delimited, whitespace, raw lines)
//      c. Remove illegal control characters
//      d. Write the workbook, replacing the previous one
//   3. Print the summary and optionally write a summary file
//
// Jobs without input are skipped. A job that cannot read its input or write
// its output stops the run and the command exits non-zero.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/converter"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/logging"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/types"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processOptions holds the flags of the process command.
type processOptions struct {
	// Jobs restricts the run to the named jobs. Empty runs every job.
	Jobs []string

	// DryRun selects and parses without writing output files.
	DryRun bool

	// File replaces latest-file selection for the single selected job.
	File string
}

var processFlags processOptions

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert the newest .txt file of each job to .xlsx",
	Long: `The process command runs each configured job in order. A job selects the
most recently created .txt file in its source directory, parses it, removes
control characters, and writes the result to its destination workbook,
overwriting any previous file.

A job whose source directory is missing or holds no .txt files is skipped.
If a file cannot be read or the destination cannot be written, processing
stops and the command exits with a non-zero status.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runProcess(cmd, processFlags)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringSliceVar(
		&processFlags.Jobs,
		"job",
		nil,
		"Run only the named job (repeatable)",
	)

	processCmd.Flags().BoolVar(
		&processFlags.DryRun,
		"dry-run",
		false,
		"Select and parse input without writing output files",
	)

	processCmd.Flags().StringVar(
		&processFlags.File,
		"file",
		"",
		"Process this file instead of the newest one (requires a single --job)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess loads configuration and logging, then runs the selected jobs.
func runProcess(cmd *cobra.Command, opts processOptions) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== TXT to XLSX Converter ===")
	fmt.Fprintln(out, "Loading configuration...")

	mainConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(mainConfig, verbose)
	if err != nil {
		return err
	}

	return processJobs(cmd.Context(), out, mainConfig, logger, opts)
}

// processJobs runs the selected jobs, prints the summary, and writes the
// summary file when configured.
func processJobs(ctx context.Context, out io.Writer, mainConfig *config.MainConfig, logger logging.Logger, opts processOptions) error {
	// =========================================================================
	// STEP 1: SELECT JOBS
	// =========================================================================

	jobs, err := mainConfig.SelectJobs(opts.Jobs)
	if err != nil {
		return err
	}
	if opts.File != "" && len(jobs) != 1 {
		return fmt.Errorf("--file requires exactly one --job, got %d job(s)", len(jobs))
	}

	fmt.Fprintf(out, "Running %d job(s)\n", len(jobs))
	if opts.DryRun {
		fmt.Fprintln(out, "Dry run: no files will be written")
	}

	converters := make([]*converter.Converter, 0, len(jobs))
	for _, job := range jobs {
		converterOpts := []converter.Option{
			converter.WithLogger(logger),
			converter.WithDryRun(opts.DryRun),
		}
		if opts.File != "" {
			converterOpts = append(converterOpts, converter.WithInputFile(opts.File))
		}
		converters = append(converters, converter.New(job, mainConfig, converterOpts...))
	}

	// =========================================================================
	// STEP 2: RUN JOBS IN ORDER
	// =========================================================================

	summary := utils.NewProcessingSummary()
	results, runErr := converter.RunAll(ctx, converters)
	summary.EndTime = time.Now()

	for _, result := range results {
		summary.Add(result.Summary())
		printResult(out, result)
	}

	// =========================================================================
	// STEP 3: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total jobs:      %d\n", len(jobs))
	fmt.Fprintf(out, "Converted:       %d\n", summary.Count(utils.StatusConverted))
	if opts.DryRun {
		fmt.Fprintf(out, "Dry run:         %d\n", summary.Count(utils.StatusDryRun))
	}
	fmt.Fprintf(out, "Skipped:         %d\n", summary.Count(utils.StatusSkipped))
	fmt.Fprintf(out, "Errors:          %d\n", summary.Count(utils.StatusFailed))
	if notRun := len(jobs) - len(results); notRun > 0 {
		fmt.Fprintf(out, "Not run:         %d\n", notRun)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if mainConfig.SummaryDir != "" {
		summaryPath, err := utils.WriteSummaryLog(summary, mainConfig.SummaryDir)
		if err != nil {
			logger.Warn("failed to write summary file", "error", err.Error())
		} else {
			fmt.Fprintf(out, "Summary written to %s\n", summaryPath)
		}
	}

	return runErr
}

// printResult prints one line per job outcome.
func printResult(out io.Writer, result converter.Result) {
	switch result.Status() {
	case utils.StatusConverted:
		fmt.Fprintf(out, "  ✓ %s: %s -> %s (%d rows x %d columns, %s%s)\n",
			result.Job, filepath.Base(result.FilePath), result.OutputFile,
			result.Stats.Rows, result.Stats.Columns, result.Stats.Tier, delimiterNote(result.Stats))
	case utils.StatusDryRun:
		fmt.Fprintf(out, "  ~ %s: %s (%d rows x %d columns, %s%s, not written)\n",
			result.Job, filepath.Base(result.FilePath),
			result.Stats.Rows, result.Stats.Columns, result.Stats.Tier, delimiterNote(result.Stats))
	case utils.StatusSkipped:
		fmt.Fprintf(out, "  - %s: skipped, %s\n", result.Job, result.Reason)
	default:
		fmt.Fprintf(out, "  ✗ %s: %v\n", result.Job, result.Error)
	}
}

func delimiterNote(stats converter.ProcessingStats) string {
	if stats.Tier != types.TierDelimited {
		return ""
	}
	return ", delimiter " + types.DelimiterName(stats.Delimiter)
}
