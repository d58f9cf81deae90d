// =============================================================================
// TXT to XLSX Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the whole
// pipeline for a single job, from picking the input file to writing the
// workbook.
//
// CONVERSION PIPELINE:
//   1. Select the newest input file in the job's source directory
//   2. Parse it with the tiered parser (delimited, whitespace, raw lines)
//   3. Remove illegal control characters from every text value
//   4. Write the workbook, replacing any previous output
//
// SKIPPING:
//   A missing source directory or one without input files is not an error.
//   The job is reported as skipped and nothing is written.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/sanitizer"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/txtparser"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/types"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/xlsxwriter"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of running a single job.
type Result struct {
	// Job is the name of the job that was run.
	Job string

	// FilePath is the path to the input file that was processed.
	// This is empty if the job was skipped before a file was selected.
	FilePath string

	// OutputFile is the path to the generated workbook.
	// This is empty if the job was skipped, failed, or was a dry run.
	OutputFile string

	// Success indicates whether the job completed without error.
	// Skipped jobs are successful.
	Success bool

	// Skipped indicates that no input was available.
	Skipped bool

	// DryRun indicates that the file was parsed but nothing was written.
	DryRun bool

	// Reason explains why the job was skipped.
	Reason string

	// Error contains the error if processing failed.
	// This is nil if processing was successful.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Tier is the parsing strategy that produced the table.
	Tier types.Tier

	// Delimiter is the detected delimiter for delimited input.
	Delimiter rune

	// Rows is the number of data rows written (excluding the header).
	Rows int

	// Columns is the number of columns written.
	Columns int

	// SkippedLines is the number of malformed lines dropped while parsing.
	SkippedLines int

	// TierFailures is the number of tiers abandoned before one succeeded.
	TierFailures int

	// SanitizedCells is the number of text values that lost control characters.
	SanitizedCells int

	// ProcessingTime is the time taken to run the job.
	ProcessingTime time.Duration
}

// Status returns the summary status of the result.
func (r Result) Status() string {
	switch {
	case !r.Success:
		return utils.StatusFailed
	case r.Skipped:
		return utils.StatusSkipped
	case r.DryRun:
		return utils.StatusDryRun
	default:
		return utils.StatusConverted
	}
}

// Summary converts the result into a processing summary entry.
func (r Result) Summary() utils.JobSummary {
	summary := utils.JobSummary{
		Name:        r.Job,
		Status:      r.Status(),
		InputFile:   r.FilePath,
		OutputFile:  r.OutputFile,
		Message:     r.Reason,
		ProcessTime: r.Stats.ProcessingTime,
	}
	if r.Stats.Tier != types.TierNone {
		summary.Tier = r.Stats.Tier.String()
		summary.Rows = r.Stats.Rows
		summary.Columns = r.Stats.Columns
	}
	if r.Error != nil {
		summary.Message = r.Error.Error()
	}
	return summary
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the conversion pipeline for one job.
type Converter struct {
	// job is the source directory and destination file pair.
	job config.JobConfig

	// files selects the newest input file in the source directory.
	files *utils.FileManager

	// parseOptions configures the tiered parser.
	parseOptions txtparser.Options

	// writeOptions configures the workbook writer.
	writeOptions xlsxwriter.WriteOptions

	// inputFile, when set, is processed instead of the newest file.
	inputFile string

	// dryRun parses without writing.
	dryRun bool

	logger Logger
}

// Logger is an interface for logging. Arguments are key/value pairs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger used by the converter and its parser.
func WithLogger(logger Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDryRun parses the input without writing the workbook.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) { c.dryRun = dryRun }
}

// WithInputFile processes path instead of selecting the newest file.
func WithInputFile(path string) Option {
	return func(c *Converter) { c.inputFile = path }
}

// WithFileManager replaces the input file selector.
func WithFileManager(fm *utils.FileManager) Option {
	return func(c *Converter) {
		if fm != nil {
			c.files = fm
		}
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - job: The job to run.
//   - mainConfig: The main application configuration.
//   - opts: Optional overrides.
//
// RETURNS:
//   - A new Converter instance.
func New(job config.JobConfig, mainConfig *config.MainConfig, opts ...Option) *Converter {
	if mainConfig == nil {
		mainConfig = config.DefaultConfig()
	}

	parseOptions := txtparser.DefaultOptions()
	parseOptions.InferTypes = mainConfig.InferTypesEnabled()

	writeOptions := xlsxwriter.DefaultWriteOptions()
	writeOptions.SheetName = mainConfig.SheetName

	c := &Converter{
		job:          job,
		files:        utils.NewFileManager(job.SourceDir, mainConfig.FileExtension),
		parseOptions: parseOptions,
		writeOptions: writeOptions,
		logger:       nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the job.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
//
// The context is checked between steps. A cancelled run writes nothing new.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{Job: c.job.Name}

	// =========================================================================
	// STEP 1: SELECT INPUT FILE
	// =========================================================================

	inputFile, reason, err := c.selectInput()
	if err != nil {
		result.Error = err
		c.logger.Error("input selection failed", "job", c.job.Name, "error", err.Error())
		return c.finish(result, startTime)
	}
	if reason != "" {
		result.Success = true
		result.Skipped = true
		result.Reason = reason
		c.logger.Warn("job skipped", "job", c.job.Name, "reason", reason)
		return c.finish(result, startTime)
	}

	result.FilePath = inputFile
	c.logger.Info("processing file", "job", c.job.Name, "file", inputFile)

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("job cancelled: %w", err)
		return c.finish(result, startTime)
	}

	// =========================================================================
	// STEP 2: PARSE
	// =========================================================================

	parser := txtparser.New(c.parseOptions, c.logger)
	parsed, err := parser.Parse(inputFile)
	if err != nil {
		result.Error = fmt.Errorf("failed to parse %s: %w", filepath.Base(inputFile), err)
		c.logger.Error("parse failed", "job", c.job.Name, "error", err.Error())
		return c.finish(result, startTime)
	}

	table := parsed.Table
	result.Stats.Tier = table.Tier
	result.Stats.Delimiter = table.Delimiter
	result.Stats.SkippedLines = parsed.SkippedLines
	result.Stats.TierFailures = len(parsed.Failures)
	c.logger.Debug("parsed table", "job", c.job.Name, "tier", table.Tier.String(), "shape", table.String())

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("job cancelled: %w", err)
		return c.finish(result, startTime)
	}

	// =========================================================================
	// STEP 3: SANITIZE
	// =========================================================================

	clean, report := sanitizer.SanitizeWithReport(table)
	result.Stats.SanitizedCells = report.CellsChanged + report.ColumnsChanged
	result.Stats.Rows = clean.RowCount()
	result.Stats.Columns = clean.ColumnCount()
	if result.Stats.SanitizedCells > 0 {
		c.logger.Debug("removed control characters", "job", c.job.Name, "values", result.Stats.SanitizedCells)
	}

	if c.dryRun {
		result.Success = true
		result.DryRun = true
		c.logger.Info("dry run, not writing", "job", c.job.Name, "destination", c.job.DestPath())
		return c.finish(result, startTime)
	}

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("job cancelled: %w", err)
		return c.finish(result, startTime)
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT FILE
	// =========================================================================

	outputPath, err := xlsxwriter.WriteWithOptions(clean, c.job.DestDir, c.job.DestFile, c.writeOptions)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		c.logger.Error("write failed", "job", c.job.Name, "error", err.Error())
		return c.finish(result, startTime)
	}

	result.OutputFile = outputPath
	result.Success = true
	c.logger.Info("wrote output", "job", c.job.Name, "file", outputPath, "rows", result.Stats.Rows, "columns", result.Stats.Columns)

	return c.finish(result, startTime)
}

// finish stamps the processing time on the result.
func (c *Converter) finish(result Result, startTime time.Time) Result {
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// selectInput returns the file to process, or a non-empty skip reason when
// there is nothing to do.
func (c *Converter) selectInput() (string, string, error) {
	if c.inputFile != "" {
		info, err := os.Stat(c.inputFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to open input file: %w", err)
		}
		if info.IsDir() {
			return "", "", fmt.Errorf("input file %s is a directory", c.inputFile)
		}
		return c.inputFile, "", nil
	}

	if !utils.DirExists(c.files.SourceDir) {
		return "", fmt.Sprintf("source directory not found: %s", c.files.SourceDir), nil
	}

	latest, err := c.files.LatestFile()
	if errors.Is(err, utils.ErrNoFiles) {
		return "", err.Error(), nil
	}
	if err != nil {
		return "", "", err
	}
	return latest.Path, "", nil
}

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// RunAll runs the converters in order and stops at the first failure.
//
// RETURNS:
//   - The results of every job that ran, including the failed one.
//   - The error of the failed job, or nil.
func RunAll(ctx context.Context, converters []*Converter) ([]Result, error) {
	results := make([]Result, 0, len(converters))
	for _, c := range converters {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run cancelled: %w", err)
		}

		result := c.Run(ctx)
		results = append(results, result)
		if !result.Success {
			return results, fmt.Errorf("job %s failed: %w", result.Job, result.Error)
		}
	}
	return results, nil
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// nopLogger discards everything; callers supply a real logger with WithLogger.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
