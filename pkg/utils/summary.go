package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// Job outcomes recorded in a summary.
const (
	StatusConverted = "converted"
	StatusDryRun    = "dry-run"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Jobs      []JobSummary
}

// JobSummary describes the outcome of one job.
type JobSummary struct {
	Name        string
	Status      string
	InputFile   string
	OutputFile  string
	Tier        string
	Rows        int
	Columns     int
	Message     string
	ProcessTime time.Duration
}

// NewProcessingSummary starts a summary with a fresh run ID.
func NewProcessingSummary() *ProcessingSummary {
	return &ProcessingSummary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
}

// Add records a job outcome.
func (s *ProcessingSummary) Add(job JobSummary) {
	s.Jobs = append(s.Jobs, job)
}

// Count returns the number of jobs with the given status.
func (s *ProcessingSummary) Count(status string) int {
	n := 0
	for _, job := range s.Jobs {
		if job.Status == status {
			n++
		}
	}
	return n
}

// WriteSummaryLog writes a processing summary to a text file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary *ProcessingSummary, outputDir string) (string, error) {
	if err := EnsureDirectory(outputDir); err != nil {
		return "", err
	}

	end := summary.EndTime
	if end.IsZero() {
		end = time.Now()
	}

	summaryFileName := fmt.Sprintf("processing_summary_%s.txt", summary.StartTime.Format("20060102_150405"))
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "TXT to XLSX Converter - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Jobs:     %d\n"+
		"  Converted:      %d\n"+
		"  Dry Run:        %d\n"+
		"  Skipped:        %d\n"+
		"  Failed:         %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		end.Format("2006-01-02 15:04:05"),
		end.Sub(summary.StartTime).String(),
		len(summary.Jobs),
		summary.Count(StatusConverted),
		summary.Count(StatusDryRun),
		summary.Count(StatusSkipped),
		summary.Count(StatusFailed))

	if len(summary.Jobs) > 0 {
		writer.WriteString("Jobs:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, job := range summary.Jobs {
			fmt.Fprintf(writer, "  Job:          %s\n", job.Name)
			fmt.Fprintf(writer, "  Status:       %s\n", job.Status)
			if job.InputFile != "" {
				fmt.Fprintf(writer, "  Input:        %s\n", job.InputFile)
			}
			if job.OutputFile != "" {
				fmt.Fprintf(writer, "  Output:       %s\n", job.OutputFile)
			}
			if job.Tier != "" {
				fmt.Fprintf(writer, "  Parse Tier:   %s\n", job.Tier)
				fmt.Fprintf(writer, "  Rows:         %d\n", job.Rows)
				fmt.Fprintf(writer, "  Columns:      %d\n", job.Columns)
			}
			if job.Message != "" {
				fmt.Fprintf(writer, "  Message:      %s\n", job.Message)
			}
			fmt.Fprintf(writer, "  Process Time: %s\n\n", job.ProcessTime.String())
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
