// =============================================================================
// TXT to XLSX Converter - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   converter validate
//
// Loads the configuration and reports, per job, whether the source directory
// exists, how many input files it holds, and which one would be processed.
// Nothing is written.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/pkg/utils"
	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration and source directories without converting",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		mainConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return validateJobs(cmd.OutOrStdout(), mainConfig)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateJobs prints the state of every configured job. Missing sources
// are reported, not treated as errors; unreadable ones are.
func validateJobs(out io.Writer, mainConfig *config.MainConfig) error {
	fmt.Fprintln(out, "Configuration OK")
	fmt.Fprintf(out, "Jobs:            %d\n", len(mainConfig.Jobs))
	fmt.Fprintf(out, "File extension:  %s\n", mainConfig.FileExtension)
	fmt.Fprintf(out, "Sheet name:      %s\n", mainConfig.SheetName)

	var errs []error
	for _, job := range mainConfig.Jobs {
		fmt.Fprintf(out, "\n[%s]\n", job.Name)
		fmt.Fprintf(out, "  Source:        %s\n", job.SourceDir)
		fmt.Fprintf(out, "  Destination:   %s\n", job.DestPath())

		if !utils.DirExists(job.SourceDir) {
			fmt.Fprintln(out, "  Status:        source directory not found (job will be skipped)")
			continue
		}

		candidates, err := utils.NewFileManager(job.SourceDir, mainConfig.FileExtension).Candidates()
		if err != nil {
			fmt.Fprintf(out, "  Status:        %v\n", err)
			errs = append(errs, fmt.Errorf("job %s: %w", job.Name, err))
			continue
		}

		fmt.Fprintf(out, "  Input files:   %d\n", len(candidates))
		if len(candidates) == 0 {
			fmt.Fprintln(out, "  Status:        no input files (job will be skipped)")
			continue
		}
		latest := candidates[0]
		fmt.Fprintf(out, "  Newest:        %s (created %s)\n",
			filepath.Base(latest.Path), latest.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return errors.Join(errs...)
}
