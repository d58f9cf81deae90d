// =============================================================================
// TXT to XLSX Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'process', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (converter)          runs every job, same as 'converter process'
//   ├── processCmd (converter process)
//   ├── validateCmd (converter validate)
//   └── versionCmd (converter version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration, falling back to the built-in jobs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "converter",
	Short: "TXT to XLSX Converter - Turn the newest report export into a workbook",
	Long: `TXT to XLSX Converter picks the most recently created .txt file in each
configured source directory, parses it into a table, and writes it as a
single-sheet .xlsx workbook at a fixed destination.

Parsing is attempted in tiers:
  1. Delimited (comma, tab, semicolon, pipe or colon, detected automatically)
  2. Whitespace separated columns
  3. One "RawText" column holding each trimmed line

Control characters that Excel cannot store are removed before writing.

Example Usage:
  converter                             # Run every configured job
  converter process --job INVENTORY     # Run a single job
  converter process --dry-run           # Parse without writing
  converter validate                    # Check configuration and sources`,

	// With no subcommand, run every job.
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runProcess(cmd, processOptions{})
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the run between steps.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Execute prints the error itself.
	rootCmd.SilenceErrors = true

	// --config flag: Allows the user to specify a custom configuration file.
	// A missing default config.yaml falls back to the built-in jobs.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads the configuration named by --config. The built-in jobs
// are used when the default file does not exist.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	explicit := cmd.Flags().Changed("config")
	mainConfig, err := config.Load(cfgFile, explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}
	return mainConfig, nil
}

// newLogger builds the application logger from the configuration.
// --verbose forces the debug level.
func newLogger(mainConfig *config.MainConfig, debug bool) (logging.Logger, error) {
	level := mainConfig.LogLevel
	if debug {
		level = "debug"
	}

	provider, err := logging.NewProvider(logging.Config{
		Level:     level,
		Format:    mainConfig.LogFormat,
		AddSource: mainConfig.LogSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return provider.GetLogger("converter"), nil
}
