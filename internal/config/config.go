// =============================================================================
// TXT to XLSX Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing configuration. It
// handles the main application configuration and optional per-job files.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global settings and inline jobs
//   2. Job Configs (jobs_dir/*.yaml): One job per file, appended to the
//      inline jobs
//
// EXAMPLE:
//   jobs:
//     - name: INVENTORY
//       source_dir: '\\sasan02\prd\SBU\INVENTORY'
//       dest_dir: '\\sasan02\prd\SBU\FINAL'
//       dest_file: FINAL_INVENTORY.xlsx
//   log_level: info
//   summary_dir: ./logs
//
// When no config file exists and none was requested explicitly, the built-in
// INVENTORY and OPENPO jobs are used.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/logging"
	"gopkg.in/yaml.v3"
)

// Built-in locations of the two standard jobs.
const (
	DefaultRootDir  = `\\sasan02\prd\SBU`
	DefaultFinalDir = `\\sasan02\prd\SBU\FINAL`
)

// maxSheetNameLength is the longest sheet name a workbook accepts.
const maxSheetNameLength = 31

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// JOB SETTINGS
	// =========================================================================

	// Jobs lists the source directory to destination file pairs, processed
	// in order.
	Jobs []JobConfig `yaml:"jobs"`

	// JobsDir optionally holds one YAML file per job. Those jobs are
	// appended to Jobs in file name order.
	JobsDir string `yaml:"jobs_dir"`

	// =========================================================================
	// INPUT / OUTPUT SETTINGS
	// =========================================================================

	// FileExtension marks candidate input files (case-insensitive).
	// Default: ".txt"
	FileExtension string `yaml:"file_extension"`

	// SheetName is the name of the single worksheet in each output file.
	// Default: "Sheet1"
	SheetName string `yaml:"sheet_name"`

	// InferTypes converts numeric-looking columns to numbers.
	// Default: true
	InferTypes *bool `yaml:"infer_types"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel sets the minimum log level.
	// Options: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log output format.
	// Options: "console", "json", "pretty"
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// LogSource adds the caller location to each log entry.
	// Default: false
	LogSource bool `yaml:"log_source"`

	// SummaryDir is where processing summary files are written.
	// Empty disables the summary file.
	SummaryDir string `yaml:"summary_dir"`
}

// JobConfig describes one conversion job.
type JobConfig struct {
	// Name identifies the job on the command line and in logs.
	Name string `yaml:"name"`

	// SourceDir is scanned for the newest input file.
	SourceDir string `yaml:"source_dir"`

	// DestDir is created if missing.
	DestDir string `yaml:"dest_dir"`

	// DestFile is the output file name. An existing file is overwritten.
	DestFile string `yaml:"dest_file"`
}

// DestPath returns the full path of the job's output file.
func (j JobConfig) DestPath() string {
	return filepath.Join(j.DestDir, j.DestFile)
}

// InferTypesEnabled reports whether numeric columns should be converted.
func (c *MainConfig) InferTypesEnabled() bool {
	return c.InferTypes == nil || *c.InferTypes
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultJobs returns the standard INVENTORY and OPENPO jobs.
func DefaultJobs() []JobConfig {
	return []JobConfig{
		{
			Name:      "INVENTORY",
			SourceDir: DefaultRootDir + `\INVENTORY`,
			DestDir:   DefaultFinalDir,
			DestFile:  "FINAL_INVENTORY.xlsx",
		},
		{
			Name:      "OPENPO",
			SourceDir: DefaultRootDir + `\OPENPO`,
			DestDir:   DefaultFinalDir,
			DestFile:  "FINAL_OPENPO.xlsx",
		},
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *MainConfig {
	config := &MainConfig{Jobs: DefaultJobs()}
	applyMainConfigDefaults(config)
	return config
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main config.yaml file.
//
// RETURNS:
//   - A pointer to the loaded MainConfig.
//   - An error if the file cannot be read, parsed, or fails validation.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.JobsDir != "" {
		jobsDir := config.JobsDir
		if !filepath.IsAbs(jobsDir) {
			jobsDir = filepath.Join(filepath.Dir(configPath), jobsDir)
		}
		jobs, err := LoadJobConfigs(jobsDir)
		if err != nil {
			return nil, err
		}
		config.Jobs = append(config.Jobs, jobs...)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Load loads configPath. When the file does not exist and the path was not
// given explicitly, the built-in configuration is returned instead.
func Load(configPath string, explicit bool) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return config, err
}

// LoadJobConfigs loads every *.yaml and *.yml job file in jobsDir, sorted by
// file name.
func LoadJobConfigs(jobsDir string) ([]JobConfig, error) {
	files, err := filepath.Glob(filepath.Join(jobsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list job files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(jobsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list job files: %w", err)
	}
	files = append(files, ymlFiles...)
	sort.Strings(files)

	jobs := make([]JobConfig, 0, len(files))
	for _, file := range files {
		job, err := loadJobConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		jobs = append(jobs, *job)
	}

	return jobs, nil
}

// loadJobConfig loads a single job file. A missing name falls back to the
// file name without extension.
func loadJobConfig(filePath string) (*JobConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var job JobConfig
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	if job.Name == "" {
		base := filepath.Base(filePath)
		job.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &job, nil
}

// applyMainConfigDefaults sets default values for unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.FileExtension == "" {
		config.FileExtension = ".txt"
	}
	if !strings.HasPrefix(config.FileExtension, ".") {
		config.FileExtension = "." + config.FileExtension
	}
	if config.SheetName == "" {
		config.SheetName = "Sheet1"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}

	for i := range config.Jobs {
		job := &config.Jobs[i]
		job.Name = strings.TrimSpace(job.Name)
		if job.DestFile == "" && job.Name != "" {
			job.DestFile = "FINAL_" + job.Name + ".xlsx"
		}
	}
}

// validateMainConfig validates the main configuration.
//
// VALIDATION RULES:
//   - At least one job is defined
//   - Job names are non-empty and unique (case-insensitive)
//   - Every job has a source and destination directory
//   - Destination files end in .xlsx
//   - Sheet name, log level and log format are usable
func validateMainConfig(config *MainConfig) error {
	if len(config.Jobs) == 0 {
		return fmt.Errorf("no jobs configured")
	}

	seen := make(map[string]bool, len(config.Jobs))
	for i, job := range config.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job %d has no name", i+1)
		}
		key := strings.ToLower(job.Name)
		if seen[key] {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[key] = true

		if job.SourceDir == "" {
			return fmt.Errorf("job %s has no source_dir", job.Name)
		}
		if job.DestDir == "" {
			return fmt.Errorf("job %s has no dest_dir", job.Name)
		}
		if !strings.EqualFold(filepath.Ext(job.DestFile), ".xlsx") {
			return fmt.Errorf("job %s: dest_file %q must end in .xlsx", job.Name, job.DestFile)
		}
		if filepath.Base(job.DestFile) != job.DestFile {
			return fmt.Errorf("job %s: dest_file %q must be a file name, not a path", job.Name, job.DestFile)
		}
	}

	if len(config.SheetName) > maxSheetNameLength {
		return fmt.Errorf("sheet_name %q is longer than %d characters", config.SheetName, maxSheetNameLength)
	}
	if strings.ContainsAny(config.SheetName, `:\/?*[]`) {
		return fmt.Errorf("sheet_name %q contains a character not allowed in sheet names", config.SheetName)
	}

	if !logging.ValidLevel(config.LogLevel) {
		return fmt.Errorf("unsupported log_level %q", config.LogLevel)
	}
	if !logging.ValidFormat(config.LogFormat) {
		return fmt.Errorf("unsupported log_format %q", config.LogFormat)
	}

	return nil
}

// =============================================================================
// JOB LOOKUP
// =============================================================================

// FindJob returns the job with the given name (case-insensitive).
func (c *MainConfig) FindJob(name string) (*JobConfig, bool) {
	for i := range c.Jobs {
		if strings.EqualFold(c.Jobs[i].Name, strings.TrimSpace(name)) {
			return &c.Jobs[i], true
		}
	}
	return nil, false
}

// SelectJobs returns the jobs named in names, in configuration order.
// An empty names list selects every job.
func (c *MainConfig) SelectJobs(names []string) ([]JobConfig, error) {
	if len(names) == 0 {
		return c.Jobs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		job, ok := c.FindJob(name)
		if !ok {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		wanted[strings.ToLower(job.Name)] = true
	}

	selected := make([]JobConfig, 0, len(wanted))
	for _, job := range c.Jobs {
		if wanted[strings.ToLower(job.Name)] {
			selected = append(selected, job)
		}
	}
	return selected, nil
}
