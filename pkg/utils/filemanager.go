// =============================================================================
// TXT to XLSX Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - Source file discovery
//   - Latest-file selection by creation timestamp
//   - Directory management
//   - Processing summary generation
//
// SELECTION STRATEGY:
//   Only regular files whose name ends with the configured extension (".txt"
//   by default, case-insensitive) are candidates. The candidate with the
//   greatest creation timestamp wins. Ties keep directory listing order, so
//   the lexically first name among the newest files is selected.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoFiles is returned when a source directory holds no candidate files.
var ErrNoFiles = errors.New("no matching files found")

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles source file discovery for one job.
type FileManager struct {
	// SourceDir is the directory scanned for input files.
	SourceDir string

	// Extension is the file name suffix that marks a candidate, e.g. ".txt".
	Extension string

	// CreatedAt returns the timestamp used to order candidates.
	// Default: FileCreationTime.
	CreatedAt func(path string) (time.Time, error)
}

// Candidate is a discovered input file with its creation timestamp.
type Candidate struct {
	Path      string
	CreatedAt time.Time
}

// NewFileManager creates a FileManager for the given directory and extension.
func NewFileManager(sourceDir, extension string) *FileManager {
	if extension == "" {
		extension = ".txt"
	}
	return &FileManager{
		SourceDir: sourceDir,
		Extension: extension,
		CreatedAt: FileCreationTime,
	}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the candidate files in the source directory in
// directory listing order.
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	extension := strings.ToLower(fm.Extension)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), extension) {
			continue
		}
		path := filepath.Join(fm.SourceDir, entry.Name())

		// Follow symlinks and drop anything that is not a regular file.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	return files, nil
}

// Candidates returns every candidate file with its creation timestamp,
// newest first. Files with equal timestamps keep listing order.
func (fm *FileManager) Candidates() ([]Candidate, error) {
	files, err := fm.DiscoverInputFiles()
	if err != nil {
		return nil, err
	}

	createdAt := fm.CreatedAt
	if createdAt == nil {
		createdAt = FileCreationTime
	}

	candidates := make([]Candidate, 0, len(files))
	for _, file := range files {
		created, err := createdAt(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read timestamp of %s: %w", filepath.Base(file), err)
		}
		candidates = append(candidates, Candidate{Path: file, CreatedAt: created})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates, nil
}

// LatestFile returns the candidate with the greatest creation timestamp.
//
// RETURNS:
//   - The selected candidate.
//   - ErrNoFiles if the directory holds no candidates, or the scan error.
func (fm *FileManager) LatestFile() (Candidate, error) {
	candidates, err := fm.Candidates()
	if err != nil {
		return Candidate{}, err
	}
	if len(candidates) == 0 {
		return Candidate{}, fmt.Errorf("%w in %s", ErrNoFiles, fm.SourceDir)
	}
	return candidates[0], nil
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// FileCreationTime returns the platform creation timestamp of a file.
// See creationTime for the per-platform source.
func FileCreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return creationTime(info), nil
}

// FileModTime returns the modification time of a file.
func FileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectory creates a directory and its parents if they don't exist.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
