package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/config"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/logging"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/pkg/utils"
)

// testConfig returns a configuration with INVENTORY and OPENPO jobs rooted in
// a temp directory. Only the INVENTORY source directory is created.
func testConfig(t *testing.T) (*config.MainConfig, string) {
	t.Helper()
	root := t.TempDir()
	mainConfig := config.DefaultConfig()
	mainConfig.Jobs = []config.JobConfig{
		{
			Name:      "INVENTORY",
			SourceDir: filepath.Join(root, "INVENTORY"),
			DestDir:   filepath.Join(root, "FINAL"),
			DestFile:  "FINAL_INVENTORY.xlsx",
		},
		{
			Name:      "OPENPO",
			SourceDir: filepath.Join(root, "OPENPO"),
			DestDir:   filepath.Join(root, "FINAL"),
			DestFile:  "FINAL_OPENPO.xlsx",
		},
	}
	if err := os.MkdirAll(mainConfig.Jobs[0].SourceDir, 0755); err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	return mainConfig, root
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestProcessJobsConvertsAndSkips(t *testing.T) {
	mainConfig, root := testConfig(t)
	writeInput(t, mainConfig.Jobs[0].SourceDir, "inv.txt", "Item\tQty\nbolt\t4\n")
	mainConfig.SummaryDir = filepath.Join(root, "logs")

	var out bytes.Buffer
	err := processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{})
	if err != nil {
		t.Fatalf("processJobs failed: %v", err)
	}

	if !utils.FileExists(mainConfig.Jobs[0].DestPath()) {
		t.Error("Expected INVENTORY workbook")
	}
	if utils.FileExists(mainConfig.Jobs[1].DestPath()) {
		t.Error("Expected no OPENPO workbook")
	}

	text := out.String()
	for _, want := range []string{
		"✓ INVENTORY",
		"delimiter tab",
		"- OPENPO: skipped",
		"Converted:       1",
		"Skipped:         1",
		"Summary written to",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}

	entries, err := os.ReadDir(mainConfig.SummaryDir)
	if err != nil || len(entries) != 1 {
		t.Errorf("Expected one summary file, got %v (%v)", entries, err)
	}
}

func TestProcessJobsDryRun(t *testing.T) {
	mainConfig, _ := testConfig(t)
	writeInput(t, mainConfig.Jobs[0].SourceDir, "inv.txt", "a,b\n1,2\n")

	var out bytes.Buffer
	err := processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{DryRun: true})
	if err != nil {
		t.Fatalf("processJobs failed: %v", err)
	}
	if utils.DirExists(mainConfig.Jobs[0].DestDir) {
		t.Error("Expected nothing to be written during a dry run")
	}
	if !strings.Contains(out.String(), "not written") {
		t.Errorf("Expected dry-run line in output:\n%s", out.String())
	}
}

func TestProcessJobsFilter(t *testing.T) {
	mainConfig, _ := testConfig(t)
	writeInput(t, mainConfig.Jobs[0].SourceDir, "inv.txt", "a,b\n1,2\n")

	var out bytes.Buffer
	err := processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{Jobs: []string{"openpo"}})
	if err != nil {
		t.Fatalf("processJobs failed: %v", err)
	}
	if utils.FileExists(mainConfig.Jobs[0].DestPath()) {
		t.Error("Expected INVENTORY not to run")
	}
	if !strings.Contains(out.String(), "Running 1 job(s)") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}

	if err := processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{Jobs: []string{"payroll"}}); err == nil {
		t.Error("Expected error for unknown job")
	}
}

func TestProcessJobsFileOverride(t *testing.T) {
	mainConfig, root := testConfig(t)
	manual := writeInput(t, root, "manual.txt", "x y\n1 2\n")

	var out bytes.Buffer
	err := processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{File: manual})
	if err == nil || !strings.Contains(err.Error(), "exactly one --job") {
		t.Fatalf("Expected --file without --job to fail, got %v", err)
	}

	err = processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{
		Jobs: []string{"OPENPO"},
		File: manual,
	})
	if err != nil {
		t.Fatalf("processJobs failed: %v", err)
	}
	if !utils.FileExists(mainConfig.Jobs[1].DestPath()) {
		t.Error("Expected OPENPO workbook from the override file")
	}
}

func TestProcessJobsStopsOnWriteFailure(t *testing.T) {
	mainConfig, root := testConfig(t)
	writeInput(t, mainConfig.Jobs[0].SourceDir, "inv.txt", "a,b\n1,2\n")

	blocker := writeInput(t, root, "blocker", "x")
	mainConfig.Jobs[0].DestDir = filepath.Join(blocker, "FINAL")

	var out bytes.Buffer
	err := processJobs(context.Background(), &out, mainConfig, logging.Nop(), processOptions{})
	if err == nil {
		t.Fatal("Expected error when the destination cannot be written")
	}

	text := out.String()
	if !strings.Contains(text, "✗ INVENTORY") || !strings.Contains(text, "Not run:         1") {
		t.Errorf("Unexpected output:\n%s", text)
	}
}

func TestValidateJobs(t *testing.T) {
	mainConfig, _ := testConfig(t)
	writeInput(t, mainConfig.Jobs[0].SourceDir, "inv.txt", "a,b\n")
	writeInput(t, mainConfig.Jobs[0].SourceDir, "skip.csv", "a,b\n")

	var out bytes.Buffer
	if err := validateJobs(&out, mainConfig); err != nil {
		t.Fatalf("validateJobs failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"[INVENTORY]",
		"Input files:   1",
		"Newest:        inv.txt",
		"[OPENPO]",
		"source directory not found",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}
	if utils.DirExists(mainConfig.Jobs[0].DestDir) {
		t.Error("Expected validate to write nothing")
	}
}
