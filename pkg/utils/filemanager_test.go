package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T, archiveOnSuccess bool) *FileManager {
	t.Helper()
	dir := t.TempDir()
	fm := NewFileManager(
		filepath.Join(dir, "input"),
		filepath.Join(dir, "output"),
		filepath.Join(dir, "archive"),
		archiveOnSuccess,
	)
	if err := fm.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return fm
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t, true)

	for _, name := range []string{"b.nai", "a.NAI", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(fm.InputDir, name), []byte("01"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(fm.InputDir, "sub.nai"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := fm.DiscoverInputFiles(".nai")
	if err != nil {
		t.Fatalf("DiscoverInputFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2 (case-insensitive, no dirs): %v", len(files), files)
	}
	// Name order.
	if filepath.Base(files[0]) != "a.NAI" || filepath.Base(files[1]) != "b.nai" {
		t.Errorf("order = %v", files)
	}
}

func TestArchiveInputFile(t *testing.T) {
	fm := newTestManager(t, true)

	src := filepath.Join(fm.InputDir, "done.nai")
	if err := os.WriteFile(src, []byte("01,BANK"), 0644); err != nil {
		t.Fatal(err)
	}

	archived, err := fm.ArchiveInputFile(src)
	if err != nil {
		t.Fatalf("ArchiveInputFile: %v", err)
	}
	if archived != filepath.Join(fm.InputArchiveDir, "done.nai") {
		t.Errorf("archived path = %s", archived)
	}
	if FileExists(src) {
		t.Error("source file still present after archival")
	}
	if !FileExists(archived) {
		t.Error("archived file missing")
	}
}

func TestArchiveDisabled(t *testing.T) {
	fm := newTestManager(t, false)

	src := filepath.Join(fm.InputDir, "keep.nai")
	if err := os.WriteFile(src, []byte("01"), 0644); err != nil {
		t.Fatal(err)
	}

	archived, err := fm.ArchiveInputFile(src)
	if err != nil {
		t.Fatalf("ArchiveInputFile: %v", err)
	}
	if archived != src {
		t.Errorf("archived path = %s, want source path", archived)
	}
	if !FileExists(src) {
		t.Error("file moved despite archival being disabled")
	}
}

func TestWriteSummaryLog(t *testing.T) {
	fm := newTestManager(t, true)

	summary := ProcessingSummary{
		RunID:           "abc123",
		StartTime:       time.Now().Add(-time.Second),
		EndTime:         time.Now(),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalGroups:     1,
		TotalAccounts:   2,
		FailedChecks:    1,
		ProcessedFiles: []ProcessedFileInfo{
			{InputFile: "good.nai", Groups: 1, Accounts: 2, FailedChecks: 1},
		},
		FailedFilesList: []FailedFileInfo{
			{InputFile: "bad.nai", ErrorMessage: "structural error: input contains no file header record"},
		},
	}

	path, err := WriteSummaryLog(summary, fm.OutputDir)
	if err != nil {
		t.Fatalf("WriteSummaryLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"abc123", "good.nai", "bad.nai", "no file header", "Failed Checks:      1"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
