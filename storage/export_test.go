package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExportCSV(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := ExportCSV("a,b\n1,2\n")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Base(path) != "export.csv" {
		t.Errorf("Expected export.csv, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read back failed: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("Exported content mismatch: %q", data)
	}
}

func TestExportCSVDoesNotOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first, err := ExportCSV("first")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	second, err := ExportCSV("second")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if first == second {
		t.Fatalf("Second export reused %s", first)
	}
	if filepath.Base(second) != "export-1.csv" {
		t.Errorf("Expected export-1.csv, got %s", second)
	}

	data, _ := os.ReadFile(first)
	if string(data) != "first" {
		t.Errorf("First export was overwritten: %q", data)
	}
}
