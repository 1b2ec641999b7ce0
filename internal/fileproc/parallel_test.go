package fileproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/panbanda/mehen/pkg/parser"
)

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestMapFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		createTestFile(t, tmpDir, "file1.go", "package main\nfunc main() {}"),
		createTestFile(t, tmpDir, "file2.go", "package main\nfunc test() {}"),
		createTestFile(t, tmpDir, "file3.go", "package main\nfunc validate() {}"),
	}

	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		return filepath.Base(path), nil
	}, Options{})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}

	want := []string{"file1.go", "file2.go", "file3.go"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %s, want %s (input order must be kept)", i, results[i], want[i])
		}
	}
}

func TestMapFiles_EmptyFileList(t *testing.T) {
	results, errs := MapFiles(context.Background(), []string{}, func(p *parser.Parser, path string) (string, error) {
		return path, nil
	}, Options{})

	if results != nil {
		t.Errorf("Expected nil for empty file list, got %v", results)
	}
	if errs != nil {
		t.Errorf("Expected nil errors for empty file list, got %v", errs)
	}
}

func TestMapFiles_WithErrors(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		createTestFile(t, tmpDir, "good1.go", "package main"),
		createTestFile(t, tmpDir, "bad.go", "package main"),
		createTestFile(t, tmpDir, "good2.go", "package main"),
	}

	var reported atomic.Int32
	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		if filepath.Base(path) == "bad.go" {
			return "", fmt.Errorf("simulated error")
		}
		return filepath.Base(path), nil
	}, Options{OnError: func(string, error) { reported.Add(1) }})

	if len(results) != 2 {
		t.Errorf("Expected 2 successful results, got %d", len(results))
	}
	if errs == nil {
		t.Fatal("Expected errors to be returned")
	}
	if len(errs.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs.Errors))
	}
	if reported.Load() != 1 {
		t.Errorf("OnError called %d times, want 1", reported.Load())
	}
}

func TestMapFiles_Skip(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "a.py", "x = 1\n"),
		createTestFile(t, tmpDir, "b.py", "y = 2\n"),
	}

	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		if filepath.Base(path) == "a.py" {
			return "", Skip
		}
		return path, nil
	}, Options{})

	if errs != nil {
		t.Errorf("Skip should not be reported as an error: %v", errs)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestMapFiles_ParserAvailable(t *testing.T) {
	tmpDir := t.TempDir()
	file := createTestFile(t, tmpDir, "test.go", "package main\nfunc main() {}")

	results, errs := MapFiles(context.Background(), []string{file}, func(p *parser.Parser, path string) (bool, error) {
		result, err := p.ParseFile(path)
		if err != nil {
			return false, err
		}
		defer result.Close()
		return result.Tree != nil, nil
	}, Options{})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}
	if len(results) != 1 || !results[0] {
		t.Error("Parser should have successfully parsed the file")
	}
}

func TestMapFiles_WithProgress(t *testing.T) {
	tmpDir := t.TempDir()

	var files []string
	for i := 0; i < 5; i++ {
		files = append(files, createTestFile(t, tmpDir, fmt.Sprintf("file%d.go", i), "package main"))
	}

	var progress atomic.Int32
	results, _ := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (int, error) {
		return 1, nil
	}, Options{Workers: 2, OnProgress: func(string) { progress.Add(1) }})

	if len(results) != len(files) {
		t.Errorf("Expected %d results, got %d", len(files), len(results))
	}
	if int(progress.Load()) != len(files) {
		t.Errorf("Expected progress callback %d times, got %d", len(files), progress.Load())
	}
}

func TestMapFiles_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "a.go", "package a"),
		createTestFile(t, tmpDir, "b.go", "package b"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, errs := MapFiles(ctx, files, func(p *parser.Parser, path string) (int, error) {
		return 1, nil
	}, Options{})

	if len(results) != 0 {
		t.Errorf("Expected no results after cancellation, got %d", len(results))
	}
	if errs == nil || !errors.Is(errs.Errors[0], context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", errs)
	}
}

func TestProcessingErrors(t *testing.T) {
	errs := &ProcessingErrors{}
	if errs.HasErrors() {
		t.Error("new collection should be empty")
	}
	if errs.Error() != "no errors" {
		t.Errorf("Error() = %q", errs.Error())
	}

	errs.Add("a.go", errors.New("boom"))
	if errs.Error() != "a.go: boom" {
		t.Errorf("Error() = %q", errs.Error())
	}

	errs.Add("b.go", errors.New("bang"))
	if got := errs.Error(); got != "2 files failed to process (first: a.go: boom)" {
		t.Errorf("Error() = %q", got)
	}

	var nilErrs *ProcessingErrors
	if nilErrs.HasErrors() {
		t.Error("nil collection has no errors")
	}
}
