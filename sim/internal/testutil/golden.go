// Package testutil provides shared test infrastructure for the vmsim simulator.
// It locates the golden input/output pairs under testdata/golden/ and compares
// multi-line simulator output.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// GoldenPath returns the absolute path of testdata/golden/name.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func GoldenPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden", name)
}

// ReadGolden loads testdata/golden/name.
func ReadGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(GoldenPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	return string(data)
}

// AssertLinesEqual compares want and got line by line and reports the first difference.
func AssertLinesEqual(t *testing.T, want, got string) {
	t.Helper()
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	n := len(wantLines)
	if len(gotLines) < n {
		n = len(gotLines)
	}
	for i := 0; i < n; i++ {
		if wantLines[i] != gotLines[i] {
			t.Errorf("line %d differs:\n  got:  %q\n  want: %q", i+1, gotLines[i], wantLines[i])
			return
		}
	}
	if len(wantLines) != len(gotLines) {
		t.Errorf("got %d lines, want %d", len(gotLines), len(wantLines))
	}
}
