// Package testutil provides golden file testing utilities.
package testutil

import (
	"flag"
	"os"
	"testing"

	"github.com/lepinkainen/postboard/pkg/filesystem"
)

var update = flag.Bool("update", false, "update golden files")

// CompareGolden compares rendered output with the golden file at goldenPath.
// With -update the golden file is rewritten instead.
func CompareGolden(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	if *update {
		if err := filesystem.WriteOutput(goldenPath, []byte(actual)); err != nil {
			t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	content, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Failed to read golden file %s (run with -update to create it): %v", goldenPath, err)
	}

	if expected := string(content); actual != expected {
		t.Errorf("Golden file mismatch for %s\nExpected:\n%s\nActual:\n%s", goldenPath, expected, actual)
	}
}
