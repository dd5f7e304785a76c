package maincmd_test

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/internal/filetest"
	"github.com/mna/curlylang/internal/maincmd"
)

var testUpdateRunTests = flag.Bool("test.update-run-tests", false, "If set, replace expected run test results with actual results.")

// TestRunFiles drives the full lexer-parser-checker-compiler-machine
// pipeline through maincmd.RunFiles for each source file in testdata/in,
// the same golden-file shape the teacher uses for its parser tests.
func TestRunFiles(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".curly") {
		t.Run(fi.Name(), func(t *testing.T) {
			var out, errs bytes.Buffer
			stdio := mainer.Stdio{Stdout: &out, Stderr: &errs}

			_ = maincmd.RunFiles(stdio, filepath.Join(srcDir, fi.Name()))

			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateRunTests)
			filetest.DiffErrors(t, fi, errs.String(), resultDir, testUpdateRunTests)
		})
	}
}
