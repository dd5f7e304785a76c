package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/lang/checker"
	"github.com/mna/curlylang/lang/parser"
	"github.com/mna/curlylang/lang/types"
)

func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CheckFiles(stdio, args...)
}

// CheckFiles parses and type-checks each file in turn against a shared
// Checker, so a later file may reference globals and type aliases an
// earlier one declared, printing "ok" for a clean file or its diagnostics
// otherwise.
func CheckFiles(stdio mainer.Stdio, files ...string) error {
	chunks, err := parser.ParseFiles(files...)
	if err != nil {
		return printError(stdio, err)
	}

	ck := checker.New(types.NewRegistry())
	var failed bool
	for _, ch := range chunks {
		if cerr := ck.CheckChunk(ch); cerr != nil {
			printError(stdio, cerr)
			failed = true
			continue
		}
		fmt.Fprintf(stdio.Stdout, "%s: ok\n", ch.Name)
	}
	if failed {
		return fmt.Errorf("check: one or more files failed to type-check")
	}
	return nil
}
