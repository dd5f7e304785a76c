package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/lang/checker"
	"github.com/mna/curlylang/lang/compiler"
	"github.com/mna/curlylang/lang/disasm"
	"github.com/mna/curlylang/lang/parser"
	"github.com/mna/curlylang/lang/types"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(stdio, args...)
}

// CompileFiles parses, checks and compiles each file in turn against a
// shared Checker and a shared global table, printing a disassembly of each
// resulting chunk. A later file may reference globals and type aliases an
// earlier one declared.
func CompileFiles(stdio mainer.Stdio, files ...string) error {
	chunks, err := parser.ParseFiles(files...)
	if err != nil {
		return printError(stdio, err)
	}

	ck := checker.New(types.NewRegistry())
	var prior *compiler.Chunk
	for _, ch := range chunks {
		if cerr := ck.CheckChunk(ch); cerr != nil {
			return printError(stdio, cerr)
		}
		bc, cerr := compiler.CompileIncremental(ch, prior)
		if cerr != nil {
			return printError(stdio, cerr)
		}
		prior = bc
		if derr := disasm.Disassemble(stdio.Stdout, ch.Name, bc); derr != nil {
			return printError(stdio, derr)
		}
	}
	return nil
}
