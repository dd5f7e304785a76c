package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/lang/checker"
	"github.com/mna/curlylang/lang/compiler"
	"github.com/mna/curlylang/lang/machine"
	"github.com/mna/curlylang/lang/parser"
	"github.com/mna/curlylang/lang/types"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(stdio, args...)
}

// RunFiles parses, checks, compiles and executes each file in turn on a
// single virtual machine and a single Checker, so a later file sees both
// the global bindings and the type declarations an earlier one left
// behind.
func RunFiles(stdio mainer.Stdio, files ...string) error {
	chunks, err := parser.ParseFiles(files...)
	if err != nil {
		return printError(stdio, err)
	}

	ck := checker.New(types.NewRegistry())
	vm := machine.New()
	vm.Stdout = stdio.Stdout

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
		if rerr := vm.Run(bc); rerr != nil {
			return printError(stdio, rerr)
		}
	}
	return nil
}
