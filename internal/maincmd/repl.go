package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/lang/checker"
	"github.com/mna/curlylang/lang/compiler"
	"github.com/mna/curlylang/lang/machine"
	"github.com/mna/curlylang/lang/parser"
	"github.com/mna/curlylang/lang/types"
)

func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return Repl(stdio)
}

// Repl reads one line of input at a time from stdio.Stdin, parsing,
// checking, compiling and running each against one persistent Checker and
// one persistent machine.VM, so a name bound on one line stays visible on
// the next — the same incremental-compilation trick a REPL for any
// straight-line bytecode needs, since there is no function to wrap
// top-level statements in and no way to "re-enter" a finished chunk.
func Repl(stdio mainer.Stdio) error {
	ck := checker.New(types.NewRegistry())
	vm := machine.New()
	vm.Stdout = stdio.Stdout

	var prior *compiler.Chunk
	scanner := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "curly> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		chunk, err := parser.ParseChunk("<repl>", []byte(line+"\n"))
		if err != nil {
			printError(stdio, err)
			continue
		}
		if err := ck.CheckChunk(chunk); err != nil {
			printError(stdio, err)
			continue
		}
		bc, err := compiler.CompileIncremental(chunk, prior)
		if err != nil {
			printError(stdio, err)
			continue
		}
		prior = bc
		if err := vm.Run(bc); err != nil {
			printError(stdio, err)
		}
	}
	return scanner.Err()
}
