package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, c.WithPos, args...)
}

// ParseFiles parses each file and prints its abstract syntax tree.
func ParseFiles(stdio mainer.Stdio, withPos bool, files ...string) error {
	printer := ast.Printer{Output: stdio.Stdout, WithPos: withPos}
	chunks, err := parser.ParseFiles(files...)
	for _, ch := range chunks {
		if ch.Root == nil {
			continue
		}
		if perr := printer.Print(ch.Root); perr != nil {
			return printError(stdio, perr)
		}
	}
	if err != nil {
		return printError(stdio, err)
	}
	return nil
}
