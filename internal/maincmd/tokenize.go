package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/curlylang/lang/lexer"
	"github.com/mna/curlylang/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles lexes each file in turn and prints one line per token:
// its position, kind, and literal text when it has one.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	var last error
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			last = printError(stdio, err)
			continue
		}
		l := lexer.New(string(src))
		for {
			tok := l.Next()
			fmt.Fprintf(stdio.Stdout, "%d:%d: %s", tok.Line, tok.Col, tok.Kind)
			if tok.Text != "" {
				fmt.Fprintf(stdio.Stdout, " %q", tok.Text)
			}
			fmt.Fprintln(stdio.Stdout)
			if tok.Kind == token.EOF {
				break
			}
		}
	}
	return last
}
