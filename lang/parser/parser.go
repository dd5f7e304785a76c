// Package parser turns Curly source text into an abstract syntax tree by
// running lang/grammar's combinator tree over a lang/lexer.Lexer, collecting
// any failure into a lang/token.ErrorList the way the original hand-written
// recursive-descent parser collected scanner/parser errors into one list per
// chunk.
package parser

import (
	"os"

	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/grammar"
	"github.com/mna/curlylang/lang/lexer"
	"github.com/mna/curlylang/lang/token"
)

// grammar.New builds a fresh combinator tree per call; parsing is cheap
// enough, and a fresh tree per file avoids any risk of shared mutable state
// between concurrent parses.

// ParseChunk parses a single chunk from src and returns its AST. The error,
// if non-nil, is a token.ErrorList.
func ParseChunk(name string, src []byte) (*ast.Chunk, error) {
	g := grammar.New()
	l := lexer.New(string(src))

	res := g.Run(l)
	ch := &ast.Chunk{Name: name}
	if !res.Ok {
		var errs token.ErrorList
		pos := token.MakePos(res.Tok.Line, res.Tok.Col)
		errs.Add(pos, res.Msg)
		return ch, errs.Err()
	}
	ch.Root = res.Node
	return ch, nil
}

// ParseFiles parses each of the named source files and returns one Chunk per
// file, in order. The error, if non-nil, is a token.ErrorList aggregating
// every file's diagnostics.
func ParseFiles(files ...string) ([]*ast.Chunk, error) {
	var errs token.ErrorList
	chunks := make([]*ast.Chunk, 0, len(files))

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			errs.Add(token.NoPos, err.Error())
			continue
		}
		ch, err := ParseChunk(file, b)
		if err != nil {
			if el, ok := err.(token.ErrorList); ok {
				errs = append(errs, el...)
			} else {
				errs.Add(token.NoPos, err.Error())
			}
		}
		chunks = append(chunks, ch)
	}
	errs.Sort()
	return chunks, errs.Err()
}
