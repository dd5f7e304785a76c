package token

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a diagnostic produced by the lexer, parser, checker or compiler:
// a source position plus a message, in the shape of go/scanner.Error. The
// phases in this module cannot reuse go/scanner.Error directly because it
// is tied to go/token.Position rather than this package's packed Pos.
type Error struct {
	Pos Pos
	Msg string
}

func (e Error) Error() string {
	if e.Pos.Unknown() {
		return e.Msg
	}
	line, col := e.Pos.LineCol()
	return fmt.Sprintf("%d:%d: %s", line, col, e.Msg)
}

// ErrorList is a list of *Error, sortable by position and satisfying the
// error interface so a phase can return a single value for zero or more
// diagnostics.
type ErrorList []*Error

// Add appends an error at pos with the given message.
func (l *ErrorList) Add(pos Pos, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

// Reset truncates the list to zero length.
func (l *ErrorList) Reset() { *l = (*l)[0:0] }

// Len, Swap and Less implement sort.Interface, ordering by source position.
func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	li, ci := l[i].Pos.LineCol()
	lj, cj := l[j].Pos.LineCol()
	if li != lj {
		return li < lj
	}
	return ci < cj
}

// Sort orders the list by position.
func (l ErrorList) Sort() { sort.Sort(l) }

// Err returns an error equivalent to this error list, or nil if the list is
// empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (and %d more errors)", l[0], len(l)-1)
	return b.String()
}
