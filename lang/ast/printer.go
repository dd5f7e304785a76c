package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer dumps a tree of *Node values in an indented, one-node-per-line
// form, for debugging and golden-file testing of the parser stages.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// WithPos includes each node's line:col span in the output when true.
	WithPos bool
}

// Print walks n and writes its indented dump to p.Output.
func (p *Printer) Print(n *Node) error {
	pp := &printer{w: p.Output, withPos: p.WithPos}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	withPos bool
	depth   int
	err     error
}

func (p *printer) Visit(n *Node, dir VisitDirection) Visitor {
	if dir == VisitExit {
		p.depth--
		return nil
	}
	if p.err != nil {
		return nil
	}
	p.printNode(n, p.depth)
	p.depth++
	return p
}

func (p *printer) printNode(n *Node, indent int) {
	label := n.Name
	if label == "" {
		label = n.Token.Kind.String()
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(". ", indent))
	b.WriteString(label)
	if n.Token.Text != "" {
		fmt.Fprintf(&b, " %q", n.Token.Text)
	}
	if p.withPos {
		start, end := n.Span()
		sl, sc := start.LineCol()
		el, ec := end.LineCol()
		fmt.Fprintf(&b, " [%d:%d-%d:%d]", sl, sc, el, ec)
	}
	b.WriteByte('\n')

	_, p.err = io.WriteString(p.w, b.String())
}
