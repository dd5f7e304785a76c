package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

func TestGrammarEBNFWellFormed(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Root"); err != nil {
		t.Fatal(err)
	}
}
