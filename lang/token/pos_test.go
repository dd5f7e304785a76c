package token

import "testing"

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{5, 12},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		if gotLine != c.line || gotCol != c.col {
			t.Errorf("MakePos(%d,%d).LineCol() = %d,%d", c.line, c.col, gotLine, gotCol)
		}
	}
}

func TestPosUnknown(t *testing.T) {
	if !NoPos.Unknown() {
		t.Error("NoPos should be unknown")
	}
	if MakePos(1, 1).Unknown() {
		t.Error("1:1 should not be unknown")
	}
	if !MakePos(0, 1).Unknown() {
		t.Error("line 0 should be unknown")
	}
	if !MakePos(1, 0).Unknown() {
		t.Error("col 0 should be unknown")
	}
}

func TestPosOf(t *testing.T) {
	tok := Token{Line: 3, Col: 7}
	p := PosOf(tok)
	line, col := p.LineCol()
	if line != 3 || col != 7 {
		t.Errorf("PosOf(%v) = %d,%d", tok, line, col)
	}
}
