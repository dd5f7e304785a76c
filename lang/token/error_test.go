package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	e := Error{Pos: MakePos(3, 7), Msg: "unexpected token"}
	assert.Equal(t, "3:7: unexpected token", e.Error())

	e2 := Error{Pos: NoPos, Msg: "no position"}
	assert.Equal(t, "no position", e2.Error())
}

func TestErrorListSortAndErr(t *testing.T) {
	var el ErrorList
	require.Nil(t, el.Err())

	el.Add(MakePos(5, 1), "second")
	el.Add(MakePos(1, 1), "first")
	el.Sort()

	require.Len(t, el, 2)
	assert.Equal(t, "first", el[0].Msg)
	assert.Equal(t, "second", el[1].Msg)

	err := el.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "and 1 more")
}

func TestErrorListReset(t *testing.T) {
	var el ErrorList
	el.Add(NoPos, "x")
	el.Reset()
	assert.Empty(t, el)
}
