package compiler

import (
	"fmt"
	"strconv"
)

// ConstKind identifies the payload shape of one constant-pool entry.
type ConstKind uint8

// Constant payload shapes. A constant pool holds integers, floats and
// interned strings side by side; numeric entries are deduplicated by bit
// pattern, string entries by the index they share into the chunk's Strings
// pool.
const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
)

// Const is one deduplicated entry of a Chunk's constant pool.
type Const struct {
	Kind ConstKind
	I64  int64
	F64  float64
	Str  int // index into Chunk.Strings; valid when Kind == ConstString
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.I64, 10)
	case ConstFloat:
		return strconv.FormatFloat(c.F64, 'g', -1, 64)
	case ConstString:
		return fmt.Sprintf("str#%d", c.Str)
	default:
		return "<invalid const>"
	}
}

// Chunk is the artifact Compile produces and the machine package executes:
// a flat byte vector of opcodes and inline operands, a deduplicated
// constant pool, the string pool that backs any ConstString entry, and an
// ordered table of global names (the machine's globals vector is built
// parallel to it, slot for slot, as SET_GLOBAL instructions execute).
type Chunk struct {
	Name    string
	Code    []byte
	Consts  []Const
	Strings []string
	Globals []string
}
