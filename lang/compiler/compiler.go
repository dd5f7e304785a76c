// Package compiler lowers a checker-elaborated chunk into a straight-line
// bytecode Chunk: no basic blocks, no jumps, no call frames. Every node the
// checker has already typed is walked once; opcode selection for arithmetic
// reads the operands' resolved types directly off ast.Node.Type rather than
// re-deriving them, the way the checker's own elabInfix only ever widens
// Int/Float once and leaves the answer on the node for later passes.
//
// The bytecode layout deliberately covers less of the language than the
// checker accepts: there is no opcode for function values, branching, or
// boolean-producing comparisons (the virtual machine has no Bool value
// kind at all), so function assignment/application, if-expressions,
// quantifiers, comprehensions and ranges are rejected here with a plain
// compile error rather than silently lowered to something the machine
// cannot run.
package compiler

import (
	"fmt"
	"strconv"

	"github.com/mna/curlylang/internal/hashmap"
	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/token"
	"github.com/mna/curlylang/lang/types"
)

// frame is one compile-time local scope opened by a with-expression: the
// names it bound, in push order, so popping it can report how many runtime
// values POP_SCOPE must discard.
type frame struct {
	names []string
}

type compiler struct {
	chunk *Chunk
	errs  token.ErrorList

	constOf  map[Const]int
	stringOf *hashmap.Map[int]
	globalOf map[string]int

	frames []*frame
	locals []string // flat, in push order, spanning every open frame
}

// Compile lowers chunk, whose nodes must already carry a resolved Type from
// checker.Check, into a Chunk. The error, if non-nil, is a
// token.ErrorList.
func Compile(chunk *ast.Chunk) (*Chunk, error) {
	c := &compiler{
		chunk:    &Chunk{Name: chunk.Name},
		constOf:  make(map[Const]int),
		stringOf: hashmap.New[int](16),
		globalOf: make(map[string]int),
	}
	for _, stmt := range ast.Statements(chunk.Root) {
		if c.failed() {
			break
		}
		c.compileStatement(stmt)
	}
	if err := c.errs.Err(); err != nil {
		return nil, err
	}
	c.emit(BREAK)
	return c.chunk, nil
}

// CompileIncremental compiles chunk the way Compile does, but seeds the new
// chunk's globals table from prior's (pass nil for the first chunk), so a
// name bound by an earlier chunk is visible without being redeclared. The
// returned Chunk's Globals table extends prior's one-for-one, keeping
// index space aligned with the machine.VM globals vector a REPL builds by
// running one chunk per input line against the same VM.
func CompileIncremental(chunk *ast.Chunk, prior *Chunk) (*Chunk, error) {
	c := &compiler{
		chunk:    &Chunk{Name: chunk.Name},
		constOf:  make(map[Const]int),
		stringOf: hashmap.New[int](16),
		globalOf: make(map[string]int),
	}
	if prior != nil {
		c.chunk.Globals = append([]string(nil), prior.Globals...)
		for i, name := range prior.Globals {
			c.globalOf[name] = i
		}
	}
	for _, stmt := range ast.Statements(chunk.Root) {
		if c.failed() {
			break
		}
		c.compileStatement(stmt)
	}
	if err := c.errs.Err(); err != nil {
		return nil, err
	}
	c.emit(BREAK)
	return c.chunk, nil
}

func (c *compiler) failed() bool { return len(c.errs) > 0 }

func (c *compiler) errorf(n *ast.Node, format string, args ...interface{}) {
	if c.failed() {
		return
	}
	pos := token.NoPos
	if n != nil {
		pos, _ = n.Span()
	}
	c.errs.Add(pos, fmt.Sprintf(format, args...))
}

// --- emission -------------------------------------------------------------

func (c *compiler) emit(op Opcode) {
	c.chunk.Code = append(c.chunk.Code, byte(op))
}

func (c *compiler) emitByte(op Opcode, v int) {
	c.chunk.Code = append(c.chunk.Code, byte(op), byte(v))
}

func (c *compiler) emitLong(op Opcode, v int) {
	c.chunk.Code = append(c.chunk.Code, byte(op), byte(v), byte(v>>8), byte(v>>16))
}

// emitIndexed chooses the short or long form of an indexed instruction
// depending on whether idx fits in a single byte.
func (c *compiler) emitIndexed(short, long Opcode, idx int) {
	if idx < 256 {
		c.emitByte(short, idx)
	} else {
		c.emitLong(long, idx)
	}
}

// --- constant pool ----------------------------------------------------

func (c *compiler) internConst(k Const) int {
	if idx, ok := c.constOf[k]; ok {
		return idx
	}
	idx := len(c.chunk.Consts)
	c.chunk.Consts = append(c.chunk.Consts, k)
	c.constOf[k] = idx
	return idx
}

func (c *compiler) internInt(v int64) int   { return c.internConst(Const{Kind: ConstInt, I64: v}) }
func (c *compiler) internFloat(v float64) int { return c.internConst(Const{Kind: ConstFloat, F64: v}) }

func (c *compiler) internString(s string) int {
	idx, ok := c.stringOf.Get(s)
	if !ok {
		idx = len(c.chunk.Strings)
		c.chunk.Strings = append(c.chunk.Strings, s)
		c.stringOf.Put(s, idx)
	}
	return c.internConst(Const{Kind: ConstString, Str: idx})
}

func (c *compiler) loadConst(idx int) { c.emitIndexed(LOAD, LOAD_LONG, idx) }

// --- scope bookkeeping -----------------------------------------------

func (c *compiler) pushFrame() { c.frames = append(c.frames, &frame{}) }

func (c *compiler) popFrame() *frame {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.locals = c.locals[:len(c.locals)-len(f.names)]
	return f
}

func (c *compiler) bindLocal(name string) {
	c.locals = append(c.locals, name)
	f := c.frames[len(c.frames)-1]
	f.names = append(f.names, name)
}

// lookupLocal searches innermost-first so a with-binding can shadow an
// outer one, and returns the operand LOCAL/SET_LOCAL need: the number of
// live values above it on the runtime stack.
func (c *compiler) lookupLocal(name string) (offset int, ok bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i] == name {
			return len(c.locals) - 1 - i, true
		}
	}
	return 0, false
}

// --- statements ---------------------------------------------------------

func (c *compiler) compileStatement(n *ast.Node) {
	if c.failed() {
		return
	}
	switch n.Name {
	case ast.NAssign:
		c.compileBind(n.Children[0], n.Children[1])
	case ast.NTypedAssign:
		if n.Type == nil {
			// A named type or enum declaration: the checker records it in the
			// scope's alias table but leaves n.Type nil since it introduces no
			// runtime value. Nothing to emit.
			return
		}
		c.compileBind(n.Children[0], n.Children[2])
	case ast.NRangeAssign:
		c.errorf(n, "range-destructuring assignment is not supported by the bytecode compiler")
	case ast.NFuncAssign:
		c.errorf(n, "function assignment is not supported by the bytecode compiler")
	default:
		c.compileExprStatement(n)
	}
}

// compileBind compiles rhs and binds its value to sym's name, as a local if
// a with-scope is open, otherwise as a new global slot.
func (c *compiler) compileBind(sym, rhs *ast.Node) {
	c.compileExpr(rhs)
	if c.failed() {
		return
	}
	name := sym.Token.Text
	if len(c.frames) > 0 {
		c.bindLocal(name)
		return
	}
	if _, ok := c.globalOf[name]; ok {
		c.errorf(sym, "global %q cannot be reassigned by the bytecode compiler", name)
		return
	}
	idx := len(c.chunk.Globals)
	c.globalOf[name] = idx
	c.chunk.Globals = append(c.chunk.Globals, name)
	c.emit(SET_GLOBAL)
}

// compileExprStatement compiles a bare top-level expression and appends the
// print opcode its resolved type selects; PRINT keeps the value on the
// stack, so a POP follows to keep the stack from growing across statements.
func (c *compiler) compileExprStatement(n *ast.Node) {
	c.compileExpr(n)
	if c.failed() {
		return
	}
	switch {
	case isIntType(n.Type):
		c.emit(PRINT_I64)
	case isFloatType(n.Type):
		c.emit(PRINT_F64)
	case isStringType(n.Type):
		c.emit(PRINT_STR)
	default:
		c.errorf(n, "cannot print a value of type %s", n.Type)
		return
	}
	c.emit(POP)
}

// --- expressions --------------------------------------------------------

func (c *compiler) compileExpr(n *ast.Node) {
	if c.failed() {
		return
	}
	switch {
	case n.Name == ast.NInfixOperator:
		c.compileInfix(n)
	case n.Name == ast.NUnaryOperator:
		c.compileUnary(n)
	case n.Name == ast.NWith:
		c.compileWith(n)
	case len(n.Children) == 0:
		c.compileLeaf(n)
	default:
		c.errorf(n, "construct %q is not supported by the straight-line bytecode compiler", n.Name)
	}
}

func (c *compiler) compileLeaf(n *ast.Node) {
	switch n.Token.Kind {
	case token.INT:
		v, err := strconv.ParseInt(n.Token.Text, 10, 64)
		if err != nil {
			c.errorf(n, "invalid integer literal %q", n.Token.Text)
			return
		}
		c.loadConst(c.internInt(v))
	case token.FLOAT:
		v, err := strconv.ParseFloat(n.Token.Text, 64)
		if err != nil {
			c.errorf(n, "invalid float literal %q", n.Token.Text)
			return
		}
		c.loadConst(c.internFloat(v))
	case token.STRING:
		c.loadConst(c.internString(n.Token.Text))
	case token.SYMBOL:
		c.compileSymbolRef(n)
	default:
		c.errorf(n, "value of kind %s is not supported by the bytecode compiler", n.Token.Kind)
	}
}

func (c *compiler) compileSymbolRef(n *ast.Node) {
	name := n.Token.Text
	if off, ok := c.lookupLocal(name); ok {
		c.emitIndexed(LOCAL, LOCAL_LONG, off)
		return
	}
	if idx, ok := c.globalOf[name]; ok {
		c.emitIndexed(GLOBAL, GLOBAL_LONG, idx)
		return
	}
	c.errorf(n, "undeclared variable %q", name)
}

func (c *compiler) compileInfix(n *ast.Node) {
	left, right := n.Children[0], n.Children[1]
	c.compileExpr(left)
	c.compileExpr(right)
	if c.failed() {
		return
	}
	switch n.Token.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		c.emit(arithOpcode(n.Token.Kind, isFloatType(left.Type), isFloatType(right.Type)))
	case token.PERCENT:
		if !isIntType(left.Type) || !isIntType(right.Type) {
			c.errorf(n, "%% requires Int operands, got %s and %s", left.Type, right.Type)
			return
		}
		c.emit(MOD)
	default:
		c.errorf(n, "operator %s is not supported by the bytecode compiler", n.Token.Kind)
	}
}

// compileUnary lowers -x to 0 - x: the opcode set has no dedicated negate,
// and every arithmetic opcode the machine runs is already binary.
func (c *compiler) compileUnary(n *ast.Node) {
	operand := n.Children[0]
	isFloat := isFloatType(operand.Type)
	if isFloat {
		c.loadConst(c.internFloat(0))
	} else {
		c.loadConst(c.internInt(0))
	}
	c.compileExpr(operand)
	if c.failed() {
		return
	}
	c.emit(arithOpcode(token.MINUS, isFloat, isFloat))
}

func (c *compiler) compileWith(n *ast.Node) {
	c.pushFrame()
	bindings, body := n.Children[:len(n.Children)-1], n.Children[len(n.Children)-1]
	for _, b := range bindings {
		switch b.Name {
		case ast.NAssign:
			c.compileExpr(b.Children[1])
			if c.failed() {
				return
			}
			c.bindLocal(b.Children[0].Token.Text)
		case ast.NTypedAssign:
			if b.Type == nil {
				c.errorf(b, "local type or enum declarations are not supported by the bytecode compiler")
				return
			}
			c.compileExpr(b.Children[2])
			if c.failed() {
				return
			}
			c.bindLocal(b.Children[0].Token.Text)
		default:
			c.errorf(b, "binding form %q is not supported in a local scope by the bytecode compiler", b.Name)
			return
		}
	}
	c.compileExpr(body)
	if c.failed() {
		return
	}
	f := c.popFrame()
	c.emitIndexed(POP_SCOPE, POP_SCOPE_LONG, len(f.names))
}

// --- operand-type driven opcode selection --------------------------------

// arithOpcode picks the (left-is-float, right-is-float) form of base.
func arithOpcode(base token.Kind, leftFloat, rightFloat bool) Opcode {
	var group [4]Opcode
	switch base {
	case token.STAR:
		group = [4]Opcode{MUL_I64_I64, MUL_I64_F64, MUL_F64_I64, MUL_F64_F64}
	case token.SLASH:
		group = [4]Opcode{DIV_I64_I64, DIV_I64_F64, DIV_F64_I64, DIV_F64_F64}
	case token.PLUS:
		group = [4]Opcode{ADD_I64_I64, ADD_I64_F64, ADD_F64_I64, ADD_F64_F64}
	case token.MINUS:
		group = [4]Opcode{SUB_I64_I64, SUB_I64_F64, SUB_F64_I64, SUB_F64_F64}
	}
	idx := 0
	if leftFloat {
		idx |= 2
	}
	if rightFloat {
		idx |= 1
	}
	return group[idx]
}

func isIntType(t *types.Type) bool {
	return t != nil && t.Kind == types.Primitive && t.Name == "Int"
}

func isFloatType(t *types.Type) bool {
	return t != nil && t.Kind == types.Primitive && t.Name == "Float"
}

func isStringType(t *types.Type) bool {
	return t != nil && t.Kind == types.Primitive && t.Name == "String"
}
