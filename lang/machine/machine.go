package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/mna/curlylang/lang/compiler"
)

// handler executes the instruction starting at pc (the index of its opcode
// byte) and returns the instruction's total length in bytes, i.e. how far
// the run loop should advance pc.
type handler func(vm *VM, pc int) int

var dispatch [256]handler

// VM is a stack machine executing one compiler.Chunk at a time. Globals
// persist across calls to Run so a REPL can feed it one chunk per line
// while earlier top-level bindings stay visible; pc is reset to 0 at the
// start of each Run. A BREAK or an error halts mid-chunk; the halting
// handler still returns its instruction length, so pc is left just past
// the instruction that stopped it.
type VM struct {
	Stdout io.Writer

	chunk   *compiler.Chunk
	pc      int
	stack   []Value
	globals []Value
	running bool
	err     error
}

// New returns a VM with an empty globals table, writing printed values to
// os.Stdout.
func New() *VM {
	return &VM{Stdout: os.Stdout}
}

// Err returns the error, if any, that halted the most recent Run.
func (vm *VM) Err() error { return vm.err }

// Globals exposes the current global bindings, indexed the way the most
// recently run chunk's Globals table names them.
func (vm *VM) Globals() []Value { return vm.globals }

// Run executes chunk from pc 0. Division, modulo by zero and stack
// underflow all set running to false and record Err without unwinding
// through Go's call stack; BREAK does the same without an error.
func (vm *VM) Run(chunk *compiler.Chunk) error {
	if vm.Stdout == nil {
		vm.Stdout = os.Stdout
	}
	vm.chunk = chunk
	vm.pc = 0
	vm.err = nil
	vm.running = true

	for vm.running {
		if vm.pc >= len(vm.chunk.Code) {
			vm.running = false
			break
		}
		op := compiler.Opcode(vm.chunk.Code[vm.pc])
		h := dispatch[op]
		if h == nil {
			fmt.Fprintf(os.Stderr, "machine: unknown opcode %d at %04x, skipping\n", op, vm.pc)
			vm.pc++
			continue
		}
		vm.pc += h(vm, vm.pc)
	}
	return vm.err
}

func (vm *VM) halt(err error) {
	vm.running = false
	vm.err = err
	fmt.Fprintln(os.Stderr, err)
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (Value, bool) {
	if len(vm.stack) == 0 {
		vm.halt(fmt.Errorf("machine: stack underflow at %04x", vm.pc))
		return Value{}, false
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, true
}

func readByteOperand(vm *VM, pc int) int { return int(vm.chunk.Code[pc+1]) }

func readLongOperand(vm *VM, pc int) int {
	b := vm.chunk.Code[pc+1 : pc+4]
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func constValue(chunk *compiler.Chunk, c compiler.Const) Value {
	switch c.Kind {
	case compiler.ConstInt:
		return Value{Kind: KInt, I64: c.I64}
	case compiler.ConstFloat:
		return Value{Kind: KFloat, F64: c.F64}
	case compiler.ConstString:
		return Value{Kind: KString, Str: chunk.Strings[c.Str]}
	default:
		return Value{}
	}
}

func init() {
	dispatch[compiler.NOP] = opNop
	dispatch[compiler.BREAK] = opBreak

	dispatch[compiler.LOAD] = opLoad
	dispatch[compiler.LOAD_LONG] = opLoadLong

	dispatch[compiler.MUL_I64_I64] = arith('*', false, false)
	dispatch[compiler.MUL_I64_F64] = arith('*', false, true)
	dispatch[compiler.MUL_F64_I64] = arith('*', true, false)
	dispatch[compiler.MUL_F64_F64] = arith('*', true, true)
	dispatch[compiler.ADD_I64_I64] = arith('+', false, false)
	dispatch[compiler.ADD_I64_F64] = arith('+', false, true)
	dispatch[compiler.ADD_F64_I64] = arith('+', true, false)
	dispatch[compiler.ADD_F64_F64] = arith('+', true, true)
	dispatch[compiler.SUB_I64_I64] = arith('-', false, false)
	dispatch[compiler.SUB_I64_F64] = arith('-', false, true)
	dispatch[compiler.SUB_F64_I64] = arith('-', true, false)
	dispatch[compiler.SUB_F64_F64] = arith('-', true, true)

	dispatch[compiler.DIV_I64_I64] = div(false, false)
	dispatch[compiler.DIV_I64_F64] = div(false, true)
	dispatch[compiler.DIV_F64_I64] = div(true, false)
	dispatch[compiler.DIV_F64_F64] = div(true, true)

	dispatch[compiler.MOD] = opMod

	dispatch[compiler.POP] = opPop
	dispatch[compiler.POP_SCOPE] = opPopScope
	dispatch[compiler.POP_SCOPE_LONG] = opPopScopeLong

	dispatch[compiler.SET_GLOBAL] = opSetGlobal
	dispatch[compiler.GLOBAL] = opGlobal
	dispatch[compiler.GLOBAL_LONG] = opGlobalLong

	dispatch[compiler.LOCAL] = opLocal
	dispatch[compiler.LOCAL_LONG] = opLocalLong
	dispatch[compiler.SET_LOCAL] = opSetLocal
	dispatch[compiler.SET_LOCAL_LONG] = opSetLocalLong

	dispatch[compiler.PRINT_I64] = opPrintI64
	dispatch[compiler.PRINT_F64] = opPrintF64
	dispatch[compiler.PRINT_STR] = opPrintStr
}

func opNop(vm *VM, pc int) int { return 1 }

func opBreak(vm *VM, pc int) int {
	vm.running = false
	return 1
}

func opLoad(vm *VM, pc int) int {
	idx := readByteOperand(vm, pc)
	vm.push(constValue(vm.chunk, vm.chunk.Consts[idx]))
	return 2
}

func opLoadLong(vm *VM, pc int) int {
	idx := readLongOperand(vm, pc)
	vm.push(constValue(vm.chunk, vm.chunk.Consts[idx]))
	return 4
}

// arith builds the handler for one (op, leftFloat, rightFloat) arithmetic
// opcode: MUL/ADD/SUB never trap, so the only branch is int-fast-path
// versus the shared float path.
func arith(op byte, leftFloat, rightFloat bool) handler {
	return func(vm *VM, pc int) int {
		b, ok := vm.pop()
		if !ok {
			return 1
		}
		a, ok := vm.pop()
		if !ok {
			return 1
		}
		if !leftFloat && !rightFloat {
			var r int64
			switch op {
			case '+':
				r = a.I64 + b.I64
			case '-':
				r = a.I64 - b.I64
			case '*':
				r = a.I64 * b.I64
			}
			vm.push(Value{Kind: KInt, I64: r})
			return 1
		}
		av, bv := f64Of(a, leftFloat), f64Of(b, rightFloat)
		var r float64
		switch op {
		case '+':
			r = av + bv
		case '-':
			r = av - bv
		case '*':
			r = av * bv
		}
		vm.push(Value{Kind: KFloat, F64: r})
		return 1
	}
}

func div(leftFloat, rightFloat bool) handler {
	return func(vm *VM, pc int) int {
		b, ok := vm.pop()
		if !ok {
			return 1
		}
		a, ok := vm.pop()
		if !ok {
			return 1
		}
		if (!rightFloat && b.I64 == 0) || (rightFloat && b.F64 == 0) {
			vm.halt(fmt.Errorf("machine: division by zero at %04x", pc))
			return 1
		}
		if !leftFloat && !rightFloat {
			vm.push(Value{Kind: KInt, I64: a.I64 / b.I64})
			return 1
		}
		vm.push(Value{Kind: KFloat, F64: f64Of(a, leftFloat) / f64Of(b, rightFloat)})
		return 1
	}
}

func opMod(vm *VM, pc int) int {
	b, ok := vm.pop()
	if !ok {
		return 1
	}
	a, ok := vm.pop()
	if !ok {
		return 1
	}
	if b.I64 == 0 {
		vm.halt(fmt.Errorf("machine: modulo by zero at %04x", pc))
		return 1
	}
	vm.push(Value{Kind: KInt, I64: a.I64 % b.I64})
	return 1
}

func opPop(vm *VM, pc int) int {
	vm.pop()
	return 1
}

func popScope(vm *VM, n int) {
	if len(vm.stack) < n+1 {
		vm.halt(fmt.Errorf("machine: stack underflow at %04x", vm.pc))
		return
	}
	res := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1-n]
	vm.stack = append(vm.stack, res)
}

func opPopScope(vm *VM, pc int) int {
	popScope(vm, readByteOperand(vm, pc))
	return 2
}

func opPopScopeLong(vm *VM, pc int) int {
	popScope(vm, readLongOperand(vm, pc))
	return 4
}

func opSetGlobal(vm *VM, pc int) int {
	v, ok := vm.pop()
	if !ok {
		return 1
	}
	vm.globals = append(vm.globals, v)
	return 1
}

func (vm *VM) globalAt(idx int) Value {
	if idx < 0 || idx >= len(vm.globals) {
		vm.halt(fmt.Errorf("machine: undefined global %d at %04x", idx, vm.pc))
		return Value{}
	}
	return vm.globals[idx]
}

func opGlobal(vm *VM, pc int) int {
	vm.push(vm.globalAt(readByteOperand(vm, pc)))
	return 2
}

func opGlobalLong(vm *VM, pc int) int {
	vm.push(vm.globalAt(readLongOperand(vm, pc)))
	return 4
}

// localAt resolves a LOCAL/SET_LOCAL offset (values below the current top)
// to a stack index.
func (vm *VM) localAt(offset int) (int, bool) {
	idx := len(vm.stack) - 1 - offset
	if idx < 0 || idx >= len(vm.stack) {
		vm.halt(fmt.Errorf("machine: invalid local offset %d at %04x", offset, vm.pc))
		return 0, false
	}
	return idx, true
}

func opLocal(vm *VM, pc int) int {
	if idx, ok := vm.localAt(readByteOperand(vm, pc)); ok {
		vm.push(vm.stack[idx])
	}
	return 2
}

func opLocalLong(vm *VM, pc int) int {
	if idx, ok := vm.localAt(readLongOperand(vm, pc)); ok {
		vm.push(vm.stack[idx])
	}
	return 4
}

func opSetLocal(vm *VM, pc int) int {
	off := readByteOperand(vm, pc)
	v, ok := vm.pop()
	if !ok {
		return 2
	}
	if idx, ok := vm.localAt(off); ok {
		vm.stack[idx] = v
	}
	return 2
}

func opSetLocalLong(vm *VM, pc int) int {
	off := readLongOperand(vm, pc)
	v, ok := vm.pop()
	if !ok {
		return 4
	}
	if idx, ok := vm.localAt(off); ok {
		vm.stack[idx] = v
	}
	return 4
}

func (vm *VM) peek() (Value, bool) {
	if len(vm.stack) == 0 {
		vm.halt(fmt.Errorf("machine: stack underflow at %04x", vm.pc))
		return Value{}, false
	}
	return vm.stack[len(vm.stack)-1], true
}

func opPrintI64(vm *VM, pc int) int {
	if v, ok := vm.peek(); ok {
		fmt.Fprintln(vm.Stdout, v.I64)
	}
	return 1
}

func opPrintF64(vm *VM, pc int) int {
	if v, ok := vm.peek(); ok {
		fmt.Fprintln(vm.Stdout, v.F64)
	}
	return 1
}

func opPrintStr(vm *VM, pc int) int {
	if v, ok := vm.peek(); ok {
		fmt.Fprintln(vm.Stdout, v.Str)
	}
	return 1
}
