// Package disasm prints a human-readable listing of a compiler.Chunk, one
// instruction per line, in the classic offset/mnemonic/operand layout: a
// 4-digit hex address, the opcode name padded for alignment, and any inline
// operand with a trailing comment identifying the constant or global it
// names.
package disasm

import (
	"fmt"
	"io"

	"github.com/mna/curlylang/lang/compiler"
)

// Disassemble walks chunk's code from offset 0 and writes one line per
// instruction to w. It returns an error, without panicking, if the code
// stream ends in the middle of an instruction's operand bytes.
func Disassemble(w io.Writer, name string, chunk *compiler.Chunk) error {
	fmt.Fprintf(w, "== %s ==\n", name)
	for pc := 0; pc < len(chunk.Code); {
		n, err := disassembleOne(w, chunk, pc)
		if err != nil {
			return err
		}
		pc += n
	}
	return nil
}

func disassembleOne(w io.Writer, chunk *compiler.Chunk, pc int) (int, error) {
	op := compiler.Opcode(chunk.Code[pc])
	width := op.OperandWidth()
	if pc+1+width > len(chunk.Code) {
		fmt.Fprintf(w, "%04X  %-16s <truncated>\n", pc, op)
		return 0, fmt.Errorf("disasm: truncated instruction at %04x", pc)
	}

	if width == 0 {
		fmt.Fprintf(w, "%04X  %s\n", pc, op)
		return 1, nil
	}

	var operand int
	if width == 1 {
		operand = int(chunk.Code[pc+1])
	} else {
		b := chunk.Code[pc+1 : pc+4]
		operand = int(b[0]) | int(b[1])<<8 | int(b[2])<<16
	}
	fmt.Fprintf(w, "%04X  %-16s %d%s\n", pc, op, operand, annotate(chunk, op, operand))
	return 1 + width, nil
}

// annotate renders the human-meaningful referent of an indexed operand: the
// constant's value for a LOAD, the name for a GLOBAL.
func annotate(chunk *compiler.Chunk, op compiler.Opcode, operand int) string {
	switch op {
	case compiler.LOAD, compiler.LOAD_LONG:
		if operand < 0 || operand >= len(chunk.Consts) {
			return ""
		}
		c := chunk.Consts[operand]
		if c.Kind == compiler.ConstString && c.Str >= 0 && c.Str < len(chunk.Strings) {
			return fmt.Sprintf("  ; %q", chunk.Strings[c.Str])
		}
		return fmt.Sprintf("  ; %s", c)
	case compiler.GLOBAL, compiler.GLOBAL_LONG:
		if operand >= 0 && operand < len(chunk.Globals) {
			return fmt.Sprintf("  ; %s", chunk.Globals[operand])
		}
	}
	return ""
}
