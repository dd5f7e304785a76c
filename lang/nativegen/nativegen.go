// Package nativegen declares the seam a native code backend would plug
// into; it implements none. The bytecode compiler and stack machine
// (lang/compiler, lang/machine) are this module's only executable target.
// A real ahead-of-time backend (LLVM, a native assembler, whatever a
// future target wants) would implement Backend against the same
// checker-elaborated Program the bytecode compiler consumes, lowering it
// to its own representation behind Module instead of a Chunk.
package nativegen

import (
	"context"

	"github.com/mna/curlylang/lang/checker"
)

// Module is an opaque handle to a lowered program. No field is exposed
// because no concrete backend exists in this repository to define one.
type Module struct{}

// Backend lowers an elaborated program to a Module. There is no
// implementation of this interface here.
type Backend interface {
	Lower(ctx context.Context, program *checker.Program) (Module, error)
}
