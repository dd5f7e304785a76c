package checker

import "github.com/mna/curlylang/lang/ast"

// Program is the elaborated chunk downstream phases consume: an ast.Chunk
// whose nodes have all been annotated with a resolved Type by Check. It
// exists as a named seam for lang/nativegen to depend on without reaching
// past the checker into lang/ast directly; lang/compiler takes the same
// value as an *ast.Chunk.
type Program = ast.Chunk
