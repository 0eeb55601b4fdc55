package walker

import (
	"fmt"
	"strings"
)

// StructuralError reports malformed document structure: the traversal depth
// ceiling was exceeded. It is fatal for the affected document only; the batch
// driver logs it and moves on to the next file.
//
// The other structural failure, a report whose root container carries no
// content items, never reaches the walker: the decoder rejects such files
// with ErrNotStructuredReport before a tree is built. Nested containers
// without children are legal and simply contribute nothing.
type StructuralError struct {
	// Depth is the depth at which traversal stopped.
	Depth int

	// MaxDepth is the configured ceiling.
	MaxDepth int

	// Path is the concept-code chain leading to the offending node.
	// Codeless containers appear as empty strings.
	Path []string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("content tree exceeds maximum depth %d at depth %d (path: %s)",
		e.MaxDepth, e.Depth, e.pathString())
}

// pathString renders the ancestor chain for log output, substituting "?" for
// codeless containers.
func (e *StructuralError) pathString() string {
	if len(e.Path) == 0 {
		return "root"
	}
	parts := make([]string, len(e.Path))
	for i, code := range e.Path {
		if code == "" {
			parts[i] = "?"
		} else {
			parts[i] = code
		}
	}
	return strings.Join(parts, "/")
}
