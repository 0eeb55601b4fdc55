package walker

import (
	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/registry"
)

// DefaultMaxDepth is the traversal depth ceiling. Real dose reports nest five
// or six levels deep; anything approaching this limit is malformed input, and
// the ceiling turns it into a per-document StructuralError instead of
// unbounded recursion.
const DefaultMaxDepth = 50

// Context is the structural position of a classified measurement: which
// irradiation event encloses it and the chain of ancestor concept codes.
//
// Design decision: The event index is threaded through the recursion as
// explicit state owned by one Walk invocation, never a package-level counter,
// so the walker is re-entrant and safe to run concurrently across documents.
type Context struct {
	// EventIndex is the zero-based index of the enclosing irradiation
	// event container, or -1 outside any event.
	EventIndex int

	// Path is the concept-code chain of ancestor containers, outermost
	// first. Codeless containers contribute an empty string.
	Path []string

	// Depth is the node's depth below the root (root children are 1).
	Depth int
}

// Classified is one recognized measurement: the registry entry that matched,
// the node carrying the payload, and the structural context.
type Classified struct {
	Entry   registry.Entry
	Node    *model.ContentNode
	Context Context
}

// VisitFunc receives classified measurements in document order (pre-order).
// Returning an error aborts the walk and propagates to the caller.
type VisitFunc func(Classified) error

// Walker traverses decoded content trees and classifies nodes against the
// concept registry.
type Walker struct {
	maxDepth int
}

// Option configures a Walker.
type Option func(*Walker)

// WithMaxDepth overrides the traversal depth ceiling. Values below one are
// ignored.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// New creates a Walker with the given options.
func New(opts ...Option) *Walker {
	w := &Walker{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk traverses the tree depth-first in document order, calling visit for
// every node whose concept code resolves in the registry. Matching and
// recursion are independent: a container may both carry a recognized code
// (CT Acquisition) and contain recognized leaves, and unrecognized nodes are
// still traversed for children.
//
// Emission order is pre-order, which the aggregator relies on for last-wins
// combination rules. Exceeding the depth ceiling returns a *StructuralError.
func (w *Walker) Walk(root *model.ContentNode, visit VisitFunc) error {
	if root == nil {
		return nil
	}
	st := walkState{visit: visit, maxDepth: w.maxDepth, eventIndex: -1}
	// The root is the document container itself; classification starts at
	// its children, matching how the decoder frames the content sequence.
	for _, child := range root.Children {
		if err := st.walk(child, 1, nil); err != nil {
			return err
		}
	}
	return nil
}

// walkState carries the traversal-local mutable state of one Walk call.
type walkState struct {
	visit      VisitFunc
	maxDepth   int
	eventCount int
	eventIndex int
}

func (s *walkState) walk(node *model.ContentNode, depth int, path []string) error {
	if node == nil {
		return nil
	}
	if depth > s.maxDepth {
		return &StructuralError{
			Depth:    depth,
			MaxDepth: s.maxDepth,
			Path:     append([]string(nil), path...),
		}
	}

	enclosing := s.eventIndex
	if registry.IsEventContainer(node.Code) {
		// Entering a new irradiation event: its subtree, including the
		// container node itself, belongs to this event's index.
		enclosing = s.eventCount
		s.eventCount++
	}

	if entry, ok := registry.Lookup(node.Code); ok {
		c := Classified{
			Entry: entry,
			Node:  node,
			Context: Context{
				EventIndex: enclosing,
				Path:       append([]string(nil), path...),
				Depth:      depth,
			},
		}
		if err := s.visit(c); err != nil {
			return err
		}
	}

	if len(node.Children) == 0 {
		return nil
	}
	prev := s.eventIndex
	s.eventIndex = enclosing
	childPath := append(path, node.Code)
	for _, child := range node.Children {
		if err := s.walk(child, depth+1, childPath); err != nil {
			return err
		}
	}
	s.eventIndex = prev
	return nil
}

// Collect walks the tree and returns all classified measurements in document
// order. Convenience wrapper for consumers that do not need streaming.
func (w *Walker) Collect(root *model.ContentNode) ([]Classified, error) {
	var out []Classified
	err := w.Walk(root, func(c Classified) error {
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
