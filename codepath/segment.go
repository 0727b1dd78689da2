// Package codepath builds a per-function control-flow graph of reachable
// and unreachable segments over a parsed JavaScript CST (spec.md §4.3),
// the counterpart of the scope analyzer: where scope resolves names,
// codepath resolves control flow. Construction mirrors the fork-context
// discipline of original_source/plugin/src/code_path_analysis/
// fork_context.rs and code_path.rs, kept HOW (push/pop forking contexts,
// split/merge segment heads) and reimplemented WHAT in Go: arena indices
// instead of Rc<RefCell<_>>, explicit ids instead of reference-counted
// interior mutability.
package codepath

import (
	"github.com/viant/jslint/arena"

	sitter "github.com/smacker/go-tree-sitter"
)

// EventKind tags whether a node event records entry into or exit from the
// CST node that was current while walking a segment.
type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
)

// NodeEvent pairs a CST node with the enter/exit tag recorded while it was
// current (spec.md §3 Code path segments).
type NodeEvent struct {
	Node *sitter.Node
	Kind EventKind
}

// Segment is a maximal straight-line run of program points with a single
// entry and single exit in the code-path graph (spec.md §3, GLOSSARY).
type Segment struct {
	id arena.ID[Segment]

	Reachable bool // sticky: never flips true after being created false (spec.md §8 invariant 4)

	Next    []arena.ID[Segment] // forward control-flow neighbors
	AllNext []arena.ID[Segment] // forward neighbors including exception/exit edges
	Prev    []arena.ID[Segment] // backward neighbors

	Looped []arena.ID[Segment] // predecessors reached only via a loop back-edge

	Events []NodeEvent
}

// ID returns this segment's stable arena identity.
func (s *Segment) ID() arena.ID[Segment] { return s.id }
