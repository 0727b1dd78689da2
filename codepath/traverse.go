package codepath

import "github.com/viant/jslint/arena"

// Controller lets a segment visitor influence traversal order (spec.md
// §4.3 Traversal).
type Controller struct {
	skip bool
	brk  bool
}

// Skip stops descending past the segment just visited without aborting
// the whole traversal.
func (c *Controller) Skip() { c.skip = true }

// Break aborts the traversal entirely after the current visit returns.
func (c *Controller) Break() { c.brk = true }

// TraverseSegments walks a code path's segment graph forward from first
// (the path's own initial segment, when first is the zero ID) to last
// (inclusive; the whole reachable graph, when last is the zero ID),
// following Next edges and treating an already-visited segment (including
// one reached only via a loop back-edge) as a traversal boundary rather
// than revisiting it (spec.md §6 traverse_segments).
func (s *Set) TraverseSegments(path *CodePath, first, last arena.ID[Segment], visit func(*Segment, *Controller)) {
	s.traverse(path, first, last, visit, false)
}

// TraverseAllSegments is TraverseSegments but follows AllNext edges,
// additionally descending into segments only reachable via an exception or
// exit edge (spec.md §6 traverse_all_segments).
func (s *Set) TraverseAllSegments(path *CodePath, first, last arena.ID[Segment], visit func(*Segment, *Controller)) {
	s.traverse(path, first, last, visit, true)
}

func (s *Set) traverse(path *CodePath, first, last arena.ID[Segment], visit func(*Segment, *Controller), all bool) {
	start := first
	if !start.Valid() {
		start = path.Initial
	}
	if !start.Valid() {
		return
	}

	visited := make(map[int]bool)
	stop := false

	var walk func(id arena.ID[Segment])
	walk = func(id arena.ID[Segment]) {
		if stop || visited[id.Int()] {
			return
		}
		visited[id.Int()] = true

		seg := s.Segment(id)
		ctrl := &Controller{}
		visit(seg, ctrl)
		if ctrl.brk {
			stop = true
			return
		}
		if ctrl.skip {
			return
		}
		if last.Valid() && id.Int() == last.Int() {
			return
		}

		next := seg.Next
		if all {
			next = seg.AllNext
		}
		for _, n := range next {
			walk(n)
		}
	}
	walk(start)
}
