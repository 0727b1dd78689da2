package codepath

import "github.com/viant/jslint/arena"

// ForkContext is the analyzer's working stack for building segment heads
// across a forking construct (GLOSSARY "Fork context"): every head pushed
// onto it must share the context's own split Depth, and raising that depth
// is the only way a deeper head may be added
// (original_source/plugin/src/code_path_analysis/fork_context.rs).
type ForkContext struct {
	id    arena.ID[ForkContext]
	depth int
	heads []Head
}

// ID returns this fork context's stable arena identity.
func (fc *ForkContext) ID() arena.ID[ForkContext] { return fc.id }

// Depth returns the split depth every head currently on this context must
// match.
func (fc *ForkContext) Depth() int { return fc.depth }

// Raise increases the context's split depth by one, permitting Add to
// accept heads one level deeper than before.
func (fc *ForkContext) Raise() { fc.depth++ }

// Add appends head at the context's current split depth.
func (fc *ForkContext) Add(head Head) {
	debugAssert(head.Depth == fc.depth, "fork context: added head must match the context's current split depth")
	fc.heads = append(fc.heads, head)
}

// ReplaceHead overwrites the most recently added head.
func (fc *ForkContext) ReplaceHead(head Head) {
	debugAssert(len(fc.heads) > 0, "fork context: replace requires a prior Add")
	debugAssert(head.Depth == fc.depth, "fork context: replacement head must match the context's current split depth")
	fc.heads[len(fc.heads)-1] = head
}

// Head returns the most recently added head.
func (fc *ForkContext) Head() Head {
	if len(fc.heads) == 0 {
		return Head{}
	}
	return fc.heads[len(fc.heads)-1]
}

// Collapse reduces every head on the context (each first Unsplit to a
// single segment, then folded pairwise via merge) down to one segment,
// implementing the N-way "make_next" join a switch statement's cases need:
// one head per case plus the no-match/break escape heads, merged into the
// statement's single successor segment.
func (fc *ForkContext) Collapse(merge func(a, b arena.ID[Segment]) arena.ID[Segment]) arena.ID[Segment] {
	debugAssert(len(fc.heads) > 0, "fork context: collapse requires at least one head")
	singles := make([]arena.ID[Segment], 0, len(fc.heads))
	for _, h := range fc.heads {
		reduced := h.Unsplit(0, merge)
		singles = append(singles, reduced.Segments...)
	}
	result := singles[0]
	for _, s := range singles[1:] {
		result = merge(result, s)
	}
	return result
}
