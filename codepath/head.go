package codepath

import "github.com/viant/jslint/arena"

// Head is the "single or split" segment head from spec.md §9 Design notes:
// either a single current segment (Depth 0, one entry in Segments) or a
// balanced tree of forked segments at a known split Depth. The original
// models this as a literal nested binary tree; this port flattens it to a
// depth-tagged slice, since every operation the analyzer actually needs —
// Map, Reduce, Unsplit — reduces to pairwise folds over the slice and the
// flat form is far easier to get right without a type-checker to lean on.
type Head struct {
	Depth    int
	Segments []arena.ID[Segment]
}

// Single reports whether this head is a plain (unsplit) single segment.
func (h Head) Single() bool { return h.Depth == 0 && len(h.Segments) == 1 }

// Map applies f to every segment in the head, preserving Depth.
func (h Head) Map(f func(arena.ID[Segment]) arena.ID[Segment]) Head {
	out := make([]arena.ID[Segment], len(h.Segments))
	for i, s := range h.Segments {
		out[i] = f(s)
	}
	return Head{Depth: h.Depth, Segments: out}
}

// Reduce folds the head down to a single segment by repeatedly pairing
// adjacent segments through create, the same shape the caller also uses to
// instantiate "next", "unreachable" or "disconnected" segment flavors
// (spec.md §9). An odd one out at any round carries forward unpaired.
func (h Head) Reduce(create func(a, b arena.ID[Segment]) arena.ID[Segment]) arena.ID[Segment] {
	segs := h.Segments
	for len(segs) > 1 {
		next := make([]arena.ID[Segment], 0, (len(segs)+1)/2)
		for i := 0; i+1 < len(segs); i += 2 {
			next = append(next, create(segs[i], segs[i+1]))
		}
		if len(segs)%2 == 1 {
			next = append(next, segs[len(segs)-1])
		}
		segs = next
	}
	if len(segs) == 0 {
		var zero arena.ID[Segment]
		return zero
	}
	return segs[0]
}

// Unsplit merges pairs of segments via merge until the head's split depth
// reaches targetDepth (or it collapses to a single segment, whichever comes
// first): "merging two heads reduces split depth by one"
// (original_source/plugin/src/code_path_analysis/fork_context.rs).
func (h Head) Unsplit(targetDepth int, merge func(a, b arena.ID[Segment]) arena.ID[Segment]) Head {
	debugAssert(targetDepth <= h.Depth, "unsplit target depth must not exceed the head's current depth")
	segs := h.Segments
	depth := h.Depth
	for depth > targetDepth && len(segs) > 1 {
		next := make([]arena.ID[Segment], 0, (len(segs)+1)/2)
		for i := 0; i+1 < len(segs); i += 2 {
			next = append(next, merge(segs[i], segs[i+1]))
		}
		if len(segs)%2 == 1 {
			next = append(next, segs[len(segs)-1])
		}
		segs = next
		depth--
	}
	debugAssert(depth == targetDepth || len(segs) == 1, "unsplit must reach target depth or collapse to a single segment")
	return Head{Depth: depth, Segments: segs}
}
