package codepath

import (
	"github.com/viant/jslint/arena"

	sitter "github.com/smacker/go-tree-sitter"
)

// OriginKind tags what kind of CST root a CodePath was built for (spec.md
// §3 Code paths).
type OriginKind int

const (
	OriginProgram OriginKind = iota
	OriginFunction
	OriginClassFieldInitializer
	OriginClassStaticBlock
)

func (k OriginKind) String() string {
	switch k {
	case OriginProgram:
		return "program"
	case OriginFunction:
		return "function"
	case OriginClassFieldInitializer:
		return "class-field-initializer"
	case OriginClassStaticBlock:
		return "class-static-block"
	default:
		return "unknown"
	}
}

// CodePath is one code path: the program itself, or a single function-like
// root, class field initializer, or class static block (spec.md §3 Code
// paths, §4.3). Its segment graph is built once during Analyze and is
// read-only afterward, mirroring the scope analyzer's Manager contract.
type CodePath struct {
	id arena.ID[CodePath]

	Origin   OriginKind
	RootNode *sitter.Node

	Upper    arena.ID[CodePath] // invalid for the program's own code path
	Children []arena.ID[CodePath]

	Initial  arena.ID[Segment]
	Final    []arena.ID[Segment]
	Returned []arena.ID[Segment]
	Thrown   []arena.ID[Segment]

	current Head
}

// ID returns this code path's stable arena identity.
func (p *CodePath) ID() arena.ID[CodePath] { return p.id }

// InitialSegment returns the one segment with no inbound predecessor
// (spec.md §8 invariant 3).
func (p *CodePath) InitialSegment() arena.ID[Segment] { return p.Initial }

// FinalSegments returns the segments present when control falls off the
// end of the path's root (not including early return/throw completions,
// except where a finally block re-dispatches them through its own exit —
// spec.md §8 scenario S6).
func (p *CodePath) FinalSegments() []arena.ID[Segment] { return p.Final }

// ReturnedSegments returns every segment at which this path returns.
func (p *CodePath) ReturnedSegments() []arena.ID[Segment] { return p.Returned }

// ThrownSegments returns every segment at which this path throws.
func (p *CodePath) ThrownSegments() []arena.ID[Segment] { return p.Thrown }

// CurrentSegments returns the path's current segment or segments as they
// stood when construction finished (spec.md §6 current_segments).
func (p *CodePath) CurrentSegments() []arena.ID[Segment] { return p.current.Segments }

// RootCSTNode returns the CST node this path was built for.
func (p *CodePath) RootCSTNode() *sitter.Node { return p.RootNode }

type nodeSpan struct {
	start uint32
	end   uint32
}

func spanOf(n *sitter.Node) nodeSpan {
	return nodeSpan{start: n.StartByte(), end: n.EndByte()}
}

// Set owns every Segment, ForkContext and CodePath produced by one
// analysis run: one arena per entity kind, identity by arena index, no
// cross-arena cycles (spec.md §4.4 Arena substrate).
type Set struct {
	segments     *arena.Arena[Segment]
	forkContexts *arena.Arena[ForkContext]
	codePaths    *arena.Arena[CodePath]

	byRoot map[nodeSpan]arena.ID[CodePath]
	order  []arena.ID[CodePath]
}

func newSet() *Set {
	return &Set{
		segments:     arena.NewArena[Segment](),
		forkContexts: arena.NewArena[ForkContext](),
		codePaths:    arena.NewArena[CodePath](),
		byRoot:       make(map[nodeSpan]arena.ID[CodePath]),
	}
}

// CodePaths returns every code path produced, in creation order: the
// program's own path first, then one per function-like root, class field
// initializer and class static block, in pre-order over the CST (spec.md
// §5 ordering guarantees).
func (s *Set) CodePaths() []*CodePath {
	out := make([]*CodePath, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.codePaths.Get(id))
	}
	return out
}

// CodePathFor returns the code path rooted at node, or nil if node is not
// itself a code-path root.
func (s *Set) CodePathFor(node *sitter.Node) *CodePath {
	id, ok := s.byRoot[spanOf(node)]
	if !ok {
		return nil
	}
	return s.codePaths.Get(id)
}

// Segment resolves a segment's stable identity to its current state.
func (s *Set) Segment(id arena.ID[Segment]) *Segment { return s.segments.Get(id) }

// ForkContext resolves a fork context's stable identity to its current state.
func (s *Set) ForkContext(id arena.ID[ForkContext]) *ForkContext { return s.forkContexts.Get(id) }

// UpperCodePath returns the code path of the function (or program) that
// lexically contains p, or nil for the program's own path.
func (s *Set) UpperCodePath(p *CodePath) *CodePath {
	if !p.Upper.Valid() {
		return nil
	}
	return s.codePaths.Get(p.Upper)
}

// ChildCodePaths returns the code paths nested directly within p.
func (s *Set) ChildCodePaths(p *CodePath) []*CodePath {
	out := make([]*CodePath, 0, len(p.Children))
	for _, id := range p.Children {
		out = append(out, s.codePaths.Get(id))
	}
	return out
}

// Analyze builds one code path per function-like root, the program root,
// every class field initializer, and every class static block over tree,
// following the fork-context construction discipline of
// original_source/plugin/src/code_path_analysis/code_path.rs and
// fork_context.rs (spec.md §4.3). Construction never fails: a malformed or
// partially-erroneous tree is walked best-effort, matching the scope
// analyzer's error-handling contract (spec.md §7).
func Analyze(tree *sitter.Tree, src []byte) (*Set, error) {
	set := newSet()
	b := &builder{set: set, src: src}
	root := tree.RootNode()
	fr := b.buildCodePath(OriginProgram, root, nil)
	b.childrenOf(fr, root)
	b.finishCodePath(fr)
	return set, nil
}
