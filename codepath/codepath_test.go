package codepath

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/jslint/arena"
)

func parseJS(t *testing.T, src string) (*sitter.Tree, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree, []byte(src)
}

func findNode(n *sitter.Node, kind string) *sitter.Node {
	if n.Type() == kind {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := findNode(n.NamedChild(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func onlyFunctionPath(t *testing.T, set *Set) *CodePath {
	t.Helper()
	for _, p := range set.CodePaths() {
		if p.Origin == OriginFunction {
			return p
		}
	}
	require.Fail(t, "expected at least one function code path")
	return nil
}

// Invariant 3: a code path's initial segment has no inbound predecessor,
// and every segment reachable in the graph is reachable from it via Next.
func TestAnalyze_InitialSegmentHasNoPredecessor(t *testing.T) {
	tree, src := parseJS(t, `function f(a) {
		if (a) {
			return 1;
		}
		return 2;
	}`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	path := onlyFunctionPath(t, set)
	initial := set.Segment(path.InitialSegment())
	assert.Empty(t, initial.Prev, "initial segment must have no predecessor")

	visited := make(map[int]bool)
	set.TraverseSegments(path, arena.ID[Segment]{}, arena.ID[Segment]{}, func(s *Segment, _ *Controller) {
		visited[s.ID().Int()] = true
	})
	assert.True(t, visited[path.InitialSegment().Int()])
	assert.True(t, len(visited) >= 2, "should reach more than just the initial segment")
}

// Invariant 4: reachability is sticky — a segment created unreachable is
// never observed as reachable afterward.
func TestAnalyze_ReachabilityIsMonotone(t *testing.T) {
	tree, src := parseJS(t, `function f() {
		return 1;
		g();
	}`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	path := onlyFunctionPath(t, set)
	var sawUnreachable bool
	set.TraverseAllSegments(path, arena.ID[Segment]{}, arena.ID[Segment]{}, func(s *Segment, _ *Controller) {
		if !s.Reachable {
			sawUnreachable = true
		}
	})
	assert.True(t, sawUnreachable, "the statement after an unconditional return should be on an unreachable segment")
}

// S5: an optional chain forks into a reachable member-access continuation
// and a short-circuit branch, both flowing into the return's segment.
func TestAnalyze_OptionalChainForks(t *testing.T) {
	tree, src := parseJS(t, `function f(a) { return a?.b.c; }`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	path := onlyFunctionPath(t, set)
	require.Len(t, path.ReturnedSegments(), 1)

	returned := set.Segment(path.ReturnedSegments()[0])
	require.Len(t, returned.Prev, 2, "expected both the chain-continuation and short-circuit branches to merge before return")
	for _, p := range returned.Prev {
		assert.True(t, set.Segment(p).Reachable)
	}
}

// S6: a try with a finally defers its return through the finally body;
// the finally-block segment precedes every returned segment, and the
// final segments include the finally-exit.
func TestAnalyze_FinallyRedispatchesReturn(t *testing.T) {
	tree, src := parseJS(t, `function f() { try { return 1; } finally { g(); } }`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	path := onlyFunctionPath(t, set)
	require.Len(t, path.ReturnedSegments(), 1)

	returnedID := path.ReturnedSegments()[0]
	returned := set.Segment(returnedID)
	require.Len(t, returned.Prev, 1)
	finallyExit := returned.Prev[0]

	// the finally-exit segment must carry an enter/exit event for the
	// finally body's call expression, i.e. it really is downstream of
	// `g()`.
	foundCall := false
	for _, ev := range set.Segment(finallyExit).Events {
		if ev.Node.Type() == "call_expression" {
			foundCall = true
		}
	}
	assert.True(t, foundCall, "the segment preceding the returned segment should be the finally body's exit")

	require.Len(t, path.FinalSegments(), 1)
	assert.Equal(t, finallyExit.Int(), path.FinalSegments()[0].Int(), "final segments must include the finally-exit")
}

// S7: a while loop with a constant-false test prunes its body as
// unreachable while the statement after the loop stays reachable.
func TestAnalyze_ConstantFalseLoopIsPruned(t *testing.T) {
	tree, src := parseJS(t, `function f() { while (false) g(); h(); }`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	path := onlyFunctionPath(t, set)

	var bodySeg, afterSeg *Segment
	set.TraverseAllSegments(path, arena.ID[Segment]{}, arena.ID[Segment]{}, func(s *Segment, _ *Controller) {
		for _, ev := range s.Events {
			if ev.Node.Type() != "call_expression" {
				continue
			}
			name := ev.Node.ChildByFieldName("function")
			if name == nil {
				continue
			}
			switch name.Content(src) {
			case "g":
				bodySeg = s
			case "h":
				afterSeg = s
			}
		}
	})

	require.NotNil(t, bodySeg, "expected to find the while-body call to g()")
	require.NotNil(t, afterSeg, "expected to find the post-loop call to h()")
	assert.False(t, bodySeg.Reachable, "while(false) body must be unreachable")
	assert.True(t, afterSeg.Reachable, "the statement after the loop must stay reachable")
}

func TestAnalyze_ProgramPathExists(t *testing.T) {
	tree, src := parseJS(t, `var x = 1;`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	paths := set.CodePaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, OriginProgram, paths[0].Origin)
	assert.Equal(t, tree.RootNode().StartByte(), paths[0].RootCSTNode().StartByte())
}

func TestAnalyze_NestedFunctionIsChildCodePath(t *testing.T) {
	tree, src := parseJS(t, `function outer() { function inner() { return 1; } }`)
	set, err := Analyze(tree, src)
	require.NoError(t, err)

	root := tree.RootNode()
	outerNode := findNode(root, "function_declaration")
	require.NotNil(t, outerNode)
	outerPath := set.CodePathFor(outerNode)
	require.NotNil(t, outerPath)

	children := set.ChildCodePaths(outerPath)
	require.Len(t, children, 1)
	assert.Equal(t, OriginFunction, children[0].Origin)
	assert.Equal(t, outerPath.ID(), set.UpperCodePath(children[0]).ID())
}

func TestHead_ReduceAndUnsplit(t *testing.T) {
	set := newSet()
	b := &builder{set: set, src: nil}
	a := b.newSegment(true, nil)
	c := b.newSegment(true, nil)
	d := b.newSegment(true, nil)
	e := b.newSegment(true, nil)

	merge := func(x, y arena.ID[Segment]) arena.ID[Segment] {
		return b.newSegment(anyReachable(set, []arena.ID[Segment]{x, y}), []arena.ID[Segment]{x, y})
	}

	h := Head{Depth: 2, Segments: []arena.ID[Segment]{a, c, d, e}}
	unsplit := h.Unsplit(0, merge)
	assert.Equal(t, 0, unsplit.Depth)
	assert.Len(t, unsplit.Segments, 1)

	reduced := h.Reduce(merge)
	assert.True(t, reduced.Valid())
}
