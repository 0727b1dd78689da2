package codepath

import (
	"github.com/viant/jslint/arena"
	"github.com/viant/jslint/cst"

	sitter "github.com/smacker/go-tree-sitter"
)

// builder is the single recursive-descent pass that constructs every
// CodePath's segment graph, mirroring the scope analyzer's analyze.go/
// walk.go split: one struct walking the CST once, pushing and popping
// per-construct state (loop targets, try/finally completions) as it goes.
type builder struct {
	set *Set
	src []byte
}

// frame is the construction state for one in-progress CodePath: its
// current segment head, and the loop/try stacks that per-construct
// handlers consult to route break/continue/return/throw completions.
type frame struct {
	path    *CodePath
	current Head

	loopStack []*loopTarget
	tryStack  []*tryFrame
}

// loopTarget collects the break/continue completions that target one
// labeled or unlabeled loop (or, for break only, a switch statement).
type loopTarget struct {
	label        string
	breakSegs    []arena.ID[Segment]
	continueSegs []arena.ID[Segment]
}

// tryFrame tracks one enclosing try statement: the segments its try block
// might throw from (feeding the catch clause's seed), and — only when the
// try has a finally clause — the completions deferred until the finally
// body re-dispatches them (spec.md §8 scenario S6).
type tryFrame struct {
	hasFinally       bool
	possiblyThrowing []arena.ID[Segment]
	finallyPending   []pendingCompletion
}

type pendingCompletion struct {
	kind  string // "return", "throw", "break", "continue"
	label string
	from  arena.ID[Segment]
}

type truthValue int

const (
	truthUnknown truthValue = iota
	truthTruthy
	truthFalsy
)

// buildCodePath allocates a new CodePath rooted at rootNode, registers it
// with the Set, and links it to its enclosing frame (nil for the program's
// own path).
func (b *builder) buildCodePath(origin OriginKind, rootNode *sitter.Node, upper *frame) *frame {
	id := b.set.codePaths.Alloc(CodePath{})
	path := b.set.codePaths.Get(id)
	path.id = id
	path.Origin = origin
	path.RootNode = rootNode
	if upper != nil {
		path.Upper = upper.path.id
		upper.path.Children = append(upper.path.Children, id)
	}

	initial := b.newSegment(true, nil)
	path.Initial = initial

	b.set.byRoot[spanOf(rootNode)] = id
	b.set.order = append(b.set.order, id)

	return &frame{path: path, current: Head{Depth: 0, Segments: []arena.ID[Segment]{initial}}}
}

// finishCodePath records the path's fall-through final segments from its
// last current head.
func (b *builder) finishCodePath(fr *frame) {
	fr.path.current = fr.current
	fr.path.Final = append([]arena.ID[Segment]{}, fr.current.Segments...)
}

// newSegment allocates a segment reachable iff reachable is true, wiring
// it as a Next/AllNext successor of every segment in prevs (spec.md §8
// invariant 4: Reachable is sticky, never set true after being created
// false).
func (b *builder) newSegment(reachable bool, prevs []arena.ID[Segment]) arena.ID[Segment] {
	id := b.set.segments.Alloc(Segment{})
	seg := b.set.segments.Get(id)
	seg.id = id
	seg.Reachable = reachable
	seg.Prev = append([]arena.ID[Segment]{}, prevs...)
	for _, p := range prevs {
		prev := b.set.segments.Get(p)
		prev.Next = append(prev.Next, id)
		prev.AllNext = append(prev.AllNext, id)
	}
	return id
}

// connectLooped records a back-edge into an already-existing segment
// (GLOSSARY Segment; spec.md §3 "looped previous segments"), used for loop
// bodies and do-while tests jumping back to their head.
func (b *builder) connectLooped(from, to arena.ID[Segment]) {
	fromSeg := b.set.segments.Get(from)
	toSeg := b.set.segments.Get(to)
	fromSeg.Next = append(fromSeg.Next, to)
	fromSeg.AllNext = append(fromSeg.AllNext, to)
	toSeg.Looped = append(toSeg.Looped, from)
	toSeg.Prev = append(toSeg.Prev, from)
}

func anyReachable(set *Set, ids []arena.ID[Segment]) bool {
	for _, id := range ids {
		if set.Segment(id).Reachable {
			return true
		}
	}
	return false
}

// reduceToSingle collapses a (possibly split) current head down to one
// segment, via Head.Reduce, and installs it as the frame's new current.
func (b *builder) reduceToSingle(fr *frame) arena.ID[Segment] {
	if fr.current.Single() {
		return fr.current.Segments[0]
	}
	merged := fr.current.Reduce(func(a, c arena.ID[Segment]) arena.ID[Segment] {
		return b.newSegment(anyReachable(b.set, []arena.ID[Segment]{a, c}), []arena.ID[Segment]{a, c})
	})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{merged}}
	return merged
}

// mergeHeads joins two heads' segments into a single successor segment.
func (b *builder) mergeHeads(a, other Head) Head {
	prevs := append(append([]arena.ID[Segment]{}, a.Segments...), other.Segments...)
	seg := b.newSegment(anyReachable(b.set, prevs), prevs)
	return Head{Depth: 0, Segments: []arena.ID[Segment]{seg}}
}

func (b *builder) newForkContext() *ForkContext {
	id := b.set.forkContexts.Alloc(ForkContext{})
	fc := b.set.forkContexts.Get(id)
	fc.id = id
	return fc
}

func (b *builder) enterNode(fr *frame, n *sitter.Node) {
	for _, id := range fr.current.Segments {
		seg := b.set.Segment(id)
		seg.Events = append(seg.Events, NodeEvent{Node: n, Kind: EventEnter})
	}
}

func (b *builder) exitNode(fr *frame, n *sitter.Node) {
	for _, id := range fr.current.Segments {
		seg := b.set.Segment(id)
		seg.Events = append(seg.Events, NodeEvent{Node: n, Kind: EventExit})
	}
}

// statement and expression are both just node: the CST makes no hard
// distinction codepath needs to honor (a return statement's argument is
// an expression, an expression statement's child is too), so one
// dispatcher serves both call sites.
func (b *builder) statement(fr *frame, n *sitter.Node)  { b.node(fr, n) }
func (b *builder) expression(fr *frame, n *sitter.Node) { b.node(fr, n) }

func (b *builder) node(fr *frame, n *sitter.Node) {
	if n == nil {
		return
	}
	b.enterNode(fr, n)
	defer b.exitNode(fr, n)

	switch n.Type() {
	case "if_statement":
		b.ifStatement(fr, n)
	case "ternary_expression":
		b.ternaryExpression(fr, n)
	case "binary_expression":
		b.binaryExpression(fr, n)
	case "switch_statement":
		b.switchStatement(fr, n)
	case "while_statement":
		b.whileStatement(fr, n, "")
	case "do_statement":
		b.doWhileStatement(fr, n, "")
	case "for_statement":
		b.forStatement(fr, n, "")
	case "for_in_statement":
		b.forInStatement(fr, n, "")
	case "return_statement":
		b.returnStatement(fr, n)
	case "throw_statement":
		b.throwStatement(fr, n)
	case "break_statement":
		b.breakStatement(fr, n)
	case "continue_statement":
		b.continueStatement(fr, n)
	case "labeled_statement":
		b.labeledStatement(fr, n)
	case "try_statement":
		b.tryStatement(fr, n)
	case "function_declaration", "function_expression", "generator_function", "generator_function_declaration", "arrow_function":
		b.buildNestedFunction(fr, n)
	case "method_definition":
		b.buildNestedFunction(fr, n)
	case "class_declaration", "class":
		b.classBody(fr, n)
	case "member_expression", "subscript_expression", "call_expression":
		b.chainableExpression(fr, n)
	default:
		b.childrenOf(fr, n)
	}
}

func (b *builder) childrenOf(fr *frame, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.node(fr, n.NamedChild(i))
	}
}

func (b *builder) childrenExcept(fr *frame, n, skip *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if skip != nil && c.StartByte() == skip.StartByte() && c.EndByte() == skip.EndByte() {
			continue
		}
		b.node(fr, c)
	}
}

// constantTruthiness implements spec.md §4.3's constant-truthiness helper:
// only a literal test expression yields a known value; everything else,
// including any identifier or call, is Unknown.
func (b *builder) constantTruthiness(n *sitter.Node) truthValue {
	if n == nil {
		return truthUnknown
	}
	n = cst.UnwrapParens(n)
	switch n.Type() {
	case "true":
		return truthTruthy
	case "false":
		return truthFalsy
	case "null":
		return truthFalsy
	case "number":
		v := cst.ParseNumeric(n.Content(b.src))
		if v.Kind == cst.NumericNaN {
			return truthUnknown
		}
		if v.Truthy() {
			return truthTruthy
		}
		return truthFalsy
	case "string":
		if len(n.Content(b.src)) <= 2 { // just the quote characters: empty string
			return truthFalsy
		}
		return truthTruthy
	case "regex":
		return truthTruthy
	default:
		return truthUnknown
	}
}

// branch2 is the shared two-way fork-then-merge used by if/ternary,
// logical &&/||/?? and optional chaining: it evaluates buildThen and
// buildElse against their own segment heads (pruning whichever branch
// constant-truthiness rules out as unreachable) and merges the results
// back into fr.current.
func (b *builder) branch2(fr *frame, cond truthValue, buildThen, buildElse func()) {
	entry := b.reduceToSingle(fr)

	thenReach := cond != truthFalsy
	elseReach := cond != truthTruthy

	saved := fr.current
	thenSeg := b.newSegment(thenReach, []arena.ID[Segment]{entry})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{thenSeg}}
	if buildThen != nil {
		buildThen()
	}
	thenHead := fr.current
	fr.current = saved

	elseSeg := b.newSegment(elseReach, []arena.ID[Segment]{entry})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{elseSeg}}
	if buildElse != nil {
		buildElse()
	}
	elseHead := fr.current

	fr.current = b.mergeHeads(thenHead, elseHead)
}

func (b *builder) ifStatement(fr *frame, n *sitter.Node) {
	cond := cst.UnwrapParens(n.ChildByFieldName("condition"))
	b.expression(fr, cond)
	truth := b.constantTruthiness(cond)
	thenNode := n.ChildByFieldName("consequence")
	elseNode := n.ChildByFieldName("alternative")
	b.branch2(fr, truth,
		func() {
			if thenNode != nil {
				b.statement(fr, thenNode)
			}
		},
		func() {
			if elseNode != nil {
				b.statement(fr, elseNode)
			}
		},
	)
}

func (b *builder) ternaryExpression(fr *frame, n *sitter.Node) {
	cond := cst.UnwrapParens(n.ChildByFieldName("condition"))
	b.expression(fr, cond)
	truth := b.constantTruthiness(cond)
	cons := n.ChildByFieldName("consequence")
	alt := n.ChildByFieldName("alternative")
	b.branch2(fr, truth,
		func() { b.expression(fr, cons) },
		func() { b.expression(fr, alt) },
	)
}

func operatorText(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			continue
		}
		switch c.Content(src) {
		case "&&", "||", "??":
			return c.Content(src)
		}
	}
	return ""
}

// binaryExpression handles both ordinary binary operators (walked
// unconditionally, left then right) and the three short-circuiting
// logical operators, which fork: the right operand's evaluation is
// conditioned on the left (spec.md §4.3 "made logical right").
func (b *builder) binaryExpression(fr *frame, n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	op := operatorText(n, b.src)

	if op == "" {
		b.expression(fr, left)
		b.expression(fr, right)
		return
	}

	b.expression(fr, left)
	truth := b.constantTruthiness(left)
	evalRight := func() { b.expression(fr, right) }
	skip := func() {}

	switch op {
	case "&&":
		b.branch2(fr, truth, evalRight, skip)
	case "||":
		b.branch2(fr, truth, skip, evalRight)
	case "??":
		b.branch2(fr, truthUnknown, skip, evalRight)
	}
}

// chainableExpression handles member/subscript/call expressions. Every such
// node for which cst.IsChainHead holds forks after its object/callee is
// evaluated: the "then" branch evaluates the node's remaining children, the
// "else" branch skips them, and the two merge before the enclosing node
// continues (spec.md §4.3 "makes optional right"). A nested chain such as
// `a?.b.c` therefore forks once per level (at `a?.b` and again at the
// outer `.c`), and an inner short-circuit rejoins before the outer level.
func (b *builder) chainableExpression(fr *frame, n *sitter.Node) {
	if !cst.IsChainHead(n) {
		b.childrenOf(fr, n)
		return
	}
	obj := n.ChildByFieldName("object")
	if obj == nil {
		obj = n.ChildByFieldName("function")
	}
	b.expression(fr, obj)
	b.branch2(fr, truthUnknown,
		func() { b.childrenExcept(fr, n, obj) },
		func() {},
	)
}

func labelText(n *sitter.Node, field string, src []byte) string {
	lbl := n.ChildByFieldName(field)
	if lbl == nil {
		return ""
	}
	return lbl.Content(src)
}

func (b *builder) findLoopTarget(fr *frame, label string) *loopTarget {
	for i := len(fr.loopStack) - 1; i >= 0; i-- {
		lt := fr.loopStack[i]
		if label == "" || lt.label == label {
			return lt
		}
	}
	return nil
}

// completeFlow handles return/throw/break/continue uniformly: it reduces
// the current head to one segment, either dispatches it immediately to
// its destination or, if an enclosing try has a finally clause, defers it
// for the finally body to re-dispatch (spec.md §8 scenario S6), then sets
// current to a fresh unreachable segment. That segment has no Next
// predecessor; it is linked from the completed segment only through
// AllNext (an exit edge), so TraverseAllSegments still reaches the dead
// code that follows while TraverseSegments does not.
func (b *builder) completeFlow(fr *frame, kind, label string) {
	seg := b.reduceToSingle(fr)
	b.dispatchCompletion(fr, kind, label, seg)
	dead := b.newSegment(false, nil)
	from := b.set.segments.Get(seg)
	from.AllNext = append(from.AllNext, dead)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{dead}}
}

func (b *builder) dispatchCompletion(fr *frame, kind, label string, seg arena.ID[Segment]) {
	if len(fr.tryStack) > 0 {
		tf := fr.tryStack[len(fr.tryStack)-1]
		if tf.hasFinally {
			tf.finallyPending = append(tf.finallyPending, pendingCompletion{kind: kind, label: label, from: seg})
			return
		}
	}
	b.finalizeCompletion(fr, kind, label, seg)
}

func (b *builder) finalizeCompletion(fr *frame, kind, label string, seg arena.ID[Segment]) {
	switch kind {
	case "return":
		fr.path.Returned = append(fr.path.Returned, seg)
	case "throw":
		fr.path.Thrown = append(fr.path.Thrown, seg)
	case "break":
		if lt := b.findLoopTarget(fr, label); lt != nil {
			lt.breakSegs = append(lt.breakSegs, seg)
		}
	case "continue":
		if lt := b.findLoopTarget(fr, label); lt != nil {
			lt.continueSegs = append(lt.continueSegs, seg)
		}
	}
}

func (b *builder) returnStatement(fr *frame, n *sitter.Node) {
	if n.NamedChildCount() > 0 {
		b.expression(fr, n.NamedChild(0))
	}
	b.completeFlow(fr, "return", "")
}

func (b *builder) throwStatement(fr *frame, n *sitter.Node) {
	if n.NamedChildCount() > 0 {
		b.expression(fr, n.NamedChild(0))
	}
	if len(fr.tryStack) > 0 {
		tf := fr.tryStack[len(fr.tryStack)-1]
		tf.possiblyThrowing = append(tf.possiblyThrowing, b.reduceToSingle(fr))
	}
	b.completeFlow(fr, "throw", "")
}

func (b *builder) breakStatement(fr *frame, n *sitter.Node) {
	b.completeFlow(fr, "break", labelText(n, "label", b.src))
}

func (b *builder) continueStatement(fr *frame, n *sitter.Node) {
	b.completeFlow(fr, "continue", labelText(n, "label", b.src))
}

func (b *builder) labeledStatement(fr *frame, n *sitter.Node) {
	label := labelText(n, "label", b.src)
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	switch body.Type() {
	case "while_statement":
		b.whileStatement(fr, body, label)
	case "do_statement":
		b.doWhileStatement(fr, body, label)
	case "for_statement":
		b.forStatement(fr, body, label)
	case "for_in_statement":
		b.forInStatement(fr, body, label)
	default:
		lt := &loopTarget{label: label}
		fr.loopStack = append(fr.loopStack, lt)
		b.statement(fr, body)
		fr.loopStack = fr.loopStack[:len(fr.loopStack)-1]
		if len(lt.breakSegs) > 0 {
			prevs := append(append([]arena.ID[Segment]{}, fr.current.Segments...), lt.breakSegs...)
			seg := b.newSegment(anyReachable(b.set, prevs), prevs)
			fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{seg}}
		}
	}
}

func (b *builder) switchStatement(fr *frame, n *sitter.Node) {
	discriminant := n.ChildByFieldName("value")
	b.expression(fr, discriminant)
	entry := b.reduceToSingle(fr)

	lt := &loopTarget{}
	fr.loopStack = append(fr.loopStack, lt)

	body := n.ChildByFieldName("body")
	fallthroughSegs := []arena.ID[Segment]{entry}
	sawDefault := false

	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			clause := body.NamedChild(i)
			if clause.Type() != "switch_case" && clause.Type() != "switch_default" {
				continue
			}
			if clause.Type() == "switch_default" {
				sawDefault = true
			}
			prevs := append([]arena.ID[Segment]{entry}, fallthroughSegs...)
			testSeg := b.newSegment(anyReachable(b.set, prevs), prevs)
			fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{testSeg}}
			for j := 0; j < int(clause.NamedChildCount()); j++ {
				stmt := clause.NamedChild(j)
				if stmt.Type() == "switch_case" || stmt.Type() == "switch_default" {
					continue
				}
				b.statement(fr, stmt)
			}
			fallthroughSegs = fr.current.Segments
		}
	}

	fr.loopStack = fr.loopStack[:len(fr.loopStack)-1]

	joinPrevs := append([]arena.ID[Segment]{}, lt.breakSegs...)
	joinPrevs = append(joinPrevs, fallthroughSegs...)
	if !sawDefault {
		joinPrevs = append(joinPrevs, entry)
	}
	if len(joinPrevs) == 0 {
		joinPrevs = []arena.ID[Segment]{entry}
	}

	fc := b.newForkContext()
	for _, s := range joinPrevs {
		fc.Add(Head{Depth: 0, Segments: []arena.ID[Segment]{s}})
	}
	merge := func(a, c arena.ID[Segment]) arena.ID[Segment] {
		return b.newSegment(anyReachable(b.set, []arena.ID[Segment]{a, c}), []arena.ID[Segment]{a, c})
	}
	reduced := fc.Collapse(merge)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{reduced}}
}

func (b *builder) whileStatement(fr *frame, n *sitter.Node, label string) {
	entry := b.reduceToSingle(fr)
	cond := cst.UnwrapParens(n.ChildByFieldName("condition"))

	lt := &loopTarget{label: label}
	fr.loopStack = append(fr.loopStack, lt)

	testSeg := b.newSegment(true, []arena.ID[Segment]{entry})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{testSeg}}
	b.expression(fr, cond)
	truth := b.constantTruthiness(cond)

	bodyReach := truth != truthFalsy
	bodySeg := b.newSegment(bodyReach, []arena.ID[Segment]{testSeg})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{bodySeg}}
	b.statement(fr, n.ChildByFieldName("body"))
	bodyExit := fr.current

	if truth != truthFalsy {
		for _, s := range append(append([]arena.ID[Segment]{}, bodyExit.Segments...), lt.continueSegs...) {
			b.connectLooped(s, testSeg)
		}
	}

	fr.loopStack = fr.loopStack[:len(fr.loopStack)-1]

	postPrevs := append([]arena.ID[Segment]{}, lt.breakSegs...)
	if truth != truthTruthy {
		postPrevs = append(postPrevs, testSeg)
	}
	post := b.newSegment(anyReachable(b.set, postPrevs), postPrevs)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{post}}
}

func (b *builder) doWhileStatement(fr *frame, n *sitter.Node, label string) {
	entry := b.reduceToSingle(fr)

	lt := &loopTarget{label: label}
	fr.loopStack = append(fr.loopStack, lt)

	bodySeg := b.newSegment(true, []arena.ID[Segment]{entry})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{bodySeg}}
	b.statement(fr, n.ChildByFieldName("body"))
	bodyExit := fr.current

	cond := cst.UnwrapParens(n.ChildByFieldName("condition"))
	testPrevs := append(append([]arena.ID[Segment]{}, bodyExit.Segments...), lt.continueSegs...)
	testSeg := b.newSegment(anyReachable(b.set, testPrevs), testPrevs)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{testSeg}}
	b.expression(fr, cond)
	truth := b.constantTruthiness(cond)

	if truth != truthFalsy {
		b.connectLooped(testSeg, bodySeg)
	}

	fr.loopStack = fr.loopStack[:len(fr.loopStack)-1]

	postPrevs := append([]arena.ID[Segment]{}, lt.breakSegs...)
	if truth != truthTruthy {
		postPrevs = append(postPrevs, testSeg)
	}
	post := b.newSegment(anyReachable(b.set, postPrevs), postPrevs)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{post}}
}

func (b *builder) forStatement(fr *frame, n *sitter.Node, label string) {
	if init := n.ChildByFieldName("initializer"); init != nil {
		b.node(fr, init)
	}
	entry := b.reduceToSingle(fr)

	cond := n.ChildByFieldName("condition")
	noTest := cond == nil
	truth := truthUnknown

	lt := &loopTarget{label: label}
	fr.loopStack = append(fr.loopStack, lt)

	testSeg := b.newSegment(true, []arena.ID[Segment]{entry})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{testSeg}}
	if !noTest {
		cond = cst.UnwrapParens(cond)
		b.expression(fr, cond)
		truth = b.constantTruthiness(cond)
	}

	bodyReach := truth != truthFalsy
	bodySeg := b.newSegment(bodyReach, []arena.ID[Segment]{testSeg})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{bodySeg}}
	b.statement(fr, n.ChildByFieldName("body"))
	bodyExit := fr.current

	updatePrevs := append(append([]arena.ID[Segment]{}, bodyExit.Segments...), lt.continueSegs...)
	updateSeg := b.newSegment(anyReachable(b.set, updatePrevs), updatePrevs)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{updateSeg}}
	if inc := n.ChildByFieldName("increment"); inc != nil {
		b.expression(fr, inc)
	}
	b.connectLooped(b.reduceToSingle(fr), testSeg)

	fr.loopStack = fr.loopStack[:len(fr.loopStack)-1]

	// §9 open question: a missing test is treated as always-true for
	// reachability, but the post-loop segment is NOT pruned on that basis
	// alone — "do not assume pruning."
	prune := !noTest && truth == truthTruthy
	postPrevs := append([]arena.ID[Segment]{}, lt.breakSegs...)
	if !prune {
		postPrevs = append(postPrevs, testSeg)
	}
	post := b.newSegment(anyReachable(b.set, postPrevs), postPrevs)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{post}}
}

func (b *builder) forInStatement(fr *frame, n *sitter.Node, label string) {
	if right := n.ChildByFieldName("right"); right != nil {
		b.expression(fr, right)
	}
	entry := b.reduceToSingle(fr)

	lt := &loopTarget{label: label}
	fr.loopStack = append(fr.loopStack, lt)

	// the "more elements?" test has no syntactic form to inspect, so it is
	// always of unknown constant truthiness.
	testSeg := b.newSegment(true, []arena.ID[Segment]{entry})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{testSeg}}

	bodySeg := b.newSegment(true, []arena.ID[Segment]{testSeg})
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{bodySeg}}
	if left := n.ChildByFieldName("left"); left != nil {
		// the iteration variable is written once per turn, not read here.
		b.childrenOf(fr, left)
	}
	b.statement(fr, n.ChildByFieldName("body"))
	bodyExit := fr.current

	for _, s := range append(append([]arena.ID[Segment]{}, bodyExit.Segments...), lt.continueSegs...) {
		b.connectLooped(s, testSeg)
	}

	fr.loopStack = fr.loopStack[:len(fr.loopStack)-1]

	postPrevs := append(append([]arena.ID[Segment]{}, lt.breakSegs...), testSeg)
	post := b.newSegment(anyReachable(b.set, postPrevs), postPrevs)
	fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{post}}
}

// tryStatement implements try/catch/finally, including the finally
// re-dispatch behavior of spec.md §8 scenario S6: a return/throw/break/
// continue inside the try or catch body is deferred until the finally
// body has run, then re-applied from a segment that follows it, so
// "the finally-block segment precedes every returned segment" and
// "final segments include the finally-exit."
func (b *builder) tryStatement(fr *frame, n *sitter.Node) {
	tryBlock := n.ChildByFieldName("body")
	catchClause := n.ChildByFieldName("handler")
	finallyClause := n.ChildByFieldName("finalizer")

	preTry := fr.current

	tf := &tryFrame{hasFinally: finallyClause != nil}
	fr.tryStack = append(fr.tryStack, tf)
	b.statement(fr, tryBlock)
	afterTry := fr.current

	// the catch body's own completions must still defer to this try's
	// finally, so tf stays on the stack until catch has been built too.
	var afterCatch Head
	haveCatch := catchClause != nil
	if haveCatch {
		seedPrevs := tf.possiblyThrowing
		if len(seedPrevs) == 0 {
			// documented simplification: only explicit throw statements are
			// tracked as possibly-throwing, so an observed-throw-free try
			// block still seeds the catch reachably from its own entry
			// rather than marking it permanently unreachable.
			seedPrevs = preTry.Segments
		}
		catchSeg := b.newSegment(anyReachable(b.set, seedPrevs), seedPrevs)
		fr.current = Head{Depth: 0, Segments: []arena.ID[Segment]{catchSeg}}
		b.statement(fr, catchClause.ChildByFieldName("body"))
		afterCatch = fr.current
	}
	fr.tryStack = fr.tryStack[:len(fr.tryStack)-1]

	var joined Head
	if haveCatch {
		joined = b.mergeHeads(afterTry, afterCatch)
	} else {
		joined = afterTry
	}
	fr.current = joined

	if finallyClause != nil {
		b.statement(fr, finallyClause.ChildByFieldName("body"))
		finallyExit := fr.current

		for _, comp := range tf.finallyPending {
			dispatched := b.newSegment(anyReachable(b.set, finallyExit.Segments), finallyExit.Segments)
			b.dispatchCompletion(fr, comp.kind, comp.label, dispatched)
		}
		fr.current = finallyExit
	}
}

func (b *builder) buildNestedFunction(fr *frame, n *sitter.Node) {
	child := b.buildCodePath(OriginFunction, n, fr)
	body := n.ChildByFieldName("body")
	if body == nil {
		b.finishCodePath(child)
		return
	}
	if body.Type() == "statement_block" {
		b.statement(child, body)
	} else {
		// arrow function concise body: an implicit return of the expression.
		b.expression(child, body)
		b.completeFlow(child, "return", "")
	}
	b.finishCodePath(child)
}

func (b *builder) classBody(fr *frame, n *sitter.Node) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_definition":
			b.buildNestedFunction(fr, member)
		case "field_definition", "public_field_definition":
			if val := member.ChildByFieldName("value"); val != nil {
				child := b.buildCodePath(OriginClassFieldInitializer, member, fr)
				b.expression(child, val)
				b.finishCodePath(child)
			}
		case "class_static_block":
			child := b.buildCodePath(OriginClassStaticBlock, member, fr)
			if blockBody := member.ChildByFieldName("body"); blockBody != nil {
				b.statement(child, blockBody)
			} else {
				b.statement(child, member)
			}
			b.finishCodePath(child)
		}
	}
}
