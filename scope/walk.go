package scope

import (
	"github.com/viant/jslint/arena"
	"github.com/viant/jslint/cst"

	sitter "github.com/smacker/go-tree-sitter"
)

// statement dispatches a single statement node in scope cur, recording
// whatever declarations and references it introduces. Unrecognized
// statement shapes fall back to a generic recursive descent so an
// unhandled grammar node never silently drops its descendants.
func (w *walker) statement(n *sitter.Node, cur arena.ID[Scope]) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			w.statement(decl, cur)
		} else {
			w.walkNamedChildren(n, cur)
		}
	case "import_statement":
		w.importStatement(n, cur)
	case "variable_declaration", "lexical_declaration":
		w.variableDeclaration(n, cur)
	case "function_declaration", "generator_function_declaration":
		w.functionDeclaration(n, cur)
	case "class_declaration":
		w.classLike(n, cur, true)
	case "if_statement":
		w.expression(n.ChildByFieldName("condition"), cur)
		w.statement(n.ChildByFieldName("consequence"), cur)
		w.statement(n.ChildByFieldName("alternative"), cur)
	case "for_statement":
		w.forStatement(n, cur)
	case "for_in_statement":
		w.forInStatement(n, cur)
	case "while_statement":
		w.expression(n.ChildByFieldName("condition"), cur)
		w.statement(n.ChildByFieldName("body"), cur)
	case "do_statement":
		w.statement(n.ChildByFieldName("body"), cur)
		w.expression(n.ChildByFieldName("condition"), cur)
	case "statement_block":
		w.block(n, cur)
	case "return_statement", "throw_statement":
		if n.NamedChildCount() > 0 {
			w.expression(n.NamedChild(0), cur)
		}
	case "try_statement":
		w.tryStatement(n, cur)
	case "switch_statement":
		w.switchStatement(n, cur)
	case "with_statement":
		w.withStatement(n, cur)
	case "labeled_statement":
		if body := n.ChildByFieldName("body"); body != nil {
			w.statement(body, cur)
		} else if n.NamedChildCount() > 0 {
			w.statement(n.NamedChild(n.NamedChildCount()-1), cur)
		}
	case "expression_statement":
		w.walkNamedChildren(n, cur)
	case "break_statement", "continue_statement", "empty_statement", "debugger_statement":
		// no bindings or references
	default:
		w.walkNamedChildren(n, cur)
	}
}

func (w *walker) walkNamedChildren(n *sitter.Node, cur arena.ID[Scope]) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.expression(n.NamedChild(i), cur)
	}
}

// block opens a Block scope for a `{...}` statement list unless Optimistic
// is set and the block declares no block-scoped bindings (spec.md §4.2
// "Block scope creation is conditional").
func (w *walker) block(n *sitter.Node, cur arena.ID[Scope]) {
	target := cur
	opened := false
	if !w.cfg.Optimistic || blockDeclaresLexical(n) {
		target = w.openScope(Block, n, n, cur)
		opened = true
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.statement(n.NamedChild(i), target)
	}
	if opened {
		w.closeScope(target)
	}
}

func blockDeclaresLexical(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch n.NamedChild(i).Type() {
		case "lexical_declaration", "class_declaration", "function_declaration", "generator_function_declaration":
			return true
		}
	}
	return false
}

// ---- declarations -------------------------------------------------

func (w *walker) importStatement(n *sitter.Node, cur arena.ID[Scope]) {
	clause := n.ChildByFieldName("import_clause")
	if clause == nil {
		// fall back to scanning named children for any clause-shaped node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "import_clause" {
				clause = n.NamedChild(i)
				break
			}
		}
	}
	if clause == nil {
		return
	}
	w.importBindings(clause, cur)
}

func (w *walker) importBindings(n *sitter.Node, cur arena.ID[Scope]) {
	switch n.Type() {
	case "identifier":
		w.declare(cur, n.Content(w.src), VariableTagImportBinding, n, n, 0)
	case "namespace_import":
		if n.NamedChildCount() > 0 {
			id := n.NamedChild(n.NamedChildCount() - 1)
			w.declare(cur, id.Content(w.src), VariableTagImportBinding, id, n, 0)
		}
	case "named_imports":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			w.importBindings(n.NamedChild(i), cur)
		}
	case "import_specifier":
		local := n.ChildByFieldName("alias")
		if local == nil {
			local = n.ChildByFieldName("name")
		}
		if local != nil {
			w.declare(cur, local.Content(w.src), VariableTagImportBinding, local, n, 0)
		}
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			w.importBindings(n.NamedChild(i), cur)
		}
	}
}

func (w *walker) variableDeclaration(n *sitter.Node, cur arena.ID[Scope]) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		declarator := n.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		name := declarator.ChildByFieldName("name")
		value := declarator.ChildByFieldName("value")
		if value != nil {
			w.expression(value, cur)
		}
		if name != nil {
			w.bindPattern(name, cur, VariableTagVariable, n, value, value != nil, false)
		}
	}
}

// bindPattern recursively declares (for identifier targets) or walks (for
// non-binding sub-expressions, e.g. default-value initializers) a
// destructuring pattern. declNode is passed to declare() so hoisting can
// inspect its ancestry via isVarTag.
func (w *walker) bindPattern(n *sitter.Node, cur arena.ID[Scope], tag VariableTag, declNode, initExpr *sitter.Node, isInit, partial bool) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier":
		w.declare(cur, n.Content(w.src), tag, n, declNode, 0)
		if isInit {
			w.reference(cur, n, false, true, initExpr, true, partial)
		}
	case "array_pattern":
		elements := cst.IterateElements(n)
		for i, el := range elements {
			if el.Hole || el.Node == nil {
				continue
			}
			rest := el.Node.Type() == "rest_pattern"
			isLastRest := rest
			elPartial := partial
			if isLastRest {
				// the rest element itself is never partial; earlier
				// siblings become partial once a rest element follows
			} else if hasRestAfter(elements, i) {
				elPartial = true
			}
			w.bindPattern(el.Node, cur, tag, declNode, initExpr, isInit, elPartial)
		}
	case "rest_pattern":
		if n.NamedChildCount() > 0 {
			w.bindPattern(n.NamedChild(0), cur, tag, declNode, initExpr, isInit, false)
		}
	case "object_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "shorthand_property_identifier_pattern":
				w.bindPattern(child, cur, tag, declNode, initExpr, isInit, partial)
			case "pair_pattern":
				value := child.ChildByFieldName("value")
				w.bindPattern(value, cur, tag, declNode, initExpr, isInit, partial)
			case "rest_pattern":
				w.bindPattern(child, cur, tag, declNode, initExpr, isInit, partial)
			case "object_assignment_pattern", "assignment_pattern":
				left := child.ChildByFieldName("left")
				right := child.ChildByFieldName("right")
				if right != nil {
					w.expression(right, cur)
				}
				w.bindPattern(left, cur, tag, declNode, initExpr, isInit, partial)
			}
		}
	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if right != nil {
			w.expression(right, cur)
		}
		w.bindPattern(left, cur, tag, declNode, initExpr, isInit, partial)
	default:
		// parenthesized or unexpected pattern shape: try the unwrapped form
		if u := unwrap(n); u != n {
			w.bindPattern(u, cur, tag, declNode, initExpr, isInit, partial)
		}
	}
}

func hasRestAfter(elements []cst.Element, i int) bool {
	for j := i + 1; j < len(elements); j++ {
		if elements[j].Node != nil && elements[j].Node.Type() == "rest_pattern" {
			return true
		}
	}
	return false
}

func (w *walker) functionDeclaration(n *sitter.Node, cur arena.ID[Scope]) {
	nameNode := n.ChildByFieldName("name")
	if nameNode != nil {
		w.declare(cur, nameNode.Content(w.src), VariableTagFunctionName, nameNode, n, 0)
	}
	w.functionLike(n, cur, nil)
}

// functionLike opens the Function scope for any function-shaped node
// (function_declaration, function_expression, generator_function,
// generator_function_declaration, method_definition, arrow_function),
// binds its parameters, then walks its body. wrapperName is non-nil only
// for a named function expression, which additionally gets a
// FunctionExpressionName wrapper scope (spec.md §3 Scope Kind table).
func (w *walker) functionLike(n *sitter.Node, cur arena.ID[Scope], wrapperName *sitter.Node) {
	declScope := cur
	if wrapperName != nil {
		wrapper := w.openScope(FunctionExpressionName, n, n, cur)
		w.declare(wrapper, wrapperName.Content(w.src), VariableTagFunctionName, wrapperName, n, 0)
		declScope = wrapper
	}

	fn := w.openScope(Function, n, n, declScope)
	if wrapperName != nil {
		w.m.scopes.Get(fn).FunctionExpressionScope = true
	}

	for _, p := range cst.FunctionParams(n) {
		w.parameter(p, fn)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				w.statement(body.NamedChild(i), fn)
			}
		} else {
			// arrow function with an expression body
			w.expression(body, fn)
		}
	}

	w.closeScope(fn)
	if wrapperName != nil {
		w.closeScope(declScope)
	}
}

func (w *walker) parameter(n *sitter.Node, fn arena.ID[Scope]) {
	n = unwrap(n)
	switch n.Type() {
	case "identifier":
		w.declare(fn, n.Content(w.src), VariableTagParameter, n, n, 0)
	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if right != nil {
			w.expression(right, fn)
		}
		w.bindPattern(left, fn, VariableTagParameter, n, right, right != nil, false)
	case "rest_pattern":
		if n.NamedChildCount() > 0 {
			w.bindPattern(n.NamedChild(0), fn, VariableTagParameter, n, nil, false, false)
		}
	case "array_pattern", "object_pattern":
		w.bindPattern(n, fn, VariableTagParameter, n, nil, false, false)
	default:
		w.bindPattern(n, fn, VariableTagParameter, n, nil, false, false)
	}
}

// ---- classes --------------------------------------------------------

func (w *walker) classLike(n *sitter.Node, cur arena.ID[Scope], isDeclaration bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode != nil && isDeclaration {
		w.declare(cur, nameNode.Content(w.src), VariableTagClassName, nameNode, n, 0)
	}
	heritage := n.ChildByFieldName("superclass")
	if heritage != nil {
		w.expression(heritage, cur)
	}

	class := w.openScope(Class, n, n, cur)
	if nameNode != nil && !isDeclaration {
		w.declare(class, nameNode.Content(w.src), VariableTagClassName, nameNode, n, 0)
	}

	body := n.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			w.classMember(body.NamedChild(i), class)
		}
	}
	w.closeScope(class)
}

func (w *walker) classMember(n *sitter.Node, class arena.ID[Scope]) {
	switch n.Type() {
	case "method_definition":
		w.functionLike(n, class, nil)
	case "field_definition", "public_field_definition":
		value := n.ChildByFieldName("value")
		if value == nil {
			return
		}
		init := w.openScope(ClassFieldInitializer, n, n, class)
		w.expression(value, init)
		w.closeScope(init)
	case "class_static_block":
		block := w.openScope(ClassStaticBlock, n, n, class)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			w.statement(n.NamedChild(i), block)
		}
		w.closeScope(block)
	}
}

// ---- control flow constructs that open scopes ------------------------

func (w *walker) forStatement(n *sitter.Node, cur arena.ID[Scope]) {
	init := n.ChildByFieldName("initializer")
	needsScope := init != nil && (init.Type() == "lexical_declaration")
	target := cur
	if needsScope {
		target = w.openScope(For, n, n, cur)
	}
	if init != nil {
		w.statement(init, target)
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		w.expression(cond, target)
	}
	if inc := n.ChildByFieldName("increment"); inc != nil {
		w.expression(inc, target)
	}
	w.statement(n.ChildByFieldName("body"), target)
	if needsScope {
		w.closeScope(target)
	}
}

func (w *walker) forInStatement(n *sitter.Node, cur arena.ID[Scope]) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	needsScope := left != nil && (left.Type() == "lexical_declaration" || isDeclarationKeywordNode(left))
	target := cur
	if needsScope {
		target = w.openScope(For, n, n, cur)
	}
	if right != nil {
		w.expression(right, cur)
	}
	if left != nil {
		switch left.Type() {
		case "lexical_declaration", "variable_declaration":
			w.variableDeclaration(left, target)
		default:
			w.assignTarget(left, target, nil, false, false)
		}
	}
	w.statement(n.ChildByFieldName("body"), target)
	if needsScope {
		w.closeScope(target)
	}
}

func isDeclarationKeywordNode(n *sitter.Node) bool {
	return n.Type() == "variable_declaration"
}

func (w *walker) tryStatement(n *sitter.Node, cur arena.ID[Scope]) {
	if body := n.ChildByFieldName("body"); body != nil {
		w.statement(body, cur)
	}
	if handler := n.ChildByFieldName("handler"); handler != nil {
		w.catchClause(handler, cur)
	}
	if fin := n.ChildByFieldName("finalizer"); fin != nil {
		w.statement(fin, cur)
	}
}

func (w *walker) catchClause(n *sitter.Node, cur arena.ID[Scope]) {
	catch := w.openScope(Catch, n, n, cur)
	if param := n.ChildByFieldName("parameter"); param != nil {
		w.bindPattern(param, catch, VariableTagCatchClause, n, nil, false, false)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			w.statement(body.NamedChild(i), catch)
		}
	}
	w.closeScope(catch)
}

func (w *walker) switchStatement(n *sitter.Node, cur arena.ID[Scope]) {
	if val := n.ChildByFieldName("value"); val != nil {
		w.expression(val, cur)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	sw := w.openScope(Switch, n, body, cur)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		caseNode := body.NamedChild(i)
		valueNode := caseNode.ChildByFieldName("value")
		if valueNode != nil {
			w.expression(valueNode, sw)
		}
		for j := 0; j < int(caseNode.NamedChildCount()); j++ {
			child := caseNode.NamedChild(j)
			if child == valueNode {
				continue
			}
			w.statement(child, sw)
		}
	}
	w.closeScope(sw)
}

func (w *walker) withStatement(n *sitter.Node, cur arena.ID[Scope]) {
	if obj := n.ChildByFieldName("object"); obj != nil {
		w.expression(obj, cur)
	}
	with := w.openScope(With, n, n, cur)
	w.statement(n.ChildByFieldName("body"), with)
	w.closeScope(with)
}

// ---- expressions ------------------------------------------------------

func (w *walker) expression(n *sitter.Node, cur arena.ID[Scope]) {
	if n == nil {
		return
	}
	n = unwrap(n)
	switch n.Type() {
	case "identifier":
		w.reference(cur, n, true, false, nil, false, false)
	case "this":
		w.m.scopes.Get(nearestVariableScope(w, cur)).ThisFound = true
	case "assignment_expression":
		w.assignmentExpression(n, cur)
	case "augmented_assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if right != nil {
			w.expression(right, cur)
		}
		w.compoundAssignTarget(left, cur, right)
	case "update_expression":
		arg := n.ChildByFieldName("argument")
		w.compoundAssignTarget(arg, cur, nil)
	case "call_expression":
		w.callExpression(n, cur)
	case "new_expression":
		if c := n.ChildByFieldName("constructor"); c != nil {
			w.expression(c, cur)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			w.walkNamedChildren(args, cur)
		}
	case "member_expression":
		if obj := n.ChildByFieldName("object"); obj != nil {
			w.expression(obj, cur)
		}
	case "subscript_expression":
		if obj := n.ChildByFieldName("object"); obj != nil {
			w.expression(obj, cur)
		}
		if idx := n.ChildByFieldName("index"); idx != nil {
			w.expression(idx, cur)
		}
	case "function", "function_expression", "generator_function":
		nameNode := n.ChildByFieldName("name")
		w.functionLike(n, cur, nameNode)
	case "arrow_function":
		w.functionLike(n, cur, nil)
	case "class":
		w.classLike(n, cur, false)
	case "object_pattern", "array_pattern":
		// encountered only as an rvalue-position pattern (e.g. default
		// parameter echoed back); treat names inside as reads.
		w.walkNamedChildren(n, cur)
	default:
		w.walkNamedChildren(n, cur)
	}
}

func (w *walker) assignmentExpression(n *sitter.Node, cur arena.ID[Scope]) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if right != nil {
		w.expression(right, cur)
	}
	w.assignTarget(left, cur, right, false, false)
}

func (w *walker) assignTarget(n *sitter.Node, cur arena.ID[Scope], writeExpr *sitter.Node, isInit, partial bool) {
	if n == nil {
		return
	}
	n = unwrap(n)
	switch n.Type() {
	case "identifier":
		w.reference(cur, n, false, true, writeExpr, isInit, partial)
	case "member_expression", "subscript_expression":
		w.expression(n, cur)
	case "array_pattern", "object_pattern", "assignment_pattern", "rest_pattern":
		w.bindPatternAsWrite(n, cur, writeExpr, partial)
	default:
		w.expression(n, cur)
	}
}

// bindPatternAsWrite mirrors bindPattern but for a plain assignment target
// (no declaration involved): identifiers become write references against
// whatever is already in scope, rather than new bindings.
func (w *walker) bindPatternAsWrite(n *sitter.Node, cur arena.ID[Scope], writeExpr *sitter.Node, partial bool) {
	switch n.Type() {
	case "identifier":
		w.reference(cur, n, false, true, writeExpr, false, partial)
	case "array_pattern":
		elements := cst.IterateElements(n)
		for i, el := range elements {
			if el.Hole || el.Node == nil {
				continue
			}
			elPartial := partial || hasRestAfter(elements, i)
			w.assignTarget(el.Node, cur, writeExpr, false, elPartial)
		}
	case "object_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "shorthand_property_identifier_pattern", "identifier":
				w.assignTarget(child, cur, writeExpr, false, partial)
			case "pair_pattern":
				w.assignTarget(child.ChildByFieldName("value"), cur, writeExpr, false, partial)
			case "rest_pattern":
				w.assignTarget(child, cur, writeExpr, false, partial)
			}
		}
	case "rest_pattern":
		if n.NamedChildCount() > 0 {
			w.assignTarget(n.NamedChild(0), cur, writeExpr, false, partial)
		}
	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if right != nil {
			w.expression(right, cur)
		}
		w.assignTarget(left, cur, writeExpr, false, partial)
	}
}

// compoundAssignTarget handles `+=`-style and `++`/`--` targets, which read
// the prior value before writing the new one (spec.md §3 References
// "compound assignment ... read+write").
func (w *walker) compoundAssignTarget(n *sitter.Node, cur arena.ID[Scope], writeExpr *sitter.Node) {
	if n == nil {
		return
	}
	n = unwrap(n)
	switch n.Type() {
	case "identifier":
		w.reference(cur, n, true, true, writeExpr, false, false)
	default:
		w.expression(n, cur)
	}
}

func (w *walker) callExpression(n *sitter.Node, cur arena.ID[Scope]) {
	fn := n.ChildByFieldName("function")
	if fn != nil {
		if !w.cfg.IgnoreEval {
			if id := unwrap(fn); id.Type() == "identifier" && id.Content(w.src) == "eval" {
				w.m.scopes.Get(nearestVariableScope(w, cur)).DirectEvalCall = true
			}
		}
		w.expression(fn, cur)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		w.walkNamedChildren(args, cur)
	}
}
