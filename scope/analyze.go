package scope

import (
	"fmt"

	"github.com/viant/jslint/arena"
	"github.com/viant/jslint/cst"
	"github.com/viant/jslint/jsglobals"

	sitter "github.com/smacker/go-tree-sitter"
)

// Analyze walks tree once, building the full scope tree, declarations and
// references, then closes every scope from the leaves up, resolving each
// reference to the nearest visible variable (spec.md §4.2). Construction
// never fails on a valid CST (spec.md §4.2 Failure semantics); a malformed
// tree degrades to absent declarations/references rather than an error.
func Analyze(tree *sitter.Tree, src []byte, opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	w := &walker{
		m:   newManager(),
		cfg: cfg,
		src: src,
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("scope: empty parse tree")
	}

	global := w.openScope(Global, root, root, arena.ID[Scope]{})
	w.m.global = global
	w.setVariableScope(global, global)
	w.m.scopes.Get(global).IsStrict = cfg.ImpliedStrict

	cur := global
	if cfg.SourceType == SourceModule {
		moduleScope := w.openScope(Module, root, root, global)
		w.setVariableScope(moduleScope, moduleScope)
		w.m.scopes.Get(moduleScope).IsStrict = true
		cur = moduleScope
	} else if hasUseStrictDirective(root, src) || cfg.ImpliedStrict {
		w.m.scopes.Get(cur).IsStrict = true
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		w.statement(root.NamedChild(i), cur)
	}

	if cur != global {
		w.closeScope(cur)
	}
	w.closeScope(global)
	w.injectGlobals(global)

	return w.m, nil
}

type walker struct {
	m   *Manager
	cfg *Config
	src []byte
}

// ---- scope bookkeeping -----------------------------------------------

func (w *walker) openScope(kind Kind, node, block *sitter.Node, upper arena.ID[Scope]) arena.ID[Scope] {
	s := Scope{
		Kind:  kind,
		Node:  node,
		Block: block,
		Upper: upper,
		names: make(map[string]arena.ID[Variable]),
	}
	id := w.m.scopes.Alloc(s)
	w.m.scopes.Get(id).id = id
	w.m.scopeOrder = append(w.m.scopeOrder, id)
	w.m.opensScope[spanOf(block)] = id

	if upper.Valid() {
		parent := w.m.scopes.Get(upper)
		parent.Children = append(parent.Children, id)
		w.m.scopes.Get(id).VariableScope = parent.VariableScope
		w.m.scopes.Get(id).IsStrict = parent.IsStrict
	}

	switch kind {
	case Function, Module, ClassFieldInitializer, ClassStaticBlock:
		w.setVariableScope(id, id)
	}
	if kind == With {
		w.m.scopes.Get(id).Dynamic = true
	}
	return id
}

func (w *walker) setVariableScope(id, variableScope arena.ID[Scope]) {
	w.m.scopes.Get(id).VariableScope = variableScope
}

// closeScope resolves every reference recorded in or forwarded into s
// against s's own bindings, then forwards the remainder to s's parent
// (except for a With scope, which is a resolution frontier: spec.md §8
// property 6 — identifiers inside a with body never resolve past it).
func (w *walker) closeScope(id arena.ID[Scope]) {
	s := w.m.scopes.Get(id)
	pending := append(append([]arena.ID[Reference]{}, s.References...), s.incoming...)

	var unresolved []arena.ID[Reference]
	for _, refID := range pending {
		ref := w.m.references.Get(refID)
		if varID, ok := s.names[ref.Name]; ok {
			w.resolve(refID, varID)
			continue
		}
		unresolved = append(unresolved, refID)
	}

	if s.Kind == Global {
		unresolved = w.applyImplicitGlobals(id, unresolved)
	}

	s.Through = unresolved
	if s.Kind != With && s.Kind != Global && s.Upper.Valid() {
		parent := w.m.scopes.Get(s.Upper)
		parent.incoming = append(parent.incoming, unresolved...)
	}
}

// applyImplicitGlobals creates a global variable for every still-unresolved
// write reference made from non-strict code (the reference's own scope is
// not strict; a Module scope always is), returning the references that
// remain unresolved afterward (spec.md §4.2 Implicit globals).
func (w *walker) applyImplicitGlobals(globalID arena.ID[Scope], unresolved []arena.ID[Reference]) []arena.ID[Reference] {
	global := w.m.scopes.Get(globalID)
	var stillUnresolved []arena.ID[Reference]
	for _, refID := range unresolved {
		ref := w.m.references.Get(refID)
		if !ref.Write || w.m.scopes.Get(ref.From).IsStrict {
			stillUnresolved = append(stillUnresolved, refID)
			continue
		}
		varID, ok := global.names[ref.Name]
		if !ok {
			varID = w.declareIn(globalID, ref.Name, VariableTagImplicitGlobal, ref.Identifier, ref.Identifier, 0)
			w.m.variables.Get(varID).Writeable = true
		}
		ref.MaybeImplicitGlobal = ref.Identifier
		w.resolve(refID, varID)
	}
	return stillUnresolved
}

// injectGlobals adds the configured/env/ecma-version global bundles to the
// global scope (without overwriting explicit declarations), then
// re-resolves the global scope's Through set against them (spec.md §4.2
// "Global injection").
func (w *walker) injectGlobals(globalID arena.ID[Scope]) {
	global := w.m.scopes.Get(globalID)
	merged := jsglobals.ByEcmaVersion(w.cfg.EcmaVersion)
	for env, enabled := range w.cfg.Env {
		if !enabled {
			continue
		}
		if bundle, ok := jsglobals.Bundle(env); ok {
			for name, wr := range bundle {
				merged[name] = wr
			}
		}
	}
	if w.cfg.SourceType == SourceCommonJS {
		if bundle, ok := jsglobals.Bundle("commonjs"); ok {
			for name, wr := range bundle {
				merged[name] = wr
			}
		}
	}
	if w.cfg.NodejsScope {
		if bundle, ok := jsglobals.Bundle("node"); ok {
			for name, wr := range bundle {
				merged[name] = wr
			}
		}
	}
	for name, wr := range w.cfg.Globals {
		merged[name] = wr
	}

	for name, wr := range merged {
		if wr == jsglobals.Off {
			continue
		}
		if _, exists := global.names[name]; exists {
			continue
		}
		id := w.declareIn(globalID, name, VariableTagVariable, nil, nil, 0)
		w.m.variables.Get(id).Writeable = wr == jsglobals.Writable
	}

	var stillThrough []arena.ID[Reference]
	for _, refID := range global.Through {
		ref := w.m.references.Get(refID)
		if varID, ok := global.names[ref.Name]; ok {
			w.resolve(refID, varID)
			continue
		}
		stillThrough = append(stillThrough, refID)
	}
	global.Through = stillThrough
}

func (w *walker) resolve(refID arena.ID[Reference], varID arena.ID[Variable]) {
	ref := w.m.references.Get(refID)
	ref.Resolved = varID
	v := w.m.variables.Get(varID)
	v.References = append(v.References, refID)
}

// declare registers a new binding for name in the given declaration
// context, hoisting `var`/sloppy function declarations to the nearest
// variable-hoisting scope per the table in spec.md §4.2.
func (w *walker) declare(cur arena.ID[Scope], name string, tag VariableTag, identNode, declNode *sitter.Node, index int) arena.ID[Variable] {
	target := cur
	switch tag {
	case VariableTagParameter, VariableTagCatchClause, VariableTagImportBinding:
		// declared exactly where encountered
	case VariableTagFunctionName:
		if !w.m.scopes.Get(cur).IsStrict {
			target = w.m.scopes.Get(cur).VariableScope
		}
	default:
		if isVarTag(tag, declNode) {
			target = w.m.scopes.Get(cur).VariableScope
		}
	}
	return w.declareIn(target, name, tag, identNode, declNode, index)
}

// isVarTag is a hook point distinguishing `var` (hoisted) from `let`/
// `const`/`class` (block scoped); callers pass the already-resolved tag,
// so this only matters for VariableTagVariable declarations made via the
// `var` keyword, flagged by the caller setting declNode's parent kind.
func isVarTag(tag VariableTag, declNode *sitter.Node) bool {
	if tag != VariableTagVariable || declNode == nil {
		return false
	}
	for n := declNode; n != nil; n = n.Parent() {
		switch n.Type() {
		case "variable_declaration":
			return true
		case "lexical_declaration":
			return false
		}
	}
	return false
}

func (w *walker) declareIn(scopeID arena.ID[Scope], name string, tag VariableTag, identNode, declNode *sitter.Node, index int) arena.ID[Variable] {
	s := w.m.scopes.Get(scopeID)
	if existing, ok := s.names[name]; ok {
		v := w.m.variables.Get(existing)
		if identNode != nil {
			v.Identifiers = append(v.Identifiers, identNode)
		}
		defID := w.m.definitions.Alloc(Definition{Kind: tag, Node: identNode, Parent: declNode, Index: index})
		v.Defs = append(v.Defs, defID)
		if declNode != nil {
			w.m.declaredAt[spanOf(declNode)] = append(w.m.declaredAt[spanOf(declNode)], existing)
		}
		return existing
	}
	v := Variable{Name: name, Scope: scopeID, Tag: tag}
	if identNode != nil {
		v.Identifiers = append(v.Identifiers, identNode)
	}
	id := w.m.variables.Alloc(v)
	w.m.variables.Get(id).id = id
	s.names[name] = id
	s.Variables = append(s.Variables, id)

	defID := w.m.definitions.Alloc(Definition{Kind: tag, Node: identNode, Parent: declNode, Index: index})
	w.m.variables.Get(id).Defs = append(w.m.variables.Get(id).Defs, defID)
	if declNode != nil {
		w.m.declaredAt[spanOf(declNode)] = append(w.m.declaredAt[spanOf(declNode)], id)
	}
	return id
}

func (w *walker) reference(cur arena.ID[Scope], identNode *sitter.Node, read, write bool, writeExpr *sitter.Node, init, partial bool) arena.ID[Reference] {
	ref := Reference{
		Identifier: identNode,
		Name:       identNode.Content(w.src),
		From:       cur,
		Read:       read,
		Write:      write,
		WriteExpr:  writeExpr,
		Init:       init,
		Partial:    partial,
	}
	id := w.m.references.Alloc(ref)
	w.m.scopes.Get(cur).References = append(w.m.scopes.Get(cur).References, id)
	return id
}

func hasUseStrictDirective(block *sitter.Node, src []byte) bool {
	stmts := block
	if stmts == nil {
		return false
	}
	for i := 0; i < int(stmts.NamedChildCount()); i++ {
		stmt := stmts.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			return false
		}
		if stmt.NamedChildCount() == 0 {
			return false
		}
		expr := stmt.NamedChild(0)
		if expr.Type() != "string" {
			return false
		}
		text := expr.Content(src)
		if len(text) >= 2 {
			text = text[1 : len(text)-1]
		}
		if text == "use strict" {
			return true
		}
		return false
	}
	return false
}

func nearestVariableScope(w *walker, cur arena.ID[Scope]) arena.ID[Scope] {
	return w.m.scopes.Get(cur).VariableScope
}

// unwrap recurses through cst.UnwrapParens so every expression dispatch
// point sees the innermost real expression.
func unwrap(n *sitter.Node) *sitter.Node {
	return cst.UnwrapParens(n)
}
