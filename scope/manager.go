package scope

import (
	"github.com/viant/jslint/arena"

	sitter "github.com/smacker/go-tree-sitter"
)

type nodeSpan struct {
	start uint32
	end   uint32
}

func spanOf(n *sitter.Node) nodeSpan {
	return nodeSpan{start: n.StartByte(), end: n.EndByte()}
}

// Manager is the read-only side table rule code queries after analysis
// (spec.md §6 External interfaces). All construction mutation happens
// during Analyze; once returned, a Manager is never mutated again (spec.md
// §5 "becomes read-only").
type Manager struct {
	scopes      *arena.Arena[Scope]
	variables   *arena.Arena[Variable]
	definitions *arena.Arena[Definition]
	references  *arena.Arena[Reference]

	scopeOrder []arena.ID[Scope] // creation order (spec.md §5 ordering guarantees)
	global     arena.ID[Scope]

	opensScope map[nodeSpan]arena.ID[Scope]      // node -> scope it opens
	declaredAt map[nodeSpan][]arena.ID[Variable] // declaration node -> variables introduced there
}

func newManager() *Manager {
	return &Manager{
		scopes:      arena.NewArena[Scope](),
		variables:   arena.NewArena[Variable](),
		definitions: arena.NewArena[Definition](),
		references:  arena.NewArena[Reference](),
		opensScope:  make(map[nodeSpan]arena.ID[Scope]),
		declaredAt:  make(map[nodeSpan][]arena.ID[Variable]),
	}
}

// Scopes returns every scope in creation order.
func (m *Manager) Scopes() []*Scope {
	out := make([]*Scope, 0, len(m.scopeOrder))
	for _, id := range m.scopeOrder {
		out = append(out, m.scopes.Get(id))
	}
	return out
}

// GlobalScope returns the outermost scope.
func (m *Manager) GlobalScope() *Scope {
	return m.scopes.Get(m.global)
}

// ScopeFor returns the nearest enclosing scope for node: it climbs from
// node toward the root CST node, returning the first scope whose opening
// node is reached, preferring the innermost overlapping scope. A named
// function expression's Function scope and its FunctionExpressionName
// wrapper share the same CST node; since the wrapper is opened first and
// the inner Function scope overwrites it in opensScope, querying that
// node (or anything inside it) naturally resolves to the inner Function
// scope, never the wrapper (spec.md §6 get_scope).
func (m *Manager) ScopeFor(node *sitter.Node) *Scope {
	for cur := node; cur != nil; cur = cur.Parent() {
		id, ok := m.opensScope[spanOf(cur)]
		if !ok {
			continue
		}
		return m.scopes.Get(id)
	}
	return nil
}

// DeclaredVariables returns the variables introduced at a declaration node
// (spec.md §6 get_declared_variables).
func (m *Manager) DeclaredVariables(node *sitter.Node) []*Variable {
	ids := m.declaredAt[spanOf(node)]
	out := make([]*Variable, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.variables.Get(id))
	}
	return out
}

// Variable accessors.

func (m *Manager) variable(id arena.ID[Variable]) *Variable { return m.variables.Get(id) }

// referencesOf returns a variable's resolved references.
func (v *Variable) referencesOf(m *Manager) []*Reference {
	out := make([]*Reference, 0, len(v.References))
	for _, id := range v.References {
		out = append(out, m.references.Get(id))
	}
	return out
}

// Reference accessors that need the Manager to dereference arena IDs live
// on Manager rather than on Reference, since Reference itself carries only
// IDs (no back-pointer) per the arena-substrate no-cycles rule (spec.md §4.4).

// IdentifierNode returns the CST node naming this reference.
func (r *Reference) IdentifierNode() *sitter.Node { return r.Identifier }

// ResolvedVariable returns the variable this reference resolved to, or nil
// if unresolved.
func (m *Manager) ResolvedVariable(r *Reference) *Variable {
	if !r.Resolved.Valid() {
		return nil
	}
	return m.variables.Get(r.Resolved)
}

// FromScope returns the scope a reference occurs in.
func (m *Manager) FromScope(r *Reference) *Scope {
	return m.scopes.Get(r.From)
}

// ScopeVariables returns a scope's declared variables in insertion order.
func (m *Manager) ScopeVariables(s *Scope) []*Variable {
	out := make([]*Variable, 0, len(s.Variables))
	for _, id := range s.Variables {
		out = append(out, m.variables.Get(id))
	}
	return out
}

// ScopeReferences returns every reference recorded with From == s.
func (m *Manager) ScopeReferences(s *Scope) []*Reference {
	out := make([]*Reference, 0, len(s.References))
	for _, id := range s.References {
		out = append(out, m.references.Get(id))
	}
	return out
}

// ThroughReferences returns the references that escaped s unresolved
// (spec.md §6's "through" set; on the global scope these are exactly the
// undeclared-identifier uses a no-undef-shaped rule reports).
func (m *Manager) ThroughReferences(s *Scope) []*Reference {
	out := make([]*Reference, 0, len(s.Through))
	for _, id := range s.Through {
		out = append(out, m.references.Get(id))
	}
	return out
}

// VariableDefs returns a variable's definitions.
func (m *Manager) VariableDefs(v *Variable) []*Definition {
	out := make([]*Definition, 0, len(v.Defs))
	for _, id := range v.Defs {
		out = append(out, m.definitions.Get(id))
	}
	return out
}

// VariableReferences returns the references that resolved to v.
func (m *Manager) VariableReferences(v *Variable) []*Reference {
	return v.referencesOf(m)
}

// VariableScopeOf returns the nearest enclosing var-hoisting scope of s.
func (m *Manager) VariableScopeOf(s *Scope) *Scope {
	return m.scopes.Get(s.VariableScope)
}

// UpperScope returns a scope's parent, or nil for the global scope.
func (m *Manager) UpperScope(s *Scope) *Scope {
	if !s.Upper.Valid() {
		return nil
	}
	return m.scopes.Get(s.Upper)
}

// ChildScopes returns a scope's children in creation order.
func (m *Manager) ChildScopes(s *Scope) []*Scope {
	out := make([]*Scope, 0, len(s.Children))
	for _, id := range s.Children {
		out = append(out, m.scopes.Get(id))
	}
	return out
}
