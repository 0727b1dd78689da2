package scope

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/jslint/jsglobals"
)

func parseJS(t *testing.T, src string) (*sitter.Tree, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree, []byte(src)
}

func findVariable(m *Manager, name string) *Variable {
	for _, s := range m.Scopes() {
		for _, v := range m.ScopeVariables(s) {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

// S1: Script implicit global (spec.md §8).
func TestAnalyze_ScriptImplicitGlobal(t *testing.T) {
	tree, src := parseJS(t, "y = 1;")
	m, err := Analyze(tree, src, WithSourceType(SourceScript))
	require.NoError(t, err)

	v := findVariable(m, "y")
	require.NotNil(t, v)
	assert.Equal(t, VariableTagImplicitGlobal, v.Tag)
	assert.Equal(t, m.GlobalScope().ID(), v.Scope)
	require.Len(t, v.References, 1)
	ref := m.references.Get(v.References[0])
	assert.True(t, ref.Write)
	assert.NotNil(t, ref.MaybeImplicitGlobal)
}

// S2: Module strictness (spec.md §8) — a module's top scope is always
// strict and never creates implicit globals from a bare assignment.
func TestAnalyze_ModuleStrictness(t *testing.T) {
	tree, src := parseJS(t, "z = 1;")
	m, err := Analyze(tree, src, WithSourceType(SourceModule))
	require.NoError(t, err)

	var moduleScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Module {
			moduleScope = s
		}
	}
	require.NotNil(t, moduleScope)
	assert.True(t, moduleScope.IsStrict)

	v := findVariable(m, "z")
	if v != nil {
		assert.NotEqual(t, VariableTagImplicitGlobal, v.Tag)
	}
}

// S3: Hoisted var (spec.md §8) — a `var` declared inside a nested block
// is visible (and resolves references) at the enclosing function scope.
func TestAnalyze_HoistedVar(t *testing.T) {
	tree, src := parseJS(t, `function f() {
		if (true) {
			var hoisted = 1;
		}
		return hoisted;
	}`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Function {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)

	var hoisted *Variable
	for _, v := range m.ScopeVariables(fnScope) {
		if v.Name == "hoisted" {
			hoisted = v
		}
	}
	require.NotNil(t, hoisted, "var should hoist to the function scope, not the if-block")
	assert.Equal(t, fnScope.ID(), hoisted.Scope)

	var readRef *Reference
	for _, refID := range hoisted.References {
		ref := m.references.Get(refID)
		if ref.Read {
			readRef = ref
		}
	}
	assert.NotNil(t, readRef, "the return statement's reference to hoisted should resolve")
}

// S4: block-scoped let is not visible outside its block.
func TestAnalyze_BlockScopedLet(t *testing.T) {
	tree, src := parseJS(t, `function f() {
		{
			let inner = 1;
		}
		return inner;
	}`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Function {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)
	for _, v := range m.ScopeVariables(fnScope) {
		assert.NotEqual(t, "inner", v.Name)
	}

	assert.Len(t, fnScope.Through, 1, "the unresolved read of `inner` should escape the function scope")
}

// Invariant 1: every Scope.Upper chain terminates at the global scope.
func TestAnalyze_ScopeChainTerminatesAtGlobal(t *testing.T) {
	tree, src := parseJS(t, `function outer() { function inner() { let x = 1; } }`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	for _, s := range m.Scopes() {
		cur := s
		steps := 0
		for cur.Upper.Valid() {
			cur = m.UpperScope(cur)
			steps++
			require.Less(t, steps, 100, "scope chain should terminate")
		}
		assert.Equal(t, Global, cur.Kind)
	}
}

// Invariant 2: every resolved reference's variable is reachable by walking
// up from the reference's own scope.
func TestAnalyze_ResolvedVariableIsInScopeChain(t *testing.T) {
	tree, src := parseJS(t, `function f(a) { return a + 1; }`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	for _, s := range m.Scopes() {
		for _, ref := range m.ScopeReferences(s) {
			v := m.ResolvedVariable(ref)
			if v == nil {
				continue
			}
			found := false
			for cur := m.FromScope(ref); cur != nil; cur = m.UpperScope(cur) {
				if cur.ID() == v.Scope {
					found = true
					break
				}
			}
			assert.True(t, found, "resolved variable %q must be reachable from its reference's scope", v.Name)
		}
	}
}

// Invariant 6 (a with statement is a resolution frontier): references
// inside a with body never resolve to an outer declaration.
func TestAnalyze_WithStatementBlocksResolution(t *testing.T) {
	tree, src := parseJS(t, `var x = 1;
	with (obj) {
		x;
	}`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var withScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == With {
			withScope = s
		}
	}
	require.NotNil(t, withScope)
	assert.True(t, withScope.Dynamic)
	assert.NotEmpty(t, withScope.Through, "with-scope references must never resolve past it")
}

// Invariant 7: a configured/env global is injected without clobbering an
// explicit declaration of the same name.
func TestAnalyze_GlobalInjectionDoesNotOverrideExplicitDeclaration(t *testing.T) {
	tree, src := parseJS(t, `var console = 42;`)
	m, err := Analyze(tree, src, WithEnv("browser", true))
	require.NoError(t, err)

	v := findVariable(m, "console")
	require.NotNil(t, v)
	assert.Equal(t, VariableTagVariable, v.Tag)
}

func TestAnalyze_CatchClauseBindingScoped(t *testing.T) {
	tree, src := parseJS(t, `try { } catch (e) { e; }`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var caught *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Catch {
			caught = s
		}
	}
	require.NotNil(t, caught)
	vs := m.ScopeVariables(caught)
	require.Len(t, vs, 1)
	assert.Equal(t, "e", vs[0].Name)
	assert.Equal(t, VariableTagCatchClause, vs[0].Tag)
}

func TestAnalyze_DirectEvalCall(t *testing.T) {
	tree, src := parseJS(t, `function f() { eval("1"); }`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Function {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)
	assert.True(t, fnScope.DirectEvalCall)
}

func TestAnalyze_ThisFound(t *testing.T) {
	tree, src := parseJS(t, `function f() { return this.x; }`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Function {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)
	assert.True(t, fnScope.ThisFound)
}

func TestAnalyze_DestructuringRestPartial(t *testing.T) {
	tree, src := parseJS(t, `let [a, b, ...rest] = value;`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	a := findVariable(m, "a")
	require.NotNil(t, a)
	require.Len(t, a.References, 1)
	ref := m.references.Get(a.References[0])
	assert.True(t, ref.Partial)

	rest := findVariable(m, "rest")
	require.NotNil(t, rest)
	require.Len(t, rest.References, 1)
	restRef := m.references.Get(rest.References[0])
	assert.False(t, restRef.Partial)
}

func TestAnalyze_NamedFunctionExpressionWrapper(t *testing.T) {
	tree, src := parseJS(t, `var f = function named() { return named; };`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	var wrapper *Scope
	for _, s := range m.Scopes() {
		if s.Kind == FunctionExpressionName {
			wrapper = s
		}
	}
	require.NotNil(t, wrapper)
	vs := m.ScopeVariables(wrapper)
	require.Len(t, vs, 1)
	assert.Equal(t, "named", vs[0].Name)
	assert.Equal(t, VariableTagFunctionName, vs[0].Tag)

	// the name must not leak to the enclosing scope
	for _, s := range m.Scopes() {
		if s.Kind == Function || s.Kind == FunctionExpressionName {
			continue
		}
		for _, v := range m.ScopeVariables(s) {
			assert.NotEqual(t, "named", v.Name)
		}
	}
}

func TestByEcmaVersionWiring(t *testing.T) {
	// sanity: the merged bundle used by injectGlobals is non-empty and
	// includes the builtin tier regardless of version.
	merged := jsglobals.ByEcmaVersion(2022)
	assert.Equal(t, jsglobals.Readable, merged["undefined"])
}
