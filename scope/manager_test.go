package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sitter "github.com/smacker/go-tree-sitter"
)

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

func TestManager_ScopeFor(t *testing.T) {
	tree, src := parseJS(t, `function outer() {
		function inner() {
			let x = 1;
		}
	}`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	root := tree.RootNode()
	letDecl := findNode(root, "lexical_declaration")
	require.NotNil(t, letDecl)

	s := m.ScopeFor(letDecl)
	require.NotNil(t, s)
	assert.Equal(t, Function, s.Kind)
}

func TestManager_DeclaredVariables(t *testing.T) {
	tree, src := parseJS(t, `let a = 1, b = 2;`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	root := tree.RootNode()
	decl := findNode(root, "lexical_declaration")
	require.NotNil(t, decl)

	vars := m.DeclaredVariables(decl)
	require.Len(t, vars, 2)
	names := []string{vars[0].Name, vars[1].Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestManager_ChildScopesAndUpperScope(t *testing.T) {
	tree, src := parseJS(t, `function f() { { let x = 1; } }`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	global := m.GlobalScope()
	require.Len(t, m.ChildScopes(global), 1)

	fn := m.ChildScopes(global)[0]
	assert.Equal(t, Function, fn.Kind)
	children := m.ChildScopes(fn)
	require.Len(t, children, 1)
	assert.Equal(t, Block, children[0].Kind)
	assert.Equal(t, fn.ID(), m.UpperScope(children[0]).ID())
}

func TestManager_ScopesOrderedByCreation(t *testing.T) {
	tree, src := parseJS(t, `function a() {} function b() {}`)
	m, err := Analyze(tree, src)
	require.NoError(t, err)

	scopes := m.Scopes()
	require.True(t, len(scopes) >= 3)
	assert.Equal(t, Global, scopes[0].Kind)
}
