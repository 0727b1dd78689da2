package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/viant/jslint/linter"
)

func analyze(t *testing.T, src string) *linter.FileAnalysis {
	t.Helper()
	l := linter.NewLinter(afs.New())
	a, err := l.AnalyzeSource("inline.js", []byte(src))
	require.NoError(t, err)
	return a
}

func TestNoUndef_FlagsUndeclaredGlobalUse(t *testing.T) {
	a := analyze(t, `function f() { return a + b; } var b;`)
	violations := NoUndef{}.Check(a)
	require.Len(t, violations, 1)
	assert.Equal(t, "a", violations[0].Node.Content([]byte(`function f() { return a + b; } var b;`)))
}

func TestNoUndef_IgnoresTypeofByDefault(t *testing.T) {
	a := analyze(t, `if (typeof a === 'undefined') {}`)
	violations := NoUndef{}.Check(a)
	assert.Empty(t, violations)
}

func TestNoUndef_ConsiderTypeofReportsIt(t *testing.T) {
	a := analyze(t, `if (typeof a === 'undefined') {}`)
	violations := NoUndef{ConsiderTypeof: true}.Check(a)
	assert.Len(t, violations, 1)
}

func TestNoUnreachable_FlagsCodeAfterReturn(t *testing.T) {
	a := analyze(t, `function f() { return 1; g(); }`)
	violations := NoUnreachable{}.Check(a)
	require.Len(t, violations, 1)
	assert.Equal(t, "no-unreachable", violations[0].RuleName)
}

func TestNoUnreachable_NoFalsePositiveOnNormalCode(t *testing.T) {
	a := analyze(t, `function f(a) { if (a) { return 1; } return 2; }`)
	violations := NoUnreachable{}.Check(a)
	assert.Empty(t, violations)
}

func TestNoUnsafeFinally_FlagsReturnInFinally(t *testing.T) {
	a := analyze(t, `var foo = function() { try { return 1 } catch(err) { return 2 } finally { return 3 } }`)
	violations := NoUnsafeFinally{}.Check(a)
	require.Len(t, violations, 1)
	assert.Equal(t, "return_statement", violations[0].Node.Type())
}

func TestNoUnsafeFinally_AllowsNestedFunctionCompletions(t *testing.T) {
	a := analyze(t, `var foo = function() { try { return 1 } catch(err) { return 2 } finally { var a = function(x) { return x } } }`)
	violations := NoUnsafeFinally{}.Check(a)
	assert.Empty(t, violations)
}

func TestNoUnsafeFinally_AllowsBreakTargetingLoopInsideFinally(t *testing.T) {
	a := analyze(t, `var foo = function() { try {} finally { while (true) break; } }`)
	violations := NoUnsafeFinally{}.Check(a)
	assert.Empty(t, violations)
}

func TestNoUnsafeFinally_FlagsBreakTargetingLoopOutsideFinally(t *testing.T) {
	a := analyze(t, `var foo = function() { while (true) try {} finally { break; } }`)
	violations := NoUnsafeFinally{}.Check(a)
	require.Len(t, violations, 1)
	assert.Equal(t, "break_statement", violations[0].Node.Type())
}

func TestNoUnsafeFinally_FlagsLabeledBreakTargetingOutside(t *testing.T) {
	a := analyze(t, `var foo = function() { a: while (true) try {} finally { switch (true) { case true: break a; } } }`)
	violations := NoUnsafeFinally{}.Check(a)
	require.Len(t, violations, 1)
}
