package linter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/viant/jslint/scope"
)

func TestLinter_AnalyzeSource_WiresBothAnalyzers(t *testing.T) {
	l := NewLinter(afs.New())
	analysis, err := l.AnalyzeSource("inline.js", []byte(`
		function f(a) {
			if (a) {
				return 1;
			}
			return a + b;
		}
	`))
	require.NoError(t, err)
	require.NotNil(t, analysis.ScopeManager)
	require.NotNil(t, analysis.CodePaths)

	global := analysis.ScopeManager.GlobalScope()
	require.NotNil(t, global)
	through := analysis.ScopeManager.ThroughReferences(global)
	var sawB bool
	for _, ref := range through {
		if ref.Name == "b" {
			sawB = true
		}
	}
	assert.True(t, sawB, "undeclared identifier b should escape to the global scope unresolved")

	paths := analysis.CodePaths.CodePaths()
	assert.NotEmpty(t, paths)
}

func TestLinter_AnalyzeSource_AppliesScopeOptions(t *testing.T) {
	l := NewLinter(afs.New(), WithScopeOptions(scope.WithSourceType(scope.SourceModule)))
	analysis, err := l.AnalyzeSource("inline.mjs", []byte(`export const x = 1;`))
	require.NoError(t, err)
	assert.NotNil(t, analysis.ScopeManager.GlobalScope())
}

func TestLinter_AnalyzeFileAndDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte(`var x = 1;`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(`not js`), 0644))
	sub := filepath.Join(dir, "node_modules")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.js"), []byte(`var y = 1;`), 0644))

	l := NewLinter(afs.New())
	ctx := context.Background()

	one, err := l.AnalyzeFile(ctx, filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	assert.NotNil(t, one.ScopeManager)

	all, err := l.AnalyzeDir(ctx, dir)
	require.NoError(t, err)
	assert.Len(t, all, 1, "node_modules and non-JS files must be skipped")
}

func TestConfig_Options(t *testing.T) {
	cfg := &Config{
		SourceType:  "module",
		EcmaVersion: 2020,
		Env:         map[string]bool{"browser": true},
		Optimistic:  true,
	}
	opts := cfg.Options()
	assert.NotEmpty(t, opts)
}
