package linter

import (
	"os"
	"path/filepath"

	"github.com/viant/jslint/scope"
)

// Option configures a Linter, the same functional-options shape as
// analyzer.Option (analyzer/option.go).
type Option func(*Linter)

// FileMatcher decides whether a path AnalyzeDir walks over gets analyzed,
// mirroring analyzer.GolangFiles/analyzer.JavaFiles (analyzer/option.go).
type FileMatcher func(info os.FileInfo) bool

// JSFiles matches JavaScript source files and skips node_modules, the
// default matcher for AnalyzeDir.
func JSFiles(info os.FileInfo) bool {
	if info.IsDir() {
		return info.Name() != "node_modules"
	}
	switch filepath.Ext(info.Name()) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return true
	default:
		return false
	}
}

// WithScopeOptions configures the scope.Option values passed to
// scope.Analyze for every file this Linter analyzes.
func WithScopeOptions(opts ...scope.Option) Option {
	return func(l *Linter) { l.scopeOpts = append(l.scopeOpts, opts...) }
}

// WithMatcher overrides the default JSFiles matcher used by AnalyzeDir.
func WithMatcher(m FileMatcher) Option {
	return func(l *Linter) { l.matcher = m }
}
