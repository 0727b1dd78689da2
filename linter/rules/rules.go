// Package rules bundles a small, illustrative sample of rule bodies over
// the linter core, each a thin client of ScopeManager or CodePaths through
// their real external interface (spec.md §1 "each is a thin client of the
// core"; SPEC_FULL.md §4.6). Rule bodies themselves are out of scope per
// spec.md's Non-goals; these three exist only to exercise the core end to
// end, one per original_source/plugin/src/rules/*.rs file they are named
// after.
package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/jslint/linter"
)

// Violation is one reported finding, deliberately narrower than
// tree-sitter-lint's violation! macro (no message-id/data template, no
// fixer): spec.md's Non-goals exclude fixer/rewriting machinery and a
// rule-test DSL, so a rule body here just returns the rendered message.
type Violation struct {
	RuleName string
	Message  string
	Node     *sitter.Node
}

// Rule is the shared shape of the three bundled rule bodies.
type Rule interface {
	Name() string
	Check(a *linter.FileAnalysis) []Violation
}
