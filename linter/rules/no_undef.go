package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/jslint/linter"
)

// NoUndef flags identifier references that escape the global scope
// unresolved, ported from original_source/plugin/src/rules/no_undef.rs
// (global_scope.through()). It exercises scope.Manager through its real
// external interface (spec.md §6), the no-undef half of SPEC_FULL.md
// §4.6's thin-client illustration.
type NoUndef struct {
	// ConsiderTypeof mirrors no_undef.rs's `typeof` option: when false (the
	// default), `typeof a` is not reported even when a is undeclared.
	ConsiderTypeof bool
}

func (NoUndef) Name() string { return "no-undef" }

// Check reports every reference in the global scope's Through set, unless
// it is the operand of a typeof expression and ConsiderTypeof is false.
func (r NoUndef) Check(a *linter.FileAnalysis) []Violation {
	var out []Violation
	global := a.ScopeManager.GlobalScope()
	for _, ref := range a.ScopeManager.ThroughReferences(global) {
		if !r.ConsiderTypeof && isTypeofOperand(ref.Identifier, a.Source) {
			continue
		}
		out = append(out, Violation{
			RuleName: "no-undef",
			Message:  fmt.Sprintf("'%s' is not defined.", ref.Name),
			Node:     ref.Identifier,
		})
	}
	return out
}

// isTypeofOperand reports whether n is the operand of a typeof unary
// expression, unwrapping enclosing parentheses first (no_undef.rs's
// has_type_of_operator). The operator token is matched by content rather
// than by field name, matching codepath.operatorText's treatment of
// unary/binary operator tokens as unnamed children.
func isTypeofOperand(n *sitter.Node, src []byte) bool {
	parent := n.Parent()
	for parent != nil && parent.Type() == "parenthesized_expression" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Type() != "unary_expression" {
		return false
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		c := parent.Child(i)
		if !c.IsNamed() && c.Content(src) == "typeof" {
			return true
		}
	}
	return false
}
