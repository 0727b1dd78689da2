package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/jslint/linter"
)

// NoUnsafeFinally flags return/throw/break/continue statements that
// escape a finally block, overriding whatever completion the try/catch
// was already carrying — ported from
// original_source/plugin/src/rules/no_unsafe_finally.rs. Nested
// function-like roots are skipped via codepath.Set.CodePathFor rather
// than a hardcoded node-type list, so that boundary is exactly the one
// codepath.Analyze itself drew (spec.md §4.3 "For each function-like root
// ... a CodePath"): a completion nested inside one of those roots belongs
// to that root, not to the enclosing finally. Class declarations and class
// expressions are the one exception: they are skipped whole by node type.
type NoUnsafeFinally struct{}

func (NoUnsafeFinally) Name() string { return "no-unsafe-finally" }

func (r NoUnsafeFinally) Check(a *linter.FileAnalysis) []Violation {
	var out []Violation
	var walkTree func(n *sitter.Node)
	var walkFinally func(n *sitter.Node, loopDepth, switchDepth int)

	walkFinally = func(n *sitter.Node, loopDepth, switchDepth int) {
		if n == nil {
			return
		}
		if n.Type() == "class_declaration" || n.Type() == "class" {
			return
		}
		if a.CodePaths.CodePathFor(n) != nil {
			return
		}
		switch n.Type() {
		case "return_statement", "throw_statement":
			out = append(out, Violation{
				RuleName: "no-unsafe-finally",
				Message:  fmt.Sprintf("Unsafe usage of %s.", n.Type()),
				Node:     n,
			})
			return
		case "break_statement", "continue_statement":
			unsafe := n.ChildByFieldName("label") != nil
			if !unsafe {
				if n.Type() == "break_statement" {
					unsafe = loopDepth == 0 && switchDepth == 0
				} else {
					unsafe = loopDepth == 0
				}
			}
			if unsafe {
				out = append(out, Violation{
					RuleName: "no-unsafe-finally",
					Message:  fmt.Sprintf("Unsafe usage of %s.", n.Type()),
					Node:     n,
				})
			}
			return
		case "while_statement", "do_statement", "for_statement", "for_in_statement":
			loopDepth++
		case "switch_statement":
			switchDepth++
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walkFinally(n.NamedChild(i), loopDepth, switchDepth)
		}
	}

	walkTree = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "finally_clause" {
			walkFinally(n.ChildByFieldName("body"), 0, 0)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walkTree(n.NamedChild(i))
		}
	}

	walkTree(a.Tree.RootNode())
	return out
}
