package rules

import (
	"github.com/viant/jslint/arena"
	"github.com/viant/jslint/codepath"
	"github.com/viant/jslint/linter"
)

// statementNodeTypes lists the JS statement kinds worth reporting on;
// flagging every unreachable expression sub-node would report the same
// dead code many times over.
var statementNodeTypes = map[string]bool{
	"expression_statement":  true,
	"variable_declaration":  true,
	"lexical_declaration":   true,
	"return_statement":      true,
	"if_statement":          true,
	"for_statement":         true,
	"for_in_statement":      true,
	"while_statement":       true,
	"do_statement":          true,
	"switch_statement":      true,
	"try_statement":         true,
	"throw_statement":       true,
	"break_statement":       true,
	"continue_statement":    true,
	"function_declaration":  true,
	"class_declaration":     true,
	"labeled_statement":     true,
	"empty_statement":       true,
}

// NoUnreachable flags the first statement on each unreachable segment the
// code-path analyzer built, the codepath half of SPEC_FULL.md §4.6's
// thin-client illustration (spec.md §8 invariant 4: reachability is
// sticky, so an unreachable segment's statements never execute).
type NoUnreachable struct{}

func (NoUnreachable) Name() string { return "no-unreachable" }

func (NoUnreachable) Check(a *linter.FileAnalysis) []Violation {
	var out []Violation
	var zero arena.ID[codepath.Segment]
	for _, path := range a.CodePaths.CodePaths() {
		seen := map[uint32]bool{}
		a.CodePaths.TraverseAllSegments(path, zero, zero, func(s *codepath.Segment, _ *codepath.Controller) {
			if s.Reachable {
				return
			}
			for _, ev := range s.Events {
				if ev.Kind != codepath.EventEnter || !statementNodeTypes[ev.Node.Type()] {
					continue
				}
				if seen[ev.Node.StartByte()] {
					continue
				}
				seen[ev.Node.StartByte()] = true
				out = append(out, Violation{
					RuleName: "no-unreachable",
					Message:  "Unreachable code.",
					Node:     ev.Node,
				})
				break
			}
		})
	}
	return out
}
