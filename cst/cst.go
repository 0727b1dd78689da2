// Package cst provides stateless queries over a parsed JavaScript CST
// (as produced by github.com/smacker/go-tree-sitter's javascript grammar)
// that the scope and code-path analyzers need but that the grammar itself
// does not directly expose: parenthesis skipping, numeric literal parsing,
// method-kind classification, static property-key comparison, optional
// chain detection, parameter list iteration, and comment classification.
//
// Every function here is total: malformed or unexpected input is reported
// via an ok/ kind sentinel, never a panic, so callers in scope/codepath can
// apply these helpers uniformly while walking a tree that the grammar does
// not guarantee is semantically well-formed.
package cst

import (
	sitter "github.com/smacker/go-tree-sitter"
)

const parenthesizedExpression = "parenthesized_expression"

// UnwrapParens returns the innermost expression equivalent to n after
// stripping any number of parenthesized_expression wrappers, ignoring
// interior comments and unnamed tokens (the parens themselves).
func UnwrapParens(n *sitter.Node) *sitter.Node {
	return SkipNodesOfType(n, parenthesizedExpression)
}

// SkipNodesOfType walks down through n while its type is one of kinds,
// descending into the sole named, non-comment child each time. It stops
// and returns the first node whose type is not in kinds, or nil if n
// itself is nil.
func SkipNodesOfType(n *sitter.Node, kinds ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	kindSet := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}
	cur := n
	for cur != nil && kindSet[cur.Type()] {
		next := firstNonCommentNamedChild(cur)
		if next == nil {
			break
		}
		cur = next
	}
	return cur
}

func firstNonCommentNamedChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		return child
	}
	return nil
}

// MethodKindTag classifies a method_definition node.
type MethodKindTag int

const (
	MethodKindMethod MethodKindTag = iota
	MethodKindConstructor
	MethodKindGet
	MethodKindSet
)

// MethodKind classifies a method_definition node as Constructor, Get, Set
// or plain Method. A method named "constructor" is only ever classified
// as Constructor when it is a non-static member of a class body (not an
// object literal method and not a static member), per spec §4.1.
func MethodKind(n *sitter.Node, src []byte, inObjectLiteral bool, isStatic bool) MethodKindTag {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return MethodKindMethod
	}
	name, ok := StaticPropertyName(nameNode, src)
	if ok && name == "constructor" && !inObjectLiteral && !isStatic {
		return MethodKindConstructor
	}
	if precededByKeyword(n, nameNode, src, "get") {
		return MethodKindGet
	}
	if precededByKeyword(n, nameNode, src, "set") {
		return MethodKindSet
	}
	return MethodKindMethod
}

// precededByKeyword reports whether the unnamed token immediately before
// nameNode among n's children has text equal to keyword.
func precededByKeyword(n *sitter.Node, nameNode *sitter.Node, src []byte, keyword string) bool {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child.StartByte() == nameNode.StartByte() && child.EndByte() == nameNode.EndByte() {
			if i == 0 {
				return false
			}
			prev := n.Child(i - 1)
			return string(src[prev.StartByte():prev.EndByte()]) == keyword
		}
	}
	return false
}

// StaticPropertyName returns the constant string form of a property-key
// node if it is a literal identifier, string, number, private property
// identifier, or a computed key whose inner expression is itself a static
// literal. ok is false for any other (dynamic) key shape.
func StaticPropertyName(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier", "shorthand_property_identifier", "private_property_identifier":
		return n.Content(src), true
	case "string":
		return unquote(n.Content(src)), true
	case "number":
		return n.Content(src), true
	case "computed_property_name":
		if n.NamedChildCount() == 0 {
			return "", false
		}
		inner := UnwrapParens(n.NamedChild(0))
		switch inner.Type() {
		case "string", "number":
			return StaticPropertyName(inner, src)
		}
		return "", false
	default:
		return "", false
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// IsChainHead classifies a call_expression, member_expression or
// subscript_expression node as starting an optional chain: it carries its
// own "?." or one of its callee/object descendants (through further
// member/call/subscript expressions) does.
func IsChainHead(n *sitter.Node) bool {
	cur := n
	for cur != nil {
		switch cur.Type() {
		case "call_expression", "member_expression", "subscript_expression":
			if cur.ChildByFieldName("optional_chain") != nil {
				return true
			}
			next := cur.ChildByFieldName("function")
			if next == nil {
				next = cur.ChildByFieldName("object")
			}
			cur = next
		default:
			return false
		}
	}
	return false
}

// FunctionParams returns the formal parameters of a function-like node
// (function_declaration, function_expression, generator_function,
// method_definition or arrow_function), uniformly presenting an arrow
// function's unparenthesized single parameter and a parenthesized
// formal_parameters list the same way: as a flat list of parameter nodes.
func FunctionParams(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	if single := n.ChildByFieldName("parameter"); single != nil {
		return []*sitter.Node{single}
	}
	paramsNode := n.ChildByFieldName("parameters")
	if paramsNode == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, paramsNode.NamedChildCount())
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		out = append(out, paramsNode.NamedChild(i))
	}
	return out
}

// CommentKind classifies a comment node's syntactic form.
type CommentKind int

const (
	CommentLine CommentKind = iota
	CommentBlock
)

// CommentText strips the leading "//" or surrounding "/* */" from a
// comment node's text and classifies it.
func CommentText(n *sitter.Node, src []byte) (text string, kind CommentKind) {
	raw := n.Content(src)
	if len(raw) >= 2 && raw[:2] == "//" {
		return raw[2:], CommentLine
	}
	if len(raw) >= 4 && raw[:2] == "/*" && raw[len(raw)-2:] == "*/" {
		return raw[2 : len(raw)-2], CommentBlock
	}
	return raw, CommentLine
}

// Element is one slot of a comma-separated element list: either a present
// node, or a hole created by two adjacent commas (e.g. `[a, , b]` or a
// destructuring pattern skip).
type Element struct {
	Node *sitter.Node // nil when Hole is true
	Hole bool
}

// IterateElements walks the named and unnamed children of a list node
// (array pattern, array literal, or similar comma-separated construct),
// emitting one Element per comma-delimited slot, including holes for
// adjacent commas with nothing between them.
func IterateElements(listNode *sitter.Node) []Element {
	if listNode == nil {
		return nil
	}
	var elements []Element
	sawElementSinceComma := true
	childCount := int(listNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := listNode.Child(i)
		switch child.Type() {
		case "[", "]", "(", ")":
			continue
		case ",":
			if !sawElementSinceComma {
				elements = append(elements, Element{Hole: true})
			}
			sawElementSinceComma = false
		default:
			if child.IsNamed() {
				elements = append(elements, Element{Node: child})
				sawElementSinceComma = true
			}
		}
	}
	return elements
}
