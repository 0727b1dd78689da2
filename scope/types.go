// Package scope reconstructs JavaScript's lexical binding model from a CST:
// declarations, references, hoisting, strictness, module vs script
// semantics and environment globals (spec.md §4.2). Construction is a
// single recursive descent that is conceptually two passes fused
// together — scopes are opened, populated with declarations and
// references in source order on the way down, then closed and resolved
// on the way back up — mirroring the push/block/pop discipline of a
// classic block-scoped resolver (grounded on the block-stack shape of
// other_examples' nenuphar resolver) adapted here to arena-indexed scopes
// instead of parent-pointer structs.
package scope

import (
	"github.com/viant/jslint/arena"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind tags the syntactic variant of a Scope (spec.md §3 Scopes).
type Kind int

const (
	Global Kind = iota
	Module
	Function
	FunctionExpressionName
	Block
	Switch
	Catch
	With
	For
	Class
	ClassFieldInitializer
	ClassStaticBlock
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case Module:
		return "module"
	case Function:
		return "function"
	case FunctionExpressionName:
		return "function-expression-name"
	case Block:
		return "block"
	case Switch:
		return "switch"
	case Catch:
		return "catch"
	case With:
		return "with"
	case For:
		return "for"
	case Class:
		return "class"
	case ClassFieldInitializer:
		return "class-field-initializer"
	case ClassStaticBlock:
		return "class-static-block"
	default:
		return "unknown"
	}
}

// VariableTag classifies how a Variable came to exist (spec.md §3 Variables).
type VariableTag int

const (
	VariableTagVariable VariableTag = iota
	VariableTagParameter
	VariableTagFunctionName
	VariableTagClassName
	VariableTagCatchClause
	VariableTagImportBinding
	VariableTagImplicitGlobal
)

// Scope is one node of the scope tree (spec.md §3 Scopes).
type Scope struct {
	id arena.ID[Scope]

	Kind  Kind
	Node  *sitter.Node // the CST node that opens this scope
	Block *sitter.Node // the CST node that forms this scope's block

	Upper    arena.ID[Scope] // invalid for the global scope
	Children []arena.ID[Scope]

	IsStrict      bool
	VariableScope arena.ID[Scope] // nearest enclosing var-hoisting scope (itself, for function-like/module/global/class-field-init/class-static-block)

	names     map[string]arena.ID[Variable] // insertion-ordered via Variables
	Variables []arena.ID[Variable]

	References []arena.ID[Reference] // every reference recorded with From == this scope
	Through    []arena.ID[Reference] // references that escaped this scope unresolved
	incoming   []arena.ID[Reference] // unresolved references forwarded up from children, pending this scope's resolution

	Dynamic                 bool // With scopes: static resolution is disabled
	ThisFound               bool
	DirectEvalCall          bool
	FunctionExpressionScope bool // this scope is the inner Function scope of a FunctionExpressionName wrapper
}

// ID returns this scope's stable arena identity.
func (s *Scope) ID() arena.ID[Scope] { return s.id }

// Variable is a named binding owned by exactly one Scope (spec.md §3 Variables).
type Variable struct {
	id arena.ID[Variable]

	Name        string
	Scope       arena.ID[Scope]
	Identifiers []*sitter.Node
	Defs        []arena.ID[Definition]
	References  []arena.ID[Reference]
	Writeable   bool // meaningful on the global scope, for configured globals
	Tag         VariableTag
}

// ID returns this variable's stable arena identity.
func (v *Variable) ID() arena.ID[Variable] { return v.id }

// Definition records one syntactic introduction of a Variable (spec.md §3 Definitions).
type Definition struct {
	Kind             VariableTag
	Node             *sitter.Node // the node introducing the binding (usually an identifier)
	Parent           *sitter.Node // the enclosing declaration node
	Index            int          // index within a multi-declarator declaration; the walker records 0 for every definition
	HoistedVarPartial bool        // partial-declaration flag for hoisted `var` declarations; the walker never sets it, so it is always false
}

// Reference is one use of an identifier, read and/or write (spec.md §3 References).
type Reference struct {
	Identifier *sitter.Node
	Name       string
	From       arena.ID[Scope]

	Read  bool
	Write bool

	WriteExpr *sitter.Node // the right-hand side being assigned, for write references

	Resolved arena.ID[Variable] // invalid until closure resolves it

	MaybeImplicitGlobal *sitter.Node // non-nil when a sloppy-script write could create a global
	Partial              bool        // destructuring write with a following rest element
	Init                 bool        // initializer (vs later assignment)
}

// IsReadWrite reports whether this reference both reads and writes
// (compound assignment, update expression).
func (r *Reference) IsReadWrite() bool { return r.Read && r.Write }
