// Package ast defines the typed abstract syntax tree produced by the
// parser: a closed family of Expression and Statement sumtypes, plus an
// auxiliary Unpacking sumtype used by assignment targets, for-heads, and
// comprehensions.
package ast

import "github.com/nsubset/pyfront/token"

// Node is implemented by every AST node. All nodes carry the source span
// they were parsed from.
type Node interface {
	Span() token.Span
	String() string
}

// Expr is an expression node: it evaluates to a value and may be nested
// inside other expressions.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node: it causes an effect but does not itself
// evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Unpacking is either a bare variable name or a nested parenthesized tuple
// of unpacking targets, used by assignment left-hand sides, for-loop
// heads, and comprehension variables.
type Unpacking interface {
	Node
	unpackNode()
}

// IsLvalue reports whether expr is syntactically permitted as an
// assignment target: a variable, an attribute lookup, an index
// expression, or a non-empty tuple whose every element is itself an
// lvalue. This is a free function rather than a method on every variant,
// per the single-recursive-function rearchitecture of the visitor
// pattern described in the design notes: walking a closed sumtype does
// not need double dispatch.
func IsLvalue(expr Expr) bool {
	switch x := expr.(type) {
	case *Name:
		return true
	case *Attr:
		return true
	case *Index:
		return true
	case *Tuple:
		if len(x.Items) == 0 {
			return false
		}
		for _, item := range x.Items {
			if !IsLvalue(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
