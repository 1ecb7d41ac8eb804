package ast

import (
	"strings"

	"github.com/nsubset/pyfront/token"
)

// ArgMode classifies how an Arg participates in a function definition's
// parameter list or a call's argument list.
type ArgMode int

const (
	// Positional is a plain parameter/argument, optionally carrying a
	// default value (definitions) or a keyword name (calls).
	Positional ArgMode = iota
	// ArgList is a "*args"-style parameter/argument.
	ArgList
	// KeywordArgList is a "**kwargs"-style parameter/argument.
	KeywordArgList
)

// Arg is shared by function/lambda parameter lists and call argument
// lists, mirroring the original grammar's reuse of a single
// ArgumentDefinition shape for both.
type Arg struct {
	Sp int // offset into the source of the argument's first byte
	Ln int // length of the whole argument text

	// Name is the parameter name (definitions) or, when Keyword is true,
	// the keyword name (calls). Empty for a plain positional call argument.
	Name string
	// Value is the default value expression (definitions, optional) or the
	// argument expression (calls, required unless Mode != Positional and
	// it's a bare "*"/"**" forwarding form).
	Value Expr
	Mode  ArgMode
	// Keyword is true only for call arguments of the form "name=value".
	Keyword bool
}

func (a *Arg) Span() token.Span { return token.Span{Offset: a.Sp, Length: a.Ln} }

func (a *Arg) String() string {
	switch a.Mode {
	case ArgList:
		return "*" + a.Name
	case KeywordArgList:
		return "**" + a.Name
	}
	if a.Keyword {
		return a.Name + "=" + a.Value.String()
	}
	if a.Value != nil && a.Name != "" {
		return a.Name + "=" + a.Value.String()
	}
	if a.Name != "" {
		return a.Name
	}
	if a.Value != nil {
		return a.Value.String()
	}
	return ""
}

type BaseExpr struct {
	Sp int
	Ln int
}

func (b BaseExpr) Span() token.Span { return token.Span{Offset: b.Sp, Length: b.Ln} }

// Unary is a prefix operator expression: "not x", "-x", "+x", "~x".
type Unary struct {
	BaseExpr
	Op string
	X  Expr
}

func (*Unary) exprNode() {}
func (x *Unary) String() string {
	if x.Op == "not" {
		return "(not " + x.X.String() + ")"
	}
	return "(" + x.Op + x.X.String() + ")"
}

// Binary is an infix operator expression: "a + b", "a in b", "a is not b".
type Binary struct {
	BaseExpr
	Op   string
	X, Y Expr
}

func (*Binary) exprNode() {}
func (x *Binary) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Ternary is "X if Cond else Else".
type Ternary struct {
	BaseExpr
	Cond Expr
	X    Expr
	Else Expr
}

func (*Ternary) exprNode() {}
func (x *Ternary) String() string {
	return "(" + x.X.String() + " if " + x.Cond.String() + " else " + x.Else.String() + ")"
}

// List is a "[a, b, c]" list constructor.
type List struct {
	BaseExpr
	Items []Expr
}

func (*List) exprNode()        {}
func (x *List) String() string { return "[" + joinExprs(x.Items) + "]" }

// Tuple is a "(a, b, c)" or "a, b, c" tuple constructor.
type Tuple struct {
	BaseExpr
	Items []Expr
}

func (*Tuple) exprNode()        {}
func (x *Tuple) String() string { return "(" + joinExprs(x.Items) + ")" }

// Set is a "{a, b, c}" set constructor.
type Set struct {
	BaseExpr
	Items []Expr
}

func (*Set) exprNode()        {}
func (x *Set) String() string { return "{" + joinExprs(x.Items) + "}" }

// Dict is a "{k1: v1, k2: v2}" dict constructor.
type Dict struct {
	BaseExpr
	Keys   []Expr
	Values []Expr
}

func (*Dict) exprNode() {}
func (x *Dict) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i := range x.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(x.Keys[i].String())
		b.WriteString(": ")
		b.WriteString(x.Values[i].String())
	}
	b.WriteString("}")
	return b.String()
}

// ListComp is "[Item for Vars in Source if Cond]"; Cond may be nil.
type ListComp struct {
	BaseExpr
	Item   Expr
	Vars   Unpacking
	Source Expr
	Cond   Expr
}

func (*ListComp) exprNode() {}
func (x *ListComp) String() string {
	return "[" + comprehensionBody(x.Item, x.Vars, x.Source, x.Cond) + "]"
}

// SetComp is "{Item for Vars in Source if Cond}"; Cond may be nil.
type SetComp struct {
	BaseExpr
	Item   Expr
	Vars   Unpacking
	Source Expr
	Cond   Expr
}

func (*SetComp) exprNode() {}
func (x *SetComp) String() string {
	return "{" + comprehensionBody(x.Item, x.Vars, x.Source, x.Cond) + "}"
}

// DictComp is "{Key: Value for Vars in Source if Cond}"; Cond may be nil.
type DictComp struct {
	BaseExpr
	Key, Value Expr
	Vars       Unpacking
	Source     Expr
	Cond       Expr
}

func (*DictComp) exprNode() {}
func (x *DictComp) String() string {
	body := x.Key.String() + ": " + x.Value.String() + " for " + x.Vars.String() + " in " + x.Source.String()
	if x.Cond != nil {
		body += " if " + x.Cond.String()
	}
	return "{" + body + "}"
}

func comprehensionBody(item Expr, vars Unpacking, source Expr, cond Expr) string {
	body := item.String() + " for " + vars.String() + " in " + source.String()
	if cond != nil {
		body += " if " + cond.String()
	}
	return body
}

// GenExpr is "(Item for Vars in Source if Cond)", a parenthesized
// generator expression; Cond may be nil. Unlike ListComp/SetComp/DictComp
// it does not eagerly build a container.
type GenExpr struct {
	BaseExpr
	Item   Expr
	Vars   Unpacking
	Source Expr
	Cond   Expr
}

func (*GenExpr) exprNode() {}
func (x *GenExpr) String() string {
	return "(" + comprehensionBody(x.Item, x.Vars, x.Source, x.Cond) + ")"
}

// Lambda is "lambda args: Body".
type Lambda struct {
	BaseExpr
	Args []*Arg
	Body Expr
}

func (*Lambda) exprNode() {}
func (x *Lambda) String() string {
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i] = a.String()
	}
	return "(lambda " + strings.Join(args, ", ") + ": " + x.Body.String() + ")"
}

// Call is "Fn(Args...)".
type Call struct {
	BaseExpr
	Fn   Expr
	Args []*Arg
}

func (*Call) exprNode() {}
func (x *Call) String() string {
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i] = a.String()
	}
	return x.Fn.String() + "(" + strings.Join(args, ", ") + ")"
}

// Index is "X[I]".
type Index struct {
	BaseExpr
	X     Expr
	Index Expr
}

func (*Index) exprNode()        {}
func (x *Index) String() string { return x.X.String() + "[" + x.Index.String() + "]" }

// Slice is "X[Low:High]"; Low and High may each be nil.
type Slice struct {
	BaseExpr
	X         Expr
	Low, High Expr
}

func (*Slice) exprNode() {}
func (x *Slice) String() string {
	var b strings.Builder
	b.WriteString(x.X.String())
	b.WriteString("[")
	if x.Low != nil {
		b.WriteString(x.Low.String())
	}
	b.WriteString(":")
	if x.High != nil {
		b.WriteString(x.High.String())
	}
	b.WriteString("]")
	return b.String()
}

// Name is a variable lookup.
type Name struct {
	BaseExpr
	Value string
}

func (*Name) exprNode()        {}
func (x *Name) String() string { return x.Value }

// Attr is an attribute lookup "X.Name". The spec narrows the right side to
// a bare identifier, unlike the arbitrary-expression form the original
// implementation stored.
type Attr struct {
	BaseExpr
	X    Expr
	Name string
}

func (*Attr) exprNode()        {}
func (x *Attr) String() string { return x.X.String() + "." + x.Name }

// Int is an integer literal.
type Int struct {
	BaseExpr
	Literal string
	Value   int64
}

func (*Int) exprNode()        {}
func (x *Int) String() string { return x.Literal }

// Float is a floating-point literal.
type Float struct {
	BaseExpr
	Literal string
	Value   float64
}

func (*Float) exprNode()        {}
func (x *Float) String() string { return x.Literal }

// Str is a string literal; Value is the unescaped body (quotes and
// triple-quotes stripped).
type Str struct {
	BaseExpr
	Value string
}

func (*Str) exprNode()        {}
func (x *Str) String() string { return quoteString(x.Value) }

// True, False, and None are the dedicated constant expressions.
type True struct{ BaseExpr }
type False struct{ BaseExpr }
type None struct{ BaseExpr }

func (*True) exprNode()  {}
func (*False) exprNode() {}
func (*None) exprNode()  {}

func (*True) String() string  { return "True" }
func (*False) String() string { return "False" }
func (*None) String() string  { return "None" }

func joinExprs(items []Expr) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

// UnpackVar is an unpacking target that is a single bare identifier.
type UnpackVar struct {
	Sp, Ln int
	Name   string
}

func (u *UnpackVar) Span() token.Span { return token.Span{Offset: u.Sp, Length: u.Ln} }
func (*UnpackVar) unpackNode()        {}
func (u *UnpackVar) String() string   { return u.Name }

// UnpackTuple is an unpacking target that is a parenthesized (or bare
// comma-separated) tuple of nested unpacking targets.
type UnpackTuple struct {
	Sp, Ln int
	Items  []Unpacking
}

func (u *UnpackTuple) Span() token.Span { return token.Span{Offset: u.Sp, Length: u.Ln} }
func (*UnpackTuple) unpackNode()        {}
func (u *UnpackTuple) String() string {
	parts := make([]string, len(u.Items))
	for i, item := range u.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
