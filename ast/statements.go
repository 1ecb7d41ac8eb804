package ast

import "github.com/nsubset/pyfront/token"

type BaseStmt struct {
	Sp int
	Ln int
}

func (b BaseStmt) Span() token.Span { return token.Span{Offset: b.Sp, Length: b.Ln} }

// Module is the root node: the whole parsed source file as a sequence of
// top-level statements.
type Module struct {
	BaseStmt
	Body []Stmt
}

func (*Module) stmtNode() {}
func (x *Module) String() string { return stmtListString(x.Body) }

func stmtListString(stmts []Stmt) string {
	out := ""
	for i, s := range stmts {
		if i > 0 {
			out += "\n"
		}
		out += s.String()
	}
	return out
}

// ExprStmt is an expression evaluated for its side effect and discarded,
// such as a bare call.
type ExprStmt struct {
	BaseStmt
	X Expr
}

func (*ExprStmt) stmtNode()        {}
func (x *ExprStmt) String() string { return x.X.String() }

// Assign is "Targets... = Value", supporting Python's chained-assignment
// form "a = b = value".
type Assign struct {
	BaseStmt
	Targets []Expr
	Value   Expr
}

func (*Assign) stmtNode() {}
func (x *Assign) String() string {
	out := ""
	for _, t := range x.Targets {
		out += t.String() + " = "
	}
	return out + x.Value.String()
}

// AugAssign is "Target Op= Value", e.g. "x += 1".
type AugAssign struct {
	BaseStmt
	Target Expr
	Op     string
	Value  Expr
}

func (*AugAssign) stmtNode() {}
func (x *AugAssign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// Print is a print statement: "print a, b" or the stream-redirected form
// "print >> f, a, b". TrailingComma suppresses the implicit newline.
type Print struct {
	BaseStmt
	Dest          Expr
	Args          []Expr
	TrailingComma bool
}

func (*Print) stmtNode() {}
func (x *Print) String() string {
	out := "print"
	if x.Dest != nil {
		out += " >> " + x.Dest.String() + ","
	}
	for i, a := range x.Args {
		if i > 0 || x.Dest != nil {
			out += " "
		} else {
			out += " "
		}
		out += a.String()
		if i < len(x.Args)-1 {
			out += ","
		}
	}
	if x.TrailingComma {
		out += ","
	}
	return out
}

// Delete is "del Targets...".
type Delete struct {
	BaseStmt
	Targets []Expr
}

func (*Delete) stmtNode() {}
func (x *Delete) String() string { return "del " + joinExprs(x.Targets) }

// Pass is the no-op statement.
type Pass struct{ BaseStmt }

func (*Pass) stmtNode()        {}
func (*Pass) String() string { return "pass" }

// ImportName is one dotted module path with an optional "as" alias.
type ImportName struct {
	Path  string
	Alias string
}

// Import is "import a.b.c as d, e.f".
type Import struct {
	BaseStmt
	Names []ImportName
}

func (*Import) stmtNode() {}
func (x *Import) String() string {
	out := "import "
	for i, n := range x.Names {
		if i > 0 {
			out += ", "
		}
		out += n.Path
		if n.Alias != "" {
			out += " as " + n.Alias
		}
	}
	return out
}

// FromImport is "from a.b import c as d, e" or "from a.b import *".
type FromImport struct {
	BaseStmt
	Module string
	Star   bool
	Names  []ImportName
}

func (*FromImport) stmtNode() {}
func (x *FromImport) String() string {
	out := "from " + x.Module + " import "
	if x.Star {
		return out + "*"
	}
	for i, n := range x.Names {
		if i > 0 {
			out += ", "
		}
		out += n.Path
		if n.Alias != "" {
			out += " as " + n.Alias
		}
	}
	return out
}

// Global is "global a, b".
type Global struct {
	BaseStmt
	Names []string
}

func (*Global) stmtNode() {}
func (x *Global) String() string {
	out := "global "
	for i, n := range x.Names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// Exec is "exec Code" or "exec Code in Globals, Locals".
type Exec struct {
	BaseStmt
	Code    Expr
	Globals Expr
	Locals  Expr
}

func (*Exec) stmtNode() {}
func (x *Exec) String() string {
	out := "exec " + x.Code.String()
	if x.Globals != nil {
		out += " in " + x.Globals.String()
		if x.Locals != nil {
			out += ", " + x.Locals.String()
		}
	}
	return out
}

// Assert is "assert Cond" or "assert Cond, Msg".
type Assert struct {
	BaseStmt
	Cond Expr
	Msg  Expr
}

func (*Assert) stmtNode() {}
func (x *Assert) String() string {
	out := "assert " + x.Cond.String()
	if x.Msg != nil {
		out += ", " + x.Msg.String()
	}
	return out
}

// Break is the "break" statement.
type Break struct{ BaseStmt }

func (*Break) stmtNode()        {}
func (*Break) String() string { return "break" }

// Continue is the "continue" statement.
type Continue struct{ BaseStmt }

func (*Continue) stmtNode()        {}
func (*Continue) String() string { return "continue" }

// Return is "return" or "return Value".
type Return struct {
	BaseStmt
	Value Expr
}

func (*Return) stmtNode() {}
func (x *Return) String() string {
	if x.Value == nil {
		return "return"
	}
	return "return " + x.Value.String()
}

// Yield is a "yield Value" expression statement (bare yield as a
// statement, distinct from yield used as a value-producing expression).
type Yield struct {
	BaseStmt
	Value Expr
}

func (*Yield) stmtNode() {}
func (x *Yield) String() string {
	if x.Value == nil {
		return "yield"
	}
	return "yield " + x.Value.String()
}

// Raise is "raise", "raise Exc", or "raise Exc, Arg, Traceback" (the
// legacy three-argument form).
type Raise struct {
	BaseStmt
	Exc       Expr
	Arg       Expr
	Traceback Expr
}

func (*Raise) stmtNode() {}
func (x *Raise) String() string {
	if x.Exc == nil {
		return "raise"
	}
	out := "raise " + x.Exc.String()
	if x.Arg != nil {
		out += ", " + x.Arg.String()
		if x.Traceback != nil {
			out += ", " + x.Traceback.String()
		}
	}
	return out
}

// If is "if Cond: Body" with zero or more Elif clauses and an optional
// Else clause.
type If struct {
	BaseStmt
	Cond  Expr
	Body  []Stmt
	Elifs []*Elif
	Else  *Else
}

func (*If) stmtNode() {}
func (x *If) String() string {
	out := "if " + x.Cond.String() + ":\n" + indentBlock(x.Body)
	for _, e := range x.Elifs {
		out += "\n" + e.String()
	}
	if x.Else != nil {
		out += "\n" + x.Else.String()
	}
	return out
}

// Elif is one "elif Cond: Body" clause, bound to its owning If.
type Elif struct {
	BaseStmt
	Cond Expr
	Body []Stmt
}

func (*Elif) stmtNode() {}
func (x *Elif) String() string { return "elif " + x.Cond.String() + ":\n" + indentBlock(x.Body) }

// Else is a trailing "else: Body" clause, bound to the compound statement
// it follows (If, For, While, or Try).
type Else struct {
	BaseStmt
	Body []Stmt
}

func (*Else) stmtNode() {}
func (x *Else) String() string { return "else:\n" + indentBlock(x.Body) }

// For is "for Vars in Source: Body" with an optional trailing Else
// clause, run when the loop completes without a break.
type For struct {
	BaseStmt
	Vars   Unpacking
	Source Expr
	Body   []Stmt
	Else   *Else
}

func (*For) stmtNode() {}
func (x *For) String() string {
	out := "for " + x.Vars.String() + " in " + x.Source.String() + ":\n" + indentBlock(x.Body)
	if x.Else != nil {
		out += "\n" + x.Else.String()
	}
	return out
}

// While is "while Cond: Body" with an optional trailing Else clause.
type While struct {
	BaseStmt
	Cond Expr
	Body []Stmt
	Else *Else
}

func (*While) stmtNode() {}
func (x *While) String() string {
	out := "while " + x.Cond.String() + ":\n" + indentBlock(x.Body)
	if x.Else != nil {
		out += "\n" + x.Else.String()
	}
	return out
}

// Except is one "except" clause bound to an owning Try: "except:",
// "except Type:", "except Type, Name:" (legacy form), or
// "except Type as Name:".
type Except struct {
	BaseStmt
	Type Expr
	Name string
	Body []Stmt
}

func (*Except) stmtNode() {}
func (x *Except) String() string {
	out := "except"
	if x.Type != nil {
		out += " " + x.Type.String()
		if x.Name != "" {
			out += " as " + x.Name
		}
	}
	return out + ":\n" + indentBlock(x.Body)
}

// Finally is a trailing "finally: Body" clause bound to an owning Try.
type Finally struct {
	BaseStmt
	Body []Stmt
}

func (*Finally) stmtNode() {}
func (x *Finally) String() string { return "finally:\n" + indentBlock(x.Body) }

// Try is "try: Body" with zero or more Except clauses, an optional Else
// (run only if no exception propagated), and an optional Finally.
type Try struct {
	BaseStmt
	Body    []Stmt
	Excepts []*Except
	Else    *Else
	Finally *Finally
}

func (*Try) stmtNode() {}
func (x *Try) String() string {
	out := "try:\n" + indentBlock(x.Body)
	for _, e := range x.Excepts {
		out += "\n" + e.String()
	}
	if x.Else != nil {
		out += "\n" + x.Else.String()
	}
	if x.Finally != nil {
		out += "\n" + x.Finally.String()
	}
	return out
}

// WithItem is one "Value as Vars" clause of a (possibly multi-item) with
// statement; Vars is nil when no "as" clause is present.
type WithItem struct {
	Value Expr
	Vars  Unpacking
}

// With is "with Items...: Body".
type With struct {
	BaseStmt
	Items []WithItem
	Body  []Stmt
}

func (*With) stmtNode() {}
func (x *With) String() string {
	out := "with "
	for i, item := range x.Items {
		if i > 0 {
			out += ", "
		}
		out += item.Value.String()
		if item.Vars != nil {
			out += " as " + item.Vars.String()
		}
	}
	return out + ":\n" + indentBlock(x.Body)
}

// FuncDef is "def Name(Args...): Body", carrying zero or more stacked
// decorators applied bottom-up.
type FuncDef struct {
	BaseStmt
	Name       string
	Args       []*Arg
	Body       []Stmt
	Decorators []Expr
}

func (*FuncDef) stmtNode() {}
func (x *FuncDef) String() string {
	out := ""
	for _, d := range x.Decorators {
		out += "@" + d.String() + "\n"
	}
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i] = a.String()
	}
	out += "def " + x.Name + "(" + joinStrings(args) + "):\n" + indentBlock(x.Body)
	return out
}

// ClassDef is "class Name(Bases...): Body", carrying zero or more stacked
// decorators applied bottom-up.
type ClassDef struct {
	BaseStmt
	Name       string
	Bases      []Expr
	Body       []Stmt
	Decorators []Expr
}

func (*ClassDef) stmtNode() {}
func (x *ClassDef) String() string {
	out := ""
	for _, d := range x.Decorators {
		out += "@" + d.String() + "\n"
	}
	out += "class " + x.Name
	if len(x.Bases) > 0 {
		out += "(" + joinExprs(x.Bases) + ")"
	}
	out += ":\n" + indentBlock(x.Body)
	return out
}

func indentBlock(stmts []Stmt) string {
	out := ""
	for i, s := range stmts {
		if i > 0 {
			out += "\n"
		}
		out += "    " + s.String()
	}
	return out
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
