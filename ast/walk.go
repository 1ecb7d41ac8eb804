package ast

// Walk calls f for every node in the tree rooted at node, in depth-first
// preorder. If f returns false for a node, that node's children are not
// visited. This replaces the double-dispatch Visitor pattern with a
// single recursive type-switch: the AST is a closed sumtype, so there is
// no open set of node kinds for a separate Visitor interface to abstract
// over.
func Walk(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Module:
		walkStmts(n.Body, f)

	case *ExprStmt:
		Walk(n.X, f)
	case *Assign:
		for _, t := range n.Targets {
			Walk(t, f)
		}
		Walk(n.Value, f)
	case *AugAssign:
		Walk(n.Target, f)
		Walk(n.Value, f)
	case *Print:
		if n.Dest != nil {
			Walk(n.Dest, f)
		}
		for _, a := range n.Args {
			Walk(a, f)
		}
	case *Delete:
		for _, t := range n.Targets {
			Walk(t, f)
		}
	case *Pass:
	case *Import:
	case *FromImport:
	case *Global:
	case *Exec:
		Walk(n.Code, f)
		if n.Globals != nil {
			Walk(n.Globals, f)
		}
		if n.Locals != nil {
			Walk(n.Locals, f)
		}
	case *Assert:
		Walk(n.Cond, f)
		if n.Msg != nil {
			Walk(n.Msg, f)
		}
	case *Break:
	case *Continue:
	case *Return:
		if n.Value != nil {
			Walk(n.Value, f)
		}
	case *Yield:
		if n.Value != nil {
			Walk(n.Value, f)
		}
	case *Raise:
		if n.Exc != nil {
			Walk(n.Exc, f)
		}
		if n.Arg != nil {
			Walk(n.Arg, f)
		}
		if n.Traceback != nil {
			Walk(n.Traceback, f)
		}

	case *If:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)
		for _, e := range n.Elifs {
			Walk(e, f)
		}
		if n.Else != nil {
			Walk(n.Else, f)
		}
	case *Elif:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)
	case *Else:
		walkStmts(n.Body, f)
	case *For:
		Walk(n.Vars, f)
		Walk(n.Source, f)
		walkStmts(n.Body, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}
	case *While:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}
	case *Try:
		walkStmts(n.Body, f)
		for _, e := range n.Excepts {
			Walk(e, f)
		}
		if n.Else != nil {
			Walk(n.Else, f)
		}
		if n.Finally != nil {
			Walk(n.Finally, f)
		}
	case *Except:
		if n.Type != nil {
			Walk(n.Type, f)
		}
		walkStmts(n.Body, f)
	case *Finally:
		walkStmts(n.Body, f)
	case *With:
		for _, item := range n.Items {
			Walk(item.Value, f)
			if item.Vars != nil {
				Walk(item.Vars, f)
			}
		}
		walkStmts(n.Body, f)
	case *FuncDef:
		for _, d := range n.Decorators {
			Walk(d, f)
		}
		for _, a := range n.Args {
			Walk(a, f)
		}
		walkStmts(n.Body, f)
	case *ClassDef:
		for _, d := range n.Decorators {
			Walk(d, f)
		}
		for _, b := range n.Bases {
			Walk(b, f)
		}
		walkStmts(n.Body, f)

	case *Arg:
		if n.Value != nil {
			Walk(n.Value, f)
		}

	case *Unary:
		Walk(n.X, f)
	case *Binary:
		Walk(n.X, f)
		Walk(n.Y, f)
	case *Ternary:
		Walk(n.X, f)
		Walk(n.Cond, f)
		Walk(n.Else, f)
	case *List:
		for _, item := range n.Items {
			Walk(item, f)
		}
	case *Tuple:
		for _, item := range n.Items {
			Walk(item, f)
		}
	case *Set:
		for _, item := range n.Items {
			Walk(item, f)
		}
	case *Dict:
		for i := range n.Keys {
			Walk(n.Keys[i], f)
			Walk(n.Values[i], f)
		}
	case *ListComp:
		Walk(n.Item, f)
		Walk(n.Vars, f)
		Walk(n.Source, f)
		if n.Cond != nil {
			Walk(n.Cond, f)
		}
	case *SetComp:
		Walk(n.Item, f)
		Walk(n.Vars, f)
		Walk(n.Source, f)
		if n.Cond != nil {
			Walk(n.Cond, f)
		}
	case *GenExpr:
		Walk(n.Item, f)
		Walk(n.Vars, f)
		Walk(n.Source, f)
		if n.Cond != nil {
			Walk(n.Cond, f)
		}
	case *DictComp:
		Walk(n.Key, f)
		Walk(n.Value, f)
		Walk(n.Vars, f)
		Walk(n.Source, f)
		if n.Cond != nil {
			Walk(n.Cond, f)
		}
	case *Lambda:
		for _, a := range n.Args {
			Walk(a, f)
		}
		Walk(n.Body, f)
	case *Call:
		Walk(n.Fn, f)
		for _, a := range n.Args {
			Walk(a, f)
		}
	case *Index:
		Walk(n.X, f)
		Walk(n.Index, f)
	case *Slice:
		Walk(n.X, f)
		if n.Low != nil {
			Walk(n.Low, f)
		}
		if n.High != nil {
			Walk(n.High, f)
		}
	case *Name:
	case *Attr:
		Walk(n.X, f)
	case *Int:
	case *Float:
	case *Str:
	case *True:
	case *False:
	case *None:

	case *UnpackVar:
	case *UnpackTuple:
		for _, item := range n.Items {
			Walk(item, f)
		}
	}
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, s := range stmts {
		Walk(s, f)
	}
}

// Inspect returns every node in the tree rooted at root, in depth-first
// preorder, as a flat slice.
func Inspect(root Node) []Node {
	var nodes []Node
	Walk(root, func(n Node) bool {
		nodes = append(nodes, n)
		return true
	})
	return nodes
}
