package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pyast "github.com/nsubset/pyfront/ast"
	"github.com/nsubset/pyfront/lexer"
	"github.com/nsubset/pyfront/parser"
	"github.com/nsubset/pyfront/sourcefile"
)

var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print the parsed AST as an indented tree or, with --json, as pretty JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		f := sourcefile.New(path, src)

		stream := lexer.Lex(src)
		if stream.Err != nil {
			fmt.Fprintln(os.Stderr, red("%s: lex error: %s", path, stream.Err.Error()))
			fmt.Fprintln(os.Stderr, f.Caret(stream.Err.Offset))
			return stream.Err
		}
		tree := parser.Parse(stream.Tokens, parserOptions()...)
		if tree.Err != nil {
			fmt.Fprintln(os.Stderr, red("%s: parse error: %s", path, tree.Err.Error()))
			return tree.Err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printASTJSON(tree.Root)
		}
		printASTTree(tree.Root, 0)
		return nil
	},
}

func init() {
	astCmd.Flags().Bool("json", false, "Print the AST as pretty JSON")
}

// astNode is the JSON shape for one AST node: its Go type name, an
// optional scalar value, and child nodes in source order.
type astNode struct {
	Type     string     `json:"type"`
	Value    any        `json:"value,omitempty"`
	Children []*astNode `json:"children,omitempty"`
}

func printASTJSON(root pyast.Node) error {
	node := nodeToJSON(root)
	if viper.GetBool("no-color") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	}
	out, err := prettyjson.Marshal(node)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// nodeToJSON converts one AST node into its JSON shape, recursing into
// children directly rather than through ast.Walk: the JSON tree needs
// each node's children attached under their parent, which Walk's flat
// preorder callback doesn't give you without extra stack bookkeeping.
func nodeToJSON(node pyast.Node) *astNode {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return nil
	}
	typeName := reflect.TypeOf(node).Elem().Name()
	result := &astNode{Type: typeName}

	addChild := func(n pyast.Node) {
		if child := nodeToJSON(n); child != nil {
			result.Children = append(result.Children, child)
		}
	}
	addChildren := func(nodes ...pyast.Node) {
		for _, n := range nodes {
			addChild(n)
		}
	}

	switch n := node.(type) {
	case *pyast.Module:
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.ExprStmt:
		addChild(n.X)
	case *pyast.Assign:
		for _, t := range n.Targets {
			addChild(t)
		}
		addChild(n.Value)
	case *pyast.AugAssign:
		result.Value = n.Op
		addChildren(n.Target, n.Value)
	case *pyast.Print:
		if n.Dest != nil {
			addChild(n.Dest)
		}
		for _, a := range n.Args {
			addChild(a)
		}
	case *pyast.Delete:
		for _, t := range n.Targets {
			addChild(t)
		}
	case *pyast.Global:
		result.Value = strings.Join(n.Names, ", ")
	case *pyast.Exec:
		addChildren(n.Code, n.Globals, n.Locals)
	case *pyast.Assert:
		addChildren(n.Cond, n.Msg)
	case *pyast.Return:
		addChild(n.Value)
	case *pyast.Yield:
		addChild(n.Value)
	case *pyast.Raise:
		addChildren(n.Exc, n.Arg, n.Traceback)
	case *pyast.If:
		addChild(n.Cond)
		for _, s := range n.Body {
			addChild(s)
		}
		for _, e := range n.Elifs {
			addChild(e)
		}
		if n.Else != nil {
			addChild(n.Else)
		}
	case *pyast.Elif:
		addChild(n.Cond)
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.Else:
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.For:
		addChild(n.Vars)
		addChild(n.Source)
		for _, s := range n.Body {
			addChild(s)
		}
		if n.Else != nil {
			addChild(n.Else)
		}
	case *pyast.While:
		addChild(n.Cond)
		for _, s := range n.Body {
			addChild(s)
		}
		if n.Else != nil {
			addChild(n.Else)
		}
	case *pyast.Try:
		for _, s := range n.Body {
			addChild(s)
		}
		for _, e := range n.Excepts {
			addChild(e)
		}
		if n.Else != nil {
			addChild(n.Else)
		}
		if n.Finally != nil {
			addChild(n.Finally)
		}
	case *pyast.Except:
		result.Value = n.Name
		if n.Type != nil {
			addChild(n.Type)
		}
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.Finally:
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.With:
		for _, item := range n.Items {
			addChild(item.Value)
			if item.Vars != nil {
				addChild(item.Vars)
			}
		}
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.FuncDef:
		result.Value = n.Name
		for _, d := range n.Decorators {
			addChild(d)
		}
		for _, a := range n.Args {
			addChild(a)
		}
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.ClassDef:
		result.Value = n.Name
		for _, d := range n.Decorators {
			addChild(d)
		}
		for _, b := range n.Bases {
			addChild(b)
		}
		for _, s := range n.Body {
			addChild(s)
		}
	case *pyast.Arg:
		result.Value = n.Name
		if n.Value != nil {
			addChild(n.Value)
		}
	case *pyast.Unary:
		result.Value = n.Op
		addChild(n.X)
	case *pyast.Binary:
		result.Value = n.Op
		addChildren(n.X, n.Y)
	case *pyast.Ternary:
		addChildren(n.X, n.Cond, n.Else)
	case *pyast.List:
		for _, item := range n.Items {
			addChild(item)
		}
	case *pyast.Tuple:
		for _, item := range n.Items {
			addChild(item)
		}
	case *pyast.Set:
		for _, item := range n.Items {
			addChild(item)
		}
	case *pyast.Dict:
		for i := range n.Keys {
			addChild(n.Keys[i])
			addChild(n.Values[i])
		}
	case *pyast.ListComp:
		addChildren(n.Item, n.Vars, n.Source, n.Cond)
	case *pyast.SetComp:
		addChildren(n.Item, n.Vars, n.Source, n.Cond)
	case *pyast.DictComp:
		addChildren(n.Key, n.Value, n.Vars, n.Source, n.Cond)
	case *pyast.GenExpr:
		addChildren(n.Item, n.Vars, n.Source, n.Cond)
	case *pyast.Lambda:
		for _, a := range n.Args {
			addChild(a)
		}
		addChild(n.Body)
	case *pyast.Call:
		addChild(n.Fn)
		for _, a := range n.Args {
			addChild(a)
		}
	case *pyast.Index:
		addChildren(n.X, n.Index)
	case *pyast.Slice:
		addChild(n.X)
		if n.Low != nil {
			addChild(n.Low)
		}
		if n.High != nil {
			addChild(n.High)
		}
	case *pyast.Name:
		result.Value = n.Value
	case *pyast.Attr:
		result.Value = n.Name
		addChild(n.X)
	case *pyast.Int:
		result.Value = n.Value
	case *pyast.Float:
		result.Value = n.Value
	case *pyast.Str:
		result.Value = n.Value
	case *pyast.UnpackVar:
		result.Value = n.Name
	case *pyast.UnpackTuple:
		for _, item := range n.Items {
			addChild(item)
		}
	}
	return result
}

func printASTTree(node pyast.Node, depth int) {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return
	}
	j := nodeToJSON(node)
	line := j.Type
	if j.Value != nil {
		line += fmt.Sprintf(" %v", j.Value)
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), line)
	for _, child := range j.Children {
		printASTNodeFromJSON(child, depth+1)
	}
}

// printASTNodeFromJSON renders an already-converted astNode, avoiding a
// second walk of the real AST for the recursive case.
func printASTNodeFromJSON(n *astNode, depth int) {
	line := n.Type
	if n.Value != nil {
		line += fmt.Sprintf(" %v", n.Value)
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), line)
	for _, child := range n.Children {
		printASTNodeFromJSON(child, depth+1)
	}
}
