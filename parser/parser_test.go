package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsubset/pyfront/ast"
	"github.com/nsubset/pyfront/lexer"
	"github.com/nsubset/pyfront/parser"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	stream := lexer.Lex([]byte(src))
	require.Nil(t, stream.Err, "lex error: %v", stream.Err)
	tree := parser.Parse(stream.Tokens)
	require.Nil(t, tree.Err, "parse error: %v", tree.Err)
	require.NotNil(t, tree.Root)
	return tree.Root
}

func parseErr(t *testing.T, src string) *parser.Error {
	t.Helper()
	stream := lexer.Lex([]byte(src))
	require.Nil(t, stream.Err, "lex error: %v", stream.Err)
	tree := parser.Parse(stream.Tokens)
	require.NotNil(t, tree.Err)
	return tree.Err
}

// Scenario 1: x = 1 + 2 * 3
func TestScenario_AssignPrecedence(t *testing.T) {
	mod := mustParse(t, "x = 1 + 2 * 3\n")
	require.Len(t, mod.Body, 1)
	assign, ok := mod.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	require.Equal(t, "x", assign.Targets[0].(*ast.Name).Value)

	add, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "+", add.Op)
	require.Equal(t, int64(1), add.X.(*ast.Int).Value)

	mul, ok := add.Y.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", mul.Op)
	require.Equal(t, int64(2), mul.X.(*ast.Int).Value)
	require.Equal(t, int64(3), mul.Y.(*ast.Int).Value)
}

// Scenario 2: def f(a, b=2, *c, **d): return a
func TestScenario_FuncDefArgModes(t *testing.T) {
	mod := mustParse(t, "def f(a, b=2, *c, **d):\n    return a\n")
	require.Len(t, mod.Body, 1)
	fn, ok := mod.Body[0].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name)
	require.Len(t, fn.Args, 4)

	require.Equal(t, "a", fn.Args[0].Name)
	require.Equal(t, ast.Positional, fn.Args[0].Mode)
	require.Nil(t, fn.Args[0].Value)

	require.Equal(t, "b", fn.Args[1].Name)
	require.Equal(t, ast.Positional, fn.Args[1].Mode)
	require.NotNil(t, fn.Args[1].Value)
	require.Equal(t, int64(2), fn.Args[1].Value.(*ast.Int).Value)

	require.Equal(t, "c", fn.Args[2].Name)
	require.Equal(t, ast.ArgList, fn.Args[2].Mode)

	require.Equal(t, "d", fn.Args[3].Name)
	require.Equal(t, ast.KeywordArgList, fn.Args[3].Mode)

	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	require.Equal(t, "a", ret.Value.(*ast.Name).Value)
}

// Scenario 3: if/elif/else chain
func TestScenario_IfElifElse(t *testing.T) {
	mod := mustParse(t, "if a:\n  b\nelif c:\n  d\nelse:\n  e\n")
	require.Len(t, mod.Body, 1)
	ifStmt, ok := mod.Body[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Elifs, 1)
	require.Equal(t, "c", ifStmt.Elifs[0].Cond.(*ast.Name).Value)
	require.NotNil(t, ifStmt.Else)
	require.Len(t, ifStmt.Else.Body, 1)
}

// Scenario 4: list comprehension with predicate
func TestScenario_ListComprehension(t *testing.T) {
	mod := mustParse(t, "[x*x for x in range(10) if x%2]\n")
	require.Len(t, mod.Body, 1)
	stmt, ok := mod.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	comp, ok := stmt.X.(*ast.ListComp)
	require.True(t, ok)

	item, ok := comp.Item.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", item.Op)

	vars, ok := comp.Vars.(*ast.UnpackVar)
	require.True(t, ok)
	require.Equal(t, "x", vars.Name)

	source, ok := comp.Source.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "range", source.Fn.(*ast.Name).Value)

	cond, ok := comp.Cond.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "%", cond.Op)
}

// Scenario 5: try/except-as/finally
func TestScenario_TryExceptFinally(t *testing.T) {
	mod := mustParse(t, "try:\n  a\nexcept E as e:\n  b\nfinally:\n  c\n")
	require.Len(t, mod.Body, 1)
	tryStmt, ok := mod.Body[0].(*ast.Try)
	require.True(t, ok)
	require.Len(t, tryStmt.Excepts, 1)
	require.Equal(t, "E", tryStmt.Excepts[0].Type.(*ast.Name).Value)
	require.Equal(t, "e", tryStmt.Excepts[0].Name)
	require.NotNil(t, tryStmt.Finally)
}

// Scenario 6: an incomplete expression fails sticky with one of the two
// documented error kinds.
func TestScenario_IncompleteExpressionFails(t *testing.T) {
	err := parseErr(t, "1 +\n")
	require.Contains(t, []parser.ErrorKind{parser.IncompleteExpressionParsing, parser.IncompleteParsing}, err.Kind)
}

func TestBoundary_EmptyInput(t *testing.T) {
	mod := mustParse(t, "")
	require.Empty(t, mod.Body)
}

func TestBoundary_OnlyWhitespace(t *testing.T) {
	mod := mustParse(t, "   \n   \n")
	require.Empty(t, mod.Body)
}

func TestBoundary_OnlyComment(t *testing.T) {
	mod := mustParse(t, "# just a comment\n")
	require.Empty(t, mod.Body)
}

func TestBoundary_BlankLinesAmidSuite(t *testing.T) {
	mod := mustParse(t, "if a:\n    b\n\n    c\n")
	ifStmt := mod.Body[0].(*ast.If)
	require.Len(t, ifStmt.Body, 2)
}

func TestBoundary_LambdaAsRightOperandOfPower(t *testing.T) {
	mod := mustParse(t, "x = a ** lambda: 1\n")
	assign := mod.Body[0].(*ast.Assign)
	pow, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "**", pow.Op)
	_, ok = pow.Y.(*ast.Lambda)
	require.True(t, ok)
}

func TestBoundary_ChainedTernary(t *testing.T) {
	mod := mustParse(t, "x = a if b else c if d else e\n")
	assign := mod.Body[0].(*ast.Assign)
	outer, ok := assign.Value.(*ast.Ternary)
	require.True(t, ok)
	require.Equal(t, "b", outer.Cond.(*ast.Name).Value)
	inner, ok := outer.Else.(*ast.Ternary)
	require.True(t, ok)
	require.Equal(t, "d", inner.Cond.(*ast.Name).Value)
}

func TestBoundary_NotInFusesToSingleOperator(t *testing.T) {
	mod := mustParse(t, "x = a not in b\n")
	assign := mod.Body[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "not in", bin.Op)
}

func TestBoundary_NotAsPrefixOfComparison(t *testing.T) {
	mod := mustParse(t, "x = not a in b\n")
	assign := mod.Body[0].(*ast.Assign)
	unary, ok := assign.Value.(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, "not", unary.Op)
	bin, ok := unary.X.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "in", bin.Op)
}

func TestBoundary_IsNotFuses(t *testing.T) {
	mod := mustParse(t, "x = a is not b\n")
	assign := mod.Body[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "is not", bin.Op)
}

func TestBoundary_NestedTupleAssignment(t *testing.T) {
	mod := mustParse(t, "(x, y), z = a, b\n")
	assign := mod.Body[0].(*ast.Assign)
	require.Len(t, assign.Targets, 1)
	outer, ok := assign.Targets[0].(*ast.Tuple)
	require.True(t, ok)
	require.Len(t, outer.Items, 2)
	inner, ok := outer.Items[0].(*ast.Tuple)
	require.True(t, ok)
	require.Len(t, inner.Items, 2)

	value, ok := assign.Value.(*ast.Tuple)
	require.True(t, ok)
	require.Len(t, value.Items, 2)
}

func TestBoundary_DictComprehension(t *testing.T) {
	mod := mustParse(t, "x = {k: v for k, v in m}\n")
	assign := mod.Body[0].(*ast.Assign)
	comp, ok := assign.Value.(*ast.DictComp)
	require.True(t, ok)
	require.Equal(t, "k", comp.Key.(*ast.Name).Value)
	require.Equal(t, "v", comp.Value.(*ast.Name).Value)
	tuple, ok := comp.Vars.(*ast.UnpackTuple)
	require.True(t, ok)
	require.Len(t, tuple.Items, 2)
}

func TestBoundary_SliceForms(t *testing.T) {
	cases := map[string]func(*ast.Slice){
		"a[:]\n":  func(s *ast.Slice) { require.Nil(t, s.Low); require.Nil(t, s.High) },
		"a[x:]\n": func(s *ast.Slice) { require.NotNil(t, s.Low); require.Nil(t, s.High) },
		"a[:y]\n": func(s *ast.Slice) { require.Nil(t, s.Low); require.NotNil(t, s.High) },
		"a[x:y]\n": func(s *ast.Slice) {
			require.NotNil(t, s.Low)
			require.NotNil(t, s.High)
		},
	}
	for src, check := range cases {
		mod := mustParse(t, src)
		stmt := mod.Body[0].(*ast.ExprStmt)
		slice, ok := stmt.X.(*ast.Slice)
		require.True(t, ok, "src=%q", src)
		check(slice)
	}
}

func TestBoundary_CallWithArgsAndKwargs(t *testing.T) {
	mod := mustParse(t, "f(a, *b, **c)\n")
	stmt := mod.Body[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
	require.Equal(t, ast.Positional, call.Args[0].Mode)
	require.Equal(t, ast.ArgList, call.Args[1].Mode)
	require.Equal(t, ast.KeywordArgList, call.Args[2].Mode)
}

func TestBoundary_StackedDecorators(t *testing.T) {
	mod := mustParse(t, "@a\n@b.c\ndef f():\n    pass\n")
	fn := mod.Body[0].(*ast.FuncDef)
	require.Len(t, fn.Decorators, 2)
	require.Equal(t, "a", fn.Decorators[0].(*ast.Name).Value)

	mod = mustParse(t, "@a\nclass C:\n    pass\n")
	cls := mod.Body[0].(*ast.ClassDef)
	require.Len(t, cls.Decorators, 1)
}

func TestBoundary_TryMultipleExceptElseFinally(t *testing.T) {
	mod := mustParse(t, "try:\n  a\nexcept E1:\n  b\nexcept E2, e2:\n  c\nelse:\n  d\nfinally:\n  f\n")
	tryStmt := mod.Body[0].(*ast.Try)
	require.Len(t, tryStmt.Excepts, 2)
	require.Equal(t, "e2", tryStmt.Excepts[1].Name)
	require.NotNil(t, tryStmt.Else)
	require.NotNil(t, tryStmt.Finally)
}

func TestInvariant_EveryAssignTargetIsLvalue(t *testing.T) {
	mod := mustParse(t, "a.b[0] = 1\n")
	assign := mod.Body[0].(*ast.Assign)
	for _, target := range assign.Targets {
		require.True(t, ast.IsLvalue(target))
	}
}

func TestInvariant_InvalidAssignmentTargetFails(t *testing.T) {
	err := parseErr(t, "1 = x\n")
	require.Equal(t, parser.InvalidAssignment, err.Kind)
}

func TestAugmentedAssignment(t *testing.T) {
	mod := mustParse(t, "x += 1\n")
	aug := mod.Body[0].(*ast.AugAssign)
	require.Equal(t, "+=", aug.Op)
	require.Equal(t, "x", aug.Target.(*ast.Name).Value)
}

func TestPrintRedirectAndTrailingComma(t *testing.T) {
	mod := mustParse(t, "print >> f, a, b,\n")
	p := mod.Body[0].(*ast.Print)
	require.Equal(t, "f", p.Dest.(*ast.Name).Value)
	require.Len(t, p.Args, 2)
	require.True(t, p.TrailingComma)
}

func TestFromImportStarAndRename(t *testing.T) {
	mod := mustParse(t, "from a.b import *\nfrom c import d as e\n")
	star := mod.Body[0].(*ast.FromImport)
	require.True(t, star.Star)
	require.Equal(t, "a.b", star.Module)

	renamed := mod.Body[1].(*ast.FromImport)
	require.Len(t, renamed.Names, 1)
	require.Equal(t, "d", renamed.Names[0].Path)
	require.Equal(t, "e", renamed.Names[0].Alias)
}

func TestWithMultipleItems(t *testing.T) {
	mod := mustParse(t, "with open(a) as f, open(b) as g:\n    pass\n")
	with := mod.Body[0].(*ast.With)
	require.Len(t, with.Items, 2)
	require.Equal(t, "f", with.Items[0].Vars.(*ast.UnpackVar).Name)
	require.Equal(t, "g", with.Items[1].Vars.(*ast.UnpackVar).Name)
}

func TestForElse(t *testing.T) {
	mod := mustParse(t, "for x in y:\n    a\nelse:\n    b\n")
	forStmt := mod.Body[0].(*ast.For)
	require.Equal(t, "x", forStmt.Vars.(*ast.UnpackVar).Name)
	require.NotNil(t, forStmt.Else)
}

func TestElifWithoutIfFails(t *testing.T) {
	err := parseErr(t, "elif a:\n    b\n")
	require.Equal(t, parser.SyntaxError, err.Kind)
}

func TestExceptWithoutTryFails(t *testing.T) {
	err := parseErr(t, "except E:\n    b\n")
	require.Equal(t, parser.SyntaxError, err.Kind)
}

func TestMaxDepthEnforced(t *testing.T) {
	src := "x = " + strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20) + "\n"
	stream := lexer.Lex([]byte(src))
	require.Nil(t, stream.Err)

	tree := parser.Parse(stream.Tokens, parser.WithMaxDepth(5))
	require.NotNil(t, tree.Err)
	require.Equal(t, parser.ExcessiveNestingDepth, tree.Err.Kind)

	tree = parser.Parse(stream.Tokens, parser.WithMaxDepth(100))
	require.Nil(t, tree.Err)
}

func TestStickyErrorKeepsFirst(t *testing.T) {
	stream := lexer.Lex([]byte("1 = x\n2 = y\n"))
	require.Nil(t, stream.Err)
	tree := parser.Parse(stream.Tokens)
	require.NotNil(t, tree.Err)
	require.Equal(t, parser.InvalidAssignment, tree.Err.Kind)
}
