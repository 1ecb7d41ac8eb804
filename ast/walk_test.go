package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkCountsNodes(t *testing.T) {
	// x = 1 + y
	module := &Module{
		Body: []Stmt{
			&Assign{
				Targets: []Expr{&Name{Value: "x"}},
				Value: &Binary{
					Op: "+",
					X:  &Int{Literal: "1", Value: 1},
					Y:  &Name{Value: "y"},
				},
			},
		},
	}

	nodes := Inspect(module)
	// module, assign, name(x), binary, int(1), name(y)
	require.Len(t, nodes, 6)
}

func TestWalkStopsAtFalse(t *testing.T) {
	module := &Module{
		Body: []Stmt{
			&ExprStmt{X: &Binary{Op: "+", X: &Name{Value: "a"}, Y: &Name{Value: "b"}}},
		},
	}

	var visited []Node
	Walk(module, func(n Node) bool {
		visited = append(visited, n)
		_, isBinary := n.(*Binary)
		return !isBinary
	})

	// module, exprstmt, binary -- children of binary are skipped
	require.Len(t, visited, 3)
}

func TestWalkVisitsCompoundStatementClauses(t *testing.T) {
	module := &Module{
		Body: []Stmt{
			&If{
				Cond: &Name{Value: "a"},
				Body: []Stmt{&Pass{}},
				Elifs: []*Elif{
					{Cond: &Name{Value: "b"}, Body: []Stmt{&Pass{}}},
				},
				Else: &Else{Body: []Stmt{&Pass{}}},
			},
		},
	}

	var kinds []string
	Walk(module, func(n Node) bool {
		switch n.(type) {
		case *Elif:
			kinds = append(kinds, "elif")
		case *Else:
			kinds = append(kinds, "else")
		case *Pass:
			kinds = append(kinds, "pass")
		}
		return true
	})

	require.Equal(t, []string{"pass", "elif", "pass", "else", "pass"}, kinds)
}
