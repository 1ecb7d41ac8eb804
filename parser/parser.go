// Package parser builds a typed AST from a token stream using a
// bracket-aware, precedence-climbing expression parser and a
// block-oriented statement parser.
package parser

import (
	"slices"

	"github.com/nsubset/pyfront/ast"
	"github.com/nsubset/pyfront/token"
)

// Tree is the result of a parse: either a complete Module or a sticky
// error describing the first failure encountered.
type Tree struct {
	Root *ast.Module
	Err  *Error
}

// Option configures a Parse call.
type Option func(*parser)

// WithMaxDepth bounds the recursion depth of expression parsing. Input
// with deeper nesting than depth fails with ExcessiveNestingDepth
// instead of exhausting the goroutine stack. The default is
// DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the recursion depth limit used when Parse is
// called with no WithMaxDepth option.
const DefaultMaxDepth = 500

// Parse builds a Module from a complete token stream produced by the
// lexer.
func Parse(tokens []token.Token, opts ...Option) Tree {
	p := &parser{tokens: tokens, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	body := p.parseSuite(0, len(tokens))
	if p.err != nil {
		return Tree{Err: p.err}
	}
	return Tree{Root: &ast.Module{Body: body}}
}

type parser struct {
	tokens []token.Token
	err    *Error

	depth    int
	maxDepth int
}

// enterDepth records one more level of expression recursion and fails
// the parse with ExcessiveNestingDepth once maxDepth is exceeded. It
// returns a func to undo the increment, meant to be deferred.
func (p *parser) enterDepth(at int) (ok bool, leave func()) {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(ExcessiveNestingDepth, at, "maximum expression nesting depth exceeded")
		p.depth--
		return false, func() {}
	}
	return true, func() { p.depth-- }
}

func (p *parser) fail(kind ErrorKind, tokenIndex int, explanation string) {
	if p.err != nil {
		return
	}
	p.err = &Error{Kind: kind, TokenIndex: tokenIndex, Explanation: explanation}
}

func (p *parser) kind(i int) token.Kind {
	if i < 0 || i >= len(p.tokens) {
		return token.InvalidToken
	}
	return p.tokens[i].Kind
}

// span computes the source span covering tokens [start, end).
func (p *parser) span(start, end int) token.Span {
	if start >= end || start < 0 || end > len(p.tokens) {
		return token.Span{}
	}
	from := p.tokens[start].Span.Offset
	to := p.tokens[end-1].Span.End()
	return token.Span{Offset: from, Length: to - from}
}

// findBracketed scans tokens[start:end] for the first (or, if last is
// true, the last) token at bracket-nesting depth 0 whose kind is in
// kinds. It returns -1 if no such token is found. Encountering a closer
// with no matching opener records a BracketingError and returns -1.
func (p *parser) findBracketed(start, end int, kinds []token.Kind, last bool) int {
	var stack []token.Kind
	found := -1
	for i := start; i < end; i++ {
		k := p.kind(i)
		if token.IsOpenBracket(k) {
			if len(stack) == 0 && slices.Contains(kinds, k) {
				found = i
				if !last {
					return found
				}
			}
			stack = append(stack, k)
			continue
		}
		if token.IsCloseBracket(k) {
			if len(stack) == 0 {
				p.fail(BracketingError, i, "unmatched closing bracket")
				return -1
			}
			top := stack[len(stack)-1]
			if token.ClosingBracket(top) != k {
				p.fail(BracketingError, i, "mismatched bracket")
				return -1
			}
			stack = stack[:len(stack)-1]
			continue
		}
		if len(stack) > 0 {
			continue
		}
		matched := false
		for _, want := range kinds {
			if k == want {
				matched = true
				break
			}
		}
		if matched {
			found = i
			if !last {
				return found
			}
		}
	}
	return found
}

// findOneBracketed is findBracketed for a single target kind.
func (p *parser) findOneBracketed(start, end int, want token.Kind, last bool) int {
	return p.findBracketed(start, end, []token.Kind{want}, last)
}

// findDedent locates the Dedent token that closes the suite opened by
// the Indent token immediately preceding start. Indent/Dedent nesting is
// tracked separately from the three bracket families since the lexer
// never emits Indent/Dedent inside a bracketed expression.
func (p *parser) findDedent(start, end int) int {
	depth := 0
	for i := start; i < end; i++ {
		switch p.kind(i) {
		case token.Indent:
			depth++
		case token.Dedent:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// findNewline locates the first top-level Newline in [start, end). The
// lexer never emits a Newline inside a bracketed expression, so no
// bracket tracking is needed here.
func (p *parser) findNewline(start, end int) int {
	for i := start; i < end; i++ {
		if p.kind(i) == token.Newline {
			return i
		}
	}
	return -1
}

var comparisonKinds = []token.Kind{
	token.LessThan, token.LessEqual, token.GreaterThan, token.GreaterEqual,
	token.Equal, token.NotEqual, token.In, token.NotIn, token.Is, token.IsNot,
}

var shiftKinds = []token.Kind{token.LeftShift, token.RightShift}
var additiveKinds = []token.Kind{token.Plus, token.Minus}
var multiplicativeKinds = []token.Kind{token.Asterisk, token.Slash, token.DoubleSlash, token.Percent}
