package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsubset/pyfront/lexer"
	"github.com/nsubset/pyfront/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestEmptyInput(t *testing.T) {
	s := lexer.Lex([]byte(""))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Newline}, kinds(s.Tokens))
}

func TestWhitespaceOnly(t *testing.T) {
	s := lexer.Lex([]byte("   \n   \n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Newline}, kinds(s.Tokens))
}

func TestCommentOnlyNoTrailingNewline(t *testing.T) {
	s := lexer.Lex([]byte("# a comment"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Newline}, kinds(s.Tokens))
}

func TestSimpleAssignment(t *testing.T) {
	s := lexer.Lex([]byte("x = 1\n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Dynamic, token.Equals, token.Integer, token.Newline}, kinds(s.Tokens))
	require.Equal(t, "x", s.Tokens[0].Text)
	require.Equal(t, int64(1), s.Tokens[2].Int)
}

func TestIndentDedentBalance(t *testing.T) {
	s := lexer.Lex([]byte("if a:\n    b\n    c\nd\n"))
	require.Nil(t, s.Err)
	ks := kinds(s.Tokens)
	var depth, maxDepth int
	for _, k := range ks {
		switch k {
		case token.Indent:
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case token.Dedent:
			depth--
		}
	}
	require.Equal(t, 0, depth, "stream must close every Indent with a Dedent")
	require.Equal(t, 1, maxDepth)
}

func TestBlankLinesDoNotAffectIndentation(t *testing.T) {
	s := lexer.Lex([]byte("if a:\n    b\n\n    c\n"))
	require.Nil(t, s.Err)
	ks := kinds(s.Tokens)
	require.Equal(t, token.Indent, ks[4])
	newlineCount := 0
	for _, k := range ks {
		if k == token.Newline {
			newlineCount++
		}
	}
	// The blank line collapses into the preceding Newline rather than
	// producing its own token.
	require.Equal(t, 3, newlineCount)
}

func TestMixedIndentationIsMisaligned(t *testing.T) {
	s := lexer.Lex([]byte("if a:\n    b\n   c\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.MisalignedUnindent, s.Err.Kind)
}

func TestSemicolonFusesToNewline(t *testing.T) {
	s := lexer.Lex([]byte("a; b\n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Dynamic, token.Newline, token.Dynamic, token.Newline}, kinds(s.Tokens))
}

func TestIsNotFusesToSingleToken(t *testing.T) {
	s := lexer.Lex([]byte("a is not b\n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Dynamic, token.IsNot, token.Dynamic, token.Newline}, kinds(s.Tokens))
}

func TestNotInFusesToSingleToken(t *testing.T) {
	s := lexer.Lex([]byte("a not in b\n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{token.Dynamic, token.NotIn, token.Dynamic, token.Newline}, kinds(s.Tokens))
}

func TestBackslashNewlineContinuation(t *testing.T) {
	s := lexer.Lex([]byte("a = 1 + \\\n    2\n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{
		token.Dynamic, token.Equals, token.Integer, token.Plus, token.Integer, token.Newline,
	}, kinds(s.Tokens))
}

func TestNewlinesInsideBracketsAreInsignificant(t *testing.T) {
	s := lexer.Lex([]byte("a = [1,\n2,\n3]\n"))
	require.Nil(t, s.Err)
	ks := kinds(s.Tokens)
	for _, k := range ks[:len(ks)-1] {
		require.NotEqual(t, token.Indent, k)
		require.NotEqual(t, token.Dedent, k)
	}
	require.Equal(t, token.Newline, ks[len(ks)-1])
}

func TestUnmatchedCloseParenFails(t *testing.T) {
	s := lexer.Lex([]byte("a = (1))\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.UnmatchedParenthesis, s.Err.Kind)
}

func TestUnclosedBracketAtEOFFails(t *testing.T) {
	s := lexer.Lex([]byte("a = [1, 2\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.UnmatchedBracket, s.Err.Kind)
}

func TestMismatchedBracketKindFails(t *testing.T) {
	s := lexer.Lex([]byte("a = (1, 2]\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.UnmatchedBracket, s.Err.Kind)
}

func TestTripleQuotedString(t *testing.T) {
	s := lexer.Lex([]byte("a = '''line one\nline two'''\n"))
	require.Nil(t, s.Err)
	require.Equal(t, token.StringConstant, s.Tokens[2].Kind)
	require.Equal(t, "line one\nline two", s.Tokens[2].Text)
}

func TestUnterminatedStringFails(t *testing.T) {
	s := lexer.Lex([]byte("a = 'unterminated\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.UnterminatedStringConstant, s.Err.Kind)
}

func TestUnterminatedTripleStringFails(t *testing.T) {
	s := lexer.Lex([]byte("a = '''unterminated\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.UnterminatedStringConstant, s.Err.Kind)
}

func TestHexIntegerLiteral(t *testing.T) {
	s := lexer.Lex([]byte("a = 0xFF\n"))
	require.Nil(t, s.Err)
	require.Equal(t, token.Integer, s.Tokens[2].Kind)
	require.Equal(t, int64(255), s.Tokens[2].Int)
}

func TestLeadingDotFloat(t *testing.T) {
	s := lexer.Lex([]byte("a = .5\n"))
	require.Nil(t, s.Err)
	require.Equal(t, token.Float, s.Tokens[2].Kind)
	require.Equal(t, 0.5, s.Tokens[2].Float)
}

func TestBadScientificNotationFails(t *testing.T) {
	s := lexer.Lex([]byte("a = 1e\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.BadScientificNotation, s.Err.Kind)
}

func TestBadTokenFails(t *testing.T) {
	s := lexer.Lex([]byte("a = $\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.BadToken, s.Err.Kind)
}

func TestCommentMustPrecedeNewline(t *testing.T) {
	// A comment is only ever followed by a Newline or end of stream, so
	// this property holds for every legal input; deleteComments asserts
	// it rather than relying on the scanner alone.
	s := lexer.Lex([]byte("a = 1 # trailing comment\nb = 2\n"))
	require.Nil(t, s.Err)
	require.Equal(t, []token.Kind{
		token.Dynamic, token.Equals, token.Integer, token.Newline,
		token.Dynamic, token.Equals, token.Integer, token.Newline,
	}, kinds(s.Tokens))
}

func TestStickyErrorKeepsFirst(t *testing.T) {
	s := lexer.Lex([]byte("a = $\nb = $\n"))
	require.NotNil(t, s.Err)
	require.Equal(t, lexer.BadToken, s.Err.Kind)
}

func TestTrailingNewlineAlwaysEnsured(t *testing.T) {
	s := lexer.Lex([]byte("a = 1"))
	require.Nil(t, s.Err)
	require.Equal(t, token.Newline, s.Tokens[len(s.Tokens)-1].Kind)
}

func TestDedentsEmittedAtEndOfFile(t *testing.T) {
	s := lexer.Lex([]byte("if a:\n    b\n"))
	require.Nil(t, s.Err)
	ks := kinds(s.Tokens)
	require.Equal(t, token.Dedent, ks[len(ks)-1])
}
