package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsubset/pyfront/token"
)

func TestLookupIdentifierReservedWords(t *testing.T) {
	require.Equal(t, token.If, token.LookupIdentifier("if"))
	require.Equal(t, token.Class, token.LookupIdentifier("class"))
	require.Equal(t, token.Is, token.LookupIdentifier("is"))
}

func TestLookupIdentifierDynamic(t *testing.T) {
	require.Equal(t, token.Dynamic, token.LookupIdentifier("foo"))
	require.Equal(t, token.Dynamic, token.LookupIdentifier("Print"))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "if", token.If.String())
	require.Equal(t, "+=", token.PlusEquals.String())
	require.Contains(t, token.Kind(99999).String(), "Kind(")
}

func TestSpanEnd(t *testing.T) {
	s := token.Span{Offset: 10, Length: 4}
	require.Equal(t, 14, s.End())
}

func TestBracketPredicates(t *testing.T) {
	require.True(t, token.IsOpenBracket(token.OpenParen))
	require.True(t, token.IsOpenBracket(token.OpenBracket))
	require.True(t, token.IsOpenBracket(token.OpenBrace))
	require.False(t, token.IsOpenBracket(token.CloseParen))

	require.True(t, token.IsCloseBracket(token.CloseParen))
	require.True(t, token.IsCloseBracket(token.CloseBracket))
	require.True(t, token.IsCloseBracket(token.CloseBrace))
	require.False(t, token.IsCloseBracket(token.OpenParen))
}

func TestClosingBracketPairs(t *testing.T) {
	require.Equal(t, token.CloseParen, token.ClosingBracket(token.OpenParen))
	require.Equal(t, token.CloseBracket, token.ClosingBracket(token.OpenBracket))
	require.Equal(t, token.CloseBrace, token.ClosingBracket(token.OpenBrace))
}

func TestIsOperator(t *testing.T) {
	require.True(t, token.IsOperator(token.Plus))
	require.True(t, token.IsOperator(token.NotIn))
	require.True(t, token.IsOperator(token.IsNot))
	require.False(t, token.IsOperator(token.Comma))
	require.False(t, token.IsOperator(token.Colon))
}

func TestAugmentedAssignKindsCoversAllAugmentedOperators(t *testing.T) {
	require.Len(t, token.AugmentedAssignKinds, 12)
	require.Contains(t, token.AugmentedAssignKinds, token.PlusEquals)
	require.Contains(t, token.AugmentedAssignKinds, token.DoubleSlashEquals)
}
