package parser

import "fmt"

// ErrorKind enumerates the ways parsing a token stream can fail.
type ErrorKind int

const (
	NoParseError ErrorKind = iota
	UnimplementedFeature
	InvalidIndentationChange
	InvalidStartingTokenType
	ExtraDataAfterLine
	UnbalancedImportStatement
	InvalidDynamicList
	SyntaxError
	UnexpectedEndOfStream
	BracketingError
	IncompleteParsing
	IncompleteTernaryOperator
	IncompleteLambdaDefinition
	IncompleteGeneratorExpression
	IncompleteExpressionParsing
	IncompleteDictItem
	TooManyArguments
	InvalidAssignment
	ExcessiveNestingDepth
)

var errorKindNames = [...]string{
	"NoParseError",
	"UnimplementedFeature",
	"InvalidIndentationChange",
	"InvalidStartingTokenType",
	"ExtraDataAfterLine",
	"UnbalancedImportStatement",
	"InvalidDynamicList",
	"SyntaxError",
	"UnexpectedEndOfStream",
	"BracketingError",
	"IncompleteParsing",
	"IncompleteTernaryOperator",
	"IncompleteLambdaDefinition",
	"IncompleteGeneratorExpression",
	"IncompleteExpressionParsing",
	"IncompleteDictItem",
	"TooManyArguments",
	"InvalidAssignment",
	"ExcessiveNestingDepth",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the sticky parse failure: only the first one encountered is
// kept. TokenIndex is an index into the token stream the parser was
// given, not a byte offset.
type Error struct {
	Kind        ErrorKind
	TokenIndex  int
	Explanation string
}

func (e *Error) Error() string {
	if e.Explanation != "" {
		return fmt.Sprintf("%s at token %d: %s", e.Kind, e.TokenIndex, e.Explanation)
	}
	return fmt.Sprintf("%s at token %d", e.Kind, e.TokenIndex)
}
