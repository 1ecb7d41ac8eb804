// Package lexer turns a source buffer into a token.Stream. It never
// panics: failures are reported in-band via the returned Stream's Err
// field, with the sticky-first-error policy described in the package's
// design notes (see Error).
package lexer

import (
	"slices"
	"strconv"

	"github.com/nsubset/pyfront/token"
)

// Stream is the lexer's output: an ordered token sequence plus an optional
// sticky error.
type Stream struct {
	Tokens []token.Token
	Err    *Error
}

// Lex tokenizes src in full and returns the resulting Stream. It is safe to
// call concurrently from multiple goroutines with independent inputs.
func Lex(src []byte) Stream {
	l := &lexer{src: src, indentLevels: []int{0}}
	l.run()
	if l.err != nil {
		return Stream{Err: l.err}
	}
	l.postProcess()
	if l.err != nil {
		return Stream{Err: l.err}
	}
	return Stream{Tokens: l.tokens}
}

type lexer struct {
	src    []byte
	pos    int
	tokens []token.Token
	err    *Error

	indentLevels []int
	parenStack   []token.Kind
}

func (l *lexer) fail(kind ErrorKind, offset int) {
	if l.err != nil {
		return
	}
	l.err = &Error{Kind: kind, Offset: offset}
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		if l.src[l.pos] == ' ' {
			l.pos++
			continue
		}

		tok, elided, ok := l.scanOne()
		if !ok {
			return
		}
		if elided {
			continue
		}

		switch {
		case token.IsOpenBracket(tok.Kind):
			l.parenStack = append(l.parenStack, tok.Kind)
			l.tokens = append(l.tokens, tok)

		case token.IsCloseBracket(tok.Kind):
			if len(l.parenStack) == 0 || token.ClosingBracket(l.parenStack[len(l.parenStack)-1]) != tok.Kind {
				l.fail(unmatchedErrorFor(tok.Kind), tok.Span.Offset)
				return
			}
			l.parenStack = l.parenStack[:len(l.parenStack)-1]
			l.tokens = append(l.tokens, tok)

		case tok.Kind == token.Newline:
			if len(l.parenStack) > 0 {
				// Newlines inside brackets are insignificant: neither
				// emitted nor considered for indentation.
				continue
			}
			l.tokens = append(l.tokens, tok)
			l.handleIndentation()

		default:
			l.tokens = append(l.tokens, tok)
		}
	}

	if l.err == nil && len(l.parenStack) > 0 {
		l.fail(unmatchedErrorFor(token.ClosingBracket(l.parenStack[len(l.parenStack)-1])), len(l.src))
	}
}

func unmatchedErrorFor(closer token.Kind) ErrorKind {
	switch closer {
	case token.CloseParen:
		return UnmatchedParenthesis
	case token.CloseBracket:
		return UnmatchedBracket
	case token.CloseBrace:
		return UnmatchedBrace
	default:
		return UnmatchedParenthesis
	}
}

// handleIndentation implements §4.1's indentation handling: it is called
// immediately after a top-level Newline has been pushed.
func (l *lexer) handleIndentation() {
	for {
		n := blankLineLength(l.src[l.pos:])
		if n == 0 {
			break
		}
		l.pos += n
	}

	nextIndent := lineIndent(l.src[l.pos:])
	top := l.indentLevels[len(l.indentLevels)-1]

	if nextIndent > top {
		l.indentLevels = append(l.indentLevels, nextIndent)
		l.tokens = append(l.tokens, token.Token{Kind: token.Indent, Span: token.Span{Offset: l.pos}})
	} else {
		for nextIndent < l.indentLevels[len(l.indentLevels)-1] {
			l.indentLevels = l.indentLevels[:len(l.indentLevels)-1]
			l.tokens = append(l.tokens, token.Token{Kind: token.Dedent, Span: token.Span{Offset: l.pos}})
		}
	}

	if l.indentLevels[len(l.indentLevels)-1] != nextIndent {
		l.fail(MisalignedUnindent, l.pos)
		return
	}
	l.pos += nextIndent
}

func blankLineLength(rest []byte) int {
	i := 0
	for i < len(rest) && rest[i] == ' ' {
		i++
	}
	if i+1 < len(rest) && rest[i] == '\r' && rest[i+1] == '\n' {
		return i + 2
	}
	if i < len(rest) && rest[i] == '\n' {
		return i + 1
	}
	return 0
}

func lineIndent(rest []byte) int {
	i := 0
	for i < len(rest) && rest[i] == ' ' {
		i++
	}
	return i
}

// scanOne applies the scanning order from §4.1: comment, identifier,
// triple-quoted string, quoted string, numeric literal, then the
// longest-match symbolic tokens. It returns elided=true for a
// BackslashNewline, which is recognized but never added to the token list.
func (l *lexer) scanOne() (token.Token, bool, bool) {
	start := l.pos
	rest := l.src[l.pos:]

	if rest[0] == '#' {
		i := 0
		for i < len(rest) && rest[i] != '\n' {
			i++
		}
		l.pos += i
		return token.Token{Kind: token.Comment, Span: token.Span{Offset: start, Length: i}}, false, true
	}

	if isIdentStart(rest[0]) {
		i := 1
		for i < len(rest) && isIdentCont(rest[i]) {
			i++
		}
		text := string(rest[:i])
		l.pos += i
		kind := token.LookupIdentifier(text)
		if kind == token.Dynamic {
			return token.Token{Kind: token.Dynamic, Text: text, Span: token.Span{Offset: start, Length: i}}, false, true
		}
		return token.Token{Kind: kind, Span: token.Span{Offset: start, Length: i}}, false, true
	}

	if tok, ok := l.scanTripleQuoted(rest, start); ok {
		return tok, false, l.err == nil
	}
	if l.err != nil {
		return token.Token{}, false, false
	}

	if tok, ok := l.scanQuoted(rest, start); ok {
		return tok, false, l.err == nil
	}
	if l.err != nil {
		return token.Token{}, false, false
	}

	if m, ok := scanNumber(rest); ok {
		if m.badExp {
			l.fail(BadScientificNotation, start)
			return token.Token{}, false, false
		}
		text := string(rest[:m.length])
		l.pos += m.length
		if m.isFloat {
			v, _ := strconv.ParseFloat(text, 64)
			return token.Token{Kind: token.Float, Text: text, Float: v, Span: token.Span{Offset: start, Length: m.length}}, false, true
		}
		v := parseIntLiteral(text, m.isHex)
		return token.Token{Kind: token.Integer, Text: text, Int: v, Span: token.Span{Offset: start, Length: m.length}}, false, true
	}

	if tok, elided, ok := l.scanSymbol(rest, start); ok {
		return tok, elided, true
	}

	l.fail(BadToken, start)
	return token.Token{}, false, false
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func (l *lexer) scanTripleQuoted(rest []byte, start int) (token.Token, bool) {
	if len(rest) < 3 {
		return token.Token{}, false
	}
	quote := rest[:3]
	if string(quote) != `'''` && string(quote) != `"""` {
		return token.Token{}, false
	}
	i := 3
	for {
		if i+3 > len(rest) {
			l.fail(UnterminatedStringConstant, start)
			return token.Token{}, true
		}
		if string(rest[i:i+3]) == string(quote) {
			break
		}
		i++
	}
	body := string(rest[3:i])
	length := i + 3
	l.pos += length
	return token.Token{Kind: token.StringConstant, Text: body, Span: token.Span{Offset: start, Length: length}}, true
}

func (l *lexer) scanQuoted(rest []byte, start int) (token.Token, bool) {
	if rest[0] != '\'' && rest[0] != '"' {
		return token.Token{}, false
	}
	quote := rest[0]
	i := 1
	for i < len(rest) && rest[i] != quote {
		i++
	}
	if i >= len(rest) {
		l.fail(UnterminatedStringConstant, start)
		return token.Token{}, true
	}
	body := string(rest[1:i])
	length := i + 1
	l.pos += length
	return token.Token{Kind: token.StringConstant, Text: body, Span: token.Span{Offset: start, Length: length}}, true
}

var threeCharSymbols = map[string]token.Kind{
	"<<=": token.LeftShiftEquals,
	">>=": token.RightShiftEquals,
	"**=": token.DoubleAsteriskEquals,
	"//=": token.DoubleSlashEquals,
}

var twoCharSymbols = map[string]token.Kind{
	"//": token.DoubleSlash,
	"**": token.DoubleAsterisk,
	"<<": token.LeftShift,
	">>": token.RightShift,
	"==": token.Equal,
	">=": token.GreaterEqual,
	"<=": token.LessEqual,
	"!=": token.NotEqual,
	"<>": token.NotEqual,
	"+=": token.PlusEquals,
	"-=": token.MinusEquals,
	"*=": token.AsteriskEquals,
	"/=": token.SlashEquals,
	"%=": token.PercentEquals,
	"&=": token.AndEquals,
	"|=": token.OrEquals,
	"^=": token.XorEquals,
}

var oneCharSymbols = map[byte]token.Kind{
	'@': token.At, '(': token.OpenParen, ')': token.CloseParen,
	':': token.Colon, '<': token.LessThan, '>': token.GreaterThan,
	'=': token.Equals, ',': token.Comma, ';': token.Semicolon,
	'.': token.Dot, '+': token.Plus, '-': token.Minus, '*': token.Asterisk,
	'/': token.Slash, '|': token.Pipe, '^': token.Caret, '&': token.Ampersand,
	'%': token.Percent, '~': token.Tilde, '[': token.OpenBracket,
	']': token.CloseBracket, '{': token.OpenBrace, '}': token.CloseBrace,
	'`': token.Backtick,
}

// scanSymbol handles backslash-newline elision, windows/unix newlines, and
// the longest-match-wins symbolic token table from §4.1 step 7.
func (l *lexer) scanSymbol(rest []byte, start int) (token.Token, bool, bool) {
	if hasPrefix(rest, "\\\r\n") {
		l.pos += 3
		return token.Token{}, true, true
	}
	if hasPrefix(rest, "\\\n") {
		l.pos += 2
		return token.Token{}, true, true
	}
	if hasPrefix(rest, "\r\n") {
		l.pos += 2
		return token.Token{Kind: token.Newline, Span: token.Span{Offset: start, Length: 2}}, false, true
	}
	if len(rest) >= 3 {
		if kind, ok := threeCharSymbols[string(rest[:3])]; ok {
			l.pos += 3
			return token.Token{Kind: kind, Span: token.Span{Offset: start, Length: 3}}, false, true
		}
	}
	if len(rest) >= 2 {
		if kind, ok := twoCharSymbols[string(rest[:2])]; ok {
			l.pos += 2
			return token.Token{Kind: kind, Span: token.Span{Offset: start, Length: 2}}, false, true
		}
	}
	if rest[0] == '\n' {
		l.pos++
		return token.Token{Kind: token.Newline, Span: token.Span{Offset: start, Length: 1}}, false, true
	}
	if kind, ok := oneCharSymbols[rest[0]]; ok {
		l.pos++
		return token.Token{Kind: kind, Span: token.Span{Offset: start, Length: 1}}, false, true
	}
	return token.Token{}, false, false
}

func hasPrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	return string(b[:len(prefix)]) == prefix
}

// postProcess applies the post-passes from §3.2/§4.1, in order: delete
// comments (they must be immediately followed by a Newline), strip leading
// newlines, fuse composite tokens and collapse duplicate newlines, then
// ensure the stream ends with exactly one Newline followed by any pending
// Dedents.
func (l *lexer) postProcess() {
	l.deleteComments()
	if l.err != nil {
		return
	}
	l.stripLeadingNewlines()
	l.fuseAndCollapse()
	l.closeOut()
}

func (l *lexer) deleteComments() {
	out := l.tokens[:0:0]
	for i := 0; i < len(l.tokens); i++ {
		t := l.tokens[i]
		if t.Kind != token.Comment {
			out = append(out, t)
			continue
		}
		if i == len(l.tokens)-1 {
			continue
		}
		if l.tokens[i+1].Kind != token.Newline {
			l.fail(IncompleteLexing, t.Span.Offset)
			return
		}
	}
	l.tokens = out
}

func (l *lexer) stripLeadingNewlines() {
	i := 0
	for i < len(l.tokens) && l.tokens[i].Kind == token.Newline {
		i++
	}
	l.tokens = l.tokens[i:]
}

func (l *lexer) fuseAndCollapse() {
	out := make([]token.Token, 0, len(l.tokens))
	for i := 0; i < len(l.tokens); i++ {
		t := l.tokens[i]
		if t.Kind == token.Semicolon {
			t.Kind = token.Newline
		}
		if t.Kind == token.Is && i+1 < len(l.tokens) && l.tokens[i+1].Kind == token.Not {
			out = append(out, token.Token{Kind: token.IsNot, Span: token.Span{Offset: t.Span.Offset, Length: l.tokens[i+1].Span.End() - t.Span.Offset}})
			i++
			continue
		}
		if t.Kind == token.Not && i+1 < len(l.tokens) && l.tokens[i+1].Kind == token.In {
			out = append(out, token.Token{Kind: token.NotIn, Span: token.Span{Offset: t.Span.Offset, Length: l.tokens[i+1].Span.End() - t.Span.Offset}})
			i++
			continue
		}
		if t.Kind == token.Newline && len(out) > 0 && out[len(out)-1].Kind == token.Newline {
			continue
		}
		out = append(out, t)
	}
	l.tokens = out
}

func (l *lexer) closeOut() {
	// Dedents emitted after the last top-level Newline already follow it,
	// so the Newline check looks at the token before any trailing Dedents.
	last := len(l.tokens)
	for last > 0 && l.tokens[last-1].Kind == token.Dedent {
		last--
	}
	if last == 0 || l.tokens[last-1].Kind != token.Newline {
		offset := len(l.src)
		if last > 0 {
			offset = l.tokens[last-1].Span.End()
		}
		l.tokens = slices.Insert(l.tokens, last, token.Token{Kind: token.Newline, Span: token.Span{Offset: offset}})
	}
	for len(l.indentLevels) > 1 {
		l.indentLevels = l.indentLevels[:len(l.indentLevels)-1]
		l.tokens = append(l.tokens, token.Token{Kind: token.Dedent, Span: token.Span{Offset: len(l.src)}})
	}
}
