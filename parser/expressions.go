package parser

import (
	"github.com/nsubset/pyfront/ast"
	"github.com/nsubset/pyfront/token"
)

// exprSpan builds an ast.BaseExpr covering tokens [start, end).
func (p *parser) exprSpan(start, end int) ast.BaseExpr {
	sp := p.span(start, end)
	return ast.BaseExpr{Sp: sp.Offset, Ln: sp.Length}
}

// parseExpression implements the split-by-operator precedence ladder
// from lowest to highest precedence over the half-open range
// [start, end). It consumes every token in the range.
func (p *parser) parseExpression(start, end int) ast.Expr {
	if p.err != nil {
		return nil
	}
	if start >= end {
		p.fail(IncompleteExpressionParsing, start, "expected an expression")
		return nil
	}
	if ok, leave := p.enterDepth(start); !ok {
		return nil
	} else {
		defer leave()
	}

	if p.kind(start) == token.Lambda {
		return p.parseLambda(start, end)
	}

	if idx := p.findOneBracketed(start, end, token.If, false); idx > start && idx < end {
		elseIdx := p.findOneBracketed(idx+1, end, token.Else, false)
		if elseIdx <= idx || elseIdx >= end {
			p.fail(IncompleteTernaryOperator, idx, "if with no matching else")
			return nil
		}
		x := p.parseExpression(start, idx)
		cond := p.parseExpression(idx+1, elseIdx)
		elseExpr := p.parseExpression(elseIdx+1, end)
		return &ast.Ternary{BaseExpr: p.exprSpan(start, end), X: x, Cond: cond, Else: elseExpr}
	}

	if idx := p.findOneBracketed(start, end, token.Or, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findOneBracketed(start, end, token.And, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if p.kind(start) == token.Not {
		inner := p.parseExpression(start+1, end)
		return &ast.Unary{BaseExpr: p.exprSpan(start, end), Op: "not", X: inner}
	}
	if idx := p.findBracketed(start, end, comparisonKinds, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findOneBracketed(start, end, token.Pipe, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findOneBracketed(start, end, token.Caret, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findOneBracketed(start, end, token.Ampersand, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findBracketed(start, end, shiftKinds, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findBracketed(start, end, additiveKinds, true); idx > start && idx < end && !token.IsOperator(p.kind(idx-1)) {
		return p.parseBinary(start, idx, end)
	}
	if idx := p.findBracketed(start, end, multiplicativeKinds, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}

	switch p.kind(start) {
	case token.Plus, token.Minus, token.Tilde:
		op := p.kind(start).String()
		inner := p.parseExpression(start+1, end)
		return &ast.Unary{BaseExpr: p.exprSpan(start, end), Op: op, X: inner}
	}

	if idx := p.findOneBracketed(start, end, token.DoubleAsterisk, true); idx > start && idx < end {
		return p.parseBinary(start, idx, end)
	}

	return p.parsePostfixOrPrimary(start, end)
}

func (p *parser) parseBinary(start, opIdx, end int) ast.Expr {
	op := p.kind(opIdx).String()
	left := p.parseExpression(start, opIdx)
	right := p.parseExpression(opIdx+1, end)
	return &ast.Binary{BaseExpr: p.exprSpan(start, end), Op: op, X: left, Y: right}
}

func (p *parser) parseLambda(start, end int) ast.Expr {
	colonIdx := p.findOneBracketed(start+1, end, token.Colon, false)
	if colonIdx < 0 || colonIdx >= end {
		p.fail(IncompleteLambdaDefinition, start, "lambda has no colon")
		return nil
	}
	args := p.parseArgDefs(start+1, colonIdx)
	body := p.parseExpression(colonIdx+1, end)
	return &ast.Lambda{BaseExpr: p.exprSpan(start, end), Args: args, Body: body}
}

// matchingClose returns the index of the closer matching the opener at
// openIdx, or -1 if unbalanced.
func (p *parser) matchingClose(openIdx int) int {
	opener := p.kind(openIdx)
	closer := token.ClosingBracket(opener)
	depth := 0
	for i := openIdx; i < len(p.tokens); i++ {
		k := p.kind(i)
		if k == opener {
			depth++
		} else if k == closer {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parsePostfixOrPrimary implements precedence levels 15 and 16: the
// postfix chain (index/slice, call, attribute access), chosen by the
// last top-level occurrence of "[", "(", or ".", and otherwise a
// primary expression.
func (p *parser) parsePostfixOrPrimary(start, end int) ast.Expr {
	bracketIdx := p.findOneBracketed(start, end, token.OpenBracket, true)
	parenIdx := p.findOneBracketed(start, end, token.OpenParen, true)
	dotIdx := p.findOneBracketed(start, end, token.Dot, true)

	best := -1
	which := 0
	for _, cand := range [...]struct{ idx, tag int }{{bracketIdx, 1}, {parenIdx, 2}, {dotIdx, 3}} {
		if cand.idx > start && cand.idx < end && cand.idx > best {
			best = cand.idx
			which = cand.tag
		}
	}
	if best == -1 {
		return p.parsePrimary(start, end)
	}

	switch which {
	case 1:
		closeIdx := p.matchingClose(best)
		if closeIdx < 0 || closeIdx >= end {
			p.fail(BracketingError, best, "unmatched [")
			return nil
		}
		if closeIdx != end-1 {
			p.fail(IncompleteExpressionParsing, closeIdx+1, "unexpected token after expression")
			return nil
		}
		base := p.parseExpression(start, best)
		colonIdx := p.findOneBracketed(best+1, closeIdx, token.Colon, false)
		if colonIdx >= 0 && colonIdx < closeIdx {
			var low, high ast.Expr
			if colonIdx > best+1 {
				low = p.parseExpression(best+1, colonIdx)
			}
			if closeIdx > colonIdx+1 {
				high = p.parseExpression(colonIdx+1, closeIdx)
			}
			return &ast.Slice{BaseExpr: p.exprSpan(start, closeIdx+1), X: base, Low: low, High: high}
		}
		index := p.parseExpression(best+1, closeIdx)
		return &ast.Index{BaseExpr: p.exprSpan(start, closeIdx+1), X: base, Index: index}

	case 2:
		closeIdx := p.matchingClose(best)
		if closeIdx < 0 || closeIdx >= end {
			p.fail(BracketingError, best, "unmatched (")
			return nil
		}
		if closeIdx != end-1 {
			p.fail(IncompleteExpressionParsing, closeIdx+1, "unexpected token after expression")
			return nil
		}
		fn := p.parseExpression(start, best)
		args := p.parseCallArgs(best+1, closeIdx)
		return &ast.Call{BaseExpr: p.exprSpan(start, closeIdx+1), Fn: fn, Args: args}

	default:
		if end != best+2 {
			p.fail(IncompleteExpressionParsing, best+2, "unexpected token after expression")
			return nil
		}
		base := p.parseExpression(start, best)
		name := p.identText(best + 1)
		return &ast.Attr{BaseExpr: p.exprSpan(start, best+2), X: base, Name: name}
	}
}

func (p *parser) parsePrimary(start, end int) ast.Expr {
	if start >= end {
		p.fail(IncompleteExpressionParsing, start, "expected a primary expression")
		return nil
	}

	switch p.kind(start) {
	case token.OpenParen:
		closeIdx := p.matchingClose(start)
		if closeIdx != end-1 {
			p.fail(BracketingError, start, "unmatched (")
			return nil
		}
		return p.parseParenBody(start+1, closeIdx)

	case token.OpenBracket:
		closeIdx := p.matchingClose(start)
		if closeIdx != end-1 {
			p.fail(BracketingError, start, "unmatched [")
			return nil
		}
		return p.parseBracketBody(start+1, closeIdx)

	case token.OpenBrace:
		closeIdx := p.matchingClose(start)
		if closeIdx != end-1 {
			p.fail(BracketingError, start, "unmatched {")
			return nil
		}
		return p.parseBraceBody(start+1, closeIdx)

	case token.Integer, token.Float, token.StringConstant, token.Dynamic:
		if end != start+1 {
			p.fail(IncompleteExpressionParsing, start+1, "unexpected token after expression")
			return nil
		}
		switch p.kind(start) {
		case token.Integer:
			t := p.tokens[start]
			return &ast.Int{BaseExpr: p.exprSpan(start, start+1), Literal: t.Text, Value: t.Int}
		case token.Float:
			t := p.tokens[start]
			return &ast.Float{BaseExpr: p.exprSpan(start, start+1), Literal: t.Text, Value: t.Float}
		case token.StringConstant:
			t := p.tokens[start]
			return &ast.Str{BaseExpr: p.exprSpan(start, start+1), Value: t.Text}
		default:
			text := p.tokens[start].Text
			sp := p.exprSpan(start, start+1)
			switch text {
			case "True":
				return &ast.True{BaseExpr: sp}
			case "False":
				return &ast.False{BaseExpr: sp}
			case "None":
				return &ast.None{BaseExpr: sp}
			default:
				return &ast.Name{BaseExpr: sp, Value: text}
			}
		}
	}

	p.fail(SyntaxError, start, "unexpected token in expression")
	return nil
}

// parseParenBody handles the content between a "(" and its matching
// ")": empty tuple, a generator expression, a single parenthesized
// expression, or a tuple constructor.
func (p *parser) parseParenBody(start, end int) ast.Expr {
	if start >= end {
		return &ast.Tuple{BaseExpr: p.exprSpan(start-1, end+1)}
	}
	if forIdx := p.findOneBracketed(start, end, token.For, false); forIdx >= 0 && forIdx < end {
		item, vars, source, cond := p.parseComprehensionClauses(start, forIdx, end)
		return &ast.GenExpr{BaseExpr: p.exprSpan(start-1, end+1), Item: item, Vars: vars, Source: source, Cond: cond}
	}
	commaIdx := p.findOneBracketed(start, end, token.Comma, false)
	if commaIdx < 0 || commaIdx >= end {
		return p.parseExpression(start, end)
	}
	items := p.parseExpressionList(start, end)
	return &ast.Tuple{BaseExpr: p.exprSpan(start-1, end+1), Items: items}
}

// parseBracketBody handles the content between a "[" and its matching
// "]": empty list, a list comprehension, or a list constructor.
func (p *parser) parseBracketBody(start, end int) ast.Expr {
	sp := p.exprSpan(start-1, end+1)
	if start >= end {
		return &ast.List{BaseExpr: sp}
	}
	if forIdx := p.findOneBracketed(start, end, token.For, false); forIdx >= 0 && forIdx < end {
		item, vars, source, cond := p.parseComprehensionClauses(start, forIdx, end)
		return &ast.ListComp{BaseExpr: sp, Item: item, Vars: vars, Source: source, Cond: cond}
	}
	return &ast.List{BaseExpr: sp, Items: p.parseExpressionList(start, end)}
}

// parseBraceBody handles the content between a "{" and its matching
// "}": empty dict, a set/dict constructor, or a set/dict comprehension,
// disambiguated by a top-level ":" before any top-level "for".
func (p *parser) parseBraceBody(start, end int) ast.Expr {
	sp := p.exprSpan(start-1, end+1)
	if start >= end {
		return &ast.Dict{BaseExpr: sp}
	}
	forIdx := p.findOneBracketed(start, end, token.For, false)
	colonIdx := p.findOneBracketed(start, end, token.Colon, false)
	isComprehension := forIdx >= 0 && forIdx < end
	isDict := colonIdx >= 0 && colonIdx < end && (!isComprehension || colonIdx < forIdx)

	if isComprehension {
		if isDict {
			key := p.parseExpression(start, colonIdx)
			value := p.parseExpression(colonIdx+1, forIdx)
			vars, source, cond := p.parseComprehensionTail(forIdx, end)
			return &ast.DictComp{BaseExpr: sp, Key: key, Value: value, Vars: vars, Source: source, Cond: cond}
		}
		item, vars, source, cond := p.parseComprehensionClauses(start, forIdx, end)
		return &ast.SetComp{BaseExpr: sp, Item: item, Vars: vars, Source: source, Cond: cond}
	}

	if isDict {
		var keys, values []ast.Expr
		for _, rng := range p.splitByTopLevelComma(start, end) {
			if rng[0] >= rng[1] {
				continue
			}
			c := p.findOneBracketed(rng[0], rng[1], token.Colon, false)
			if c < 0 || c >= rng[1] {
				p.fail(IncompleteDictItem, rng[0], "dict item missing colon")
				return nil
			}
			keys = append(keys, p.parseExpression(rng[0], c))
			values = append(values, p.parseExpression(c+1, rng[1]))
		}
		return &ast.Dict{BaseExpr: sp, Keys: keys, Values: values}
	}

	return &ast.Set{BaseExpr: sp, Items: p.parseExpressionList(start, end)}
}

// parseComprehensionClauses parses the shared "Vars in Source [if Cond]"
// tail of a list/set/dict comprehension or generator expression; item is
// the expression to the left of the "for", in [itemStart, forIdx).
func (p *parser) parseComprehensionClauses(itemStart, forIdx, end int) (item ast.Expr, vars ast.Unpacking, source ast.Expr, cond ast.Expr) {
	item = p.parseExpression(itemStart, forIdx)
	vars, source, cond = p.parseComprehensionTail(forIdx, end)
	return
}

// parseComprehensionTail parses "for Vars in Source [if Cond]" starting at
// forIdx, without parsing the item expression to its left — used by
// parseComprehensionClauses and, directly, by a dict comprehension whose
// value expression (to the left of "for") was already parsed once as the
// dict value.
func (p *parser) parseComprehensionTail(forIdx, end int) (vars ast.Unpacking, source ast.Expr, cond ast.Expr) {
	inIdx := p.findOneBracketed(forIdx+1, end, token.In, false)
	if inIdx < 0 || inIdx >= end {
		p.fail(IncompleteGeneratorExpression, forIdx, "for with no matching in")
		return
	}
	vars = p.parseUnpacking(forIdx+1, inIdx)
	ifIdx := p.findOneBracketed(inIdx+1, end, token.If, false)
	if ifIdx >= 0 && ifIdx < end {
		source = p.parseExpression(inIdx+1, ifIdx)
		cond = p.parseExpression(ifIdx+1, end)
	} else {
		source = p.parseExpression(inIdx+1, end)
	}
	return
}

// parseExpressionList splits [start, end) on top-level commas and
// parses each element, ignoring a single trailing comma.
func (p *parser) parseExpressionList(start, end int) []ast.Expr {
	var items []ast.Expr
	for _, rng := range p.splitByTopLevelComma(start, end) {
		if rng[0] >= rng[1] {
			continue
		}
		items = append(items, p.parseExpression(rng[0], rng[1]))
	}
	return items
}

// splitByTopLevelComma splits [start, end) into sub-ranges on every
// top-level comma, dropping a trailing empty range after a final comma.
func (p *parser) splitByTopLevelComma(start, end int) [][2]int {
	var ranges [][2]int
	cur := start
	for cur < end {
		commaIdx := p.findOneBracketed(cur, end, token.Comma, false)
		if commaIdx < 0 || commaIdx >= end {
			ranges = append(ranges, [2]int{cur, end})
			break
		}
		ranges = append(ranges, [2]int{cur, commaIdx})
		cur = commaIdx + 1
	}
	return ranges
}

// parseUnpacking parses the recursive identifier/nested-tuple pattern
// used by assignment targets, for-loop heads, and comprehension
// variables.
func (p *parser) parseUnpacking(start, end int) ast.Unpacking {
	if start >= end {
		p.fail(SyntaxError, start, "expected an unpacking target")
		return nil
	}
	commaIdx := p.findOneBracketed(start, end, token.Comma, false)
	if commaIdx < 0 || commaIdx >= end {
		if p.kind(start) == token.OpenParen && p.matchingClose(start) == end-1 {
			return p.parseUnpacking(start+1, end-1)
		}
		if end-start == 1 && p.kind(start) == token.Dynamic {
			sp := p.span(start, end)
			return &ast.UnpackVar{Sp: sp.Offset, Ln: sp.Length, Name: p.tokens[start].Text}
		}
		p.fail(SyntaxError, start, "expected a lone identifier")
		return nil
	}
	var items []ast.Unpacking
	for _, rng := range p.splitByTopLevelComma(start, end) {
		if rng[0] >= rng[1] {
			continue
		}
		items = append(items, p.parseUnpacking(rng[0], rng[1]))
	}
	sp := p.span(start, end)
	return &ast.UnpackTuple{Sp: sp.Offset, Ln: sp.Length, Items: items}
}

// parseArgDefs parses a function or lambda parameter list.
func (p *parser) parseArgDefs(start, end int) []*ast.Arg {
	var args []*ast.Arg
	for _, rng := range p.splitByTopLevelComma(start, end) {
		s, e := rng[0], rng[1]
		if s >= e {
			continue
		}
		sp := p.span(s, e)
		switch p.kind(s) {
		case token.Asterisk:
			args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Name: p.identTextRange(s+1, e), Mode: ast.ArgList})
		case token.DoubleAsterisk:
			args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Name: p.identTextRange(s+1, e), Mode: ast.KeywordArgList})
		default:
			eqIdx := p.findOneBracketed(s+1, e, token.Equals, false)
			nameEnd := e
			var def ast.Expr
			if eqIdx >= 0 && eqIdx < e {
				nameEnd = eqIdx
				def = p.parseExpression(eqIdx+1, e)
			}
			name := p.identTextRange(s, nameEnd)
			args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Name: name, Value: def})
		}
	}
	return args
}

// parseCallArgs parses a call argument list.
func (p *parser) parseCallArgs(start, end int) []*ast.Arg {
	var args []*ast.Arg
	for _, rng := range p.splitByTopLevelComma(start, end) {
		s, e := rng[0], rng[1]
		if s >= e {
			continue
		}
		sp := p.span(s, e)
		switch p.kind(s) {
		case token.Asterisk:
			args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Value: p.parseExpression(s+1, e), Mode: ast.ArgList})
		case token.DoubleAsterisk:
			args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Value: p.parseExpression(s+1, e), Mode: ast.KeywordArgList})
		default:
			eqIdx := p.findOneBracketed(s, e, token.Equals, false)
			if eqIdx == s+1 && p.kind(s) == token.Dynamic {
				args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Name: p.tokens[s].Text, Value: p.parseExpression(eqIdx+1, e), Keyword: true})
			} else {
				args = append(args, &ast.Arg{Sp: sp.Offset, Ln: sp.Length, Value: p.parseExpression(s, e)})
			}
		}
	}
	return args
}

// identText requires tokens[i] to be a Dynamic (identifier) token and
// returns its text.
func (p *parser) identText(i int) string {
	if p.kind(i) != token.Dynamic {
		p.fail(SyntaxError, i, "expected an identifier")
		return ""
	}
	return p.tokens[i].Text
}

// identTextRange requires [start, end) to hold exactly one Dynamic
// (identifier) token and returns its text, failing SyntaxError on a
// missing identifier or IncompleteExpressionParsing on a range wider
// than one token — the same "consume the whole range" postcondition
// parseExpression's leaf rules enforce.
func (p *parser) identTextRange(start, end int) string {
	if start >= end {
		p.fail(SyntaxError, start, "expected an identifier")
		return ""
	}
	if end != start+1 {
		p.fail(IncompleteExpressionParsing, start+1, "unexpected token after identifier")
		return ""
	}
	return p.identText(start)
}
