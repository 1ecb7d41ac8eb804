package parser

import (
	"strings"

	"github.com/nsubset/pyfront/ast"
	"github.com/nsubset/pyfront/token"
)

// stmtSpan builds an ast.BaseStmt covering tokens [start, end).
func (p *parser) stmtSpan(start, end int) ast.BaseStmt {
	sp := p.span(start, end)
	return ast.BaseStmt{Sp: sp.Offset, Ln: sp.Length}
}

// suiteContext is the per-indentation-level "local-clause state" from
// §4.4: pointers to the most recently parsed if/for/while/try at this
// suite level (so a following elif/else/except/finally can find its
// predecessor) and a pending decorator stack. Any statement that is not
// a continuation clause or a decorator clears the clause pointers;
// def/class additionally consume and clear the decorator stack.
type suiteContext struct {
	currentIf    *ast.If
	currentFor   *ast.For
	currentWhile *ast.While
	currentTry   *ast.Try
	decorators   []ast.Expr
}

func (c *suiteContext) clearClausePointers() {
	c.currentIf = nil
	c.currentFor = nil
	c.currentWhile = nil
	c.currentTry = nil
}

func (c *suiteContext) clearAll() {
	c.clearClausePointers()
	c.decorators = nil
}

// parseSuite appends parsed statements from tokens[start, end) into an
// ordered slice, implementing §4.4's contract. It owns its own
// suiteContext: every indentation level tracks clause-binding state
// independently.
func (p *parser) parseSuite(start, end int) []ast.Stmt {
	ctx := &suiteContext{}
	var stmts []ast.Stmt
	cursor := start
	for cursor < end {
		if p.err != nil {
			return stmts
		}
		if p.kind(cursor) == token.Newline {
			cursor++
			continue
		}
		stmt, next := p.parseStatement(cursor, end, ctx)
		if p.err != nil {
			return stmts
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if next <= cursor {
			// Defensive: never spin in place even if a handler failed to
			// advance the cursor.
			next = cursor + 1
		}
		cursor = next
	}
	return stmts
}

// suiteFromColon parses the body attached after the ':' at colonIdx,
// implementing the two suite forms from §4.4: an indented block found
// by an Indent/Dedent depth-tracking search (findDedent) for the closing
// Dedent, or a same-line
// single statement terminated by the next Newline. It returns the body
// and the index just past the suite.
func (p *parser) suiteFromColon(colonIdx, end int) ([]ast.Stmt, int) {
	if p.err != nil {
		return nil, colonIdx + 1
	}
	if p.kind(colonIdx) != token.Colon {
		p.fail(SyntaxError, colonIdx, "expected ':'")
		return nil, colonIdx + 1
	}
	next := colonIdx + 1
	if p.kind(next) == token.Newline {
		indentIdx := next + 1
		if p.kind(indentIdx) != token.Indent {
			p.fail(InvalidIndentationChange, indentIdx, "expected an indented block")
			return nil, indentIdx
		}
		dedentIdx := p.findDedent(indentIdx+1, end)
		if dedentIdx < 0 {
			p.fail(UnexpectedEndOfStream, indentIdx, "unterminated suite")
			return nil, end
		}
		body := p.parseSuite(indentIdx+1, dedentIdx)
		return body, dedentIdx + 1
	}
	lineEnd := p.findNewline(next, end)
	if lineEnd < 0 {
		p.fail(UnexpectedEndOfStream, next, "expected a newline")
		return nil, end
	}
	body := p.parseSuite(next, lineEnd)
	return body, lineEnd + 1
}

// requireEnd records ExtraDataAfterLine if pos has not reached lineEnd,
// for statements (pass, break, continue) that take no suffix.
func (p *parser) requireEnd(pos, lineEnd int) {
	if pos != lineEnd {
		p.fail(ExtraDataAfterLine, pos, "unexpected token after statement")
	}
}

// parseExprOrTuple parses [start, end) as a single expression, or, if it
// contains a top-level comma, as an implicit tuple — the form Python
// uses for "return a, b", "yield a, b", and assignment right/left sides
// without surrounding parentheses.
func (p *parser) parseExprOrTuple(start, end int) ast.Expr {
	if start >= end {
		return nil
	}
	if idx := p.findOneBracketed(start, end, token.Comma, false); idx >= 0 && idx < end {
		return &ast.Tuple{BaseExpr: p.exprSpan(start, end), Items: p.parseExpressionList(start, end)}
	}
	return p.parseExpression(start, end)
}

// findAssignOp locates the lowest-indexed top-level '=' or
// augmented-assignment token in [start, end), per §4.4's expression-first
// statement dispatch.
func (p *parser) findAssignOp(start, end int) (idx int, isAug bool, op string) {
	eqIdx := p.findOneBracketed(start, end, token.Equals, false)
	augIdx := p.findBracketed(start, end, token.AugmentedAssignKinds, false)
	switch {
	case eqIdx < 0 && augIdx < 0:
		return -1, false, ""
	case eqIdx < 0:
		return augIdx, true, p.kind(augIdx).String()
	case augIdx < 0:
		return eqIdx, false, "="
	case eqIdx < augIdx:
		return eqIdx, false, "="
	default:
		return augIdx, true, p.kind(augIdx).String()
	}
}

// parseDottedPath parses an "a.b.c"-style module path: a run of Dynamic
// identifiers joined by '.'.
func (p *parser) parseDottedPath(start, end int) string {
	if start >= end {
		p.fail(InvalidDynamicList, start, "expected a module name")
		return ""
	}
	var parts []string
	i := start
	for {
		if p.kind(i) != token.Dynamic {
			p.fail(InvalidDynamicList, i, "expected an identifier in a module path")
			return strings.Join(parts, ".")
		}
		parts = append(parts, p.tokens[i].Text)
		i++
		if i >= end {
			break
		}
		if p.kind(i) != token.Dot {
			p.fail(UnbalancedImportStatement, i, "expected '.' between module path segments")
			return strings.Join(parts, ".")
		}
		i++
	}
	return strings.Join(parts, ".")
}

// parseImportName parses one comma-delimited element of an import list:
// a dotted path with an optional "as alias".
func (p *parser) parseImportName(start, end int) ast.ImportName {
	asIdx := p.findOneBracketed(start, end, token.As, false)
	pathEnd := end
	alias := ""
	if asIdx >= 0 && asIdx < end {
		pathEnd = asIdx
		if asIdx+2 != end || p.kind(asIdx+1) != token.Dynamic {
			p.fail(UnbalancedImportStatement, asIdx, "expected a single identifier after 'as'")
		} else {
			alias = p.tokens[asIdx+1].Text
		}
	}
	return ast.ImportName{Path: p.parseDottedPath(start, pathEnd), Alias: alias}
}

// parseStatement parses exactly one statement starting at cursor (which
// must be < end) and returns it along with the index just past it. A
// continuation clause (elif/else/except/finally) or a decorator returns
// a nil statement: it mutates ctx or the compound statement it is bound
// to instead of producing a new top-level node.
func (p *parser) parseStatement(cursor, end int, ctx *suiteContext) (ast.Stmt, int) {
	lineEnd := p.findNewline(cursor, end)
	if lineEnd < 0 || lineEnd > end {
		lineEnd = end
	}
	kind := p.kind(cursor)

	switch kind {
	case token.At, token.Elif, token.Else, token.Except, token.Finally:
		// Continuation clauses and decorators never clear local-clause
		// state; see below.
	case token.Def, token.Class:
		ctx.clearClausePointers()
	default:
		ctx.clearAll()
	}

	switch kind {
	case token.At:
		expr := p.parseExpression(cursor+1, lineEnd)
		ctx.decorators = append(ctx.decorators, expr)
		return nil, lineEnd + 1

	case token.Elif:
		if ctx.currentIf == nil {
			p.fail(SyntaxError, cursor, "elif without a matching if")
			return nil, lineEnd + 1
		}
		colonIdx := p.findOneBracketed(cursor+1, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, cursor, "expected ':'")
			return nil, lineEnd + 1
		}
		cond := p.parseExpression(cursor+1, colonIdx)
		body, next := p.suiteFromColon(colonIdx, end)
		ctx.currentIf.Elifs = append(ctx.currentIf.Elifs, &ast.Elif{
			BaseStmt: p.stmtSpan(cursor, next), Cond: cond, Body: body,
		})
		return nil, next

	case token.Else:
		colonIdx := p.findOneBracketed(cursor+1, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, cursor, "expected ':'")
			return nil, lineEnd + 1
		}
		body, next := p.suiteFromColon(colonIdx, end)
		elseClause := &ast.Else{BaseStmt: p.stmtSpan(cursor, next), Body: body}
		switch {
		case ctx.currentIf != nil:
			ctx.currentIf.Else = elseClause
		case ctx.currentFor != nil:
			ctx.currentFor.Else = elseClause
		case ctx.currentWhile != nil:
			ctx.currentWhile.Else = elseClause
		case ctx.currentTry != nil:
			ctx.currentTry.Else = elseClause
		default:
			p.fail(SyntaxError, cursor, "else without a matching if, for, while, or try")
		}
		return nil, next

	case token.Except:
		if ctx.currentTry == nil {
			p.fail(SyntaxError, cursor, "except without a matching try")
			return nil, lineEnd + 1
		}
		next := cursor + 1
		colonIdx := p.findOneBracketed(next, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, cursor, "expected ':'")
			return nil, lineEnd + 1
		}
		var typ ast.Expr
		var name string
		if colonIdx > next {
			asIdx := p.findOneBracketed(next, colonIdx, token.As, false)
			commaIdx := p.findOneBracketed(next, colonIdx, token.Comma, false)
			switch {
			case asIdx >= 0 && asIdx < colonIdx:
				typ = p.parseExpression(next, asIdx)
				name = p.identTextRange(asIdx+1, colonIdx)
			case commaIdx >= 0 && commaIdx < colonIdx:
				typ = p.parseExpression(next, commaIdx)
				name = p.identTextRange(commaIdx+1, colonIdx)
			default:
				typ = p.parseExpression(next, colonIdx)
			}
		}
		body, after := p.suiteFromColon(colonIdx, end)
		ctx.currentTry.Excepts = append(ctx.currentTry.Excepts, &ast.Except{
			BaseStmt: p.stmtSpan(cursor, after), Type: typ, Name: name, Body: body,
		})
		return nil, after

	case token.Finally:
		if ctx.currentTry == nil {
			p.fail(SyntaxError, cursor, "finally without a matching try")
			return nil, lineEnd + 1
		}
		colonIdx := cursor + 1
		body, next := p.suiteFromColon(colonIdx, end)
		ctx.currentTry.Finally = &ast.Finally{BaseStmt: p.stmtSpan(cursor, next), Body: body}
		return nil, next

	case token.Pass:
		p.requireEnd(cursor+1, lineEnd)
		return &ast.Pass{BaseStmt: p.stmtSpan(cursor, lineEnd)}, lineEnd + 1

	case token.Break:
		p.requireEnd(cursor+1, lineEnd)
		return &ast.Break{BaseStmt: p.stmtSpan(cursor, lineEnd)}, lineEnd + 1

	case token.Continue:
		p.requireEnd(cursor+1, lineEnd)
		return &ast.Continue{BaseStmt: p.stmtSpan(cursor, lineEnd)}, lineEnd + 1

	case token.Return:
		var value ast.Expr
		if cursor+1 < lineEnd {
			value = p.parseExprOrTuple(cursor+1, lineEnd)
		}
		return &ast.Return{BaseStmt: p.stmtSpan(cursor, lineEnd), Value: value}, lineEnd + 1

	case token.Yield:
		var value ast.Expr
		if cursor+1 < lineEnd {
			value = p.parseExprOrTuple(cursor+1, lineEnd)
		}
		return &ast.Yield{BaseStmt: p.stmtSpan(cursor, lineEnd), Value: value}, lineEnd + 1

	case token.Del:
		targets := p.parseExpressionList(cursor+1, lineEnd)
		return &ast.Delete{BaseStmt: p.stmtSpan(cursor, lineEnd), Targets: targets}, lineEnd + 1

	case token.Global:
		var names []string
		for _, rng := range p.splitByTopLevelComma(cursor+1, lineEnd) {
			if rng[0] >= rng[1] {
				continue
			}
			names = append(names, p.identTextRange(rng[0], rng[1]))
		}
		return &ast.Global{BaseStmt: p.stmtSpan(cursor, lineEnd), Names: names}, lineEnd + 1

	case token.Assert:
		parts := p.splitByTopLevelComma(cursor+1, lineEnd)
		if len(parts) > 2 {
			p.fail(TooManyArguments, cursor, "assert takes at most a condition and a message")
		}
		var cond, msg ast.Expr
		if len(parts) >= 1 {
			cond = p.parseExpression(parts[0][0], parts[0][1])
		}
		if len(parts) >= 2 {
			msg = p.parseExpression(parts[1][0], parts[1][1])
		}
		return &ast.Assert{BaseStmt: p.stmtSpan(cursor, lineEnd), Cond: cond, Msg: msg}, lineEnd + 1

	case token.Raise:
		if cursor+1 >= lineEnd {
			return &ast.Raise{BaseStmt: p.stmtSpan(cursor, lineEnd)}, lineEnd + 1
		}
		parts := p.splitByTopLevelComma(cursor+1, lineEnd)
		if len(parts) > 3 {
			p.fail(TooManyArguments, cursor, "raise takes at most three arguments")
		}
		var exc, arg, tb ast.Expr
		if len(parts) >= 1 {
			exc = p.parseExpression(parts[0][0], parts[0][1])
		}
		if len(parts) >= 2 {
			arg = p.parseExpression(parts[1][0], parts[1][1])
		}
		if len(parts) >= 3 {
			tb = p.parseExpression(parts[2][0], parts[2][1])
		}
		return &ast.Raise{BaseStmt: p.stmtSpan(cursor, lineEnd), Exc: exc, Arg: arg, Traceback: tb}, lineEnd + 1

	case token.Exec:
		next := cursor + 1
		inIdx := p.findOneBracketed(next, lineEnd, token.In, false)
		var code, globals, locals ast.Expr
		if inIdx >= 0 && inIdx < lineEnd {
			code = p.parseExpression(next, inIdx)
			parts := p.splitByTopLevelComma(inIdx+1, lineEnd)
			if len(parts) > 2 {
				p.fail(TooManyArguments, inIdx, "exec takes at most a globals and a locals expression")
			} else {
				if len(parts) >= 1 {
					globals = p.parseExpression(parts[0][0], parts[0][1])
				}
				if len(parts) == 2 {
					locals = p.parseExpression(parts[1][0], parts[1][1])
				}
			}
		} else {
			code = p.parseExpression(next, lineEnd)
		}
		return &ast.Exec{BaseStmt: p.stmtSpan(cursor, lineEnd), Code: code, Globals: globals, Locals: locals}, lineEnd + 1

	case token.Import:
		var names []ast.ImportName
		for _, rng := range p.splitByTopLevelComma(cursor+1, lineEnd) {
			if rng[0] >= rng[1] {
				continue
			}
			names = append(names, p.parseImportName(rng[0], rng[1]))
		}
		return &ast.Import{BaseStmt: p.stmtSpan(cursor, lineEnd), Names: names}, lineEnd + 1

	case token.From:
		next := cursor + 1
		importIdx := p.findOneBracketed(next, lineEnd, token.Import, false)
		if importIdx < 0 {
			p.fail(UnbalancedImportStatement, cursor, "expected 'import'")
			return nil, lineEnd + 1
		}
		module := p.parseDottedPath(next, importIdx)
		after := importIdx + 1
		if after < lineEnd && p.kind(after) == token.Asterisk && after+1 == lineEnd {
			return &ast.FromImport{BaseStmt: p.stmtSpan(cursor, lineEnd), Module: module, Star: true}, lineEnd + 1
		}
		var names []ast.ImportName
		for _, rng := range p.splitByTopLevelComma(after, lineEnd) {
			if rng[0] >= rng[1] {
				continue
			}
			names = append(names, p.parseImportName(rng[0], rng[1]))
		}
		return &ast.FromImport{BaseStmt: p.stmtSpan(cursor, lineEnd), Module: module, Names: names}, lineEnd + 1

	case token.Print:
		next := cursor + 1
		var dest ast.Expr
		if p.kind(next) == token.RightShift {
			commaIdx := p.findOneBracketed(next+1, lineEnd, token.Comma, false)
			if commaIdx < 0 {
				p.fail(SyntaxError, next, "expected ',' after a redirected print target")
				return nil, lineEnd + 1
			}
			dest = p.parseExpression(next+1, commaIdx)
			next = commaIdx + 1
		}
		trailing := false
		argsEnd := lineEnd
		if argsEnd > next && p.kind(argsEnd-1) == token.Comma {
			trailing = true
			argsEnd--
		}
		args := p.parseExpressionList(next, argsEnd)
		return &ast.Print{BaseStmt: p.stmtSpan(cursor, lineEnd), Dest: dest, Args: args, TrailingComma: trailing}, lineEnd + 1

	case token.Def:
		name := p.identText(cursor + 1)
		openIdx := cursor + 2
		if p.kind(openIdx) != token.OpenParen {
			p.fail(SyntaxError, openIdx, "expected '(' after a function name")
			return nil, lineEnd + 1
		}
		closeIdx := p.matchingClose(openIdx)
		if closeIdx < 0 {
			p.fail(BracketingError, openIdx, "unmatched '('")
			return nil, lineEnd + 1
		}
		args := p.parseArgDefs(openIdx+1, closeIdx)
		body, next := p.suiteFromColon(closeIdx+1, end)
		decorators := ctx.decorators
		ctx.decorators = nil
		return &ast.FuncDef{
			BaseStmt: p.stmtSpan(cursor, next), Name: name, Args: args, Body: body, Decorators: decorators,
		}, next

	case token.Class:
		name := p.identText(cursor + 1)
		i := cursor + 2
		var bases []ast.Expr
		if p.kind(i) == token.OpenParen {
			closeIdx := p.matchingClose(i)
			if closeIdx < 0 {
				p.fail(BracketingError, i, "unmatched '('")
				return nil, lineEnd + 1
			}
			bases = p.parseExpressionList(i+1, closeIdx)
			i = closeIdx + 1
		}
		body, next := p.suiteFromColon(i, end)
		decorators := ctx.decorators
		ctx.decorators = nil
		return &ast.ClassDef{
			BaseStmt: p.stmtSpan(cursor, next), Name: name, Bases: bases, Body: body, Decorators: decorators,
		}, next

	case token.If:
		colonIdx := p.findOneBracketed(cursor+1, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, cursor, "expected ':'")
			return nil, lineEnd + 1
		}
		cond := p.parseExpression(cursor+1, colonIdx)
		body, next := p.suiteFromColon(colonIdx, end)
		ifStmt := &ast.If{BaseStmt: p.stmtSpan(cursor, next), Cond: cond, Body: body}
		ctx.currentIf = ifStmt
		return ifStmt, next

	case token.For:
		inIdx := p.findOneBracketed(cursor+1, lineEnd, token.In, false)
		if inIdx < 0 {
			p.fail(SyntaxError, cursor, "expected 'in'")
			return nil, lineEnd + 1
		}
		vars := p.parseUnpacking(cursor+1, inIdx)
		colonIdx := p.findOneBracketed(inIdx+1, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, inIdx, "expected ':'")
			return nil, lineEnd + 1
		}
		source := p.parseExprOrTuple(inIdx+1, colonIdx)
		body, next := p.suiteFromColon(colonIdx, end)
		forStmt := &ast.For{BaseStmt: p.stmtSpan(cursor, next), Vars: vars, Source: source, Body: body}
		ctx.currentFor = forStmt
		return forStmt, next

	case token.While:
		colonIdx := p.findOneBracketed(cursor+1, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, cursor, "expected ':'")
			return nil, lineEnd + 1
		}
		cond := p.parseExpression(cursor+1, colonIdx)
		body, next := p.suiteFromColon(colonIdx, end)
		whileStmt := &ast.While{BaseStmt: p.stmtSpan(cursor, next), Cond: cond, Body: body}
		ctx.currentWhile = whileStmt
		return whileStmt, next

	case token.Try:
		body, next := p.suiteFromColon(cursor+1, end)
		tryStmt := &ast.Try{BaseStmt: p.stmtSpan(cursor, next), Body: body}
		ctx.currentTry = tryStmt
		return tryStmt, next

	case token.With:
		colonIdx := p.findOneBracketed(cursor+1, lineEnd, token.Colon, false)
		if colonIdx < 0 {
			p.fail(SyntaxError, cursor, "expected ':'")
			return nil, lineEnd + 1
		}
		var items []ast.WithItem
		for _, rng := range p.splitByTopLevelComma(cursor+1, colonIdx) {
			s, e := rng[0], rng[1]
			if s >= e {
				continue
			}
			asIdx := p.findOneBracketed(s, e, token.As, false)
			if asIdx >= 0 && asIdx < e {
				items = append(items, ast.WithItem{
					Value: p.parseExpression(s, asIdx),
					Vars:  p.parseUnpacking(asIdx+1, e),
				})
			} else {
				items = append(items, ast.WithItem{Value: p.parseExpression(s, e)})
			}
		}
		body, next := p.suiteFromColon(colonIdx, end)
		return &ast.With{BaseStmt: p.stmtSpan(cursor, next), Items: items, Body: body}, next

	case token.Indent, token.Dedent, token.CloseParen, token.CloseBracket, token.CloseBrace, token.Colon:
		p.fail(InvalidStartingTokenType, cursor, "token cannot start a statement")
		return nil, lineEnd + 1
	}

	// Expression-first statement: a bare expression, an assignment (with
	// Python's chained "a = b = value" form), or an augmented assignment.
	assignIdx, isAug, op := p.findAssignOp(cursor, lineEnd)
	switch {
	case assignIdx < 0:
		expr := p.parseExprOrTuple(cursor, lineEnd)
		return &ast.ExprStmt{BaseStmt: p.stmtSpan(cursor, lineEnd), X: expr}, lineEnd + 1

	case isAug:
		target := p.parseExpression(cursor, assignIdx)
		if target != nil && !ast.IsLvalue(target) {
			p.fail(InvalidAssignment, cursor, "invalid augmented-assignment target")
		}
		value := p.parseExprOrTuple(assignIdx+1, lineEnd)
		return &ast.AugAssign{BaseStmt: p.stmtSpan(cursor, lineEnd), Target: target, Op: op, Value: value}, lineEnd + 1

	default:
		var targets []ast.Expr
		prev := cursor
		for {
			eq := p.findOneBracketed(prev, lineEnd, token.Equals, false)
			if eq < 0 || eq >= lineEnd {
				break
			}
			t := p.parseExprOrTuple(prev, eq)
			if t != nil && !ast.IsLvalue(t) {
				p.fail(InvalidAssignment, prev, "invalid assignment target")
			}
			targets = append(targets, t)
			prev = eq + 1
		}
		value := p.parseExprOrTuple(prev, lineEnd)
		return &ast.Assign{BaseStmt: p.stmtSpan(cursor, lineEnd), Targets: targets, Value: value}, lineEnd + 1
	}
}
