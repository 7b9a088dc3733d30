package cur

// parser.go implements the recursive-descent parser of spec.md §4.2:
// a single-token-lookahead walk over the token stream produced by the
// lexer, building AST nodes into an Arena. Keyword recognition (fn,
// struct, enum, return, ...) happens here against plain Ident tokens,
// the same way the original C parser consults a keyword table at
// parse time rather than have the lexer tag keywords itself — the
// token stream here carries no keyword kind of its own.
//
// This file replaces the teacher's early PEG combinator parser
// (Backtrackable/Parser/ZeroOrMore/Choice), which the grammar compiler
// itself stopped using in favor of BaseParser (base_parser.go); a
// second, unrelated recursive-descent style — peek/advance/expect
// helpers driving a precedence-climbing expression chain — is what
// this file follows instead, the same shape sicpu's pkg/compiler
// parser.go uses for its own small C-like language.

type Parser struct {
	file    string
	tokens  []Token
	cursors []Cursor
	pos     int
	arena   *Arena
}

func NewParser(file string, tokens []Token, cursors []Cursor, arena *Arena) *Parser {
	return &Parser{file: file, tokens: tokens, cursors: cursors, arena: arena}
}

// Parse consumes the whole token stream and returns the top-level
// statement list.
func (p *Parser) Parse() ([]StmntID, error) {
	var out []StmntID
	for !p.atEnd() {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *Parser) cur() Token {
	if p.atEnd() {
		return Token{Kind: TokNone}
	}
	return p.tokens[p.pos]
}

func (p *Parser) curAt(offset int) Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return Token{Kind: TokNone}
	}
	return p.tokens[i]
}

func (p *Parser) curCursorIdx() int { return p.pos }

func (p *Parser) here() Cursor {
	if p.pos < len(p.cursors) {
		return p.cursors[p.pos]
	}
	if len(p.cursors) > 0 {
		return p.cursors[len(p.cursors)-1]
	}
	return Cursor{Row: 1, Col: 1}
}

func (p *Parser) advance() Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(k TokenKind) bool { return p.cur().Kind == k }

func (p *Parser) checkIdent(name string) bool {
	t := p.cur()
	return t.Kind == TokIdent && t.Ident == name
}

func (p *Parser) errf(format string, args ...any) *Diagnostic {
	return errf(p.file, p.here(), format, args...)
}

func (p *Parser) expect(k TokenKind) (Token, error) {
	if !p.check(k) {
		return Token{}, p.errf("expected %s, got %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent(name string) error {
	if !p.checkIdent(name) {
		return p.errf("expected %q, got %s", name, p.cur())
	}
	p.advance()
	return nil
}

// ---- Statements ----

func (p *Parser) parseStatement() (StmntID, error) {
	switch {
	case p.check(TokDirective):
		return p.parseDirective()
	case p.checkIdent("return"):
		return p.parseReturn()
	case p.checkIdent("continue"):
		return p.parseSimpleKeywordStmnt(SkContinue, "continue")
	case p.checkIdent("break"):
		return p.parseSimpleKeywordStmnt(SkBreak, "break")
	case p.checkIdent("if"):
		return p.parseIf()
	case p.checkIdent("for"):
		return p.parseFor()
	case p.checkIdent("extern"):
		return p.parseExtern()
	case p.checkIdent("defer"):
		return p.parseDefer()
	case p.check(TokLeftCurl):
		return p.parseBlock()
	case p.check(TokIdent) && p.curAt(1).Kind == TokColon:
		return p.parseDeclaration()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseSimpleKeywordStmnt(kind StmntKind, name string) (StmntID, error) {
	idx := p.curCursorIdx()
	if err := p.expectIdent(name); err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokSemiColon); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: kind, CursorIdx: idx}), nil
}

func (p *Parser) parseReturn() (StmntID, error) {
	idx := p.curCursorIdx()
	if err := p.expectIdent("return"); err != nil {
		return NoStmnt, err
	}
	s := Stmnt{Kind: SkReturn, CursorIdx: idx}
	if !p.check(TokSemiColon) {
		val, err := p.parseExpr()
		if err != nil {
			return NoStmnt, err
		}
		s.RetValue = val
		s.HasRetValue = true
	}
	if _, err := p.expect(TokSemiColon); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(s), nil
}

func (p *Parser) parseBlock() (StmntID, error) {
	idx := p.curCursorIdx()
	if _, err := p.expect(TokLeftCurl); err != nil {
		return NoStmnt, err
	}
	var body []StmntID
	for !p.check(TokRightCurl) {
		if p.atEnd() {
			return NoStmnt, p.errf("unterminated block, expected '}'")
		}
		s, err := p.parseStatement()
		if err != nil {
			return NoStmnt, err
		}
		body = append(body, s)
	}
	if _, err := p.expect(TokRightCurl); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkBlock, CursorIdx: idx, Block: body}), nil
}

func (p *Parser) parseStatementBody() ([]StmntID, error) {
	id, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return p.arena.Stmnt(id).Block, nil
}

func (p *Parser) parseExtern() (StmntID, error) {
	idx := p.curCursorIdx()
	if err := p.expectIdent("extern"); err != nil {
		return NoStmnt, err
	}
	inner, err := p.parseStatement()
	if err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkExtern, CursorIdx: idx, Inner: inner}), nil
}

func (p *Parser) parseDefer() (StmntID, error) {
	idx := p.curCursorIdx()
	if err := p.expectIdent("defer"); err != nil {
		return NoStmnt, err
	}
	inner, err := p.parseStatement()
	if err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkDefer, CursorIdx: idx, Inner: inner}), nil
}

func (p *Parser) parseIf() (StmntID, error) {
	idx := p.curCursorIdx()
	if err := p.expectIdent("if"); err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokLeftParen); err != nil {
		return NoStmnt, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokRightParen); err != nil {
		return NoStmnt, err
	}

	s := Stmnt{Kind: SkIf, CursorIdx: idx, Cond: cond}
	if p.check(TokLeftSquare) {
		p.advance()
		name, err := p.expect(TokIdent)
		if err != nil {
			return NoStmnt, err
		}
		if _, err := p.expect(TokRightSquare); err != nil {
			return NoStmnt, err
		}
		s.CaptureKind = CkIdent
		s.CaptureName = name.Ident
	}

	body, err := p.parseStatementBody()
	if err != nil {
		return NoStmnt, err
	}
	s.Then = body

	if p.checkIdent("else") {
		p.advance()
		if p.checkIdent("if") {
			elseIf, err := p.parseIf()
			if err != nil {
				return NoStmnt, err
			}
			s.Else = []StmntID{elseIf}
		} else {
			elseBody, err := p.parseStatementBody()
			if err != nil {
				return NoStmnt, err
			}
			s.Else = elseBody
		}
	}
	return p.arena.NewStmnt(s), nil
}

func (p *Parser) parseFor() (StmntID, error) {
	idx := p.curCursorIdx()
	if err := p.expectIdent("for"); err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokLeftParen); err != nil {
		return NoStmnt, err
	}

	s := Stmnt{Kind: SkFor, CursorIdx: idx}

	if !p.check(TokSemiColon) {
		initStmnt, err := p.parseDeclarationOrReassign()
		if err != nil {
			return NoStmnt, err
		}
		s.ForInit = initStmnt
	}
	if _, err := p.expect(TokSemiColon); err != nil {
		return NoStmnt, err
	}

	if !p.check(TokSemiColon) {
		cond, err := p.parseExpr()
		if err != nil {
			return NoStmnt, err
		}
		s.ForCond = cond
	}
	if _, err := p.expect(TokSemiColon); err != nil {
		return NoStmnt, err
	}

	if !p.check(TokRightParen) {
		step, err := p.parseReassignNoSemi()
		if err != nil {
			return NoStmnt, err
		}
		s.ForStep = step
	}
	if _, err := p.expect(TokRightParen); err != nil {
		return NoStmnt, err
	}

	body, err := p.parseStatementBody()
	if err != nil {
		return NoStmnt, err
	}
	s.ForBody = body
	return p.arena.NewStmnt(s), nil
}

// parseDeclarationOrReassign handles a for loop's init clause, which
// may be a `name: Type = value` declaration or a bare reassignment;
// neither consumes a trailing semicolon here, since the caller owns
// the for-loop's own semicolons.
func (p *Parser) parseDeclarationOrReassign() (StmntID, error) {
	if p.check(TokIdent) && p.curAt(1).Kind == TokColon {
		return p.parseDeclarationNoSemi()
	}
	return p.parseReassignNoSemi()
}

func (p *Parser) parseReassignNoSemi() (StmntID, error) {
	idx := p.curCursorIdx()
	lhs, err := p.parseExpr()
	if err != nil {
		return NoStmnt, err
	}
	kind, hasOp, err := p.parseAssignOp()
	if err != nil {
		return NoStmnt, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return NoStmnt, err
	}
	if hasOp {
		rhs = p.arena.NewExpr(Expr{
			Kind:       EkBinop,
			CursorIdx:  idx,
			BinopKind:  kind,
			BinopLeft:  lhs,
			BinopRight: p.wrapGroup(rhs, idx),
		})
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkVarReassign, CursorIdx: idx, Call: lhs, DeclValue: rhs, HasValue: true, Name: identTextOf(p.arena, lhs)}), nil
}

func (p *Parser) wrapGroup(e ExprID, idx int) ExprID {
	return p.arena.NewExpr(Expr{Kind: EkGroup, CursorIdx: idx, GroupInner: e})
}

// identTextOf returns the identifier text if e is a bare identifier;
// it only feeds a friendlier Name field on VarReassign, since
// field/index lvalues leave Name empty and are reached through Call
// (the parsed lhs expression) by the semantic analyser instead.
func identTextOf(a *Arena, e ExprID) string {
	if e == NoExpr {
		return ""
	}
	expr := a.Expr(e)
	if expr.Kind == EkIdent {
		return expr.Ident
	}
	return ""
}

// parseAssignOp consumes the assignment operator in a reassignment
// statement: a bare `=` (hasOp=false, rhs used verbatim), or a
// compound `op=` (hasOp=true, rhs rewritten by the caller to
// `lhs op (rhs)`). Per spec.md §9, `/=` desugars to division, not the
// original C parser's multiplication bug.
func (p *Parser) parseAssignOp() (BinopKind, bool, error) {
	compound := map[TokenKind]BinopKind{
		TokPlus:      BkPlus,
		TokMinus:     BkMinus,
		TokStar:      BkMultiply,
		TokSlash:     BkDivide,
		TokPercent:   BkMod,
		TokAmpersand: BkBitAnd,
		TokBar:       BkBitOr,
	}
	if kind, ok := compound[p.cur().Kind]; ok && p.curAt(1).Kind == TokEqual {
		p.advance()
		p.advance()
		return kind, true, nil
	}
	if _, err := p.expect(TokEqual); err != nil {
		return 0, false, p.errf("expected '=' or a compound assignment operator, got %s", p.cur().Kind)
	}
	return 0, false, nil
}

func (p *Parser) parseExprStatement() (StmntID, error) {
	idx := p.curCursorIdx()
	lhs, err := p.parseExpr()
	if err != nil {
		return NoStmnt, err
	}
	if p.expr(lhs).Kind == EkFnCall && !p.isAssignStart() {
		if _, err := p.expect(TokSemiColon); err != nil {
			return NoStmnt, err
		}
		return p.arena.NewStmnt(Stmnt{Kind: SkFnCall, CursorIdx: idx, Call: lhs}), nil
	}

	kind, hasOp, err := p.parseAssignOp()
	if err != nil {
		return NoStmnt, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return NoStmnt, err
	}
	if hasOp {
		rhs = p.arena.NewExpr(Expr{Kind: EkBinop, CursorIdx: idx, BinopKind: kind, BinopLeft: lhs, BinopRight: p.wrapGroup(rhs, idx)})
	}
	if _, err := p.expect(TokSemiColon); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkVarReassign, CursorIdx: idx, Call: lhs, DeclValue: rhs, HasValue: true, Name: identTextOf(p.arena, lhs)}), nil
}

func (p *Parser) isAssignStart() bool {
	if p.check(TokEqual) {
		return true
	}
	compoundStarts := map[TokenKind]bool{TokPlus: true, TokMinus: true, TokStar: true, TokSlash: true, TokPercent: true, TokAmpersand: true, TokBar: true}
	return compoundStarts[p.cur().Kind] && p.curAt(1).Kind == TokEqual
}

func (p *Parser) expr(id ExprID) *Expr { return p.arena.Expr(id) }

func (p *Parser) parseDirective() (StmntID, error) {
	idx := p.curCursorIdx()
	tok, err := p.expect(TokDirective)
	if err != nil {
		return NoStmnt, err
	}
	kind, ok := directiveKindByName[tok.Ident]
	if !ok {
		return NoStmnt, p.errf("unknown directive %q", tok.Ident)
	}
	d := Stmnt{Kind: SkDirective, CursorIdx: idx, DirKind: kind}
	if kind == DkLink || kind == DkSyslink || kind == DkOutput {
		s, err := p.expect(TokStrLit)
		if err != nil {
			return NoStmnt, err
		}
		d.DirStr = s.Str
	}
	if _, err := p.expect(TokSemiColon); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(d), nil
}

var directiveKindByName = map[string]DirectiveKind{
	"link":    DkLink,
	"syslink": DkSyslink,
	"output":  DkOutput,
	"O0":      DkO0,
	"O1":      DkO1,
	"O2":      DkO2,
	"O3":      DkO3,
	"Odebug":  DkOdebug,
	"Ofast":   DkOfast,
	"Osmall":  DkOsmall,
}

// parseDeclaration handles the `name : ...` family: constants
// (`::`/`: T :`), initialized/uninitialized variables (`:=`/`: T =`/
// `: T ;`), and the special fn/struct/enum constant forms.
func (p *Parser) parseDeclaration() (StmntID, error) {
	return p.parseDeclarationImpl(true)
}

func (p *Parser) parseDeclarationNoSemi() (StmntID, error) {
	return p.parseDeclarationImpl(false)
}

func (p *Parser) parseDeclarationImpl(consumeSemi bool) (StmntID, error) {
	idx := p.curCursorIdx()
	name, err := p.expect(TokIdent)
	if err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return NoStmnt, err
	}

	var typ TypeID = NoType
	if !p.check(TokColon) && !p.check(TokEqual) && !p.check(TokSemiColon) {
		typ, err = p.parseType()
		if err != nil {
			return NoStmnt, err
		}
	}

	switch {
	case p.check(TokColon): // '::' or ': T :' -> constant
		p.advance()
		return p.parseConstRHS(name.Ident, typ, idx, consumeSemi)
	case p.check(TokEqual): // ':=' or ': T =' -> initialized variable
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return NoStmnt, err
		}
		if consumeSemi {
			if _, err := p.expect(TokSemiColon); err != nil {
				return NoStmnt, err
			}
		}
		return p.arena.NewStmnt(Stmnt{Kind: SkVarDecl, CursorIdx: idx, Name: name.Ident, DeclType: typ, DeclValue: val, HasValue: true}), nil
	case p.check(TokSemiColon): // ': T;' -> uninitialized variable
		if typ == NoType {
			return NoStmnt, p.errf("uninitialized declaration of %q requires an explicit type", name.Ident)
		}
		if consumeSemi {
			p.advance()
		}
		return p.arena.NewStmnt(Stmnt{Kind: SkVarDecl, CursorIdx: idx, Name: name.Ident, DeclType: typ, HasValue: false}), nil
	default:
		return NoStmnt, p.errf("expected ':', '=' or ';' after %q's type, got %s", name.Ident, p.cur().Kind)
	}
}

func (p *Parser) parseConstRHS(name string, typ TypeID, idx int, consumeSemi bool) (StmntID, error) {
	switch {
	case p.checkIdent("fn"):
		return p.parseFnDecl(name, idx)
	case p.checkIdent("struct"):
		return p.parseStructDecl(name, idx)
	case p.checkIdent("enum"):
		return p.parseEnumDecl(name, idx)
	default:
		val, err := p.parseExpr()
		if err != nil {
			return NoStmnt, err
		}
		if consumeSemi {
			if _, err := p.expect(TokSemiColon); err != nil {
				return NoStmnt, err
			}
		}
		return p.arena.NewStmnt(Stmnt{Kind: SkConstDecl, CursorIdx: idx, Name: name, DeclType: typ, DeclValue: val, HasValue: true}), nil
	}
}

func (p *Parser) parseFnDecl(name string, idx int) (StmntID, error) {
	if err := p.expectIdent("fn"); err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokLeftParen); err != nil {
		return NoStmnt, err
	}
	var params []FnParam
	for !p.check(TokRightParen) {
		pname, err := p.expect(TokIdent)
		if err != nil {
			return NoStmnt, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return NoStmnt, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return NoStmnt, err
		}
		params = append(params, FnParam{Name: pname.Ident, Type: ptype})
		if p.check(TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokRightParen); err != nil {
		return NoStmnt, err
	}
	retType, err := p.parseType()
	if err != nil {
		return NoStmnt, err
	}

	s := Stmnt{Kind: SkFnDecl, CursorIdx: idx, Name: name, Params: params, RetType: retType}
	if p.check(TokSemiColon) {
		p.advance()
		s.HasBody = false
	} else {
		body, err := p.parseStatementBody()
		if err != nil {
			return NoStmnt, err
		}
		s.Body = body
		s.HasBody = true
	}
	return p.arena.NewStmnt(s), nil
}

func (p *Parser) parseStructDecl(name string, idx int) (StmntID, error) {
	if err := p.expectIdent("struct"); err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokLeftCurl); err != nil {
		return NoStmnt, err
	}
	var fields []StmntID
	for !p.check(TokRightCurl) {
		fieldIdx := p.curCursorIdx()
		fname, err := p.expect(TokIdent)
		if err != nil {
			return NoStmnt, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return NoStmnt, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return NoStmnt, err
		}
		if _, err := p.expect(TokSemiColon); err != nil {
			return NoStmnt, err
		}
		fields = append(fields, p.arena.NewStmnt(Stmnt{Kind: SkVarDecl, CursorIdx: fieldIdx, Name: fname.Ident, DeclType: ftype}))
	}
	if _, err := p.expect(TokRightCurl); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkStructDecl, CursorIdx: idx, Name: name, Fields: fields}), nil
}

func (p *Parser) parseEnumDecl(name string, idx int) (StmntID, error) {
	if err := p.expectIdent("enum"); err != nil {
		return NoStmnt, err
	}
	if _, err := p.expect(TokLeftCurl); err != nil {
		return NoStmnt, err
	}
	var fields []StmntID
	for !p.check(TokRightCurl) {
		fieldIdx := p.curCursorIdx()
		fname, err := p.expect(TokIdent)
		if err != nil {
			return NoStmnt, err
		}
		field := Stmnt{Kind: SkConstDecl, CursorIdx: fieldIdx, Name: fname.Ident}
		if p.check(TokEqual) {
			p.advance()
			val, err := p.parseExpr()
			if err != nil {
				return NoStmnt, err
			}
			field.DeclValue = val
			field.HasValue = true
		}
		if _, err := p.expect(TokSemiColon); err != nil {
			return NoStmnt, err
		}
		fields = append(fields, p.arena.NewStmnt(field))
	}
	if _, err := p.expect(TokRightCurl); err != nil {
		return NoStmnt, err
	}
	return p.arena.NewStmnt(Stmnt{Kind: SkEnumDecl, CursorIdx: idx, Name: name, Fields: fields}), nil
}

// ---- Types ----

var builtinTypeKinds = map[string]TypeKind{
	"void":    TkVoid,
	"bool":    TkBool,
	"char":    TkChar,
	"string":  TkString,
	"cstring": TkCstring,
	"i8":      TkI8,
	"i16":     TkI16,
	"i32":     TkI32,
	"i64":     TkI64,
	"isize":   TkIsize,
	"u8":      TkU8,
	"u16":     TkU16,
	"u32":     TkU32,
	"u64":     TkU64,
	"usize":   TkUsize,
	"f32":     TkF32,
	"f64":     TkF64,
}

func (p *Parser) parseType() (TypeID, error) {
	idx := p.curCursorIdx()
	switch {
	case p.check(TokQuestion):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return NoType, err
		}
		if p.arena.Type(inner).Kind == TkOption {
			return NoType, errf(p.file, p.cursors[p.arena.Type(inner).CursorIdx], "nested option types ('??T') are not supported")
		}
		return p.arena.NewType(Type{Kind: TkOption, CursorIdx: idx, OptionSubtype: inner}), nil
	case p.check(TokStar):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return NoType, err
		}
		return p.arena.NewType(Type{Kind: TkPtr, CursorIdx: idx, PtrOf: inner, Constant: false}), nil
	case p.check(TokCaret):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return NoType, err
		}
		return p.arena.NewType(Type{Kind: TkPtr, CursorIdx: idx, PtrOf: inner, Constant: true}), nil
	case p.check(TokLeftSquare):
		p.advance()
		if p.check(TokRightSquare) {
			p.advance()
			inner, err := p.parseType()
			if err != nil {
				return NoType, err
			}
			return p.arena.NewType(Type{Kind: TkSlice, CursorIdx: idx, SliceOf: inner}), nil
		}
		if p.check(TokUnderscore) {
			p.advance()
			if _, err := p.expect(TokRightSquare); err != nil {
				return NoType, err
			}
			inner, err := p.parseType()
			if err != nil {
				return NoType, err
			}
			return p.arena.NewType(Type{Kind: TkArray, CursorIdx: idx, ArrayOf: inner, ArrayLen: NoExpr, ArrayLenSet: false}), nil
		}
		lenExpr, err := p.parseExpr()
		if err != nil {
			return NoType, err
		}
		if _, err := p.expect(TokRightSquare); err != nil {
			return NoType, err
		}
		inner, err := p.parseType()
		if err != nil {
			return NoType, err
		}
		t := Type{Kind: TkArray, CursorIdx: idx, ArrayOf: inner, ArrayLen: lenExpr}
		if n, ok := evalConstInt(p.arena, lenExpr); ok {
			if p.arena.Expr(lenExpr).Kind != EkIntLit {
				t.ArrayLen = p.arena.NewExpr(Expr{Kind: EkIntLit, CursorIdx: p.arena.Expr(lenExpr).CursorIdx, IntLit: n})
			}
			t.ArrayLenSet = true
		}
		return p.arena.NewType(t), nil
	case p.check(TokIdent):
		name := p.advance().Ident
		if kind, ok := builtinTypeKinds[name]; ok {
			return p.arena.NewType(Type{Kind: kind, CursorIdx: idx}), nil
		}
		return p.arena.NewType(Type{Kind: TkTypeDef, CursorIdx: idx, TypeDefName: name}), nil
	default:
		return NoType, p.errf("expected a type, got %s", p.cur().Kind)
	}
}

// ---- Expressions ----

// binopInfo describes how many physical tokens an operator occupies
// and its binding power. Two-character operators (==, !=, <=, >=, <<,
// >>) are two adjacent single-character tokens, since the lexer (per
// spec.md §3) only ever produces single-character punctuators.
type binopInfo struct {
	kind   BinopKind
	tokens int
	prec   int
}

// tryBinop looks at the current (and possibly next) token(s) and
// reports the operator they spell, if any, without consuming them.
func (p *Parser) tryBinop() (binopInfo, bool) {
	a, b := p.cur().Kind, p.curAt(1).Kind

	switch {
	case p.checkIdent("or"):
		return binopInfo{BkOr, 1, 1}, true
	case p.checkIdent("and"):
		return binopInfo{BkAnd, 1, 2}, true
	case b == TokEqual && (a == TokPlus || a == TokMinus || a == TokStar || a == TokSlash ||
		a == TokPercent || a == TokAmpersand || a == TokBar):
		// `op=` is a compound assignment, left for parseAssignOp.
		return binopInfo{}, false
	case a == TokEqual && b == TokEqual:
		return binopInfo{BkEquals, 2, 3}, true
	case a == TokExclaim && b == TokEqual:
		return binopInfo{BkInequals, 2, 3}, true
	case a == TokLeftAngle && b == TokEqual:
		return binopInfo{BkLessEqual, 2, 4}, true
	case a == TokRightAngle && b == TokEqual:
		return binopInfo{BkGreaterEqual, 2, 4}, true
	case a == TokLeftAngle && b == TokLeftAngle:
		return binopInfo{BkLeftShift, 2, 6}, true
	case a == TokRightAngle && b == TokRightAngle:
		return binopInfo{BkRightShift, 2, 6}, true
	case a == TokLeftAngle:
		return binopInfo{BkLess, 1, 4}, true
	case a == TokRightAngle:
		return binopInfo{BkGreater, 1, 4}, true
	case a == TokBar:
		return binopInfo{BkBitOr, 1, 5}, true
	case a == TokAmpersand:
		return binopInfo{BkBitAnd, 1, 5}, true
	case a == TokCaret:
		return binopInfo{BkBitXor, 1, 5}, true
	case a == TokPlus:
		return binopInfo{BkPlus, 1, 7}, true
	case a == TokMinus:
		return binopInfo{BkMinus, 1, 7}, true
	case a == TokStar:
		return binopInfo{BkMultiply, 1, 8}, true
	case a == TokSlash:
		return binopInfo{BkDivide, 1, 8}, true
	case a == TokPercent:
		return binopInfo{BkMod, 1, 8}, true
	}
	return binopInfo{}, false
}

func (p *Parser) parseExpr() (ExprID, error) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) (ExprID, error) {
	left, err := p.parseUnary()
	if err != nil {
		return NoExpr, err
	}
	for {
		info, ok := p.tryBinop()
		if !ok || info.prec < minPrec {
			return left, nil
		}
		idx := p.curCursorIdx()
		for i := 0; i < info.tokens; i++ {
			p.advance()
		}
		right, err := p.parseBinary(info.prec + 1)
		if err != nil {
			return NoExpr, err
		}
		left = p.arena.NewExpr(Expr{Kind: EkBinop, CursorIdx: idx, BinopKind: info.kind, BinopLeft: left, BinopRight: right})
	}
}

func (p *Parser) parseUnary() (ExprID, error) {
	idx := p.curCursorIdx()
	switch {
	case p.check(TokExclaim):
		p.advance()
		val, err := p.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		return p.arena.NewExpr(Expr{Kind: EkUnop, CursorIdx: idx, UnopKind: UkNot, UnopVal: val}), nil
	case p.check(TokMinus):
		p.advance()
		val, err := p.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		return p.arena.NewExpr(Expr{Kind: EkUnop, CursorIdx: idx, UnopKind: UkNegate, UnopVal: val}), nil
	case p.check(TokAmpersand):
		p.advance()
		val, err := p.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		return p.arena.NewExpr(Expr{Kind: EkUnop, CursorIdx: idx, UnopKind: UkAddress, UnopVal: val}), nil
	case p.check(TokTilde):
		p.advance()
		val, err := p.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		return p.arena.NewExpr(Expr{Kind: EkUnop, CursorIdx: idx, UnopKind: UkBitNot, UnopVal: val}), nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ExprID, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return NoExpr, err
	}
	for {
		idx := p.curCursorIdx()
		switch {
		case p.check(TokLeftParen):
			p.advance()
			var args []ExprID
			for !p.check(TokRightParen) {
				a, err := p.parseExpr()
				if err != nil {
					return NoExpr, err
				}
				args = append(args, a)
				if p.check(TokComma) {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(TokRightParen); err != nil {
				return NoExpr, err
			}
			expr = p.arena.NewExpr(Expr{Kind: EkFnCall, CursorIdx: idx, CallTarget: expr, CallArgs: args})
		case p.check(TokLeftSquare):
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return NoExpr, err
			}
			if _, err := p.expect(TokRightSquare); err != nil {
				return NoExpr, err
			}
			expr = p.arena.NewExpr(Expr{Kind: EkArrayIndex, CursorIdx: idx, IndexTarget: expr, IndexValue: index})
		case p.check(TokDot):
			p.advance()
			if p.check(TokAmpersand) {
				p.advance()
				expr = p.arena.NewExpr(Expr{Kind: EkFieldAccess, CursorIdx: idx, FieldTarget: expr, FieldDeref: true})
				continue
			}
			name, err := p.expect(TokIdent)
			if err != nil {
				return NoExpr, err
			}
			expr = p.arena.NewExpr(Expr{Kind: EkFieldAccess, CursorIdx: idx, FieldTarget: expr, FieldName: name.Ident})
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ExprID, error) {
	idx := p.curCursorIdx()
	tok := p.cur()

	switch tok.Kind {
	case TokIntLit:
		p.advance()
		return p.arena.NewExpr(Expr{Kind: EkIntLit, CursorIdx: idx, IntLit: tok.Int}), nil
	case TokFloatLit:
		p.advance()
		return p.arena.NewExpr(Expr{Kind: EkFloatLit, CursorIdx: idx, FloatLit: tok.Float}), nil
	case TokCharLit:
		p.advance()
		return p.arena.NewExpr(Expr{Kind: EkCharLit, CursorIdx: idx, CharLit: tok.Char}), nil
	case TokStrLit:
		p.advance()
		return p.arena.NewExpr(Expr{Kind: EkStrLit, CursorIdx: idx, StrLit: tok.Str}), nil
	case TokLeftParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return NoExpr, err
		}
		if _, err := p.expect(TokRightParen); err != nil {
			return NoExpr, err
		}
		return p.arena.NewExpr(Expr{Kind: EkGroup, CursorIdx: idx, GroupInner: inner}), nil
	case TokLeftCurl:
		return p.parseCompoundLiteral("")
	case TokLeftSquare:
		return p.parseArrayTypedLiteral()
	case TokIdent:
		// `c"..."` is a C-string literal: the identifier `c` immediately
		// followed by a string literal token.
		if tok.Ident == "c" && p.curAt(1).Kind == TokStrLit {
			p.advance()
			str := p.advance()
			return p.arena.NewExpr(Expr{Kind: EkCstrLit, CursorIdx: idx, StrLit: str.Str}), nil
		}
		switch tok.Ident {
		case "true":
			p.advance()
			return p.arena.NewExpr(Expr{Kind: EkTrue, CursorIdx: idx}), nil
		case "false":
			p.advance()
			return p.arena.NewExpr(Expr{Kind: EkFalse, CursorIdx: idx}), nil
		case "null":
			p.advance()
			return p.arena.NewExpr(Expr{Kind: EkNull, CursorIdx: idx}), nil
		}
		p.advance()
		if p.check(TokLeftCurl) {
			return p.parseCompoundLiteral(tok.Ident)
		}
		return p.arena.NewExpr(Expr{Kind: EkIdent, CursorIdx: idx, Ident: tok.Ident}), nil
	default:
		return NoExpr, p.errf("expected an expression, got %s", tok.Kind)
	}
}

// parseArrayTypedLiteral handles `[N]T{...}` / `[_]T{...}`, setting the
// parsed type directly on the literal node - mirroring newsrc/parser.c's
// parse_end_literal, which builds the literal with its type already
// attached rather than leaving it for a caller to infer. Without this,
// a literal passed straight into a call argument or a return statement
// (neither of which inject an expected type before calling analyseExpr)
// would reach analyseCompoundLit with no type to resolve against.
func (p *Parser) parseArrayTypedLiteral() (ExprID, error) {
	idx := p.curCursorIdx()
	typ, err := p.parseType()
	if err != nil {
		return NoExpr, err
	}
	if !p.check(TokLeftCurl) {
		return NoExpr, p.errf("expected '{' to start an array literal, got %s", p.cur().Kind)
	}
	lit, err := p.parseCompoundLiteral("")
	if err != nil {
		return NoExpr, err
	}
	e := p.arena.Expr(lit)
	e.CursorIdx = idx
	e.Type = typ
	return lit, nil
}

// parseCompoundLiteral parses `{a, b, c}` or `{.x=a, .y=b}`, optionally
// named by a type identifier the caller already consumed. Mixing
// positional and named fields within one literal is rejected.
func (p *Parser) parseCompoundLiteral(typeName string) (ExprID, error) {
	idx := p.curCursorIdx()
	if _, err := p.expect(TokLeftCurl); err != nil {
		return NoExpr, err
	}

	var fields []CompoundLitField
	named := false
	sawPositional := false
	first := true

	for !p.check(TokRightCurl) {
		if !first {
			if _, err := p.expect(TokComma); err != nil {
				return NoExpr, err
			}
			if p.check(TokRightCurl) {
				break
			}
		}
		first = false

		if p.check(TokDot) {
			p.advance()
			fname, err := p.expect(TokIdent)
			if err != nil {
				return NoExpr, err
			}
			if _, err := p.expect(TokEqual); err != nil {
				return NoExpr, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return NoExpr, err
			}
			if sawPositional {
				return NoExpr, p.errf("cannot mix positional and named fields in a compound literal")
			}
			named = true
			fields = append(fields, CompoundLitField{Name: fname.Ident, Value: val})
			continue
		}

		val, err := p.parseExpr()
		if err != nil {
			return NoExpr, err
		}
		if named {
			return NoExpr, p.errf("cannot mix positional and named fields in a compound literal")
		}
		sawPositional = true
		fields = append(fields, CompoundLitField{Value: val})
	}
	if _, err := p.expect(TokRightCurl); err != nil {
		return NoExpr, err
	}

	kind := EkArrayLit
	if typeName != "" {
		kind = EkStructLit
	}
	return p.arena.NewExpr(Expr{Kind: kind, CursorIdx: idx, TypeName: typeName, Fields: fields, Named: named}), nil
}
