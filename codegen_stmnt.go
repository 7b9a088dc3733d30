package cur

import "fmt"

// codegen_stmnt.go lowers statements and declarations, grounded on
// gen.c's gen_stmnt/gen_block and the per-kind gen_* functions it
// dispatches to.

// DeferStack replays `defer`red statements at block exit, mirroring
// gen.c's Gen.defers array (a (Stmnt*, indent) pair pushed by
// gen_push_defer). continue/break replay only the defers pushed at
// the current block depth, in reverse push order, and leave the rest
// on the stack; return replays every defer on the stack regardless of
// depth, deepest-pushed first, and does not pop - control leaves the
// function immediately after, so any further replay a later block exit
// performs is dead code, exactly as it would be in gen.c's output.
type DeferStack struct {
	entries []deferEntry
}

type deferEntry struct {
	stmnt StmntID
	depth int
}

func newDeferStack() *DeferStack {
	return &DeferStack{}
}

func (d *DeferStack) push(depth int, id StmntID) {
	d.entries = append(d.entries, deferEntry{stmnt: id, depth: depth})
}

func (d *DeferStack) atDepthReverse(depth int) []StmntID {
	var out []StmntID
	for i := len(d.entries) - 1; i >= 0; i-- {
		if d.entries[i].depth == depth {
			out = append(out, d.entries[i].stmnt)
		}
	}
	return out
}

func (d *DeferStack) allReverse() []StmntID {
	out := make([]StmntID, len(d.entries))
	for i, e := range d.entries {
		out[len(d.entries)-1-i] = e.stmnt
	}
	return out
}

func (d *DeferStack) popDepth(depth int) {
	kept := d.entries[:0]
	for _, e := range d.entries {
		if e.depth != depth {
			kept = append(kept, e)
		}
	}
	d.entries = kept
}

func (g *Gen) stmnt(id StmntID) {
	if id == NoStmnt {
		return
	}
	st := g.arena.Stmnt(id)
	switch st.Kind {
	case SkNone, SkDirective:
		// directives are sema-owned; nothing to emit.
	case SkExtern:
		g.externStmnt(st)
	case SkDefer:
		g.defers.push(g.blockDepth, st.Inner)
	case SkBlock:
		g.code.writeIndent()
		g.block(st.Block)
	case SkFnDecl:
		g.fnDecl(st, false)
	case SkStructDecl, SkEnumDecl:
		// bodies are resolved separately, in dependency order.
	case SkVarDecl:
		g.varDecl(st)
	case SkConstDecl:
		g.constDecl(st)
	case SkVarReassign:
		g.varReassignStmnt(st)
	case SkReturn:
		g.returnStmnt(st)
	case SkContinue:
		g.continueStmnt()
	case SkBreak:
		g.breakStmnt()
	case SkFnCall:
		g.fnCallStmnt(st)
	case SkIf:
		g.ifStmnt(st)
	case SkFor:
		g.forStmnt(st)
	}
}

// block emits a brace-delimited statement list, replaying any defers
// pushed at this depth before the closing brace - grounded on gen.c's
// gen_block.
func (g *Gen) block(body []StmntID) {
	g.code.writel("{")
	g.code.indent()
	g.blockDepth++

	for _, id := range body {
		g.stmnt(id)
	}
	for _, d := range g.defers.atDepthReverse(g.blockDepth) {
		g.stmnt(d)
	}
	g.defers.popDepth(g.blockDepth)

	g.blockDepth--
	g.code.unindent()
	g.code.writeil("}")
}

func (g *Gen) varDecl(st *Stmnt) {
	g.code.writeIndent()
	proto := g.declProto(st.Name, st.DeclType)
	g.code.write(proto)

	if !st.HasValue {
		if g.arena.Type(st.DeclType).Kind == TkArray {
			g.code.write(" = ")
			g.code.writel(g.arrayLiteralText(st.DeclType, nil) + ";")
			return
		}
		g.code.writel(";")
		return
	}

	g.code.write(" = ")
	g.code.writel(g.expr(st.DeclValue) + ";")
}

func (g *Gen) constDecl(st *Stmnt) {
	g.code.writeIndent()
	proto := g.declProto(st.Name, st.DeclType)
	g.code.writel(fmt.Sprintf("%s = %s;", proto, g.expr(st.DeclValue)))
}

// varReassignStmnt emits an assignment from the statement's lvalue
// target (Call) and its rvalue (DeclValue). The Name field is only a
// best-effort plain-text rendering of the lvalue used for diagnostics
// elsewhere - it is not codegen-accurate for a non-identifier lvalue
// like a field access or array index, so the target text always comes
// from generating Call, never from Name.
func (g *Gen) varReassignStmnt(st *Stmnt) {
	g.code.writeIndent()
	lhs := g.expr(st.Call)
	rhs := g.expr(st.DeclValue)
	g.code.writel(fmt.Sprintf("%s = %s;", lhs, rhs))
}

func (g *Gen) returnStmnt(st *Stmnt) {
	for _, d := range g.defers.allReverse() {
		g.stmnt(d)
	}
	g.code.writeIndent()
	if !st.HasRetValue {
		g.code.writel("return;")
		return
	}
	g.code.writel(fmt.Sprintf("return %s;", g.expr(st.RetValue)))
}

func (g *Gen) continueStmnt() {
	for _, d := range g.defers.atDepthReverse(g.blockDepth) {
		g.stmnt(d)
	}
	g.code.writeIndent()
	g.code.writel("continue;")
}

func (g *Gen) breakStmnt() {
	for _, d := range g.defers.atDepthReverse(g.blockDepth) {
		g.stmnt(d)
	}
	g.code.writeIndent()
	g.code.writel("break;")
}

func (g *Gen) fnCallStmnt(st *Stmnt) {
	g.code.writeIndent()
	g.code.writel(g.expr(st.Call) + ";")
}

// ifStmnt mirrors gen.c's gen_if, including its quirk of wrapping a
// captured-binding if in an extra scoping brace without bumping the
// indent level for it - the capture line and the "if (cond.ok)" line
// sit at the same text column as the code around them, with only the
// then/else blocks themselves indented. An else branch is always
// emitted, as an empty block when the source if has no else.
func (g *Gen) ifStmnt(st *Stmnt) {
	g.code.writeIndent()
	cond := g.expr(st.Cond)

	if st.CaptureKind != CkNone {
		g.code.writel("{")
		capDecl := g.arena.Stmnt(st.CaptureDecl)
		proto := g.declProto(capDecl.Name, capDecl.DeclType)
		g.code.writeil(fmt.Sprintf("%s = %s.some;", proto, cond))
		g.code.writeIndent()
		g.code.write(fmt.Sprintf("if (%s.ok) ", cond))
	} else {
		g.code.write(fmt.Sprintf("if (%s) ", cond))
	}

	g.block(st.Then)
	g.code.writeIndent()
	g.code.write("else ")
	g.block(st.Else)

	if st.CaptureKind != CkNone {
		g.code.writeil("}")
	}
}

// forStmnt mirrors gen.c's gen_for: the loop's own init declaration is
// scoped in an (unindented) wrapping brace, and the step statement's
// lvalue/rvalue are generated directly into the C for-header rather
// than as a standalone assignment statement.
func (g *Gen) forStmnt(st *Stmnt) {
	g.code.writeIndent()
	g.code.writel("{")

	if st.ForInit != NoStmnt {
		g.varDecl(g.arena.Stmnt(st.ForInit))
	}

	cond := ""
	if st.ForCond != NoExpr {
		cond = g.expr(st.ForCond)
	}

	lhs, rhs := "", ""
	if st.ForStep != NoStmnt {
		step := g.arena.Stmnt(st.ForStep)
		lhs = g.expr(step.Call)
		rhs = g.expr(step.DeclValue)
	}

	g.code.writeIndent()
	g.code.write(fmt.Sprintf("for (; %s; %s = %s) ", cond, lhs, rhs))
	g.block(st.ForBody)

	g.code.writeIndent()
	g.code.writel("}")
}

func (g *Gen) externStmnt(st *Stmnt) {
	if st.Inner == NoStmnt {
		return
	}
	in := g.arena.Stmnt(st.Inner)
	switch in.Kind {
	case SkFnDecl:
		g.fnDecl(in, true)
	case SkVarDecl:
		g.varDecl(in)
	case SkConstDecl:
		g.constDecl(in)
	case SkVarReassign:
		g.varReassignStmnt(in)
	}
}

// fnDecl emits a function's forward declaration into defs and, if it
// has a body, its definition into code - grounded on gen.c's
// gen_fn_decl. An extern without a body gets only the forward
// declaration (the real definition lives in whatever object file gets
// linked in via a #link directive); gen.c's equivalent branch used a
// stray "%v" format specifier where a plain "%s" belonged, which this
// port does not reproduce.
func (g *Gen) fnDecl(st *Stmnt, isExtern bool) {
	if st.Name == "main" {
		g.mainDecl(st)
		return
	}

	g.code.writeIndent()
	proto := g.declProto(st.Name, st.RetType)
	params := make([]string, len(st.Params))
	for i, p := range st.Params {
		params[i] = g.declProto(p.Name, p.Type)
	}
	code := proto + "(" + joinParams(params) + ")"

	g.defs.writeil(code + ";")

	if st.HasBody {
		g.code.write(code + " ")
		g.block(st.Body)
	} else if !isExtern {
		g.code.writel(code + ";")
	}
}

// mainDecl renames the source's main to a standard C entry point,
// seeding its single []string parameter (if any) from argv/argc.
// Grounded on gen.c's gen_fn_main_decl, including its double-brace
// body: main's own signature line supplies the outer "{", and the
// nested gen_block call that follows opens a second scope around the
// statements themselves.
func (g *Gen) mainDecl(st *Stmnt) {
	g.code.writel("int main(int argc, const char **argv) {")
	g.code.indent()
	g.blockDepth++

	if len(st.Params) == 1 {
		g.typeRef(st.Params[0].Type) // ensure CurSlice_CurString is instantiated
		g.code.write(fmt.Sprintf(builtinArgsTemplate, st.Params[0].Name))
	}

	g.code.writeIndent()
	g.block(st.Body)

	g.blockDepth--
	g.code.unindent()
	g.code.writeil("}")
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
