package cur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) ([]StmntID, *Arena) {
	t.Helper()
	tokens, cursors, err := Lex("test.cur", []byte(src))
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("test.cur", tokens, cursors, arena)
	top, err := p.Parse()
	require.NoError(t, err)
	return top, arena
}

func TestParseFnDecl(t *testing.T) {
	top, arena := parseSrc(t, `main:: fn() void { return; }`)
	require.Len(t, top, 1)
	st := arena.Stmnt(top[0])
	assert.Equal(t, SkFnDecl, st.Kind)
	assert.Equal(t, "main", st.Name)
	assert.True(t, st.HasBody)
	assert.Equal(t, TkVoid, arena.Type(st.RetType).Kind)
	require.Len(t, st.Body, 1)
	assert.Equal(t, SkReturn, arena.Stmnt(st.Body[0]).Kind)
}

func TestParseFnDeclWithParams(t *testing.T) {
	top, arena := parseSrc(t, `add:: fn(a: i32, b: i32) i32 { return a + b; }`)
	st := arena.Stmnt(top[0])
	require.Len(t, st.Params, 2)
	assert.Equal(t, "a", st.Params[0].Name)
	assert.Equal(t, TkI32, arena.Type(st.Params[0].Type).Kind)
}

func TestParseStructDecl(t *testing.T) {
	top, arena := parseSrc(t, `Point:: struct { x: i32; y: i32; }`)
	st := arena.Stmnt(top[0])
	assert.Equal(t, SkStructDecl, st.Kind)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", arena.Stmnt(st.Fields[0]).Name)
	assert.Equal(t, "y", arena.Stmnt(st.Fields[1]).Name)
}

func TestParseEnumDeclWithExplicitValue(t *testing.T) {
	top, arena := parseSrc(t, `Color:: enum { Red = 1; Green; Blue; }`)
	st := arena.Stmnt(top[0])
	assert.Equal(t, SkEnumDecl, st.Kind)
	require.Len(t, st.Fields, 3)
	red := arena.Stmnt(st.Fields[0])
	assert.True(t, red.HasValue)
	green := arena.Stmnt(st.Fields[1])
	assert.False(t, green.HasValue)
}

func TestParseVarDeclAndReassign(t *testing.T) {
	top, arena := parseSrc(t, `
main:: fn() void {
    x: i32 = 1;
    x += 2;
}`)
	st := arena.Stmnt(top[0])
	require.Len(t, st.Body, 2)

	decl := arena.Stmnt(st.Body[0])
	assert.Equal(t, SkVarDecl, decl.Kind)
	assert.Equal(t, "x", decl.Name)

	reassign := arena.Stmnt(st.Body[1])
	assert.Equal(t, SkVarReassign, reassign.Kind)
	rhs := arena.Expr(reassign.DeclValue)
	assert.Equal(t, EkBinop, rhs.Kind)
	assert.Equal(t, BkPlus, rhs.BinopKind)
}

func TestParseDivideAssignDesugarsToDivision(t *testing.T) {
	top, arena := parseSrc(t, `
main:: fn() void {
    x: i32 = 10;
    x /= 2;
}`)
	st := arena.Stmnt(top[0])
	reassign := arena.Stmnt(st.Body[1])
	rhs := arena.Expr(reassign.DeclValue)
	assert.Equal(t, BkDivide, rhs.BinopKind)
}

func TestParseIfWithCapture(t *testing.T) {
	top, arena := parseSrc(t, `
main:: fn() void {
    if (maybe()) [v] {
        return;
    } else {
        return;
    }
}`)
	st := arena.Stmnt(top[0])
	ifs := arena.Stmnt(st.Body[0])
	assert.Equal(t, SkIf, ifs.Kind)
	assert.Equal(t, CkIdent, ifs.CaptureKind)
	assert.Equal(t, "v", ifs.CaptureName)
	assert.NotNil(t, ifs.Else)
}

func TestParseForLoop(t *testing.T) {
	top, arena := parseSrc(t, `
main:: fn() void {
    for (i: i32 = 0; i < 10; i += 1) {
        continue;
    }
}`)
	st := arena.Stmnt(top[0])
	forS := arena.Stmnt(st.Body[0])
	assert.Equal(t, SkFor, forS.Kind)
	assert.NotEqual(t, NoStmnt, forS.ForInit)
	assert.NotEqual(t, NoExpr, forS.ForCond)
	assert.NotEqual(t, NoStmnt, forS.ForStep)
	require.Len(t, forS.ForBody, 1)
}

func TestParseBinaryPrecedence(t *testing.T) {
	top, arena := parseSrc(t, `x: i32 = 1 + 2 * 3;`)
	st := arena.Stmnt(top[0])
	root := arena.Expr(st.DeclValue)
	require.Equal(t, EkBinop, root.Kind)
	assert.Equal(t, BkPlus, root.BinopKind)
	right := arena.Expr(root.BinopRight)
	assert.Equal(t, BkMultiply, right.BinopKind)
}

func TestParseStructLiteralNamedFields(t *testing.T) {
	top, arena := parseSrc(t, `p: Point = Point{.x = 1, .y = 2};`)
	st := arena.Stmnt(top[0])
	lit := arena.Expr(st.DeclValue)
	assert.Equal(t, EkStructLit, lit.Kind)
	assert.True(t, lit.Named)
	require.Len(t, lit.Fields, 2)
	assert.Equal(t, "x", lit.Fields[0].Name)
}

func TestParseMixedCompoundLiteralFieldsRejected(t *testing.T) {
	_, _, err := parseErr(t, `p: Point = Point{.x = 1, 2};`)
	require.Error(t, err)
}

func TestParseCstringLiteral(t *testing.T) {
	top, arena := parseSrc(t, `s: cstring = c"hi";`)
	st := arena.Stmnt(top[0])
	lit := arena.Expr(st.DeclValue)
	assert.Equal(t, EkCstrLit, lit.Kind)
	assert.Equal(t, "hi", lit.StrLit)
}

func TestParseDirective(t *testing.T) {
	top, arena := parseSrc(t, `#output "myprog";`)
	st := arena.Stmnt(top[0])
	assert.Equal(t, SkDirective, st.Kind)
	assert.Equal(t, DkOutput, st.DirKind)
	assert.Equal(t, "myprog", st.DirStr)
}

func parseErr(t *testing.T, src string) ([]StmntID, *Arena, error) {
	t.Helper()
	tokens, cursors, err := Lex("test.cur", []byte(src))
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("test.cur", tokens, cursors, arena)
	top, err := p.Parse()
	return top, arena, err
}
