package cur

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) (defs, code string) {
	t.Helper()
	tokens, cursors, err := Lex("test.cur", []byte(src))
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("test.cur", tokens, cursors, arena)
	top, err := p.Parse()
	require.NoError(t, err)
	sema := NewSema("test.cur", arena, cursors)
	_, err = sema.Analyse(top)
	require.NoError(t, err)
	return Generate(arena, sema.symtab, sema.dgraph, top)
}

func TestGenerateEmptyMain(t *testing.T) {
	_, code := generate(t, `main:: fn() void { return; }`)
	assert.Contains(t, code, "int main(int argc, const char **argv) {")
	assert.Contains(t, code, "return;")
}

func TestGenerateMainArgvPreamble(t *testing.T) {
	_, code := generate(t, `main:: fn(args: []string) void { return; }`)
	assert.Contains(t, code, "CurSlice_CurString args = curslice_CurString(_CUR_ARGS_, argc);")
}

func TestGenerateMainArgvPreambleUsesDeclaredName(t *testing.T) {
	_, code := generate(t, `main:: fn(myargs: []string) void { return; }`)
	assert.Contains(t, code, "CurSlice_CurString myargs = curslice_CurString(_CUR_ARGS_, argc);")
	assert.NotContains(t, code, " args = curslice_CurString")
}

func TestGenerateStructForwardDeclAndBody(t *testing.T) {
	defs, _ := generate(t, `
Point:: struct { x: i32; y: i32; }
main:: fn() void { p: Point = Point{.x = 1, .y = 2}; return; }
`)
	assert.Contains(t, defs, "typedef struct Point Point;")
	assert.Contains(t, defs, "struct Point {")
	assert.Contains(t, defs, "i32 x;")
	assert.Contains(t, defs, "i32 y;")
}

func TestGenerateEnumBody(t *testing.T) {
	defs, _ := generate(t, `
Color:: enum { Red; Green; Blue; }
main:: fn() void { return; }
`)
	assert.Contains(t, defs, "typedef enum Color Color;")
	assert.Contains(t, defs, "Color_Red = 0,")
	assert.Contains(t, defs, "Color_Green = 1,")
	assert.Contains(t, defs, "Color_Blue = 2,")
}

func TestGenerateEnumFieldAccessConcatenatesName(t *testing.T) {
	_, code := generate(t, `
Color:: enum { Red; Green; }
main:: fn() void {
    c: Color = Color.Red;
    return;
}
`)
	assert.Contains(t, code, "Color_Red")
}

func TestGenerateStructFieldAccessDots(t *testing.T) {
	_, code := generate(t, `
Point:: struct { x: i32; }
main:: fn() void {
    p: Point = Point{.x = 1};
    y: i32 = p.x;
    return;
}
`)
	assert.Contains(t, code, "p.x")
}

func TestGeneratePtrFieldAccessArrows(t *testing.T) {
	_, code := generate(t, `
Point:: struct { x: i32; }
main:: fn() void {
    p: Point = Point{.x = 1};
    pp: *Point = &p;
    y: i32 = pp.x;
    return;
}
`)
	assert.Contains(t, code, "pp->x")
}

func TestGenerateSliceInstantiatedOnce(t *testing.T) {
	defs, _ := generate(t, `
main:: fn() void {
    a: []i32;
    b: []i32;
    return;
}
`)
	assert.Equal(t, 1, strings.Count(defs, "CurSliceDef(i32, i32);"))
}

func TestGenerateArrayLiteral(t *testing.T) {
	_, code := generate(t, `
main:: fn() void {
    xs: [3]i32 = {1, 2, 3};
    return;
}
`)
	assert.Contains(t, code, "curarray1d_i323((i32[3]){1, 2, 3}, 3)")
}

func TestGenerateStringLiteralEscaped(t *testing.T) {
	_, code := generate(t, `
main:: fn() void {
    s: string = "line\nbreak";
    return;
}
`)
	assert.Contains(t, code, `curstr("line\nbreak")`)
}

func TestGenerateIfElseAlwaysEmitsElseBlock(t *testing.T) {
	_, code := generate(t, `
main:: fn() void {
    if (true) {
        return;
    }
    return;
}
`)
	assert.Contains(t, code, "if (true) {")
	assert.Contains(t, code, "else {")
}

func TestGenerateForLoop(t *testing.T) {
	_, code := generate(t, `
main:: fn() void {
    for (i: i32 = 0; i < 3; i += 1) {
        continue;
    }
    return;
}
`)
	assert.Contains(t, code, "for (; i < 3; i = i + (1)) ")
}

func TestGenerateDeferReplaysOnReturn(t *testing.T) {
	_, code := generate(t, `
cleanup:: fn() void { return; }
main:: fn() void {
    defer cleanup();
    return;
}
`)
	returnIdx := strings.LastIndex(code, "return;")
	cleanupIdx := strings.Index(code, "cleanup();")
	require.NotEqual(t, -1, returnIdx)
	require.NotEqual(t, -1, cleanupIdx)
	assert.Less(t, cleanupIdx, returnIdx)
}
