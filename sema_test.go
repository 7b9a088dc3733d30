package cur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyse(t *testing.T, src string) ([]StmntID, *Arena, *Sema, error) {
	t.Helper()
	tokens, cursors, err := Lex("test.cur", []byte(src))
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("test.cur", tokens, cursors, arena)
	top, err := p.Parse()
	require.NoError(t, err)
	sema := NewSema("test.cur", arena, cursors)
	_, err = sema.Analyse(top)
	return top, arena, sema, err
}

func TestAnalyseRequiresMain(t *testing.T) {
	_, _, _, err := analyse(t, `foo:: fn() void { return; }`)
	require.Error(t, err)
}

func TestAnalyseMainMustReturnVoid(t *testing.T) {
	_, _, _, err := analyse(t, `main:: fn() i32 { return 0; }`)
	require.Error(t, err)
}

func TestAnalyseMainAcceptsStringSlice(t *testing.T) {
	_, _, _, err := analyse(t, `main:: fn(argv: []string) void { return; }`)
	require.NoError(t, err)
}

func TestAnalyseMainRejectsTwoParams(t *testing.T) {
	_, _, _, err := analyse(t, `main:: fn(a: i32, b: i32) void { return; }`)
	require.Error(t, err)
}

func TestAnalyseBasicOK(t *testing.T) {
	_, _, _, err := analyse(t, `
main:: fn() void {
    x: i32 = 1;
    y: i32 = x + 2;
    return;
}`)
	require.NoError(t, err)
}

func TestAnalyseTypeMismatchErrors(t *testing.T) {
	_, _, _, err := analyse(t, `
main:: fn() void {
    x: i32 = true;
    return;
}`)
	require.Error(t, err)
}

func TestAnalyseStructFieldValueCycleRejected(t *testing.T) {
	_, _, _, err := analyse(t, `
A:: struct { b: B; }
B:: struct { a: A; }
main:: fn() void { return; }
`)
	require.Error(t, err)
}

func TestAnalyseStructPtrSelfReferenceAllowed(t *testing.T) {
	_, _, _, err := analyse(t, `
Node:: struct { next: *Node; value: i32; }
main:: fn() void { return; }
`)
	require.NoError(t, err)
}

func TestAnalyseEnumAutoIncrement(t *testing.T) {
	top, arena, _, err := analyse(t, `
Color:: enum { Red; Green; Blue = 10; Purple; }
main:: fn() void { return; }
`)
	require.NoError(t, err)
	enumDecl := arena.Stmnt(top[0])
	require.Len(t, enumDecl.Fields, 4)

	values := make([]uint64, 4)
	for i, fid := range enumDecl.Fields {
		f := arena.Stmnt(fid)
		v, ok := evalConstInt(arena, f.DeclValue)
		require.True(t, ok)
		values[i] = v
	}
	assert.Equal(t, []uint64{0, 1, 10, 11}, values)
}

func TestAnalyseOutputDirectiveSetTwiceErrors(t *testing.T) {
	_, _, _, err := analyse(t, `
#output "a";
#output "b";
main:: fn() void { return; }
`)
	require.Error(t, err)
}

func TestAnalyseNestedOptionRejected(t *testing.T) {
	tokens, cursors, err := Lex("test.cur", []byte(`x: ??i32;`))
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("test.cur", tokens, cursors, arena)
	_, err = p.Parse()
	require.Error(t, err)
}
