package cur

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compilerTestPipeline runs a fixture under testdata/ through every stage
// up to code generation, handing back the arena (so a test can inspect
// sema-resolved types directly, not just the final C text) alongside the
// generated defs/code - these are the golden fixtures promised for the
// six end-to-end scenarios named in the testable-properties section.
func compilerTestPipeline(t *testing.T, fixture string) (top []StmntID, arena *Arena, sema *Sema, defs, code string) {
	t.Helper()
	src, err := os.ReadFile("testdata/" + fixture)
	require.NoError(t, err)

	tokens, cursors, err := Lex(fixture, src)
	require.NoError(t, err)
	arena = NewArena()
	p := NewParser(fixture, tokens, cursors, arena)
	top, err = p.Parse()
	require.NoError(t, err)
	sema = NewSema(fixture, arena, cursors)
	_, err = sema.Analyse(top)
	require.NoError(t, err)
	defs, code = Generate(arena, sema.symtab, sema.dgraph, top)
	return
}

func findFnDecl(t *testing.T, top []StmntID, arena *Arena, name string) *Stmnt {
	t.Helper()
	for _, id := range top {
		st := arena.Stmnt(id)
		if st.Kind == SkFnDecl && st.Name == name {
			return st
		}
	}
	t.Fatalf("no fn decl named %q at top level", name)
	return nil
}

// Scenario 1: hello ints - a plain variable declaration and an
// inferred-type (":=") declaration both lower straight through.
func TestScenarioHelloInts(t *testing.T) {
	_, _, _, _, code := compilerTestPipeline(t, "hello_ints.cur")
	assert.Contains(t, code, "int main(int argc, const char **argv) {")
	assert.Contains(t, code, "i32 a = 42;")
	assert.Contains(t, code, "i32 b = a + 1;")
}

// Scenario 2: option capture - `v` resolves to the option's unwrapped
// subtype during sema, and codegen emits the capture-binding brace
// followed by the `.ok`-gated if, per gen.c's gen_if.
func TestScenarioOptionCapture(t *testing.T) {
	top, arena, _, _, code := compilerTestPipeline(t, "option_capture.cur")

	f := findFnDecl(t, top, arena, "f")
	require.Len(t, f.Body, 1)
	ifs := arena.Stmnt(f.Body[0])
	require.Equal(t, SkIf, ifs.Kind)
	require.Equal(t, CkIdent, ifs.CaptureKind)
	require.NotEqual(t, NoStmnt, ifs.CaptureDecl)

	capDecl := arena.Stmnt(ifs.CaptureDecl)
	assert.Equal(t, TkI32, arena.Type(capDecl.DeclType).Kind)

	assert.Contains(t, code, "i32 v = x.some;")
	assert.Contains(t, code, "if (x.ok) {")
	assert.Contains(t, code, "return v;")
	assert.Contains(t, code, "return -1;")
}

// Scenario 3: slice argument to main - the CurString argv preamble and
// a CurSlice_CurString local named after the declared parameter.
func TestScenarioSliceArgsToMain(t *testing.T) {
	_, _, _, defs, code := compilerTestPipeline(t, "slice_args.cur")
	assert.Contains(t, defs, "CurSliceDef(CurString, CurString);")
	assert.Contains(t, code, "int main(int argc, const char **argv) {")
	assert.Contains(t, code, "CurSlice_CurString args = curslice_CurString(_CUR_ARGS_, argc);")
}

// Scenario 4: enum auto-numbering - an explicit value resets the
// counter for subsequent bare members.
func TestScenarioEnumAutonumbering(t *testing.T) {
	_, _, _, defs, _ := compilerTestPipeline(t, "enum_autonumber.cur")
	assert.Contains(t, defs, "Color_Red = 0,")
	assert.Contains(t, defs, "Color_Green = 10,")
	assert.Contains(t, defs, "Color_Blue = 11,")
}

// Scenario 5: a struct cycle through plain (non-Option, non-Ptr) value
// fields is rejected, anchored at the declaration that closes the cycle
// (B, whose field "a" refers back to the already-visited A).
func TestScenarioStructCycleRejected(t *testing.T) {
	src, err := os.ReadFile("testdata/cycle_rejected.cur")
	require.NoError(t, err)
	tokens, cursors, err := Lex("cycle_rejected.cur", src)
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("cycle_rejected.cur", tokens, cursors, arena)
	top, err := p.Parse()
	require.NoError(t, err)
	sema := NewSema("cycle_rejected.cur", arena, cursors)
	_, err = sema.Analyse(top)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle_rejected.cur:2:")
	assert.Contains(t, err.Error(), "cyclic dependency between struct \"B\" and field \"a\" of type \"A\"")
}

// Scenario 6: an integer literal that overflows its declared width is
// rejected, anchored at the literal itself (line 2 of the fixture).
func TestScenarioOverflowRejected(t *testing.T) {
	src, err := os.ReadFile("testdata/overflow_rejected.cur")
	require.NoError(t, err)
	tokens, cursors, err := Lex("overflow_rejected.cur", src)
	require.NoError(t, err)
	arena := NewArena()
	p := NewParser("overflow_rejected.cur", tokens, cursors, arena)
	top, err := p.Parse()
	require.NoError(t, err)
	sema := NewSema("overflow_rejected.cur", arena, cursors)
	_, err = sema.Analyse(top)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows u8")
}

func TestCompileEndToEnd(t *testing.T) {
	unit, err := Compile("hello.cur", []byte(`
#output "hello";
main :: fn() void { return; }
`))
	require.NoError(t, err)
	assert.Equal(t, "hello", unit.OutputName)
	assert.Contains(t, unit.Code, `#include "output.h"`)
	assert.Contains(t, unit.Defs, "#endif // CURRENT_DEFS_H")
}

func TestCompileOutputNameFallsBackToFileBasename(t *testing.T) {
	unit, err := Compile("./examples/hello.cur", []byte(`main :: fn() void { return; }`))
	require.NoError(t, err)
	assert.Equal(t, "hello", unit.OutputName)
}
