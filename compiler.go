package cur

import (
	"path/filepath"
	"strings"
)

// compiler.go drives one compilation end to end: lex, parse, analyse,
// generate. Grounded on the original source's main.c build(), with the
// C-invocation and process-running steps themselves split out into
// internal/ccompiler, which this package does not import; cmd/cur
// writes the generated files and calls it.
type Unit struct {
	// Defs is the generated header text (output.h).
	Defs string
	// Code is the generated translation unit text (output.c).
	Code string
	// Flags is the fully folded set of #directive statements.
	Flags CompileFlags
	// OutputName is Flags.Output if set, else the source file's base
	// name with its extension stripped - mirrors main.c's
	// filename_from_path fallback.
	OutputName string
}

// Compile lexes, parses, and analyses src (whose diagnostics are
// anchored at file), then lowers the resulting AST to C.
func Compile(file string, src []byte) (*Unit, error) {
	tokens, cursors, err := Lex(file, src)
	if err != nil {
		return nil, err
	}

	arena := NewArena()
	parser := NewParser(file, tokens, cursors, arena)
	top, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	sema := NewSema(file, arena, cursors)
	flags, err := sema.Analyse(top)
	if err != nil {
		return nil, err
	}

	defs, code := Generate(arena, sema.symtab, sema.dgraph, top)

	if flags.Output == "" {
		flags.Output = outputNameFromPath(file)
	}

	return &Unit{Defs: defs, Code: code, Flags: flags, OutputName: flags.Output}, nil
}

// outputNameFromPath strips the directory and extension from a source
// path, mirroring main.c's filename_from_path: "./examples/hello.cur"
// becomes "hello".
func outputNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
