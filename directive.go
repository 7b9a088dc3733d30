package cur

// directive.go aggregates the compile directives a translation unit's
// top-level `#directive ...;` statements request, mirroring the
// original source's CompileFlags (include/gen.h) and its duplicate
// checks in sema.c's sema_directive: `output` and an optimisation
// level may each be set at most once, while `link`/`syslink` freely
// accumulate.
type OptLevel int

const (
	OlDebug OptLevel = iota // default when no optimisation directive is present
	OlZero
	OlOne
	OlTwo
	OlThree
	OlFast
	OlSmall
)

// Flag renders the gcc/clang flag this level maps to. OlFast maps to
// "-O3" and OlDebug to "-Og -g", matching the original's compile()
// switch exactly (not "-Ofast"/no-flag, which would be the naive
// reading of the directive names).
func (o OptLevel) Flag() string {
	switch o {
	case OlZero:
		return "-O0"
	case OlOne:
		return "-O1"
	case OlTwo:
		return "-O2"
	case OlThree:
		return "-O3"
	case OlFast:
		return "-O3"
	case OlSmall:
		return "-Os"
	default:
		return "-Og -g"
	}
}

// CompileFlags is the result of folding every #directive statement in
// a translation unit, consumed by internal/ccompiler to build the
// compiler invocation.
type CompileFlags struct {
	Links        []string
	Optimisation OptLevel
	Output       string

	outputSet      bool
	optimisationSet bool
}

// Apply folds one directive statement into the flag set, reporting a
// diagnostic if `output` or an optimisation level is given more than
// once (link/syslink directives never conflict).
func (f *CompileFlags) Apply(file string, cursors []Cursor, stmnt *Stmnt) error {
	cur := Cursor{}
	if stmnt.CursorIdx >= 0 && stmnt.CursorIdx < len(cursors) {
		cur = cursors[stmnt.CursorIdx]
	}
	switch stmnt.DirKind {
	case DkLink:
		f.Links = append(f.Links, stmnt.DirStr)
	case DkSyslink:
		f.Links = append(f.Links, "-l"+stmnt.DirStr)
	case DkOutput:
		if f.outputSet {
			return errf(file, cur, "output already set, cannot have more than one output directive")
		}
		f.outputSet = true
		f.Output = stmnt.DirStr
	case DkO0, DkO1, DkO2, DkO3, DkOdebug, DkOfast, DkOsmall:
		if f.optimisationSet {
			return errf(file, cur, "optimisation already set, cannot have more than one optimisation directive")
		}
		f.optimisationSet = true
		f.Optimisation = optLevelOf(stmnt.DirKind)
	}
	return nil
}

func optLevelOf(k DirectiveKind) OptLevel {
	switch k {
	case DkO0:
		return OlZero
	case DkO1:
		return OlOne
	case DkO2:
		return OlTwo
	case DkO3:
		return OlThree
	case DkOfast:
		return OlFast
	case DkOsmall:
		return OlSmall
	default: // DkOdebug
		return OlDebug
	}
}
