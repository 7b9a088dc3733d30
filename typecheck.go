package cur

// typecheck.go is the type algebra consulted by the semantic analyser:
// unification/coercion between a declared (lhs) type and a value's
// (rhs) type, constant-ness propagation, and literal bounds checking.
// It is grounded on original source newsrc/typecheck.c's tc_equals
// family — src/typecheck.c doesn't exist; only the header
// (include/typecheck.h) survived into the newer tree, so the older
// implementation is the only available ground truth.
//
// tc_equals mutates its rhs argument in place (narrowing an untyped
// literal to a sized kind, auto-wrapping a bare value into an Option,
// filling in an array's inferred length). The arena's pointer-returning
// accessors make that translate directly: every "rhs" parameter below
// is a TypeID, and mutations go through a.Type(rhsID).
type TypeChecker struct {
	file    string
	arena   *Arena
	symtab  *SymTab
	cursors []Cursor
}

func NewTypeChecker(file string, arena *Arena, symtab *SymTab, cursors []Cursor) *TypeChecker {
	return &TypeChecker{file: file, arena: arena, symtab: symtab, cursors: cursors}
}

func (tc *TypeChecker) cursorAt(idx int) Cursor {
	if idx >= 0 && idx < len(tc.cursors) {
		return tc.cursors[idx]
	}
	if len(tc.cursors) > 0 {
		return tc.cursors[len(tc.cursors)-1]
	}
	return Cursor{}
}

func (tc *TypeChecker) errf(idx int, format string, args ...any) *Diagnostic {
	return errf(tc.file, tc.cursorAt(idx), format, args...)
}

// Equals reports whether a value of type rhs is assignable to a slot
// of type lhs, mutating *rhs in place when the value needs narrowing,
// auto-wrapping or length inference to fit. A false return with a nil
// error is an ordinary mismatch, left for the caller to report with
// both sides' printed types; a non-nil error is a harder failure
// (an `Option(Void)`, an array whose length can't be inferred at all)
// that should be reported on its own.
func (tc *TypeChecker) Equals(lhs TypeID, rhs TypeID) (bool, error) {
	a := tc.arena
	l := a.Type(lhs)

	switch l.Kind {
	case TkVoid:
		return false, nil

	case TkTypeDef:
		r := a.Type(rhs)
		return r.Kind == TkTypeDef && r.TypeDefName == l.TypeDefName, nil

	case TkOption:
		return tc.optionEquals(lhs, rhs)

	case TkPtr:
		return tc.ptrEquals(lhs, rhs)

	case TkArray:
		return tc.arrayEquals(lhs, rhs)

	case TkSlice:
		r := a.Type(rhs)
		if r.Kind != TkSlice {
			return false, nil
		}
		return tc.Equals(l.SliceOf, r.SliceOf)

	case TkUntypedInt:
		r := a.Type(rhs)
		return r.Kind == TkUntypedInt || r.Kind.IsInt(), nil

	case TkI8, TkI16, TkI32, TkI64, TkIsize, TkU8, TkU16, TkU32, TkU64, TkUsize:
		return tc.sizedIntEquals(l.Kind, rhs)

	case TkUntypedFloat:
		r := a.Type(rhs)
		return r.Kind == TkUntypedFloat || r.Kind.IsFloat(), nil

	case TkF32:
		return tc.sizedFloatEquals(TkF32, rhs)

	case TkF64:
		return tc.sizedFloatEquals(TkF64, rhs)

	default:
		return a.Type(rhs).Kind == l.Kind, nil
	}
}

// sizedIntEquals implements the sized-integer ladder: a slot of kind
// lhsKind accepts an untyped int (narrowed into lhsKind in place) or
// any concretely-sized same-signedness int of width <= lhsKind's.
func (tc *TypeChecker) sizedIntEquals(lhsKind TypeKind, rhs TypeID) (bool, error) {
	r := tc.arena.Type(rhs)
	if r.Kind == TkUntypedInt {
		r.Kind = lhsKind
		return true, nil
	}
	if !r.Kind.IsInt() {
		return false, nil
	}
	sameFamily := (lhsKind.IsSignedInt() && r.Kind.IsSignedInt()) || (lhsKind.IsUnsignedInt() && r.Kind.IsUnsignedInt())
	if !sameFamily {
		return false, nil
	}
	return r.Kind.intWidth() <= lhsKind.intWidth(), nil
}

func (tc *TypeChecker) sizedFloatEquals(lhsKind TypeKind, rhs TypeID) (bool, error) {
	r := tc.arena.Type(rhs)
	if r.Kind == TkUntypedFloat {
		r.Kind = lhsKind
		return true, nil
	}
	if lhsKind == TkF64 && r.Kind == TkF32 {
		return true, nil
	}
	return r.Kind == lhsKind, nil
}

func (tc *TypeChecker) optionEquals(lhs, rhs TypeID) (bool, error) {
	a := tc.arena
	l := a.Type(lhs)
	if a.Type(l.OptionSubtype).Kind == TkVoid {
		return false, tc.errf(l.CursorIdx, "an Option cannot wrap void")
	}
	r := a.Type(rhs)
	if r.Kind == TkOption {
		if r.OptionIsNull {
			r.OptionSubtype = l.OptionSubtype
			r.OptionGen = true
			return true, nil
		}
		return tc.Equals(l.OptionSubtype, r.OptionSubtype)
	}

	// rhs is a bare value: try to unify it against the Option's
	// subtype, then auto-wrap it in place if that succeeds.
	ok, err := tc.Equals(l.OptionSubtype, rhs)
	if err != nil || !ok {
		return ok, err
	}
	inner := *a.Type(rhs)
	innerID := a.NewType(inner)
	*a.Type(rhs) = Type{
		Kind:          TkOption,
		CursorIdx:     inner.CursorIdx,
		OptionSubtype: innerID,
		OptionIsNull:  false,
		OptionGen:     true,
	}
	return true, nil
}

// ptrEquals enforces const-correctness: a mut (`*T`) slot may not
// accept a const (`^T`) value, but a const slot accepts either.
func (tc *TypeChecker) ptrEquals(lhs, rhs TypeID) (bool, error) {
	a := tc.arena
	l := a.Type(lhs)
	r := a.Type(rhs)
	if r.Kind != TkPtr {
		return false, nil
	}
	if !l.Constant && r.Constant {
		return false, nil
	}
	return tc.Equals(l.PtrOf, r.PtrOf)
}

// arrayEquals compares or infers array lengths via compile-time
// constant evaluation, then recurses into the element type. When lhs
// has no explicit length it is inferred from rhs and written back into
// the arena in place — the one case where Equals mutates its lhs
// rather than its rhs.
func (tc *TypeChecker) arrayEquals(lhs, rhs TypeID) (bool, error) {
	a := tc.arena
	l := a.Type(lhs)
	r := a.Type(rhs)
	if r.Kind != TkArray {
		return false, nil
	}

	if l.ArrayLenSet {
		lhsLen, ok := evalConstInt(a, l.ArrayLen)
		if !ok {
			return false, tc.errf(l.CursorIdx, "array length must be a compile-time constant")
		}
		if !r.ArrayLenSet || r.ArrayLen == NoExpr {
			return false, tc.errf(r.CursorIdx, "cannot infer array length here: provide an explicit size or a compound literal")
		}
		rhsLen, ok := evalConstInt(a, r.ArrayLen)
		if !ok {
			return false, tc.errf(r.CursorIdx, "array length must be a compile-time constant")
		}
		if lhsLen != rhsLen {
			return false, nil
		}
	} else {
		if !r.ArrayLenSet || r.ArrayLen == NoExpr {
			return false, tc.errf(r.CursorIdx, "cannot infer array length without an explicit size or a compound literal")
		}
		l.ArrayLen = r.ArrayLen
		l.ArrayLenSet = true
	}
	return tc.Equals(l.ArrayOf, r.ArrayOf)
}

// MakeConstant recursively marks a type tree constant. A pointer's
// pointee is deliberately left alone: `*T const` still points at a
// mutable T, only the pointer slot itself becomes immutable.
func (tc *TypeChecker) MakeConstant(id TypeID) {
	a := tc.arena
	t := a.Type(id)
	switch t.Kind {
	case TkArray:
		tc.MakeConstant(t.ArrayOf)
	case TkSlice:
		tc.MakeConstant(t.SliceOf)
	case TkOption:
		tc.MakeConstant(t.OptionSubtype)
	case TkPtr:
		t.Constant = true
		return
	case TkVoid, TkUntypedInt, TkUntypedFloat, TkNone:
		internalf("MakeConstant called on non-value type %d", t.Kind)
	}
	t.Constant = true
}

// CanCompareEquality governs `==`/`!=`: looser than Equals since it
// doesn't need assignment-compatibility, only "these are comparable
// numbers/values". Signedness families may not cross.
func (tc *TypeChecker) CanCompareEquality(lhs, rhs TypeID) bool {
	l := tc.arena.Type(lhs).Kind
	r := tc.arena.Type(rhs).Kind
	switch {
	case l.IsSignedInt():
		return r.IsSignedInt() || r == TkUntypedInt
	case l.IsUnsignedInt():
		return r.IsUnsignedInt() || r == TkUntypedInt
	case l == TkUntypedInt:
		return r.IsInt() || r == TkUntypedInt
	case l.IsFloat() || l == TkUntypedFloat:
		return r.IsFloat() || r == TkUntypedFloat
	default:
		return l == r
	}
}

// CanCompareOrder governs `<`/`<=`/`>`/`>=`. Unlike equality, a
// concretely-sized lhs does not accept an untyped rhs here — only an
// untyped lhs is permissive, matching the asymmetry in the original.
func (tc *TypeChecker) CanCompareOrder(lhs, rhs TypeID) bool {
	l := tc.arena.Type(lhs).Kind
	r := tc.arena.Type(rhs).Kind
	switch {
	case l.IsSignedInt():
		return r.IsSignedInt()
	case l.IsUnsignedInt():
		return r.IsUnsignedInt()
	case l == TkUntypedInt:
		return r.IsInt() || r == TkUntypedInt
	case l.IsFloat() || l == TkUntypedFloat:
		return r.IsFloat() || r == TkUntypedFloat
	default:
		return false
	}
}

// CanArithmetic governs `+`/`-`/`*`/`/`/`%`. include/typecheck.h declares
// tc_can_arithmetic but no source file in the retrieval pack defines it
// (confirmed absent from both src/ and newsrc/); by the point sema.c
// calls it, Equals has already unified lhs/rhs to the same kind, so
// this only needs to gate which kinds the operator family accepts:
// any numeric pair, except `%` never accepts floats.
func (tc *TypeChecker) CanArithmetic(lhs, rhs TypeID, isMod bool) bool {
	l := tc.arena.Type(lhs).Kind
	r := tc.arena.Type(rhs).Kind
	if !l.IsNumeric() || !r.IsNumeric() {
		return false
	}
	if isMod && (l.IsFloat() || l == TkUntypedFloat || r.IsFloat() || r == TkUntypedFloat) {
		return false
	}
	return true
}

// CanBitwise governs `&`/`|`/`^`/`<<`/`>>` and unary `~`. Same gap as
// CanArithmetic (tc_can_bitwise is declared, never defined): gates the
// operator family to integer kinds once Equals has already unified the
// operand types.
func (tc *TypeChecker) CanBitwise(lhs, rhs TypeID) bool {
	intKind := func(k TypeKind) bool { return k.IsInt() || k == TkUntypedInt }
	return intKind(tc.arena.Type(lhs).Kind) && intKind(tc.arena.Type(rhs).Kind)
}

// IsUnsigned resolves an already-typechecked expression's kind and
// reports whether it's an unsigned integer family member; sema uses it
// to reject unary minus on an unsigned operand.
func (tc *TypeChecker) IsUnsigned(expr ExprID) (bool, error) {
	e := tc.arena.Expr(expr)
	k := tc.arena.Type(e.Type).Kind
	switch {
	case k.IsUnsignedInt():
		return true, nil
	case k.IsSignedInt():
		return false, nil
	default:
		return false, tc.errf(e.CursorIdx, "expected an integer type")
	}
}

// DefaultUntypedType returns the concrete kind an untyped numeric
// literal defaults to when no surrounding context fixes it (a bare
// `:=` with no declared type): UntypedInt -> I64, UntypedFloat -> F64.
func (tc *TypeChecker) DefaultUntypedType(id TypeID) TypeID {
	a := tc.arena
	switch a.Type(id).Kind {
	case TkUntypedInt:
		return a.NewType(Type{Kind: TkI64})
	case TkUntypedFloat:
		return a.NewType(Type{Kind: TkF64})
	default:
		return NoType
	}
}

// Infer fills lhs (a `:=` declaration's as-yet-unknown type) from a
// resolved expression: the expression's own type if it has no untyped
// default (a TypeDef, Option, Ptr, Array, Slice, or already-concrete
// scalar), otherwise its default concrete numeric kind.
func (tc *TypeChecker) Infer(exprType TypeID) TypeID {
	a := tc.arena
	def := tc.DefaultUntypedType(exprType)
	if def == NoType || a.Type(def).Kind == TkNone {
		return exprType
	}
	return def
}

// NumberWithinBounds range-checks an integer literal (or a negated
// integer literal) against the bit width of the destination type. Only
// EkIntLit and `-EkIntLit` are checked; every other expression shape
// is left to the C compiler's own diagnostics.
func (tc *TypeChecker) NumberWithinBounds(typ TypeID, expr ExprID) error {
	a := tc.arena
	e := a.Expr(expr)
	kind := a.Type(typ).Kind

	if e.Kind == EkIntLit {
		return tc.checkUnsignedLiteralBounds(kind, e.IntLit, e.CursorIdx)
	}
	if e.Kind == EkUnop && e.UnopKind == UkNegate {
		inner := a.Expr(e.UnopVal)
		if inner.Kind == EkIntLit {
			return tc.checkNegatedLiteralBounds(kind, inner.IntLit, e.CursorIdx)
		}
	}
	return nil
}

func (tc *TypeChecker) checkUnsignedLiteralBounds(kind TypeKind, v uint64, cursorIdx int) error {
	const (
		maxI8  = 1<<7 - 1
		maxI16 = 1<<15 - 1
		maxI32 = 1<<31 - 1
		maxU8  = 1<<8 - 1
		maxU16 = 1<<16 - 1
		maxU32 = 1<<32 - 1
		maxI64 = 1<<63 - 1
	)
	switch kind {
	case TkI8:
		if v > maxI8 {
			return tc.errf(cursorIdx, "integer literal %d overflows i8", v)
		}
	case TkI16:
		if v > maxI16 {
			return tc.errf(cursorIdx, "integer literal %d overflows i16", v)
		}
	case TkI32:
		if v > maxI32 {
			return tc.errf(cursorIdx, "integer literal %d overflows i32", v)
		}
	case TkI64, TkIsize:
		if v > maxI64 {
			return tc.errf(cursorIdx, "integer literal %d overflows a 64-bit signed integer", v)
		}
	case TkU8:
		if v > maxU8 {
			return tc.errf(cursorIdx, "integer literal %d overflows u8", v)
		}
	case TkU16:
		if v > maxU16 {
			return tc.errf(cursorIdx, "integer literal %d overflows u16", v)
		}
	case TkU32:
		if v > maxU32 {
			return tc.errf(cursorIdx, "integer literal %d overflows u32", v)
		}
	case TkF32:
		if v > 0 && float64(v) > maxF32Magnitude {
			return tc.errf(cursorIdx, "numeric literal %d overflows f32", v)
		}
	}
	// U64, Usize, F64: every uint64 literal fits, nothing tighter to
	// check at this stage.
	return nil
}

func (tc *TypeChecker) checkNegatedLiteralBounds(kind TypeKind, v uint64, cursorIdx int) error {
	const (
		minI8  = 1 << 7
		minI16 = 1 << 15
		minI32 = 1 << 31
		minI64 = 1 << 63
	)
	switch kind {
	case TkI8:
		if v > minI8 {
			return tc.errf(cursorIdx, "integer literal -%d overflows i8", v)
		}
	case TkI16:
		if v > minI16 {
			return tc.errf(cursorIdx, "integer literal -%d overflows i16", v)
		}
	case TkI32:
		if v > minI32 {
			return tc.errf(cursorIdx, "integer literal -%d overflows i32", v)
		}
	case TkI64, TkIsize:
		if v > minI64 {
			return tc.errf(cursorIdx, "integer literal -%d overflows a 64-bit signed integer", v)
		}
	}
	return nil
}

// maxF32Magnitude is the largest finite magnitude an IEEE-754 single
// precision float can hold, used only for literal bounds checking.
const maxF32Magnitude = 3.40282346638528859811704183484516925440e+38
