package cur

// const_eval.go is the tiny constant-expression evaluator spec.md §4.3
// asks for: enough to default-number an enum's fields and to resolve
// an array's declared length, nothing more. Grounded on original
// source newsrc/eval.c's eval_expr/eval_binop/eval_unop, which is
// itself only wired up for integer literals, binary arithmetic and
// unary not/negate/address-of (address-of is rejected at compile
// time there too).
//
// evalConstInt returns (0, false) for any expression shape outside
// that set, so callers treat "can't evaluate" as "needs an explicit
// size" rather than panicking on a call or a field access.
func evalConstInt(a *Arena, id ExprID) (uint64, bool) {
	if id == NoExpr {
		return 0, false
	}
	e := a.Expr(id)
	switch e.Kind {
	case EkIntLit:
		return e.IntLit, true
	case EkGroup:
		return evalConstInt(a, e.GroupInner)
	case EkBinop:
		return evalConstBinop(a, e)
	case EkUnop:
		return evalConstUnop(a, e)
	default:
		return 0, false
	}
}

func evalConstBinop(a *Arena, e *Expr) (uint64, bool) {
	lhs, ok := evalConstInt(a, e.BinopLeft)
	if !ok {
		return 0, false
	}
	rhs, ok := evalConstInt(a, e.BinopRight)
	if !ok {
		return 0, false
	}
	switch e.BinopKind {
	case BkPlus:
		return lhs + rhs, true
	case BkMinus:
		return lhs - rhs, true
	case BkMultiply:
		return lhs * rhs, true
	case BkDivide:
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case BkMod:
		if rhs == 0 {
			return 0, false
		}
		return lhs % rhs, true
	case BkBitAnd:
		return lhs & rhs, true
	case BkBitOr:
		return lhs | rhs, true
	case BkBitXor:
		return lhs ^ rhs, true
	case BkLeftShift:
		return lhs << rhs, true
	case BkRightShift:
		return lhs >> rhs, true
	case BkLess:
		return boolToUint64(lhs < rhs), true
	case BkLessEqual:
		return boolToUint64(lhs <= rhs), true
	case BkGreater:
		return boolToUint64(lhs > rhs), true
	case BkGreaterEqual:
		return boolToUint64(lhs >= rhs), true
	case BkEquals:
		return boolToUint64(lhs == rhs), true
	case BkInequals:
		return boolToUint64(lhs != rhs), true
	default:
		return 0, false
	}
}

func evalConstUnop(a *Arena, e *Expr) (uint64, bool) {
	val, ok := evalConstInt(a, e.UnopVal)
	if !ok {
		return 0, false
	}
	switch e.UnopKind {
	case UkNot:
		return boolToUint64(val == 0), true
	case UkNegate:
		return -val, true
	default: // UkAddress: not evaluable at compile time
		return 0, false
	}
}

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// nextEnumValue assigns the value an enum field takes when its
// declaration omits an explicit `= expr`: the running counter,
// starting at zero and advancing by one after every field regardless
// of whether that field's own value came from the counter or from an
// explicit expression (original source sema.c's sema_enum_decl).
func nextEnumValue(a *Arena, counter uint64, cursorIdx int) ExprID {
	return a.NewExpr(Expr{
		Kind:      EkIntLit,
		CursorIdx: cursorIdx,
		IntLit:    counter,
		Type:      a.NewType(Type{Kind: TkUntypedInt, Constant: true, CursorIdx: cursorIdx}),
	})
}
