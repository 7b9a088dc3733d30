package cur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTypeChecker(t *testing.T) (*TypeChecker, *Arena) {
	t.Helper()
	arena := NewArena()
	symtab := NewSymTab()
	return NewTypeChecker("test.cur", arena, symtab, nil), arena
}

func TestTypeCheckerUntypedIntNarrows(t *testing.T) {
	tc, arena := newTypeChecker(t)
	lhs := arena.NewType(Type{Kind: TkI32})
	rhs := arena.NewType(Type{Kind: TkUntypedInt})

	ok, err := tc.Equals(lhs, rhs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TkI32, arena.Type(rhs).Kind)
}

func TestTypeCheckerRejectsNarrowingSameSignedness(t *testing.T) {
	tc, arena := newTypeChecker(t)
	lhs := arena.NewType(Type{Kind: TkI8})
	rhs := arena.NewType(Type{Kind: TkI32})

	ok, err := tc.Equals(lhs, rhs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypeCheckerRejectsCrossSignedness(t *testing.T) {
	tc, arena := newTypeChecker(t)
	lhs := arena.NewType(Type{Kind: TkI32})
	rhs := arena.NewType(Type{Kind: TkU32})

	ok, err := tc.Equals(lhs, rhs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypeCheckerPtrRejectsConstIntoMut(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	mutLhs := arena.NewType(Type{Kind: TkPtr, PtrOf: i32, Constant: false})
	constRhs := arena.NewType(Type{Kind: TkPtr, PtrOf: i32, Constant: true})

	ok, err := tc.Equals(mutLhs, constRhs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypeCheckerPtrAllowsMutIntoConst(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	constLhs := arena.NewType(Type{Kind: TkPtr, PtrOf: i32, Constant: true})
	mutRhs := arena.NewType(Type{Kind: TkPtr, PtrOf: i32, Constant: false})

	ok, err := tc.Equals(constLhs, mutRhs)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTypeCheckerOptionRejectsVoidSubtype(t *testing.T) {
	tc, arena := newTypeChecker(t)
	void := arena.NewType(Type{Kind: TkVoid})
	lhs := arena.NewType(Type{Kind: TkOption, OptionSubtype: void})
	rhs := arena.NewType(Type{Kind: TkUntypedInt})

	_, err := tc.Equals(lhs, rhs)
	require.Error(t, err)
}

func TestTypeCheckerOptionAutoWrapsBareValue(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	lhs := arena.NewType(Type{Kind: TkOption, OptionSubtype: i32})
	rhs := arena.NewType(Type{Kind: TkUntypedInt})

	ok, err := tc.Equals(lhs, rhs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TkOption, arena.Type(rhs).Kind)
	assert.True(t, arena.Type(rhs).OptionGen)
}

func TestTypeCheckerArrayInfersLengthFromRhs(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	lhs := arena.NewType(Type{Kind: TkArray, ArrayOf: i32})

	lenExpr := arena.NewExpr(Expr{Kind: EkIntLit, IntLit: 3})
	rhs := arena.NewType(Type{Kind: TkArray, ArrayOf: i32, ArrayLen: lenExpr, ArrayLenSet: true})

	ok, err := tc.Equals(lhs, rhs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, arena.Type(lhs).ArrayLenSet)
	assert.Equal(t, lenExpr, arena.Type(lhs).ArrayLen)
}

func TestTypeCheckerArrayLengthMismatchFails(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	lhsLen := arena.NewExpr(Expr{Kind: EkIntLit, IntLit: 3})
	rhsLen := arena.NewExpr(Expr{Kind: EkIntLit, IntLit: 4})
	lhs := arena.NewType(Type{Kind: TkArray, ArrayOf: i32, ArrayLen: lhsLen, ArrayLenSet: true})
	rhs := arena.NewType(Type{Kind: TkArray, ArrayOf: i32, ArrayLen: rhsLen, ArrayLenSet: true})

	ok, err := tc.Equals(lhs, rhs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMakeConstantLeavesPointeeAlone(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	ptr := arena.NewType(Type{Kind: TkPtr, PtrOf: i32})

	tc.MakeConstant(ptr)
	assert.True(t, arena.Type(ptr).Constant)
	assert.False(t, arena.Type(i32).Constant)
}

func TestMakeConstantRecursesIntoArray(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	arr := arena.NewType(Type{Kind: TkArray, ArrayOf: i32})

	tc.MakeConstant(arr)
	assert.True(t, arena.Type(arr).Constant)
	assert.True(t, arena.Type(i32).Constant)
}

func TestCanArithmeticRejectsModOnFloat(t *testing.T) {
	tc, arena := newTypeChecker(t)
	f32 := arena.NewType(Type{Kind: TkF32})

	assert.False(t, tc.CanArithmetic(f32, f32, true))
	assert.True(t, tc.CanArithmetic(f32, f32, false))
}

func TestCanBitwiseRejectsFloat(t *testing.T) {
	tc, arena := newTypeChecker(t)
	f32 := arena.NewType(Type{Kind: TkF32})
	i32 := arena.NewType(Type{Kind: TkI32})

	assert.False(t, tc.CanBitwise(f32, i32))
	assert.True(t, tc.CanBitwise(i32, i32))
}

func TestCanCompareOrderRejectsConcreteLhsWithUntypedRhs(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})
	untyped := arena.NewType(Type{Kind: TkUntypedInt})

	assert.False(t, tc.CanCompareOrder(i32, untyped))
	assert.True(t, tc.CanCompareOrder(untyped, i32))
}

func TestNumberWithinBoundsCatchesI8Overflow(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i8 := arena.NewType(Type{Kind: TkI8})
	lit := arena.NewExpr(Expr{Kind: EkIntLit, IntLit: 200})

	err := tc.NumberWithinBounds(i8, lit)
	require.Error(t, err)
}

func TestNumberWithinBoundsAcceptsFittingNegatedLiteral(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i8 := arena.NewType(Type{Kind: TkI8})
	lit := arena.NewExpr(Expr{Kind: EkIntLit, IntLit: 100})
	neg := arena.NewExpr(Expr{Kind: EkUnop, UnopKind: UkNegate, UnopVal: lit})

	err := tc.NumberWithinBounds(i8, neg)
	require.NoError(t, err)
}

func TestNumberWithinBoundsCatchesNegatedI8Overflow(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i8 := arena.NewType(Type{Kind: TkI8})
	lit := arena.NewExpr(Expr{Kind: EkIntLit, IntLit: 200})
	neg := arena.NewExpr(Expr{Kind: EkUnop, UnopKind: UkNegate, UnopVal: lit})

	err := tc.NumberWithinBounds(i8, neg)
	require.Error(t, err)
}

func TestDefaultUntypedTypeDefaultsIntToI64(t *testing.T) {
	tc, arena := newTypeChecker(t)
	untyped := arena.NewType(Type{Kind: TkUntypedInt})

	def := tc.DefaultUntypedType(untyped)
	require.NotEqual(t, NoType, def)
	assert.Equal(t, TkI64, arena.Type(def).Kind)
}

func TestInferReturnsConcreteTypeUnchanged(t *testing.T) {
	tc, arena := newTypeChecker(t)
	i32 := arena.NewType(Type{Kind: TkI32})

	assert.Equal(t, i32, tc.Infer(i32))
}
