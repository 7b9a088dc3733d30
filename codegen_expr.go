package cur

import (
	"fmt"
	"strconv"
	"strings"
)

// codegen_expr.go lowers one Expr to its C text, grounded on gen.c's
// gen_expr and the literal/option/numlit/binop/unop helpers it
// dispatches to.

func (g *Gen) expr(id ExprID) string {
	if id == NoExpr {
		return ""
	}
	return g.exprValue(g.arena.Expr(id))
}

// exprValue takes an *Expr directly rather than looking one up fresh
// from the arena, so optionWrap can pass a local, modified copy of the
// node (see below) without mutating the arena.
func (g *Gen) exprValue(e *Expr) string {
	if e.Kind != EkNull {
		if wrapped, ok := g.optionWrap(e); ok {
			return wrapped
		}
	}

	switch e.Kind {
	case EkIdent:
		return e.Ident
	case EkIntLit:
		return g.intLitText(e)
	case EkFloatLit:
		return g.floatLitText(e)
	case EkCharLit:
		return strconv.Itoa(int(e.CharLit))
	case EkStrLit:
		return fmt.Sprintf("curstr(%s)", strconv.Quote(e.StrLit))
	case EkCstrLit:
		return strconv.Quote(e.StrLit)
	case EkTrue:
		return "true"
	case EkFalse:
		return "false"
	case EkNull:
		t := g.arena.Type(e.Type)
		return fmt.Sprintf("curoptionnull_%s()", g.typeName(t.OptionSubtype))
	case EkArrayLit:
		return g.arrayLitExprText(e)
	case EkStructLit:
		return g.structLitText(e)
	case EkFieldAccess:
		return g.fieldAccessText(e)
	case EkArrayIndex:
		return fmt.Sprintf("%s.ptr[%s]", g.expr(e.IndexTarget), g.expr(e.IndexValue))
	case EkFnCall:
		return g.fnCallText(e)
	case EkGroup:
		return fmt.Sprintf("(%s)", g.expr(e.GroupInner))
	case EkUnop:
		return g.unopText(e)
	case EkBinop:
		return g.binopText(e)
	default:
		internalf("codegen: unhandled expression kind %d", e.Kind)
		return ""
	}
}

// optionWrap auto-wraps a bare value into its Option type when sema
// marked the slot OptionGen during Equals - the TypeID the expression
// carries never changes identity there, only what it points at, so
// wrapping here needs a local shallow copy of the Expr with Type reset
// to the underlying subtype rather than any arena mutation. Grounded
// on gen.c's gen_option_expr, which does the equivalent with a
// stack-local copy of the whole Expr struct.
func (g *Gen) optionWrap(e *Expr) (string, bool) {
	t := g.arena.Type(e.Type)
	if t.Kind != TkOption || !t.OptionGen {
		return "", false
	}
	name := g.typeName(t.OptionSubtype)
	underlying := *e
	underlying.Type = t.OptionSubtype
	val := g.exprValue(&underlying)
	return fmt.Sprintf("curoption_%s(%s)", name, val), true
}

// intLitText prints an integer literal's already-bounds-checked value
// per its resolved width/signedness. An untyped-int literal can never
// resolve against a float-typed context (typecheck.go's Equals only
// narrows TkUntypedFloat/matching-float kinds against a float lhs), so
// unlike gen.c's gen_numlit_expr this never needs to consider a float
// rendering.
func (g *Gen) intLitText(e *Expr) string {
	t := g.arena.Type(e.Type)
	if t.Kind.IsUnsignedInt() {
		return fmt.Sprintf("%d", e.IntLit)
	}
	return fmt.Sprintf("%d", int64(e.IntLit))
}

func (g *Gen) floatLitText(e *Expr) string {
	return fmt.Sprintf("%f", e.FloatLit)
}

// fieldAccessText mirrors gen.c's gen_expr EkFieldAccess branch: a
// pointer target arrows through, a struct target dots through, and an
// enum target joins the enum and field names with an underscore (Name_Field) -
// resolved by looking up the target's own named type in the symbol
// table, exactly as analyseFieldAccess/getField do during sema.
func (g *Gen) fieldAccessText(e *Expr) string {
	if e.FieldDeref {
		return fmt.Sprintf("*%s", g.expr(e.FieldTarget))
	}

	target := g.arena.Expr(e.FieldTarget)
	tt := g.arena.Type(target.Type)
	switch tt.Kind {
	case TkPtr:
		return fmt.Sprintf("%s->%s", g.expr(e.FieldTarget), e.FieldName)
	case TkTypeDef:
		if declID, ok := g.symtab.Find(tt.TypeDefName); ok && g.arena.Stmnt(declID).Kind == SkEnumDecl {
			return fmt.Sprintf("%s_%s", g.expr(e.FieldTarget), e.FieldName)
		}
		return fmt.Sprintf("%s.%s", g.expr(e.FieldTarget), e.FieldName)
	default:
		return fmt.Sprintf("%s.%s", g.expr(e.FieldTarget), e.FieldName)
	}
}

func (g *Gen) fnCallText(e *Expr) string {
	target := g.arena.Expr(e.CallTarget)
	args := make([]string, len(e.CallArgs))
	for i, a := range e.CallArgs {
		args[i] = g.expr(a)
	}
	return fmt.Sprintf("%s(%s)", target.Ident, strings.Join(args, ", "))
}

func (g *Gen) unopText(e *Expr) string {
	val := g.expr(e.UnopVal)
	switch e.UnopKind {
	case UkAddress:
		return "&" + val
	case UkNegate:
		return "-" + val
	case UkNot:
		return "!" + val
	case UkBitNot:
		return "~" + val
	default:
		internalf("codegen: unknown unop kind %d", e.UnopKind)
		return ""
	}
}

func (g *Gen) binopText(e *Expr) string {
	return fmt.Sprintf("%s %s %s", g.expr(e.BinopLeft), binopSymbol(e.BinopKind), g.expr(e.BinopRight))
}

// arrayLitExprText and structLitText are reached through two distinct
// ExprKinds here (EkArrayLit/EkStructLit), where gen.c funnels both
// shapes through one EkLiteral node and dispatches on expr.type.kind
// instead - the parser in this port already tells them apart, so
// there is no need to re-discover which literal shape this is from
// its resolved type.
func (g *Gen) arrayLitExprText(e *Expr) string {
	texts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		texts[i] = g.expr(f.Value)
	}
	return g.arrayLiteralText(e.Type, texts)
}

// arrayLiteralText builds the CurArray*d constructor call for an array
// value: the anonymous C array passed to the constructor is bracketed
// with the outer length and an element-type text that is the mangled
// inner-array name for a 2D array's rows, or the element's own C type
// otherwise - tracing gen.c's gen_array_literal_expr by hand shows
// those are the only two shapes it ever builds.
func (g *Gen) arrayLiteralText(typ TypeID, texts []string) string {
	t := g.arena.Type(typ)
	mangled := g.ensureArrayInstantiated(typ)
	ctor := ctorNameFromMangled(mangled)
	length := g.expr(t.ArrayLen)

	elemT := g.arena.Type(t.ArrayOf)
	var elemTypeText string
	if elemT.Kind == TkArray {
		elemTypeText = g.typeName(t.ArrayOf)
	} else {
		elemTypeText = g.typeRef(t.ArrayOf)
	}

	return fmt.Sprintf("%s((%s[%s]){%s}, %s)", ctor, elemTypeText, length, strings.Join(texts, ", "), length)
}

func (g *Gen) structLitText(e *Expr) string {
	ref := g.typeRef(e.Type)
	parts := make([]string, len(e.Fields))
	if e.Named {
		for i, f := range e.Fields {
			parts[i] = fmt.Sprintf(".%s = %s", f.Name, g.expr(f.Value))
		}
	} else {
		for i, f := range e.Fields {
			parts[i] = g.expr(f.Value)
		}
	}
	return fmt.Sprintf("(%s){%s}", ref, strings.Join(parts, ", "))
}
