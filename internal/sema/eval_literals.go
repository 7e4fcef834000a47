// eval_literals.go implements array- and struct-literal evaluation, including an
// array-defaulting detail: when the first element is itself undetermined-integer, the whole
// array's element type defaults the same way a bare integer literal would, rather than
// staying perpetually undetermined.
package sema

import (
	"corec/internal/ast"
	"corec/internal/scope"
	"corec/internal/types"
)

// ---------------------
// ----- functions -----
// ---------------------

func evalArrayLiteral(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	if len(e.Operands) == 0 {
		return ctx.fail(e.Range, probing, "array literal must have at least one element")
	}
	elems := make([]types.Value, len(e.Operands))
	var elemType *types.Type
	for i1, opnd := range e.Operands {
		r := EvaluateConstant(ctx, sc, opnd, probing)
		if r.IsWaiting() || r.IsErr() {
			return r
		}
		if i1 == 0 {
			elemType = r.Type
			if elemType.Kind == types.UndeterminedInt {
				if def, ok := types.Default(elemType, ctx.Global.Arch); ok {
					elemType = def
				}
			}
		}
		if err := types.CanCoerce(r.Type, elemType, ctx.Global.Arch); err != nil {
			return ctx.fail(opnd.Range, probing, "array literal element: "+err.Error())
		}
		elems[i1] = coerceConstantValue(r.Value, r.Type, elemType, ctx.Global.Arch)
	}
	t := types.NewStaticArray(elemType, len(elems))
	return Resolved(t, types.Value{Elems: elems})
}

func evalStructLiteral(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	members := make([]types.Member, len(e.Members))
	values := make([]types.Value, len(e.Members))
	for i1, m := range e.Members {
		r := EvaluateConstant(ctx, sc, m.Value, probing)
		if r.IsWaiting() || r.IsErr() {
			return r
		}
		members[i1] = types.Member{Name: m.Name, Type: r.Type}
		values[i1] = r.Value
	}
	t := &types.Type{Kind: types.UndeterminedStruct, Members: members}
	return Resolved(t, types.Value{Members: values})
}

// coerceConstantValue performs the value-level transformation matching a CanCoerce success
// between two runtime-representable-or-undetermined numeric kinds; package types only
// answers "would this coercion succeed" (CanCoerce), since only the evaluator sees the
// actual value being coerced (types/coerce.go doc comment).
func coerceConstantValue(v types.Value, src, dst *types.Type, arch types.ArchSizes) types.Value {
	v.Type = dst
	switch {
	case dst.IsInteger() && (src.IsInteger() || src.Kind == types.UndeterminedInt):
		return v
	case dst.IsFloat() && src.Kind == types.UndeterminedInt:
		v.Float = float64(v.Int64())
		return v
	case dst.IsFloat() && (src.IsFloat() || src.Kind == types.UndeterminedFloat):
		return v
	}
	return v
}
