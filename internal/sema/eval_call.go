// eval_call.go implements call-expression evaluation in constant context :
// ordinary function calls are disallowed here — the only permitted call form is the
// polymorphic-struct/union "parameterise" form, e.g. `Pair(u32)`, which spawns or joins a
// TypePolymorphicStruct/TypePolymorphicUnion job.
package sema

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/scope"
	"corec/internal/types"
)

// ---------------------
// ----- functions -----
// ---------------------

func evalCall(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	callee := EvaluateConstant(ctx, sc, e.Target, probing)
	if callee.IsWaiting() || callee.IsErr() {
		return callee
	}

	if callee.Type.Kind == types.TypeType {
		switch callee.Value.TypeVal.Kind {
		case types.PolyStruct, types.PolyUnion:
			return evalParameterise(ctx, sc, e, callee.Value, probing)
		}
	}

	return ctx.fail(e.Range, probing, "function calls are not permitted in a constant expression (only size_of, type_of, bake, and parameterising a polymorphic struct/union are)")
}

// evalParameterise handles the `Name(T, ...)` call form against a polymorphic struct/union
// reference, resolving each operand to a type and deduplicating the instantiation job against
// any earlier call site that supplied the same type arguments. ref is
// the resolved TypeType value wrapping the PolyStruct/PolyUnion type; its ParentScope field
// (stashed by DispatchAggregateDecl) carries the declaring scope.
func evalParameterise(ctx *Context, sc *scope.Scope, e *ast.Expr, ref types.Value, probing bool) EvalResult {
	polyT := ref.TypeVal
	n := polyT.PolyDef
	if len(e.Operands) != len(n.PolyParams) {
		return ctx.fail(e.Range, probing, fmt.Sprintf("%s: expected %d type arguments, got %d", n.Name, len(n.PolyParams), len(e.Operands)))
	}

	argTypes := make([]*types.Type, len(e.Operands))
	for i1, opnd := range e.Operands {
		r := EvaluateConstant(ctx, sc, opnd, probing)
		if r.IsWaiting() || r.IsErr() {
			return r
		}
		if r.Type.Kind != types.TypeType {
			return ctx.fail(opnd.Range, probing, fmt.Sprintf("argument %d: expression is not a type", i1+1))
		}
		argTypes[i1] = r.Value.TypeVal
	}

	parentScope, _ := ref.ParentScope.(*scope.Scope)
	id := FindOrSpawnPolyAggregate(ctx, n, parentScope, argTypes, polyT.Kind == types.PolyUnion, e.Range)
	return joinJob(ctx, id)
}
