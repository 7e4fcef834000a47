// eval_types.go implements the type-constructor expressions and the size_of/type_of
// built-ins of.
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

// evalBake implements `bake`: partial specialisation of a polymorphic
// function. The target must resolve to a PolyFunction reference; every declared parameter
// must be supplied (a concrete, fully-determined function is what bake produces — there is no
// partial-arity form), matching the same TypePolymorphicFunction job a direct call site to the
// same arguments would join.
func evalBake(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	callee := EvaluateConstant(ctx, sc, e.Target, probing)
	if callee.IsWaiting() || callee.IsErr() {
		return callee
	}
	if callee.Type.Kind != types.PolyFunction {
		return ctx.fail(e.Range, probing, "bake target is not a polymorphic function")
	}
	n := callee.Value.FuncDecl
	if len(e.Operands) != len(n.Params) {
		return ctx.fail(e.Range, probing, fmt.Sprintf("%s: bake expected %d arguments, got %d", n.Name, len(n.Params), len(e.Operands)))
	}

	argTypes := make([]*types.Type, len(e.Operands))
	argValues := make([]types.Value, len(e.Operands))
	for i1, opnd := range e.Operands {
		r := EvaluateConstant(ctx, sc, opnd, probing)
		if r.IsWaiting() || r.IsErr() {
			return r
		}
		if n.Params[i1].Poly {
			// A `$T` determiner's argument is itself a type expression (e.g. `i32`); the
			// type that matters for matching/binding is the type it denotes, not the
			// meta-type ("type") of the expression that denoted it.
			if r.Type.Kind != types.TypeType {
				return ctx.fail(opnd.Range, probing, fmt.Sprintf("argument %d: expected a type", i1+1))
			}
			argTypes[i1] = r.Value.TypeVal
		} else {
			argTypes[i1] = r.Type
		}
		argValues[i1] = r.Value
	}

	parentScope, _ := callee.Value.ParentScope.(*scope.Scope)
	id := FindOrSpawnPolyFunction(ctx, n, parentScope, argTypes, argValues, e.Range)
	return joinJob(ctx, id)
}

func evalPointerType(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	r := EvaluateConstant(ctx, sc, e.TypeExpr, probing)
	if r.IsWaiting() || r.IsErr() {
		return r
	}
	if r.Type.Kind != types.TypeType {
		return ctx.fail(e.Range, probing, "pointer element expression is not a type")
	}
	pt := types.NewPointer(r.Value.TypeVal)
	return Resolved(&types.Type{Kind: types.TypeType}, types.Value{TypeVal: pt})
}

func evalArrayType(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	r := EvaluateConstant(ctx, sc, e.TypeExpr, probing)
	if r.IsWaiting() || r.IsErr() {
		return r
	}
	if r.Type.Kind != types.TypeType {
		return ctx.fail(e.Range, probing, "array element expression is not a type")
	}
	at := types.NewArray(r.Value.TypeVal)
	return Resolved(&types.Type{Kind: types.TypeType}, types.Value{TypeVal: at})
}

func evalStaticArrayType(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	r := EvaluateConstant(ctx, sc, e.TypeExpr, probing)
	if r.IsWaiting() || r.IsErr() {
		return r
	}
	if r.Type.Kind != types.TypeType {
		return ctx.fail(e.Range, probing, "array element expression is not a type")
	}
	lr := EvaluateConstant(ctx, sc, e.Operands[0], probing)
	if lr.IsWaiting() || lr.IsErr() {
		return lr
	}
	if !lr.Type.IsInteger() && lr.Type.Kind != types.UndeterminedInt {
		return ctx.fail(e.Range, probing, "array length must be an integer constant")
	}
	n := lr.Value.Int64()
	if n < 0 {
		return ctx.fail(e.Range, probing, "array length must not be negative")
	}
	sat := types.NewStaticArray(r.Value.TypeVal, int(n))
	return Resolved(&types.Type{Kind: types.TypeType}, types.Value{TypeVal: sat})
}

func evalFunctionType(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	params := make([]*types.Type, len(e.Operands))
	for i1, opnd := range e.Operands {
		r := EvaluateConstant(ctx, sc, opnd, probing)
		if r.IsWaiting() || r.IsErr() {
			return r
		}
		if r.Type.Kind != types.TypeType {
			return ctx.fail(e.Range, probing, "function-type parameter expression is not a type")
		}
		params[i1] = r.Value.TypeVal
	}
	ret := &types.Type{Kind: types.Void}
	if e.TypeExpr != nil {
		r := EvaluateConstant(ctx, sc, e.TypeExpr, probing)
		if r.IsWaiting() || r.IsErr() {
			return r
		}
		if r.Type.Kind != types.TypeType {
			return ctx.fail(e.Range, probing, "function-type return expression is not a type")
		}
		ret = r.Value.TypeVal
	}
	ft := &types.Type{Kind: types.Function, Params: params, Return: ret, CallConv: "default"}
	return Resolved(&types.Type{Kind: types.TypeType}, types.Value{TypeVal: ft})
}

func evalSizeOf(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	r := EvaluateConstant(ctx, sc, e.TypeExpr, probing)
	if r.IsWaiting() || r.IsErr() {
		return r
	}
	if r.Type.Kind != types.TypeType {
		return ctx.fail(e.Range, probing, "size_of argument is not a type")
	}
	if !types.IsRuntimeType(r.Value.TypeVal) {
		return ctx.fail(e.Range, probing, fmt.Sprintf("size_of: %s has no runtime size", r.Value.TypeVal.Kind))
	}
	size := types.SizeOf(r.Value.TypeVal, ctx.Global.Arch)
	usize := types.NewInt(ctx.Global.Arch.AddressSize, false)
	return Resolved(usize, types.Value{Int: int64(size)})
}

func evalTypeOf(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	r := EvaluateConstant(ctx, sc, e.Target, probing)
	if r.IsWaiting() || r.IsErr() {
		return r
	}
	return Resolved(&types.Type{Kind: types.TypeType}, types.Value{TypeVal: r.Type})
}
