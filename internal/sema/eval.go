// eval.go implements evaluate-constant-expression: the pure, side-effect-free (except for
// spawning scheduler jobs) expression evaluator shared with package ir's runtime lowering,
// which calls EvaluateConstant first on any sub-expression it suspects is fully constant
// before falling back to register-producing IR emission.
package sema

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/scope"
	"corec/internal/types"
	"corec/internal/util"
)

// ---------------------
// ----- functions -----
// ---------------------

// EvaluateConstant evaluates e in sc, returning a resolved {type, value}, a suspension, or a
// reported error. probing suppresses the diagnostic (not the failure) for callers such as
// implicit-coercion attempts that are willing to treat failure as a signal rather than an
// error to surface.
func EvaluateConstant(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	switch e.Kind {
	case ast.ExprIdent:
		return lookupAndEnsure(ctx, sc, e.Name, e.Range, probing)

	case ast.ExprInt:
		return Resolved(&types.Type{Kind: types.UndeterminedInt}, types.Value{Int: e.IntVal})

	case ast.ExprFloat:
		return Resolved(&types.Type{Kind: types.UndeterminedFloat}, types.Value{Float: e.FloatVal})

	case ast.ExprBool:
		return Resolved(&types.Type{Kind: types.Bool}, types.Value{Bool: e.BoolVal})

	case ast.ExprString:
		return evalStringLiteral(e)

	case ast.ExprArrayLiteral:
		return evalArrayLiteral(ctx, sc, e, probing)

	case ast.ExprStructLiteral:
		return evalStructLiteral(ctx, sc, e, probing)

	case ast.ExprBinary:
		return evalBinary(ctx, sc, e, probing)

	case ast.ExprUnary:
		return evalUnary(ctx, sc, e, probing)

	case ast.ExprCast:
		return evalCast(ctx, sc, e, probing)

	case ast.ExprMember:
		return evalMember(ctx, sc, e, probing)

	case ast.ExprIndex:
		return evalIndex(ctx, sc, e, probing)

	case ast.ExprCall:
		return evalCall(ctx, sc, e, probing)

	case ast.ExprBake:
		return evalBake(ctx, sc, e, probing)

	case ast.ExprPointerType:
		return evalPointerType(ctx, sc, e, probing)

	case ast.ExprArrayType:
		return evalArrayType(ctx, sc, e, probing)

	case ast.ExprStaticArrayType:
		return evalStaticArrayType(ctx, sc, e, probing)

	case ast.ExprFunctionType:
		return evalFunctionType(ctx, sc, e, probing)

	case ast.ExprSizeOf:
		return evalSizeOf(ctx, sc, e, probing)

	case ast.ExprTypeOf:
		return evalTypeOf(ctx, sc, e, probing)
	}
	return ctx.fail(e.Range, probing, fmt.Sprintf("unhandled expression kind %d", e.Kind))
}

// fail reports a diagnostic at r (unless probing) and returns a Failed EvalResult. The
// failure itself is never suppressed by probing — only whether it reaches the user.
func (ctx *Context) fail(r util.Range, probing bool, msg string) EvalResult {
	err := fmt.Errorf("%s", msg)
	if !probing {
		ctx.Diags.Report(r, msg, nil)
	}
	return Failed(err)
}

// lookupAndEnsure resolves name in sc, translating scope.Lookup's result into an EvalResult.
// A not-yet-resolved local declaration already has a job spawned for it at scope-population
// time (see process.go's ProcessScope), so the common case is just a Waiting translation;
// ensureJobFor only covers declarations reached before ProcessScope ran over their scope
// (struct/union member scopes populated lazily during declaration resolution itself).
func lookupAndEnsure(ctx *Context, sc *scope.Scope, name string, r ast.Range, probing bool) EvalResult {
	res := scope.Lookup(sc, ctx.Global, name)
	switch {
	case res.Waiting:
		return WaitingOn(res.WaitOn)
	case res.Const != nil:
		return Resolved(res.Const.Type, *res.Const)
	case res.Local != nil:
		d := res.Local
		if d.Resolved {
			return Resolved(d.Type, d.Value)
		}
		if d.HasJob {
			return WaitingOn(d.JobID)
		}
		return WaitingOn(ensureJobFor(ctx, d))
	}
	return ctx.fail(r, probing, fmt.Sprintf("Cannot find named reference %s", name))
}

func evalStringLiteral(e *ast.Expr) EvalResult {
	bytes := []byte(e.StrVal)
	u8 := types.NewInt(8, false)
	elems := make([]types.Value, len(bytes))
	for i1, b := range bytes {
		elems[i1] = types.Value{Type: u8, Int: int64(b)}
	}
	t := types.NewStaticArray(u8, len(bytes))
	return Resolved(t, types.Value{Elems: elems})
}
