// eval_access.go implements member and index expression evaluation: arrays
// expose `length`/`pointer`; structs expose members by name; file-modules expose
// externally-visible declarations; indexing is bounds-checked against static arrays.
// `.pointer` on a constant-element array is rejected here in this (constant) evaluator even
// though package ir's runtime lowering accepts it as the address of the static constant's
// first element — this asymmetry between constant and runtime context is deliberate.
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

func evalMember(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	t := EvaluateConstant(ctx, sc, e.Target, probing)
	if t.IsWaiting() || t.IsErr() {
		return t
	}
	switch t.Type.Kind {
	case types.Array, types.StaticArray:
		switch e.Name {
		case "length":
			length := t.Type.Length
			if t.Type.Kind == types.Array {
				return Resolved(types.NewInt(ctx.Global.Arch.AddressSize, false), types.Value{Int: int64(t.Value.ArrLen)})
			}
			return Resolved(types.NewInt(ctx.Global.Arch.AddressSize, false), types.Value{Int: int64(length)})
		case "pointer":
			// Open Question 3: rejected in constant context ; package ir's
			// runtime lowering implements the accepted form.
			return ctx.fail(e.Range, probing, "cannot take the address of a constant array's elements in a constant expression")
		}
		return ctx.fail(e.Range, probing, fmt.Sprintf("array has no member %s", e.Name))

	case types.Struct, types.Union:
		for i1, m := range t.Type.Members {
			if m.Name == e.Name {
				return Resolved(m.Type, t.Value.Members[i1])
			}
		}
		return ctx.fail(e.Range, probing, fmt.Sprintf("struct has no member %s", e.Name))

	case types.FileModule:
		mod, _ := t.Value.ModuleScope.(*scope.Scope)
		if mod == nil {
			return ctx.fail(e.Range, probing, "module has no exported scope")
		}
		return lookupAndEnsure(ctx, mod, e.Name, e.Range, probing)
	}
	return ctx.fail(e.Range, probing, fmt.Sprintf("%s has no members", t.Type.Kind))
}

func evalIndex(ctx *Context, sc *scope.Scope, e *ast.Expr, probing bool) EvalResult {
	t := EvaluateConstant(ctx, sc, e.Target, probing)
	if t.IsWaiting() || t.IsErr() {
		return t
	}
	if t.Type.Kind != types.StaticArray {
		return ctx.fail(e.Range, probing, "cannot index a non-constant array in a constant expression")
	}
	idx := EvaluateConstant(ctx, sc, e.Operands[0], probing)
	if idx.IsWaiting() || idx.IsErr() {
		return idx
	}
	if !idx.Type.IsInteger() && idx.Type.Kind != types.UndeterminedInt {
		return ctx.fail(e.Range, probing, "array index must be an integer")
	}
	i1 := idx.Value.Int64()
	if i1 < 0 || i1 >= int64(len(t.Value.Elems)) {
		return ctx.fail(e.Range, probing, fmt.Sprintf("index %d out of bounds for array of length %d", i1, len(t.Value.Elems)))
	}
	return Resolved(t.Type.Elem, t.Value.Elems[i1])
}
