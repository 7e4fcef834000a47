// decl_polyfunction.go implements polymorphic function instantiation: a call spawning
// TypePolymorphicFunction is deduplicated against existing jobs by declaration identity +
// parent scope, then by element-wise equality of the polymorphic parameters (type equality
// for a `$`-determiner, structural value equality for a `constant`-marked parameter) — this is
// what makes `id(i32, 7)` and a later `id(i32, 9)` collapse onto the same instantiation.
package sema

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/job"
	"corec/internal/scope"
	"corec/internal/types"
	"corec/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// PolyFunctionInstPayload is the job.TypePolymorphicFunction job payload: a concrete call
// site's argument types/values against a polymorphic function declaration.
type PolyFunctionInstPayload struct {
	Decl        *ast.Declaration
	ParentScope *scope.Scope
	ArgTypes    []*types.Type
	ArgValues   []types.Value
	Range       util.Range
}

// ---------------------
// ----- functions -----
// ---------------------

// FindOrSpawnPolyFunction returns the index of an existing TypePolymorphicFunction job whose
// poly/constant parameters match argTypes/argValues, or spawns a new one.
func FindOrSpawnPolyFunction(ctx *Context, decl *ast.Declaration, parentScope *scope.Scope, argTypes []*types.Type, argValues []types.Value, r util.Range) int {
	for i1 := 0; i1 < ctx.Sched.Len(); i1++ {
		jb := ctx.Sched.Job(i1)
		if jb.Kind != job.TypePolymorphicFunction {
			continue
		}
		pp, ok := jb.Payload.(PolyFunctionInstPayload)
		if !ok || pp.Decl != decl || pp.ParentScope != parentScope {
			continue
		}
		if polyArgsMatch(decl, pp.ArgTypes, pp.ArgValues, argTypes, argValues) {
			return i1
		}
	}
	return ctx.Sched.Add(job.TypePolymorphicFunction, PolyFunctionInstPayload{
		Decl: decl, ParentScope: parentScope, ArgTypes: argTypes, ArgValues: argValues, Range: r,
	}, r)
}

func polyArgsMatch(decl *ast.Declaration, aTypes []*types.Type, aVals []types.Value, bTypes []*types.Type, bVals []types.Value) bool {
	for i1, p := range decl.Params {
		switch {
		case p.Poly:
			if !types.Equal(aTypes[i1], bTypes[i1]) {
				return false
			}
		case p.Constant:
			if !types.ValueEqual(aVals[i1], bVals[i1]) {
				return false
			}
		}
	}
	return true
}

// DispatchPolyFunctionInst is package compile's handler for job.TypePolymorphicFunction. It
// builds a synthetic signature scope binding each polymorphic determiner as a scope-local
// type constant, resolves the remaining parameter and return types under that scope, coerces
// constant-marked arguments, and processes the body scope exactly as DispatchFunctionDecl
// does for an ordinary function.
func DispatchPolyFunctionInst(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(PolyFunctionInstPayload)
	n := p.Decl

	if len(n.Params) != len(p.ArgTypes) {
		e := fmt.Errorf("%s: expected %d arguments, got %d", n.Name, len(n.Params), len(p.ArgTypes))
		ctx.Diags.Report(p.Range, e.Error(), nil)
		return job.Err(e)
	}

	sig := scope.New(p.ParentScope.Path, p.ParentScope, false)
	for i1, prm := range n.Params {
		if prm.Poly {
			sig.SetConst(prm.Name, types.Value{Type: &types.Type{Kind: types.TypeType}, TypeVal: p.ArgTypes[i1]})
		}
	}

	// Only genuine runtime parameters occupy a slot in the resulting function type: a
	// `$`-determiner or a `constant`-marked parameter is resolved entirely at instantiation
	// time into sig above and never reaches the calling convention.
	params := make([]*types.Type, 0, len(n.Params))
	for i1, prm := range n.Params {
		if prm.Poly {
			continue
		}
		r := EvaluateConstant(ctx, sig, prm.Type, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		declType := r.Value.TypeVal
		if err := types.CanCoerce(p.ArgTypes[i1], declType, ctx.Global.Arch); err != nil {
			e := fmt.Errorf("argument %s: %s", prm.Name, err.Error())
			ctx.Diags.Report(p.Range, e.Error(), nil)
			return job.Err(e)
		}
		if prm.Constant {
			sig.SetConst(prm.Name, coerceConstantValue(p.ArgValues[i1], p.ArgTypes[i1], declType, ctx.Global.Arch))
			continue
		}
		params = append(params, declType)
	}

	var ret *types.Type
	if n.ReturnType != nil {
		r := EvaluateConstant(ctx, sig, n.ReturnType, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		ret = r.Value.TypeVal
	} else {
		ret = &types.Type{Kind: types.Void}
	}

	tags, err := processTags(n.Tags, true)
	if err != nil {
		ctx.Diags.Report(n.Range, err.Error(), nil)
		return job.Err(err)
	}

	// Every distinct instantiation needs its own runtime-static name: two calls to the same
	// polymorphic declaration with different determiners must not collide on n.Name, the way
	// two calls with the *same* determiners are meant to collapse onto one job. The job's own
	// index is already the stable per-instantiation identity FindOrSpawnPolyFunction computed,
	// so it doubles as the mangled suffix.
	instName := fmt.Sprintf("%s$%d", n.Name, j.ID)

	fnType := &types.Type{Kind: types.Function, Params: params, Return: ret, CallConv: tags.CallConv, FuncDecl: n}
	bodyScope := scope.New(p.ParentScope.Path, sig, false)
	fnVal := types.Value{Type: fnType, Name: instName, FuncDecl: n, BodyScope: bodyScope, NoMangle: tags.NoMangle, Libraries: tags.Libraries}
	ProcessScope(ctx, bodyScope, n.Body)

	instDecl := &scope.Decl{Name: instName, Node: n, DefScope: sig, Type: fnType, Value: fnVal, Resolved: true}
	ctx.Sched.Add(job.TypeFunctionBody, FunctionBodyPayload{Decl: instDecl}, n.Range)

	return job.Ok(TypedValue{Type: fnType, Value: fnVal})
}
