// decl_polyaggregate.go implements polymorphic struct/union instantiation, the "parameterise"
// call form (e.g. `Pair(u32)`): deduplicated the same way as polymorphic
// function instantiation, by definition identity plus element-wise type equality of the
// supplied parameters, so that `size_of(Pair(u32))` reuses an earlier instantiation rather
// than spawning a duplicate job.
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

// PolyAggregateInstPayload is the job.TypePolymorphicStruct / job.TypePolymorphicUnion
// payload.
type PolyAggregateInstPayload struct {
	Decl        *ast.Declaration
	ParentScope *scope.Scope
	ParamTypes  []*types.Type
	Union       bool
	Range       util.Range
}

// ---------------------
// ----- functions -----
// ---------------------

// FindOrSpawnPolyAggregate returns the index of an existing instantiation job matching decl
// and paramTypes, or spawns a new one.
func FindOrSpawnPolyAggregate(ctx *Context, decl *ast.Declaration, parentScope *scope.Scope, paramTypes []*types.Type, union bool, r util.Range) int {
	kind := job.TypePolymorphicStruct
	if union {
		kind = job.TypePolymorphicUnion
	}
	for i1 := 0; i1 < ctx.Sched.Len(); i1++ {
		jb := ctx.Sched.Job(i1)
		if jb.Kind != kind {
			continue
		}
		pp, ok := jb.Payload.(PolyAggregateInstPayload)
		if !ok || pp.Decl != decl || pp.ParentScope != parentScope {
			continue
		}
		if typeSliceEqualLocal(pp.ParamTypes, paramTypes) {
			return i1
		}
	}
	return ctx.Sched.Add(kind, PolyAggregateInstPayload{
		Decl: decl, ParentScope: parentScope, ParamTypes: paramTypes, Union: union, Range: r,
	}, r)
}

func typeSliceEqualLocal(a, b []*types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i1 := range a {
		if !types.Equal(a[i1], b[i1]) {
			return false
		}
	}
	return true
}

// DispatchPolyAggregateInst is package compile's handler for job.TypePolymorphicStruct and
// job.TypePolymorphicUnion.
func DispatchPolyAggregateInst(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(PolyAggregateInstPayload)
	n := p.Decl

	if len(n.PolyParams) != len(p.ParamTypes) {
		e := fmt.Errorf("%s: expected %d type parameters, got %d", n.Name, len(n.PolyParams), len(p.ParamTypes))
		ctx.Diags.Report(p.Range, e.Error(), nil)
		return job.Err(e)
	}

	sig := scope.New(p.ParentScope.Path, p.ParentScope, false)
	for i1, pp := range n.PolyParams {
		sig.SetConst(pp.Name, types.Value{Type: &types.Type{Kind: types.TypeType}, TypeVal: p.ParamTypes[i1]})
	}

	members := make([]types.Member, len(n.Members))
	for i1, m := range n.Members {
		r := EvaluateConstant(ctx, sig, m.Type, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		if !types.IsRuntimeType(r.Value.TypeVal) {
			e := fmt.Errorf("member %s: %s is not a runtime type", m.Name, r.Value.TypeVal.Kind)
			ctx.Diags.Report(m.Range, e.Error(), nil)
			return job.Err(e)
		}
		members[i1] = types.Member{Name: m.Name, Type: r.Value.TypeVal}
	}

	st := &types.Type{Kind: types.Struct, Members: members, IsUnion: p.Union, Def: n}
	tv := types.Value{Type: &types.Type{Kind: types.TypeType}, TypeVal: st}
	return job.Ok(TypedValue{Type: tv.Type, Value: tv})
}
