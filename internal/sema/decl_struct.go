// decl_struct.go implements struct/union definition resolution : if the
// definition carries parameters the resolved value is a not-yet-instantiated
// polymorphic-aggregate type; otherwise members are resolved in a scope parented on the
// defining scope, and member types must be runtime types.
package sema

import (
	"fmt"

	"corec/internal/job"
	"corec/internal/scope"
	"corec/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// AggregateDeclPayload is the job.TypeStructDefinition / job.TypeUnionDefinition payload.
type AggregateDeclPayload struct {
	Decl  *scope.Decl
	Union bool
}

// ---------------------
// ----- functions -----
// ---------------------

func spawnAggregateDecl(ctx *Context, decl *scope.Decl, union bool) int {
	kind := job.TypeStructDefinition
	if union {
		kind = job.TypeUnionDefinition
	}
	return ctx.Sched.Add(kind, AggregateDeclPayload{Decl: decl, Union: union}, decl.Node.Range)
}

// DispatchAggregateDecl is package compile's handler for job.TypeStructDefinition and
// job.TypeUnionDefinition.
func DispatchAggregateDecl(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(AggregateDeclPayload)
	n := p.Decl.Node
	defScope := p.Decl.DefScope

	if len(n.PolyParams) > 0 {
		paramTypes := make([]*types.Type, len(n.PolyParams))
		for i1, pp := range n.PolyParams {
			r := EvaluateConstant(ctx, defScope, pp.Type, false)
			if r.IsWaiting() {
				return job.Wait(r.WaitOn)
			}
			if r.IsErr() {
				return job.Err(r.Err)
			}
			paramTypes[i1] = r.Value.TypeVal
		}
		polyT := &types.Type{Kind: polyAggregateKind(p.Union), PolyDef: n, PolyParamTypes: paramTypes}
		tv := types.Value{Type: &types.Type{Kind: types.TypeType}, TypeVal: polyT, ParentScope: defScope}
		p.Decl.Type = tv.Type
		p.Decl.Value = tv
		p.Decl.Resolved = true
		return job.Ok(TypedValue{Type: tv.Type, Value: tv})
	}

	memberScope := scope.New(defScope.Path, defScope, false)
	members := make([]types.Member, len(n.Members))
	for i1, m := range n.Members {
		r := EvaluateConstant(ctx, memberScope, m.Type, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		if r.Type.Kind != types.TypeType {
			e := fmt.Errorf("member %s: expression is not a type", m.Name)
			ctx.Diags.Report(m.Range, e.Error(), nil)
			return job.Err(e)
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
	p.Decl.Type = tv.Type
	p.Decl.Value = tv
	p.Decl.Resolved = true
	return job.Ok(TypedValue{Type: tv.Type, Value: tv})
}

func polyAggregateKind(union bool) types.Kind {
	if union {
		return types.PolyUnion
	}
	return types.PolyStruct
}
