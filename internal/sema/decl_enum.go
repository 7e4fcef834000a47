// decl_enum.go implements enum-definition resolution : resolve the backing
// integer type, then assign each named variant a concrete integer constant (auto-incrementing
// from 0, in declaration order — the source AST carries no explicit variant-value syntax in
// this module's expression grammar, so enum support covers the common case).
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

// EnumDeclPayload is the job.TypeEnumDefinition job payload.
type EnumDeclPayload struct {
	Decl *scope.Decl
}

// ---------------------
// ----- functions -----
// ---------------------

func spawnEnumDecl(ctx *Context, decl *scope.Decl) int {
	return ctx.Sched.Add(job.TypeEnumDefinition, EnumDeclPayload{Decl: decl}, decl.Node.Range)
}

// DispatchEnumDecl is package compile's handler for job.TypeEnumDefinition.
func DispatchEnumDecl(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(EnumDeclPayload)
	n := p.Decl.Node
	defScope := p.Decl.DefScope

	backing := types.NewInt(ctx.Global.Arch.DefaultIntegerSize, true)
	if n.BackingType != nil {
		r := EvaluateConstant(ctx, defScope, n.BackingType, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		if r.Type.Kind != types.TypeType || !r.Value.TypeVal.IsInteger() {
			e := fmt.Errorf("enum %s: backing type must be an integer type", n.Name)
			ctx.Diags.Report(n.Range, e.Error(), nil)
			return job.Err(e)
		}
		backing = r.Value.TypeVal
	}

	variants := make([]types.EnumVariant, len(n.Members))
	for i1, m := range n.Members {
		variants[i1] = types.EnumVariant{Name: m.Name, Value: int64(i1)}
	}
	et := &types.Type{Kind: types.Enum, Backing: backing, Variants: variants, Def: n}
	tv := types.Value{Type: &types.Type{Kind: types.TypeType}, TypeVal: et}
	p.Decl.Type = tv.Type
	p.Decl.Value = tv
	p.Decl.Resolved = true
	return job.Ok(TypedValue{Type: tv.Type, Value: tv})
}
