// staticif.go implements static-if resolution: evaluate the condition; if
// true, process the branch's statements as if inlined into the enclosing scope; if false, the
// branch's declarations stay invisible. Until the condition resolves, any lookup that might
// match a name in the branch must suspend — package scope's PendingStaticIf bookkeeping
// (scope/pending.go) is what makes that possible without the declaration resolver needing to
// special-case static-ifs itself.
package sema

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/job"
	"corec/internal/scope"
	"corec/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// StaticIfPayload is the job.TypeStaticIf job payload.
type StaticIfPayload struct {
	Decl  *ast.Declaration
	Scope *scope.Scope
}

// ---------------------
// ----- functions -----
// ---------------------

func spawnStaticIf(ctx *Context, sc *scope.Scope, d *ast.Declaration) int {
	id := ctx.Sched.Add(job.TypeStaticIf, StaticIfPayload{Decl: d, Scope: sc}, d.Range)
	names := append(namesDeclaredBy(d.Then), namesDeclaredBy(d.Else)...)
	sc.AddPendingStaticIf(id, names)
	return id
}

// DispatchStaticIf is package compile's handler for job.TypeStaticIf.
func DispatchStaticIf(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(StaticIfPayload)
	r := EvaluateConstant(ctx, p.Scope, p.Decl.Cond, false)
	if r.IsWaiting() {
		return job.Wait(r.WaitOn)
	}
	if r.IsErr() {
		return job.Err(r.Err)
	}
	if r.Type.Kind != types.Bool {
		e := fmt.Errorf("static-if condition must be boolean, got %s", r.Type.Kind)
		ctx.Diags.Report(p.Decl.Range, e.Error(), nil)
		return job.Err(e)
	}

	p.Scope.ResolvePendingStaticIf(j.ID)
	if r.Value.Bool {
		ProcessScope(ctx, p.Scope, p.Decl.Then)
	} else {
		ProcessScope(ctx, p.Scope, p.Decl.Else)
	}
	return job.Ok(r.Value.Bool)
}
