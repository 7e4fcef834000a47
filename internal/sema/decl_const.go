// decl_const.go implements constant-definition resolution : evaluate the
// right-hand-side expression; the result is the definition's resolved value verbatim (no
// defaulting — that is deferred to whatever context consumes the constant, matching
// invariant that undetermined values default only on coercion).
package sema

import (
	"corec/internal/job"
	"corec/internal/scope"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ConstantDeclPayload is the job.TypeConstantDefinition job payload.
type ConstantDeclPayload struct {
	Decl *scope.Decl
}

// ---------------------
// ----- functions -----
// ---------------------

func spawnConstantDecl(ctx *Context, decl *scope.Decl) int {
	return ctx.Sched.Add(job.TypeConstantDefinition, ConstantDeclPayload{Decl: decl}, decl.Node.Range)
}

// DispatchConstantDecl is package compile's handler for job.TypeConstantDefinition.
func DispatchConstantDecl(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(ConstantDeclPayload)
	n := p.Decl.Node
	r := EvaluateConstant(ctx, p.Decl.DefScope, n.Value, false)
	if r.IsWaiting() {
		return job.Wait(r.WaitOn)
	}
	if r.IsErr() {
		return job.Err(r.Err)
	}
	p.Decl.Type = r.Type
	p.Decl.Value = r.Value
	p.Decl.Resolved = true
	return job.Ok(TypedValue{Type: r.Type, Value: r.Value})
}
