// Package sema implements the bidirectional constant-evaluation and declaration-resolution
// engine: the constant evaluator, the per-kind declaration resolver, and the static-if
// resolver. It is "bidirectional" in the sense that the same coercion and operator-legality
// rules in package types serve both this package's pure constant evaluation and package ir's
// runtime lowering; package ir calls back into EvaluateConstant to fold fully-constant
// sub-expressions before falling through to its own register-producing lowering, which keeps
// the dependency acyclic (ir depends on sema, not the reverse) while still sharing one rule
// set.
//
// Every exported entry point that can suspend returns an EvalResult rather than panicking or
// blocking: the job scheduler (package job) is the only suspension mechanism.
package sema

import (
	"corec/internal/job"
	"corec/internal/scope"
	"corec/internal/types"
	"corec/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Context bundles the process-wide state every sema operation needs: the scheduler it spawns
// further jobs on, the immutable global configuration, and the diagnostic sink.
type Context struct {
	Sched  *job.Scheduler
	Global *scope.GlobalInfo
	Diags  *util.Diagnostics

	// Root is the root file's top-level scope, recorded by compile's CompileRoot.
	Root *scope.Scope
}

// EvalResult is the outcome of evaluate-constant-expression : either a
// resolved {type, value} pair, a suspension on a not-yet-Done job, or an error that has
// already been reported to ctx.Diags.
type EvalResult struct {
	Type    *types.Type
	Value   types.Value
	Waiting bool
	WaitOn  int
	Err     error
}

// ---------------------
// ----- functions -----
// ---------------------

// Resolved constructs a successful EvalResult.
func Resolved(t *types.Type, v types.Value) EvalResult {
	v.Type = t
	return EvalResult{Type: t, Value: v}
}

// WaitingOn constructs an EvalResult that suspends on job id.
func WaitingOn(id int) EvalResult {
	return EvalResult{Waiting: true, WaitOn: id}
}

// Failed constructs an EvalResult carrying an already-reported error.
func Failed(err error) EvalResult {
	return EvalResult{Err: err}
}

// IsWaiting reports whether r suspends on a job.
func (r EvalResult) IsWaiting() bool { return r.Waiting }

// IsErr reports whether r carries a fatal error.
func (r EvalResult) IsErr() bool { return r.Err != nil }

// ToJobOutcome converts an EvalResult produced at the top of a job's dispatch function into
// the job.Outcome the scheduler expects.
func (r EvalResult) ToJobOutcome() job.Outcome {
	switch {
	case r.Err != nil:
		return job.Err(r.Err)
	case r.Waiting:
		return job.Wait(r.WaitOn)
	default:
		return job.Ok(TypedValue{Type: r.Type, Value: r.Value})
	}
}

// TypedValue is the {type, value} pair a declaration-resolution job produces as its Done
// value; each declaration's DispatchXxx also stores the pair on its originating scope.Decl.
type TypedValue struct {
	Type  *types.Type
	Value types.Value
}

// joinJob translates the state of an already-spawned job (found or newly created by a
// FindOrSpawn helper) into an EvalResult: a suspension while it is still Working/Waiting, or
// its unpacked TypedValue once Done. Every polymorphic-instantiation call site shares this,
// since spawning and joining are always two separate steps — the job may already have been
// Done by an earlier call site asking for the same instantiation.
func joinJob(ctx *Context, id int) EvalResult {
	j := ctx.Sched.Job(id)
	if j.State != job.Done {
		return WaitingOn(id)
	}
	tv := j.Value.(TypedValue)
	return Resolved(tv.Type, tv.Value)
}
