// Package compile wires together the three packages the compiler is split across (job, sema,
// ir) into the single master Dispatch function the scheduler actually runs: it owns the
// job.Kind switch, and is the one place allowed to import both
// sema and ir, since neither of those may import the other directly (sema must not depend on
// ir; ir depends on sema one way only). This is the one file that wires the front end, IR
// generation, and (eventually) a backend together.
package compile

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/ir"
	"corec/internal/job"
	"corec/internal/scope"
	"corec/internal/sema"
	"corec/internal/statics"
	"corec/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Driver owns the process-wide state a whole compilation needs beyond what sema.Context
// already bundles: the literal-interning Namer (shared across every function body, so two
// functions never collide on an auto-generated constant name) and the RuntimeStatic
// collector.
type Driver struct {
	Ctx       *sema.Context
	namer     *util.Namer
	collector *statics.Collector
}

// ---------------------
// ----- functions -----
// ---------------------

// NewDriver constructs a Driver with a fresh scheduler wired to its own master dispatch. The
// root scope is registered on the Context later, by CompileRoot.
func NewDriver(global *scope.GlobalInfo, diags *util.Diagnostics) *Driver {
	d := &Driver{
		namer:     ir.NewNamer(),
		collector: statics.NewCollector(),
	}
	ctx := &sema.Context{Global: global, Diags: diags}
	ctx.Sched = job.NewScheduler(func(s *job.Scheduler, j *job.Job) job.Outcome {
		return d.dispatch(j)
	})
	d.Ctx = ctx
	return d
}

// CompileRoot registers root's top-level statements ( ProcessScope) as the
// program's entry scope, drives the scheduler to a fixed point, and — if that succeeds —
// resolves the entry point and returns the finished Program.
func (d *Driver) CompileRoot(root *scope.Scope, stmts []ast.Stmt) (*statics.Program, error) {
	d.Ctx.Root = root
	sema.ProcessScope(d.Ctx, root, stmts)

	if err := d.Ctx.Sched.Run(); err != nil {
		if cde, ok := err.(*job.CircularDependencyError); ok {
			for _, j := range cde.Jobs {
				d.Ctx.Diags.Report(j.Range, fmt.Sprintf("%s did not resolve", j.Kind), cde.CauseFor(j))
			}
			return nil, fmt.Errorf("%d error(s) generated", d.Ctx.Diags.Len())
		}
		return nil, err
	}
	if d.Ctx.Diags.Len() > 0 {
		return nil, fmt.Errorf("%d error(s) generated", d.Ctx.Diags.Len())
	}
	d.collectStatics()
	return d.collector.Finish(root, d.Ctx.Diags)
}

// dispatch is the job.Dispatch function driving the whole compilation: every job.Kind sema
// defines is interpreted by the matching sema.DispatchXxx, except TypeFunctionBody, which
// package ir alone knows how to lower.
func (d *Driver) dispatch(j *job.Job) job.Outcome {
	switch j.Kind {
	case job.TypeFunctionDeclaration:
		return sema.DispatchFunctionDecl(d.Ctx, j)
	case job.TypePolymorphicFunction:
		return sema.DispatchPolyFunctionInst(d.Ctx, j)
	case job.TypeConstantDefinition:
		return sema.DispatchConstantDecl(d.Ctx, j)
	case job.TypeStructDefinition, job.TypeUnionDefinition:
		return sema.DispatchAggregateDecl(d.Ctx, j)
	case job.TypePolymorphicStruct, job.TypePolymorphicUnion:
		return sema.DispatchPolyAggregateInst(d.Ctx, j)
	case job.TypeEnumDefinition:
		return sema.DispatchEnumDecl(d.Ctx, j)
	case job.TypeStaticVariable:
		return d.dispatchStaticVariable(j)
	case job.TypeStaticIf:
		return sema.DispatchStaticIf(d.Ctx, j)
	case job.TypeFunctionBody:
		return d.dispatchFunctionBody(j)
	}
	return job.Err(fmt.Errorf("unhandled job kind %s", j.Kind))
}

// dispatchStaticVariable delegates to sema's resolver; collectStatics gathers the resulting
// StaticVarResult once the whole run is Done (its job.Value is set by the scheduler itself,
// after this returns, so it cannot be harvested here).
func (d *Driver) dispatchStaticVariable(j *job.Job) job.Outcome {
	return sema.DispatchStaticVarDecl(d.Ctx, j)
}

// collectStatics walks every finished job after a successful Run and records the static
// variables into the collector; function bodies are recorded as they complete, in
// dispatchFunctionBody, since generating one can itself spawn further polymorphic-
// instantiation jobs whose completion order collectStatics would otherwise have to
// re-derive.
func (d *Driver) collectStatics() {
	for i1 := 0; i1 < d.Ctx.Sched.Len(); i1++ {
		j := d.Ctx.Sched.Job(i1)
		if j.Kind != job.TypeStaticVariable {
			continue
		}
		p := j.Payload.(sema.StaticVarDeclPayload)
		res := j.Value.(sema.StaticVarResult)
		d.collector.AddVariable(p.Decl.Name, res.Type, res.InitImage, res.Tags.Extern, res.Tags.NoMangle, res.Tags.Libraries)
	}
}

// dispatchFunctionBody is package compile's handler for job.TypeFunctionBody: it invokes
// ir.GenerateFunction and, on success, records the produced Function (and any constants
// interned while generating it) with the collector before reporting the job Done.
func (d *Driver) dispatchFunctionBody(j *job.Job) job.Outcome {
	p := j.Payload.(sema.FunctionBodyPayload)
	fn, consts, err := ir.GenerateFunction(d.Ctx, p.Decl, d.namer)
	if err != nil {
		if we, ok := err.(*ir.WaitError); ok {
			return job.Wait(we.JobID)
		}
		return job.Err(err)
	}
	d.collector.AddFunction(p.Decl.Name, fn, p.Decl.Value.Extern, p.Decl.Value.NoMangle, p.Decl.Value.Libraries, consts)
	return job.Ok(struct{}{})
}
