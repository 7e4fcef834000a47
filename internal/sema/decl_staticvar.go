// decl_staticvar.go implements static-variable resolution : resolve the
// declared type (if any) and the initialiser (if any), coerce one to the other or default
// the initialiser's type, and recognise extern/no_mangle tags. An external variable must have
// no initialiser.
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

// StaticVarDeclPayload is the job.TypeStaticVariable job payload.
type StaticVarDeclPayload struct {
	Decl *scope.Decl
}

// ---------------------
// ----- functions -----
// ---------------------

func spawnStaticVarDecl(ctx *Context, decl *scope.Decl) int {
	return ctx.Sched.Add(job.TypeStaticVariable, StaticVarDeclPayload{Decl: decl}, decl.Node.Range)
}

// DispatchStaticVarDecl is package compile's handler for job.TypeStaticVariable.
func DispatchStaticVarDecl(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(StaticVarDeclPayload)
	n := p.Decl.Node
	defScope := p.Decl.DefScope

	tags, err := processTags(n.Tags, false)
	if err != nil {
		ctx.Diags.Report(n.Range, err.Error(), nil)
		return job.Err(err)
	}
	if tags.Extern && n.Init != nil {
		e := fmt.Errorf("static variable %s: extern variable may not have an initialiser", n.Name)
		ctx.Diags.Report(n.Range, e.Error(), nil)
		return job.Err(e)
	}

	var declared *types.Type
	if n.VarType != nil {
		r := EvaluateConstant(ctx, defScope, n.VarType, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		if r.Type.Kind != types.TypeType {
			e := fmt.Errorf("static variable %s: declared type expression is not a type", n.Name)
			ctx.Diags.Report(n.Range, e.Error(), nil)
			return job.Err(e)
		}
		declared = r.Value.TypeVal
	}

	var initVal *types.Value
	var initType *types.Type
	if n.Init != nil {
		r := EvaluateConstant(ctx, defScope, n.Init, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		initType, initVal = r.Type, &r.Value
	}

	finalType, err := finalizeStaticVarType(declared, initType, ctx.Global.Arch)
	if err != nil {
		ctx.Diags.Report(n.Range, err.Error(), nil)
		return job.Err(err)
	}
	var image []byte
	if initVal != nil {
		coerced := coerceConstantValue(*initVal, initType, finalType, ctx.Global.Arch)
		image, err = types.WriteImage(coerced, finalType, ctx.Global.Arch)
		if err != nil {
			ctx.Diags.Report(n.Range, err.Error(), nil)
			return job.Err(err)
		}
	}

	p.Decl.Type = finalType
	val := types.Value{Type: finalType, Extern: tags.Extern, NoMangle: tags.NoMangle, Libraries: tags.Libraries}
	if initVal != nil {
		val = coerceConstantValue(*initVal, initType, finalType, ctx.Global.Arch)
		val.Extern, val.NoMangle, val.Libraries = tags.Extern, tags.NoMangle, tags.Libraries
	}
	p.Decl.Value = val
	p.Decl.Resolved = true
	p.Decl.IsStaticVar = true

	return job.Ok(StaticVarResult{Type: finalType, Value: val, InitImage: image, Tags: tags})
}

// StaticVarResult is the Done value of a TypeStaticVariable job: package statics reads
// InitImage directly rather than re-deriving it from Value, since a struct/array constant's
// byte layout is endianness- and member-offset-sensitive.
type StaticVarResult struct {
	Type      *types.Type
	Value     types.Value
	InitImage []byte // nil when there is no initialiser.
	Tags      funcTags
}

// finalizeStaticVarType reconciles a declared type and/or an initialiser's type: one must
// coerce to the other, or — if only the initialiser is present and it is undetermined — the
// initialiser's type is defaulted.
func finalizeStaticVarType(declared, initType *types.Type, arch types.ArchSizes) (*types.Type, error) {
	switch {
	case declared != nil && initType != nil:
		if err := types.CanCoerce(initType, declared, arch); err != nil {
			return nil, fmt.Errorf("initialiser: %s", err.Error())
		}
		return declared, nil
	case declared != nil:
		return declared, nil
	case initType != nil:
		if d, ok := types.Default(initType, arch); ok {
			return d, nil
		}
		return nil, fmt.Errorf("initialiser has no default concrete type")
	}
	return nil, fmt.Errorf("static variable has neither a declared type nor an initialiser")
}
