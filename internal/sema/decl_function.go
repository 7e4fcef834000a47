// decl_function.go implements function-declaration resolution: tag
// processing (extern/no_mangle/call_conv), signature typing, and — for a body-bearing,
// non-extern function — spawning the dependent TypeFunctionBody job once the signature is
// Done. Body generation is a distinct job from signature resolution, scheduled only after
// the signature job reaches Done.
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

// FunctionDeclPayload is the job.TypeFunctionDeclaration job payload.
type FunctionDeclPayload struct {
	Decl *scope.Decl
}

// FunctionBodyPayload is the job.TypeFunctionBody job payload, spawned once the owning
// function's signature resolves. Package compile's master dispatch routes this kind to
// package ir's GenerateFunction, since sema must not import ir (see sema.go doc comment).
type FunctionBodyPayload struct {
	Decl *scope.Decl // Decl.Type / Decl.Value now hold the resolved signature + constant.
}

// ---------------------
// ----- functions -----
// ---------------------

func spawnFunctionDecl(ctx *Context, decl *scope.Decl) int {
	return ctx.Sched.Add(job.TypeFunctionDeclaration, FunctionDeclPayload{Decl: decl}, decl.Node.Range)
}

// DispatchFunctionDecl is package compile's handler for job.TypeFunctionDeclaration.
func DispatchFunctionDecl(ctx *Context, j *job.Job) job.Outcome {
	p := j.Payload.(FunctionDeclPayload)
	n := p.Decl.Node
	defScope := p.Decl.DefScope

	if isPolyFunctionDecl(n) {
		// A $-prefixed or constant-marked parameter means this declaration resolves to a
		// polymorphic-function constant with no body scope created yet; parameter/return
		// types cannot be typed until a call site supplies the determiners.
		tags, err := processTags(n.Tags, true)
		if err != nil {
			ctx.Diags.Report(n.Range, err.Error(), nil)
			return job.Err(err)
		}
		polyType := &types.Type{Kind: types.PolyFunction, FuncDecl: n, ParentScope: defScope}
		polyVal := types.Value{Type: polyType, FuncDecl: n, ParentScope: defScope, Extern: tags.Extern, NoMangle: tags.NoMangle}
		p.Decl.Type = polyType
		p.Decl.Value = polyVal
		p.Decl.Resolved = true
		return job.Ok(TypedValue{Type: polyType, Value: polyVal})
	}

	tags, err := processTags(n.Tags, false)
	if err != nil {
		ctx.Diags.Report(n.Range, err.Error(), nil)
		return job.Err(err)
	}
	if tags.Extern && n.HasBody {
		e := fmt.Errorf("function %s: extern function may not have a body", n.Name)
		ctx.Diags.Report(n.Range, e.Error(), nil)
		return job.Err(e)
	}
	if tags.Extern && tags.NoMangle {
		e := fmt.Errorf("function %s: extern may not be combined with no_mangle", n.Name)
		ctx.Diags.Report(n.Range, e.Error(), nil)
		return job.Err(e)
	}

	params := make([]*types.Type, len(n.Params))
	for i1, prm := range n.Params {
		r := EvaluateConstant(ctx, defScope, prm.Type, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		if r.Type.Kind != types.TypeType {
			e := fmt.Errorf("parameter %s: expression is not a type", prm.Name)
			ctx.Diags.Report(prm.Range, e.Error(), nil)
			return job.Err(e)
		}
		params[i1] = r.Value.TypeVal
	}
	var ret *types.Type
	if n.ReturnType != nil {
		r := EvaluateConstant(ctx, defScope, n.ReturnType, false)
		if r.IsWaiting() {
			return job.Wait(r.WaitOn)
		}
		if r.IsErr() {
			return job.Err(r.Err)
		}
		if r.Type.Kind != types.TypeType {
			e := fmt.Errorf("function %s: return expression is not a type", n.Name)
			ctx.Diags.Report(n.Range, e.Error(), nil)
			return job.Err(e)
		}
		ret = r.Value.TypeVal
	} else {
		ret = &types.Type{Kind: types.Void}
	}

	fnType := &types.Type{Kind: types.Function, Params: params, Return: ret, CallConv: tags.CallConv, FuncDecl: n}

	if !tags.Extern && !n.HasBody {
		// Neither extern nor a body: resolves to a function-type value, a type rather than
		// a callable function.
		p.Decl.Type = &types.Type{Kind: types.TypeType}
		p.Decl.Value = types.Value{Type: p.Decl.Type, TypeVal: fnType}
		p.Decl.Resolved = true
		return job.Ok(TypedValue{Type: p.Decl.Type, Value: p.Decl.Value})
	}

	fnVal := types.Value{
		Type:      fnType,
		Name:      n.Name,
		FuncDecl:  n,
		Extern:    tags.Extern,
		NoMangle:  tags.NoMangle,
		Libraries: tags.Libraries,
	}
	if n.HasBody {
		bodyScope := scope.New(defScope.Path, defScope, false)
		fnVal.BodyScope = bodyScope
		ProcessScope(ctx, bodyScope, n.Body)
	}
	p.Decl.Type = fnType
	p.Decl.Value = fnVal
	p.Decl.Resolved = true

	if n.HasBody {
		ctx.Sched.Add(job.TypeFunctionBody, FunctionBodyPayload{Decl: p.Decl}, n.Range)
	}
	return job.Ok(TypedValue{Type: fnType, Value: fnVal})
}

// funcTags is the decoded result of processing a declaration's tag list for functions and
// static variables.
type funcTags struct {
	Extern    bool
	NoMangle  bool
	CallConv  string
	Libraries []string
}

// processTags applies the recognised declaration tags: extern, no_mangle, call_conv. Unknown
// tag names are errors; forPolyFunc additionally rejects call_conv, since a calling
// convention is only meaningful once a function is a concrete, emittable signature — a
// polymorphic function's body is still generic at the point its tags are processed.
func processTags(tags []ast.Tag, forPolyFunc bool) (funcTags, error) {
	out := funcTags{CallConv: "default"}
	seen := map[string]bool{}
	for _, t := range tags {
		if seen[t.Name] {
			return out, fmt.Errorf("tag %s specified more than once", t.Name)
		}
		seen[t.Name] = true
		switch t.Name {
		case "extern":
			out.Extern = true
			for _, p := range t.Params {
				if p.Kind == ast.ExprString {
					out.Libraries = append(out.Libraries, p.StrVal)
				} else if p.Kind == ast.ExprArrayLiteral {
					for _, el := range p.Operands {
						if el.Kind == ast.ExprString {
							out.Libraries = append(out.Libraries, el.StrVal)
						}
					}
				}
			}
		case "no_mangle":
			out.NoMangle = true
		case "call_conv":
			if forPolyFunc {
				return out, fmt.Errorf("call_conv may not be applied to a polymorphic function declaration")
			}
			if len(t.Params) != 1 || t.Params[0].Kind != ast.ExprString {
				return out, fmt.Errorf("call_conv requires exactly one string parameter")
			}
			cc := t.Params[0].StrVal
			if cc != "default" && cc != "stdcall" {
				return out, fmt.Errorf("call_conv: unrecognised calling convention %q", cc)
			}
			out.CallConv = cc
		default:
			return out, fmt.Errorf("unknown tag %s", t.Name)
		}
	}
	if out.Extern && out.NoMangle {
		return out, fmt.Errorf("extern may not be combined with no_mangle")
	}
	return out, nil
}
