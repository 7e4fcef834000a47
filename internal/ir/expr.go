// expr.go implements expression lowering for function bodies. Every
// sub-expression is first offered to corec/internal/sema's EvaluateConstant in probing mode;
// a fold that succeeds becomes a single Const instruction, matching shared-
// evaluator requirement. Only once that probe fails (for instance on a function call result),
// or the expression reads a parameter or local variable (readsLocal), does this file's own
// register-producing recursion take over.
package ir

import (
	"corec/internal/ast"
	"corec/internal/job"
	"corec/internal/scope"
	"corec/internal/sema"
	"corec/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// waitSignal is panicked by genExpr/genStmt when a constant sub-expression is still Waiting
// on a scheduler job; the recover point lives in GenerateFunction (gen.go), which reports the
// suspension to the scheduler exactly as any other job would.
type waitSignal struct {
	jobID int
}

// ---------------------
// ----- functions -----
// ---------------------

// genExpr lowers e to a register holding its value, returning that register and e's type.
func (g *generator) genExpr(e *ast.Expr) (int, *types.Type) {
	if e.Kind == ast.ExprIdent {
		if d, ok := g.lookupLocal(e.Name); ok {
			return g.locals[d], d.Type
		}
	}

	r := sema.EvaluateConstant(g.ctx, g.scope, e, true)
	switch {
	case r.IsWaiting():
		panic(waitSignal{r.WaitOn})
	case !r.IsErr() && !g.readsLocal(e):
		return g.emitConst(r.Type, r.Value), r.Type
	}

	switch e.Kind {
	case ast.ExprBinary:
		return g.genBinary(e)
	case ast.ExprUnary:
		return g.genUnary(e)
	case ast.ExprCast:
		return g.genCast(e)
	case ast.ExprMember:
		return g.genMember(e)
	case ast.ExprIndex:
		return g.genIndex(e)
	case ast.ExprCall:
		return g.genCall(e)
	case ast.ExprIdent:
		// A name that failed the constant probe and isn't a lowering-known local is an
		// unresolved reference; EvaluateConstant already reported nothing (probing), so
		// surface the failure now, non-probing, to get a diagnostic.
		fallback := sema.EvaluateConstant(g.ctx, g.scope, e, false)
		if fallback.IsWaiting() {
			panic(waitSignal{fallback.WaitOn})
		}
		return -1, &types.Type{Kind: types.Invalid}
	}

	g.fail(e.Range, "expression cannot be evaluated at runtime")
	return -1, &types.Type{Kind: types.Invalid}
}

func (g *generator) lookupLocal(name string) (*scope.Decl, bool) {
	for sc := g.scope; sc != nil; sc = sc.Parent {
		if d, ok := sc.Local(name); ok {
			if _, isLocal := g.locals[d]; isLocal {
				return d, true
			}
			return nil, false
		}
	}
	return nil, false
}

// readsLocal reports whether e names a lowering-known local or parameter anywhere in its tree.
// Such a name resolves in the scope with a zero placeholder value, so a successful constant
// probe of e is not a real fold.
func (g *generator) readsLocal(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	if _, ok := g.lookupLocal(e.Name); ok && e.Kind == ast.ExprIdent {
		return true
	}
	found := g.readsLocal(e.Target) || g.readsLocal(e.TypeExpr)
	for _, o := range e.Operands {
		found = found || g.readsLocal(o)
	}
	for _, m := range e.Members {
		found = found || g.readsLocal(m.Value)
	}
	return found
}

func (g *generator) emitConst(t *types.Type, v types.Value) int {
	if needsInterning(t) {
		return g.internConst(t, v)
	}
	r := g.newReg()
	g.emit(Instruction{Kind: Const, Typ: t, Dst: r, Imm: v})
	return r
}

// needsInterning reports whether a constant of type t must be materialised as a named static
// rather than carried inline in a Const instruction's Imm payload : arrays and
// aggregates, whose representation is a memory image rather than a single scalar word.
func needsInterning(t *types.Type) bool {
	switch t.Kind {
	case types.StaticArray, types.Struct, types.Union:
		return true
	}
	return false
}

// internConst writes v's byte image and auto-names it a static constant, then loads its
// address into a fresh register via AddrOfStatic — exactly how a string/array/struct literal
// used in a value position is handled.
func (g *generator) internConst(t *types.Type, v types.Value) int {
	image, err := types.WriteImage(v, t, g.ctx.Global.Arch)
	if err != nil {
		g.fail(ast.Range{}, "failed to write constant image: %s", err.Error())
		return g.newReg()
	}
	name := g.namer.Next()
	*g.statics = append(*g.statics, InternedConstant{Name: name, Type: t, Image: image})
	r := g.newReg()
	g.emit(Instruction{Kind: AddrOfStatic, Typ: types.NewPointer(t), Dst: r, Sym: name})
	return r
}

func (g *generator) genBinary(e *ast.Expr) (int, *types.Type) {
	l, lt := g.genExpr(e.Operands[0])
	rr, rt := g.genExpr(e.Operands[1])
	// Both operands are already evaluated here, so && and || on runtime booleans do not
	// short-circuit: they lower to a single BinOp like the bitwise operators.
	op, ok := sema.BinOpSymbol(e.Op)
	if !ok {
		g.fail(e.Range, "unknown binary operator %s", e.Op)
		return -1, &types.Type{Kind: types.Invalid}
	}
	resultType, ok := types.BinOpResult(op, lt, rt)
	if !ok {
		g.fail(e.Range, "operator %s is not legal between %s and %s", op, lt.Kind, rt.Kind)
		return -1, &types.Type{Kind: types.Invalid}
	}
	d := g.newReg()
	g.emit(Instruction{Kind: BinOp, Typ: resultType, Dst: d, Src1: l, Src2: rr, Op: e.Op})
	return d, resultType
}

func (g *generator) genUnary(e *ast.Expr) (int, *types.Type) {
	s, st := g.genExpr(e.Operands[0])
	op, ok := sema.UnaryOpSymbol(e.Op)
	if !ok {
		g.fail(e.Range, "unknown unary operator %s", e.Op)
		return -1, &types.Type{Kind: types.Invalid}
	}
	resultType, ok := types.UnaryOpResult(op, st)
	if !ok {
		g.fail(e.Range, "operator %s is not legal on %s", e.Op, st.Kind)
		return -1, &types.Type{Kind: types.Invalid}
	}
	d := g.newReg()
	g.emit(Instruction{Kind: UnOp, Typ: resultType, Dst: d, Src1: s, Op: e.Op})
	return d, resultType
}

func (g *generator) genCast(e *ast.Expr) (int, *types.Type) {
	tr := sema.EvaluateConstant(g.ctx, g.scope, e.TypeExpr, false)
	if tr.IsWaiting() {
		panic(waitSignal{tr.WaitOn})
	}
	if tr.IsErr() {
		return -1, &types.Type{Kind: types.Invalid}
	}
	target := tr.Value.TypeVal
	s, st := g.genExpr(e.Target)
	if _, err := types.CanCast(st, target, g.ctx.Global.Arch); err != nil {
		g.fail(e.Range, "%s", err.Error())
		return -1, &types.Type{Kind: types.Invalid}
	}
	d := g.newReg()
	g.emit(Instruction{Kind: Cast, Typ: target, Dst: d, Src1: s})
	return d, target
}

func (g *generator) genMember(e *ast.Expr) (int, *types.Type) {
	base, bt := g.genExpr(e.Target)
	switch bt.Kind {
	case types.Array, types.StaticArray:
		switch e.Name {
		case "length":
			d := g.newReg()
			usize := types.NewInt(g.ctx.Global.Arch.AddressSize, false)
			g.emit(Instruction{Kind: ArrayLen, Typ: usize, Dst: d, Src1: base})
			return d, usize
		case "pointer":
			// Accepted here in runtime context, unlike in constant context — this yields
			// the address of a static constant array's first element.
			d := g.newReg()
			ptrType := types.NewPointer(bt.Elem)
			g.emit(Instruction{Kind: Move, Typ: ptrType, Dst: d, Src1: base})
			return d, ptrType
		}
	case types.Struct, types.Union:
		for i1, m := range bt.Members {
			if m.Name == e.Name {
				off := types.MemberOffset(bt, i1, g.ctx.Global.Arch)
				d := g.newReg()
				g.emit(Instruction{Kind: MemberAddr, Typ: types.NewPointer(m.Type), Dst: d, Src1: base, Offset: off})
				ld := g.newReg()
				g.emit(Instruction{Kind: Load, Typ: m.Type, Dst: ld, Src1: d})
				return ld, m.Type
			}
		}
	}
	g.fail(e.Range, "%s has no member %s", bt.Kind, e.Name)
	return -1, &types.Type{Kind: types.Invalid}
}

func (g *generator) genIndex(e *ast.Expr) (int, *types.Type) {
	base, bt := g.genExpr(e.Target)
	idx, _ := g.genExpr(e.Operands[0])
	var elem *types.Type
	var ptrReg int
	switch bt.Kind {
	case types.StaticArray, types.Array:
		elem = bt.Elem
		size := types.SizeOf(elem, g.ctx.Global.Arch)
		d := g.newReg()
		g.emit(Instruction{Kind: ArrayElemAddr, Typ: types.NewPointer(elem), Dst: d, Src1: base, Src2: idx, Size: size})
		ptrReg = d
	default:
		g.fail(e.Range, "cannot index a value of type %s", bt.Kind)
		return -1, &types.Type{Kind: types.Invalid}
	}
	ld := g.newReg()
	g.emit(Instruction{Kind: Load, Typ: elem, Dst: ld, Src1: ptrReg})
	return ld, elem
}

func (g *generator) genCall(e *ast.Expr) (int, *types.Type) {
	if e.Target.Kind == ast.ExprIdent {
		if _, isLocal := g.lookupLocal(e.Target.Name); !isLocal {
			// Not a runtime local (a real function-pointer variable would be): resolve the
			// callee the same way the constant evaluator resolves any other name reference,
			// which correctly suspends on an as-yet-unresolved declaration.
			r := sema.EvaluateConstant(g.ctx, g.scope, e.Target, false)
			if r.IsWaiting() {
				panic(waitSignal{r.WaitOn})
			}
			if !r.IsErr() && r.Type.Kind == types.Function {
				return g.genDirectCall(e, r.Type, r.Value.Name)
			}
			if !r.IsErr() && r.Type.Kind == types.PolyFunction {
				return g.genPolyCall(e, r)
			}
			if !r.IsErr() {
				g.fail(e.Range, "%s is not callable", e.Target.Name)
				return -1, &types.Type{Kind: types.Invalid}
			}
		}
	}
	fr, ft := g.genExpr(e.Target)
	if ft.Kind != types.Function {
		g.fail(e.Range, "call target is not a function")
		return -1, &types.Type{Kind: types.Invalid}
	}
	args := g.genArgs(e, ft)
	var d int
	if ft.Return.Kind != types.Void {
		d = g.newReg()
	} else {
		d = -1
	}
	g.emit(Instruction{Kind: CallIndirect, Typ: ft.Return, Dst: d, Src1: fr, Args: args})
	return d, ft.Return
}

// genPolyCall lowers a direct call to a polymorphic function: every declared `$`-determiner
// argument is evaluated as a constant type expression, every
// `constant`-marked argument as a constant value expression, and every ordinary argument as a
// register-producing runtime expression — mirroring sema's evalBake, but feeding the runtime
// registers straight into the eventual Call instead of discarding them.
func (g *generator) genPolyCall(e *ast.Expr, callee sema.EvalResult) (int, *types.Type) {
	n := callee.Value.FuncDecl
	if len(e.Operands) != len(n.Params) {
		g.fail(e.Range, "%s: expected %d arguments, got %d", n.Name, len(n.Params), len(e.Operands))
		return -1, &types.Type{Kind: types.Invalid}
	}

	argTypes := make([]*types.Type, len(e.Operands))
	argValues := make([]types.Value, len(e.Operands))
	runtimeArgs := make([]int, 0, len(e.Operands))
	runtimeArgTypes := make([]*types.Type, 0, len(e.Operands))
	for i1, prm := range n.Params {
		opnd := e.Operands[i1]
		switch {
		case prm.Poly:
			r := sema.EvaluateConstant(g.ctx, g.scope, opnd, false)
			if r.IsWaiting() {
				panic(waitSignal{r.WaitOn})
			}
			if r.IsErr() || r.Type.Kind != types.TypeType {
				g.fail(opnd.Range, "argument %d: expected a type", i1+1)
				return -1, &types.Type{Kind: types.Invalid}
			}
			argTypes[i1] = r.Value.TypeVal
		case prm.Constant:
			r := sema.EvaluateConstant(g.ctx, g.scope, opnd, false)
			if r.IsWaiting() {
				panic(waitSignal{r.WaitOn})
			}
			if r.IsErr() {
				return -1, &types.Type{Kind: types.Invalid}
			}
			argTypes[i1] = r.Type
			argValues[i1] = r.Value
		default:
			reg, t := g.genExpr(opnd)
			argTypes[i1] = t
			runtimeArgs = append(runtimeArgs, reg)
			runtimeArgTypes = append(runtimeArgTypes, t)
		}
	}

	parentScope, _ := callee.Value.ParentScope.(*scope.Scope)
	id := sema.FindOrSpawnPolyFunction(g.ctx, n, parentScope, argTypes, argValues, e.Range)
	jb := g.ctx.Sched.Job(id)
	if jb.State != job.Done {
		panic(waitSignal{id})
	}
	tv := jb.Value.(sema.TypedValue)
	fnType, fnVal := tv.Type, tv.Value

	if len(runtimeArgs) != len(fnType.Params) {
		g.fail(e.Range, "%s: expected %d runtime arguments, got %d", n.Name, len(fnType.Params), len(runtimeArgs))
		return -1, &types.Type{Kind: types.Invalid}
	}
	for i1 := range runtimeArgs {
		runtimeArgs[i1] = g.coerceReg(runtimeArgs[i1], runtimeArgTypes[i1], fnType.Params[i1])
	}

	var d int
	if fnType.Return.Kind != types.Void {
		d = g.newReg()
	} else {
		d = -1
	}
	g.emit(Instruction{Kind: Call, Typ: fnType.Return, Dst: d, Sym: fnVal.Name, Args: runtimeArgs})
	return d, fnType.Return
}

func (g *generator) genDirectCall(e *ast.Expr, ft *types.Type, name string) (int, *types.Type) {
	args := g.genArgs(e, ft)
	var d int
	if ft.Return.Kind != types.Void {
		d = g.newReg()
	} else {
		d = -1
	}
	g.emit(Instruction{Kind: Call, Typ: ft.Return, Dst: d, Sym: name, Args: args})
	return d, ft.Return
}

func (g *generator) genArgs(e *ast.Expr, ft *types.Type) []int {
	if len(e.Operands) != len(ft.Params) {
		g.fail(e.Range, "expected %d arguments, got %d", len(ft.Params), len(e.Operands))
		return nil
	}
	args := make([]int, len(e.Operands))
	for i1, opnd := range e.Operands {
		if opnd.Kind == ast.ExprStructLiteral {
			args[i1] = g.genUndeterminedStructTo(opnd, ft.Params[i1])
			continue
		}
		r, t := g.genExpr(opnd)
		args[i1] = g.coerceReg(r, t, ft.Params[i1])
	}
	return args
}

// genUndeterminedStructTo lowers a struct-literal expression e directly into a fresh local
// slot of the concrete type target, writing each named member into its offset: this is how
// `{pointer = &buf, length = 5}` passed to a `[]u8` parameter becomes a two-word slot whose
// address is what actually gets passed,
// rather than ever materialising as a register holding an UndeterminedStruct value. target's
// own member types drive coercion, so a literal member of the wrong kind (e.g. `length = 5.5`)
// fails exactly where coerceReg would fail for any other assignment.
func (g *generator) genUndeterminedStructTo(e *ast.Expr, target *types.Type) int {
	slot := g.newReg()
	usize := types.NewInt(g.ctx.Global.Arch.AddressSize, false)
	ptrSize := g.ctx.Global.Arch.AddressSize / 8
	for _, lm := range e.Members {
		var mt *types.Type
		off := -1
		switch target.Kind {
		case types.Array, types.StaticArray:
			switch lm.Name {
			case "pointer":
				mt, off = types.NewPointer(target.Elem), 0
			case "length":
				mt, off = usize, ptrSize
			}
		default:
			for i1, m := range target.Members {
				if m.Name == lm.Name {
					mt = m.Type
					off = types.MemberOffset(target, i1, g.ctx.Global.Arch)
					break
				}
			}
		}
		if off < 0 {
			g.fail(e.Range, "%s has no member %s", target.Kind, lm.Name)
			continue
		}
		vr, vt := g.genExpr(lm.Value)
		vr = g.coerceReg(vr, vt, mt)
		addr := g.newReg()
		g.emit(Instruction{Kind: MemberAddr, Typ: types.NewPointer(mt), Dst: addr, Src1: slot, Offset: off})
		g.emit(Instruction{Kind: Store, Typ: mt, Src1: addr, Src2: vr})
	}
	return slot
}

// coerceReg emits a Cast from a register's actual type to target when the two differ, per
// the same coercion rules package types exposes to the constant evaluator (
// "shared coercion/operator-legality rules").
func (g *generator) coerceReg(r int, from, target *types.Type) int {
	if types.Equal(from, target) {
		return r
	}
	if err := types.CanCoerce(from, target, g.ctx.Global.Arch); err != nil {
		g.fail(ast.Range{}, "%s", err.Error())
		return r
	}
	d := g.newReg()
	g.emit(Instruction{Kind: Cast, Typ: target, Dst: d, Src1: r})
	return d
}
