// stmt.go implements statement lowering for function bodies: expression
// statements, variable declarations, assignment/compound assignment, if/else-if/else, while,
// for, return, and break. break uses a stack of pending-jump lists — one per lexically
// enclosing loop — so a break nested inside an if inside a while patches to the innermost
// loop's exit label, not an outer one.
package ir

import (
	"corec/internal/ast"
	"corec/internal/sema"
	"corec/internal/types"
)

// ---------------------
// ----- functions -----
// ---------------------

func (g *generator) genBlock(stmts []ast.Stmt) {
	for i1 := range stmts {
		g.genStmt(&stmts[i1])
	}
}

func (g *generator) genStmt(st *ast.Stmt) {
	switch st.Kind {
	case ast.StmtExpr:
		g.genExpr(st.Value)

	case ast.StmtVarDecl:
		g.genVarDecl(st)

	case ast.StmtAssign:
		g.genAssign(st)

	case ast.StmtCompoundAssign:
		g.genCompoundAssign(st)

	case ast.StmtIf:
		g.genIf(st)

	case ast.StmtWhile:
		g.genWhile(st)

	case ast.StmtFor:
		g.genFor(st)

	case ast.StmtReturn:
		g.genReturn(st)

	case ast.StmtBreak:
		g.genBreak(st)

	case ast.StmtBlock:
		g.genBlock(st.Then)

	case ast.StmtDecl:
		// A declaration nested in a function body (a local constant, struct/static-if, ...)
		// was already registered and scheduled by ProcessScope when the body scope was
		// created (decl_function.go); nothing is lowered here. A static-if's taken branch only
		// contributes its declarations (through ProcessScope); no statement of it is lowered.
	}
}

func (g *generator) genVarDecl(st *ast.Stmt) {
	var declared *types.Type
	if st.DeclType != nil {
		r := sema.EvaluateConstant(g.ctx, g.scope, st.DeclType, false)
		if r.IsWaiting() {
			panic(waitSignal{r.WaitOn})
		}
		if !r.IsErr() {
			declared = r.Value.TypeVal
		}
	}

	var reg int
	var t *types.Type
	switch {
	case st.Init != nil && st.Init.Kind == ast.ExprStructLiteral && declared != nil:
		reg = g.genUndeterminedStructTo(st.Init, declared)
		t = declared
	case st.Init != nil:
		ir, it := g.genExpr(st.Init)
		switch {
		case declared != nil:
			reg = g.coerceReg(ir, it, declared)
			t = declared
		case it.IsUndetermined():
			def, ok := types.Default(it, g.ctx.Global.Arch)
			if !ok {
				g.fail(st.Range, "initialiser has no default concrete type")
				return
			}
			reg = g.coerceReg(ir, it, def)
			t = def
		default:
			reg, t = ir, it
		}
	case declared != nil:
		reg, t = g.newReg(), declared
	default:
		g.fail(st.Range, "variable %s has neither a declared type nor an initialiser", st.Name)
		return
	}

	d := g.scope.Declare(st.Name, &ast.Declaration{Kind: ast.DeclConstant, Name: st.Name, Range: st.Range})
	d.Type = t
	d.Resolved = true
	g.locals[d] = reg
}

func (g *generator) genAssign(st *ast.Stmt) {
	vr, vt := g.genExpr(st.Value)
	g.genStore(st.Target, vr, vt)
}

func (g *generator) genCompoundAssign(st *ast.Stmt) {
	cur, ct := g.genExpr(st.Target)
	rhs, rt := g.genExpr(st.Value)
	op, ok := sema.BinOpSymbol(st.Op)
	if !ok {
		g.fail(st.Range, "unknown compound-assignment operator %s", st.Op)
		return
	}
	resultType, ok := types.BinOpResult(op, ct, rt)
	if !ok {
		g.fail(st.Range, "operator %s is not legal between %s and %s", op, ct.Kind, rt.Kind)
		return
	}
	d := g.newReg()
	g.emit(Instruction{Kind: BinOp, Typ: resultType, Dst: d, Src1: cur, Src2: rhs, Op: st.Op})
	g.genStore(st.Target, d, resultType)
}

// genStore writes value (held in reg of type vt) to the lvalue expression target: a plain
// local-variable identifier rebinds its register; a member or index expression is lowered to
// its address and stored through.
func (g *generator) genStore(target *ast.Expr, reg int, vt *types.Type) {
	if target.Kind == ast.ExprIdent {
		if d, ok := g.lookupLocal(target.Name); ok {
			g.locals[d] = g.coerceReg(reg, vt, d.Type)
			return
		}
		g.fail(target.Range, "cannot assign to %s", target.Name)
		return
	}
	addr, elemType := g.genLValueAddr(target)
	if addr < 0 {
		return
	}
	g.emit(Instruction{Kind: Store, Typ: elemType, Src1: addr, Src2: g.coerceReg(reg, vt, elemType)})
}

// genLValueAddr lowers a member/index expression to the register holding its address, rather
// than its value (the Load that genMember/genIndex normally emit is skipped).
func (g *generator) genLValueAddr(e *ast.Expr) (int, *types.Type) {
	switch e.Kind {
	case ast.ExprMember:
		base, bt := g.genExpr(e.Target)
		for i1, m := range bt.Members {
			if m.Name == e.Name {
				off := types.MemberOffset(bt, i1, g.ctx.Global.Arch)
				d := g.newReg()
				g.emit(Instruction{Kind: MemberAddr, Typ: types.NewPointer(m.Type), Dst: d, Src1: base, Offset: off})
				return d, m.Type
			}
		}
		g.fail(e.Range, "%s has no member %s", bt.Kind, e.Name)
		return -1, nil
	case ast.ExprIndex:
		base, bt := g.genExpr(e.Target)
		idx, _ := g.genExpr(e.Operands[0])
		if bt.Kind != types.StaticArray && bt.Kind != types.Array {
			g.fail(e.Range, "cannot index a value of type %s", bt.Kind)
			return -1, nil
		}
		size := types.SizeOf(bt.Elem, g.ctx.Global.Arch)
		d := g.newReg()
		g.emit(Instruction{Kind: ArrayElemAddr, Typ: types.NewPointer(bt.Elem), Dst: d, Src1: base, Src2: idx, Size: size})
		return d, bt.Elem
	}
	g.fail(e.Range, "expression is not assignable")
	return -1, nil
}

func (g *generator) genIf(st *ast.Stmt) {
	endLabel := g.newLabel()

	g.genCondBranch(st.Cond, st.Then, endLabel)
	for _, ei := range st.ElseIfs {
		g.genCondBranch(ei.Cond, ei.Body, endLabel)
	}
	if st.Else != nil {
		g.genBlock(st.Else)
	}
	g.placeLabel(endLabel)
}

// genCondBranch lowers one `if`/`else if` arm: jump past body when cond is false, run body,
// then jump unconditionally to end.
func (g *generator) genCondBranch(cond *ast.Expr, body []ast.Stmt, end int) {
	c, ct := g.genExpr(cond)
	if ct.Kind != types.Bool {
		g.fail(cond.Range, "condition must be boolean, got %s", ct.Kind)
	}
	skip := g.newLabel()
	g.emit(Instruction{Kind: JumpIfFalse, Src1: c, Target: skip})
	g.genBlock(body)
	g.emit(Instruction{Kind: Jump, Target: end})
	g.placeLabel(skip)
}

func (g *generator) genWhile(st *ast.Stmt) {
	top := g.newLabel()
	exit := g.newLabel()
	g.placeLabel(top)

	c, ct := g.genExpr(st.Cond)
	if ct.Kind != types.Bool {
		g.fail(st.Cond.Range, "condition must be boolean, got %s", ct.Kind)
	}
	g.emit(Instruction{Kind: JumpIfFalse, Src1: c, Target: exit})

	g.breakTargets = append(g.breakTargets, nil)
	g.genBlock(st.Then)
	g.patchBreaks(exit)

	g.emit(Instruction{Kind: Jump, Target: top})
	g.placeLabel(exit)
}

func (g *generator) genFor(st *ast.Stmt) {
	from, ft := g.genExpr(st.From)
	to, tt := g.genExpr(st.To)
	if ft.IsUndetermined() {
		// An undetermined from takes to's type, or the default integer type when to is
		// undetermined as well.
		target := tt
		if target.IsUndetermined() {
			target, _ = types.Default(target, g.ctx.Global.Arch)
		}
		from = g.coerceReg(from, ft, target)
		ft = target
	}

	d := g.scope.Declare(st.VarName, &ast.Declaration{Kind: ast.DeclConstant, Name: st.VarName, Range: st.Range})
	d.Type = ft
	d.Resolved = true
	iv := g.newReg()
	g.emit(Instruction{Kind: Move, Typ: ft, Dst: iv, Src1: from})
	g.locals[d] = iv

	top := g.newLabel()
	exit := g.newLabel()
	g.placeLabel(top)

	// The range is inclusive of to: exit once index > to, so the iteration at index == to
	// still runs.
	past := g.newReg()
	g.emit(Instruction{Kind: BinOp, Typ: &types.Type{Kind: types.Bool}, Dst: past, Src1: g.locals[d], Src2: to, Op: ">"})
	cond := g.newReg()
	g.emit(Instruction{Kind: UnOp, Typ: &types.Type{Kind: types.Bool}, Dst: cond, Src1: past, Op: "!"})
	g.emit(Instruction{Kind: JumpIfFalse, Src1: cond, Target: exit})

	g.breakTargets = append(g.breakTargets, nil)
	g.genBlock(st.Then)
	g.patchBreaks(exit)

	one := g.emitConst(ft, types.Value{Int: 1})
	next := g.newReg()
	g.emit(Instruction{Kind: BinOp, Typ: ft, Dst: next, Src1: g.locals[d], Src2: one, Op: "+"})
	g.locals[d] = next

	g.emit(Instruction{Kind: Jump, Target: top})
	g.placeLabel(exit)
}

func (g *generator) genReturn(st *ast.Stmt) {
	if st.Value == nil {
		g.emit(Instruction{Kind: Return, Typ: &types.Type{Kind: types.Void}})
		return
	}
	r, _ := g.genExpr(st.Value)
	g.emit(Instruction{Kind: Return, Src1: r})
}

func (g *generator) genBreak(st *ast.Stmt) {
	if len(g.breakTargets) == 0 {
		g.fail(st.Range, "Not in a break-able scope")
		return
	}
	idx := g.emit(Instruction{Kind: Jump})
	top := len(g.breakTargets) - 1
	g.breakTargets[top] = append(g.breakTargets[top], idx)
}

// patchBreaks pops the innermost pending-break list and rewrites every collected Jump
// instruction's Target to exit, then discards the now-unneeded stack frame.
func (g *generator) patchBreaks(exit int) {
	top := len(g.breakTargets) - 1
	for _, idx := range g.breakTargets[top] {
		g.code[idx].Target = exit
	}
	g.breakTargets = g.breakTargets[:top]
}
