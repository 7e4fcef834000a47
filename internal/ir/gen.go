// gen.go implements generate-function: lowering one resolved function body into the flat
// Instruction list of instr.go. Any sub-expression that evaluate-constant-expression can
// fully fold is folded there first — package ir calls corec/internal/sema's EvaluateConstant
// before falling through to its own register-producing lowering, sharing one evaluator
// without an import cycle (sema must not import ir back): ir depends on sema, never the
// reverse.
package ir

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/scope"
	"corec/internal/sema"
	"corec/internal/types"
	"corec/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// InternedConstant is a static constant auto-named and produced as a side effect of
// generating a function body: string/array/struct literals used in a value position. Package
// statics collects these across every generated function alongside the explicit static
// variables/constants sema resolved.
type InternedConstant struct {
	Name  string
	Type  *types.Type
	Image []byte
}

// generator holds one function body's generation state. A fresh generator is created per
// GenerateFunction call; nothing here is shared across functions except the Namer, which
// must hand out globally-unique names across the whole program.
type generator struct {
	ctx   *sema.Context
	scope *scope.Scope

	numRegs  int
	code     []Instruction
	numLabels int

	locals map[*scope.Decl]int // local variable/parameter -> its register.

	namer   *util.Namer
	statics *[]InternedConstant

	// breakTargets is a stack of pending-jump-index lists, one per lexically enclosing loop;
	// a break statement appends the Jump instruction it just emitted to the innermost list,
	// and the loop's lowering patches every entry to the loop-exit label once known, so a
	// break nested inside an if inside a while patches to the innermost loop's exit, not an
	// outer one.
	breakTargets [][]int
}

// ---------------------
// ----- functions -----
// ---------------------

// NewNamer returns the Namer GenerateFunction needs for interning literal constants;
// package compile owns one Namer for the whole compilation so auto-generated names never
// collide across functions.
func NewNamer() *util.Namer {
	return util.NewNamer("L")
}

// WaitError is returned by GenerateFunction when lowering reached a sub-expression that is
// still Waiting on a scheduler job; package compile's TypeFunctionBody dispatch translates
// this into job.Wait(JobID) exactly as any other suspended job would.
type WaitError struct {
	JobID int
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("waiting on job %d", e.JobID)
}

// GenerateFunction lowers decl (whose Type/Value sema has already resolved to a concrete,
// body-bearing Function) into a Function IR body, using namer to name any interned literal
// constants. It returns the generated body plus every constant interned while doing so, or a
// *WaitError if lowering suspended. Lowering failures are reported to ctx.Diags only; they
// do not produce a non-nil err.
func GenerateFunction(ctx *sema.Context, decl *scope.Decl, namer *util.Namer) (fn *Function, consts []InternedConstant, err error) {
	defer func() {
		if r := recover(); r != nil {
			ws, ok := r.(waitSignal)
			if !ok {
				panic(r)
			}
			fn, consts, err = nil, nil, &WaitError{JobID: ws.jobID}
		}
	}()

	fnType := decl.Type
	fnVal := decl.Value
	n := fnVal.FuncDecl

	g := &generator{
		ctx:     ctx,
		scope:   fnVal.BodyScope.(*scope.Scope),
		locals:  make(map[*scope.Decl]int),
		namer:   namer,
		statics: &[]InternedConstant{},
	}

	// A `$`-determiner or `constant`-marked parameter never reaches the calling convention
	// : it was already bound as a scope-local constant when the signature was
	// resolved (DispatchFunctionDecl for an ordinary declaration never has one; a polymorphic
	// instantiation's synthetic signature scope already holds it — see DispatchPolyFunctionInst).
	// Only genuine runtime parameters get a register and a slot in fnType.Params below.
	params := make([]int, 0, len(n.Params))
	pi := 0
	for _, prm := range n.Params {
		if prm.Poly || prm.Constant {
			continue
		}
		r := g.newReg()
		d, _ := g.scope.Local(prm.Name)
		if d == nil {
			// Parameters are not processed by ProcessScope (they never appear as a
			// StmtDecl); synthesize the binding directly in the body scope.
			d = g.scope.Declare(prm.Name, &ast.Declaration{Kind: ast.DeclConstant, Name: prm.Name, Range: n.Range})
			d.Type = fnType.Params[pi]
			d.Resolved = true
		}
		g.locals[d] = r
		params = append(params, r)
		pi++
	}

	g.genBlock(n.Body)

	fn = &Function{
		Name:       fnVal.Name,
		Params:     params,
		ParamTypes: fnType.Params,
		Return:     fnType.Return,
		CallConv:   fnType.CallConv,
		NumRegs:    g.numRegs,
		Code:       g.code,
		NoMangle:   fnVal.NoMangle,
		Libraries:  fnVal.Libraries,
	}
	return fn, *g.statics, nil
}

func (g *generator) newReg() int {
	r := g.numRegs
	g.numRegs++
	return r
}

func (g *generator) emit(i Instruction) int {
	g.code = append(g.code, i)
	return len(g.code) - 1
}

// newLabel allocates a fresh label index (not yet placed) for forward/backward branches.
// Labels share no namespace with registers or instruction indices; a dedicated counter keeps
// them unique even across calls with no intervening register allocation or emission.
func (g *generator) newLabel() int {
	l := g.numLabels
	g.numLabels++
	return l
}

func (g *generator) placeLabel(l int) {
	g.emit(Instruction{Kind: Label, Target: l})
}

func (g *generator) fail(r util.Range, format string, args ...interface{}) {
	g.ctx.Diags.Report(r, fmt.Sprintf(format, args...), nil)
}
