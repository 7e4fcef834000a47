package compile

import (
	"strings"
	"testing"

	"corec/internal/ast"
	"corec/internal/ir"
	"corec/internal/scope"
	"corec/internal/statics"
	"corec/internal/types"
	"corec/internal/util"
)

func testArch() types.ArchSizes {
	return types.ArchSizes{AddressSize: 64, DefaultIntegerSize: 32, DefaultFloatSize: 64, BooleanSize: 8}
}

func newTestDriver() (*Driver, *util.Diagnostics) {
	diags := util.NewDiagnostics(8)
	global := scope.NewGlobalInfo(testArch(), "linux", "x86_64")
	return NewDriver(global, diags), diags
}

func identExpr(name string) *ast.Expr { return &ast.Expr{Kind: ast.ExprIdent, Name: name} }
func intExpr(v int64) *ast.Expr       { return &ast.Expr{Kind: ast.ExprInt, IntVal: v} }
func boolExpr(v bool) *ast.Expr       { return &ast.Expr{Kind: ast.ExprBool, BoolVal: v} }

// TestTrivialReturn checks that `main ::  -> i32 { return 0; }` compiles to
// exactly one function runtime-static named main, whose body is a Const followed by a
// Return.
func TestTrivialReturn(t *testing.T) {
	main := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: intExpr(0)}},
	}
	stmts := []ast.Stmt{{Kind: ast.StmtDecl, Decl: main}}

	d, diags := newTestDriver()
	root := scope.New("t.corelang", nil, true)
	program, err := d.CompileRoot(root, stmts)
	if err != nil {
		t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
	}
	if program.EntryName != "main" {
		t.Fatalf("EntryName = %q, want main", program.EntryName)
	}

	var fns []statics.RuntimeStatic
	for _, s := range program.Statics {
		if s.Kind == statics.StaticFunction {
			fns = append(fns, s)
		}
	}
	if len(fns) != 1 || fns[0].Name != "main" {
		t.Fatalf("functions = %+v, want exactly one named main", fns)
	}

	code := fns[0].Function.Code
	if len(code) != 2 || code[0].Kind != ir.Const || code[1].Kind != ir.Return {
		t.Fatalf("code = %+v, want [Const, Return]", code)
	}
	if code[0].Imm.Int != 0 {
		t.Fatalf("returned constant = %d, want 0", code[0].Imm.Int)
	}
}

// TestStaticIfGatesDeclaration checks that a true static-if makes x visible to
// main; a false one leaves main unable to find it.
func TestStaticIfGatesDeclaration(t *testing.T) {
	build := func(cond bool) []ast.Stmt {
		xDecl := &ast.Declaration{Kind: ast.DeclConstant, Name: "x", Value: intExpr(42)}
		staticIf := &ast.Declaration{
			Kind: ast.DeclStaticIf, Name: "#if", Cond: boolExpr(cond),
			Then: []ast.Stmt{{Kind: ast.StmtDecl, Decl: xDecl}},
		}
		main := &ast.Declaration{
			Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
			Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: identExpr("x")}},
		}
		return []ast.Stmt{{Kind: ast.StmtDecl, Decl: staticIf}, {Kind: ast.StmtDecl, Decl: main}}
	}

	t.Run("true", func(t *testing.T) {
		d, diags := newTestDriver()
		root := scope.New("t.corelang", nil, true)
		program, err := d.CompileRoot(root, build(true))
		if err != nil {
			t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
		}
		var main *statics.RuntimeStatic
		for i1 := range program.Statics {
			if program.Statics[i1].Kind == statics.StaticFunction && program.Statics[i1].Name == "main" {
				main = &program.Statics[i1]
			}
		}
		if main == nil {
			t.Fatal("main not found in runtime statics")
		}
		var foundReturn42 bool
		for _, instr := range main.Function.Code {
			if instr.Kind == ir.Const && instr.Imm.Int == 42 {
				foundReturn42 = true
			}
		}
		if !foundReturn42 {
			t.Errorf("main body = %+v, want a Const(42)", main.Function.Code)
		}
	})

	t.Run("false", func(t *testing.T) {
		d, diags := newTestDriver()
		root := scope.New("t.corelang", nil, true)
		_, err := d.CompileRoot(root, build(false))
		if err == nil {
			t.Fatal("CompileRoot() error = nil, want a failure (x unresolved)")
		}
		found := false
		for _, diag := range diags.All() {
			if strings.Contains(diag.Message, "x") {
				found = true
			}
		}
		if !found {
			t.Errorf("diagnostics = %v, want one naming x", diags.All())
		}
	})
}

// TestPolymorphicFunctionDedup checks that two call sites instantiating
// id($T, v) with the same T collapse onto one TypePolymorphicFunction job, so exactly one
// id$T=i32 body is generated regardless of how many call sites reference it.
func TestPolymorphicFunctionDedup(t *testing.T) {
	id := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "id",
		Params:     []ast.Param{{Name: "T", Poly: true}, {Name: "v", Type: identExpr("T")}},
		ReturnType: identExpr("T"), HasBody: true,
		Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: identExpr("v")}},
	}
	call := func(v int64) *ast.Expr {
		return &ast.Expr{Kind: ast.ExprCall, Target: identExpr("id"), Operands: []*ast.Expr{identExpr("i32"), intExpr(v)}}
	}
	main := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: &ast.Expr{
			Kind: ast.ExprBinary, Op: "+", Operands: []*ast.Expr{call(7), call(9)},
		}}},
	}
	stmts := []ast.Stmt{{Kind: ast.StmtDecl, Decl: id}, {Kind: ast.StmtDecl, Decl: main}}

	d, diags := newTestDriver()
	root := scope.New("t.corelang", nil, true)
	program, err := d.CompileRoot(root, stmts)
	if err != nil {
		t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
	}

	var instantiations int
	for _, s := range program.Statics {
		if s.Kind == statics.StaticFunction && strings.HasPrefix(s.Name, "id") {
			instantiations++
		}
	}
	if instantiations != 1 {
		t.Fatalf("id instantiations = %d, want exactly 1", instantiations)
	}
}

// TestPolymorphicFunctionDistinctDeterminers checks that id(i32, ...) and id(f64, ...)
// bind different types to the `$T` determiner and must therefore produce two distinct
// instantiations, not collapse onto one: deduplication compares the
// determiner's bound type, not the meta-type of the type-expression that supplied it.
func TestPolymorphicFunctionDistinctDeterminers(t *testing.T) {
	id := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "id",
		Params:     []ast.Param{{Name: "T", Poly: true}, {Name: "v", Type: identExpr("T")}},
		ReturnType: identExpr("T"), HasBody: true,
		Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: identExpr("v")}},
	}
	callWith := func(t string, v int64) *ast.Expr {
		return &ast.Expr{Kind: ast.ExprCall, Target: identExpr("id"), Operands: []*ast.Expr{identExpr(t), intExpr(v)}}
	}
	main := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{
			{Kind: ast.StmtExpr, Value: callWith("i32", 7)},
			{Kind: ast.StmtExpr, Value: callWith("f64", 9)},
			{Kind: ast.StmtReturn, Value: intExpr(0)},
		},
	}
	stmts := []ast.Stmt{{Kind: ast.StmtDecl, Decl: id}, {Kind: ast.StmtDecl, Decl: main}}

	d, diags := newTestDriver()
	root := scope.New("t.corelang", nil, true)
	program, err := d.CompileRoot(root, stmts)
	if err != nil {
		t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
	}

	var names []string
	for _, s := range program.Statics {
		if s.Kind == statics.StaticFunction && strings.HasPrefix(s.Name, "id") {
			names = append(names, s.Name)
		}
	}
	if len(names) != 2 {
		t.Fatalf("id instantiations = %v, want exactly 2 (one per determiner)", names)
	}
	if names[0] == names[1] {
		t.Fatalf("instantiations for distinct determiners share a name: %v", names)
	}
}

// TestUndeterminedStructCoercesToArray checks that a struct literal
// {pointer = ..., length = ...} passed where a []u8 parameter is expected lowers to a
// two-word local slot written by Store instructions, rather than failing with "expression
// cannot be evaluated at runtime"; the same literal with a non-integer length member is
// rejected during coercion.
func TestUndeterminedStructCoercesToArray(t *testing.T) {
	arrayOfU8 := &ast.Expr{Kind: ast.ExprArrayType, TypeExpr: identExpr("u8")}
	staticArrayOfU8 := &ast.Expr{Kind: ast.ExprStaticArrayType, TypeExpr: identExpr("u8"), Operands: []*ast.Expr{intExpr(8)}}
	bufPointer := &ast.Expr{Kind: ast.ExprMember, Target: identExpr("buf"), Name: "pointer"}

	take := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "take",
		Params:     []ast.Param{{Name: "b", Type: arrayOfU8}},
		ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: intExpr(0)}},
	}

	build := func(length *ast.Expr) []ast.Stmt {
		lit := &ast.Expr{Kind: ast.ExprStructLiteral, Members: []ast.StructLiteralMember{
			{Name: "pointer", Value: bufPointer},
			{Name: "length", Value: length},
		}}
		main := &ast.Declaration{
			Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
			Body: []ast.Stmt{
				{Kind: ast.StmtVarDecl, Name: "buf", DeclType: staticArrayOfU8},
				{Kind: ast.StmtExpr, Value: &ast.Expr{Kind: ast.ExprCall, Target: identExpr("take"), Operands: []*ast.Expr{lit}}},
				{Kind: ast.StmtReturn, Value: intExpr(0)},
			},
		}
		return []ast.Stmt{{Kind: ast.StmtDecl, Decl: take}, {Kind: ast.StmtDecl, Decl: main}}
	}

	t.Run("valid", func(t *testing.T) {
		d, diags := newTestDriver()
		root := scope.New("t.corelang", nil, true)
		program, err := d.CompileRoot(root, build(intExpr(5)))
		if err != nil {
			t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
		}
		var main *statics.RuntimeStatic
		for i1 := range program.Statics {
			if program.Statics[i1].Kind == statics.StaticFunction && program.Statics[i1].Name == "main" {
				main = &program.Statics[i1]
			}
		}
		if main == nil {
			t.Fatal("main not found in runtime statics")
		}
		var stores int
		for _, instr := range main.Function.Code {
			if instr.Kind == ir.Store {
				stores++
			}
		}
		if stores != 2 {
			t.Fatalf("code = %+v, want exactly 2 Store instructions (pointer, length)", main.Function.Code)
		}
	})

	t.Run("bad length member", func(t *testing.T) {
		d, diags := newTestDriver()
		root := scope.New("t.corelang", nil, true)
		_, err := d.CompileRoot(root, build(&ast.Expr{Kind: ast.ExprFloat, FloatVal: 5.5}))
		if err == nil {
			t.Fatal("CompileRoot() error = nil, want a coercion failure for a float length member")
		}
		if len(diags.All()) == 0 {
			t.Fatal("want at least one diagnostic reported")
		}
	})
}

// TestSizeOfPolymorphicStruct checks that size_of(Pair(u32)) folds to the
// instantiated struct's size (two 4-byte members, 8 bytes total) and the aggregate itself
// produces no runtime static (only functions/variables are collected as runtime statics).
func TestSizeOfPolymorphicStruct(t *testing.T) {
	pair := &ast.Declaration{
		Kind:       ast.DeclStruct,
		Name:       "Pair",
		PolyParams: []ast.Param{{Name: "T", Type: &ast.Expr{Kind: ast.ExprIdent, Name: "type"}}},
		Members: []ast.Member{
			{Name: "a", Type: identExpr("T")},
			{Name: "b", Type: identExpr("T")},
		},
	}
	parameterised := &ast.Expr{Kind: ast.ExprCall, Target: identExpr("Pair"), Operands: []*ast.Expr{identExpr("u32")}}
	main := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{{Kind: ast.StmtReturn, Value: &ast.Expr{Kind: ast.ExprSizeOf, TypeExpr: parameterised}}},
	}
	stmts := []ast.Stmt{{Kind: ast.StmtDecl, Decl: pair}, {Kind: ast.StmtDecl, Decl: main}}

	d, diags := newTestDriver()
	root := scope.New("t.corelang", nil, true)
	program, err := d.CompileRoot(root, stmts)
	if err != nil {
		t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
	}

	var main2 *statics.RuntimeStatic
	for i1 := range program.Statics {
		if program.Statics[i1].Kind == statics.StaticFunction && program.Statics[i1].Name == "main" {
			main2 = &program.Statics[i1]
		}
		if strings.HasPrefix(program.Statics[i1].Name, "Pair") {
			t.Errorf("Pair must not appear as a runtime static, got %+v", program.Statics[i1])
		}
	}
	if main2 == nil {
		t.Fatal("main not found in runtime statics")
	}
	var found bool
	for _, instr := range main2.Function.Code {
		if instr.Kind == ir.Const && instr.Imm.Int == 8 {
			found = true
		}
	}
	if !found {
		t.Fatalf("main body = %+v, want a Const(8)", main2.Function.Code)
	}
}

// TestBreakOutsideLoop checks that a break statement with no lexically
// enclosing loop reports "Not in a break-able scope" and generates no code for itself.
func TestBreakOutsideLoop(t *testing.T) {
	main := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{
			{Kind: ast.StmtIf, Cond: boolExpr(true), Then: []ast.Stmt{{Kind: ast.StmtBreak}}},
			{Kind: ast.StmtReturn, Value: intExpr(0)},
		},
	}
	stmts := []ast.Stmt{{Kind: ast.StmtDecl, Decl: main}}

	d, diags := newTestDriver()
	root := scope.New("t.corelang", nil, true)
	_, err := d.CompileRoot(root, stmts)
	if err == nil {
		t.Fatal("CompileRoot() error = nil, want a failure (break outside a loop)")
	}
	var found bool
	for _, diag := range diags.All() {
		if strings.Contains(diag.Message, "Not in a break-able scope") {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want one containing %q", diags.All(), "Not in a break-able scope")
	}
}

// TestForLoopIsInclusiveOfTo checks that `for i := 0, 3 { ... }` runs the body at i == 3 as
// well, not just 0..2: the loop-exit test must branch out once the index exceeds to, not
// once it reaches to.
func TestForLoopIsInclusiveOfTo(t *testing.T) {
	main := &ast.Declaration{
		Kind: ast.DeclFunction, Name: "main", ReturnType: identExpr("i32"), HasBody: true,
		Body: []ast.Stmt{
			{Kind: ast.StmtVarDecl, Name: "sum", Init: intExpr(0)},
			{
				Kind: ast.StmtFor, VarName: "i", From: intExpr(0), To: intExpr(3),
				Then: []ast.Stmt{
					{Kind: ast.StmtCompoundAssign, Target: identExpr("sum"), Op: "+", Value: identExpr("i")},
				},
			},
			{Kind: ast.StmtReturn, Value: identExpr("sum")},
		},
	}
	stmts := []ast.Stmt{{Kind: ast.StmtDecl, Decl: main}}

	d, diags := newTestDriver()
	root := scope.New("t.corelang", nil, true)
	program, err := d.CompileRoot(root, stmts)
	if err != nil {
		t.Fatalf("CompileRoot() error = %v (diags: %v)", err, diags.All())
	}

	var main2 *statics.RuntimeStatic
	for i1 := range program.Statics {
		if program.Statics[i1].Kind == statics.StaticFunction && program.Statics[i1].Name == "main" {
			main2 = &program.Statics[i1]
		}
	}
	if main2 == nil {
		t.Fatal("main not found in runtime statics")
	}

	code := main2.Function.Code
	var sawExclusiveCompare bool
	for i1, instr := range code {
		if instr.Kind == ir.BinOp && instr.Op == ">" {
			if i1+1 < len(code) && code[i1+1].Kind == ir.UnOp && code[i1+1].Op == "!" && code[i1+1].Src1 == instr.Dst {
				continue
			}
		}
		if instr.Kind == ir.BinOp && instr.Op == "<" {
			sawExclusiveCompare = true
		}
	}
	if sawExclusiveCompare {
		t.Fatalf("code = %+v, loop-exit test uses an exclusive `<` comparison against to", code)
	}

	var sawInclusiveCompare bool
	for i1, instr := range code {
		if instr.Kind == ir.BinOp && instr.Op == ">" && i1+1 < len(code) &&
			code[i1+1].Kind == ir.UnOp && code[i1+1].Op == "!" && code[i1+1].Src1 == instr.Dst {
			sawInclusiveCompare = true
		}
	}
	if !sawInclusiveCompare {
		t.Fatalf("code = %+v, want a `>` comparison against to negated before the loop-exit branch", code)
	}
}
