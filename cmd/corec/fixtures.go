// fixtures.go stands in for a parser that does not exist yet: a small table of hand-built
// ast.File trees, each one the AST a real lexer/parser would have produced for one of a
// handful of concrete end-to-end scenarios. A real build wires a parser's output here
// instead; this module only ever consumes the ast package's shapes, never produces them from
// source text.
package main

import "corec/internal/ast"

// fixtures maps a scenario name (what -src names) to the ast.File a parser would have
// produced for it.
var fixtures = map[string]*ast.File{
	"trivial-return": trivialReturnFixture(),
	"static-if":       staticIfFixture(true),
	"static-if-false": staticIfFixture(false),
	"poly-dedup":      polyDedupFixture(),
}

// trivialReturnFixture builds `main ::  -> i32 { return 0; }`.
func trivialReturnFixture() *ast.File {
	main := &ast.Declaration{
		Kind:       ast.DeclFunction,
		Name:       "main",
		ReturnType: identExpr("i32"),
		HasBody:    true,
		Body: []ast.Stmt{
			{Kind: ast.StmtReturn, Value: intExpr(0)},
		},
	}
	return &ast.File{Path: "trivial-return.corelang", Stmts: []ast.Stmt{
		{Kind: ast.StmtDecl, Decl: main},
	}}
}

// staticIfFixture builds:
//
//	#if <cond> { x :: 42; }
//	main ::  -> i32 { return x; }
//
// With cond == false, compilation is expected to fail with "Cannot find named reference x".
func staticIfFixture(cond bool) *ast.File {
	xDecl := &ast.Declaration{Kind: ast.DeclConstant, Name: "x", Value: intExpr(42)}
	staticIf := &ast.Declaration{
		Kind: ast.DeclStaticIf,
		Name: "#if",
		Cond: boolExpr(cond),
		Then: []ast.Stmt{{Kind: ast.StmtDecl, Decl: xDecl}},
	}
	main := &ast.Declaration{
		Kind:       ast.DeclFunction,
		Name:       "main",
		ReturnType: identExpr("i32"),
		HasBody:    true,
		Body: []ast.Stmt{
			{Kind: ast.StmtReturn, Value: identExpr("x")},
		},
	}
	return &ast.File{Path: "static-if.corelang", Stmts: []ast.Stmt{
		{Kind: ast.StmtDecl, Decl: staticIf},
		{Kind: ast.StmtDecl, Decl: main},
	}}
}

// polyDedupFixture builds:
//
//	id :: ($T: type, v: T) -> T { return v; }
//	main ::  -> i32 { return id(i32, 7) + id(i32, 9); }
//
// Both call sites share the determiner i32 and collapse onto a single
// TypePolymorphicFunction instantiation.
func polyDedupFixture() *ast.File {
	id := &ast.Declaration{
		Kind: ast.DeclFunction,
		Name: "id",
		Params: []ast.Param{
			{Name: "T", Poly: true},
			{Name: "v", Type: identExpr("T")},
		},
		ReturnType: identExpr("T"),
		HasBody:    true,
		Body: []ast.Stmt{
			{Kind: ast.StmtReturn, Value: identExpr("v")},
		},
	}
	call := func(v int64) *ast.Expr {
		return &ast.Expr{Kind: ast.ExprCall, Target: identExpr("id"), Operands: []*ast.Expr{identExpr("i32"), intExpr(v)}}
	}
	sum := &ast.Expr{Kind: ast.ExprBinary, Op: "+", Operands: []*ast.Expr{call(7), call(9)}}
	main := &ast.Declaration{
		Kind:       ast.DeclFunction,
		Name:       "main",
		ReturnType: identExpr("i32"),
		HasBody:    true,
		Body: []ast.Stmt{
			{Kind: ast.StmtReturn, Value: sum},
		},
	}
	return &ast.File{Path: "poly-dedup.corelang", Stmts: []ast.Stmt{
		{Kind: ast.StmtDecl, Decl: id},
		{Kind: ast.StmtDecl, Decl: main},
	}}
}

func identExpr(name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIdent, Name: name}
}

func intExpr(v int64) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprInt, IntVal: v}
}

func boolExpr(v bool) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBool, BoolVal: v}
}
