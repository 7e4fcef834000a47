// process.go implements process_scope: walking a scope's
// statement list, registering each direct declaration in the scope's table, and eagerly
// spawning the job that will resolve it. A static-if's branch is processed by recursively
// calling ProcessScope with the *same* enclosing scope, so its declarations land directly in
// the enclosing declaration table once the condition resolves true.
package sema

import (
	"corec/internal/ast"
	"corec/internal/scope"
)

// ---------------------
// ----- functions -----
// ---------------------

// ProcessScope registers every DeclXxx statement directly in stmts against sc and spawns its
// resolution job. Nested StmtBlock statements are walked as if their statements appeared
// directly in sc.
func ProcessScope(ctx *Context, sc *scope.Scope, stmts []ast.Stmt) {
	for i1 := range stmts {
		st := &stmts[i1]
		switch st.Kind {
		case ast.StmtDecl:
			processDecl(ctx, sc, st.Decl)
		case ast.StmtBlock:
			ProcessScope(ctx, sc, st.Then)
		}
	}
}

// processDecl registers one declaration in sc and spawns its job immediately — the scheduler
// is responsible for the order in which jobs are actually *dispatched*, not for when they are
// *spawned* ( insertion-order scan covers the former).
func processDecl(ctx *Context, sc *scope.Scope, d *ast.Declaration) {
	if d.Kind == ast.DeclStaticIf {
		spawnStaticIf(ctx, sc, d)
		return
	}
	decl := sc.Declare(d.Name, d)
	if d.Kind == ast.DeclStaticVariable {
		decl.IsStaticVar = true
	}
	ensureJobFor(ctx, decl)
}

// ensureJobFor spawns the resolution job appropriate to decl.Node.Kind if one has not already
// been spawned, recording the job's index on decl, and returns that index.
func ensureJobFor(ctx *Context, decl *scope.Decl) int {
	if decl.HasJob {
		return decl.JobID
	}
	n := decl.Node
	var id int
	switch n.Kind {
	case ast.DeclFunction:
		id = spawnFunctionDecl(ctx, decl)
	case ast.DeclConstant:
		id = spawnConstantDecl(ctx, decl)
	case ast.DeclStruct:
		id = spawnAggregateDecl(ctx, decl, false)
	case ast.DeclUnion:
		id = spawnAggregateDecl(ctx, decl, true)
	case ast.DeclEnum:
		id = spawnEnumDecl(ctx, decl)
	case ast.DeclStaticVariable:
		id = spawnStaticVarDecl(ctx, decl)
	}
	decl.HasJob = true
	decl.JobID = id
	return id
}

// isPolyFunctionDecl reports whether any parameter of fn is a polymorphic determiner ($T) or
// a constant-marked parameter, per.
func isPolyFunctionDecl(fn *ast.Declaration) bool {
	for _, p := range fn.Params {
		if p.Poly || p.Constant {
			return true
		}
	}
	return false
}

// namesDeclaredBy returns the top-level names a statement list would bind if taken, used to
// seed a static-if's PendingStaticIf name set conservatively.
func namesDeclaredBy(stmts []ast.Stmt) []string {
	var names []string
	for i1 := range stmts {
		st := &stmts[i1]
		switch st.Kind {
		case ast.StmtDecl:
			if st.Decl.Kind != ast.DeclStaticIf {
				names = append(names, st.Decl.Name)
			} else {
				names = append(names, namesDeclaredBy(st.Decl.Then)...)
				names = append(names, namesDeclaredBy(st.Decl.Else)...)
			}
		case ast.StmtBlock:
			names = append(names, namesDeclaredBy(st.Then)...)
		}
	}
	return names
}
