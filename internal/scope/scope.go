// scope.go implements the scope model: nested lexical scopes carrying a statement list, a
// declaration table, scope-local constants, and a parent link. Lookup walks up to the root
// then falls through to the built-in GlobalInfo supplied by the driver.
//
// The declaration table is a plain map[string]*Decl: a Go map already performs open chaining
// internally, making it the idiomatic equivalent of a hand-rolled open-chained hash table.
package scope

import (
	"corec/internal/ast"
	"corec/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Decl is one binding held in a Scope's declaration table. It starts empty (just the AST
// node and the job that will resolve it) and is filled in once that job reaches Done.
type Decl struct {
	Name     string
	Node     *ast.Declaration
	DefScope *Scope // The scope this declaration was declared directly in.
	JobID    int    // Index into the job list responsible for resolving this declaration.
	HasJob   bool   // False until a job has been spawned for this declaration.
	Resolved bool
	Type     *types.Type
	Value    types.Value

	// IsStaticVar distinguishes a DeclStaticVariable binding from a true constant: package
	// ir's identifier lowering must emit a reference-static instruction for one and fold the
	// other directly, since a static variable's current value is not known at compile time
	// even though its *initial* image is.
	IsStaticVar bool
}

// Scope is a node in the lexical environment tree.
type Scope struct {
	Path     string // Owning file path.
	TopLevel bool
	Parent   *Scope

	Stmts []ast.Stmt // The scope's own statement list.

	decls  map[string]*Decl
	consts map[string]types.Value // Scope-local named constants (e.g. polymorphic determiners).

	// PendingStaticIfs holds one record (job index plus the names its branches would declare)
	// per static-if declaration directly nested in this scope that has not yet resolved. Any lookup that might match a name hidden
	// inside one of these branches must suspend on it rather than report "not found"
	//, because the branch could still turn out to be taken.
	PendingStaticIfs []PendingStaticIf
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns a new, empty Scope with parent as its enclosing scope.
func New(path string, parent *Scope, topLevel bool) *Scope {
	return &Scope{
		Path:     path,
		Parent:   parent,
		TopLevel: topLevel,
		decls:    make(map[string]*Decl, 32),
		consts:   make(map[string]types.Value, 4),
	}
}

// Declare registers a new declaration table entry for name, bound to the given AST node. It
// returns the existing entry unchanged if name is already declared in this scope.
func (s *Scope) Declare(name string, node *ast.Declaration) *Decl {
	if d, ok := s.decls[name]; ok {
		return d
	}
	d := &Decl{Name: name, Node: node, DefScope: s}
	s.decls[name] = d
	return d
}

// Local returns the declaration table entry for name if it exists directly in this scope
// (not walking to parents), and whether it was found.
func (s *Scope) Local(name string) (*Decl, bool) {
	d, ok := s.decls[name]
	return d, ok
}

// SetConst binds name to a scope-local constant value, used for polymorphic determiners and
// `constant`-marked parameters materialised into a synthetic signature scope.
func (s *Scope) SetConst(name string, v types.Value) {
	s.consts[name] = v
}

// LocalConst returns the scope-local constant bound to name in this scope only.
func (s *Scope) LocalConst(name string) (types.Value, bool) {
	v, ok := s.consts[name]
	return v, ok
}

// AllLocal returns every declaration entry directly in this scope, in no particular order;
// used by job dispatch to enumerate a scope's pending declarations.
func (s *Scope) AllLocal() []*Decl {
	out := make([]*Decl, 0, len(s.decls))
	for _, d := range s.decls {
		out = append(out, d)
	}
	return out
}
