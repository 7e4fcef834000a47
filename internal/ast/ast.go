// ast.go defines the fixed input contract this module accepts from a lexer/parser that does
// not exist yet: a tree of Statement and Expression nodes, each carrying a source range and
// an owning file path. Declarations expose a name, tags, a "has body" flag, and
// statement/parameter/member sub-lists.
//
// The shapes are generic tagged structs with typed payload fields instead of an interface{}
// payload, since every node kind here has a fixed, known shape.
package ast

import "corec/internal/util"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Range re-exports util.Range so ast callers need not import util directly.
type Range = util.Range

// ExprKind discriminates the payload carried by an Expr.
type ExprKind int

const (
	ExprIdent         ExprKind = iota // Name.
	ExprInt                           // IntVal.
	ExprFloat                         // FloatVal.
	ExprString                        // StrVal.
	ExprBool                          // BoolVal.
	ExprArrayLiteral                  // Operands = elements.
	ExprStructLiteral                 // Members = named member expressions.
	ExprBinary                        // Op, Operands[0], Operands[1].
	ExprUnary                         // Op, Operands[0].
	ExprCall                          // Target = callee, Operands = arguments.
	ExprMember                        // Target, Name = member being accessed.
	ExprIndex                         // Target, Operands[0] = index expression.
	ExprCast                          // TypeExpr = target type, Target = value being cast.
	ExprBake                         // Target = polymorphic function, Operands = bake parameters.
	ExprPointerType                  // TypeExpr = pointee type.
	ExprArrayType                    // TypeExpr = element type (runtime-length array).
	ExprStaticArrayType              // TypeExpr = element type, Operands[0] = length expression.
	ExprFunctionType                 // Operands = parameter type expressions, TypeExpr = return type.
	ExprSizeOf                       // TypeExpr = operand type, for size_of(T) built-in.
	ExprTypeOf                       // Target = operand expression, for type_of(expr) built-in.
)

// StructLiteralMember is one `name = value` pair inside a struct literal expression.
type StructLiteralMember struct {
	Name  string
	Value *Expr
}

// Expr is a single expression tree node.
type Expr struct {
	Kind  ExprKind
	Range Range

	Name     string // Identifier name / member name.
	Op       string // Binary/unary operator symbol.
	IntVal   int64
	FloatVal float64
	StrVal   string
	BoolVal  bool

	Operands []*Expr               // Generic sub-expressions: binary/unary operands, call args, array elements, index, function-type params.
	Target   *Expr                 // Callee / member-or-index target / cast-or-bake value or function.
	TypeExpr *Expr                 // Type sub-expression for casts and type-constructor expressions.
	Members  []StructLiteralMember // Struct literal members.
}

// StmtKind discriminates the payload carried by a Stmt.
type StmtKind int

const (
	StmtExpr           StmtKind = iota // Value = evaluated for side effects only.
	StmtVarDecl                        // Name, DeclType (optional), Init (optional).
	StmtAssign                         // Target, Value.
	StmtCompoundAssign                 // Target, Op, Value.
	StmtIf                             // Cond, Then, ElseIfs, Else.
	StmtWhile                          // Cond, Then = body.
	StmtFor                            // VarName, From, To, Then = body.
	StmtReturn                         // Value (optional).
	StmtBreak                          // no payload.
	StmtBlock                          // Then = nested statement list (e.g. static-if branch inlined).
	StmtDecl                           // Decl = a declaration appearing inside a function body.
)

// ElseIf is one `else if` arm of an if-statement.
type ElseIf struct {
	Cond *Expr
	Body []Stmt
}

// Stmt is a single statement tree node.
type Stmt struct {
	Kind  StmtKind
	Range Range

	Name     string
	DeclType *Expr
	Init     *Expr

	Target *Expr
	Value  *Expr
	Op     string

	Cond    *Expr
	Then    []Stmt
	ElseIfs []ElseIf
	Else    []Stmt

	VarName string
	From    *Expr
	To      *Expr

	Decl *Declaration
}

// Tag is a `#tag(params...)` annotation on a declaration, such as `extern`, `no_mangle` or
// `call_conv`.
type Tag struct {
	Name   string
	Params []*Expr
	Range  Range
}

// Param is one parameter of a function declaration or a polymorphic struct/union's parameter
// list.
type Param struct {
	Name     string
	Type     *Expr // nil when Poly is true: inferred from the call-site argument's type.
	Poly     bool  // `$`-prefixed polymorphic determiner.
	Constant bool  // `constant`-marked: the call-site value, not just its type, participates in matching.
	Range    Range
}

// Member is one named member of a struct/union definition.
type Member struct {
	Name  string
	Type  *Expr
	Range Range
}

// DeclKind discriminates the payload carried by a Declaration.
type DeclKind int

const (
	DeclFunction DeclKind = iota
	DeclConstant
	DeclStruct
	DeclUnion
	DeclEnum
	DeclStaticVariable
	DeclStaticIf
)

// Declaration is a single top-level or nested declaration.
type Declaration struct {
	Kind  DeclKind
	Name  string
	Range Range
	Tags  []Tag

	// DeclFunction.
	Params     []Param
	ReturnType *Expr
	HasBody    bool
	Body       []Stmt

	// DeclConstant.
	Value *Expr

	// DeclStruct / DeclUnion / DeclEnum.
	PolyParams  []Param
	Members     []Member
	BackingType *Expr // DeclEnum only.

	// DeclStaticVariable.
	VarType *Expr
	Init    *Expr

	// DeclStaticIf.
	Cond *Expr
	Then []Stmt
	Else []Stmt
}

// File is the parsed root of a single source file: a flat statement list forming the
// top-level scope's contents, matching description of a constant-scope as
// "{statement list, ...}".
type File struct {
	Path  string
	Stmts []Stmt
}
