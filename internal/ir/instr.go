// instr.go defines the intermediate-representation instruction set: a flat, register-based
// three-address form, one Function per emittable declaration. Like package types, it uses
// named typed fields instead of an interface{} payload since every Kind here has a fixed
// shape.
package ir

import (
	"fmt"

	"corec/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind discriminates the operation an Instruction performs.
type Kind int

const (
	Const  Kind = iota // Dst = a compile-time-known value (Imm).
	Move                // Dst = Src1.
	BinOp                // Dst = Src1 Op Src2.
	UnOp                 // Dst = Op Src1.
	Cast                 // Dst = convert(Src1) to Typ, per the cast-kind of types.CanCast.
	Load                 // Dst = *Src1 (dereference a pointer register).
	Store                // *Src1 = Src2 (store through a pointer register); no Dst.
	AddrOfStatic         // Dst = address of the static constant/variable named Sym.
	LoadStatic           // Dst = current value of static variable named Sym.
	StoreStatic          // static variable named Sym = Src1; no Dst.
	MemberAddr           // Dst = Src1 + constant byte Offset (struct/union member, or array base).
	ArrayLen             // Dst = length word of the runtime array register Src1.
	ArrayElemAddr        // Dst = Src1.pointer + Src2 * Size (bounds not checked:  leaves
	// runtime-array bounds checking to the Non-goals list the original distillation carried).
	Call                 // Dst (optional, Typ == Void when absent) = call Sym(Args...).
	CallIndirect         // Dst (optional) = call through function-pointer register Src1(Args...).
	Jump                 // Unconditional branch to Target.
	JumpIfFalse          // Branch to Target when register Src1 is false.
	Label                // A branch target; carries no operation.
	Return               // Return Src1 (Typ == Void when the function returns nothing).
	Phi                  // Dst = Srcs[i] coming from predecessor block i (loop/if value join).
)

var kindNames = [...]string{
	"Const", "Move", "BinOp", "UnOp", "Cast", "Load", "Store", "AddrOfStatic", "LoadStatic",
	"StoreStatic", "MemberAddr", "ArrayLen", "ArrayElemAddr", "Call", "CallIndirect", "Jump",
	"JumpIfFalse", "Label", "Return", "Phi",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "<unknown ir kind>"
}

// Instruction is one flat, register-based operation.
type Instruction struct {
	Kind Kind
	Typ  *types.Type // The type of Dst (or of the operation, for Store/Return/Jump*).

	Dst  int // Register index; -1 for a call whose callee returns nothing. Unused (left 0) by kinds with no destination.
	Src1 int
	Src2 int

	Imm    types.Value // Const.
	Op     string      // BinOp/UnOp operator symbol.
	Sym    string      // Call/AddrOfStatic/LoadStatic/StoreStatic target name.
	Offset int         // MemberAddr byte offset.
	Size   int         // ArrayElemAddr element size in bytes.
	Args   []int       // Call/CallIndirect argument register list.
	Target int         // Jump/JumpIfFalse/Phi: label index (Jump*) or predecessor count (Phi).
	Srcs   []int        // Phi: one source register per predecessor.
}

func (i Instruction) String() string {
	switch i.Kind {
	case Label:
		return fmt.Sprintf("L%d:", i.Target)
	case Jump:
		return fmt.Sprintf("\tjump L%d", i.Target)
	case JumpIfFalse:
		return fmt.Sprintf("\tjump_if_false r%d, L%d", i.Src1, i.Target)
	case Return:
		if i.Typ != nil && i.Typ.Kind == types.Void {
			return "\treturn"
		}
		return fmt.Sprintf("\treturn r%d", i.Src1)
	default:
		return fmt.Sprintf("\tr%d = %s(...)", i.Dst, i.Kind)
	}
}

// Function is one generated, emittable function body: a flat instruction list plus the
// register-count high-water-mark a backend needs to allocate storage.
type Function struct {
	Name       string
	Params     []int // Parameter register indices, in declaration order.
	ParamTypes []*types.Type
	Return     *types.Type
	CallConv   string
	NumRegs    int
	Code       []Instruction
	NoMangle   bool
	Libraries  []string
}
