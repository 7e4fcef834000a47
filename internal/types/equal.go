// equal.go implements structural type equality ( type-equal): two types are
// equal iff their tags match and all payload fields are recursively equal.
package types

// ---------------------
// ----- functions -----
// ---------------------

// Equal reports whether a and b are structurally identical types.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true // Signedness is implied by Kind already.
	case F32, F64, Bool, Void, Undef, UndeterminedInt, UndeterminedFloat:
		return true
	case Pointer, Array:
		return Equal(a.Elem, b.Elem)
	case StaticArray:
		return a.Length == b.Length && Equal(a.Elem, b.Elem)
	case UndeterminedStruct:
		return membersEqual(a.Members, b.Members)
	case Struct, Union:
		// Structural equality for a concrete struct/union is anchored on the originating
		// definition: two instantiations of the same definition with identical resolved
		// member types are the same type, but two structurally-identical structs declared
		// separately are not.
		if a.Def != b.Def {
			return false
		}
		return membersEqual(a.Members, b.Members)
	case PolyStruct, PolyUnion:
		if a.PolyDef != b.PolyDef {
			return false
		}
		return typeSliceEqual(a.PolyParamTypes, b.PolyParamTypes)
	case PolyFunction:
		return a.FuncDecl == b.FuncDecl && a.ParentScope == b.ParentScope
	case Enum:
		if a.Def != b.Def {
			return false
		}
		return Equal(a.Backing, b.Backing)
	case Function:
		if a.CallConv != b.CallConv {
			return false
		}
		if !Equal(a.Return, b.Return) {
			return false
		}
		return typeSliceEqual(a.Params, b.Params)
	case FileModule:
		return a.ModuleScope == b.ModuleScope
	case TypeType, BuiltinFunction:
		return true
	}
	return false
}

func membersEqual(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i1 := range a {
		if a[i1].Name != b[i1].Name || !Equal(a[i1].Type, b[i1].Type) {
			return false
		}
	}
	return true
}

func typeSliceEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i1 := range a {
		if !Equal(a[i1], b[i1]) {
			return false
		}
	}
	return true
}

// ValueEqual reports whether a and b are the same constant value, used by polymorphic
// instantiation deduplication for `constant`-marked parameters : two
// instantiation requests match only if their polymorphic-determiner types are equal and
// their constant-marked argument values are equal.
func ValueEqual(a, b Value) bool {
	if !Equal(a.Type, b.Type) {
		return false
	}
	switch a.Type.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64, UndeterminedInt:
		return a.Int64() == b.Int64()
	case F32, F64, UndeterminedFloat:
		return a.Float == b.Float
	case Bool:
		return a.Bool == b.Bool
	case Void:
		return true
	case Pointer:
		return a.Ptr == b.Ptr
	case Array:
		return a.ArrPtr == b.ArrPtr && a.ArrLen == b.ArrLen
	case StaticArray:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i1 := range a.Elems {
			if !ValueEqual(a.Elems[i1], b.Elems[i1]) {
				return false
			}
		}
		return true
	case Struct, UndeterminedStruct:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i1 := range a.Members {
			if !ValueEqual(a.Members[i1], b.Members[i1]) {
				return false
			}
		}
		return true
	case FileModule:
		return a.ModuleScope == b.ModuleScope
	case TypeType:
		return Equal(a.TypeVal, b.TypeVal)
	case Function, PolyFunction:
		return a.FuncDecl == b.FuncDecl
	case BuiltinFunction:
		return a.BuiltinName == b.BuiltinName
	}
	return false
}
