package types

import "testing"

var arch = ArchSizes{AddressSize: 64, DefaultIntegerSize: 32, DefaultFloatSize: 32, BooleanSize: 8}

func TestEqualReflexiveSymmetricTransitive(t *testing.T) {
	ts := []*Type{
		NewInt(32, true), NewInt(32, false), NewInt(64, true),
		NewFloat(32), NewFloat(64),
		{Kind: Bool}, {Kind: Void},
		NewPointer(NewInt(8, false)), NewPointer(NewInt(32, true)),
		NewArray(NewInt(8, false)), NewStaticArray(NewInt(8, false), 4), NewStaticArray(NewInt(8, false), 5),
	}
	for _, a := range ts {
		if !Equal(a, a) {
			t.Errorf("Equal(%v, %v) = false, want true (reflexivity)", a.Kind, a.Kind)
		}
	}
	for _, a := range ts {
		for _, b := range ts {
			if Equal(a, b) != Equal(b, a) {
				t.Errorf("Equal not symmetric for %v, %v", a.Kind, b.Kind)
			}
		}
	}
	// Transitivity on a small constructed chain: pointer(i8) equals itself three ways.
	p1 := NewPointer(NewInt(8, false))
	p2 := NewPointer(NewInt(8, false))
	p3 := NewPointer(NewInt(8, false))
	if !(Equal(p1, p2) && Equal(p2, p3) && Equal(p1, p3)) {
		t.Error("Equal not transitive across independently constructed equal types")
	}
}

func TestEqualPointerDistinctElem(t *testing.T) {
	a := NewPointer(NewInt(8, false))
	b := NewPointer(NewInt(32, true))
	if Equal(a, b) {
		t.Error("pointer-to-u8 should not equal pointer-to-i32")
	}
}

func TestSizeOfStruct(t *testing.T) {
	// struct { a: i32; b: i8; c: i32 } — three bytes of padding follow the i8 so the trailing
	// i32 stays 4-aligned: off 0 (i32), 4 (i8), 8 (i32, 4-aligned) = 12.
	st := &Type{
		Kind: Struct,
		Members: []Member{
			{Name: "a", Type: NewInt(32, true)},
			{Name: "b", Type: NewInt(8, false)},
			{Name: "c", Type: NewInt(32, true)},
		},
	}
	if got := SizeOf(st, arch); got != 12 {
		t.Errorf("SizeOf(struct) = %d, want 12", got)
	}
	if got := MemberOffset(st, 2, arch); got != 8 {
		t.Errorf("MemberOffset(c) = %d, want 8", got)
	}
}

func TestSizeOfUnion(t *testing.T) {
	un := &Type{
		Kind:    Union,
		IsUnion: true,
		Members: []Member{
			{Name: "a", Type: NewInt(8, false)},
			{Name: "b", Type: NewInt(64, true)},
		},
	}
	if got := SizeOf(un, arch); got != 8 {
		t.Errorf("SizeOf(union) = %d, want 8", got)
	}
	if got := MemberOffset(un, 1, arch); got != 0 {
		t.Errorf("MemberOffset in union = %d, want 0", got)
	}
}

func TestIsRuntimeType(t *testing.T) {
	if IsRuntimeType(&Type{Kind: Void}) {
		t.Error("void should not be a runtime type")
	}
	if IsRuntimeType(&Type{Kind: TypeType}) {
		t.Error("type-of-a-type should not be a runtime type")
	}
	if !IsRuntimeType(NewInt(32, true)) {
		t.Error("i32 should be a runtime type")
	}
}

func TestCanCoerceUndeterminedIntRange(t *testing.T) {
	if !RangeCheckInt(127, 8, true) {
		t.Error("127 should fit in i8")
	}
	if RangeCheckInt(128, 8, true) {
		t.Error("128 should not fit in i8")
	}
	if !RangeCheckInt(255, 8, false) {
		t.Error("255 should fit in u8")
	}
	if RangeCheckInt(-1, 8, false) {
		t.Error("-1 should not fit in u8")
	}
}

func TestCanCoerceStructToArray(t *testing.T) {
	u8 := NewInt(8, false)
	src := &Type{Kind: UndeterminedStruct, Members: []Member{
		{Name: "pointer", Type: NewPointer(u8)},
		{Name: "length", Type: &Type{Kind: UndeterminedInt, Signed: true}},
	}}
	dst := NewArray(u8)
	if err := CanCoerce(src, dst, arch); err != nil {
		t.Errorf("expected coercion to succeed, got %s", err)
	}

	bad := &Type{Kind: UndeterminedStruct, Members: []Member{
		{Name: "pointer", Type: NewPointer(u8)},
		{Name: "length", Type: &Type{Kind: UndeterminedFloat}},
	}}
	if err := CanCoerce(bad, dst, arch); err == nil {
		t.Error("expected coercion to fail for float length member")
	}
}

func TestBinOpResultIntegerPromotion(t *testing.T) {
	i8 := NewInt(8, true)
	u32 := NewInt(32, false)
	res, ok := BinOpResult(OpAdd, i8, u32)
	if !ok {
		t.Fatal("expected legal addition")
	}
	if res.IntSize() != 32 || !res.Signed {
		t.Errorf("promote(i8,u32) = size %d signed %v, want size 32 signed true", res.IntSize(), res.Signed)
	}
}

func TestBinOpResultBooleanOnlyCombinesWithBoolean(t *testing.T) {
	if _, ok := BinOpResult(OpBoolAnd, &Type{Kind: Bool}, NewInt(32, true)); ok {
		t.Error("boolean should not combine with integer")
	}
}
